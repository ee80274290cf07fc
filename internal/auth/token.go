package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/intraforms/portal-api/internal"
)

// AccessClaims is the access-token claim set. Identifiers are carried as
// strings and the permission list as a JSON-encoded claim, matching what the
// portal frontend already decodes.
type AccessClaims struct {
	UserID       string   `json:"userId"`
	Username     string   `json:"username"`
	DepartmentID string   `json:"department_id,omitempty"`
	Roles        []string `json:"roles,omitempty"`
	Permissions  string   `json:"permissions,omitempty"`
	jwt.RegisteredClaims
}

// DecodePermissions unmarshals the permissions claim. A missing or
// undecodable claim is an error; the permission gate turns that into a
// denial rather than treating it as an empty grant.
func (c *AccessClaims) DecodePermissions() ([]internal.PermissionClaim, error) {
	if c.Permissions == "" {
		return nil, errors.New("permissions claim missing")
	}
	var perms []internal.PermissionClaim
	if err := json.Unmarshal([]byte(c.Permissions), &perms); err != nil {
		return nil, fmt.Errorf("decode permissions claim: %w", err)
	}
	if perms == nil {
		perms = []internal.PermissionClaim{}
	}
	return perms, nil
}

// Principal builds the request principal from validated claims. Permission
// decode failures leave Permissions nil so the gate can distinguish an
// unusable claim from an empty one.
func (c *AccessClaims) Principal() *internal.Principal {
	p := &internal.Principal{
		Username: c.Username,
		Roles:    c.Roles,
	}
	if id, err := strconv.ParseInt(c.UserID, 10, 64); err == nil {
		p.UserID = id
	}
	if c.DepartmentID != "" {
		if dept, err := strconv.ParseInt(c.DepartmentID, 10, 64); err == nil {
			p.DepartmentID = &dept
		}
	}
	if perms, err := c.DecodePermissions(); err == nil {
		p.Permissions = perms
	}
	return p
}

// RefreshClaims carries only the user id; refresh tokens are signed with a
// separate secret.
type RefreshClaims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// TokenGenerator creates and validates the signed token pair.
type TokenGenerator interface {
	GenerateAccessToken(user *UserAccount, roles []string, permissions []internal.PermissionClaim) (string, error)
	GenerateRefreshToken(userID int64) (string, error)
	ValidateAccessToken(tokenString string) (*AccessClaims, error)
	ValidateRefreshToken(tokenString string) (*RefreshClaims, error)
}

type JWTTokenGenerator struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Issuer        string
	Audience      string
}

func NewJWTTokenGenerator(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration, issuer, audience string) *JWTTokenGenerator {
	return &JWTTokenGenerator{
		AccessSecret:  []byte(accessSecret),
		RefreshSecret: []byte(refreshSecret),
		AccessTTL:     accessTTL,
		RefreshTTL:    refreshTTL,
		Issuer:        issuer,
		Audience:      audience,
	}
}

func (j *JWTTokenGenerator) GenerateAccessToken(user *UserAccount, roles []string, permissions []internal.PermissionClaim) (string, error) {
	permsJSON, err := json.Marshal(permissions)
	if err != nil {
		return "", fmt.Errorf("marshal permissions claim: %w", err)
	}

	now := time.Now()
	userID := strconv.FormatInt(user.ID, 10)
	claims := &AccessClaims{
		UserID:      userID,
		Username:    user.Username,
		Roles:       roles,
		Permissions: string(permsJSON),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    j.Issuer,
			Audience:  jwt.ClaimStrings{j.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.AccessTTL)),
		},
	}
	if user.DepartmentID != nil {
		claims.DepartmentID = strconv.FormatInt(*user.DepartmentID, 10)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.AccessSecret)
}

func (j *JWTTokenGenerator) GenerateRefreshToken(userID int64) (string, error) {
	now := time.Now()
	claims := &RefreshClaims{
		UserID: strconv.FormatInt(userID, 10),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.RefreshTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.RefreshSecret)
}

func (j *JWTTokenGenerator) ValidateAccessToken(tokenString string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	err := j.parse(tokenString, claims, j.AccessSecret,
		jwt.WithIssuer(j.Issuer), jwt.WithAudience(j.Audience))
	if err != nil {
		return nil, err
	}
	return claims, nil
}

func (j *JWTTokenGenerator) ValidateRefreshToken(tokenString string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := j.parse(tokenString, claims, j.RefreshSecret); err != nil {
		return nil, err
	}
	return claims, nil
}

func (j *JWTTokenGenerator) parse(tokenString string, claims jwt.Claims, secret []byte, opts ...jwt.ParserOption) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrTokenExpired
		}
		return ErrInvalidToken
	}
	if !token.Valid {
		return ErrInvalidToken
	}
	return nil
}
