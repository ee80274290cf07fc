package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/intraforms/portal-api/internal"
	"github.com/intraforms/portal-api/pkg/logger"
)

var _ = ginkgo.Describe("RBACAuthorization", func() {
	var (
		rbac *RBACAuthorization
		next http.Handler
	)

	ginkgo.BeforeEach(func() {
		rbac = NewRBACAuthorization(logger.L())
		next = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
	})

	serve := func(principal *internal.Principal, required ...string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
		if principal != nil {
			req = req.WithContext(internal.ContextWithPrincipal(req.Context(), principal))
		}
		rec := httptest.NewRecorder()
		rbac.RequirePermissions(required...)(next).ServeHTTP(rec, req)
		return rec
	}

	decodeMessage := func(rec *httptest.ResponseRecorder) string {
		var body map[string]interface{}
		gomega.Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(gomega.Succeed())
		gomega.Expect(body["success"]).To(gomega.Equal(false))
		msg, _ := body["message"].(string)
		return msg
	}

	ginkgo.Context("without an authenticated principal", func() {
		ginkgo.It("should deny with 401", func() {
			rec := serve(nil, "users.read")

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
			gomega.Expect(decodeMessage(rec)).To(gomega.Equal("Authentication required"))
		})
	})

	ginkgo.Context("when the permissions claim was missing or undecodable", func() {
		ginkgo.It("should deny with a generic 403", func() {
			principal := &internal.Principal{UserID: 7, Username: "jdoe", Permissions: nil}

			rec := serve(principal, "users.read")

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusForbidden))
			gomega.Expect(decodeMessage(rec)).To(gomega.Equal("Forbidden"))
		})
	})

	ginkgo.Context("when the principal lacks the required permission", func() {
		ginkgo.It("should deny with 403 insufficient permissions", func() {
			principal := &internal.Principal{
				UserID:      7,
				Username:    "jdoe",
				Permissions: []internal.PermissionClaim{{Name: "quicklinks.create"}},
			}

			rec := serve(principal, "users.read")

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusForbidden))
			gomega.Expect(decodeMessage(rec)).To(gomega.Equal("Insufficient permissions"))
		})

		ginkgo.It("should treat a decoded empty grant set the same way", func() {
			principal := &internal.Principal{
				UserID:      7,
				Username:    "jdoe",
				Permissions: []internal.PermissionClaim{},
			}

			rec := serve(principal, "users.read")

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusForbidden))
			gomega.Expect(decodeMessage(rec)).To(gomega.Equal("Insufficient permissions"))
		})
	})

	ginkgo.Context("when the principal holds a matching permission", func() {
		ginkgo.It("should pass the request through", func() {
			principal := &internal.Principal{
				UserID:      7,
				Username:    "jdoe",
				Permissions: []internal.PermissionClaim{{Name: "users.read", Resource: "users", Action: "read"}},
			}

			rec := serve(principal, "users.read")

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
		})

		ginkgo.It("should authorize on any single match", func() {
			principal := &internal.Principal{
				UserID:      7,
				Username:    "jdoe",
				Permissions: []internal.PermissionClaim{{Name: "users.update"}},
			}

			rec := serve(principal, "users.read", "users.update")

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
		})
	})
})

var _ = ginkgo.Describe("AuthMiddleware", func() {
	var (
		handler  *Handler
		service  *Service
		mockRepo *mockAuthRepository
	)

	ginkgo.BeforeEach(func() {
		mockRepo = newMockAuthRepository()
		tokenGen := NewJWTTokenGenerator(
			"middleware-access-secret-0123456789",
			"middleware-refresh-secret-0123456789",
			15*time.Minute, 24*time.Hour, "portal", "portal-clients")
		service = NewService(mockRepo, tokenGen, 0, nil)
		handler = NewHandler(service)
	})

	serve := func(authorization string) (*httptest.ResponseRecorder, *internal.Principal) {
		var captured *internal.Principal
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			captured, _ = internal.PrincipalFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
		if authorization != "" {
			req.Header.Set("Authorization", authorization)
		}
		rec := httptest.NewRecorder()
		handler.AuthMiddleware(next).ServeHTTP(rec, req)
		return rec, captured
	}

	ginkgo.It("should reject a request without a token", func() {
		rec, _ := serve("")
		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
	})

	ginkgo.It("should reject a garbage token", func() {
		rec, _ := serve("Bearer not.a.token")
		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
	})

	ginkgo.It("should attach the decoded principal for a valid token", func() {
		result, err := service.Authenticate(LoginDTO{Username: "admin", Password: "correct_password"})
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		rec, principal := serve("Bearer " + result.Token)

		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
		gomega.Expect(principal).ToNot(gomega.BeNil())
		gomega.Expect(principal.UserID).To(gomega.Equal(int64(2)))
		gomega.Expect(principal.Username).To(gomega.Equal("admin"))
		gomega.Expect(principal.Permissions).To(gomega.HaveLen(2))
	})
})
