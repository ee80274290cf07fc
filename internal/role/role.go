package role

type Role struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type Repository interface {
	GetAllActive() ([]Role, error)
}
