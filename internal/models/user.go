package models

const (
	RoleSistemas = "sistemas"
	RoleGerencia = "gerencia"
	RoleStaff    = "staff"
)

// User represents a staff account. PasswordHash is never serialized.
type User struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Role         string `json:"role"`
	Department   string `json:"department"`
	Phone        string `json:"phone,omitempty"`
}
