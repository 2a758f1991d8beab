package entity

import "time"

// Roles válidos para User.
const (
	RoleSuperAdmin  = "superadmin"
	RoleSchoolAdmin = "school_admin"
	RoleStaff       = "staff"
)

// IsValidRole informa si role es uno de los roles conocidos.
func IsValidRole(role string) bool {
	return role == RoleSuperAdmin || role == RoleSchoolAdmin || role == RoleStaff
}

// User representa un usuario de la plataforma. SchoolID vacío solo para superadmin.
type User struct {
	ID           string
	SchoolID     string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // superadmin, school_admin, staff
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
