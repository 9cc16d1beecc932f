package domain

type User struct {
	ID     string   `json:"id"`
	Nombre string   `json:"nombre"`
	Email  string   `json:"email"`
	Role   UserRole `json:"rol"`
}

type UserRole string

const (
	RoleAdmin     UserRole = "admin"
	RoleEncargado UserRole = "encargado"
	RoleCocina    UserRole = "cocina"
)

func (r UserRole) IsValid() bool {
	switch r {
	case RoleAdmin, RoleEncargado, RoleCocina:
		return true
	default:
		return false
	}
}

func (u *User) HasRole(requiredRole UserRole) bool {
	switch requiredRole {
	case RoleAdmin:
		return u.Role == RoleAdmin
	case RoleEncargado:
		return u.Role == RoleEncargado || u.Role == RoleAdmin
	case RoleCocina:
		return u.Role == RoleCocina || u.Role == RoleEncargado || u.Role == RoleAdmin
	default:
		return false
	}
}
