package model

type UserRole string

const (
	UserRoleSystemAdmin    UserRole = "مدير النظام"
	UserRoleContractEditor UserRole = "محرر عقود"
	UserRoleAdminAssistant UserRole = "مساعد إداري"
)

type UserStatus string

const (
	UserStatusActive   UserStatus = "نشط"
	UserStatusInactive UserStatus = "غير نشط"
)

// User is an office account. Phone is the login selector and the password is
// kept in plaintext; neither is enforced unique by the store.
type User struct {
	ID       int64      `json:"id"`
	Name     string     `json:"name"`
	Phone    string     `json:"phone"`
	Password string     `json:"password,omitempty"`
	Role     UserRole   `json:"role"`
	Status   UserStatus `json:"status"`
}

func (u User) IsActive() bool {
	return u.Status == UserStatusActive
}

// Public returns a copy without the password.
func (u User) Public() User {
	u.Password = ""
	return u
}

type AuditLogEntry struct {
	ID        int64  `json:"id"`
	Timestamp string `json:"timestamp"`
	User      string `json:"user"`
	Action    string `json:"action"`
}
