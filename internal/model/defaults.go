package model

// DefaultUsers seeds a fresh system with one administrator so the first login
// is possible.
func DefaultUsers() []User {
	return []User{
		{
			ID:       1,
			Name:     "ناجي احمد امجاور",
			Phone:    "0911426106",
			Password: "01234",
			Role:     UserRoleSystemAdmin,
			Status:   UserStatusActive,
		},
	}
}
