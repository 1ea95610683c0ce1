package models

import "time"

type User struct {
	UserID    string    `json:"userid" bson:"userid"`
	Email     string    `json:"email" bson:"email"`
	Password  string    `json:"-" bson:"password"` // bcrypt hash, never serialized
	Role      string    `json:"role" bson:"role"`  // "user" or "admin"
	IsAdmin   bool      `json:"isAdmin" bson:"isAdmin"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// PublicFields returns the subset of user data safe to hand to clients.
func (u User) PublicFields() map[string]any {
	return map[string]any{
		"userid":  u.UserID,
		"email":   u.Email,
		"role":    u.Role,
		"isAdmin": u.IsAdmin,
	}
}
