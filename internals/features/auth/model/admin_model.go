package model

import "time"

// AdminCollection holds one document per operator: email, password, name.
const AdminCollection = "admin"

const DefaultAdminName = "Admin"

// Admin is the signed-in operator as carried in the session token.
type Admin struct {
	Email   string    `json:"email"`
	Name    string    `json:"name"`
	LoginAt time.Time `json:"login_at"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
