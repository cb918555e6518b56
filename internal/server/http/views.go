package http

import (
	"time"

	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

// UserView is the public shape of a user. It has no password field.
type UserView struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      *string   `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func NewUserView(u *models.User) UserView {
	v := UserView{
		ID:        u.ID,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
	if u.Name != "" {
		name := u.Name
		v.Name = &name
	}
	return v
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	User   UserView          `json:"user"`
	Tokens *models.TokenPair `json:"tokens"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
