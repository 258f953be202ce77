package auth

import "backend-communityhub/internal/storage"

type LoginRequest struct {
	Email    string `form:"email"`
	Password string `form:"password"`
}

// SignRequest is the plain sign-up form.
type SignRequest struct {
	Username string `form:"username" validate:"required,max=100"`
	Email    string `form:"email" validate:"required,max=320"`
	Password string `form:"password" validate:"required,max=200"`
}

// RegisterRequest is the profile sign-up form; the avatar arrives as a
// multipart file next to these fields.
type RegisterRequest struct {
	Username string `form:"username" validate:"required,max=100"`
	Email    string `form:"email" validate:"required,max=320"`
	Password string `form:"password" validate:"required,max=200"`
	Bio      string `form:"bio" validate:"max=1000"`
}

type NewAccount struct {
	Username string
	Email    string
	Password string
	Bio      string
	Avatar   *storage.Attachment
}
