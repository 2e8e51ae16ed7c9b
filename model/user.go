package model

import "time"

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

type User struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         *string   `json:"phone,omitempty"`
	PasswordHash  string    `json:"-"`
	Role          Role      `json:"role"`
	EmailVerified bool      `json:"email_verified"`
	PhoneVerified bool      `json:"phone_verified"`
	Points        int64     `json:"points"`
	Level         int       `json:"level"`
	CreatedAt     time.Time `json:"created_at"`

	EmailCode          *string    `json:"-"`
	EmailCodeExpiresAt *time.Time `json:"-"`
	PhoneCode          *string    `json:"-"`
	PhoneCodeExpiresAt *time.Time `json:"-"`
}

type RegisterReq struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone"`
	Senha string `json:"senha" validate:"required,min=6"`
}

type LoginReq struct {
	Email string `json:"email" validate:"required"`
	Senha string `json:"senha" validate:"required"`
}

type VerifyReq struct {
	Identifier string `json:"identifier" validate:"required"`
	Code       string `json:"code" validate:"required"`
}

type ResendReq struct {
	Identifier string `json:"identifier" validate:"required"`
}
