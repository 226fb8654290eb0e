package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LoginRequest holds credentials for authenticating a user. The role selects
// which account table is consulted; there is one table per role.
type LoginRequest struct {
	Role     UserRole `json:"role" validate:"required,oneof=ADMIN WORKER CUSTOMER"`
	Email    string   `json:"email" validate:"required,email"`
	Password string   `json:"password" validate:"required"`
}

// LoginResponse returns the issued token and user info.
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresIn   int64     `json:"expires_in"`
	User        UserInfo  `json:"user"`
	IssuedAt    time.Time `json:"issued_at"`
}

// UserInfo describes the authenticated user in responses.
type UserInfo struct {
	ID       string   `json:"id"`
	Email    string   `json:"email"`
	FullName string   `json:"full_name"`
	Role     UserRole `json:"role"`
}

// RegisterCustomerRequest is the payload for customer self-registration.
type RegisterCustomerRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required,max=20"`
	Password string `json:"password" validate:"required,min=6"`
	Street   string `json:"street" validate:"omitempty,max=200"`
	City     string `json:"city" validate:"omitempty,max=100"`
	Pincode  string `json:"pincode" validate:"omitempty,max=10"`
}

// RegisterWorkerRequest is the payload for worker self-registration.
type RegisterWorkerRequest struct {
	Name            string  `json:"name" validate:"required,max=100"`
	Email           string  `json:"email" validate:"required,email"`
	Phone           string  `json:"phone" validate:"required,max=20"`
	Password        string  `json:"password" validate:"required,min=6"`
	SkillType       string  `json:"skill_type" validate:"required,max=100"`
	ExperienceYears int     `json:"experience_years" validate:"gte=0,lte=60"`
	CategoryID      *string `json:"category_id" validate:"omitempty,uuid"`
	Street          string  `json:"street" validate:"omitempty,max=200"`
	City            string  `json:"city" validate:"omitempty,max=100"`
	Pincode         string  `json:"pincode" validate:"omitempty,max=10"`
}

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	UserID   string   `json:"user_id"`
	Role     UserRole `json:"role"`
	FullName string   `json:"full_name"`
	jwt.RegisteredClaims
}

// Identity converts token claims into a request-scoped identity.
func (c *JWTClaims) Identity() Identity {
	return Identity{UserID: c.UserID, Role: c.Role, FullName: c.FullName}
}
