package handler

import (
	"github.com/bookinghub/user-service/internal/core/ports"
)

// --- Request / Response types ---

type registerRequest struct {
	Username    string `json:"username"      validate:"required,min=3"`
	Password    string `json:"password"      validate:"required"`
	Role        string `json:"role"          validate:"omitempty"`
	Fullname    string `json:"fullname"      validate:"omitempty"`
	DateOfBirth string `json:"date_of_birth" validate:"omitempty"`
	Email       string `json:"email"         validate:"omitempty,email"`
	PhoneNumber string `json:"phone_number"  validate:"omitempty"`
	Address     string `json:"address"       validate:"omitempty"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type updateUserRequest struct {
	Fullname    *string `json:"fullname"`
	DateOfBirth *string `json:"date_of_birth"`
	Email       *string `json:"email" validate:"omitempty,email"`
	PhoneNumber *string `json:"phone_number"`
	Address     *string `json:"address"`
}

type listUsersQuery struct {
	Username    string `query:"username"`
	Fullname    string `query:"fullname"`
	DateOfBirth string `query:"date_of_birth"`
	Email       string `query:"email"`
	PhoneNumber string `query:"phone_number"`
	Address     string `query:"address"`
	Role        string `query:"role"`
}

// Response-only types owned by the transport layer. These are intentionally
// separate from ports/domain types so the JSON contract is not coupled to
// internal service changes.

type tokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type registerResponse struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	Status   string `json:"status"`
}

type loginResponse struct {
	Username string            `json:"username"`
	Role     string            `json:"role"`
	Tokens   tokenPairResponse `json:"tokens"`
}

type myProfileResponse struct {
	Status      int               `json:"status"`
	Code        string            `json:"code"`
	Message     string            `json:"message"`
	RequestedAt string            `json:"requested_at"`
	Tokens      tokenPairResponse `json:"tokens"`
	Data        ports.Profile     `json:"data"`
}

type listUsersResponse struct {
	Users []ports.Profile `json:"users"`
	Total int             `json:"total"`
}
