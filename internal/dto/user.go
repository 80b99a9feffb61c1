package dto

import (
	"time"

	"github.com/monetaflow/wallet_backend/internal/core/domain"
)

// UpdateUserRequest defines the data allowed for updating a user.
// Using pointers to differentiate between omitted fields and zero-value fields.
type UpdateUserRequest struct {
	Name *string `json:"name"`
}

// UpdateKycRequest carries the travel-rule identity fields for the user.
type UpdateKycRequest struct {
	LegalName   string    `json:"legalName" binding:"required"`
	City        string    `json:"city" binding:"required"`
	Country     string    `json:"country" binding:"required,len=2,uppercase"`
	DateOfBirth time.Time `json:"dateOfBirth" binding:"required"`
}

// UserResponse defines the data returned for a user.
type UserResponse struct {
	UserID    string `json:"userID"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	LegalName string `json:"legalName,omitempty"`
	City      string `json:"city,omitempty"`
	Country   string `json:"country,omitempty"`
}

// ToUserResponse converts a domain.User to UserResponse DTO
func ToUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		UserID:    user.UserID,
		Username:  user.Username,
		Email:     user.Email,
		Name:      user.Name,
		LegalName: user.LegalName,
		City:      user.City,
		Country:   user.Country,
	}
}
