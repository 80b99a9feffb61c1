package services

import (
	"context"

	"github.com/monetaflow/wallet_backend/internal/core/domain"
	"github.com/monetaflow/wallet_backend/internal/dto"
)

// UserReaderSvc defines read operations for user data
type UserReaderSvc interface {
	// GetUserByID retrieves a specific user by their ID.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)

	// GetKycData builds the KYC payload attached to outbound payment commands.
	// Fails with ErrValidation when the user has not completed KYC.
	GetKycData(ctx context.Context, userID string) (*domain.KycData, error)
}

// UserWriterSvc defines write operations for user data
type UserWriterSvc interface {
	// RegisterUser creates a user with a bcrypt password hash and their account.
	RegisterUser(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error)

	// UpdateUser updates an existing user's details.
	UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest) (*domain.User, error)

	// UpdateKyc stores the user's travel-rule identity fields.
	UpdateKyc(ctx context.Context, userID string, req dto.UpdateKycRequest) (*domain.User, error)

	// FindOrCreateGoogleUser resolves a Google identity to a local user,
	// creating the user and their account on first login.
	FindOrCreateGoogleUser(ctx context.Context, info *domain.GoogleUserInfo) (*domain.User, error)
}

// UserAuthenticatorSvc verifies credentials on the password login path.
type UserAuthenticatorSvc interface {
	// AuthenticateUser checks username and password, returning the user on success.
	AuthenticateUser(ctx context.Context, username, password string) (*domain.User, error)
}

// UserSvcFacade combines all user-related service interfaces
type UserSvcFacade interface {
	UserReaderSvc
	UserWriterSvc
	UserAuthenticatorSvc
}
