package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/monetaflow/wallet_backend/internal/apperrors"
	"github.com/monetaflow/wallet_backend/internal/core/domain"
	portsrepo "github.com/monetaflow/wallet_backend/internal/core/ports/repositories"
	portssvc "github.com/monetaflow/wallet_backend/internal/core/ports/services"
	"github.com/monetaflow/wallet_backend/internal/dto"
	"github.com/monetaflow/wallet_backend/internal/middleware"
	"github.com/monetaflow/wallet_backend/internal/utils"
)

// userService provides user registration, authentication and KYC management.
type userService struct {
	userRepo   portsrepo.UserRepositoryFacade
	accountSvc portssvc.AccountWriterSvc
}

// NewUserService creates a new user service. The account writer is needed
// because every registered user gets an account provisioned immediately.
func NewUserService(userRepo portsrepo.UserRepositoryFacade, accountSvc portssvc.AccountWriterSvc) portssvc.UserSvcFacade {
	return &userService{
		userRepo:   userRepo,
		accountSvc: accountSvc,
	}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

func (s *userService) RegisterUser(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := domain.User{
		UserID:       uuid.NewString(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: passwordHash,
		Name:         req.Name,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     "registration",
			LastUpdatedAt: now,
			LastUpdatedBy: "registration",
		},
	}

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: username or email already taken", apperrors.ErrDuplicate)
		}
		logger.Error("Failed to save user", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	if _, err := s.accountSvc.CreateAccountForUser(ctx, user.UserID, user.Username); err != nil {
		logger.Error("Failed to provision account for new user", slog.String("error", err.Error()), slog.String("user_id", user.UserID))
		return nil, fmt.Errorf("failed to provision account: %w", err)
	}

	logger.Info("User registered", slog.String("user_id", user.UserID), slog.String("username", user.Username))
	return &user, nil
}

func (s *userService) AuthenticateUser(ctx context.Context, username, password string) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	user, err := s.userRepo.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Same error as a bad password so usernames cannot be probed.
			return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
		}
		return nil, fmt.Errorf("failed to look up user for login: %w", err)
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		logger.Warn("Password mismatch on login", slog.String("username", username))
		return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
	}

	return user, nil
}

func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}
	return user, nil
}

func (s *userService) UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user for update: %w", err)
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	user.LastUpdatedAt = time.Now()
	user.LastUpdatedBy = userID

	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

func (s *userService) UpdateKyc(ctx context.Context, userID string, req dto.UpdateKycRequest) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user for KYC update: %w", err)
	}

	dob := req.DateOfBirth
	user.LegalName = req.LegalName
	user.City = req.City
	user.Country = req.Country
	user.DateOfBirth = &dob
	user.LastUpdatedAt = time.Now()
	user.LastUpdatedBy = userID

	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		logger.Error("Failed to store KYC data", slog.String("error", err.Error()), slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to update KYC data: %w", err)
	}

	logger.Info("KYC data updated", slog.String("user_id", userID))
	return user, nil
}

// GetKycData builds the payload attached to outbound payment commands.
func (s *userService) GetKycData(ctx context.Context, userID string) (*domain.KycData, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user for KYC payload: %w", err)
	}
	if user.LegalName == "" || user.Country == "" || user.DateOfBirth == nil {
		return nil, fmt.Errorf("%w: user has not completed KYC", apperrors.ErrValidation)
	}

	givenName, surname := splitLegalName(user.LegalName)
	return &domain.KycData{
		Type:        "individual",
		GivenName:   givenName,
		Surname:     surname,
		City:        user.City,
		Country:     user.Country,
		DateOfBirth: user.DateOfBirth.Format("2006-01-02"),
	}, nil
}

func (s *userService) FindOrCreateGoogleUser(ctx context.Context, info *domain.GoogleUserInfo) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	user, err := s.userRepo.FindUserByGoogleID(ctx, info.ID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up user by google ID: %w", err)
	}

	// Link to an existing account with the same email if there is one.
	user, err = s.userRepo.FindUserByEmail(ctx, info.Email)
	if err == nil {
		user.GoogleID = info.ID
		user.LastUpdatedAt = time.Now()
		user.LastUpdatedBy = user.UserID
		if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
			return nil, fmt.Errorf("failed to link google account: %w", err)
		}
		logger.Info("Linked Google identity to existing user", slog.String("user_id", user.UserID))
		return user, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up user by email: %w", err)
	}

	now := time.Now()
	newUser := domain.User{
		UserID:   uuid.NewString(),
		Username: info.Email,
		Email:    info.Email,
		Name:     info.Name,
		GoogleID: info.ID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     "google_oauth",
			LastUpdatedAt: now,
			LastUpdatedBy: "google_oauth",
		},
	}
	if err := s.userRepo.SaveUser(ctx, newUser); err != nil {
		return nil, fmt.Errorf("failed to create user from google login: %w", err)
	}
	if _, err := s.accountSvc.CreateAccountForUser(ctx, newUser.UserID, newUser.Username); err != nil {
		return nil, fmt.Errorf("failed to provision account for google user: %w", err)
	}

	logger.Info("User created from Google login", slog.String("user_id", newUser.UserID))
	return &newUser, nil
}

// splitLegalName breaks a legal name into given name and surname on the last
// space. Single-word names go entirely into the given name.
func splitLegalName(legalName string) (string, string) {
	for i := len(legalName) - 1; i >= 0; i-- {
		if legalName[i] == ' ' {
			return legalName[:i], legalName[i+1:]
		}
	}
	return legalName, ""
}
