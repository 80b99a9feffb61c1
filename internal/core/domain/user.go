package domain

import "time"

// User represents a wallet user within the core domain.
type User struct {
	UserID       string `json:"userID"` // Primary Key (UUID)
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"` // Never serialized
	Name         string `json:"name"`

	// KYC data exchanged with counterparty VASPs during off-chain payments.
	LegalName   string     `json:"legalName"`
	City        string     `json:"city"`
	Country     string     `json:"country"` // ISO 3166-1 alpha-2
	DateOfBirth *time.Time `json:"dateOfBirth,omitempty"`

	// Refresh token state; the raw token is never stored.
	RefreshTokenHash       string     `json:"-"`
	RefreshTokenExpiryTime *time.Time `json:"-"`

	// Google OAuth linkage.
	GoogleID string `json:"-"`

	AuditFields
}

// GoogleUserInfo is the subset of the Google userinfo payload the wallet consumes.
type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// KycData is the KYC payload attached to outbound payment commands.
type KycData struct {
	Type        string `json:"type"` // always "individual" for wallet users
	GivenName   string `json:"given_name"`
	Surname     string `json:"surname"`
	City        string `json:"city"`
	Country     string `json:"country"`
	DateOfBirth string `json:"dob,omitempty"` // YYYY-MM-DD
}
