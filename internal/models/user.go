package models

import "time"

// User mirrors the users table.
type User struct {
	UserID                 string     `db:"user_id"`
	Username               string     `db:"username"`
	Email                  string     `db:"email"`
	PasswordHash           string     `db:"password_hash"`
	Name                   string     `db:"name"`
	LegalName              string     `db:"legal_name"`
	City                   string     `db:"city"`
	Country                string     `db:"country"`
	DateOfBirth            *time.Time `db:"date_of_birth"`
	RefreshTokenHash       string     `db:"refresh_token_hash"`
	RefreshTokenExpiryTime *time.Time `db:"refresh_token_expiry_time"`
	GoogleID               string     `db:"google_id"`
	AuditFields
}
