package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/monetaflow/wallet_backend/internal/apperrors"
	"github.com/monetaflow/wallet_backend/internal/core/domain"
	portsrepo "github.com/monetaflow/wallet_backend/internal/core/ports/repositories"
	"github.com/monetaflow/wallet_backend/internal/models"
	"github.com/monetaflow/wallet_backend/internal/utils/mapping"
)

const accountColumns = `account_id, user_id, name, is_active, created_at, created_by, last_updated_at, last_updated_by`

type PgxAccountRepository struct {
	pool *pgxpool.Pool
}

// NewPgxAccountRepository creates a new repository for account data.
func NewPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{pool: pool}
}

var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

func scanAccount(row pgx.Row) (*models.Account, error) {
	var acct models.Account
	err := row.Scan(
		&acct.AccountID,
		&acct.UserID,
		&acct.Name,
		&acct.IsActive,
		&acct.CreatedAt,
		&acct.CreatedBy,
		&acct.LastUpdatedAt,
		&acct.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &acct, nil
}

func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM accounts WHERE account_id = $1;`, accountColumns)

	acct, err := scanAccount(r.pool.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by ID %s: %w", accountID, err)
	}
	d := mapping.ToDomainAccount(*acct, nil)
	return &d, nil
}

func (r *PgxAccountRepository) FindAccountByUserID(ctx context.Context, userID string) (*domain.Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM accounts WHERE user_id = $1;`, accountColumns)

	acct, err := scanAccount(r.pool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account for user %s: %w", userID, err)
	}
	d := mapping.ToDomainAccount(*acct, nil)
	return &d, nil
}

func (r *PgxAccountRepository) FindAccountBySubaddress(ctx context.Context, subaddress string) (*domain.Account, error) {
	query := `
		SELECT a.account_id, a.user_id, a.name, a.is_active, a.created_at, a.created_by, a.last_updated_at, a.last_updated_by
		FROM accounts a
		JOIN subaddresses s ON s.account_id = a.account_id
		WHERE s.subaddress = $1;
	`
	acct, err := scanAccount(r.pool.QueryRow(ctx, query, subaddress))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by subaddress: %w", err)
	}
	d := mapping.ToDomainAccount(*acct, nil)
	return &d, nil
}

// ListBalances retrieves the per-currency balances of an account.
func (r *PgxAccountRepository) ListBalances(ctx context.Context, accountID string) ([]domain.Balance, error) {
	query := `
		SELECT currency_code, amount
		FROM account_balances
		WHERE account_id = $1
		ORDER BY currency_code;
	`
	rows, err := r.pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query balances for account %s: %w", accountID, err)
	}
	defer rows.Close()

	balances := []domain.Balance{}
	for rows.Next() {
		var b domain.Balance
		var code string
		if err := rows.Scan(&code, &b.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan balance row for account %s: %w", accountID, err)
		}
		b.Currency = domain.Currency(code)
		balances = append(balances, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading balance rows for account %s: %w", accountID, err)
	}
	return balances, nil
}

// SaveAccount inserts a new account row.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	query := `
		INSERT INTO accounts (account_id, user_id, name, is_active, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.pool.Exec(ctx, query,
		m.AccountID,
		m.UserID,
		m.Name,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return fmt.Errorf("failed to save account %s: %w", m.AccountID, err)
	}
	return nil
}

// SaveSubaddress inserts a freshly derived subaddress row.
func (r *PgxAccountRepository) SaveSubaddress(ctx context.Context, sub domain.Subaddress) error {
	m := mapping.ToModelSubaddress(sub)
	query := `
		INSERT INTO subaddresses (subaddress, account_id, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	_, err := r.pool.Exec(ctx, query,
		m.Subaddress,
		m.AccountID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return fmt.Errorf("failed to save subaddress for account %s: %w", m.AccountID, err)
	}
	return nil
}
