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

const preApprovalColumns = `pre_approval_id, account_id, address, biller_address, scope_type, expiration_timestamp,
		max_cumulative_unit, max_cumulative_unit_value, max_cumulative_amount, max_cumulative_amount_currency,
		max_transaction_amount, max_transaction_amount_currency, status, role, description, sent,
		created_at, created_by, last_updated_at, last_updated_by`

type PgxPreApprovalRepository struct {
	pool *pgxpool.Pool
}

// NewPgxPreApprovalRepository creates a new repository for funds-pull pre-approval data.
func NewPgxPreApprovalRepository(pool *pgxpool.Pool) portsrepo.PreApprovalRepositoryFacade {
	return &PgxPreApprovalRepository{pool: pool}
}

var _ portsrepo.PreApprovalRepositoryFacade = (*PgxPreApprovalRepository)(nil)

func scanPreApproval(row pgx.Row) (*models.FundsPullPreApproval, error) {
	var pa models.FundsPullPreApproval
	err := row.Scan(
		&pa.PreApprovalID,
		&pa.AccountID,
		&pa.Address,
		&pa.BillerAddress,
		&pa.ScopeType,
		&pa.ExpirationTimestamp,
		&pa.MaxCumulativeUnit,
		&pa.MaxCumulativeUnitValue,
		&pa.MaxCumulativeAmount,
		&pa.MaxCumulativeAmountCurrency,
		&pa.MaxTransactionAmount,
		&pa.MaxTransactionCurrency,
		&pa.Status,
		&pa.Role,
		&pa.Description,
		&pa.Sent,
		&pa.CreatedAt,
		&pa.CreatedBy,
		&pa.LastUpdatedAt,
		&pa.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &pa, nil
}

func (r *PgxPreApprovalRepository) FindPreApprovalByID(ctx context.Context, preApprovalID string) (*domain.FundsPullPreApproval, error) {
	query := fmt.Sprintf(`SELECT %s FROM funds_pull_pre_approvals WHERE pre_approval_id = $1;`, preApprovalColumns)

	m, err := scanPreApproval(r.pool.QueryRow(ctx, query, preApprovalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find pre-approval %s: %w", preApprovalID, err)
	}
	d := mapping.ToDomainPreApproval(*m)
	return &d, nil
}

func (r *PgxPreApprovalRepository) ListPreApprovalsByAccount(ctx context.Context, accountID string) ([]domain.FundsPullPreApproval, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM funds_pull_pre_approvals
		WHERE account_id = $1
		ORDER BY created_at DESC;
	`, preApprovalColumns)

	rows, err := r.pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query pre-approvals for account %s: %w", accountID, err)
	}
	defer rows.Close()

	return collectPreApprovals(rows)
}

func (r *PgxPreApprovalRepository) ListUnsentPreApprovals(ctx context.Context, limit int) ([]domain.FundsPullPreApproval, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM funds_pull_pre_approvals
		WHERE sent = false
		ORDER BY created_at ASC
		LIMIT $1;
	`, preApprovalColumns)

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query unsent pre-approvals: %w", err)
	}
	defer rows.Close()

	return collectPreApprovals(rows)
}

func collectPreApprovals(rows pgx.Rows) ([]domain.FundsPullPreApproval, error) {
	pas := []domain.FundsPullPreApproval{}
	for rows.Next() {
		m, err := scanPreApproval(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pre-approval row: %w", err)
		}
		pas = append(pas, mapping.ToDomainPreApproval(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading pre-approval rows: %w", err)
	}
	return pas, nil
}

// SavePreApproval inserts a new pre-approval row.
func (r *PgxPreApprovalRepository) SavePreApproval(ctx context.Context, pa domain.FundsPullPreApproval) error {
	m := mapping.ToModelPreApproval(pa)
	query := `
		INSERT INTO funds_pull_pre_approvals (pre_approval_id, account_id, address, biller_address, scope_type, expiration_timestamp,
			max_cumulative_unit, max_cumulative_unit_value, max_cumulative_amount, max_cumulative_amount_currency,
			max_transaction_amount, max_transaction_amount_currency, status, role, description, sent,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20);
	`
	_, err := r.pool.Exec(ctx, query,
		m.PreApprovalID,
		m.AccountID,
		m.Address,
		m.BillerAddress,
		m.ScopeType,
		m.ExpirationTimestamp,
		m.MaxCumulativeUnit,
		m.MaxCumulativeUnitValue,
		m.MaxCumulativeAmount,
		m.MaxCumulativeAmountCurrency,
		m.MaxTransactionAmount,
		m.MaxTransactionCurrency,
		m.Status,
		m.Role,
		m.Description,
		m.Sent,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return fmt.Errorf("failed to save pre-approval %s: %w", m.PreApprovalID, err)
	}
	return nil
}

// UpdatePreApproval rewrites a pre-approval's mutable fields.
func (r *PgxPreApprovalRepository) UpdatePreApproval(ctx context.Context, pa domain.FundsPullPreApproval) error {
	m := mapping.ToModelPreApproval(pa)
	query := `
		UPDATE funds_pull_pre_approvals
		SET status = $2, sent = $3, last_updated_at = $4, last_updated_by = $5
		WHERE pre_approval_id = $1;
	`
	tag, err := r.pool.Exec(ctx, query,
		m.PreApprovalID,
		m.Status,
		m.Sent,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update pre-approval %s: %w", m.PreApprovalID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
