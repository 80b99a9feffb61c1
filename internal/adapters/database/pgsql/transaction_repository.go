package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/monetaflow/wallet_backend/internal/apperrors"
	"github.com/monetaflow/wallet_backend/internal/core/domain"
	portsrepo "github.com/monetaflow/wallet_backend/internal/core/ports/repositories"
	"github.com/monetaflow/wallet_backend/internal/models"
	"github.com/monetaflow/wallet_backend/internal/utils/mapping"
)

const transactionColumns = `transaction_id, reference_id, type, status, amount, currency_code,
		source_id, source_address, source_subaddress, destination_id, destination_address, destination_subaddress,
		timestamp, sequence, chain_version, command_json, created_at, created_by, last_updated_at, last_updated_by`

type PgxTransactionRepository struct {
	pool *pgxpool.Pool
}

// NewPgxTransactionRepository creates a new repository for transaction data.
func NewPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{pool: pool}
}

var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

func scanTransaction(row pgx.Row) (*models.Transaction, error) {
	var txn models.Transaction
	err := row.Scan(
		&txn.TransactionID,
		&txn.ReferenceID,
		&txn.Type,
		&txn.Status,
		&txn.Amount,
		&txn.CurrencyCode,
		&txn.SourceID,
		&txn.SourceAddress,
		&txn.SourceSubaddress,
		&txn.DestinationID,
		&txn.DestinationAddress,
		&txn.DestinationSubaddress,
		&txn.Timestamp,
		&txn.Sequence,
		&txn.ChainVersion,
		&txn.CommandJSON,
		&txn.CreatedAt,
		&txn.CreatedBy,
		&txn.LastUpdatedAt,
		&txn.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

func (r *PgxTransactionRepository) findTransactionBy(ctx context.Context, column, value string) (*domain.Transaction, error) {
	query := fmt.Sprintf(`SELECT %s FROM transactions WHERE %s = $1;`, transactionColumns, column)

	m, err := scanTransaction(r.pool.QueryRow(ctx, query, value))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction by %s: %w", column, err)
	}
	d, err := mapping.ToDomainTransaction(*m)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	return r.findTransactionBy(ctx, "transaction_id", transactionID)
}

func (r *PgxTransactionRepository) FindTransactionByReferenceID(ctx context.Context, referenceID string) (*domain.Transaction, error) {
	return r.findTransactionBy(ctx, "reference_id", referenceID)
}

// ListTransactionsByAccount retrieves a keyset-paginated page of transactions
// touching an account, newest first.
func (r *PgxTransactionRepository) ListTransactionsByAccount(ctx context.Context, accountID string, limit int, beforeTime time.Time, beforeID string) ([]domain.Transaction, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM transactions
		WHERE (source_id = $1 OR destination_id = $1)
		  AND ($3::timestamptz IS NULL OR (timestamp, transaction_id) < ($3, $4))
		ORDER BY timestamp DESC, transaction_id DESC
		LIMIT $2;
	`, transactionColumns)

	var cursorTime *time.Time
	if !beforeTime.IsZero() {
		cursorTime = &beforeTime
	}
	rows, err := r.pool.Query(ctx, query, accountID, limit, cursorTime, beforeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions for account %s: %w", accountID, err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

// ListTransactionsByStatus retrieves transactions in a lifecycle state, oldest first.
func (r *PgxTransactionRepository) ListTransactionsByStatus(ctx context.Context, status domain.TransactionStatus, limit int) ([]domain.Transaction, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM transactions
		WHERE status = $1
		ORDER BY timestamp ASC, transaction_id ASC
		LIMIT $2;
	`, transactionColumns)

	rows, err := r.pool.Query(ctx, query, string(status), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions by status %s: %w", status, err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

func collectTransactions(rows pgx.Rows) ([]domain.Transaction, error) {
	txns := []domain.Transaction{}
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		d, err := mapping.ToDomainTransaction(*m)
		if err != nil {
			return nil, err
		}
		txns = append(txns, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading transaction rows: %w", err)
	}
	return txns, nil
}

// SaveTransaction inserts a transaction and applies balance changes in one
// database transaction.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction, changes []portsrepo.BalanceChange) error {
	m, err := mapping.ToModelTransaction(txn)
	if err != nil {
		return err
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	query := `
		INSERT INTO transactions (transaction_id, reference_id, type, status, amount, currency_code,
			source_id, source_address, source_subaddress, destination_id, destination_address, destination_subaddress,
			timestamp, sequence, chain_version, command_json, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20);
	`
	_, err = tx.Exec(ctx, query,
		m.TransactionID,
		m.ReferenceID,
		m.Type,
		m.Status,
		m.Amount,
		m.CurrencyCode,
		m.SourceID,
		m.SourceAddress,
		m.SourceSubaddress,
		m.DestinationID,
		m.DestinationAddress,
		m.DestinationSubaddress,
		m.Timestamp,
		m.Sequence,
		m.ChainVersion,
		m.CommandJSON,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return fmt.Errorf("failed to insert transaction %s: %w", m.TransactionID, err)
	}

	if err := applyBalanceChanges(ctx, tx, changes); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction %s: %w", m.TransactionID, err)
	}
	return nil
}

// UpdateTransaction rewrites the mutable fields of a transaction under a row
// lock and applies balance changes in the same database transaction.
func (r *PgxTransactionRepository) UpdateTransaction(ctx context.Context, txn domain.Transaction, changes []portsrepo.BalanceChange) error {
	m, err := mapping.ToModelTransaction(txn)
	if err != nil {
		return err
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	var lockedID string
	err = tx.QueryRow(ctx,
		`SELECT transaction_id FROM transactions WHERE transaction_id = $1 FOR UPDATE;`,
		m.TransactionID,
	).Scan(&lockedID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to lock transaction %s: %w", m.TransactionID, err)
	}

	query := `
		UPDATE transactions
		SET status = $2, sequence = $3, chain_version = $4, command_json = $5,
			last_updated_at = $6, last_updated_by = $7
		WHERE transaction_id = $1;
	`
	_, err = tx.Exec(ctx, query,
		m.TransactionID,
		m.Status,
		m.Sequence,
		m.ChainVersion,
		m.CommandJSON,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction %s: %w", m.TransactionID, err)
	}

	if err := applyBalanceChanges(ctx, tx, changes); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit update of transaction %s: %w", m.TransactionID, err)
	}
	return nil
}

// applyBalanceChanges adjusts balance rows inside an open database transaction.
// Credits upsert their row; debits must leave the row non-negative.
func applyBalanceChanges(ctx context.Context, tx pgx.Tx, changes []portsrepo.BalanceChange) error {
	for _, change := range changes {
		if change.Delta.IsPositive() {
			creditQuery := `
				INSERT INTO account_balances (account_id, currency_code, amount, created_at, created_by, last_updated_at, last_updated_by)
				VALUES ($1, $2, $3, now(), 'ledger', now(), 'ledger')
				ON CONFLICT (account_id, currency_code) DO UPDATE SET
					amount = account_balances.amount + EXCLUDED.amount,
					last_updated_at = now();
			`
			if _, err := tx.Exec(ctx, creditQuery, change.AccountID, change.Currency.String(), change.Delta); err != nil {
				return fmt.Errorf("failed to credit balance for account %s: %w", change.AccountID, err)
			}
			continue
		}

		debitQuery := `
			UPDATE account_balances
			SET amount = amount + $3, last_updated_at = now()
			WHERE account_id = $1 AND currency_code = $2 AND amount + $3 >= 0;
		`
		tag, err := tx.Exec(ctx, debitQuery, change.AccountID, change.Currency.String(), change.Delta)
		if err != nil {
			return fmt.Errorf("failed to debit balance for account %s: %w", change.AccountID, err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.ErrInsufficientFunds
		}
	}
	return nil
}
