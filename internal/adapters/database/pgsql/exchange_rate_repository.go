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

const exchangeRateColumns = `exchange_rate_id, from_currency_code, to_currency_code, rate, date_effective,
		created_at, created_by, last_updated_at, last_updated_by`

const exchangeRateUpsert = `
	INSERT INTO exchange_rates (exchange_rate_id, from_currency_code, to_currency_code, rate, date_effective,
		created_at, created_by, last_updated_at, last_updated_by)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	ON CONFLICT (from_currency_code, to_currency_code, date_effective) DO UPDATE SET
		rate = EXCLUDED.rate,
		last_updated_at = EXCLUDED.last_updated_at,
		last_updated_by = EXCLUDED.last_updated_by;
`

type PgxExchangeRateRepository struct {
	pool *pgxpool.Pool
}

// NewPgxExchangeRateRepository creates a new repository for exchange rate data.
func NewPgxExchangeRateRepository(pool *pgxpool.Pool) portsrepo.ExchangeRateRepositoryFacade {
	return &PgxExchangeRateRepository{pool: pool}
}

var _ portsrepo.ExchangeRateRepositoryFacade = (*PgxExchangeRateRepository)(nil)

func scanExchangeRate(row pgx.Row) (*models.ExchangeRate, error) {
	var rate models.ExchangeRate
	err := row.Scan(
		&rate.ExchangeRateID,
		&rate.FromCurrencyCode,
		&rate.ToCurrencyCode,
		&rate.Rate,
		&rate.DateEffective,
		&rate.CreatedAt,
		&rate.CreatedBy,
		&rate.LastUpdatedAt,
		&rate.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &rate, nil
}

// FindExchangeRate retrieves the latest effective rate for a currency pair.
func (r *PgxExchangeRateRepository) FindExchangeRate(ctx context.Context, fromCode, toCode domain.Currency) (*domain.ExchangeRate, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM exchange_rates
		WHERE from_currency_code = $1 AND to_currency_code = $2 AND date_effective <= now()
		ORDER BY date_effective DESC
		LIMIT 1;
	`, exchangeRateColumns)

	m, err := scanExchangeRate(r.pool.QueryRow(ctx, query, fromCode.String(), toCode.String()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find exchange rate %s/%s: %w", fromCode, toCode, err)
	}
	d := mapping.ToDomainExchangeRate(*m)
	return &d, nil
}

// ListExchangeRates retrieves the latest effective rate for every known pair.
func (r *PgxExchangeRateRepository) ListExchangeRates(ctx context.Context) ([]domain.ExchangeRate, error) {
	query := fmt.Sprintf(`
		SELECT DISTINCT ON (from_currency_code, to_currency_code) %s
		FROM exchange_rates
		WHERE date_effective <= now()
		ORDER BY from_currency_code, to_currency_code, date_effective DESC;
	`, exchangeRateColumns)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query exchange rates: %w", err)
	}
	defer rows.Close()

	rates := []domain.ExchangeRate{}
	for rows.Next() {
		m, err := scanExchangeRate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan exchange rate row: %w", err)
		}
		rates = append(rates, mapping.ToDomainExchangeRate(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading exchange rate rows: %w", err)
	}
	return rates, nil
}

// SaveExchangeRate upserts a rate for a pair and effective date.
func (r *PgxExchangeRateRepository) SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error {
	m := mapping.ToModelExchangeRate(rate)
	_, err := r.pool.Exec(ctx, exchangeRateUpsert,
		m.ExchangeRateID,
		m.FromCurrencyCode,
		m.ToCurrencyCode,
		m.Rate,
		m.DateEffective,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save exchange rate %s/%s: %w", m.FromCurrencyCode, m.ToCurrencyCode, err)
	}
	return nil
}

// SaveExchangeRates upserts a batch of rates in one round trip.
func (r *PgxExchangeRateRepository) SaveExchangeRates(ctx context.Context, rates []domain.ExchangeRate) error {
	if len(rates) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, rate := range rates {
		m := mapping.ToModelExchangeRate(rate)
		batch.Queue(exchangeRateUpsert,
			m.ExchangeRateID,
			m.FromCurrencyCode,
			m.ToCurrencyCode,
			m.Rate,
			m.DateEffective,
			m.CreatedAt,
			m.CreatedBy,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
		)
	}

	br := r.pool.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to execute exchange rate batch: %w", err)
	}
	return nil
}
