package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/monetaflow/wallet_backend/internal/core/ports/repositories"
)

// NewRepositoryProvider wires every pgx repository against one shared pool.
func NewRepositoryProvider(pool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		UserRepo:         NewPgxUserRepository(pool),
		AccountRepo:      NewPgxAccountRepository(pool),
		TransactionRepo:  NewPgxTransactionRepository(pool),
		PreApprovalRepo:  NewPgxPreApprovalRepository(pool),
		ExchangeRateRepo: NewPgxExchangeRateRepository(pool),
	}
}
