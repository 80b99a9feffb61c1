package services

import (
	portsclients "github.com/monetaflow/wallet_backend/internal/core/ports/clients"
	portsrepo "github.com/monetaflow/wallet_backend/internal/core/ports/repositories"
	portssvc "github.com/monetaflow/wallet_backend/internal/core/ports/services"
	"github.com/monetaflow/wallet_backend/internal/platform/config"
)

// ClientProvider holds the outbound adapters the services depend on.
type ClientProvider struct {
	VASPClient  portsclients.VASPClient
	ChainClient portsclients.ChainClient
}

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, clients ClientProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Account service first since user registration provisions accounts.
	container.Account = NewAccountService(repos.AccountRepo, cfg.VASPAddress)
	container.User = NewUserService(repos.UserRepo, container.Account)

	container.Currency = NewCurrencyService()
	container.ExchangeRate = NewExchangeRateService(repos.ExchangeRateRepo, container.Currency)

	container.Transaction = NewTransactionService(
		repos.TransactionRepo,
		repos.AccountRepo,
		container.Account,
		container.User,
		cfg.VASPAddress,
	)
	container.Offchain = NewOffchainService(
		repos.TransactionRepo,
		repos.AccountRepo,
		repos.PreApprovalRepo,
		container.User,
		clients.VASPClient,
		clients.ChainClient,
		cfg,
	)
	container.PreApproval = NewPreApprovalService(
		repos.PreApprovalRepo,
		repos.AccountRepo,
		container.Account,
	)

	container.Token = NewTokenService(cfg, repos.UserRepo)
	container.GoogleOAuth = NewGoogleOAuthHandlerService(cfg)

	return container
}

// Interface implementation checks.
var (
	_ portssvc.UserSvcFacade        = (*userService)(nil)
	_ portssvc.AccountSvcFacade     = (*accountService)(nil)
	_ portssvc.CurrencySvcFacade    = (*currencyService)(nil)
	_ portssvc.TransactionSvcFacade = (*transactionService)(nil)
	_ portssvc.OffchainSvcFacade    = (*offchainService)(nil)
	_ portssvc.PreApprovalSvcFacade = (*preApprovalService)(nil)
)
