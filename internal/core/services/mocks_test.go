package services_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/monetaflow/wallet_backend/internal/core/domain"
	portsclients "github.com/monetaflow/wallet_backend/internal/core/ports/clients"
	portsrepo "github.com/monetaflow/wallet_backend/internal/core/ports/repositories"
)

// Shared mocks for the service test suites in this package.

// MockUserRepository is a mock type for the UserRepositoryFacade interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByGoogleID(ctx context.Context, googleID string) (*domain.User, error) {
	args := m.Called(ctx, googleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateRefreshTokenDetails(ctx context.Context, userID string, tokenHash string, expiryTime *time.Time) error {
	args := m.Called(ctx, userID, tokenHash, expiryTime)
	return args.Error(0)
}

// MockAccountRepository is a mock type for the AccountRepositoryFacade interface
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByUserID(ctx context.Context, userID string) (*domain.Account, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountBySubaddress(ctx context.Context, subaddress string) (*domain.Account, error) {
	args := m.Called(ctx, subaddress)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListBalances(ctx context.Context, accountID string) ([]domain.Balance, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Balance), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) SaveSubaddress(ctx context.Context, sub domain.Subaddress) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

// MockTransactionRepository is a mock type for the TransactionRepositoryFacade interface
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindTransactionByReferenceID(ctx context.Context, referenceID string) (*domain.Transaction, error) {
	args := m.Called(ctx, referenceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListTransactionsByAccount(ctx context.Context, accountID string, limit int, beforeTime time.Time, beforeID string) ([]domain.Transaction, error) {
	args := m.Called(ctx, accountID, limit, beforeTime, beforeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListTransactionsByStatus(ctx context.Context, status domain.TransactionStatus, limit int) ([]domain.Transaction, error) {
	args := m.Called(ctx, status, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction, changes []portsrepo.BalanceChange) error {
	args := m.Called(ctx, txn, changes)
	return args.Error(0)
}

func (m *MockTransactionRepository) UpdateTransaction(ctx context.Context, txn domain.Transaction, changes []portsrepo.BalanceChange) error {
	args := m.Called(ctx, txn, changes)
	return args.Error(0)
}

// MockPreApprovalRepository is a mock type for the PreApprovalRepositoryFacade interface
type MockPreApprovalRepository struct {
	mock.Mock
}

func (m *MockPreApprovalRepository) FindPreApprovalByID(ctx context.Context, preApprovalID string) (*domain.FundsPullPreApproval, error) {
	args := m.Called(ctx, preApprovalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FundsPullPreApproval), args.Error(1)
}

func (m *MockPreApprovalRepository) ListPreApprovalsByAccount(ctx context.Context, accountID string) ([]domain.FundsPullPreApproval, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FundsPullPreApproval), args.Error(1)
}

func (m *MockPreApprovalRepository) ListUnsentPreApprovals(ctx context.Context, limit int) ([]domain.FundsPullPreApproval, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FundsPullPreApproval), args.Error(1)
}

func (m *MockPreApprovalRepository) SavePreApproval(ctx context.Context, pa domain.FundsPullPreApproval) error {
	args := m.Called(ctx, pa)
	return args.Error(0)
}

func (m *MockPreApprovalRepository) UpdatePreApproval(ctx context.Context, pa domain.FundsPullPreApproval) error {
	args := m.Called(ctx, pa)
	return args.Error(0)
}

// MockExchangeRateRepository is a mock type for the ExchangeRateRepositoryFacade interface
type MockExchangeRateRepository struct {
	mock.Mock
}

func (m *MockExchangeRateRepository) FindExchangeRate(ctx context.Context, fromCode, toCode domain.Currency) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, fromCode, toCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}

func (m *MockExchangeRateRepository) ListExchangeRates(ctx context.Context) ([]domain.ExchangeRate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExchangeRate), args.Error(1)
}

func (m *MockExchangeRateRepository) SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error {
	args := m.Called(ctx, rate)
	return args.Error(0)
}

func (m *MockExchangeRateRepository) SaveExchangeRates(ctx context.Context, rates []domain.ExchangeRate) error {
	args := m.Called(ctx, rates)
	return args.Error(0)
}

// MockAccountService is a mock type for the AccountSvcFacade interface
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) GetAccountForUser(ctx context.Context, userID string) (*domain.Account, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) ResolveSubaddress(ctx context.Context, subaddress string) (*domain.Account, error) {
	args := m.Called(ctx, subaddress)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) CreateAccountForUser(ctx context.Context, userID, name string) (*domain.Account, error) {
	args := m.Called(ctx, userID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GenerateReceivingAddress(ctx context.Context, userID string) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

// MockUserReaderService is a mock type for the UserReaderSvc interface
type MockUserReaderService struct {
	mock.Mock
}

func (m *MockUserReaderService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserReaderService) GetKycData(ctx context.Context, userID string) (*domain.KycData, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.KycData), args.Error(1)
}

// MockVASPClient is a mock type for the VASPClient interface
type MockVASPClient struct {
	mock.Mock
}

func (m *MockVASPClient) SendPaymentCommand(ctx context.Context, counterpartyAddress string, cmd domain.PaymentCommand) (domain.CommandResponse, error) {
	args := m.Called(ctx, counterpartyAddress, cmd)
	return args.Get(0).(domain.CommandResponse), args.Error(1)
}

func (m *MockVASPClient) SendPreApprovalCommand(ctx context.Context, counterpartyAddress string, pa domain.FundsPullPreApproval) (domain.CommandResponse, error) {
	args := m.Called(ctx, counterpartyAddress, pa)
	return args.Get(0).(domain.CommandResponse), args.Error(1)
}

// MockChainClient is a mock type for the ChainClient interface
type MockChainClient struct {
	mock.Mock
}

func (m *MockChainClient) SubmitTransfer(ctx context.Context, txn domain.Transaction) (portsclients.ChainSettlement, error) {
	args := m.Called(ctx, txn)
	return args.Get(0).(portsclients.ChainSettlement), args.Error(1)
}

func (m *MockChainClient) ResolveVASPBaseURL(ctx context.Context, vaspAddressHex string) (string, error) {
	args := m.Called(ctx, vaspAddressHex)
	return args.String(0), args.Error(1)
}
