package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/monetaflow/wallet_backend/internal/apperrors"
	"github.com/monetaflow/wallet_backend/internal/core/domain"
	portssvc "github.com/monetaflow/wallet_backend/internal/core/ports/services"
	"github.com/monetaflow/wallet_backend/internal/dto"
	"github.com/monetaflow/wallet_backend/internal/middleware"
)

// --- Mock TransactionService ---
type MockTransactionService struct {
	mock.Mock
}

func (m *MockTransactionService) SendPayment(ctx context.Context, userID string, req dto.SendPaymentRequest) (*domain.Transaction, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionService) GetTransaction(ctx context.Context, userID, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, userID, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionService) ListTransactions(ctx context.Context, userID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	args := m.Called(ctx, userID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListTransactionsResponse), args.Error(1)
}

var _ portssvc.TransactionSvcFacade = (*MockTransactionService)(nil)

// --- Test Suite ---
type TransactionHandlerTestSuite struct {
	suite.Suite
	router    *gin.Engine
	mockSvc   *MockTransactionService
	jwtSecret string
}

func (suite *TransactionHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	registerCurrencyValidator()

	suite.jwtSecret = "test-secret-key-that-is-long-enough"
	suite.mockSvc = new(MockTransactionService)

	suite.router = gin.New()
	v1 := suite.router.Group("/api/v1", middleware.AuthMiddleware(suite.jwtSecret))
	registerTransactionRoutes(v1, suite.mockSvc)
}

func (suite *TransactionHandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *TransactionHandlerTestSuite) doRequest(method, path, body, token string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *TransactionHandlerTestSuite) TestSendPayment_Created() {
	userID := uuid.NewString()
	txn := &domain.Transaction{
		TransactionID: uuid.NewString(),
		Type:          domain.Internal,
		Status:        domain.TxCompleted,
		Amount:        decimal.NewFromInt(10),
		Currency:      domain.XUS,
		Timestamp:     time.Now(),
	}

	suite.mockSvc.On("SendPayment", mock.Anything, userID, mock.MatchedBy(func(req dto.SendPaymentRequest) bool {
		return req.Currency == "XUS" && req.Amount.Equal(decimal.NewFromInt(10))
	})).Return(txn, nil).Once()

	body := `{"address":"some-receiving-address","amount":"10","currency":"XUS"}`
	w := suite.doRequest(http.MethodPost, "/api/v1/transactions", body, suite.generateTestToken(userID))

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.TransactionResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(txn.TransactionID, resp.TransactionID)
	suite.mockSvc.AssertExpectations(suite.T())
}

func (suite *TransactionHandlerTestSuite) TestSendPayment_UnsupportedCurrencyFailsBinding() {
	userID := uuid.NewString()

	body := `{"address":"some-receiving-address","amount":"10","currency":"DOGE"}`
	w := suite.doRequest(http.MethodPost, "/api/v1/transactions", body, suite.generateTestToken(userID))

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockSvc.AssertNotCalled(suite.T(), "SendPayment", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransactionHandlerTestSuite) TestSendPayment_InsufficientFunds() {
	userID := uuid.NewString()

	suite.mockSvc.On("SendPayment", mock.Anything, userID, mock.Anything).
		Return(nil, apperrors.ErrInsufficientFunds).Once()

	body := `{"address":"some-receiving-address","amount":"10","currency":"XUS"}`
	w := suite.doRequest(http.MethodPost, "/api/v1/transactions", body, suite.generateTestToken(userID))

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
}

func (suite *TransactionHandlerTestSuite) TestSendPayment_MissingToken() {
	body := `{"address":"some-receiving-address","amount":"10","currency":"XUS"}`
	w := suite.doRequest(http.MethodPost, "/api/v1/transactions", body, "")

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockSvc.AssertNotCalled(suite.T(), "SendPayment", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransactionHandlerTestSuite) TestListTransactions_PassesParams() {
	userID := uuid.NewString()
	page := &dto.ListTransactionsResponse{
		Transactions: []dto.TransactionResponse{{TransactionID: uuid.NewString()}},
		NextToken:    "opaque-token",
	}

	suite.mockSvc.On("ListTransactions", mock.Anything, userID, mock.MatchedBy(func(p dto.ListTransactionsParams) bool {
		return p.Limit == 5 && p.NextToken == "abc"
	})).Return(page, nil).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/transactions?limit=5&nextToken=abc", "", suite.generateTestToken(userID))

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ListTransactionsResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Transactions, 1)
	suite.Equal("opaque-token", resp.NextToken)
}

func (suite *TransactionHandlerTestSuite) TestGetTransaction_NotFound() {
	userID := uuid.NewString()
	transactionID := uuid.NewString()

	suite.mockSvc.On("GetTransaction", mock.Anything, userID, transactionID).
		Return(nil, apperrors.ErrNotFound).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/transactions/"+transactionID, "", suite.generateTestToken(userID))

	suite.Equal(http.StatusNotFound, w.Code)
}

func TestTransactionHandler(t *testing.T) {
	suite.Run(t, new(TransactionHandlerTestSuite))
}
