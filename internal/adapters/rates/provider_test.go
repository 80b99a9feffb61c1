package rates_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monetaflow/wallet_backend/internal/adapters/rates"
	"github.com/monetaflow/wallet_backend/internal/core/domain"
	"github.com/monetaflow/wallet_backend/internal/dto"
)

type stubProvider struct {
	rates []domain.ExchangeRate
}

func (s *stubProvider) FetchRates(ctx context.Context) ([]domain.ExchangeRate, error) {
	return s.rates, nil
}

type stubRateWriter struct {
	refreshed int
}

func (s *stubRateWriter) CreateExchangeRate(ctx context.Context, req dto.CreateExchangeRateRequest, creatorUserID string) (*domain.ExchangeRate, error) {
	return nil, nil
}

func (s *stubRateWriter) RefreshRates(ctx context.Context, fetched []domain.ExchangeRate) error {
	s.refreshed++
	return nil
}

func TestFetchRates_ParsesFeedPairs(t *testing.T) {
	feed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"rates": {"XUS_USD": "1.0", "XUS_JPY": "107.5", "garbage": "2.0"}}`))
	}))
	defer feed.Close()

	provider := rates.NewProvider(feed.URL)
	fetched, err := provider.FetchRates(context.Background())
	require.NoError(t, err)
	require.Len(t, fetched, 2)

	byPair := make(map[string]decimal.Decimal, len(fetched))
	for _, r := range fetched {
		byPair[string(r.FromCurrencyCode)+"_"+string(r.ToCurrencyCode)] = r.Rate
	}
	assert.True(t, byPair["XUS_USD"].Equal(decimal.NewFromInt(1)))
	assert.True(t, byPair["XUS_JPY"].Equal(decimal.RequireFromString("107.5")))
}

func TestRunPoller_CanceledContextReturnsNil(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	writer := &stubRateWriter{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Shutdown via context cancellation is the normal exit and must not
	// report an error to the caller.
	err := rates.RunPoller(ctx, logger, &stubProvider{}, writer, time.Hour)
	assert.NoError(t, err)
	assert.Equal(t, 1, writer.refreshed)
}
