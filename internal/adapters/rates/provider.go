// Package rates pulls FX rates from the upstream feed and keeps the local
// rate table fresh.
package rates

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/eapache/go-resiliency/retrier"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"github.com/monetaflow/wallet_backend/internal/core/domain"
	portsclients "github.com/monetaflow/wallet_backend/internal/core/ports/clients"
	portssvc "github.com/monetaflow/wallet_backend/internal/core/ports/services"
)

const (
	requestTimeout = 10 * time.Second
	retryAttempts  = 3
	retryBackoff   = time.Second

	// The feed allows one request per second; the limiter keeps polling and
	// manual refreshes under that together.
	feedRequestsPerSecond = 1
)

// Provider fetches rates from an HTTP feed that returns one JSON object per
// pair, keyed "FROM_TO" with a decimal string rate.
type Provider struct {
	http    *resty.Client
	retry   *retrier.Retrier
	limiter *rate.Limiter
}

// NewProvider creates a rates provider against the given feed URL.
func NewProvider(feedURL string) *Provider {
	return &Provider{
		http: resty.New().
			SetBaseURL(feedURL).
			SetTimeout(requestTimeout),
		retry:   retrier.New(retrier.ExponentialBackoff(retryAttempts, retryBackoff), nil),
		limiter: rate.NewLimiter(rate.Limit(feedRequestsPerSecond), 1),
	}
}

var _ portsclients.RatesProvider = (*Provider)(nil)

type feedResponse struct {
	Rates map[string]decimal.Decimal `json:"rates"`
}

// FetchRates returns the current rates for every pair the feed publishes.
func (p *Provider) FetchRates(ctx context.Context) ([]domain.ExchangeRate, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var feed feedResponse
	err := p.retry.RunCtx(ctx, func(ctx context.Context) error {
		resp, err := p.http.R().
			SetContext(ctx).
			SetResult(&feed).
			Get("")
		if err != nil {
			return fmt.Errorf("fetch rates: %w", err)
		}
		if resp.IsError() {
			return fmt.Errorf("rates feed returned status %d", resp.StatusCode())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	now := time.Now()
	rates := make([]domain.ExchangeRate, 0, len(feed.Rates))
	for pair, value := range feed.Rates {
		from, to, ok := splitPair(pair)
		if !ok {
			continue
		}
		rates = append(rates, domain.ExchangeRate{
			ExchangeRateID:   uuid.NewString(),
			FromCurrencyCode: domain.Currency(from),
			ToCurrencyCode:   domain.Currency(to),
			Rate:             value,
			DateEffective:    now,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     "rates_feed",
				LastUpdatedAt: now,
				LastUpdatedBy: "rates_feed",
			},
		})
	}
	return rates, nil
}

// splitPair breaks a "FROM_TO" feed key into its currency codes.
func splitPair(pair string) (string, string, bool) {
	for i := 0; i < len(pair); i++ {
		if pair[i] == '_' {
			return pair[:i], pair[i+1:], i > 0 && i < len(pair)-1
		}
	}
	return "", "", false
}

// RunPoller refreshes the rate table on the given interval until the context
// is canceled. An immediate first refresh warms the table on startup.
// Cancellation is the normal shutdown path and returns nil.
func RunPoller(ctx context.Context, logger *slog.Logger, provider portsclients.RatesProvider, rateSvc portssvc.ExchangeRateWriterSvc, interval time.Duration) error {
	refresh := func() {
		fetched, err := provider.FetchRates(ctx)
		if err != nil {
			logger.Warn("Failed to fetch rates", slog.String("error", err.Error()))
			return
		}
		if err := rateSvc.RefreshRates(ctx, fetched); err != nil {
			logger.Error("Failed to store fetched rates", slog.String("error", err.Error()))
		}
	}

	refresh()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			refresh()
		}
	}
}
