// Package offchain delivers VASP-to-VASP commands to counterparty wallets.
package offchain

import (
	"context"
	"fmt"
	"time"

	"github.com/eapache/go-resiliency/retrier"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/monetaflow/wallet_backend/internal/core/domain"
	portsclients "github.com/monetaflow/wallet_backend/internal/core/ports/clients"
	"github.com/monetaflow/wallet_backend/internal/dto"
	"github.com/monetaflow/wallet_backend/internal/utils"
)

const (
	commandPath    = "/offchain/v2/command"
	requestTimeout = 15 * time.Second
	retryAttempts  = 3
	retryBackoff   = time.Second
)

// VASPClient posts off-chain command envelopes to counterparty VASPs. The
// counterparty's endpoint is discovered through its on-chain account record.
// Every request identifies this wallet through X-Request-Sender-Address so
// the counterparty can authenticate the command.
type VASPClient struct {
	http     *resty.Client
	retry    *retrier.Retrier
	resolver portsclients.ChainClient
}

// NewVASPClient creates a VASP client that resolves endpoints via the chain.
// selfAddress is this wallet's on-chain VASP address in hex.
func NewVASPClient(resolver portsclients.ChainClient, selfAddress string) *VASPClient {
	return &VASPClient{
		http: resty.New().
			SetTimeout(requestTimeout).
			SetHeader("Content-Type", "application/json").
			SetHeader("X-Request-Sender-Address", selfAddress),
		retry:    retrier.New(retrier.ExponentialBackoff(retryAttempts, retryBackoff), nil),
		resolver: resolver,
	}
}

var _ portsclients.VASPClient = (*VASPClient)(nil)

func (c *VASPClient) post(ctx context.Context, counterpartyAddress string, envelope dto.OffchainCommandRequest) (domain.CommandResponse, error) {
	vaspAddress, _, err := utils.DecodeAccountIdentifier(counterpartyAddress)
	if err != nil {
		return domain.CommandResponse{}, fmt.Errorf("invalid counterparty address: %w", err)
	}

	baseURL, err := c.resolver.ResolveVASPBaseURL(ctx, vaspAddress)
	if err != nil {
		return domain.CommandResponse{}, fmt.Errorf("failed to resolve counterparty endpoint: %w", err)
	}

	var reply dto.OffchainCommandResponse
	err = c.retry.RunCtx(ctx, func(ctx context.Context) error {
		resp, err := c.http.R().
			SetContext(ctx).
			SetBody(envelope).
			SetResult(&reply).
			SetError(&reply).
			Post(baseURL + commandPath)
		if err != nil {
			return fmt.Errorf("post command to %s: %w", baseURL, err)
		}
		// 4xx replies carry a protocol-level failure envelope, not a
		// transport error; don't retry those.
		if resp.StatusCode() >= 500 {
			return fmt.Errorf("counterparty %s returned status %d", baseURL, resp.StatusCode())
		}
		return nil
	})
	if err != nil {
		return domain.CommandResponse{}, err
	}

	return domain.CommandResponse{Status: reply.Status, CID: reply.CID, Error: reply.Error}, nil
}

// SendPaymentCommand pushes the latest payment command state to the VASP that
// owns the counterparty address.
func (c *VASPClient) SendPaymentCommand(ctx context.Context, counterpartyAddress string, cmd domain.PaymentCommand) (domain.CommandResponse, error) {
	payload, err := marshalCommand(dto.PaymentCommandPayload{Payment: cmd})
	if err != nil {
		return domain.CommandResponse{}, err
	}
	return c.post(ctx, counterpartyAddress, dto.OffchainCommandRequest{
		CID:         uuid.NewString(),
		CommandType: dto.CommandTypePayment,
		Command:     payload,
	})
}

// SendPreApprovalCommand pushes a funds-pull pre-approval to the biller's VASP.
func (c *VASPClient) SendPreApprovalCommand(ctx context.Context, counterpartyAddress string, pa domain.FundsPullPreApproval) (domain.CommandResponse, error) {
	payload, err := marshalCommand(dto.PreApprovalCommandPayload{FundsPullPreApproval: pa})
	if err != nil {
		return domain.CommandResponse{}, err
	}
	return c.post(ctx, counterpartyAddress, dto.OffchainCommandRequest{
		CID:         uuid.NewString(),
		CommandType: dto.CommandTypePreApproval,
		Command:     payload,
	})
}
