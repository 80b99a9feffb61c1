// Package chain talks to the settlement chain over its JSON-RPC endpoint.
package chain

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/eapache/go-resiliency/retrier"
	"github.com/go-resty/resty/v2"

	"github.com/monetaflow/wallet_backend/internal/core/domain"
	portsclients "github.com/monetaflow/wallet_backend/internal/core/ports/clients"
	"github.com/monetaflow/wallet_backend/internal/utils"
)

const (
	requestTimeout = 10 * time.Second
	retryAttempts  = 3
	retryBackoff   = 500 * time.Millisecond
)

// Client is a JSON-RPC client for the settlement chain.
type Client struct {
	http        *resty.Client
	retry       *retrier.Retrier
	vaspAddress string // hex, this wallet's on-chain address
}

// NewClient creates a chain client against the given JSON-RPC URL.
func NewClient(jsonRPCURL, vaspAddress string) *Client {
	http := resty.New().
		SetBaseURL(jsonRPCURL).
		SetTimeout(requestTimeout).
		SetHeader("Content-Type", "application/json")

	return &Client{
		http:        http,
		retry:       retrier.New(retrier.ExponentialBackoff(retryAttempts, retryBackoff), nil),
		vaspAddress: vaspAddress,
	}
}

var _ portsclients.ChainClient = (*Client)(nil)

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

func (c *Client) call(ctx context.Context, method string, params []any, result any) error {
	return c.retry.RunCtx(ctx, func(ctx context.Context) error {
		var envelope rpcResponse
		resp, err := c.http.R().
			SetContext(ctx).
			SetBody(rpcRequest{JSONRPC: "2.0", ID: 1, Method: method, Params: params}).
			SetResult(&envelope).
			Post("")
		if err != nil {
			return fmt.Errorf("chain rpc %s: %w", method, err)
		}
		if resp.IsError() {
			return fmt.Errorf("chain rpc %s returned status %d", method, resp.StatusCode())
		}
		if envelope.Error != nil {
			return fmt.Errorf("chain rpc %s failed: %s (code %d)", method, envelope.Error.Message, envelope.Error.Code)
		}
		if result != nil {
			if err := json.Unmarshal(envelope.Result, result); err != nil {
				return fmt.Errorf("chain rpc %s: decode result: %w", method, err)
			}
		}
		return nil
	})
}

type submitResult struct {
	Sequence int64 `json:"sequence_number"`
	Version  int64 `json:"version"`
}

// SubmitTransfer settles a ready transfer on chain. The destination VASP
// address and subaddress come from the transfer's destination identifier.
func (c *Client) SubmitTransfer(ctx context.Context, txn domain.Transaction) (portsclients.ChainSettlement, error) {
	destVASP, destSubaddress, err := utils.DecodeAccountIdentifier(txn.DestinationAddress)
	if err != nil {
		return portsclients.ChainSettlement{}, fmt.Errorf("invalid destination address: %w", err)
	}

	params := []any{
		c.vaspAddress,
		destVASP,
		destSubaddress,
		txn.Amount.String(),
		txn.Currency.String(),
		txn.ReferenceID,
	}

	var result submitResult
	if err := c.call(ctx, "submit_p2p_transfer", params, &result); err != nil {
		return portsclients.ChainSettlement{}, err
	}
	return portsclients.ChainSettlement{Sequence: result.Sequence, Version: result.Version}, nil
}

type accountResult struct {
	BaseURL string `json:"base_url"`
}

// ResolveVASPBaseURL returns the off-chain endpoint base URL a VASP published
// on chain for its address.
func (c *Client) ResolveVASPBaseURL(ctx context.Context, vaspAddressHex string) (string, error) {
	var result accountResult
	if err := c.call(ctx, "get_account", []any{vaspAddressHex}, &result); err != nil {
		return "", err
	}
	if result.BaseURL == "" {
		return "", fmt.Errorf("vasp %s has no base_url on chain", vaspAddressHex)
	}
	return result.BaseURL, nil
}
