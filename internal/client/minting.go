package client

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/packmart-lab/backend/pkg/xcontext"
)

// MintStatusPending, etc. are the statuses the external minting backend
// reports for a submitted mint.
const (
	MintStatusPending   = "pending"
	MintStatusConfirmed = "confirmed"
	MintStatusFailed    = "failed"
)

type SubmitMintResult struct {
	TicketRef string `json:"ticket_ref"`
}

type QueryMintResult struct {
	Status string `json:"status"`
}

// MintingCaller talks to the external minting backend. The backend is not
// assumed idempotent on submitMint, so every submission carries a dedupe
// key; the backend is required to return the original ticket ref for a
// repeated key.
type MintingCaller interface {
	SubmitMint(ctx context.Context, dedupeKey string, metadata map[string]any) (SubmitMintResult, error)
	QueryMint(ctx context.Context, ticketRef string) (QueryMintResult, error)
	Close()
}

type mintingCaller struct {
	client *rpc.Client
}

func NewMintingCaller(client *rpc.Client) *mintingCaller {
	return &mintingCaller{client: client}
}

func (c *mintingCaller) SubmitMint(
	ctx context.Context, dedupeKey string, metadata map[string]any,
) (SubmitMintResult, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, xcontext.Configs(ctx).Minting.SubmitTimeout)
	defer cancel()

	var result SubmitMintResult
	err := c.client.CallContext(timeoutCtx, &result, c.fname(ctx, "submitMint"), dedupeKey, metadata)
	if err != nil {
		return SubmitMintResult{}, err
	}

	return result, nil
}

func (c *mintingCaller) QueryMint(ctx context.Context, ticketRef string) (QueryMintResult, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, xcontext.Configs(ctx).Minting.QueryTimeout)
	defer cancel()

	var result QueryMintResult
	err := c.client.CallContext(timeoutCtx, &result, c.fname(ctx, "queryMint"), ticketRef)
	if err != nil {
		return QueryMintResult{}, err
	}

	return result, nil
}

func (c *mintingCaller) Close() {
	c.client.Close()
}

func (c *mintingCaller) fname(ctx context.Context, funcName string) string {
	return fmt.Sprintf("%s_%s", xcontext.Configs(ctx).Minting.RPCName, funcName)
}
