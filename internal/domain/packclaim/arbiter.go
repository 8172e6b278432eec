package packclaim

import (
	"context"
	"errors"
	"time"

	"github.com/packmart-lab/backend/internal/entity"
	"github.com/packmart-lab/backend/internal/repository"
	"github.com/packmart-lab/backend/pkg/crypto"
	"github.com/packmart-lab/backend/pkg/errorx"
	"gorm.io/gorm"
)

// Arbiter decides whether a claim request wins a pack. Every claim is a
// single conditional update against the pack repository; the arbiter
// holds no lock and keeps no memory between requests, so any number of
// handlers can race safely.
type Arbiter struct {
	packRepo repository.PackRepository
}

func NewArbiter(packRepo repository.PackRepository) *Arbiter {
	return &Arbiter{packRepo: packRepo}
}

func claimFields(ownerID string) map[string]any {
	return map[string]any{
		"state":      entity.PackClaimed,
		"owner_id":   ownerID,
		"claimed_at": time.Now(),
	}
}

// TryClaimFree picks a random available instance of the template and
// claims it. Losing a conditional update only means that particular
// instance was taken; the arbiter re-reads the fresh availability list
// and tries another one until the template runs out of stock.
func (a *Arbiter) TryClaimFree(
	ctx context.Context, templateID, requesterID string,
) (*entity.Pack, error) {
	for {
		available, err := a.packRepo.GetAvailableByTemplate(ctx, templateID)
		if err != nil {
			return nil, err
		}

		if len(available) == 0 {
			return nil, errorx.New(errorx.OutOfStock, "No pack available for this template")
		}

		candidate := available[crypto.RandIntn(len(available))]
		ok, err := a.packRepo.ConditionalUpdate(
			ctx, candidate.ID, entity.PackAvailable, claimFields(requesterID))
		if err != nil {
			return nil, err
		}

		if ok {
			return a.packRepo.GetByID(ctx, candidate.ID)
		}
	}
}

// TryClaimRedeem claims the pack bound to the code. The code is consumed
// by the same conditional update that claims the pack, so it can never be
// redeemed twice.
func (a *Arbiter) TryClaimRedeem(
	ctx context.Context, code, requesterID string,
) (*entity.Pack, error) {
	pack, err := a.packRepo.GetByRedeemCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.InvalidCode, "Invalid redeem code")
		}

		return nil, err
	}

	if pack.State != entity.PackAvailable {
		return nil, errorx.New(errorx.AlreadyClaimed, "This code was already redeemed")
	}

	ok, err := a.packRepo.ConditionalUpdate(
		ctx, pack.ID, entity.PackAvailable, claimFields(requesterID))
	if err != nil {
		return nil, err
	}

	if !ok {
		return nil, errorx.New(errorx.AlreadyClaimed, "This code was already redeemed")
	}

	return a.packRepo.GetByID(ctx, pack.ID)
}

// TryClaimDirect claims an explicit pack id, e.g. when settling an
// auction for its winner.
func (a *Arbiter) TryClaimDirect(
	ctx context.Context, packID, requesterID string,
) (*entity.Pack, error) {
	pack, err := a.packRepo.GetByID(ctx, packID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotAvailable, "Not found pack")
		}

		return nil, err
	}

	if pack.State != entity.PackAvailable {
		return nil, errorx.New(errorx.NotAvailable, "This pack is not available")
	}

	ok, err := a.packRepo.ConditionalUpdate(
		ctx, pack.ID, entity.PackAvailable, claimFields(requesterID))
	if err != nil {
		return nil, err
	}

	if !ok {
		return nil, errorx.New(errorx.NotAvailable, "This pack is not available")
	}

	return a.packRepo.GetByID(ctx, pack.ID)
}
