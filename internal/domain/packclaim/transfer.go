package packclaim

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/packmart-lab/backend/internal/entity"
	"github.com/packmart-lab/backend/internal/repository"
	"github.com/packmart-lab/backend/pkg/errorx"
	"github.com/packmart-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

// TransferManager moves ownership of minted packs and revokes packs.
type TransferManager struct {
	packRepo     repository.PackRepository
	ticketRepo   repository.MintingTicketRepository
	transferRepo repository.TransferRecordRepository
}

func NewTransferManager(
	packRepo repository.PackRepository,
	ticketRepo repository.MintingTicketRepository,
	transferRepo repository.TransferRecordRepository,
) *TransferManager {
	return &TransferManager{
		packRepo:     packRepo,
		ticketRepo:   ticketRepo,
		transferRepo: transferRepo,
	}
}

// Transfer hands the pack from one owner to another. Precondition
// failures return before anything is written; a conditional-update loss
// after the record was initiated leaves the record in its terminal
// failed status.
func (t *TransferManager) Transfer(
	ctx context.Context, packID, fromOwnerID, toOwnerID string,
) (*entity.TransferRecord, error) {
	pack, err := t.packRepo.GetByID(ctx, packID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found pack")
		}

		return nil, err
	}

	if pack.State != entity.PackMinted {
		return nil, errorx.New(errorx.InvalidState, "Only minted packs can be transferred")
	}

	if !pack.OwnedBy(fromOwnerID) {
		return nil, errorx.New(errorx.OwnerMismatch, "This pack belongs to another owner")
	}

	record := &entity.TransferRecord{
		Base:        entity.Base{ID: uuid.NewString()},
		PackID:      packID,
		FromOwnerID: fromOwnerID,
		ToOwnerID:   toOwnerID,
		Status:      entity.TransferInitiated,
	}

	if err := t.transferRepo.Create(ctx, record); err != nil {
		return nil, err
	}

	ok, err := t.packRepo.ConditionalUpdateOwned(ctx, packID, entity.PackMinted, fromOwnerID,
		map[string]any{
			"state":    entity.PackTransferred,
			"owner_id": toOwnerID,
		})
	if err != nil || !ok {
		// The record never stays in initiated once the ownership write
		// did not happen.
		if failErr := t.transferRepo.UpdateStatus(ctx, record.ID, entity.TransferFailed); failErr != nil {
			xcontext.Logger(ctx).Errorf("Cannot mark transfer %s failed: %v", record.ID, failErr)
		}

		if err != nil {
			return nil, err
		}

		return nil, errorx.New(errorx.InvalidState, "This pack was moved by another request")
	}

	if err := t.transferRepo.UpdateStatus(ctx, record.ID, entity.TransferCompleted); err != nil {
		return nil, err
	}

	return t.transferRepo.GetByID(ctx, record.ID)
}

// Revoke terminally removes the pack from circulation. The owner is
// cleared and any active mint ticket stops being tracked; an in-flight
// external mint is not cancelled, its late signals are simply ignored.
func (t *TransferManager) Revoke(ctx context.Context, packID string) error {
	pack, err := t.packRepo.GetByID(ctx, packID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorx.New(errorx.NotFound, "Not found pack")
		}

		return err
	}

	if !pack.Revocable() {
		return errorx.New(errorx.InvalidState, "This pack cannot be revoked")
	}

	ok, err := t.packRepo.ConditionalUpdate(ctx, packID, pack.State,
		map[string]any{
			"state":    entity.PackRevoked,
			"owner_id": nil,
		})
	if err != nil {
		return err
	}

	if !ok {
		return errorx.New(errorx.InvalidState, "This pack was moved by another request")
	}

	ticket, err := t.ticketRepo.GetActiveByPackID(ctx, packID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}

		return err
	}

	if _, err := t.ticketRepo.ConditionalUpdateStatus(ctx, ticket.ID, ticket.Status,
		map[string]any{"status": entity.MintAbandoned}); err != nil {
		return err
	}

	return nil
}
