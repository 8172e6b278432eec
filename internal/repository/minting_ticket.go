package repository

import (
	"context"
	"errors"
	"time"

	"github.com/packmart-lab/backend/internal/entity"
	"github.com/packmart-lab/backend/pkg/xcontext"
)

type MintingTicketRepository interface {
	Create(ctx context.Context, ticket *entity.MintingTicket) error
	GetByID(ctx context.Context, id int64) (*entity.MintingTicket, error)

	// GetActiveByPackID returns the single pending or submitted ticket of
	// the pack, if any.
	GetActiveByPackID(ctx context.Context, packID string) (*entity.MintingTicket, error)

	// GetLatestByPackID returns the most recent ticket regardless of
	// status.
	GetLatestByPackID(ctx context.Context, packID string) (*entity.MintingTicket, error)

	// ConditionalUpdateStatus moves the ticket from expectedStatus and
	// applies newFields; it reports false if the ticket was concurrently
	// moved elsewhere.
	ConditionalUpdateStatus(ctx context.Context, id int64, expectedStatus entity.MintStatus, newFields map[string]any) (bool, error)

	// GetStaleSubmitted returns submitted tickets whose last check is
	// older than before, for the reconciler.
	GetStaleSubmitted(ctx context.Context, before time.Time, limit int) ([]entity.MintingTicket, error)
}

type mintingTicketRepository struct{}

func NewMintingTicketRepository() *mintingTicketRepository {
	return &mintingTicketRepository{}
}

func (r *mintingTicketRepository) Create(ctx context.Context, ticket *entity.MintingTicket) error {
	return xcontext.DB(ctx).Create(ticket).Error
}

func (r *mintingTicketRepository) GetByID(ctx context.Context, id int64) (*entity.MintingTicket, error) {
	var result entity.MintingTicket
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *mintingTicketRepository) GetActiveByPackID(
	ctx context.Context, packID string,
) (*entity.MintingTicket, error) {
	var result entity.MintingTicket
	err := xcontext.DB(ctx).
		Where("pack_id=? AND status IN ?", packID, entity.ActiveMintStatuses).
		Order("id DESC").
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *mintingTicketRepository) GetLatestByPackID(
	ctx context.Context, packID string,
) (*entity.MintingTicket, error) {
	var result entity.MintingTicket
	err := xcontext.DB(ctx).
		Where("pack_id=?", packID).
		Order("id DESC").
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *mintingTicketRepository) ConditionalUpdateStatus(
	ctx context.Context, id int64, expectedStatus entity.MintStatus, newFields map[string]any,
) (bool, error) {
	tx := xcontext.DB(ctx).
		Model(&entity.MintingTicket{}).
		Where("id=? AND status=?", id, expectedStatus).
		Updates(newFields)

	if tx.Error != nil {
		return false, tx.Error
	}

	if tx.RowsAffected > 1 {
		return false, errors.New("the number of affected rows is invalid")
	}

	return tx.RowsAffected == 1, nil
}

func (r *mintingTicketRepository) GetStaleSubmitted(
	ctx context.Context, before time.Time, limit int,
) ([]entity.MintingTicket, error) {
	var result []entity.MintingTicket
	err := xcontext.DB(ctx).
		Where("status=? AND (last_checked_at IS NULL OR last_checked_at < ?)",
			entity.MintSubmitted, before).
		Order("last_checked_at ASC").
		Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
