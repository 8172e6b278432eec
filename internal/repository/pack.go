package repository

import (
	"context"
	"errors"

	"github.com/packmart-lab/backend/internal/entity"
	"github.com/packmart-lab/backend/pkg/xcontext"
)

type PackRepository interface {
	Create(ctx context.Context, pack *entity.Pack) error
	BulkInsert(ctx context.Context, packs []*entity.Pack) error
	GetByID(ctx context.Context, id string) (*entity.Pack, error)
	GetByRedeemCode(ctx context.Context, code string) (*entity.Pack, error)
	GetAvailableByTemplate(ctx context.Context, templateID string) ([]entity.Pack, error)
	CountByTemplate(ctx context.Context, templateID string) (total, available int64, err error)
	GetByOwner(ctx context.Context, ownerID string, offset, limit int) ([]entity.Pack, error)
	GetUntransferredByOwner(ctx context.Context, ownerID string) ([]entity.Pack, error)

	// ConditionalUpdate applies newFields to the pack only if its current
	// state equals expectedState. It reports false when another request
	// already moved the pack on; that is the sole serialization point for
	// lifecycle transitions.
	ConditionalUpdate(ctx context.Context, id string, expectedState entity.PackState, newFields map[string]any) (bool, error)

	// ConditionalUpdateOwned is ConditionalUpdate with an additional
	// owner guard, used by transfers.
	ConditionalUpdateOwned(ctx context.Context, id string, expectedState entity.PackState, expectedOwnerID string, newFields map[string]any) (bool, error)
}

type packRepository struct{}

func NewPackRepository() *packRepository {
	return &packRepository{}
}

func (r *packRepository) Create(ctx context.Context, pack *entity.Pack) error {
	return xcontext.DB(ctx).Create(pack).Error
}

func (r *packRepository) BulkInsert(ctx context.Context, packs []*entity.Pack) error {
	return xcontext.DB(ctx).Create(packs).Error
}

func (r *packRepository) GetByID(ctx context.Context, id string) (*entity.Pack, error) {
	var result entity.Pack
	err := xcontext.DB(ctx).Preload("Template").Take(&result, "id=?", id).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *packRepository) GetByRedeemCode(ctx context.Context, code string) (*entity.Pack, error) {
	var result entity.Pack
	err := xcontext.DB(ctx).Preload("Template").Take(&result, "redeem_code=?", code).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *packRepository) GetAvailableByTemplate(
	ctx context.Context, templateID string,
) ([]entity.Pack, error) {
	var result []entity.Pack
	err := xcontext.DB(ctx).
		Where("template_id=? AND state=?", templateID, entity.PackAvailable).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *packRepository) CountByTemplate(
	ctx context.Context, templateID string,
) (int64, int64, error) {
	var total int64
	err := xcontext.DB(ctx).Model(&entity.Pack{}).
		Where("template_id=?", templateID).
		Count(&total).Error
	if err != nil {
		return 0, 0, err
	}

	var available int64
	err = xcontext.DB(ctx).Model(&entity.Pack{}).
		Where("template_id=? AND state=?", templateID, entity.PackAvailable).
		Count(&available).Error
	if err != nil {
		return 0, 0, err
	}

	return total, available, nil
}

func (r *packRepository) GetByOwner(
	ctx context.Context, ownerID string, offset, limit int,
) ([]entity.Pack, error) {
	var result []entity.Pack
	err := xcontext.DB(ctx).Preload("Template").
		Where("owner_id=?", ownerID).
		Order("claimed_at DESC").
		Offset(offset).Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *packRepository) GetUntransferredByOwner(
	ctx context.Context, ownerID string,
) ([]entity.Pack, error) {
	var result []entity.Pack
	err := xcontext.DB(ctx).Preload("Template").
		Where("owner_id=? AND state=?", ownerID, entity.PackMinted).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *packRepository) ConditionalUpdate(
	ctx context.Context, id string, expectedState entity.PackState, newFields map[string]any,
) (bool, error) {
	tx := xcontext.DB(ctx).
		Model(&entity.Pack{}).
		Where("id=? AND state=?", id, expectedState).
		Updates(newFields)

	if tx.Error != nil {
		return false, tx.Error
	}

	if tx.RowsAffected > 1 {
		return false, errors.New("the number of affected rows is invalid")
	}

	return tx.RowsAffected == 1, nil
}

func (r *packRepository) ConditionalUpdateOwned(
	ctx context.Context, id string, expectedState entity.PackState, expectedOwnerID string,
	newFields map[string]any,
) (bool, error) {
	tx := xcontext.DB(ctx).
		Model(&entity.Pack{}).
		Where("id=? AND state=? AND owner_id=?", id, expectedState, expectedOwnerID).
		Updates(newFields)

	if tx.Error != nil {
		return false, tx.Error
	}

	if tx.RowsAffected > 1 {
		return false, errors.New("the number of affected rows is invalid")
	}

	return tx.RowsAffected == 1, nil
}
