package repository

import (
	"context"
	"errors"

	"github.com/packmart-lab/backend/internal/entity"
	"github.com/packmart-lab/backend/pkg/xcontext"
)

type TransferRecordRepository interface {
	Create(ctx context.Context, record *entity.TransferRecord) error
	GetByID(ctx context.Context, id string) (*entity.TransferRecord, error)
	GetLatestByPackID(ctx context.Context, packID string) (*entity.TransferRecord, error)
	UpdateStatus(ctx context.Context, id string, status entity.TransferStatus) error
}

type transferRecordRepository struct{}

func NewTransferRecordRepository() *transferRecordRepository {
	return &transferRecordRepository{}
}

func (r *transferRecordRepository) Create(ctx context.Context, record *entity.TransferRecord) error {
	return xcontext.DB(ctx).Create(record).Error
}

func (r *transferRecordRepository) GetByID(ctx context.Context, id string) (*entity.TransferRecord, error) {
	var result entity.TransferRecord
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *transferRecordRepository) GetLatestByPackID(
	ctx context.Context, packID string,
) (*entity.TransferRecord, error) {
	var result entity.TransferRecord
	err := xcontext.DB(ctx).
		Where("pack_id=?", packID).
		Order("created_at DESC").
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *transferRecordRepository) UpdateStatus(
	ctx context.Context, id string, status entity.TransferStatus,
) error {
	tx := xcontext.DB(ctx).
		Model(&entity.TransferRecord{}).
		Where("id=?", id).
		Update("status", status)

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return errors.New("row affected is empty")
	}

	return nil
}
