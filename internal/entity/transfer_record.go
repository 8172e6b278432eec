package entity

import "github.com/packmart-lab/backend/pkg/enum"

type TransferStatus string

var (
	TransferInitiated = enum.New(TransferStatus("initiated"))
	TransferCompleted = enum.New(TransferStatus("completed"))
	TransferFailed    = enum.New(TransferStatus("failed"))
)

type TransferRecord struct {
	Base

	PackID string `gorm:"index"`
	Pack   Pack   `gorm:"foreignKey:PackID"`

	FromOwnerID string
	FromOwner   User `gorm:"foreignKey:FromOwnerID"`

	ToOwnerID string
	ToOwner   User `gorm:"foreignKey:ToOwnerID"`

	Status TransferStatus
}
