package entity

import (
	"database/sql"

	"github.com/packmart-lab/backend/pkg/enum"
)

type MintStatus string

var (
	MintPending   = enum.New(MintStatus("pending"))
	MintSubmitted = enum.New(MintStatus("submitted"))
	MintConfirmed = enum.New(MintStatus("confirmed"))
	MintFailed    = enum.New(MintStatus("failed"))
	MintAbandoned = enum.New(MintStatus("abandoned"))
)

// ActiveMintStatuses are the statuses of a ticket still tracking an
// external mint. At most one active ticket exists per pack.
var ActiveMintStatuses = []MintStatus{MintPending, MintSubmitted}

type MintingTicket struct {
	SnowFlakeBase

	PackID string `gorm:"index"`
	Pack   Pack   `gorm:"foreignKey:PackID"`

	// TicketRef is the reference the external minting backend assigned on
	// submission. Empty until the submit call succeeds.
	TicketRef sql.NullString

	Status MintStatus

	// Metadata is the mint payload sent to the backend, kept for
	// re-submission audit.
	Metadata Map

	LastCheckedAt sql.NullTime
}
