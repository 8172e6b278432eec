package entity

import (
	"database/sql"

	"github.com/packmart-lab/backend/pkg/enum"
	"golang.org/x/exp/slices"
)

type PackState string

var (
	PackAvailable   = enum.New(PackState("available"))
	PackClaimed     = enum.New(PackState("claimed"))
	PackMinting     = enum.New(PackState("minting"))
	PackMinted      = enum.New(PackState("minted"))
	PackTransferred = enum.New(PackState("transferred"))
	PackRevoked     = enum.New(PackState("revoked"))
)

// RevocableStates are the states a pack can be revoked from. Transfer is
// only allowed from PackMinted.
var RevocableStates = []PackState{PackClaimed, PackMinting, PackMinted}

type Pack struct {
	Base

	TemplateID string       `gorm:"index:idx_packs_template_state,priority:1"`
	Template   PackTemplate `gorm:"foreignKey:TemplateID"`

	State PackState `gorm:"index:idx_packs_template_state,priority:2"`

	OwnerID sql.NullString
	Owner   User `gorm:"foreignKey:OwnerID"`

	// RedeemCode is set only for redeem-mechanism packs and is consumed
	// exactly once by the claim that wins it.
	RedeemCode sql.NullString `gorm:"unique"`

	ClaimedAt sql.NullTime
}

func (p *Pack) Revocable() bool {
	return slices.Contains(RevocableStates, p.State)
}

func (p *Pack) OwnedBy(userID string) bool {
	return p.OwnerID.Valid && p.OwnerID.String == userID
}
