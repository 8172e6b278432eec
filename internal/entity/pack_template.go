package entity

import (
	"time"

	"github.com/packmart-lab/backend/pkg/enum"
)

type ClaimMechanism string

var (
	FreeClaim    = enum.New(ClaimMechanism("free"))
	RedeemClaim  = enum.New(ClaimMechanism("redeem"))
	AuctionClaim = enum.New(ClaimMechanism("auction"))
	DirectClaim  = enum.New(ClaimMechanism("direct"))
)

type PackTemplate struct {
	Base

	Slug     string `gorm:"unique"`
	Title    string
	ImageUrl string

	Mechanism ClaimMechanism

	// AutoMint makes a successful claim immediately begin minting instead
	// of waiting for a separate settlement step.
	AutoMint bool

	ReleasedAt time.Time

	CreatedBy     string
	CreatedByUser User `gorm:"foreignKey:CreatedBy"`
}

// Published reports whether the template is visible to owners.
func (t *PackTemplate) Published(now time.Time) bool {
	return !t.ReleasedAt.IsZero() && !t.ReleasedAt.After(now)
}
