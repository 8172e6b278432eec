package packclaim

import (
	"context"
	"errors"
	"time"

	"github.com/fatih/structs"
	"github.com/packmart-lab/backend/internal/client"
	"github.com/packmart-lab/backend/internal/entity"
	"github.com/packmart-lab/backend/internal/repository"
	"github.com/packmart-lab/backend/pkg/errorx"
	"github.com/packmart-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

// MintMetadata is the payload submitted with a mint. It is persisted on
// the ticket as a Map for audit.
type MintMetadata struct {
	PackID       string `structs:"pack_id" mapstructure:"pack_id"`
	TemplateID   string `structs:"template_id" mapstructure:"template_id"`
	Slug         string `structs:"slug" mapstructure:"slug"`
	Title        string `structs:"title" mapstructure:"title"`
	ImageUrl     string `structs:"image_url" mapstructure:"image_url"`
	OwnerAddress string `structs:"owner_address" mapstructure:"owner_address"`
	Chain        string `structs:"chain" mapstructure:"chain"`
}

// Minter tracks the external minting of claimed packs. One active ticket
// exists per pack; completion is observed by polling, never assumed.
type Minter struct {
	packRepo   repository.PackRepository
	ticketRepo repository.MintingTicketRepository
	userRepo   repository.UserRepository
	caller     client.MintingCaller
}

func NewMinter(
	packRepo repository.PackRepository,
	ticketRepo repository.MintingTicketRepository,
	userRepo repository.UserRepository,
	caller client.MintingCaller,
) *Minter {
	return &Minter{
		packRepo:   packRepo,
		ticketRepo: ticketRepo,
		userRepo:   userRepo,
		caller:     caller,
	}
}

// BeginMinting moves a claimed pack into minting and submits the mint to
// the external backend. Calling it again while the pack is minting or
// already minted returns the existing ticket instead of submitting a
// duplicate.
func (m *Minter) BeginMinting(ctx context.Context, packID string) (*entity.MintingTicket, error) {
	pack, err := m.packRepo.GetByID(ctx, packID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found pack")
		}

		return nil, err
	}

	switch pack.State {
	case entity.PackClaimed:
		// proceed below
	case entity.PackMinting, entity.PackMinted:
		return m.existingTicket(ctx, packID)
	default:
		return nil, errorx.New(errorx.InvalidState, "This pack cannot be minted")
	}

	if !pack.OwnerID.Valid {
		return nil, errorx.New(errorx.InvalidState, "This pack has no owner")
	}

	owner, err := m.userRepo.GetByID(ctx, pack.OwnerID.String)
	if err != nil {
		return nil, err
	}

	ok, err := m.packRepo.ConditionalUpdate(ctx, packID, entity.PackClaimed,
		map[string]any{"state": entity.PackMinting})
	if err != nil {
		return nil, err
	}

	if !ok {
		// Another request won the transition; its ticket is the one to
		// report.
		return m.existingTicket(ctx, packID)
	}

	metadata := structs.Map(MintMetadata{
		PackID:       pack.ID,
		TemplateID:   pack.TemplateID,
		Slug:         pack.Template.Slug,
		Title:        pack.Template.Title,
		ImageUrl:     pack.Template.ImageUrl,
		OwnerAddress: owner.Address,
		Chain:        xcontext.Configs(ctx).Minting.Chain,
	})

	ticket := &entity.MintingTicket{
		SnowFlakeBase: entity.SnowFlakeBase{ID: xcontext.SnowFlake(ctx).Generate().Int64()},
		PackID:        pack.ID,
		Status:        entity.MintPending,
		Metadata:      metadata,
	}

	if err := m.ticketRepo.Create(ctx, ticket); err != nil {
		// No ticket exists yet; hand the pack back to its claim so the
		// mint can be retried.
		m.revertClaim(ctx, pack.ID)
		return nil, err
	}

	// The pack id doubles as dedupe key: a pack is minted at most once
	// ever, and the backend must answer a repeated key with the original
	// ticket ref.
	result, err := m.caller.SubmitMint(ctx, pack.ID, metadata)
	if err != nil {
		m.revertSubmission(ctx, ticket)
		return nil, err
	}

	ok, err = m.ticketRepo.ConditionalUpdateStatus(ctx, ticket.ID, entity.MintPending,
		map[string]any{
			"status":          entity.MintSubmitted,
			"ticket_ref":      result.TicketRef,
			"last_checked_at": time.Now(),
		})
	if err != nil {
		return nil, err
	}

	if !ok {
		xcontext.Logger(ctx).Warnf("Ticket %d moved concurrently after submission", ticket.ID)
	}

	return m.ticketRepo.GetByID(ctx, ticket.ID)
}

// Status answers with the locally tracked mint status, re-querying the
// backend only when the local answer is older than the configured
// freshness threshold.
func (m *Minter) Status(ctx context.Context, packID string) (entity.MintStatus, error) {
	ticket, err := m.ticketRepo.GetLatestByPackID(ctx, packID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", errorx.New(errorx.NotFound, "No minting for this pack")
		}

		return "", err
	}

	if ticket.Status != entity.MintSubmitted {
		return ticket.Status, nil
	}

	freshness := xcontext.Configs(ctx).Minting.StatusFreshness
	if ticket.LastCheckedAt.Valid && time.Since(ticket.LastCheckedAt.Time) < freshness {
		return ticket.Status, nil
	}

	reconciled, err := m.reconcileTicket(ctx, ticket)
	if err != nil {
		// Status unknown is not mint failure; answer with what we know.
		xcontext.Logger(ctx).Warnf("Cannot reconcile ticket %d: %v", ticket.ID, err)
		return ticket.Status, nil
	}

	return reconciled.Status, nil
}

// Reconcile re-queries the backend for the pack's active ticket and
// applies the outcome. It is invoked by the reconciler worker.
func (m *Minter) Reconcile(ctx context.Context, packID string) error {
	ticket, err := m.ticketRepo.GetActiveByPackID(ctx, packID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}

		return err
	}

	_, err = m.reconcileTicket(ctx, ticket)
	return err
}

// ReconcileStale walks submitted tickets whose status has not been
// checked within the freshness threshold and reconciles each of them.
func (m *Minter) ReconcileStale(ctx context.Context, limit int) error {
	before := time.Now().Add(-xcontext.Configs(ctx).Minting.StatusFreshness)
	tickets, err := m.ticketRepo.GetStaleSubmitted(ctx, before, limit)
	if err != nil {
		return err
	}

	for _, ticket := range tickets {
		t := ticket
		if _, err := m.reconcileTicket(ctx, &t); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot reconcile ticket %d: %v", t.ID, err)
		}
	}

	return nil
}

func (m *Minter) existingTicket(ctx context.Context, packID string) (*entity.MintingTicket, error) {
	ticket, err := m.ticketRepo.GetLatestByPackID(ctx, packID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "No minting for this pack")
		}

		return nil, err
	}

	return ticket, nil
}

// revertClaim hands a minting pack back to its claim. The claim itself
// is never released.
func (m *Minter) revertClaim(ctx context.Context, packID string) {
	ok, err := m.packRepo.ConditionalUpdate(ctx, packID, entity.PackMinting,
		map[string]any{"state": entity.PackClaimed})
	if err != nil || !ok {
		xcontext.Logger(ctx).Errorf("Cannot revert pack %s to claimed: %v", packID, err)
	}
}

// revertSubmission records the failed submit and hands the pack back to
// its claim so minting can be retried.
func (m *Minter) revertSubmission(ctx context.Context, ticket *entity.MintingTicket) {
	ok, err := m.ticketRepo.ConditionalUpdateStatus(ctx, ticket.ID, entity.MintPending,
		map[string]any{"status": entity.MintFailed})
	if err != nil || !ok {
		xcontext.Logger(ctx).Errorf("Cannot mark ticket %d failed: %v", ticket.ID, err)
	}

	m.revertClaim(ctx, ticket.PackID)
}

func (m *Minter) reconcileTicket(
	ctx context.Context, ticket *entity.MintingTicket,
) (*entity.MintingTicket, error) {
	if ticket.Status != entity.MintSubmitted || !ticket.TicketRef.Valid {
		return ticket, nil
	}

	result, err := m.caller.QueryMint(ctx, ticket.TicketRef.String)
	if err != nil {
		// Timeouts and transport errors mean status unknown; the next
		// poll retries.
		return nil, err
	}

	pack, err := m.packRepo.GetByID(ctx, ticket.PackID)
	if err != nil {
		return nil, err
	}

	// A revoked pack no longer tracks its mint; late completion signals
	// are dropped.
	if pack.State == entity.PackRevoked {
		_, err := m.ticketRepo.ConditionalUpdateStatus(ctx, ticket.ID, entity.MintSubmitted,
			map[string]any{"status": entity.MintAbandoned})
		if err != nil {
			return nil, err
		}

		return m.ticketRepo.GetByID(ctx, ticket.ID)
	}

	switch result.Status {
	case client.MintStatusPending:
		_, err := m.ticketRepo.ConditionalUpdateStatus(ctx, ticket.ID, entity.MintSubmitted,
			map[string]any{"last_checked_at": time.Now()})
		if err != nil {
			return nil, err
		}

	case client.MintStatusConfirmed:
		ok, err := m.ticketRepo.ConditionalUpdateStatus(ctx, ticket.ID, entity.MintSubmitted,
			map[string]any{"status": entity.MintConfirmed, "last_checked_at": time.Now()})
		if err != nil {
			return nil, err
		}

		if ok {
			if _, err := m.packRepo.ConditionalUpdate(ctx, ticket.PackID, entity.PackMinting,
				map[string]any{"state": entity.PackMinted}); err != nil {
				return nil, err
			}
		}

	case client.MintStatusFailed:
		ok, err := m.ticketRepo.ConditionalUpdateStatus(ctx, ticket.ID, entity.MintSubmitted,
			map[string]any{"status": entity.MintFailed, "last_checked_at": time.Now()})
		if err != nil {
			return nil, err
		}

		if ok {
			// The claim is preserved; only the mint attempt failed.
			if _, err := m.packRepo.ConditionalUpdate(ctx, ticket.PackID, entity.PackMinting,
				map[string]any{"state": entity.PackClaimed}); err != nil {
				return nil, err
			}
		}
	}

	return m.ticketRepo.GetByID(ctx, ticket.ID)
}
