package minting

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/packmart-lab/backend/internal/client"
	"github.com/packmart-lab/backend/pkg/xcontext"
)

// Manager is the built-in minting service. Production deployments point
// the api service at a real chain minting backend; this one exists so the
// whole platform can run from a single binary in development. It is
// exposed over rpc with the same method set the caller expects.
type Manager struct {
	mutex        sync.Mutex
	confirmDelay time.Duration

	ticketByDedupeKey map[string]string
	submittedAt       map[string]time.Time
}

func NewManager(ctx context.Context) *Manager {
	return &Manager{
		confirmDelay:      xcontext.Configs(ctx).Minting.ConfirmDelay,
		ticketByDedupeKey: map[string]string{},
		submittedAt:       map[string]time.Time{},
	}
}

// SubmitMint records a mint request. A repeated dedupe key returns the
// ticket ref of the first submission instead of minting again.
func (m *Manager) SubmitMint(
	ctx context.Context, dedupeKey string, metadata map[string]any,
) (client.SubmitMintResult, error) {
	if dedupeKey == "" {
		return client.SubmitMintResult{}, errors.New("empty dedupe key")
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	if ref, ok := m.ticketByDedupeKey[dedupeKey]; ok {
		return client.SubmitMintResult{TicketRef: ref}, nil
	}

	ref := uuid.NewString()
	m.ticketByDedupeKey[dedupeKey] = ref
	m.submittedAt[ref] = time.Now()

	return client.SubmitMintResult{TicketRef: ref}, nil
}

// QueryMint reports a ticket as pending until the confirm delay elapses.
func (m *Manager) QueryMint(ctx context.Context, ticketRef string) (client.QueryMintResult, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	submittedAt, ok := m.submittedAt[ticketRef]
	if !ok {
		return client.QueryMintResult{}, errors.New("unknown ticket ref")
	}

	if time.Since(submittedAt) < m.confirmDelay {
		return client.QueryMintResult{Status: client.MintStatusPending}, nil
	}

	return client.QueryMintResult{Status: client.MintStatusConfirmed}, nil
}
