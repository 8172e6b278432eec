package testutil

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/packmart-lab/backend/internal/client"
)

// MockMintingCaller behaves like the built-in minting service but runs
// in-process. Every submission is deduplicated by key and counted, so
// tests can assert how many distinct mints actually reached the backend.
// The reported status defaults to pending and can be changed per ticket.
type MockMintingCaller struct {
	SubmitMintFunc func(ctx context.Context, dedupeKey string, metadata map[string]any) (client.SubmitMintResult, error)
	QueryMintFunc  func(ctx context.Context, ticketRef string) (client.QueryMintResult, error)

	mutex             sync.Mutex
	submitCount       int
	ticketByDedupeKey map[string]string
	statusByTicket    map[string]string
}

func (m *MockMintingCaller) SubmitMint(
	ctx context.Context, dedupeKey string, metadata map[string]any,
) (client.SubmitMintResult, error) {
	if m.SubmitMintFunc != nil {
		return m.SubmitMintFunc(ctx, dedupeKey, metadata)
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.submitCount++
	if m.ticketByDedupeKey == nil {
		m.ticketByDedupeKey = map[string]string{}
		m.statusByTicket = map[string]string{}
	}

	if ref, ok := m.ticketByDedupeKey[dedupeKey]; ok {
		return client.SubmitMintResult{TicketRef: ref}, nil
	}

	ref := uuid.NewString()
	m.ticketByDedupeKey[dedupeKey] = ref
	m.statusByTicket[ref] = client.MintStatusPending

	return client.SubmitMintResult{TicketRef: ref}, nil
}

func (m *MockMintingCaller) QueryMint(
	ctx context.Context, ticketRef string,
) (client.QueryMintResult, error) {
	if m.QueryMintFunc != nil {
		return m.QueryMintFunc(ctx, ticketRef)
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	status, ok := m.statusByTicket[ticketRef]
	if !ok {
		status = client.MintStatusPending
	}

	return client.QueryMintResult{Status: status}, nil
}

func (m *MockMintingCaller) Close() {}

// SetStatus changes what QueryMint reports for the ticket of dedupeKey.
func (m *MockMintingCaller) SetStatus(dedupeKey, status string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if ref, ok := m.ticketByDedupeKey[dedupeKey]; ok {
		m.statusByTicket[ref] = status
	}
}

func (m *MockMintingCaller) SubmitCount() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	return m.submitCount
}
