package payment

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// MemoryGateway keeps intents in process. It backs local development
// (PAYMENT_GATEWAY=memory) and tests; intents start pending until Settle
// or Decline is called, unless AutoSucceed is set.
type MemoryGateway struct {
	AutoSucceed bool

	mu      sync.Mutex
	intents map[string]*Intent
}

func NewMemoryGateway() *MemoryGateway {
	return &MemoryGateway{intents: map[string]*Intent{}}
}

func (g *MemoryGateway) Name() string { return "memory" }

func (g *MemoryGateway) CreateIntent(_ context.Context, req IntentRequest) (*Intent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	in := &Intent{
		ID:           "pi_" + uuid.NewString(),
		ClientSecret: "secret_" + uuid.NewString(),
		AmountCents:  req.AmountCents,
		Currency:     req.Currency,
		Status:       StatusPending,
	}
	if g.AutoSucceed {
		in.Status = StatusSucceeded
	}
	g.intents[in.ID] = in

	out := *in
	return &out, nil
}

func (g *MemoryGateway) GetIntent(_ context.Context, id string) (*Intent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	in, ok := g.intents[id]
	if !ok {
		return nil, fmt.Errorf("no such payment intent: %s", id)
	}
	out := *in
	return &out, nil
}

// Add registers an intent directly, e.g. one paid out of band.
func (g *MemoryGateway) Add(in Intent) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.intents[in.ID] = &in
}

func (g *MemoryGateway) Settle(id string) { g.set(id, StatusSucceeded) }

func (g *MemoryGateway) Decline(id string) { g.set(id, StatusFailed) }

func (g *MemoryGateway) set(id string, s IntentStatus) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if in, ok := g.intents[id]; ok {
		in.Status = s
	}
}
