// Package ratelimit implements sliding-window admission control keyed by
// client identity.
package ratelimit

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/hashicorp/golang-lru/simplelru"
)

// Limiter admits or rejects one action for a client. true means allowed.
type Limiter interface {
	Admit(ctx context.Context, clientID string) bool
}

type Config struct {
	Max        int
	Window     time.Duration
	MaxClients int
}

func DefaultConfig() Config {
	return Config{Max: 5, Window: 60 * time.Second, MaxClients: 10000}
}

func (c Config) validate() error {
	if c.Window <= 0 {
		return errors.New("ratelimit: window must be positive")
	}
	if c.Max < 0 {
		return errors.New("ratelimit: max must not be negative")
	}
	return nil
}

// Memory keeps the admission history of each client in process memory.
// The number of tracked clients is capped; the least recently seen client is
// forgotten first and starts over with a full budget.
type Memory struct {
	mu      sync.Mutex
	cfg     Config
	clock   clock.Clock
	clients *simplelru.LRU
}

func NewMemory(cfg Config, clk clock.Clock) (*Memory, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.MaxClients <= 0 {
		cfg.MaxClients = DefaultConfig().MaxClients
	}
	if clk == nil {
		clk = clock.New()
	}
	lru, err := simplelru.NewLRU(cfg.MaxClients, nil)
	if err != nil {
		return nil, err
	}
	return &Memory{cfg: cfg, clock: clk, clients: lru}, nil
}

func (m *Memory) Admit(_ context.Context, clientID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	// read under the lock so histories stay in admission order
	now := m.clock.Now()

	var history []time.Time
	if v, ok := m.clients.Get(clientID); ok {
		history = v.([]time.Time)
	}
	history = prune(history, now, m.cfg.Window)

	if len(history) >= m.cfg.Max {
		if len(history) == 0 {
			m.clients.Remove(clientID)
		} else {
			m.clients.Add(clientID, history)
		}
		return false
	}

	m.clients.Add(clientID, append(history, now))
	return true
}

// Clients reports how many identities are currently tracked.
func (m *Memory) Clients() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.clients.Len()
}

// prune drops admissions at least window old. history is in admission order.
func prune(history []time.Time, now time.Time, window time.Duration) []time.Time {
	i := 0
	for i < len(history) && now.Sub(history[i]) >= window {
		i++
	}
	if i == 0 {
		return history
	}
	kept := make([]time.Time, len(history)-i, len(history)-i+1)
	copy(kept, history[i:])
	return kept
}
