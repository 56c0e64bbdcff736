package keypool

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"sync"
)

// DefaultLimit is Alpha Vantage's per-key call allowance per rotation window.
const DefaultLimit = 25

var (
	// ErrPoolExhausted means no keys are configured at all.
	ErrPoolExhausted = errors.New("keypool: no api keys configured")

	// ErrAllKeysExhausted means the last active key just hit zero quota.
	// The in-flight call fails; the next Acquire recovers via pool swap.
	ErrAllKeysExhausted = errors.New("keypool: all api keys exhausted")

	// ErrAllKeysReserved means every active key's quota is fully claimed
	// by in-flight requests.
	ErrAllKeysReserved = errors.New("keypool: all active keys reserved by in-flight requests")
)

// TieBreak picks one key among equally ranked candidates.
type TieBreak func(candidates []string) string

// Pool tracks per-key quotas for the shared credential pool.
type Pool struct {
	mu       sync.Mutex
	limit    int
	active   map[string]int
	expired  map[string]int
	reserved map[string]int
	current  string

	store    Store
	tieBreak TieBreak
	logger   *slog.Logger
}

// Option configures a Pool.
type Option func(*Pool)

// WithLimit sets the per-key call allowance.
func WithLimit(n int) Option {
	return func(p *Pool) {
		p.limit = n
	}
}

// WithTieBreak sets the tie-break policy for selection.
func WithTieBreak(tb TieBreak) Option {
	return func(p *Pool) {
		p.tieBreak = tb
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pool) {
		p.logger = logger
	}
}

// New builds a Pool from the membership recorded in store. Every listed
// key starts with full quota; only membership is persisted.
func New(store Store, opts ...Option) (*Pool, error) {
	p := &Pool{
		limit:    DefaultLimit,
		reserved: make(map[string]int),
		store:    store,
		tieBreak: randomTieBreak,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}

	activeKeys, expiredKeys, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("load key state: %w", err)
	}

	p.active = make(map[string]int, len(activeKeys))
	p.expired = make(map[string]int, len(expiredKeys))
	for _, k := range activeKeys {
		p.active[k] = p.limit
	}
	for _, k := range expiredKeys {
		if _, dup := p.active[k]; dup {
			return nil, fmt.Errorf("key state lists %q as both active and expired", k)
		}
		p.expired[k] = p.limit
	}

	p.logger.Info("key pool loaded",
		"active", len(p.active),
		"expired", len(p.expired),
		"limit", p.limit,
	)
	return p, nil
}

// Acquire reserves the active key with the most remaining calls. If the
// active set is empty it first promotes the expired set back to active.
// The caller must settle the reservation with Consume, Expire or Release.
func (p *Pool) Acquire() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.ensureActiveLocked(); err != nil {
		return "", err
	}

	key, err := p.selectLocked()
	if err != nil {
		return "", err
	}

	p.reserved[key]++
	p.current = key
	p.logger.Debug("api key reserved",
		"key", key,
		"remaining", p.active[key],
		"in_flight", p.reserved[key],
	)
	return key, nil
}

// Consume commits a successful call against key: quota drops by one, and
// a key that reaches zero moves to expired with quota reset to the full
// limit. If that empties the active set, ErrAllKeysExhausted is returned
// for the in-flight call; the next Acquire swaps the pools.
func (p *Pool) Consume(key string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.releaseLocked(key)

	remaining, ok := p.active[key]
	if !ok {
		// Force-expired by a concurrent dispatch; its quota was already
		// reset, so there is nothing left to charge.
		return nil
	}

	remaining--
	if remaining > 0 {
		p.active[key] = remaining
		p.logger.Info("requests remaining for api key", "key", key, "remaining", remaining)
		return p.saveLocked()
	}

	p.expireLocked(key)

	if len(p.active) == 0 {
		if err := p.saveLocked(); err != nil {
			return err
		}
		p.logger.Error("all api keys exhausted")
		return ErrAllKeysExhausted
	}

	if next, err := p.selectLocked(); err == nil {
		p.current = next
	}
	return p.saveLocked()
}

// Expire force-expires key after a provider soft block. The remaining
// quota is discarded and reset to the full limit. No error is returned
// when the key was already expired by a concurrent dispatch.
func (p *Pool) Expire(key string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.releaseLocked(key)

	if _, ok := p.active[key]; !ok {
		return nil
	}

	p.expireLocked(key)
	if next, err := p.selectLocked(); err == nil {
		p.current = next
	}
	return p.saveLocked()
}

// Release drops a reservation without charging any quota. Used when the
// call failed at the transport layer or returned an unreadable body.
func (p *Pool) Release(key string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.releaseLocked(key)
}

// Current returns the most recently selected key, or "" when none.
func (p *Pool) Current() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Snapshot reports pool state for logging and metrics.
type Snapshot struct {
	Limit    int
	Current  string
	Active   map[string]int
	Expired  map[string]int
	InFlight int
}

// Snapshot returns a copy of the pool state.
func (p *Pool) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := Snapshot{
		Limit:   p.limit,
		Current: p.current,
		Active:  make(map[string]int, len(p.active)),
		Expired: make(map[string]int, len(p.expired)),
	}
	for k, v := range p.active {
		s.Active[k] = v
	}
	for k, v := range p.expired {
		s.Expired[k] = v
	}
	for _, n := range p.reserved {
		s.InFlight += n
	}
	return s
}

// ensureActiveLocked swaps the expired set back in when active is empty.
func (p *Pool) ensureActiveLocked() error {
	if len(p.active) > 0 {
		return nil
	}
	if len(p.expired) == 0 {
		return ErrPoolExhausted
	}

	p.logger.Warn("no active api keys, swapping in expired set", "count", len(p.expired))
	p.active, p.expired = p.expired, p.active
	return p.saveLocked()
}

// selectLocked picks among active keys with the maximum effective
// remaining quota (remaining minus in-flight reservations).
func (p *Pool) selectLocked() (string, error) {
	best := 0
	var candidates []string
	for k, remaining := range p.active {
		effective := remaining - p.reserved[k]
		if effective <= 0 {
			continue
		}
		switch {
		case effective > best:
			best = effective
			candidates = candidates[:0]
			candidates = append(candidates, k)
		case effective == best:
			candidates = append(candidates, k)
		}
	}
	if len(candidates) == 0 {
		return "", ErrAllKeysReserved
	}
	slices.Sort(candidates)
	return p.tieBreak(candidates), nil
}

func (p *Pool) expireLocked(key string) {
	delete(p.active, key)
	delete(p.reserved, key)
	p.expired[key] = p.limit
	if p.current == key {
		p.current = ""
	}
	p.logger.Info("api key expired", "key", key, "active_left", len(p.active))
}

func (p *Pool) releaseLocked(key string) {
	if p.reserved[key] <= 1 {
		delete(p.reserved, key)
		return
	}
	p.reserved[key]--
}

func (p *Pool) saveLocked() error {
	activeKeys := make([]string, 0, len(p.active))
	for k := range p.active {
		activeKeys = append(activeKeys, k)
	}
	expiredKeys := make([]string, 0, len(p.expired))
	for k := range p.expired {
		expiredKeys = append(expiredKeys, k)
	}
	slices.Sort(activeKeys)
	slices.Sort(expiredKeys)

	if err := p.store.Save(activeKeys, expiredKeys); err != nil {
		return fmt.Errorf("persist key state: %w", err)
	}
	return nil
}

func randomTieBreak(candidates []string) string {
	return candidates[rand.IntN(len(candidates))]
}
