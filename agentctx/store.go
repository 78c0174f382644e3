package agentctx

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// StoreConfig defines configuration for the in-memory agent profile store.
type StoreConfig struct {
	// TTL is how long an untouched profile stays resolvable.
	TTL time.Duration
	// CleanupInterval is how often the cleanup goroutine sweeps expired
	// profiles. Zero disables the sweeper (profiles still expire lazily).
	CleanupInterval time.Duration
}

// DefaultStoreConfig returns sensible defaults for profile retention.
func DefaultStoreConfig() StoreConfig {
	return StoreConfig{
		TTL:             30 * time.Minute,
		CleanupInterval: time.Minute,
	}
}

// Profile is a stored agent profile with retention bookkeeping.
type Profile struct {
	Context  *Context
	Tenant   string
	Created  time.Time
	LastSeen time.Time
}

// Store holds agent profiles keyed by session ID. It backs the Wire()
// middleware that resolves a Buffalo session to the current agent context.
// All access is guarded; the cleanup goroutine runs until Stop.
type Store struct {
	profiles map[string]*Profile
	config   StoreConfig
	log      logrus.FieldLogger
	mu       sync.RWMutex
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewStore creates a profile store and starts its cleanup loop.
func NewStore(config StoreConfig) *Store {
	s := &Store{
		profiles: make(map[string]*Profile),
		config:   config,
		log:      logrus.New(),
		stopCh:   make(chan struct{}),
	}
	if config.CleanupInterval > 0 {
		s.wg.Add(1)
		go s.cleanupLoop()
	}
	return s
}

// SetLogger replaces the store's logger.
func (s *Store) SetLogger(log logrus.FieldLogger) {
	if log != nil {
		s.log = log
	}
}

// Create stores a profile under a fresh session ID and returns the ID.
func (s *Store) Create(tenant string, ac *Context) (string, error) {
	id, err := generateSessionID()
	if err != nil {
		return "", err
	}

	stored := ac.clone()
	stored.SessionID = id

	now := time.Now()
	s.mu.Lock()
	s.profiles[id] = &Profile{
		Context:  stored,
		Tenant:   tenant,
		Created:  now,
		LastSeen: now,
	}
	s.mu.Unlock()

	return id, nil
}

// Put stores a profile under a caller-chosen session ID, replacing any
// existing entry.
func (s *Store) Put(sessionID, tenant string, ac *Context) {
	stored := ac.clone()
	stored.SessionID = sessionID

	now := time.Now()
	s.mu.Lock()
	s.profiles[sessionID] = &Profile{
		Context:  stored,
		Tenant:   tenant,
		Created:  now,
		LastSeen: now,
	}
	s.mu.Unlock()
}

// Resolve returns the agent context for a session, touching its retention
// clock. A tenant mismatch is a soft failure: it is logged and resolves to
// nil so rendering proceeds unpersonalized.
//
// The expiry check and the touch happen in one critical section; LastSeen is
// only ever read or written under the lock.
func (s *Store) Resolve(sessionID, tenant string) *Context {
	s.mu.Lock()
	profile, ok := s.profiles[sessionID]
	if !ok {
		s.mu.Unlock()
		return nil
	}

	if s.config.TTL > 0 && time.Since(profile.LastSeen) > s.config.TTL {
		delete(s.profiles, sessionID)
		s.mu.Unlock()
		return nil
	}

	mismatch := profile.Tenant != "" && tenant != "" && profile.Tenant != tenant
	if !mismatch {
		profile.LastSeen = time.Now()
	}
	ctx := profile.Context
	s.mu.Unlock()

	if mismatch {
		s.log.WithFields(logrus.Fields{
			"session": sessionID,
			"tenant":  tenant,
		}).Warn("agent session belongs to another tenant, ignoring")
		return nil
	}
	return ctx
}

// Remove deletes a stored profile.
func (s *Store) Remove(sessionID string) {
	s.mu.Lock()
	delete(s.profiles, sessionID)
	s.mu.Unlock()
}

// Len reports the number of stored profiles.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.profiles)
}

// Stop terminates the cleanup goroutine. Safe to call more than once.
func (s *Store) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
	})
	s.wg.Wait()
}

func (s *Store) cleanupLoop() {
	defer s.wg.Done()
	ticker := time.NewTicker(s.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *Store) sweep() {
	cutoff := time.Now().Add(-s.config.TTL)
	s.mu.Lock()
	for id, profile := range s.profiles {
		if profile.LastSeen.Before(cutoff) {
			delete(s.profiles, id)
		}
	}
	s.mu.Unlock()
}

// generateSessionID returns a 128-bit hex session identifier.
func generateSessionID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
