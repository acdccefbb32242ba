package session

import (
	"context"
	"fmt"
	"go.uber.org/zap"
	"rank-service/internal/errs"
	"rank-service/internal/metrics"
	"rank-service/internal/repository"
	"sort"
	"sync"
)

// Manager owns the single in-memory Profile of every player it has touched,
// online or not, so concurrent mutations always serialize on the same Profile.
type Manager struct {
	logger  *zap.SugaredLogger
	repo    repository.Repository
	ranks   RankIndex
	metrics *metrics.Metrics

	mu       sync.RWMutex
	profiles map[string]*Profile
	online   map[string]struct{}
}

func NewManager(logger *zap.SugaredLogger, repo repository.Repository, ranks RankIndex, m *metrics.Metrics) *Manager {
	return &Manager{
		logger:   logger,
		repo:     repo,
		ranks:    ranks,
		metrics:  m,
		profiles: make(map[string]*Profile),
		online:   make(map[string]struct{}),
	}
}

// Join loads the player's profile, creating the default one for new players,
// and marks them online. Joining twice returns the existing session.
func (m *Manager) Join(ctx context.Context, name string) (*Profile, error) {
	if p, ok := m.Online(name); ok {
		return p, nil
	}

	p, ok := m.cached(name)
	if !ok {
		loaded, err := Load(ctx, m.logger, m.repo, m.ranks, m.metrics, name)
		if err != nil {
			return nil, err
		}
		p = loaded
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	p = m.keep(name, p)
	m.online[name] = struct{}{}
	m.metrics.OnlinePlayers.Set(float64(len(m.online)))
	return p, nil
}

// Quit drops the player's session. It reports whether they were online. The
// profile stays cached for lookups.
func (m *Manager) Quit(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.online[name]; !ok {
		return false
	}
	delete(m.online, name)
	m.metrics.OnlinePlayers.Set(float64(len(m.online)))
	return true
}

func (m *Manager) Online(name string) (*Profile, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.online[name]; !ok {
		return nil, false
	}
	return m.profiles[name], true
}

// Lookup returns the player's profile, loading it from storage the first time.
// Players that never joined are errs.NotFound; nothing is created.
func (m *Manager) Lookup(ctx context.Context, name string) (*Profile, error) {
	if p, ok := m.cached(name); ok {
		return p, nil
	}

	p, err := Find(ctx, m.logger, m.repo, m.ranks, m.metrics, name)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	return m.keep(name, p), nil
}

func (m *Manager) cached(name string) (*Profile, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.profiles[name]
	return p, ok
}

// keep caches p unless another caller got there first, in which case the
// earlier profile wins. m.mu must be held.
func (m *Manager) keep(name string, p *Profile) *Profile {
	if existing, ok := m.profiles[name]; ok {
		return existing
	}
	m.profiles[name] = p
	return p
}

func (m *Manager) OnlinePlayers() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.online))
	for name := range m.online {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PlayerNames lists every player with a stored profile.
func (m *Manager) PlayerNames(ctx context.Context) ([]string, error) {
	names, err := m.repo.GetPlayerNames(ctx)
	if err != nil {
		m.logger.Errorw("failed to list players", "error", err)
		return nil, fmt.Errorf("%w: failed to list players: %w", errs.Persistence, err)
	}
	sort.Strings(names)
	return names, nil
}
