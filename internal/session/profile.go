package session

import (
	"context"
	"errors"
	"fmt"
	"go.uber.org/zap"
	"rank-service/internal/errs"
	"rank-service/internal/metrics"
	"rank-service/internal/repository"
	"rank-service/internal/repository/model"
	"rank-service/internal/textformat"
	"slices"
	"sync"
)

type RankIndex interface {
	RankExists(name string) bool
}

// Profile is a player's mutable state. Every mutation is applied to a copy,
// written through to storage and only then made visible.
type Profile struct {
	logger  *zap.SugaredLogger
	repo    repository.Repository
	ranks   RankIndex
	metrics *metrics.Metrics

	mu    sync.Mutex
	state *model.Player
}

func NewPlayer(name string) *model.Player {
	return &model.Player{
		Name:        name,
		Ranks:       []string{model.DefaultRankName},
		Permissions: []string{},
		ChatColor:   textformat.DefaultColorToken,
		Tags:        []string{},
		DisplayTags: []string{},
	}
}

// Load restores the player's profile. A player without a record gets the
// default profile, which is saved straight away.
func Load(ctx context.Context, logger *zap.SugaredLogger, repo repository.Repository, ranks RankIndex,
	m *metrics.Metrics, name string) (*Profile, error) {

	p, err := Find(ctx, logger, repo, ranks, m, name)
	if err == nil || !errors.Is(err, errs.NotFound) {
		return p, err
	}

	p = newProfile(logger, repo, ranks, m)
	player := NewPlayer(name)
	if err := p.save(ctx, player); err != nil {
		return nil, err
	}
	p.state = player
	return p, nil
}

// Find restores a stored profile. Unlike Load it never creates one: a player
// without a record is errs.NotFound.
func Find(ctx context.Context, logger *zap.SugaredLogger, repo repository.Repository, ranks RankIndex,
	m *metrics.Metrics, name string) (*Profile, error) {

	player, err := repo.GetPlayer(ctx, name)
	switch {
	case err == nil:
	case errors.Is(err, errs.NotFound):
		return nil, fmt.Errorf("player %q: %w", name, errs.NotFound)
	default:
		logger.Errorw("failed to load player", "player", name, "error", err)
		return nil, fmt.Errorf("%w: failed to load player %q: %w", errs.Persistence, name, err)
	}

	p := newProfile(logger, repo, ranks, m)
	p.state = normalize(player)
	return p, nil
}

func newProfile(logger *zap.SugaredLogger, repo repository.Repository, ranks RankIndex, m *metrics.Metrics) *Profile {
	return &Profile{
		logger:  logger,
		repo:    repo,
		ranks:   ranks,
		metrics: m,
	}
}

func normalize(player *model.Player) *model.Player {
	p := clonePlayer(player)
	if p.Ranks == nil {
		p.Ranks = []string{}
	}
	if p.Permissions == nil {
		p.Permissions = []string{}
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if p.DisplayTags == nil {
		p.DisplayTags = []string{}
	}
	p.ChatColor = textformat.NormalizeColorToken(p.ChatColor)
	return p
}

func clonePlayer(p *model.Player) *model.Player {
	c := *p
	c.Ranks = slices.Clone(p.Ranks)
	c.Permissions = slices.Clone(p.Permissions)
	c.Tags = slices.Clone(p.Tags)
	c.DisplayTags = slices.Clone(p.DisplayTags)
	return &c
}

func (p *Profile) Name() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.state.Name
}

// Snapshot returns a copy of the current record.
func (p *Profile) Snapshot() *model.Player {
	p.mu.Lock()
	defer p.mu.Unlock()

	return clonePlayer(p.state)
}

func (p *Profile) Ranks() []string {
	return p.Snapshot().Ranks
}

func (p *Profile) Permissions() []string {
	return p.Snapshot().Permissions
}

func (p *Profile) Tags() []string {
	return p.Snapshot().Tags
}

func (p *Profile) DisplayTags() []string {
	return p.Snapshot().DisplayTags
}

func (p *Profile) ChatColorToken() string {
	return p.Snapshot().ChatColor
}

// ChatColor returns the format code of the player's chat colour.
func (p *Profile) ChatColor() string {
	return textformat.Color(p.ChatColorToken())
}

func (p *Profile) AddRank(ctx context.Context, rank string) error {
	if rank != model.DefaultRankName && !p.ranks.RankExists(rank) {
		return fmt.Errorf("rank %q %w", rank, errs.NotFound)
	}
	return p.mutate(ctx, func(player *model.Player) error {
		return addEntry(&player.Ranks, rank, "rank", player.Name)
	})
}

func (p *Profile) RemoveRank(ctx context.Context, rank string) error {
	return p.mutate(ctx, func(player *model.Player) error {
		return removeEntry(&player.Ranks, rank, "rank", player.Name)
	})
}

func (p *Profile) AddPermission(ctx context.Context, permission string) error {
	return p.mutate(ctx, func(player *model.Player) error {
		return addEntry(&player.Permissions, permission, "permission", player.Name)
	})
}

func (p *Profile) RemovePermission(ctx context.Context, permission string) error {
	return p.mutate(ctx, func(player *model.Player) error {
		return removeEntry(&player.Permissions, permission, "permission", player.Name)
	})
}

// SetChatColor stores token, or the default colour if token is not a known colour.
func (p *Profile) SetChatColor(ctx context.Context, token string) (string, error) {
	token = textformat.NormalizeColorToken(token)
	err := p.mutate(ctx, func(player *model.Player) error {
		player.ChatColor = token
		return nil
	})
	return token, err
}

func (p *Profile) AddTag(ctx context.Context, tag string) error {
	return p.mutate(ctx, func(player *model.Player) error {
		return addEntry(&player.Tags, tag, "tag", player.Name)
	})
}

func (p *Profile) RemoveTag(ctx context.Context, tag string) error {
	return p.mutate(ctx, func(player *model.Player) error {
		return removeEntry(&player.Tags, tag, "tag", player.Name)
	})
}

func (p *Profile) AddDisplayTag(ctx context.Context, tag string) error {
	return p.mutate(ctx, func(player *model.Player) error {
		return addEntry(&player.DisplayTags, tag, "display tag", player.Name)
	})
}

func (p *Profile) RemoveDisplayTag(ctx context.Context, tag string) error {
	return p.mutate(ctx, func(player *model.Player) error {
		return removeEntry(&player.DisplayTags, tag, "display tag", player.Name)
	})
}

func (p *Profile) mutate(ctx context.Context, apply func(player *model.Player) error) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	next := clonePlayer(p.state)
	if err := apply(next); err != nil {
		return err
	}
	if err := p.save(ctx, next); err != nil {
		return err
	}

	p.state = next
	return nil
}

func (p *Profile) save(ctx context.Context, player *model.Player) error {
	err := p.repo.SavePlayer(ctx, player)
	p.metrics.ProfileWrites.WithLabelValues(metrics.Result(err)).Inc()
	if err != nil {
		p.logger.Errorw("failed to save player", "player", player.Name, "error", err)
		return fmt.Errorf("%w: failed to save player %q: %w", errs.Persistence, player.Name, err)
	}
	return nil
}

func addEntry(list *[]string, value string, kind string, player string) error {
	if slices.Contains(*list, value) {
		return fmt.Errorf("player %q already has %s %q: %w", player, kind, value, errs.AlreadyExists)
	}
	*list = append(*list, value)
	return nil
}

func removeEntry(list *[]string, value string, kind string, player string) error {
	i := slices.Index(*list, value)
	if i < 0 {
		return fmt.Errorf("player %q does not have %s %q: %w", player, kind, value, errs.NotFound)
	}
	*list = slices.Delete(*list, i, i+1)
	return nil
}
