package rank

import (
	"context"
	"errors"
	"fmt"
	"go.uber.org/zap"
	"rank-service/internal/errs"
	"rank-service/internal/metrics"
	"rank-service/internal/placeholder"
	"rank-service/internal/repository"
	"rank-service/internal/repository/model"
	"rank-service/internal/textformat"
	"rank-service/internal/utils"
	"slices"
	"sync"
)

const (
	NamePlaceholder        = "rank_name"
	DescriptionPlaceholder = "description"
	ColorPlaceholder       = "color"
)

type RankOptions struct {
	Parent          *string
	DisplayTemplate *string
	Description     *string
	Color           *string
}

// Store is the in-memory index of ranks. Once loaded it is the source of
// truth for reads; writes go to the repository first and only touch the index
// when storage succeeded.
type Store struct {
	logger  *zap.SugaredLogger
	repo    repository.Repository
	engine  *placeholder.Engine
	metrics *metrics.Metrics

	mu        sync.RWMutex
	ranks     map[string]*model.Rank
	order     []string
	hierarchy *Hierarchy
}

func NewStore(ctx context.Context, logger *zap.SugaredLogger, repo repository.Repository,
	engine *placeholder.Engine, m *metrics.Metrics) (*Store, error) {

	ranks, err := repo.GetAllRanks(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load ranks: %w", errs.Persistence, err)
	}

	s := &Store{
		logger:  logger,
		repo:    repo,
		engine:  engine,
		metrics: m,
		ranks:   make(map[string]*model.Rank, len(ranks)),
	}
	for _, r := range ranks {
		s.ranks[r.Name] = r
		s.order = append(s.order, r.Name)
	}
	s.rebuild()

	engine.Register(NamePlaceholder, func(placeholder.Match) string { return "Unknown" })
	engine.Register(DescriptionPlaceholder, func(placeholder.Match) string { return "" })
	engine.Register(ColorPlaceholder, func(placeholder.Match) string { return "" })

	logger.Infow("loaded ranks", "count", len(ranks))
	return s, nil
}

func (s *Store) CreateRank(ctx context.Context, name string, opts RankOptions) (created *model.Rank, err error) {
	defer s.record("create", &err)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ranks[name]; ok {
		return nil, fmt.Errorf("rank %q %w", name, errs.AlreadyExists)
	}
	if opts.Parent != nil {
		if _, ok := s.ranks[*opts.Parent]; !ok {
			return nil, fmt.Errorf("parent rank %q does not exist: %w", *opts.Parent, errs.InvalidReference)
		}
	}

	rank := &model.Rank{
		Name:            name,
		Parent:          opts.Parent,
		DisplayTemplate: opts.DisplayTemplate,
		Description:     opts.Description,
		Color:           opts.Color,
		Permissions:     []string{},
	}
	if err := s.repo.CreateRank(ctx, rank); err != nil {
		return nil, s.storageError("create rank", name, err)
	}

	s.ranks[name] = rank
	s.order = append(s.order, name)
	s.rebuild()

	return rank.Clone(), nil
}

// DeleteRank removes the rank and its grants. Child ranks keep their parent
// reference and show up as roots of the hierarchy.
func (s *Store) DeleteRank(ctx context.Context, name string) (err error) {
	defer s.record("delete", &err)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ranks[name]; !ok {
		return fmt.Errorf("rank %q %w", name, errs.NotFound)
	}

	if err := s.repo.DeleteRank(ctx, name); err != nil {
		if errors.Is(err, repository.RankPermissionsClearedError) {
			// Storage lost the grants already, memory follows so the two agree.
			s.logger.Warnw("rank permissions were cleared but the rank was kept", "rank", name, "error", err)
			s.ranks[name].Permissions = []string{}
		}
		return s.storageError("delete rank", name, err)
	}

	delete(s.ranks, name)
	s.order = slices.DeleteFunc(s.order, func(n string) bool { return n == name })
	s.rebuild()

	return nil
}

func (s *Store) RankExists(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.ranks[name]
	return ok
}

func (s *Store) GetRank(name string) (*model.Rank, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.ranks[name]
	if !ok {
		return nil, false
	}
	return r.Clone(), true
}

// GetRanks returns copies of every rank in creation order.
func (s *Store) GetRanks() []*model.Rank {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ranks := make([]*model.Rank, 0, len(s.order))
	for _, name := range s.order {
		ranks = append(ranks, s.ranks[name].Clone())
	}
	return ranks
}

func (s *Store) AddPermission(ctx context.Context, rank string, permission string) (err error) {
	defer s.record("add_permission", &err)

	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.ranks[rank]
	if !ok {
		return fmt.Errorf("rank %q %w", rank, errs.NotFound)
	}
	if r.HasPermission(permission) {
		return fmt.Errorf("rank %q already has permission %q: %w", rank, permission, errs.AlreadyExists)
	}

	if err := s.repo.AddRankPermission(ctx, rank, permission); err != nil {
		return s.storageError("add rank permission", rank, err)
	}

	updated := r.Clone()
	updated.Permissions = append(updated.Permissions, permission)
	s.ranks[rank] = updated
	return nil
}

func (s *Store) RemovePermission(ctx context.Context, rank string, permission string) (err error) {
	defer s.record("remove_permission", &err)

	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.ranks[rank]
	if !ok {
		return fmt.Errorf("rank %q %w", rank, errs.NotFound)
	}
	if !r.HasPermission(permission) {
		return fmt.Errorf("rank %q does not have permission %q: %w", rank, permission, errs.NotFound)
	}

	if err := s.repo.RemoveRankPermission(ctx, rank, permission); err != nil {
		return s.storageError("remove rank permission", rank, err)
	}

	updated := r.Clone()
	updated.Permissions = slices.DeleteFunc(updated.Permissions, func(p string) bool { return p == permission })
	s.ranks[rank] = updated
	return nil
}

// GetPermissions returns the rank's grants, or an empty slice for an unknown rank.
func (s *Store) GetPermissions(rank string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.ranks[rank]
	if !ok {
		return []string{}
	}
	return slices.Clone(r.Permissions)
}

func (s *Store) GetRankHierarchy() *Hierarchy {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.hierarchy
}

// GetFormattedRank renders the rank's colour, display template and name,
// followed by a reset.
func (s *Store) GetFormattedRank(name string) (string, bool) {
	r, ok := s.GetRank(name)
	if !ok {
		return "", false
	}
	return s.format(r), true
}

func (s *Store) format(r *model.Rank) string {
	color := ""
	if r.Color != nil {
		color = textformat.Color(*r.Color)
	}

	template := color + utils.ValueOr(r.DisplayTemplate, "") + r.Name + textformat.Reset
	return s.engine.Expand(template, placeholder.Data{
		NamePlaceholder:        r.Name,
		DescriptionPlaceholder: utils.ValueOr(r.Description, ""),
		ColorPlaceholder:       color,
	})
}

// HighestRank picks the root-most of names. Names unknown to the hierarchy
// are skipped and ties go to the earliest name.
func (s *Store) HighestRank(names []string) (*model.Rank, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		best      *model.Rank
		bestDepth int
	)
	for _, name := range names {
		depth, ok := s.hierarchy.Depth(name)
		if !ok {
			continue
		}
		if best == nil || depth < bestDepth {
			best = s.ranks[name]
			bestDepth = depth
		}
	}

	if best == nil {
		return nil, false
	}
	return best.Clone(), true
}

// FormattedHighestRank is HighestRank rendered with GetFormattedRank.
func (s *Store) FormattedHighestRank(names []string) (string, bool) {
	r, ok := s.HighestRank(names)
	if !ok {
		return "", false
	}
	return s.format(r), true
}

// rebuild must be called with mu held for writing.
func (s *Store) rebuild() {
	ranks := make([]*model.Rank, 0, len(s.order))
	for _, name := range s.order {
		ranks = append(ranks, s.ranks[name])
	}
	s.hierarchy = BuildHierarchy(ranks)
}

func (s *Store) storageError(operation string, rank string, err error) error {
	if errors.Is(err, errs.NotFound) || errors.Is(err, errs.AlreadyExists) {
		return err
	}

	s.logger.Errorw("rank storage failed", "operation", operation, "rank", rank, "error", err)
	return fmt.Errorf("%w: failed to %s %q: %w", errs.Persistence, operation, rank, err)
}

func (s *Store) record(operation string, err *error) {
	s.metrics.RankMutations.WithLabelValues(operation, metrics.Result(*err)).Inc()
}
