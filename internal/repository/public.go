package repository

import (
	"context"
	"errors"
	"fmt"
	"rank-service/internal/errs"
	"rank-service/internal/repository/model"
)

//go:generate mockgen -source=public.go -destination=mock_repository.go -package=repository

type Repository interface {
	// GetAllRanks returns every rank with its permission grants.
	GetAllRanks(ctx context.Context) ([]*model.Rank, error)
	CreateRank(ctx context.Context, rank *model.Rank) error
	// DeleteRank removes the rank's permission grants and then the rank itself.
	// If removing the grants fails the rank is left in place. If only the
	// second step fails the error wraps RankPermissionsClearedError.
	DeleteRank(ctx context.Context, name string) error
	AddRankPermission(ctx context.Context, rank string, permission string) error
	RemoveRankPermission(ctx context.Context, rank string, permission string) error

	GetPlayer(ctx context.Context, name string) (*model.Player, error)
	// SavePlayer inserts or fully replaces the player's record.
	SavePlayer(ctx context.Context, player *model.Player) error
	GetPlayerNames(ctx context.Context) ([]string, error)
}

var (
	RankAlreadyExistsError     = fmt.Errorf("rank %w", errs.AlreadyExists)
	RankNotFoundError          = fmt.Errorf("rank %w", errs.NotFound)
	AlreadyHasPermissionError  = fmt.Errorf("rank permission %w", errs.AlreadyExists)
	DoesNotHavePermissionError = fmt.Errorf("rank permission %w", errs.NotFound)
	PlayerNotFoundError        = fmt.Errorf("player %w", errs.NotFound)

	RankPermissionsClearedError = errors.New("rank permissions cleared but rank not deleted")
)
