package notifier

import (
	"context"
	"rank-service/internal/repository/model"
)

//go:generate mockgen -source=public.go -destination=mock_notifier.go -package=notifier

type ChangeType string

const (
	ChangeCreate ChangeType = "CREATE"
	ChangeDelete ChangeType = "DELETE"
	ChangeAdd    ChangeType = "ADD"
	ChangeRemove ChangeType = "REMOVE"
	ChangeSet    ChangeType = "SET"
)

type ProfileField string

const (
	FieldRank       ProfileField = "rank"
	FieldPermission ProfileField = "permission"
	FieldChatColor  ProfileField = "chatColor"
	FieldTag        ProfileField = "tag"
	FieldDisplayTag ProfileField = "displayTag"
)

type Notifier interface {
	RankUpdate(ctx context.Context, rank *model.Rank, changeType ChangeType) error
	RankPermissionUpdate(ctx context.Context, rank string, permission string, changeType ChangeType) error
	PlayerProfileUpdate(ctx context.Context, player string, field ProfileField, value string, changeType ChangeType) error
}
