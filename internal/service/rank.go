package service

import (
	"context"
	"go.uber.org/zap"
	"google.golang.org/protobuf/types/known/structpb"
	"rank-service/internal/chat"
	"rank-service/internal/notifier"
	"rank-service/internal/permission"
	"rank-service/internal/rank"
	"rank-service/internal/repository/model"
	"rank-service/internal/session"
	"rank-service/internal/textformat"
	"rank-service/internal/utils"
)

type rankService struct {
	logger   *zap.SugaredLogger
	ranks    *rank.Store
	sessions *session.Manager
	renderer *chat.Renderer
	notif    notifier.Notifier
}

func NewRankService(logger *zap.SugaredLogger, ranks *rank.Store, sessions *session.Manager,
	renderer *chat.Renderer, notif notifier.Notifier) RankServiceServer {

	return &rankService{
		logger:   logger,
		ranks:    ranks,
		sessions: sessions,
		renderer: renderer,
		notif:    notif,
	}
}

func (s *rankService) PlayerJoin(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	player, err := requiredString(req, "player")
	if err != nil {
		return nil, err
	}
	displayName := utils.ValueOr(optionalString(req, "displayName"), player)

	profile, err := s.sessions.Join(ctx, player)
	if err != nil {
		return nil, statusError(s.logger, err)
	}

	res := s.profileStruct(profile)
	res.Fields["nameTag"] = structpb.NewStringValue(s.renderer.NameTag(profile, displayName))
	if highest, ok := s.renderer.HighestRank(profile); ok {
		res.Fields["highestRank"] = structpb.NewStringValue(highest)
	}
	return res, nil
}

func (s *rankService) PlayerQuit(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	player, err := requiredString(req, "player")
	if err != nil {
		return nil, err
	}

	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"wasOnline": structpb.NewBoolValue(s.sessions.Quit(player)),
	}}, nil
}

// FormatChat renders the player's chat template and, if a message is given,
// the final line.
func (s *rankService) FormatChat(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	player, err := requiredString(req, "player")
	if err != nil {
		return nil, err
	}
	displayName := utils.ValueOr(optionalString(req, "displayName"), player)

	profile, err := s.sessions.Lookup(ctx, player)
	if err != nil {
		return nil, statusError(s.logger, err)
	}

	format := s.renderer.Format(profile, displayName)
	res := &structpb.Struct{Fields: map[string]*structpb.Value{
		"format": structpb.NewStringValue(format),
	}}
	if message := optionalString(req, "message"); message != nil {
		res.Fields["line"] = structpb.NewStringValue(chat.Apply(format, *message))
	}
	return res, nil
}

// GetPlayerPermissions returns the effective permission set. When the caller
// passes the set it currently has attached as "previous", the grants and
// revocations needed to reach the new set are returned too.
func (s *rankService) GetPlayerPermissions(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	player, err := requiredString(req, "player")
	if err != nil {
		return nil, err
	}

	profile, err := s.sessions.Lookup(ctx, player)
	if err != nil {
		return nil, statusError(s.logger, err)
	}

	effective := permission.Resolve(profile.Permissions(), profile.Ranks(), s.ranks)
	res := &structpb.Struct{Fields: map[string]*structpb.Value{
		"permissions": model.StringList(effective),
	}}
	if previous, ok := stringList(req, "previous"); ok {
		granted, revoked := permission.Diff(previous, effective)
		res.Fields["granted"] = model.StringList(granted)
		res.Fields["revoked"] = model.StringList(revoked)
	}
	return res, nil
}

func (s *rankService) GetPlayerNames(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	names, err := s.sessions.PlayerNames(ctx)
	if err != nil {
		return nil, statusError(s.logger, err)
	}

	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"players": model.StringList(names),
		"online":  model.StringList(s.sessions.OnlinePlayers()),
	}}, nil
}

func (s *rankService) GetRanks(_ context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	ranks := s.ranks.GetRanks()
	values := make([]*structpb.Value, len(ranks))
	for i, r := range ranks {
		values[i] = structpb.NewStructValue(r.ToStruct())
	}

	roots := s.ranks.GetRankHierarchy().Roots()
	nodes := make([]*structpb.Value, len(roots))
	for i, root := range roots {
		nodes[i] = nodeValue(root)
	}

	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"ranks":     structpb.NewListValue(&structpb.ListValue{Values: values}),
		"hierarchy": structpb.NewListValue(&structpb.ListValue{Values: nodes}),
	}}, nil
}

func nodeValue(n *rank.Node) *structpb.Value {
	children := make([]*structpb.Value, len(n.Children))
	for i, child := range n.Children {
		children[i] = nodeValue(child)
	}

	return structpb.NewStructValue(&structpb.Struct{Fields: map[string]*structpb.Value{
		"name":     structpb.NewStringValue(n.Name),
		"depth":    structpb.NewNumberValue(float64(n.Depth)),
		"children": structpb.NewListValue(&structpb.ListValue{Values: children}),
	}})
}

func (s *rankService) CreateRank(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	name, err := requiredString(req, "name")
	if err != nil {
		return nil, err
	}

	created, err := s.ranks.CreateRank(ctx, name, rank.RankOptions{
		Parent:          optionalString(req, "parent"),
		DisplayTemplate: optionalString(req, "displayTemplate"),
		Description:     optionalString(req, "description"),
		Color:           optionalString(req, "color"),
	})
	if err != nil {
		return nil, statusError(s.logger, err)
	}

	if err := s.notif.RankUpdate(ctx, created, notifier.ChangeCreate); err != nil {
		s.logger.Errorw("error sending rank update notification", "rank", name, "error", err)
	}

	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"rank": structpb.NewStructValue(created.ToStruct()),
	}}, nil
}

func (s *rankService) DeleteRank(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	name, err := requiredString(req, "name")
	if err != nil {
		return nil, err
	}

	deleted, _ := s.ranks.GetRank(name)
	if err := s.ranks.DeleteRank(ctx, name); err != nil {
		return nil, statusError(s.logger, err)
	}

	if err := s.notif.RankUpdate(ctx, deleted, notifier.ChangeDelete); err != nil {
		s.logger.Errorw("error sending rank update notification", "rank", name, "error", err)
	}

	return &structpb.Struct{Fields: map[string]*structpb.Value{}}, nil
}

func (s *rankService) AddRankPermission(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return s.updateRankPermission(ctx, req, notifier.ChangeAdd, s.ranks.AddPermission)
}

func (s *rankService) RemoveRankPermission(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return s.updateRankPermission(ctx, req, notifier.ChangeRemove, s.ranks.RemovePermission)
}

func (s *rankService) updateRankPermission(ctx context.Context, req *structpb.Struct, changeType notifier.ChangeType,
	apply func(ctx context.Context, rank string, permission string) error) (*structpb.Struct, error) {

	rankName, err := requiredString(req, "rank")
	if err != nil {
		return nil, err
	}
	perm, err := requiredString(req, "permission")
	if err != nil {
		return nil, err
	}

	if err := apply(ctx, rankName, perm); err != nil {
		return nil, statusError(s.logger, err)
	}

	if err := s.notif.RankPermissionUpdate(ctx, rankName, perm, changeType); err != nil {
		s.logger.Errorw("error sending rank permission notification", "rank", rankName, "error", err)
	}

	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"permissions": model.StringList(s.ranks.GetPermissions(rankName)),
	}}, nil
}

func (s *rankService) AddRankToPlayer(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return s.updateProfile(ctx, req, "rank", notifier.FieldRank, notifier.ChangeAdd, (*session.Profile).AddRank)
}

func (s *rankService) RemoveRankFromPlayer(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return s.updateProfile(ctx, req, "rank", notifier.FieldRank, notifier.ChangeRemove, (*session.Profile).RemoveRank)
}

func (s *rankService) AddPlayerPermission(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return s.updateProfile(ctx, req, "permission", notifier.FieldPermission, notifier.ChangeAdd, (*session.Profile).AddPermission)
}

func (s *rankService) RemovePlayerPermission(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return s.updateProfile(ctx, req, "permission", notifier.FieldPermission, notifier.ChangeRemove, (*session.Profile).RemovePermission)
}

func (s *rankService) SetChatColor(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	player, err := requiredString(req, "player")
	if err != nil {
		return nil, err
	}
	color, err := requiredString(req, "color")
	if err != nil {
		return nil, err
	}

	profile, err := s.sessions.Lookup(ctx, player)
	if err != nil {
		return nil, statusError(s.logger, err)
	}
	_, recognized := textformat.ParseColorToken(color)
	applied, err := profile.SetChatColor(ctx, color)
	if err != nil {
		return nil, statusError(s.logger, err)
	}

	if err := s.notif.PlayerProfileUpdate(ctx, player, notifier.FieldChatColor, applied, notifier.ChangeSet); err != nil {
		s.logger.Errorw("error sending player profile notification", "player", player, "field", notifier.FieldChatColor, "error", err)
	}

	// recognized is false when an unknown token fell back to the default.
	res := s.profileStruct(profile)
	res.Fields["recognized"] = structpb.NewBoolValue(recognized)
	return res, nil
}

func (s *rankService) AddTag(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return s.updateProfile(ctx, req, "tag", notifier.FieldTag, notifier.ChangeAdd, (*session.Profile).AddTag)
}

func (s *rankService) RemoveTag(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return s.updateProfile(ctx, req, "tag", notifier.FieldTag, notifier.ChangeRemove, (*session.Profile).RemoveTag)
}

func (s *rankService) AddDisplayTag(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return s.updateProfile(ctx, req, "tag", notifier.FieldDisplayTag, notifier.ChangeAdd, (*session.Profile).AddDisplayTag)
}

func (s *rankService) RemoveDisplayTag(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return s.updateProfile(ctx, req, "tag", notifier.FieldDisplayTag, notifier.ChangeRemove, (*session.Profile).RemoveDisplayTag)
}

// updateProfile applies one mutation to the player named in req and returns
// the updated profile.
func (s *rankService) updateProfile(ctx context.Context, req *structpb.Struct, valueKey string,
	field notifier.ProfileField, changeType notifier.ChangeType,
	apply func(p *session.Profile, ctx context.Context, value string) error) (*structpb.Struct, error) {

	player, err := requiredString(req, "player")
	if err != nil {
		return nil, err
	}
	value, err := listEntry(req, valueKey)
	if err != nil {
		return nil, err
	}

	profile, err := s.sessions.Lookup(ctx, player)
	if err != nil {
		return nil, statusError(s.logger, err)
	}
	if err := apply(profile, ctx, value); err != nil {
		return nil, statusError(s.logger, err)
	}

	if err := s.notif.PlayerProfileUpdate(ctx, player, field, value, changeType); err != nil {
		s.logger.Errorw("error sending player profile notification", "player", player, "field", field, "error", err)
	}

	return s.profileStruct(profile), nil
}

func (s *rankService) profileStruct(profile *session.Profile) *structpb.Struct {
	snapshot := profile.Snapshot()
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"player":      structpb.NewStringValue(snapshot.Name),
		"ranks":       model.StringList(snapshot.Ranks),
		"permissions": model.StringList(permission.Resolve(snapshot.Permissions, snapshot.Ranks, s.ranks)),
		"direct":      model.StringList(snapshot.Permissions),
		"chatColor":   structpb.NewStringValue(snapshot.ChatColor),
		"tags":        model.StringList(snapshot.Tags),
		"displayTags": model.StringList(snapshot.DisplayTags),
	}}
}
