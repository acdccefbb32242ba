package service

import (
	"context"
	"errors"
	"github.com/golang/mock/gomock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"rank-service/internal/chat"
	"rank-service/internal/metrics"
	"rank-service/internal/notifier"
	"rank-service/internal/placeholder"
	"rank-service/internal/rank"
	"rank-service/internal/repository"
	"rank-service/internal/repository/model"
	"rank-service/internal/session"
	"rank-service/internal/utils"
	"testing"
)

var storageErr = errors.New("connection reset")

type testService struct {
	svc   *rankService
	repo  *repository.MockRepository
	notif *notifier.MockNotifier
}

func newTestService(t *testing.T, ranks ...*model.Rank) *testService {
	ctrl := gomock.NewController(t)
	repo := repository.NewMockRepository(ctrl)
	notif := notifier.NewMockNotifier(ctrl)
	logger := zap.NewNop().Sugar()
	m := metrics.New(prometheus.NewRegistry())
	engine := placeholder.NewEngine(m)

	repo.EXPECT().GetAllRanks(gomock.Any()).Return(ranks, nil)
	store, err := rank.NewStore(context.Background(), logger, repo, engine, m)
	require.NoError(t, err)

	manager := session.NewManager(logger, repo, store, m)
	renderer := chat.NewRenderer(engine, store, chat.WithPicker(func(int) int { return 0 }))

	return &testService{
		svc:   NewRankService(logger, store, manager, renderer, notif).(*rankService),
		repo:  repo,
		notif: notif,
	}
}

func request(t *testing.T, fields map[string]any) *structpb.Struct {
	s, err := structpb.NewStruct(fields)
	require.NoError(t, err)
	return s
}

func stringsOf(v *structpb.Value) []string {
	values := make([]string, 0)
	for _, item := range v.GetListValue().GetValues() {
		values = append(values, item.GetStringValue())
	}
	return values
}

func vipRank() *model.Rank {
	return &model.Rank{
		Name:            "vip",
		DisplayTemplate: utils.PointerOf("[VIP]"),
		Permissions:     []string{"fly"},
	}
}

func TestRankService_CreateRank(t *testing.T) {
	tests := []struct {
		name string

		req map[string]any

		repoCalled bool
		repoErr    error
		notifErr   error

		wantCode codes.Code
	}{
		{
			name:       "success",
			req:        map[string]any{"name": "member", "parent": "vip", "displayTemplate": "[M]"},
			repoCalled: true,
			wantCode:   codes.OK,
		},
		{
			name:       "notification failure is not a request failure",
			req:        map[string]any{"name": "member"},
			repoCalled: true,
			notifErr:   errors.New("broker down"),
			wantCode:   codes.OK,
		},
		{
			name:     "missing name",
			req:      map[string]any{},
			wantCode: codes.InvalidArgument,
		},
		{
			name:     "duplicate",
			req:      map[string]any{"name": "vip"},
			wantCode: codes.AlreadyExists,
		},
		{
			name:     "unknown parent",
			req:      map[string]any{"name": "member", "parent": "owner"},
			wantCode: codes.FailedPrecondition,
		},
		{
			name:       "storage failure",
			req:        map[string]any{"name": "member"},
			repoCalled: true,
			repoErr:    storageErr,
			wantCode:   codes.Internal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestService(t, vipRank())

			if tt.repoCalled {
				ts.repo.EXPECT().CreateRank(gomock.Any(), gomock.Any()).Return(tt.repoErr)
			}
			if tt.wantCode == codes.OK {
				ts.notif.EXPECT().RankUpdate(gomock.Any(), gomock.Any(), notifier.ChangeCreate).Return(tt.notifErr)
			}

			res, err := ts.svc.CreateRank(context.Background(), request(t, tt.req))
			assert.Equal(t, tt.wantCode, status.Code(err))
			if tt.wantCode != codes.OK {
				return
			}

			r := res.GetFields()["rank"].GetStructValue().GetFields()
			assert.Equal(t, tt.req["name"], r["name"].GetStringValue())
			assert.True(t, ts.svc.ranks.RankExists(tt.req["name"].(string)))
		})
	}
}

func TestRankService_DeleteRank(t *testing.T) {
	ts := newTestService(t, vipRank())

	ts.repo.EXPECT().DeleteRank(gomock.Any(), "vip").Return(nil)
	ts.notif.EXPECT().RankUpdate(gomock.Any(), vipRank(), notifier.ChangeDelete).Return(nil)

	_, err := ts.svc.DeleteRank(context.Background(), request(t, map[string]any{"name": "vip"}))
	require.NoError(t, err)
	assert.False(t, ts.svc.ranks.RankExists("vip"))

	_, err = ts.svc.DeleteRank(context.Background(), request(t, map[string]any{"name": "vip"}))
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestRankService_RankPermissions(t *testing.T) {
	ts := newTestService(t, vipRank())

	ts.repo.EXPECT().AddRankPermission(gomock.Any(), "vip", "warp").Return(nil)
	ts.notif.EXPECT().RankPermissionUpdate(gomock.Any(), "vip", "warp", notifier.ChangeAdd).Return(nil)

	res, err := ts.svc.AddRankPermission(context.Background(), request(t, map[string]any{"rank": "vip", "permission": "warp"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"fly", "warp"}, stringsOf(res.GetFields()["permissions"]))

	_, err = ts.svc.AddRankPermission(context.Background(), request(t, map[string]any{"rank": "vip", "permission": "warp"}))
	assert.Equal(t, codes.AlreadyExists, status.Code(err))

	ts.repo.EXPECT().RemoveRankPermission(gomock.Any(), "vip", "fly").Return(nil)
	ts.notif.EXPECT().RankPermissionUpdate(gomock.Any(), "vip", "fly", notifier.ChangeRemove).Return(nil)

	res, err = ts.svc.RemoveRankPermission(context.Background(), request(t, map[string]any{"rank": "vip", "permission": "fly"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"warp"}, stringsOf(res.GetFields()["permissions"]))

	_, err = ts.svc.RemoveRankPermission(context.Background(), request(t, map[string]any{"rank": "vip"}))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = ts.svc.RemoveRankPermission(context.Background(), request(t, map[string]any{"rank": "owner", "permission": "fly"}))
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestRankService_GetRanks(t *testing.T) {
	member := &model.Rank{Name: "member", Parent: utils.PointerOf("vip"), Permissions: []string{}}
	ts := newTestService(t, vipRank(), member)

	res, err := ts.svc.GetRanks(context.Background(), &structpb.Struct{})
	require.NoError(t, err)

	ranks := res.GetFields()["ranks"].GetListValue().GetValues()
	require.Len(t, ranks, 2)
	assert.Equal(t, "vip", ranks[0].GetStructValue().GetFields()["name"].GetStringValue())

	roots := res.GetFields()["hierarchy"].GetListValue().GetValues()
	require.Len(t, roots, 1)
	root := roots[0].GetStructValue().GetFields()
	assert.Equal(t, "vip", root["name"].GetStringValue())
	children := root["children"].GetListValue().GetValues()
	require.Len(t, children, 1)
	assert.Equal(t, "member", children[0].GetStructValue().GetFields()["name"].GetStringValue())
	assert.Equal(t, float64(1), children[0].GetStructValue().GetFields()["depth"].GetNumberValue())
}

func TestRankService_PlayerJoin(t *testing.T) {
	ts := newTestService(t, vipRank())

	ts.repo.EXPECT().GetPlayer(gomock.Any(), "Notch").Return(&model.Player{
		Name:        "Notch",
		Ranks:       []string{model.DefaultRankName, "vip"},
		Permissions: []string{"warp"},
		ChatColor:   "&b",
		Tags:        []string{"[Pro]"},
	}, nil)

	res, err := ts.svc.PlayerJoin(context.Background(), request(t, map[string]any{"player": "Notch", "displayName": "N"}))
	require.NoError(t, err)

	fields := res.GetFields()
	assert.Equal(t, []string{"fly", "warp"}, stringsOf(fields["permissions"]))
	assert.Equal(t, []string{"warp"}, stringsOf(fields["direct"]))
	assert.Equal(t, "[Pro]§b N", fields["nameTag"].GetStringValue())
	assert.Equal(t, "[VIP]vip§r", fields["highestRank"].GetStringValue())

	_, err = ts.svc.PlayerJoin(context.Background(), &structpb.Struct{})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestRankService_PlayerJoin_StorageFailure(t *testing.T) {
	ts := newTestService(t)

	ts.repo.EXPECT().GetPlayer(gomock.Any(), "Notch").Return(nil, storageErr)

	_, err := ts.svc.PlayerJoin(context.Background(), request(t, map[string]any{"player": "Notch"}))
	assert.Equal(t, codes.Internal, status.Code(err))
}

func TestRankService_PlayerQuit(t *testing.T) {
	ts := newTestService(t)

	ts.repo.EXPECT().GetPlayer(gomock.Any(), "Notch").Return(session.NewPlayer("Notch"), nil)

	_, err := ts.svc.PlayerJoin(context.Background(), request(t, map[string]any{"player": "Notch"}))
	require.NoError(t, err)

	res, err := ts.svc.PlayerQuit(context.Background(), request(t, map[string]any{"player": "Notch"}))
	require.NoError(t, err)
	assert.True(t, res.GetFields()["wasOnline"].GetBoolValue())

	res, err = ts.svc.PlayerQuit(context.Background(), request(t, map[string]any{"player": "Notch"}))
	require.NoError(t, err)
	assert.False(t, res.GetFields()["wasOnline"].GetBoolValue())
}

func TestRankService_FormatChat(t *testing.T) {
	ts := newTestService(t, vipRank())

	player := session.NewPlayer("Notch")
	player.Ranks = []string{"vip"}
	ts.repo.EXPECT().GetPlayer(gomock.Any(), "Notch").Return(player, nil)

	res, err := ts.svc.FormatChat(context.Background(), request(t, map[string]any{"player": "Notch", "message": "hello"}))
	require.NoError(t, err)

	fields := res.GetFields()
	assert.Equal(t, "[VIP]vip§r   Notch §c {message}", fields["format"].GetStringValue())
	assert.Equal(t, "[VIP]vip§r   Notch §c hello", fields["line"].GetStringValue())
}

func TestRankService_GetPlayerPermissions(t *testing.T) {
	ts := newTestService(t, vipRank())

	player := session.NewPlayer("Notch")
	player.Ranks = []string{"vip"}
	player.Permissions = []string{"warp"}
	ts.repo.EXPECT().GetPlayer(gomock.Any(), "Notch").Return(player, nil).Times(1)

	res, err := ts.svc.GetPlayerPermissions(context.Background(), request(t, map[string]any{"player": "Notch"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"fly", "warp"}, stringsOf(res.GetFields()["permissions"]))
	_, ok := res.GetFields()["granted"]
	assert.False(t, ok)

	res, err = ts.svc.GetPlayerPermissions(context.Background(), request(t, map[string]any{
		"player":   "Notch",
		"previous": []any{"warp", "home"},
	}))
	require.NoError(t, err)
	assert.Equal(t, []string{"fly"}, stringsOf(res.GetFields()["granted"]))
	assert.Equal(t, []string{"home"}, stringsOf(res.GetFields()["revoked"]))
}

func TestRankService_GetPlayerNames(t *testing.T) {
	ts := newTestService(t)

	ts.repo.EXPECT().GetPlayerNames(gomock.Any()).Return([]string{"jeb_", "Notch"}, nil)

	res, err := ts.svc.GetPlayerNames(context.Background(), &structpb.Struct{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Notch", "jeb_"}, stringsOf(res.GetFields()["players"]))
	assert.Empty(t, stringsOf(res.GetFields()["online"]))
}

func TestRankService_ProfileMutations(t *testing.T) {
	tests := []struct {
		name   string
		call   func(s *rankService, ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
		req    map[string]any
		field  notifier.ProfileField
		change notifier.ChangeType
		value  string
		check  func(t *testing.T, res *structpb.Struct)
	}{
		{
			name:   "add rank",
			call:   (*rankService).AddRankToPlayer,
			req:    map[string]any{"player": "Notch", "rank": "vip"},
			field:  notifier.FieldRank,
			change: notifier.ChangeAdd,
			value:  "vip",
			check: func(t *testing.T, res *structpb.Struct) {
				assert.Equal(t, []string{model.DefaultRankName, "vip"}, stringsOf(res.GetFields()["ranks"]))
				assert.Equal(t, []string{"fly"}, stringsOf(res.GetFields()["permissions"]))
			},
		},
		{
			name:   "remove rank",
			call:   (*rankService).RemoveRankFromPlayer,
			req:    map[string]any{"player": "Notch", "rank": model.DefaultRankName},
			field:  notifier.FieldRank,
			change: notifier.ChangeRemove,
			value:  model.DefaultRankName,
			check: func(t *testing.T, res *structpb.Struct) {
				assert.Empty(t, stringsOf(res.GetFields()["ranks"]))
			},
		},
		{
			name:   "add permission",
			call:   (*rankService).AddPlayerPermission,
			req:    map[string]any{"player": "Notch", "permission": "warp"},
			field:  notifier.FieldPermission,
			change: notifier.ChangeAdd,
			value:  "warp",
			check: func(t *testing.T, res *structpb.Struct) {
				assert.Equal(t, []string{"warp"}, stringsOf(res.GetFields()["direct"]))
			},
		},
		{
			name:   "set unknown chat color",
			call:   (*rankService).SetChatColor,
			req:    map[string]any{"player": "Notch", "color": "rainbow"},
			field:  notifier.FieldChatColor,
			change: notifier.ChangeSet,
			value:  "&c",
			check: func(t *testing.T, res *structpb.Struct) {
				assert.Equal(t, "&c", res.GetFields()["chatColor"].GetStringValue())
				assert.False(t, res.GetFields()["recognized"].GetBoolValue())
			},
		},
		{
			name:   "set chat color",
			call:   (*rankService).SetChatColor,
			req:    map[string]any{"player": "Notch", "color": "&b"},
			field:  notifier.FieldChatColor,
			change: notifier.ChangeSet,
			value:  "&b",
			check: func(t *testing.T, res *structpb.Struct) {
				assert.Equal(t, "&b", res.GetFields()["chatColor"].GetStringValue())
				assert.True(t, res.GetFields()["recognized"].GetBoolValue())
			},
		},
		{
			name:   "add tag",
			call:   (*rankService).AddTag,
			req:    map[string]any{"player": "Notch", "tag": "[Pro]"},
			field:  notifier.FieldTag,
			change: notifier.ChangeAdd,
			value:  "[Pro]",
			check: func(t *testing.T, res *structpb.Struct) {
				assert.Equal(t, []string{"[Pro]"}, stringsOf(res.GetFields()["tags"]))
			},
		},
		{
			name:   "add display tag",
			call:   (*rankService).AddDisplayTag,
			req:    map[string]any{"player": "Notch", "tag": "[A]"},
			field:  notifier.FieldDisplayTag,
			change: notifier.ChangeAdd,
			value:  "[A]",
			check: func(t *testing.T, res *structpb.Struct) {
				assert.Equal(t, []string{"[A]"}, stringsOf(res.GetFields()["displayTags"]))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestService(t, vipRank())

			ts.repo.EXPECT().GetPlayer(gomock.Any(), "Notch").Return(session.NewPlayer("Notch"), nil)
			ts.repo.EXPECT().SavePlayer(gomock.Any(), gomock.Any()).Return(nil)
			ts.notif.EXPECT().PlayerProfileUpdate(gomock.Any(), "Notch", tt.field, tt.value, tt.change).Return(nil)

			res, err := tt.call(ts.svc, context.Background(), request(t, tt.req))
			require.NoError(t, err)
			tt.check(t, res)
		})
	}
}

func TestRankService_ProfileMutationErrors(t *testing.T) {
	ts := newTestService(t, vipRank())

	ts.repo.EXPECT().GetPlayer(gomock.Any(), "Notch").Return(session.NewPlayer("Notch"), nil).AnyTimes()

	_, err := ts.svc.AddRankToPlayer(context.Background(), request(t, map[string]any{"player": "Notch", "rank": "owner"}))
	assert.Equal(t, codes.NotFound, status.Code(err))

	_, err = ts.svc.AddRankToPlayer(context.Background(), request(t, map[string]any{"player": "Notch", "rank": model.DefaultRankName}))
	assert.Equal(t, codes.AlreadyExists, status.Code(err))

	_, err = ts.svc.RemoveTag(context.Background(), request(t, map[string]any{"player": "Notch", "tag": "[Pro]"}))
	assert.Equal(t, codes.NotFound, status.Code(err))

	_, err = ts.svc.RemoveDisplayTag(context.Background(), request(t, map[string]any{"player": "Notch"}))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	ts.repo.EXPECT().SavePlayer(gomock.Any(), gomock.Any()).Return(storageErr)
	_, err = ts.svc.RemovePlayerPermission(context.Background(), request(t, map[string]any{"player": "Notch", "permission": "warp"}))
	assert.Equal(t, codes.NotFound, status.Code(err))
	_, err = ts.svc.AddPlayerPermission(context.Background(), request(t, map[string]any{"player": "Notch", "permission": "warp"}))
	assert.Equal(t, codes.Internal, status.Code(err))
}

func TestRankService_UnknownPlayer(t *testing.T) {
	tests := []struct {
		name string
		call func(s *rankService, ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
		req  map[string]any
	}{
		{
			name: "format chat",
			call: (*rankService).FormatChat,
			req:  map[string]any{"player": "Notchh", "message": "hi"},
		},
		{
			name: "get permissions",
			call: (*rankService).GetPlayerPermissions,
			req:  map[string]any{"player": "Notchh"},
		},
		{
			name: "add rank",
			call: (*rankService).AddRankToPlayer,
			req:  map[string]any{"player": "Notchh", "rank": "vip"},
		},
		{
			name: "add tag",
			call: (*rankService).AddTag,
			req:  map[string]any{"player": "Notchh", "tag": "[Pro]"},
		},
		{
			name: "set chat color",
			call: (*rankService).SetChatColor,
			req:  map[string]any{"player": "Notchh", "color": "&b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestService(t, vipRank())

			ts.repo.EXPECT().GetPlayer(gomock.Any(), "Notchh").Return(nil, repository.PlayerNotFoundError)
			ts.repo.EXPECT().SavePlayer(gomock.Any(), gomock.Any()).Times(0)

			_, err := tt.call(ts.svc, context.Background(), request(t, tt.req))
			assert.Equal(t, codes.NotFound, status.Code(err))
		})
	}
}

func TestRankService_ListEntryWithComma(t *testing.T) {
	ts := newTestService(t, vipRank())

	ts.repo.EXPECT().GetPlayer(gomock.Any(), gomock.Any()).Times(0)
	ts.repo.EXPECT().SavePlayer(gomock.Any(), gomock.Any()).Times(0)

	_, err := ts.svc.AddTag(context.Background(), request(t, map[string]any{"player": "Notch", "tag": "red,blue"}))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = ts.svc.AddPlayerPermission(context.Background(), request(t, map[string]any{"player": "Notch", "permission": "a,b"}))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = ts.svc.AddDisplayTag(context.Background(), request(t, map[string]any{"player": "Notch", "tag": ","}))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}
