package session

import (
	"context"
	"github.com/golang/mock/gomock"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"rank-service/internal/errs"
	"rank-service/internal/repository"
	"rank-service/internal/repository/model"
	"sync"
	"testing"
)

func newTestManager(t *testing.T) (*Manager, *fixture) {
	f := newFixture(t)
	return NewManager(zap.NewNop().Sugar(), f.repo, f.ranks, f.metrics), f
}

func TestManager_JoinQuit(t *testing.T) {
	m, f := newTestManager(t)

	f.repo.EXPECT().GetPlayer(gomock.Any(), "Notch").Return(&model.Player{Name: "Notch", Ranks: []string{"vip"}}, nil).Times(1)

	p, err := m.Join(context.Background(), "Notch")
	require.NoError(t, err)
	assert.Equal(t, []string{"vip"}, p.Ranks())

	again, err := m.Join(context.Background(), "Notch")
	require.NoError(t, err)
	assert.Same(t, p, again)

	online, ok := m.Online("Notch")
	assert.True(t, ok)
	assert.Same(t, p, online)
	assert.Equal(t, []string{"Notch"}, m.OnlinePlayers())
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.OnlinePlayers))

	assert.True(t, m.Quit("Notch"))
	assert.False(t, m.Quit("Notch"))
	_, ok = m.Online("Notch")
	assert.False(t, ok)
	assert.Equal(t, float64(0), testutil.ToFloat64(f.metrics.OnlinePlayers))
}

func TestManager_LookupUsesOnlineSession(t *testing.T) {
	m, f := newTestManager(t)

	f.repo.EXPECT().GetPlayer(gomock.Any(), "Notch").Return(NewPlayer("Notch"), nil).Times(1)

	joined, err := m.Join(context.Background(), "Notch")
	require.NoError(t, err)

	found, err := m.Lookup(context.Background(), "Notch")
	require.NoError(t, err)
	assert.Same(t, joined, found)
}

func TestManager_LookupOffline(t *testing.T) {
	m, f := newTestManager(t)

	f.repo.EXPECT().GetPlayer(gomock.Any(), "jeb_").Return(NewPlayer("jeb_"), nil).Times(1)

	p, err := m.Lookup(context.Background(), "jeb_")
	require.NoError(t, err)
	assert.Equal(t, "jeb_", p.Name())
	assert.Empty(t, m.OnlinePlayers())

	again, err := m.Lookup(context.Background(), "jeb_")
	require.NoError(t, err)
	assert.Same(t, p, again)
}

func TestManager_LookupUnknownPlayer(t *testing.T) {
	m, f := newTestManager(t)

	f.repo.EXPECT().GetPlayer(gomock.Any(), "ghost").Return(nil, repository.PlayerNotFoundError).Times(2)
	f.repo.EXPECT().SavePlayer(gomock.Any(), gomock.Any()).Times(0)

	_, err := m.Lookup(context.Background(), "ghost")
	assert.ErrorIs(t, err, errs.NotFound)

	// Nothing was cached either.
	_, err = m.Lookup(context.Background(), "ghost")
	assert.ErrorIs(t, err, errs.NotFound)
}

func TestManager_LookupLoadError(t *testing.T) {
	m, f := newTestManager(t)

	f.repo.EXPECT().GetPlayer(gomock.Any(), "Notch").Return(nil, storageErr)

	_, err := m.Lookup(context.Background(), "Notch")
	assert.ErrorIs(t, err, errs.Persistence)
}

func TestManager_JoinReusesLookedUpProfile(t *testing.T) {
	m, f := newTestManager(t)

	f.repo.EXPECT().GetPlayer(gomock.Any(), "Notch").Return(NewPlayer("Notch"), nil).Times(1)

	found, err := m.Lookup(context.Background(), "Notch")
	require.NoError(t, err)

	joined, err := m.Join(context.Background(), "Notch")
	require.NoError(t, err)
	assert.Same(t, found, joined)

	assert.True(t, m.Quit("Notch"))
	afterQuit, err := m.Lookup(context.Background(), "Notch")
	require.NoError(t, err)
	assert.Same(t, joined, afterQuit)
}

func TestManager_ConcurrentOfflineMutations(t *testing.T) {
	m, f := newTestManager(t)

	f.repo.EXPECT().GetPlayer(gomock.Any(), "jeb_").Return(NewPlayer("jeb_"), nil).MinTimes(1)
	f.repo.EXPECT().SavePlayer(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	tags := []string{"a", "b", "c", "d", "e", "f", "g", "h"}

	var wg sync.WaitGroup
	for _, tag := range tags {
		wg.Add(1)
		go func(tag string) {
			defer wg.Done()
			p, err := m.Lookup(context.Background(), "jeb_")
			if assert.NoError(t, err) {
				assert.NoError(t, p.AddTag(context.Background(), tag))
			}
		}(tag)
	}
	wg.Wait()

	p, err := m.Lookup(context.Background(), "jeb_")
	require.NoError(t, err)
	assert.ElementsMatch(t, tags, p.Tags())
}

func TestManager_PlayerNames(t *testing.T) {
	m, f := newTestManager(t)

	f.repo.EXPECT().GetPlayerNames(gomock.Any()).Return([]string{"jeb_", "Dinnerbone", "Notch"}, nil)

	names, err := m.PlayerNames(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Dinnerbone", "Notch", "jeb_"}, names)
}

func TestManager_PlayerNamesError(t *testing.T) {
	m, f := newTestManager(t)

	f.repo.EXPECT().GetPlayerNames(gomock.Any()).Return(nil, storageErr)

	_, err := m.PlayerNames(context.Background())
	assert.ErrorIs(t, err, errs.Persistence)
}
