package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketvote/pollsync/internal/core/ports"
)

func TestSessionInitialFetchAndPushRefresh(t *testing.T) {
	api := &fakePollAPI{}
	api.setSnapshot(twoQuestionSnapshot(true))
	store := NewSnapshotStore(api, "abc1234")
	live := &fakeLiveSource{ch: make(chan ports.Notification, 1)}
	session := NewPollSession(store, live, "abc1234", time.Minute)
	defer session.Stop()

	require.NoError(t, session.Start(context.Background()))

	_, ok := store.Current()
	assert.True(t, ok, "start performs the initial fetch")
	initial := api.fetchCount()

	// a vote-cast invalidation carries no data, it just forces a refetch
	live.ch <- ports.Notification{VoteCast: true}
	require.Eventually(t, func() bool { return api.fetchCount() > initial },
		time.Second, time.Millisecond)
}

func TestSessionOptimisticRevealOnPush(t *testing.T) {
	api := &fakePollAPI{}
	api.setSnapshot(twoQuestionSnapshot(true)) // server still says not revealed
	store := NewSnapshotStore(api, "abc1234")
	live := &fakeLiveSource{ch: make(chan ports.Notification, 1)}
	session := NewPollSession(store, live, "abc1234", time.Minute)
	defer session.Stop()

	require.NoError(t, session.Start(context.Background()))
	live.ch <- ports.Notification{ResultsRevealed: true}

	require.Eventually(t, store.Revealed, time.Second, time.Millisecond,
		"reveal latch flips without waiting for the authoritative refresh")

	var update ports.Update
	require.Eventually(t, func() bool {
		select {
		case update = <-session.Updates():
			return update.Revealed
		default:
			return false
		}
	}, time.Second, time.Millisecond)
	assert.NoError(t, update.Err)
}

func TestSessionFallsBackToPollingWhenSubscribeFails(t *testing.T) {
	api := &fakePollAPI{}
	api.setSnapshot(twoQuestionSnapshot(true))
	store := NewSnapshotStore(api, "abc1234")
	live := &fakeLiveSource{subscribeErr: errors.New("dial refused")}
	session := NewPollSession(store, live, "abc1234", 10*time.Millisecond)

	require.NoError(t, session.Start(context.Background()))

	require.Eventually(t, func() bool { return api.fetchCount() >= 3 },
		time.Second, time.Millisecond, "polling keeps the view eventually consistent")

	session.Stop()
	settled := api.fetchCount()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, settled, api.fetchCount(), "no background work survives Stop")
}

func TestSessionFallsBackWhenChannelDrops(t *testing.T) {
	api := &fakePollAPI{}
	api.setSnapshot(twoQuestionSnapshot(true))
	store := NewSnapshotStore(api, "abc1234")
	live := &fakeLiveSource{ch: make(chan ports.Notification)}
	session := NewPollSession(store, live, "abc1234", 10*time.Millisecond)
	defer session.Stop()

	require.NoError(t, session.Start(context.Background()))
	initial := api.fetchCount()

	close(live.ch) // mid-session drop

	require.Eventually(t, func() bool { return api.fetchCount() > initial+1 },
		time.Second, time.Millisecond, "ticker engages after the drop")
}

func TestSessionSurfacesRefreshErrors(t *testing.T) {
	api := &fakePollAPI{}
	api.setSnapshot(twoQuestionSnapshot(true))
	store := NewSnapshotStore(api, "abc1234")
	require.NoError(t, store.Refresh(context.Background()))

	api.setFetchErr(errors.New("blip"))
	live := &fakeLiveSource{subscribeErr: errors.New("dial refused")}
	session := NewPollSession(store, live, "abc1234", 10*time.Millisecond)
	defer session.Stop()

	require.NoError(t, session.Start(context.Background()))

	var sawErr bool
	require.Eventually(t, func() bool {
		select {
		case u := <-session.Updates():
			sawErr = sawErr || u.Err != nil
		default:
		}
		return sawErr
	}, time.Second, time.Millisecond)

	_, ok := store.Current()
	assert.True(t, ok, "last good snapshot still readable during the failure window")
}

func TestSessionDoubleStart(t *testing.T) {
	api := &fakePollAPI{}
	api.setSnapshot(twoQuestionSnapshot(true))
	store := NewSnapshotStore(api, "abc1234")
	live := &fakeLiveSource{ch: make(chan ports.Notification)}
	session := NewPollSession(store, live, "abc1234", time.Minute)
	defer session.Stop()

	require.NoError(t, session.Start(context.Background()))
	assert.Error(t, session.Start(context.Background()))
}
