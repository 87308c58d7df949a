package integration

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apihttp "github.com/rocketvote/pollsync/internal/adapters/api/http"
	"github.com/rocketvote/pollsync/internal/adapters/devserver"
	"github.com/rocketvote/pollsync/internal/adapters/push/websocket"
	"github.com/rocketvote/pollsync/internal/adapters/storage/memory"
	"github.com/rocketvote/pollsync/internal/core/domain"
	"github.com/rocketvote/pollsync/internal/core/ports"
	"github.com/rocketvote/pollsync/internal/core/services"
)

// testApp runs the engine against a real devserver over real HTTP and
// websocket connections.
type testApp struct {
	server *httptest.Server
	client *apihttp.Client
	live   *websocket.Channel
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	server := httptest.NewServer(devserver.NewServer().Handler())
	t.Cleanup(server.Close)

	wsBase := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	return &testApp{
		server: server,
		client: apihttp.NewClient(server.URL, server.Client()),
		live:   websocket.NewChannel(wsBase),
	}
}

func (a *testApp) createPoll(t *testing.T, anonymous bool) *ports.CreatedPoll {
	t.Helper()
	created, err := services.NewPollService(a.client).Create(context.Background(), ports.CreatePollInput{
		Anonymous: anonymous,
		Questions: []domain.Question{
			{Description: "Lunch?", Options: []string{"Pizza", "Sushi", "Salad"}},
			{Description: "Toppings?", Options: []string{"Cheese", "Olives"}, MultiSelect: true},
		},
	})
	require.NoError(t, err)
	return created
}

// voter is one participant's slice of the engine: their own identity
// store, snapshot store and submission state machine.
type voter struct {
	store      ports.SnapshotStore
	submission ports.SubmissionService
}

func (a *testApp) newVoter(t *testing.T, pollID, name string) *voter {
	t.Helper()
	voterService := services.NewVoterService(memory.NewStore())
	if name != "" {
		require.NoError(t, voterService.SetDisplayName(name))
	}

	store := services.NewSnapshotStore(a.client, pollID)
	require.NoError(t, store.Refresh(context.Background()))

	return &voter{
		store:      store,
		submission: services.NewSubmissionService(a.client, store, voterService, pollID),
	}
}

// awaitUpdate reads session updates until pred holds or the deadline
// passes.
func awaitUpdate(t *testing.T, session ports.PollSession, pred func(ports.Update) bool) {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case <-deadline:
			t.Fatal("timed out waiting for session update")
		case update, ok := <-session.Updates():
			require.True(t, ok, "updates channel closed unexpectedly")
			if pred(update) {
				return
			}
		}
	}
}
