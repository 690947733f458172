package routes_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	_ "github.com/Dosada05/bracket-engine/docs"
	"github.com/Dosada05/bracket-engine/handlers"
	"github.com/Dosada05/bracket-engine/models"
	"github.com/Dosada05/bracket-engine/realtime"
	"github.com/Dosada05/bracket-engine/repositories"
	"github.com/Dosada05/bracket-engine/routes"
	"github.com/Dosada05/bracket-engine/services"
)

const (
	organizerEmail    = "td@example.com"
	organizerPassword = "s3cret"
	jwtSecret         = "test-secret"
)

func newServer(t *testing.T) *httptest.Server {
	srv, _ := newServerWithHub(t)
	return srv
}

func newServerWithHub(t *testing.T) (*httptest.Server, *realtime.Hub) {
	t.Helper()
	store, err := repositories.OpenBoltStore(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	hash, err := bcrypt.GenerateFromPassword([]byte(organizerPassword), bcrypt.MinCost)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	hub := realtime.NewHub(logger)
	go hub.Run(ctx)

	ts := services.NewTournamentService(
		repositories.NewBoltBracketSetRepository(store),
		repositories.NewBoltPoolStageRepository(store),
		nil, hub, models.DefaultSettings(), logger)

	router := chi.NewRouter()
	routes.SetupRoutes(router, routes.Handlers{
		Auth:      handlers.NewAuthHandler(services.NewAuthService(organizerEmail, string(hash)), jwtSecret),
		Brackets:  handlers.NewBracketHandler(ts, "https://brackets.example.com"),
		Pools:     handlers.NewPoolHandler(ts),
		Schedules: handlers.NewScheduleHandler(ts),
		WebSocket: handlers.NewWebSocketHandler(hub, ts, nil, logger),
	}, jwtSecret, nil, logger)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, hub
}

func do(t *testing.T, srv *httptest.Server, method, path, token string, body any) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, srv.URL+path, reader)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func login(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	resp, body := do(t, srv, http.MethodPost, "/api/v1/auth/login", "", services.LoginInput{Email: organizerEmail, Password: organizerPassword})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var out struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	require.NotEmpty(t, out.Token)
	return out.Token
}

func roster(n int) []models.Participant {
	out := make([]models.Participant, n)
	for i := range out {
		out[i] = models.NewSingles(models.Player{ID: i + 1, Name: fmt.Sprintf("Player %d", i+1), Rating: float64(40 - i)})
	}
	return out
}

func TestLogin(t *testing.T) {
	srv := newServer(t)

	resp, _ := do(t, srv, http.MethodPost, "/api/v1/auth/login", "", services.LoginInput{Email: organizerEmail, Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = do(t, srv, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": organizerEmail})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	assert.NotEmpty(t, login(t, srv))
}

func TestBracketLifecycle(t *testing.T) {
	srv := newServer(t)
	input := services.GenerateBracketInput{Name: "Club Open", Participants: roster(4)}

	resp, _ := do(t, srv, http.MethodPost, "/api/v1/brackets", "", input)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	token := login(t, srv)
	resp, body := do(t, srv, http.MethodPost, "/api/v1/brackets", token, input)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var set models.BracketSet
	require.NoError(t, json.Unmarshal(body, &set))
	require.NotEmpty(t, set.ID)

	resp, _ = do(t, srv, http.MethodGet, "/api/v1/brackets/"+set.ID, "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = do(t, srv, http.MethodGet, "/api/v1/brackets/"+set.ID+"/next", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var next struct {
		Match *models.BracketMatch `json:"match"`
	}
	require.NoError(t, json.Unmarshal(body, &next))
	require.NotNil(t, next.Match)

	matchPath := fmt.Sprintf("/api/v1/brackets/%s/matches/%s", set.ID, next.Match.ID)
	resp, _ = do(t, srv, http.MethodPost, matchPath+"/start", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	score := models.Score{Games: []models.GameScore{{Side1: 11, Side2: 4}, {Side1: 11, Side2: 9}}}
	resp, _ = do(t, srv, http.MethodPost, matchPath+"/result", "", score)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp, body = do(t, srv, http.MethodPost, matchPath+"/result", token, score)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	resp, _ = do(t, srv, http.MethodPost, matchPath+"/result", token, models.Score{})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, body = do(t, srv, http.MethodGet, "/api/v1/brackets/"+set.ID+"/progress", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var view services.BracketProgressView
	require.NoError(t, json.Unmarshal(body, &view))
	assert.Equal(t, 1, view.Progress.Completed)

	resp, body = do(t, srv, http.MethodGet, "/api/v1/brackets/"+set.ID+"/qr", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(body, []byte("\x89PNG")))

	resp, _ = do(t, srv, http.MethodGet, "/api/v1/brackets/missing/qr", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPoolRoutes(t *testing.T) {
	srv := newServer(t)
	token := login(t, srv)

	resp, body := do(t, srv, http.MethodPost, "/api/v1/pools", token, services.GeneratePoolsInput{
		Format:       models.FormatTypeRoundRobin,
		Participants: roster(4),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var stage models.PoolStage
	require.NoError(t, json.Unmarshal(body, &stage))
	require.Len(t, stage.Pools, 1)

	resp, body = do(t, srv, http.MethodGet, "/api/v1/pools/"+stage.ID+"/standings", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var standings struct {
		Pools []services.PoolStandingsView `json:"pools"`
	}
	require.NoError(t, json.Unmarshal(body, &standings))
	require.Len(t, standings.Pools, 1)
	assert.Len(t, standings.Pools[0].Standings, 4)

	pool := stage.Pools[0]
	path := fmt.Sprintf("/api/v1/pools/%s/pools/%s/matches/%s/result", stage.ID, pool.ID, pool.Matches[0].ID)
	resp, body = do(t, srv, http.MethodPost, path, token, models.Score{Games: []models.GameScore{{Side1: 11, Side2: 3}}})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	resp, _ = do(t, srv, http.MethodPost, "/api/v1/pools/"+stage.ID+"/advance", token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, _ = do(t, srv, http.MethodGet, "/api/v1/pools/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSchedulingHelpers(t *testing.T) {
	srv := newServer(t)

	resp, body := do(t, srv, http.MethodPost, "/api/v1/validate", "", map[string]any{"format": "double_elimination", "count": 2})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var result struct {
		Valid   bool `json:"valid"`
		Minimum int  `json:"minimum"`
	}
	require.NoError(t, json.Unmarshal(body, &result))
	assert.False(t, result.Valid)
	assert.Equal(t, 3, result.Minimum)

	players := []models.Player{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}, {ID: 3, Name: "C"}, {ID: 4, Name: "D"}}
	resp, body = do(t, srv, http.MethodPost, "/api/v1/schedules/rotating-partners", "", services.RotatingPartnersInput{Players: players})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var schedule struct {
		Matches []json.RawMessage `json:"matches"`
	}
	require.NoError(t, json.Unmarshal(body, &schedule))
	assert.Len(t, schedule.Matches, 3)
}

func TestHealthAndSwagger(t *testing.T) {
	srv := newServer(t)

	resp, _ := do(t, srv, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := do(t, srv, http.MethodGet, "/swagger/doc.json", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "/brackets/{setID}/qr")
}

func TestBracketUpdatesReachWebSocketSubscribers(t *testing.T) {
	srv, hub := newServerWithHub(t)
	token := login(t, srv)

	resp, body := do(t, srv, http.MethodPost, "/api/v1/brackets", token, services.GenerateBracketInput{Participants: roster(4)})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var set models.BracketSet
	require.NoError(t, json.Unmarshal(body, &set))

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/brackets/" + set.ID
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	room := realtime.BracketRoom(set.ID)
	require.Eventually(t, func() bool { return hub.RoomSize(room) == 1 }, 2*time.Second, 10*time.Millisecond)

	path := fmt.Sprintf("/api/v1/brackets/%s/matches/R1M1/result", set.ID)
	resp, _ = do(t, srv, http.MethodPost, path, token, models.Score{Winner: 1})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg struct {
		Type   string `json:"type"`
		RoomID string `json:"room_id"`
	}
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, realtime.TypeMatchUpdated, msg.Type)
	assert.Equal(t, room, msg.RoomID)

	_, _, err = websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws/brackets/missing", nil)
	assert.Error(t, err)
}
