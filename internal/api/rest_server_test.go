package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/anneomcl/TeamWolverine/internal/auth"
	"github.com/anneomcl/TeamWolverine/internal/garden"
	"github.com/anneomcl/TeamWolverine/internal/logging"
	"github.com/anneomcl/TeamWolverine/internal/vec"
	"github.com/anneomcl/TeamWolverine/internal/world"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	server *RestServer
	signer *auth.Signer
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	tiles := make([]garden.TileSpec, 0, 3)
	for x := 0; x < 3; x++ {
		tiles = append(tiles, garden.TileSpec{
			Type:        garden.TerrainGrass,
			Position:    vec.Vec2Float{X: float64(x) * 250},
			Traversable: true,
		})
	}
	rules := garden.MustRuleTable(garden.InteractionRule{
		Name:             "rule1",
		Kind:             garden.ObjectTerrain,
		TypeA:            "plant",
		TypeB:            "grass",
		Result:           "sparkle",
		RequiredQuantity: 3,
	})
	roller := garden.NewRandRoller(7)
	selector := garden.NewTierSelector(map[garden.Category]garden.TierPools{
		garden.CategoryPlant: {
			Common: []garden.Variant{{Name: "daisy", Category: garden.CategoryPlant, JournalIndex: 1, StageDuration: 1}},
			Fancy:  []garden.Variant{{Name: "orchid", Category: garden.CategoryPlant, Tier: garden.TierFancy, JournalIndex: 2, StageDuration: 1}},
		},
	}, roller)

	logger := logging.NewWriterLogger("api-test", io.Discard, logging.ERROR)
	sim := world.NewSimulation(tiles, rules, selector, garden.Options{Roller: roller}, world.Options{
		TickInterval: 5 * time.Millisecond,
		Logger:       logger,
	})

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- sim.Run(ctx) }()
	select {
	case <-sim.Started():
	case <-time.After(2 * time.Second):
		t.Fatal("Симуляция не запустилась")
	}
	t.Cleanup(func() {
		cancel()
		select {
		case <-errCh:
		case <-time.After(2 * time.Second):
			t.Error("Симуляция не остановилась")
		}
	})

	signer, err := auth.NewSigner("")
	require.NoError(t, err)

	server := NewRestServer(Config{
		Simulation: sim,
		Signer:     signer,
		Logger:     logger,
		Registry:   prometheus.NewRegistry(),
	})
	return &testEnv{server: server, signer: signer}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}, token string) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(w, req)

	var resp envelope
	if w.Body.Len() > 0 && w.Header().Get("Content-Type") != "" {
		_ = json.Unmarshal(w.Body.Bytes(), &resp)
	}
	return w.Code, resp
}

func (e *testEnv) token(t *testing.T, admin bool) string {
	t.Helper()
	token, err := e.signer.Issue("tester", admin, time.Hour)
	require.NoError(t, err)
	return token
}

func TestRestServer_Health(t *testing.T) {
	env := newTestEnv(t)

	w := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestRestServer_SpawnAndInspect(t *testing.T) {
	env := newTestEnv(t)

	code, resp := env.do(t, http.MethodPost, "/api/spawn", map[string]interface{}{"x": 10, "y": 0}, "")
	require.Equal(t, http.StatusOK, code)

	var spawn SpawnResponse
	require.NoError(t, json.Unmarshal(resp.Data, &spawn))
	require.True(t, spawn.Spawned, "посадка на свободный тайл должна пройти")
	require.NotNil(t, spawn.Object)
	assert.Equal(t, garden.TileID(0), spawn.Object.Tile, "объект встаёт на ближайший тайл")

	code, resp = env.do(t, http.MethodPost, "/api/spawn", map[string]interface{}{"x": 0, "y": 0}, "")
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(resp.Data, &spawn))
	assert.False(t, spawn.Spawned, "занятый тайл не принимает второй объект")

	code, resp = env.do(t, http.MethodPost, "/api/spawn", map[string]interface{}{"x": 500, "y": 0, "hit": false}, "")
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(resp.Data, &spawn))
	assert.False(t, spawn.Spawned, "промах не приводит к посадке")

	code, _ = env.do(t, http.MethodGet, "/api/objects/1", nil, "")
	assert.Equal(t, http.StatusOK, code)

	code, _ = env.do(t, http.MethodGet, "/api/objects/999", nil, "")
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = env.do(t, http.MethodGet, "/api/objects/abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, code)

	code, resp = env.do(t, http.MethodGet, "/api/state", nil, "")
	require.Equal(t, http.StatusOK, code)
	var snapshot garden.Snapshot
	require.NoError(t, json.Unmarshal(resp.Data, &snapshot))
	assert.Len(t, snapshot.Objects, 1)
	assert.Equal(t, 1, snapshot.OccupiedTiles())
}

func TestRestServer_Category(t *testing.T) {
	env := newTestEnv(t)

	code, _ := env.do(t, http.MethodPost, "/api/category", map[string]string{"category": "tree"}, "")
	assert.Equal(t, http.StatusOK, code)

	code, _ = env.do(t, http.MethodPost, "/api/category", map[string]string{"category": "rocket"}, "")
	assert.Equal(t, http.StatusBadRequest, code, "неизвестная категория отклоняется")

	code, _ = env.do(t, http.MethodPost, "/api/category", map[string]string{}, "")
	assert.Equal(t, http.StatusBadRequest, code, "категория обязательна")
}

func TestRestServer_Quota(t *testing.T) {
	env := newTestEnv(t)

	code, resp := env.do(t, http.MethodGet, "/api/quota/rule1", nil, "")
	require.Equal(t, http.StatusOK, code)
	var quota QuotaResponse
	require.NoError(t, json.Unmarshal(resp.Data, &quota))
	assert.Equal(t, uint(0), quota.Count)
	assert.Equal(t, uint(3), quota.Required)
	assert.False(t, quota.Satisfied)

	code, _ = env.do(t, http.MethodGet, "/api/quota/missing", nil, "")
	assert.Equal(t, http.StatusNotFound, code, "неизвестное правило даёт 404 вместо паники")
}

func TestRestServer_JournalAndServer(t *testing.T) {
	env := newTestEnv(t)

	code, _ := env.do(t, http.MethodPost, "/api/spawn", map[string]interface{}{"x": 0, "y": 0}, "")
	require.Equal(t, http.StatusOK, code)

	assert.Eventually(t, func() bool {
		code, resp := env.do(t, http.MethodGet, "/api/journal", nil, "")
		if code != http.StatusOK {
			return false
		}
		var data struct {
			Total int `json:"total"`
		}
		return json.Unmarshal(resp.Data, &data) == nil && data.Total == 1
	}, 2*time.Second, 10*time.Millisecond, "посаженный вариант попадает в журнал")

	code, resp := env.do(t, http.MethodGet, "/api/server", nil, "")
	require.Equal(t, http.StatusOK, code)
	var stats ServerStats
	require.NoError(t, json.Unmarshal(resp.Data, &stats))
	assert.Equal(t, Version, stats.Version)
	assert.Positive(t, stats.Goroutines)
}

func TestRestServer_AdminRequiresToken(t *testing.T) {
	env := newTestEnv(t)
	body := map[string]int{"common": 50, "fancy": 50, "mythical": 0}

	code, _ := env.do(t, http.MethodPut, "/api/probabilities/plant", body, "")
	assert.Equal(t, http.StatusUnauthorized, code, "без токена доступ закрыт")

	code, _ = env.do(t, http.MethodPut, "/api/probabilities/plant", body, "garbage")
	assert.Equal(t, http.StatusUnauthorized, code, "мусорный токен отклоняется")

	code, _ = env.do(t, http.MethodPut, "/api/probabilities/plant", body, env.token(t, false))
	assert.Equal(t, http.StatusForbidden, code, "обычный пользователь не администратор")

	code, resp := env.do(t, http.MethodPut, "/api/probabilities/plant", body, env.token(t, true))
	require.Equal(t, http.StatusOK, code)
	var applied garden.TierProbabilities
	require.NoError(t, json.Unmarshal(resp.Data, &applied))
	assert.Equal(t, garden.TierProbabilities{Common: 50, Fancy: 50, Mythical: 0}, applied)

	code, _ = env.do(t, http.MethodPut, "/api/probabilities/rocket", body, env.token(t, true))
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = env.do(t, http.MethodPut, "/api/probabilities/plant", map[string]int{"common": 300}, env.token(t, true))
	assert.Equal(t, http.StatusBadRequest, code, "значения больше 100 отклоняются")
}

func TestRestServer_Animals(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, true)

	code, resp := env.do(t, http.MethodPost, "/api/animals", map[string]string{"kind": "rabbit"}, token)
	require.Equal(t, http.StatusCreated, code)
	var created struct {
		ID garden.AnimalID `json:"id"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &created))

	code, _ = env.do(t, http.MethodDelete, fmt.Sprintf("/api/animals/%d", created.ID), nil, token)
	assert.Equal(t, http.StatusAccepted, code)

	assert.Eventually(t, func() bool {
		code, resp := env.do(t, http.MethodGet, "/api/state", nil, "")
		var snapshot garden.Snapshot
		return code == http.StatusOK && json.Unmarshal(resp.Data, &snapshot) == nil && len(snapshot.Animals) == 0
	}, 2*time.Second, 10*time.Millisecond, "помеченное животное убирается на тике")

	code, _ = env.do(t, http.MethodDelete, "/api/animals/999", nil, token)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestRestServer_RemoveObject(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, true)

	code, _ := env.do(t, http.MethodPost, "/api/spawn", map[string]interface{}{"x": 0, "y": 0}, "")
	require.Equal(t, http.StatusOK, code)

	code, _ = env.do(t, http.MethodDelete, "/api/objects/1", nil, token)
	assert.Equal(t, http.StatusOK, code)

	code, _ = env.do(t, http.MethodDelete, "/api/objects/1", nil, token)
	assert.Equal(t, http.StatusNotFound, code, "повторное удаление даёт 404")
}

func TestFormatUptime(t *testing.T) {
	assert.Equal(t, "5с", formatUptime(5*time.Second))
	assert.Equal(t, "2м 3с", formatUptime(2*time.Minute+3*time.Second))
	assert.Equal(t, "1ч 0м 0с", formatUptime(time.Hour))
	assert.Equal(t, "1д 2ч 0м 0с", formatUptime(26*time.Hour))
}
