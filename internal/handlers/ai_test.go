package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/spinshelf/spinshelf-backend/internal/clients"
	"github.com/spinshelf/spinshelf-backend/internal/db"
	"github.com/spinshelf/spinshelf-backend/internal/domain"
	"github.com/spinshelf/spinshelf-backend/internal/platform/logger"
	"github.com/spinshelf/spinshelf-backend/internal/platform/openai"
	"github.com/spinshelf/spinshelf-backend/internal/prompts"
	"github.com/spinshelf/spinshelf-backend/internal/repos"
	"github.com/spinshelf/spinshelf-backend/internal/requestdata"
	"github.com/spinshelf/spinshelf-backend/internal/services"
)

func init() {
	gin.SetMode(gin.TestMode)
	prompts.RegisterAll()
}

type stubModel struct {
	resp map[string]any
	err  error
}

func (s stubModel) GenerateJSON(ctx context.Context, system, user, schemaName string, schema map[string]any) (map[string]any, error) {
	return s.resp, s.err
}

func (s stubModel) GenerateJSONWithImages(ctx context.Context, system, user string, images []openai.ImageInput, schemaName string, schema map[string]any) (map[string]any, error) {
	return s.resp, s.err
}

func (s stubModel) GenerateJSONWithTools(ctx context.Context, system, user string, tools []map[string]any, schemaName string, schema map[string]any) (map[string]any, error) {
	return s.resp, s.err
}

type stubArtwork struct{ urls []string }

func (s stubArtwork) AlbumArtwork(ctx context.Context, artist, title string) ([]string, error) {
	return s.urls, nil
}

type stubFrontCovers struct{ urls []string }

func (s stubFrontCovers) FrontCovers(ctx context.Context, artist, title string) ([]string, error) {
	return s.urls, nil
}

type stubLrclib struct {
	exact *clients.LyricsRecord
	fuzzy *clients.LyricsRecord
}

func (s stubLrclib) Get(ctx context.Context, artist, track string) (*clients.LyricsRecord, error) {
	return s.exact, nil
}

func (s stubLrclib) Search(ctx context.Context, artist, track string) (*clients.LyricsRecord, error) {
	return s.fuzzy, nil
}

type testEnv struct {
	router *gin.Engine
	userID uuid.UUID
	subs   *repos.SubscriptionRepo
}

// newTestEnv wires an AIHandler with stubbed model and upstreams behind a
// fake auth middleware injecting a real (sqlite-backed) user.
func newTestEnv(t *testing.T, model openai.Client, lrclib services.LyricsProvider) *testEnv {
	t.Helper()
	log, err := logger.New("dev")
	require.NoError(t, err)

	gdb, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	// One pooled connection, or each conn would see its own empty memory DB.
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.Migrate(gdb))

	users := repos.NewUserRepo(gdb)
	subs := repos.NewSubscriptionRepo(gdb)
	user := &domain.User{Email: "t@example.com", PasswordHash: "x"}
	require.NoError(t, users.Create(context.Background(), user))

	ai := services.NewAIService(log, model, stubArtwork{}, stubFrontCovers{})
	lyr := services.NewLyricsService(log, lrclib)
	plan := services.NewPlanService(subs)
	h := NewAIHandler(log, ai, lyr, plan)

	router := gin.New()
	authed := router.Group("/api/ai")
	authed.Use(func(c *gin.Context) {
		rd := &requestdata.RequestData{UserID: user.ID}
		c.Request = c.Request.WithContext(requestdata.WithRequestData(c.Request.Context(), rd))
		c.Next()
	})
	authed.POST("/identify", h.Identify)
	authed.POST("/metadata", h.Metadata)
	authed.POST("/playlist", h.Playlist)
	authed.POST("/covers", h.Covers)
	authed.POST("/lyrics", h.Lyrics)
	authed.POST("/manual", h.Manual)
	authed.POST("/setup-guide", h.SetupGuide)

	return &testEnv{router: router, userID: user.ID, subs: subs}
}

func (e *testEnv) makePremium(t *testing.T) {
	t.Helper()
	require.NoError(t, e.subs.SetTier(context.Background(), e.userID, domain.TierPremium, nil))
}

func (e *testEnv) post(t *testing.T, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestSetupGuideEmptyResultReturns500Body(t *testing.T) {
	env := newTestEnv(t, stubModel{resp: map[string]any{
		"signal_chain": []any{},
		"connections":  []any{},
		"settings":     []any{},
		"tips":         []any{},
		"warnings":     []any{},
	}}, stubLrclib{})
	env.makePremium(t)

	w := env.post(t, "/api/ai/setup-guide", gin.H{"gear": []gin.H{
		{"type": "turntable", "brand": "Rega", "model": "Planar 3"},
		{"type": "amplifier", "brand": "NAD", "model": "C316BEE"},
	}})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t,
		`{"error": "AI returned an incomplete setup guide. Please try again."}`,
		w.Body.String())
}

func TestLyricsNoMatchReturns200Nulls(t *testing.T) {
	env := newTestEnv(t, stubModel{}, stubLrclib{})

	w := env.post(t, "/api/ai/lyrics", gin.H{"artist": "Nobody", "title": "Nothing"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"lyrics": null, "syncedLyrics": null, "source": null}`, w.Body.String())
}

func TestPlaylistRequiresPremium(t *testing.T) {
	env := newTestEnv(t, stubModel{resp: map[string]any{
		"playlist_name": "X",
		"items":         []any{map[string]any{"album_id": "r1", "artist": "A", "title": "B"}},
	}}, stubLrclib{})

	body := gin.H{"prompt": "mellow", "collection": []gin.H{{"id": "r1", "artist": "A", "title": "B"}}}

	w := env.post(t, "/api/ai/playlist", body)
	assert.Equal(t, http.StatusForbidden, w.Code)

	env.makePremium(t)
	w = env.post(t, "/api/ai/playlist", body)
	assert.Equal(t, http.StatusOK, w.Code)

	var res domain.PlaylistResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "X", res.PlaylistName)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "r1", res.Items[0].AlbumID)
}

func TestIdentifyNoMatch200(t *testing.T) {
	env := newTestEnv(t, stubModel{resp: map[string]any{
		"match":      false,
		"artist":     nil,
		"title":      nil,
		"confidence": "low",
	}}, stubLrclib{})

	w := env.post(t, "/api/ai/identify", gin.H{"image": "aGVsbG8="})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"match": false, "artist": null, "title": null, "confidence": "low"}`, w.Body.String())
}

func TestMetadataBadBodyReturns400(t *testing.T) {
	env := newTestEnv(t, stubModel{}, stubLrclib{})

	req := httptest.NewRequest(http.MethodPost, "/api/ai/metadata", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body, "error")
}

func TestModelFailureBodyHidesUpstreamDetails(t *testing.T) {
	env := newTestEnv(t, stubModel{err: errStub("openai: status 500: internal details")}, stubLrclib{})

	w := env.post(t, "/api/ai/metadata", gin.H{"artist": "A", "title": "B"})

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.NotContains(t, w.Body.String(), "internal details")
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body, "error")
}

type errStub string

func (e errStub) Error() string { return string(e) }

func TestCoversEndpointDedupes(t *testing.T) {
	env := newTestEnv(t, stubModel{resp: map[string]any{
		"covers": []any{"https://x.example/a.jpg", "https://x.example/a.jpg"},
	}}, stubLrclib{})

	w := env.post(t, "/api/ai/covers", gin.H{"artist": "A", "title": "B"})

	assert.Equal(t, http.StatusOK, w.Code)
	var res domain.CoversResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.Len(t, res.Covers, 1)
	assert.Equal(t, "model", res.Covers[0].Source)
}

func TestManualAlwaysCarriesSearchURL(t *testing.T) {
	env := newTestEnv(t, stubModel{resp: map[string]any{
		"manual_url":       nil,
		"source":           nil,
		"confidence":       "low",
		"alternative_urls": []any{},
	}}, stubLrclib{})
	env.makePremium(t)

	w := env.post(t, "/api/ai/manual", gin.H{"brand": "Technics", "model": "SL-1200"})

	assert.Equal(t, http.StatusOK, w.Code)
	var res domain.ManualResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Nil(t, res.ManualURL)
	assert.Contains(t, res.SearchURL, "user+manual+pdf")
}
