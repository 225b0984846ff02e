package integration

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/deepsyllabus/backend/internal/completion"
	"github.com/deepsyllabus/backend/internal/config"
	"github.com/deepsyllabus/backend/internal/database"
	"github.com/deepsyllabus/backend/internal/handlers"
	"github.com/deepsyllabus/backend/internal/middleware"
	"github.com/deepsyllabus/backend/internal/models"
	"github.com/deepsyllabus/backend/internal/repositories"
	"github.com/deepsyllabus/backend/internal/server"
	"github.com/deepsyllabus/backend/internal/services"
	"github.com/deepsyllabus/backend/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	testDB     *sql.DB
	testLogger *zap.Logger
)

// testConfig returns a router configuration with generous rate limits
func testConfig() *config.Config {
	cfg := &config.Config{Mode: config.ModeMock}
	cfg.Server.Port = 8080
	cfg.CORS.AllowedOrigins = []string{"*"}
	cfg.RateLimit.Global = 1000
	cfg.RateLimit.Generation = 1000
	return cfg
}

// setupTestRouter creates a router over repo with canned completions and placeholder storage
func setupTestRouter(cfg *config.Config, repo services.SyllabusRepository) http.Handler {
	return server.NewRouter(cfg, server.Collaborators{
		Repository: repo,
		Generator:  completion.NewCannedGenerator(testLogger),
		Storage:    storage.NewMockStorage("mock://uploads", testLogger),
	}, testLogger)
}

// TestMain sets up and tears down the test environment
func TestMain(m *testing.M) {
	var err error
	testLogger, err = zap.NewDevelopment()
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	cfg, err := config.LoadTestConfig()
	if err != nil {
		panic(fmt.Sprintf("Failed to load test config: %v", err))
	}
	if cfg.Mode == config.ModeLive {
		testDB, err = database.Connect(context.Background(), cfg.DSN())
		if err != nil {
			panic(fmt.Sprintf("Failed to connect to test database: %v", err))
		}
	}

	code := m.Run()

	if testDB != nil {
		testDB.Close()
	}
	os.Exit(code)
}

func doRequest(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "192.0.2.1:1234"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func uploadFile(t *testing.T, router http.Handler, syllabusID, name, content string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("syllabusId", syllabusID))
	part, err := mw.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload-file", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.RemoteAddr = "192.0.2.1:1234"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// runSyllabusLifecycle drives one syllabus through generation, review, upload and deletion
func runSyllabusLifecycle(t *testing.T, router http.Handler) {
	t.Helper()

	// Generate
	w := doRequest(t, router, http.MethodPost, "/api/generate-syllabus",
		`{"synopsis": "Intro to Linear Algebra. Covers vectors and matrices."}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	generated := decode[handlers.GenerateSyllabusResponse](t, w)
	syllabus := generated.Syllabus
	require.NotNil(t, syllabus)
	assert.Equal(t, "Intro to Linear Algebra", syllabus.Title)
	assert.Equal(t, "Intro to Linear Algebra. Covers vectors and matrices.", syllabus.Synopsis)
	require.Len(t, syllabus.Components, 3)
	assert.Empty(t, syllabus.Files)
	for i, ct := range models.ComponentTypes {
		assert.Equal(t, ct, syllabus.Components[i].Type)
		assert.False(t, syllabus.Components[i].Accepted)
	}
	require.NotNil(t, generated.AIResponse)
	assert.NotEmpty(t, generated.AIResponse.Assessment.Type)

	video := syllabus.Components[0]

	// Accept keeps the content
	w = doRequest(t, router, http.MethodPost, "/api/component/"+video.ID+"/accept", `{"accepted": true}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	accepted := decode[handlers.ComponentResponse](t, w)
	assert.True(t, accepted.Component.Accepted)
	assert.Equal(t, video.Content, accepted.Component.Content)

	// Wrong typed update is rejected without touching the component
	w = doRequest(t, router, http.MethodPut, "/api/component/"+video.ID, `{"content": "", "accepted": "yes"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, router, http.MethodGet, "/api/syllabus/"+syllabus.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	fetched := decode[handlers.SyllabusResponse](t, w).Syllabus
	assert.Equal(t, video.Content, fetched.Components[0].Content)
	assert.True(t, fetched.Components[0].Accepted)

	// Manual edit
	w = doRequest(t, router, http.MethodPut, "/api/component/"+video.ID, `{"content": "{\"idea\":\"edited\",\"link\":\"\"}", "accepted": false}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	edited := decode[handlers.ComponentResponse](t, w)
	assert.Equal(t, `{"idea":"edited","link":""}`, edited.Component.Content)
	assert.False(t, edited.Component.Accepted)

	// Regenerate resets acceptance
	explanation := syllabus.Components[1]
	w = doRequest(t, router, http.MethodPost, "/api/component/"+explanation.ID+"/accept", `{"accepted": true}`)
	require.Equal(t, http.StatusOK, w.Code)
	w = doRequest(t, router, http.MethodPost, "/api/regenerate-component",
		fmt.Sprintf(`{"syllabusId": %q, "componentId": %q, "feedback": "more examples"}`, syllabus.ID, explanation.ID))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	regenerated := decode[handlers.RegenerateComponentResponse](t, w)
	assert.False(t, regenerated.Component.Accepted)
	assert.Equal(t, models.ComponentTypeExplanation, regenerated.Component.Type)
	assert.JSONEq(t, regenerated.Component.Content, string(regenerated.Content))

	// Component of another syllabus id
	w = doRequest(t, router, http.MethodPost, "/api/regenerate-component",
		fmt.Sprintf(`{"syllabusId": %q, "componentId": "missing"}`, syllabus.ID))
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Upload
	w = uploadFile(t, router, syllabus.ID, "notes.txt", "hello world")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	file := decode[handlers.FileResponse](t, w).File
	assert.Equal(t, "notes.txt", file.Name)
	assert.Equal(t, int64(len("hello world")), file.Size)
	assert.True(t, strings.HasPrefix(file.URL, "mock://uploads/"))

	w = uploadFile(t, router, "missing", "notes.txt", "hello world")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(t, router, http.MethodGet, "/api/syllabus/"+syllabus.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	fetched = decode[handlers.SyllabusResponse](t, w).Syllabus
	require.Len(t, fetched.Files, 1)
	assert.Equal(t, file.ID, fetched.Files[0].ID)

	// Listing
	w = doRequest(t, router, http.MethodGet, "/api/syllabi", "")
	require.Equal(t, http.StatusOK, w.Code)
	var listed bool
	for _, s := range decode[handlers.SyllabiResponse](t, w).Syllabi {
		if s.ID == syllabus.ID {
			listed = true
			assert.Empty(t, s.Components)
			assert.Empty(t, s.Files)
		}
	}
	assert.True(t, listed)

	// Delete cascades
	w = doRequest(t, router, http.MethodDelete, "/api/syllabus/"+syllabus.ID, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doRequest(t, router, http.MethodGet, "/api/syllabus/"+syllabus.ID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = doRequest(t, router, http.MethodPost, "/api/component/"+video.ID+"/accept", `{"accepted": true}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = doRequest(t, router, http.MethodDelete, "/api/syllabus/"+syllabus.ID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestIntegration_SyllabusLifecycle_Memory(t *testing.T) {
	router := setupTestRouter(testConfig(), repositories.NewMemoryRepository(testLogger))

	runSyllabusLifecycle(t, router)
}

func TestIntegration_SyllabusLifecycle_MySQL(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}
	if testDB == nil {
		t.Skip("TEST_DB_* is not configured")
	}

	repo := repositories.NewSyllabusRepository(testDB, database.NewMigrator(testDB, testLogger), testLogger)
	router := setupTestRouter(testConfig(), repo)

	w := doRequest(t, router, http.MethodPost, "/api/init-db", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	// Idempotent
	w = doRequest(t, router, http.MethodPost, "/api/init-db", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	runSyllabusLifecycle(t, router)

	var orphans int
	require.NoError(t, testDB.QueryRow(
		"SELECT COUNT(*) FROM components c LEFT JOIN syllabi s ON s.id = c.syllabus_id WHERE s.id IS NULL",
	).Scan(&orphans))
	assert.Zero(t, orphans)
}

func TestIntegration_ListNewestFirst(t *testing.T) {
	router := setupTestRouter(testConfig(), repositories.NewMemoryRepository(testLogger))

	var ids []string
	for _, synopsis := range []string{"First course.", "Second course.", "Third course."} {
		w := doRequest(t, router, http.MethodPost, "/api/generate-syllabus", fmt.Sprintf(`{"synopsis": %q}`, synopsis))
		require.Equal(t, http.StatusOK, w.Code)
		ids = append(ids, decode[handlers.GenerateSyllabusResponse](t, w).Syllabus.ID)
	}

	w := doRequest(t, router, http.MethodGet, "/api/syllabi", "")
	require.Equal(t, http.StatusOK, w.Code)
	syllabi := decode[handlers.SyllabiResponse](t, w).Syllabi
	require.Len(t, syllabi, 3)
	assert.Equal(t, []string{ids[2], ids[1], ids[0]}, []string{syllabi[0].ID, syllabi[1].ID, syllabi[2].ID})
	assert.Equal(t, "Third course", syllabi[0].Title)
}

func TestIntegration_GenerationRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit.Generation = 2
	router := setupTestRouter(cfg, repositories.NewMemoryRepository(testLogger))

	for i := 0; i < 2; i++ {
		w := doRequest(t, router, http.MethodPost, "/api/generate-syllabus", `{"synopsis": "Course."}`)
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := doRequest(t, router, http.MethodPost, "/api/generate-syllabus", `{"synopsis": "Course."}`)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	// Reads are not affected by the generation limit
	w = doRequest(t, router, http.MethodGet, "/api/syllabi", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestIntegration_InitDatabaseRequiresAPIKey(t *testing.T) {
	cfg := testConfig()
	cfg.AdminAPIKey = "secret"
	router := setupTestRouter(cfg, repositories.NewMemoryRepository(testLogger))

	w := doRequest(t, router, http.MethodPost, "/api/init-db", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/init-db", nil)
	req.Header.Set(middleware.APIKeyHeader, "secret")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success": true, "message": "Database initialized successfully"}`, rec.Body.String())
}

func TestIntegration_HealthAndRequestID(t *testing.T) {
	router := setupTestRouter(testConfig(), repositories.NewMemoryRepository(testLogger))

	w := doRequest(t, router, http.MethodGet, "/health", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status": "ok", "mode": "mock"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}
