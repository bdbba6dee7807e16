package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/sakif/memories/internal/handler"
	"github.com/sakif/memories/internal/repository/sqlstore"
	"github.com/sakif/memories/internal/service"
	"github.com/sakif/memories/internal/storage"
)

const (
	testBase     = "https://cdn.example.com/uploads"
	testMaxBytes = 64 << 10
)

// memBlobs is an in-memory storage.BlobStore.
type memBlobs struct {
	mu      sync.Mutex
	objects map[string][]byte
	putErr  error
}

func (m *memBlobs) Put(_ context.Context, key string, body io.Reader, _ int64, _ string) error {
	if m.putErr != nil {
		return m.putErr
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = b
	return nil
}

func (m *memBlobs) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *memBlobs) hasURL(url string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	key, ok := strings.CutPrefix(url, testBase+"/")
	if !ok {
		return false
	}
	_, found := m.objects[key]
	return found
}

func (m *memBlobs) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}

// testAPI wires real services over a temp SQLite file, the way server does.
type testAPI struct {
	router http.Handler
	blobs  *memBlobs
	db     *sqlstore.DB
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	db, err := sqlstore.New(context.Background(), sqlstore.DriverSQLite, filepath.Join(t.TempDir(), "api.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	blobs := &memBlobs{objects: map[string][]byte{}}
	assets := service.NewAssetService(blobs, storage.NewNamespace(testBase), logger)

	bucket := handler.NewBucketItemHandler(service.NewBucketItemService(db.BucketItems(), logger), logger)
	events := handler.NewEventHandler(service.NewEventService(db.Events(), logger), logger)
	memories := handler.NewMemoryHandler(service.NewMemoryService(db.Memories(), assets, logger), testMaxBytes, logger)
	poems := handler.NewPoemHandler(service.NewPoemService(db.Poems(), logger), logger)
	upload := handler.NewUploadHandler(assets, testMaxBytes, logger)
	stats := service.NewStatsService(time.Date(2022, 10, 16, 0, 0, 0, 0, time.UTC))

	r := chi.NewRouter()
	r.Get("/healthz", handler.HandleHealth(db, logger))
	r.Route("/api", func(r chi.Router) {
		r.Route("/bucket-list", bucket.Routes)
		r.Route("/events", events.Routes)
		r.Route("/memories", memories.Routes)
		r.Route("/poems", poems.Routes)
		r.Post("/upload", upload.HandleUpload)
		r.Get("/stats", handler.HandleStats(stats))
	})

	return &testAPI{router: r, blobs: blobs, db: db}
}

// do sends a JSON request (body may be nil) and returns the recorder.
func (a *testAPI) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rdr = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		rdr = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, rdr)
	if rdr != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	a.router.ServeHTTP(rr, req)
	return rr
}

// form sends a multipart request. files maps field name → file name; each
// file gets a small fake JPEG body.
func (a *testAPI) form(t *testing.T, method, path string, values map[string]string, files map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range values {
		require.NoError(t, mw.WriteField(k, v))
	}
	for field, name := range files {
		fw, err := mw.CreateFormFile(field, name)
		require.NoError(t, err)
		_, err = fw.Write([]byte("\xff\xd8\xff fake jpeg " + name))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rr := httptest.NewRecorder()
	a.router.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&v), "body: %s", rr.Body.String())
	return v
}
