package assets

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/heightview/internal/logger"
)

func TestNewManagerValidation(t *testing.T) {
	tests := []struct {
		url     string
		wantErr bool
	}{
		{"http://localhost:4200/assets/generated/", false},
		{"http://localhost:4200/assets/generated", false},
		{"https://example.com", false},
		{"ftp://example.com/", true},
		{"::not a url", true},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			_, err := NewManager(tt.url, time.Second)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewManager(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}

func TestURLResolution(t *testing.T) {
	for _, base := range []string{"http://host/assets/generated", "http://host/assets/generated/"} {
		m, err := NewManager(base, time.Second)
		if err != nil {
			t.Fatal(err)
		}
		if got, want := m.URL(HeightModel), "http://host/assets/generated/height_model.json"; got != want {
			t.Errorf("URL() with base %q = %q, want %q", base, got, want)
		}
	}
}

func TestLoadCaches(t *testing.T) {
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		if r.URL.Path != "/gen/map.json" {
			http.NotFound(w, r)
			return
		}
		io.WriteString(w, `[[[1]],[["EMPTY"]]]`)
	}))
	defer srv.Close()

	m, err := NewManager(srv.URL+"/gen", time.Second)
	if err != nil {
		t.Fatal(err)
	}
	defer m.Close()

	for i := 0; i < 3; i++ {
		data, err := m.Load(context.Background(), TileMap)
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if string(data) != `[[[1]],[["EMPTY"]]]` {
			t.Fatalf("unexpected body %q", data)
		}
	}

	if n := requests.Load(); n != 1 {
		t.Errorf("origin hit %d times, want 1", n)
	}
	hits, misses := m.cache.Stats()
	if hits != 2 || misses != 1 {
		t.Errorf("cache stats = %d hits / %d misses, want 2/1", hits, misses)
	}
}

func TestLoadStatusError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	m, err := NewManager(srv.URL, time.Second)
	if err != nil {
		t.Fatal(err)
	}

	_, err = m.Load(context.Background(), HeightNormals)
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("error = %v, want *StatusError", err)
	}
	if se.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", se.Code)
	}

	// failures are not cached
	if _, misses := m.cache.Stats(); misses != 1 {
		t.Errorf("misses = %d, want 1", misses)
	}
}

func TestLoadCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	m, err := NewManager(srv.URL, 5*time.Second)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := m.Load(ctx, BuildingModels); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestCacheClear(t *testing.T) {
	c := NewCache()
	c.Set("a", []byte("1"))
	if _, ok := c.Get("a"); !ok {
		t.Fatal("expected cached value")
	}
	c.Clear()
	if _, ok := c.Get("a"); ok {
		t.Error("value survived Clear")
	}
	if hits, misses := c.Stats(); hits != 0 || misses != 1 {
		t.Errorf("stats after clear = %d/%d, want 0/1", hits, misses)
	}
}

func TestHandler(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, HeightModel), []byte(`{"vertices":[]}`), 0644); err != nil {
		t.Fatal(err)
	}

	srv := httptest.NewServer(Handler(dir))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/" + HeightModel)
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if string(body) != `{"vertices":[]}` {
		t.Errorf("body = %q", body)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("CORS header = %q", got)
	}

	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/"+HeightModel, nil)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("POST status = %d, want 405", resp.StatusCode)
	}
}

func TestHandlerWithManager(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, TileMap), []byte(`[[],[]]`), 0644); err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(Handler(dir))
	defer srv.Close()

	m, err := NewManager(srv.URL, time.Second)
	if err != nil {
		t.Fatal(err)
	}
	data, err := m.Load(context.Background(), TileMap)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(data) != `[[],[]]` {
		t.Errorf("data = %q", data)
	}
}

func TestMount(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, TileMap), []byte(`[[],[]]`), 0644); err != nil {
		t.Fatal(err)
	}

	h, err := Mount("http://localhost:4200/assets/generated/", dir)
	if err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(h)
	defer srv.Close()

	m, err := NewManager(srv.URL+"/assets/generated/", time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.Load(context.Background(), TileMap); err != nil {
		t.Errorf("Load through mount: %v", err)
	}

	resp, err := http.Get(srv.URL + "/" + TileMap)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unprefixed path status = %d, want 404", resp.StatusCode)
	}

	if _, err := Mount("::bad", dir); err == nil {
		t.Error("expected error for bad url")
	}
}

func TestRequestAndCacheLogging(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "assets.log")
	if err := logger.InitWithFileConfig("debug", logger.FileConfig{Path: logFile, MaxSizeMB: 1}, false); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		logger.Log = zap.NewNop()
		logger.Sugar = logger.Log.Sugar()
	})

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, TileMap), []byte(`[[],[]]`), 0644); err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(Handler(dir))

	m, err := NewManager(srv.URL, time.Second)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 2; i++ {
		if _, err := m.Load(context.Background(), TileMap); err != nil {
			t.Fatalf("Load: %v", err)
		}
	}
	m.Close()
	srv.Close()
	logger.Sync()

	content, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatal(err)
	}
	log := string(content)

	var requestLine, cacheLine string
	for _, line := range strings.Split(log, "\n") {
		switch {
		case strings.Contains(line, "\trequest") || strings.Contains(line, " request "):
			requestLine = line
		case strings.Contains(line, "asset cache closed"):
			cacheLine = line
		}
	}
	if !strings.Contains(requestLine, "assets") {
		t.Errorf("request not logged by the assets logger:\n%s", log)
	}
	if !strings.Contains(cacheLine, "hits") || !strings.Contains(cacheLine, "misses") {
		t.Errorf("cache stats not logged on Close:\n%s", log)
	}
}
