package mesh

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Faultbox/heightview/internal/assets"
)

func TestFlatten(t *testing.T) {
	got := Flatten([][]float32{{1, 2, 3, 1}, {4, 5}, {6, 7, 8, 1, 99}}, 4)
	want := []float32{1, 2, 3, 1, 4, 5, 0, 0, 6, 7, 8, 1}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %f, want %f", i, got[i], want[i])
		}
	}
}

func TestFlattenInstancesKeepsOffsets(t *testing.T) {
	short := [][]float32{{1, 1, 1}}
	long := make([][]float32, 40)
	for i := range long {
		long[i] = []float32{2, 2, 2}
	}

	got := FlattenInstances([][][]float32{short, long, short}, BuildingVertices, 3)
	if len(got) != 3*BuildingVertices*3 {
		t.Fatalf("len = %d, want %d", len(got), 3*BuildingVertices*3)
	}
	if got[0] != 1 || got[3] != 0 {
		t.Errorf("first instance not padded: %v", got[:6])
	}
	second := BuildingVertices * 3
	if got[second] != 2 || got[2*second-1] != 2 {
		t.Error("second instance not truncated to 36 vertices")
	}
	if got[2*second] != 1 {
		t.Errorf("third instance starts at %f, want 1", got[2*second])
	}
}

func TestDecodeVectorsKeys(t *testing.T) {
	data := []byte(`{"vertices": [[1, 0, 0], [0, 1, 0]]}`)
	got, err := DecodeVectors(data, 3, "normals", "vertices")
	if err != nil {
		t.Fatalf("DecodeVectors: %v", err)
	}
	if len(got) != 6 || got[4] != 1 {
		t.Errorf("got %v", got)
	}

	if _, err := DecodeVectors(data, 3, "normals"); err == nil || !strings.Contains(err.Error(), "normals") {
		t.Errorf("missing key error = %v", err)
	}
	if _, err := DecodeVectors([]byte(`[1,2]`), 3, "vertices"); err == nil {
		t.Error("expected error for non-object document")
	}
}

// fakeFetcher serves canned documents by name.
type fakeFetcher map[string]string

func (f fakeFetcher) Load(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc, ok := f[name]
	if !ok {
		return nil, &assets.StatusError{URL: name, Code: http.StatusNotFound}
	}
	return []byte(doc), nil
}

func cube(v string) string {
	parts := make([]string, BuildingVertices)
	for i := range parts {
		parts[i] = v
	}
	return "[" + strings.Join(parts, ",") + "]"
}

func TestLoadAll(t *testing.T) {
	f := fakeFetcher{
		assets.HeightModel:     `{"vertices": [[0,0,0,1],[1,0,0,1],[0,1,0,1]]}`,
		assets.HeightNormals:   `{"normals": [[0,0,1],[0,0,1],[0,0,1]]}`,
		assets.BuildingModels:  `{"vertices": [` + cube("[1,2,3,1]") + `,` + cube("[4,5,6,1]") + `]}`,
		assets.BuildingNormals: `{"vertices": [` + cube("[0,1,0]") + `,` + cube("[1,0,0]") + `]}`,
	}

	b, err := NewLoader(f).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if b.VertexCount() != 3 || len(b.Normals) != 9 {
		t.Errorf("terrain: %d vertices, %d normal floats", b.VertexCount(), len(b.Normals))
	}
	if b.BuildingCount != 2 {
		t.Fatalf("buildings = %d, want 2", b.BuildingCount)
	}
	if len(b.Buildings) != 2*BuildingVertices*PositionStride {
		t.Errorf("building floats = %d", len(b.Buildings))
	}
	if b.Buildings[BuildingVertices*PositionStride] != 4 {
		t.Error("second building does not start at vertex 36")
	}
	if len(b.BuildingNormals) != 2*BuildingVertices*NormalStride {
		t.Errorf("building normal floats = %d", len(b.BuildingNormals))
	}
}

func TestLoadDegradesPerLayer(t *testing.T) {
	f := fakeFetcher{
		assets.HeightModel:     `{"vertices": [[0,0,0,1],[1,0,0,1]]}`,
		assets.HeightNormals:   `{"wrong": []}`,
		assets.BuildingNormals: `not json`,
		// building_models.json is missing
	}

	b, err := NewLoader(f).Load(context.Background())
	if err != nil {
		t.Fatalf("Load should degrade, got %v", err)
	}
	if b.VertexCount() != 2 {
		t.Errorf("terrain vertices = %d, want 2", b.VertexCount())
	}
	if len(b.Normals) != 6 {
		t.Errorf("normals should be padded to the vertex count, got %d floats", len(b.Normals))
	}
	if b.BuildingCount != 0 || len(b.Buildings) != 0 || len(b.BuildingNormals) != 0 {
		t.Errorf("building layer should be empty: %+v", b)
	}
}

func TestLoadEverythingMissing(t *testing.T) {
	b, err := NewLoader(fakeFetcher{}).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if b.VertexCount() != 0 || b.BuildingCount != 0 {
		t.Errorf("expected empty buffers, got %+v", b)
	}
}

func TestLoadCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewLoader(fakeFetcher{}).Load(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestLoadOverHTTP(t *testing.T) {
	docs := map[string]string{
		"/" + assets.HeightModel:     `{"vertices": [[0,0,0,1],[1,0,0,1],[0,1,0,1]]}`,
		"/" + assets.HeightNormals:   `{"normals": [[0,0,1],[0,0,1],[0,0,1]]}`,
		"/" + assets.BuildingModels:  `{"vertices": [` + cube("[1,2,3,1]") + `]}`,
		"/" + assets.BuildingNormals: `{"vertices": [` + cube("[0,1,0]") + `]}`,
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		doc, ok := docs[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(doc))
	}))
	defer srv.Close()

	m, err := assets.NewManager(srv.URL, 5*time.Second)
	if err != nil {
		t.Fatal(err)
	}
	defer m.Close()

	b, err := NewLoader(m).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if b.VertexCount() != 3 || b.BuildingCount != 1 {
		t.Errorf("got %d vertices and %d buildings", b.VertexCount(), b.BuildingCount)
	}

	if _, err := NewLoader(m).LoadTileMap(context.Background()); err == nil {
		t.Error("expected error for missing map.json")
	}
}

func TestLoadTileMap(t *testing.T) {
	f := fakeFetcher{
		assets.TileMap: `[[[0, 5], [10, 2]], [["EMPTY", "WATER"], ["BUILDING", "EMPTY"]]]`,
	}
	tm, err := NewLoader(f).LoadTileMap(context.Background())
	if err != nil {
		t.Fatalf("LoadTileMap: %v", err)
	}
	if s := tm.Stats(); s.Rows != 2 || s.Max != 10 || s.Buildings != 1 || s.Water != 1 {
		t.Errorf("stats = %+v", s)
	}

	bad := fakeFetcher{assets.TileMap: `{"not": "a tuple"}`}
	if _, err := NewLoader(bad).LoadTileMap(context.Background()); err == nil {
		t.Error("expected decode error")
	}
}
