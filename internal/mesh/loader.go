package mesh

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/heightview/internal/assets"
	"github.com/Faultbox/heightview/internal/engine/heatmap"
	"github.com/Faultbox/heightview/internal/logger"
)

// Fetcher loads a named asset. *assets.Manager implements it.
type Fetcher interface {
	Load(ctx context.Context, name string) ([]byte, error)
}

// Loader fetches the four mesh documents of a 3D view.
type Loader struct {
	fetch Fetcher
}

// NewLoader creates a loader on top of an asset fetcher.
func NewLoader(f Fetcher) *Loader {
	return &Loader{fetch: f}
}

// Load fetches terrain vertices, terrain normals, building vertices and
// building normals concurrently and returns once all four are done.
//
// A failed or malformed document leaves its layer empty and is logged; only
// cancellation of ctx makes Load fail.
func (l *Loader) Load(ctx context.Context) (*Buffers, error) {
	start := time.Now()

	var (
		wg                  sync.WaitGroup
		positions, normals  []float32
		buildings, bNormals []float32
		count, normalCount  int
	)

	wg.Add(4)
	go func() {
		defer wg.Done()
		positions = l.vectors(ctx, assets.HeightModel, PositionStride, "vertices")
	}()
	go func() {
		defer wg.Done()
		normals = l.vectors(ctx, assets.HeightNormals, NormalStride, "normals", "vertices")
	}()
	go func() {
		defer wg.Done()
		buildings, count = l.instances(ctx, assets.BuildingModels, PositionStride, "vertices")
	}()
	go func() {
		defer wg.Done()
		// the generator writes building normals under "vertices"
		bNormals, normalCount = l.instances(ctx, assets.BuildingNormals, NormalStride, "vertices", "normals")
	}()
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("loading meshes: %w", err)
	}

	b := &Buffers{
		Positions:     positions,
		Buildings:     buildings,
		BuildingCount: count,
	}
	b.Normals = fit(normals, b.VertexCount()*NormalStride)
	b.BuildingNormals = fit(bNormals, b.BuildingVertexCount()*NormalStride)

	if len(normals) != len(b.Normals) {
		logger.Warn("terrain normal count does not match vertices",
			zap.Int("vertices", b.VertexCount()),
			zap.Int("normals", len(normals)/NormalStride),
		)
	}
	if normalCount != count {
		logger.Warn("building normal count does not match buildings",
			zap.Int("buildings", count),
			zap.Int("normals", normalCount),
		)
	}

	logger.Info("meshes loaded",
		zap.Int("terrain_vertices", b.VertexCount()),
		zap.Int("buildings", b.BuildingCount),
		zap.Duration("took", time.Since(start)),
	)
	return b, nil
}

func (l *Loader) vectors(ctx context.Context, name string, stride int, keys ...string) []float32 {
	data, ok := l.get(ctx, name)
	if !ok {
		return nil
	}
	out, err := DecodeVectors(data, stride, keys...)
	if err != nil {
		logger.Warn("asset unusable, layer left empty", zap.String("asset", name), zap.Error(err))
		return nil
	}
	return out
}

func (l *Loader) instances(ctx context.Context, name string, stride int, keys ...string) ([]float32, int) {
	data, ok := l.get(ctx, name)
	if !ok {
		return nil, 0
	}
	out, n, err := DecodeInstances(data, stride, keys...)
	if err != nil {
		logger.Warn("asset unusable, layer left empty", zap.String("asset", name), zap.Error(err))
		return nil, 0
	}
	return out, n
}

func (l *Loader) get(ctx context.Context, name string) ([]byte, bool) {
	data, err := l.fetch.Load(ctx, name)
	if err != nil {
		if ctx.Err() == nil && !errors.Is(err, context.Canceled) {
			logger.Warn("asset fetch failed, layer left empty", zap.String("asset", name), zap.Error(err))
		}
		return nil, false
	}
	return data, true
}

// LoadTileMap fetches and decodes map.json. Unlike the mesh layers the tile
// map has nothing to fall back to, so every failure is returned.
func (l *Loader) LoadTileMap(ctx context.Context) (*heatmap.TileMap, error) {
	data, err := l.fetch.Load(ctx, assets.TileMap)
	if err != nil {
		return nil, fmt.Errorf("loading tile map: %w", err)
	}
	tm, err := heatmap.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", assets.TileMap, err)
	}

	s := tm.Stats()
	logger.Info("tile map loaded",
		zap.Int("rows", s.Rows),
		zap.Int("cols", s.Cols),
		zap.Float64("max_height", s.Max),
		zap.Int("water", s.Water),
		zap.Int("buildings", s.Buildings),
	)
	return tm, nil
}
