// Package viewer assembles the window, renderer, asset loading and camera of
// one view and runs it.
package viewer

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/heightview/internal/assets"
	"github.com/Faultbox/heightview/internal/config"
	"github.com/Faultbox/heightview/internal/engine/camera"
	"github.com/Faultbox/heightview/internal/engine/debug"
	"github.com/Faultbox/heightview/internal/engine/heatmap"
	"github.com/Faultbox/heightview/internal/engine/input"
	"github.com/Faultbox/heightview/internal/engine/loop"
	"github.com/Faultbox/heightview/internal/engine/renderer"
	"github.com/Faultbox/heightview/internal/engine/scene"
	"github.com/Faultbox/heightview/internal/engine/window"
	"github.com/Faultbox/heightview/internal/logger"
	"github.com/Faultbox/heightview/internal/mesh"
)

// tileMapClear is the background around the heat-map image.
var tileMapClear = [4]float32{1, 1, 1, 1}

// Viewer runs one view. All methods except New must be called from the
// goroutine that called New, which owns the GL context.
type Viewer struct {
	cfg *config.Config

	win     *window.Window
	rend    *renderer.Renderer
	in      *input.Input
	assets  *assets.Manager
	loader  *mesh.Loader
	capture *debug.ScreenshotCapture

	// 3D views
	cam      *camera.Camera
	composer *scene.Composer

	// tilemap view
	heat *image.RGBA

	screenshot bool
}

// New opens the window and prepares the GPU programs. Failures are shown in a
// blocking dialog before being returned.
func New(cfg *config.Config) (*Viewer, error) {
	v := &Viewer{
		cfg:     cfg,
		in:      input.New(),
		capture: debug.NewScreenshotCapture(cfg.Capture.OutputDir, cfg.View.Name),
	}

	if cfg.View.Name != config.ViewTileMap {
		profile, rig, err := Setup(cfg.View.Name)
		if err != nil {
			return nil, err
		}
		v.composer = scene.NewComposer(profile)
		v.cam = camera.New(rig)
	}

	var err error
	v.assets, err = assets.NewManager(cfg.Data.BaseURL, cfg.Data.FetchTimeout)
	if err != nil {
		return nil, err
	}
	v.loader = mesh.NewLoader(v.assets)

	v.win, err = window.New(window.Config{
		Title:      "heightview - " + cfg.View.Name,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		err = fmt.Errorf("creating window: %w", err)
		window.ShowError(nil, "heightview", err)
		return nil, err
	}

	w, h := v.win.DrawableSize()
	v.rend, err = renderer.New(renderer.Config{Width: w, Height: h})
	if err != nil {
		err = fmt.Errorf("creating renderer: %w", err)
		window.ShowError(v.win, "heightview", err)
		v.win.Close()
		return nil, err
	}

	return v, nil
}

// Setup returns the scene profile and camera rig of a 3D view.
func Setup(view string) (scene.Profile, camera.Rig, error) {
	profile, err := scene.ProfileByName(view)
	if err != nil {
		return scene.Profile{}, camera.Rig{}, err
	}
	switch view {
	case scene.Buildings:
		return profile, camera.BuildingsRig(), nil
	default:
		return profile, camera.WorldRig(), nil
	}
}

// Run loads the view's data and then renders until the window is closed or
// ctx is done. Nothing is drawn before loading completes.
func (v *Viewer) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan error, 1)
	var buffers *mesh.Buffers
	var tm *heatmap.TileMap

	go func() {
		var err error
		if v.cam == nil {
			tm, err = v.loader.LoadTileMap(ctx)
		} else {
			buffers, err = v.loader.Load(ctx)
		}
		done <- err
	}()

	quit, err := v.waitLoaded(ctx, done)
	if quit {
		return nil
	}

	switch {
	case v.cam != nil:
		if err != nil {
			return err
		}
		v.rend.Upload(buffers)
	default:
		if ctx.Err() != nil {
			return nil
		}
		if err != nil {
			logger.Warn("tile map unavailable, showing an empty map", zap.Error(err))
			tm = &heatmap.TileMap{}
		}
		v.showTileMap(tm)
	}

	d := &loop.Driver{
		Period: v.cfg.View.TickInterval,
		Pump:   v.pump,
		Tick:   v.tick,
	}
	return d.Run(ctx)
}

// waitLoaded pumps window events until the loader reports back. quit is set
// when the user closed the window or ctx ended first.
func (v *Viewer) waitLoaded(ctx context.Context, done <-chan error) (bool, error) {
	poll := time.NewTicker(loop.DefaultPollInterval)
	defer poll.Stop()

	for {
		select {
		case err := <-done:
			return false, err
		case <-ctx.Done():
			return true, nil
		case <-poll.C:
			if v.pump() {
				return true, nil
			}
		}
	}
}

func (v *Viewer) showTileMap(tm *heatmap.TileMap) {
	start := time.Now()
	v.heat = heatmap.Render(tm, heatmap.DefaultSize, heatmap.DefaultSize)
	logger.Info("heat-map rendered",
		zap.Int("size", heatmap.DefaultSize),
		zap.Duration("took", time.Since(start)),
	)
	v.rend.UploadImage(v.heat)

	if v.cfg.Capture.SaveHeatmap {
		if path, err := v.capture.CaptureFromImage(v.heat); err != nil {
			logger.Warn("saving heat-map failed", zap.Error(err))
		} else {
			logger.Info("heat-map saved", zap.String("path", path))
		}
	}
}

// pump drains pending input. Camera updates happen here, on the render
// goroutine, so no locking is needed.
func (v *Viewer) pump() bool {
	if v.in.Update() {
		return true
	}

	for _, e := range v.in.Events() {
		switch e.Type {
		case input.EventWindowResize:
			v.rend.Resize(v.win.DrawableSize())
		case input.EventKeyDown:
			switch e.Key {
			case sdl.SCANCODE_ESCAPE:
				return true
			case sdl.SCANCODE_F12:
				v.screenshot = true
			case sdl.SCANCODE_R:
				if v.cam != nil {
					v.cam.Reset()
				}
			}
		case input.EventPointer:
			if v.cam != nil {
				v.cam.HandlePointer(e.Pointer)
			}
		case input.EventWheel:
			if v.cam != nil {
				v.cam.Zoom(e.Wheel)
			}
		}
	}
	return false
}

// tick renders one frame.
func (v *Viewer) tick() error {
	if v.cam == nil {
		v.rend.DrawImage(tileMapClear)
	} else {
		w, h := v.rend.Size()
		v.rend.Draw(v.nextFrame(w, h, v.rend.Counts()))
	}

	if v.screenshot {
		v.screenshot = false
		v.saveScreenshot()
	}

	v.win.SwapBuffers()
	return nil
}

// nextFrame composes the current camera state and only then advances the spin,
// so the first frame is drawn unspun.
func (v *Viewer) nextFrame(width, height int, counts scene.Counts) scene.Frame {
	f := v.composer.Compose(v.cam, width, height, counts)
	v.cam.Tick()
	return f
}

func (v *Viewer) saveScreenshot() {
	pixels, w, h := v.rend.ReadPixels()
	if pixels == nil {
		logger.Warn("screenshot skipped, empty framebuffer")
		return
	}
	path, err := v.capture.CaptureFromPixels(pixels, w, h)
	if err != nil {
		logger.Warn("screenshot failed", zap.Error(err))
		return
	}
	logger.Info("screenshot saved", zap.String("path", path))
}

// Close releases the renderer, window and asset cache.
func (v *Viewer) Close() {
	if v.rend != nil {
		v.rend.Close()
	}
	if v.win != nil {
		v.win.Close()
	}
	if v.assets != nil {
		v.assets.Close()
	}
}

// IsCanceled reports whether err only reflects shutdown.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
