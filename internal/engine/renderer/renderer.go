// Package renderer executes composed frames with OpenGL.
package renderer

import (
	"fmt"
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/heightview/internal/engine/scene"
	"github.com/Faultbox/heightview/internal/engine/shader"
	"github.com/Faultbox/heightview/internal/engine/shader/shaders"
	"github.com/Faultbox/heightview/internal/logger"
	"github.com/Faultbox/heightview/internal/mesh"
)

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
}

// Uniform names shared by the 3D programs.
const (
	uModel       = "uModel"
	uView        = "uView"
	uProjection  = "uProjection"
	uColor       = "uColor"
	uLightSource = "uLightSource"
)

// Renderer owns the GL programs and buffers of one view.
// IMPORTANT: all methods must run on the thread that owns the GL context.
type Renderer struct {
	config Config

	lit  *shader.Program
	flat *shader.Program
	quad *shader.Program

	terrain   geometry
	buildings geometry
	water     geometry

	image imageQuad
}

// New initializes OpenGL and compiles the view programs. Must be called
// AFTER the OpenGL context is created.
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{config: cfg}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)

	var err error
	r.lit, err = shader.NewProgram(shaders.LitVertexShader, shaders.LitFragmentShader,
		uModel, uView, uProjection, uColor, uLightSource)
	if err != nil {
		return nil, fmt.Errorf("lit program: %w", err)
	}
	r.flat, err = shader.NewProgram(shaders.FlatVertexShader, shaders.FlatFragmentShader,
		uModel, uView, uProjection, uColor)
	if err != nil {
		r.Close()
		return nil, fmt.Errorf("flat program: %w", err)
	}
	r.quad, err = shader.NewProgram(shaders.QuadVertexShader, shaders.QuadFragmentShader,
		"uScale", "uImage")
	if err != nil {
		r.Close()
		return nil, fmt.Errorf("quad program: %w", err)
	}

	r.water = newGeometry(scene.WaterQuad(), nil)
	r.Resize(cfg.Width, cfg.Height)

	logger.Debug("renderer ready",
		zap.Uint32("lit", r.lit.ID),
		zap.Uint32("flat", r.flat.ID),
		zap.Uint32("quad", r.quad.ID),
	)
	return r, nil
}

// Upload replaces the terrain and building buffers.
func (r *Renderer) Upload(b *mesh.Buffers) {
	r.terrain.delete()
	r.buildings.delete()

	r.terrain = newGeometry(b.Positions, b.Normals)
	r.buildings = newGeometry(b.Buildings, b.BuildingNormals)

	logger.Debug("meshes uploaded",
		zap.Int32("terrain_vertices", r.terrain.count),
		zap.Int32("building_vertices", r.buildings.count),
	)
}

// Counts reports the uploaded geometry in the form the composer wants.
func (r *Renderer) Counts() scene.Counts {
	return scene.Counts{
		TerrainVertices: int(r.terrain.count),
		Buildings:       int(r.buildings.count) / mesh.BuildingVertices,
	}
}

// Draw clears the framebuffer and executes the frame's draw list in order.
func (r *Renderer) Draw(f scene.Frame) {
	c := f.ClearColor
	gl.ClearColor(c[0], c[1], c[2], c[3])
	gl.Enable(gl.DEPTH_TEST)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	var bound *shader.Program
	for i := range f.Draws {
		d := &f.Draws[i]
		prog, geo := r.pass(d.Pass)
		if prog != bound {
			prog.Use()
			prog.SetMat4(uProjection, &f.Projection)
			prog.SetMat4(uView, &f.View)
			bound = prog
		}
		if geo.count == 0 || d.Count == 0 {
			continue
		}
		prog.SetMat4(uModel, &d.Model)
		prog.SetVec3(uColor, d.Color)
		if d.Pass != scene.PassWater {
			prog.SetVec3(uLightSource, d.Light.Array())
		}
		geo.draw(d.First, d.Count)
	}
	gl.BindVertexArray(0)
}

func (r *Renderer) pass(p scene.Pass) (*shader.Program, *geometry) {
	switch p {
	case scene.PassBuilding:
		return r.lit, &r.buildings
	case scene.PassWater:
		return r.flat, &r.water
	default:
		return r.lit, &r.terrain
	}
}

// UploadImage stores an image to be shown by DrawImage.
func (r *Renderer) UploadImage(img *image.RGBA) {
	r.image.upload(img)
}

// DrawImage clears to clear and draws the uploaded image centred, scaled to
// fit the window without distortion.
func (r *Renderer) DrawImage(clear [4]float32) {
	gl.ClearColor(clear[0], clear[1], clear[2], clear[3])
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	if r.image.texture == 0 {
		return
	}

	gl.Disable(gl.DEPTH_TEST)
	r.quad.Use()
	sx, sy := FitScale(r.image.width, r.image.height, r.config.Width, r.config.Height)
	r.quad.SetVec2("uScale", sx, sy)
	r.quad.SetInt("uImage", 0)
	r.image.draw()
	gl.Enable(gl.DEPTH_TEST)
}

// Resize updates the viewport.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	logger.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Size returns the current viewport size.
func (r *Renderer) Size() (int, int) {
	return r.config.Width, r.config.Height
}

// ReadPixels reads the back buffer as bottom-up RGBA rows.
func (r *Renderer) ReadPixels() ([]byte, int, int) {
	w, h := r.config.Width, r.config.Height
	if w <= 0 || h <= 0 {
		return nil, 0, 0
	}
	pixels := make([]byte, w*h*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels, w, h
}

// Close releases all GL resources.
func (r *Renderer) Close() {
	logger.Info("closing renderer")
	r.terrain.delete()
	r.buildings.delete()
	r.water.delete()
	r.image.delete()
	for _, p := range []*shader.Program{r.lit, r.flat, r.quad} {
		if p != nil {
			p.Delete()
		}
	}
}

// FitScale returns the clip-space scale that fits an image into a window
// while keeping its aspect ratio.
func FitScale(imgW, imgH, winW, winH int) (float32, float32) {
	if imgW <= 0 || imgH <= 0 || winW <= 0 || winH <= 0 {
		return 1, 1
	}
	imgAspect := float32(imgW) / float32(imgH)
	winAspect := float32(winW) / float32(winH)
	if winAspect > imgAspect {
		return imgAspect / winAspect, 1
	}
	return 1, winAspect / imgAspect
}
