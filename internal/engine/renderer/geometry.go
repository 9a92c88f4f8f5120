package renderer

import (
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/heightview/internal/mesh"
)

// geometry is a VAO with a stride-4 position buffer at location 0 and an
// optional stride-3 normal buffer at location 1.
type geometry struct {
	vao       uint32
	positions uint32
	normals   uint32
	count     int32
}

func newGeometry(positions, normals []float32) geometry {
	var g geometry
	g.count = int32(len(positions) / mesh.PositionStride)
	if g.count == 0 {
		return g
	}

	gl.GenVertexArrays(1, &g.vao)
	gl.BindVertexArray(g.vao)

	g.positions = arrayBuffer(positions)
	gl.VertexAttribPointer(0, mesh.PositionStride, gl.FLOAT, false, 0, nil)
	gl.EnableVertexAttribArray(0)

	if len(normals) > 0 {
		g.normals = arrayBuffer(normals)
		gl.VertexAttribPointer(1, mesh.NormalStride, gl.FLOAT, false, 0, nil)
		gl.EnableVertexAttribArray(1)
	}

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
	return g
}

func arrayBuffer(data []float32) uint32 {
	var id uint32
	gl.GenBuffers(1, &id)
	gl.BindBuffer(gl.ARRAY_BUFFER, id)
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
	return id
}

func (g *geometry) draw(first, count int32) {
	if first+count > g.count {
		count = g.count - first
	}
	if count <= 0 {
		return
	}
	gl.BindVertexArray(g.vao)
	gl.DrawArrays(gl.TRIANGLES, first, count)
}

func (g *geometry) delete() {
	if g.positions != 0 {
		gl.DeleteBuffers(1, &g.positions)
	}
	if g.normals != 0 {
		gl.DeleteBuffers(1, &g.normals)
	}
	if g.vao != 0 {
		gl.DeleteVertexArrays(1, &g.vao)
	}
	*g = geometry{}
}

// imageQuad is a texture plus the full-window quad that shows it.
type imageQuad struct {
	vao, vbo uint32
	texture  uint32
	width    int
	height   int
}

// quadVertices maps image row 0 to the top of the window: x, y, u, v.
var quadVertices = []float32{
	-1, 1, 0, 0,
	-1, -1, 0, 1,
	1, -1, 1, 1,
	-1, 1, 0, 0,
	1, -1, 1, 1,
	1, 1, 1, 0,
}

func (q *imageQuad) upload(img *image.RGBA) {
	if q.vao == 0 {
		gl.GenVertexArrays(1, &q.vao)
		gl.BindVertexArray(q.vao)
		q.vbo = arrayBuffer(quadVertices)
		gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 4*4, nil)
		gl.EnableVertexAttribArray(0)
		gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, 4*4, 2*4)
		gl.EnableVertexAttribArray(1)
		gl.BindBuffer(gl.ARRAY_BUFFER, 0)
		gl.BindVertexArray(0)
	}
	if q.texture == 0 {
		gl.GenTextures(1, &q.texture)
	}

	b := img.Bounds()
	q.width, q.height = b.Dx(), b.Dy()

	gl.BindTexture(gl.TEXTURE_2D, q.texture)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, int32(img.Stride/4))
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(q.width), int32(q.height), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

func (q *imageQuad) draw() {
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, q.texture)
	gl.BindVertexArray(q.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, 6)
	gl.BindVertexArray(0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

func (q *imageQuad) delete() {
	if q.texture != 0 {
		gl.DeleteTextures(1, &q.texture)
	}
	if q.vbo != 0 {
		gl.DeleteBuffers(1, &q.vbo)
	}
	if q.vao != 0 {
		gl.DeleteVertexArrays(1, &q.vao)
	}
	*q = imageQuad{}
}
