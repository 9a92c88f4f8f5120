package heatmap

import (
	"image"
	"image/color"
	"math"
)

// DefaultSize is the canvas edge used when the caller has no preference.
const DefaultSize = 2048

// HaloRadius is the reach of the glow drawn around building tiles.
const HaloRadius = 4

var (
	overlayColor  = color.RGBA{150, 50, 50, 100}
	waterColor    = color.RGBA{150, 50, 200, 100}
	buildingColor = color.RGBA{255, 180, 230, 255}
)

// Render draws one pixel per tile, row y and column x, onto a width x height
// canvas. Tiles outside the canvas are dropped.
//
// Heights map linearly from [0, max] to [0, 255] and are tinted
// (0.95, 0.5, 0.9). The map generator's own formula,
// (h-min)/(max-min) * ((max-min)/255), reduces to h/255 and renders typical
// maps almost black; this one uses the full channel range instead.
//
// Non-empty tiles get a translucent red overlay and water an additional
// purple one. Buildings are painted opaque pink in a second pass driven by the
// class grid, so they show even where a height row is short. That pass also
// adds a pink halo around every building that never touches building tiles,
// so those stay exactly buildingColor.
func Render(tm *TileMap, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, max(width, 0), max(height, 0)))

	var top float64
	for _, row := range tm.Heights {
		for _, h := range row {
			top = math.Max(top, h)
		}
	}

	for y, row := range tm.Heights {
		for x, h := range row {
			v := 0.0
			if top > 0 {
				v = h / top * 255
			}
			blend(img, x, y, color.RGBA{channel(v * 0.95), channel(v * 0.5), channel(v * 0.9), 255})

			c := tm.ClassAt(x, y)
			if c != ClassEmpty {
				blend(img, x, y, overlayColor)
			}
			if c == ClassWater {
				blend(img, x, y, waterColor)
			}
		}
	}

	for y, row := range tm.Classes {
		for x, c := range row {
			if c != ClassBuilding {
				continue
			}
			blend(img, x, y, buildingColor)
			for dy := -HaloRadius; dy <= HaloRadius; dy++ {
				for dx := -HaloRadius; dx <= HaloRadius; dx++ {
					if tm.ClassAt(x+dx, y+dy) == ClassBuilding {
						continue
					}
					halo := buildingColor
					halo.A = uint8(255 - min(10*abs(dx*dy), 255))
					blend(img, x+dx, y+dy, halo)
				}
			}
		}
	}

	return img
}

// blend composites src over the pixel at (x, y) using src.A as coverage and
// leaves the pixel opaque.
func blend(img *image.RGBA, x, y int, src color.RGBA) {
	if !(image.Point{x, y}.In(img.Rect)) {
		return
	}
	i := img.PixOffset(x, y)
	p := img.Pix[i : i+4 : i+4]
	a := float64(src.A) / 255
	p[0] = channel(float64(src.R)*a + float64(p[0])*(1-a))
	p[1] = channel(float64(src.G)*a + float64(p[1])*(1-a))
	p[2] = channel(float64(src.B)*a + float64(p[2])*(1-a))
	p[3] = 255
}

func channel(v float64) uint8 {
	return uint8(math.Max(0, math.Min(255, math.Round(v))))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
