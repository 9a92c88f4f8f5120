// Package heatmap rasterises the generated tile map into a 2D image.
package heatmap

import (
	"encoding/json"
	"fmt"
)

// Class is the land-use classification of one tile.
type Class uint8

const (
	ClassEmpty Class = iota
	ClassWater
	ClassBuilding
	ClassOther // any label the generator adds later; overlay only
)

// ParseClass maps a generator label to a Class.
func ParseClass(s string) Class {
	switch s {
	case "EMPTY":
		return ClassEmpty
	case "WATER":
		return ClassWater
	case "BUILDING":
		return ClassBuilding
	default:
		return ClassOther
	}
}

// String returns the generator label.
func (c Class) String() string {
	switch c {
	case ClassEmpty:
		return "EMPTY"
	case ClassWater:
		return "WATER"
	case ClassBuilding:
		return "BUILDING"
	default:
		return "OTHER"
	}
}

// UnmarshalJSON decodes a label string.
func (c *Class) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("tile class: %w", err)
	}
	*c = ParseClass(s)
	return nil
}

// TileMap is the decoded map.json: a height grid and a class grid indexed [row][column].
type TileMap struct {
	Heights [][]float64
	Classes [][]Class
}

// UnmarshalJSON decodes the [heights, classes] tuple written by the generator.
func (tm *TileMap) UnmarshalJSON(data []byte) error {
	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return fmt.Errorf("tile map: %w", err)
	}
	if len(parts) != 2 {
		return fmt.Errorf("tile map: want [heights, classes], got %d elements", len(parts))
	}
	if err := json.Unmarshal(parts[0], &tm.Heights); err != nil {
		return fmt.Errorf("tile map heights: %w", err)
	}
	if err := json.Unmarshal(parts[1], &tm.Classes); err != nil {
		return fmt.Errorf("tile map classes: %w", err)
	}
	return nil
}

// Parse decodes a map.json document.
func Parse(data []byte) (*TileMap, error) {
	tm := &TileMap{}
	if err := json.Unmarshal(data, tm); err != nil {
		return nil, err
	}
	return tm, nil
}

// ClassAt returns the class of a cell, or ClassEmpty outside the class grid.
func (tm *TileMap) ClassAt(x, y int) Class {
	if y < 0 || y >= len(tm.Classes) || x < 0 || x >= len(tm.Classes[y]) {
		return ClassEmpty
	}
	return tm.Classes[y][x]
}

// Stats summarises a tile map for logging.
type Stats struct {
	Rows, Cols int
	Min, Max   float64
	Water      int
	Buildings  int
}

// Stats scans the grids once. Min is the lowest height present; the renderer
// always uses zero as its floor.
func (tm *TileMap) Stats() Stats {
	s := Stats{Rows: len(tm.Heights)}
	first := true
	for _, row := range tm.Heights {
		if len(row) > s.Cols {
			s.Cols = len(row)
		}
		for _, h := range row {
			if first || h < s.Min {
				s.Min = h
			}
			if first || h > s.Max {
				s.Max = h
			}
			first = false
		}
	}
	for _, row := range tm.Classes {
		for _, c := range row {
			switch c {
			case ClassWater:
				s.Water++
			case ClassBuilding:
				s.Buildings++
			}
		}
	}
	return s
}
