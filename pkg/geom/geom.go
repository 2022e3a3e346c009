// Package geom provides the small set of value types shared by all spatial
// code in blockboard: points, sizes, and axis-aligned rectangles.
//
// All coordinates are in canvas space (unzoomed user units). The y axis
// grows downward, matching the layout engine's top-to-bottom row order.
package geom

import "math"

// Point is a position in canvas space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p translated by (dx, dy).
func (p Point) Add(dx, dy float64) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// Size is a width/height pair.
type Size struct {
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// AspectRatio returns W/H, or 1 for degenerate heights.
func (s Size) AspectRatio() float64 {
	if s.H <= 0 {
		return 1
	}
	return s.W / s.H
}

// Rect is an axis-aligned rectangle given by its top-left corner and size.
type Rect struct {
	Min  Point
	Size Size
}

// RectFrom builds a rectangle from a top-left corner and a size.
func RectFrom(min Point, size Size) Rect {
	return Rect{Min: min, Size: size}
}

// RectFromCenter builds a rectangle centered on c with the given size.
func RectFromCenter(c Point, size Size) Rect {
	return Rect{
		Min:  Point{X: c.X - size.W/2, Y: c.Y - size.H/2},
		Size: size,
	}
}

// MaxX returns the right edge of the rectangle.
func (r Rect) MaxX() float64 { return r.Min.X + r.Size.W }

// MaxY returns the bottom edge of the rectangle.
func (r Rect) MaxY() float64 { return r.Min.Y + r.Size.H }

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Point {
	return Point{X: r.Min.X + r.Size.W/2, Y: r.Min.Y + r.Size.H/2}
}

// Contains reports whether p lies inside r (edges inclusive).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X <= r.MaxX() && p.Y >= r.Min.Y && p.Y <= r.MaxY()
}

// Intersects reports whether r and o overlap with positive area.
func (r Rect) Intersects(o Rect) bool {
	return r.Min.X < o.MaxX() && o.Min.X < r.MaxX() &&
		r.Min.Y < o.MaxY() && o.Min.Y < r.MaxY()
}

// Union returns the smallest rectangle containing both r and o.
func (r Rect) Union(o Rect) Rect {
	minX := math.Min(r.Min.X, o.Min.X)
	minY := math.Min(r.Min.Y, o.Min.Y)
	maxX := math.Max(r.MaxX(), o.MaxX())
	maxY := math.Max(r.MaxY(), o.MaxY())
	return Rect{
		Min:  Point{X: minX, Y: minY},
		Size: Size{W: maxX - minX, H: maxY - minY},
	}
}
