package acbf

import (
	"fmt"
	"image"
	"strconv"
	"strings"
)

// Polygon is an ordered list of vertices in page-image pixel space.
type Polygon []image.Point

// ParsePoints parses a points attribute of the form "x1,y1 x2,y2 ...".
// Coordinates written as decimals are truncated.
func ParsePoints(s string) (Polygon, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil, nil
	}
	poly := make(Polygon, 0, len(fields))
	for _, f := range fields {
		xs, ys, ok := strings.Cut(f, ",")
		if !ok {
			return nil, fmt.Errorf("invalid point %q", f)
		}
		x, err := parseCoord(xs)
		if err != nil {
			return nil, fmt.Errorf("invalid point %q: %w", f, err)
		}
		y, err := parseCoord(ys)
		if err != nil {
			return nil, fmt.Errorf("invalid point %q: %w", f, err)
		}
		poly = append(poly, image.Pt(x, y))
	}
	return poly, nil
}

func parseCoord(s string) (int, error) {
	if v, err := strconv.Atoi(s); err == nil {
		return v, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return int(v), nil
}

// String formats the polygon as a points attribute.
func (p Polygon) String() string {
	parts := make([]string, len(p))
	for i, pt := range p {
		parts[i] = fmt.Sprintf("%d,%d", pt.X, pt.Y)
	}
	return strings.Join(parts, " ")
}

// Rect returns the four corners of r in the order top-left, top-right,
// bottom-right, bottom-left.
func Rect(r image.Rectangle) Polygon {
	return Polygon{
		{r.Min.X, r.Min.Y},
		{r.Max.X, r.Min.Y},
		{r.Max.X, r.Max.Y},
		{r.Min.X, r.Max.Y},
	}
}

// Bounds returns the min/max box over all vertices.
func (p Polygon) Bounds() image.Rectangle {
	if len(p) == 0 {
		return image.Rectangle{}
	}
	r := image.Rectangle{Min: p[0], Max: p[0]}
	for _, pt := range p[1:] {
		if pt.X < r.Min.X {
			r.Min.X = pt.X
		}
		if pt.Y < r.Min.Y {
			r.Min.Y = pt.Y
		}
		if pt.X > r.Max.X {
			r.Max.X = pt.X
		}
		if pt.Y > r.Max.Y {
			r.Max.Y = pt.Y
		}
	}
	return r
}

// Area returns the absolute shoelace area of the polygon.
func (p Polygon) Area() float64 {
	if len(p) < 3 {
		return 0
	}
	var sum int64
	for i := range p {
		j := (i + 1) % len(p)
		sum += int64(p[i].X)*int64(p[j].Y) - int64(p[j].X)*int64(p[i].Y)
	}
	if sum < 0 {
		sum = -sum
	}
	return float64(sum) / 2
}

// Valid reports whether the polygon has at least three vertices and
// encloses a non-zero area.
func (p Polygon) Valid() bool {
	return len(p) >= 3 && p.Area() > 0
}

// Translate returns a copy of p moved by d.
func (p Polygon) Translate(d image.Point) Polygon {
	out := make(Polygon, len(p))
	for i, pt := range p {
		out[i] = pt.Add(d)
	}
	return out
}

// Contains reports whether pt lies inside the polygon (even-odd rule).
func (p Polygon) Contains(pt image.Point) bool {
	if len(p) < 3 {
		return false
	}
	inside := false
	x, y := float64(pt.X), float64(pt.Y)
	j := len(p) - 1
	for i := range p {
		xi, yi := float64(p[i].X), float64(p[i].Y)
		xj, yj := float64(p[j].X), float64(p[j].Y)
		if (yi > y) != (yj > y) && x < (xj-xi)*(y-yi)/(yj-yi)+xi {
			inside = !inside
		}
		j = i
	}
	return inside
}
