package scene

import (
	"math"

	"github.com/paulmach/orb"

	"github.com/korylee/diagen/core"
)

// Anchors resolves the connector endpoints to canvas points. An element endpoint sits at
// the midpoint of the element side facing the other endpoint.
func (s *Scene) Anchors(c Connector) (from, to core.Point) {
	fromCenter := s.center(c.From)
	toCenter := s.center(c.To)
	return s.anchor(c.From, toCenter), s.anchor(c.To, fromCenter)
}

func (s *Scene) center(ep Endpoint) core.Point {
	if ep.Point != nil {
		return *ep.Point
	}
	el, _ := s.Element(ep.Element)
	return el.Props.Rect().Center()
}

func (s *Scene) anchor(ep Endpoint, toward core.Point) core.Point {
	if ep.Point != nil {
		return *ep.Point
	}
	el, _ := s.Element(ep.Element)
	return FacingSide(el.Props.Rect(), toward)
}

// FacingSide returns the midpoint of the side of r that faces target. Offsets are compared
// relative to the rectangle's proportions so wide shapes prefer their long sides.
func FacingSide(r core.Rect, target core.Point) core.Point {
	c := r.Center()
	dx, dy := target.X-c.X, target.Y-c.Y

	if math.Abs(dx)*r.H >= math.Abs(dy)*r.W {
		if dx >= 0 {
			return core.Point{X: r.Right(), Y: c.Y}
		}
		return core.Point{X: r.X, Y: c.Y}
	}
	if dy >= 0 {
		return core.Point{X: c.X, Y: r.Bottom()}
	}
	return core.Point{X: c.X, Y: r.Y}
}

// Bounds returns the area covering every element and route point, grown by margin.
func (s *Scene) Bounds(routes []Routed, margin float64) core.Rect {
	var (
		b     orb.Bound
		empty = true
	)
	extend := func(p core.Point) {
		op := orb.Point{p.X, p.Y}
		if empty {
			b = op.Bound()
			empty = false
			return
		}
		b = b.Extend(op)
	}

	for _, el := range s.Elements {
		r := el.Props.Rect()
		extend(core.Point{X: r.X, Y: r.Y})
		extend(core.Point{X: r.Right(), Y: r.Bottom()})
	}
	for _, rt := range routes {
		for _, p := range rt.Result.Points {
			extend(p)
		}
	}
	if empty {
		return core.Rect{}
	}

	b = b.Pad(margin)
	return core.Rect{
		X: b.Min.X(),
		Y: b.Min.Y(),
		W: b.Max.X() - b.Min.X(),
		H: b.Max.Y() - b.Min.Y(),
	}
}
