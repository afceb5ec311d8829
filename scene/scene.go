// Package scene loads diagram snapshots (elements and the connectors between them) from
// JSON and routes every connector.
package scene

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/korylee/diagen/core"
	"github.com/korylee/diagen/obstacles"
	"github.com/korylee/diagen/pathfinding"
)

// Common errors
var (
	ErrMissingID          = errors.New("missing id")
	ErrDuplicateElement   = errors.New("duplicate element id")
	ErrDuplicateConnector = errors.New("duplicate connector id")
	ErrUnknownElement     = errors.New("unknown element")
	ErrInvalidEndpoint    = errors.New("invalid endpoint")
	ErrNoConnector        = errors.New("no such connector")
)

// Endpoint is either an element id, anchored on the element outline, or a fixed point.
// In JSON it is a string or an {"x","y"} object.
type Endpoint struct {
	Element string
	Point   *core.Point
}

// ElementEndpoint returns an endpoint attached to an element.
func ElementEndpoint(id string) Endpoint {
	return Endpoint{Element: id}
}

// PointEndpoint returns a free endpoint.
func PointEndpoint(p core.Point) Endpoint {
	return Endpoint{Point: &p}
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *Endpoint) UnmarshalJSON(data []byte) error {
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		if id == "" {
			return fmt.Errorf("%w: empty element id", ErrInvalidEndpoint)
		}
		*e = Endpoint{Element: id}
		return nil
	}

	var p struct {
		X *float64 `json:"x"`
		Y *float64 `json:"y"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidEndpoint, data)
	}
	if p.X == nil || p.Y == nil {
		return fmt.Errorf("%w: point needs x and y: %s", ErrInvalidEndpoint, data)
	}
	*e = Endpoint{Point: &core.Point{X: *p.X, Y: *p.Y}}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (e Endpoint) MarshalJSON() ([]byte, error) {
	if e.Point != nil {
		return json.Marshal(e.Point)
	}
	return json.Marshal(e.Element)
}

// Connector links two endpoints. An empty Algorithm means hybrid.
type Connector struct {
	ID        string   `json:"id"`
	From      Endpoint `json:"from"`
	To        Endpoint `json:"to"`
	Algorithm string   `json:"algorithm,omitempty"`
}

// Scene is a validated diagram snapshot.
type Scene struct {
	Config     core.RouterConfig   `json:"config"`
	Elements   []obstacles.Element `json:"elements"`
	Connectors []Connector         `json:"connectors"`

	byID       map[string]int   // element index by id
	algorithms []core.Algorithm // parsed connector algorithms
}

// document is the on-disk form; a missing config means defaults.
type document struct {
	Config     *core.RouterConfig  `json:"config,omitempty"`
	Elements   []obstacles.Element `json:"elements"`
	Connectors []Connector         `json:"connectors"`
}

// Load reads and validates a scene document.
func Load(r io.Reader) (*Scene, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding scene: %w", err)
	}

	var cfg core.RouterConfig
	if doc.Config != nil {
		cfg = *doc.Config
	}
	return New(cfg, doc.Elements, doc.Connectors)
}

// LoadFile reads and validates the scene document at path.
func LoadFile(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening scene: %w", err)
	}
	defer f.Close()

	s, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// New builds a scene. Element sizes are normalized and config fields left at zero take
// their defaults.
func New(cfg core.RouterConfig, elements []obstacles.Element, connectors []Connector) (*Scene, error) {
	s := &Scene{
		Config:     cfg.WithDefaults(),
		Elements:   make([]obstacles.Element, len(elements)),
		Connectors: make([]Connector, len(connectors)),
		byID:       make(map[string]int, len(elements)),
		algorithms: make([]core.Algorithm, len(connectors)),
	}

	for i, el := range elements {
		if el.ID == "" {
			return nil, fmt.Errorf("element %d: %w", i, ErrMissingID)
		}
		if _, dup := s.byID[el.ID]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateElement, el.ID)
		}
		r := el.Props.Rect()
		el.Props = obstacles.ElementProps{X: r.X, Y: r.Y, W: r.W, H: r.H}
		s.Elements[i] = el
		s.byID[el.ID] = i
	}

	seen := make(map[string]bool, len(connectors))
	for i, c := range connectors {
		if c.ID == "" {
			return nil, fmt.Errorf("connector %d: %w", i, ErrMissingID)
		}
		if seen[c.ID] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateConnector, c.ID)
		}
		seen[c.ID] = true

		for _, ep := range []Endpoint{c.From, c.To} {
			if err := s.checkEndpoint(ep); err != nil {
				return nil, fmt.Errorf("connector %q: %w", c.ID, err)
			}
		}

		algo, err := core.ParseAlgorithm(c.Algorithm)
		if err != nil {
			return nil, fmt.Errorf("connector %q: %w", c.ID, err)
		}
		s.Connectors[i] = c
		s.algorithms[i] = algo
	}

	return s, nil
}

func (s *Scene) checkEndpoint(ep Endpoint) error {
	switch {
	case ep.Point != nil:
		return nil
	case ep.Element == "":
		return ErrInvalidEndpoint
	}
	if _, ok := s.byID[ep.Element]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownElement, ep.Element)
	}
	return nil
}

// Element returns the element with the given id.
func (s *Scene) Element(id string) (obstacles.Element, bool) {
	i, ok := s.byID[id]
	if !ok {
		return obstacles.Element{}, false
	}
	return s.Elements[i], true
}

// Algorithm returns the routing algorithm of the i-th connector.
func (s *Scene) Algorithm(i int) core.Algorithm {
	return s.algorithms[i]
}

// SetAlgorithm overrides the routing algorithm of the i-th connector.
func (s *Scene) SetAlgorithm(i int, algo core.Algorithm) error {
	if i < 0 || i >= len(s.Connectors) {
		return fmt.Errorf("%w: %d", ErrNoConnector, i)
	}
	s.algorithms[i] = algo
	s.Connectors[i].Algorithm = algo.String()
	return nil
}

// MoveTarget shifts the target of the i-th connector by (dx, dy). A target attached to an
// element is detached at its current anchor first.
func (s *Scene) MoveTarget(i int, dx, dy float64) error {
	if i < 0 || i >= len(s.Connectors) {
		return fmt.Errorf("%w: %d", ErrNoConnector, i)
	}
	_, to := s.Anchors(s.Connectors[i])
	s.Connectors[i].To = PointEndpoint(core.Point{X: to.X + dx, Y: to.Y + dy})
	return nil
}

// Obstacles projects the elements into obstacles, skipping excludeIDs.
func (s *Scene) Obstacles(excludeIDs ...string) []core.Obstacle {
	return obstacles.CreateObstaclesFromElements(s.Elements, excludeIDs)
}

// Router computes one route. Both *pathfinding.Router and *routecache.Cache satisfy it.
type Router interface {
	Route(from, to core.Point, obstacles []core.Obstacle, opts *pathfinding.RouteOptions) core.RouteResult
}

// Routed is the outcome of routing one connector.
type Routed struct {
	ID     string           `json:"id"`
	From   core.Point       `json:"from"`
	To     core.Point       `json:"to"`
	Result core.RouteResult `json:"result"`
}

// Route routes the i-th connector around every element it is not attached to.
func (s *Scene) Route(r Router, i int) Routed {
	c := s.Connectors[i]
	from, to := s.Anchors(c)

	var exclude []string
	for _, ep := range []Endpoint{c.From, c.To} {
		if ep.Point == nil {
			exclude = append(exclude, ep.Element)
		}
	}

	result := r.Route(from, to, s.Obstacles(exclude...), &pathfinding.RouteOptions{Algorithm: s.algorithms[i]})
	return Routed{ID: c.ID, From: from, To: to, Result: result}
}

// RouteAll routes every connector in order.
func (s *Scene) RouteAll(r Router) []Routed {
	routes := make([]Routed, len(s.Connectors))
	for i := range s.Connectors {
		routes[i] = s.Route(r, i)
	}
	return routes
}
