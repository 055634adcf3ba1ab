package gridplot

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ryanlewis/gridplot/internal/debug"
)

// Scene shape types.
const (
	ShapeLine   = "line"
	ShapeCircle = "circle"
)

// Scene is a parsed scene document: shapes in draw order plus optional glyph
// overrides. A Scene is read-only once parsed and safe for concurrent use.
//
// Scenes are YAML:
//
//	shapes:
//	  - type: line
//	    from: {x: 0, y: 0}
//	    to: {x: 2, y: 2}
//	  - type: circle
//	    center: {x: 5, y: 5}
//	    radius: 3
//	glyphs:
//	  circle: "*"
type Scene struct {
	Shapes []ShapeSpec       `yaml:"shapes"`
	Glyphs map[string]string `yaml:"glyphs,omitempty"`

	// Name is set from the file name by LoadSceneFS.
	Name string `yaml:"-"`

	glyphs Glyphs
}

// ShapeSpec describes one shape of a scene.
type ShapeSpec struct {
	Type   string  `yaml:"type"`
	From   *Coord  `yaml:"from,omitempty"`
	To     *Coord  `yaml:"to,omitempty"`
	Center *Coord  `yaml:"center,omitempty"`
	Radius *uint32 `yaml:"radius,omitempty"`
}

// Rasterize validates s and converts it into a Shape.
func (s ShapeSpec) Rasterize() (*Shape, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}
	if s.Type == ShapeLine {
		return Line(*s.From, *s.To), nil
	}
	return Circle(*s.Center, *s.Radius), nil
}

func (s ShapeSpec) validate() error {
	switch s.Type {
	case ShapeLine:
		if s.From == nil || s.To == nil {
			return fmt.Errorf("%w: line needs from and to", ErrBadScene)
		}
		if s.Center != nil || s.Radius != nil {
			return fmt.Errorf("%w: line takes no center or radius", ErrBadScene)
		}
	case ShapeCircle:
		if s.Center == nil || s.Radius == nil {
			return fmt.Errorf("%w: circle needs center and radius", ErrBadScene)
		}
		if s.From != nil || s.To != nil {
			return fmt.Errorf("%w: circle takes no from or to", ErrBadScene)
		}
	case "":
		return fmt.Errorf("%w: shape type missing", ErrBadScene)
	default:
		return fmt.Errorf("%w: unknown shape type %q", ErrBadScene, s.Type)
	}
	return nil
}

// ParseScene reads a YAML scene from r. Unknown fields, shapes missing their
// parameters, negative coordinates and bad glyphs are reported as ErrBadScene.
func ParseScene(r io.Reader) (*Scene, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var sc Scene
	if err := dec.Decode(&sc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrBadScene)
		}
		return nil, fmt.Errorf("%w: %v", ErrBadScene, err)
	}
	if len(sc.Shapes) == 0 {
		return nil, fmt.Errorf("%w: no shapes", ErrBadScene)
	}
	for i, spec := range sc.Shapes {
		if err := spec.validate(); err != nil {
			return nil, fmt.Errorf("shape %d: %w", i, err)
		}
	}
	if len(sc.Glyphs) > 0 {
		g, err := ParseGlyphs(sc.Glyphs)
		if err != nil {
			return nil, fmt.Errorf("%w: glyphs: %w", ErrBadScene, err)
		}
		sc.glyphs = g
	}
	return &sc, nil
}

// ParseSceneBytes parses a scene from a byte slice.
func ParseSceneBytes(data []byte) (*Scene, error) {
	return ParseScene(bytes.NewReader(data))
}

// cleanFSPath validates and cleans a path for use with fs.FS, refusing
// absolute paths, backslashes and traversal out of the root.
func cleanFSPath(p string) (string, error) {
	if p == "" {
		return "", errors.New("path cannot be empty")
	}
	if strings.HasPrefix(p, "/") {
		return "", errors.New("absolute paths not allowed")
	}
	if strings.ContainsRune(p, '\\') {
		return "", errors.New("backslashes not allowed in fs paths")
	}
	if !fs.ValidPath(p) {
		return "", fmt.Errorf("invalid fs path: %s", p)
	}
	clean := path.Clean(p)
	if clean == "." || strings.HasPrefix(clean, "../") {
		return "", errors.New("path traversal not allowed")
	}
	return clean, nil
}

// LoadSceneFS loads a scene from fsys. The scene's Name is the file name
// without its extension.
//
// Example with os.DirFS:
//
//	scene, err := gridplot.LoadSceneFS(os.DirFS("scenes"), "house.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
func LoadSceneFS(fsys fs.FS, scenePath string) (*Scene, error) {
	if fsys == nil {
		return nil, fmt.Errorf("filesystem cannot be nil")
	}
	clean, err := cleanFSPath(scenePath)
	if err != nil {
		return nil, err
	}

	file, err := fsys.Open(clean)
	if err != nil {
		return nil, fmt.Errorf("failed to open scene file: %w", err)
	}
	defer file.Close()

	sc, err := ParseScene(file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse scene %s: %w", clean, err)
	}
	sc.Name = strings.TrimSuffix(path.Base(clean), path.Ext(clean))
	return sc, nil
}

// Options returns the scene's glyph overrides as options, for passing to
// Rows, Render or RenderTo ahead of any caller options.
func (sc *Scene) Options() []Option {
	opts := make([]Option, 0, len(sc.glyphs))
	for k, r := range sc.glyphs {
		opts = append(opts, WithGlyph(k, r))
	}
	return opts
}

// Rasterize converts every shape of the scene, in document order.
func (sc *Scene) Rasterize() ([]*Shape, error) {
	shapes := make([]*Shape, len(sc.Shapes))
	for i, spec := range sc.Shapes {
		s, err := spec.Rasterize()
		if err != nil {
			return nil, fmt.Errorf("shape %d: %w", i, err)
		}
		shapes[i] = s
	}
	return shapes, nil
}

// Canvas rasterizes the scene and composites the shapes in document order,
// so later shapes are drawn over earlier ones.
func (sc *Scene) Canvas(opts ...Option) (*Canvas, error) {
	shapes, err := sc.Rasterize()
	if err != nil {
		return nil, err
	}

	o := buildOptions(opts)
	inputs := make([]Source, len(shapes))
	for i, s := range shapes {
		inputs[i] = s
		if o.debug != nil {
			o.debug.Emit("scene", "Shape", shapeData(i, sc.Shapes[i], s))
		}
	}
	return Composite(inputs, opts...)
}

func shapeData(i int, spec ShapeSpec, s *Shape) debug.ShapeData {
	d := debug.ShapeData{Index: i, Kind: s.Kind().String(), Points: s.Len()}
	if spec.Type == ShapeLine {
		d.From = [2]uint32{spec.From.X, spec.From.Y}
		d.To = &[2]uint32{spec.To.X, spec.To.Y}
	} else {
		d.From = [2]uint32{spec.Center.X, spec.Center.Y}
		r := *spec.Radius
		d.Radius = &r
	}
	return d
}
