package gridplot

import (
	"bytes"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryanlewis/gridplot/internal/debug"
)

const demoScene = `
shapes:
  - type: line
    from: {x: 0, y: 0}
    to: {x: 2, y: 2}
  - type: line
    from: {x: 0, y: 0}
    to: {x: 2, y: 0}
`

func TestParseScene(t *testing.T) {
	sc, err := ParseScene(strings.NewReader(demoScene))
	require.NoError(t, err)
	require.Len(t, sc.Shapes, 2)
	assert.Equal(t, ShapeLine, sc.Shapes[0].Type)
	assert.Equal(t, Coord{X: 2, Y: 2}, *sc.Shapes[0].To)
	assert.Empty(t, sc.Options())

	canvas, err := sc.Canvas()
	require.NoError(t, err)
	out, err := Render(canvas, sc.Options()...)
	require.NoError(t, err)
	assert.Equal(t, "  /\n / \n---", out)
}

func TestParseSceneErrors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantMsg string
	}{
		{"empty document", "", "empty document"},
		{"no shapes", "shapes: []", "no shapes"},
		{"unknown field", "shapes:\n  - type: line\n    from: {x: 0, y: 0}\n    to: {x: 1, y: 1}\n    colour: red", "colour"},
		{"unknown type", "shapes:\n  - type: square\n    from: {x: 0, y: 0}", "unknown shape type"},
		{"missing type", "shapes:\n  - from: {x: 0, y: 0}\n    to: {x: 1, y: 1}", "shape type missing"},
		{"line without end", "shapes:\n  - type: line\n    from: {x: 0, y: 0}", "line needs from and to"},
		{"line with radius", "shapes:\n  - type: line\n    from: {x: 0, y: 0}\n    to: {x: 1, y: 1}\n    radius: 2", "line takes no center or radius"},
		{"circle without radius", "shapes:\n  - type: circle\n    center: {x: 1, y: 1}", "circle needs center and radius"},
		{"circle with from", "shapes:\n  - type: circle\n    center: {x: 1, y: 1}\n    radius: 1\n    from: {x: 0, y: 0}", "circle takes no from or to"},
		{"negative coordinate", "shapes:\n  - type: line\n    from: {x: -1, y: 0}\n    to: {x: 1, y: 1}", ""},
		{"bad glyph name", "shapes:\n  - type: circle\n    center: {x: 1, y: 1}\n    radius: 1\nglyphs:\n  square: \"#\"", "unknown shape kind"},
		{"long glyph", "shapes:\n  - type: circle\n    center: {x: 1, y: 1}\n    radius: 1\nglyphs:\n  circle: \"**\"", "one character"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScene(strings.NewReader(tt.doc))
			require.ErrorIs(t, err, ErrBadScene)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestSceneGlyphOverrides(t *testing.T) {
	sc, err := ParseSceneBytes([]byte(`
shapes:
  - type: circle
    center: {x: 1, y: 1}
    radius: 1
glyphs:
  background: "."
  circle: "*"
`))
	require.NoError(t, err)
	assert.Len(t, sc.Options(), 2)

	canvas, err := sc.Canvas()
	require.NoError(t, err)

	out, err := Render(canvas, sc.Options()...)
	require.NoError(t, err)
	assert.Equal(t, ".*.\n*.*\n.*.", out)

	// Caller options given later take precedence.
	opts := append(sc.Options(), WithGlyph(KindCircle, '@'))
	out, err = Render(canvas, opts...)
	require.NoError(t, err)
	assert.Equal(t, ".@.\n@.@\n.@.", out)
}

func TestSceneRasterize(t *testing.T) {
	sc, err := ParseScene(strings.NewReader(demoScene + `  - type: circle
    center: {x: 5, y: 5}
    radius: 0
`))
	require.NoError(t, err)

	shapes, err := sc.Rasterize()
	require.NoError(t, err)
	require.Len(t, shapes, 3)
	assert.Equal(t, KindDiagonalAscending, shapes[0].Kind())
	assert.Equal(t, KindHorizontalLine, shapes[1].Kind())
	assert.Equal(t, []Coord{{X: 5, Y: 5}}, shapes[2].Coords())
}

func TestSceneCanvasDebug(t *testing.T) {
	debug.SetEnabled(true)
	defer debug.SetEnabled(false)

	sc, err := ParseScene(strings.NewReader(demoScene))
	require.NoError(t, err)

	var trace bytes.Buffer
	session := debug.NewSession(debug.NewJSONSink(&trace))
	_, err = sc.Canvas(WithDebug(session))
	require.NoError(t, err)
	require.NoError(t, session.Close())

	assert.Equal(t, 2, strings.Count(trace.String(), `"phase":"scene","event":"Shape"`))
	assert.Contains(t, trace.String(), `"kind":"horizontal_line"`)
}

func TestLoadSceneFS(t *testing.T) {
	fsys := fstest.MapFS{
		"scenes/demo.yaml": {Data: []byte(demoScene)},
		"broken.yaml":      {Data: []byte("shapes: [")},
	}

	sc, err := LoadSceneFS(fsys, "scenes/demo.yaml")
	require.NoError(t, err)
	assert.Equal(t, "demo", sc.Name)
	assert.Len(t, sc.Shapes, 2)

	_, err = LoadSceneFS(fsys, "broken.yaml")
	assert.ErrorIs(t, err, ErrBadScene)

	_, err = LoadSceneFS(fsys, "missing.yaml")
	assert.Error(t, err)

	_, err = LoadSceneFS(nil, "scenes/demo.yaml")
	assert.Error(t, err)
}

func TestLoadSceneFSRejectsPaths(t *testing.T) {
	fsys := fstest.MapFS{"demo.yaml": {Data: []byte(demoScene)}}

	for _, p := range []string{
		"",
		"/demo.yaml",
		"../demo.yaml",
		"scenes/../../demo.yaml",
		`scenes\demo.yaml`,
		".",
	} {
		t.Run(p, func(t *testing.T) {
			_, err := LoadSceneFS(fsys, p)
			assert.Error(t, err)
		})
	}
}
