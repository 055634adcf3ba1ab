// Command gridplot draws lines and circles on a character grid.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/ryanlewis/gridplot"
	"github.com/ryanlewis/gridplot/internal/debug"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// demoShapes is drawn when no scene or shape flags are given.
var demoShapes = []gridplot.Source{
	gridplot.Line(gridplot.Coord{X: 0, Y: 0}, gridplot.Coord{X: 2, Y: 2}),
	gridplot.Line(gridplot.Coord{X: 0, Y: 0}, gridplot.Coord{X: 2, Y: 0}),
	gridplot.Line(gridplot.Coord{X: 0, Y: 0}, gridplot.Coord{X: 0, Y: 3}),
}

func main() {
	// A missing .env is normal; variables may come from the real environment.
	_ = godotenv.Load()
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func newLogger(w io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if lvl := os.Getenv("GRIDPLOT_LOG_LEVEL"); lvl != "" {
		if parsed, err := logrus.ParseLevel(lvl); err == nil {
			log.SetLevel(parsed)
		} else {
			log.WithField("value", lvl).Warn("Ignoring invalid GRIDPLOT_LOG_LEVEL")
		}
	}
	return log
}

func run(args []string, stdout, stderr io.Writer) int {
	log := newLogger(stderr)

	var (
		scenePath      string
		lines          []string
		circles        []string
		glyphs         []string
		workers        int
		showVersion    bool
		showHelp       bool
		trimWhitespace bool
		debugMode      bool
		debugFile      string
		debugPretty    bool
	)

	flags := pflag.NewFlagSet("gridplot", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringVarP(&scenePath, "scene", "s", "", "Path to a YAML scene file")
	flags.StringArrayVarP(&lines, "line", "l", nil, "Line from x0,y0 to x1,y1 (repeatable)")
	flags.StringArrayVarP(&circles, "circle", "c", nil, "Circle at cx,cy with radius r (repeatable)")
	flags.StringArrayVarP(&glyphs, "glyph", "g", nil, "Glyph override kind=char (repeatable)")
	flags.IntVarP(&workers, "workers", "j", envInt("GRIDPLOT_WORKERS", 0), "Goroutines used to composite (0 or 1 = sequential)")
	flags.BoolVarP(&showVersion, "version", "v", false, "Show version information")
	flags.BoolVarP(&showHelp, "help", "h", false, "Show help message")
	flags.BoolVar(&trimWhitespace, "trim-whitespace", false, "Trim trailing whitespace from each line")
	flags.BoolVar(&debugMode, "debug", false, "Enable debug mode (outputs to stderr)")
	flags.StringVar(&debugFile, "debug-file", "", "Write debug output to file instead of stderr")
	flags.BoolVar(&debugPretty, "debug-pretty", false, "Use pretty format for debug output (default: JSON)")
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		log.WithError(err).Error("Invalid arguments")
		return 2
	}

	if showHelp {
		printHelp(stdout, flags)
		return 0
	}
	if showVersion {
		fmt.Fprintf(stdout, "gridplot version %s (commit: %s, built: %s)\n", version, commit, date)
		return 0
	}
	if flags.NArg() > 0 {
		log.WithField("args", flags.Args()).Error("Unexpected arguments")
		return 2
	}

	var inputs []gridplot.Source
	var opts []gridplot.Option

	if scenePath != "" {
		scene, err := gridplot.LoadSceneCached(scenePath)
		if err != nil {
			log.WithError(err).WithField("scene", scenePath).Error("Failed to load scene")
			return 1
		}
		shapes, err := scene.Rasterize()
		if err != nil {
			log.WithError(err).WithField("scene", scenePath).Error("Failed to rasterize scene")
			return 1
		}
		for _, s := range shapes {
			inputs = append(inputs, s)
		}
		opts = append(opts, scene.Options()...)
		log.WithFields(logrus.Fields{"scene": scenePath, "shapes": len(shapes)}).Debug("Scene loaded")
	}

	for _, v := range lines {
		from, to, err := parseLine(v)
		if err != nil {
			log.WithError(err).Error("Invalid --line")
			return 2
		}
		inputs = append(inputs, gridplot.Line(from, to))
	}
	for _, v := range circles {
		center, radius, err := parseCircle(v)
		if err != nil {
			log.WithError(err).Error("Invalid --circle")
			return 2
		}
		inputs = append(inputs, gridplot.Circle(center, radius))
	}
	for _, v := range glyphs {
		kind, r, err := parseGlyph(v)
		if err != nil {
			log.WithError(err).Error("Invalid --glyph")
			return 2
		}
		opts = append(opts, gridplot.WithGlyph(kind, r))
	}

	if len(inputs) == 0 {
		log.Debug("No shapes given, drawing the demo scene")
		inputs = demoShapes
	}

	// Setup debug if enabled
	debug.InitFromEnv()
	if debugMode || debugFile != "" || debug.Enabled() {
		debug.SetEnabled(true)

		var output io.Writer = stderr
		if debugFile != "" {
			file, err := os.Create(debugFile)
			if err != nil {
				log.WithError(err).Error("Failed to create debug file")
				return 1
			}
			defer file.Close()
			output = file
		}

		var sink debug.Sink
		if debugPretty || debug.PrettyFromEnv() {
			sink = debug.NewPrettySink(output)
		} else {
			sink = debug.NewJSONSink(output)
		}

		if session := debug.NewSession(sink); session != nil {
			defer session.Close()
			opts = append(opts, gridplot.WithDebug(session))
		}
	}

	if trimWhitespace {
		opts = append(opts, gridplot.WithTrimWhitespace(true))
	}
	if workers > 1 {
		opts = append(opts, gridplot.WithWorkers(workers))
	}

	canvas, err := gridplot.Composite(inputs, opts...)
	if err != nil {
		log.WithError(err).Error("Failed to composite shapes")
		return 1
	}
	log.WithFields(logrus.Fields{
		"width":  canvas.Extent().Width,
		"height": canvas.Extent().Height,
		"inputs": len(inputs),
	}).Debug("Canvas composited")

	if err := gridplot.RenderTo(stdout, canvas, opts...); err != nil {
		log.WithError(err).Error("Failed to render canvas")
		return 1
	}
	fmt.Fprintln(stdout)
	return 0
}

func envInt(name string, def int) int {
	v := os.Getenv(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// parseUints parses exactly n comma-separated non-negative integers.
func parseUints(s string, n int) ([]uint32, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("want %d comma-separated values, got %d in %q", n, len(parts), s)
	}
	out := make([]uint32, n)
	for i, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 32)
		if err != nil {
			return nil, fmt.Errorf("bad value %q: %w", p, err)
		}
		out[i] = uint32(v)
	}
	return out, nil
}

// parseLine parses "x0,y0,x1,y1".
func parseLine(s string) (gridplot.Coord, gridplot.Coord, error) {
	v, err := parseUints(s, 4)
	if err != nil {
		return gridplot.Coord{}, gridplot.Coord{}, err
	}
	return gridplot.Coord{X: v[0], Y: v[1]}, gridplot.Coord{X: v[2], Y: v[3]}, nil
}

// parseCircle parses "cx,cy,r".
func parseCircle(s string) (gridplot.Coord, uint32, error) {
	v, err := parseUints(s, 3)
	if err != nil {
		return gridplot.Coord{}, 0, err
	}
	return gridplot.Coord{X: v[0], Y: v[1]}, v[2], nil
}

// parseGlyph parses "kind=char", where char is anything parseGlyphRune accepts.
func parseGlyph(s string) (gridplot.Kind, rune, error) {
	name, value, ok := strings.Cut(s, "=")
	if !ok {
		return 0, 0, fmt.Errorf("want kind=char, got %q", s)
	}
	kind, err := gridplot.ParseKind(strings.TrimSpace(name))
	if err != nil {
		return 0, 0, err
	}
	r, err := parseGlyphRune(value)
	if err != nil {
		return 0, 0, err
	}
	return kind, r, nil
}

// parseGlyphRune parses a glyph flag value which can be in various formats:
// - Literal character (e.g., "*", "#")
// - Escaped Unicode: "\uXXXX", "\UXXXXXXXX"
// - Unicode notation: "U+XXXX"
// - Decimal: "42"
// - Hexadecimal: "0x2A"
func parseGlyphRune(s string) (rune, error) {
	if s == "" {
		return 0, fmt.Errorf("glyph cannot be empty")
	}

	runes := []rune(s)
	if len(runes) == 1 {
		return runes[0], nil
	}

	if r, ok := parseEscapedUnicode(s); ok {
		return r, nil
	}
	if r, ok := parseUnicodeNotation(s); ok {
		return r, nil
	}
	if r, ok := parseHexadecimal(s); ok {
		return r, nil
	}
	if r, ok := parseDecimal(s); ok {
		return r, nil
	}

	return 0, fmt.Errorf("invalid glyph format: %s", s)
}

// validateRune rejects values outside Unicode and UTF-16 surrogates.
func validateRune(r rune) (rune, bool) {
	if r < 0 || r > utf8.MaxRune {
		return 0, false
	}
	if r >= 0xD800 && r <= 0xDFFF {
		return 0, false
	}
	return r, true
}

func parseEscapedUnicode(s string) (rune, bool) {
	var digits string
	switch {
	case strings.HasPrefix(s, "\\u") && len(s) == 6:
		digits = s[2:]
	case strings.HasPrefix(s, "\\U") && len(s) == 10:
		digits = s[2:]
	default:
		return 0, false
	}
	return parseHexRune(digits)
}

func parseUnicodeNotation(s string) (rune, bool) {
	if strings.HasPrefix(s, "U+") || strings.HasPrefix(s, "u+") {
		return parseHexRune(s[2:])
	}
	return 0, false
}

func parseHexadecimal(s string) (rune, bool) {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return parseHexRune(s[2:])
	}
	return 0, false
}

func parseHexRune(digits string) (rune, bool) {
	code, err := strconv.ParseInt(digits, 16, 32)
	if err != nil {
		return 0, false
	}
	return validateRune(rune(code))
}

func parseDecimal(s string) (rune, bool) {
	code, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, false
	}
	return validateRune(rune(code))
}

func printHelp(w io.Writer, flags *pflag.FlagSet) {
	fmt.Fprintln(w, "gridplot - draw lines and circles as text")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  gridplot [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Shapes are drawn in order: scene shapes, then --line, then --circle.")
	fmt.Fprintln(w, "Later shapes cover earlier ones. With no shapes a demo scene is drawn.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprint(w, flags.FlagUsages())
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Kinds:")
	for _, k := range gridplot.Kinds() {
		fmt.Fprintf(w, "  %s\n", k)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Glyph formats:")
	fmt.Fprintln(w, "  Literal: -g 'circle=*'")
	fmt.Fprintln(w, "  Unicode escape: -g 'circle=\\u25CF'")
	fmt.Fprintln(w, "  Unicode notation: -g 'circle=U+25CF'")
	fmt.Fprintln(w, "  Decimal: -g 'circle=42'")
	fmt.Fprintln(w, "  Hexadecimal: -g 'circle=0x2A'")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  GRIDPLOT_WORKERS, GRIDPLOT_LOG_LEVEL, GRIDPLOT_DEBUG, GRIDPLOT_DEBUG_PRETTY")
	fmt.Fprintln(w, "  are read from the environment or a .env file in the working directory.")
}
