package debug

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"sort"
)

// Sink is the interface for debug output destinations.
type Sink interface {
	Write(event Event) error
	Flush() error
	Close() error
}

// JSONSink writes events in JSON Lines format.
type JSONSink struct {
	w       *bufio.Writer
	encoder *json.Encoder
}

// NewJSONSink creates a new JSON Lines sink writing to w.
func NewJSONSink(w io.Writer) *JSONSink {
	bw := bufio.NewWriter(w)
	return &JSONSink{
		w:       bw,
		encoder: json.NewEncoder(bw),
	}
}

// Write encodes and writes an event as a JSON line.
func (s *JSONSink) Write(event Event) error {
	return s.encoder.Encode(event)
}

// Flush writes any buffered data to the underlying writer.
func (s *JSONSink) Flush() error {
	return s.w.Flush()
}

// Close flushes the buffer.
func (s *JSONSink) Close() error {
	return s.Flush()
}

// PrettySink writes events in human-readable format.
type PrettySink struct {
	w *bufio.Writer
}

// NewPrettySink creates a new pretty-format sink writing to w.
func NewPrettySink(w io.Writer) *PrettySink {
	return &PrettySink{
		w: bufio.NewWriter(w),
	}
}

// Write formats and writes an event in human-readable format.
func (s *PrettySink) Write(event Event) error {
	fmt.Fprintf(s.w, "[%s] [%s/%s] session=%s\n", event.Timestamp, event.Phase, event.Event, event.SessionID)

	switch d := event.Data.(type) {
	case ShapeData:
		s.writeShape(d)
	case ComposeStartData:
		s.writeComposeStart(d)
	case ComposeEndData:
		s.writeComposeEnd(d)
	case RenderStartData:
		s.writeRenderStart(d)
	case RenderEndData:
		s.writeRenderEnd(d)
	case WriteRowData:
		fmt.Fprintf(s.w, "  row: %d (y=%d), trimmed: %t\n", d.RowIdx, d.Y, d.Trimmed)
	case ErrorData:
		fmt.Fprintf(s.w, "  error: %s: %s\n", d.Type, d.Message)
	case map[string]interface{}:
		s.writeMap(d)
	case map[string]int64:
		s.writeMapInt64(d)
	default:
		fmt.Fprintf(s.w, "  data: %+v\n", d)
	}

	return nil
}

func (s *PrettySink) writeShape(d ShapeData) {
	switch {
	case d.To != nil:
		fmt.Fprintf(s.w, "  shape %d: %s (%d,%d) -> (%d,%d)\n", d.Index, d.Kind, d.From[0], d.From[1], d.To[0], d.To[1])
	case d.Radius != nil:
		fmt.Fprintf(s.w, "  shape %d: %s at (%d,%d) r=%d\n", d.Index, d.Kind, d.From[0], d.From[1], *d.Radius)
	default:
		fmt.Fprintf(s.w, "  shape %d: %s\n", d.Index, d.Kind)
	}
	fmt.Fprintf(s.w, "  points: %d\n", d.Points)
}

func (s *PrettySink) writeComposeStart(d ComposeStartData) {
	fmt.Fprintf(s.w, "  inputs: %d (shapes: %d, canvases: %d)\n", d.Inputs, d.Shapes, d.Canvases)
	fmt.Fprintf(s.w, "  coordinates: %d, workers: %d\n", d.Coordinates, d.Workers)
}

func (s *PrettySink) writeComposeEnd(d ComposeEndData) {
	fmt.Fprintf(s.w, "  extent: %dx%d (%d cells)\n", d.Width, d.Height, d.Cells)
	for _, k := range sortedKeys(d.Histogram) {
		fmt.Fprintf(s.w, "  %s: %d\n", k, d.Histogram[k])
	}
	fmt.Fprintf(s.w, "  elapsed_ms: %d\n", d.ElapsedMs)
}

func (s *PrettySink) writeRenderStart(d RenderStartData) {
	fmt.Fprintf(s.w, "  extent: %dx%d, trim_whitespace: %t\n", d.Width, d.Height, d.TrimWhitespace)
	for _, k := range sortedKeys(d.Glyphs) {
		fmt.Fprintf(s.w, "  glyph %s: %q\n", k, d.Glyphs[k])
	}
}

func (s *PrettySink) writeRenderEnd(d RenderEndData) {
	fmt.Fprintf(s.w, "  total_rows: %d, total_cells: %d\n", d.TotalRows, d.TotalCells)
	fmt.Fprintf(s.w, "  elapsed_ms: %d, bytes_written: %d\n", d.ElapsedMs, d.BytesWritten)
}

func (s *PrettySink) writeMap(d map[string]interface{}) {
	for _, k := range sortedKeys(d) {
		fmt.Fprintf(s.w, "  %s: %v\n", k, d[k])
	}
}

func (s *PrettySink) writeMapInt64(d map[string]int64) {
	for _, k := range sortedKeys(d) {
		fmt.Fprintf(s.w, "  %s: %d\n", k, d[k])
	}
}

// Flush writes any buffered data to the underlying writer.
func (s *PrettySink) Flush() error {
	return s.w.Flush()
}

// Close flushes the buffer.
func (s *PrettySink) Close() error {
	return s.Flush()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
