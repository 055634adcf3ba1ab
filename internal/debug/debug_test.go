package debug

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/ryanlewis/gridplot/internal/common"
)

func TestDebugDisabled(t *testing.T) {
	// Ensure debug is disabled
	SetEnabled(false)
	defer SetEnabled(false)

	var buf bytes.Buffer
	sink := NewJSONSink(&buf)
	session := NewSession(sink)

	// Should return nil when disabled
	if session != nil {
		t.Error("NewSession should return nil when disabled")
	}

	// Emit should be no-op on nil session
	session.Emit("test", "Event", nil)

	if buf.Len() > 0 {
		t.Error("Events emitted when debug disabled")
	}
}

func TestDebugEnabled(t *testing.T) {
	SetEnabled(true)
	defer SetEnabled(false)

	var buf bytes.Buffer
	sink := NewJSONSink(&buf)
	session := NewSession(sink)

	if session == nil {
		t.Fatal("NewSession should return non-nil when enabled")
	}

	// Emit test event
	session.Emit("test", "TestEvent", map[string]string{
		"key": "value",
	})

	if err := session.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// Parse and verify JSON lines
	output := buf.String()
	lines := strings.Split(strings.TrimSpace(output), "\n")

	if len(lines) < 3 { // Start, TestEvent, End
		t.Fatalf("Expected at least 3 lines, got %d", len(lines))
	}

	// Verify first event is session start
	var startEvent Event
	if err := json.Unmarshal([]byte(lines[0]), &startEvent); err != nil {
		t.Fatalf("Failed to parse start event: %v", err)
	}
	if startEvent.Phase != "session" || startEvent.Event != "Start" {
		t.Errorf("Expected session/Start, got %s/%s", startEvent.Phase, startEvent.Event)
	}

	// Verify test event
	var testEvent Event
	if err := json.Unmarshal([]byte(lines[1]), &testEvent); err != nil {
		t.Fatalf("Failed to parse test event: %v", err)
	}
	if testEvent.Phase != "test" || testEvent.Event != "TestEvent" {
		t.Errorf("Expected test/TestEvent, got %s/%s", testEvent.Phase, testEvent.Event)
	}
	if testEvent.SessionID == "" {
		t.Error("Session ID should not be empty")
	}

	// Verify last event is session end
	var endEvent Event
	if err := json.Unmarshal([]byte(lines[len(lines)-1]), &endEvent); err != nil {
		t.Fatalf("Failed to parse end event: %v", err)
	}
	if endEvent.Phase != "session" || endEvent.Event != "End" {
		t.Errorf("Expected session/End, got %s/%s", endEvent.Phase, endEvent.Event)
	}
}

func TestJSONSink(t *testing.T) {
	var buf bytes.Buffer
	sink := NewJSONSink(&buf)

	event := Event{
		Timestamp: "2025-01-01T00:00:00Z",
		SessionID: "abc123",
		Phase:     "test",
		Event:     "TestEvent",
		Data:      map[string]int{"count": 42},
	}

	if err := sink.Write(event); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := sink.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}

	var parsed Event
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("Failed to parse JSON: %v", err)
	}

	if parsed.Phase != "test" || parsed.Event != "TestEvent" {
		t.Errorf("Unexpected event: %+v", parsed)
	}
}

func TestPrettySink(t *testing.T) {
	var buf bytes.Buffer
	sink := NewPrettySink(&buf)

	radius := uint32(3)
	events := []Event{
		{
			Timestamp: "2025-01-01T00:00:00Z",
			SessionID: "abc123",
			Phase:     "scene",
			Event:     "Shape",
			Data:      ShapeData{Index: 1, Kind: "circle", Points: 12, From: [2]uint32{4, 5}, Radius: &radius},
		},
		{
			Timestamp: "2025-01-01T00:00:00Z",
			SessionID: "abc123",
			Phase:     "compose",
			Event:     "End",
			Data: ComposeEndData{
				Width:     3,
				Height:    4,
				Cells:     12,
				Histogram: map[string]int{"background": 8, "circle": 4},
			},
		},
	}
	for _, event := range events {
		if err := sink.Write(event); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
	}
	if err := sink.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}

	output := buf.String()
	for _, want := range []string{
		"[scene/Shape] session=abc123",
		"circle at (4,5) r=3",
		"points: 12",
		"extent: 3x4 (12 cells)",
		"  background: 8\n  circle: 4\n",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("Pretty output missing %q, got:\n%s", want, output)
		}
	}
}

func TestFormatGlyphs(t *testing.T) {
	got := FormatGlyphs(map[common.Kind]rune{
		common.Background: ' ',
		common.Circle:     'o',
	})
	want := map[string]string{"background": " ", "circle": "o"}
	if len(got) != len(want) {
		t.Fatalf("FormatGlyphs() = %v, want %v", got, want)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("FormatGlyphs()[%q] = %q, want %q", k, got[k], v)
		}
	}
}

func TestKindHistogram(t *testing.T) {
	tests := []struct {
		name  string
		cells []common.Kind
		want  map[string]int
	}{
		{"empty", nil, map[string]int{}},
		{"background only", []common.Kind{0, 0, 0}, map[string]int{"background": 3}},
		{
			name:  "mixed",
			cells: []common.Kind{common.Background, common.VerticalLine, common.VerticalLine, common.DiagonalDescending},
			want:  map[string]int{"background": 1, "vertical_line": 2, "diagonal_descending": 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := KindHistogram(tt.cells)
			if len(got) != len(tt.want) {
				t.Fatalf("KindHistogram() = %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("KindHistogram()[%q] = %d, want %d", k, got[k], v)
				}
			}
		})
	}
}

func TestSessionID(t *testing.T) {
	SetEnabled(true)
	defer SetEnabled(false)

	var buf bytes.Buffer
	sink := NewJSONSink(&buf)
	session := NewSession(sink)

	if session == nil {
		t.Fatal("NewSession should return non-nil when enabled")
	}

	id := session.SessionID()
	if id == "" {
		t.Error("SessionID should not be empty")
	}
	if len(id) != 8 { // 4 bytes hex encoded = 8 characters
		t.Errorf("SessionID should be 8 characters, got %d", len(id))
	}

	session.Close()
}

func TestNilSessionSafety(t *testing.T) {
	// All operations on nil session should be safe
	var session *Session

	// Should not panic
	session.Emit("test", "Event", nil)

	if err := session.Close(); err != nil {
		t.Errorf("Close on nil session should return nil, got %v", err)
	}

	if id := session.SessionID(); id != "" {
		t.Errorf("SessionID on nil session should return empty, got %v", id)
	}
}

// BenchmarkEmitDisabled verifies zero overhead when debug is disabled.
func BenchmarkEmitDisabled(b *testing.B) {
	SetEnabled(false)

	var buf bytes.Buffer
	sink := NewJSONSink(&buf)
	session := NewSession(sink)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		session.Emit("test", "Event", nil)
	}

	if buf.Len() > 0 {
		b.Error("Buffer should be empty when disabled")
	}
}

// BenchmarkEmitEnabled measures overhead when debug is enabled.
func BenchmarkEmitEnabled(b *testing.B) {
	SetEnabled(true)
	defer SetEnabled(false)

	var buf bytes.Buffer
	sink := NewJSONSink(&buf)
	session := NewSession(sink)

	data := WriteRowData{RowIdx: 1, Y: 7, Trimmed: true}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		session.Emit("render", "Row", data)
	}
}
