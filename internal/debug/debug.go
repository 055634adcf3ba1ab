// Package debug traces the rasterize, compose and render pipeline.
//
// Tracing is off unless GRIDPLOT_DEBUG=1 or --debug turns it on. A nil
// *Session is valid and drops every event, so call sites need no guards.
// Events are JSON Lines by default; a pretty format is available for humans.
package debug

import (
	"crypto/rand"
	"encoding/hex"
	"os"
	"sync/atomic"
	"time"
)

// enabled is the global debug flag - set once at startup.
var enabled uint32

// SetEnabled configures debug mode globally.
// This should be called once at program startup.
func SetEnabled(on bool) {
	if on {
		atomic.StoreUint32(&enabled, 1)
	} else {
		atomic.StoreUint32(&enabled, 0)
	}
}

// Enabled returns true if debug mode is active.
func Enabled() bool {
	return atomic.LoadUint32(&enabled) == 1
}

// InitFromEnv enables debug mode when GRIDPLOT_DEBUG=1.
func InitFromEnv() {
	if os.Getenv("GRIDPLOT_DEBUG") == "1" {
		SetEnabled(true)
	}
}

// PrettyFromEnv reports whether GRIDPLOT_DEBUG_PRETTY=1.
func PrettyFromEnv() bool {
	return os.Getenv("GRIDPLOT_DEBUG_PRETTY") == "1"
}

// Session groups the events of one plot under a single ID.
// A Session must not be shared by concurrent plots.
type Session struct {
	sessionID string
	sink      Sink
	startTime time.Time
}

// NewSession creates a new debug session with the provided sink.
// Returns nil if debug mode is not enabled.
func NewSession(sink Sink) *Session {
	if !Enabled() {
		return nil
	}
	if sink == nil {
		return nil
	}

	s := &Session{
		sessionID: generateSessionID(),
		sink:      sink,
		startTime: time.Now(),
	}

	s.Emit("session", "Start", map[string]interface{}{
		"version": "1.0",
	})

	return s
}

// SessionID returns the unique identifier for this session.
func (s *Session) SessionID() string {
	if s == nil {
		return ""
	}
	return s.sessionID
}

// Emit sends an event to the sink.
// This is a no-op if the session is nil (fast-path for disabled debug).
func (s *Session) Emit(phase, event string, data interface{}) {
	if s == nil {
		return
	}

	evt := Event{
		Timestamp: time.Now().Format(time.RFC3339Nano),
		SessionID: s.sessionID,
		Phase:     phase,
		Event:     event,
		Data:      data,
	}

	//nolint:errcheck // a failing sink must not fail the plot
	s.sink.Write(evt)
}

// Close emits the session end event and closes the sink.
func (s *Session) Close() error {
	if s == nil {
		return nil
	}

	elapsed := time.Since(s.startTime).Milliseconds()
	s.Emit("session", "End", map[string]int64{
		"elapsed_ms": elapsed,
	})

	return s.sink.Close()
}

// generateSessionID returns 8 hex digits, from crypto/rand when possible and
// from the clock otherwise.
func generateSessionID() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		n := uint32(time.Now().UnixNano())
		b = []byte{byte(n >> 24), byte(n >> 16), byte(n >> 8), byte(n)}
	}
	return hex.EncodeToString(b)
}

// Event is the envelope written to a Sink.
type Event struct {
	Timestamp string      `json:"ts"`
	SessionID string      `json:"session_id"`
	Phase     string      `json:"phase"`
	Event     string      `json:"event"`
	Data      interface{} `json:"data"`
}
