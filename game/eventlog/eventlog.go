// Package eventlog streams simulation events to zstd-compressed JSON lines.
package eventlog

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/wricardo/robot-colony/game/engine"
)

// ErrClosed is returned by Write after Close
var ErrClosed = errors.New("event log closed")

// Record is one line of the log
type Record struct {
	Time    time.Time `json:"time"`
	Session string    `json:"session,omitempty"`
	engine.Event
}

// Writer appends JSON lines to a zstd stream. It is safe for concurrent use.
type Writer struct {
	mu  sync.Mutex
	f   *os.File
	enc *zstd.Encoder
	w   *bufio.Writer
	err error
	n   int
}

// Create opens path for writing, truncating any previous log
func Create(path string) (*Writer, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open event log: %w", err)
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &Writer{
		f:   f,
		enc: enc,
		w:   bufio.NewWriterSize(enc, 64*1024),
	}, nil
}

// Write appends v as one JSON line
func (w *Writer) Write(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.w == nil {
		return ErrClosed
	}

	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := w.w.Write(b); err != nil {
		return err
	}
	if err := w.w.WriteByte('\n'); err != nil {
		return err
	}
	w.n++
	return w.w.Flush()
}

// Lines returns the number of lines written so far
func (w *Writer) Lines() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.n
}

// Err returns the first error hit by an observer write
func (w *Writer) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}

// Observer returns an engine observer writing every event as a Record
// tagged with session
func (w *Writer) Observer(session string) engine.Observer {
	return engine.NewEventObserver(func(e engine.Event) {
		err := w.Write(Record{Time: time.Now().UTC(), Session: session, Event: e})
		if err != nil {
			w.mu.Lock()
			if w.err == nil {
				w.err = err
			}
			w.mu.Unlock()
		}
	})
}

// Close flushes the stream and closes the file
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.w == nil {
		return nil
	}
	_ = w.w.Flush()
	err := w.enc.Close()
	if cerr := w.f.Close(); err == nil {
		err = cerr
	}
	w.w, w.enc, w.f = nil, nil, nil
	return err
}

// ReadFile decodes every record in a log written by Writer
func ReadFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	var records []Record
	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 64*1024), 8*1024*1024)
	for line := 1; sc.Scan(); line++ {
		var r Record
		if err := json.Unmarshal(sc.Bytes(), &r); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, r)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
