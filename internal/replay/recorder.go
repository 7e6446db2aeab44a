// Package replay records per-tick snapshots as zstd-compressed JSONL so a
// run can be replayed or inspected offline.
package replay

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/laubsauger/streetsim/internal/engine"
)

// Header is the first line of every replay file.
type Header struct {
	RunID    string `json:"run_id"`
	Seed     int64  `json:"seed"`
	Started  string `json:"started"`
	Interval string `json:"interval"`
}

// Recorder appends one snapshot frame per tick to a replay file.
type Recorder struct {
	mu  sync.Mutex
	f   *os.File
	enc *zstd.Encoder
	w   *bufio.Writer
}

// NewRecorder creates <dir>/<runID>.jsonl.zst and writes the header line.
func NewRecorder(dir string, hdr Header) (*Recorder, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create replay dir: %w", err)
	}
	if hdr.Started == "" {
		hdr.Started = time.Now().UTC().Format(time.RFC3339)
	}

	f, err := os.Create(filepath.Join(dir, hdr.RunID+".jsonl.zst"))
	if err != nil {
		return nil, fmt.Errorf("create replay file: %w", err)
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		f.Close()
		return nil, err
	}

	r := &Recorder{f: f, enc: enc, w: bufio.NewWriterSize(enc, 128*1024)}
	if err := r.writeLine(hdr); err != nil {
		r.Close()
		return nil, fmt.Errorf("write replay header: %w", err)
	}
	return r, nil
}

// Record appends one tick's snapshot.
func (r *Recorder) Record(snap engine.Snapshot) error {
	return r.writeLine(snap)
}

func (r *Recorder) writeLine(v any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := r.w.Write(b); err != nil {
		return err
	}
	return r.w.WriteByte('\n')
}

// Close flushes and closes the replay file.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.w.Flush(); err != nil {
		return err
	}
	if err := r.enc.Close(); err != nil {
		return err
	}
	return r.f.Close()
}

// Reader iterates over the frames of a replay file.
type Reader struct {
	f   *os.File
	dec *zstd.Decoder
	sc  *bufio.Scanner
	hdr Header
}

// OpenReader opens a replay file and consumes its header.
func OpenReader(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open replay: %w", err)
	}
	dec, err := zstd.NewReader(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 0, 1<<20), 16<<20)
	if !sc.Scan() {
		dec.Close()
		f.Close()
		return nil, errors.New("replay file has no header")
	}

	r := &Reader{f: f, dec: dec, sc: sc}
	if err := json.Unmarshal(sc.Bytes(), &r.hdr); err != nil {
		r.Close()
		return nil, fmt.Errorf("decode replay header: %w", err)
	}
	return r, nil
}

// Header returns the replay file's header.
func (r *Reader) Header() Header {
	return r.hdr
}

// Next returns the next snapshot frame, or io.EOF when the file is done.
func (r *Reader) Next() (engine.Snapshot, error) {
	var snap engine.Snapshot
	if !r.sc.Scan() {
		if err := r.sc.Err(); err != nil {
			return snap, err
		}
		return snap, io.EOF
	}
	if err := json.Unmarshal(r.sc.Bytes(), &snap); err != nil {
		return snap, fmt.Errorf("decode frame: %w", err)
	}
	return snap, nil
}

// Close releases the reader's resources.
func (r *Reader) Close() error {
	r.dec.Close()
	return r.f.Close()
}
