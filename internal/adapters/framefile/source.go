// Package framefile implements ports.Camera and ports.Detector over a JSONL
// frame stream. Each line is one frame carrying the faces an external
// detector found, either as {"faces":[...]} or as a bare array of faces.
//
// In follow mode the file is tailed like a log: reading past the end yields
// ports.ErrNoFrame instead of io.EOF, a partial trailing line is held until
// its newline arrives, and rotation (rename/remove + create) is picked up via
// fsnotify on the parent directory.
package framefile

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/corey/moodlens/internal/ports"
	"github.com/fsnotify/fsnotify"
)

// maxLine caps a single frame. Longer lines are dropped.
const maxLine = 1 << 20

// Config configures a Source.
type Config struct {
	Path   string
	Follow bool
	Logger *slog.Logger
}

// Source is both the camera and the detector for a frame file.
type Source struct {
	cfg  Config
	path string
	log  *slog.Logger
	now  func() time.Time

	mu      sync.Mutex
	f       *os.File
	r       *bufio.Reader
	pending []byte
	skip    bool // discarding an oversized line up to its newline
	offset  int64
	seq     uint64

	fw      *fsnotify.Watcher
	done    chan struct{}
	rotated atomic.Bool
}

// New creates a Source. Nothing is opened until Load/Open.
func New(cfg Config) *Source {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	path := cfg.Path
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return &Source{
		cfg:  cfg,
		path: path,
		log:  log.With("component", "framefile"),
		now:  time.Now,
	}
}

// Path returns the absolute frame file path.
func (s *Source) Path() string { return s.path }

// Load checks that the frame file can serve as a detector.
func (s *Source) Load(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	info, err := os.Stat(s.path)
	if err != nil {
		return fmt.Errorf("%w: frame source %s: %v", ports.ErrCapabilityUnavailable, s.path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: frame source %s is a directory", ports.ErrCapabilityUnavailable, s.path)
	}
	return nil
}

// Open opens the frame file and, in follow mode, starts watching for rotation.
func (s *Source) Open(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.f != nil {
		return nil
	}
	if err := s.openFile(); err != nil {
		return fmt.Errorf("%w: open %s: %v", ports.ErrCapabilityUnavailable, s.path, err)
	}
	if !s.cfg.Follow {
		return nil
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		s.closeFile()
		return fmt.Errorf("%w: watch %s: %v", ports.ErrCapabilityUnavailable, s.path, err)
	}
	if err := fw.Add(filepath.Dir(s.path)); err != nil {
		fw.Close()
		s.closeFile()
		return fmt.Errorf("%w: watch %s: %v", ports.ErrCapabilityUnavailable, s.path, err)
	}
	s.fw = fw
	s.done = make(chan struct{})
	go s.watch(fw, s.done)
	return nil
}

// Frame returns the next non-empty line as a frame.
func (s *Source) Frame() (ports.Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.f == nil {
		return ports.Frame{}, ports.ErrNoFrame
	}
	if s.cfg.Follow {
		s.checkRotation()
		s.checkTruncation()
	}

	for {
		line, err := s.r.ReadBytes('\n')
		s.offset += int64(len(line))
		if err != nil && !errors.Is(err, io.EOF) {
			return ports.Frame{}, fmt.Errorf("read frames: %w", err)
		}

		if err != nil {
			// At EOF: line holds whatever followed the last newline.
			if s.cfg.Follow {
				if s.skip {
					return ports.Frame{}, ports.ErrNoFrame
				}
				s.pending = append(s.pending, line...)
				if len(s.pending) > maxLine {
					s.log.Warn("dropping oversized partial frame", "bytes", len(s.pending))
					s.pending = nil
					s.skip = true
				}
				return ports.Frame{}, ports.ErrNoFrame
			}
			data := bytes.TrimSpace(append(s.pending, line...))
			s.pending = nil
			if len(data) == 0 || len(data) > maxLine {
				return ports.Frame{}, io.EOF
			}
			return s.frame(data), nil
		}

		if s.skip {
			// Tail of a line already dropped as oversized.
			s.skip = false
			continue
		}
		data := bytes.TrimSpace(append(s.pending, line...))
		s.pending = nil
		if len(data) == 0 {
			continue
		}
		if len(data) > maxLine {
			s.log.Warn("dropping oversized frame", "bytes", len(data))
			continue
		}
		return s.frame(data), nil
	}
}

// Close releases the file and the watcher. Safe to call multiple times and
// before Open.
func (s *Source) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fw != nil {
		close(s.done)
		s.fw.Close()
		s.fw = nil
	}
	return s.closeFile()
}

// Detect decodes the faces carried by a frame.
func (s *Source) Detect(ctx context.Context, frame ports.Frame) ([]ports.Face, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return ParseFrame(frame.Data)
}

func (s *Source) frame(data []byte) ports.Frame {
	s.seq++
	return ports.Frame{Seq: s.seq, Captured: s.now(), Data: data}
}

func (s *Source) openFile() error {
	f, err := os.Open(s.path)
	if err != nil {
		return err
	}
	s.f = f
	s.r = bufio.NewReaderSize(f, 64*1024)
	s.pending = nil
	s.skip = false
	s.offset = 0
	return nil
}

func (s *Source) closeFile() error {
	if s.f == nil {
		return nil
	}
	err := s.f.Close()
	s.f = nil
	s.r = nil
	s.pending = nil
	s.skip = false
	return err
}

// checkRotation swaps to the new file after a rename/remove + create. If the
// replacement is not there yet, keep the old handle and retry next call.
func (s *Source) checkRotation() {
	if !s.rotated.Swap(false) {
		return
	}
	f, err := os.Open(s.path)
	if err != nil {
		s.rotated.Store(true)
		return
	}
	s.f.Close()
	s.f = f
	s.r = bufio.NewReaderSize(f, 64*1024)
	s.pending = nil
	s.skip = false
	s.offset = 0
	s.log.Debug("frame file rotated", "path", s.path)
}

// checkTruncation restarts from the top when the file shrank under us.
func (s *Source) checkTruncation() {
	info, err := s.f.Stat()
	if err != nil || info.Size() >= s.offset {
		return
	}
	if _, err := s.f.Seek(0, io.SeekStart); err != nil {
		return
	}
	s.r.Reset(s.f)
	s.pending = nil
	s.skip = false
	s.offset = 0
	s.log.Debug("frame file truncated", "path", s.path)
}

func (s *Source) watch(fw *fsnotify.Watcher, done chan struct{}) {
	for {
		select {
		case event, ok := <-fw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != s.path {
				continue
			}
			if event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				s.rotated.Store(true)
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			s.log.Warn("frame watcher error", "error", err)
		case <-done:
			return
		}
	}
}
