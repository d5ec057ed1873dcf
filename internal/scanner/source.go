package scanner

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultSampleInterval is how often an IntervalSource polls its detector,
// mirroring a fixed-interval camera frame decode loop.
const DefaultSampleInterval = 500 * time.Millisecond

// Source emits decoded scan codes. The channel is closed when the source is
// exhausted or torn down.
type Source interface {
	Codes() <-chan string
	Close() error
}

// Detector is the hardware decode capability (the camera barcode-detection
// analog). A surface without one falls back to manual entry.
type Detector interface {
	// Detect blocks until a code is decoded. An empty code with nil error
	// means nothing was detected this sample. io.EOF ends the feed.
	Detect(ctx context.Context) (string, error)
	Close() error
}

// ManualSource is the desktop surface input: a hardware scanner or keyboard
// emitting one code per line. Empty and whitespace-only lines never reach
// the scan pipeline.
type ManualSource struct {
	out chan string
}

func NewManualSource(r io.Reader) *ManualSource {
	s := &ManualSource{out: make(chan string)}
	go func() {
		defer close(s.out)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			line := strings.TrimSpace(sc.Text())
			if line == "" {
				continue
			}
			s.out <- line
		}
	}()
	return s
}

func (s *ManualSource) Codes() <-chan string { return s.out }

func (s *ManualSource) Close() error { return nil }

// IntervalSource samples a Detector on a fixed interval, the mobile camera
// loop analog. Codes decoded while the consumer is busy are dropped, not
// queued: buffering stale scans would drift stock. The source exclusively
// owns its detector and closes it on teardown.
type IntervalSource struct {
	det      Detector
	interval time.Duration
	log      *zap.Logger

	out    chan string
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

func NewIntervalSource(det Detector, interval time.Duration, log *zap.Logger) *IntervalSource {
	if interval <= 0 {
		interval = DefaultSampleInterval
	}
	if log == nil {
		log = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &IntervalSource{
		det:      det,
		interval: interval,
		log:      log,
		out:      make(chan string),
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	go s.run(ctx)
	return s
}

func (s *IntervalSource) run(ctx context.Context) {
	defer close(s.done)
	defer close(s.out)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			code, err := s.det.Detect(ctx)
			if err != nil {
				if errors.Is(err, io.EOF) || ctx.Err() != nil {
					return
				}
				// Decode errors are retryable; keep sampling.
				s.log.Warn("detector error", zap.Error(err))
				continue
			}
			if code == "" {
				continue
			}
			select {
			case s.out <- code:
			default:
				// Consumer busy with an in-flight scan: drop, don't queue.
			}
		}
	}
}

func (s *IntervalSource) Codes() <-chan string { return s.out }

// Close tears the loop down and releases the detector.
func (s *IntervalSource) Close() error {
	var err error
	s.once.Do(func() {
		s.cancel()
		<-s.done
		err = s.det.Close()
	})
	return err
}

// FileDetector reads one code per sample from a feed file or FIFO, standing
// in for a camera frame decoder in environments without one.
type FileDetector struct {
	f  *os.File
	sc *bufio.Scanner
}

func NewFileDetector(path string) (*FileDetector, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &FileDetector{f: f, sc: bufio.NewScanner(f)}, nil
}

func (d *FileDetector) Detect(ctx context.Context) (string, error) {
	if !d.sc.Scan() {
		if err := d.sc.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(d.sc.Text()), nil
}

func (d *FileDetector) Close() error { return d.f.Close() }
