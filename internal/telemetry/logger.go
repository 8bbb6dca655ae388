package telemetry

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/rov-control/rovcore/internal/metrics"
	"github.com/rov-control/rovcore/internal/sensor"
)

// ErrLoggerClosed rejects appends after Close.
var ErrLoggerClosed = errors.New("LOGGER_CLOSED")

// retryInterval paces write retries while the storage medium is
// failing.
const retryInterval = time.Second

var csvHeader = []string{"timestamp", "temp_c", "temp_f", "valid"}

// Logger appends sensor samples to an append-only CSV file.
//
// Append never blocks on I/O: samples enter a bounded backlog drained
// by a dedicated writer goroutine. When the backlog is full the oldest
// record is dropped first. Each written record is flushed and the file
// synced, so process termination loses at most the newest unflushed
// record. Records are written strictly in append order; drops skip
// entries but never reorder them.
type Logger struct {
	mu     sync.Mutex
	queue  []sensor.Sample
	cap    int
	closed bool

	file *os.File
	csv  *csv.Writer

	logged    uint64
	dropped   uint64
	writeErrs uint64

	kick chan struct{}
	done chan struct{}
	wg   sync.WaitGroup
}

// NewLogger opens (or creates) the CSV file at path, writing the
// header on a fresh file, and starts the writer goroutine.
func NewLogger(path string, backlogCap int) (*Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open telemetry log: %w", err)
	}

	l := &Logger{
		cap:  backlogCap,
		file: file,
		csv:  csv.NewWriter(file),
		kick: make(chan struct{}, 1),
		done: make(chan struct{}),
	}

	info, err := file.Stat()
	if err == nil && info.Size() == 0 {
		if err := l.csv.Write(csvHeader); err == nil {
			l.csv.Flush()
		}
	}

	l.wg.Add(1)
	go l.run()
	return l, nil
}

// Append queues a sample for writing. It returns ErrLoggerClosed after
// Close; otherwise it always succeeds, dropping the oldest queued
// record when the backlog cap is reached.
func (l *Logger) Append(s sensor.Sample) error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrLoggerClosed
	}
	if len(l.queue) >= l.cap {
		l.queue = l.queue[1:]
		l.dropped++
		metrics.SamplesDropped.Inc()
	}
	l.queue = append(l.queue, s)
	l.mu.Unlock()

	select {
	case l.kick <- struct{}{}:
	default:
	}
	return nil
}

// Stats returns how many records were written and how many were
// dropped under backpressure.
func (l *Logger) Stats() (logged, dropped uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.logged, l.dropped
}

// Close stops the writer, makes a final drain attempt, and closes the
// file.
func (l *Logger) Close() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	l.mu.Unlock()

	close(l.done)
	l.wg.Wait()

	l.drain()
	l.csv.Flush()
	_ = l.file.Sync()
	return l.file.Close()
}

func (l *Logger) run() {
	defer l.wg.Done()

	retry := time.NewTicker(retryInterval)
	defer retry.Stop()

	for {
		select {
		case <-l.done:
			return
		case <-l.kick:
			l.drain()
		case <-retry.C:
			// Re-attempt records held back by an earlier write failure.
			l.drain()
		}
	}
}

// drain writes queued records head-first. On a write failure the
// record stays at the head for the next retry; the bounded queue
// eventually drops it if the failure is sustained.
func (l *Logger) drain() {
	for {
		l.mu.Lock()
		if len(l.queue) == 0 {
			l.mu.Unlock()
			return
		}
		s := l.queue[0]
		l.mu.Unlock()

		if err := l.write(s); err != nil {
			l.mu.Lock()
			l.writeErrs++
			l.mu.Unlock()
			return
		}

		l.mu.Lock()
		// Pop the record just written. If an overflow drop raced this
		// write the head has shifted and a different record pays for
		// the drop; append order of the survivors is unaffected.
		if len(l.queue) > 0 {
			l.queue = l.queue[1:]
		}
		l.logged++
		metrics.SamplesLogged.Inc()
		l.mu.Unlock()
	}
}

func (l *Logger) write(s sensor.Sample) error {
	record := []string{
		s.Time.UTC().Format(time.RFC3339Nano),
		strconv.FormatFloat(s.TempC, 'f', 2, 64),
		strconv.FormatFloat(s.TempF, 'f', 2, 64),
		strconv.FormatBool(s.Valid),
	}
	if err := l.csv.Write(record); err != nil {
		return err
	}
	l.csv.Flush()
	if err := l.csv.Error(); err != nil {
		return err
	}
	return l.file.Sync()
}
