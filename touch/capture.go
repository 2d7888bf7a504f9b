package touch

import (
	"errors"
	"sync/atomic"
	"time"

	"github.com/touchbridge/touchbridge/utils"
)

// ErrNoData is returned by a RecordSource when no record is currently
// available on a non-blocking read.
var ErrNoData = errors.New("no input data available")

// ErrMissingAbsCapability is returned by Init when the input device does not
// advertise absolute positioning.
var ErrMissingAbsCapability = errors.New("device does not support absolute positioning")

// RecordSource supplies raw input records from an opened input device.
type RecordSource interface {
	// ReadRecord reads one record without blocking. It returns ErrNoData
	// when the device has nothing pending.
	ReadRecord() (Record, error)
	Close() error
}

// pollInterval bounds CPU usage while the input device is idle.
const pollInterval = 10 * time.Millisecond

// CaptureLoop owns the single background goroutine that drains an input
// device and feeds the classifier. Classification runs synchronously on that
// goroutine; there is no hand-off queue.
//
// Start and Stop are not safe to call concurrently with each other.
type CaptureLoop struct {
	classifier *Classifier
	source     RecordSource
	stopped    atomic.Bool
	done       chan struct{}
}

func NewCaptureLoop(classifier *Classifier) *CaptureLoop {
	return &CaptureLoop{classifier: classifier}
}

// Init opens the input device read-only and non-blocking and verifies it
// reports absolute-position capability. On failure the loop is left
// un-started and un-initialized. Init after Close is permitted.
func (l *CaptureLoop) Init(path string) error {
	src, err := openInputDevice(path)
	if err != nil {
		return err
	}
	l.source = src
	utils.Info("Touch input initialized on %s", path)
	return nil
}

// Start spawns the capture goroutine. Init must have succeeded first.
func (l *CaptureLoop) Start() error {
	if l.source == nil {
		return errors.New("capture loop not initialized")
	}
	if l.done != nil {
		return errors.New("capture loop already started")
	}

	l.stopped.Store(false)
	l.done = make(chan struct{})
	go l.run(l.done)
	utils.Info("Touch event processing started")
	return nil
}

// Stop requests cancellation and waits for the capture goroutine to exit.
// No classifier invocation happens after Stop returns. Stopping a loop that
// was never started is a no-op.
func (l *CaptureLoop) Stop() {
	if l.done == nil {
		return
	}
	l.stopped.Store(true)
	<-l.done
	l.done = nil
	utils.Info("Touch event processing stopped")
}

// Close stops the loop if running and releases the input device.
func (l *CaptureLoop) Close() error {
	l.Stop()
	if l.source == nil {
		return nil
	}
	err := l.source.Close()
	l.source = nil
	return err
}

func (l *CaptureLoop) run(done chan struct{}) {
	defer close(done)

	for !l.stopped.Load() {
		rec, err := l.source.ReadRecord()
		if err != nil {
			if !errors.Is(err, ErrNoData) {
				utils.Verbose("input read error: %v", err)
			}
			time.Sleep(pollInterval)
			continue
		}
		l.classifier.Process(rec)
	}
}
