// Package bridge wires touch capture, gesture classification, and the
// actuator channel into one running unit.
package bridge

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/touchbridge/touchbridge/actuator"
	"github.com/touchbridge/touchbridge/config"
	"github.com/touchbridge/touchbridge/touch"
	"github.com/touchbridge/touchbridge/utils"
)

// commandSender is the slice of actuator.Channel the dispatcher needs.
type commandSender interface {
	Send(cmd actuator.Command) error
}

// subscriberBuffer bounds each gesture event subscriber. A subscriber that
// falls behind loses events rather than stalling the capture goroutine.
const subscriberBuffer = 16

// Bridge owns the full data path: input device -> capture loop ->
// classifier -> (this) dispatcher -> actuator channel -> serial wire.
type Bridge struct {
	cfg        config.Config
	mapper     *touch.Mapper
	classifier *touch.Classifier
	capture    *touch.CaptureLoop
	channel    *actuator.Channel
	sender     commandSender

	running      atomic.Bool
	gestures     atomic.Uint64
	droppedSends atomic.Uint64

	subMu       sync.Mutex
	subscribers map[string]chan touch.Gesture
}

// Status is a point-in-time snapshot for the control surface.
type Status struct {
	Running           bool                 `json:"running"`
	ActuatorConnected bool                 `json:"actuatorConnected"`
	Gestures          uint64               `json:"gestures"`
	DroppedSends      uint64               `json:"droppedSends"`
	Geometry          touch.ScreenGeometry `json:"geometry"`
}

func New(cfg config.Config) (*Bridge, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	mapper, err := touch.NewMapper(cfg.Geometry)
	if err != nil {
		return nil, err
	}

	b := &Bridge{
		cfg:         cfg,
		mapper:      mapper,
		channel:     actuator.NewChannel(),
		subscribers: make(map[string]chan touch.Gesture),
	}
	b.sender = b.channel
	b.classifier = touch.NewClassifier(mapper, b)
	b.capture = touch.NewCaptureLoop(b.classifier)
	return b, nil
}

// Config returns the effective configuration the bridge was built from.
func (b *Bridge) Config() config.Config {
	return b.cfg
}

// Channel exposes the actuator channel for manual commands. Callers share
// the capture goroutine's channel and must not interleave sends with a
// running bridge from multiple goroutines without external serialization.
func (b *Bridge) Channel() *actuator.Channel {
	return b.channel
}

// Start brings up the actuator channel, then the capture loop. On any setup
// failure everything already opened is torn down again.
func (b *Bridge) Start() error {
	if b.running.Load() {
		return fmt.Errorf("bridge already running")
	}

	if err := b.channel.Init(b.cfg.SerialDevice, b.cfg.BaudRate); err != nil {
		return fmt.Errorf("actuator setup: %w", err)
	}
	if err := b.channel.SetResolution(b.cfg.Geometry.TargetWidth, b.cfg.Geometry.TargetHeight); err != nil {
		b.channel.Close()
		return err
	}

	if err := b.capture.Init(b.cfg.InputDevice); err != nil {
		b.channel.Close()
		return fmt.Errorf("input setup: %w", err)
	}
	if err := b.capture.Start(); err != nil {
		b.capture.Close()
		b.channel.Close()
		return err
	}

	b.running.Store(true)
	utils.Info("Bridge running: %s -> %s (%dx%d -> %dx%d)",
		b.cfg.InputDevice, b.cfg.SerialDevice,
		b.cfg.Geometry.SourceWidth, b.cfg.Geometry.SourceHeight,
		b.cfg.Geometry.TargetWidth, b.cfg.Geometry.TargetHeight)
	return nil
}

// Stop halts capture first so no gesture can reach a closing channel, then
// releases the serial transport. Safe to call on a bridge that never
// started.
func (b *Bridge) Stop() error {
	if !b.running.Swap(false) {
		return nil
	}

	captureErr := b.capture.Close()
	channelErr := b.channel.Close()
	if captureErr != nil {
		return captureErr
	}
	return channelErr
}

func (b *Bridge) Status() Status {
	return Status{
		Running:           b.running.Load(),
		ActuatorConnected: b.channel.Connected(),
		Gestures:          b.gestures.Load(),
		DroppedSends:      b.droppedSends.Load(),
		Geometry:          b.mapper.Geometry(),
	}
}

// HandleGesture dispatches one semantic gesture to the actuator. Runs on the
// capture goroutine. A failed send is logged and dropped; retry policy
// belongs to operators, not this loop.
func (b *Bridge) HandleGesture(g touch.Gesture) {
	b.gestures.Add(1)

	var cmd actuator.Command
	switch g.Kind {
	case touch.GestureDown, touch.GestureMove:
		cmd = actuator.Move(g.X, g.Y)
	case touch.GestureUp:
		cmd = actuator.Click(g.X, g.Y)
	case touch.GestureScrollUp:
		cmd = actuator.ScrollUp(actuator.DefaultScrollAmount)
	case touch.GestureScrollDown:
		cmd = actuator.ScrollDown(actuator.DefaultScrollAmount)
	default:
		return
	}

	if err := b.sender.Send(cmd); err != nil {
		b.droppedSends.Add(1)
		utils.Warn("dropped %s gesture: %v", g.Kind, err)
	}

	b.publish(g)
}

// Subscribe registers a gesture event listener and returns its id and
// channel. Events are delivered best effort; a full channel drops.
func (b *Bridge) Subscribe() (string, <-chan touch.Gesture) {
	b.subMu.Lock()
	defer b.subMu.Unlock()

	id := uuid.New().String()
	ch := make(chan touch.Gesture, subscriberBuffer)
	b.subscribers[id] = ch
	return id, ch
}

// Unsubscribe removes a listener and closes its channel.
func (b *Bridge) Unsubscribe(id string) {
	b.subMu.Lock()
	defer b.subMu.Unlock()

	if ch, ok := b.subscribers[id]; ok {
		delete(b.subscribers, id)
		close(ch)
	}
}

func (b *Bridge) publish(g touch.Gesture) {
	b.subMu.Lock()
	defer b.subMu.Unlock()

	for _, ch := range b.subscribers {
		select {
		case ch <- g:
		default:
			// subscriber is not keeping up; never block the capture loop
		}
	}
}
