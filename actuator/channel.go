package actuator

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"sync/atomic"

	"github.com/touchbridge/touchbridge/utils"
)

// ErrNotConnected is returned by Send when no successful Init has happened
// (or the channel has been closed).
var ErrNotConnected = errors.New("actuator not connected")

// ErrUnsupportedBaudRate is returned by Init before the transport is opened.
var ErrUnsupportedBaudRate = errors.New("unsupported baud rate")

var supportedBaudRates = map[int]bool{
	9600:   true,
	19200:  true,
	38400:  true,
	57600:  true,
	115200: true,
	230400: true,
}

// SupportedBaudRates returns the accepted baud rates in ascending order.
func SupportedBaudRates() []int {
	rates := make([]int, 0, len(supportedBaudRates))
	for rate := range supportedBaudRates {
		rates = append(rates, rate)
	}
	sort.Ints(rates)
	return rates
}

// TransportError reports a write or flush failure on an established
// connection. Connection state is left unchanged; the command is dropped and
// resending is the caller's decision.
type TransportError struct {
	Op  Op
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("actuator %s failed: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Transport is the serial link a Channel writes to. Drain blocks until the
// hardware has accepted all written bytes.
type Transport interface {
	io.WriteCloser
	Drain() error
}

// openTransport is swapped out in tests.
var openTransport = openSerialPort

// Channel owns a serial transport's lifecycle and encodes semantic commands
// onto it. Methods perform blocking writes with no internal locking; callers
// invoking a Channel from more than one goroutine must serialize access.
// The connected flag itself is atomically observable.
type Channel struct {
	transport Transport
	connected atomic.Bool

	targetWidth  int
	targetHeight int
}

func NewChannel() *Channel {
	return &Channel{}
}

// Init opens the serial device, applies the line discipline the firmware
// expects (8 data bits, no parity, 1 stop bit, no flow control, raw mode,
// short read timeout), and probes the firmware with a STATUS command. The
// transport's prior line configuration is captured for restoration on Close.
// An unsupported baud rate fails before anything is opened.
func (c *Channel) Init(path string, baudRate int) error {
	if c.connected.Load() {
		return errors.New("actuator already connected")
	}
	if !supportedBaudRates[baudRate] {
		return fmt.Errorf("%w: %d (supported: %v)", ErrUnsupportedBaudRate, baudRate, SupportedBaudRates())
	}

	transport, err := openTransport(path, baudRate)
	if err != nil {
		return fmt.Errorf("cannot open actuator serial device %s: %w", path, err)
	}

	c.transport = transport
	c.connected.Store(true)
	utils.Info("Actuator channel initialized on %s at %d baud", path, baudRate)

	// liveness probe; a silent firmware is not fatal here
	if err := c.Send(Status()); err != nil {
		utils.Warn("actuator status probe failed: %v", err)
	}

	return nil
}

// Connected reports whether a successful Init has happened and Close has not.
func (c *Channel) Connected() bool {
	return c.connected.Load()
}

// Send encodes the command, writes it, and blocks until the transport
// confirms the bytes are flushed. A failed send leaves the connection state
// unchanged and performs no retry.
func (c *Channel) Send(cmd Command) error {
	if !c.connected.Load() || c.transport == nil {
		return ErrNotConnected
	}

	data := []byte(cmd.Encode())
	n, err := c.transport.Write(data)
	if err != nil {
		return &TransportError{Op: cmd.Op, Err: err}
	}
	if n != len(data) {
		return &TransportError{Op: cmd.Op, Err: fmt.Errorf("short write: %d of %d bytes", n, len(data))}
	}
	if err := c.transport.Drain(); err != nil {
		return &TransportError{Op: cmd.Op, Err: fmt.Errorf("flush: %w", err)}
	}

	utils.Verbose("Sent to actuator: %s", cmd)
	return nil
}

// SetResolution records the target screen size and informs the firmware with
// a best-effort SCREEN command; a failed send is logged, not propagated.
func (c *Channel) SetResolution(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("resolution must be positive, got %dx%d", width, height)
	}

	c.targetWidth = width
	c.targetHeight = height
	utils.Info("Target screen resolution set to %dx%d", width, height)

	if err := c.Send(ScreenSize(width, height)); err != nil {
		utils.Warn("could not push screen size to actuator: %v", err)
	}
	return nil
}

// Resolution returns the last configured target screen size.
func (c *Channel) Resolution() (int, int) {
	return c.targetWidth, c.targetHeight
}

// Close restores the transport's saved line configuration and releases the
// handle. Close is idempotent; calls after the first are no-ops.
func (c *Channel) Close() error {
	if c.transport == nil {
		return nil
	}
	err := c.transport.Close()
	c.transport = nil
	c.connected.Store(false)
	return err
}
