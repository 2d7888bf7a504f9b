//go:build linux

package actuator

import (
	"fmt"

	"golang.org/x/sys/unix"
)

var baudConstants = map[int]uint32{
	9600:   unix.B9600,
	19200:  unix.B19200,
	38400:  unix.B38400,
	57600:  unix.B57600,
	115200: unix.B115200,
	230400: unix.B230400,
}

// serialPort is a termios-backed Transport. It keeps the termios state found
// at open time and restores it on Close, so the device is handed back the
// way it was found.
type serialPort struct {
	fd    int
	saved unix.Termios
}

func openSerialPort(path string, baudRate int) (Transport, error) {
	speed, ok := baudConstants[baudRate]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBaudRate, baudRate)
	}

	fd, err := unix.Open(path, unix.O_RDWR|unix.O_NOCTTY|unix.O_NONBLOCK, 0)
	if err != nil {
		return nil, err
	}

	tio, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("get line configuration: %w", err)
	}
	saved := *tio

	// 8 data bits, no parity, 1 stop bit, no hardware flow control
	tio.Cflag &^= unix.PARENB | unix.CSTOPB | unix.CSIZE | unix.CRTSCTS
	tio.Cflag |= unix.CS8 | unix.CLOCAL | unix.CREAD

	// raw input and output
	tio.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.PARMRK | unix.ISTRIP |
		unix.INLCR | unix.IGNCR | unix.ICRNL | unix.IXON
	tio.Oflag &^= unix.OPOST
	tio.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.ISIG | unix.IEXTEN

	tio.Cflag &^= unix.CBAUD
	tio.Cflag |= speed
	tio.Ispeed = speed
	tio.Ospeed = speed

	// reads return immediately with whatever is pending, 100ms at most
	tio.Cc[unix.VMIN] = 0
	tio.Cc[unix.VTIME] = 1

	if err := unix.IoctlSetTermios(fd, unix.TCSETS, tio); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("set line configuration: %w", err)
	}

	if err := unix.IoctlSetInt(fd, unix.TCFLSH, unix.TCIOFLUSH); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("flush serial buffers: %w", err)
	}

	return &serialPort{fd: fd, saved: saved}, nil
}

func (p *serialPort) Write(data []byte) (int, error) {
	return unix.Write(p.fd, data)
}

// Drain blocks until the kernel reports all written bytes transmitted
// (tcdrain).
func (p *serialPort) Drain() error {
	return unix.IoctlSetInt(p.fd, unix.TCSBRK, 1)
}

func (p *serialPort) Close() error {
	// hand the line configuration back before releasing the descriptor
	if err := unix.IoctlSetTermios(p.fd, unix.TCSETS, &p.saved); err != nil {
		unix.Close(p.fd)
		return fmt.Errorf("restore line configuration: %w", err)
	}
	return unix.Close(p.fd)
}
