//go:build linux

package touch

import (
	"errors"
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// ioctl request encoding (the kernel's _IOC macro).
const (
	iocNRShift   = 0
	iocTypeShift = 8
	iocSizeShift = 16
	iocDirShift  = 30

	iocRead = 2
)

func ioc(dir, typ, nr, size uint32) uintptr {
	return uintptr(dir<<iocDirShift | typ<<iocTypeShift | nr<<iocNRShift | size<<iocSizeShift)
}

// evioCGBit builds EVIOCGBIT(0, len), the query for the device's supported
// event type bitmask.
func evioCGBit(size uint32) uintptr {
	return ioc(iocRead, uint32('E'), 0x20, size)
}

// evdevSource reads input_event records from an evdev character device.
type evdevSource struct {
	fd  int
	buf [inputEventSize64]byte
}

// openInputDevice opens an evdev device read-only and non-blocking and
// verifies it advertises absolute positioning.
func openInputDevice(path string) (RecordSource, error) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return nil, fmt.Errorf("cannot open input device %s: %w", path, err)
	}

	var evbits [8]byte
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), evioCGBit(uint32(len(evbits))), uintptr(unsafe.Pointer(&evbits[0])))
	if errno != 0 {
		unix.Close(fd)
		return nil, fmt.Errorf("cannot query capabilities of %s: %w", path, errno)
	}

	if evbits[evAbs/8]&(1<<(evAbs%8)) == 0 {
		unix.Close(fd)
		return nil, fmt.Errorf("%s: %w", path, ErrMissingAbsCapability)
	}

	return &evdevSource{fd: fd}, nil
}

func (s *evdevSource) ReadRecord() (Record, error) {
	n, err := unix.Read(s.fd, s.buf[:])
	if err != nil {
		if errors.Is(err, unix.EAGAIN) {
			return Record{}, ErrNoData
		}
		return Record{}, fmt.Errorf("read input device: %w", err)
	}
	if n != inputEventSize64 {
		return Record{}, ErrNoData
	}

	etype, code, value, t, err := parseInputEvent(s.buf[:n])
	if err != nil {
		return Record{}, err
	}
	return translateEvent(etype, code, value, t), nil
}

func (s *evdevSource) Close() error {
	return unix.Close(s.fd)
}
