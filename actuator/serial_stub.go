//go:build !linux

package actuator

import "errors"

func openSerialPort(path string, baudRate int) (Transport, error) {
	return nil, errors.New("actuator serial transport is only supported on linux")
}
