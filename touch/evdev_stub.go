//go:build !linux

package touch

import "errors"

func openInputDevice(path string) (RecordSource, error) {
	return nil, errors.New("touch input capture is only supported on linux")
}
