package commands

import (
	"fmt"
	"path/filepath"
	"sort"

	"go.bug.st/serial/enumerator"
)

// InputDeviceInfo describes one evdev node that can act as a touch source
type InputDeviceInfo struct {
	Path string `json:"path"`
	Type string `json:"type"`
}

// SerialPortInfo describes one serial port an actuator may be attached to
type SerialPortInfo struct {
	Path      string `json:"path"`
	IsUSB     bool   `json:"isUsb"`
	VID       string `json:"vid,omitempty"`
	PID       string `json:"pid,omitempty"`
	SerialNum string `json:"serialNumber,omitempty"`
	Product   string `json:"product,omitempty"`
}

// listSerialPorts is a seam for tests; the real implementation asks the OS.
var listSerialPorts = detailedSerialPorts

func detailedSerialPorts() ([]SerialPortInfo, error) {
	ports, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, fmt.Errorf("error enumerating serial ports: %w", err)
	}

	infos := make([]SerialPortInfo, 0, len(ports))
	for _, port := range ports {
		infos = append(infos, SerialPortInfo{
			Path:      port.Name,
			IsUSB:     port.IsUSB,
			VID:       port.VID,
			PID:       port.PID,
			SerialNum: port.SerialNumber,
			Product:   port.Product,
		})
	}
	return infos, nil
}

var listInputDevices = globbedInputDevices

func globbedInputDevices() ([]InputDeviceInfo, error) {
	paths, err := filepath.Glob("/dev/input/event*")
	if err != nil {
		return nil, fmt.Errorf("error scanning input devices: %w", err)
	}
	sort.Strings(paths)

	infos := make([]InputDeviceInfo, 0, len(paths))
	for _, path := range paths {
		infos = append(infos, InputDeviceInfo{Path: path, Type: "evdev"})
	}
	return infos, nil
}

// DevicesCommand lists candidate touch sources and actuator serial ports
func DevicesCommand() *CommandResponse {
	inputs, err := listInputDevices()
	if err != nil {
		return NewErrorResponse(err)
	}

	ports, err := listSerialPorts()
	if err != nil {
		return NewErrorResponse(err)
	}

	return NewSuccessResponse(map[string]interface{}{
		"inputDevices": inputs,
		"serialPorts":  ports,
	})
}
