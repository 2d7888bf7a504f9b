package commands

import (
	"fmt"

	"github.com/touchbridge/touchbridge/actuator"
	"github.com/touchbridge/touchbridge/bridge"
)

// CommandResponse represents a standardized response format for all commands
type CommandResponse struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// NewSuccessResponse creates a success response
func NewSuccessResponse(data interface{}) *CommandResponse {
	return &CommandResponse{
		Status: "ok",
		Data:   data,
	}
}

// NewErrorResponse creates an error response
func NewErrorResponse(err error) *CommandResponse {
	return &CommandResponse{
		Status: "error",
		Error:  err.Error(),
	}
}

// activeBridge holds the bridge all actuator commands talk through.
// It is set once at application startup via SetBridge and shared between
// the CLI and the control server.
var activeBridge *bridge.Bridge

// SetBridge sets the global bridge for command dispatch.
// This should be called once at application startup (main.go or server.go).
func SetBridge(b *bridge.Bridge) {
	activeBridge = b
}

// GetBridge returns the current bridge.
// Returns nil if SetBridge has not been called yet.
func GetBridge() *bridge.Bridge {
	return activeBridge
}

// activeChannel returns the actuator channel of the registered bridge.
func activeChannel() (*actuator.Channel, error) {
	if activeBridge == nil {
		return nil, fmt.Errorf("no bridge is configured")
	}
	return activeBridge.Channel(), nil
}
