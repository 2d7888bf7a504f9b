package server

import (
	"encoding/json"
	"fmt"
)

// HandlerFunc is the signature for JSON-RPC method handlers
type HandlerFunc func(params json.RawMessage) (interface{}, error)

// GetMethodRegistry returns a map of method names to handler functions
// This is used by both the HTTP server and the WebSocket endpoint
func GetMethodRegistry() map[string]HandlerFunc {
	return map[string]HandlerFunc{
		"status":             handleStatus,
		"config":             handleConfig,
		"devices":            handleDevicesList,
		"actuator_move":      handleActuatorMove,
		"actuator_click":     handleActuatorClick,
		"actuator_scroll":    handleActuatorScroll,
		"actuator_home":      handleActuatorHome,
		"actuator_calibrate": handleActuatorCalibrate,
		"actuator_status":    handleActuatorStatus,
		"actuator_screen":    handleActuatorScreen,
		"server.shutdown":    handleServerShutdown,
	}
}

// Execute dispatches a method call using the registry
func Execute(method string, params json.RawMessage) (interface{}, error) {
	registry := GetMethodRegistry()

	handler, exists := registry[method]
	if !exists {
		return nil, fmt.Errorf("method not found: %s", method)
	}

	return handler(params)
}
