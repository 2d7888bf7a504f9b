package commands

import (
	"fmt"

	"github.com/touchbridge/touchbridge/actuator"
)

// MoveRequest represents the parameters for a move command
type MoveRequest struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// ClickRequest represents the parameters for a click command
type ClickRequest struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// ScrollRequest represents the parameters for a scroll command
type ScrollRequest struct {
	Direction string `json:"direction"`
	Amount    int    `json:"amount,omitempty"`
}

// CalibrateRequest represents the parameters for a positioned reset command
type CalibrateRequest struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// ScreenRequest represents the parameters for a target resolution update
type ScreenRequest struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// MoveCommand drives the finger to an absolute target position
func MoveCommand(req MoveRequest) *CommandResponse {
	if req.X < 0 || req.Y < 0 {
		return NewErrorResponse(fmt.Errorf("x and y coordinates must be non-negative, got x=%d, y=%d", req.X, req.Y))
	}

	ch, err := activeChannel()
	if err != nil {
		return NewErrorResponse(err)
	}

	if err := ch.Send(actuator.Move(req.X, req.Y)); err != nil {
		return NewErrorResponse(fmt.Errorf("failed to move to (%d,%d): %v", req.X, req.Y, err))
	}

	return NewSuccessResponse(map[string]interface{}{
		"message": fmt.Sprintf("Moved to (%d,%d)", req.X, req.Y),
	})
}

// ClickCommand performs a press and release at the target position
func ClickCommand(req ClickRequest) *CommandResponse {
	if req.X < 0 || req.Y < 0 {
		return NewErrorResponse(fmt.Errorf("x and y coordinates must be non-negative, got x=%d, y=%d", req.X, req.Y))
	}

	ch, err := activeChannel()
	if err != nil {
		return NewErrorResponse(err)
	}

	if err := ch.Send(actuator.Click(req.X, req.Y)); err != nil {
		return NewErrorResponse(fmt.Errorf("failed to click at (%d,%d): %v", req.X, req.Y, err))
	}

	return NewSuccessResponse(map[string]interface{}{
		"message": fmt.Sprintf("Clicked at (%d,%d)", req.X, req.Y),
	})
}

// ScrollCommand performs a scroll in the given direction ("up" or "down")
func ScrollCommand(req ScrollRequest) *CommandResponse {
	amount := req.Amount
	if amount == 0 {
		amount = actuator.DefaultScrollAmount
	}
	if amount < 0 {
		return NewErrorResponse(fmt.Errorf("scroll amount must be positive, got %d", amount))
	}

	var cmd actuator.Command
	switch req.Direction {
	case "up":
		cmd = actuator.ScrollUp(amount)
	case "down":
		cmd = actuator.ScrollDown(amount)
	default:
		return NewErrorResponse(fmt.Errorf("invalid scroll direction: %q (must be 'up' or 'down')", req.Direction))
	}

	ch, err := activeChannel()
	if err != nil {
		return NewErrorResponse(err)
	}

	if err := ch.Send(cmd); err != nil {
		return NewErrorResponse(fmt.Errorf("failed to scroll %s: %v", req.Direction, err))
	}

	return NewSuccessResponse(map[string]interface{}{
		"message": fmt.Sprintf("Scrolled %s by %d", req.Direction, amount),
	})
}

// HomeCommand re-homes the actuator to its mechanical origin
func HomeCommand() *CommandResponse {
	ch, err := activeChannel()
	if err != nil {
		return NewErrorResponse(err)
	}

	if err := ch.Send(actuator.Home()); err != nil {
		return NewErrorResponse(fmt.Errorf("failed to home actuator: %v", err))
	}

	return NewSuccessResponse(map[string]interface{}{
		"message": "Actuator homed",
	})
}

// CalibrateCommand re-homes the actuator and declares its current physical
// position, so the firmware can re-zero without a full travel to origin
func CalibrateCommand(req CalibrateRequest) *CommandResponse {
	if req.X < 0 || req.Y < 0 {
		return NewErrorResponse(fmt.Errorf("x and y coordinates must be non-negative, got x=%d, y=%d", req.X, req.Y))
	}

	ch, err := activeChannel()
	if err != nil {
		return NewErrorResponse(err)
	}

	if err := ch.Send(actuator.Calibrate(req.X, req.Y)); err != nil {
		return NewErrorResponse(fmt.Errorf("failed to calibrate at (%d,%d): %v", req.X, req.Y, err))
	}

	return NewSuccessResponse(map[string]interface{}{
		"message": fmt.Sprintf("Calibrated at (%d,%d)", req.X, req.Y),
	})
}

// ActuatorStatusCommand requests a liveness report from the firmware
func ActuatorStatusCommand() *CommandResponse {
	ch, err := activeChannel()
	if err != nil {
		return NewErrorResponse(err)
	}

	if err := ch.Send(actuator.Status()); err != nil {
		return NewErrorResponse(fmt.Errorf("failed to query actuator status: %v", err))
	}

	width, height := ch.Resolution()
	return NewSuccessResponse(map[string]interface{}{
		"connected": ch.Connected(),
		"width":     width,
		"height":    height,
	})
}

// ScreenCommand updates the target screen resolution on the firmware and in
// the channel's own bookkeeping
func ScreenCommand(req ScreenRequest) *CommandResponse {
	ch, err := activeChannel()
	if err != nil {
		return NewErrorResponse(err)
	}

	if err := ch.SetResolution(req.Width, req.Height); err != nil {
		return NewErrorResponse(fmt.Errorf("failed to set screen resolution: %v", err))
	}

	return NewSuccessResponse(map[string]interface{}{
		"message": fmt.Sprintf("Target resolution set to %dx%d", req.Width, req.Height),
	})
}

// StatusCommand reports the bridge's running state and counters
func StatusCommand() *CommandResponse {
	if activeBridge == nil {
		return NewErrorResponse(fmt.Errorf("no bridge is configured"))
	}
	return NewSuccessResponse(activeBridge.Status())
}

// ConfigCommand reports the effective configuration of the running bridge
func ConfigCommand() *CommandResponse {
	if activeBridge == nil {
		return NewErrorResponse(fmt.Errorf("no bridge is configured"))
	}
	return NewSuccessResponse(activeBridge.Config())
}
