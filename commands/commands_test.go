package commands

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/touchbridge/touchbridge/bridge"
	"github.com/touchbridge/touchbridge/config"
)

// withBridge installs a bridge whose actuator channel was never initialized,
// so send paths fail with a disconnected transport.
func withBridge(t *testing.T) {
	t.Helper()
	b, err := bridge.New(config.Default())
	require.NoError(t, err)

	SetBridge(b)
	t.Cleanup(func() { SetBridge(nil) })
}

func TestCommandsRequireBridge(t *testing.T) {
	SetBridge(nil)

	responses := []*CommandResponse{
		MoveCommand(MoveRequest{X: 1, Y: 2}),
		ClickCommand(ClickRequest{X: 1, Y: 2}),
		ScrollCommand(ScrollRequest{Direction: "up"}),
		HomeCommand(),
		CalibrateCommand(CalibrateRequest{X: 0, Y: 0}),
		ActuatorStatusCommand(),
		ScreenCommand(ScreenRequest{Width: 390, Height: 844}),
		StatusCommand(),
	}

	for _, resp := range responses {
		assert.Equal(t, "error", resp.Status)
		assert.Contains(t, resp.Error, "no bridge")
	}
}

func TestMoveCommandRejectsNegativeCoordinates(t *testing.T) {
	withBridge(t)

	resp := MoveCommand(MoveRequest{X: -1, Y: 2})
	assert.Equal(t, "error", resp.Status)
	assert.Contains(t, resp.Error, "non-negative")
}

func TestClickCommandRejectsNegativeCoordinates(t *testing.T) {
	withBridge(t)

	resp := ClickCommand(ClickRequest{X: 3, Y: -4})
	assert.Equal(t, "error", resp.Status)
}

func TestScrollCommandRejectsBadDirection(t *testing.T) {
	withBridge(t)

	resp := ScrollCommand(ScrollRequest{Direction: "sideways"})
	assert.Equal(t, "error", resp.Status)
	assert.Contains(t, resp.Error, "invalid scroll direction")
}

func TestScrollCommandRejectsNegativeAmount(t *testing.T) {
	withBridge(t)

	resp := ScrollCommand(ScrollRequest{Direction: "up", Amount: -2})
	assert.Equal(t, "error", resp.Status)
}

func TestSendCommandsFailWhenDisconnected(t *testing.T) {
	withBridge(t)

	resp := MoveCommand(MoveRequest{X: 10, Y: 20})
	assert.Equal(t, "error", resp.Status)

	resp = HomeCommand()
	assert.Equal(t, "error", resp.Status)
}

func TestStatusCommandReportsBridgeState(t *testing.T) {
	withBridge(t)

	resp := StatusCommand()
	require.Equal(t, "ok", resp.Status)

	st, ok := resp.Data.(bridge.Status)
	require.True(t, ok)
	assert.False(t, st.Running)
}

func TestDevicesCommandReportsBothKinds(t *testing.T) {
	origInputs, origPorts := listInputDevices, listSerialPorts
	t.Cleanup(func() {
		listInputDevices, listSerialPorts = origInputs, origPorts
	})

	listInputDevices = func() ([]InputDeviceInfo, error) {
		return []InputDeviceInfo{{Path: "/dev/input/event4", Type: "evdev"}}, nil
	}
	listSerialPorts = func() ([]SerialPortInfo, error) {
		return []SerialPortInfo{{Path: "/dev/ttyUSB0", IsUSB: true, VID: "10c4", PID: "ea60"}}, nil
	}

	resp := DevicesCommand()
	require.Equal(t, "ok", resp.Status)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Len(t, data["inputDevices"], 1)
	assert.Len(t, data["serialPorts"], 1)
}

func TestDevicesCommandSurfacesEnumerationFailure(t *testing.T) {
	origPorts := listSerialPorts
	t.Cleanup(func() { listSerialPorts = origPorts })

	listSerialPorts = func() ([]SerialPortInfo, error) {
		return nil, errors.New("udev unavailable")
	}

	resp := DevicesCommand()
	assert.Equal(t, "error", resp.Status)
}

func TestResponseConstructors(t *testing.T) {
	ok := NewSuccessResponse("payload")
	assert.Equal(t, "ok", ok.Status)
	assert.Equal(t, "payload", ok.Data)
	assert.Empty(t, ok.Error)

	bad := NewErrorResponse(errors.New("boom"))
	assert.Equal(t, "error", bad.Status)
	assert.Equal(t, "boom", bad.Error)
}
