package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/touchbridge/touchbridge/bridge"
	"github.com/touchbridge/touchbridge/commands"
)

var actuatorCmd = &cobra.Command{
	Use:   "actuator",
	Short: "Manual actuator operations",
	Long:  `Drive the finger actuator directly, without touch capture. Useful for calibration and smoke testing the serial link.`,
}

// parseCoordinates splits an "x,y" argument into its two integers
func parseCoordinates(coordsStr string) (int, int, error) {
	parts := strings.Split(coordsStr, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid coordinate format. Expected 'x,y', got '%s'", coordsStr)
	}

	x, errX := strconv.Atoi(strings.TrimSpace(parts[0]))
	y, errY := strconv.Atoi(strings.TrimSpace(parts[1]))
	if errX != nil || errY != nil {
		return 0, 0, fmt.Errorf("invalid coordinate values. x and y must be integers. Got x='%s', y='%s'", parts[0], parts[1])
	}

	return x, y, nil
}

// connectActuator builds a bridge from config and opens only its serial
// channel, leaving touch capture alone. The returned func closes the channel.
func connectActuator() (func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	b, err := bridge.New(cfg)
	if err != nil {
		return nil, err
	}

	if err := b.Channel().Init(cfg.SerialDevice, cfg.BaudRate); err != nil {
		return nil, fmt.Errorf("actuator setup: %w", err)
	}

	commands.SetBridge(b)
	return func() {
		_ = b.Channel().Close()
		commands.SetBridge(nil)
	}, nil
}

// runActuatorCommand handles the connect / execute / print / disconnect
// cycle shared by all manual subcommands
func runActuatorCommand(fn func() *commands.CommandResponse) error {
	disconnect, err := connectActuator()
	if err != nil {
		return err
	}
	defer disconnect()

	response := fn()
	printJson(response)
	if response.Status == "error" {
		return fmt.Errorf("%s", response.Error)
	}
	return nil
}

var actuatorMoveCmd = &cobra.Command{
	Use:   "move [x,y]",
	Short: "Move the finger to the given coordinates",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		x, y, err := parseCoordinates(args[0])
		if err != nil {
			return err
		}

		return runActuatorCommand(func() *commands.CommandResponse {
			return commands.MoveCommand(commands.MoveRequest{X: x, Y: y})
		})
	},
}

var actuatorClickCmd = &cobra.Command{
	Use:   "click [x,y]",
	Short: "Click at the given coordinates",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		x, y, err := parseCoordinates(args[0])
		if err != nil {
			return err
		}

		return runActuatorCommand(func() *commands.CommandResponse {
			return commands.ClickCommand(commands.ClickRequest{X: x, Y: y})
		})
	},
}

var actuatorScrollCmd = &cobra.Command{
	Use:   "scroll [up|down]",
	Short: "Scroll in the given direction",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, _ := cmd.Flags().GetInt("amount")

		return runActuatorCommand(func() *commands.CommandResponse {
			return commands.ScrollCommand(commands.ScrollRequest{
				Direction: args[0],
				Amount:    amount,
			})
		})
	},
}

var actuatorHomeCmd = &cobra.Command{
	Use:   "home",
	Short: "Re-home the actuator to its mechanical origin",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runActuatorCommand(commands.HomeCommand)
	},
}

var actuatorCalibrateCmd = &cobra.Command{
	Use:   "calibrate [x,y]",
	Short: "Re-zero the actuator, declaring its current position",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		x, y, err := parseCoordinates(args[0])
		if err != nil {
			return err
		}

		return runActuatorCommand(func() *commands.CommandResponse {
			return commands.CalibrateCommand(commands.CalibrateRequest{X: x, Y: y})
		})
	},
}

var actuatorStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Query the actuator firmware",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runActuatorCommand(commands.ActuatorStatusCommand)
	},
}

var actuatorScreenCmd = &cobra.Command{
	Use:   "screen [width,height]",
	Short: "Set the target screen resolution",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		width, height, err := parseCoordinates(args[0])
		if err != nil {
			return err
		}

		return runActuatorCommand(func() *commands.CommandResponse {
			return commands.ScreenCommand(commands.ScreenRequest{Width: width, Height: height})
		})
	},
}

func init() {
	rootCmd.AddCommand(actuatorCmd)

	actuatorCmd.AddCommand(actuatorMoveCmd)
	actuatorCmd.AddCommand(actuatorClickCmd)
	actuatorCmd.AddCommand(actuatorScrollCmd)
	actuatorCmd.AddCommand(actuatorHomeCmd)
	actuatorCmd.AddCommand(actuatorCalibrateCmd)
	actuatorCmd.AddCommand(actuatorStatusCmd)
	actuatorCmd.AddCommand(actuatorScreenCmd)

	actuatorCmd.PersistentFlags().StringVar(&serialDevice, "serial", "", "actuator serial device (e.g. /dev/ttyUSB0)")
	actuatorCmd.PersistentFlags().IntVar(&baudRate, "baud", 0, "serial baud rate")

	actuatorScrollCmd.Flags().Int("amount", 0, "scroll amount (defaults to 3)")
}
