package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/touchbridge/touchbridge/bridge"
	"github.com/touchbridge/touchbridge/commands"
	"github.com/touchbridge/touchbridge/config"
	"github.com/touchbridge/touchbridge/server"
	"github.com/touchbridge/touchbridge/utils"
)

// loadConfig builds the effective configuration: file (if given), then
// command-line overrides on top.
func loadConfig() (config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}

	if inputDevice != "" {
		cfg.InputDevice = inputDevice
	}
	if serialDevice != "" {
		cfg.SerialDevice = serialDevice
	}
	if baudRate != 0 {
		cfg.BaudRate = baudRate
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the touch bridge",
	Long:  `Captures touch input and forwards gestures to the actuator until interrupted. With --listen, also serves the JSON-RPC control API.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		b, err := bridge.New(cfg)
		if err != nil {
			return err
		}
		commands.SetBridge(b)

		if err := b.Start(); err != nil {
			return err
		}

		listenAddr, _ := cmd.Flags().GetString("listen")
		enableCORS, _ := cmd.Flags().GetBool("cors")
		serverErr := make(chan error, 1)
		if listenAddr != "" {
			go func() {
				serverErr <- server.StartServer(listenAddr, enableCORS)
			}()
		}

		// SIGINT/SIGTERM are handled in main, which stops the registered
		// bridge; blocking here until the control server fails (or forever
		// without one) keeps exactly one shutdown owner
		err = <-serverErr
		if stopErr := b.Stop(); stopErr != nil {
			utils.Warn("error stopping bridge: %v", stopErr)
		}
		return fmt.Errorf("control server failed: %w", err)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&inputDevice, "input", "", "touch input device (e.g. /dev/input/event4)")
	runCmd.Flags().StringVar(&serialDevice, "serial", "", "actuator serial device (e.g. /dev/ttyUSB0)")
	runCmd.Flags().IntVar(&baudRate, "baud", 0, "serial baud rate")
	runCmd.Flags().String("listen", "", "also serve the control API on this address (e.g. 'localhost:12000')")
	runCmd.Flags().Bool("cors", false, "Enable CORS support")
}
