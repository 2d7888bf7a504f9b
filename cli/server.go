package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/touchbridge/touchbridge/bridge"
	"github.com/touchbridge/touchbridge/commands"
	"github.com/touchbridge/touchbridge/config"
	"github.com/touchbridge/touchbridge/daemon"
	"github.com/touchbridge/touchbridge/server"
	"github.com/touchbridge/touchbridge/utils"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Server management commands",
	Long:  `Commands for managing the touchbridge control server.`,
}

var serverStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the touchbridge server",
	Long:  `Starts the control server and, unless --no-capture is given, the touch bridge itself.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		listenAddr := cmd.Flag("listen").Value.String()
		if listenAddr == "" {
			listenAddr = config.DefaultListenAddr
		}

		// GetBool cannot fail for defined flags
		enableCORS, _ := cmd.Flags().GetBool("cors")
		isDaemon, _ := cmd.Flags().GetBool("daemon")
		noCapture, _ := cmd.Flags().GetBool("no-capture")

		if isDaemon && !daemon.IsChild() {
			_, err := daemon.Daemonize()
			if err != nil {
				return fmt.Errorf("failed to start daemon: %w", err)
			}

			fmt.Printf("Server daemon spawned, attempting to listen on %s\n", listenAddr)
			return nil
		}

		b, err := bridge.New(cfg)
		if err != nil {
			return err
		}
		commands.SetBridge(b)

		if !noCapture {
			// hardware may be disconnected; the control API still serves
			// device listing and status, so keep going
			if err := b.Start(); err != nil {
				utils.Warn("bridge not started: %v", err)
			}
		}

		return server.StartServer(listenAddr, enableCORS)
	},
}

var serverKillCmd = &cobra.Command{
	Use:   "kill",
	Short: "Stop the daemonized touchbridge server",
	Long:  `Connects to the server and sends a shutdown command via JSON-RPC.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// GetString cannot fail for defined flags
		addr, _ := cmd.Flags().GetString("listen")
		if addr == "" {
			addr = config.DefaultListenAddr
		}

		err := daemon.KillServer(addr)
		if err != nil {
			return err
		}

		fmt.Printf("Server shutdown command sent successfully\n")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	// add server subcommands
	serverCmd.AddCommand(serverStartCmd)
	serverCmd.AddCommand(serverKillCmd)

	// server start flags
	serverStartCmd.Flags().String("listen", "", "Address to listen on (e.g., 'localhost:12000' or '0.0.0.0:13000')")
	serverStartCmd.Flags().Bool("cors", false, "Enable CORS support")
	serverStartCmd.Flags().BoolP("daemon", "d", false, "Run server in daemon mode (background)")
	serverStartCmd.Flags().Bool("no-capture", false, "Serve the control API without starting touch capture")
	serverStartCmd.Flags().StringVar(&inputDevice, "input", "", "touch input device (e.g. /dev/input/event4)")
	serverStartCmd.Flags().StringVar(&serialDevice, "serial", "", "actuator serial device (e.g. /dev/ttyUSB0)")
	serverStartCmd.Flags().IntVar(&baudRate, "baud", 0, "serial baud rate")

	// server kill flags
	serverKillCmd.Flags().String("listen", "", fmt.Sprintf("Address of server to kill (default: %s)", config.DefaultListenAddr))
}
