package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/touchbridge/touchbridge/commands"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List touch input devices and serial ports",
	Long:  `List evdev input nodes that can act as touch sources and serial ports an actuator may be attached to.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		response := commands.DevicesCommand()
		printJson(response)
		if response.Status == "error" {
			return fmt.Errorf("%s", response.Error)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(devicesCmd)
}
