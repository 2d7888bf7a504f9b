package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/touchbridge/touchbridge/cli"
	"github.com/touchbridge/touchbridge/commands"
)

func main() {
	// setup signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// run command in goroutine
	done := make(chan error, 1)
	go func() {
		done <- cli.Execute()
	}()

	// wait for command completion or signal
	select {
	case <-sigChan:
		// stop capture and release the serial line on signal
		if b := commands.GetBridge(); b != nil {
			_ = b.Stop()
		}
		os.Exit(0)
	case err := <-done:
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
}
