package cli

var (
	verbose    bool
	configPath string

	// overrides for the run and actuator commands
	inputDevice  string
	serialDevice string
	baudRate     int
)
