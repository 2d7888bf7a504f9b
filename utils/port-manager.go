package utils

import (
	"net"
	"strconv"
)

// IsPortAvailable reports whether host:port can be bound right now. host may
// be an IP literal or a name like "localhost"; an unresolvable host counts
// as unavailable.
func IsPortAvailable(host string, port int) bool {
	if port < 0 || port > 65535 {
		return false
	}

	addr := net.JoinHostPort(host, strconv.Itoa(port))
	Verbose("Checking if %s is available", addr)

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		Verbose("error: %v", err)
		return false
	}

	defer listener.Close()
	return true
}
