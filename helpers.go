package serial

import (
	"strings"

	bugst "go.bug.st/serial"
)

// allow tests to override the enumeration backend
var getPortsList = bugst.GetPortsList

// AvailablePorts lists the serial device nodes the OS knows about.
func AvailablePorts() ([]string, error) {
	ports, err := getPortsList()
	if err != nil {
		return nil, err
	}
	return ports, nil
}

// LooksLikePort reports whether name matches the naming pattern of a
// serial device node. Pseudo-terminals (/dev/pts/N) count: they are
// valid raw-mode targets even though they never show up in
// AvailablePorts.
func LooksLikePort(name string) bool {
	if strings.Contains(name, "..") {
		return false
	}
	if strings.HasPrefix(name, "/dev/tty") || strings.HasPrefix(name, "/dev/cu") {
		return true
	}
	if strings.HasPrefix(name, "/dev/pts/") && len(name) > len("/dev/pts/") {
		return true
	}
	return false
}
