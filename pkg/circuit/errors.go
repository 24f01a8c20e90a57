package circuit

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for registry and monitor operations. Callers classify with
// errors.Is; messages carry the offending names via wrapping.
var (
	ErrDeviceExists  = errors.New("device already defined")
	ErrUnknownDevice = errors.New("device not defined")
	ErrInvalidPin    = errors.New("invalid pin")
	ErrPinConnected  = errors.New("input pin already connected")
	ErrInvalidParam  = errors.New("invalid device parameter")
	ErrNotSwitch     = errors.New("device is not a switch")
	ErrMonitorExists = errors.New("signal is already monitored")
	ErrNotMonitored  = errors.New("signal is not monitored")
)

// FloatingPinError reports an input pin with no incoming connection,
// detected before a cycle runs.
type FloatingPinError struct {
	Device string
	Pin    string
}

func (e *FloatingPinError) Error() string {
	return fmt.Sprintf("floating input: %s.%s is not connected", e.Device, e.Pin)
}

// OscillationError reports a combinational settle phase that did not reach a
// fixed point within the pass limit.
type OscillationError struct {
	Passes   int      // passes attempted before giving up
	Unstable []string // devices still changing, in creation order
}

func (e *OscillationError) Error() string {
	return fmt.Sprintf("network failed to settle after %d passes; unstable: %s",
		e.Passes, strings.Join(e.Unstable, ", "))
}
