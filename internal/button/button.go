// Package button provides button input reading with hardware abstraction.
// The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
package button

// Reader reads the button input state.
type Reader interface {
	// Read returns the logical state of the button: true = pressed.
	// The raw GPIO level is inverted: the line idles high through the
	// pull-up and is pulled low when the button is pressed.
	Read() (bool, error)

	// Close releases GPIO resources.
	Close() error
}

// DefaultPin is the BCM pin the Argon ONE button is wired to.
const DefaultPin = 4
