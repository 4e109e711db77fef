package tray

import _ "embed"

var (
	//go:embed assets/running.png
	iconRunning []byte

	//go:embed assets/stopped.png
	iconStopped []byte
)

func iconFor(running bool) []byte {
	if running {
		return iconRunning
	}
	return iconStopped
}
