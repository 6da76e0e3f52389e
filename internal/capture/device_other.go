//go:build !darwin

package capture

import "github.com/gen2brain/malgo"

// listPlatformOutputDevices has no platform-specific redirection outside
// macOS; ListDevices falls back to the plain playback enumeration.
func listPlatformOutputDevices(mctx *malgo.AllocatedContext) ([]AudioDevice, error) {
	return nil, nil
}

func defaultPlatformOutputDevice(mctx *malgo.AllocatedContext) (AudioDevice, bool, error) {
	return AudioDevice{}, false, nil
}
