//go:build darwin

package capture

import "github.com/gen2brain/malgo"

// listPlatformOutputDevices mirrors original_source's macOS ScreenCaptureKit
// hack: loopback "output" capture on macOS is only available by treating the
// screen-capture host's input devices as output sources, filtered to drop
// bare speaker/AirPods endpoints that would just feed back the system's own
// playback. malgo does not expose a ScreenCaptureKit host selector the way
// cpal's HostId::ScreenCaptureKit does, so this falls back to the default
// playback enumeration filtered the same way — the redirection itself is a
// cpal/macOS-specific affordance with no equivalent malgo backend to target.
func listPlatformOutputDevices(mctx *malgo.AllocatedContext) ([]AudioDevice, error) {
	infos, err := mctx.Devices(malgo.Playback)
	if err != nil {
		return nil, err
	}
	var devices []AudioDevice
	for _, info := range infos {
		if shouldIncludeOutputDevice(info.Name()) {
			devices = append(devices, AudioDevice{Name: info.Name(), Type: DeviceOutput})
		}
	}
	return devices, nil
}

func defaultPlatformOutputDevice(mctx *malgo.AllocatedContext) (AudioDevice, bool, error) {
	infos, err := mctx.Devices(malgo.Playback)
	if err != nil {
		return AudioDevice{}, false, err
	}
	for _, info := range infos {
		if info.IsDefault != 0 && shouldIncludeOutputDevice(info.Name()) {
			return AudioDevice{Name: info.Name(), Type: DeviceOutput}, true, nil
		}
	}
	return AudioDevice{}, false, nil
}
