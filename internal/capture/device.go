package capture

import (
	"context"
	"strings"

	"github.com/gen2brain/malgo"
)

// ParseDeviceName parses the "<name> (input)" / "<name> (output)" form
// produced by String() and accepted on the CLI.
func ParseDeviceName(name string) (AudioDevice, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return AudioDevice{}, ErrInvalidDeviceName
	}

	lower := strings.ToLower(trimmed)
	switch {
	case strings.HasSuffix(lower, "(input)"):
		base := strings.TrimSpace(trimmed[:len(trimmed)-len("(input)")])
		return AudioDevice{Name: base, Type: DeviceInput}, nil
	case strings.HasSuffix(lower, "(output)"):
		base := strings.TrimSpace(trimmed[:len(trimmed)-len("(output)")])
		return AudioDevice{Name: base, Type: DeviceOutput}, nil
	default:
		return AudioDevice{}, ErrInvalidDeviceName
	}
}

// shouldIncludeOutputDevice filters macOS-style loopback endpoints that
// merely rebroadcast the system's own speakers/AirPods output, which are
// rarely useful capture targets and cause feedback loops if selected.
func shouldIncludeOutputDevice(name string) bool {
	lower := strings.ToLower(name)
	return !strings.Contains(lower, "speakers") && !strings.Contains(lower, "airpods")
}

// ListDevices enumerates every input device plus every filtered output
// device (with the platform-specific macOS redirection applied via
// listPlatformOutputDevices in device_darwin.go/device_other.go).
func ListDevices(ctx context.Context) ([]AudioDevice, error) {
	mctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, err
	}
	defer mctx.Uninit()
	defer mctx.Free()

	var devices []AudioDevice

	captureInfos, err := mctx.Devices(malgo.Capture)
	if err != nil {
		return nil, err
	}
	for _, info := range captureInfos {
		devices = append(devices, AudioDevice{Name: info.Name(), Type: DeviceInput})
	}

	platformOutputs, err := listPlatformOutputDevices(mctx)
	if err != nil {
		return nil, err
	}
	if len(platformOutputs) > 0 {
		devices = append(devices, platformOutputs...)
	} else {
		playbackInfos, err := mctx.Devices(malgo.Playback)
		if err != nil {
			return nil, err
		}
		for _, info := range playbackInfos {
			if shouldIncludeOutputDevice(info.Name()) {
				devices = append(devices, AudioDevice{Name: info.Name(), Type: DeviceOutput})
			}
		}
	}

	return devices, nil
}

// DefaultInput returns the host's default capture device.
func DefaultInput(ctx context.Context) (AudioDevice, error) {
	mctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return AudioDevice{}, err
	}
	defer mctx.Uninit()
	defer mctx.Free()

	infos, err := mctx.Devices(malgo.Capture)
	if err != nil {
		return AudioDevice{}, err
	}
	for _, info := range infos {
		if info.IsDefault != 0 {
			return AudioDevice{Name: info.Name(), Type: DeviceInput}, nil
		}
	}
	if len(infos) > 0 {
		return AudioDevice{Name: infos[0].Name(), Type: DeviceInput}, nil
	}
	return AudioDevice{}, ErrDeviceNotFound
}

// DefaultOutput returns the host's default loopback/output capture device,
// preferring the platform-specific redirection when available.
func DefaultOutput(ctx context.Context) (AudioDevice, error) {
	mctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return AudioDevice{}, err
	}
	defer mctx.Uninit()
	defer mctx.Free()

	if dev, ok, err := defaultPlatformOutputDevice(mctx); err != nil {
		return AudioDevice{}, err
	} else if ok {
		return dev, nil
	}

	infos, err := mctx.Devices(malgo.Playback)
	if err != nil {
		return AudioDevice{}, err
	}
	for _, info := range infos {
		if info.IsDefault != 0 && shouldIncludeOutputDevice(info.Name()) {
			return AudioDevice{Name: info.Name(), Type: DeviceOutput}, nil
		}
	}
	return AudioDevice{}, ErrDeviceNotFound
}

// resolve finds the malgo device info matching an AudioDevice by name.
func resolve(mctx *malgo.AllocatedContext, device AudioDevice) (malgo.DeviceInfo, error) {
	kind := malgo.Capture
	if device.Type == DeviceOutput {
		kind = malgo.Playback
	}
	infos, err := mctx.Devices(kind)
	if err != nil {
		return malgo.DeviceInfo{}, err
	}
	for _, info := range infos {
		if info.Name() == device.Name {
			return info, nil
		}
	}
	return malgo.DeviceInfo{}, ErrDeviceNotFound
}
