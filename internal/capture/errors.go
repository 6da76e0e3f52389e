package capture

import "errors"

var (
	// ErrDeviceNotFound is returned when a named device does not appear in
	// the host's enumeration.
	ErrDeviceNotFound = errors.New("audio device not found")

	// ErrInvalidDeviceName is returned when a device name is missing the
	// trailing "(input)"/"(output)" marker or is empty.
	ErrInvalidDeviceName = errors.New("device type (input/output) not specified in name")

	// ErrDeviceDisconnected is returned when the capture callback detects
	// the underlying hardware device going away mid-stream.
	ErrDeviceDisconnected = errors.New("audio device disconnected")

	// ErrChannelClosed names a recorder's inbound or outbound channel being
	// closed while a blocking send/receive is in flight. No function in this
	// module returns it.
	ErrChannelClosed = errors.New("audio channel closed")
)
