// Package platform declares the boundary with the native device-I/O
// collaborator. Everything above this interface is portable; the
// backend that actually issues driver calls is injected, so tests and
// the CLI can run against the in-memory fake.
package platform

import (
	"github.com/openuvc/uvcctl/pkg/device"
	"github.com/openuvc/uvcctl/pkg/property"
	"github.com/openuvc/uvcctl/pkg/result"
)

type (
	// Connection is an open handle to one device. A connection is
	// owned exclusively by whoever created it; whether concurrent
	// connections to the same device path are tolerated is the
	// backend's concern.
	Connection interface {
		IsValid() bool
		Close() error

		CameraProperty(property.CamProp) result.Result[property.Setting]
		SetCameraProperty(property.CamProp, property.Setting) result.Result[result.Void]
		CameraPropertyRange(property.CamProp) result.Result[property.Range]

		VideoProperty(property.VidProp) result.Result[property.Setting]
		SetVideoProperty(property.VidProp, property.Setting) result.Result[result.Void]
		VideoPropertyRange(property.VidProp) result.Result[property.Range]
	}

	// Backend is the full collaborator contract: enumeration,
	// connection lifecycle, hotplug notification, and the opaque
	// vendor property escape hatch. Calls either return a Result or
	// block according to backend-side policy; there is no cancellation
	// at this layer.
	Backend interface {
		ListDevices() result.Result[[]device.Device]
		IsConnected(device.Device) result.Result[bool]
		CreateConnection(device.Device) result.Result[Connection]

		RegisterDeviceChange(device.ChangeCallback)
		UnregisterDeviceChange()

		ReadVendorProperty(dev device.Device, set GUID, id uint32) result.Result[[]byte]
		WriteVendorProperty(dev device.Device, set GUID, id uint32, data []byte) result.Result[result.Void]
	}
)

// VendorProperty is an opaque vendor extension payload keyed by a
// property-set GUID and a numeric id. The layer never interprets Data.
type VendorProperty struct {
	Set  GUID
	ID   uint32
	Data []byte
}
