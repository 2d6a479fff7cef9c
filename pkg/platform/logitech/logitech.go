// Package logitech exposes the Logitech vendor property set through
// the opaque vendor escape hatch. Payloads stay uninterpreted bytes;
// this package only contributes the property-set GUID and the known
// property ids.
package logitech

import (
	"github.com/openuvc/uvcctl/pkg/device"
	"github.com/openuvc/uvcctl/pkg/platform"
	"github.com/openuvc/uvcctl/pkg/result"
)

// PropertySet is the Logitech vendor-specific property-set identifier.
var PropertySet = platform.MustParseGUID("{82066163-7BD0-43EF-8A6F-5B8905C0A078}")

// Property enumerates the known Logitech vendor property ids.
type Property uint32

const (
	RightLight     Property = 1
	RightSound     Property = 2
	FaceTracking   Property = 3
	LedIndicator   Property = 4
	ProcessorUsage Property = 5
	RawDataBits    Property = 6
	FocusAssist    Property = 7
	VideoStandard  Property = 8
	DigitalZoomROI Property = 9
	TiltPan        Property = 10
)

func (p Property) String() string {
	switch p {
	case RightLight:
		return "right_light"
	case RightSound:
		return "right_sound"
	case FaceTracking:
		return "face_tracking"
	case LedIndicator:
		return "led_indicator"
	case ProcessorUsage:
		return "processor_usage"
	case RawDataBits:
		return "raw_data_bits"
	case FocusAssist:
		return "focus_assist"
	case VideoStandard:
		return "video_standard"
	case DigitalZoomROI:
		return "digital_zoom_roi"
	case TiltPan:
		return "tilt_pan"
	default:
		return "unknown"
	}
}

// GetProperty reads a Logitech vendor property payload.
func GetProperty(backend platform.Backend, dev device.Device, prop Property) result.Result[[]byte] {
	return backend.ReadVendorProperty(dev, PropertySet, uint32(prop))
}

// SetProperty writes a Logitech vendor property payload.
func SetProperty(backend platform.Backend, dev device.Device, prop Property, data []byte) result.Result[result.Void] {
	return backend.WriteVendorProperty(dev, PropertySet, uint32(prop), data)
}

// SupportsProperties probes whether the device answers Logitech vendor
// queries at all, using the cheapest property as the probe.
func SupportsProperties(backend platform.Backend, dev device.Device) result.Result[bool] {
	res := GetProperty(backend, dev, LedIndicator)
	if res.IsOK() {
		return result.Ok(true)
	}

	switch res.Err().Code() {
	case result.KindPropertyNotSupported, result.KindNotImplemented:
		return result.Ok(false)
	default:
		return result.ErrFrom[bool](res.Err())
	}
}
