// Package property models the two disjoint property domains of a
// UVC-class camera: camera-motion controls (pan, tilt, zoom, ...) and
// video/image processing controls (brightness, white balance, ...).
// It also carries the pure value/range model and the name resolution
// table used by the controller façade. Nothing in this package touches
// a device.
package property

import (
	"fmt"
	"strings"

	"github.com/openuvc/uvcctl/pkg/result"
)

// Mode selects who drives a property: the camera firmware or the
// application.
type Mode int

const (
	ModeAuto Mode = iota
	ModeManual
)

func (m Mode) String() string {
	switch m {
	case ModeAuto:
		return "auto"
	case ModeManual:
		return "manual"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "auto":
		return ModeAuto, nil
	case "manual":
		return ModeManual, nil
	default:
		return ModeManual, fmt.Errorf("invalid control mode: %s", s)
	}
}

// Domain names one of the two property namespaces.
type Domain int

const (
	DomainCamera Domain = iota
	DomainVideo
)

func (d Domain) String() string {
	if d == DomainCamera {
		return "camera"
	}

	return "video"
}

// CamProp identifies a camera-motion control property.
type CamProp int

const (
	CamPan CamProp = iota
	CamTilt
	CamRoll
	CamZoom
	CamExposure
	CamIris
	CamFocus
	CamScanMode
	CamPrivacy
	CamPanRelative
	CamTiltRelative
	CamRollRelative
	CamZoomRelative
	CamExposureRelative
	CamIrisRelative
	CamFocusRelative
	CamPanTilt
	CamPanTiltRelative
	CamFocusSimple
	CamDigitalZoom
	CamDigitalZoomRelative
	CamBacklightCompensation
	CamLamp
)

var camPropNames = map[CamProp]string{
	CamPan:                   "pan",
	CamTilt:                  "tilt",
	CamRoll:                  "roll",
	CamZoom:                  "zoom",
	CamExposure:              "exposure",
	CamIris:                  "iris",
	CamFocus:                 "focus",
	CamScanMode:              "scan_mode",
	CamPrivacy:               "privacy",
	CamPanRelative:           "pan_relative",
	CamTiltRelative:          "tilt_relative",
	CamRollRelative:          "roll_relative",
	CamZoomRelative:          "zoom_relative",
	CamExposureRelative:      "exposure_relative",
	CamIrisRelative:          "iris_relative",
	CamFocusRelative:         "focus_relative",
	CamPanTilt:               "pan_tilt",
	CamPanTiltRelative:       "pan_tilt_relative",
	CamFocusSimple:           "focus_simple",
	CamDigitalZoom:           "digital_zoom",
	CamDigitalZoomRelative:   "digital_zoom_relative",
	CamBacklightCompensation: "backlight_compensation_cam",
	CamLamp:                  "lamp",
}

func (p CamProp) String() string {
	if name, ok := camPropNames[p]; ok {
		return name
	}

	return fmt.Sprintf("cam_prop(%d)", int(p))
}

func (p CamProp) IsValid() bool {
	_, ok := camPropNames[p]

	return ok
}

// CamProps returns every camera-motion property in declaration order.
func CamProps() []CamProp {
	props := make([]CamProp, 0, len(camPropNames))
	for p := CamPan; p <= CamLamp; p++ {
		props = append(props, p)
	}

	return props
}

// VidProp identifies a video/image processing property.
type VidProp int

const (
	VidBrightness VidProp = iota
	VidContrast
	VidHue
	VidSaturation
	VidSharpness
	VidGamma
	VidColorEnable
	VidWhiteBalance
	VidBacklightCompensation
	VidGain
)

var vidPropNames = map[VidProp]string{
	VidBrightness:            "brightness",
	VidContrast:              "contrast",
	VidHue:                   "hue",
	VidSaturation:            "saturation",
	VidSharpness:             "sharpness",
	VidGamma:                 "gamma",
	VidColorEnable:           "color_enable",
	VidWhiteBalance:          "white_balance",
	VidBacklightCompensation: "backlight_compensation",
	VidGain:                  "gain",
}

func (p VidProp) String() string {
	if name, ok := vidPropNames[p]; ok {
		return name
	}

	return fmt.Sprintf("vid_prop(%d)", int(p))
}

func (p VidProp) IsValid() bool {
	_, ok := vidPropNames[p]

	return ok
}

// VidProps returns every video property in declaration order.
func VidProps() []VidProp {
	props := make([]VidProp, 0, len(vidPropNames))
	for p := VidBrightness; p <= VidGain; p++ {
		props = append(props, p)
	}

	return props
}

// ErrUnsupported builds the canonical "known but not supported by this
// device" failure for a property, shared by the snapshot and the core.
func ErrUnsupported(domain Domain, name string) result.Error {
	return result.Errorf(result.KindPropertyNotSupported,
		"%s property %s is not supported by this device", domain, name)
}
