package device

import (
	"github.com/openuvc/uvcctl/pkg/property"
	"github.com/openuvc/uvcctl/pkg/result"
)

type (
	// PropertyConn is the narrow slice of a device connection the
	// capability scanner needs. platform.Connection satisfies it.
	PropertyConn interface {
		IsValid() bool
		CameraProperty(property.CamProp) result.Result[property.Setting]
		CameraPropertyRange(property.CamProp) result.Result[property.Range]
		VideoProperty(property.VidProp) result.Result[property.Setting]
		VideoPropertyRange(property.VidProp) result.Result[property.Range]
	}

	// ConnectFunc opens a fresh connection for a scan. Capabilities
	// keeps it so Refresh can re-query the collaborator later.
	ConnectFunc func(Device) result.Result[PropertyConn]

	// PropertyCapability is the per-property slice of a snapshot. When
	// Supported is false, Range and Current are zero-valued fillers,
	// not device data.
	PropertyCapability struct {
		Supported bool
		Range     property.Range
		Current   property.Setting
	}

	// Capabilities is a point-in-time snapshot of one device's
	// property support. It never auto-refreshes; Refresh replaces the
	// contents in place.
	Capabilities struct {
		device     Device
		accessible bool
		connect    ConnectFunc
		camera     map[property.CamProp]PropertyCapability
		video      map[property.VidProp]PropertyCapability
	}
)

// SupportsAuto is derived from the range metadata rather than stored,
// so the two cannot drift apart.
func (c PropertyCapability) SupportsAuto() bool {
	return c.Supported && c.Range.DefaultMode == property.ModeAuto
}

// NewCapabilities scans the device once and returns its snapshot. The
// scan itself succeeding with zero supported properties is not an
// error; failing to reach the device at all is.
func NewCapabilities(dev Device, connect ConnectFunc) result.Result[*Capabilities] {
	if !dev.IsValid() {
		return result.Err[*Capabilities](result.KindInvalidArgument, "device has no path")
	}

	caps := &Capabilities{device: dev, connect: connect}
	if res := caps.scan(); !res.IsOK() {
		return result.ErrFrom[*Capabilities](res.Err())
	}

	return result.Ok(caps)
}

func (c *Capabilities) scan() result.Result[result.Void] {
	connRes := c.connect(c.device)
	if !connRes.IsOK() {
		c.accessible = false

		return result.ErrFrom[result.Void](connRes.Err())
	}

	conn := connRes.Value()
	c.accessible = conn.IsValid()

	camera := make(map[property.CamProp]PropertyCapability, len(property.CamProps()))
	for _, p := range property.CamProps() {
		camera[p] = scanOne(conn.CameraPropertyRange(p), conn.CameraProperty(p))
	}

	video := make(map[property.VidProp]PropertyCapability, len(property.VidProps()))
	for _, p := range property.VidProps() {
		video[p] = scanOne(conn.VideoPropertyRange(p), conn.VideoProperty(p))
	}

	c.camera = camera
	c.video = video

	return result.OkVoid()
}

// scanOne folds one property's range and current-value queries into a
// capability entry. A range the device reports malformed is treated as
// unsupported rather than poisoning the whole snapshot.
func scanOne(rangeRes result.Result[property.Range], settingRes result.Result[property.Setting]) PropertyCapability {
	if !rangeRes.IsOK() || !settingRes.IsOK() {
		return PropertyCapability{}
	}

	r := rangeRes.Value()
	if err := r.Validate(); err != nil {
		return PropertyCapability{}
	}

	return PropertyCapability{
		Supported: true,
		Range:     r,
		Current:   settingRes.Value(),
	}
}

// Refresh re-queries the collaborator and replaces the snapshot's
// contents in place.
func (c *Capabilities) Refresh() result.Result[result.Void] {
	return c.scan()
}

func (c *Capabilities) Device() Device {
	return c.device
}

func (c *Capabilities) IsDeviceAccessible() bool {
	return c.accessible
}

// CameraCapability answers for every known camera property; asking
// about an unsupported one returns a capability with Supported false,
// never a failure.
func (c *Capabilities) CameraCapability(p property.CamProp) PropertyCapability {
	return c.camera[p]
}

// VideoCapability answers for every known video property.
func (c *Capabilities) VideoCapability(p property.VidProp) PropertyCapability {
	return c.video[p]
}

func (c *Capabilities) SupportsCamera(p property.CamProp) bool {
	return c.camera[p].Supported
}

func (c *Capabilities) SupportsVideo(p property.VidProp) bool {
	return c.video[p].Supported
}

// SupportedCameraProps lists supported camera properties in
// declaration order.
func (c *Capabilities) SupportedCameraProps() []property.CamProp {
	var props []property.CamProp
	for _, p := range property.CamProps() {
		if c.camera[p].Supported {
			props = append(props, p)
		}
	}

	return props
}

// SupportedVideoProps lists supported video properties in declaration
// order.
func (c *Capabilities) SupportedVideoProps() []property.VidProp {
	var props []property.VidProp
	for _, p := range property.VidProps() {
		if c.video[p].Supported {
			props = append(props, p)
		}
	}

	return props
}

// SupportedNames yields the canonical names of every supported
// property across both domains.
func (c *Capabilities) SupportedNames() []string {
	names := make([]string, 0, c.Len())
	for _, p := range c.SupportedCameraProps() {
		names = append(names, p.String())
	}

	for _, p := range c.SupportedVideoProps() {
		names = append(names, p.String())
	}

	return names
}

// Len is the count of supported properties across both domains.
func (c *Capabilities) Len() int {
	count := 0
	for _, cap := range c.camera {
		if cap.Supported {
			count++
		}
	}

	for _, cap := range c.video {
		if cap.Supported {
			count++
		}
	}

	return count
}
