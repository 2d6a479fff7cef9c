// Package fake is an in-memory implementation of the platform backend
// contract, used by tests and as the CLI demo backend. It counts every
// call, supports failure injection per operation, and can emit hotplug
// events on demand.
package fake

import (
	"fmt"
	"sync"

	"github.com/openuvc/uvcctl/pkg/device"
	"github.com/openuvc/uvcctl/pkg/platform"
	"github.com/openuvc/uvcctl/pkg/property"
	"github.com/openuvc/uvcctl/pkg/result"
)

type (
	Backend struct {
		mu       sync.Mutex
		devices  []device.Device
		states   map[string]*DeviceState
		calls    map[string]int
		failures map[string]result.Error
		callback device.ChangeCallback
	}

	// DeviceState is the mutable hardware model behind one fake
	// device: which properties it supports and their current values.
	DeviceState struct {
		mu        sync.Mutex
		connected bool
		camera    map[property.CamProp]*propState
		video     map[property.VidProp]*propState
		vendor    map[string][]byte
	}

	propState struct {
		rng     property.Range
		current property.Setting
	}
)

func New() *Backend {
	return &Backend{
		states:   make(map[string]*DeviceState),
		calls:    make(map[string]int),
		failures: make(map[string]result.Error),
	}
}

// NewSeeded returns a backend with one realistic camera: PTZ plus the
// common video properties.
func NewSeeded() (*Backend, device.Device) {
	b := New()
	dev := device.New("Fake UVC Camera", "fake:0000")

	st := b.AddDevice(dev)
	st.SetCamera(property.CamPan, property.Range{Min: -180, Max: 180, Step: 1, Default: 0, DefaultMode: property.ModeManual})
	st.SetCamera(property.CamTilt, property.Range{Min: -90, Max: 90, Step: 1, Default: 0, DefaultMode: property.ModeManual})
	st.SetCamera(property.CamZoom, property.Range{Min: 100, Max: 400, Step: 10, Default: 100, DefaultMode: property.ModeManual})
	st.SetCamera(property.CamFocus, property.Range{Min: 0, Max: 255, Step: 5, Default: 128, DefaultMode: property.ModeAuto})
	st.SetCamera(property.CamExposure, property.Range{Min: -11, Max: -2, Step: 1, Default: -6, DefaultMode: property.ModeAuto})
	st.SetVideo(property.VidBrightness, property.Range{Min: 0, Max: 100, Step: 1, Default: 50, DefaultMode: property.ModeManual})
	st.SetVideo(property.VidContrast, property.Range{Min: 0, Max: 100, Step: 1, Default: 50, DefaultMode: property.ModeManual})
	st.SetVideo(property.VidSaturation, property.Range{Min: 0, Max: 100, Step: 1, Default: 64, DefaultMode: property.ModeManual})
	st.SetVideo(property.VidWhiteBalance, property.Range{Min: 2800, Max: 6500, Step: 100, Default: 4600, DefaultMode: property.ModeAuto})
	st.SetVideo(property.VidGain, property.Range{Min: 0, Max: 255, Step: 1, Default: 32, DefaultMode: property.ModeManual})

	return b, dev
}

// AddDevice registers a device and returns its mutable state.
func (b *Backend) AddDevice(dev device.Device) *DeviceState {
	b.mu.Lock()
	defer b.mu.Unlock()

	st := &DeviceState{
		connected: true,
		camera:    make(map[property.CamProp]*propState),
		video:     make(map[property.VidProp]*propState),
		vendor:    make(map[string][]byte),
	}
	b.devices = append(b.devices, dev)
	b.states[dev.Key()] = st

	return st
}

// FailWith injects a persistent failure for the named operation
// ("ListDevices", "CreateConnection", "CameraProperty", ...).
func (b *Backend) FailWith(op string, err result.Error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failures[op] = err
}

// ClearFailures removes all injected failures.
func (b *Backend) ClearFailures() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failures = make(map[string]result.Error)
}

// Calls returns how many times the named operation ran.
func (b *Backend) Calls(op string) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.calls[op]
}

// TotalCalls returns the number of backend operations of any kind.
func (b *Backend) TotalCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	total := 0
	for _, n := range b.calls {
		total += n
	}

	return total
}

// TriggerDeviceChange synthesizes a hotplug event, delivering it on the
// caller's goroutine like a real notification thread would.
func (b *Backend) TriggerDeviceChange(added bool, path string) {
	b.mu.Lock()
	cb := b.callback
	b.mu.Unlock()

	if cb != nil {
		cb(added, path)
	}
}

// HasCallback reports whether a hotplug callback is registered.
func (b *Backend) HasCallback() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.callback != nil
}

func (b *Backend) record(op string) result.Error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.calls[op]++
	if err, ok := b.failures[op]; ok {
		return err
	}

	return result.Error{}
}

func (b *Backend) ListDevices() result.Result[[]device.Device] {
	if err := b.record("ListDevices"); err.Code() != result.KindSuccess {
		return result.ErrFrom[[]device.Device](err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]device.Device, len(b.devices))
	copy(out, b.devices)

	return result.Ok(out)
}

func (b *Backend) IsConnected(dev device.Device) result.Result[bool] {
	if err := b.record("IsConnected"); err.Code() != result.KindSuccess {
		return result.ErrFrom[bool](err)
	}

	b.mu.Lock()
	st, ok := b.states[dev.Key()]
	b.mu.Unlock()

	if !ok {
		return result.Err[bool](result.KindDeviceNotFound, "unknown device "+dev.Key())
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	return result.Ok(st.connected)
}

func (b *Backend) CreateConnection(dev device.Device) result.Result[platform.Connection] {
	if err := b.record("CreateConnection"); err.Code() != result.KindSuccess {
		return result.ErrFrom[platform.Connection](err)
	}

	b.mu.Lock()
	st, ok := b.states[dev.Key()]
	b.mu.Unlock()

	if !ok {
		return result.Err[platform.Connection](result.KindDeviceNotFound, "unknown device "+dev.Key())
	}

	st.mu.Lock()
	connected := st.connected
	st.mu.Unlock()

	if !connected {
		return result.Err[platform.Connection](result.KindDeviceBusy, "device is not connected")
	}

	return result.Ok[platform.Connection](&connection{backend: b, state: st})
}

func (b *Backend) RegisterDeviceChange(cb device.ChangeCallback) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.callback = cb
}

func (b *Backend) UnregisterDeviceChange() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.callback = nil
}

func (b *Backend) ReadVendorProperty(dev device.Device, set platform.GUID, id uint32) result.Result[[]byte] {
	if err := b.record("ReadVendorProperty"); err.Code() != result.KindSuccess {
		return result.ErrFrom[[]byte](err)
	}

	b.mu.Lock()
	st, ok := b.states[dev.Key()]
	b.mu.Unlock()

	if !ok {
		return result.Err[[]byte](result.KindDeviceNotFound, "unknown device "+dev.Key())
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	data, ok := st.vendor[vendorKey(set, id)]
	if !ok {
		return result.Err[[]byte](result.KindPropertyNotSupported, "vendor property not present")
	}

	out := make([]byte, len(data))
	copy(out, data)

	return result.Ok(out)
}

func (b *Backend) WriteVendorProperty(dev device.Device, set platform.GUID, id uint32, data []byte) result.Result[result.Void] {
	if err := b.record("WriteVendorProperty"); err.Code() != result.KindSuccess {
		return result.ErrFrom[result.Void](err)
	}

	b.mu.Lock()
	st, ok := b.states[dev.Key()]
	b.mu.Unlock()

	if !ok {
		return result.Err[result.Void](result.KindDeviceNotFound, "unknown device "+dev.Key())
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	stored := make([]byte, len(data))
	copy(stored, data)
	st.vendor[vendorKey(set, id)] = stored

	return result.OkVoid()
}

func vendorKey(set platform.GUID, id uint32) string {
	return fmt.Sprintf("%s/%d", set, id)
}

// SetCamera declares a supported camera property, initialized to the
// range default.
func (s *DeviceState) SetCamera(p property.CamProp, r property.Range) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.camera[p] = &propState{rng: r, current: r.DefaultSetting()}
}

// SetVideo declares a supported video property, initialized to the
// range default.
func (s *DeviceState) SetVideo(p property.VidProp, r property.Range) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.video[p] = &propState{rng: r, current: r.DefaultSetting()}
}

// SetVendor seeds a vendor property payload.
func (s *DeviceState) SetVendor(set platform.GUID, id uint32, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.vendor[vendorKey(set, id)] = data
}

// SetConnected toggles device reachability.
func (s *DeviceState) SetConnected(connected bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.connected = connected
}

// CameraValue reads back the stored setting for assertions.
func (s *DeviceState) CameraValue(p property.CamProp) (property.Setting, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.camera[p]
	if !ok {
		return property.Setting{}, false
	}

	return st.current, true
}

// VideoValue reads back the stored setting for assertions.
func (s *DeviceState) VideoValue(p property.VidProp) (property.Setting, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.video[p]
	if !ok {
		return property.Setting{}, false
	}

	return st.current, true
}

type connection struct {
	backend *Backend
	state   *DeviceState
	closed  bool
}

func (c *connection) IsValid() bool {
	c.state.mu.Lock()
	defer c.state.mu.Unlock()

	return !c.closed && c.state.connected
}

func (c *connection) Close() error {
	c.closed = true

	return nil
}

func (c *connection) CameraProperty(p property.CamProp) result.Result[property.Setting] {
	if err := c.backend.record("CameraProperty"); err.Code() != result.KindSuccess {
		return result.ErrFrom[property.Setting](err)
	}

	c.state.mu.Lock()
	defer c.state.mu.Unlock()

	st, ok := c.state.camera[p]
	if !ok {
		return result.ErrFrom[property.Setting](property.ErrUnsupported(property.DomainCamera, p.String()))
	}

	return result.Ok(st.current)
}

func (c *connection) SetCameraProperty(p property.CamProp, s property.Setting) result.Result[result.Void] {
	if err := c.backend.record("SetCameraProperty"); err.Code() != result.KindSuccess {
		return result.ErrFrom[result.Void](err)
	}

	c.state.mu.Lock()
	defer c.state.mu.Unlock()

	st, ok := c.state.camera[p]
	if !ok {
		return result.ErrFrom[result.Void](property.ErrUnsupported(property.DomainCamera, p.String()))
	}

	if s.Mode == property.ModeManual && !st.rng.IsValid(s.Value) {
		return result.Err[result.Void](result.KindInvalidValue,
			"value out of device range for "+p.String())
	}

	st.current = s

	return result.OkVoid()
}

func (c *connection) CameraPropertyRange(p property.CamProp) result.Result[property.Range] {
	if err := c.backend.record("CameraPropertyRange"); err.Code() != result.KindSuccess {
		return result.ErrFrom[property.Range](err)
	}

	c.state.mu.Lock()
	defer c.state.mu.Unlock()

	st, ok := c.state.camera[p]
	if !ok {
		return result.ErrFrom[property.Range](property.ErrUnsupported(property.DomainCamera, p.String()))
	}

	return result.Ok(st.rng)
}

func (c *connection) VideoProperty(p property.VidProp) result.Result[property.Setting] {
	if err := c.backend.record("VideoProperty"); err.Code() != result.KindSuccess {
		return result.ErrFrom[property.Setting](err)
	}

	c.state.mu.Lock()
	defer c.state.mu.Unlock()

	st, ok := c.state.video[p]
	if !ok {
		return result.ErrFrom[property.Setting](property.ErrUnsupported(property.DomainVideo, p.String()))
	}

	return result.Ok(st.current)
}

func (c *connection) SetVideoProperty(p property.VidProp, s property.Setting) result.Result[result.Void] {
	if err := c.backend.record("SetVideoProperty"); err.Code() != result.KindSuccess {
		return result.ErrFrom[result.Void](err)
	}

	c.state.mu.Lock()
	defer c.state.mu.Unlock()

	st, ok := c.state.video[p]
	if !ok {
		return result.ErrFrom[result.Void](property.ErrUnsupported(property.DomainVideo, p.String()))
	}

	if s.Mode == property.ModeManual && !st.rng.IsValid(s.Value) {
		return result.Err[result.Void](result.KindInvalidValue,
			"value out of device range for "+p.String())
	}

	st.current = s

	return result.OkVoid()
}

func (c *connection) VideoPropertyRange(p property.VidProp) result.Result[property.Range] {
	if err := c.backend.record("VideoPropertyRange"); err.Code() != result.KindSuccess {
		return result.ErrFrom[property.Range](err)
	}

	c.state.mu.Lock()
	defer c.state.mu.Unlock()

	st, ok := c.state.video[p]
	if !ok {
		return result.ErrFrom[property.Range](property.ErrUnsupported(property.DomainVideo, p.String()))
	}

	return result.Ok(st.rng)
}
