package camera

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	"github.com/openuvc/uvcctl/pkg/circuitbreaker"
	"github.com/openuvc/uvcctl/pkg/device"
	"github.com/openuvc/uvcctl/pkg/logger"
	"github.com/openuvc/uvcctl/pkg/metrics"
	"github.com/openuvc/uvcctl/pkg/metrics/noop"
	"github.com/openuvc/uvcctl/pkg/platform"
	"github.com/openuvc/uvcctl/pkg/property"
	"github.com/openuvc/uvcctl/pkg/result"
)

type (
	controllerOptions struct {
		log          logger.Logger
		metrics      metrics.Client
		strictValues bool
		strictStep   bool
		breaker      *circuitbreaker.Config
		busyRetries  uint
		busyInterval time.Duration
	}

	Option func(*controllerOptions)

	// Controller is the error-raising façade over the Result core. It
	// resolves property names, consults the capability snapshot before
	// touching the device, and applies the write policy (clamp by
	// default, reject when strict). Not safe for concurrent use.
	Controller struct {
		backend platform.Backend
		cam     *Camera
		caps    *device.Capabilities
		custom  map[string]Preset

		log     logger.Logger
		metrics metrics.Client

		strictValues bool
		strictStep   bool
	}
)

func WithLogger(log logger.Logger) Option {
	return func(o *controllerOptions) { o.log = log }
}

func WithMetrics(m metrics.Client) Option {
	return func(o *controllerOptions) { o.metrics = m }
}

// WithStrictValues rejects out-of-range writes instead of clamping
// them.
func WithStrictValues() Option {
	return func(o *controllerOptions) { o.strictValues = true }
}

// WithStrictStep additionally rejects values not aligned to the
// property's step. Implies nothing unless WithStrictValues is also set.
func WithStrictStep() Option {
	return func(o *controllerOptions) { o.strictStep = true }
}

// WithBreaker wraps the backend in a circuit breaker so a wedged
// device stops being hammered.
func WithBreaker(cfg circuitbreaker.Config) Option {
	return func(o *controllerOptions) { o.breaker = &cfg }
}

// WithBusyRetry tunes how connection attempts back off while the
// device reports busy.
func WithBusyRetry(tries uint, initialInterval time.Duration) Option {
	return func(o *controllerOptions) {
		o.busyRetries = tries
		o.busyInterval = initialInterval
	}
}

// NewController opens a controller for dev.
func NewController(backend platform.Backend, dev device.Device, opts ...Option) (*Controller, error) {
	options := controllerOptions{
		log:          logger.Logger{Logger: zerolog.Nop()},
		metrics:      noop.NewMetricsClient(),
		busyRetries:  defaultBusyRetries,
		busyInterval: defaultBusyInterval,
	}
	for _, opt := range opts {
		opt(&options)
	}

	if options.breaker != nil {
		backend = platform.WithBreaker(backend, *options.breaker, options.log)
	}

	camRes := Open(backend, dev)
	if !camRes.IsOK() {
		return nil, FromResultError(camRes.Err(), "open "+dev.Path)
	}

	cam := camRes.Value()
	cam.busyRetries = options.busyRetries
	cam.busyInterval = options.busyInterval

	return &Controller{
		backend:      backend,
		cam:          cam,
		custom:       make(map[string]Preset),
		log:          options.log,
		metrics:      options.metrics,
		strictValues: options.strictValues,
		strictStep:   options.strictStep,
	}, nil
}

// OpenFirst opens a controller for the first enumerated device.
func OpenFirst(backend platform.Backend, opts ...Option) (*Controller, error) {
	return OpenIndexController(backend, 0, opts...)
}

// OpenIndexController opens a controller for the i-th enumerated
// device.
func OpenIndexController(backend platform.Backend, i int, opts ...Option) (*Controller, error) {
	devRes := deviceAt(backend, i)
	if !devRes.IsOK() {
		return nil, FromResultError(devRes.Err(), "enumerate devices")
	}

	return NewController(backend, devRes.Value(), opts...)
}

// OpenNamed opens a controller for the first device whose name
// contains pattern, case-insensitively.
func OpenNamed(backend platform.Backend, pattern string, opts ...Option) (*Controller, error) {
	devRes := FindDevice(backend, pattern)
	if !devRes.IsOK() {
		return nil, FromResultError(devRes.Err(), "find device "+pattern)
	}

	return NewController(backend, devRes.Value(), opts...)
}

func (c *Controller) Device() device.Device {
	return c.cam.Device()
}

func (c *Controller) DeviceName() string {
	return c.cam.Device().Name
}

func (c *Controller) DevicePath() string {
	return c.cam.Device().Path
}

// IsConnected asks the backend whether the device is still present.
func (c *Controller) IsConnected() (bool, error) {
	res := c.backend.IsConnected(c.cam.Device())
	if !res.IsOK() {
		return false, FromResultError(res.Err(), "is connected")
	}

	return res.Value(), nil
}

// Close releases the device connection. The controller reconnects on
// the next operation.
func (c *Controller) Close() error {
	return c.cam.Close()
}

func (c *Controller) opCtx(op string) context.Context {
	ctx := context.WithValue(context.Background(), logger.ContextKeyDevicePath, c.cam.Device().Path)

	return context.WithValue(ctx, logger.ContextKeyOperation, op)
}

// Capabilities returns the device's capability snapshot, scanning on
// first use. The snapshot is point-in-time; use RefreshCapabilities to
// re-query the device.
func (c *Controller) Capabilities() (*device.Capabilities, error) {
	if c.caps != nil {
		return c.caps, nil
	}

	capsRes := GetCapabilities(c.backend, c.cam.Device())
	if !capsRes.IsOK() {
		return nil, FromResultError(capsRes.Err(), "scan capabilities")
	}

	c.caps = capsRes.Value()

	return c.caps, nil
}

func (c *Controller) RefreshCapabilities() error {
	if c.caps == nil {
		_, err := c.Capabilities()

		return err
	}

	if res := c.caps.Refresh(); !res.IsOK() {
		return FromResultError(res.Err(), "refresh capabilities")
	}

	return nil
}

// capability resolves the snapshot entry for ref, raising
// PropertyNotSupported before any device access when the entry says so.
func (c *Controller) capability(ref property.Ref) (device.PropertyCapability, error) {
	caps, err := c.Capabilities()
	if err != nil {
		return device.PropertyCapability{}, err
	}

	var cap device.PropertyCapability
	if ref.Domain == property.DomainCamera {
		cap = caps.CameraCapability(ref.Cam)
	} else {
		cap = caps.VideoCapability(ref.Vid)
	}

	if !cap.Supported {
		return device.PropertyCapability{}, &Error{
			Kind:    result.KindPropertyNotSupported,
			Message: "property " + ref.Name() + " not supported by device",
			Context: c.cam.Device().Path,
		}
	}

	return cap, nil
}

func resolve(name string) (property.Ref, error) {
	res := property.Resolve(name)
	if !res.IsOK() {
		return property.Ref{}, FromResultError(res.Err(), "resolve property name")
	}

	return res.Value(), nil
}

func (c *Controller) getSetting(ref property.Ref) result.Result[property.Setting] {
	if ref.Domain == property.DomainCamera {
		return c.cam.CameraProperty(ref.Cam)
	}

	return c.cam.VideoProperty(ref.Vid)
}

func (c *Controller) putSetting(ref property.Ref, s property.Setting) result.Result[result.Void] {
	if ref.Domain == property.DomainCamera {
		return c.cam.SetCameraProperty(ref.Cam, s)
	}

	return c.cam.SetVideoProperty(ref.Vid, s)
}

// GetSetting reads the property's current value and control mode.
func (c *Controller) GetSetting(name string) (property.Setting, error) {
	ref, err := resolve(name)
	if err != nil {
		return property.Setting{}, err
	}

	if _, err := c.capability(ref); err != nil {
		return property.Setting{}, err
	}

	ctx := c.opCtx("get")

	res := c.getSetting(ref)
	if !res.IsOK() {
		c.metrics.Inc(ctx, metrics.KeyPropertyErrors, 1, attribute.String("property", ref.Name()))

		return property.Setting{}, FromResultError(res.Err(), "get "+ref.Name())
	}

	c.metrics.Inc(ctx, metrics.KeyPropertyReads, 1, attribute.String("property", ref.Name()))
	log := c.log.WithContext(ctx)
	log.Debug().
		Str("property", ref.Name()).
		Stringer("setting", res.Value()).
		Msg("property read")

	return res.Value(), nil
}

// Get reads the property's current value.
func (c *Controller) Get(name string) (int, error) {
	setting, err := c.GetSetting(name)
	if err != nil {
		return 0, err
	}

	return setting.Value, nil
}

// Set writes a manual value. Out-of-range and off-step values are
// clamped to the nearest valid value unless the controller was opened
// with WithStrictValues, in which case they are rejected.
func (c *Controller) Set(name string, value int) error {
	ref, err := resolve(name)
	if err != nil {
		return err
	}

	return c.setResolved(ref, ValueOf(value))
}

// SetAuto hands the property back to device automation.
func (c *Controller) SetAuto(name string) error {
	ref, err := resolve(name)
	if err != nil {
		return err
	}

	return c.setResolved(ref, AutoValue())
}

// SetMode writes a value with an explicit control mode. ModeAuto
// ignores value and behaves like SetAuto.
func (c *Controller) SetMode(name string, value int, mode property.Mode) error {
	if mode == property.ModeAuto {
		return c.SetAuto(name)
	}

	return c.Set(name, value)
}

// SetValue writes a manual value or switches to auto, depending on v.
func (c *Controller) SetValue(name string, v Value) error {
	ref, err := resolve(name)
	if err != nil {
		return err
	}

	return c.setResolved(ref, v)
}

func (c *Controller) setResolved(ref property.Ref, v Value) error {
	cap, err := c.capability(ref)
	if err != nil {
		return err
	}

	setting, err := c.settingFor(ref, cap, v)
	if err != nil {
		return err
	}

	ctx := c.opCtx("set")

	res := c.putSetting(ref, setting)
	if !res.IsOK() {
		c.metrics.Inc(ctx, metrics.KeyPropertyErrors, 1, attribute.String("property", ref.Name()))

		return FromResultError(res.Err(), "set "+ref.Name())
	}

	c.metrics.Inc(ctx, metrics.KeyPropertyWrites, 1, attribute.String("property", ref.Name()))
	log := c.log.WithContext(ctx)
	log.Debug().
		Str("property", ref.Name()).
		Stringer("setting", setting).
		Msg("property written")

	return nil
}

// settingFor applies the write policy to produce the setting actually
// sent to the device.
func (c *Controller) settingFor(ref property.Ref, cap device.PropertyCapability, v Value) (property.Setting, error) {
	if v.IsAuto() {
		if !cap.SupportsAuto() {
			return property.Setting{}, &Error{
				Kind:    result.KindInvalidValue,
				Message: "property " + ref.Name() + " does not support automatic mode",
			}
		}

		return property.NewSetting(cap.Range.Default, property.ModeAuto), nil
	}

	value := v.Int()
	if c.strictValues {
		valid := cap.Range.IsValid(value)
		if c.strictStep {
			valid = cap.Range.IsValidStrict(value)
		}

		if !valid {
			return property.Setting{}, newError(result.KindInvalidValue,
				"value %d outside range [%d, %d] step %d for %s",
				value, cap.Range.Min, cap.Range.Max, cap.Range.Step, ref.Name())
		}
	}

	return property.NewSetting(cap.Range.Clamp(value), property.ModeManual), nil
}

// GetMultiple reads several properties and returns only the successful
// reads. Unsupported or failing properties are simply absent; an empty
// input yields an empty map.
func (c *Controller) GetMultiple(names ...string) map[string]int {
	values := make(map[string]int, len(names))
	for _, name := range names {
		value, err := c.Get(name)
		if err != nil {
			continue
		}

		values[name] = value
	}

	return values
}

// SetMultiple applies several writes independently and reports per-name
// success. The returned map always has exactly the input's keys; one
// failure never aborts the rest.
func (c *Controller) SetMultiple(values map[string]Value) map[string]bool {
	statuses := make(map[string]bool, len(values))
	for name, v := range values {
		statuses[name] = c.SetValue(name, v) == nil
	}

	return statuses
}

// PropertyRange returns the property's range metadata from the
// capability snapshot.
func (c *Controller) PropertyRange(name string) (property.Range, error) {
	ref, err := resolve(name)
	if err != nil {
		return property.Range{}, err
	}

	cap, err := c.capability(ref)
	if err != nil {
		return property.Range{}, err
	}

	return cap.Range, nil
}

// ListProperties returns every property name the layer knows, sorted,
// regardless of device support.
func (c *Controller) ListProperties() []string {
	return property.Names()
}

// PropertyAliases returns the alias table keyed by canonical name.
func (c *Controller) PropertyAliases() map[string][]string {
	return property.Aliases()
}

// SupportedProperties groups the device's supported property names by
// domain.
func (c *Controller) SupportedProperties() (map[string][]string, error) {
	caps, err := c.Capabilities()
	if err != nil {
		return nil, err
	}

	camera := make([]string, 0, len(caps.SupportedCameraProps()))
	for _, p := range caps.SupportedCameraProps() {
		camera = append(camera, p.String())
	}

	video := make([]string, 0, len(caps.SupportedVideoProps()))
	for _, p := range caps.SupportedVideoProps() {
		video = append(video, p.String())
	}

	return map[string][]string{"camera": camera, "video": video}, nil
}

// ResetToDefaults writes every supported property back to its default
// value and mode, reporting per-property success.
func (c *Controller) ResetToDefaults() (map[string]bool, error) {
	caps, err := c.Capabilities()
	if err != nil {
		return nil, err
	}

	statuses := make(map[string]bool, caps.Len())
	for _, p := range caps.SupportedCameraProps() {
		res := c.cam.SetCameraProperty(p, caps.CameraCapability(p).Range.DefaultSetting())
		statuses[p.String()] = res.IsOK()
	}

	for _, p := range caps.SupportedVideoProps() {
		res := c.cam.SetVideoProperty(p, caps.VideoCapability(p).Range.DefaultSetting())
		statuses[p.String()] = res.IsOK()
	}

	return statuses, nil
}

// relativeMove adjusts prop by delta, preferring the device's native
// relative control when present and falling back to
// read-modify-write on the absolute property.
func (c *Controller) relativeMove(absolute, relative property.CamProp, delta int) error {
	caps, err := c.Capabilities()
	if err != nil {
		return err
	}

	if caps.SupportsCamera(relative) {
		res := c.cam.SetCameraProperty(relative, property.NewSetting(delta, property.ModeManual))
		if !res.IsOK() {
			return FromResultError(res.Err(), "set "+relative.String())
		}

		return nil
	}

	ref := property.CamRef(absolute)

	if _, err := c.capability(ref); err != nil {
		return err
	}

	current := c.getSetting(ref)
	if !current.IsOK() {
		return FromResultError(current.Err(), "get "+ref.Name())
	}

	return c.setResolved(ref, ValueOf(current.Value().Value+delta))
}

func (c *Controller) PanRelative(delta int) error {
	return c.relativeMove(property.CamPan, property.CamPanRelative, delta)
}

func (c *Controller) TiltRelative(delta int) error {
	return c.relativeMove(property.CamTilt, property.CamTiltRelative, delta)
}

func (c *Controller) ZoomRelative(delta int) error {
	return c.relativeMove(property.CamZoom, property.CamZoomRelative, delta)
}

// SetPanTilt positions both axes, using the combined pan_tilt control
// in a single write when the device has one and falling back to two
// absolute writes otherwise.
func (c *Controller) SetPanTilt(pan, tilt int) error {
	caps, err := c.Capabilities()
	if err != nil {
		return err
	}

	if caps.SupportsCamera(property.CamPanTilt) {
		res := c.cam.SetCameraProperty(property.CamPanTilt,
			property.NewSetting(packPanTilt(pan, tilt), property.ModeManual))
		if !res.IsOK() {
			return FromResultError(res.Err(), "set pan_tilt")
		}

		return nil
	}

	if err := c.setResolved(property.CamRef(property.CamPan), ValueOf(pan)); err != nil {
		return err
	}

	return c.setResolved(property.CamRef(property.CamTilt), ValueOf(tilt))
}

// CenterPanTilt returns both axes to their zero position.
func (c *Controller) CenterPanTilt() error {
	return c.SetPanTilt(0, 0)
}

// packPanTilt encodes both axes into the combined control's value:
// pan in the high 16 bits, tilt in the low 16, each a signed 16-bit
// quantity.
func packPanTilt(pan, tilt int) int {
	return int(int32(int16(pan))<<16 | int32(uint16(int16(tilt))))
}

// PresetNames lists every applicable preset, built-in and custom,
// sorted and deduplicated.
func (c *Controller) PresetNames() []string {
	seen := make(map[string]bool, len(builtinPresets)+len(c.custom))
	for name := range builtinPresets {
		seen[name] = true
	}

	for name := range c.custom {
		seen[name] = true
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Preset looks up a preset by name. Custom presets shadow built-ins.
// The returned map is a copy.
func (c *Controller) Preset(name string) (Preset, bool) {
	preset, ok := c.custom[name]
	if !ok {
		preset, ok = builtinPresets[name]
	}

	if !ok {
		return nil, false
	}

	copied := make(Preset, len(preset))
	for k, v := range preset {
		copied[k] = v
	}

	return copied, true
}

// ApplyPreset applies a preset as one SetMultiple batch. An unknown
// preset name fails before any device access.
func (c *Controller) ApplyPreset(name string) (map[string]bool, error) {
	preset, ok := c.Preset(name)
	if !ok {
		return nil, newError(result.KindInvalidArgument, "unknown preset %q", name)
	}

	statuses := c.SetMultiple(preset)

	ctx := c.opCtx("apply_preset")
	c.metrics.Inc(ctx, metrics.KeyPresetsApplied, 1, attribute.String("preset", name))
	log := c.log.WithContext(ctx)
	log.Info().
		Str("preset", name).
		Int("properties", len(statuses)).
		Msg("preset applied")

	return statuses, nil
}

// CreateCustomPreset registers a custom preset, shadowing any built-in
// of the same name. Every property name in the preset must resolve.
func (c *Controller) CreateCustomPreset(name string, preset Preset) error {
	if name == "" {
		return newError(result.KindInvalidArgument, "preset name must not be empty")
	}

	if len(preset) == 0 {
		return newError(result.KindInvalidArgument, "preset %q has no properties", name)
	}

	for propName := range preset {
		if _, err := resolve(propName); err != nil {
			return err
		}
	}

	copied := make(Preset, len(preset))
	for k, v := range preset {
		copied[k] = v
	}

	c.custom[name] = copied

	return nil
}

// DeleteCustomPreset removes a custom preset, reporting whether it
// existed. Built-ins cannot be deleted.
func (c *Controller) DeleteCustomPreset(name string) bool {
	_, ok := c.custom[name]
	delete(c.custom, name)

	return ok
}

func (c *Controller) ClearCustomPresets() {
	c.custom = make(map[string]Preset)
}

// CustomPresets returns a copy of the registered custom presets.
func (c *Controller) CustomPresets() map[string]Preset {
	presets := make(map[string]Preset, len(c.custom))
	for name, preset := range c.custom {
		copied := make(Preset, len(preset))
		for k, v := range preset {
			copied[k] = v
		}

		presets[name] = copied
	}

	return presets
}

// CustomPresetNames lists registered custom presets, sorted.
func (c *Controller) CustomPresetNames() []string {
	names := make([]string, 0, len(c.custom))
	for name := range c.custom {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// LoadPresets merges custom presets from a YAML file into the
// controller, validating every property name.
func (c *Controller) LoadPresets(path string) error {
	presets, err := loadPresetsFile(path)
	if err != nil {
		return newError(result.KindInvalidArgument, "%s", err.Error())
	}

	for name, preset := range presets {
		if err := c.CreateCustomPreset(name, preset); err != nil {
			return err
		}
	}

	return nil
}

// SavePresets writes the controller's custom presets to a YAML file.
func (c *Controller) SavePresets(path string) error {
	if err := savePresetsFile(path, c.custom); err != nil {
		return newError(result.KindSystemError, "%s", err.Error())
	}

	return nil
}

// ReadVendorProperty reads an opaque vendor extension payload. The
// property-set GUID accepts braced, canonical, and bare-hex forms.
func (c *Controller) ReadVendorProperty(set string, id uint32) ([]byte, error) {
	guidRes := platform.ParseGUID(set)
	if !guidRes.IsOK() {
		return nil, FromResultError(guidRes.Err(), "parse vendor property set")
	}

	ctx := c.opCtx("vendor_read")

	res := c.backend.ReadVendorProperty(c.cam.Device(), guidRes.Value(), id)
	if !res.IsOK() {
		return nil, FromResultError(res.Err(), "read vendor property")
	}

	c.metrics.Inc(ctx, metrics.KeyVendorTransfers, 1, attribute.String("direction", "read"))

	return res.Value(), nil
}

// WriteVendorProperty writes an opaque vendor extension payload.
func (c *Controller) WriteVendorProperty(set string, id uint32, data []byte) error {
	guidRes := platform.ParseGUID(set)
	if !guidRes.IsOK() {
		return FromResultError(guidRes.Err(), "parse vendor property set")
	}

	ctx := c.opCtx("vendor_write")

	res := c.backend.WriteVendorProperty(c.cam.Device(), guidRes.Value(), id, data)
	if !res.IsOK() {
		return FromResultError(res.Err(), "write vendor property")
	}

	c.metrics.Inc(ctx, metrics.KeyVendorTransfers, 1, attribute.String("direction", "write"))

	return nil
}
