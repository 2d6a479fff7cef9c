package camera_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/openuvc/uvcctl/pkg/camera"
	"github.com/openuvc/uvcctl/pkg/device"
	"github.com/openuvc/uvcctl/pkg/logger"
	"github.com/openuvc/uvcctl/pkg/platform/fake"
	"github.com/openuvc/uvcctl/pkg/property"
)

func newTestController(t *testing.T, opts ...camera.Option) (*camera.Controller, *fake.Backend) {
	t.Helper()

	backend, dev := fake.NewSeeded()

	opts = append(opts, camera.WithLogger(logger.NewTestLogger()), camera.WithBusyRetry(2, time.Millisecond))

	ctrl, err := camera.NewController(backend, dev, opts...)
	require.NoError(t, err)

	return ctrl, backend
}

func TestController_SetGetRoundTrip(t *testing.T) {
	t.Parallel()

	cases := []struct {
		property string
		value    int
	}{
		{property: "brightness", value: 75},
		{property: "pan", value: 30},
		{property: "zoom", value: 200},
		{property: "white_balance", value: 4200},
	}

	for _, tc := range cases {
		t.Run(tc.property, func(t *testing.T) {
			t.Parallel()

			ctrl, _ := newTestController(t)

			require.NoError(t, ctrl.Set(tc.property, tc.value))

			got, err := ctrl.Get(tc.property)
			require.NoError(t, err)
			require.Equal(t, tc.value, got)
		})
	}
}

func TestController_RewritingCurrentValueIsSteadyState(t *testing.T) {
	t.Parallel()

	ctrl, _ := newTestController(t)

	before, err := ctrl.Get("zoom")
	require.NoError(t, err)

	require.NoError(t, ctrl.Set("zoom", before))

	after, err := ctrl.Get("zoom")
	require.NoError(t, err)
	require.Equal(t, before, after)
}

func TestController_AliasesResolveToSameProperty(t *testing.T) {
	t.Parallel()

	ctrl, _ := newTestController(t)

	require.NoError(t, ctrl.Set("wb", 3300))

	got, err := ctrl.Get("White Balance")
	require.NoError(t, err)
	require.Equal(t, 3300, got)
}

func TestController_ClampsOutOfRangeWrites(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		property string
		value    int
		want     int
	}{
		{name: "above max saturates", property: "brightness", value: 150, want: 100},
		{name: "below min saturates", property: "pan", value: -999, want: -180},
		{name: "off-step rounds to nearest", property: "zoom", value: 217, want: 220},
		{name: "valid value untouched", property: "zoom", value: 250, want: 250},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl, _ := newTestController(t)

			require.NoError(t, ctrl.Set(tc.property, tc.value))

			got, err := ctrl.Get(tc.property)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestController_StrictValuesRejectsInsteadOfClamping(t *testing.T) {
	t.Parallel()

	ctrl, _ := newTestController(t, camera.WithStrictValues())

	err := ctrl.Set("brightness", 150)
	require.ErrorIs(t, err, camera.ErrInvalidValue)

	got, getErr := ctrl.Get("brightness")
	require.NoError(t, getErr)
	require.Equal(t, 50, got)
}

func TestController_StrictStepRejectsMisalignedValues(t *testing.T) {
	t.Parallel()

	strict, _ := newTestController(t, camera.WithStrictValues(), camera.WithStrictStep())
	require.ErrorIs(t, strict.Set("zoom", 215), camera.ErrInvalidValue)
	require.NoError(t, strict.Set("zoom", 220))

	// Without strict step an in-range value still rounds.
	lenient, _ := newTestController(t, camera.WithStrictValues())
	require.NoError(t, lenient.Set("zoom", 215))

	got, err := lenient.Get("zoom")
	require.NoError(t, err)
	require.Equal(t, 220, got)
}

func TestController_UnknownNameVersusUnsupportedProperty(t *testing.T) {
	t.Parallel()

	ctrl, _ := newTestController(t)

	_, err := ctrl.Get("bogus_property")
	require.ErrorIs(t, err, camera.ErrInvalidArgument)

	// hue is a known name the fake device does not expose.
	_, err = ctrl.Get("hue")
	require.ErrorIs(t, err, camera.ErrPropertyNotSupported)
}

func TestController_UnsupportedChecksSnapshotNotDevice(t *testing.T) {
	t.Parallel()

	ctrl, backend := newTestController(t)

	_, err := ctrl.Capabilities()
	require.NoError(t, err)

	before := backend.TotalCalls()

	_, err = ctrl.Get("hue")
	require.ErrorIs(t, err, camera.ErrPropertyNotSupported)
	require.Equal(t, before, backend.TotalCalls())
}

func TestController_SetAuto(t *testing.T) {
	t.Parallel()

	ctrl, _ := newTestController(t)

	require.NoError(t, ctrl.SetAuto("white_balance"))

	setting, err := ctrl.GetSetting("white_balance")
	require.NoError(t, err)
	require.Equal(t, property.ModeAuto, setting.Mode)

	// brightness defaults to manual control; auto is not available.
	require.ErrorIs(t, ctrl.SetAuto("brightness"), camera.ErrInvalidValue)
}

func TestController_SetMode(t *testing.T) {
	t.Parallel()

	ctrl, _ := newTestController(t)

	require.NoError(t, ctrl.SetMode("focus", 0, property.ModeAuto))

	setting, err := ctrl.GetSetting("focus")
	require.NoError(t, err)
	require.Equal(t, property.ModeAuto, setting.Mode)

	require.NoError(t, ctrl.SetMode("focus", 200, property.ModeManual))

	setting, err = ctrl.GetSetting("focus")
	require.NoError(t, err)
	require.Equal(t, property.NewSetting(200, property.ModeManual), setting)
}

func TestController_GetMultipleKeepsOnlySuccesses(t *testing.T) {
	t.Parallel()

	ctrl, _ := newTestController(t)

	values := ctrl.GetMultiple("brightness", "hue", "bogus", "zoom")
	require.Equal(t, map[string]int{"brightness": 50, "zoom": 100}, values)

	require.Empty(t, ctrl.GetMultiple())
}

func TestController_SetMultipleReportsEveryKey(t *testing.T) {
	t.Parallel()

	ctrl, _ := newTestController(t)

	statuses := ctrl.SetMultiple(map[string]camera.Value{
		"brightness": camera.ValueOf(60),
		"hue":        camera.ValueOf(10),
		"bogus":      camera.ValueOf(1),
	})

	require.Equal(t, map[string]bool{
		"brightness": true,
		"hue":        false,
		"bogus":      false,
	}, statuses)

	got, err := ctrl.Get("brightness")
	require.NoError(t, err)
	require.Equal(t, 60, got)

	require.Empty(t, ctrl.SetMultiple(nil))
}

func TestController_PropertyRange(t *testing.T) {
	t.Parallel()

	ctrl, _ := newTestController(t)

	rng, err := ctrl.PropertyRange("zoom")
	require.NoError(t, err)
	require.Equal(t, property.Range{Min: 100, Max: 400, Step: 10, Default: 100, DefaultMode: property.ModeManual}, rng)

	_, err = ctrl.PropertyRange("hue")
	require.ErrorIs(t, err, camera.ErrPropertyNotSupported)
}

func TestController_SupportedProperties(t *testing.T) {
	t.Parallel()

	ctrl, _ := newTestController(t)

	supported, err := ctrl.SupportedProperties()
	require.NoError(t, err)
	require.Equal(t, []string{"pan", "tilt", "zoom", "exposure", "focus"}, supported["camera"])
	require.Equal(t, []string{"brightness", "contrast", "saturation", "white_balance", "gain"}, supported["video"])
}

func TestController_ResetToDefaults(t *testing.T) {
	t.Parallel()

	ctrl, _ := newTestController(t)

	require.NoError(t, ctrl.Set("brightness", 90))
	require.NoError(t, ctrl.Set("zoom", 300))

	statuses, err := ctrl.ResetToDefaults()
	require.NoError(t, err)
	require.Len(t, statuses, 10)

	for name, ok := range statuses {
		require.True(t, ok, "reset failed for %s", name)
	}

	values := ctrl.GetMultiple("brightness", "zoom", "saturation")
	require.Equal(t, map[string]int{"brightness": 50, "zoom": 100, "saturation": 64}, values)
}

func TestController_RelativeMoveFallsBackToReadModifyWrite(t *testing.T) {
	t.Parallel()

	ctrl, _ := newTestController(t)

	require.NoError(t, ctrl.Set("pan", 10))
	require.NoError(t, ctrl.PanRelative(15))

	got, err := ctrl.Get("pan")
	require.NoError(t, err)
	require.Equal(t, 25, got)

	// The fallback clamps at the range edge.
	require.NoError(t, ctrl.PanRelative(1000))

	got, err = ctrl.Get("pan")
	require.NoError(t, err)
	require.Equal(t, 180, got)
}

func TestController_RelativeMovePrefersNativeControl(t *testing.T) {
	t.Parallel()

	backend := fake.New()
	dev := device.New("PTZ Cam", "fake:ptz")

	st := backend.AddDevice(dev)
	st.SetCamera(property.CamPan, property.Range{Min: -180, Max: 180, Step: 1, Default: 0, DefaultMode: property.ModeManual})
	st.SetCamera(property.CamPanRelative, property.Range{Min: -64, Max: 64, Step: 1, Default: 0, DefaultMode: property.ModeManual})

	ctrl, err := camera.NewController(backend, dev, camera.WithLogger(logger.NewTestLogger()))
	require.NoError(t, err)

	require.NoError(t, ctrl.PanRelative(5))

	relative, ok := st.CameraValue(property.CamPanRelative)
	require.True(t, ok)
	require.Equal(t, 5, relative.Value)

	// The absolute axis is untouched when the native control exists.
	absolute, ok := st.CameraValue(property.CamPan)
	require.True(t, ok)
	require.Equal(t, 0, absolute.Value)
}

func TestController_SetPanTiltFallsBackToTwoWrites(t *testing.T) {
	t.Parallel()

	ctrl, _ := newTestController(t)

	require.NoError(t, ctrl.SetPanTilt(20, -30))

	values := ctrl.GetMultiple("pan", "tilt")
	require.Equal(t, map[string]int{"pan": 20, "tilt": -30}, values)

	require.NoError(t, ctrl.CenterPanTilt())

	values = ctrl.GetMultiple("pan", "tilt")
	require.Equal(t, map[string]int{"pan": 0, "tilt": 0}, values)
}

func TestController_SetPanTiltUsesCombinedControl(t *testing.T) {
	t.Parallel()

	backend := fake.New()
	dev := device.New("PTZ Cam", "fake:ptz")

	st := backend.AddDevice(dev)
	st.SetCamera(property.CamPanTilt, property.Range{Min: math.MinInt32, Max: math.MaxInt32, Step: 1, Default: 0, DefaultMode: property.ModeManual})

	ctrl, err := camera.NewController(backend, dev, camera.WithLogger(logger.NewTestLogger()))
	require.NoError(t, err)

	require.NoError(t, ctrl.SetPanTilt(20, -30))
	require.Equal(t, 1, backend.Calls("SetCameraProperty"))

	combined, ok := st.CameraValue(property.CamPanTilt)
	require.True(t, ok)
	require.Equal(t, 20, int(int16(combined.Value>>16)))
	require.Equal(t, -30, int(int16(combined.Value&0xFFFF)))
}

func TestController_VendorPropertyRoundTrip(t *testing.T) {
	t.Parallel()

	ctrl, _ := newTestController(t)

	payload := []byte{0x01, 0x02, 0x03}
	require.NoError(t, ctrl.WriteVendorProperty("{82066163-7BD0-43EF-8A6F-5B8905C0A078}", 3, payload))

	// Bare-hex form addresses the same property set.
	data, err := ctrl.ReadVendorProperty("820661637BD043EF8A6F5B8905C0A078", 3)
	require.NoError(t, err)
	require.Equal(t, payload, data)

	_, err = ctrl.ReadVendorProperty("not-a-guid", 1)
	require.ErrorIs(t, err, camera.ErrInvalidArgument)
}

func TestController_RefreshCapabilitiesPicksUpNewProperties(t *testing.T) {
	t.Parallel()

	backend := fake.New()
	dev := device.New("Cam", "fake:0")

	st := backend.AddDevice(dev)
	st.SetVideo(property.VidBrightness, property.Range{Min: 0, Max: 100, Step: 1, Default: 50, DefaultMode: property.ModeManual})

	ctrl, err := camera.NewController(backend, dev, camera.WithLogger(logger.NewTestLogger()))
	require.NoError(t, err)

	_, err = ctrl.Get("hue")
	require.ErrorIs(t, err, camera.ErrPropertyNotSupported)

	st.SetVideo(property.VidHue, property.Range{Min: -180, Max: 180, Step: 1, Default: 0, DefaultMode: property.ModeManual})

	// The snapshot is point-in-time; the new control appears only after
	// an explicit refresh.
	_, err = ctrl.Get("hue")
	require.ErrorIs(t, err, camera.ErrPropertyNotSupported)

	require.NoError(t, ctrl.RefreshCapabilities())

	got, err := ctrl.Get("hue")
	require.NoError(t, err)
	require.Equal(t, 0, got)
}

func TestController_OpenHelpers(t *testing.T) {
	t.Parallel()

	backend, dev := fake.NewSeeded()

	first, err := camera.OpenFirst(backend, camera.WithLogger(logger.NewTestLogger()))
	require.NoError(t, err)
	require.Equal(t, dev.Path, first.DevicePath())

	named, err := camera.OpenNamed(backend, "fake uvc", camera.WithLogger(logger.NewTestLogger()))
	require.NoError(t, err)
	require.Equal(t, dev.Name, named.DeviceName())

	_, err = camera.OpenNamed(backend, "missing")
	require.ErrorIs(t, err, camera.ErrDeviceNotFound)

	_, err = camera.OpenIndexController(backend, 7)
	require.ErrorIs(t, err, camera.ErrDeviceNotFound)
}

func TestController_IsConnected(t *testing.T) {
	t.Parallel()

	ctrl, _ := newTestController(t)

	connected, err := ctrl.IsConnected()
	require.NoError(t, err)
	require.True(t, connected)
}
