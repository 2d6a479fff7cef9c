package device_test

import (
	"testing"

	"github.com/openuvc/uvcctl/pkg/device"
	"github.com/openuvc/uvcctl/pkg/platform/fake"
	"github.com/openuvc/uvcctl/pkg/property"
	"github.com/openuvc/uvcctl/pkg/result"
	"github.com/stretchr/testify/require"
)

func connectVia(backend *fake.Backend) device.ConnectFunc {
	return func(dev device.Device) result.Result[device.PropertyConn] {
		res := backend.CreateConnection(dev)
		if !res.IsOK() {
			return result.ErrFrom[device.PropertyConn](res.Err())
		}

		return result.Ok[device.PropertyConn](res.Value())
	}
}

func TestNewCapabilities_SnapshotsSupportedProperties(t *testing.T) {
	t.Parallel()

	backend, dev := fake.NewSeeded()

	res := device.NewCapabilities(dev, connectVia(backend))
	require.True(t, res.IsOK())

	caps := res.Value()
	require.True(t, caps.IsDeviceAccessible())
	require.Equal(t, dev, caps.Device())

	require.True(t, caps.SupportsCamera(property.CamPan))
	require.True(t, caps.SupportsVideo(property.VidBrightness))
	require.False(t, caps.SupportsCamera(property.CamPrivacy))

	// Seeded device: 5 camera + 5 video properties.
	require.Equal(t, 10, caps.Len())
	require.Len(t, caps.SupportedNames(), 10)
}

func TestCapabilities_UnsupportedPropertyIsAnAnswerNotAnError(t *testing.T) {
	t.Parallel()

	backend, dev := fake.NewSeeded()
	caps := device.NewCapabilities(dev, connectVia(backend)).Value()

	// Every known identifier is queryable, including unsupported ones.
	for _, p := range property.CamProps() {
		capability := caps.CameraCapability(p)
		if !capability.Supported {
			require.Zero(t, capability.Range)
			require.Zero(t, capability.Current)
		}
	}

	unsupported := caps.VideoCapability(property.VidGamma)
	require.False(t, unsupported.Supported)
	require.False(t, unsupported.SupportsAuto())
}

func TestCapabilities_SupportsAutoDerivedFromRange(t *testing.T) {
	t.Parallel()

	backend, dev := fake.NewSeeded()
	caps := device.NewCapabilities(dev, connectVia(backend)).Value()

	// White balance was seeded with an auto default mode, brightness manual.
	require.True(t, caps.VideoCapability(property.VidWhiteBalance).SupportsAuto())
	require.False(t, caps.VideoCapability(property.VidBrightness).SupportsAuto())
}

func TestCapabilities_Refresh(t *testing.T) {
	t.Parallel()

	backend := fake.New()
	dev := device.Device{Name: "cam", Path: "fake:7"}
	st := backend.AddDevice(dev)
	st.SetVideo(property.VidBrightness, property.Range{Min: 0, Max: 100, Step: 1, Default: 50, DefaultMode: property.ModeManual})

	caps := device.NewCapabilities(dev, connectVia(backend)).Value()
	require.Equal(t, 1, caps.Len())

	// A property appearing after a firmware update is only visible
	// after an explicit refresh: the snapshot never auto-updates.
	st.SetVideo(property.VidContrast, property.Range{Min: 0, Max: 100, Step: 1, Default: 50, DefaultMode: property.ModeManual})
	require.Equal(t, 1, caps.Len())

	refreshed := caps.Refresh()
	require.True(t, refreshed.IsOK())
	require.Equal(t, 2, caps.Len())
	require.True(t, caps.SupportsVideo(property.VidContrast))
}

func TestNewCapabilities_DeviceNotReachable(t *testing.T) {
	t.Parallel()

	backend := fake.New()
	dev := device.Device{Name: "ghost", Path: "fake:404"}

	res := device.NewCapabilities(dev, connectVia(backend))

	require.False(t, res.IsOK())
	require.Equal(t, result.KindDeviceNotFound, res.Err().Code())
}

func TestNewCapabilities_InvalidDevice(t *testing.T) {
	t.Parallel()

	backend := fake.New()

	res := device.NewCapabilities(device.Device{Name: "pathless"}, connectVia(backend))

	require.False(t, res.IsOK())
	require.Equal(t, result.KindInvalidArgument, res.Err().Code())
	require.Equal(t, 0, backend.Calls("CreateConnection"))
}

func TestNewCapabilities_MalformedRangeTreatedAsUnsupported(t *testing.T) {
	t.Parallel()

	backend := fake.New()
	dev := device.Device{Name: "broken", Path: "fake:9"}
	st := backend.AddDevice(dev)
	// A zero step is an input-validation defect, never a valid state.
	st.SetVideo(property.VidBrightness, property.Range{Min: 0, Max: 100, Step: 0, Default: 50})
	st.SetVideo(property.VidContrast, property.Range{Min: 0, Max: 100, Step: 1, Default: 50})

	caps := device.NewCapabilities(dev, connectVia(backend)).Value()

	require.False(t, caps.SupportsVideo(property.VidBrightness))
	require.True(t, caps.SupportsVideo(property.VidContrast))
	require.Equal(t, 1, caps.Len())
}
