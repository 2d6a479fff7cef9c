package property

import (
	"sort"
	"strings"

	"github.com/openuvc/uvcctl/pkg/result"
)

// Ref is a resolved canonical property identifier: a domain plus the
// typed property within it. Exactly one of Cam/Vid is meaningful,
// selected by Domain.
type Ref struct {
	Domain Domain
	Cam    CamProp
	Vid    VidProp
}

func CamRef(p CamProp) Ref {
	return Ref{Domain: DomainCamera, Cam: p}
}

func VidRef(p VidProp) Ref {
	return Ref{Domain: DomainVideo, Vid: p}
}

// Name returns the canonical name of the referenced property.
func (r Ref) Name() string {
	if r.Domain == DomainCamera {
		return r.Cam.String()
	}

	return r.Vid.String()
}

// aliases maps synonyms many-to-one onto canonical names. Lookup keys
// are normalized (lowercase, '-' and ' ' folded to '_') before use.
var aliases = map[string]string{
	"wb":               "white_balance",
	"whitebalance":     "white_balance",
	"white_bal":        "white_balance",
	"backlight":        "backlight_compensation",
	"blc":              "backlight_compensation",
	"color":            "color_enable",
	"colour":           "color_enable",
	"colour_enable":    "color_enable",
	"bright":           "brightness",
	"sat":              "saturation",
	"sharp":            "sharpness",
	"digitalzoom":      "digital_zoom",
	"scanmode":         "scan_mode",
	"pantilt":          "pan_tilt",
	"focussimple":      "focus_simple",
	"exposure_auto":    "exposure",
	"light":            "lamp",
	"panrelative":      "pan_relative",
	"tiltrelative":     "tilt_relative",
	"zoomrelative":     "zoom_relative",
	"camera_backlight": "backlight_compensation_cam",
}

var registry = buildRegistry()

func buildRegistry() map[string]Ref {
	reg := make(map[string]Ref, len(camPropNames)+len(vidPropNames))

	for p, name := range camPropNames {
		reg[name] = CamRef(p)
	}

	// Video registers second so it owns any overlapping plain name;
	// camera-domain backlight compensation keeps its suffixed name.
	for p, name := range vidPropNames {
		reg[name] = VidRef(p)
	}

	return reg
}

func normalizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, "-", "_")
	name = strings.ReplaceAll(name, " ", "_")

	return name
}

// Resolve maps a user-supplied property name or alias onto its
// canonical identifier. It is a pure lookup: an unknown name is an
// invalid-argument failure, which is distinct from a property the
// device happens not to support.
func Resolve(name string) result.Result[Ref] {
	key := normalizeName(name)
	if canonical, ok := aliases[key]; ok {
		key = canonical
	}

	ref, ok := registry[key]
	if !ok {
		return result.ErrFrom[Ref](result.Errorf(result.KindInvalidArgument,
			"unknown property %q", name))
	}

	return result.Ok(ref)
}

// Names returns all canonical property names, sorted, across both
// domains.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Aliases returns a copy of the alias table keyed by canonical name.
func Aliases() map[string][]string {
	byCanonical := make(map[string][]string)
	for alias, canonical := range aliases {
		byCanonical[canonical] = append(byCanonical[canonical], alias)
	}

	for _, list := range byCanonical {
		sort.Strings(list)
	}

	return byCanonical
}
