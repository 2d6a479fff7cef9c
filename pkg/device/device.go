// Package device models controllable endpoints: their stable identity,
// their point-in-time capability snapshots, and the hotplug monitor
// bridging backend notifications to application callbacks.
package device

import "fmt"

// Device identifies a controllable endpoint. Name is a display string
// and carries no identity; Path is the stable identifier. Devices are
// produced by enumeration and never mutated.
type Device struct {
	Name string
	Path string
}

func New(name, path string) Device {
	return Device{Name: name, Path: path}
}

// IsValid reports whether the device carries a usable identity.
func (d Device) IsValid() bool {
	return d.Path != ""
}

// Key returns the identity of the device, suitable as a map key.
func (d Device) Key() string {
	return d.Path
}

// Equal compares by Path only: two enumerations of the same hardware
// may render different display names.
func (d Device) Equal(other Device) bool {
	return d.Path == other.Path
}

func (d Device) String() string {
	if d.Name == "" {
		return d.Path
	}

	return fmt.Sprintf("%s (%s)", d.Name, d.Path)
}
