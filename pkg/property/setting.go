package property

import "fmt"

// Setting is a (value, mode) pair. Value and mode vary independently;
// range enforcement happens externally against a Range.
type Setting struct {
	Value int
	Mode  Mode
}

func NewSetting(value int, mode Mode) Setting {
	return Setting{Value: value, Mode: mode}
}

func (s Setting) String() string {
	return fmt.Sprintf("%d (%s)", s.Value, s.Mode)
}

// Range describes the valid values of one property on one device.
type Range struct {
	Min         int
	Max         int
	Step        int
	Default     int
	DefaultMode Mode
}

// Validate rejects ranges the device should never report: a
// non-positive step, an inverted interval, or a default outside it.
func (r Range) Validate() error {
	if r.Step <= 0 {
		return fmt.Errorf("range step must be positive, got %d", r.Step)
	}

	if r.Min > r.Max {
		return fmt.Errorf("range min %d exceeds max %d", r.Min, r.Max)
	}

	if r.Default < r.Min || r.Default > r.Max {
		return fmt.Errorf("range default %d outside [%d, %d]", r.Default, r.Min, r.Max)
	}

	return nil
}

// IsValid reports whether v lies within [Min, Max]. Step alignment is
// advisory here; use IsValidStrict when the device insists on it.
func (r Range) IsValid(v int) bool {
	return v >= r.Min && v <= r.Max
}

// IsValidStrict additionally requires v to be aligned to Step from Min.
func (r Range) IsValidStrict(v int) bool {
	if !r.IsValid(v) {
		return false
	}

	return r.Step > 0 && (v-r.Min)%r.Step == 0
}

// Clamp saturates v into [Min, Max] and rounds to the nearest step.
// Clamp is idempotent and its output always satisfies IsValid.
func (r Range) Clamp(v int) int {
	if v <= r.Min {
		return r.Min
	}

	if v >= r.Max {
		return r.Max
	}

	if r.Step <= 0 {
		return v
	}

	steps := (v - r.Min + r.Step/2) / r.Step
	aligned := r.Min + steps*r.Step
	if aligned > r.Max {
		aligned -= r.Step
	}

	return aligned
}

// DefaultSetting returns the device default as a Setting.
func (r Range) DefaultSetting() Setting {
	return Setting{Value: r.Default, Mode: r.DefaultMode}
}
