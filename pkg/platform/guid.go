package platform

import (
	"strings"

	"github.com/google/uuid"

	"github.com/openuvc/uvcctl/pkg/result"
)

// GUID is the canonical internal form of a 128-bit vendor property-set
// identifier. Textual and binary input forms are normalized to it
// before crossing the backend boundary.
type GUID struct {
	uuid.UUID
}

// ParseGUID accepts the textual forms vendors print: canonical
// hex-and-dash, registry-style braced, bare 32-hex-digit, and
// urn:uuid:. Malformed input is a local invalid-argument failure; the
// backend is never consulted.
func ParseGUID(s string) result.Result[GUID] {
	trimmed := strings.TrimSpace(s)
	trimmed = strings.TrimPrefix(trimmed, "{")
	trimmed = strings.TrimSuffix(trimmed, "}")

	id, err := uuid.Parse(trimmed)
	if err != nil {
		return result.ErrFrom[GUID](result.Errorf(result.KindInvalidArgument,
			"malformed property-set GUID %q: %v", s, err))
	}

	return result.Ok(GUID{UUID: id})
}

// GUIDFromBytes normalizes a 16-byte binary identifier.
func GUIDFromBytes(b []byte) result.Result[GUID] {
	id, err := uuid.FromBytes(b)
	if err != nil {
		return result.ErrFrom[GUID](result.Errorf(result.KindInvalidArgument,
			"property-set GUID must be 16 bytes, got %d", len(b)))
	}

	return result.Ok(GUID{UUID: id})
}

func GUIDFromUUID(id uuid.UUID) GUID {
	return GUID{UUID: id}
}

// MustParseGUID is for compile-time constants only.
func MustParseGUID(s string) GUID {
	res := ParseGUID(s)
	if !res.IsOK() {
		panic(res.Err().Description())
	}

	return res.Value()
}

// String renders the canonical lowercase hex-and-dash form.
func (g GUID) String() string {
	return g.UUID.String()
}

// Bytes returns the 16-byte binary form.
func (g GUID) Bytes() []byte {
	b := g.UUID
	return b[:]
}

func (g GUID) IsZero() bool {
	return g.UUID == uuid.Nil
}
