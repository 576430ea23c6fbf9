package goprops

import "sort"

// Presence is the bit flag collected by FromHashWithMeta.
type Presence uint8

const (
	PresenceSeen           Presence = 1 << iota // Key appeared in the input.
	PresenceWasNull                             // Key was present with a nil value.
	PresenceDefaultApplied                      // The prop default filled the slot.
)

// PresenceMap maps JSON Pointers (one per declared prop, "/name") to Presence
// flags. Props absent from the input without a default have no entry.
type PresenceMap map[string]Presence

// Paths returns the recorded pointers in ascending order.
func (pm PresenceMap) Paths() []string {
	out := make([]string, 0, len(pm))
	for k := range pm {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Has reports whether every flag in want is set for path.
func (pm PresenceMap) Has(path string, want Presence) bool {
	return pm[path]&want == want
}

// Decoded carries a loaded instance along with presence metadata.
type Decoded struct {
	Value    *Instance
	Presence PresenceMap
}

// PresencePolicy governs how a prop behaves when its value is missing.
type PresencePolicy uint8

const (
	// PolicyRequired rejects nil writes and unset slots at serialize time but
	// tolerates a missing value while loading stored data.
	PolicyRequired PresencePolicy = iota
	// PolicyStrict is PolicyRequired that also fails FromHash on a missing
	// value (declared with optional: false).
	PolicyStrict
	// PolicyDefault fills a missing value from the prop default.
	PolicyDefault
	// PolicyNilable leaves a missing value nil.
	PolicyNilable
)

func (p PresencePolicy) String() string {
	switch p {
	case PolicyRequired:
		return "required"
	case PolicyStrict:
		return "strict"
	case PolicyDefault:
		return "default"
	case PolicyNilable:
		return "nilable"
	}
	return "unknown"
}

// Required reports whether the policy demands a value.
func (p PresencePolicy) Required() bool { return p == PolicyRequired || p == PolicyStrict }

// UnknownPolicy controls how input keys that name no prop are handled.
type UnknownPolicy int

const (
	UnknownStrip       UnknownPolicy = iota // Drop unknown keys.
	UnknownStrict                           // Reject unknown keys with an error.
	UnknownPassthrough                      // Keep unknown keys on the instance and emit them again.
)
