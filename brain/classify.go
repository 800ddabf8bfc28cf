package brain

import "strings"

// Color classification over normalized sensor readings.
//
// Readings arrive with the three channels normalized to a common luminance
// reference (0..255 against the clear channel) so the same surface
// classifies the same under different illumination, plus the raw ambient
// magnitude. Rules are inclusive per-channel ranges checked in table order;
// the first match wins. A rule whose three ranges are all zero is a disabled
// placeholder and never matches.

// RGB is a display color for the light ring.
type RGB struct {
	R, G, B uint8
}

// ColorSample is one normalized sensor reading.
type ColorSample struct {
	R       int
	G       int
	B       int
	Ambient int
}

// ChannelRange is an inclusive [Min, Max] bound for one channel.
type ChannelRange struct {
	Min int
	Max int
}

func (r ChannelRange) contains(v int) bool {
	return v >= r.Min && v <= r.Max
}

// zero reports whether the range is the all-zero placeholder bound.
func (r ChannelRange) zero() bool {
	return r.Min == 0 && r.Max == 0
}

// Rule ties a channel-range box to a symbolic color identity.
//
// Identity is the asset-facing name ("red", "red-orange", "sunset-3").
// Display is what the light ring shows on a match. Element is the
// sub-element index within a collection theme (unused in the detection
// table).
type Rule struct {
	Identity string
	R        ChannelRange
	G        ChannelRange
	B        ChannelRange
	Display  RGB
	Element  int
}

// Disabled reports whether the rule is a placeholder slot (all three ranges
// zero). Placeholders keep table positions stable without ever matching.
func (r Rule) Disabled() bool {
	return r.R.zero() && r.G.zero() && r.B.zero()
}

// Matches reports whether the sample falls inside the rule's box.
func (r Rule) Matches(s ColorSample) bool {
	if r.Disabled() {
		return false
	}
	return r.R.contains(s.R) && r.G.contains(s.G) && r.B.contains(s.B)
}

// MatchTable returns the first enabled rule the sample satisfies, or nil.
func MatchTable(table []Rule, s ColorSample) *Rule {
	for i := range table {
		if table[i].Matches(s) {
			return &table[i]
		}
	}
	return nil
}

// Family reduces an identity to its base color family: a blended identity
// like "red-orange" belongs to the "red" family. Plain identities are their
// own family.
func Family(identity string) string {
	if i := strings.IndexByte(identity, '-'); i > 0 {
		return identity[:i]
	}
	return identity
}
