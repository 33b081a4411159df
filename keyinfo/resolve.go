package keyinfo

import "fmt"

// Tier identifies which resolution rule produced a descriptor.
type Tier uint8

const (
	TierTable Tier = iota
	TierLetter
	TierDigit
	TierPassThrough
)

func (t Tier) String() string {
	switch t {
	case TierTable:
		return "table"
	case TierLetter:
		return "letter"
	case TierDigit:
		return "digit"
	case TierPassThrough:
		return "passthrough"
	default:
		return "unknown"
	}
}

func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Tier) UnmarshalText(text []byte) error {
	for tier := TierTable; tier <= TierPassThrough; tier++ {
		if tier.String() == string(text) {
			*t = tier
			return nil
		}
	}
	return fmt.Errorf("unknown resolution tier: %s", text)
}

// Resolve never fails. Labels that are neither in the table nor a single ASCII letter or digit
// are returned as the code with no virtual key code.
func Resolve(label string) Descriptor {
	d, _ := ResolveTier(label)
	return d
}

// ResolveTier is Resolve plus the rule that matched. The table is always consulted first.
func ResolveTier(label string) (Descriptor, Tier) {
	if d, ok := labelMap[label]; ok {
		return d, TierTable
	}
	if d, tier, ok := resolveChar(label); ok {
		return d, tier
	}
	return CodeOnly(label), TierPassThrough
}

// resolveChar derives descriptors for single ASCII letters and digits.
// Letter case is modifier state, so "a" and "A" are the same physical key.
func resolveChar(label string) (Descriptor, Tier, bool) {
	if len(label) != 1 {
		return Descriptor{}, 0, false
	}
	c := label[0]
	switch {
	case c >= 'a' && c <= 'z':
		c -= 'a' - 'A'
		fallthrough
	case c >= 'A' && c <= 'Z':
		return WithVirtualKeyCode("Key"+string(c), c), TierLetter, true
	case c >= '0' && c <= '9':
		return WithVirtualKeyCode("Digit"+label, c), TierDigit, true
	}
	return Descriptor{}, 0, false
}
