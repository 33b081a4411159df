// Package keyinfo maps human-readable key labels ("Enter", "ArrowUp", "a", ";") to the event code
// and legacy virtual key code an input-event layer expects.
package keyinfo

import (
	"encoding/json"
	"fmt"
)

// Descriptor is the resolved form of a key label.
// The zero value has an empty code and no virtual key code.
type Descriptor struct {
	// Code is the physical-key identifier used by KeyboardEvent.code.
	Code string

	vk    uint8
	hasVK bool
}

// WithVirtualKeyCode returns a descriptor carrying both an event code and a virtual key code.
func WithVirtualKeyCode(code string, vk uint8) Descriptor {
	return Descriptor{Code: code, vk: vk, hasVK: true}
}

// CodeOnly returns a descriptor without a virtual key code.
func CodeOnly(code string) Descriptor {
	return Descriptor{Code: code}
}

// VirtualKeyCode returns the legacy keyCode/which value and whether one is defined.
func (d Descriptor) VirtualKeyCode() (uint8, bool) {
	return d.vk, d.hasVK
}

func (d Descriptor) String() string {
	if !d.hasVK {
		return d.Code
	}
	return fmt.Sprintf("%s(%d)", d.Code, d.vk)
}

type descriptorJSON struct {
	Code           string `json:"code"`
	VirtualKeyCode *uint8 `json:"virtualKeyCode"`
}

func (d Descriptor) MarshalJSON() ([]byte, error) {
	v := descriptorJSON{Code: d.Code}
	if d.hasVK {
		vk := d.vk
		v.VirtualKeyCode = &vk
	}
	return json.Marshal(v)
}

func (d *Descriptor) UnmarshalJSON(data []byte) error {
	var v descriptorJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*d = CodeOnly(v.Code)
	if v.VirtualKeyCode != nil {
		*d = WithVirtualKeyCode(v.Code, *v.VirtualKeyCode)
	}
	return nil
}
