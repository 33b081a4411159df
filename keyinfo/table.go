package keyinfo

import (
	"fmt"

	"github.com/iancoleman/strcase"
)

type Group uint8

const (
	GroupEditing Group = iota
	GroupModifier
	GroupFunction
	GroupNumpad
	GroupLock
	GroupPunctuation
	GroupMediaBrowser
	GroupMisc
)

var groupNames = [...]string{
	GroupEditing:      "Editing",
	GroupModifier:     "Modifier",
	GroupFunction:     "Function",
	GroupNumpad:       "Numpad",
	GroupLock:         "Lock",
	GroupPunctuation:  "Punctuation",
	GroupMediaBrowser: "MediaBrowser",
	GroupMisc:         "Misc",
}

func (g Group) String() string {
	if int(g) < len(groupNames) {
		return groupNames[g]
	}
	return fmt.Sprintf("Group(%d)", uint8(g))
}

// Groups returns every table group in table order.
func Groups() []Group {
	groups := make([]Group, len(groupNames))
	for i := range groupNames {
		groups[i] = Group(i)
	}
	return groups
}

// ParseGroup accepts a group name in any casing style ("media-browser", "media_browser", "MediaBrowser").
func ParseGroup(s string) (Group, error) {
	name := strcase.ToCamel(s)
	for i, n := range groupNames {
		if n == name {
			return Group(i), nil
		}
	}
	return 0, fmt.Errorf("unknown key group: %s", s)
}

// Entry is a single row of the label table.
type Entry struct {
	Label      string
	Descriptor Descriptor
	Group      Group
}

func vk(group Group, label, code string, vk uint8) Entry {
	return Entry{Label: label, Descriptor: WithVirtualKeyCode(code, vk), Group: group}
}

// entries is the US-layout label table, numbered after the Windows virtual key codes.
// Left/right modifier variants share a code; bare modifier names resolve to the left variant.
var entries = []Entry{
	vk(GroupEditing, "Backspace", "Backspace", 8),
	vk(GroupEditing, "Tab", "Tab", 9),
	vk(GroupEditing, "Enter", "Enter", 13),
	vk(GroupEditing, "Escape", "Escape", 27),
	vk(GroupEditing, "Space", "Space", 32),
	vk(GroupEditing, " ", "Space", 32),
	vk(GroupEditing, "PageUp", "PageUp", 33),
	vk(GroupEditing, "PageDown", "PageDown", 34),
	vk(GroupEditing, "End", "End", 35),
	vk(GroupEditing, "Home", "Home", 36),
	vk(GroupEditing, "ArrowLeft", "ArrowLeft", 37),
	vk(GroupEditing, "ArrowUp", "ArrowUp", 38),
	vk(GroupEditing, "ArrowRight", "ArrowRight", 39),
	vk(GroupEditing, "ArrowDown", "ArrowDown", 40),
	vk(GroupEditing, "Insert", "Insert", 45),
	vk(GroupEditing, "Delete", "Delete", 46),

	vk(GroupModifier, "Shift", "ShiftLeft", 16),
	vk(GroupModifier, "ShiftLeft", "ShiftLeft", 16),
	vk(GroupModifier, "ShiftRight", "ShiftRight", 16),
	vk(GroupModifier, "Control", "ControlLeft", 17),
	vk(GroupModifier, "ControlLeft", "ControlLeft", 17),
	vk(GroupModifier, "ControlRight", "ControlRight", 17),
	vk(GroupModifier, "Alt", "AltLeft", 18),
	vk(GroupModifier, "AltLeft", "AltLeft", 18),
	vk(GroupModifier, "AltRight", "AltRight", 18),
	vk(GroupModifier, "Meta", "MetaLeft", 91),
	vk(GroupModifier, "MetaLeft", "MetaLeft", 91),
	vk(GroupModifier, "MetaRight", "MetaRight", 92),

	vk(GroupFunction, "F1", "F1", 112),
	vk(GroupFunction, "F2", "F2", 113),
	vk(GroupFunction, "F3", "F3", 114),
	vk(GroupFunction, "F4", "F4", 115),
	vk(GroupFunction, "F5", "F5", 116),
	vk(GroupFunction, "F6", "F6", 117),
	vk(GroupFunction, "F7", "F7", 118),
	vk(GroupFunction, "F8", "F8", 119),
	vk(GroupFunction, "F9", "F9", 120),
	vk(GroupFunction, "F10", "F10", 121),
	vk(GroupFunction, "F11", "F11", 122),
	vk(GroupFunction, "F12", "F12", 123),
	vk(GroupFunction, "F13", "F13", 124),
	vk(GroupFunction, "F14", "F14", 125),
	vk(GroupFunction, "F15", "F15", 126),
	vk(GroupFunction, "F16", "F16", 127),
	vk(GroupFunction, "F17", "F17", 128),
	vk(GroupFunction, "F18", "F18", 129),
	vk(GroupFunction, "F19", "F19", 130),
	vk(GroupFunction, "F20", "F20", 131),
	vk(GroupFunction, "F21", "F21", 132),
	vk(GroupFunction, "F22", "F22", 133),
	vk(GroupFunction, "F23", "F23", 134),
	vk(GroupFunction, "F24", "F24", 135),

	vk(GroupNumpad, "NumLock", "NumLock", 144),
	vk(GroupNumpad, "Numpad0", "Numpad0", 96),
	vk(GroupNumpad, "Numpad1", "Numpad1", 97),
	vk(GroupNumpad, "Numpad2", "Numpad2", 98),
	vk(GroupNumpad, "Numpad3", "Numpad3", 99),
	vk(GroupNumpad, "Numpad4", "Numpad4", 100),
	vk(GroupNumpad, "Numpad5", "Numpad5", 101),
	vk(GroupNumpad, "Numpad6", "Numpad6", 102),
	vk(GroupNumpad, "Numpad7", "Numpad7", 103),
	vk(GroupNumpad, "Numpad8", "Numpad8", 104),
	vk(GroupNumpad, "Numpad9", "Numpad9", 105),
	vk(GroupNumpad, "NumpadMultiply", "NumpadMultiply", 106),
	vk(GroupNumpad, "NumpadAdd", "NumpadAdd", 107),
	vk(GroupNumpad, "NumpadSubtract", "NumpadSubtract", 109),
	vk(GroupNumpad, "NumpadDecimal", "NumpadDecimal", 110),
	vk(GroupNumpad, "NumpadDivide", "NumpadDivide", 111),

	vk(GroupLock, "CapsLock", "CapsLock", 20),
	vk(GroupLock, "ScrollLock", "ScrollLock", 145),

	vk(GroupPunctuation, "Semicolon", "Semicolon", 186),
	vk(GroupPunctuation, ";", "Semicolon", 186),
	vk(GroupPunctuation, "Equal", "Equal", 187),
	vk(GroupPunctuation, "=", "Equal", 187),
	vk(GroupPunctuation, "Comma", "Comma", 188),
	vk(GroupPunctuation, ",", "Comma", 188),
	vk(GroupPunctuation, "Minus", "Minus", 189),
	vk(GroupPunctuation, "-", "Minus", 189),
	vk(GroupPunctuation, "Period", "Period", 190),
	vk(GroupPunctuation, ".", "Period", 190),
	vk(GroupPunctuation, "Slash", "Slash", 191),
	vk(GroupPunctuation, "/", "Slash", 191),
	vk(GroupPunctuation, "Backquote", "Backquote", 192),
	vk(GroupPunctuation, "`", "Backquote", 192),
	vk(GroupPunctuation, "BracketLeft", "BracketLeft", 219),
	vk(GroupPunctuation, "[", "BracketLeft", 219),
	vk(GroupPunctuation, "Backslash", "Backslash", 220),
	vk(GroupPunctuation, `\`, "Backslash", 220),
	vk(GroupPunctuation, "BracketRight", "BracketRight", 221),
	vk(GroupPunctuation, "]", "BracketRight", 221),
	vk(GroupPunctuation, "Quote", "Quote", 222),
	vk(GroupPunctuation, "'", "Quote", 222),

	vk(GroupMediaBrowser, "AudioVolumeMute", "AudioVolumeMute", 173),
	vk(GroupMediaBrowser, "AudioVolumeDown", "AudioVolumeDown", 174),
	vk(GroupMediaBrowser, "AudioVolumeUp", "AudioVolumeUp", 175),
	vk(GroupMediaBrowser, "MediaTrackNext", "MediaTrackNext", 176),
	vk(GroupMediaBrowser, "MediaTrackPrevious", "MediaTrackPrevious", 177),
	vk(GroupMediaBrowser, "MediaStop", "MediaStop", 178),
	vk(GroupMediaBrowser, "MediaPlayPause", "MediaPlayPause", 179),
	vk(GroupMediaBrowser, "BrowserBack", "BrowserBack", 166),
	vk(GroupMediaBrowser, "BrowserForward", "BrowserForward", 167),
	vk(GroupMediaBrowser, "BrowserRefresh", "BrowserRefresh", 168),
	vk(GroupMediaBrowser, "BrowserStop", "BrowserStop", 169),
	vk(GroupMediaBrowser, "BrowserSearch", "BrowserSearch", 170),
	vk(GroupMediaBrowser, "BrowserFavorites", "BrowserFavorites", 171),
	vk(GroupMediaBrowser, "BrowserHome", "BrowserHome", 172),

	vk(GroupMisc, "Clear", "Clear", 12),
	vk(GroupMisc, "Pause", "Pause", 19),
	vk(GroupMisc, "Select", "Select", 41),
	vk(GroupMisc, "Print", "Print", 42),
	vk(GroupMisc, "Execute", "Execute", 43),
	vk(GroupMisc, "PrintScreen", "PrintScreen", 44),
	vk(GroupMisc, "Help", "Help", 47),
	vk(GroupMisc, "ContextMenu", "ContextMenu", 93),
}

var labelMap = map[string]Descriptor{}

func init() {
	for _, e := range entries {
		if _, ok := labelMap[e.Label]; ok {
			panic("duplicate key label: " + e.Label)
		}
		labelMap[e.Label] = e.Descriptor
	}
}

// Lookup returns the table descriptor for an exact, case-sensitive label match.
// Fallback rules are not applied.
func Lookup(label string) (Descriptor, bool) {
	d, ok := labelMap[label]
	return d, ok
}

// Entries returns a copy of the table in table order.
func Entries() []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}

func EntriesIn(group Group) []Entry {
	var out []Entry
	for _, e := range entries {
		if e.Group == group {
			out = append(out, e)
		}
	}
	return out
}

func Labels() []string {
	labels := make([]string, len(entries))
	for i, e := range entries {
		labels[i] = e.Label
	}
	return labels
}
