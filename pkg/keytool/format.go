package keytool

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ghodss/yaml"
	"github.com/iancoleman/strcase"
	"github.com/neuroplastio/keyinfo/keyinfo"
	"github.com/neuroplastio/keyinfo/pkg/registry"
)

// Formatter writes one item at a time so that streamed and batched output look the same:
// JSON is one object per line, YAML is a single sequence.
type Formatter interface {
	Resolution(w io.Writer, r keyinfo.Resolution) error
	Entry(w io.Writer, e keyinfo.Entry) error
}

func NewFormatters() *registry.Registry[Formatter] {
	r := registry.NewRegistry[Formatter]("output format")
	r.Register("text", textFormatter{})
	r.Register("json", jsonFormatter{})
	r.Register("yaml", yamlFormatter{})
	return r
}

type entryView struct {
	Group      string             `json:"group"`
	Label      string             `json:"label"`
	Descriptor keyinfo.Descriptor `json:"descriptor"`
}

func newEntryView(e keyinfo.Entry) entryView {
	return entryView{
		Group:      strcase.ToKebab(e.Group.String()),
		Label:      e.Label,
		Descriptor: e.Descriptor,
	}
}

func formatVK(d keyinfo.Descriptor) string {
	vk, ok := d.VirtualKeyCode()
	if !ok {
		return "-"
	}
	return fmt.Sprintf("%d", vk)
}

type textFormatter struct{}

func (textFormatter) Resolution(w io.Writer, r keyinfo.Resolution) error {
	tier := r.Tier.String()
	if r.Alias != "" {
		tier = fmt.Sprintf("alias:%q/%s", r.Alias, tier)
	}
	_, err := fmt.Fprintf(w, "%q\t%s\t%s\t%s\n", r.Label, r.Descriptor.Code, formatVK(r.Descriptor), tier)
	return err
}

func (textFormatter) Entry(w io.Writer, e keyinfo.Entry) error {
	_, err := fmt.Fprintf(w, "%s\t%q\t%s\t%s\n", strcase.ToKebab(e.Group.String()), e.Label, e.Descriptor.Code, formatVK(e.Descriptor))
	return err
}

type jsonFormatter struct{}

func (jsonFormatter) Resolution(w io.Writer, r keyinfo.Resolution) error {
	return writeJSONLine(w, r)
}

func (jsonFormatter) Entry(w io.Writer, e keyinfo.Entry) error {
	return writeJSONLine(w, newEntryView(e))
}

func writeJSONLine(w io.Writer, v any) error {
	jsonB, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal json: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", jsonB)
	return err
}

type yamlFormatter struct{}

func (yamlFormatter) Resolution(w io.Writer, r keyinfo.Resolution) error {
	return writeYAMLItem(w, r)
}

func (yamlFormatter) Entry(w io.Writer, e keyinfo.Entry) error {
	return writeYAMLItem(w, newEntryView(e))
}

// writeYAMLItem emits a one-element sequence; consecutive items concatenate into one sequence.
func writeYAMLItem(w io.Writer, v any) error {
	yamlB, err := yaml.Marshal([]any{v})
	if err != nil {
		return fmt.Errorf("failed to marshal yaml: %w", err)
	}
	_, err = w.Write(yamlB)
	return err
}
