package keytool

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ghodss/yaml"
	"github.com/neuroplastio/keyinfo/keyinfo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newTestTool(t *testing.T, configPath string, overrides Overrides) (*Tool, *lockedBuffer) {
	t.Helper()
	logs := &lockedBuffer{}
	tool, err := NewTool(configPath, overrides, logs)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = tool.Close()
	})
	return tool, logs
}

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestNewToolDefaults(t *testing.T) {
	tool, _ := newTestTool(t, filepath.Join(t.TempDir(), "missing.yml"), Overrides{})
	assert.Equal(t, DefaultConfig(), tool.Config())
}

func TestNewToolConfigAndOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keytool.toml")
	writeConfig(t, path, "logLevel = \"warn\"\noutput = \"yaml\"\n\n[aliases]\nEsc = \"Escape\"\n")

	tool, _ := newTestTool(t, path, Overrides{Output: "json"})
	cfg := tool.Config()
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "json", cfg.Output)
	assert.True(t, cfg.WarnUnmapped)
	assert.Equal(t, map[string]string{"Esc": "Escape"}, tool.Resolver().Aliases())
}

func TestNewToolErrors(t *testing.T) {
	_, err := NewTool("", Overrides{Output: "xml"}, io.Discard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "output format not found: xml")
	assert.Contains(t, err.Error(), "json, text, yaml")

	_, err = NewTool("", Overrides{LogLevel: "loud"}, io.Discard)
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yml")
	writeConfig(t, path, "aliases: [not, a, map]\n")
	_, err = NewTool(path, Overrides{}, io.Discard)
	assert.Error(t, err)
}

func TestResolveLabelsText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keytool.yml")
	writeConfig(t, path, "aliases:\n  Esc: Escape\n")
	tool, logs := newTestTool(t, path, Overrides{})

	out := bytes.NewBuffer(nil)
	require.NoError(t, tool.ResolveLabels([]string{"ArrowUp", "a", "5", " ", "Esc", "XYZ-unknown"}, out, false))

	expected := strings.Join([]string{
		`"ArrowUp"` + "\tArrowUp\t38\ttable",
		`"a"` + "\tKeyA\t65\tletter",
		`"5"` + "\tDigit5\t53\tdigit",
		`" "` + "\tSpace\t32\ttable",
		`"Esc"` + "\tEscape\t27\talias:\"Escape\"/table",
		`"XYZ-unknown"` + "\tXYZ-unknown\t-\tpassthrough",
	}, "\n") + "\n"
	assert.Equal(t, expected, out.String())
	assert.Contains(t, logs.String(), "Unmapped key label passed through as code")
}

func TestResolveLabelsJSON(t *testing.T) {
	tool, _ := newTestTool(t, "", Overrides{Output: "json"})

	out := bytes.NewBuffer(nil)
	require.NoError(t, tool.ResolveLabels([]string{"Enter", "nope"}, out, false))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.JSONEq(t, `{"label":"Enter","descriptor":{"code":"Enter","virtualKeyCode":13},"tier":"table"}`, lines[0])
	assert.JSONEq(t, `{"label":"nope","descriptor":{"code":"nope","virtualKeyCode":null},"tier":"passthrough"}`, lines[1])
}

func TestResolveLabelsYAML(t *testing.T) {
	tool, _ := newTestTool(t, "", Overrides{Output: "yaml"})

	out := bytes.NewBuffer(nil)
	require.NoError(t, tool.ResolveLabels([]string{"Tab", "b"}, out, false))

	var actual []keyinfo.Resolution
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &actual))
	require.Len(t, actual, 2)
	assert.Equal(t, keyinfo.WithVirtualKeyCode("Tab", 9), actual[0].Descriptor)
	assert.Equal(t, keyinfo.WithVirtualKeyCode("KeyB", 66), actual[1].Descriptor)
}

func TestResolveLabelsStrict(t *testing.T) {
	tool, _ := newTestTool(t, "", Overrides{})

	out := bytes.NewBuffer(nil)
	err := tool.ResolveLabels([]string{"Enter", "Entr", "Tab"}, out, true)
	require.ErrorIs(t, err, keyinfo.ErrUnmappedLabel)
	assert.Equal(t, `"Enter"`+"\tEnter\t13\ttable\n", out.String())
}

func TestResolveStream(t *testing.T) {
	tool, _ := newTestTool(t, "", Overrides{Output: "json"})

	in := strings.NewReader("ArrowDown\r\nq\n \n")
	out := bytes.NewBuffer(nil)
	require.NoError(t, tool.ResolveStream(context.Background(), in, out, false, false))

	var codes []string
	scanner := bufio.NewScanner(out)
	for scanner.Scan() {
		var res struct {
			Descriptor keyinfo.Descriptor `json:"descriptor"`
		}
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &res))
		codes = append(codes, res.Descriptor.Code)
	}
	assert.Equal(t, []string{"ArrowDown", "KeyQ", "Space"}, codes)
}

func TestResolveStreamStrict(t *testing.T) {
	tool, _ := newTestTool(t, "", Overrides{})
	err := tool.ResolveStream(context.Background(), strings.NewReader("a\nbogus\nb\n"), io.Discard, true, false)
	assert.ErrorIs(t, err, keyinfo.ErrUnmappedLabel)
}

func TestResolveStreamCancelled(t *testing.T) {
	tool, _ := newTestTool(t, "", Overrides{})
	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- tool.ResolveStream(ctx, pr, io.Discard, false, false)
	}()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("stream did not stop after cancel")
	}
}

func TestResolveStreamWatchRequiresConfig(t *testing.T) {
	tool, _ := newTestTool(t, "", Overrides{})
	err := tool.ResolveStream(context.Background(), strings.NewReader(""), io.Discard, false, true)
	assert.Error(t, err)
}

func TestResolveStreamWatchReloadsAliases(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keytool.yml")
	writeConfig(t, path, "aliases:\n  Esc: Escape\n")
	tool, _ := newTestTool(t, path, Overrides{})

	pr, pw := io.Pipe()
	out := bytes.NewBuffer(nil)
	done := make(chan error, 1)
	go func() {
		done <- tool.ResolveStream(context.Background(), pr, out, false, true)
	}()

	_, err := io.WriteString(pw, "Esc\n")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return tool.Resolver().Stats().Alias == 1
	}, 5*time.Second, 10*time.Millisecond)

	writeConfig(t, path, "aliases:\n  Esc: Tab\n")
	require.Eventually(t, func() bool {
		return tool.Resolver().Resolve("Esc").Code == "Tab"
	}, 5*time.Second, 10*time.Millisecond)

	_, err = io.WriteString(pw, "Esc\n")
	require.NoError(t, err)
	require.NoError(t, pw.Close())

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("stream did not finish")
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "\tEscape\t27\t")
	assert.Contains(t, lines[1], "\tTab\t9\t")
}

func TestEntries(t *testing.T) {
	tool, _ := newTestTool(t, "", Overrides{})

	out := bytes.NewBuffer(nil)
	require.NoError(t, tool.Entries(out, "lock"))
	assert.Equal(t, "lock\t\"CapsLock\"\tCapsLock\t20\nlock\t\"ScrollLock\"\tScrollLock\t145\n", out.String())

	out.Reset()
	require.NoError(t, tool.Entries(out, ""))
	assert.Equal(t, len(keyinfo.Labels()), strings.Count(out.String(), "\n"))

	assert.Error(t, tool.Entries(io.Discard, "keypad"))
}

func TestEntriesJSON(t *testing.T) {
	tool, _ := newTestTool(t, "", Overrides{Output: "json"})

	out := bytes.NewBuffer(nil)
	require.NoError(t, tool.Entries(out, "media-browser"))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 14)
	assert.JSONEq(t, `{"group":"media-browser","label":"AudioVolumeMute","descriptor":{"code":"AudioVolumeMute","virtualKeyCode":173}}`, lines[0])
}
