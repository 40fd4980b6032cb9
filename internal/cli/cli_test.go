package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/boxtree-io/boxtree/pkg/layout"
	"github.com/boxtree-io/boxtree/pkg/pipeline"
)

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}

func testContext() context.Context {
	return context.Background()
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{name: "EmptyDefaultsToSVG", in: "", want: []string{"svg"}},
		{name: "Single", in: "png", want: []string{"png"}},
		{name: "Multiple", in: "svg,png,pdf", want: []string{"svg", "png", "pdf"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseFormats(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{1024 * 1024, "1.0 MiB"},
		{3 * 1024 * 1024 * 1024, "3.0 GiB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.n); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestCacheDirHonorsXDG(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")

	got, err := cacheDir()
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join("/tmp/xdg-cache", appName)
	if got != want {
		t.Errorf("cacheDir() = %q, want %q", got, want)
	}
}

func TestBaseOptions(t *testing.T) {
	c := New(&bytes.Buffer{}, LogInfo)
	c.Config.Algorithm = "grid"
	c.Config.Render.Style = "blueprint"
	c.Config.Render.GridSize = 20

	opts := c.baseOptions()
	if opts.Algorithm != "grid" {
		t.Errorf("Algorithm = %q, want grid", opts.Algorithm)
	}
	if opts.Style != "blueprint" || opts.GridSize != 20 {
		t.Errorf("render options = %q/%v, want blueprint/20", opts.Style, opts.GridSize)
	}
	if opts.Margins == nil {
		t.Error("Margins not carried from config")
	}
	if opts.Fixed != nil {
		t.Error("Fixed set without fixed leaf dimensions in config")
	}
	if len(opts.Formats) == 0 {
		t.Error("SetDefaults not applied")
	}
}

func TestBaseOptionsFixedLeaf(t *testing.T) {
	c := New(&bytes.Buffer{}, LogInfo)
	c.Config.Leaf.LeafFixedWidth = true
	c.Config.Leaf.LeafWidth = 8

	opts := c.baseOptions()
	if opts.Fixed == nil || !opts.Fixed.LeafFixedWidth || opts.Fixed.LeafWidth != 8 {
		t.Errorf("Fixed = %+v, want fixed leaf width 8", opts.Fixed)
	}
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	c := New(&bytes.Buffer{}, LogInfo)
	root := c.RootCommand()

	want := []string{"layout", "render", "tree", "fit", "add", "serve", "cache", "completion"}
	for _, name := range want {
		found := false
		for _, cmd := range root.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("root command missing subcommand %q", name)
		}
	}
}

func TestNewRunnerNoCache(t *testing.T) {
	c := New(&bytes.Buffer{}, LogInfo)

	r, err := c.newRunner(true)
	if err != nil {
		t.Fatalf("newRunner() error: %v", err)
	}
	if r.Manager.AlgorithmName() != c.Config.Algorithm {
		t.Errorf("runner algorithm = %q, want %q", r.Manager.AlgorithmName(), c.Config.Algorithm)
	}
	if _, ok := r.Cache.(interface{ Clear() error }); ok {
		t.Error("no-cache runner got a clearable (file) cache")
	}
}

func TestLoadConfigExplicitPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := writeFile(path, `algorithm = "flow"`); err != nil {
		t.Fatal(err)
	}

	c := New(&bytes.Buffer{}, LogInfo)
	c.configPath = path
	if err := c.LoadConfig(); err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if c.Config.Algorithm != "flow" {
		t.Errorf("Algorithm = %q, want flow", c.Config.Algorithm)
	}
}

func TestAlgorithmPickerModel(t *testing.T) {
	m := NewAlgorithmPickerModel(layout.AlgorithmFlow)

	// Cursor starts on the current algorithm.
	if m.Algorithms[m.Cursor] != layout.AlgorithmFlow {
		t.Errorf("initial cursor on %q, want flow", m.Algorithms[m.Cursor])
	}

	down, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	m = down.(AlgorithmPickerModel)
	if m.Cursor == 0 {
		t.Error("j did not move the cursor down")
	}

	selected, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = selected.(AlgorithmPickerModel)
	if m.Selected != m.Algorithms[m.Cursor] {
		t.Errorf("Selected = %q, want %q", m.Selected, m.Algorithms[m.Cursor])
	}

	// Quit without selecting leaves Selected empty.
	q := NewAlgorithmPickerModel("")
	quit, _ := q.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if quit.(AlgorithmPickerModel).Selected != "" {
		t.Error("quit set a selection")
	}
}

func TestAlgorithmPickerView(t *testing.T) {
	m := NewAlgorithmPickerModel("")
	view := m.View()

	for _, name := range layout.Available() {
		if !strings.Contains(view, name) {
			t.Errorf("view missing algorithm %q", name)
		}
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, LogInfo)

	p := newProgress(l)
	p.done("Laid out 3 rectangles")

	if !bytes.Contains(buf.Bytes(), []byte("Laid out 3 rectangles")) {
		t.Errorf("log output = %q, want completion message", buf.String())
	}
}

func TestLoggerContext(t *testing.T) {
	l := newLogger(&bytes.Buffer{}, LogDebug)
	ctx := withLogger(testContext(), l)

	if got := loggerFromContext(ctx); got != l {
		t.Error("loggerFromContext did not return the attached logger")
	}
	if got := loggerFromContext(testContext()); got == nil {
		t.Error("loggerFromContext returned nil without an attached logger")
	}
}

func TestOptionsRoundTripThroughPipeline(t *testing.T) {
	// The CLI's base options must always pass pipeline validation.
	c := New(&bytes.Buffer{}, LogInfo)
	opts := c.baseOptions()
	if err := opts.Validate(); err != nil {
		t.Errorf("default options invalid: %v", err)
	}
	if opts.GridSize != pipeline.DefaultGridSize {
		t.Errorf("GridSize = %v, want %v", opts.GridSize, pipeline.DefaultGridSize)
	}
}
