package cli

import (
	"bytes"
	"context"
	"io"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/harmonic/pkg/errors"
	"github.com/matzehuels/harmonic/pkg/layout"
)

const squareJSON = `{
  "edges": [[0,1],[0,3],[1,2],[1,4],[2,5],[3,4],[3,5],[4,5]],
  "pins": {"0": [0,0], "1": [0,1], "2": [1,1]}
}`

// setOutput redirects status output to w for the duration of the test.
func setOutput(t *testing.T, w io.Writer) {
	t.Helper()
	old := out
	out = w
	t.Cleanup(func() { out = old })
}

// isolate points config, cache and env lookups at temporary locations.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	t.Setenv(envCacheBackend, "")
	t.Setenv(envRedisURL, "")
	t.Setenv(envServerAddr, "")
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout bytes.Buffer
	setOutput(t, &stdout)

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func checkSquare(t *testing.T, l *layout.Layout) {
	t.Helper()
	wantX := []float64{0, 0, 1, 0.25, 0.25, 0.5}
	wantY := []float64{0, 1, 1, 0.5, 0.75, 0.75}
	if len(l.Nodes) != len(wantX) {
		t.Fatalf("got %d nodes, want %d", len(l.Nodes), len(wantX))
	}
	for i, n := range l.Nodes {
		if math.Abs(n.X-wantX[i]) > 1e-9 || math.Abs(n.Y-wantY[i]) > 1e-9 {
			t.Errorf("node %d = (%g, %g), want (%g, %g)", i, n.X, n.Y, wantX[i], wantY[i])
		}
	}
}

func TestLayoutCommand(t *testing.T) {
	dir := isolate(t)
	input := writeFile(t, dir, "square.json", squareJSON)

	stdout, err := execute(t, "layout", input)
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	if !strings.Contains(stdout, "Layout complete") || !strings.Contains(stdout, "fresh") {
		t.Errorf("stdout = %q", stdout)
	}

	l, err := layout.ReadLayoutFile(filepath.Join(dir, "square.layout.json"))
	if err != nil {
		t.Fatalf("ReadLayoutFile: %v", err)
	}
	checkSquare(t, l)

	stdout, err = execute(t, "layout", input)
	if err != nil {
		t.Fatalf("second layout: %v", err)
	}
	if !strings.Contains(stdout, "cached") {
		t.Errorf("second run should hit the cache, stdout = %q", stdout)
	}
}

func TestLayoutCommandPinFlags(t *testing.T) {
	dir := isolate(t)
	input := writeFile(t, dir, "square.edges", "# square\n0 1\n0 3\n1 2\n1 4\n2 5\n3 4\n3 5\n4 5\n")
	output := filepath.Join(dir, "out.json")

	_, err := execute(t, "layout", input, "--no-cache", "-o", output,
		"--pin", "0:0,0", "--pin", "1:0,1", "-p", "2:1,1")
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	l, err := layout.ReadLayoutFile(output)
	if err != nil {
		t.Fatalf("ReadLayoutFile: %v", err)
	}
	checkSquare(t, l)
}

func TestLayoutCommandErrors(t *testing.T) {
	dir := isolate(t)
	tests := []struct {
		name string
		args []string
		want errors.Code
	}{
		{"no pins", []string{writeFile(t, dir, "free.json", `{"edges": [[0,1],[1,2]]}`)}, errors.ErrCodeInvalidPinSet},
		{"self loop", []string{writeFile(t, dir, "loop.json", `{"edges": [[0,0]], "pins": {"0": [0,0]}}`)}, errors.ErrCodeInvalidGraph},
		{"bad pin flag", []string{writeFile(t, dir, "ok.json", squareJSON), "--pin", "0=1,1"}, errors.ErrCodeInvalidPinSet},
		{"unknown extension", []string{writeFile(t, dir, "graph.csv", "0,1\n")}, errors.ErrCodeInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, append([]string{"layout", "--no-cache"}, tt.args...)...)
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want code %s", err, tt.want)
			}
		})
	}
}

func TestRenderCommand(t *testing.T) {
	dir := isolate(t)
	input := writeFile(t, dir, "square.json", squareJSON)
	if _, err := execute(t, "layout", input); err != nil {
		t.Fatalf("layout: %v", err)
	}

	stdout, err := execute(t, "render", filepath.Join(dir, "square.layout.json"), "-f", "svg,dot", "--highlight-pins")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(stdout, "Rendered 2 file(s)") {
		t.Errorf("stdout = %q", stdout)
	}

	svg, err := os.ReadFile(filepath.Join(dir, "square.svg"))
	if err != nil || !bytes.Contains(svg, []byte("<svg")) {
		t.Errorf("square.svg missing or not SVG: %v", err)
	}
	dot, err := os.ReadFile(filepath.Join(dir, "square.dot"))
	if err != nil || !bytes.Contains(dot, []byte("graph G {")) {
		t.Errorf("square.dot missing or not DOT: %v", err)
	}
}

func TestRenderCommandInvalidStyle(t *testing.T) {
	dir := isolate(t)
	input := writeFile(t, dir, "square.json", squareJSON)
	if _, err := execute(t, "layout", input); err != nil {
		t.Fatalf("layout: %v", err)
	}
	_, err := execute(t, "render", filepath.Join(dir, "square.layout.json"), "--style", "tower")
	if !errors.Is(err, errors.ErrCodeInvalidStyle) {
		t.Errorf("error = %v, want INVALID_STYLE", err)
	}
}

func TestRunCommand(t *testing.T) {
	dir := isolate(t)
	input := writeFile(t, dir, "square.json", squareJSON)
	output := filepath.Join(dir, "out", "plot.png")

	if _, err := execute(t, "run", input, "-f", "png", "-o", output, "--no-labels"); err != nil {
		t.Fatalf("run: %v", err)
	}
	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Error("output is not a PNG")
	}
}

func TestCacheCommands(t *testing.T) {
	dir := isolate(t)

	stdout, err := execute(t, "cache", "path")
	if err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if !strings.Contains(stdout, filepath.Join(dir, "cache", appName)) {
		t.Errorf("cache path = %q", stdout)
	}

	t.Setenv(envCacheBackend, backendSQLite)
	stdout, err = execute(t, "cache", "path")
	if err != nil {
		t.Fatalf("cache path (sqlite): %v", err)
	}
	if !strings.Contains(stdout, "cache.db") {
		t.Errorf("sqlite cache path = %q", stdout)
	}

	input := writeFile(t, dir, "square.json", squareJSON)
	if _, err := execute(t, "layout", input); err != nil {
		t.Fatalf("layout: %v", err)
	}
	if stdout, err = execute(t, "cache", "prune"); err != nil {
		t.Fatalf("cache prune: %v", err)
	}
	if !strings.Contains(stdout, "Pruned 0 expired entries") {
		t.Errorf("prune output = %q", stdout)
	}
	if stdout, err = execute(t, "cache", "clear"); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if !strings.Contains(stdout, "Cache cleared") {
		t.Errorf("clear output = %q", stdout)
	}
	stdout, err = execute(t, "layout", input)
	if err != nil {
		t.Fatalf("layout after clear: %v", err)
	}
	if !strings.Contains(stdout, "fresh") {
		t.Errorf("layout after clear should recompute, stdout = %q", stdout)
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", []string{"svg"}},
		{"svg", []string{"svg"}},
		{"svg,PNG, dot", []string{"svg", "png", "dot"}},
		{"pdf,,json", []string{"pdf", "json"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseFormats(tt.input); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestOutputPaths(t *testing.T) {
	tests := []struct {
		input, output, format string
		multi                 bool
		want                  string
	}{
		{"fan.json", "", "layout.json", false, "fan.layout.json"},
		{"fan.layout.json", "", "svg", false, "fan.svg"},
		{"dir/fan.layout.json", "", "png", true, "dir/fan.png"},
		{"fan.layout.json", "plot.svg", "svg", false, "plot.svg"},
		{"fan.layout.json", "out/plot.svg", "dot", true, "out/plot.dot"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := artifactPath(tt.input, tt.output, tt.format, tt.multi); got != tt.want {
				t.Errorf("artifactPath(%q, %q, %q) = %q, want %q", tt.input, tt.output, tt.format, got, tt.want)
			}
		})
	}
}

func TestCacheDirXDG(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/custom-cache")
	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if want := filepath.Join("/tmp/custom-cache", appName); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestCacheDirDefault(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if want := filepath.Join(home, ".cache", appName); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}
