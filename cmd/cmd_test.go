// File: cmd/cmd_test.go
package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/json-iterator/go"
	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/xkilldash9x/termstyle/internal/css/style"
	"github.com/xkilldash9x/termstyle/internal/observability"
)

const testCSS = `
:root { --accent: cyan; }
screen { color: white; }
box.panel { border: rounded; color: var(--accent); }
#header { text-style: bold !important; }
input:focus { background: blue; }
@media (max-width: 60) {
  box.panel { color: red; }
}
`

const testMarkup = `<screen id="app">
  <box id="header" class="panel">Title</box>
  <box id="main" class="panel"><input id="search"></box>
  <text id="footer">bye</text>
</screen>`

// -- Test Helper Functions --

// setupCommandTest isolates a command run: a private HOME and working
// directory (so no user config is picked up) and a fresh global logger.
func setupCommandTest(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	homedir.DisableCache = true
	t.Cleanup(func() {
		homedir.DisableCache = false
		homedir.Reset()
	})
	chdir(t, dir)

	observability.ResetForTest()
	t.Cleanup(observability.ResetForTest)
	return dir
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// runCommand executes a fresh command tree and returns stdout and stderr.
func runCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	root := NewRootCommand()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func styleFixtures(t *testing.T) (css, markup string) {
	t.Helper()
	dir := setupCommandTest(t)
	return writeFile(t, dir, "app.css", testCSS), writeFile(t, dir, "app.html", testMarkup)
}

func byPath(t *testing.T, out []resolvedElement) map[string]map[string]string {
	t.Helper()
	m := make(map[string]map[string]string, len(out))
	for _, e := range out {
		m[e.Path] = e.Style
	}
	return m
}

// -- Test Cases --

func TestRootCmd_VersionFlag(t *testing.T) {
	setupCommandTest(t)
	out, _, err := runCommand(t, "--version")
	require.NoError(t, err)
	assert.Equal(t, "termstyle version "+Version+"\n", out)
}

func TestVersionCmd(t *testing.T) {
	setupCommandTest(t)
	out, _, err := runCommand(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "termstyle "+Version+"\n", out)
}

func TestRootCmd_ConfigFile(t *testing.T) {
	t.Run("named file that does not exist fails", func(t *testing.T) {
		setupCommandTest(t)
		_, _, err := runCommand(t, "--config", "missing.yaml", "version")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to initialize configuration")
	})

	t.Run("invalid values fail validation", func(t *testing.T) {
		dir := setupCommandTest(t)
		path := writeFile(t, dir, "bad.yaml", "media:\n  width: -1\n")
		_, _, err := runCommand(t, "-c", path, "version")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load or validate config")
	})

	t.Run("media width comes from the config file", func(t *testing.T) {
		css, markup := styleFixtures(t)
		cfg := writeFile(t, filepath.Dir(css), "termstyle.yaml", "media:\n  width: 40\n  height: 20\n")

		out, _, err := runCommand(t, "-c", cfg, "resolve", "--css", css, "-m", markup, "-f", "json")
		require.NoError(t, err)

		var got []resolvedElement
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		assert.Equal(t, "red", byPath(t, got)["screen#app > box#header.panel"]["color"])
	})
}

func TestResolveCmd(t *testing.T) {
	t.Run("json output", func(t *testing.T) {
		css, markup := styleFixtures(t)
		out, _, err := runCommand(t, "resolve", "--css", css, "--markup", markup, "--format", "json")
		require.NoError(t, err)

		var got []resolvedElement
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		require.Len(t, got, 5)
		assert.Equal(t, "screen#app", got[0].Path)

		styles := byPath(t, got)
		header := styles["screen#app > box#header.panel"]
		assert.Equal(t, "cyan", header["color"])
		assert.Equal(t, "rounded", header["border"])
		assert.Equal(t, "bold", header["text-style"])
		// color inherits, border does not.
		input := styles["screen#app > box#main.panel > input#search"]
		assert.Equal(t, "cyan", input["color"])
		assert.NotContains(t, input, "border")
		assert.NotContains(t, input, "background")
		assert.Equal(t, "white", styles["screen#app > text#footer"]["color"])
	})

	t.Run("media flags override config", func(t *testing.T) {
		css, markup := styleFixtures(t)
		out, _, err := runCommand(t, "resolve", "--css", css, "-m", markup, "-f", "yaml", "--width", "50")
		require.NoError(t, err)

		var got []resolvedElement
		require.NoError(t, yaml.Unmarshal([]byte(out), &got))
		assert.Equal(t, "red", byPath(t, got)["screen#app > box#main.panel"]["color"])
	})

	t.Run("focus", func(t *testing.T) {
		css, markup := styleFixtures(t)
		out, _, err := runCommand(t, "resolve", "--css", css, "-m", markup, "-f", "json", "--focus", "search")
		require.NoError(t, err)

		var got []resolvedElement
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		assert.Equal(t, "blue", byPath(t, got)["screen#app > box#main.panel > input#search"]["background"])
	})

	t.Run("unknown focus target", func(t *testing.T) {
		css, markup := styleFixtures(t)
		_, _, err := runCommand(t, "resolve", "--css", css, "-m", markup, "--focus", "nope")
		require.Error(t, err)
		assert.Contains(t, err.Error(), `"nope"`)
	})

	t.Run("tree output", func(t *testing.T) {
		css, markup := styleFixtures(t)
		out, _, err := runCommand(t, "resolve", "--css", css, "-m", markup)
		require.NoError(t, err)
		assert.Contains(t, out, "screen#app")
		assert.Contains(t, out, "box#header.panel")
		assert.Contains(t, out, "text-style: bold !important")
		assert.Contains(t, out, "color: cyan")
		assert.Less(t, strings.Index(out, "box#header.panel"), strings.Index(out, "box#main.panel"))
	})

	t.Run("later stylesheets win ties", func(t *testing.T) {
		css, markup := styleFixtures(t)
		override := writeFile(t, filepath.Dir(css), "override.css", "box.panel { color: green; }")
		out, _, err := runCommand(t, "resolve", "--css", css, "--css", override, "-m", markup, "-f", "json")
		require.NoError(t, err)

		var got []resolvedElement
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		assert.Equal(t, "green", byPath(t, got)["screen#app > box#header.panel"]["color"])
	})

	t.Run("missing stylesheet", func(t *testing.T) {
		_, markup := styleFixtures(t)
		_, _, err := runCommand(t, "resolve", "--css", "nope.css", "-m", markup)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read stylesheet nope.css")
	})

	t.Run("props output", func(t *testing.T) {
		css, markup := styleFixtures(t)
		out, _, err := runCommand(t, "resolve", "--css", css, "-m", markup, "-f", "props", "--width", "100")
		require.NoError(t, err)

		var got []flattenedElement
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		props := map[string]style.Props{}
		for _, e := range got {
			props[e.Path] = e.Props
		}
		header := props["screen#app > box#header.panel"]
		assert.Equal(t, "cyan", header.Foreground)
		assert.True(t, header.Bold)
		assert.Equal(t, "rounded", header.BorderStyle)
		assert.True(t, header.Visible)
		assert.Equal(t, "white", props["screen#app > text#footer"].Foreground)
	})

	t.Run("preview output", func(t *testing.T) {
		dir := setupCommandTest(t)
		css := writeFile(t, dir, "preview.css", "box.panel { border: rounded; } .gone { display: none; } .ghost { visibility: hidden; }")
		markup := writeFile(t, dir, "preview.html", `<screen>
  <box class="panel">Title</box>
  <box class="gone"><text>Secret</text></box>
  <text class="ghost">Hidden</text>
  <text>Plain</text>
</screen>`)
		out, _, err := runCommand(t, "resolve", "--css", css, "-m", markup, "-f", "preview")
		require.NoError(t, err)
		assert.Contains(t, out, "╭")
		assert.Contains(t, out, "Title")
		assert.Contains(t, out, "Plain")
		assert.NotContains(t, out, "Secret")
		assert.NotContains(t, out, "Hidden")
	})

	t.Run("unknown format", func(t *testing.T) {
		css, markup := styleFixtures(t)
		_, _, err := runCommand(t, "resolve", "--css", css, "-m", markup, "-f", "xml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), `unknown output format "xml"`)
	})

	t.Run("required flags", func(t *testing.T) {
		setupCommandTest(t)
		_, _, err := runCommand(t, "resolve")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "required flag")
	})
}

func TestQueryCmd(t *testing.T) {
	t.Run("lists matches in document order", func(t *testing.T) {
		_, markup := styleFixtures(t)
		out, _, err := runCommand(t, "query", "-m", markup, "screen > box.panel")
		require.NoError(t, err)
		assert.Equal(t, "screen#app > box#header.panel\nscreen#app > box#main.panel\n", out)
	})

	t.Run("focus", func(t *testing.T) {
		_, markup := styleFixtures(t)
		out, _, err := runCommand(t, "query", "-m", markup, "--focus", "search", ":focus")
		require.NoError(t, err)
		assert.Equal(t, "screen#app > box#main.panel > input#search\n", out)
	})

	t.Run("xml markup", func(t *testing.T) {
		dir := setupCommandTest(t)
		markup := writeFile(t, dir, "app.xml", `<screen id="app"><box class="panel"/><box/></screen>`)
		out, _, err := runCommand(t, "query", "-m", markup, "box.panel")
		require.NoError(t, err)
		assert.Equal(t, "screen#app > box.panel\n", out)
	})

	t.Run("no matches", func(t *testing.T) {
		_, markup := styleFixtures(t)
		out, _, err := runCommand(t, "query", "-m", markup, "button")
		require.NoError(t, err)
		assert.Empty(t, out)
	})

	t.Run("needs a selector", func(t *testing.T) {
		_, markup := styleFixtures(t)
		_, _, err := runCommand(t, "query", "-m", markup)
		require.Error(t, err)
	})
}

func TestGridCmd(t *testing.T) {
	t.Run("text output from flags", func(t *testing.T) {
		setupCommandTest(t)
		out, _, err := runCommand(t, "grid", "--columns", "10 1fr", "--rows", "3 1fr", "--count", "4", "--width", "30", "--height", "10")
		require.NoError(t, err)
		assert.Equal(t, `columns: [10 20]
rows: [3 7]
item-1: row 1/span 1, column 1/span 1 -> 10x3 at (0,0)
item-2: row 1/span 1, column 2/span 1 -> 20x3 at (10,0)
item-3: row 2/span 1, column 1/span 1 -> 10x7 at (0,3)
item-4: row 2/span 1, column 2/span 1 -> 20x7 at (10,3)
`, out)
	})

	t.Run("items file with areas", func(t *testing.T) {
		dir := setupCommandTest(t)
		items := writeFile(t, dir, "layout.yaml", `container:
  columns: "1fr 1fr"
  rows: "2 1fr"
  areas: |
    head head
    side body
items:
  - name: head
    area: head
  - name: side
    area: side
  - name: body
    area: body
`)
		out, _, err := runCommand(t, "grid", "--items", items, "--width", "20", "--height", "10", "-f", "json")
		require.NoError(t, err)

		var got gridResult
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		assert.Equal(t, []int{10, 10}, got.Columns)
		assert.Equal(t, []int{2, 8}, got.Rows)
		require.Len(t, got.Items, 3)
		assert.Equal(t, gridItemResult{Name: "head", Row: 1, Column: 1, RowSpan: 1, ColumnSpan: 2, Width: 20, Height: 2}, got.Items[0])
		assert.Equal(t, gridItemResult{Name: "body", Row: 2, Column: 2, RowSpan: 1, ColumnSpan: 1, X: 10, Y: 2, Width: 10, Height: 8}, got.Items[2])
		assert.Equal(t, map[string]gridAreaResult{
			"head": {RowStart: 1, RowEnd: 2, ColumnStart: 1, ColumnEnd: 3},
			"side": {RowStart: 2, RowEnd: 3, ColumnStart: 1, ColumnEnd: 2},
			"body": {RowStart: 2, RowEnd: 3, ColumnStart: 2, ColumnEnd: 3},
		}, got.Areas)

		// Flags win over the file's container.
		out, _, err = runCommand(t, "grid", "--items", items, "--columns", "5 1fr", "--width", "20", "--height", "10", "-f", "json")
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		assert.Equal(t, []int{5, 15}, got.Columns)
	})

	t.Run("gap from config", func(t *testing.T) {
		dir := setupCommandTest(t)
		cfg := writeFile(t, dir, "termstyle.yaml", "grid:\n  default_gap: 2\n")
		out, _, err := runCommand(t, "-c", cfg, "grid", "--columns", "1fr 1fr", "--count", "2", "--width", "22", "--height", "1", "-f", "yaml")
		require.NoError(t, err)

		var got gridResult
		require.NoError(t, yaml.Unmarshal([]byte(out), &got))
		assert.Equal(t, []int{10, 10}, got.Columns)
		assert.Equal(t, 12, got.Items[1].X)
		assert.Nil(t, got.Areas)
	})

	t.Run("markup mode", func(t *testing.T) {
		dir := setupCommandTest(t)
		css := writeFile(t, dir, "dash.css", `
#main { grid-template-columns: 8 1fr; grid-template-rows: 1 1fr; }
#title { grid-column: 1 / 3; }
.hidden { display: none; }
`)
		markup := writeFile(t, dir, "dash.html", `<screen id="main">
  <text id="title">Dashboard</text>
  <box id="nav"></box>
  <box class="hidden"></box>
  <box id="body"></box>
</screen>`)

		out, _, err := runCommand(t, "grid", "--css", css, "-m", markup, "--container", "main", "--width", "20", "--height", "6", "-f", "json")
		require.NoError(t, err)

		var got gridResult
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		assert.Equal(t, []int{8, 12}, got.Columns)
		assert.Equal(t, []int{1, 5}, got.Rows)
		require.Len(t, got.Items, 3)
		assert.Equal(t, 20, got.Items[0].Width)
		assert.Equal(t, gridItemResult{Name: "box#nav", Row: 2, Column: 1, RowSpan: 1, ColumnSpan: 1, Y: 1, Width: 8, Height: 5}, got.Items[1])
		assert.Equal(t, 8, got.Items[2].X)
	})

	t.Run("markup mode needs css", func(t *testing.T) {
		_, markup := styleFixtures(t)
		_, _, err := runCommand(t, "grid", "-m", markup, "--container", "app")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--css")
	})

	t.Run("auto-placement limit", func(t *testing.T) {
		dir := setupCommandTest(t)
		cfg := writeFile(t, dir, "termstyle.yaml", "grid:\n  max_auto_rows: 1\n")
		_, _, err := runCommand(t, "-c", cfg, "grid", "--columns", "1fr", "--rows", "1", "--count", "3", "--width", "10", "--height", "3")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "auto-placement")
	})
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (testing.T.Chdir requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("chdir: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("chdir: restoring %s: %v", prev, err)
		}
	})
}
