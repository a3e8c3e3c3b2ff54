package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `[{"id":1,"name":"Ann","status":"1"},{"id":2,"name":"Bob","status":"0"}]`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	return executeContext(context.Background(), stdin, args...)
}

func executeContext(ctx context.Context, stdin string, args ...string) (string, error) {
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	return out.String(), err
}

func TestRootCommand(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "data.json", sample)
	profile := writeFile(t, dir, "setup.yaml", `renames:
  - from: name
    to: who
fields: [who, status]
rules:
  - field: status
    from: "1"
    to: active
  - field: status
    from: "0"
    kind: remove
`)

	tests := []struct {
		name  string
		stdin string
		args  []string
		want  string
	}{
		{"stdin default txt", sample, nil, "1 Ann 1\n2 Bob 0\n"},
		{"dash reads stdin", sample, []string{"-", "-f", "csv"}, "id,name,status\n1,Ann,1\n2,Bob,0\n"},
		{"select order", "", []string{input, "--select", "name,id"}, "Ann 1\nBob 2\n"},
		{"txt flags", "", []string{input, "--select", "id", "--tab", "--indent", "2", "--single-line"}, "  1\t2\n"},
		{"profile", "", []string{input, "-p", profile, "-f", "csv"}, "who,status\nAnn,active\nBob,\n"},
		{"single object", `{"a":"b"}`, []string{"-f", "json"}, "[\n  {\n    \"a\": \"b\"\n  }\n]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.stdin, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestRootCommandErrors(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "data.json", sample)
	badProfile := writeFile(t, dir, "bad.yaml", "colour: red\n")

	tests := []struct {
		name  string
		stdin string
		args  []string
		want  string
	}{
		{"strict rejects object", `{"a":1}`, []string{"--strict"}, "invalid shape"},
		{"bad json", `[{"a":}]`, nil, "invalid json"},
		{"unknown format", sample, []string{"-f", "xml"}, "unknown format"},
		{"negative indent", sample, []string{"--indent=-1"}, "start indent"},
		{"missing file", "", []string{filepath.Join(dir, "nope.json")}, "open input"},
		{"bad profile", "", []string{input, "-p", badProfile}, "invalid profile"},
		{"watch stdin", sample, []string{"--watch"}, errWatchNeedsFile.Error()},
		{"too many args", "", []string{"a", "b"}, "accepts at most 1 arg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.stdin, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestOutputFile(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "data.json", sample)

	out, err := execute(t, "", input, "-f", "csv", "-o", filepath.Join(dir, "people"))
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(filepath.Join(dir, "people.csv"))
	require.NoError(t, err)
	assert.Equal(t, "id,name,status\n1,Ann,1\n2,Bob,0", string(data))

	_, err = execute(t, "", input, "-o", filepath.Join(dir, "notes.TXT"))
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "notes.TXT"))
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		output string
		format string
		want   string
	}{
		{"out", "csv", "out.csv"},
		{"dir/out.json", "json", filepath.Join("dir", "out.json")},
		{"dir/", "txt", filepath.Join("dir", "result.txt")},
	}
	for _, tt := range tests {
		got, err := outputPath(&options{output: tt.output, format: tt.format})
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestWatchLoopFiltersEvents(t *testing.T) {
	target := filepath.Join(t.TempDir(), "data.json")
	events := make(chan fsnotify.Event)
	errs := make(chan error)

	var calls atomic.Int32
	done := make(chan struct{})
	go func() {
		watchLoop(context.Background(), events, errs, target, func() { calls.Add(1) })
		close(done)
	}()

	events <- fsnotify.Event{Name: target, Op: fsnotify.Write}
	events <- fsnotify.Event{Name: target, Op: fsnotify.Chmod}
	events <- fsnotify.Event{Name: target + ".swp", Op: fsnotify.Write}
	errs <- assert.AnError
	events <- fsnotify.Event{Name: target, Op: fsnotify.Create}
	close(events)

	<-done
	assert.Equal(t, int32(2), calls.Load())
}

func TestWatchRerendersOnChange(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "data.json", `[{"a":"first"}]`)
	output := filepath.Join(dir, "out.txt")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := executeContext(ctx, "", input, "-o", output, "--watch")
		done <- err
	}()
	defer func() {
		cancel()
		assert.NoError(t, <-done)
	}()

	readOutput := func() string {
		data, _ := os.ReadFile(output)
		return string(data)
	}
	require.Eventually(t, func() bool { return readOutput() == "first" }, 5*time.Second, 20*time.Millisecond)

	require.NoError(t, os.WriteFile(input, []byte(`[{"a":"second"}]`), 0o644))
	require.Eventually(t, func() bool { return readOutput() == "second" }, 5*time.Second, 20*time.Millisecond)
}
