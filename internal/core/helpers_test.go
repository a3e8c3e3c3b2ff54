package core

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func stringsReader(s string) io.Reader { return strings.NewReader(s) }

// loadedWorkspace returns a permissive workspace holding text.
func loadedWorkspace(t *testing.T, text string) *Workspace {
	t.Helper()
	ws := NewWorkspace(ShapePermissive)
	require.NoError(t, ws.Load(text))
	return ws
}

func render(t *testing.T, ws *Workspace, f Format) string {
	t.Helper()
	out, err := ws.Render(f)
	require.NoError(t, err)
	return out
}
