package fonts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("font"), 0644))
}

func TestScanDir(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "Inter", "Inter-Bold.ttf"))
	touch(t, filepath.Join(dir, "Mono.OTF"))
	touch(t, filepath.Join(dir, "readme.txt"))

	got, err := ScanDir(dir)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Inter/Inter-Bold.ttf", "Mono.OTF"}, got)

	got, err = ScanDir(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	bold := filepath.Join(dir, "Inter", "Inter-Bold.ttf")
	regular := filepath.Join(dir, "Inter", "Inter-Regular.ttf")
	mono := filepath.Join(dir, "JetBrains_Mono", "JetBrainsMono-Italic.ttf")
	for _, p := range []string{bold, regular, mono} {
		touch(t, p)
	}

	tests := []struct {
		search string
		want   string
	}{
		{bold, bold},
		{"Inter", regular},
		{"inter bold", bold},
		{"JetBrains Mono", mono},
		{"Inter-Bold.ttf", bold},
	}
	for _, tt := range tests {
		got, err := Resolve(tt.search, dir)
		require.NoError(t, err, tt.search)
		assert.Equal(t, tt.want, got, tt.search)
	}

	_, err := Resolve("Roboto", dir)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = Resolve("  ", dir)
	assert.ErrorIs(t, err, ErrNotFound)
}
