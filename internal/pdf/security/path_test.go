package security

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPathValidator(t *testing.T) {
	_, err := NewPathValidator("")
	assert.Error(t, err)

	v, err := NewPathValidator("/does/not/exist/yet")
	require.NoError(t, err)
	assert.Equal(t, "/does/not/exist/yet", v.ImportDirectory())
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	v, err := NewPathValidator(dir)
	require.NoError(t, err)

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr bool
	}{
		{"relative", "kasko.pdf", filepath.Join(dir, "kasko.pdf"), false},
		{"nested relative", "2024/ocak/kasko.pdf", filepath.Join(dir, "2024", "ocak", "kasko.pdf"), false},
		{"absolute inside", filepath.Join(dir, "a.pdf"), filepath.Join(dir, "a.pdf"), false},
		{"dot segments inside", filepath.Join(dir, "x", "..", "a.pdf"), filepath.Join(dir, "a.pdf"), false},
		{"traversal", "../secret.pdf", "", true},
		{"absolute outside", "/etc/passwd", "", true},
		{"prefix sibling", dir + "-other/a.pdf", "", true},
		{"empty", "", "", true},
		{"null byte only", "\x00", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := v.Resolve(tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsWithin_Symlink(t *testing.T) {
	dir := t.TempDir()
	outside := t.TempDir()

	target := filepath.Join(outside, "policy.pdf")
	require.NoError(t, os.WriteFile(target, []byte("%PDF-1.4"), 0o600))

	link := filepath.Join(dir, "link.pdf")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	v, err := NewPathValidator(dir)
	require.NoError(t, err)

	within, err := v.IsWithin(link)
	require.NoError(t, err)
	assert.False(t, within, "symlink escaping the directory must be rejected")

	_, err = v.Resolve("link.pdf")
	assert.Error(t, err)
}
