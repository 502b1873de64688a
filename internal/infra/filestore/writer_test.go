package filestore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"namecard/internal/domain"
)

func TestWriteArtifact(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	art := domain.ExportArtifact{
		Filename:    "Jane_Doe Smith_1.vcf",
		ContentType: domain.VCardContentType,
		Body:        []byte("BEGIN:VCARD\r\nEND:VCARD"),
	}

	path, err := WriteArtifact(dir, art)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Jane_Doe Smith_1.vcf"), path)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, art.Body, got)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must not remain")
}

func TestWriteArtifactStripsDirectories(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteArtifact(dir, domain.ExportArtifact{Filename: "../../evil.vcf", Body: []byte("x")})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "evil.vcf"), path)
}

func TestWriteArtifactRejectsEmptyName(t *testing.T) {
	_, err := WriteArtifact(t.TempDir(), domain.ExportArtifact{Body: []byte("x")})
	assert.Error(t, err)
}
