// Package filestore saves export artifacts to a local directory.
package filestore

import (
	"fmt"
	"os"
	"path/filepath"

	"namecard/internal/domain"
)

// WriteArtifact writes the artifact into dir under its own filename and
// returns the final path. The body goes to a temp file that is renamed into
// place, so a failed write never leaves a partial .vcf behind.
func WriteArtifact(dir string, art domain.ExportArtifact) (string, error) {
	name := filepath.Base(art.Filename)
	if name == "." || name == string(filepath.Separator) || name == "" {
		return "", fmt.Errorf("invalid artifact filename %q", art.Filename)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".vcard-*.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(art.Body); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write artifact: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to sync artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close artifact: %w", err)
	}

	dest := filepath.Join(dir, name)
	if err := os.Rename(tmpName, dest); err != nil {
		return "", fmt.Errorf("failed to move artifact into place: %w", err)
	}
	if err := os.Chmod(dest, 0o644); err != nil {
		return "", fmt.Errorf("failed to set artifact mode: %w", err)
	}
	return dest, nil
}
