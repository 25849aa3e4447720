// Package archive implements the docset bundle format: a gzipped
// tarball of one docset directory. Extraction replaces the target
// directory atomically; a failed extraction leaves old contents
// untouched.
package archive

import (
	"archive/tar"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/docpack/docpack/internal/domain"
)

// Ext is the file extension of docset bundles
const Ext = ".tar.gz"

// TarGz packages and unpacks docset bundles
type TarGz struct{}

// NewTarGz creates a new TarGz archiver
func NewTarGz() *TarGz {
	return &TarGz{}
}

// Compress packages sourceDir into a gzipped tarball. Entry names are
// relative to sourceDir.
func (a *TarGz) Compress(sourceDir string) ([]byte, error) {
	var buf bytes.Buffer
	gzw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gzw)

	err := filepath.Walk(sourceDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(sourceDir, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}

		header, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		header.Name = filepath.ToSlash(rel)

		if err := tw.WriteHeader(header); err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		file, err := os.Open(path)
		if err != nil {
			return err
		}
		defer file.Close()

		_, err = io.Copy(tw, file)
		return err
	})
	if err != nil {
		return nil, &domain.ArchiveError{Op: "compress", Path: sourceDir, Err: err}
	}

	if err := tw.Close(); err != nil {
		return nil, &domain.ArchiveError{Op: "compress", Path: sourceDir, Err: err}
	}
	if err := gzw.Close(); err != nil {
		return nil, &domain.ArchiveError{Op: "compress", Path: sourceDir, Err: err}
	}

	return buf.Bytes(), nil
}

// Extract unpacks the archive into targetDir. The archive is unpacked
// into a temporary sibling directory first and renamed over the target
// only on success, so old contents are fully replaced or not at all.
func (a *TarGz) Extract(archive []byte, targetDir string) error {
	parent := filepath.Dir(targetDir)
	if err := os.MkdirAll(parent, 0755); err != nil {
		return &domain.ArchiveError{Op: "extract", Path: targetDir, Err: err}
	}

	staging, err := os.MkdirTemp(parent, filepath.Base(targetDir)+".tmp-")
	if err != nil {
		return &domain.ArchiveError{Op: "extract", Path: targetDir, Err: err}
	}
	defer os.RemoveAll(staging)

	if err := a.unpack(archive, staging); err != nil {
		return &domain.ArchiveError{Op: "extract", Path: targetDir, Err: err}
	}

	if err := os.RemoveAll(targetDir); err != nil {
		return &domain.ArchiveError{Op: "extract", Path: targetDir, Err: err}
	}
	if err := os.Rename(staging, targetDir); err != nil {
		return &domain.ArchiveError{Op: "extract", Path: targetDir, Err: err}
	}

	return nil
}

// unpack writes the archive's entries under destDir
func (a *TarGz) unpack(archive []byte, destDir string) error {
	gzr, err := gzip.NewReader(bytes.NewReader(archive))
	if err != nil {
		return fmt.Errorf("gzip reader failed: %w", err)
	}
	defer gzr.Close()

	tr := tar.NewReader(gzr)

	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("tar read failed: %w", err)
		}

		targetPath := filepath.Join(destDir, filepath.FromSlash(header.Name))

		// Reject entries escaping the destination. A bare prefix check
		// would accept siblings like "dest-evil" next to "dest".
		rel, err := filepath.Rel(destDir, targetPath)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(targetPath, 0755); err != nil {
				return fmt.Errorf("mkdir failed: %w", err)
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(targetPath), 0755); err != nil {
				return fmt.Errorf("mkdir failed: %w", err)
			}

			file, err := os.OpenFile(targetPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, os.FileMode(header.Mode))
			if err != nil {
				return fmt.Errorf("create file failed: %w", err)
			}

			if _, err := io.Copy(file, tr); err != nil {
				file.Close()
				return fmt.Errorf("copy failed: %w", err)
			}
			file.Close()
		}
	}

	return nil
}
