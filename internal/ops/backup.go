// Package ops holds operational helpers for self-hosted installs:
// archiving and restoring the data directory that holds the progress
// store and player identity.
package ops

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultArchiveName returns a timestamped archive file name, e.g.
// tapkombat-20260301-120000.tar.gz.
func DefaultArchiveName(now time.Time) string {
	return "tapkombat-" + now.UTC().Format("20060102-150405") + ".tar.gz"
}

// Backup writes a gzipped tarball of dataDir to archivePath. Symlinks
// are skipped so a restore never writes outside the target directory.
func Backup(dataDir, archivePath string) error {
	dataDir = filepath.Clean(strings.TrimSpace(dataDir))
	archivePath = filepath.Clean(strings.TrimSpace(archivePath))
	if dataDir == "" || archivePath == "" {
		return fmt.Errorf("data dir and archive path are required")
	}
	info, err := os.Stat(dataDir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("not a directory: %s", dataDir)
	}
	if err := os.MkdirAll(filepath.Dir(archivePath), 0o755); err != nil {
		return err
	}

	f, err := os.Create(archivePath)
	if err != nil {
		return err
	}
	defer f.Close()

	gz := gzip.NewWriter(f)
	defer gz.Close()

	tw := tar.NewWriter(gz)
	defer tw.Close()

	return filepath.WalkDir(dataDir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if path == dataDir || d.Type()&os.ModeSymlink != 0 {
			return nil
		}
		rel, err := filepath.Rel(dataDir, path)
		if err != nil {
			return err
		}
		return writeEntry(tw, path, filepath.ToSlash(rel), d)
	})
}

func writeEntry(tw *tar.Writer, path, rel string, d fs.DirEntry) error {
	info, err := d.Info()
	if err != nil {
		return err
	}
	hdr, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return err
	}
	hdr.Name = rel
	if info.IsDir() && !strings.HasSuffix(hdr.Name, "/") {
		hdr.Name += "/"
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	if info.IsDir() {
		return nil
	}

	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()
	_, err = io.Copy(tw, src)
	return err
}

// Restore unpacks an archive produced by Backup into dataDir,
// rejecting entries that would escape it.
func Restore(archivePath, dataDir string) error {
	archivePath = filepath.Clean(strings.TrimSpace(archivePath))
	dataDir = filepath.Clean(strings.TrimSpace(dataDir))
	if archivePath == "" || dataDir == "" {
		return fmt.Errorf("archive path and data dir are required")
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}

	f, err := os.Open(archivePath)
	if err != nil {
		return err
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return err
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		rel, err := safeRelPath(hdr.Name)
		if err != nil {
			return err
		}
		outPath := filepath.Join(dataDir, rel)

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(outPath, os.FileMode(hdr.Mode)); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := extractFile(tr, outPath, os.FileMode(hdr.Mode)); err != nil {
				return err
			}
		default:
			// Ignore device nodes, symlinks and other entry types.
		}
	}
}

func extractFile(tr *tar.Reader, outPath string, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}
	dst, err := os.OpenFile(outPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, mode)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, tr); err != nil {
		_ = dst.Close()
		return err
	}
	return dst.Close()
}

func safeRelPath(name string) (string, error) {
	name = filepath.Clean(strings.TrimSpace(name))
	if name == "." || name == "" {
		return "", fmt.Errorf("invalid archive entry path")
	}
	if filepath.IsAbs(name) {
		return "", fmt.Errorf("absolute archive entry path: %s", name)
	}
	if name == ".." || strings.HasPrefix(name, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("archive entry escapes target: %s", name)
	}
	return name, nil
}
