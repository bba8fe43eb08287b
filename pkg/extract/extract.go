package extract

import (
	"archive/tar"
	"compress/bzip2"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/matchers"
	"github.com/krolaw/zipstream"
	"github.com/sirupsen/logrus"
	"github.com/xi2/xz"
)

var tarGzType = filetype.AddType("tgz", "application/tar+gzip")

// ErrUnsupportedFormat - the archive suffix is not one we know how to
// unpack. Format selection is by name only, content is never sniffed.
var ErrUnsupportedFormat = errors.New("unsupported archive format")

// Format of an archive, selected by file-name suffix
type Format int

const (
	Unknown Format = iota
	Zip
	TarGz
	TarXz
	TarBz2
	DiskImage
)

func (f Format) String() string {
	return [...]string{"unknown", "zip", "tar.gz", "tar.xz", "tar.bz2", "dmg"}[f]
}

// Classify maps a file name to its archive format
func Classify(name string) Format {
	name = strings.ToLower(name)

	switch {
	case strings.HasSuffix(name, ".zip"):
		return Zip
	case strings.HasSuffix(name, ".tar.gz"), strings.HasSuffix(name, ".tgz"):
		return TarGz
	case strings.HasSuffix(name, ".tar.xz"):
		return TarXz
	case strings.HasSuffix(name, ".tar.bz2"):
		return TarBz2
	case strings.HasSuffix(name, ".dmg"):
		return DiskImage
	default:
		return Unknown
	}
}

// IsArchive reports whether the name looks like a generic archive at all,
// as opposed to a bare executable or data file that can be published as-is
func IsArchive(name string) bool {
	if ext := strings.TrimPrefix(filepath.Ext(strings.ToLower(name)), "."); ext != "" {
		switch filetype.GetType(ext) {
		case matchers.TypeZip, matchers.TypeGz, matchers.TypeTar, matchers.TypeXz, matchers.TypeBz2, tarGzType:
			return true
		}
	}

	return false
}

// Extract unpacks archivePath into dest using the format implied by its
// suffix, then deletes the archive. Deletion failure is non-fatal.
func Extract(archivePath, dest string) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}

	var xerr error

	switch Classify(archivePath) {
	case Zip:
		xerr = unzip(dest, f)
	case TarGz:
		var gzr *gzip.Reader
		gzr, xerr = gzip.NewReader(f)
		if xerr == nil {
			xerr = untar(dest, gzr)
			_ = gzr.Close()
		}
	case TarXz:
		var xzr *xz.Reader
		xzr, xerr = xz.NewReader(f, 0)
		if xerr == nil {
			xerr = untar(dest, xzr)
		}
	case TarBz2:
		xerr = untar(dest, bzip2.NewReader(f))
	default:
		_ = f.Close()
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Base(archivePath))
	}

	_ = f.Close()

	if xerr != nil {
		return fmt.Errorf("failed to extract archive: %w", xerr)
	}

	if err := os.Remove(archivePath); err != nil {
		logrus.WithError(err).Warnf("unable to remove archive: %s", archivePath)
	}

	return nil
}

func unzip(dst string, in io.Reader) error {
	zr := zipstream.NewReader(in)

	for {
		header, err := zr.Next()
		if err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}

		target, err := sanitizeArchivePath(dst, header.Name)
		if err != nil {
			return err
		}
		logrus.Tracef("zip > target %s", target)

		if header.Mode().IsDir() {
			if _, err := os.Stat(target); err != nil {
				if err := os.MkdirAll(target, 0755); err != nil {
					return err
				}
				logrus.Tracef("zip > create directory %s", target)
			}

			continue
		}

		baseDir := filepath.Dir(target)
		if _, err := os.Stat(baseDir); err != nil {
			if err := os.MkdirAll(baseDir, 0755); err != nil {
				return err
			}
		}

		f, err := os.OpenFile(target, os.O_CREATE|os.O_RDWR|os.O_TRUNC, header.Mode())
		if err != nil {
			return err
		}

		if _, err := io.Copy(f, zr); err != nil { //nolint: gosec
			f.Close()
			return err
		}

		// manually close here after each file operation; deferring would cause
		// each file close to wait until all operations have completed.
		f.Close()

		logrus.Tracef("zip > create file %s", target)
	}
}

func untar(dst string, r io.Reader) error {
	tr := tar.NewReader(r)

	for {
		header, err := tr.Next()

		switch {
		// if no more files are found return
		case err == io.EOF:
			return nil

		// return any other error
		case err != nil:
			return err

		// if the header is nil, just skip it (not sure how this happens)
		case header == nil:
			continue
		}

		target, err := sanitizeArchivePath(dst, header.Name)
		if err != nil {
			return err
		}
		logrus.Tracef("tar > target %s", target)

		switch header.Typeflag {
		// if it's a dir, and it doesn't exist create it
		case tar.TypeDir:
			if _, err := os.Stat(target); err != nil {
				if err := os.MkdirAll(target, 0755); err != nil {
					return err
				}
				logrus.Tracef("tar > create directory %s", target)
			}
		// if it's a file create it
		case tar.TypeReg:
			baseDir := filepath.Dir(target)
			if _, err := os.Stat(baseDir); err != nil {
				if err := os.MkdirAll(baseDir, 0755); err != nil {
					return err
				}
				logrus.Tracef("tar > create directory %s", baseDir)
			}

			f, err := os.OpenFile(target, os.O_CREATE|os.O_RDWR|os.O_TRUNC, os.FileMode(header.Mode)) //nolint: gosec
			if err != nil {
				return err
			}

			if _, err := io.Copy(f, tr); err != nil { //nolint: gosec
				f.Close()
				return err
			}

			// manually close here after each file operation; deferring would cause
			// each file close to wait until all operations have completed.
			f.Close()

			logrus.Tracef("tar > create file %s", target)
		}
	}
}

// sanitizeArchivePath ensures that the path is not tainted
// thanks https://github.com/securego/gosec/issues/324#issuecomment-935927967
func sanitizeArchivePath(d, t string) (v string, err error) {
	v = filepath.Join(d, t)
	if strings.HasPrefix(v, filepath.Clean(d)) {
		return v, nil
	}

	return "", fmt.Errorf("%s: %s", "content filepath is tainted", t)
}
