package extract

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/gabriel-vasile/mimetype"
	"github.com/sirupsen/logrus"
)

var executableMimetypes = []string{
	"application/x-mach-binary",
	"application/x-executable",
	"application/x-elf",
	"application/vnd.microsoft.portable-executable",
}

// MarkExecutable sets 0755 on path. A missing path is not an error, some
// archives place the binary in an unexpected layout; a failing filesystem
// call is.
func MarkExecutable(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to get permissions: %w", err)
	}

	if err := os.Chmod(path, 0755); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}

	return nil
}

// FindExecutable walks dir looking for the first file with an executable
// mimetype, used to locate a binary that an archive placed somewhere other
// than the conventional path.
func FindExecutable(dir string) (string, bool) {
	var found string

	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || found != "" || d.IsDir() {
			return nil
		}

		m, err := mimetype.DetectFile(path)
		if err != nil {
			logrus.WithError(err).Debug("unable to determine mimetype")
			return nil
		}

		if slices.Contains(executableMimetypes, m.String()) {
			logrus.Debugf("found executable: %s (%s)", path, m.String())
			found = path
		}

		return nil
	})

	return found, found != ""
}
