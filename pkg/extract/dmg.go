package extract

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// ExtractDiskImage mounts a dmg, copies bundleName out of the mounted
// volume into dest, then unmounts. Mount and copy failures are fatal;
// unmount failure after a successful copy is only logged, the copy already
// succeeded and a lingering mount is a cleanup concern. The scratch mount
// point is removed either way, as is the image itself (best-effort).
func ExtractDiskImage(imagePath, dest, bundleName string) error {
	mountPoint := filepath.Join(os.TempDir(), "ptdl_flash_mount")
	if err := os.MkdirAll(mountPoint, 0755); err != nil {
		return fmt.Errorf("failed to create mount point: %w", err)
	}

	out, err := exec.Command("hdiutil", "attach", imagePath, "-mountpoint", mountPoint).CombinedOutput()
	if err != nil {
		_ = os.RemoveAll(mountPoint)
		return fmt.Errorf("hdiutil attach failed: %s", cmdError(out, err))
	}

	defer func() {
		if out, err := exec.Command("hdiutil", "detach", mountPoint).CombinedOutput(); err != nil {
			logrus.Warnf("failed to unmount disk image: %s", cmdError(out, err))
		}
		_ = os.RemoveAll(mountPoint)
	}()

	src := filepath.Join(mountPoint, bundleName)
	if _, err := os.Stat(src); err == nil {
		if err := copyTree(src, filepath.Join(dest, bundleName)); err != nil {
			return fmt.Errorf("failed to copy %s: %w", bundleName, err)
		}
	}

	if err := os.Remove(imagePath); err != nil {
		logrus.WithError(err).Warnf("unable to remove disk image: %s", imagePath)
	}

	return nil
}

func cmdError(out []byte, err error) string {
	if msg := strings.TrimSpace(string(out)); msg != "" {
		return msg
	}
	return err.Error()
}

// copyTree copies src (file or directory) to dst preserving file modes
func copyTree(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}

	if !info.IsDir() {
		return copyFile(src, dst, info.Mode())
	}

	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		if d.IsDir() {
			return os.MkdirAll(target, 0755)
		}

		fi, err := d.Info()
		if err != nil {
			return err
		}

		return copyFile(path, target, fi.Mode())
	})
}

func copyFile(src, dst string, mode fs.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}
