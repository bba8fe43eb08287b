package osconfig

import "runtime"

const (
	Windows = "windows"
	Linux   = "linux"
	Darwin  = "darwin"
)

// Platform captures everything about the host OS that the acquisition
// pipeline branches on: which release asset to look for, what the installed
// binaries are conventionally called, and how downloaded archives are named
// on disk. The rest of the pipeline only ever talks to a Platform, never to
// runtime.GOOS directly.
type Platform struct {
	Name string

	// RufflePattern is the substring used to pick the right asset out of a
	// ruffle release, e.g. "linux-x86_64.tar.gz"
	RufflePattern string

	// RuffleBinary is the conventional name of the installed emulator binary
	RuffleBinary string

	// FlashArchive is the on-disk name the flash player download is saved
	// under before extraction. On windows the download already is the
	// executable, so the configured filename is used instead.
	FlashArchive string
}

func New(osName string) *Platform {
	p := &Platform{Name: osName}

	switch osName {
	case Windows:
		p.RufflePattern = "windows-x86_64.zip"
		p.RuffleBinary = "ruffle.exe"
	case Darwin:
		p.RufflePattern = "macos-universal.tar.gz"
		p.RuffleBinary = "ruffle"
		p.FlashArchive = "flash_player.dmg"
	default:
		p.Name = Linux
		p.RufflePattern = "linux-x86_64.tar.gz"
		p.RuffleBinary = "ruffle"
		p.FlashArchive = "flash_player.tar.gz"
	}

	return p
}

func Current() *Platform {
	return New(runtime.GOOS)
}

// Unix reports whether extracted binaries need their execute bit set
func (p *Platform) Unix() bool {
	return p.Name != Windows
}

// FlashDownloadName returns the filename the flash player download is
// written to. installed is the configured name of the installed artifact,
// which on windows doubles as the download name.
func (p *Platform) FlashDownloadName(installed string) string {
	if p.Name == Windows {
		return installed
	}
	return p.FlashArchive
}
