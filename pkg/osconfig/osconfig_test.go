package osconfig

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	cases := []struct {
		osName        string
		wantName      string
		rufflePattern string
		ruffleBinary  string
		flashArchive  string
		unix          bool
	}{
		{
			osName:        Windows,
			wantName:      Windows,
			rufflePattern: "windows-x86_64.zip",
			ruffleBinary:  "ruffle.exe",
			flashArchive:  "",
			unix:          false,
		},
		{
			osName:        Darwin,
			wantName:      Darwin,
			rufflePattern: "macos-universal.tar.gz",
			ruffleBinary:  "ruffle",
			flashArchive:  "flash_player.dmg",
			unix:          true,
		},
		{
			osName:        Linux,
			wantName:      Linux,
			rufflePattern: "linux-x86_64.tar.gz",
			ruffleBinary:  "ruffle",
			flashArchive:  "flash_player.tar.gz",
			unix:          true,
		},
		{
			// anything unrecognized is treated as linux
			osName:        "freebsd",
			wantName:      Linux,
			rufflePattern: "linux-x86_64.tar.gz",
			ruffleBinary:  "ruffle",
			flashArchive:  "flash_player.tar.gz",
			unix:          true,
		},
	}

	for _, c := range cases {
		t.Run(c.osName, func(t *testing.T) {
			p := New(c.osName)
			assert.Equal(t, c.wantName, p.Name)
			assert.Equal(t, c.rufflePattern, p.RufflePattern)
			assert.Equal(t, c.ruffleBinary, p.RuffleBinary)
			assert.Equal(t, c.flashArchive, p.FlashArchive)
			assert.Equal(t, c.unix, p.Unix())
		})
	}
}

func TestFlashDownloadName(t *testing.T) {
	assert.Equal(t, "flashplayer_sa.exe", New(Windows).FlashDownloadName("flashplayer_sa.exe"))
	assert.Equal(t, "flash_player.tar.gz", New(Linux).FlashDownloadName("flashplayer"))
	assert.Equal(t, "flash_player.dmg", New(Darwin).FlashDownloadName("Flash Player.app"))
}

func TestCurrent(t *testing.T) {
	p := Current()
	assert.NotEmpty(t, p.Name)
	assert.NotEmpty(t, p.RufflePattern)
	assert.NotEmpty(t, p.RuffleBinary)
}
