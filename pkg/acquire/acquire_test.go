package acquire

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flipyap/ptdl/pkg/config"
	"github.com/flipyap/ptdl/pkg/download"
	"github.com/flipyap/ptdl/pkg/osconfig"
	"github.com/flipyap/ptdl/pkg/progress"
	"github.com/flipyap/ptdl/pkg/release"
	"github.com/flipyap/ptdl/pkg/settings"
	"github.com/flipyap/ptdl/pkg/versions"
)

// recorder captures every event so tests can assert on milestone ordering
type recorder struct {
	mu     sync.Mutex
	events []progress.Event
}

func (r *recorder) Emit(e progress.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) statuses() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []string
	for _, e := range r.events {
		if e.Downloaded == 0 && e.Total == 0 {
			out = append(out, e.Status)
		}
	}
	return out
}

func (r *recorder) last(t *testing.T) progress.Event {
	t.Helper()

	r.mu.Lock()
	defer r.mu.Unlock()
	require.NotEmpty(t, r.events)
	return r.events[len(r.events)-1]
}

type stubDiscoverer struct {
	cand *release.Candidate
	err  error
}

func (s *stubDiscoverer) Latest(context.Context, *osconfig.Platform) (*release.Candidate, error) {
	return s.cand, s.err
}

func testCoordinator(t *testing.T, osName string) (*Coordinator, *recorder) {
	t.Helper()

	cfg := config.Default()
	cfg.DataPath = t.TempDir()

	store, err := settings.Open(cfg.SettingsPath())
	require.NoError(t, err)

	rec := &recorder{}

	return &Coordinator{
		Config:     cfg,
		Platform:   osconfig.New(osName),
		Store:      store,
		Ledger:     versions.NewLedger(cfg.GamesPath()),
		Downloader: download.New(),
		Discovery:  &stubDiscoverer{err: fmt.Errorf("discovery not stubbed")},
		Sink:       rec,
	}, rec
}

func tarGzBytes(t *testing.T, entry, content string) []byte {
	t.Helper()

	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gw)
	require.NoError(t, tw.WriteHeader(&tar.Header{
		Name: entry,
		Mode: 0644,
		Size: int64(len(content)),
	}))
	_, err := tw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, tw.Close())
	require.NoError(t, gw.Close())
	return buf.Bytes()
}

func TestInstallFlashPrimary(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		_, _ = w.Write(bytes.Repeat([]byte("flash"), 1024))
	}))
	t.Cleanup(srv.Close)

	c, rec := testCoordinator(t, osconfig.Windows)
	c.Config.Flash.Windows = config.AssetSpec{
		PrimaryURL: srv.URL + "/flashplayer_sa.exe",
		Filename:   "flashplayer_sa.exe",
	}

	installed, err := c.InstallFlash(context.Background())
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(c.Config.FlashPath(), "flashplayer_sa.exe"), installed)
	assert.FileExists(t, installed)
	assert.Equal(t, 1, hits)

	statuses := rec.statuses()
	assert.Contains(t, statuses, "Starting download...")
	assert.NotContains(t, statuses, "Primary failed, trying fallback...")

	last := rec.last(t)
	assert.Equal(t, "Download complete", last.Status)
	assert.Equal(t, 100, last.Percent)

	ledger, err := c.Ledger.Load()
	require.NoError(t, err)
	assert.Equal(t, c.Config.Flash.FallbackVersion, ledger.FlashPlayer)
}

func TestInstallFlashFallback(t *testing.T) {
	var primaryHits, fallbackHits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/primary":
			primaryHits++
			w.WriteHeader(http.StatusInternalServerError)
		case "/fallback":
			fallbackHits++
			_, _ = w.Write([]byte("fallback bits"))
		}
	}))
	t.Cleanup(srv.Close)

	c, rec := testCoordinator(t, osconfig.Windows)
	c.Config.Flash.Windows = config.AssetSpec{
		PrimaryURL:  srv.URL + "/primary",
		FallbackURL: srv.URL + "/fallback",
		Filename:    "flashplayer_sa.exe",
	}

	installed, err := c.InstallFlash(context.Background())
	require.NoError(t, err)
	assert.FileExists(t, installed)
	assert.Equal(t, 1, primaryHits)
	assert.Equal(t, 1, fallbackHits)

	assert.Contains(t, rec.statuses(), "Primary failed, trying fallback...")
}

func TestInstallFlashBothFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/primary" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	c, rec := testCoordinator(t, osconfig.Windows)
	c.Config.Flash.Windows = config.AssetSpec{
		PrimaryURL:  srv.URL + "/primary",
		FallbackURL: srv.URL + "/fallback",
		Filename:    "flashplayer_sa.exe",
	}

	_, err := c.InstallFlash(context.Background())
	require.Error(t, err)

	// the last attempt's failure is the one reported
	var se *download.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.Code)

	assert.NotContains(t, rec.statuses(), "Download complete")

	ledger, lerr := c.Ledger.Load()
	require.NoError(t, lerr)
	assert.Empty(t, ledger.FlashPlayer)
}

func TestInstallFlashNoFallbackConfigured(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	c, _ := testCoordinator(t, osconfig.Windows)
	c.Config.Flash.Windows = config.AssetSpec{
		PrimaryURL: srv.URL + "/primary",
		Filename:   "flashplayer_sa.exe",
	}

	_, err := c.InstallFlash(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, hits)

	// the primary's own error comes back untouched
	var se *download.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusInternalServerError, se.Code)
}

func TestInstallFlashArchive(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file modes are not meaningful on windows")
	}

	body := tarGzBytes(t, "flash_player", "#!/bin/sh\n")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)

	c, _ := testCoordinator(t, osconfig.Linux)
	c.Config.Flash.Linux = config.AssetSpec{
		PrimaryURL: srv.URL + "/flash_player.tar.gz",
		Filename:   "flash_player",
	}

	installed, err := c.InstallFlash(context.Background())
	require.NoError(t, err)

	info, err := os.Stat(installed)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0755), info.Mode().Perm())

	// the downloaded archive is cleaned up after extraction
	assert.NoFileExists(t, filepath.Join(c.Config.FlashPath(), "flash_player.tar.gz"))
}

func TestInstallRuffleDiscovered(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file modes are not meaningful on windows")
	}

	body := tarGzBytes(t, "ruffle", "#!/bin/sh\n")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)

	c, rec := testCoordinator(t, osconfig.Linux)
	c.Discovery = &stubDiscoverer{cand: &release.Candidate{
		URL:         srv.URL + "/ruffle-nightly-2026_02_09-linux-x86_64.tar.gz",
		ArchiveName: "ruffle-nightly-2026_02_09-linux-x86_64.tar.gz",
		Version:     "nightly-2026-02-09",
	}}

	installed, err := c.InstallRuffle(context.Background())
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(c.Config.RufflePath(), "ruffle"), installed)

	info, err := os.Stat(installed)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0755), info.Mode().Perm())

	statuses := rec.statuses()
	assert.Contains(t, statuses, "Fetching latest nightly...")
	assert.NotContains(t, statuses, "Failed to fetch latest: discovery down. Using fallback...")

	ledger, err := c.Ledger.Load()
	require.NoError(t, err)
	assert.Equal(t, "nightly-2026-02-09", ledger.Ruffle)
}

func TestInstallRuffleDiscoveryFallback(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file modes are not meaningful on windows")
	}

	body := tarGzBytes(t, "ruffle", "#!/bin/sh\n")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)

	c, rec := testCoordinator(t, osconfig.Linux)
	c.Discovery = &stubDiscoverer{err: fmt.Errorf("discovery down")}
	c.Config.Ruffle.Linux = config.AssetSpec{
		PrimaryURL: srv.URL + "/ruffle-static-linux-x86_64.tar.gz",
		Filename:   "ruffle",
	}

	installed, err := c.InstallRuffle(context.Background())
	require.NoError(t, err)
	assert.FileExists(t, installed)

	assert.Contains(t, rec.statuses(), "Failed to fetch latest: discovery down. Using fallback...")

	// fallback installs are tagged literally, not with a guessed version
	ledger, err := c.Ledger.Load()
	require.NoError(t, err)
	assert.Equal(t, "fallback", ledger.Ruffle)
}

func TestInstallRuffleDownloadFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	c, _ := testCoordinator(t, osconfig.Linux)
	c.Discovery = &stubDiscoverer{cand: &release.Candidate{
		URL:         srv.URL + "/ruffle-nightly-linux-x86_64.tar.gz",
		ArchiveName: "ruffle-nightly-linux-x86_64.tar.gz",
		Version:     "nightly-2026-02-09",
	}}

	_, err := c.InstallRuffle(context.Background())
	require.Error(t, err)

	var se *download.StatusError
	assert.ErrorAs(t, err, &se)
}

func TestInstallGame(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("FWS swf bytes"))
	}))
	t.Cleanup(srv.Close)

	c, rec := testCoordinator(t, osconfig.Linux)
	c.Config.Games = map[string]string{"ptd1": srv.URL + "/ptd1.swf"}

	installed, err := c.InstallGame(context.Background(), "ptd1")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(c.Config.GamesPath(), "ptd1.swf"), installed)
	assert.FileExists(t, installed)
	assert.Contains(t, rec.statuses(), "Download complete")

	ledger, err := c.Ledger.Load()
	require.NoError(t, err)
	_, perr := strconv.ParseInt(ledger.Games["ptd1"], 10, 64)
	assert.NoError(t, perr, "game version token should be a unix timestamp")
}

func TestInstallGameUnknownID(t *testing.T) {
	c, _ := testCoordinator(t, osconfig.Linux)
	c.Config.Games = map[string]string{}

	_, err := c.InstallGame(context.Background(), "ptd9")
	assert.ErrorIs(t, err, config.ErrNotConfigured)
}

func TestInstallGameTooLarge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(bytes.Repeat([]byte("x"), 64*1024))
	}))
	t.Cleanup(srv.Close)

	c, _ := testCoordinator(t, osconfig.Linux)
	c.Downloader.SizeLimit = 1024
	c.Config.Games = map[string]string{"ptd1": srv.URL + "/ptd1.swf"}

	_, err := c.InstallGame(context.Background(), "ptd1")
	assert.ErrorIs(t, err, download.ErrTooLarge)
	assert.NoFileExists(t, filepath.Join(c.Config.GamesPath(), "ptd1.swf"))
}
