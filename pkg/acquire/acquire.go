package acquire

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/flipyap/ptdl/pkg/config"
	"github.com/flipyap/ptdl/pkg/download"
	"github.com/flipyap/ptdl/pkg/extract"
	"github.com/flipyap/ptdl/pkg/osconfig"
	"github.com/flipyap/ptdl/pkg/progress"
	"github.com/flipyap/ptdl/pkg/release"
	"github.com/flipyap/ptdl/pkg/settings"
	"github.com/flipyap/ptdl/pkg/versions"
)

// Progress item ids for the two runtimes; games report under their own id
const (
	ItemFlash  = "flash_player"
	ItemRuffle = "ruffle"
)

// Discoverer finds the latest emulator nightly. Discovery failure is
// recoverable, the coordinator falls back to static configuration.
type Discoverer interface {
	Latest(ctx context.Context, p *osconfig.Platform) (*release.Candidate, error)
}

type Options struct {
	OS          string
	GitHubToken string
	SizeLimit   uint64
	Sink        progress.Sink
}

// Coordinator sequences one acquisition at a time: locate, download with
// fallback, extract, fix permissions, record the version, report the
// installed path. Progress is streamed to the Sink throughout.
type Coordinator struct {
	Config     *config.Config
	Platform   *osconfig.Platform
	Store      *settings.Store
	Ledger     *versions.Ledger
	Downloader *download.Downloader
	Discovery  Discoverer
	Sink       progress.Sink
}

func New(cfg *config.Config, store *settings.Store, opts *Options) *Coordinator {
	if opts == nil {
		opts = &Options{}
	}

	platform := osconfig.Current()
	if opts.OS != "" {
		platform = osconfig.New(opts.OS)
	}

	dl := download.New()
	if opts.SizeLimit > 0 {
		dl.SizeLimit = opts.SizeLimit
	}

	sink := opts.Sink
	if sink == nil {
		sink = progress.Nop()
	}

	return &Coordinator{
		Config:     cfg,
		Platform:   platform,
		Store:      store,
		Ledger:     versions.NewLedger(cfg.GamesPath()),
		Downloader: dl,
		Discovery:  release.New(cfg.MetadataPath(), opts.GitHubToken),
		Sink:       sink,
	}
}

// attempt is one link in the download retry chain, note is the milestone
// emitted before the attempt runs
type attempt struct {
	url  string
	note string
}

// fetchChain walks the attempts in order, stopping at the first success.
// On total failure the last error is returned: the deepest, most specific
// failure, not a generic wrapper.
func (c *Coordinator) fetchChain(ctx context.Context, item, dest string, attempts []attempt) error {
	var err error

	for _, at := range attempts {
		if at.note != "" {
			c.milestone(item, at.note)
		}

		if err = c.Downloader.Fetch(ctx, at.url, dest, item, c.Sink); err == nil {
			return nil
		}

		logrus.WithError(err).Debugf("download attempt failed: %s", at.url)
	}

	return err
}

func (c *Coordinator) milestone(item, status string) {
	c.Sink.Emit(progress.Event{Item: item, Status: status})
}

func (c *Coordinator) completed(item string) {
	c.Sink.Emit(progress.Event{Item: item, Percent: 100, Status: "Download complete"})
}

// InstallFlash acquires the standalone flash player and returns the
// installed path
func (c *Coordinator) InstallFlash(ctx context.Context) (string, error) {
	spec := c.Config.FlashSpec(c.Platform)
	flashDir := c.Config.FlashPath()
	if err := os.MkdirAll(flashDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create flash directory: %w", err)
	}

	downloadPath := filepath.Join(flashDir, c.Platform.FlashDownloadName(spec.Filename))

	c.milestone(ItemFlash, "Starting download...")

	attempts := []attempt{{url: spec.PrimaryURL}}
	if spec.FallbackURL != "" {
		attempts = append(attempts, attempt{url: spec.FallbackURL, note: "Primary failed, trying fallback..."})
	}

	if err := c.fetchChain(ctx, ItemFlash, downloadPath, attempts); err != nil {
		return "", err
	}

	installedPath := filepath.Join(flashDir, spec.Filename)

	switch {
	case c.Platform.Name == osconfig.Darwin:
		if err := extract.ExtractDiskImage(downloadPath, flashDir, spec.Filename); err != nil {
			return "", err
		}
	case extract.IsArchive(downloadPath):
		if err := c.unpack(downloadPath, flashDir, installedPath); err != nil {
			return "", err
		}
	default:
		// bare executable, the download already is the installed artifact
	}

	if err := c.Ledger.SetFlashPlayer(c.Config.Flash.FallbackVersion); err != nil {
		return "", err
	}

	c.completed(ItemFlash)

	return installedPath, nil
}

// InstallRuffle acquires the emulator, preferring the latest nightly and
// falling back to the static configuration when discovery fails
func (c *Coordinator) InstallRuffle(ctx context.Context) (string, error) {
	ruffleDir := c.Config.RufflePath()
	if err := os.MkdirAll(ruffleDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create ruffle directory: %w", err)
	}

	c.milestone(ItemRuffle, "Fetching latest nightly...")

	var attempts []attempt
	var archive, binaryName, version string

	cand, err := c.Discovery.Latest(ctx, c.Platform)
	if err != nil {
		// recoverable: fall back to the static location, recorded under the
		// literal "fallback" tag
		c.milestone(ItemRuffle, fmt.Sprintf("Failed to fetch latest: %s. Using fallback...", err))

		spec := c.Config.RuffleSpec(c.Platform)
		attempts = []attempt{{url: spec.PrimaryURL}}
		if spec.FallbackURL != "" {
			attempts = append(attempts, attempt{url: spec.FallbackURL, note: "Primary failed, trying fallback..."})
		}
		archive = release.ArchiveName(spec.PrimaryURL)
		binaryName = spec.Filename
		version = "fallback"
	} else {
		attempts = []attempt{{url: cand.URL}}
		archive = cand.ArchiveName
		binaryName = c.Platform.RuffleBinary
		version = cand.Version
	}

	downloadPath := filepath.Join(ruffleDir, archive)

	c.milestone(ItemRuffle, "Starting download...")

	if err := c.fetchChain(ctx, ItemRuffle, downloadPath, attempts); err != nil {
		return "", err
	}

	installedPath := filepath.Join(ruffleDir, binaryName)

	if err := c.unpack(downloadPath, ruffleDir, installedPath); err != nil {
		return "", err
	}

	if err := c.Ledger.SetRuffle(version); err != nil {
		return "", err
	}

	c.completed(ItemRuffle)

	return installedPath, nil
}

// InstallGame downloads a game asset. Games are published as single files,
// there is nothing to extract.
func (c *Coordinator) InstallGame(ctx context.Context, id string) (string, error) {
	u, err := c.Config.GameURL(id)
	if err != nil {
		return "", err
	}

	gamesDir := c.Config.GamesPath()
	if err := os.MkdirAll(gamesDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create games directory: %w", err)
	}

	dest := filepath.Join(gamesDir, id+".swf")

	c.milestone(id, "Starting download...")

	if err := c.fetchChain(ctx, id, dest, []attempt{{url: u}}); err != nil {
		return "", err
	}

	if err := c.Ledger.SetGame(id, strconv.FormatInt(time.Now().Unix(), 10)); err != nil {
		return "", err
	}

	c.completed(id)

	return dest, nil
}

// unpack extracts an archive into destDir and marks the conventional binary
// executable. When the archive used an unexpected layout the destination is
// scanned for whatever executable it did ship.
func (c *Coordinator) unpack(archivePath, destDir, binaryPath string) error {
	if err := extract.Extract(archivePath, destDir); err != nil {
		return err
	}

	if !c.Platform.Unix() {
		return nil
	}

	if _, err := os.Stat(binaryPath); os.IsNotExist(err) {
		if found, ok := extract.FindExecutable(destDir); ok {
			logrus.Debugf("binary missing at %s, marking %s instead", binaryPath, found)
			return extract.MarkExecutable(found)
		}
		return nil
	}

	return extract.MarkExecutable(binaryPath)
}
