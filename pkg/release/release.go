package release

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/go-github/v62/github"
	"github.com/gregjones/httpcache"
	"github.com/gregjones/httpcache/diskcache"
	"github.com/sirupsen/logrus"

	"github.com/flipyap/ptdl/pkg/osconfig"
)

const (
	ruffleOwner = "ruffle-rs"
	ruffleRepo  = "ruffle"
)

var (
	// ErrNoReleases - the release index came back empty
	ErrNoReleases = errors.New("no releases found")

	// ErrNoMatchingAsset - the newest release has no downloadable file for
	// this platform
	ErrNoMatchingAsset = errors.New("no matching release asset")
)

// Candidate is a discovered download: where to get it, what to call the
// archive on disk, and the release tag it came from.
type Candidate struct {
	URL         string
	ArchiveName string
	Version     string
}

// Discovery finds the latest ruffle nightly for a platform. Failures here
// are recoverable, the caller falls back to its static configuration.
type Discovery struct {
	client *github.Client
}

// New builds a Discovery whose API responses are cached on disk under
// metadataDir
func New(metadataDir, githubToken string) *Discovery {
	cacheDir := filepath.Join(metadataDir, "github-cache")

	client := github.NewClient(httpcache.NewTransport(diskcache.New(cacheDir)).Client())
	if githubToken != "" {
		client = client.WithAuthToken(githubToken)
	}

	return &Discovery{client: client}
}

// NewWithClient is used by tests to point discovery at a stub API
func NewWithClient(client *github.Client) *Discovery {
	return &Discovery{client: client}
}

// Latest returns the newest nightly build for the platform. "Newest" is the
// first entry in index order, the way the release index is published; no
// version comparison is performed.
func (d *Discovery) Latest(ctx context.Context, p *osconfig.Platform) (*Candidate, error) {
	releases, _, err := d.client.Repositories.ListReleases(ctx, ruffleOwner, ruffleRepo, &github.ListOptions{
		PerPage: 10,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch releases: %w", err)
	}

	if len(releases) == 0 {
		return nil, ErrNoReleases
	}

	newest := releases[0]
	logrus.Debugf("newest release: %s (%d assets)", newest.GetTagName(), len(newest.Assets))

	asset := pickAsset(newest.Assets, p.RufflePattern)
	if asset == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoMatchingAsset, p.RufflePattern)
	}

	u := asset.GetBrowserDownloadURL()

	return &Candidate{
		URL:         u,
		ArchiveName: ArchiveName(u),
		Version:     newest.GetTagName(),
	}, nil
}

// pickAsset selects the first asset matching the platform pattern,
// skipping the browser-extension builds that share the same suffix
func pickAsset(assets []*github.ReleaseAsset, pattern string) *github.ReleaseAsset {
	for _, a := range assets {
		name := a.GetName()
		if strings.Contains(name, pattern) && !strings.Contains(name, "extension") {
			return a
		}
	}

	return nil
}

// ArchiveName is the final path segment of the download URL
func ArchiveName(u string) string {
	name := path.Base(u)
	if name == "." || name == "/" || name == "" {
		return "ruffle_archive"
	}
	return name
}
