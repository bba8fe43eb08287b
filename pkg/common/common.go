package common

import (
	"fmt"
)

// NAME of the binary
const NAME = "ptdl"

// DisplayName is the user-facing application name, also used for the
// per-user data directory.
const DisplayName = "PTD Launcher"

// SUMMARY of the version and git state, set via ldflags at build time
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

type Version struct {
	Name    string
	Version string
	Commit  string
	Date    string
	Summary string
}

var AppVersion Version

func init() {
	AppVersion = Version{
		Name:    NAME,
		Version: version,
		Commit:  commit,
		Date:    date,
		Summary: fmt.Sprintf("%s-%s", version, commit),
	}
}

// UserAgent is sent on every outbound HTTP request
func UserAgent() string {
	return fmt.Sprintf("%s/%s", NAME, AppVersion.Version)
}
