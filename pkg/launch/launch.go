package launch

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/flipyap/ptdl/pkg/osconfig"
)

// Ruffle starts the emulator against a local swf. The spoof URL makes
// sitelocked games believe they are served from their original host, and the
// base URL lets them resolve relative asset requests.
func Ruffle(player, swf, gameURL string) error {
	return start(player, swf, "--spoof-url", gameURL, "--base", baseURL(gameURL))
}

// Flash starts the standalone player. On darwin the player is an app bundle
// and has to go through open.
func Flash(p *osconfig.Platform, player, swf string) error {
	if p.Name == osconfig.Darwin {
		return start("open", "-a", player, swf)
	}

	return start(player, swf)
}

// start spawns the player without waiting; it owns its own lifetime
func start(name string, args ...string) error {
	cmd := exec.Command(name, args...)

	logrus.Debugf("spawning %s %s", name, strings.Join(args, " "))

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to launch %s: %w", name, err)
	}

	return cmd.Process.Release()
}

// baseURL is the game URL truncated just past its final path separator
func baseURL(u string) string {
	if i := strings.LastIndex(u, "/"); i >= 0 {
		return u[:i+1]
	}
	return u
}
