package launch

import (
	"fmt"

	"github.com/apex/log"
	clilog "github.com/apex/log/handlers/cli"

	"github.com/urfave/cli/v2"

	"github.com/flipyap/ptdl/pkg/acquire"
	"github.com/flipyap/ptdl/pkg/common"
	"github.com/flipyap/ptdl/pkg/config"
	"github.com/flipyap/ptdl/pkg/launch"
	"github.com/flipyap/ptdl/pkg/progress"
	"github.com/flipyap/ptdl/pkg/settings"
)

func Execute(c *cli.Context) error {
	log.SetHandler(clilog.Default)
	log.SetLevel(log.DebugLevel)

	cfg, err := config.New(c.Path("config"))
	if err != nil {
		return err
	}

	if err := cfg.MkdirAll(); err != nil {
		return err
	}

	store, err := settings.Open(cfg.SettingsPath())
	if err != nil {
		return err
	}

	coord := acquire.New(cfg, store, &acquire.Options{
		GitHubToken: c.String("github-token"),
		Sink:        progress.NewLogSink(),
	})

	id := c.Args().First()

	gameURL, err := cfg.GameURL(id)
	if err != nil {
		return err
	}

	// missing pieces are fetched on demand, a first launch installs
	// everything it needs
	swf, ok := coord.GamePath(id)
	if !ok {
		if swf, err = coord.InstallGame(c.Context, id); err != nil {
			return err
		}
	}

	snap := store.Snapshot()

	if snap.UseRuffle || c.Bool("ruffle") {
		if !coord.RuffleInstalled() {
			if _, err := coord.InstallRuffle(c.Context); err != nil {
				return err
			}
		}

		log.Infof("launching %s with ruffle", id)
		return launch.Ruffle(coord.RufflePath(), swf, gameURL)
	}

	if !coord.FlashInstalled() {
		if _, err := coord.InstallFlash(c.Context); err != nil {
			return err
		}
	}

	log.Infof("launching %s with flash player", id)
	return launch.Flash(coord.Platform, coord.FlashPath(), swf)
}

func Before(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("exactly one game id must be specified")
	}

	return common.Before(c)
}

func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "ruffle",
			Usage: "Launch with the ruffle emulator regardless of settings",
		},
		&cli.StringFlag{
			Name:     "github-token",
			Usage:    "GitHub token to use for GitHub API requests",
			EnvVars:  []string{"PTDL_GITHUB_TOKEN"},
			Category: "Authentication",
		},
	}
}

func init() {
	cmd := &cli.Command{
		Name:        "launch",
		Usage:       "launch",
		Description: `launch a game, installing the game and its player first if needed`,
		Before:      Before,
		Flags:       append(Flags(), common.Flags()...),
		Action:      Execute,
		Args:        true,
		ArgsUsage:   " game-id",
	}

	common.RegisterCommand(cmd)
}
