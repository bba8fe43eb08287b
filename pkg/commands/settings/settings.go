package settings

import (
	"github.com/apex/log"
	clilog "github.com/apex/log/handlers/cli"

	"github.com/urfave/cli/v2"

	"github.com/flipyap/ptdl/pkg/common"
	"github.com/flipyap/ptdl/pkg/config"
	"github.com/flipyap/ptdl/pkg/settings"
)

func Execute(c *cli.Context) error {
	log.SetHandler(clilog.Default)

	cfg, err := config.New(c.Path("config"))
	if err != nil {
		return err
	}

	store, err := settings.Open(cfg.SettingsPath())
	if err != nil {
		return err
	}

	next := store.Snapshot()
	changed := false

	if c.IsSet("use-ruffle") {
		next.UseRuffle = c.Bool("use-ruffle")
		changed = true
	}
	if c.IsSet("sound") {
		next.SoundEnabled = c.Bool("sound")
		changed = true
	}
	if c.IsSet("flash-path") {
		next.FlashPlayerPath = c.Path("flash-path")
		changed = true
	}
	if c.IsSet("ruffle-path") {
		next.RufflePath = c.Path("ruffle-path")
		changed = true
	}

	if changed {
		if err := store.Replace(next); err != nil {
			return err
		}
		log.Infof("settings saved to %s", cfg.SettingsPath())
	}

	log.Infof("  use ruffle: %t", next.UseRuffle)
	log.Infof("       sound: %t", next.SoundEnabled)
	log.Infof("  flash path: %s", orDefault(next.FlashPlayerPath))
	log.Infof(" ruffle path: %s", orDefault(next.RufflePath))

	return nil
}

func orDefault(path string) string {
	if path == "" {
		return "(managed install)"
	}
	return path
}

func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "use-ruffle",
			Usage: "Prefer the ruffle emulator over the flash player",
		},
		&cli.BoolFlag{
			Name:  "sound",
			Usage: "Enable game sound",
		},
		&cli.PathFlag{
			Name:  "flash-path",
			Usage: "Use a flash player at a custom path instead of the managed install",
		},
		&cli.PathFlag{
			Name:  "ruffle-path",
			Usage: "Use a ruffle binary at a custom path instead of the managed install",
		},
	}
}

func init() {
	cmd := &cli.Command{
		Name:        "settings",
		Usage:       "settings",
		Description: `show the current settings, optionally changing them first`,
		Before:      common.Before,
		Flags:       append(Flags(), common.Flags()...),
		Action:      Execute,
	}

	common.RegisterCommand(cmd)
}
