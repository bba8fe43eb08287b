package info

import (
	"fmt"
	"runtime"

	"github.com/apex/log"
	clilog "github.com/apex/log/handlers/cli"

	"github.com/urfave/cli/v2"

	"github.com/flipyap/ptdl/pkg/common"
	"github.com/flipyap/ptdl/pkg/config"
)

func Execute(c *cli.Context) error {
	log.SetHandler(clilog.Default)

	cfg, err := config.New(c.Path("config"))
	if err != nil {
		return err
	}

	log.Infof("%s/%s", common.NAME, common.AppVersion.Summary)
	fmt.Println("")
	log.Infof("system information")
	log.Infof("     os: %s", runtime.GOOS)
	log.Infof("   arch: %s", runtime.GOARCH)
	fmt.Println("")
	log.Infof("configuration")
	log.Infof("     data: %s", cfg.DataPath)
	log.Infof("    games: %s", cfg.GamesPath())
	log.Infof("    flash: %s", cfg.FlashPath())
	log.Infof("   ruffle: %s", cfg.RufflePath())
	log.Infof(" settings: %s", cfg.SettingsPath())
	fmt.Println("")
	log.Warnf("To remove everything %s manages, delete:", common.NAME)
	log.Warnf("  - %s", cfg.DataPath)

	return nil
}

func init() {
	cmd := &cli.Command{
		Name:        "info",
		Usage:       "info",
		Description: `general information about the rendered configuration and data paths`,
		Before:      common.Before,
		Flags:       common.Flags(),
		Action:      Execute,
	}

	common.RegisterCommand(cmd)
}
