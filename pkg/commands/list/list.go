package list

import (
	"sort"

	"github.com/apex/log"
	clilog "github.com/apex/log/handlers/cli"

	"github.com/urfave/cli/v2"

	"github.com/flipyap/ptdl/pkg/acquire"
	"github.com/flipyap/ptdl/pkg/common"
	"github.com/flipyap/ptdl/pkg/config"
	"github.com/flipyap/ptdl/pkg/settings"
	"github.com/flipyap/ptdl/pkg/versions"
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

	coord := acquire.New(cfg, store, nil)

	ledger, err := versions.NewLedger(cfg.GamesPath()).Load()
	if err != nil {
		return err
	}

	log.Infof("runtimes")
	log.Infof("  flash player: %s", describe(coord.FlashInstalled(), ledger.FlashPlayer))
	log.Infof("  ruffle:       %s", describe(coord.RuffleInstalled(), ledger.Ruffle))

	ids := make([]string, 0, len(cfg.Games))
	for id := range cfg.Games {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	log.Infof("games")
	for _, id := range ids {
		marker := " "
		if coord.GameInstalled(id) {
			marker = "*"
		}
		log.Infof("  %s %s", marker, id)
	}

	return nil
}

// describe renders install state plus the recorded version when known
func describe(installed bool, version string) string {
	if !installed {
		return "not installed"
	}
	if version == "" {
		return "installed"
	}
	return "installed (" + version + ")"
}

func init() {
	cmd := &cli.Command{
		Name:        "list",
		Usage:       "list",
		Description: `list runtimes and the game catalog, marking what is installed`,
		Before:      common.Before,
		Flags:       common.Flags(),
		Action:      Execute,
	}

	common.RegisterCommand(cmd)
}
