package main

import (
	"os"
	"path"

	"github.com/apex/log"
	"github.com/rancher/wrangler/pkg/signals"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/flipyap/ptdl/pkg/common"

	_ "github.com/flipyap/ptdl/pkg/commands/info"
	_ "github.com/flipyap/ptdl/pkg/commands/install"
	_ "github.com/flipyap/ptdl/pkg/commands/launch"
	_ "github.com/flipyap/ptdl/pkg/commands/list"
	_ "github.com/flipyap/ptdl/pkg/commands/settings"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			// log panics forces exit
			if _, ok := r.(*logrus.Entry); ok {
				os.Exit(1)
			}
			panic(r)
		}
	}()

	app := cli.NewApp()
	app.Name = path.Base(os.Args[0])
	app.Usage = `download, manage, and launch flash games`
	app.Description = `download flash games and the players that run them, then launch them offline`
	app.Version = common.AppVersion.Summary

	app.Before = common.Before
	app.Flags = common.Flags()

	app.Commands = common.GetCommands()
	app.CommandNotFound = func(context *cli.Context, command string) {
		log.Fatalf("command %s not found.", command)
	}

	ctx := signals.SetupSignalContext()
	if err := app.RunContext(ctx, os.Args); err != nil {
		log.Error(err.Error())
	}
}
