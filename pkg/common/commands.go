package common

import (
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var commands []*cli.Command

// RegisterCommand registers a cli command for inclusion in the app, commands
// register themselves from their package init functions
func RegisterCommand(command *cli.Command) {
	logrus.Debugln("registering", command.Name)
	commands = append(commands, command)
}

// GetCommands returns all registered commands sorted by name
func GetCommands() []*cli.Command {
	sort.Slice(commands, func(i, j int) bool {
		return commands[i].Name < commands[j].Name
	})

	return commands
}

// Flags that are common to every command
func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.PathFlag{
			Name:    "config",
			Usage:   "Path to the configuration file",
			Aliases: []string{"c"},
			EnvVars: []string{"PTDL_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "Log Level",
			Aliases: []string{"l"},
			EnvVars: []string{"PTDL_LOG_LEVEL"},
			Value:   "info",
		},
		&cli.BoolFlag{
			Name:    "log-caller",
			Usage:   "log the caller (aka line number and file)",
			EnvVars: []string{"PTDL_LOG_CALLER"},
		},
	}
}

// Before configures logging ahead of every command action
func Before(c *cli.Context) error {
	formatter := &logrus.TextFormatter{
		DisableTimestamp: true,
	}
	logrus.SetFormatter(formatter)

	switch c.String("log-level") {
	case "trace":
		logrus.SetLevel(logrus.TraceLevel)
	case "debug":
		logrus.SetLevel(logrus.DebugLevel)
	case "info":
		logrus.SetLevel(logrus.InfoLevel)
	case "warn":
		logrus.SetLevel(logrus.WarnLevel)
	case "error":
		logrus.SetLevel(logrus.ErrorLevel)
	default:
		return fmt.Errorf("invalid log-level: %s", c.String("log-level"))
	}

	if c.Bool("log-caller") {
		logrus.SetReportCaller(true)
	}

	return nil
}
