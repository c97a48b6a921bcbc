package cmd

import (
	"log"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var projectVersion = "dev"

func logCommandError(c *cli.Context, theErr error) {
	if theErr == nil {
		return
	}
	command := "<your-command>"
	if c != nil && c.Command != nil && c.Command.Name != "" {
		command = c.Command.Name
	}
	logrus.Debugf("Command %s failed: %v", command, theErr)
	if !logrus.IsLevelEnabled(logrus.DebugLevel) {
		logrus.Errorf(
			"Peerhive command failed. For verbose output, please use `peerhive --debug %s`", command,
		)
	}
}

// Run starts peerhive
func Run() {
	app := &cli.App{
		Name:                 "peerhive",
		Usage:                "Concurrent peer registry with fair peer selection",
		EnableBashCompletion: true,
		Version:              projectVersion,
		Commands: []*cli.Command{
			simulateCommand,
			serveCommand,
			benchCommand,
		},
		Flags: []cli.Flag{
			debugFlag,
			traceFlag,
			metricsFlag,
			metricsHostFlag,
			metricsPortFlag,
		},
		Before:         setLogLevel,
		ExitErrHandler: logCommandError,
	}

	if runErr := app.Run(os.Args); runErr != nil {
		log.Fatal(runErr)
	}
}
