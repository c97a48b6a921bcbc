package cmd

import (
	"github.com/glothriel/peerhive/pkg/api"
	"github.com/glothriel/peerhive/pkg/sim"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func configureAPIServer(cliCtx *cli.Context) api.ServerSettings {
	username := cliCtx.String(basicAuthUsernameFlag.Name)
	password := cliCtx.String(basicAuthPasswordFlag.Name)
	settings := api.NewServerSettings().WithDebug(cliCtx.Bool(debugFlag.Name))
	if username != "" && password != "" {
		settings = settings.WithBasicAuth(username, password)
	} else {
		logrus.Info(
			"State-changing API endpoints will not be enabled - " +
				"either basic auth username or password is missing",
		)
	}
	return settings
}

var serveCommand *cli.Command = &cli.Command{
	Name:  "serve",
	Usage: "Populates a registry and exposes it through the admin API",
	Flags: []cli.Flag{
		backendFlag,
		peersFlag,
		peersFileFlag,
		connectedRatioFlag,
		listenAddressFlag,
		basicAuthUsernameFlag,
		basicAuthPasswordFlag,
	},
	Action: func(c *cli.Context) error {
		startPrometheusServer(c)

		registry, backend, thePeers, registryErr := getRegistry(c)
		if registryErr != nil {
			return registryErr
		}
		_, disconnect := sim.Connect(registry, idsOf(thePeers), c.Float64(connectedRatioFlag.Name), 16)
		defer func() {
			if disconnectErr := disconnect(); disconnectErr != nil {
				logrus.Warnf("Failed to close some connections: %v", disconnectErr)
			}
		}()

		addr := c.String(listenAddressFlag.Name)
		logrus.Infof("Starting admin API on %s", addr)
		return api.NewAdminAPI([]api.Controller{
			api.NewPeersController(registry, backend),
		}, configureAPIServer(c)).Run(addr)
	},
}
