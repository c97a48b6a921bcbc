package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/glothriel/peerhive/pkg/fixtures"
	"github.com/glothriel/peerhive/pkg/sim"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"
)

var simulateCommand *cli.Command = &cli.Command{
	Name:  "simulate",
	Usage: "Runs concurrent fair selections against a registry and reports how evenly peers were picked",
	Flags: []cli.Flag{
		backendFlag,
		peersFlag,
		peersFileFlag,
		connectedRatioFlag,
		workersFlag,
		iterationsFlag,
		onlyConnectedFlag,
		attemptsFlag,
		retryDelayFlag,
		dumpPeersFlag,
	},
	Action: func(c *cli.Context) (runErr error) {
		startPrometheusServer(c)

		registry, _, thePeers, registryErr := getRegistry(c)
		if registryErr != nil {
			return registryErr
		}
		if dumpPath := c.String(dumpPeersFlag.Name); dumpPath != "" {
			if saveErr := fixtures.Save(afero.NewOsFs(), dumpPath, thePeers); saveErr != nil {
				return fmt.Errorf("failed to dump peers: %w", saveErr)
			}
			logrus.Infof("Saved %d peers to %s", len(thePeers), dumpPath)
		}

		cfg := sim.Config{
			Workers:        c.Int(workersFlag.Name),
			Iterations:     c.Int(iterationsFlag.Name),
			ConnectedRatio: c.Float64(connectedRatioFlag.Name),
			OnlyConnected:  c.Bool(onlyConnectedFlag.Name),
			GossipBuffer:   16,
			Attempts:       c.Uint(attemptsFlag.Name),
			Delay:          c.Duration(retryDelayFlag.Name),
		}
		ids := idsOf(thePeers)
		connected, disconnect := sim.Connect(registry, ids, cfg.ConnectedRatio, cfg.GossipBuffer)
		defer func() {
			runErr = multierr.Append(runErr, disconnect())
		}()

		ctx, cancel := signal.NotifyContext(contextOf(c), os.Interrupt)
		defer cancel()

		report, simErr := sim.Run(ctx, cfg, registry)
		if simErr != nil {
			return fmt.Errorf("simulation failed: %w", simErr)
		}

		eligible := ids
		if cfg.OnlyConnected {
			eligible = connected
		}
		summary := report.Summary(eligible)
		logrus.WithFields(logrus.Fields{
			"peers":    summary.Peers,
			"total":    summary.Total,
			"misses":   report.Misses,
			"min":      summary.Min,
			"max":      summary.Max,
			"mean":     fmt.Sprintf("%.2f", summary.Mean),
			"stddev":   fmt.Sprintf("%.2f", summary.StdDev),
			"duration": report.Duration,
		}).Info("Simulation finished")
		return nil
	},
}

func contextOf(c *cli.Context) context.Context {
	if c.Context != nil {
		return c.Context
	}
	return context.Background()
}
