package cmd

import (
	"github.com/glothriel/peerhive/pkg/sim"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var benchCommand *cli.Command = &cli.Command{
	Name:  "bench",
	Usage: "Times every registry operation for each backend and registry size",
	Flags: []cli.Flag{
		backendsFlag,
		sizesFlag,
		operationsFlag,
	},
	Action: func(c *cli.Context) error {
		backends, backendsErr := parseBackends(c.String(backendsFlag.Name))
		if backendsErr != nil {
			return backendsErr
		}
		sizes, sizesErr := parseSizes(c.String(sizesFlag.Name))
		if sizesErr != nil {
			return sizesErr
		}
		operations, operationsErr := parseOperations(c.String(operationsFlag.Name))
		if operationsErr != nil {
			return operationsErr
		}

		results, benchErr := sim.Bench(operations, backends, sizes)
		if benchErr != nil {
			return benchErr
		}
		for _, result := range results {
			logrus.Info(result.String())
		}
		return nil
	},
}
