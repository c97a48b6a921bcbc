package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/glothriel/peerhive/pkg/peers"
	"github.com/glothriel/peerhive/pkg/sim"
	"github.com/urfave/cli/v2"
)

var debugFlag *cli.BoolFlag = &cli.BoolFlag{
	Name:  "debug",
	Usage: "Log registry changes and request details",
}

var traceFlag *cli.BoolFlag = &cli.BoolFlag{
	Name:  "trace",
	Usage: "Log every selection attempt as well",
}

var metricsFlag *cli.BoolFlag = &cli.BoolFlag{
	Name:  "metrics",
	Usage: "Expose registry metrics in prometheus format",
}

var metricsHostFlag *cli.StringFlag = &cli.StringFlag{
	Name:  "metrics-host",
	Value: "0.0.0.0",
}

var metricsPortFlag *cli.IntFlag = &cli.IntFlag{
	Name:  "metrics-port",
	Value: 8090,
}

var backendFlag *cli.StringFlag = &cli.StringFlag{
	Name:  "backend",
	Usage: "Registry backend to use: vector, hashed or ordered",
	Value: string(peers.BackendHashed),
}

var peersFlag *cli.IntFlag = &cli.IntFlag{
	Name:  "peers",
	Usage: "Number of random peers to populate the registry with, ignored when --peers-file is set",
	Value: 100,
}

var peersFileFlag *cli.StringFlag = &cli.StringFlag{
	Name:  "peers-file",
	Usage: "JSON file with peers to populate the registry with",
	Value: "",
}

var connectedRatioFlag *cli.Float64Flag = &cli.Float64Flag{
	Name:  "connected-ratio",
	Usage: "Fraction of peers that get a connection attached",
	Value: 0.5,
}

var workersFlag *cli.IntFlag = &cli.IntFlag{
	Name:  "workers",
	Value: 4,
}

var iterationsFlag *cli.IntFlag = &cli.IntFlag{
	Name:  "iterations",
	Usage: "Number of selections made by every worker",
	Value: 1000,
}

var onlyConnectedFlag *cli.BoolFlag = &cli.BoolFlag{
	Name:  "only-connected",
	Usage: "Select among connected peers only",
}

var attemptsFlag *cli.UintFlag = &cli.UintFlag{
	Name:  "attempts",
	Usage: "How many times a selection is retried before it counts as a miss, 0 retries until interrupted",
	Value: 3,
}

var retryDelayFlag *cli.DurationFlag = &cli.DurationFlag{
	Name:  "retry-delay",
	Value: 0,
}

var dumpPeersFlag *cli.StringFlag = &cli.StringFlag{
	Name:  "dump-peers",
	Usage: "Save the peers used by the simulation to the given JSON file",
	Value: "",
}

var listenAddressFlag *cli.StringFlag = &cli.StringFlag{
	Name:  "listen-address",
	Value: "0.0.0.0:8082",
}

var basicAuthUsernameFlag *cli.StringFlag = &cli.StringFlag{
	Name:    "basic-auth-username",
	EnvVars: []string{"PEERHIVE_BASIC_AUTH_USERNAME"},
	Value:   "",
}

var basicAuthPasswordFlag *cli.StringFlag = &cli.StringFlag{
	Name:    "basic-auth-password",
	EnvVars: []string{"PEERHIVE_BASIC_AUTH_PASSWORD"},
	Value:   "",
}

var sizesFlag *cli.StringFlag = &cli.StringFlag{
	Name:  "sizes",
	Usage: "Comma-separated registry sizes to benchmark",
	Value: "1,5,10",
}

var backendsFlag *cli.StringFlag = &cli.StringFlag{
	Name:  "backends",
	Usage: "Comma-separated backends to benchmark",
	Value: "vector,hashed,ordered",
}

var operationsFlag *cli.StringFlag = &cli.StringFlag{
	Name:  "operations",
	Usage: "Comma-separated operations to benchmark, all of them when empty",
	Value: "",
}

func splitCSV(raw string) []string {
	fields := []string{}
	for _, field := range strings.Split(raw, ",") {
		field = strings.TrimSpace(field)
		if field != "" {
			fields = append(fields, field)
		}
	}
	return fields
}

func parseSizes(raw string) ([]int, error) {
	sizes := []int{}
	for _, field := range splitCSV(raw) {
		size, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("invalid size %q: %w", field, err)
		}
		if size < 1 {
			return nil, fmt.Errorf("invalid size %d: must be positive", size)
		}
		sizes = append(sizes, size)
	}
	if len(sizes) == 0 {
		return nil, fmt.Errorf("at least one size is required")
	}
	return sizes, nil
}

func parseBackends(raw string) ([]peers.Backend, error) {
	backends := []peers.Backend{}
	for _, field := range splitCSV(raw) {
		backend, err := peers.ParseBackend(field)
		if err != nil {
			return nil, err
		}
		backends = append(backends, backend)
	}
	if len(backends) == 0 {
		return nil, fmt.Errorf("at least one backend is required")
	}
	return backends, nil
}

func parseOperations(raw string) ([]sim.Operation, error) {
	fields := splitCSV(raw)
	if len(fields) == 0 {
		return sim.Operations, nil
	}
	operations := []sim.Operation{}
	for _, field := range fields {
		found := false
		for _, known := range sim.Operations {
			if string(known) == strings.ToLower(field) {
				operations = append(operations, known)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown operation %q", field)
		}
	}
	return operations, nil
}
