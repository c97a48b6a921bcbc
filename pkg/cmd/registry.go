package cmd

import (
	"fmt"

	"github.com/glothriel/peerhive/pkg/fixtures"
	"github.com/glothriel/peerhive/pkg/peers"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v2"
)

func getPeers(c *cli.Context) ([]*peers.DefaultPeer, error) {
	if path := c.String(peersFileFlag.Name); path != "" {
		loaded, loadErr := fixtures.Load(afero.NewOsFs(), path)
		if loadErr != nil {
			return nil, fmt.Errorf("failed to load peers: %w", loadErr)
		}
		logrus.Infof("Populating registry with %d peers from %s", len(loaded), path)
		return loaded, nil
	}
	count := c.Int(peersFlag.Name)
	if count < 0 {
		return nil, fmt.Errorf("--%s must not be negative, got %d", peersFlag.Name, count)
	}
	return fixtures.Random(count), nil
}

func getRegistry(c *cli.Context) (peers.Registry, peers.Backend, []*peers.DefaultPeer, error) {
	backend, backendErr := peers.ParseBackend(c.String(backendFlag.Name))
	if backendErr != nil {
		return nil, "", nil, backendErr
	}
	registry, registryErr := peers.New(backend)
	if registryErr != nil {
		return nil, "", nil, registryErr
	}
	thePeers, peersErr := getPeers(c)
	if peersErr != nil {
		return nil, "", nil, peersErr
	}
	registry = peers.NewInstrumentedRegistry(registry, backend, prometheus.DefaultRegisterer)
	fixtures.AddAll(registry, thePeers)
	logrus.Infof("Using %s registry with %d peers", backend, registry.Len())
	return registry, backend, thePeers, nil
}

func idsOf(thePeers []*peers.DefaultPeer) []peers.PeerID {
	ids := make([]peers.PeerID, 0, len(thePeers))
	for _, peer := range thePeers {
		ids = append(ids, peer.ID())
	}
	return ids
}
