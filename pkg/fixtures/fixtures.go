// Package fixtures creates peer sets for simulations, benchmarks and the admin API, either
// randomly or from JSON files
package fixtures

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/glothriel/peerhive/pkg/peers"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// ErrDuplicatePeer is returned when a fixture file lists the same id twice
var ErrDuplicatePeer = errors.New("duplicate peer id")

// Record is the on-disk representation of a single peer
type Record struct {
	ID      peers.PeerID `json:"id"`
	Address string       `json:"address,omitempty"`
	Payload []byte       `json:"payload,omitempty"`
}

// Random creates n peers with random ids and payloads
func Random(n int) []*peers.DefaultPeer {
	thePeers := make([]*peers.DefaultPeer, 0, n)
	for i := 0; i < n; i++ {
		thePeers = append(thePeers, peers.RandomPeer())
	}
	return thePeers
}

// Load reads peers from a JSON file containing an array of records
func Load(fs afero.Fs, path string) ([]*peers.DefaultPeer, error) {
	file, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open peers file: %w", err)
	}
	defer file.Close()

	var records []Record
	if decodeErr := json.NewDecoder(file).Decode(&records); decodeErr != nil {
		return nil, fmt.Errorf("failed to decode peers file %s: %w", path, decodeErr)
	}

	seen := make(map[peers.PeerID]bool, len(records))
	thePeers := make([]*peers.DefaultPeer, 0, len(records))
	for _, record := range records {
		if seen[record.ID] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicatePeer, record.ID.Short())
		}
		seen[record.ID] = true
		thePeers = append(thePeers, peers.NewDefaultPeer(record.ID, record.Address, record.Payload))
	}
	logrus.Debugf("Loaded %d peers from %s", len(thePeers), path)
	return thePeers, nil
}

// Save writes peers to a JSON file readable by Load
func Save(fs afero.Fs, path string, thePeers []*peers.DefaultPeer) error {
	if dir := filepath.Dir(path); dir != "" {
		if mkdirErr := fs.MkdirAll(dir, 0o755); mkdirErr != nil {
			return fmt.Errorf("failed to create directory for peers file: %w", mkdirErr)
		}
	}
	records := make([]Record, 0, len(thePeers))
	for _, peer := range thePeers {
		records = append(records, Record{
			ID:      peer.ID(),
			Address: peer.Address,
			Payload: peer.Payload,
		})
	}
	encoded, marshalErr := json.MarshalIndent(records, "", "  ")
	if marshalErr != nil {
		return marshalErr
	}
	return afero.WriteFile(fs, path, encoded, os.FileMode(0o644))
}

// AddAll adds every peer to the registry
func AddAll(registry peers.Registry, thePeers []*peers.DefaultPeer) {
	for _, peer := range thePeers {
		registry.Add(peer)
	}
}
