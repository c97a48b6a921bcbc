// Package sim drives a registry with concurrent selection workloads and reports how evenly
// the selections were spread across peers
package sim

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"github.com/glothriel/peerhive/pkg/peers"
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

// Config describes a simulation run
type Config struct {
	Workers        int
	Iterations     int
	ConnectedRatio float64
	// OnlyConnected makes workers select among connected peers only
	OnlyConnected bool
	GossipBuffer  int
	Attempts      uint
	Delay         time.Duration
}

// Report holds the outcome of a simulation run
type Report struct {
	Selections map[peers.PeerID]int
	Misses     int
	Duration   time.Duration
}

// Summary describes how selections were distributed
type Summary struct {
	Peers  int
	Total  int
	Min    int
	Max    int
	Mean   float64
	StdDev float64
}

// Summary computes distribution statistics over peers that were eligible for selection
func (r Report) Summary(eligible []peers.PeerID) Summary {
	s := Summary{Peers: len(eligible)}
	if len(eligible) == 0 {
		return s
	}
	s.Min = math.MaxInt
	for _, id := range eligible {
		count := r.Selections[id]
		s.Total += count
		if count < s.Min {
			s.Min = count
		}
		if count > s.Max {
			s.Max = count
		}
	}
	s.Mean = float64(s.Total) / float64(len(eligible))
	var variance float64
	for _, id := range eligible {
		diff := float64(r.Selections[id]) - s.Mean
		variance += diff * diff
	}
	s.StdDev = math.Sqrt(variance / float64(len(eligible)))
	return s
}

// Connect attaches channel connections to the first ratio*len(ids) peers. Gossip sent over
// them is drained until the returned disconnect function is called, which also closes them.
func Connect(registry peers.Registry, ids []peers.PeerID, ratio float64, buffer int) ([]peers.PeerID, func() error) {
	count := int(math.Round(ratio * float64(len(ids))))
	if count < 0 {
		count = 0
	}
	if count > len(ids) {
		count = len(ids)
	}
	var drainers sync.WaitGroup
	connected := make([]peers.PeerID, 0, count)
	for _, id := range ids[:count] {
		conn, gossip, _ := peers.NewChannelConnection(buffer)
		if !registry.Update(id, func(e *peers.Entry) { e.Connection = conn }) {
			continue
		}
		connected = append(connected, id)
		drainers.Add(1)
		go func() {
			defer drainers.Done()
			for range gossip {
			}
		}()
	}
	logrus.Infof("Connected %d of %d peers", len(connected), len(ids))
	return connected, func() error {
		var disconnectErr error
		for _, id := range connected {
			var conn *peers.Connection
			registry.Update(id, func(e *peers.Entry) {
				conn = e.Connection
				e.Connection = nil
			})
			disconnectErr = multierr.Append(disconnectErr, conn.Close())
		}
		drainers.Wait()
		return disconnectErr
	}
}

// Run starts cfg.Workers goroutines, each making cfg.Iterations selections through a
// peers.Selector and gossiping to the selected peer when it is connected
func Run(ctx context.Context, cfg Config, registry peers.Registry) (Report, error) {
	selector := peers.NewSelector(registry, cfg.Attempts, cfg.Delay)
	var mtx sync.Mutex
	report := Report{Selections: make(map[peers.PeerID]int)}
	started := time.Now()

	group, groupCtx := errgroup.WithContext(ctx)
	for worker := 0; worker < cfg.Workers; worker++ {
		worker := worker
		group.Go(func() error {
			local := make(map[peers.PeerID]int)
			misses := 0
			defer func() {
				mtx.Lock()
				defer mtx.Unlock()
				for id, count := range local {
					report.Selections[id] += count
				}
				report.Misses += misses
			}()
			for i := 0; i < cfg.Iterations; i++ {
				if groupCtx.Err() != nil {
					return groupCtx.Err()
				}
				var id peers.PeerID
				var selectErr error
				if cfg.OnlyConnected {
					id, selectErr = selector.NextConnected(groupCtx)
				} else {
					id, selectErr = selector.Next(groupCtx, func(peers.Peer) bool { return true })
				}
				if errors.Is(selectErr, peers.ErrNoPeerFound) {
					misses++
					continue
				}
				if selectErr != nil {
					return selectErr
				}
				local[id]++
				gossip(registry, id, worker, i)
			}
			return nil
		})
	}
	waitErr := group.Wait()
	report.Duration = time.Since(started)
	return report, waitErr
}

func gossip(registry peers.Registry, id peers.PeerID, worker, iteration int) {
	entry, ok := registry.Get(id)
	if !ok || !entry.Connected() || entry.Connection.Gossip == nil {
		return
	}
	if sendErr := entry.Connection.Gossip.Send([]byte{byte(worker), byte(iteration)}); sendErr != nil {
		logrus.Tracef("Failed to gossip to %s: %v", id.Short(), sendErr)
	}
}
