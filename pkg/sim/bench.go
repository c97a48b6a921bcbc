package sim

import (
	"fmt"
	"testing"

	"github.com/glothriel/peerhive/pkg/fixtures"
	"github.com/glothriel/peerhive/pkg/peers"
)

// Operation is a single registry operation measured by Bench
type Operation string

// Operations measured by Bench
const (
	OperationGet      Operation = "get"
	OperationGetAll   Operation = "get_all"
	OperationFairFind Operation = "fair_find"
	OperationAdd      Operation = "add"
	OperationRemove   Operation = "remove"
	OperationForEach  Operation = "for_each"
)

// Operations lists everything Bench can measure
var Operations = []Operation{
	OperationGet,
	OperationGetAll,
	OperationFairFind,
	OperationAdd,
	OperationRemove,
	OperationForEach,
}

// BenchResult is the measurement of one operation on one backend and registry size
type BenchResult struct {
	Operation   Operation
	Backend     peers.Backend
	Size        int
	NsPerOp     int64
	AllocsPerOp int64
}

func (r BenchResult) String() string {
	return fmt.Sprintf("%s %s/%02d: %d ns/op, %d allocs/op", r.Operation, r.Backend, r.Size, r.NsPerOp, r.AllocsPerOp)
}

func populated(backend peers.Backend, size int) (peers.Registry, error) {
	registry, err := peers.New(backend)
	if err != nil {
		return nil, err
	}
	fixtures.AddAll(registry, fixtures.Random(size))
	return registry, nil
}

func benchmark(op Operation, backend peers.Backend, size int) (func(b *testing.B), error) {
	registry, err := populated(backend, size)
	if err != nil {
		return nil, err
	}
	switch op {
	case OperationGet:
		return func(b *testing.B) {
			id := peers.RandomPeerID()
			for i := 0; i < b.N; i++ {
				registry.Get(id)
			}
		}, nil
	case OperationGetAll:
		return func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				registry.GetAll()
			}
		}, nil
	case OperationFairFind:
		return func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				registry.FairFind(func(peers.Peer) bool { return false })
			}
		}, nil
	case OperationAdd:
		thePeers := fixtures.Random(size)
		return func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				fresh, _ := peers.New(backend)
				fixtures.AddAll(fresh, thePeers)
			}
		}, nil
	case OperationRemove:
		return func(b *testing.B) {
			id := peers.RandomPeerID()
			for i := 0; i < b.N; i++ {
				registry.Remove(id)
			}
		}, nil
	case OperationForEach:
		return func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				registry.ForEach(func(peers.PeerID, peers.Peer) {})
			}
		}, nil
	}
	return nil, fmt.Errorf("unknown operation %q", op)
}

// Bench measures every operation for each backend and size, mirroring the go test
// benchmarks so that they can be run from the CLI
func Bench(ops []Operation, backends []peers.Backend, sizes []int) ([]BenchResult, error) {
	results := make([]BenchResult, 0, len(ops)*len(backends)*len(sizes))
	for _, op := range ops {
		for _, size := range sizes {
			for _, backend := range backends {
				bench, err := benchmark(op, backend, size)
				if err != nil {
					return nil, err
				}
				measured := testing.Benchmark(bench)
				results = append(results, BenchResult{
					Operation:   op,
					Backend:     backend,
					Size:        size,
					NsPerOp:     measured.NsPerOp(),
					AllocsPerOp: measured.AllocsPerOp(),
				})
			}
		}
	}
	return results, nil
}
