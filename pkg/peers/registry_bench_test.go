package peers

import (
	"fmt"
	"testing"
)

var benchmarkSizes = []int{1, 5, 10}

var benchmarkBackends = []struct {
	name    string
	backend Backend
}{
	{name: "Vec", backend: BackendVector},
	{name: "HashMap", backend: BackendHashed},
	{name: "BTreeMap", backend: BackendOrdered},
}

func populated(b *testing.B, backend Backend, size int) Registry {
	registry, err := New(backend)
	if err != nil {
		b.Fatal(err)
	}
	for i := 0; i < size; i++ {
		registry.Add(RandomPeer())
	}
	return registry
}

func runMatrix(b *testing.B, bench func(b *testing.B, backend Backend, size int)) {
	for _, size := range benchmarkSizes {
		for _, candidate := range benchmarkBackends {
			backend := candidate.backend
			size := size
			b.Run(fmt.Sprintf("%s/%02d", candidate.name, size), func(b *testing.B) {
				bench(b, backend, size)
			})
		}
	}
}

func BenchmarkGet(b *testing.B) {
	runMatrix(b, func(b *testing.B, backend Backend, size int) {
		registry := populated(b, backend, size)
		id := RandomPeerID()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			registry.Get(id)
		}
	})
}

func BenchmarkGetAll(b *testing.B) {
	runMatrix(b, func(b *testing.B, backend Backend, size int) {
		registry := populated(b, backend, size)
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			registry.GetAll()
		}
	})
}

func BenchmarkFairFind(b *testing.B) {
	runMatrix(b, func(b *testing.B, backend Backend, size int) {
		registry := populated(b, backend, size)
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			registry.FairFind(never)
		}
	})
}

func BenchmarkAdd(b *testing.B) {
	runMatrix(b, func(b *testing.B, backend Backend, size int) {
		fixtures := make([]Peer, size)
		for i := range fixtures {
			fixtures[i] = RandomPeer()
		}
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			registry, _ := New(backend)
			for _, peer := range fixtures {
				registry.Add(peer)
			}
		}
	})
}

func BenchmarkRemove(b *testing.B) {
	runMatrix(b, func(b *testing.B, backend Backend, size int) {
		registry := populated(b, backend, size)
		id := RandomPeerID()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			registry.Remove(id)
		}
	})
}

func BenchmarkForEach(b *testing.B) {
	runMatrix(b, func(b *testing.B, backend Backend, size int) {
		registry := populated(b, backend, size)
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			registry.ForEach(func(PeerID, Peer) {})
		}
	})
}
