package peers

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gaugeValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, family := range families {
		if family.GetName() == name {
			require.Len(t, family.GetMetric(), 1)
			return family.GetMetric()[0].GetGauge().GetValue()
		}
	}
	t.Fatalf("metric %s not found", name)
	return 0
}

func TestInstrumentedRegistryCountsOperations(t *testing.T) {
	// given
	reg := prometheus.NewRegistry()
	registry := NewInstrumentedRegistry(NewHashedRegistry(), BackendHashed, reg)
	instrumented := registry.(*instrumentedRegistry)
	first, second := RandomPeer(), RandomPeer()

	// when
	registry.Add(first)
	registry.Add(second)
	registry.Add(nil)
	registry.Add((*DefaultPeer)(nil))
	registry.Update(first.ID(), func(e *Entry) { e.Connection = &Connection{} })
	registry.Remove(second.ID())
	registry.Remove(RandomPeerID())

	// then
	assert.Equal(t, float64(2), testutil.ToFloat64(instrumented.operations.WithLabelValues("add")))
	assert.Equal(t, float64(1), testutil.ToFloat64(instrumented.operations.WithLabelValues("remove")))
	assert.Equal(t, float64(1), testutil.ToFloat64(instrumented.operations.WithLabelValues("update")))
	assert.Equal(t, float64(1), gaugeValue(t, reg, "peerhive_registry_peers"))
	assert.Equal(t, float64(1), gaugeValue(t, reg, "peerhive_registry_connected_peers"))
}

func TestInstrumentedRegistryCountsFairFindResults(t *testing.T) {
	// given
	reg := prometheus.NewRegistry()
	registry := NewInstrumentedRegistry(NewVectorRegistry(), BackendVector, reg)
	instrumented := registry.(*instrumentedRegistry)
	registry.Add(RandomPeer())

	// when
	registry.FairFind(always)
	registry.FairFind(always)
	registry.FairFind(never)

	// then
	assert.Equal(t, float64(2), testutil.ToFloat64(instrumented.fairFinds.WithLabelValues("hit")))
	assert.Equal(t, float64(1), testutil.ToFloat64(instrumented.fairFinds.WithLabelValues("miss")))
}

func TestInstrumentedRegistryDelegatesReads(t *testing.T) {
	// given
	registry := NewInstrumentedRegistry(NewOrderedRegistry(), BackendOrdered, prometheus.NewRegistry())
	peer := RandomPeer()

	// when
	registry.Add(peer)
	entry, ok := registry.Get(peer.ID())

	// then
	require.True(t, ok)
	assert.Same(t, peer, entry.Peer)
	assert.False(t, registry.IsEmpty())
}
