package peers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectorNextReturnsMatchingPeer(t *testing.T) {
	// given
	registry := NewHashedRegistry()
	target := RandomPeer()
	registry.Add(RandomPeer())
	registry.Add(target)
	selector := NewSelector(registry, 3, time.Millisecond)

	// when
	id, err := selector.Next(context.Background(), func(p Peer) bool { return p.ID() == target.ID() })

	// then
	require.NoError(t, err)
	assert.Equal(t, target.ID(), id)
}

func TestSelectorNextGivesUpAfterAttempts(t *testing.T) {
	// given
	selector := NewSelector(NewVectorRegistry(), 3, time.Millisecond)

	// when
	_, err := selector.Next(context.Background(), always)

	// then
	assert.ErrorIs(t, err, ErrNoPeerFound)
}

func TestSelectorNextStopsWhenContextIsDone(t *testing.T) {
	// given
	selector := NewSelector(NewOrderedRegistry(), 0, time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	// when
	_, err := selector.Next(ctx, always)

	// then
	assert.Error(t, err)
}

func TestSelectorNextWaitsForPeerToBeAdded(t *testing.T) {
	// given
	registry := NewHashedRegistry()
	selector := NewSelector(registry, 0, 5*time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	peer := RandomPeer()
	go func() {
		time.Sleep(20 * time.Millisecond)
		registry.Add(peer)
	}()

	// when
	id, err := selector.Next(ctx, always)

	// then
	require.NoError(t, err)
	assert.Equal(t, peer.ID(), id)
}

func TestSelectorNextConnectedSkipsDisconnectedPeers(t *testing.T) {
	// given
	registry := NewVectorRegistry()
	connected := RandomPeer()
	for i := 0; i < 5; i++ {
		registry.Add(RandomPeer())
	}
	registry.Add(connected)
	registry.Update(connected.ID(), func(e *Entry) { e.Connection = &Connection{} })
	selector := NewSelector(registry, 1, 0)

	for i := 0; i < 12; i++ {
		// when
		id, err := selector.NextConnected(context.Background())

		// then
		require.NoError(t, err)
		assert.Equal(t, connected.ID(), id)
	}
}

func TestSelectorNextConnectedFailsWithoutConnections(t *testing.T) {
	// given
	registry := NewVectorRegistry()
	registry.Add(RandomPeer())
	selector := NewSelector(registry, 2, time.Millisecond)

	// when
	_, err := selector.NextConnected(context.Background())

	// then
	assert.ErrorIs(t, err, ErrNoPeerFound)
}
