package peers

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeerIDStringCanBeParsedBack(t *testing.T) {
	// given
	id := RandomPeerID()

	// when
	parsed, err := ParsePeerID(id.String())

	// then
	require.NoError(t, err)
	assert.Equal(t, id, parsed)
	assert.Len(t, id.String(), PeerIDSize*2)
	assert.True(t, strings.HasPrefix(id.String(), id.Short()))
}

func TestParsePeerIDRejectsInvalidInput(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		input string
	}{
		{name: "not hex", input: "zz"},
		{name: "too short", input: "abcd"},
		{name: "too long", input: strings.Repeat("ab", PeerIDSize+1)},
		{name: "empty", input: ""},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ParsePeerID(tt.input)
			assert.ErrorIs(t, err, ErrInvalidPeerID)
		})
	}
}

func TestPeerIDOrdering(t *testing.T) {
	// given
	var low, high PeerID
	low[0] = 1
	high[0] = 2

	// then
	assert.True(t, low.Less(high))
	assert.False(t, high.Less(low))
	assert.False(t, low.Less(low))
	assert.Equal(t, -1, low.Compare(high))
	assert.Equal(t, 1, high.Compare(low))
	assert.Equal(t, 0, low.Compare(low))
}

func TestPeerIDLastByteTakesPartInOrdering(t *testing.T) {
	var low, high PeerID
	high[PeerIDSize-1] = 1

	assert.True(t, low.Less(high))
}

func TestPeerIDJSONRoundTrip(t *testing.T) {
	// given
	id := RandomPeerID()

	// when
	encoded, marshalErr := json.Marshal(id)
	var decoded PeerID
	unmarshalErr := json.Unmarshal(encoded, &decoded)

	// then
	require.NoError(t, marshalErr)
	require.NoError(t, unmarshalErr)
	assert.Equal(t, `"`+id.String()+`"`, string(encoded))
	assert.Equal(t, id, decoded)
}

func TestRandomPeersAreDistinct(t *testing.T) {
	// given
	seen := map[PeerID]bool{}

	// when
	for i := 0; i < 100; i++ {
		peer := RandomPeer()
		seen[peer.ID()] = true
		assert.Len(t, peer.Payload, randomPayloadSize)
	}

	// then
	assert.Len(t, seen, 100)
}

func TestNilDefaultPeerHasZeroID(t *testing.T) {
	var peer *DefaultPeer

	assert.Equal(t, PeerID{}, peer.ID())
}
