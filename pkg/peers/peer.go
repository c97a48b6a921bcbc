package peers

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
)

// PeerIDSize is the length of PeerID in bytes
const PeerIDSize = 64

// ErrInvalidPeerID is returned when a textual peer id cannot be decoded
var ErrInvalidPeerID = errors.New("invalid peer id")

// PeerID uniquely identifies a peer. It is a value type, so it can be used as a map key
// and copied freely.
type PeerID [PeerIDSize]byte

// Compare orders ids lexicographically by their bytes
func (id PeerID) Compare(other PeerID) int {
	return bytes.Compare(id[:], other[:])
}

// Less reports whether id sorts before other
func (id PeerID) Less(other PeerID) bool {
	return id.Compare(other) < 0
}

// String returns hex representation of the id
func (id PeerID) String() string {
	return hex.EncodeToString(id[:])
}

// Short returns the first bytes of the id, for logging
func (id PeerID) Short() string {
	return hex.EncodeToString(id[:6])
}

// MarshalText implements encoding.TextMarshaler
func (id PeerID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (id *PeerID) UnmarshalText(text []byte) error {
	parsed, err := ParsePeerID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// ParsePeerID decodes hex encoded peer id
func ParsePeerID(s string) (PeerID, error) {
	var id PeerID
	decoded, decodeErr := hex.DecodeString(s)
	if decodeErr != nil {
		return id, fmt.Errorf("%w: %v", ErrInvalidPeerID, decodeErr)
	}
	if len(decoded) != PeerIDSize {
		return id, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidPeerID, PeerIDSize, len(decoded))
	}
	copy(id[:], decoded)
	return id, nil
}

// RandomPeerID generates a random id, used mostly for fixtures
func RandomPeerID() PeerID {
	var id PeerID
	if _, err := rand.Read(id[:]); err != nil {
		panic(fmt.Sprintf("unable to read random bytes: %v", err))
	}
	return id
}

// Peer is an entity registered in the Registry. The registry never looks past the id,
// the rest of the record belongs to the protocol layer that created it.
type Peer interface {
	ID() PeerID
}

// DefaultPeer is the stock Peer implementation carrying an address and opaque payload
type DefaultPeer struct {
	id      PeerID
	Address string
	Payload []byte
}

// ID implements Peer. A nil peer has the zero id.
func (p *DefaultPeer) ID() PeerID {
	if p == nil {
		return PeerID{}
	}
	return p.id
}

func (p *DefaultPeer) String() string {
	return fmt.Sprintf("peer(%s, %s)", p.id.Short(), p.Address)
}

// NewDefaultPeer creates DefaultPeer instances
func NewDefaultPeer(id PeerID, address string, payload []byte) *DefaultPeer {
	return &DefaultPeer{
		id:      id,
		Address: address,
		Payload: payload,
	}
}

const randomPayloadSize = 192

// RandomPeer creates a peer with random id and payload
func RandomPeer() *DefaultPeer {
	payload := make([]byte, randomPayloadSize)
	if _, err := rand.Read(payload); err != nil {
		panic(fmt.Sprintf("unable to read random bytes: %v", err))
	}
	return NewDefaultPeer(RandomPeerID(), "", payload)
}
