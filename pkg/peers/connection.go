package peers

import (
	"errors"
	"sync"

	"go.uber.org/multierr"
)

// ErrConnectionClosed is returned when sending over a closed gossip channel
var ErrConnectionClosed = errors.New("connection closed")

// ErrAlreadyCompleted is returned when a reply handle is used more than once
var ErrAlreadyCompleted = errors.New("reply already completed")

// GossipSender pushes outbound gossip messages to a connected peer
type GossipSender interface {
	Send([]byte) error
	Close() error
}

// ReplySender is a single-use acknowledgement handle
type ReplySender interface {
	Complete() error
}

// Connection is attached to a registered peer while it is connected. It is owned by the
// subsystem that established it, the registry only stores and returns it.
type Connection struct {
	Gossip GossipSender
	Reply  ReplySender
}

// Close releases both handles. Callers must do this themselves before replacing or
// dropping an entry, the registry never does it on their behalf.
func (c *Connection) Close() error {
	if c == nil {
		return nil
	}
	var gossipErr, replyErr error
	if c.Gossip != nil {
		gossipErr = c.Gossip.Close()
	}
	if c.Reply != nil {
		if completeErr := c.Reply.Complete(); completeErr != nil && !errors.Is(completeErr, ErrAlreadyCompleted) {
			replyErr = completeErr
		}
	}
	return multierr.Combine(gossipErr, replyErr)
}

// channelGossipSender never holds its mutex while blocked on the channel. Close wakes
// blocked senders through done and closes ch only once all of them have returned.
type channelGossipSender struct {
	mtx      sync.Mutex
	ch       chan []byte
	done     chan struct{}
	inFlight sync.WaitGroup
	closed   bool
}

func (s *channelGossipSender) Send(msg []byte) error {
	s.mtx.Lock()
	if s.closed {
		s.mtx.Unlock()
		return ErrConnectionClosed
	}
	s.inFlight.Add(1)
	s.mtx.Unlock()
	defer s.inFlight.Done()

	select {
	case s.ch <- msg:
		return nil
	case <-s.done:
		return ErrConnectionClosed
	}
}

func (s *channelGossipSender) Close() error {
	s.mtx.Lock()
	if s.closed {
		s.mtx.Unlock()
		return ErrConnectionClosed
	}
	s.closed = true
	close(s.done)
	s.mtx.Unlock()

	s.inFlight.Wait()
	close(s.ch)
	return nil
}

type channelReplySender struct {
	once sync.Once
	ch   chan struct{}
}

func (s *channelReplySender) Complete() error {
	completed := false
	s.once.Do(func() {
		close(s.ch)
		completed = true
	})
	if !completed {
		return ErrAlreadyCompleted
	}
	return nil
}

// NewChannelConnection creates an in-process Connection backed by channels. The returned
// channels are the receiving ends: gossip messages arrive on the first one, the second
// one is closed when the reply is completed.
func NewChannelConnection(buffer int) (*Connection, <-chan []byte, <-chan struct{}) {
	gossip := make(chan []byte, buffer)
	reply := make(chan struct{})
	return &Connection{
		Gossip: &channelGossipSender{ch: gossip, done: make(chan struct{})},
		Reply:  &channelReplySender{ch: reply},
	}, gossip, reply
}
