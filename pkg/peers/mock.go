package peers

import "sync"

// MockGossipSender implements GossipSender and can be used for unit tests
type MockGossipSender struct {
	mtx sync.Mutex

	// Sent holds every message passed to Send
	Sent [][]byte

	// CloseErr is returned from Close when set
	CloseErr error

	Closed bool
}

// Send implements GossipSender
func (m *MockGossipSender) Send(msg []byte) error {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	if m.Closed {
		return ErrConnectionClosed
	}
	m.Sent = append(m.Sent, msg)
	return nil
}

// Close implements GossipSender
func (m *MockGossipSender) Close() error {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	m.Closed = true
	return m.CloseErr
}

// MockReplySender implements ReplySender and can be used for unit tests
type MockReplySender struct {
	mtx sync.Mutex

	// CompleteErr is returned from Complete when set
	CompleteErr error

	Completions int
}

// Complete implements ReplySender
func (m *MockReplySender) Complete() error {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	m.Completions++
	return m.CompleteErr
}

// NewMockConnection creates a Connection backed by mocks
func NewMockConnection() (*Connection, *MockGossipSender, *MockReplySender) {
	gossip := &MockGossipSender{}
	reply := &MockReplySender{}
	return &Connection{Gossip: gossip, Reply: reply}, gossip, reply
}
