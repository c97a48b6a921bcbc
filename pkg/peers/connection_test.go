package peers

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelConnectionDeliversGossip(t *testing.T) {
	// given
	conn, gossip, _ := NewChannelConnection(2)

	// when
	sendErr := conn.Gossip.Send([]byte("hello"))

	// then
	require.NoError(t, sendErr)
	assert.Equal(t, []byte("hello"), <-gossip)
}

func TestChannelConnectionReplyCanBeCompletedOnce(t *testing.T) {
	// given
	conn, _, reply := NewChannelConnection(0)

	// when
	firstErr := conn.Reply.Complete()
	secondErr := conn.Reply.Complete()

	// then
	assert.NoError(t, firstErr)
	assert.ErrorIs(t, secondErr, ErrAlreadyCompleted)
	select {
	case <-reply:
	case <-time.After(time.Second):
		t.Fatal("reply channel was not closed")
	}
}

func TestChannelConnectionCloseReleasesBothHandles(t *testing.T) {
	// given
	conn, gossip, reply := NewChannelConnection(1)

	// when
	closeErr := conn.Close()

	// then
	assert.NoError(t, closeErr)
	_, gossipOpen := <-gossip
	assert.False(t, gossipOpen)
	_, replyOpen := <-reply
	assert.False(t, replyOpen)
	assert.ErrorIs(t, conn.Gossip.Send([]byte("late")), ErrConnectionClosed)
}

func TestChannelConnectionCloseUnblocksPendingSend(t *testing.T) {
	// given
	conn, gossip, _ := NewChannelConnection(0)
	sendResult := make(chan error, 1)
	go func() {
		sendResult <- conn.Gossip.Send([]byte("nobody listens"))
	}()
	time.Sleep(50 * time.Millisecond)

	// when
	closeResult := make(chan error, 1)
	go func() {
		closeResult <- conn.Close()
	}()

	// then
	select {
	case closeErr := <-closeResult:
		assert.NoError(t, closeErr)
	case <-time.After(time.Second):
		t.Fatal("Close did not return while a Send was pending")
	}
	select {
	case sendErr := <-sendResult:
		assert.ErrorIs(t, sendErr, ErrConnectionClosed)
	case <-time.After(time.Second):
		t.Fatal("pending Send was not released by Close")
	}
	_, gossipOpen := <-gossip
	assert.False(t, gossipOpen)
}

func TestConnectionCloseAfterReplyWasCompleted(t *testing.T) {
	// given
	conn, _, _ := NewChannelConnection(1)
	require.NoError(t, conn.Reply.Complete())

	// when
	closeErr := conn.Close()

	// then
	assert.NoError(t, closeErr)
}

func TestConnectionCloseCombinesErrors(t *testing.T) {
	// given
	conn, gossip, reply := NewMockConnection()
	gossipErr := errors.New("gossip failed")
	replyErr := errors.New("reply failed")
	gossip.CloseErr = gossipErr
	reply.CompleteErr = replyErr

	// when
	closeErr := conn.Close()

	// then
	assert.ErrorIs(t, closeErr, gossipErr)
	assert.ErrorIs(t, closeErr, replyErr)
	assert.True(t, gossip.Closed)
	assert.Equal(t, 1, reply.Completions)
}

func TestNilConnectionCloseIsNoop(t *testing.T) {
	var conn *Connection

	assert.NoError(t, conn.Close())
}
