package peers

import (
	"context"
	"errors"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/sirupsen/logrus"
)

// ErrNoPeerFound is returned when no registered peer satisfied the predicate
var ErrNoPeerFound = errors.New("no peer found")

// Selector picks peers using Registry.FairFind, waiting for a matching peer to show up
// when none is registered yet
type Selector struct {
	registry Registry
	attempts uint
	delay    time.Duration
}

// Next returns the id of a peer satisfying the predicate. With zero attempts it keeps
// trying until the context is done.
func (s *Selector) Next(ctx context.Context, matches func(Peer) bool) (PeerID, error) {
	return s.next(ctx, func() func(Peer) bool {
		return matches
	})
}

// NextConnected selects a peer that currently holds a connection. The set of connected
// peers is captured before every search, so the predicate never calls back into the
// registry while FairFind holds its lock.
func (s *Selector) NextConnected(ctx context.Context) (PeerID, error) {
	return s.next(ctx, func() func(Peer) bool {
		connected := s.connected()
		return func(p Peer) bool {
			_, ok := connected[p.ID()]
			return ok
		}
	})
}

func (s *Selector) connected() map[PeerID]struct{} {
	connected := make(map[PeerID]struct{})
	for _, peer := range s.registry.GetAll() {
		if s.registry.IsConnected(peer.ID()) {
			connected[peer.ID()] = struct{}{}
		}
	}
	return connected
}

func (s *Selector) next(ctx context.Context, predicate func() func(Peer) bool) (PeerID, error) {
	var found PeerID
	retryErr := retry.Do(
		func() error {
			id, ok := s.registry.FairFind(predicate())
			if !ok {
				return ErrNoPeerFound
			}
			found = id
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(s.attempts),
		retry.Delay(s.delay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			logrus.Tracef("Peer selection attempt %d failed: %v", n+1, err)
		}),
	)
	if retryErr != nil {
		return PeerID{}, retryErr
	}
	return found, nil
}

// NewSelector creates Selector instances
func NewSelector(registry Registry, attempts uint, delay time.Duration) *Selector {
	return &Selector{
		registry: registry,
		attempts: attempts,
		delay:    delay,
	}
}
