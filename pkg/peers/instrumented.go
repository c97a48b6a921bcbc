package peers

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// instrumentedRegistry is a decorator over Registry, that exports prometheus metrics
type instrumentedRegistry struct {
	Registry

	operations *prometheus.CounterVec
	fairFinds  *prometheus.CounterVec
}

func (r *instrumentedRegistry) Add(peer Peer) {
	r.Registry.Add(peer)
	if !isNilPeer(peer) {
		r.operations.WithLabelValues("add").Inc()
	}
}

func (r *instrumentedRegistry) Remove(id PeerID) (Entry, bool) {
	entry, ok := r.Registry.Remove(id)
	if ok {
		r.operations.WithLabelValues("remove").Inc()
	}
	return entry, ok
}

func (r *instrumentedRegistry) Update(id PeerID, f func(*Entry)) bool {
	ok := r.Registry.Update(id, f)
	if ok {
		r.operations.WithLabelValues("update").Inc()
	}
	return ok
}

func (r *instrumentedRegistry) FairFind(matches func(Peer) bool) (PeerID, bool) {
	id, ok := r.Registry.FairFind(matches)
	if ok {
		r.fairFinds.WithLabelValues("hit").Inc()
	} else {
		r.fairFinds.WithLabelValues("miss").Inc()
	}
	return id, ok
}

// NewInstrumentedRegistry wraps the registry and registers its metrics in reg
func NewInstrumentedRegistry(child Registry, backend Backend, reg prometheus.Registerer) Registry {
	factory := promauto.With(reg)
	labels := prometheus.Labels{"backend": string(backend)}
	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace:   "peerhive",
		Subsystem:   "registry",
		Name:        "peers",
		Help:        "Number of peers in the registry",
		ConstLabels: labels,
	}, func() float64 {
		return float64(child.Len())
	})
	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace:   "peerhive",
		Subsystem:   "registry",
		Name:        "connected_peers",
		Help:        "Number of peers holding a connection",
		ConstLabels: labels,
	}, func() float64 {
		return float64(child.ConnectedPeers())
	})
	return &instrumentedRegistry{
		Registry: child,
		operations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "peerhive",
			Subsystem:   "registry",
			Name:        "operations_total",
			Help:        "Number of successful registry mutations",
			ConstLabels: labels,
		}, []string{"op"}),
		fairFinds: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "peerhive",
			Subsystem:   "registry",
			Name:        "fair_find_total",
			Help:        "Number of fair find calls by result",
			ConstLabels: labels,
		}, []string{"result"}),
	}
}
