package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/glothriel/peerhive/pkg/peers"
	"github.com/sirupsen/logrus"
)

// PeerListItem is a single peer as presented by the API
type PeerListItem struct {
	ID        peers.PeerID `json:"id"`
	Address   string       `json:"address,omitempty"`
	Connected bool         `json:"connected"`
}

// StatusResponse summarizes the registry
type StatusResponse struct {
	Backend   peers.Backend `json:"backend"`
	Empty     bool          `json:"empty"`
	Peers     int           `json:"peers"`
	Connected int           `json:"connected"`
}

// PeerController is a controller for querying and manipulating the registry
type PeerController struct {
	registry peers.Registry
	backend  peers.Backend
	selector *peers.Selector
}

func (p *PeerController) listItem(peer peers.Peer) PeerListItem {
	item := PeerListItem{
		ID:        peer.ID(),
		Connected: p.registry.IsConnected(peer.ID()),
	}
	if withAddress, ok := peer.(*peers.DefaultPeer); ok {
		item.Address = withAddress.Address
	}
	return item
}

func parseID(c *gin.Context) (peers.PeerID, bool) {
	id, err := peers.ParsePeerID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return id, false
	}
	return id, true
}

func (p *PeerController) registerRoutes(r *gin.Engine, s ServerSettings) {
	r.GET("/api/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, StatusResponse{
			Backend:   p.backend,
			Empty:     p.registry.IsEmpty(),
			Peers:     p.registry.Len(),
			Connected: p.registry.ConnectedPeers(),
		})
	})

	r.GET("/api/peers/v1", func(c *gin.Context) {
		items := []PeerListItem{}
		for _, peer := range p.registry.GetAll() {
			items = append(items, p.listItem(peer))
		}
		c.JSON(http.StatusOK, items)
	})

	r.GET("/api/peers/v1/:id", func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		entry, found := p.registry.Get(id)
		if !found {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "peer not found",
			})
			return
		}
		c.JSON(http.StatusOK, PeerListItem{
			ID:        id,
			Address:   p.listItem(entry.Peer).Address,
			Connected: entry.Connected(),
		})
	})

	r.GET("/api/selection/v1", func(c *gin.Context) {
		onlyConnected, _ := strconv.ParseBool(c.DefaultQuery("connected", "false"))
		var id peers.PeerID
		var err error
		if onlyConnected {
			id, err = p.selector.NextConnected(c.Request.Context())
		} else {
			id, err = p.selector.Next(c.Request.Context(), func(peers.Peer) bool { return true })
		}
		if errors.Is(err, peers.ErrNoPeerFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": err.Error(),
			})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": err.Error(),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"id": id,
		})
	})

	protected := r.Group("/api/peers")
	protected.Use(RequireBasicAuth(s))

	protected.DELETE("v1/:id", func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		removed, found := p.registry.Remove(id)
		if !found {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "peer not found",
			})
			return
		}
		if closeErr := removed.Connection.Close(); closeErr != nil {
			logrus.Warnf("Peer %s removed, but closing its connection failed: %v", id.Short(), closeErr)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": closeErr.Error(),
			})
			return
		}
		c.Status(http.StatusNoContent)
	})
}

// NewPeersController allows querying and manipulation of the registry
func NewPeersController(registry peers.Registry, backend peers.Backend) Controller {
	return &PeerController{
		registry: registry,
		backend:  backend,
		selector: peers.NewSelector(registry, 1, 0),
	}
}
