package app

import (
	"sync"

	"github.com/classwave/live/internal/core"
	"github.com/classwave/live/internal/domain"
	"github.com/rs/zerolog/log"
)

type connEntry struct {
	Conn     core.SignalConnection
	Room     domain.RoomID // empty until the connection is admitted somewhere
	Identity domain.Identity
	Role     domain.Role
}

// Connections maps connection ids to transports and tracks which room
// each connection is attached to for fan-out. It never closes
// adapter-owned transports.
type Connections struct {
	mu    sync.RWMutex
	conns map[domain.ConnID]*connEntry
}

func NewConnections() *Connections {
	return &Connections{conns: make(map[domain.ConnID]*connEntry)}
}

// Bind registers a transport for cid. A reconnect by the same client
// replaces the transport but keeps any room attachment.
func (c *Connections) Bind(cid domain.ConnID, conn core.SignalConnection) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.conns[cid]; ok {
		e.Conn = conn
		log.Info().Str("module", "app.connections").Str("cid", string(cid)).Msg("rebound transport")
		return
	}
	c.conns[cid] = &connEntry{Conn: conn}
	log.Info().Str("module", "app.connections").Str("cid", string(cid)).Msg("bound transport")
}

// Attach joins cid to a room's fan-out group after a successful
// admission.
func (c *Connections) Attach(cid domain.ConnID, room domain.RoomID, identity domain.Identity, role domain.Role) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.conns[cid]
	if !ok {
		return
	}
	e.Room = room
	e.Identity = identity
	e.Role = role
	log.Info().Str("module", "app.connections").Str("cid", string(cid)).Str("room", string(room)).Msg("attached to room")
}

// Detach removes cid from its room group, keeping the transport bound.
func (c *Connections) Detach(cid domain.ConnID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.conns[cid]; ok {
		e.Room = ""
		e.Identity = ""
		e.Role = ""
	}
}

// Unbind drops the connection entirely and reports the room it was in.
// A reconnect rebinds a fresh transport under the same cid before the
// old socket's read loop dies, so the teardown of a transport that is
// no longer the bound one must be ignored.
func (c *Connections) Unbind(cid domain.ConnID, conn core.SignalConnection) (domain.RoomID, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.conns[cid]
	if !ok {
		return "", false
	}
	if e.Conn != conn {
		log.Debug().Str("module", "app.connections").Str("cid", string(cid)).Msg("stale transport, unbind ignored")
		return "", false
	}
	delete(c.conns, cid)
	log.Info().Str("module", "app.connections").Str("cid", string(cid)).Msg("unbound transport")
	return e.Room, e.Room != ""
}

func (c *Connections) Get(cid domain.ConnID) (core.SignalConnection, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.conns[cid]
	if !ok || e.Conn == nil {
		return nil, false
	}
	return e.Conn, true
}

// RoomOf reports the room and identity cid was admitted under.
func (c *Connections) RoomOf(cid domain.ConnID) (domain.RoomID, domain.Identity, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.conns[cid]
	if !ok || e.Room == "" {
		return "", "", false
	}
	return e.Room, e.Identity, true
}

// MembersOfRoom snapshots the transports currently attached to a room.
func (c *Connections) MembersOfRoom(room domain.RoomID) []core.SignalConnection {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]core.SignalConnection, 0, len(c.conns))
	for _, e := range c.conns {
		if e.Room == room && e.Conn != nil {
			out = append(out, e.Conn)
		}
	}
	return out
}
