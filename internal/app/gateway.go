package app

import (
	"encoding/json"
	"errors"

	"github.com/classwave/live/internal/core"
	"github.com/classwave/live/internal/domain"
	"github.com/rs/zerolog/log"
)

// ErrNotInSession means the connection issued a room-scoped request
// before being admitted anywhere.
var ErrNotInSession = errors.New("connection not joined to a session")

// Gateway drives the validate -> admit -> notify pipeline and owns
// notification delivery. Delivery is fire-and-forget: a slow or dead
// recipient never blocks admission and never rolls back applied state.
type Gateway struct {
	Registry *core.Registry
	Arbiter  *core.Arbiter
	Conns    *Connections
	Dispatch Dispatcher
}

func NewGateway(reg *core.Registry) *Gateway {
	return &Gateway{
		Registry: reg,
		Arbiter:  &core.Arbiter{},
		Conns:    NewConnections(),
	}
}

// Connect registers a transport for cid before any join is issued.
func (g *Gateway) Connect(cid domain.ConnID, conn core.SignalConnection) {
	g.Conns.Bind(cid, conn)
}

// Join runs the admission pipeline for a join-broadcast request.
// Validation failures and conflicts are reported to the requester only
// and leave all state untouched; in particular no session is created
// for an unknown room on a malformed request.
func (g *Gateway) Join(cid domain.ConnID, room, identity, role string) {
	req, err := domain.NewJoinRequest(room, identity, role)
	if err != nil {
		log.Warn().Str("module", "app.gateway").Str("cid", string(cid)).Err(err).Msg("join rejected: invalid parameters")
		g.deliver(cid, "", core.Snapshot{}, g.Dispatch.Rejected(err))
		return
	}

	// A connection holds one seat at a time; joining elsewhere first
	// releases the old one.
	if prev, _, ok := g.Conns.RoomOf(cid); ok && prev != req.Room {
		g.leave(cid, prev)
	}

	var res core.AdmitResult
	for {
		s := g.Registry.GetOrCreate(req.Room)
		res, err = g.Arbiter.Admit(s, req, cid)
		if !errors.Is(err, core.ErrSessionReaped) {
			break
		}
		// The reaper evicted the session between lookup and admission;
		// the next lookup creates a fresh one.
	}
	if err != nil {
		log.Warn().Str("module", "app.gateway").Str("cid", string(cid)).Str("room", string(req.Room)).Err(err).Msg("join rejected")
		g.deliver(cid, "", core.Snapshot{}, g.Dispatch.Rejected(err))
		return
	}

	g.Conns.Attach(cid, req.Room, req.Identity, req.Role)
	g.deliver(cid, req.Room, res.Snapshot, g.Dispatch.Admitted(res))
}

// Leave handles an explicit leave-broadcast; the connection stays open.
func (g *Gateway) Leave(cid domain.ConnID) {
	room, _, ok := g.Conns.RoomOf(cid)
	if !ok {
		return
	}
	g.leave(cid, room)
}

// Disconnect handles connection loss: the leave transition plus
// dropping the transport binding. conn identifies the closing
// transport; if cid has already been rebound to a newer one the call
// is a no-op, so a lingering read loop cannot tear down a seat its
// owner just re-established.
func (g *Gateway) Disconnect(cid domain.ConnID, conn core.SignalConnection) {
	if room, ok := g.Conns.Unbind(cid, conn); ok {
		g.applyLeave(cid, room)
	}
}

// Append adds a chat entry to the session cid is attached to and fans
// it out to the room.
func (g *Gateway) Append(cid domain.ConnID, text string) {
	room, identity, ok := g.Conns.RoomOf(cid)
	if !ok {
		g.deliver(cid, "", core.Snapshot{}, g.Dispatch.Rejected(ErrNotInSession))
		return
	}
	s, ok := g.Registry.Get(room)
	if !ok {
		return
	}
	msg, sn := g.Arbiter.Append(s, identity, text)
	g.deliver(cid, room, sn, g.Dispatch.Appended(msg))
}

func (g *Gateway) leave(cid domain.ConnID, room domain.RoomID) {
	g.Conns.Detach(cid)
	g.applyLeave(cid, room)
}

func (g *Gateway) applyLeave(cid domain.ConnID, room domain.RoomID) {
	s, ok := g.Registry.Get(room)
	if !ok {
		return
	}
	res := g.Arbiter.Leave(s, cid)
	if res.Kind == core.LeaveNone {
		return
	}
	g.deliver(cid, room, res.Snapshot, g.Dispatch.Left(res))
}

// deliver encodes and sends each notification to its recipient set.
// Failures concern third parties, never the triggering request, so they
// are logged and dropped.
func (g *Gateway) deliver(requester domain.ConnID, room domain.RoomID, sn core.Snapshot, notes []Notification) {
	for _, n := range notes {
		frame, err := json.Marshal(n.Event)
		if err != nil {
			log.Error().Str("module", "app.gateway").Err(err).Msg("marshal notification")
			continue
		}
		switch n.Target {
		case TargetRequester:
			g.send(requester, frame)
		case TargetInstructor:
			if sn.InstructorActive() {
				g.send(sn.Instructor.Conn, frame)
			}
		case TargetRoom:
			for _, conn := range g.Conns.MembersOfRoom(room) {
				g.trySend(conn, frame)
			}
		}
	}
}

func (g *Gateway) send(cid domain.ConnID, frame core.Frame) {
	conn, ok := g.Conns.Get(cid)
	if !ok {
		log.Debug().Str("module", "app.gateway").Str("cid", string(cid)).Msg("recipient gone, notification dropped")
		return
	}
	g.trySend(conn, frame)
}

func (g *Gateway) trySend(conn core.SignalConnection, frame core.Frame) {
	if err := conn.TrySend(frame); err != nil {
		log.Warn().Str("module", "app.gateway").Err(err).Msg("notification delivery failed")
	}
}
