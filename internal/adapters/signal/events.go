package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/classwave/live/internal/domain"
)

func (ctl *WSController) handleJoin(
	cid domain.ConnID,
	conn *WsSignalConn,
	data []byte,
) {
	type joinPayload struct {
		Type     string `json:"type"`
		Room     string `json:"room"`
		Identity string `json:"identity"`
		Role     string `json:"role"`
	}
	var p joinPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad join payload")
		ctl.sendJSON(conn, map[string]any{
			"type":    "error",
			"message": "Invalid parameters.",
		})
		return
	}

	if !ctl.joins.Allow(cid) {
		log.Warn().Str("module", "signal").Str("cid", string(cid)).Msg("join rate limited")
		ctl.sendJSON(conn, map[string]any{
			"type":    "error",
			"message": "Too many join attempts.",
		})
		return
	}

	log.Info().Str("module", "signal").Str("cid", string(cid)).Str("room", p.Room).Str("role", p.Role).Msg("join-broadcast")
	ctl.Gateway.Join(cid, p.Room, p.Identity, p.Role)
}

// handleLeave releases the seat; the connection itself stays open.
func (ctl *WSController) handleLeave(
	cid domain.ConnID,
	conn *WsSignalConn,
) {
	log.Info().Str("module", "signal").Str("cid", string(cid)).Msg("leave-broadcast")
	ctl.Gateway.Leave(cid)
	ctl.sendJSON(conn, map[string]any{
		"type": "left",
	})
}

func (ctl *WSController) handleMessage(
	cid domain.ConnID,
	conn *WsSignalConn,
	data []byte,
) {
	type messagePayload struct {
		Type string `json:"type"`
		Text string `json:"text"`
	}
	var p messagePayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad message payload")
		ctl.sendJSON(conn, map[string]any{
			"type":    "error",
			"message": "Invalid parameters.",
		})
		return
	}
	if p.Text == "" {
		ctl.sendJSON(conn, map[string]any{
			"type":    "error",
			"message": "Invalid parameters.",
		})
		return
	}
	ctl.Gateway.Append(cid, p.Text)
}
