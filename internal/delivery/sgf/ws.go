package sgf

import (
	"context"
	"net/http"

	"github.com/gorilla/websocket"

	"sgf_service/internal/domain/record"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type socketReply struct {
	record.ParseResult
	ID string `json:"id,omitempty"`
}

// HandleParseSocket parses every text message on the connection and answers
// with one JSON reply per message. With ?save=true valid documents are stored.
func (h *SgfHandler) HandleParseSocket(w http.ResponseWriter, r *http.Request) {
	save := r.URL.Query().Get("save") == "true"

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("upgrade error:", err)
		return
	}
	defer conn.Close()

	if h.maxBodyBytes > 0 {
		conn.SetReadLimit(h.maxBodyBytes)
	}

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.log.Error("read error:", err)
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}

		var reply socketReply
		if save {
			reply = h.saveFromSocket(r.Context(), string(data))
		} else {
			reply = socketReply{ParseResult: h.sgfUC.ParseResult(string(data))}
		}

		if err = conn.WriteJSON(reply); err != nil {
			h.log.Error("write error:", err)
			return
		}
	}
}

func (h *SgfHandler) saveFromSocket(ctx context.Context, text string) socketReply {
	rec, err := h.sgfUC.SaveRecord(ctx, "", record.SourceWebsocket, text)
	if isRejected(err) {
		return socketReply{ParseResult: record.ParseResult{Error: err.Error()}}
	}
	if err != nil {
		h.log.Errorf("failed to save record: %v", err)
		return socketReply{ParseResult: record.ParseResult{Error: "failed to save record"}}
	}
	return socketReply{
		ParseResult: record.ParseResult{Collection: rec.Collection, Summary: &rec.Summary},
		ID:          rec.ID,
	}
}
