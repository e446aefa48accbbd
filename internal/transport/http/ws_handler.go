package http

import (
	"encoding/json"
	"log"
	"net/http"

	"college-exam-system/internal/app"
	"college-exam-system/internal/domain"
	"github.com/gorilla/websocket"
)

type WSHandler struct {
	service  *app.ExamService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.ExamService) *WSHandler {
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type answerPayload struct {
	Answer string `json:"answer"`
}

type resultPayload struct {
	SubjectID string `json:"subjectId"`
	Score     int    `json:"score"`
	Total     int    `json:"total"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades HTTP requests to websockets and drives one exam attempt:
// "answer" messages advance through the questions, "submit" answers the last
// one and ends the attempt with a "result".
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	studentID := r.URL.Query().Get("studentId")
	subjectID := r.URL.Query().Get("subjectId")
	if studentID == "" || subjectID == "" {
		http.Error(w, "missing studentId or subjectId", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ctx := r.Context()
	attempt, err := h.service.Start(ctx, studentID, subjectID)
	if err != nil {
		writeError(conn, err.Error())
		return
	}
	defer h.service.Abandon(ctx, attempt.ID)

	if err := conn.WriteJSON(outboundMessage[domain.Attempt]{Type: "question", Payload: attempt}); err != nil {
		log.Printf("ws write error: %v", err)
		return
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			return
		}
		var payload answerPayload
		if inbound.Type == "answer" || inbound.Type == "submit" {
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				writeError(conn, "invalid answer payload")
				continue
			}
		}

		switch inbound.Type {
		case "answer":
			next, err := h.service.Advance(ctx, attempt.ID, payload.Answer)
			if err != nil {
				writeError(conn, err.Error())
				continue
			}
			if err := conn.WriteJSON(outboundMessage[domain.Attempt]{Type: "question", Payload: next}); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		case "submit":
			done, err := h.service.Submit(ctx, attempt.ID, payload.Answer)
			if err != nil {
				writeError(conn, err.Error())
				continue
			}
			_ = conn.WriteJSON(outboundMessage[resultPayload]{Type: "result", Payload: resultPayload{
				SubjectID: done.SubjectID,
				Score:     done.Score,
				Total:     done.Total,
			}})
			return
		default:
			writeError(conn, "unsupported message type")
		}
	}
}

func writeError(conn *websocket.Conn, message string) {
	if err := conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: message}}); err != nil {
		log.Printf("ws write error: %v", err)
	}
}
