package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/sakxhamm/CivicsCoach-sub000/services/orchestrator/datatypes"
	"github.com/sakxhamm/CivicsCoach-sub000/services/orchestrator/observability"
	"github.com/sakxhamm/CivicsCoach-sub000/services/orchestrator/services"
	promptdata "github.com/sakxhamm/CivicsCoach-sub000/services/prompting/datatypes"
)

// WSRequest is one client message. Action selects the operation:
// "debate" (the default when empty) runs the full pipeline with staged
// progress frames, "preview" stops before generation.
type WSRequest struct {
	Action          string                `json:"action,omitempty"`
	Query           string                `json:"query"`
	TaskType        string                `json:"taskType"`
	Context         string                `json:"context,omitempty"`
	Proficiency     string                `json:"proficiency,omitempty"`
	Strategy        string                `json:"strategy,omitempty"`
	HiddenReasoning bool                  `json:"hiddenReasoning,omitempty"`
	ExampleCount    int                   `json:"exampleCount,omitempty"`
	Overrides       *promptdata.Overrides `json:"overrides,omitempty"`
}

// WSResponse is the final frame of a debate. Intermediate progress
// arrives as untyped action frames.
type WSResponse struct {
	Action    string                    `json:"action"`
	RequestID string                    `json:"requestId,omitempty"`
	Result    map[string]any            `json:"result,omitempty"`
	Warnings  []string                  `json:"warnings,omitempty"`
	Metadata  *datatypes.DebateMetadata `json:"metadata,omitempty"`
	Error     string                    `json:"error,omitempty"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024 * 1024,
	WriteBufferSize: 1024 * 1024,
}

func sendJSON(ws *websocket.Conn, v interface{}) error {
	err := ws.WriteJSON(v)
	if err != nil {
		slog.Warn("Failed to write WebSocket JSON", "error", err)
	}
	return err
}

// toDebateRequest maps the frame onto the HTTP request type so both
// surfaces share validation and defaulting.
func (r *WSRequest) toDebateRequest() *datatypes.DebateRequest {
	return &datatypes.DebateRequest{
		Query:           r.Query,
		TaskType:        r.TaskType,
		Context:         r.Context,
		Proficiency:     r.Proficiency,
		Strategy:        r.Strategy,
		HiddenReasoning: r.HiddenReasoning,
		ExampleCount:    r.ExampleCount,
		Overrides:       r.Overrides,
	}
}

// HandleDebateWebSocket serves interactive debates. Each debate sends
// staged frames (complexity, parameters, payload) before the final
// result, so clients can show pipeline progress while the backend
// generates.
func HandleDebateWebSocket(svc *services.DebateService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			slog.Error("failed to upgrade the websocket", "error", err)
			return
		}
		defer ws.Close()

		sessionID := uuid.New().String()
		slog.Info("New websocket session started", "sessionID", sessionID)

		if err := sendJSON(ws, map[string]interface{}{
			"action":    "session_created",
			"sessionId": sessionID,
		}); err != nil {
			return
		}

		for {
			var frame WSRequest
			if err := ws.ReadJSON(&frame); err != nil {
				slog.Info("Websocket client disconnected", "error", err.Error())
				break
			}

			ctx := c.Request.Context()
			req := frame.toDebateRequest()
			if err := req.Validate(); err != nil {
				if sendJSON(ws, WSResponse{Action: "error", Error: err.Error()}) != nil {
					return
				}
				continue
			}

			// The preview carries everything the progress frames need,
			// and it finishes before the slow generation stage starts.
			preview, err := svc.Preview(ctx, req)
			if err != nil {
				if sendJSON(ws, WSResponse{Action: "error", Error: err.Error()}) != nil {
					return
				}
				continue
			}

			if sendJSON(ws, map[string]interface{}{
				"action":     "complexity_analyzed",
				"complexity": preview.Complexity,
			}) != nil {
				return
			}
			if sendJSON(ws, map[string]interface{}{
				"action":  "parameters_optimized",
				"profile": preview.Profile,
			}) != nil {
				return
			}
			if sendJSON(ws, map[string]interface{}{
				"action":     "payload_built",
				"strategy":   preview.Strategy,
				"blocks":     len(preview.Blocks),
				"bytes":      len(preview.Rendered),
				"stopMarker": preview.StopMarker,
			}) != nil {
				return
			}

			if frame.Action == "preview" {
				if sendJSON(ws, map[string]interface{}{
					"action":  "preview",
					"payload": preview,
				}) != nil {
					return
				}
				continue
			}

			requestID := uuid.New().String()
			resp, err := svc.Debate(ctx, req, requestID)
			if err != nil {
				slog.Error("Websocket debate failed",
					"sessionID", sessionID,
					"requestId", requestID,
					"error", err)
				if m := observability.DefaultMetrics; m != nil {
					m.RecordRequest(observability.EndpointWSDebate, false)
				}
				if sendJSON(ws, WSResponse{Action: "error", RequestID: requestID, Error: err.Error()}) != nil {
					return
				}
				continue
			}

			if m := observability.DefaultMetrics; m != nil {
				m.RecordRequest(observability.EndpointWSDebate, true)
			}
			if sendJSON(ws, WSResponse{
				Action:    "result",
				RequestID: resp.RequestID,
				Result:    resp.Result,
				Warnings:  resp.Warnings,
				Metadata:  &resp.Metadata,
			}) != nil {
				return
			}
		}
	}
}
