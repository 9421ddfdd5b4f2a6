package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/betarho/zxscan/internal/barcode"
	"github.com/betarho/zxscan/internal/imgio"
	"github.com/betarho/zxscan/internal/output"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Origin checks are the deployment's job; the handler accepts all.
		return true
	},
}

// WebSocketScanRequest is a scan request sent over WebSocket. Image bytes
// are base64-encoded in JSON.
type WebSocketScanRequest struct {
	Type    string         `json:"type"` // "scan"
	Image   []byte         `json:"image,omitempty"`
	Options map[string]any `json:"options,omitempty"`
}

// WebSocketScanResponse is a scan response sent over WebSocket.
type WebSocketScanResponse struct {
	Type      string           `json:"type"`
	Status    string           `json:"status"` // "processing", "completed", "error"
	Result    *output.Document `json:"result,omitempty"`
	Error     string           `json:"error,omitempty"`
	ErrorType string           `json:"error_type,omitempty"`
	RequestID string           `json:"request_id,omitempty"`
}

// webSocketWriter is the subset of *websocket.Conn the response helpers need.
type webSocketWriter interface {
	WriteMessage(messageType int, data []byte) error
}

// scanWebSocketHandler upgrades the connection and serves scan requests
// until the client goes away.
func (s *Server) scanWebSocketHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("Failed to upgrade connection to WebSocket", "error", err)
		return
	}
	defer func() { _ = conn.Close() }()

	websocketConnections.Inc()
	defer websocketConnections.Dec()

	slog.Info("WebSocket connection established", "remote_addr", r.RemoteAddr)
	s.handleWebSocketConnection(conn)
}

func (s *Server) handleWebSocketConnection(conn *websocket.Conn) {
	_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	// Keep the connection alive while the client is idle.
	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(10*time.Second)); err != nil {
					return
				}
			}
		}
	}()

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Error("WebSocket error", "error", err)
			}
			break
		}

		websocketMessagesTotal.WithLabelValues("received").Inc()

		if messageType == websocket.TextMessage {
			s.handleWebSocketMessage(conn, data)
		}
	}
}

func (s *Server) handleWebSocketMessage(conn *websocket.Conn, data []byte) {
	var req WebSocketScanRequest
	if err := json.Unmarshal(data, &req); err != nil {
		s.sendWebSocketError(conn, "invalid_request", fmt.Sprintf("Failed to parse request: %v", err))
		return
	}
	if req.Type != "scan" {
		s.sendWebSocketError(conn, "invalid_request", "Unsupported request type: "+req.Type)
		return
	}

	requestID := strconv.FormatInt(time.Now().UnixNano(), 10)
	s.sendWebSocketResponse(conn, WebSocketScanResponse{
		Type:      "scan_response",
		Status:    "processing",
		RequestID: requestID,
	})

	s.processWebSocketScan(conn, req, requestID)
}

func (s *Server) processWebSocketScan(conn *websocket.Conn, req WebSocketScanRequest, requestID string) {
	if len(req.Image) == 0 {
		s.sendWebSocketError(conn, "invalid_request", "No image data provided")
		return
	}

	img, _, err := imgio.Decode(bytes.NewReader(req.Image))
	if err != nil {
		s.sendWebSocketError(conn, "processing_error", fmt.Sprintf("Failed to decode image: %v", err))
		return
	}

	opts, err := s.optionsFromMap(req.Options)
	if err != nil {
		s.sendWebSocketError(conn, "invalid_request", err.Error())
		return
	}

	start := time.Now()
	results, err := s.decode(context.Background(), img, opts)
	duration := time.Since(start)

	if err != nil {
		scanRequestsTotal.WithLabelValues("websocket_image", "error").Inc()
		s.sendWebSocketError(conn, "processing_error", fmt.Sprintf("Decode failed: %v", err))
		return
	}

	scanRequestsTotal.WithLabelValues("websocket_image", "success").Inc()
	scanDuration.WithLabelValues("websocket_image").Observe(duration.Seconds())
	symbolsDecoded.WithLabelValues("websocket_image").Observe(float64(len(results)))

	doc := output.NewDocument("websocket", results)
	s.sendWebSocketResponse(conn, WebSocketScanResponse{
		Type:      "scan_response",
		Status:    "completed",
		Result:    &doc,
		RequestID: requestID,
	})
}

// optionsFromMap overlays loosely typed WebSocket options onto the server's
// default decode options.
func (s *Server) optionsFromMap(m map[string]any) (barcode.Options, error) {
	opts := s.defaults
	if m == nil {
		return opts, nil
	}
	if v, ok := m["formats"].(string); ok && v != "" {
		set, err := barcode.ParseFormatSet(v)
		if err != nil {
			return opts, err
		}
		opts.Formats = set
	}
	if v, ok := m["try_harder"].(bool); ok {
		opts.TryHarder = v
	}
	if v, ok := m["try_rotate"].(bool); ok {
		opts.TryRotate = v
	}
	if v, ok := m["try_invert"].(bool); ok {
		opts.TryInvert = v
	}
	if v, ok := m["pure"].(bool); ok {
		opts.IsPure = v
	}
	if v, ok := m["max_symbols"].(float64); ok && v >= 1 {
		opts.MaxNumberOfSymbols = int(v)
	}
	if v, ok := m["binarizer"].(string); ok && v != "" {
		b, err := barcode.ParseBinarizer(v)
		if err != nil {
			return opts, err
		}
		opts.Binarizer = b
	}
	if v, ok := m["text_mode"].(string); ok && v != "" {
		t, err := barcode.ParseTextMode(v)
		if err != nil {
			return opts, err
		}
		opts.TextMode = t
	}
	if v, ok := m["ean_add_on"].(string); ok && v != "" {
		e, err := barcode.ParseEanAddOnSymbol(v)
		if err != nil {
			return opts, err
		}
		opts.EanAddOnSymbol = e
	}
	return opts, nil
}

func (s *Server) sendWebSocketResponse(conn webSocketWriter, response WebSocketScanResponse) {
	data, err := json.Marshal(response)
	if err != nil {
		slog.Error("Failed to marshal WebSocket response", "error", err)
		return
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		slog.Error("Failed to send WebSocket message", "error", err)
		return
	}
	websocketMessagesTotal.WithLabelValues("sent").Inc()
}

func (s *Server) sendWebSocketError(conn webSocketWriter, errorType, message string) {
	s.sendWebSocketResponse(conn, WebSocketScanResponse{
		Type:      "error",
		Status:    "error",
		Error:     message,
		ErrorType: errorType,
	})
}
