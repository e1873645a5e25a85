package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/jinzhu/copier"
	"github.com/koscakluka/vela-core/core/audio"
	"github.com/koscakluka/vela-core/core/live"
	"go.opentelemetry.io/otel/codes"
)

var _ live.Session = (*Session)(nil)

// Session is one open bidirectional generation stream.
type Session struct {
	ws     *websocket.Conn
	wsMu   sync.Mutex
	config live.SessionConfig

	callbacks live.Callbacks

	closeOnce sync.Once
	closed    chan struct{}
}

func connectSession(ctx context.Context, url string, header http.Header, config live.SessionConfig, callbacks live.Callbacks) (*Session, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, header)
	if err != nil {
		return nil, fmt.Errorf("failed to open socket connection to gemini: %w", err)
	}

	session := &Session{
		ws:        conn,
		callbacks: callbacks,
		closed:    make(chan struct{}),
	}
	// Snapshot the caller's config so later mutation of their slices cannot
	// leak into an open session.
	if err := copier.Copy(&session.config, &config); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to snapshot session config: %w", err)
	}
	if session.config.Model == "" {
		session.config.Model = defaultModel
	}

	if err := session.sendSetup(); err != nil {
		conn.Close()
		return nil, err
	}

	if err := session.awaitSetupComplete(); err != nil {
		conn.Close()
		return nil, err
	}

	session.callbacks.Dispatch(live.SessionEvent{Type: live.SessionEventOpen})
	go session.processIncomingMessages(ctx)

	return session, nil
}

func (s *Session) sendSetup() error {
	setup := setupMessage{
		Model: qualifiedModel(s.config.Model),
		GenerationConfig: &generationConfig{
			ResponseModalities: []string{"AUDIO"},
		},
		Tools:                    toWireTools(s.config.Tools),
		InputAudioTranscription:  &struct{}{},
		OutputAudioTranscription: &struct{}{},
	}
	if s.config.SystemInstruction != "" {
		setup.SystemInstruction = &content{Parts: []part{{Text: s.config.SystemInstruction}}}
	}
	if s.config.Voice != "" {
		setup.GenerationConfig.SpeechConfig = &speechConfig{
			VoiceConfig: &voiceConfig{
				PrebuiltVoiceConfig: &prebuiltVoiceConfig{VoiceName: s.config.Voice},
			},
		}
	}

	if err := s.sendWebsocketMessage(clientMessage{Setup: &setup}); err != nil {
		return fmt.Errorf("failed to send session setup: %w", err)
	}
	return nil
}

func (s *Session) awaitSetupComplete() error {
	_, msg, err := s.ws.ReadMessage()
	if err != nil {
		return fmt.Errorf("failed to read setup confirmation: %w", err)
	}

	var parsedMsg serverMessage
	if err := json.Unmarshal(msg, &parsedMsg); err != nil {
		return fmt.Errorf("failed to unmarshal setup confirmation: %w", err)
	}
	if parsedMsg.SetupComplete == nil {
		return fmt.Errorf("session setup rejected: %s", string(msg))
	}

	return nil
}

func (s *Session) processIncomingMessages(ctx context.Context) {
	_, span := tracer.Start(ctx, "live session read loop")
	defer span.End()

	for {
		_, msg, err := s.ws.ReadMessage()
		if err != nil {
			select {
			case <-s.closed:
				// Local close already happened; the read error is just the
				// socket winding down.
				s.callbacks.Dispatch(live.SessionEvent{Type: live.SessionEventClose})
			default:
				if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					s.callbacks.Dispatch(live.SessionEvent{Type: live.SessionEventClose})
				} else {
					span.RecordError(err)
					span.SetStatus(codes.Error, err.Error())
					s.callbacks.Dispatch(live.SessionEvent{Type: live.SessionEventError, Err: err})
					s.callbacks.Dispatch(live.SessionEvent{Type: live.SessionEventClose, Err: err})
				}
			}
			return
		}

		s.processMessage(msg)
	}
}

func (s *Session) processMessage(msg []byte) {
	var parsedMsg serverMessage
	if err := json.Unmarshal(msg, &parsedMsg); err != nil {
		logger.Warn("Failed to unmarshal gemini message", "error", err)
		return
	}

	switch {
	case parsedMsg.ServerContent != nil:
		s.callbacks.Dispatch(live.SessionEvent{
			Type:    live.SessionEventMessage,
			Message: parsedMsg.ServerContent.toServerMessage(),
		})
	case parsedMsg.ToolCall != nil:
		s.callbacks.Dispatch(live.SessionEvent{
			Type:    live.SessionEventMessage,
			Message: live.ServerMessage{ToolCall: &live.ToolCall{FunctionCalls: parsedMsg.ToolCall.toFunctionCalls()}},
		})
	case parsedMsg.GoAway != nil:
		logger.Info("Live session connection is winding down", "time_left", parsedMsg.GoAway.TimeLeft)
	case parsedMsg.UsageMetadata != nil:
		// Accounting only, nothing for the dialog pipeline.
	default:
		logger.Debug("Ignoring unrecognized gemini message")
	}
}

// SendRealtimeAudio submits one capture frame as a realtime media chunk.
// The payload is transport-encoded here; callers pass raw PCM bytes.
func (s *Session) SendRealtimeAudio(mimeType string, data []byte) error {
	select {
	case <-s.closed:
		return fmt.Errorf("live session closed")
	default:
	}

	return s.sendWebsocketMessage(clientMessage{
		RealtimeInput: &realtimeInput{
			MediaChunks: []blob{{MIMEType: mimeType, Data: audio.EncodeTransport(data)}},
		},
	})
}

// SendToolResponse returns function results for a requested tool call.
func (s *Session) SendToolResponse(responses ...live.FunctionResponse) error {
	select {
	case <-s.closed:
		return fmt.Errorf("live session closed")
	default:
	}

	wireResponses := make([]functionResponse, 0, len(responses))
	for _, response := range responses {
		wireResponses = append(wireResponses, functionResponse{
			ID:       response.ID,
			Name:     response.Name,
			Response: response.Response,
		})
	}

	return s.sendWebsocketMessage(clientMessage{
		ToolResponse: &toolResponseMessage{FunctionResponses: wireResponses},
	})
}

func (s *Session) sendWebsocketMessage(message clientMessage) error {
	s.wsMu.Lock()
	defer s.wsMu.Unlock()

	if err := s.ws.WriteJSON(message); err != nil {
		return fmt.Errorf("failed to write to gemini session: %w", err)
	}
	return nil
}

// Close ends the session. Safe to call repeatedly and while the read loop is
// still delivering callbacks.
func (s *Session) Close() error {
	var closeErr error
	s.closeOnce.Do(func() {
		close(s.closed)

		s.wsMu.Lock()
		_ = s.ws.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		)
		s.wsMu.Unlock()

		if err := s.ws.Close(); err != nil {
			closeErr = fmt.Errorf("failed to close gemini socket: %w", err)
		}
	})
	return closeErr
}
