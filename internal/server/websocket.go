package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/jonathan/interview-partner/internal/interview"
	"github.com/jonathan/interview-partner/internal/logging"
	"github.com/jonathan/interview-partner/internal/scoring"
	"github.com/jonathan/interview-partner/internal/types"
)

const (
	wsWriteWait      = 10 * time.Second
	wsPongWait       = 60 * time.Second
	wsPingPeriod     = 54 * time.Second
	wsMaxMessageSize = 64 << 10
)

// Speech socket message types.
const (
	wsTypeTranscript = "transcript"
	wsTypeReset      = "reset"
	wsTypeSubmit     = "submit"

	wsTypeConnected  = "connected"
	wsTypeAnalysis   = "analysis"
	wsTypeEvaluation = "evaluation"
	wsTypeError      = "error"
)

// speechInbound is a message from the browser. Transcript messages carry a
// recognizer segment: interim segments replace each other, final segments
// are committed to the answer.
type speechInbound struct {
	Type                string  `json:"type"`
	Text                string  `json:"text,omitempty"`
	Final               bool    `json:"final,omitempty"`
	ElapsedSeconds      float64 `json:"elapsed_seconds,omitempty"`
	QuestionID          *int    `json:"question_id,omitempty"`
	ResponseTimeSeconds int     `json:"response_time_seconds,omitempty"`
}

type speechOutbound struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id,omitempty"`
	Data      any    `json:"data,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// speechState is the transcript of the answer being spoken.
type speechState struct {
	committed []string
	interim   string
	elapsed   float64
}

func (st *speechState) apply(msg speechInbound) {
	text := strings.TrimSpace(msg.Text)
	if msg.Final {
		if text != "" {
			st.committed = append(st.committed, text)
		}
		st.interim = ""
	} else {
		st.interim = text
	}
	if msg.ElapsedSeconds > st.elapsed {
		st.elapsed = msg.ElapsedSeconds
	}
}

func (st *speechState) transcript() string {
	parts := st.committed
	if st.interim != "" {
		parts = append(parts[:len(parts):len(parts)], st.interim)
	}
	return strings.Join(parts, " ")
}

func (st *speechState) reset() {
	*st = speechState{}
}

// speechConn serializes writes; gorilla connections allow one concurrent writer.
type speechConn struct {
	conn      *websocket.Conn
	sessionID string
	mu        sync.Mutex
}

func (c *speechConn) send(msgType string, data any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait)) //nolint:errcheck
	return c.conn.WriteJSON(speechOutbound{
		Type:      msgType,
		SessionID: c.sessionID,
		Data:      data,
		Timestamp: time.Now().Unix(),
	})
}

func (c *speechConn) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait))
}

// handleSpeechSocket streams transcript segments in and incremental speech
// analysis out. A submit message evaluates the spoken answer like
// submit-answer does.
func (s *Server) handleSpeechSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := sessionParam(r)
	if _, err := s.service.Sessions().Peek(r.Context(), sessionID); err != nil {
		s.handleError(w, sessionID, "open speech stream", err)
		return
	}

	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Session(s.logger, sessionID).Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer ws.Close()

	log := logging.Session(s.logger, sessionID)
	log.Info("speech stream opened")
	defer log.Info("speech stream closed")

	conn := &speechConn{conn: ws, sessionID: sessionID}
	ws.SetReadLimit(wsMaxMessageSize)
	ws.SetReadDeadline(time.Now().Add(wsPongWait)) //nolint:errcheck
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go s.pingLoop(ctx, conn)

	if err := conn.send(wsTypeConnected, map[string]any{"min_answer_length": s.service.Options().MinAnswerLength}); err != nil {
		return
	}

	var state speechState
	for {
		var msg speechInbound
		if err := ws.ReadJSON(&msg); err != nil {
			var syntaxErr *json.SyntaxError
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
				if conn.send(wsTypeError, map[string]string{"message": "invalid JSON message"}) != nil {
					return
				}
				continue
			}
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("speech stream read failed", zap.Error(err))
			}
			return
		}
		ws.SetReadDeadline(time.Now().Add(wsPongWait)) //nolint:errcheck

		if err := s.handleSpeechMessage(ctx, conn, &state, msg); err != nil {
			return
		}
	}
}

// handleSpeechMessage processes one inbound message. Only write failures are returned.
func (s *Server) handleSpeechMessage(ctx context.Context, conn *speechConn, state *speechState, msg speechInbound) error {
	switch msg.Type {
	case wsTypeTranscript:
		state.apply(msg)
		text := state.transcript()
		return conn.send(wsTypeAnalysis, map[string]any{
			"transcript": text,
			"final":      msg.Final,
			"analysis":   scoring.AnalyzeSpeech(text, state.elapsed),
		})

	case wsTypeReset:
		state.reset()
		return conn.send(wsTypeAnalysis, map[string]any{
			"transcript": "",
			"analysis":   scoring.AnalyzeSpeech("", 0),
		})

	case wsTypeSubmit:
		// A submit may carry the last segment itself.
		if strings.TrimSpace(msg.Text) != "" {
			state.apply(speechInbound{Text: msg.Text, Final: true, ElapsedSeconds: msg.ElapsedSeconds})
		}
		resp, err := s.submitSpoken(ctx, conn.sessionID, state, msg)
		if err != nil {
			return conn.send(wsTypeError, map[string]any{"message": err.Error(), "status": HTTPStatus(err)})
		}
		state.reset()
		return conn.send(wsTypeEvaluation, resp)

	default:
		return conn.send(wsTypeError, map[string]string{"message": "unknown message type: " + msg.Type})
	}
}

// submitSpoken evaluates the spoken transcript. Without an explicit question
// id the current question of the session is answered.
func (s *Server) submitSpoken(ctx context.Context, sessionID string, state *speechState, msg speechInbound) (*types.AnswerEvaluationResponse, error) {
	var questionID int
	if msg.QuestionID != nil {
		questionID = *msg.QuestionID
	} else {
		next, err := s.service.NextQuestion(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		if next == nil {
			return nil, fmt.Errorf("no question is waiting for an answer: %w", interview.ErrNoQuestions)
		}
		questionID = next.ID
	}

	return s.service.SubmitAnswer(ctx, types.AnswerSubmissionRequest{
		SessionID:           sessionID,
		QuestionID:          questionID,
		AnswerText:          state.transcript(),
		ResponseTimeSeconds: msg.ResponseTimeSeconds,
		SpeechDurationSecs:  state.elapsed,
	})
}

// pingLoop keeps the connection alive until ctx is done.
func (s *Server) pingLoop(ctx context.Context, conn *speechConn) {
	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.ping(); err != nil {
				return
			}
		}
	}
}
