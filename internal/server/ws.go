package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"sketchit/internal/events"
	"sketchit/internal/game"
	"sketchit/internal/rooms"
	"sketchit/internal/wshub"
)

const (
	sendBuffer   = 64
	maxFrameSize = 64 << 10
)

var (
	errRateLimited    = errors.New("rate limited")
	errBadMessage     = errors.New("malformed message")
	errUnknownMessage = errors.New("unknown message type")
)

// handleWS owns one connection for its lifetime. Messages from a
// connection are handled one at a time, in the order they arrive.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: s.Config.AllowedOrigins,
	})
	if err != nil {
		s.log.Warn().Err(err).Msg("websocket accept failed")
		return
	}
	conn.SetReadLimit(maxFrameSize)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	token := uuid.NewString()
	client := wshub.NewClient(token, conn, sendBuffer)
	s.Hub.Register(client)
	go client.WritePump(ctx)

	defer func() {
		if err := s.Engine.Disconnect(token); err != nil && !errors.Is(err, rooms.ErrNotFound) {
			s.log.Error().Err(err).Str("client", token).Msg("disconnect")
		}
		s.Hub.Unregister(token)
		conn.Close(websocket.StatusNormalClosure, "")
	}()

	limiter := rate.NewLimiter(rate.Limit(s.Config.MessageRate), s.Config.MessageBurst)
	for {
		typ, data, err := conn.Read(ctx)
		if err != nil {
			return
		}
		if typ != websocket.MessageText {
			s.reject(token, "", errBadMessage)
			continue
		}

		var msg wshub.ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.reject(token, "", errBadMessage)
			continue
		}
		if !limiter.Allow() {
			s.reject(token, msg.Type, errRateLimited)
			continue
		}
		s.dispatch(token, msg)
	}
}

// dispatch runs one inbound message. A panic is contained to this message.
func (s *Server) dispatch(token string, msg wshub.ClientMessage) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error().
				Str("client", token).
				Str("type", msg.Type).
				Interface("panic", r).
				Str("stack", string(debug.Stack())).
				Msg("recovered panic in handler")
			s.reject(token, msg.Type, fmt.Errorf("internal error"))
		}
	}()

	var err error
	switch msg.Type {
	case wshub.TypeCreateRoom:
		if _, err := s.Engine.CreateRoom(token, msg.Name); err != nil {
			s.Hub.SendTo(token, events.New(events.TypeJoinFailed, events.JoinFailed{Reason: reason(err)}))
		}
		return
	case wshub.TypeJoinRoom:
		if _, err := s.Engine.JoinRoom(token, msg.Code, msg.Name); err != nil {
			s.Hub.SendTo(token, events.New(events.TypeJoinFailed, events.JoinFailed{
				Code:   rooms.NormalizeCode(msg.Code),
				Reason: reason(err),
			}))
		}
		return
	case wshub.TypeStartGame:
		err = s.Engine.StartGame(token, msg.Code)
	case wshub.TypeSelectWord:
		err = s.Engine.WordSelected(token, msg.Code, msg.Word)
	case wshub.TypeChat:
		err = s.Engine.SendGuessOrChat(token, msg.Code, msg.Message)
	case wshub.TypeChangeDrawer:
		err = s.Engine.ChangeDrawer(token, msg.Code)
	case wshub.TypeDraw:
		if msg.Segment == nil {
			err = errBadMessage
			break
		}
		err = s.Engine.DrawStroke(token, msg.Code, *msg.Segment)
	case wshub.TypeStrokeEnd:
		err = s.Engine.StrokeEnded(token, msg.Code)
	case wshub.TypeUndo:
		err = s.Engine.Undo(token, msg.Code, msg.Strokes)
	case wshub.TypeClearCanvas:
		err = s.Engine.ClearCanvas(token, msg.Code)
	default:
		err = errUnknownMessage
	}
	if err != nil {
		s.reject(token, msg.Type, err)
	}
}

func (s *Server) reject(token, action string, err error) {
	s.log.Debug().Err(err).Str("client", token).Str("type", action).Msg("action rejected")
	s.Hub.SendTo(token, events.New(events.TypeActionRejected, events.ActionRejected{
		Action: action,
		Reason: reason(err),
	}))
}

// reason turns an error into text fit for a player.
func reason(err error) string {
	switch {
	case errors.Is(err, rooms.ErrNotFound):
		return "Room not found"
	case errors.Is(err, rooms.ErrDuplicateConnection), errors.Is(err, game.ErrAlreadyInRoom):
		return "Already in a room"
	case errors.Is(err, game.ErrInvalidName):
		return "Please enter a name"
	case errors.Is(err, game.ErrUnauthorized):
		return "You can't do that"
	case errors.Is(err, game.ErrWrongPhase):
		return "Not right now"
	case errors.Is(err, game.ErrNotEnoughPlayers):
		return "At least 2 players are needed"
	case errors.Is(err, game.ErrWordNotOffered):
		return "Pick one of the offered words"
	case errors.Is(err, errRateLimited):
		return "Slow down"
	case errors.Is(err, errBadMessage):
		return "Malformed message"
	case errors.Is(err, errUnknownMessage):
		return "Unknown message type"
	default:
		return "Unable to process request"
	}
}
