package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/skip2/go-qrcode"

	"sketchit/internal/analytics"
	"sketchit/internal/rooms"
)

const qrSize = 320

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error().Err(err).Msg("encoding response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleRoom(w http.ResponseWriter, r *http.Request) {
	state, err := s.Engine.Snapshot(r.PathValue("code"))
	if errors.Is(err, rooms.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, "room not found")
		return
	}
	if err != nil {
		s.log.Error().Err(err).Msg("room snapshot")
		s.writeError(w, http.StatusInternalServerError, "error loading room")
		return
	}
	s.writeJSON(w, http.StatusOK, state)
}

// handleRoomQR renders a PNG QR code pointing at the room's join link.
func (s *Server) handleRoomQR(w http.ResponseWriter, r *http.Request) {
	room, err := s.Engine.Rooms().Get(r.PathValue("code"))
	if err != nil {
		http.Error(w, "room not found", http.StatusNotFound)
		return
	}

	png, err := qrcode.Encode(s.joinURL(r, room.Code), qrcode.Medium, qrSize)
	if err != nil {
		s.log.Error().Err(err).Str("room", room.Code).Msg("qr generation failed")
		http.Error(w, "qr generation failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}

// joinURL prefers the configured public URL and otherwise derives one from
// the request, respecting X-Forwarded-Proto.
func (s *Server) joinURL(r *http.Request, code string) string {
	base := s.Config.PublicURL
	if base == "" {
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
			scheme = proto
		}
		base = scheme + "://" + r.Host
	}
	return base + "/?room=" + url.QueryEscape(code)
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	if s.Queries == nil {
		s.writeError(w, http.StatusServiceUnavailable, "leaderboard requires a database connection")
		return
	}

	category := r.URL.Query().Get("cat")
	if category == "" {
		category = "score"
	}
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 10
	}

	entries, err := s.Queries.GetLeaderboard(category, limit)
	if errors.Is(err, analytics.ErrUnknownCategory) {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		s.log.Error().Err(err).Msg("leaderboard")
		s.writeError(w, http.StatusInternalServerError, "error loading leaderboard")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"category": category, "entries": entries})
}

func (s *Server) handlePlayerStats(w http.ResponseWriter, r *http.Request) {
	if s.Queries == nil {
		s.writeError(w, http.StatusServiceUnavailable, "player stats require a database connection")
		return
	}

	stats, err := s.Queries.GetPlayerStats(r.PathValue("name"))
	if errors.Is(err, analytics.ErrNoGames) {
		s.writeError(w, http.StatusNotFound, "no games for player")
		return
	}
	if err != nil {
		s.log.Error().Err(err).Msg("player stats")
		s.writeError(w, http.StatusInternalServerError, "error loading player stats")
		return
	}
	s.writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{"status": "ok", "rooms": s.Engine.Rooms().Count()}
	if s.DB != nil {
		if err := s.DB.Ping(); err != nil {
			s.writeJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "db_error", "error": err.Error()})
			return
		}
	}
	s.writeJSON(w, http.StatusOK, resp)
}
