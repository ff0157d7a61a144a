// Costars web games
//
// Features:
// - POST /games plays a game uploaded as text or YAML and remembers it under
//   a random 8-char ID, with a server-side collision check
// - GET /games/:gameid renders the replay page, or the result as JSON when
//   the client asks for application/json
// - GET /games/:gameid/ws replays the game move by move over a WebSocket,
//   paced by --replay-delay, and finishes with the result
// - GET /games/:gameid/qr is a PNG QR code of the replay page, backed by go-qrcode
// - Games auto-reaped after configurable idle timeout

package main

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Seednode/costars/game"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/skip2/go-qrcode"
)

// Session is one finished game kept around for replays.
type Session struct {
	ID        string
	Opening   string
	Outcome   game.Outcome
	Moves     []game.Move
	Actresses int
	Actors    int
	Movies    int
	CreatedAt time.Time

	mu         sync.RWMutex
	lastActive time.Time
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastActive = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.lastActive
}

type MoveView struct {
	Player string   `json:"player"`
	Name   string   `json:"name"`
	Token  string   `json:"token"`
	Via    []string `json:"via"`
}

// SessionView is the JSON form of a session.
type SessionView struct {
	ID        string     `json:"id"`
	URL       string     `json:"url,omitempty"`
	Opening   string     `json:"opening"`
	Outcome   string     `json:"outcome"`
	Winner    string     `json:"winner"`
	Moves     []MoveView `json:"moves"`
	Actresses int        `json:"actresses"`
	Actors    int        `json:"actors"`
	Movies    int        `json:"movies"`
	CreatedAt time.Time  `json:"created_at"`
}

func (s *Session) view(l game.Labels, url string) SessionView {
	moves := make([]MoveView, 0, len(s.Moves))
	for _, m := range s.Moves {
		moves = append(moves, MoveView{
			Player: l.Name(m.Player),
			Name:   m.Name,
			Token:  m.Token,
			Via:    m.Via,
		})
	}

	return SessionView{
		ID:        s.ID,
		URL:       url,
		Opening:   s.Opening,
		Outcome:   s.Outcome.String(),
		Winner:    l.Render(s.Outcome),
		Moves:     moves,
		Actresses: s.Actresses,
		Actors:    s.Actors,
		Movies:    s.Movies,
		CreatedAt: s.CreatedAt,
	}
}

// Messages sent over the replay socket
type MoveMessage struct {
	Type  string `json:"type"` // "move"
	Index int    `json:"index"`
	MoveView
}

type ResultMessage struct {
	Type    string `json:"type"` // "result"
	Outcome string `json:"outcome"`
	Winner  string `json:"winner"`
}

type Client struct {
	conn *websocket.Conn
	send chan any
}

// GameManager holds finished games keyed by ID.
type GameManager struct {
	mu          sync.Mutex
	sessions    map[string]*Session
	idleTimeout time.Duration
}

func newGameManager(ctx context.Context, idleTimeout time.Duration) *GameManager {
	gm := &GameManager{
		sessions:    make(map[string]*Session),
		idleTimeout: idleTimeout,
	}
	if idleTimeout > 0 {
		go gm.reaperLoop(ctx)
	}
	return gm
}

// newGameIDLocked generates a crypto-random game ID that doesn't collide
// with an existing game. gm.mu must be held.
func (gm *GameManager) newGameIDLocked() string {
	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	for {
		buf := make([]byte, 8)
		if _, err := rand.Read(buf); err != nil {
			panic("crypto/rand failure: " + err.Error())
		}
		out := make([]byte, 8)
		for i := range out {
			out[i] = letters[int(buf[i])%len(letters)]
		}
		id := string(out)

		if _, exists := gm.sessions[id]; !exists {
			return id
		}
	}
}

// add stores s under a fresh ID and returns it.
func (gm *GameManager) add(s *Session) string {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	s.ID = gm.newGameIDLocked()
	s.touch(time.Now())
	gm.sessions[s.ID] = s

	return s.ID
}

func (gm *GameManager) get(id string) (*Session, bool) {
	gm.mu.Lock()
	s, ok := gm.sessions[id]
	gm.mu.Unlock()

	if ok {
		s.touch(time.Now())
	}

	return s, ok
}

func (gm *GameManager) count() int {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	return len(gm.sessions)
}

// reap forgets every session idle since before cutoff.
func (gm *GameManager) reap(cutoff time.Time) int {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	removed := 0
	for id, s := range gm.sessions {
		if s.idleSince().Before(cutoff) {
			delete(gm.sessions, id)
			removed++
		}
	}

	return removed
}

func (gm *GameManager) reaperLoop(ctx context.Context) {
	ticker := time.NewTicker(gm.idleTimeout / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			gm.reap(now.Add(-gm.idleTimeout))
		}
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func requestFormat(cfg *Config, r *http.Request) (game.Format, error) {
	if f := r.URL.Query().Get("format"); f != "" {
		return game.ParseFormat(f)
	}

	if ct := r.Header.Get("Content-Type"); ct != "" {
		mediaType, _, err := mime.ParseMediaType(ct)
		if err == nil && strings.HasSuffix(mediaType, "yaml") {
			return game.FormatYAML, nil
		}
	}

	if cfg.inputFormat == game.FormatYAML {
		return game.FormatYAML, nil
	}

	return game.FormatText, nil
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

// gameURL derives the absolute URL for path, respecting TLS and
// X-Forwarded-Proto if present.
func gameURL(r *http.Request, path string) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	return scheme + "://" + r.Host + path
}

func writeJSON(cfg *Config, w http.ResponseWriter, status int, v any, errs chan<- error) {
	data, err := json.Marshal(v)
	if err != nil {
		errs <- err

		http.Error(w, "unable to encode response", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	securityHeaders(cfg, w)
	w.WriteHeader(status)

	_, err = w.Write(append(data, '\n'))
	if err != nil {
		errs <- err
	}
}

func createGame(cfg *Config, path string, gm *GameManager, m *gameMetrics, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		startTime := time.Now()

		format, err := requestFormat(cfg, r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)

			return
		}

		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, cfg.maxBodySize))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				m.rejected.WithLabelValues("too_large").Inc()
				http.Error(w, "game too large", http.StatusRequestEntityTooLarge)

				return
			}

			http.Error(w, "unable to read game", http.StatusBadRequest)

			return
		}

		in, err := game.Load(bytes.NewReader(body), format)
		if err != nil {
			m.rejected.WithLabelValues("malformed").Inc()
			http.Error(w, err.Error(), http.StatusBadRequest)

			return
		}

		if cfg.strict {
			if err := in.Validate(); err != nil {
				m.rejected.WithLabelValues("invalid").Inc()
				http.Error(w, err.Error(), http.StatusBadRequest)

				return
			}
		}

		state, err := in.Seed()
		if err != nil {
			m.rejected.WithLabelValues("no_game").Inc()
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)

			return
		}

		outcome, moves := game.Replay(in.Catalog(), state)
		m.played.WithLabelValues(outcome.String()).Inc()
		m.moves.Observe(float64(len(moves)))

		s := &Session{
			Opening:   state.Token,
			Outcome:   outcome,
			Moves:     moves,
			Actresses: len(in.Actresses),
			Actors:    len(in.Actors),
			Movies:    len(in.Movies),
			CreatedAt: startTime,
		}
		id := gm.add(s)

		location := cfg.prefix + path + "/" + id
		w.Header().Set("Location", location)

		writeJSON(cfg, w, http.StatusCreated, s.view(cfg.labels(), gameURL(r, location)), errs)

		logf(cfg, "GAMES: Created game %s from %s upload (%s after %d moves) for %s in %s",
			id,
			humanReadableSize(int64(len(body))),
			outcome,
			len(moves),
			realIP(r),
			time.Since(startTime).Round(time.Microsecond),
		)
	}
}

func serveGame(cfg *Config, gm *GameManager, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		gameID := ps.ByName("gameid")

		s, ok := gm.get(gameID)
		if !ok {
			http.Error(w, "game not found", http.StatusNotFound)

			return
		}

		if wantsJSON(r) {
			writeJSON(cfg, w, http.StatusOK, s.view(cfg.labels(), gameURL(r, r.URL.Path)), errs)

			return
		}

		serveIndex(cfg, w, gameID, errs)
	}
}

// serveReplay streams a stored game over a WebSocket.
func serveReplay(cfg *Config, gm *GameManager, m *gameMetrics) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		gameID := ps.ByName("gameid")

		s, ok := gm.get(gameID)
		if !ok {
			http.Error(w, "game not found", http.StatusNotFound)

			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logf(cfg, "ERROR: upgrade for game %s: %v", gameID, err)

			return
		}

		m.replays.Inc()

		client := &Client{
			conn: conn,
			send: make(chan any, 8),
		}

		done := make(chan struct{})

		go client.readPump(done)
		go client.replay(s.view(cfg.labels(), ""), cfg.replayDelay, done)

		client.writePump()

		logf(cfg, "REPLAY: Game %s to %s", gameID, realIP(r))
	}
}

// readPump discards anything the browser sends and closes done once the
// connection goes away.
func (c *Client) readPump(done chan<- struct{}) {
	defer close(done)

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) push(msg any, done <-chan struct{}) bool {
	select {
	case c.send <- msg:
		return true
	case <-done:
		return false
	}
}

func (c *Client) replay(v SessionView, delay time.Duration, done <-chan struct{}) {
	defer close(c.send)

	for i, m := range v.Moves {
		if i > 0 && !wait(delay, done) {
			return
		}
		if !c.push(MoveMessage{Type: "move", Index: i, MoveView: m}, done) {
			return
		}
	}

	if len(v.Moves) > 0 && !wait(delay, done) {
		return
	}

	c.push(ResultMessage{
		Type:    "result",
		Outcome: v.Outcome,
		Winner:  v.Winner,
	}, done)
}

func wait(d time.Duration, done <-chan struct{}) bool {
	if d <= 0 {
		return true
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return true
	case <-done:
		return false
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}

	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "replay finished"),
		time.Now().Add(time.Second))
}

// qrHandler generates a PNG QR code for the game's replay page.
func qrHandler(cfg *Config, gm *GameManager, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if _, ok := gm.get(ps.ByName("gameid")); !ok {
			http.Error(w, "game not found", http.StatusNotFound)

			return
		}

		url := gameURL(r, strings.TrimSuffix(r.URL.Path, "/qr"))

		const qrSize = 320
		png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
		if err != nil {
			http.Error(w, "qr generation failed", http.StatusInternalServerError)

			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		securityHeaders(cfg, w)

		_, err = w.Write(png)
		if err != nil {
			errs <- err
		}
	}
}

// registerCostarsGame sets up routes so that:
//   - POST $path              → play an uploaded game
//   - $path/:gameid           → replay page, or JSON result
//   - $path/:gameid/ws        → WebSocket replay for that game
//   - $path/:gameid/qr        → PNG QR code for that game URL
func registerCostarsGame(ctx context.Context, cfg *Config, path string, mux *httprouter.Router, reg prometheus.Registerer, errs chan<- error) *GameManager {
	gm := newGameManager(ctx, cfg.sessionTimeout)
	m := newGameMetrics(reg, gm)

	mux.POST(cfg.prefix+path, createGame(cfg, path, gm, m, errs))

	mux.GET(cfg.prefix+path+"/:gameid", serveGame(cfg, gm, errs))

	mux.GET(cfg.prefix+path+"/:gameid/ws", serveReplay(cfg, gm, m))

	mux.GET(cfg.prefix+path+"/:gameid/qr", qrHandler(cfg, gm, errs))

	return gm
}
