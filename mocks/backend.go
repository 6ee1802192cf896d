// Package mocks provides an in-process fake of the matching backend: the
// REST endpoints the client calls plus the realtime websocket.
package mocks

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"tradermatch_client/models"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

// Backend is safe for concurrent use by the handlers and the test goroutine.
// Tests change the exported fields through Configure once the server runs.
type Backend struct {
	Server *httptest.Server

	mu sync.Mutex

	Users        map[string]models.UserProfile
	Matches      map[string][]models.Match
	Messages     map[string][]models.Message
	Subscription map[string]models.Subscription

	// discovery pages are served in order; once drained, empty lists follow
	pages map[models.DiscoveryMode][][]models.Candidate

	// MatchOn lists target ids whose like produces matched:true
	MatchOn map[string]bool
	// FailSwipes makes POST /api/swipe answer 500
	FailSwipes bool
	// FailProfileUpdates makes PUT /api/user/{id} answer 500
	FailProfileUpdates bool
	// DiscoverDelay slows down both discovery endpoints
	DiscoverDelay time.Duration
	// EchoChat makes the websocket echo outbound chat frames back to the sender
	EchoChat bool

	messageGates map[string]chan struct{}
	calls        map[string]int
	swipes       []models.SwipeDecision

	conns    map[string]*serverConn
	connSeen chan string
	received []models.OutboundChatFrame
	upgrader websocket.Upgrader
}

// NewBackend starts the fake on a random local port.
func NewBackend() *Backend {
	b := &Backend{
		Users:        make(map[string]models.UserProfile),
		Matches:      make(map[string][]models.Match),
		Messages:     make(map[string][]models.Message),
		Subscription: make(map[string]models.Subscription),
		pages:        make(map[models.DiscoveryMode][][]models.Candidate),
		MatchOn:      make(map[string]bool),
		messageGates: make(map[string]chan struct{}),
		calls:        make(map[string]int),
		conns:        make(map[string]*serverConn),
		connSeen:     make(chan string, 16),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	b.Server = httptest.NewServer(b.router())
	return b
}

// URL is the http base URL; WebSocketURL the matching ws base.
func (b *Backend) URL() string { return b.Server.URL }

func (b *Backend) WebSocketURL() string {
	return "ws" + strings.TrimPrefix(b.Server.URL, "http")
}

// Close shuts down sockets and the HTTP server.
func (b *Backend) Close() {
	b.DropConnections()
	b.Server.Close()
}

// Configure mutates the fake under its lock.
func (b *Backend) Configure(fn func(b *Backend)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fn(b)
}

// QueuePage appends one discovery response for a mode.
func (b *Backend) QueuePage(mode models.DiscoveryMode, candidates ...models.Candidate) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pages[mode] = append(b.pages[mode], candidates)
}

// GateMessages blocks GET /api/messages/{matchID} until the returned func runs.
func (b *Backend) GateMessages(matchID string) (release func()) {
	gate := make(chan struct{})
	b.mu.Lock()
	b.messageGates[matchID] = gate
	b.mu.Unlock()
	var once sync.Once
	return func() { once.Do(func() { close(gate) }) }
}

// Calls returns how often a route (e.g. "GET /api/matches") was hit.
func (b *Backend) Calls(route string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[route]
}

// Swipes returns the decisions received so far.
func (b *Backend) Swipes() []models.SwipeDecision {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.SwipeDecision(nil), b.swipes...)
}

// Received returns the chat frames written by clients.
func (b *Backend) Received() []models.OutboundChatFrame {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.OutboundChatFrame(nil), b.received...)
}

// WaitForConnection blocks until userID has an open websocket.
func (b *Backend) WaitForConnection(userID string, timeout time.Duration) error {
	deadline := time.After(timeout)
	for {
		b.mu.Lock()
		_, ok := b.conns[userID]
		b.mu.Unlock()
		if ok {
			return nil
		}
		select {
		case <-b.connSeen:
		case <-deadline:
			return fmt.Errorf("no websocket for %s after %s", userID, timeout)
		}
	}
}

// Connected reports whether userID currently holds a websocket.
func (b *Backend) Connected(userID string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.conns[userID]
	return ok
}

// Push writes a raw frame to userID's websocket.
func (b *Backend) Push(userID string, frame interface{}) error {
	b.mu.Lock()
	conn, ok := b.conns[userID]
	b.mu.Unlock()
	if !ok {
		return errors.New("user not connected")
	}
	return conn.writeJSON(frame)
}

// DropConnections closes every server side socket.
func (b *Backend) DropConnections() {
	b.mu.Lock()
	conns := b.conns
	b.conns = make(map[string]*serverConn)
	b.mu.Unlock()
	for _, conn := range conns {
		_ = conn.Close()
	}
}

func (b *Backend) count(route string) {
	b.mu.Lock()
	b.calls[route]++
	b.mu.Unlock()
}

func (b *Backend) router() http.Handler {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/create-demo-user", b.createDemoUser).Methods("POST")
	api.HandleFunc("/login/twitter", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"auth_url": "https://twitter.example/oauth"})
	}).Methods("GET")
	api.HandleFunc("/user/{id}", b.getUser).Methods("GET")
	api.HandleFunc("/user/{id}", b.updateUser).Methods("PUT")
	api.HandleFunc("/user/{id}/update-activity", b.counted("POST /api/user/update-activity", nil)).Methods("POST")
	api.HandleFunc("/user-status/{id}", b.userStatus).Methods("GET", "POST")
	api.HandleFunc("/discover/{id}", b.discover(models.ModeBrowse)).Methods("GET")
	api.HandleFunc("/ai-matches/{id}", b.discover(models.ModeAI)).Methods("GET")
	api.HandleFunc("/swipe", b.swipe).Methods("POST")
	api.HandleFunc("/matches/{id}", b.matches).Methods("GET")
	api.HandleFunc("/messages/{matchId}", b.messages).Methods("GET")
	api.HandleFunc("/upload-profile-image/{id}", b.upload("avatar_url")).Methods("POST")
	api.HandleFunc("/upload-trading-highlight/{id}", b.upload("image_url")).Methods("POST")
	api.HandleFunc("/social-links/{id}", b.counted("GET /api/social-links", models.SocialLinks{Twitter: "https://twitter.com/satoshi"})).Methods("GET")
	api.HandleFunc("/social-links/{id}", b.counted("POST /api/social-links", map[string]bool{"success": true})).Methods("POST")
	api.HandleFunc("/trading-highlights/{id}", b.counted("GET /api/trading-highlights", map[string]interface{}{
		"highlights": []models.TradingHighlight{{HighlightID: "h1", Title: "BTC breakout", ProfitPct: 42}},
	})).Methods("GET")
	api.HandleFunc("/trading-highlights/{id}", b.counted("POST /api/trading-highlights", nil)).Methods("POST")
	api.HandleFunc("/trading-highlights/{id}", b.counted("DELETE /api/trading-highlights", nil)).Methods("DELETE")
	api.HandleFunc("/subscription/{id}", b.getSubscription).Methods("GET")
	api.HandleFunc("/subscription/upgrade/{id}", b.upgrade).Methods("POST")
	api.HandleFunc("/referrals/apply", b.counted("POST /api/referrals/apply", map[string]bool{"success": true})).Methods("POST")
	api.HandleFunc("/referrals/{id}", b.counted("GET /api/referrals", models.ReferralStats{Code: "MOON42", TotalReferred: 3})).Methods("GET")
	api.HandleFunc("/public-profile/{username}", b.publicProfile).Methods("GET")
	api.HandleFunc("/ws/{id}", b.websocket)

	return r
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

func (b *Backend) counted(route string, payload interface{}) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b.count(route)
		writeJSON(w, http.StatusOK, payload)
	}
}

func (b *Backend) createDemoUser(w http.ResponseWriter, r *http.Request) {
	b.count("POST /api/create-demo-user")
	var req models.DemoUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}

	profile := models.UserProfile{
		UserID:      uuid.NewString(),
		Username:    req.Username,
		DisplayName: req.DisplayName,
		Status:      models.StatusActive,
	}
	b.mu.Lock()
	b.Users[profile.UserID] = profile
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]interface{}{"user": profile})
}

func (b *Backend) getUser(w http.ResponseWriter, r *http.Request) {
	b.count("GET /api/user")
	b.mu.Lock()
	profile, ok := b.Users[mux.Vars(r)["id"]]
	b.mu.Unlock()
	if !ok {
		http.Error(w, `{"error": "User not found"}`, http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (b *Backend) updateUser(w http.ResponseWriter, r *http.Request) {
	b.count("PUT /api/user")
	b.mu.Lock()
	fail := b.FailProfileUpdates
	b.mu.Unlock()
	if fail {
		http.Error(w, `{"error": "Failed to update profile"}`, http.StatusInternalServerError)
		return
	}

	var update models.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}

	id := mux.Vars(r)["id"]
	b.mu.Lock()
	profile := b.Users[id]
	profile.UserID = id
	profile.DisplayName = update.DisplayName
	profile.Bio = update.Bio
	profile.Age = update.Age
	profile.Location = update.Location
	profile.TradingStyle = update.TradingStyle
	profile.ExperienceLevel = update.ExperienceLevel
	profile.FavoriteCoins = update.FavoriteCoins
	profile.PortfolioSize = update.PortfolioSize
	profile.LookingFor = update.LookingFor
	profile.ProfileComplete = update.ProfileComplete
	b.Users[id] = profile
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]interface{}{"message": "Profile updated successfully", "user": profile})
}

func (b *Backend) userStatus(w http.ResponseWriter, r *http.Request) {
	b.count(r.Method + " /api/user-status")
	id := mux.Vars(r)["id"]

	if r.Method == http.MethodPost {
		var status models.UserStatus
		if err := json.NewDecoder(r.Body).Decode(&status); err != nil {
			http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
			return
		}
		b.mu.Lock()
		profile := b.Users[id]
		profile.Status = status.Status
		b.Users[id] = profile
		b.mu.Unlock()
	}

	b.mu.Lock()
	status := b.Users[id].Status
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, models.UserStatus{UserID: id, Status: status})
}

func (b *Backend) discover(mode models.DiscoveryMode) http.HandlerFunc {
	route := "GET /api/discover"
	if mode == models.ModeAI {
		route = "GET /api/ai-matches"
	}
	return func(w http.ResponseWriter, r *http.Request) {
		b.count(route)
		b.mu.Lock()
		delay := b.DiscoverDelay
		b.mu.Unlock()
		if delay > 0 {
			time.Sleep(delay)
		}

		b.mu.Lock()
		page := []models.Candidate{}
		if queued := b.pages[mode]; len(queued) > 0 {
			page = queued[0]
			b.pages[mode] = queued[1:]
		}
		b.mu.Unlock()

		if mode == models.ModeAI {
			writeJSON(w, http.StatusOK, map[string]interface{}{"matches": page})
			return
		}
		writeJSON(w, http.StatusOK, page)
	}
}

func (b *Backend) swipe(w http.ResponseWriter, r *http.Request) {
	b.count("POST /api/swipe")
	var decision models.SwipeDecision
	if err := json.NewDecoder(r.Body).Decode(&decision); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}

	b.mu.Lock()
	b.swipes = append(b.swipes, decision)
	fail := b.FailSwipes
	matched := decision.Action == models.ActionLike && b.MatchOn[decision.TargetID]
	b.mu.Unlock()

	if fail {
		http.Error(w, `{"error": "Failed to record swipe"}`, http.StatusInternalServerError)
		return
	}

	result := models.SwipeResult{Matched: matched}
	if matched {
		result.MatchID = "match-" + decision.TargetID
	}
	writeJSON(w, http.StatusOK, result)
}

func (b *Backend) matches(w http.ResponseWriter, r *http.Request) {
	b.count("GET /api/matches")
	b.mu.Lock()
	list := append([]models.Match{}, b.Matches[mux.Vars(r)["id"]]...)
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]interface{}{"matches": list})
}

func (b *Backend) messages(w http.ResponseWriter, r *http.Request) {
	b.count("GET /api/messages")
	matchID := mux.Vars(r)["matchId"]

	b.mu.Lock()
	gate := b.messageGates[matchID]
	b.mu.Unlock()
	if gate != nil {
		<-gate
	}

	b.mu.Lock()
	list := append([]models.Message{}, b.Messages[matchID]...)
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, list)
}

func (b *Backend) upload(urlKey string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b.count("POST /api/" + strings.Split(r.URL.Path, "/")[2])
		file, header, err := r.FormFile("file")
		if err != nil {
			http.Error(w, `{"error": "file is required"}`, http.StatusBadRequest)
			return
		}
		defer file.Close()
		_, _ = io.Copy(io.Discard, file)

		writeJSON(w, http.StatusOK, map[string]string{
			urlKey: "https://cdn.example/" + mux.Vars(r)["id"] + "/" + header.Filename,
		})
	}
}

func (b *Backend) getSubscription(w http.ResponseWriter, r *http.Request) {
	b.count("GET /api/subscription")
	b.mu.Lock()
	sub, ok := b.Subscription[mux.Vars(r)["id"]]
	b.mu.Unlock()
	if !ok {
		sub = models.Subscription{Plan: models.PlanFree}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"subscription": sub})
}

func (b *Backend) upgrade(w http.ResponseWriter, r *http.Request) {
	b.count("POST /api/subscription/upgrade")
	var req struct {
		Plan string `json:"plan"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}

	id := mux.Vars(r)["id"]
	sub := models.Subscription{UserID: id, Plan: req.Plan, Features: []string{models.FeatureRewind}}
	b.mu.Lock()
	b.Subscription[id] = sub
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, sub)
}

func (b *Backend) publicProfile(w http.ResponseWriter, r *http.Request) {
	b.count("GET /api/public-profile")
	username := mux.Vars(r)["username"]

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, profile := range b.Users {
		if profile.Username == username {
			writeJSON(w, http.StatusOK, models.PublicProfile{UserProfile: profile})
			return
		}
	}
	http.Error(w, `{"error": "Profile not found"}`, http.StatusNotFound)
}

func (b *Backend) websocket(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["id"]
	ws, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	conn := &serverConn{Conn: ws}

	b.mu.Lock()
	if old, ok := b.conns[userID]; ok {
		_ = old.Close()
	}
	b.conns[userID] = conn
	b.mu.Unlock()

	select {
	case b.connSeen <- userID:
	default:
	}

	go b.readLoop(userID, conn)
}

func (b *Backend) readLoop(userID string, conn *serverConn) {
	defer func() {
		b.mu.Lock()
		if b.conns[userID] == conn {
			delete(b.conns, userID)
		}
		b.mu.Unlock()
		_ = conn.Close()
	}()

	for {
		var frame models.OutboundChatFrame
		if err := conn.ReadJSON(&frame); err != nil {
			return
		}

		b.mu.Lock()
		b.received = append(b.received, frame)
		echo := b.EchoChat
		b.mu.Unlock()

		if echo {
			_ = conn.writeJSON(map[string]interface{}{
				"type": models.FrameChatMessage,
				"message": models.Message{
					MessageID: uuid.NewString(),
					MatchID:   frame.MatchID,
					SenderID:  userID,
					Content:   frame.Content,
					Timestamp: time.Now().UTC().Format(time.RFC3339),
				},
			})
		}
	}
}

// serverConn serializes writes; gorilla allows one concurrent writer.
type serverConn struct {
	*websocket.Conn
	writeMu sync.Mutex
}

func (c *serverConn) writeJSON(v interface{}) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.Conn.WriteJSON(v)
}
