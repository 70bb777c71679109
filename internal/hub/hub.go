// Package hub coordinates websocket sessions around one table. A
// single goroutine owns every table mutation; connections, timers and
// HTTP handlers only submit events to it.
package hub

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"

	"dragonspoker/holdem"
	"dragonspoker/internal/allowlist"
	"dragonspoker/internal/earnings"
)

// Config carries the pacing knobs. Zero values get the live defaults.
type Config struct {
	// HandDelay separates a manual start request from the deal.
	HandDelay time.Duration
	// RunoutDelay paces board streets once betting is over.
	RunoutDelay time.Duration
	// LeaveGrace holds a seat after leaveTable or a dropped socket.
	LeaveGrace time.Duration
	// GaugeTimeout force-finishes the settlement barrier.
	GaugeTimeout time.Duration

	AllowedOrigins []string
}

func (c Config) withDefaults() Config {
	if c.HandDelay == 0 {
		c.HandDelay = time.Second
	}
	if c.RunoutDelay == 0 {
		c.RunoutDelay = 1600 * time.Millisecond
	}
	if c.LeaveGrace == 0 {
		c.LeaveGrace = 30 * time.Second
	}
	if c.GaugeTimeout == 0 {
		c.GaugeTimeout = 30 * time.Second
	}
	return c
}

const tickInterval = 250 * time.Millisecond

type eventKind int

const (
	evConnect eventKind = iota
	evDisconnect
	evMessage
)

type event struct {
	kind eventKind
	conn *Conn
	env  Envelope
}

type Hub struct {
	cfg   Config
	log   *log.Logger
	clock quartz.Clock

	table *holdem.Table
	store earnings.Store
	allow allowlist.Store

	upgrader websocket.Upgrader

	events chan event
	done   chan struct{}

	conns map[*Conn]struct{}

	// Deadlines, all actor-owned and re-checked for liveness on fire.
	leaveAt      map[string]time.Time
	disconnectAt map[string]time.Time
	runoutAt     time.Time
	handStartAt  time.Time

	barrierArmed  bool
	gaugeReady    map[string]struct{}
	gaugeDeadline time.Time
}

func New(cfg Config, table *holdem.Table, store earnings.Store, allow allowlist.Store, logger *log.Logger, clock quartz.Clock) *Hub {
	cfg = cfg.withDefaults()
	h := &Hub{
		cfg:          cfg,
		log:          logger.WithPrefix("hub"),
		clock:        clock,
		table:        table,
		store:        store,
		allow:        allow,
		events:       make(chan event, 256),
		done:         make(chan struct{}),
		conns:        map[*Conn]struct{}{},
		leaveAt:      map[string]time.Time{},
		disconnectAt: map[string]time.Time{},
		gaugeReady:   map[string]struct{}{},
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     originChecker(cfg.AllowedOrigins),
	}
	return h
}

func originChecker(allowed []string) func(*http.Request) bool {
	open := len(allowed) == 0
	set := map[string]struct{}{}
	for _, o := range allowed {
		if o == "*" {
			open = true
		}
		set[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		if open {
			return true
		}
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}

// Run is the actor loop. It returns when ctx is done.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	ticker := h.clock.NewTicker(tickInterval, "hub")
	defer ticker.Stop()

	h.log.Info("hub running", "table", h.table.Config().TableID)
	for {
		select {
		case <-ctx.Done():
			for c := range h.conns {
				h.dropConn(c)
			}
			return
		case ev := <-h.events:
			h.handleEvent(ev)
		case <-ticker.C:
			h.tick(h.clock.Now())
		}
	}
}

// HandleWS upgrades a client and hands it to the actor.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("upgrade failed", "err", err)
		return
	}
	c := newConn(h, ws)
	go c.writePump()
	go c.readPump()
	h.submit(event{kind: evConnect, conn: c})
}

func (h *Hub) submit(ev event) {
	select {
	case h.events <- ev:
	case <-h.done:
	}
}

// handleEvent dispatches one event. A panic in a mutation aborts the
// hand instead of wedging the table mid-street.
func (h *Hub) handleEvent(ev event) {
	defer func() {
		if r := recover(); r != nil {
			h.log.Error("recovered from event panic", "panic", r, "type", ev.env.Type)
			h.table.AbortHand()
			h.clearSchedules()
			h.broadcastState(MsgTableState)
		}
	}()

	switch ev.kind {
	case evConnect:
		h.conns[ev.conn] = struct{}{}
		h.sendState(ev.conn, MsgTableState)
	case evDisconnect:
		h.handleConnGone(ev.conn)
	case evMessage:
		h.handleMessage(ev.conn, ev.env)
	}
}

func (h *Hub) handleConnGone(c *Conn) {
	if _, ok := h.conns[c]; !ok {
		return
	}
	h.dropConn(c)
	pid := c.playerID
	if pid == "" || h.connected(pid) || !h.table.HasPlayer(pid) {
		return
	}
	h.disconnectAt[pid] = h.clock.Now().Add(h.cfg.LeaveGrace)
	h.log.Info("player disconnected, grace started", "player", pid)
	h.broadcastState(MsgTableState)
}

func (h *Hub) dropConn(c *Conn) {
	if _, ok := h.conns[c]; !ok {
		return
	}
	delete(h.conns, c)
	c.closeSend()
	c.closeSocket()
}

func (h *Hub) handleMessage(c *Conn, env Envelope) {
	switch env.Type {
	case MsgJoinTable:
		h.onJoinTable(c, env)
	case MsgReserveSeat:
		h.onReserveSeat(c, env)
	case MsgLeaveTable:
		h.onLeaveTable(c, env)
	case MsgLeaveAfterHand:
		if h.table.MarkLeaveAfterHand(h.playerFrom(c, env)) {
			h.broadcastState(MsgTableState)
		}
	case MsgCancelLeaveAfterHand:
		if h.table.CancelLeaveAfterHand(h.playerFrom(c, env)) {
			h.broadcastState(MsgTableState)
		}
	case MsgAction:
		h.onAction(c, env)
	case MsgGaugeComplete:
		h.onGaugeComplete(c, env)
	case MsgRevealHand:
		if h.table.RecordHandReveal(h.playerFrom(c, env)) {
			h.broadcastState(MsgTableState)
		}
	case MsgSyncState:
		h.sendState(c, MsgTableState)
	case MsgHeartbeat:
		// keepalive only
	case MsgStartHand:
		h.onStartHand()
	case MsgResetTable:
		h.table.Reset()
		h.clearSchedules()
		h.broadcastState(MsgTableState)
	default:
		h.sendErrorTo(c, "unknown message type")
	}
}

func (h *Hub) onJoinTable(c *Conn, env Envelope) {
	var p JoinPayload
	if err := decode(env, &p); err != nil || p.PlayerID == "" || p.Name == "" {
		h.sendErrorTo(c, "joinTable requires player_id and name")
		return
	}
	if !h.seatAllowed(p.PlayerID) {
		h.sendErrorTo(c, "player is not on the allow list")
		return
	}
	c.playerID = p.PlayerID
	delete(h.leaveAt, p.PlayerID)
	delete(h.disconnectAt, p.PlayerID)
	h.table.SetAutoPlay(p.PlayerID, false)
	if h.table.HasPlayer(p.PlayerID) {
		if _, err := h.table.Join(p.PlayerID, p.Name); err != nil {
			h.sendErrorTo(c, err.Error())
			return
		}
	}
	h.broadcastState(MsgTableState)
}

func (h *Hub) onReserveSeat(c *Conn, env Envelope) {
	var p ReserveSeatPayload
	if err := decode(env, &p); err != nil || p.PlayerID == "" {
		h.sendErrorTo(c, "reserveSeat requires player_id")
		return
	}
	if !h.seatAllowed(p.PlayerID) {
		h.sendErrorTo(c, "player is not on the allow list")
		return
	}
	if _, err := h.table.ReserveSeat(p.PlayerID, p.Name, p.SeatIndex); err != nil {
		h.sendErrorTo(c, err.Error())
		return
	}
	c.playerID = p.PlayerID
	h.broadcastState(MsgTableState)
}

func (h *Hub) onLeaveTable(c *Conn, env Envelope) {
	pid := h.playerFrom(c, env)
	if pid == "" || !h.table.HasPlayer(pid) {
		return
	}
	h.leaveAt[pid] = h.clock.Now().Add(h.cfg.LeaveGrace)
	h.log.Info("leave requested, grace started", "player", pid)
}

func (h *Hub) onAction(c *Conn, env Envelope) {
	var p ActionPayload
	if err := decode(env, &p); err != nil {
		h.sendErrorTo(c, "malformed action")
		return
	}
	if p.PlayerID == "" {
		p.PlayerID = c.playerID
	}
	action, err := holdem.ParseActionType(p.Action)
	if err != nil {
		h.sendErrorTo(c, err.Error())
		return
	}
	rec, err := h.table.Apply(p.PlayerID, action, p.Amount)
	if err != nil {
		h.sendErrorTo(c, err.Error())
		return
	}
	h.broadcast(MsgActionApplied, ActionAppliedPayload{
		Seat:   rec.Seat,
		Action: rec.Action,
		Amount: rec.Amount,
		Street: rec.Street,
	})
	h.broadcastState(MsgTableState)
	h.afterMutation()
}

func (h *Hub) onGaugeComplete(c *Conn, env Envelope) {
	if !h.barrierArmed {
		return
	}
	pid := h.playerFrom(c, env)
	if pid == "" {
		return
	}
	h.gaugeReady[pid] = struct{}{}
	h.checkGauge()
}

func (h *Hub) onStartHand() {
	if h.table.Street() != holdem.StreetWaiting || h.table.OccupiedCount() < 2 {
		return
	}
	if h.handStartAt.IsZero() {
		h.handStartAt = h.clock.Now().Add(h.cfg.HandDelay)
	}
}

// tick fires due deadlines. Every timer re-checks liveness: a player
// who came back in the meantime is left alone.
func (h *Hub) tick(now time.Time) {
	for pid, at := range h.leaveAt {
		if now.Before(at) {
			continue
		}
		delete(h.leaveAt, pid)
		if h.connected(pid) {
			// Came back before the grace ran out: keep the seat.
			continue
		}
		if h.table.Leave(pid) {
			h.log.Info("leave grace expired", "player", pid)
			h.broadcastState(MsgTableState)
			h.afterMutation()
		}
	}
	for pid, at := range h.disconnectAt {
		if now.Before(at) {
			continue
		}
		delete(h.disconnectAt, pid)
		if h.connected(pid) || !h.table.HasPlayer(pid) {
			continue
		}
		h.table.SetAutoPlay(pid, true)
		h.log.Info("disconnect grace expired, auto-play on", "player", pid)
		h.afterMutation()
	}

	if !h.runoutAt.IsZero() && !now.Before(h.runoutAt) {
		h.runoutAt = time.Time{}
		if h.table.AdvanceAutoRunout() {
			h.broadcastState(MsgTableState)
		}
		h.afterMutation()
	}

	if h.barrierArmed && !now.Before(h.gaugeDeadline) {
		h.log.Info("settlement gauge timed out")
		h.finishSettlement()
	}

	if !h.handStartAt.IsZero() && !now.Before(h.handStartAt) {
		h.handStartAt = time.Time{}
		if h.table.Street() == holdem.StreetWaiting && h.table.OccupiedCount() >= 2 {
			h.table.StartNewHand()
			h.broadcastState(MsgHandState)
			h.afterMutation()
		}
	}
}

// afterMutation runs after every table mutation: it forces any
// auto-play seats now holding the turn, then schedules whatever the
// new state implies, the next runout street or the settlement barrier.
func (h *Hub) afterMutation() {
	if h.table.ApplyAutoPlay() > 0 {
		h.broadcastState(MsgTableState)
	}
	if h.table.ShouldAutoRunout() {
		if h.runoutAt.IsZero() {
			h.runoutAt = h.clock.Now().Add(h.cfg.RunoutDelay)
		}
		return
	}
	h.runoutAt = time.Time{}
	if h.table.Street() != holdem.StreetSettlement || h.barrierArmed {
		return
	}
	if h.table.OccupiedCount() < 2 {
		// Nobody to wait for: finalize and park the table.
		h.finishSettlement()
		return
	}
	h.barrierArmed = true
	h.gaugeReady = map[string]struct{}{}
	h.gaugeDeadline = h.clock.Now().Add(h.cfg.GaugeTimeout)
}

// checkGauge completes the barrier once every connected seated player
// has voted. An empty electorate waits for the timeout instead.
func (h *Hub) checkGauge() {
	required := h.connectedSeatedPlayers()
	if len(required) == 0 {
		return
	}
	for pid := range required {
		if _, ok := h.gaugeReady[pid]; !ok {
			return
		}
	}
	h.finishSettlement()
}

// finishSettlement flushes earnings, applies payouts, finalizes
// departures and deals the next hand.
func (h *Hub) finishSettlement() {
	h.barrierArmed = false
	h.gaugeReady = map[string]struct{}{}
	h.gaugeDeadline = time.Time{}

	if updates := h.table.BuildEarningsUpdates(); len(updates) > 0 && h.store.Enabled() {
		go h.flushEarnings(updates)
	}
	h.table.ApplyPendingPayouts()
	h.table.FinalizePendingLeaves()
	h.table.FinalizeLeaveAfterHand()
	h.table.StartNewHand()
	h.broadcastState(MsgHandState)
	h.afterMutation()
}

func (h *Hub) flushEarnings(updates []holdem.EarningsUpdate) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	out := make([]earnings.Update, len(updates))
	for i, u := range updates {
		out[i] = earnings.Update{
			Email:          u.Email,
			Hands:          u.Hands,
			ChipsDelta:     u.ChipsDelta,
			Hands6992:      u.Hands6992,
			ChipsDelta6992: u.ChipsDelta6992,
		}
	}
	if err := h.store.ApplyUpdates(ctx, out); err != nil {
		h.log.Error("earnings flush failed", "err", err, "players", len(out))
	}
}

func (h *Hub) clearSchedules() {
	h.runoutAt = time.Time{}
	h.handStartAt = time.Time{}
	h.barrierArmed = false
	h.gaugeReady = map[string]struct{}{}
	h.gaugeDeadline = time.Time{}
	for pid := range h.leaveAt {
		delete(h.leaveAt, pid)
	}
	for pid := range h.disconnectAt {
		delete(h.disconnectAt, pid)
	}
}

// seatAllowed consults the allow list; failures fail open so a dead
// config source cannot lock the table.
func (h *Hub) seatAllowed(playerID string) bool {
	if h.allow == nil {
		return true
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	allowed, err := h.allow.AllowedEmails(ctx)
	if err != nil {
		h.log.Warn("allowlist lookup failed, allowing", "err", err)
		return true
	}
	if len(allowed) == 0 {
		return true
	}
	_, ok := allowed[normalizeID(playerID)]
	return ok
}

func (h *Hub) playerFrom(c *Conn, env Envelope) string {
	var p PlayerPayload
	if err := decode(env, &p); err == nil && p.PlayerID != "" {
		return p.PlayerID
	}
	return c.playerID
}

func (h *Hub) connected(playerID string) bool {
	for c := range h.conns {
		if c.playerID == playerID {
			return true
		}
	}
	return false
}

func (h *Hub) connectedSet() map[string]bool {
	out := map[string]bool{}
	for c := range h.conns {
		if c.playerID != "" {
			out[c.playerID] = true
		}
	}
	return out
}

func (h *Hub) connectedSeatedPlayers() map[string]struct{} {
	out := map[string]struct{}{}
	for c := range h.conns {
		if c.playerID != "" && h.table.HasPlayer(c.playerID) {
			out[c.playerID] = struct{}{}
		}
	}
	return out
}

// broadcastState renders the table once and fans it out.
func (h *Hub) broadcastState(msgType string) {
	h.broadcast(msgType, h.table.ToState(h.connectedSet()))
}

func (h *Hub) broadcast(msgType string, payload any) {
	data, err := encode(msgType, payload)
	if err != nil {
		h.log.Error("encode failed", "type", msgType, "err", err)
		return
	}
	for c := range h.conns {
		if !c.enqueue(data) {
			c.log.Warn("send buffer full, dropping connection")
			h.dropConn(c)
		}
	}
}

func (h *Hub) sendState(c *Conn, msgType string) {
	data, err := encode(msgType, h.table.ToState(h.connectedSet()))
	if err != nil {
		return
	}
	if !c.enqueue(data) {
		h.dropConn(c)
	}
}

func (h *Hub) sendErrorTo(c *Conn, msg string) {
	data, err := encode(MsgError, ErrorPayload{Message: msg})
	if err != nil {
		return
	}
	if !c.enqueue(data) {
		h.dropConn(c)
	}
}

func decode(env Envelope, out any) error {
	if len(env.Payload) == 0 {
		return nil
	}
	return json.Unmarshal(env.Payload, out)
}

func normalizeID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}
