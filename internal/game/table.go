package game

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/tablestakes/internal/chips"
	"github.com/lox/tablestakes/poker"
)

// Deferred transition delays. Streets settle briefly before advancing so
// observers can see the closing action; all-in run-outs step one street at
// a time; reveals linger before the next deal.
const (
	settleDelay   = 600 * time.Millisecond
	runOutDelay   = time.Second
	revealDelay   = 3 * time.Second
	showdownDelay = 5 * time.Second
	muckWindow    = 5 * time.Second
)

var aiNames = []string{
	"Alex (AI)", "Mia (AI)", "Noah (AI)", "Zara (AI)",
	"Omar (AI)", "Ivy (AI)", "Kai (AI)", "Liam (AI)", "Sofia (AI)",
}

// Table owns the authoritative state of one cash game. All mutation goes
// through its methods under a single lock; observers only ever see
// snapshots. Timer and agent callbacks capture the action sequence number
// current when they were scheduled and abandon themselves if the state
// has moved on by the time they fire.
type Table struct {
	mu    sync.Mutex
	log   *log.Logger
	clock quartz.Clock
	rng   *rand.Rand

	roomID   string
	hostID   string
	stage    Stage
	settings Settings

	players   []*Player
	community []poker.Card
	pots      []Pot
	deck      *poker.Deck

	currentTurnID   string
	lastActionID    string
	dealerIndex     int // rotation position over funded seated players
	dealerSeat      int // seat index of the current dealer
	minRaise        chips.Amount
	lastRaiseAmount chips.Amount

	actionStartedAt  time.Time
	lastStreetAction string

	muckChoiceID  string
	muckRevealing bool
	muckStartedAt time.Time

	chat    []ChatMessage
	pending []FinancialRequest

	// actionSeq increments on every transition that invalidates pending
	// timers and in-flight agent decisions.
	actionSeq uint64

	agents  map[string]Agent
	subs    map[uint64]chan *Snapshot
	nextSub uint64
	closed  bool

	newDeck func() *poker.Deck
}

// Option configures a Table.
type Option func(*Table)

// WithLogger sets the table's logger.
func WithLogger(logger *log.Logger) Option {
	return func(t *Table) { t.log = logger }
}

// WithClock sets the clock used for all deferred transitions. Tests pass
// a mock to drive timeouts deterministically.
func WithClock(clock quartz.Clock) Option {
	return func(t *Table) { t.clock = clock }
}

// WithRNG sets the shuffle and ID source.
func WithRNG(rng *rand.Rand) Option {
	return func(t *Table) { t.rng = rng }
}

// WithSettings overrides the default table settings.
func WithSettings(s Settings) Option {
	return func(t *Table) { t.settings = s }
}

// WithDeckFunc overrides how each hand's deck is built. For deterministic
// tests with stacked decks.
func WithDeckFunc(f func() *poker.Deck) Option {
	return func(t *Table) { t.newDeck = f }
}

// NewTable creates an empty table in the lobby.
func NewTable(roomID string, opts ...Option) *Table {
	t := &Table{
		roomID:   roomID,
		stage:    StageLobby,
		settings: DefaultSettings(),
		agents:   make(map[string]Agent),
		subs:     make(map[uint64]chan *Snapshot),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.log == nil {
		t.log = log.New(nil)
	}
	if t.clock == nil {
		t.clock = quartz.NewReal()
	}
	if t.rng == nil {
		t.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if t.newDeck == nil {
		t.newDeck = func() *poker.Deck { return poker.NewDeck(t.rng) }
	}
	return t
}

// Subscribe registers an observer. Every state change delivers a fresh
// snapshot; slow observers miss updates rather than block the table. The
// returned func cancels the subscription.
func (t *Table) Subscribe(buffer int) (<-chan *Snapshot, func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	id := t.nextSub
	t.nextSub++
	ch := make(chan *Snapshot, buffer)
	t.subs[id] = ch

	cancel := func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		if _, ok := t.subs[id]; ok {
			delete(t.subs, id)
			close(ch)
		}
	}
	return ch, cancel
}

// Snapshot returns an immutable copy of the current state.
func (t *Table) Snapshot() *Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

// Close cancels all subscriptions and invalidates pending timers.
func (t *Table) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	t.closed = true
	t.actionSeq++
	for id, ch := range t.subs {
		delete(t.subs, id)
		close(ch)
	}
}

func (t *Table) broadcastLocked() {
	if t.closed || len(t.subs) == 0 {
		return
	}
	snap := t.snapshotLocked()
	for _, ch := range t.subs {
		select {
		case ch <- snap:
		default:
		}
	}
}

// JoinRoom seats a new player or reconnects a returning one. The first
// non-spectator to join becomes host. When no seat is free the player
// joins as a spectator.
func (t *Table) JoinRoom(name, playerID string, isSpectator bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if p := t.playerByIDLocked(playerID); p != nil {
		p.IsConnected = true
		p.IsSpectator = isSpectator
		t.log.Info("player reconnected", "player", p.Name, "id", playerID)
		t.broadcastLocked()
		return
	}

	seat := t.nextAvailableSeatLocked()
	if seat < 0 {
		isSpectator = true
	}
	if t.hostID == "" && !isSpectator {
		t.hostID = playerID
	}

	var stack chips.Amount
	if !isSpectator {
		stack = t.settings.StartingStack
	}
	t.players = append(t.players, &Player{
		ID:          playerID,
		Name:        name,
		Chips:       stack,
		TotalBuyIn:  stack,
		IsSpectator: isSpectator,
		IsConnected: true,
		SeatIndex:   seat,
	})

	t.log.Info("player joined", "player", name, "seat", seat, "spectator", isSpectator)
	t.logSystemLocked(fmt.Sprintf(">>> %s joined.", name))
	t.broadcastLocked()
}

// SetConnected marks a player connected or disconnected without removing
// them; a disconnected player's chips stay on the table and their seat is
// held for reconnect.
func (t *Table) SetConnected(playerID string, connected bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	p := t.playerByIDLocked(playerID)
	if p == nil {
		return
	}
	p.IsConnected = connected
	t.log.Info("player connection changed", "player", p.Name, "connected", connected)
	t.broadcastLocked()
}

// SetReady toggles a player's ready flag.
func (t *Table) SetReady(playerID string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	p := t.playerByIDLocked(playerID)
	if p == nil {
		return
	}
	p.IsReady = !p.IsReady
	t.broadcastLocked()
}

// SetAgent installs the decision policy for an automated player.
func (t *Table) SetAgent(playerID string, agent Agent) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if agent == nil {
		delete(t.agents, playerID)
		return
	}
	t.agents[playerID] = agent
}

// UpdateSettings applies a host-only, lobby-only settings change. Every
// seated player is re-staked to the new starting stack.
func (t *Table) UpdateSettings(playerID string, patch SettingsPatch) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if playerID != t.hostID {
		return fmt.Errorf("only the host can change settings")
	}
	if t.stage != StageLobby {
		return fmt.Errorf("settings can only change in the lobby")
	}

	t.settings = t.settings.apply(patch)
	for _, p := range t.players {
		if !p.IsSpectator {
			p.Chips = t.settings.StartingStack
			p.TotalBuyIn = t.settings.StartingStack
		}
	}

	t.log.Info("settings updated",
		"smallBlind", t.settings.SmallBlind,
		"bigBlind", t.settings.BigBlind,
		"startingStack", t.settings.StartingStack)
	t.broadcastLocked()
	return nil
}

// FillAIs seats rule-driven players in every empty seat, ready to play.
func (t *Table) FillAIs() {
	t.mu.Lock()
	defer t.mu.Unlock()

	var seated int
	for _, p := range t.players {
		if !p.IsSpectator {
			seated++
		}
	}

	for i := 0; seated < t.settings.MaxPlayers; i++ {
		seat := t.nextAvailableSeatLocked()
		if seat < 0 {
			break
		}
		name := fmt.Sprintf("Bot %d", i)
		if i < len(aiNames) {
			name = aiNames[i]
		}
		id := "ai-" + t.newIDLocked()
		t.players = append(t.players, &Player{
			ID:          id,
			Name:        name,
			Chips:       t.settings.StartingStack,
			TotalBuyIn:  t.settings.StartingStack,
			IsReady:     true,
			IsConnected: true,
			IsAI:        true,
			SeatIndex:   seat,
		})
		t.agents[id] = RuleAgent{}
		seated++
	}
	t.broadcastLocked()
}

// SendChat appends a chat message. A senderID of "system" marks it as a
// system log entry.
func (t *Table) SendChat(senderID, senderName, text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.appendChatLocked(senderID, senderName, text)
	t.broadcastLocked()
}

// Reset discards all state and returns the table to an empty lobby.
func (t *Table) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.actionSeq++
	t.stage = StageLobby
	t.settings = DefaultSettings()
	t.players = nil
	t.community = nil
	t.pots = nil
	t.deck = nil
	t.hostID = ""
	t.currentTurnID = ""
	t.lastActionID = ""
	t.dealerIndex = 0
	t.dealerSeat = 0
	t.minRaise = 0
	t.lastRaiseAmount = 0
	t.actionStartedAt = time.Time{}
	t.lastStreetAction = ""
	t.muckChoiceID = ""
	t.muckRevealing = false
	t.muckStartedAt = time.Time{}
	t.chat = nil
	t.pending = nil
	t.agents = make(map[string]Agent)

	t.log.Info("table reset", "room", t.roomID)
	t.broadcastLocked()
}

func (t *Table) playerByIDLocked(id string) *Player {
	for _, p := range t.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (t *Table) nextAvailableSeatLocked() int {
	taken := make(map[int]bool, len(t.players))
	for _, p := range t.players {
		taken[p.SeatIndex] = true
	}
	for i := 0; i < t.settings.MaxPlayers; i++ {
		if !taken[i] {
			return i
		}
	}
	return -1
}

func (t *Table) newIDLocked() string {
	const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	b := make([]byte, 9)
	for i := range b {
		b[i] = alphabet[t.rng.Intn(len(alphabet))]
	}
	return string(b)
}

func (t *Table) appendChatLocked(senderID, senderName, text string) {
	isSystem := senderID == "system"
	if isSystem {
		senderName = "INTEL"
	}
	t.chat = append(t.chat, ChatMessage{
		ID:         t.newIDLocked(),
		SenderName: senderName,
		Text:       text,
		At:         t.clock.Now(),
		IsSystem:   isSystem,
	})
}

func (t *Table) logSystemLocked(text string) {
	t.appendChatLocked("system", "", text)
}
