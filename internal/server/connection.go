package server

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/lox/tablestakes/internal/game"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192
)

var ErrConnectionClosed = websocket.ErrCloseSent

// Connection represents a WebSocket connection to a client.
type Connection struct {
	conn        *websocket.Conn
	send        chan *ServerMessage
	playerID    string
	playerName  string
	table       *game.Table
	unsubscribe func()
	logger      *log.Logger
	ctx         context.Context
	cancel      context.CancelFunc
	mu          sync.RWMutex
	closeOnce   sync.Once
}

// NewConnection creates a new connection wrapper bound to a table.
func NewConnection(conn *websocket.Conn, logger *log.Logger, table *game.Table) *Connection {
	ctx, cancel := context.WithCancel(context.Background())

	return &Connection{
		conn:   conn,
		send:   make(chan *ServerMessage, 256),
		logger: logger.WithPrefix("conn"),
		ctx:    ctx,
		cancel: cancel,
		table:  table,
	}
}

// Start begins handling the connection
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Close closes the connection and marks the player disconnected. The
// player's seat and chips are held for reconnect.
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		close(c.send)
		err = c.conn.Close()

		c.mu.Lock()
		unsub := c.unsubscribe
		c.unsubscribe = nil
		playerID := c.playerID
		c.mu.Unlock()

		if unsub != nil {
			unsub()
		}
		if playerID != "" {
			c.table.SetConnected(playerID, false)
		}
	})
	return err
}

// SendMessage sends a message to the client
func (c *Connection) SendMessage(msg *ServerMessage) error {
	defer func() {
		if r := recover(); r != nil {
			// Channel was closed, this is expected during shutdown
			c.logger.Debug("Attempted to send message on closed connection", "error", r)
		}
	}()

	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return c.ctx.Err()
	default:
		c.logger.Warn("Connection send buffer full, closing connection")
		_ = c.Close()
		return ErrConnectionClosed
	}
}

// GetPlayer returns the associated player ID
func (c *Connection) GetPlayer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.playerID
}

func (c *Connection) setPlayer(playerID, name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playerID = playerID
	c.playerName = name
}

func (c *Connection) getPlayerName() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.playerName
}

// readPump handles incoming messages from the client
func (c *Connection) readPump() {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		var msg ClientMessage
		err := c.conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			break
		}

		c.handleMessage(&msg)
	}
}

// writePump handles outgoing messages to the client
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

// handleMessage processes incoming messages from the client
func (c *Connection) handleMessage(msg *ClientMessage) {
	c.logger.Debug("Received message", "type", msg.Type, "player", c.GetPlayer())

	if msg.Type == MessageTypeJoin {
		c.handleJoin(msg)
		return
	}

	playerID := c.GetPlayer()
	if playerID == "" {
		c.sendError("Must join the room first")
		return
	}

	switch msg.Type {
	case MessageTypeReady:
		c.table.SetReady(playerID)

	case MessageTypeStart:
		if err := c.table.StartHand(); err != nil {
			c.sendError(err.Error())
		}

	case MessageTypeSettings:
		if msg.Settings == nil {
			c.sendError("Missing settings payload")
			return
		}
		if err := c.table.UpdateSettings(playerID, *msg.Settings); err != nil {
			c.sendError(err.Error())
		}

	case MessageTypeAction:
		c.table.SubmitAction(playerID, msg.Action, msg.Amount)

	case MessageTypeMuck:
		c.table.SubmitMuckChoice(playerID, msg.Show)

	case MessageTypeRevealFold:
		c.table.RevealFoldedHand(playerID)

	case MessageTypeChat:
		c.table.SendChat(playerID, c.getPlayerName(), msg.Text)

	case MessageTypeRequestFunds:
		if err := c.table.RequestFunds(playerID, msg.RequestType, msg.Amount); err != nil {
			c.sendError(err.Error())
		}

	case MessageTypeResolveRequest:
		if err := c.table.ResolveRequest(playerID, msg.RequestID, msg.Approved); err != nil {
			c.sendError(err.Error())
		}

	case MessageTypeFillAIs:
		c.table.FillAIs()

	case MessageTypeReset:
		c.table.Reset()

	default:
		c.sendError("Unknown message type: " + msg.Type)
	}
}

func (c *Connection) handleJoin(msg *ClientMessage) {
	if msg.PlayerID == "" || msg.Name == "" {
		c.sendError("Player id and name required")
		return
	}

	c.setPlayer(msg.PlayerID, msg.Name)

	// Subscribe before joining so the join broadcast reaches this client.
	c.mu.Lock()
	if c.unsubscribe == nil {
		snapshots, cancel := c.table.Subscribe(64)
		c.unsubscribe = cancel
		go c.forwardSnapshots(snapshots)
	}
	c.mu.Unlock()

	c.table.JoinRoom(msg.Name, msg.PlayerID, msg.IsSpectator)
}

func (c *Connection) forwardSnapshots(snapshots <-chan *game.Snapshot) {
	for {
		select {
		case snap, ok := <-snapshots:
			if !ok {
				return
			}
			_ = c.SendMessage(stateMessage(snap))
		case <-c.ctx.Done():
			return
		}
	}
}

// sendError sends an error message to the client
func (c *Connection) sendError(text string) {
	_ = c.SendMessage(errorMessage(text))
}
