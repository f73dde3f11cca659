package stream

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
	logger "github.com/sirupsen/logrus"
)

// State is the ticker connection state, readable from any goroutine.
type State string

const (
	StateDisconnected     State = "disconnected"
	StateConnecting       State = "connecting"
	StateStreaming        State = "streaming"
	StateReconnectPending State = "reconnect_pending"
)

const (
	defaultStreamBaseURL  = "wss://stream.binance.com:9443/ws"
	defaultReconnectDelay = 5 * time.Second
)

// tradeEvent is the slice of the trade payload the client cares about. The
// price travels as a numeric string on the wire.
type tradeEvent struct {
	Price string `json:"p"`
}

// TickerClient maintains a live last-trade price for exactly one symbol at a
// time. A lost stream reconnects after a fixed delay to the last explicitly
// requested symbol; an explicit Disconnect stops all reconnect attempts.
type TickerClient struct {
	baseURL string
	log     *logger.Entry

	mu             sync.RWMutex
	symbol         string
	state          State
	price          decimal.Decimal
	conn           *websocket.Conn
	reconnectTimer *time.Timer
	reconnectDelay time.Duration
	gen            uint64 // bumped on every Connect/Disconnect/reconnect handoff
}

func NewTickerClient(baseURL string) *TickerClient {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultStreamBaseURL
	}
	return &TickerClient{
		baseURL:        strings.TrimRight(baseURL, "/"),
		state:          StateDisconnected,
		reconnectDelay: defaultReconnectDelay,
		log:            logger.WithField("component", "ticker"),
	}
}

// SetReconnectDelay overrides the pause before a reconnect attempt.
func (c *TickerClient) SetReconnectDelay(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if d > 0 {
		c.reconnectDelay = d
	}
}

// Connect replaces any active stream with a subscription to the symbol's
// trade channel. At most one stream is active per client.
func (c *TickerClient) Connect(symbol string) error {
	c.mu.Lock()
	c.teardownLocked()
	c.symbol = strings.ToUpper(strings.TrimSpace(symbol))
	c.state = StateConnecting
	gen := c.gen
	sym := c.symbol
	c.mu.Unlock()

	return c.dial(gen, sym)
}

// Disconnect cancels the active stream and any pending reconnect. No further
// reconnect attempts occur until the next Connect.
func (c *TickerClient) Disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.teardownLocked()
	c.state = StateDisconnected
}

// Price returns the most recently published trade price. Zero until the
// first trade arrives.
func (c *TickerClient) Price() decimal.Decimal {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.price
}

func (c *TickerClient) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Symbol returns the last explicitly requested symbol.
func (c *TickerClient) Symbol() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.symbol
}

// teardownLocked invalidates the running read loop and timers. Callers hold
// c.mu.
func (c *TickerClient) teardownLocked() {
	c.gen++
	if c.reconnectTimer != nil {
		c.reconnectTimer.Stop()
		c.reconnectTimer = nil
	}
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
}

func (c *TickerClient) streamURL(symbol string) string {
	return fmt.Sprintf("%s/%susdt@trade", c.baseURL, strings.ToLower(symbol))
}

func (c *TickerClient) dial(gen uint64, symbol string) error {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}

	conn, resp, err := dialer.Dial(c.streamURL(symbol), nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		c.log.WithError(err).WithField("symbol", symbol).Error("stream dial failed")
		c.scheduleReconnect(gen)
		return fmt.Errorf("dial trade stream for %s: %w", symbol, err)
	}

	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		_ = conn.Close()
		return nil
	}
	c.conn = conn
	c.mu.Unlock()

	go c.readLoop(gen, conn)
	return nil
}

func (c *TickerClient) readLoop(gen uint64, conn *websocket.Conn) {
	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			c.mu.Lock()
			if gen != c.gen {
				// Replaced or explicitly disconnected, someone else owns the
				// state now.
				c.mu.Unlock()
				return
			}
			c.conn = nil
			c.mu.Unlock()

			c.log.WithError(err).Warn("trade stream closed, scheduling reconnect")
			c.scheduleReconnect(gen)
			return
		}

		var ev tradeEvent
		if err := json.Unmarshal(payload, &ev); err != nil {
			// Malformed frames are dropped, the stream stays up.
			continue
		}
		price, err := decimal.NewFromString(ev.Price)
		if err != nil {
			continue
		}

		c.mu.Lock()
		if gen != c.gen {
			c.mu.Unlock()
			return
		}
		c.price = price
		c.state = StateStreaming
		c.mu.Unlock()
	}
}

// scheduleReconnect arms a one-shot timer that redials the last requested
// symbol after the reconnect delay.
func (c *TickerClient) scheduleReconnect(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen {
		return
	}

	c.state = StateReconnectPending
	c.gen++
	next := c.gen
	symbol := c.symbol

	c.reconnectTimer = time.AfterFunc(c.reconnectDelay, func() {
		c.mu.Lock()
		if next != c.gen {
			c.mu.Unlock()
			return
		}
		c.state = StateConnecting
		c.reconnectTimer = nil
		c.mu.Unlock()

		_ = c.dial(next, symbol)
	})
}
