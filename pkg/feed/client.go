package feed

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/betbot/volarb/pkg/sigchan"
)

var log = logrus.WithField("component", "feed")

// DefaultURL Polymarket 行情订阅地址
const DefaultURL = "wss://ws-subscriptions-clob.polymarket.com/ws/market"

const (
	handshakeTimeout = 30 * time.Second
	pingInterval     = 10 * time.Second
	readTimeout      = 30 * time.Second
	dialAttempts     = 3
	reconnectDelay   = 5 * time.Second
)

// QuoteHandler 报价更新回调（在读循环 goroutine 内调用，必须快速返回）
type QuoteHandler func(assetID string, q Quote)

// Client 行情 WebSocket 客户端。
// 连接断开后信号驱动重连；收到的 price_change 写入 Store 并触发回调。
type Client struct {
	url      string
	assetIDs []string
	store    *Store

	// readTimeout 单次读取的截止时间；超时视为断连（PONG 都收不到说明链路已死）
	readTimeout time.Duration

	mu         sync.Mutex
	conn       *websocket.Conn
	closed     bool
	reconnectC *sigchan.Chan

	handlerMu sync.RWMutex
	handlers  []QuoteHandler
}

// NewClient 创建行情客户端；url 为空时使用 DefaultURL。
func NewClient(url string, assetIDs []string) *Client {
	if url == "" {
		url = DefaultURL
	}
	return &Client{
		url:         url,
		assetIDs:    assetIDs,
		store:       NewStore(),
		readTimeout: readTimeout,
		reconnectC:  sigchan.New(1),
	}
}

// Store 最新值槽存储（与客户端同生命周期）
func (c *Client) Store() *Store {
	return c.store
}

// OnQuote 注册报价更新回调
func (c *Client) OnQuote(h QuoteHandler) {
	c.handlerMu.Lock()
	defer c.handlerMu.Unlock()
	c.handlers = append(c.handlers, h)
}

// Start 建立连接并启动读循环、PING 循环与重连器。
// 连接失败（含有限次重试）返回错误；成功后由内部 goroutine 维持会话。
func (c *Client) Start(ctx context.Context) error {
	if err := c.connect(ctx); err != nil {
		return err
	}
	go c.reconnector(ctx)
	return nil
}

func (c *Client) connect(ctx context.Context) error {
	dialer := websocket.Dialer{HandshakeTimeout: handshakeTimeout}

	var conn *websocket.Conn
	var err error
	for i := 0; i < dialAttempts; i++ {
		if i > 0 {
			log.Infof("重试连接行情 WebSocket (%d/%d)...", i+1, dialAttempts)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(i) * 2 * time.Second):
			}
		}
		conn, _, err = dialer.DialContext(ctx, c.url, nil)
		if err == nil {
			break
		}
		log.Warnf("连接行情 WebSocket 失败 (%d/%d): %v", i+1, dialAttempts, err)
	}
	if err != nil {
		return errors.Wrapf(err, "连接行情 WebSocket 失败（已重试 %d 次）", dialAttempts)
	}

	sub := map[string]interface{}{
		"assets_ids": c.assetIDs,
		"type":       "market",
	}
	if err := conn.WriteJSON(sub); err != nil {
		conn.Close()
		return errors.Wrap(err, "发送订阅消息失败")
	}

	c.mu.Lock()
	if c.conn != nil {
		c.conn.Close()
	}
	c.conn = conn
	c.closed = false
	c.mu.Unlock()

	go c.readLoop(ctx, conn)
	go c.pingLoop(ctx, conn)

	log.Infof("行情 WebSocket 已连接，订阅 %d 个资产", len(c.assetIDs))
	return nil
}

// reconnector 信号驱动的重连器
func (c *Client) reconnector(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.reconnectC.C():
			c.mu.Lock()
			closed := c.closed
			c.mu.Unlock()
			if closed {
				return
			}
			log.Warnf("收到重连信号，冷却 %v...", reconnectDelay)
			select {
			case <-ctx.Done():
				return
			case <-time.After(reconnectDelay):
			}
			if err := c.connect(ctx); err != nil {
				log.Warnf("重连失败: %v，将再次尝试", err)
				c.signalReconnect()
			}
		}
	}
}

func (c *Client) signalReconnect() {
	c.reconnectC.Emit()
}

func (c *Client) pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteMessage(websocket.TextMessage, []byte("PING")); err != nil {
				// 读循环会观察到同一断连并触发重连
				return
			}
		}
	}
}

func (c *Client) readLoop(ctx context.Context, conn *websocket.Conn) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		conn.SetReadDeadline(time.Now().Add(c.readTimeout))
		_, message, err := conn.ReadMessage()
		if err != nil {
			// 超时也走断连路径：deadline 过期后连接已不可再读，
			// 继续 ReadMessage 只会在同一个坏连接上反复失败
			select {
			case <-ctx.Done():
				return
			default:
			}
			c.mu.Lock()
			closed := c.closed
			c.mu.Unlock()
			if closed {
				return
			}
			log.Warnf("行情 WebSocket 读取错误: %v，触发重连", err)
			c.signalReconnect()
			return
		}

		switch string(message) {
		case "PING":
			conn.WriteMessage(websocket.TextMessage, []byte("PONG"))
			continue
		case "PONG":
			continue
		}

		now := time.Now()
		for assetID, q := range parsePriceChanges(message, now) {
			c.store.Put(assetID, q)
			c.emit(assetID, q)
		}
	}
}

func (c *Client) emit(assetID string, q Quote) {
	c.handlerMu.RLock()
	handlers := c.handlers
	c.handlerMu.RUnlock()
	for _, h := range handlers {
		h(assetID, q)
	}
}

// Close 关闭连接并停止后续重连
func (c *Client) Close() error {
	c.mu.Lock()
	c.closed = true
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()
	if conn != nil {
		return conn.Close()
	}
	return nil
}

// priceChangeEvent price_change 事件的 wire 结构。
// event_type 可能缺失，只要有 price_changes 字段就按价格事件处理。
type priceChangeEvent struct {
	EventType    string `json:"event_type"`
	PriceChanges []struct {
		AssetID string `json:"asset_id"`
		Price   string `json:"price"`
		BestBid string `json:"best_bid"`
		BestAsk string `json:"best_ask"`
	} `json:"price_changes"`
}

// parsePriceChanges 解析一条消息里的价格更新。
// 同一资产出现多次时保留最后一条（去重保最新）。
func parsePriceChanges(message []byte, now time.Time) map[string]Quote {
	var ev priceChangeEvent
	if err := json.Unmarshal(message, &ev); err != nil {
		return nil
	}
	if ev.EventType != "" && ev.EventType != "price_change" {
		return nil
	}
	if len(ev.PriceChanges) == 0 {
		return nil
	}

	out := make(map[string]Quote)
	for _, pc := range ev.PriceChanges {
		if pc.AssetID == "" {
			continue
		}
		q := Quote{UpdatedAt: now}
		q.Price = parseFloat(pc.Price)
		q.BestBid = parseFloat(pc.BestBid)
		q.BestAsk = parseFloat(pc.BestAsk)
		if q.Price == 0 && q.BestBid == 0 && q.BestAsk == 0 {
			continue
		}
		out[pc.AssetID] = q
	}
	return out
}

func parseFloat(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
