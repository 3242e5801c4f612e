package ws

import "github.com/gofiber/websocket/v2"

type Client struct {
	UserID string
	conn   *websocket.Conn
	send   chan any
}

func NewClient(userID string, conn *websocket.Conn) *Client {
	return &Client{
		UserID: userID,
		conn:   conn,
		send:   make(chan any, 16),
	}
}

// Send queues a payload; full buffers drop the message.
func (c *Client) Send(payload any) {
	select {
	case c.send <- payload:
	default:
	}
}

// WritePump drains the send queue onto the connection until Close.
func (c *Client) WritePump() {
	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

func (c *Client) Close() {
	close(c.send)
	_ = c.conn.Close()
}
