package ws

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/gcolon75/Project-Valine-sub011/internal/auth"
)

// Handler upgrades authenticated connections and parks them in the hub.
// Tokens arrive as a query param because browser websockets cannot set
// headers.
func Handler(hub *Hub, jwt *auth.JWTManager, log *zap.SugaredLogger) fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		token := conn.Query("token")
		userID, err := jwt.Verify(token, "access")
		if err != nil {
			_ = conn.WriteJSON(fiber.Map{"error": "unauthorized"})
			_ = conn.Close()
			return
		}
		client := NewClient(userID, conn)
		hub.Add(client)
		log.Infow("ws connected", "user", userID)

		go client.WritePump()
		// inbound frames are ignored; the read loop exists to notice the close
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
		hub.Remove(client)
		client.Close()
		log.Infow("ws disconnected", "user", userID)
	})
}

// Upgrade gates the route so non-websocket requests get a clean 426.
func Upgrade() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}
}
