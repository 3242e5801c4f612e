package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/gcolon75/Project-Valine-sub011/internal/auth"
	"github.com/gcolon75/Project-Valine-sub011/internal/handlers"
	"github.com/gcolon75/Project-Valine-sub011/internal/metrics"
	"github.com/gcolon75/Project-Valine-sub011/internal/middleware"
	"github.com/gcolon75/Project-Valine-sub011/internal/ws"
)

type Deps struct {
	Auth          *handlers.AuthHandler
	Threads       *handlers.ThreadHandler
	Posts         *handlers.PostHandler
	Comments      *handlers.CommentHandler
	Media         *handlers.MediaHandler
	Profiles      *handlers.ProfileHandler
	Notifications *handlers.NotificationHandler
	JWT           *auth.JWTManager
	Hub           *ws.Hub
	IPLimiter     *middleware.IPRateLimiter
	Log           *zap.SugaredLogger
}

// Register wires every route group onto the app.
func Register(app *fiber.App, d Deps) {
	app.Use(recover.New())
	app.Use(metrics.Middleware())
	if d.IPLimiter != nil {
		app.Use(d.IPLimiter.Handler())
	}

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	v1 := app.Group("/v1")

	authGroup := v1.Group("/auth")
	authGroup.Post("/register", d.Auth.Register)
	authGroup.Post("/verify-email", d.Auth.VerifyEmail)
	authGroup.Post("/login", d.Auth.Login)
	authGroup.Post("/refresh", d.Auth.Refresh)

	authed := v1.Group("", middleware.RequireAuth(d.JWT, d.Log))

	authed.Post("/auth/logout", d.Auth.Logout)
	authed.Get("/me", d.Auth.Me)
	authed.Patch("/me", d.Profiles.UpdateMe)

	authed.Get("/threads", d.Threads.List)
	authed.Post("/threads", d.Threads.CreateDirect)
	authed.Post("/threads/group", d.Threads.CreateGroup)
	authed.Get("/threads/:id/messages", d.Threads.Messages)
	authed.Post("/threads/:id/messages", d.Threads.Send)
	authed.Post("/threads/:id/read", d.Threads.MarkRead)
	authed.Delete("/threads/:id", d.Threads.Leave)

	authed.Get("/posts", d.Posts.Feed)
	authed.Post("/posts", d.Posts.Create)
	authed.Get("/posts/:id", d.Posts.Get)
	authed.Delete("/posts/:id", d.Posts.Delete)
	authed.Post("/posts/:id/like", d.Posts.Like)
	authed.Delete("/posts/:id/like", d.Posts.Unlike)
	authed.Post("/posts/:id/save", d.Posts.Save)
	authed.Delete("/posts/:id/save", d.Posts.Unsave)

	authed.Get("/posts/:id/comments", d.Comments.ListForPost)
	authed.Post("/posts/:id/comments", d.Comments.Create)
	authed.Get("/comments/:id/replies", d.Comments.Replies)
	authed.Patch("/comments/:id", d.Comments.Edit)
	authed.Delete("/comments/:id", d.Comments.Delete)

	authed.Post("/media", d.Media.Upload)
	authed.Post("/media/avatar", d.Media.UploadAvatar)
	authed.Get("/media/:id/url", d.Media.SignedURL)
	authed.Post("/media/:id/request-access", d.Media.RequestAccess)
	authed.Get("/access-requests", d.Media.ListAccessRequests)
	authed.Post("/access-requests/:id/approve", d.Media.Approve)
	authed.Post("/access-requests/:id/deny", d.Media.Deny)

	authed.Get("/users/:id", d.Profiles.Get)
	authed.Post("/users/:id/follow", d.Profiles.Follow)
	authed.Delete("/users/:id/follow", d.Profiles.Unfollow)
	authed.Get("/users/:id/followers", d.Profiles.Followers)
	authed.Get("/users/:id/following", d.Profiles.Following)

	authed.Get("/notifications", d.Notifications.List)
	authed.Get("/notifications/unread-count", d.Notifications.UnreadCount)
	authed.Post("/notifications/read", d.Notifications.MarkRead)

	// websocket auth happens inside the handler (token query param)
	v1.Get("/ws", ws.Upgrade(), ws.Handler(d.Hub, d.JWT, d.Log))
}
