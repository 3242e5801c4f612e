package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/gcolon75/Project-Valine-sub011/internal/events"
	"github.com/gcolon75/Project-Valine-sub011/internal/metrics"
	"github.com/gcolon75/Project-Valine-sub011/internal/models"
	"github.com/gcolon75/Project-Valine-sub011/internal/utils"
)

type NotificationRepository interface {
	Insert(ctx context.Context, n *models.Notification) error
	List(ctx context.Context, recipientID string, limit int64, before time.Time) ([]*models.Notification, error)
	CountUnread(ctx context.Context, recipientID string) (int64, error)
	MarkRead(ctx context.Context, recipientID string, ids []string) error
}

// Pusher delivers realtime payloads to connected users; implemented by the
// websocket hub.
type Pusher interface {
	SendToUser(userID string, payload any)
}

type NotificationService struct {
	repo   NotificationRepository
	pusher Pusher
	log    *zap.SugaredLogger
}

func NewNotificationService(repo NotificationRepository, pusher Pusher, log *zap.SugaredLogger) *NotificationService {
	return &NotificationService{repo: repo, pusher: pusher, log: log}
}

var eventNotifyTypes = map[string]string{
	events.PostLiked:       models.NotifyLike,
	events.PostSaved:       models.NotifySave,
	events.CommentCreated:  models.NotifyComment,
	events.FollowCreated:   models.NotifyFollow,
	events.MessageCreated:  models.NotifyMessage,
	events.AccessRequested: models.NotifyAccessRequest,
	events.AccessDecided:   models.NotifyAccessDecision,
}

// HandleEvent materializes one fan-out event into per-recipient notification
// documents and pushes them to connected recipients. Wired as the Kafka
// consumer callback.
func (s *NotificationService) HandleEvent(ctx context.Context, ev events.Event) {
	typ, ok := eventNotifyTypes[ev.Kind]
	if !ok {
		s.log.Warnw("unknown event kind", "kind", ev.Kind)
		return
	}
	metrics.EventConsumed(ev.Kind)
	for _, recipient := range ev.Recipients {
		if recipient == ev.ActorID {
			continue
		}
		n := &models.Notification{
			ID:          utils.NewID(),
			Type:        typ,
			ActorID:     ev.ActorID,
			RecipientID: recipient,
			TargetID:    ev.TargetID,
			TargetType:  ev.TargetType,
		}
		if err := s.repo.Insert(ctx, n); err != nil {
			s.log.Errorw("store notification", "recipient", recipient, "err", err)
			continue
		}
		if s.pusher != nil {
			s.pusher.SendToUser(recipient, n)
		}
	}
}

func (s *NotificationService) List(ctx context.Context, userID string, limit int64, before time.Time) ([]*models.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.List(ctx, userID, limit, before)
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}

// MarkRead is the only path that decrements the unread count.
func (s *NotificationService) MarkRead(ctx context.Context, userID string, ids []string) error {
	return s.repo.MarkRead(ctx, userID, ids)
}
