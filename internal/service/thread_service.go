package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/gcolon75/Project-Valine-sub011/internal/events"
	"github.com/gcolon75/Project-Valine-sub011/internal/models"
	"github.com/gcolon75/Project-Valine-sub011/internal/repository"
	"github.com/gcolon75/Project-Valine-sub011/internal/utils"
	"github.com/gcolon75/Project-Valine-sub011/internal/validate"
)

const defaultMessagePage = 50

type ThreadRepository interface {
	Insert(ctx context.Context, t *models.Thread) error
	FindByID(ctx context.Context, id string) (*models.Thread, error)
	FindDirect(ctx context.Context, a, b string) (*models.Thread, error)
	ListForUser(ctx context.Context, userID string) ([]*models.Thread, error)
	RecordMessage(ctx context.Context, t *models.Thread, m *models.Message) error
	ResetUnread(ctx context.Context, threadID, userID string) error
	MarkLeft(ctx context.Context, threadID, userID string) error
}

type MessageRepository interface {
	Insert(ctx context.Context, m *models.Message) error
	List(ctx context.Context, threadID string, limit int64, before time.Time) ([]*models.Message, error)
}

// EventPublisher pushes fan-out events onto the bus.
type EventPublisher interface {
	Publish(ctx context.Context, ev events.Event) error
}

type ThreadService struct {
	threads  ThreadRepository
	messages MessageRepository
	users    UserRepository
	pub      EventPublisher
	log      *zap.SugaredLogger
}

func NewThreadService(threads ThreadRepository, messages MessageRepository, users UserRepository,
	pub EventPublisher, log *zap.SugaredLogger) *ThreadService {
	return &ThreadService{threads: threads, messages: messages, users: users, pub: pub, log: log}
}

// ListThreads returns the caller's threads decorated with that caller's
// unread counts, most recently active first.
func (s *ThreadService) ListThreads(ctx context.Context, userID string) ([]*models.ThreadView, error) {
	threads, err := s.threads.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list threads: %w", err)
	}
	out := make([]*models.ThreadView, 0, len(threads))
	for _, t := range threads {
		out = append(out, &models.ThreadView{Thread: t, UnreadCount: t.Unread[userID]})
	}
	return out, nil
}

// CreateDirect opens (or reuses) the 1:1 thread between caller and peer.
func (s *ThreadService) CreateDirect(ctx context.Context, userID, peerID string) (*models.Thread, error) {
	if peerID == "" {
		return nil, Invalid("select a user to start a chat")
	}
	if peerID == userID {
		return nil, Invalid("cannot start a chat with yourself")
	}
	if _, err := s.users.FindByID(ctx, peerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if existing, err := s.threads.FindDirect(ctx, userID, peerID); err == nil {
		return existing, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	t := &models.Thread{
		ID:      utils.NewID(),
		Kind:    models.ThreadDirect,
		Members: []string{userID, peerID},
		Unread:  map[string]int64{},
	}
	if err := s.threads.Insert(ctx, t); err != nil {
		return nil, fmt.Errorf("create thread: %w", err)
	}
	return t, nil
}

// CreateGroup requires at least one other member and a non-empty name.
func (s *ThreadService) CreateGroup(ctx context.Context, userID, name string, memberIDs []string) (*models.Thread, error) {
	if err := validate.GroupName(name); err != nil {
		return nil, Invalid(err.Error())
	}
	members := dedupe(append([]string{userID}, memberIDs...))
	if len(members) < 2 {
		return nil, Invalid("select at least one user for the group")
	}
	for _, id := range members {
		if id == userID {
			continue
		}
		if _, err := s.users.FindByID(ctx, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, Invalid("unknown user in member list")
			}
			return nil, err
		}
	}
	t := &models.Thread{
		ID:      utils.NewID(),
		Kind:    models.ThreadGroup,
		Name:    name,
		Members: members,
		Unread:  map[string]int64{},
	}
	if err := s.threads.Insert(ctx, t); err != nil {
		return nil, fmt.Errorf("create group thread: %w", err)
	}
	return t, nil
}

// ListMessages returns message history for members only, so one thread's
// messages never leak into another viewer's conversation.
func (s *ThreadService) ListMessages(ctx context.Context, userID, threadID string, limit int64, before time.Time) ([]*models.Message, error) {
	t, err := s.memberThread(ctx, userID, threadID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 200 {
		limit = defaultMessagePage
	}
	msgs, err := s.messages.List(ctx, t.ID, limit, before)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return msgs, nil
}

// SendMessage stores the message, updates the thread summary and unread
// counters, and publishes the fan-out event. The stored message is returned
// so the client can append the confirmed object.
func (s *ThreadService) SendMessage(ctx context.Context, userID, threadID, body string) (*models.Message, error) {
	if err := validate.MessageBody(body); err != nil {
		return nil, Invalid(err.Error())
	}
	t, err := s.memberThread(ctx, userID, threadID)
	if err != nil {
		return nil, err
	}
	m := &models.Message{
		ID:       utils.NewID(),
		ThreadID: t.ID,
		SenderID: userID,
		Body:     body,
	}
	if err := s.messages.Insert(ctx, m); err != nil {
		return nil, fmt.Errorf("store message: %w", err)
	}
	if err := s.threads.RecordMessage(ctx, t, m); err != nil {
		s.log.Errorw("record last message", "thread", t.ID, "err", err)
	}
	recipients := otherMembers(t, userID)
	if s.pub != nil && len(recipients) > 0 {
		if err := s.pub.Publish(ctx, events.Event{
			Kind:       events.MessageCreated,
			ActorID:    userID,
			Recipients: recipients,
			TargetID:   t.ID,
			TargetType: "thread",
		}); err != nil {
			s.log.Errorw("publish message event", "thread", t.ID, "err", err)
		}
	}
	return m, nil
}

// MarkRead resets the caller's unread counter. This is the only operation
// that decrements it.
func (s *ThreadService) MarkRead(ctx context.Context, userID, threadID string) error {
	t, err := s.memberThread(ctx, userID, threadID)
	if err != nil {
		return err
	}
	return s.threads.ResetUnread(ctx, t.ID, userID)
}

// Leave removes the thread from the caller's list; other members keep it.
func (s *ThreadService) Leave(ctx context.Context, userID, threadID string) error {
	t, err := s.memberThread(ctx, userID, threadID)
	if err != nil {
		return err
	}
	return s.threads.MarkLeft(ctx, t.ID, userID)
}

func (s *ThreadService) memberThread(ctx context.Context, userID, threadID string) (*models.Thread, error) {
	t, err := s.threads.FindByID(ctx, threadID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !t.HasMember(userID) {
		return nil, ErrNotFound
	}
	return t, nil
}

func otherMembers(t *models.Thread, userID string) []string {
	out := []string{}
	for _, m := range t.Members {
		if m != userID {
			out = append(out, m)
		}
	}
	return out
}

func dedupe(ids []string) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
