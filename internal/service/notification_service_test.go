package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gcolon75/Project-Valine-sub011/internal/events"
	"github.com/gcolon75/Project-Valine-sub011/internal/models"
)

type recordingPusher struct {
	mu   sync.Mutex
	sent map[string][]any
}

func newRecordingPusher() *recordingPusher {
	return &recordingPusher{sent: map[string][]any{}}
}

func (p *recordingPusher) SendToUser(userID string, payload any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent[userID] = append(p.sent[userID], payload)
}

func TestHandleEventFansOutPerRecipient(t *testing.T) {
	repo := new(MockNotificationRepo)
	pusher := newRecordingPusher()
	svc := NewNotificationService(repo, pusher, zap.NewNop().Sugar())

	repo.On("Insert", mock.AnythingOfType("*models.Notification")).Return(nil)

	svc.HandleEvent(context.Background(), events.Event{
		Kind:       events.MessageCreated,
		ActorID:    "alice",
		Recipients: []string{"bob", "carol"},
		TargetID:   "t1",
		TargetType: "thread",
	})

	repo.AssertNumberOfCalls(t, "Insert", 2)
	require.Len(t, pusher.sent["bob"], 1)
	require.Len(t, pusher.sent["carol"], 1)

	n, ok := pusher.sent["bob"][0].(*models.Notification)
	require.True(t, ok)
	assert.Equal(t, models.NotifyMessage, n.Type)
	assert.Equal(t, "alice", n.ActorID)
}

func TestHandleEventSkipsActorAsRecipient(t *testing.T) {
	repo := new(MockNotificationRepo)
	pusher := newRecordingPusher()
	svc := NewNotificationService(repo, pusher, zap.NewNop().Sugar())

	svc.HandleEvent(context.Background(), events.Event{
		Kind:       events.PostLiked,
		ActorID:    "alice",
		Recipients: []string{"alice"},
		TargetID:   "p1",
	})

	repo.AssertNotCalled(t, "Insert", mock.Anything)
	assert.Empty(t, pusher.sent)
}

func TestHandleEventIgnoresUnknownKind(t *testing.T) {
	repo := new(MockNotificationRepo)
	svc := NewNotificationService(repo, newRecordingPusher(), zap.NewNop().Sugar())

	svc.HandleEvent(context.Background(), events.Event{Kind: "something.else", Recipients: []string{"bob"}})

	repo.AssertNotCalled(t, "Insert", mock.Anything)
}
