package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gcolon75/Project-Valine-sub011/internal/events"
	"github.com/gcolon75/Project-Valine-sub011/internal/models"
)

func newThreadService(threads *MockThreadRepo, messages *MockMessageRepo, users *MockUserRepo, pub *MockPublisher) *ThreadService {
	return NewThreadService(threads, messages, users, pub, zap.NewNop().Sugar())
}

func directThread(id string, members ...string) *models.Thread {
	return &models.Thread{ID: id, Kind: models.ThreadDirect, Members: members, Unread: map[string]int64{}}
}

func TestCreateDirectReusesExistingThread(t *testing.T) {
	threads := new(MockThreadRepo)
	users := new(MockUserRepo)
	svc := newThreadService(threads, new(MockMessageRepo), users, &MockPublisher{})

	existing := directThread("t1", "alice", "bob")
	users.On("FindByID", "bob").Return(&models.User{ID: "bob"}, nil)
	threads.On("FindDirect", "alice", "bob").Return(existing, nil)

	got, err := svc.CreateDirect(context.Background(), "alice", "bob")
	require.NoError(t, err)
	assert.Equal(t, "t1", got.ID)
	threads.AssertNotCalled(t, "Insert", mock.Anything)
}

func TestCreateDirectRejectsSelf(t *testing.T) {
	svc := newThreadService(new(MockThreadRepo), new(MockMessageRepo), new(MockUserRepo), &MockPublisher{})

	_, err := svc.CreateDirect(context.Background(), "alice", "alice")
	assert.True(t, IsValidation(err))
}

func TestCreateGroupNeedsNameAndMembers(t *testing.T) {
	threads := new(MockThreadRepo)
	users := new(MockUserRepo)
	svc := newThreadService(threads, new(MockMessageRepo), users, &MockPublisher{})

	_, err := svc.CreateGroup(context.Background(), "alice", "   ", []string{"bob"})
	assert.True(t, IsValidation(err))

	_, err = svc.CreateGroup(context.Background(), "alice", "writers room", nil)
	assert.True(t, IsValidation(err))

	// duplicates and the caller collapse to a single membership
	users.On("FindByID", "bob").Return(&models.User{ID: "bob"}, nil)
	threads.On("Insert", mock.AnythingOfType("*models.Thread")).Return(nil)
	got, err := svc.CreateGroup(context.Background(), "alice", "writers room", []string{"bob", "bob", "alice"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"alice", "bob"}, got.Members)
	assert.Equal(t, models.ThreadGroup, got.Kind)
}

func TestSendMessageBlankBodyRejected(t *testing.T) {
	threads := new(MockThreadRepo)
	messages := new(MockMessageRepo)
	svc := newThreadService(threads, messages, new(MockUserRepo), &MockPublisher{})

	_, err := svc.SendMessage(context.Background(), "alice", "t1", "   \n\t ")
	assert.True(t, IsValidation(err))
	messages.AssertNotCalled(t, "Insert", mock.Anything)
	threads.AssertNotCalled(t, "RecordMessage", mock.Anything, mock.Anything)
}

func TestSendMessageFansOutToOtherMembers(t *testing.T) {
	threads := new(MockThreadRepo)
	messages := new(MockMessageRepo)
	pub := &MockPublisher{}
	svc := newThreadService(threads, messages, new(MockUserRepo), pub)

	th := directThread("t1", "alice", "bob", "carol")
	threads.On("FindByID", "t1").Return(th, nil)
	messages.On("Insert", mock.AnythingOfType("*models.Message")).Return(nil)
	threads.On("RecordMessage", th, mock.AnythingOfType("*models.Message")).Return(nil)

	m, err := svc.SendMessage(context.Background(), "alice", "t1", "hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", m.Body)
	assert.Equal(t, "alice", m.SenderID)

	require.Len(t, pub.Events, 1)
	ev := pub.Events[0]
	assert.Equal(t, events.MessageCreated, ev.Kind)
	assert.ElementsMatch(t, []string{"bob", "carol"}, ev.Recipients)
}

func TestSendMessageNonMemberLooksLikeMissingThread(t *testing.T) {
	threads := new(MockThreadRepo)
	svc := newThreadService(threads, new(MockMessageRepo), new(MockUserRepo), &MockPublisher{})

	threads.On("FindByID", "t1").Return(directThread("t1", "bob", "carol"), nil)

	_, err := svc.SendMessage(context.Background(), "mallory", "t1", "hi")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListMessagesNonMember(t *testing.T) {
	threads := new(MockThreadRepo)
	messages := new(MockMessageRepo)
	svc := newThreadService(threads, messages, new(MockUserRepo), &MockPublisher{})

	threads.On("FindByID", "t1").Return(directThread("t1", "bob", "carol"), nil)

	_, err := svc.ListMessages(context.Background(), "mallory", "t1", 50, time.Time{})
	assert.ErrorIs(t, err, ErrNotFound)
	messages.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything)
}

func TestListThreadsShowsCallerUnreadOnly(t *testing.T) {
	threads := new(MockThreadRepo)
	svc := newThreadService(threads, new(MockMessageRepo), new(MockUserRepo), &MockPublisher{})

	th := directThread("t1", "alice", "bob")
	th.Unread = map[string]int64{"alice": 3, "bob": 7}
	threads.On("ListForUser", "alice").Return([]*models.Thread{th}, nil)

	views, err := svc.ListThreads(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, int64(3), views[0].UnreadCount)
}

func TestMarkReadResetsOnlyCaller(t *testing.T) {
	threads := new(MockThreadRepo)
	svc := newThreadService(threads, new(MockMessageRepo), new(MockUserRepo), &MockPublisher{})

	threads.On("FindByID", "t1").Return(directThread("t1", "alice", "bob"), nil)
	threads.On("ResetUnread", "t1", "alice").Return(nil)

	require.NoError(t, svc.MarkRead(context.Background(), "alice", "t1"))
	threads.AssertCalled(t, "ResetUnread", "t1", "alice")
}

func TestLeaveRemovesThreadForCallerOnly(t *testing.T) {
	threads := new(MockThreadRepo)
	svc := newThreadService(threads, new(MockMessageRepo), new(MockUserRepo), &MockPublisher{})

	threads.On("FindByID", "t1").Return(directThread("t1", "alice", "bob"), nil)
	threads.On("MarkLeft", "t1", "alice").Return(nil)

	require.NoError(t, svc.Leave(context.Background(), "alice", "t1"))
	threads.AssertCalled(t, "MarkLeft", "t1", "alice")
}
