package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/gcolon75/Project-Valine-sub011/internal/events"
	"github.com/gcolon75/Project-Valine-sub011/internal/models"
)

type MockUserRepo struct{ mock.Mock }

func (m *MockUserRepo) Create(ctx context.Context, u *models.User) error {
	return m.Called(u).Error(0)
}

func (m *MockUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepo) Update(ctx context.Context, u *models.User) error {
	return m.Called(u).Error(0)
}

func (m *MockUserRepo) SetVerified(ctx context.Context, id string) error {
	return m.Called(id).Error(0)
}

// MockKV is an in-memory KVStore; close enough to Redis for service tests.
type MockKV struct {
	data   map[string]string
	counts map[string]int64
}

func NewMockKV() *MockKV {
	return &MockKV{data: map[string]string{}, counts: map[string]int64{}}
}

func (m *MockKV) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if s, ok := value.(string); ok {
		m.data[key] = s
	}
	return nil
}

func (m *MockKV) Get(ctx context.Context, key string) (string, error) {
	return m.data[key], nil
}

func (m *MockKV) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func (m *MockKV) IncrWindow(ctx context.Context, key string, window time.Duration) (int64, error) {
	m.counts[key]++
	return m.counts[key], nil
}

type MockMailer struct{ mock.Mock }

func (m *MockMailer) SendVerificationCode(ctx context.Context, to, code string, ttl time.Duration) error {
	return m.Called(to, code).Error(0)
}

type MockPublisher struct {
	Events []events.Event
}

func (m *MockPublisher) Publish(ctx context.Context, ev events.Event) error {
	m.Events = append(m.Events, ev)
	return nil
}

type MockThreadRepo struct{ mock.Mock }

func (m *MockThreadRepo) Insert(ctx context.Context, t *models.Thread) error {
	return m.Called(t).Error(0)
}

func (m *MockThreadRepo) FindByID(ctx context.Context, id string) (*models.Thread, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Thread), args.Error(1)
}

func (m *MockThreadRepo) FindDirect(ctx context.Context, a, b string) (*models.Thread, error) {
	args := m.Called(a, b)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Thread), args.Error(1)
}

func (m *MockThreadRepo) ListForUser(ctx context.Context, userID string) ([]*models.Thread, error) {
	args := m.Called(userID)
	return args.Get(0).([]*models.Thread), args.Error(1)
}

func (m *MockThreadRepo) RecordMessage(ctx context.Context, t *models.Thread, msg *models.Message) error {
	return m.Called(t, msg).Error(0)
}

func (m *MockThreadRepo) ResetUnread(ctx context.Context, threadID, userID string) error {
	return m.Called(threadID, userID).Error(0)
}

func (m *MockThreadRepo) MarkLeft(ctx context.Context, threadID, userID string) error {
	return m.Called(threadID, userID).Error(0)
}

type MockMessageRepo struct{ mock.Mock }

func (m *MockMessageRepo) Insert(ctx context.Context, msg *models.Message) error {
	return m.Called(msg).Error(0)
}

func (m *MockMessageRepo) List(ctx context.Context, threadID string, limit int64, before time.Time) ([]*models.Message, error) {
	args := m.Called(threadID, limit, before)
	return args.Get(0).([]*models.Message), args.Error(1)
}

type MockPostRepo struct{ mock.Mock }

func (m *MockPostRepo) Insert(ctx context.Context, p *models.Post) error {
	return m.Called(p).Error(0)
}

func (m *MockPostRepo) FindByID(ctx context.Context, id string) (*models.Post, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostRepo) FindByMediaID(ctx context.Context, mediaID string) (*models.Post, error) {
	args := m.Called(mediaID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostRepo) List(ctx context.Context, viewerID string, limit int64, before time.Time) ([]*models.Post, error) {
	args := m.Called(viewerID, limit, before)
	return args.Get(0).([]*models.Post), args.Error(1)
}

func (m *MockPostRepo) IncCounter(ctx context.Context, postID, field string, delta int64) error {
	return m.Called(postID, field, delta).Error(0)
}

func (m *MockPostRepo) Delete(ctx context.Context, id string) error {
	return m.Called(id).Error(0)
}

type MockMarkRepo struct{ mock.Mock }

func (m *MockMarkRepo) Add(ctx context.Context, postID, userID, kind string) (bool, error) {
	args := m.Called(postID, userID, kind)
	return args.Bool(0), args.Error(1)
}

func (m *MockMarkRepo) Remove(ctx context.Context, postID, userID, kind string) (bool, error) {
	args := m.Called(postID, userID, kind)
	return args.Bool(0), args.Error(1)
}

func (m *MockMarkRepo) Exists(ctx context.Context, postID, userID, kind string) (bool, error) {
	args := m.Called(postID, userID, kind)
	return args.Bool(0), args.Error(1)
}

func (m *MockMarkRepo) ForPosts(ctx context.Context, postIDs []string, userID, kind string) (map[string]bool, error) {
	args := m.Called(postIDs, userID, kind)
	return args.Get(0).(map[string]bool), args.Error(1)
}

type MockFollowRepo struct{ mock.Mock }

func (m *MockFollowRepo) Add(ctx context.Context, followerID, followeeID string) (bool, error) {
	args := m.Called(followerID, followeeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockFollowRepo) Remove(ctx context.Context, followerID, followeeID string) error {
	return m.Called(followerID, followeeID).Error(0)
}

func (m *MockFollowRepo) Exists(ctx context.Context, followerID, followeeID string) (bool, error) {
	args := m.Called(followerID, followeeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockFollowRepo) ListFollowers(ctx context.Context, userID string) ([]string, error) {
	args := m.Called(userID)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockFollowRepo) ListFollowing(ctx context.Context, userID string) ([]string, error) {
	args := m.Called(userID)
	return args.Get(0).([]string), args.Error(1)
}

type MockAccessRepo struct{ mock.Mock }

func (m *MockAccessRepo) Insert(ctx context.Context, a *models.AccessRequest) error {
	return m.Called(a).Error(0)
}

func (m *MockAccessRepo) FindByID(ctx context.Context, id string) (*models.AccessRequest, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AccessRequest), args.Error(1)
}

func (m *MockAccessRepo) Find(ctx context.Context, mediaID, requesterID string) (*models.AccessRequest, error) {
	args := m.Called(mediaID, requesterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AccessRequest), args.Error(1)
}

func (m *MockAccessRepo) HasApproved(ctx context.Context, mediaID, requesterID string) (bool, error) {
	args := m.Called(mediaID, requesterID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccessRepo) SetStatus(ctx context.Context, id, status string) error {
	return m.Called(id, status).Error(0)
}

func (m *MockAccessRepo) ListForOwner(ctx context.Context, ownerID string) ([]*models.AccessRequest, error) {
	args := m.Called(ownerID)
	return args.Get(0).([]*models.AccessRequest), args.Error(1)
}

type MockCommentRepo struct{ mock.Mock }

func (m *MockCommentRepo) Insert(ctx context.Context, c *models.Comment) error {
	return m.Called(c).Error(0)
}

func (m *MockCommentRepo) FindByID(ctx context.Context, id string) (*models.Comment, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockCommentRepo) ListTop(ctx context.Context, postID string, limit int64, before time.Time) ([]*models.Comment, error) {
	args := m.Called(postID, limit, before)
	return args.Get(0).([]*models.Comment), args.Error(1)
}

func (m *MockCommentRepo) ListReplies(ctx context.Context, parentID string, limit int64, before time.Time) ([]*models.Comment, error) {
	args := m.Called(parentID, limit, before)
	return args.Get(0).([]*models.Comment), args.Error(1)
}

func (m *MockCommentRepo) UpdateBody(ctx context.Context, id, body string) error {
	return m.Called(id, body).Error(0)
}

func (m *MockCommentRepo) Delete(ctx context.Context, id string) error {
	return m.Called(id).Error(0)
}

func (m *MockCommentRepo) IncReplyCount(ctx context.Context, id string, delta int64) error {
	return m.Called(id, delta).Error(0)
}

type MockMediaRepo struct{ mock.Mock }

func (m *MockMediaRepo) Insert(ctx context.Context, md *models.Media) error {
	return m.Called(md).Error(0)
}

func (m *MockMediaRepo) FindByID(ctx context.Context, id string) (*models.Media, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Media), args.Error(1)
}

type MockNotificationRepo struct{ mock.Mock }

func (m *MockNotificationRepo) Insert(ctx context.Context, n *models.Notification) error {
	return m.Called(n).Error(0)
}

func (m *MockNotificationRepo) List(ctx context.Context, recipientID string, limit int64, before time.Time) ([]*models.Notification, error) {
	args := m.Called(recipientID, limit, before)
	return args.Get(0).([]*models.Notification), args.Error(1)
}

func (m *MockNotificationRepo) CountUnread(ctx context.Context, recipientID string) (int64, error) {
	args := m.Called(recipientID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepo) MarkRead(ctx context.Context, recipientID string, ids []string) error {
	return m.Called(recipientID, ids).Error(0)
}

// MockBlobStore captures uploads in memory.
type MockBlobStore struct {
	Objects map[string][]byte
	URL     string
}

func NewMockBlobStore() *MockBlobStore {
	return &MockBlobStore{Objects: map[string][]byte{}, URL: "https://signed.example/obj"}
}

func (m *MockBlobStore) Upload(ctx context.Context, key, contentType string, data []byte) error {
	m.Objects[key] = data
	return nil
}

func (m *MockBlobStore) PresignURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	return m.URL + "/" + key, nil
}
