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
	"github.com/gcolon75/Project-Valine-sub011/internal/repository"
)

type postFixture struct {
	posts   *MockPostRepo
	marks   *MockMarkRepo
	follows *MockFollowRepo
	access  *MockAccessRepo
	pub     *MockPublisher
	svc     *PostService
}

func newPostFixture() *postFixture {
	f := &postFixture{
		posts:   new(MockPostRepo),
		marks:   new(MockMarkRepo),
		follows: new(MockFollowRepo),
		access:  new(MockAccessRepo),
		pub:     &MockPublisher{},
	}
	f.svc = NewPostService(f.posts, f.marks, f.follows, f.access, f.pub, zap.NewNop().Sugar())
	return f
}

func publicPost(id, author string) *models.Post {
	return &models.Post{ID: id, AuthorID: author, Title: "t", Visibility: models.VisibilityPublic}
}

func TestSetLikedTogglesOnceAndNotifiesAuthor(t *testing.T) {
	f := newPostFixture()
	p := publicPost("p1", "bob")

	f.posts.On("FindByID", "p1").Return(p, nil)
	f.marks.On("Add", "p1", "alice", repository.MarkLike).Return(true, nil)
	f.posts.On("IncCounter", "p1", "like_count", int64(1)).Return(nil)
	f.marks.On("Exists", "p1", "alice", repository.MarkLike).Return(true, nil)
	f.marks.On("Exists", "p1", "alice", repository.MarkSave).Return(false, nil)

	view, err := f.svc.SetLiked(context.Background(), "alice", "p1", true)
	require.NoError(t, err)
	assert.True(t, view.Liked)
	assert.Equal(t, int64(1), view.LikeCount)

	require.Len(t, f.pub.Events, 1)
	assert.Equal(t, events.PostLiked, f.pub.Events[0].Kind)
	assert.Equal(t, []string{"bob"}, f.pub.Events[0].Recipients)
}

func TestSetLikedAlreadyLikedIsIdempotent(t *testing.T) {
	f := newPostFixture()
	p := publicPost("p1", "bob")
	p.LikeCount = 1

	f.posts.On("FindByID", "p1").Return(p, nil)
	f.marks.On("Add", "p1", "alice", repository.MarkLike).Return(false, nil)
	f.marks.On("Exists", "p1", "alice", repository.MarkLike).Return(true, nil)
	f.marks.On("Exists", "p1", "alice", repository.MarkSave).Return(false, nil)

	view, err := f.svc.SetLiked(context.Background(), "alice", "p1", true)
	require.NoError(t, err)
	assert.Equal(t, int64(1), view.LikeCount, "counter untouched on repeat like")
	f.posts.AssertNotCalled(t, "IncCounter", mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, f.pub.Events)
}

func TestSetLikedOffDecrements(t *testing.T) {
	f := newPostFixture()
	p := publicPost("p1", "bob")
	p.LikeCount = 5

	f.posts.On("FindByID", "p1").Return(p, nil)
	f.marks.On("Remove", "p1", "alice", repository.MarkLike).Return(true, nil)
	f.posts.On("IncCounter", "p1", "like_count", int64(-1)).Return(nil)
	f.marks.On("Exists", "p1", "alice", repository.MarkLike).Return(false, nil)
	f.marks.On("Exists", "p1", "alice", repository.MarkSave).Return(false, nil)

	view, err := f.svc.SetLiked(context.Background(), "alice", "p1", false)
	require.NoError(t, err)
	assert.False(t, view.Liked)
	assert.Equal(t, int64(4), view.LikeCount)
	assert.Empty(t, f.pub.Events, "unliking is silent")
}

func TestSetSavedOwnPostDoesNotNotify(t *testing.T) {
	f := newPostFixture()
	p := publicPost("p1", "alice")

	f.posts.On("FindByID", "p1").Return(p, nil)
	f.marks.On("Add", "p1", "alice", repository.MarkSave).Return(true, nil)
	f.posts.On("IncCounter", "p1", "save_count", int64(1)).Return(nil)
	f.marks.On("Exists", "p1", "alice", repository.MarkLike).Return(false, nil)
	f.marks.On("Exists", "p1", "alice", repository.MarkSave).Return(true, nil)

	view, err := f.svc.SetSaved(context.Background(), "alice", "p1", true)
	require.NoError(t, err)
	assert.True(t, view.Saved)
	assert.Empty(t, f.pub.Events)
}

func TestGetPrivatePostHiddenFromOthers(t *testing.T) {
	f := newPostFixture()
	p := publicPost("p1", "bob")
	p.Visibility = models.VisibilityPrivate

	f.posts.On("FindByID", "p1").Return(p, nil)

	_, err := f.svc.Get(context.Background(), "alice", "p1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateRejectsUnknownVisibility(t *testing.T) {
	f := newPostFixture()

	_, err := f.svc.Create(context.Background(), "alice", "title", "", nil, "", "vip_only")
	assert.True(t, IsValidation(err))
	f.posts.AssertNotCalled(t, "Insert", mock.Anything)
}

func TestDeleteForeignPostForbidden(t *testing.T) {
	f := newPostFixture()
	f.posts.On("FindByID", "p1").Return(publicPost("p1", "bob"), nil)

	err := f.svc.Delete(context.Background(), "alice", "p1")
	assert.ErrorIs(t, err, ErrForbidden)
	f.posts.AssertNotCalled(t, "Delete", mock.Anything)
}

func TestHasMediaAccessMatrix(t *testing.T) {
	f := newPostFixture()
	ctx := context.Background()

	pub := publicPost("p1", "bob")
	assert.True(t, f.svc.HasMediaAccess(ctx, pub, "alice"))

	followers := publicPost("p2", "bob")
	followers.Visibility = models.VisibilityFollowers
	f.follows.On("Exists", "alice", "bob").Return(true, nil).Once()
	assert.True(t, f.svc.HasMediaAccess(ctx, followers, "alice"))
	f.follows.On("Exists", "alice", "bob").Return(false, nil).Once()
	assert.False(t, f.svc.HasMediaAccess(ctx, followers, "alice"))

	gated := publicPost("p3", "bob")
	gated.Visibility = models.VisibilityOnRequest
	gated.MediaID = "m3"
	f.access.On("HasApproved", "m3", "alice").Return(false, nil).Once()
	assert.False(t, f.svc.HasMediaAccess(ctx, gated, "alice"))
	f.access.On("HasApproved", "m3", "alice").Return(true, nil).Once()
	assert.True(t, f.svc.HasMediaAccess(ctx, gated, "alice"))

	private := publicPost("p4", "bob")
	private.Visibility = models.VisibilityPrivate
	assert.False(t, f.svc.HasMediaAccess(ctx, private, "alice"))
	assert.True(t, f.svc.HasMediaAccess(ctx, private, "bob"), "owner always passes")
}

func TestFeedDecoratesViewerFlags(t *testing.T) {
	f := newPostFixture()

	p1 := publicPost("p1", "bob")
	p2 := publicPost("p2", "carol")
	f.posts.On("List", "alice", int64(20), mock.AnythingOfType("time.Time")).
		Return([]*models.Post{p1, p2}, nil)
	f.marks.On("ForPosts", []string{"p1", "p2"}, "alice", repository.MarkLike).
		Return(map[string]bool{"p1": true}, nil)
	f.marks.On("ForPosts", []string{"p1", "p2"}, "alice", repository.MarkSave).
		Return(map[string]bool{"p2": true}, nil)

	views, err := f.svc.Feed(context.Background(), "alice", 20, time.Time{})
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.True(t, views[0].Liked)
	assert.False(t, views[0].Saved)
	assert.False(t, views[1].Liked)
	assert.True(t, views[1].Saved)
	assert.True(t, views[0].HasAccess)
}
