package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	_ "image/jpeg"
	"image/png"
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

type stubGate struct{ allow bool }

func (g stubGate) HasMediaAccess(ctx context.Context, p *models.Post, viewerID string) bool {
	return g.allow
}

type mediaFixture struct {
	media  *MockMediaRepo
	posts  *MockPostRepo
	access *MockAccessRepo
	store  *MockBlobStore
	kv     *MockKV
	pub    *MockPublisher
}

func newMediaService(f *mediaFixture, gate MediaGate) *MediaService {
	return NewMediaService(f.media, f.posts, f.access, f.store, f.kv, gate, f.pub,
		15*time.Minute, zap.NewNop().Sugar())
}

func newMediaFixture() *mediaFixture {
	return &mediaFixture{
		media:  new(MockMediaRepo),
		posts:  new(MockPostRepo),
		access: new(MockAccessRepo),
		store:  NewMockBlobStore(),
		kv:     NewMockKV(),
		pub:    &MockPublisher{},
	}
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{uint8(x), uint8(y), 100, 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestUploadImageReencodesAndStoresThumbnail(t *testing.T) {
	f := newMediaFixture()
	svc := newMediaService(f, stubGate{})

	f.media.On("Insert", mock.AnythingOfType("*models.Media")).Return(nil)

	src := pngBytes(t, 640, 480)
	m, err := svc.Upload(context.Background(), "alice", "reel.png", "image/png", src)
	require.NoError(t, err)
	assert.Equal(t, "image", m.Type)
	assert.Equal(t, "image/jpeg", m.ContentType, "images are normalized to jpeg")
	assert.NotEmpty(t, m.Thumbnail)

	stored, ok := f.store.Objects[m.Key]
	require.True(t, ok)
	assert.NotEqual(t, src, stored, "original bytes are never stored verbatim")
	_, thumbStored := f.store.Objects[m.Thumbnail]
	assert.True(t, thumbStored)
}

func TestUploadRejectsWrongTypeAndEmptyFile(t *testing.T) {
	f := newMediaFixture()
	svc := newMediaService(f, stubGate{})

	_, err := svc.Upload(context.Background(), "alice", "x.pdf", "application/pdf", []byte("%PDF"))
	assert.True(t, IsValidation(err))

	_, err = svc.Upload(context.Background(), "alice", "x.png", "image/png", nil)
	assert.True(t, IsValidation(err))

	f.media.AssertNotCalled(t, "Insert", mock.Anything)
	assert.Empty(t, f.store.Objects)
}

func TestUploadGarbageImageRejected(t *testing.T) {
	f := newMediaFixture()
	svc := newMediaService(f, stubGate{})

	_, err := svc.Upload(context.Background(), "alice", "x.png", "image/png", []byte("not an image"))
	assert.True(t, IsValidation(err))
}

func TestUploadAvatarIsSquare(t *testing.T) {
	f := newMediaFixture()
	svc := newMediaService(f, stubGate{})

	f.media.On("Insert", mock.AnythingOfType("*models.Media")).Return(nil)

	m, err := svc.UploadAvatar(context.Background(), "alice", "face.png", "image/png", pngBytes(t, 800, 300))
	require.NoError(t, err)

	stored := f.store.Objects[m.Key]
	img, _, err := image.Decode(bytes.NewReader(stored))
	require.NoError(t, err)
	assert.Equal(t, img.Bounds().Dx(), img.Bounds().Dy())
}

func TestSignedURLOwnerBypassesGating(t *testing.T) {
	f := newMediaFixture()
	svc := newMediaService(f, stubGate{allow: false})

	f.media.On("FindByID", "m1").Return(&models.Media{ID: "m1", UserID: "alice", Key: "alice/m1"}, nil)

	url, err := svc.SignedURL(context.Background(), "alice", "m1")
	require.NoError(t, err)
	assert.Contains(t, url, "alice/m1")
	f.posts.AssertNotCalled(t, "FindByMediaID", mock.Anything)
}

func TestSignedURLDeniedWithoutGrant(t *testing.T) {
	f := newMediaFixture()
	svc := newMediaService(f, stubGate{allow: false})

	f.media.On("FindByID", "m1").Return(&models.Media{ID: "m1", UserID: "bob", Key: "bob/m1"}, nil)
	f.posts.On("FindByMediaID", "m1").Return(publicPost("p1", "bob"), nil)

	_, err := svc.SignedURL(context.Background(), "alice", "m1")
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestSignedURLUnattachedMediaIsOwnerOnly(t *testing.T) {
	f := newMediaFixture()
	svc := newMediaService(f, stubGate{allow: true})

	f.media.On("FindByID", "m1").Return(&models.Media{ID: "m1", UserID: "bob", Key: "bob/m1"}, nil)
	f.posts.On("FindByMediaID", "m1").Return(nil, repository.ErrNotFound)

	_, err := svc.SignedURL(context.Background(), "alice", "m1")
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestSignedURLCachedPerViewer(t *testing.T) {
	f := newMediaFixture()
	svc := newMediaService(f, stubGate{allow: true})

	f.media.On("FindByID", "m1").Return(&models.Media{ID: "m1", UserID: "bob", Key: "bob/m1"}, nil)
	f.posts.On("FindByMediaID", "m1").Return(publicPost("p1", "bob"), nil)

	first, err := svc.SignedURL(context.Background(), "alice", "m1")
	require.NoError(t, err)
	assert.Equal(t, first, f.kv.data["signed_url:alice:m1"])

	second, err := svc.SignedURL(context.Background(), "alice", "m1")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSignedURLShortTTLSkipsCache(t *testing.T) {
	f := newMediaFixture()
	svc := NewMediaService(f.media, f.posts, f.access, f.store, f.kv, stubGate{allow: true}, f.pub,
		20*time.Second, zap.NewNop().Sugar())

	f.media.On("FindByID", "m1").Return(&models.Media{ID: "m1", UserID: "bob", Key: "bob/m1"}, nil)
	f.posts.On("FindByMediaID", "m1").Return(publicPost("p1", "bob"), nil)

	url, err := svc.SignedURL(context.Background(), "alice", "m1")
	require.NoError(t, err)
	assert.NotEmpty(t, url)
	assert.Empty(t, f.kv.data, "no cache entry when the TTL leaves no margin")
}

func TestRequestAccessDeduplicatesPending(t *testing.T) {
	f := newMediaFixture()
	svc := newMediaService(f, stubGate{})

	f.media.On("FindByID", "m1").Return(&models.Media{ID: "m1", UserID: "bob"}, nil)
	pending := &models.AccessRequest{ID: "r1", MediaID: "m1", RequesterID: "alice", OwnerID: "bob", Status: models.AccessPending}
	f.access.On("Find", "m1", "alice").Return(pending, nil)

	req, err := svc.RequestAccess(context.Background(), "alice", "m1")
	require.NoError(t, err)
	assert.Equal(t, "r1", req.ID)
	f.access.AssertNotCalled(t, "Insert", mock.Anything)
	assert.Empty(t, f.pub.Events)
}

func TestRequestAccessCreatesAndNotifiesOwner(t *testing.T) {
	f := newMediaFixture()
	svc := newMediaService(f, stubGate{})

	f.media.On("FindByID", "m1").Return(&models.Media{ID: "m1", UserID: "bob"}, nil)
	f.access.On("Find", "m1", "alice").Return(nil, repository.ErrNotFound)
	f.posts.On("FindByMediaID", "m1").Return(publicPost("p1", "bob"), nil)
	f.access.On("Insert", mock.AnythingOfType("*models.AccessRequest")).Return(nil)

	req, err := svc.RequestAccess(context.Background(), "alice", "m1")
	require.NoError(t, err)
	assert.Equal(t, models.AccessPending, req.Status)
	assert.Equal(t, "p1", req.PostID)

	require.Len(t, f.pub.Events, 1)
	assert.Equal(t, events.AccessRequested, f.pub.Events[0].Kind)
	assert.Equal(t, []string{"bob"}, f.pub.Events[0].Recipients)
}

func TestRequestAccessOwnMediaRejected(t *testing.T) {
	f := newMediaFixture()
	svc := newMediaService(f, stubGate{})

	f.media.On("FindByID", "m1").Return(&models.Media{ID: "m1", UserID: "alice"}, nil)

	_, err := svc.RequestAccess(context.Background(), "alice", "m1")
	assert.True(t, IsValidation(err))
}

func TestDecideApproveAndDeny(t *testing.T) {
	f := newMediaFixture()
	svc := newMediaService(f, stubGate{})

	pending := &models.AccessRequest{ID: "r1", MediaID: "m1", RequesterID: "alice", OwnerID: "bob", Status: models.AccessPending}
	f.access.On("FindByID", "r1").Return(pending, nil)
	f.access.On("SetStatus", "r1", models.AccessApproved).Return(nil)

	req, err := svc.Decide(context.Background(), "bob", "r1", true)
	require.NoError(t, err)
	assert.Equal(t, models.AccessApproved, req.Status)

	require.Len(t, f.pub.Events, 1)
	assert.Equal(t, events.AccessDecided, f.pub.Events[0].Kind)
	assert.Equal(t, []string{"alice"}, f.pub.Events[0].Recipients)

	// already decided
	_, err = svc.Decide(context.Background(), "bob", "r1", false)
	assert.True(t, IsValidation(err))
}

func TestDecideOnlyOwner(t *testing.T) {
	f := newMediaFixture()
	svc := newMediaService(f, stubGate{})

	pending := &models.AccessRequest{ID: "r1", OwnerID: "bob", Status: models.AccessPending}
	f.access.On("FindByID", "r1").Return(pending, nil)

	_, err := svc.Decide(context.Background(), "mallory", "r1", true)
	assert.ErrorIs(t, err, ErrForbidden)
	f.access.AssertNotCalled(t, "SetStatus", mock.Anything, mock.Anything)
}
