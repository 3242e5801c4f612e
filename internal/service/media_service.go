package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/gcolon75/Project-Valine-sub011/internal/events"
	"github.com/gcolon75/Project-Valine-sub011/internal/imageproc"
	"github.com/gcolon75/Project-Valine-sub011/internal/models"
	"github.com/gcolon75/Project-Valine-sub011/internal/repository"
	"github.com/gcolon75/Project-Valine-sub011/internal/utils"
)

const MaxUploadBytes = 50 * 1024 * 1024

var allowedContentTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/jpg":  true,
	"image/webp": true,
	"video/mp4":  true,
}

type MediaRepository interface {
	Insert(ctx context.Context, m *models.Media) error
	FindByID(ctx context.Context, id string) (*models.Media, error)
}

// BlobStore is the object-storage surface the media service needs.
type BlobStore interface {
	Upload(ctx context.Context, key, contentType string, data []byte) error
	PresignURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// MediaGate answers the gating question for a post; implemented by PostService.
type MediaGate interface {
	HasMediaAccess(ctx context.Context, p *models.Post, viewerID string) bool
}

type MediaService struct {
	media      MediaRepository
	posts      PostRepository
	access     AccessRepository
	store      BlobStore
	urlCache   KVStore
	gate       MediaGate
	pub        EventPublisher
	presignTTL time.Duration
	log        *zap.SugaredLogger
}

func NewMediaService(media MediaRepository, posts PostRepository, access AccessRepository,
	store BlobStore, urlCache KVStore, gate MediaGate, pub EventPublisher,
	presignTTL time.Duration, log *zap.SugaredLogger) *MediaService {
	return &MediaService{
		media:      media,
		posts:      posts,
		access:     access,
		store:      store,
		urlCache:   urlCache,
		gate:       gate,
		pub:        pub,
		presignTTL: presignTTL,
		log:        log,
	}
}

// Upload validates, transforms and stores one media object. Images are
// re-encoded (which strips EXIF) and get a thumbnail; video passes through.
func (s *MediaService) Upload(ctx context.Context, userID, filename, contentType string, data []byte) (*models.Media, error) {
	if err := validateUpload(contentType, int64(len(data))); err != nil {
		return nil, err
	}
	id := utils.NewID()
	key := userID + "/" + id + "_" + filename
	mediaType := "video"

	if strings.HasPrefix(contentType, "image/") {
		mediaType = "image"
		reencoded, err := imageproc.Reencode(data)
		if err != nil {
			return nil, Invalid("file is not a decodable image")
		}
		data = reencoded
		contentType = "image/jpeg"
	}

	if err := s.store.Upload(ctx, key, contentType, data); err != nil {
		return nil, fmt.Errorf("store media: %w", err)
	}

	thumbKey := ""
	if mediaType == "image" {
		if thumb, err := imageproc.Thumbnail(data); err == nil {
			thumbKey = key + "_thumb.jpg"
			if err := s.store.Upload(ctx, thumbKey, "image/jpeg", thumb); err != nil {
				s.log.Errorw("store thumbnail", "key", thumbKey, "err", err)
				thumbKey = ""
			}
		}
	}

	m := &models.Media{
		ID:          id,
		UserID:      userID,
		Key:         key,
		Thumbnail:   thumbKey,
		Type:        mediaType,
		Size:        int64(len(data)),
		ContentType: contentType,
	}
	if err := s.media.Insert(ctx, m); err != nil {
		return nil, fmt.Errorf("record media: %w", err)
	}
	return m, nil
}

// UploadAvatar center-crops to a square and resizes before storing.
func (s *MediaService) UploadAvatar(ctx context.Context, userID, filename, contentType string, data []byte) (*models.Media, error) {
	if !strings.HasPrefix(contentType, "image/") {
		return nil, Invalid("avatar must be an image")
	}
	if err := validateUpload(contentType, int64(len(data))); err != nil {
		return nil, err
	}
	square, err := imageproc.SquareAvatar(data)
	if err != nil {
		return nil, Invalid("file is not a decodable image")
	}
	id := utils.NewID()
	key := userID + "/avatar_" + id + ".jpg"
	if err := s.store.Upload(ctx, key, "image/jpeg", square); err != nil {
		return nil, fmt.Errorf("store avatar: %w", err)
	}
	m := &models.Media{
		ID:          id,
		UserID:      userID,
		Key:         key,
		Type:        "image",
		Size:        int64(len(square)),
		ContentType: "image/jpeg",
	}
	if err := s.media.Insert(ctx, m); err != nil {
		return nil, fmt.Errorf("record avatar: %w", err)
	}
	return m, nil
}

// SignedURL enforces gating, then returns a presigned GET URL. URLs are
// cached per viewer for the presign TTL.
func (s *MediaService) SignedURL(ctx context.Context, viewerID, mediaID string) (string, error) {
	m, err := s.media.FindByID(ctx, mediaID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	if m.UserID != viewerID {
		post, err := s.posts.FindByMediaID(ctx, mediaID)
		if err == nil {
			if !s.gate.HasMediaAccess(ctx, post, viewerID) {
				return "", ErrAccessDenied
			}
		} else if !errors.Is(err, repository.ErrNotFound) {
			return "", err
		}
		// media not attached to any post is reachable only by its owner
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrAccessDenied
		}
	}

	cacheKey := "signed_url:" + viewerID + ":" + mediaID
	if s.urlCache != nil {
		if cached, err := s.urlCache.Get(ctx, cacheKey); err == nil && cached != "" {
			return cached, nil
		}
	}
	url, err := s.store.PresignURL(ctx, m.Key, s.presignTTL)
	if err != nil {
		return "", fmt.Errorf("presign: %w", err)
	}
	// cache a bit shorter than the URL's life so we never hand out a dead
	// link; TTLs too short to leave a margin are not cached at all
	if cacheTTL := s.presignTTL - 30*time.Second; s.urlCache != nil && cacheTTL > 0 {
		_ = s.urlCache.Set(ctx, cacheKey, url, cacheTTL)
	}
	return url, nil
}

// RequestAccess records a pending request; repeating it returns the existing
// pending request instead of stacking duplicates.
func (s *MediaService) RequestAccess(ctx context.Context, viewerID, mediaID string) (*models.AccessRequest, error) {
	m, err := s.media.FindByID(ctx, mediaID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if m.UserID == viewerID {
		return nil, Invalid("cannot request access to your own media")
	}
	if existing, err := s.access.Find(ctx, mediaID, viewerID); err == nil {
		if existing.Status == models.AccessPending || existing.Status == models.AccessApproved {
			return existing, nil
		}
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	req := &models.AccessRequest{
		ID:          utils.NewID(),
		MediaID:     mediaID,
		RequesterID: viewerID,
		OwnerID:     m.UserID,
		Status:      models.AccessPending,
	}
	if post, err := s.posts.FindByMediaID(ctx, mediaID); err == nil {
		req.PostID = post.ID
	}
	if err := s.access.Insert(ctx, req); err != nil {
		return nil, fmt.Errorf("record access request: %w", err)
	}
	if s.pub != nil {
		if err := s.pub.Publish(ctx, events.Event{
			Kind:       events.AccessRequested,
			ActorID:    viewerID,
			Recipients: []string{m.UserID},
			TargetID:   mediaID,
			TargetType: "media",
		}); err != nil {
			s.log.Errorw("publish access request", "media", mediaID, "err", err)
		}
	}
	return req, nil
}

// Decide lets the owner approve or deny a pending request.
func (s *MediaService) Decide(ctx context.Context, ownerID, requestID string, approve bool) (*models.AccessRequest, error) {
	req, err := s.access.FindByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if req.OwnerID != ownerID {
		return nil, ErrForbidden
	}
	if req.Status != models.AccessPending {
		return nil, Invalid("request already decided")
	}
	status := models.AccessDenied
	if approve {
		status = models.AccessApproved
	}
	if err := s.access.SetStatus(ctx, req.ID, status); err != nil {
		return nil, err
	}
	req.Status = status
	if s.pub != nil {
		if err := s.pub.Publish(ctx, events.Event{
			Kind:       events.AccessDecided,
			ActorID:    ownerID,
			Recipients: []string{req.RequesterID},
			TargetID:   req.MediaID,
			TargetType: "media",
		}); err != nil {
			s.log.Errorw("publish access decision", "request", req.ID, "err", err)
		}
	}
	return req, nil
}

func (s *MediaService) ListAccessRequests(ctx context.Context, ownerID string) ([]*models.AccessRequest, error) {
	return s.access.ListForOwner(ctx, ownerID)
}

func (s *MediaService) Get(ctx context.Context, id string) (*models.Media, error) {
	m, err := s.media.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return m, nil
}

func validateUpload(contentType string, size int64) error {
	if size == 0 {
		return Invalid("file is empty")
	}
	if size > MaxUploadBytes {
		return Invalid("file exceeds the 50MB limit")
	}
	if !allowedContentTypes[contentType] {
		return Invalid("unsupported file type")
	}
	return nil
}
