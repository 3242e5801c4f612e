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

const defaultFeedPage = 20

type PostRepository interface {
	Insert(ctx context.Context, p *models.Post) error
	FindByID(ctx context.Context, id string) (*models.Post, error)
	FindByMediaID(ctx context.Context, mediaID string) (*models.Post, error)
	List(ctx context.Context, viewerID string, limit int64, before time.Time) ([]*models.Post, error)
	IncCounter(ctx context.Context, postID, field string, delta int64) error
	Delete(ctx context.Context, id string) error
}

type MarkRepository interface {
	Add(ctx context.Context, postID, userID, kind string) (bool, error)
	Remove(ctx context.Context, postID, userID, kind string) (bool, error)
	Exists(ctx context.Context, postID, userID, kind string) (bool, error)
	ForPosts(ctx context.Context, postIDs []string, userID, kind string) (map[string]bool, error)
}

type FollowRepository interface {
	Add(ctx context.Context, followerID, followeeID string) (bool, error)
	Remove(ctx context.Context, followerID, followeeID string) error
	Exists(ctx context.Context, followerID, followeeID string) (bool, error)
	ListFollowers(ctx context.Context, userID string) ([]string, error)
	ListFollowing(ctx context.Context, userID string) ([]string, error)
}

type AccessRepository interface {
	Insert(ctx context.Context, a *models.AccessRequest) error
	FindByID(ctx context.Context, id string) (*models.AccessRequest, error)
	Find(ctx context.Context, mediaID, requesterID string) (*models.AccessRequest, error)
	HasApproved(ctx context.Context, mediaID, requesterID string) (bool, error)
	SetStatus(ctx context.Context, id, status string) error
	ListForOwner(ctx context.Context, ownerID string) ([]*models.AccessRequest, error)
}

type PostService struct {
	posts   PostRepository
	marks   MarkRepository
	follows FollowRepository
	access  AccessRepository
	pub     EventPublisher
	log     *zap.SugaredLogger
}

func NewPostService(posts PostRepository, marks MarkRepository, follows FollowRepository,
	access AccessRepository, pub EventPublisher, log *zap.SugaredLogger) *PostService {
	return &PostService{posts: posts, marks: marks, follows: follows, access: access, pub: pub, log: log}
}

func (s *PostService) Create(ctx context.Context, authorID, title, body string, tags []string, mediaID, visibility string) (*models.Post, error) {
	if err := validate.PostTitle(title); err != nil {
		return nil, Invalid(err.Error())
	}
	if visibility == "" {
		visibility = models.VisibilityPublic
	}
	if !models.ValidVisibility(visibility) {
		return nil, Invalid("unknown visibility value")
	}
	p := &models.Post{
		ID:         utils.NewID(),
		AuthorID:   authorID,
		Title:      title,
		Body:       body,
		Tags:       tags,
		MediaID:    mediaID,
		Visibility: visibility,
	}
	if err := s.posts.Insert(ctx, p); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return p, nil
}

// Feed pages posts newest-first and decorates each with the viewer's flags.
func (s *PostService) Feed(ctx context.Context, viewerID string, limit int64, before time.Time) ([]*models.PostView, error) {
	if limit <= 0 || limit > 100 {
		limit = defaultFeedPage
	}
	posts, err := s.posts.List(ctx, viewerID, limit, before)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	ids := make([]string, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	liked, err := s.marks.ForPosts(ctx, ids, viewerID, repository.MarkLike)
	if err != nil {
		return nil, err
	}
	saved, err := s.marks.ForPosts(ctx, ids, viewerID, repository.MarkSave)
	if err != nil {
		return nil, err
	}
	out := make([]*models.PostView, 0, len(posts))
	for _, p := range posts {
		view := &models.PostView{Post: p, Liked: liked[p.ID], Saved: saved[p.ID]}
		view.HasAccess, view.AccessRequested = s.resolveAccess(ctx, p, viewerID)
		out = append(out, view)
	}
	return out, nil
}

// Get returns one decorated post. Private posts are invisible to everyone
// but the author.
func (s *PostService) Get(ctx context.Context, viewerID, postID string) (*models.PostView, error) {
	p, err := s.visiblePost(ctx, viewerID, postID)
	if err != nil {
		return nil, err
	}
	view := &models.PostView{Post: p}
	view.Liked, _ = s.marks.Exists(ctx, p.ID, viewerID, repository.MarkLike)
	view.Saved, _ = s.marks.Exists(ctx, p.ID, viewerID, repository.MarkSave)
	view.HasAccess, view.AccessRequested = s.resolveAccess(ctx, p, viewerID)
	return view, nil
}

// SetLiked toggles the like mark and returns the reconciled state the client
// should settle on.
func (s *PostService) SetLiked(ctx context.Context, viewerID, postID string, liked bool) (*models.PostView, error) {
	return s.setMark(ctx, viewerID, postID, repository.MarkLike, "like_count", liked)
}

func (s *PostService) SetSaved(ctx context.Context, viewerID, postID string, saved bool) (*models.PostView, error) {
	return s.setMark(ctx, viewerID, postID, repository.MarkSave, "save_count", saved)
}

func (s *PostService) setMark(ctx context.Context, viewerID, postID, kind, field string, on bool) (*models.PostView, error) {
	p, err := s.visiblePost(ctx, viewerID, postID)
	if err != nil {
		return nil, err
	}
	var changed bool
	if on {
		changed, err = s.marks.Add(ctx, p.ID, viewerID, kind)
	} else {
		changed, err = s.marks.Remove(ctx, p.ID, viewerID, kind)
	}
	if err != nil {
		return nil, fmt.Errorf("toggle %s: %w", kind, err)
	}
	if changed {
		delta := int64(1)
		if !on {
			delta = -1
		}
		if err := s.posts.IncCounter(ctx, p.ID, field, delta); err != nil {
			s.log.Errorw("adjust counter", "post", p.ID, "field", field, "err", err)
		} else {
			switch field {
			case "like_count":
				p.LikeCount += delta
			case "save_count":
				p.SaveCount += delta
			}
		}
		if on && s.pub != nil && p.AuthorID != viewerID {
			kindEv := events.PostLiked
			if kind == repository.MarkSave {
				kindEv = events.PostSaved
			}
			if err := s.pub.Publish(ctx, events.Event{
				Kind:       kindEv,
				ActorID:    viewerID,
				Recipients: []string{p.AuthorID},
				TargetID:   p.ID,
				TargetType: "post",
			}); err != nil {
				s.log.Errorw("publish mark event", "post", p.ID, "err", err)
			}
		}
	}
	view := &models.PostView{Post: p}
	view.Liked, _ = s.marks.Exists(ctx, p.ID, viewerID, repository.MarkLike)
	view.Saved, _ = s.marks.Exists(ctx, p.ID, viewerID, repository.MarkSave)
	view.HasAccess, view.AccessRequested = s.resolveAccess(ctx, p, viewerID)
	return view, nil
}

func (s *PostService) Delete(ctx context.Context, viewerID, postID string) error {
	p, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if p.AuthorID != viewerID {
		return ErrForbidden
	}
	return s.posts.Delete(ctx, postID)
}

// HasMediaAccess is the server-side gating decision: public always, followers
// by graph edge, on_request by approved grant, private owner-only.
func (s *PostService) HasMediaAccess(ctx context.Context, p *models.Post, viewerID string) bool {
	if viewerID == p.AuthorID {
		return true
	}
	switch p.Visibility {
	case models.VisibilityPublic:
		return true
	case models.VisibilityFollowers:
		ok, err := s.follows.Exists(ctx, viewerID, p.AuthorID)
		if err != nil {
			s.log.Errorw("follow lookup", "err", err)
			return false
		}
		return ok
	case models.VisibilityOnRequest:
		ok, err := s.access.HasApproved(ctx, p.MediaID, viewerID)
		if err != nil {
			s.log.Errorw("access lookup", "err", err)
			return false
		}
		return ok
	default:
		return false
	}
}

func (s *PostService) resolveAccess(ctx context.Context, p *models.Post, viewerID string) (hasAccess, requested bool) {
	hasAccess = s.HasMediaAccess(ctx, p, viewerID)
	if hasAccess || p.Visibility != models.VisibilityOnRequest || p.MediaID == "" {
		return hasAccess, false
	}
	req, err := s.access.Find(ctx, p.MediaID, viewerID)
	if err == nil && req.Status == models.AccessPending {
		requested = true
	}
	return hasAccess, requested
}

func (s *PostService) visiblePost(ctx context.Context, viewerID, postID string) (*models.Post, error) {
	p, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if p.Visibility == models.VisibilityPrivate && p.AuthorID != viewerID {
		return nil, ErrNotFound
	}
	return p, nil
}
