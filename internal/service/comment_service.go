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

type CommentRepository interface {
	Insert(ctx context.Context, c *models.Comment) error
	FindByID(ctx context.Context, id string) (*models.Comment, error)
	ListTop(ctx context.Context, postID string, limit int64, before time.Time) ([]*models.Comment, error)
	ListReplies(ctx context.Context, parentID string, limit int64, before time.Time) ([]*models.Comment, error)
	UpdateBody(ctx context.Context, id, body string) error
	Delete(ctx context.Context, id string) error
	IncReplyCount(ctx context.Context, id string, delta int64) error
}

type CommentService struct {
	comments CommentRepository
	posts    PostRepository
	pub      EventPublisher
	log      *zap.SugaredLogger
}

func NewCommentService(comments CommentRepository, posts PostRepository, pub EventPublisher, log *zap.SugaredLogger) *CommentService {
	return &CommentService{comments: comments, posts: posts, pub: pub, log: log}
}

// Create adds a comment, optionally as a reply. Nesting is capped at
// models.MaxCommentDepth levels.
func (s *CommentService) Create(ctx context.Context, authorID, postID, parentID, body string) (*models.Comment, error) {
	if err := validate.MessageBody(body); err != nil {
		return nil, Invalid(err.Error())
	}
	post, err := s.viewablePost(ctx, authorID, postID)
	if err != nil {
		return nil, err
	}

	depth := 0
	var parent *models.Comment
	if parentID != "" {
		parent, err = s.comments.FindByID(ctx, parentID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		if parent.PostID != postID {
			return nil, Invalid("parent comment belongs to a different post")
		}
		depth = parent.Depth + 1
		if depth >= models.MaxCommentDepth {
			return nil, Invalid("maximum reply depth reached")
		}
	}

	c := &models.Comment{
		ID:       utils.NewID(),
		PostID:   postID,
		ParentID: parentID,
		AuthorID: authorID,
		Body:     body,
		Depth:    depth,
	}
	if err := s.comments.Insert(ctx, c); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	if parent != nil {
		if err := s.comments.IncReplyCount(ctx, parent.ID, 1); err != nil {
			s.log.Errorw("bump reply count", "comment", parent.ID, "err", err)
		}
	}
	if err := s.posts.IncCounter(ctx, postID, "comment_count", 1); err != nil {
		s.log.Errorw("bump comment count", "post", postID, "err", err)
	}

	recipient := post.AuthorID
	kind := events.CommentCreated
	if parent != nil {
		recipient = parent.AuthorID
	}
	if s.pub != nil && recipient != authorID {
		if err := s.pub.Publish(ctx, events.Event{
			Kind:       kind,
			ActorID:    authorID,
			Recipients: []string{recipient},
			TargetID:   c.ID,
			TargetType: "comment",
		}); err != nil {
			s.log.Errorw("publish comment event", "comment", c.ID, "err", err)
		}
	}
	return c, nil
}

func (s *CommentService) ListTop(ctx context.Context, viewerID, postID string, limit int64, before time.Time) ([]*models.Comment, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if _, err := s.viewablePost(ctx, viewerID, postID); err != nil {
		return nil, err
	}
	return s.comments.ListTop(ctx, postID, limit, before)
}

// ListReplies lazily fetches one node's direct replies.
func (s *CommentService) ListReplies(ctx context.Context, viewerID, parentID string, limit int64, before time.Time) ([]*models.Comment, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	parent, err := s.comments.FindByID(ctx, parentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if _, err := s.viewablePost(ctx, viewerID, parent.PostID); err != nil {
		return nil, err
	}
	return s.comments.ListReplies(ctx, parentID, limit, before)
}

func (s *CommentService) Edit(ctx context.Context, authorID, commentID, body string) (*models.Comment, error) {
	if err := validate.MessageBody(body); err != nil {
		return nil, Invalid(err.Error())
	}
	c, err := s.ownComment(ctx, authorID, commentID)
	if err != nil {
		return nil, err
	}
	if err := s.comments.UpdateBody(ctx, c.ID, body); err != nil {
		return nil, err
	}
	c.Body = body
	now := time.Now().UTC()
	c.EditedAt = &now
	return c, nil
}

// Delete removes the comment and decrements the parent's reply counter and
// the post's comment counter, no recount round-trip.
func (s *CommentService) Delete(ctx context.Context, authorID, commentID string) error {
	c, err := s.ownComment(ctx, authorID, commentID)
	if err != nil {
		return err
	}
	if err := s.comments.Delete(ctx, c.ID); err != nil {
		return err
	}
	if c.ParentID != "" {
		if err := s.comments.IncReplyCount(ctx, c.ParentID, -1); err != nil {
			s.log.Errorw("drop reply count", "comment", c.ParentID, "err", err)
		}
	}
	if err := s.posts.IncCounter(ctx, c.PostID, "comment_count", -1); err != nil {
		s.log.Errorw("drop comment count", "post", c.PostID, "err", err)
	}
	return nil
}

// viewablePost applies the same rule as the post feed: private posts do not
// exist for anyone but their author, comments included.
func (s *CommentService) viewablePost(ctx context.Context, viewerID, postID string) (*models.Post, error) {
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

func (s *CommentService) ownComment(ctx context.Context, authorID, commentID string) (*models.Comment, error) {
	c, err := s.comments.FindByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if c.AuthorID != authorID {
		return nil, ErrForbidden
	}
	return c, nil
}
