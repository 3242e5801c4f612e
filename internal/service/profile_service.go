package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/gcolon75/Project-Valine-sub011/internal/events"
	"github.com/gcolon75/Project-Valine-sub011/internal/models"
	"github.com/gcolon75/Project-Valine-sub011/internal/repository"
	"github.com/gcolon75/Project-Valine-sub011/internal/validate"
)

type ProfileService struct {
	users   UserRepository
	follows FollowRepository
	pub     EventPublisher
	log     *zap.SugaredLogger
}

func NewProfileService(users UserRepository, follows FollowRepository, pub EventPublisher, log *zap.SugaredLogger) *ProfileService {
	return &ProfileService{users: users, follows: follows, pub: pub, log: log}
}

func (s *ProfileService) Get(ctx context.Context, userID string) (*models.PublicUser, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u.Public(), nil
}

// ProfileUpdate carries the editable fields; nil pointers leave a field alone.
type ProfileUpdate struct {
	DisplayName   *string
	Bio           *string
	AvatarMediaID *string
	Links         []models.ProfileLink
}

// Update applies the same link bounds the web client enforces inline.
func (s *ProfileService) Update(ctx context.Context, userID string, upd ProfileUpdate) (*models.User, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if upd.DisplayName != nil {
		if err := validate.DisplayName(*upd.DisplayName); err != nil {
			return nil, Invalid(err.Error())
		}
		u.DisplayName = strings.TrimSpace(*upd.DisplayName)
	}
	if upd.Bio != nil {
		u.Bio = *upd.Bio
	}
	if upd.AvatarMediaID != nil {
		u.AvatarMediaID = *upd.AvatarMediaID
	}
	if upd.Links != nil {
		if err := validate.ProfileLinks(upd.Links); err != nil {
			return nil, Invalid(err.Error())
		}
		u.Links = upd.Links
	}
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Follow creates the edge and notifies the followee; repeated follows are
// no-ops.
func (s *ProfileService) Follow(ctx context.Context, followerID, followeeID string) error {
	if followerID == followeeID {
		return Invalid("cannot follow yourself")
	}
	if _, err := s.users.FindByID(ctx, followeeID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	created, err := s.follows.Add(ctx, followerID, followeeID)
	if err != nil {
		return err
	}
	if created && s.pub != nil {
		if err := s.pub.Publish(ctx, events.Event{
			Kind:       events.FollowCreated,
			ActorID:    followerID,
			Recipients: []string{followeeID},
			TargetID:   followerID,
			TargetType: "user",
		}); err != nil {
			s.log.Errorw("publish follow event", "followee", followeeID, "err", err)
		}
	}
	return nil
}

func (s *ProfileService) Unfollow(ctx context.Context, followerID, followeeID string) error {
	return s.follows.Remove(ctx, followerID, followeeID)
}

func (s *ProfileService) Followers(ctx context.Context, userID string) ([]*models.PublicUser, error) {
	ids, err := s.follows.ListFollowers(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.resolve(ctx, ids)
}

func (s *ProfileService) Following(ctx context.Context, userID string) ([]*models.PublicUser, error) {
	ids, err := s.follows.ListFollowing(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.resolve(ctx, ids)
}

func (s *ProfileService) resolve(ctx context.Context, ids []string) ([]*models.PublicUser, error) {
	out := make([]*models.PublicUser, 0, len(ids))
	for _, id := range ids {
		u, err := s.users.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			return nil, err
		}
		out = append(out, u.Public())
	}
	return out, nil
}
