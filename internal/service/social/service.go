package social

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"livefeed/internal/domain"
	"livefeed/internal/metrics"
	"livefeed/internal/model"
	"livefeed/internal/repository"
)

const MaxCommentLength = 2000

type Service struct {
	repo    repository.SocialRepository
	metrics *metrics.Metrics
	log     *zap.Logger
}

func NewService(repo repository.SocialRepository, m *metrics.Metrics, logger *zap.Logger) *Service {
	return &Service{repo: repo, metrics: m, log: logger}
}

func IsValidTarget(kind string) bool {
	switch kind {
	case model.TargetComment, model.TargetPost, model.TargetTeamPost:
		return true
	default:
		return false
	}
}

// SetReaction inserts or deletes the user's reaction row and returns the
// target's reaction count afterwards. Repeating a call is harmless.
func (s *Service) SetReaction(ctx context.Context, reaction model.Reaction, active bool) (int, error) {
	if !IsValidTarget(reaction.TargetKind) || reaction.TargetID == "" {
		return 0, domain.ErrInvalidReaction
	}
	if reaction.UserID == "" {
		return 0, domain.ErrMissingUser
	}

	var err error
	if active {
		err = s.repo.InsertReaction(ctx, reaction)
	} else {
		err = s.repo.DeleteReaction(ctx, reaction)
	}
	if err != nil {
		s.metrics.Mutation("reaction", "error")
		s.log.Error("store reaction failed",
			zap.String("target_kind", reaction.TargetKind),
			zap.String("target_id", reaction.TargetID),
			zap.Bool("active", active),
			zap.Error(err),
		)
		return 0, err
	}
	s.metrics.Mutation("reaction", "ok")

	count, err := s.repo.CountReactions(ctx, reaction.TargetKind, reaction.TargetID)
	if err != nil {
		s.log.Error("store count reactions failed", zap.String("target_id", reaction.TargetID), zap.Error(err))
		return 0, err
	}
	return count, nil
}

func (s *Service) CreateComment(ctx context.Context, comment model.Comment) (model.Comment, error) {
	comment.Body = strings.TrimSpace(comment.Body)
	switch {
	case comment.UserID == "":
		return model.Comment{}, domain.ErrMissingUser
	case comment.PostID == "":
		return model.Comment{}, domain.ErrMissingPost
	case comment.Body == "":
		return model.Comment{}, domain.ErrEmptyComment
	case utf8.RuneCountInString(comment.Body) > MaxCommentLength:
		return model.Comment{}, domain.ErrCommentTooLong
	}

	if comment.ParentID != "" {
		parent, err := s.repo.GetComment(ctx, comment.ParentID)
		if errors.Is(err, domain.ErrNotFound) {
			return model.Comment{}, domain.ErrInvalidParent
		}
		if err != nil {
			s.log.Error("store get parent comment failed", zap.String("parent_id", comment.ParentID), zap.Error(err))
			return model.Comment{}, err
		}
		if parent.PostID != comment.PostID {
			return model.Comment{}, domain.ErrInvalidParent
		}
	}

	created, err := s.repo.CreateComment(ctx, comment)
	if err != nil {
		s.metrics.Mutation("comment", "error")
		s.log.Error("store create comment failed", zap.String("post_id", comment.PostID), zap.Error(err))
		return model.Comment{}, err
	}
	s.metrics.Mutation("comment", "ok")
	return created, nil
}
