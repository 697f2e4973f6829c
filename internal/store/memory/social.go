package memory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"livefeed/internal/domain"
	"livefeed/internal/model"
)

func (s *Store) InsertReaction(_ context.Context, reaction model.Reaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reactions[reaction] = struct{}{}
	s.adjustLikes(reaction)
	return nil
}

func (s *Store) DeleteReaction(_ context.Context, reaction model.Reaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.reactions, reaction)
	s.adjustLikes(reaction)
	return nil
}

func (s *Store) CountReactions(_ context.Context, targetKind, targetID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.countLocked(targetKind, targetID), nil
}

func (s *Store) CreateComment(_ context.Context, comment model.Comment) (model.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	comment.ID = uuid.NewString()
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now().UTC()
	}
	comment.Replies = nil
	comment.Pending = false
	s.comments[comment.ID] = comment
	return comment, nil
}

func (s *Store) GetComment(_ context.Context, id string) (model.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	comment, ok := s.comments[id]
	if !ok {
		return model.Comment{}, domain.ErrNotFound
	}
	return comment, nil
}

// adjustLikes keeps the denormalised like count of comments in step.
func (s *Store) adjustLikes(reaction model.Reaction) {
	if reaction.TargetKind != model.TargetComment {
		return
	}
	comment, ok := s.comments[reaction.TargetID]
	if !ok {
		return
	}
	comment.LikeCount = s.countLocked(reaction.TargetKind, reaction.TargetID)
	s.comments[comment.ID] = comment
}

func (s *Store) countLocked(targetKind, targetID string) int {
	count := 0
	for reaction := range s.reactions {
		if reaction.TargetKind == targetKind && reaction.TargetID == targetID {
			count++
		}
	}
	return count
}
