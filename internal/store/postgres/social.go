package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"livefeed/internal/domain"
	"livefeed/internal/model"
)

const refreshCommentLikes = `
	UPDATE comments
	SET like_count = (
		SELECT count(*) FROM reactions
		WHERE target_kind = 'comment' AND target_id = $1
	)
	WHERE id::text = $1
`

func (s *Store) InsertReaction(ctx context.Context, reaction model.Reaction) error {
	const query = `
		INSERT INTO reactions (target_kind, target_id, user_id)
		VALUES ($1, $2, $3)
		ON CONFLICT DO NOTHING
	`
	return s.writeReaction(ctx, query, reaction)
}

func (s *Store) DeleteReaction(ctx context.Context, reaction model.Reaction) error {
	const query = `
		DELETE FROM reactions
		WHERE target_kind = $1 AND target_id = $2 AND user_id = $3
	`
	return s.writeReaction(ctx, query, reaction)
}

func (s *Store) writeReaction(ctx context.Context, query string, reaction model.Reaction) error {
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, query, reaction.TargetKind, reaction.TargetID, reaction.UserID); err != nil {
			return err
		}
		if reaction.TargetKind != model.TargetComment {
			return nil
		}
		_, err := tx.Exec(ctx, refreshCommentLikes, reaction.TargetID)
		return err
	})
	if err != nil {
		s.log.Error("pg write reaction failed",
			zap.String("target_kind", reaction.TargetKind),
			zap.String("target_id", reaction.TargetID),
			zap.Error(err),
		)
	}
	return err
}

func (s *Store) CountReactions(ctx context.Context, targetKind, targetID string) (int, error) {
	const query = `
		SELECT count(*)
		FROM reactions
		WHERE target_kind = $1 AND target_id = $2
	`
	var count int
	if err := s.pool.QueryRow(ctx, query, targetKind, targetID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Store) CreateComment(ctx context.Context, comment model.Comment) (model.Comment, error) {
	const query = `
		INSERT INTO comments (post_id, parent_id, user_id, body)
		VALUES ($1, NULLIF($2, '')::uuid, $3, $4)
		RETURNING id::text, created_at
	`
	err := s.pool.QueryRow(ctx, query, comment.PostID, comment.ParentID, comment.UserID, comment.Body).
		Scan(&comment.ID, &comment.CreatedAt)
	if err != nil {
		s.log.Error("pg create comment failed", zap.String("post_id", comment.PostID), zap.Error(err))
		return model.Comment{}, err
	}
	comment.LikeCount = 0
	comment.Replies = nil
	comment.Pending = false
	return comment, nil
}

func (s *Store) GetComment(ctx context.Context, id string) (model.Comment, error) {
	const query = `
		SELECT id::text, post_id, COALESCE(parent_id::text, ''), user_id, body, like_count, created_at
		FROM comments
		WHERE id::text = $1
	`
	var c model.Comment
	err := s.pool.QueryRow(ctx, query, id).
		Scan(&c.ID, &c.PostID, &c.ParentID, &c.UserID, &c.Body, &c.LikeCount, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Comment{}, domain.ErrNotFound
	}
	if err != nil {
		return model.Comment{}, err
	}
	return c, nil
}
