package feed

import (
	"context"
	"strings"
	"sync"
	"time"

	"livefeed/internal/domain"
	"livefeed/internal/model"
	"livefeed/internal/optimistic"
)

const MsgReactFailed = "Failed to update reaction"

type ReactionService interface {
	SetReaction(ctx context.Context, reaction model.Reaction, active bool) (int, error)
}

// ReactionBoard tracks the viewer's reactions on feed posts and team posts.
type ReactionBoard struct {
	userID  string
	svc     ReactionService
	toggler *optimistic.Toggler

	mu     sync.Mutex
	notice string
}

func NewReactionBoard(userID string, svc ReactionService, timeout time.Duration) *ReactionBoard {
	b := &ReactionBoard{userID: userID, svc: svc}
	b.toggler = optimistic.NewToggler(b.persist,
		optimistic.WithTimeout(timeout),
		optimistic.WithErrorHandler(func(string, error) {
			b.mu.Lock()
			b.notice = MsgReactFailed
			b.mu.Unlock()
		}),
	)
	return b
}

func reactionKey(kind, id string) string {
	return kind + ":" + id
}

func (b *ReactionBoard) Seed(kind, targetID string, active bool, count int) {
	b.toggler.Seed(reactionKey(kind, targetID), optimistic.State{Active: active, Count: count})
}

func (b *ReactionBoard) State(kind, targetID string) optimistic.State {
	return b.toggler.State(reactionKey(kind, targetID))
}

func (b *ReactionBoard) InFlight(kind, targetID string) bool {
	return b.toggler.InFlight(reactionKey(kind, targetID))
}

func (b *ReactionBoard) Toggle(ctx context.Context, kind, targetID string) (optimistic.State, error) {
	if kind != model.TargetPost && kind != model.TargetTeamPost {
		return optimistic.State{}, domain.ErrInvalidReaction
	}
	return b.toggler.Toggle(ctx, reactionKey(kind, targetID))
}

func (b *ReactionBoard) Notice() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.notice
}

func (b *ReactionBoard) DismissNotice() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.notice = ""
}

func (b *ReactionBoard) Close() {
	b.toggler.Close()
}

func (b *ReactionBoard) persist(ctx context.Context, key string, next optimistic.State) (optimistic.State, bool, error) {
	kind, id, _ := strings.Cut(key, ":")
	count, err := b.svc.SetReaction(ctx, model.Reaction{TargetKind: kind, TargetID: id, UserID: b.userID}, next.Active)
	if err != nil {
		return optimistic.State{}, false, err
	}
	return optimistic.State{Active: next.Active, Count: count}, true, nil
}
