// Package feed holds view state for comment threads and post reactions.
// Every mutation is applied locally first and rolled back if the backend
// rejects it.
package feed

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"livefeed/internal/domain"
	"livefeed/internal/model"
	"livefeed/internal/optimistic"
)

const (
	MsgPostFailed = "Failed to post comment"
	MsgLikeFailed = "Failed to update like"
)

// Rows shown before the backend has assigned an id.
const pendingPrefix = "pending:"

type CommentService interface {
	SetReaction(ctx context.Context, reaction model.Reaction, active bool) (int, error)
	CreateComment(ctx context.Context, comment model.Comment) (model.Comment, error)
}

type CommentThread struct {
	postID  string
	userID  string
	svc     CommentService
	timeout time.Duration

	mu       sync.Mutex
	comments []model.Comment
	expanded map[string]bool
	draft    string
	notice   string
	closed   bool

	likes   *optimistic.Toggler
	submits *optimistic.Guard
	ctx     context.Context
	cancel  context.CancelFunc
}

func NewCommentThread(postID, userID string, svc CommentService, timeout time.Duration) *CommentThread {
	ctx, cancel := context.WithCancel(context.Background())
	t := &CommentThread{
		postID:   postID,
		userID:   userID,
		svc:      svc,
		timeout:  timeout,
		expanded: make(map[string]bool),
		submits:  optimistic.NewGuard(),
		ctx:      ctx,
		cancel:   cancel,
	}
	t.likes = optimistic.NewToggler(t.persistLike,
		optimistic.WithTimeout(timeout),
		optimistic.WithErrorHandler(func(string, error) { t.setNotice(MsgLikeFailed) }),
	)
	return t
}

// Load replaces the thread with server data. liked holds the comment ids the
// user has liked.
func (t *CommentThread) Load(comments []model.Comment, liked map[string]bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.comments = cloneComments(comments)
	for _, c := range t.comments {
		t.likes.Seed(c.ID, optimistic.State{Active: liked[c.ID], Count: c.LikeCount})
		for _, r := range c.Replies {
			t.likes.Seed(r.ID, optimistic.State{Active: liked[r.ID], Count: r.LikeCount})
		}
	}
}

// Comments returns a snapshot with like counts as currently displayed.
func (t *CommentThread) Comments() []model.Comment {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := cloneComments(t.comments)
	for i := range out {
		out[i].LikeCount = t.likes.State(out[i].ID).Count
		for j := range out[i].Replies {
			out[i].Replies[j].LikeCount = t.likes.State(out[i].Replies[j].ID).Count
		}
	}
	return out
}

func (t *CommentThread) SetDraft(text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.draft = text
}

func (t *CommentThread) Draft() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.draft
}

// Notice is the transient error message to show, if any.
func (t *CommentThread) Notice() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.notice
}

func (t *CommentThread) DismissNotice() {
	t.setNotice("")
}

func (t *CommentThread) Expanded(commentID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.expanded[commentID]
}

func (t *CommentThread) SetExpanded(commentID string, open bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.expanded[commentID] = open
}

func (t *CommentThread) LikeState(commentID string) optimistic.State {
	return t.likes.State(commentID)
}

// LikeInFlight reports whether the like control for commentID is disabled.
// Pending rows cannot be liked until the backend has stored them.
func (t *CommentThread) LikeInFlight(commentID string) bool {
	return t.isPending(commentID) || t.likes.InFlight(commentID)
}

func (t *CommentThread) ToggleLike(ctx context.Context, commentID string) (optimistic.State, error) {
	if t.isPending(commentID) {
		return t.likes.State(commentID), optimistic.ErrInFlight
	}
	return t.likes.Toggle(ctx, commentID)
}

// Submitting reports whether the compose box is disabled.
func (t *CommentThread) Submitting() bool {
	return t.submits.Active("submit")
}

// Submit posts the draft as a new comment, or as a reply when parentID is
// set. The draft is cleared and a pending row shown until the backend
// answers; on failure both are reverted.
func (t *CommentThread) Submit(ctx context.Context, parentID string) (model.Comment, error) {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return model.Comment{}, optimistic.ErrClosed
	}
	body := strings.TrimSpace(t.draft)
	t.mu.Unlock()
	if body == "" {
		return model.Comment{}, domain.ErrEmptyComment
	}

	pending := model.Comment{
		ID:        pendingPrefix + uuid.NewString(),
		PostID:    t.postID,
		ParentID:  parentID,
		UserID:    t.userID,
		Body:      body,
		CreatedAt: time.Now().UTC(),
		Pending:   true,
	}
	var typed string
	return optimistic.Run(ctx, t.submits, "submit", t.timeout, optimistic.Mutation[model.Comment]{
		Apply: func() {
			t.mu.Lock()
			defer t.mu.Unlock()
			typed = t.draft
			t.draft = ""
			t.notice = ""
			t.insertLocked(pending)
		},
		Call: func(ctx context.Context) (model.Comment, error) {
			ctx, cancel := context.WithCancel(ctx)
			defer cancel()
			unlink := context.AfterFunc(t.ctx, cancel)
			defer unlink()
			return t.svc.CreateComment(ctx, model.Comment{
				PostID:   t.postID,
				ParentID: parentID,
				UserID:   t.userID,
				Body:     body,
			})
		},
		Commit: func(created model.Comment) {
			t.mu.Lock()
			defer t.mu.Unlock()
			if t.closed {
				return
			}
			root := t.replaceLocked(pending.ID, created)
			if root != "" {
				t.expanded[root] = true
			}
			t.likes.Seed(created.ID, optimistic.State{Count: created.LikeCount})
		},
		Rollback: func(error) {
			t.mu.Lock()
			defer t.mu.Unlock()
			if t.closed {
				return
			}
			t.removeLocked(pending.ID)
			if t.draft == "" {
				t.draft = typed
			}
			t.notice = MsgPostFailed
		},
	})
}

// Close detaches the thread; late results are discarded.
func (t *CommentThread) Close() {
	t.mu.Lock()
	t.closed = true
	t.mu.Unlock()
	t.cancel()
	t.likes.Close()
}

func (t *CommentThread) persistLike(ctx context.Context, commentID string, next optimistic.State) (optimistic.State, bool, error) {
	count, err := t.svc.SetReaction(ctx, model.Reaction{
		TargetKind: model.TargetComment,
		TargetID:   commentID,
		UserID:     t.userID,
	}, next.Active)
	if err != nil {
		return optimistic.State{}, false, err
	}
	return optimistic.State{Active: next.Active, Count: count}, true, nil
}

func (t *CommentThread) isPending(id string) bool {
	if strings.HasPrefix(id, pendingPrefix) {
		return true
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, c := range t.comments {
		if c.ID == id {
			return c.Pending
		}
		for _, r := range c.Replies {
			if r.ID == id {
				return r.Pending
			}
		}
	}
	return false
}

func (t *CommentThread) setNotice(msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.notice = msg
}

// insertLocked puts top-level comments first and appends replies under the
// root of their parent. A reply whose parent is not loaded goes to the top.
func (t *CommentThread) insertLocked(c model.Comment) {
	if c.ParentID != "" {
		if i := t.rootIndexLocked(c.ParentID); i >= 0 {
			t.comments[i].Replies = append(t.comments[i].Replies, c)
			return
		}
	}
	t.comments = append([]model.Comment{c}, t.comments...)
}

// replaceLocked swaps the row with id for c and returns the id of the
// top-level comment c was nested under, if any.
func (t *CommentThread) replaceLocked(id string, c model.Comment) string {
	for i := range t.comments {
		if t.comments[i].ID == id {
			t.comments[i] = c
			return ""
		}
		for j := range t.comments[i].Replies {
			if t.comments[i].Replies[j].ID == id {
				t.comments[i].Replies[j] = c
				return t.comments[i].ID
			}
		}
	}
	t.insertLocked(c)
	if i := t.rootIndexLocked(c.ID); i >= 0 && t.comments[i].ID != c.ID {
		return t.comments[i].ID
	}
	return ""
}

func (t *CommentThread) removeLocked(id string) {
	for i := range t.comments {
		if t.comments[i].ID == id {
			t.comments = append(t.comments[:i], t.comments[i+1:]...)
			return
		}
		replies := t.comments[i].Replies
		for j := range replies {
			if replies[j].ID == id {
				t.comments[i].Replies = append(replies[:j], replies[j+1:]...)
				return
			}
		}
	}
}

func (t *CommentThread) rootIndexLocked(id string) int {
	for i, c := range t.comments {
		if c.ID == id {
			return i
		}
		for _, r := range c.Replies {
			if r.ID == id {
				return i
			}
		}
	}
	return -1
}

func cloneComments(in []model.Comment) []model.Comment {
	out := make([]model.Comment, len(in))
	for i, c := range in {
		out[i] = c
		if c.Replies != nil {
			out[i].Replies = append([]model.Comment(nil), c.Replies...)
		}
	}
	return out
}
