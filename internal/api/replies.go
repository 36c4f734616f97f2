package api

import (
	"context"
	"database/sql"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/wehaveweneed/exchange/internal/models"
	"github.com/wehaveweneed/exchange/pkg/logging"
	"github.com/wehaveweneed/exchange/pkg/telemetry"
)

// ReplyStore is the reply persistence surface the resource layer needs.
// *db.ReplyRepository satisfies it.
type ReplyStore interface {
	ListByPost(ctx context.Context, postID int64) ([]models.Reply, error)
	Create(ctx context.Context, reply *models.Reply) error
}

// ReplyAPI serves a post's replies
type ReplyAPI struct {
	posts   PostStore
	replies ReplyStore
	logger  *zap.Logger
}

// NewReplyAPI creates a new reply API
func NewReplyAPI(posts PostStore, replies ReplyStore) *ReplyAPI {
	return &ReplyAPI{
		posts:   posts,
		replies: replies,
		logger:  logging.WithComponent("replies"),
	}
}

// List handles GET /api/post/<id>/replies.<fmt>, newest reply first
func (a *ReplyAPI) List(c *gin.Context, format, idStr string) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "replies.list")
	defer span.End()

	id, err := parsePostID(idStr)
	if err != nil {
		writeError(c, format, NotFound("no post with id %q", idStr))
		return
	}

	post, err := a.posts.GetByID(ctx, id)
	if err != nil {
		writeError(c, format, err)
		return
	}
	if post == nil {
		writeError(c, format, NotFound("no post with id %d", id))
		return
	}

	replies, err := a.replies.ListByPost(ctx, id)
	if err != nil {
		writeError(c, format, err)
		return
	}

	payload := make([]ReplyPayload, 0, len(replies))
	for i := range replies {
		payload = append(payload, buildReplyPayload(&replies[i]))
	}

	emitReplyList(c, format, payload)
}

// Create handles POST /api/post/<id>/replies and bumps the post's
// response counter
func (a *ReplyAPI) Create(c *gin.Context, idStr string) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "replies.create")
	defer span.End()

	id, err := parsePostID(idStr)
	if err != nil {
		writeError(c, "", NotFound("no post with id %q", idStr))
		return
	}

	post, err := a.posts.GetByID(ctx, id)
	if err != nil {
		writeError(c, "", err)
		return
	}
	if post == nil {
		writeError(c, "", NotFound("no post with id %d", id))
		return
	}

	content := strings.TrimSpace(c.PostForm("content"))
	if content == "" {
		writeError(c, "", Invalid("content"))
		return
	}

	reply := &models.Reply{
		PostID:  id,
		Content: content,
	}
	if senderStr := c.PostForm("sender"); senderStr != "" {
		senderID, err := strconv.ParseInt(senderStr, 10, 64)
		if err != nil {
			writeError(c, "", Invalid("sender"))
			return
		}
		reply.SenderID = sql.NullInt64{Int64: senderID, Valid: true}
	}

	if err := a.replies.Create(ctx, reply); err != nil {
		writeError(c, "", err)
		return
	}

	// Counter update is advisory and runs outside any transaction.
	if err := a.posts.IncrementResponses(ctx, id); err != nil {
		a.logger.Warn("failed to bump response counter",
			zap.Int64("post_id", id), zap.Error(err))
	}

	c.JSON(http.StatusCreated, gin.H{"id": reply.ID})
}
