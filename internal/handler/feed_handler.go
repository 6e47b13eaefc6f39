package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shinyyama/herspace-backend/internal/model"
	"github.com/shinyyama/herspace-backend/internal/service"
)

type FeedHandler struct{}

func NewFeedHandler() *FeedHandler {
	return &FeedHandler{}
}

func (h *FeedHandler) List(c echo.Context) error {
	sess, ok := sessionFrom(c)
	if !ok {
		return unauthorized(c)
	}
	var posts []model.Achievement
	_ = sess.Do(func() error {
		posts = sess.Feed.List()
		return nil
	})
	return c.JSON(http.StatusOK, map[string]interface{}{
		"posts": posts,
	})
}

// anonymous defaults to true when the client leaves it out, like the
// composer's initial toggle.
func anonymous(v *bool) bool {
	return v == nil || *v
}

type createPostRequest struct {
	Content   string   `json:"content"`
	Images    []string `json:"images"`
	Video     string   `json:"video"`
	Anonymous *bool    `json:"anonymous"`
}

func (h *FeedHandler) Create(c echo.Context) error {
	var req createPostRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid json")
	}
	in := service.PostInput{
		Content:   req.Content,
		Images:    req.Images,
		Video:     req.Video,
		Anonymous: anonymous(req.Anonymous),
	}
	return runOutcome(c, func(ctx context.Context, s *service.Session) (service.Outcome, error) {
		return s.TreeHole.Post(ctx, in)
	})
}

type reactionRequest struct {
	Kind model.ReactionKind `json:"kind"`
}

func (h *FeedHandler) React(c echo.Context) error {
	var req reactionRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid json")
	}
	if !req.Kind.Valid() {
		return badRequest(c, "kind must be flowers or hugs")
	}
	id := c.Param("id")
	return runOutcome(c, func(ctx context.Context, s *service.Session) (service.Outcome, error) {
		return s.TreeHole.React(ctx, id, req.Kind)
	})
}

type commentRequest struct {
	Content   string `json:"content"`
	Anonymous *bool  `json:"anonymous"`
}

func (h *FeedHandler) Comment(c echo.Context) error {
	var req commentRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid json")
	}
	id := c.Param("id")
	return runOutcome(c, func(ctx context.Context, s *service.Session) (service.Outcome, error) {
		return s.TreeHole.Comment(ctx, id, req.Content, anonymous(req.Anonymous))
	})
}

func (h *FeedHandler) Tip(c echo.Context) error {
	id := c.Param("id")
	return runOutcome(c, func(ctx context.Context, s *service.Session) (service.Outcome, error) {
		return s.TreeHole.Tip(ctx, id)
	})
}

func (h *FeedHandler) Draft(c echo.Context) error {
	sess, ok := sessionFrom(c)
	if !ok {
		return unauthorized(c)
	}
	var v service.DraftView
	_ = sess.Do(func() error {
		v = sess.Draft.View()
		return nil
	})
	return c.JSON(http.StatusOK, v)
}

type draftImagesRequest struct {
	Images []string `json:"images"`
}

func (h *FeedHandler) AddDraftImages(c echo.Context) error {
	var req draftImagesRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid json")
	}
	return h.editDraft(c, func(d *service.Draft) {
		d.AddImages(req.Images...)
	})
}

func (h *FeedHandler) RemoveDraftImage(c echo.Context) error {
	idx, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return badRequest(c, "invalid index")
	}
	sess, ok := sessionFrom(c)
	if !ok {
		return unauthorized(c)
	}
	var removed bool
	var v service.DraftView
	_ = sess.Do(func() error {
		removed = sess.Draft.RemoveImage(idx)
		v = sess.Draft.View()
		return nil
	})
	if !removed {
		return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "no image at index"))
	}
	return c.JSON(http.StatusOK, v)
}

type draftVideoRequest struct {
	Video string `json:"video"`
}

func (h *FeedHandler) SetDraftVideo(c echo.Context) error {
	var req draftVideoRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid json")
	}
	if strings.TrimSpace(req.Video) == "" {
		return badRequest(c, "video is required")
	}
	return h.editDraft(c, func(d *service.Draft) {
		d.SetVideo(req.Video)
	})
}

func (h *FeedHandler) ClearDraftVideo(c echo.Context) error {
	return h.editDraft(c, func(d *service.Draft) {
		d.ClearVideo()
	})
}

type publishRequest struct {
	Content   string `json:"content"`
	Anonymous *bool  `json:"anonymous"`
}

func (h *FeedHandler) Publish(c echo.Context) error {
	var req publishRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid json")
	}
	return runOutcome(c, func(ctx context.Context, s *service.Session) (service.Outcome, error) {
		return s.TreeHole.Publish(ctx, req.Content, anonymous(req.Anonymous))
	})
}

func (h *FeedHandler) editDraft(c echo.Context, edit func(d *service.Draft)) error {
	sess, ok := sessionFrom(c)
	if !ok {
		return unauthorized(c)
	}
	var v service.DraftView
	_ = sess.Do(func() error {
		edit(sess.Draft)
		v = sess.Draft.View()
		return nil
	})
	return c.JSON(http.StatusOK, v)
}
