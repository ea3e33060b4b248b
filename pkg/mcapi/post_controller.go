package mcapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/apex/log"
	"github.com/labstack/echo/v4"
	"github.com/materials-commons/mcrel/pkg/clog"
	"github.com/materials-commons/mcrel/pkg/lock"
	"github.com/materials-commons/mcrel/pkg/mcdb/mcmodel"
	"github.com/materials-commons/mcrel/pkg/mcdb/stor"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

const messageClassError = "error"

type PostController struct {
	postStor      stor.PostStor
	locker        *lock.IdLocker
	minBodyLength int
	log           *log.Entry
}

func NewPostController(postStor stor.PostStor, minBodyLength int) *PostController {
	return &PostController{
		postStor:      postStor,
		locker:        lock.NewIdLocker(),
		minBodyLength: minBodyLength,
		log:           clog.UsingCtx(clog.APICtx),
	}
}

type postRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

func (c *PostController) GetPost(ctx echo.Context) error {
	postID, err := idParam(ctx)
	if err != nil {
		return err
	}

	post, err := c.postStor.GetPostByID(postID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ctx.JSON(http.StatusNotFound, ErrorResponse{Message: "post not found"})
	case err != nil:
		return errors.Wrapf(err, "loading post %d", postID)
	}

	return ctx.JSON(http.StatusOK, LoadResponse{Results: post.ToAttrs()})
}

func (c *PostController) GetPostComments(ctx echo.Context) error {
	postID, err := idParam(ctx)
	if err != nil {
		return err
	}

	if _, err := c.postStor.GetPostByID(postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.JSON(http.StatusNotFound, ErrorResponse{Message: "post not found"})
		}
		return errors.Wrapf(err, "loading post %d", postID)
	}

	comments, err := c.postStor.GetCommentsForPost(postID)
	if err != nil {
		return errors.Wrapf(err, "loading comments for post %d", postID)
	}

	results := make([]any, 0, len(comments))
	for _, comment := range comments {
		results = append(results, comment.ToAttrs())
	}

	return ctx.JSON(http.StatusOK, LoadResponse{
		Href:    mcmodel.Post{ID: postID}.CommentsHref(),
		Results: results,
	})
}

// CreatePost answers with a save envelope. Validation failures are reported in
// the envelope with a 200 status so the client can tell them from transport errors.
func (c *PostController) CreatePost(ctx echo.Context) error {
	var req postRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}

	if fields := c.validate(req); fields != nil {
		return ctx.JSON(http.StatusOK, invalid(fields))
	}

	post, err := c.postStor.CreatePost(&mcmodel.Post{Title: req.Title, Body: req.Body})
	if err != nil {
		return errors.Wrapf(err, "creating post %q", req.Title)
	}

	c.log.WithField("post", post.ID).Info("created post")
	return ctx.JSON(http.StatusOK, saved(post.ToAttrs()))
}

func (c *PostController) UpdatePost(ctx echo.Context) error {
	postID, err := idParam(ctx)
	if err != nil {
		return err
	}

	var req postRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}

	if fields := c.validate(req); fields != nil {
		return ctx.JSON(http.StatusOK, invalid(fields))
	}

	var post *mcmodel.Post
	err = c.locker.WithLock(postID, func() error {
		post, err = c.postStor.UpdatePostContent(postID, req.Title, req.Body)
		return err
	})

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ctx.JSON(http.StatusOK, rejected("post not found", messageClassError))
	case err != nil:
		return errors.Wrapf(err, "updating post %d", postID)
	}

	c.log.WithField("post", postID).Info("updated post")
	return ctx.JSON(http.StatusOK, saved(post.ToAttrs()))
}

func (c *PostController) validate(req postRequest) map[string]string {
	if len(strings.TrimSpace(req.Body)) < c.minBodyLength {
		return map[string]string{"body": "too short"}
	}
	return nil
}

func idParam(ctx echo.Context) (int, error) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "id must be an integer")
	}
	return id, nil
}
