package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sirpyerre/social-api/internal/api/metrics"
	"github.com/sirpyerre/social-api/internal/core/ports"
)

type PostHandler struct {
	postService ports.PostService
}

func NewPostHandler(postService ports.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

type createPostRequest struct {
	Text string `json:"text" validate:"max=2000"`
	Img  string `json:"img" validate:"omitempty,uri"`
}

type commentRequest struct {
	Text string `json:"text" validate:"max=1000"`
}

// All lists every post, newest first.
//
// @Summary      All posts
// @Tags         posts
// @Produce      json
// @Success      200  {array}   postResponse
// @Failure      401  {object}  map[string]string
// @Router       /posts/all [get]
func (h *PostHandler) All(c echo.Context) error {
	posts, err := h.postService.All(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPostResponses(posts))
}

// Following lists posts by users the caller follows.
//
// @Summary      Following feed
// @Tags         posts
// @Produce      json
// @Success      200  {array}   postResponse
// @Failure      401  {object}  map[string]string
// @Router       /posts/following [get]
func (h *PostHandler) Following(c echo.Context) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	posts, err := h.postService.Following(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPostResponses(posts))
}

// Liked lists posts liked by the user :id.
//
// @Summary      Liked posts
// @Tags         posts
// @Produce      json
// @Param        id   path      string  true  "User id"
// @Success      200  {array}   postResponse
// @Failure      404  {object}  map[string]string
// @Router       /posts/likes/{id} [get]
func (h *PostHandler) Liked(c echo.Context) error {
	posts, err := h.postService.LikedBy(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPostResponses(posts))
}

// ByUser lists posts by :username.
//
// @Summary      Posts by user
// @Tags         posts
// @Produce      json
// @Param        username  path      string  true  "Username"
// @Success      200       {array}   postResponse
// @Failure      404       {object}  map[string]string
// @Router       /posts/user/{username} [get]
func (h *PostHandler) ByUser(c echo.Context) error {
	posts, err := h.postService.ByUsername(c.Request().Context(), c.Param("username"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPostResponses(posts))
}

// Create publishes a post for the caller.
//
// @Summary      Create post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Param        body  body      createPostRequest  true  "Post content"
// @Success      201   {object}  postResponse
// @Failure      400   {object}  map[string]string
// @Router       /posts/create [post]
func (h *PostHandler) Create(c echo.Context) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	var req createPostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	post, err := h.postService.Create(c.Request().Context(), actor, ports.CreatePostInput{Text: req.Text, Img: req.Img})
	if err != nil {
		return err
	}
	metrics.PostsCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, toPostResponse(post))
}

// Like toggles the caller's like on post :id.
//
// @Summary      Like or unlike a post
// @Tags         posts
// @Produce      json
// @Param        id   path      string  true  "Post id"
// @Success      200  {object}  likeResponse
// @Failure      404  {object}  map[string]string
// @Router       /posts/likes/{id} [post]
func (h *PostHandler) Like(c echo.Context) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	res, err := h.postService.ToggleLike(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}

	msg, action := "post unliked successfully", "off"
	if res.Liked {
		msg, action = "post liked successfully", "on"
	}
	metrics.ToggleActionsTotal.WithLabelValues("like", action).Inc()
	return c.JSON(http.StatusOK, likeResponse{Message: msg, Likes: orEmpty(res.Likes)})
}

// Comment adds a comment by the caller to post :id.
//
// @Summary      Comment on a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Param        id    path      string          true  "Post id"
// @Param        body  body      commentRequest  true  "Comment"
// @Success      200   {object}  postResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /posts/comment/{id} [post]
func (h *PostHandler) Comment(c echo.Context) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	var req commentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	post, err := h.postService.Comment(c.Request().Context(), actor, c.Param("id"), req.Text)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPostResponse(post))
}

// Delete removes post :id when the caller owns it.
//
// @Summary      Delete post
// @Tags         posts
// @Produce      json
// @Param        id   path      string  true  "Post id"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /posts/delete/{id} [delete]
func (h *PostHandler) Delete(c echo.Context) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	if err := h.postService.Delete(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "post deleted successfully"})
}
