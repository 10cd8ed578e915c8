package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sirpyerre/social-api/internal/api/metrics"
	"github.com/sirpyerre/social-api/internal/core/domain"
	"github.com/sirpyerre/social-api/internal/core/ports"
)

type UserHandler struct {
	userService ports.UserService
}

func NewUserHandler(userService ports.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// updateProfileRequest is a partial update: absent fields stay unchanged.
type updateProfileRequest struct {
	FullName        *string `json:"fullName"`
	Username        *string `json:"username"`
	Email           *string `json:"email"`
	Bio             *string `json:"bio" validate:"omitempty,max=300"`
	Link            *string `json:"link" validate:"omitempty,max=300"`
	ProfileImg      *string `json:"profileImg" validate:"omitempty,uri"`
	CoverImg        *string `json:"coverImg" validate:"omitempty,uri"`
	CurrentPassword string  `json:"currentPassword"`
	NewPassword     string  `json:"newPassword"`
}

// Profile returns the public profile of :username.
//
// @Summary      User profile
// @Tags         users
// @Produce      json
// @Param        username  path      string  true  "Username"
// @Success      200       {object}  userResponse
// @Failure      404       {object}  map[string]string
// @Router       /users/profile/{username} [get]
func (h *UserHandler) Profile(c echo.Context) error {
	user, err := h.userService.Profile(c.Request().Context(), c.Param("username"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// Suggested returns a few users the caller might follow.
//
// @Summary      Suggested users
// @Tags         users
// @Produce      json
// @Success      200  {array}   userResponse
// @Router       /users/suggested [get]
func (h *UserHandler) Suggested(c echo.Context) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	users, err := h.userService.Suggested(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponses(users))
}

// Follow toggles the caller's follow of user :id.
//
// @Summary      Follow or unfollow a user
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  messageResponse
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /users/follow/{id} [post]
func (h *UserHandler) Follow(c echo.Context) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	following, err := h.userService.ToggleFollow(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}

	msg, action := "user unfollowed successfully", "off"
	if following {
		msg, action = "user followed successfully", "on"
	}
	metrics.ToggleActionsTotal.WithLabelValues("follow", action).Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: msg})
}

// Update edits the caller's profile.
//
// @Summary      Update profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      updateProfileRequest  true  "Fields to change"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  map[string]string
// @Router       /users/update [post]
func (h *UserHandler) Update(c echo.Context) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	var req updateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.userService.UpdateProfile(c.Request().Context(), actor, domain.ProfileUpdate{
		FullName:        req.FullName,
		Username:        req.Username,
		Email:           req.Email,
		Bio:             req.Bio,
		Link:            req.Link,
		ProfileImg:      req.ProfileImg,
		CoverImg:        req.CoverImg,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}
