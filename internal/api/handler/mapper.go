package handler

import (
	"time"

	"github.com/sirpyerre/social-api/internal/core/domain"
	"github.com/sirpyerre/social-api/internal/core/ports"
)

// userResponse is the public projection of a user. The password digest has
// no field here and so can never be serialized.
type userResponse struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	FullName   string    `json:"fullName"`
	Email      string    `json:"email"`
	Followers  []string  `json:"followers"`
	Following  []string  `json:"following"`
	ProfileImg string    `json:"profileImg"`
	CoverImg   string    `json:"coverImg"`
	Bio        string    `json:"bio"`
	Link       string    `json:"link"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// authorResponse is the short form of a user embedded in posts and
// notifications.
type authorResponse struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	FullName   string `json:"fullName"`
	ProfileImg string `json:"profileImg"`
}

type commentResponse struct {
	ID        string          `json:"id"`
	Text      string          `json:"text"`
	User      *authorResponse `json:"user"`
	CreatedAt time.Time       `json:"createdAt"`
}

type postResponse struct {
	ID        string            `json:"id"`
	User      *authorResponse   `json:"user"`
	Text      string            `json:"text"`
	Img       string            `json:"img"`
	Likes     []string          `json:"likes"`
	Comments  []commentResponse `json:"comments"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

type notificationResponse struct {
	ID        string          `json:"id"`
	From      *authorResponse `json:"from"`
	To        string          `json:"to"`
	Type      string          `json:"type"`
	Read      bool            `json:"read"`
	CreatedAt time.Time       `json:"createdAt"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type likeResponse struct {
	Message string   `json:"message"`
	Likes   []string `json:"likes"`
}

func toUserResponse(u *domain.User) *userResponse {
	if u == nil {
		return nil
	}
	return &userResponse{
		ID:         u.ID,
		Username:   u.Username,
		FullName:   u.FullName,
		Email:      u.Email,
		Followers:  orEmpty(u.Followers),
		Following:  orEmpty(u.Following),
		ProfileImg: u.ProfileImg,
		CoverImg:   u.CoverImg,
		Bio:        u.Bio,
		Link:       u.Link,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

func toUserResponses(users []*domain.User) []*userResponse {
	out := make([]*userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	return out
}

// toAuthorResponse returns nil for a user that no longer exists.
func toAuthorResponse(u *domain.User) *authorResponse {
	if u == nil {
		return nil
	}
	return &authorResponse{ID: u.ID, Username: u.Username, FullName: u.FullName, ProfileImg: u.ProfileImg}
}

func toPostResponse(d *ports.PostDetail) postResponse {
	comments := make([]commentResponse, 0, len(d.Comments))
	for _, c := range d.Comments {
		comments = append(comments, commentResponse{
			ID:        c.Comment.ID,
			Text:      c.Comment.Text,
			User:      toAuthorResponse(c.Author),
			CreatedAt: c.Comment.CreatedAt,
		})
	}
	return postResponse{
		ID:        d.Post.ID,
		User:      toAuthorResponse(d.Author),
		Text:      d.Post.Text,
		Img:       d.Post.Img,
		Likes:     orEmpty(d.Post.Likes),
		Comments:  comments,
		CreatedAt: d.Post.CreatedAt,
		UpdatedAt: d.Post.UpdatedAt,
	}
}

func toPostResponses(details []ports.PostDetail) []postResponse {
	out := make([]postResponse, 0, len(details))
	for i := range details {
		out = append(out, toPostResponse(&details[i]))
	}
	return out
}

func toNotificationResponses(items []ports.NotificationDetail) []notificationResponse {
	out := make([]notificationResponse, 0, len(items))
	for _, d := range items {
		out = append(out, notificationResponse{
			ID:        d.Notification.ID,
			From:      toAuthorResponse(d.From),
			To:        d.Notification.To,
			Type:      string(d.Notification.Type),
			Read:      d.Notification.Read,
			CreatedAt: d.Notification.CreatedAt,
		})
	}
	return out
}

func orEmpty(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
