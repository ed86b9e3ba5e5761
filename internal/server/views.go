package server

import (
	"blogapi/internal/models"

	"github.com/google/uuid"
)

type createPostRequest struct {
	Title   string `json:"title" validate:"required,min=1"`
	Content string `json:"content" validate:"required,min=1"`
}

type addCommentRequest struct {
	Content string `json:"content" validate:"required,min=1"`
}

type commentResponse struct {
	ID      uuid.UUID `json:"id"`
	Content string    `json:"content"`
}

type postResponse struct {
	ID       uuid.UUID         `json:"id"`
	Title    string            `json:"title"`
	Content  string            `json:"content"`
	Comments []commentResponse `json:"comments"`
}

func newCommentResponse(c models.Comment) commentResponse {
	return commentResponse{ID: c.ID, Content: c.Content}
}

// newPostResponse always renders comments as an array, never null.
func newPostResponse(p models.Post, comments []models.Comment) postResponse {
	out := postResponse{
		ID:       p.ID,
		Title:    p.Title,
		Content:  p.Content,
		Comments: make([]commentResponse, 0, len(comments)),
	}
	for _, c := range comments {
		out.Comments = append(out.Comments, newCommentResponse(c))
	}
	return out
}
