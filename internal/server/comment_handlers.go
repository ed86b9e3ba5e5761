package server

import (
	"blogapi/internal/service"

	"github.com/gofiber/fiber/v2"
)

// AddComment handles POST /api/posts/:id/comments
// @Summary Add a comment to a post
// @Tags comments
// @Accept json
// @Produce json
// @Param id path string true "Post ID"
// @Param comment body addCommentRequest true "Comment to add"
// @Success 200 {object} commentResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /posts/{id}/comments [post]
func (s *Server) AddComment(c *fiber.Ctx) error {
	postID, err := parseUUID(c, "id")
	if err != nil {
		return nil
	}

	var req addCommentRequest
	if err := s.bindJSON(c, &req); err != nil {
		return nil
	}

	comment, err := s.commentService.AddComment(c.UserContext(), service.AddCommentInput{
		PostID:  postID,
		Content: req.Content,
	})
	if err != nil {
		return respondWithServiceError(c, err)
	}

	return c.JSON(newCommentResponse(*comment))
}
