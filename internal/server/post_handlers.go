package server

import (
	"devconnect/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type textRequest struct {
	Text string `json:"text" validate:"notblank,max=5000"`
}

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req textRequest
	if err := parseBody(c, &req); err != nil {
		return respond(c, err)
	}

	post, err := s.postService.CreatePost(c.UserContext(), middleware.Credential(c), req.Text)
	if err != nil {
		return respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPosts handles GET /api/posts
func (s *Server) GetPosts(c *fiber.Ctx) error {
	posts, err := s.postService.ListPosts(c.UserContext(), middleware.Credential(c))
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(posts)
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	post, err := s.postService.GetPost(c.UserContext(), middleware.Credential(c), c.Params("id"))
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	if err := s.postService.DeletePost(c.UserContext(), middleware.Credential(c), c.Params("id")); err != nil {
		return respond(c, err)
	}
	return c.JSON(fiber.Map{"msg": "Post removed"})
}

// ToggleLike handles PUT /api/posts/:id/like
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	likes, err := s.postService.ToggleLike(c.UserContext(), middleware.Credential(c), c.Params("id"))
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(likes)
}

// AddComment handles POST /api/posts/:id/comment
func (s *Server) AddComment(c *fiber.Ctx) error {
	var req textRequest
	if err := parseBody(c, &req); err != nil {
		return respond(c, err)
	}

	comments, err := s.postService.AddComment(c.UserContext(), middleware.Credential(c), c.Params("id"), req.Text)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(comments)
}

// RemoveComment handles DELETE /api/posts/:id/comment/:commentId
func (s *Server) RemoveComment(c *fiber.Ctx) error {
	comments, err := s.postService.RemoveComment(c.UserContext(), middleware.Credential(c),
		c.Params("id"), c.Params("commentId"))
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(comments)
}
