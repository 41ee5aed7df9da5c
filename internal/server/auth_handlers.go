package server

import (
	"devconnect/internal/middleware"
	"devconnect/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Register handles POST /api/users
func (s *Server) Register(c *fiber.Ctx) error {
	var req service.RegisterInput
	if err := decodeBody(c, &req); err != nil {
		return respond(c, err)
	}

	token, user, err := s.userService.Register(c.UserContext(), req)
	if err != nil {
		return respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}

// Login handles POST /api/auth
func (s *Server) Login(c *fiber.Ctx) error {
	var req service.LoginInput
	if err := decodeBody(c, &req); err != nil {
		return respond(c, err)
	}

	token, err := s.userService.Login(c.UserContext(), req)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(fiber.Map{"token": token})
}

// GetMe handles GET /api/auth
func (s *Server) GetMe(c *fiber.Ctx) error {
	user, err := s.userService.Me(c.UserContext(), middleware.Credential(c))
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(user)
}
