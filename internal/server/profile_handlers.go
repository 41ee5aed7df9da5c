package server

import (
	"devconnect/internal/middleware"
	"devconnect/internal/models"

	"github.com/gofiber/fiber/v2"
)

// profileRequest carries only the fields the client sent; social links are
// flat, the way the web client posts them.
type profileRequest struct {
	Company        *string   `json:"company" validate:"omitempty,max=200"`
	Website        *string   `json:"website" validate:"omitempty,max=300"`
	Location       *string   `json:"location" validate:"omitempty,max=200"`
	Bio            *string   `json:"bio" validate:"omitempty,max=2000"`
	Status         *string   `json:"status" validate:"omitempty,max=100"`
	GitHubUsername *string   `json:"githubusername" validate:"omitempty,max=100"`
	Skills         skillList `json:"skills"`
	YouTube        *string   `json:"youtube"`
	Twitter        *string   `json:"twitter"`
	Facebook       *string   `json:"facebook"`
	LinkedIn       *string   `json:"linkedin"`
	Instagram      *string   `json:"instagram"`
}

func (r profileRequest) fields() models.ProfileFields {
	return models.ProfileFields{
		Company:        r.Company,
		Website:        r.Website,
		Location:       r.Location,
		Bio:            r.Bio,
		Status:         r.Status,
		GitHubUsername: r.GitHubUsername,
		Skills:         r.Skills,
		Social: models.SocialFields{
			YouTube:   r.YouTube,
			Twitter:   r.Twitter,
			Facebook:  r.Facebook,
			LinkedIn:  r.LinkedIn,
			Instagram: r.Instagram,
		},
	}
}

type experienceRequest struct {
	Title       string `json:"title" validate:"notblank"`
	Company     string `json:"company" validate:"notblank"`
	Location    string `json:"location"`
	From        date   `json:"from"`
	To          *date  `json:"to"`
	Current     bool   `json:"current"`
	Description string `json:"description" validate:"max=2000"`
}

type educationRequest struct {
	School       string `json:"school" validate:"notblank"`
	Degree       string `json:"degree" validate:"notblank"`
	FieldOfStudy string `json:"fieldofstudy" validate:"notblank"`
	From         date   `json:"from"`
	To           *date  `json:"to"`
	Current      bool   `json:"current"`
	Description  string `json:"description" validate:"max=2000"`
}

// UpsertProfile handles POST /api/profile
func (s *Server) UpsertProfile(c *fiber.Ctx) error {
	var req profileRequest
	if err := parseBody(c, &req); err != nil {
		return respond(c, err)
	}

	profile, err := s.profileService.UpsertProfile(c.UserContext(), middleware.Credential(c), req.fields())
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(profile)
}

// GetMyProfile handles GET /api/profile/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	profile, err := s.profileService.GetOwnProfile(c.UserContext(), middleware.Credential(c))
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(profile)
}

// GetProfiles handles GET /api/profile
func (s *Server) GetProfiles(c *fiber.Ctx) error {
	profiles, err := s.profileService.ListProfiles(c.UserContext())
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(profiles)
}

// GetProfileByUser handles GET /api/profile/user/:userId
func (s *Server) GetProfileByUser(c *fiber.Ctx) error {
	profile, err := s.profileService.GetProfileByUser(c.UserContext(), c.Params("userId"))
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(profile)
}

// DeleteProfile handles DELETE /api/profile; the account goes with it.
func (s *Server) DeleteProfile(c *fiber.Ctx) error {
	if err := s.profileService.DeleteProfileCascade(c.UserContext(), middleware.Credential(c)); err != nil {
		return respond(c, err)
	}
	return c.JSON(fiber.Map{"msg": "User deleted"})
}

// AddExperience handles PUT /api/profile/experience
func (s *Server) AddExperience(c *fiber.Ctx) error {
	var req experienceRequest
	if err := parseBody(c, &req); err != nil {
		return respond(c, err)
	}

	entry := models.ExperienceEntry{
		Title:       req.Title,
		Company:     req.Company,
		Location:    req.Location,
		From:        req.From.Time,
		To:          req.To.ptr(),
		Current:     req.Current,
		Description: req.Description,
	}
	profile, err := s.profileService.AddExperience(c.UserContext(), middleware.Credential(c), entry)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(profile)
}

// RemoveExperience handles DELETE /api/profile/experience/:id
func (s *Server) RemoveExperience(c *fiber.Ctx) error {
	profile, err := s.profileService.RemoveExperience(c.UserContext(), middleware.Credential(c), c.Params("id"))
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(profile)
}

// AddEducation handles PUT /api/profile/education
func (s *Server) AddEducation(c *fiber.Ctx) error {
	var req educationRequest
	if err := parseBody(c, &req); err != nil {
		return respond(c, err)
	}

	entry := models.EducationEntry{
		School:       req.School,
		Degree:       req.Degree,
		FieldOfStudy: req.FieldOfStudy,
		From:         req.From.Time,
		To:           req.To.ptr(),
		Current:      req.Current,
		Description:  req.Description,
	}
	profile, err := s.profileService.AddEducation(c.UserContext(), middleware.Credential(c), entry)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(profile)
}

// RemoveEducation handles DELETE /api/profile/education/:id
func (s *Server) RemoveEducation(c *fiber.Ctx) error {
	profile, err := s.profileService.RemoveEducation(c.UserContext(), middleware.Credential(c), c.Params("id"))
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(profile)
}

// GetGitHubRepos handles GET /api/profile/github/:username
func (s *Server) GetGitHubRepos(c *fiber.Ctx) error {
	repos, err := s.profileService.GitHubRepos(c.UserContext(), middleware.Credential(c), c.Params("username"))
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(repos)
}
