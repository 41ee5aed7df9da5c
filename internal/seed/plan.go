// Package seed fills a database with demo data for development. Data is
// written through the repositories and domain engines so it obeys the same
// rules as API traffic.
package seed

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Plan sizes a seeding run.
type Plan struct {
	Users           int     `yaml:"users"`
	PostsPerUser    int     `yaml:"posts_per_user"`
	CommentsPerPost int     `yaml:"comments_per_post"`
	LikeRatio       float64 `yaml:"like_ratio"`
	Profiles        bool    `yaml:"profiles"`
	Clean           bool    `yaml:"clean"`
	Seed            int64   `yaml:"seed"`
}

// DefaultPlan is used when no plan file is given.
func DefaultPlan() Plan {
	return Plan{
		Users:           20,
		PostsPerUser:    3,
		CommentsPerPost: 2,
		LikeRatio:       0.3,
		Profiles:        true,
		Clean:           true,
	}
}

// LoadPlan reads a YAML plan. Keys missing from the file keep their defaults.
func LoadPlan(path string) (Plan, error) {
	plan := DefaultPlan()
	if path == "" {
		return plan, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return plan, fmt.Errorf("read seed plan: %w", err)
	}
	if err := yaml.Unmarshal(raw, &plan); err != nil {
		return plan, fmt.Errorf("parse seed plan: %w", err)
	}
	return plan, plan.Validate()
}

// Validate rejects plans that cannot be executed.
func (p Plan) Validate() error {
	switch {
	case p.Users < 0 || p.PostsPerUser < 0 || p.CommentsPerPost < 0:
		return errors.New("seed plan counts must not be negative")
	case p.LikeRatio < 0 || p.LikeRatio > 1:
		return errors.New("like_ratio must be between 0 and 1")
	}
	return nil
}
