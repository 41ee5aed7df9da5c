// Command seed fills the configured database with demo users, profiles and posts.
package main

import (
	"context"
	"flag"
	"log"

	"devconnect/internal/config"
	"devconnect/internal/database"
	"devconnect/internal/middleware"
	"devconnect/internal/observability"
	"devconnect/internal/seed"

	"github.com/joho/godotenv"
)

func main() {
	planPath := flag.String("plan", "", "YAML seed plan; flags below override it when set")
	numUsers := flag.Int("users", -1, "Number of users to create")
	postsPerUser := flag.Int("posts", -1, "Number of posts per user")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	plan, err := seed.LoadPlan(*planPath)
	if err != nil {
		log.Fatalf("Failed to load seed plan: %v", err)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "users":
			plan.Users = *numUsers
		case "posts":
			plan.PostsPerUser = *postsPerUser
		case "clean":
			plan.Clean = *shouldClean
		}
	})

	log.Println("Database Seeder")
	log.Printf("Target: %d users, %d posts each, clean=%v", plan.Users, plan.PostsPerUser, plan.Clean)

	_ = godotenv.Load() // load .env if present

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	observability.SetLogger(middleware.ConfigureLogger(cfg.Env, cfg.LogLevel))

	db, err := database.Connect(cfg, middleware.Logger)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	s := seed.NewSeeder(db, middleware.Logger)
	sum, err := s.Run(context.Background(), plan)
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Done: %d users, %d profiles, %d posts, %d comments, %d likes",
		sum.Users, sum.Profiles, sum.Posts, sum.Comments, sum.Likes)
	log.Printf("All seeded users have the password: %s", seed.DefaultPassword)
}
