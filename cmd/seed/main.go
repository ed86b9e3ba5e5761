// Command seed fills the database with fake posts and comments.
package main

import (
	"context"
	"flag"
	"log"

	"blogapi/internal/config"
	"blogapi/internal/database"
	"blogapi/internal/seed"

	"gorm.io/gorm"
)

func main() {
	numPosts := flag.Int("posts", 25, "Number of posts to create")
	maxComments := flag.Int("max-comments", 5, "Maximum comments per post")
	shouldClean := flag.Bool("clean", false, "Delete existing posts and comments first")
	randSeed := flag.Int64("seed", 0, "Random seed (0 = time based)")
	sqlitePath := flag.String("sqlite", "", "Seed a SQLite file instead of DATABASE_URL")
	flag.Parse()

	ctx := context.Background()

	var err error
	var cfg *config.Config
	if *sqlitePath == "" {
		cfg, err = config.LoadConfig()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}

	db, err := open(ctx, cfg, *sqlitePath)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	s := seed.NewSeeder(db, *randSeed)
	if *shouldClean {
		if err := s.ClearAll(ctx); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	res, err := s.Run(ctx, seed.Options{Posts: *numPosts, MaxCommentsPerPost: *maxComments})
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
	log.Printf("Seeded %d posts and %d comments", res.Posts, res.Comments)
}

func open(ctx context.Context, cfg *config.Config, sqlitePath string) (*gorm.DB, error) {
	if sqlitePath != "" {
		return database.OpenSQLite(ctx, "file:"+sqlitePath+"?_foreign_keys=1", "warn")
	}
	return database.Connect(ctx, cfg)
}
