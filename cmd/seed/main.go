// Command seed populates a development database with the content relations
// the recommendation engine reads: users, tags, posts, votes, read
// statuses, embeddings and an open digest. Production data is written by
// the owning subsystems; this exists for local development and manual
// testing of the strategies.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/post-recommendations-api/internal/config"
	"github.com/post-recommendations-api/internal/database"
	"github.com/post-recommendations-api/internal/models"
	"github.com/post-recommendations-api/internal/repository"
	"github.com/post-recommendations-api/pkg/logger"
)

const embeddingDimensions = 16

func main() {
	users := flag.Int("users", 50, "number of users to create")
	tags := flag.Int("tags", 12, "number of tags to create")
	posts := flag.Int("posts", 200, "number of posts to create")
	votesPerPost := flag.Int("votes-per-post", 8, "average votes per post")
	seed := flag.Int64("seed", 42, "random seed for reproducible fixtures")
	embeddingModel := flag.String("embedding-model", "text-embedding-ada-002", "model name for generated embeddings")
	flag.Parse()

	_ = godotenv.Load()
	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	migrationsPath := os.Getenv("MIGRATIONS_PATH")
	if migrationsPath == "" {
		migrationsPath = "./migrations"
	}
	if err := db.RunMigrations(migrationsPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	repos := repository.New(db)
	rng := rand.New(rand.NewSource(*seed))
	ctx := context.Background()

	userIDs := make([]string, *users)
	for i := range userIDs {
		userIDs[i] = uuid.NewString()
		err := repos.Content.CreateUser(ctx, &models.User{
			ID:          userIDs[i],
			DisplayName: fmt.Sprintf("Seed User %d", i+1),
			CreatedAt:   time.Now(),
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create user")
		}
	}

	tagIDs := make([]string, *tags)
	for i := range tagIDs {
		tagIDs[i] = uuid.NewString()
		err := repos.Content.CreateTag(ctx, &models.Tag{
			ID:        tagIDs[i],
			Name:      fmt.Sprintf("Topic %d", i+1),
			Slug:      fmt.Sprintf("topic-%d", i+1),
			PostCount: 5 + rng.Intn(200),
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create tag")
		}
	}

	for _, userID := range userIDs {
		if rng.Float64() < 0.3 {
			err := repos.Content.CreateSubscription(ctx, &models.Subscription{
				ID:             uuid.NewString(),
				UserID:         userID,
				DocumentID:     userIDs[rng.Intn(len(userIDs))],
				CollectionName: "Users",
				Type:           models.SubscriptionTypeNewPosts,
				State:          models.SubscriptionStateActive,
				CreatedAt:      time.Now(),
			})
			if err != nil {
				log.Fatal().Err(err).Msg("Failed to create author subscription")
			}
		}
		if rng.Float64() < 0.3 {
			err := repos.Content.CreateSubscription(ctx, &models.Subscription{
				ID:             uuid.NewString(),
				UserID:         userID,
				DocumentID:     tagIDs[rng.Intn(len(tagIDs))],
				CollectionName: "Tags",
				Type:           models.SubscriptionTypeNewTagPosts,
				State:          models.SubscriptionStateActive,
				CreatedAt:      time.Now(),
			})
			if err != nil {
				log.Fatal().Err(err).Msg("Failed to create tag subscription")
			}
		}
	}

	digestID := uuid.NewString()
	err = repos.Content.CreateDigest(ctx, &models.Digest{
		ID:        digestID,
		Num:       1,
		StartDate: time.Now().AddDate(0, 0, -3),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create digest")
	}

	for i := 0; i < *posts; i++ {
		postID := uuid.NewString()
		post := &models.Post{
			ID:           postID,
			UserID:       userIDs[rng.Intn(len(userIDs))],
			Title:        fmt.Sprintf("Seed Post %d", i+1),
			Slug:         fmt.Sprintf("seed-post-%d", i+1),
			Status:       models.PostStatusApproved,
			BaseScore:    float64(rng.Intn(250)),
			Score:        rng.Float64() * 20,
			TagRelevance: map[string]int{tagIDs[rng.Intn(len(tagIDs))]: 1 + rng.Intn(3)},
			PostedAt:     time.Now().AddDate(0, 0, -rng.Intn(720)),
		}
		if rng.Float64() < 0.1 {
			curated := time.Now().AddDate(0, 0, -rng.Intn(90))
			post.CuratedDate = &curated
		}
		if err := repos.Post.Create(ctx, post); err != nil {
			log.Fatal().Err(err).Msg("Failed to create post")
		}

		for v := 0; v < rng.Intn(*votesPerPost*2+1); v++ {
			err := repos.Content.CreateVote(ctx, &models.Vote{
				ID:             uuid.NewString(),
				UserID:         userIDs[rng.Intn(len(userIDs))],
				PostID:         postID,
				CollectionName: models.VoteCollectionPosts,
				Power:          1,
				VotedAt:        time.Now(),
			})
			if err != nil {
				log.Fatal().Err(err).Msg("Failed to create vote")
			}
		}

		embeddings := make([]float64, embeddingDimensions)
		for d := range embeddings {
			embeddings[d] = rng.NormFloat64()
		}
		err := repos.Content.CreateEmbedding(ctx, &models.PostEmbedding{
			PostID:     postID,
			Model:      *embeddingModel,
			Embeddings: embeddings,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create embedding")
		}

		if rng.Float64() < 0.05 {
			if err := repos.Content.AddPostToDigest(ctx, digestID, postID); err != nil {
				log.Fatal().Err(err).Msg("Failed to add post to digest")
			}
		}

		if rng.Float64() < 0.2 {
			err := repos.Content.MarkRead(ctx, &models.ReadStatus{
				UserID:      userIDs[rng.Intn(len(userIDs))],
				PostID:      postID,
				IsRead:      true,
				LastUpdated: time.Now(),
			})
			if err != nil {
				log.Fatal().Err(err).Msg("Failed to mark post read")
			}
		}
	}

	log.Info().
		Int("users", *users).
		Int("tags", *tags).
		Int("posts", *posts).
		Msg("Seeding completed")
}
