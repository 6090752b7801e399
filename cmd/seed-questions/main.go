package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/aeroprep/aeroprep-backend/internal/config"
	"github.com/aeroprep/aeroprep-backend/internal/database"
	"github.com/aeroprep/aeroprep-backend/internal/logger"
	"github.com/aeroprep/aeroprep-backend/internal/model"
	"github.com/aeroprep/aeroprep-backend/internal/repository"
	"github.com/aeroprep/aeroprep-backend/internal/service"
)

// seedQuestion is the JSON shape of one question in the seed file.
type seedQuestion struct {
	QuestionText  string   `json:"question_text"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
	ImageURL      string   `json:"image_url"`
	QuestionType  string   `json:"question_type"`
	Category      string   `json:"category"`
	Difficulty    string   `json:"difficulty"`
}

func main() {
	var file string
	flag.StringVar(&file, "file", "questions.json", "Path to the question seed file")
	flag.Parse()

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	questionRepo := repository.NewQuestionRepository(pool)
	questionService := service.NewQuestionService(questionRepo)

	raw, err := os.ReadFile(file)
	if err != nil {
		log.Fatal().Err(err).Str("file", file).Msg("Failed to read seed file")
	}

	var seeds []seedQuestion
	if err := json.Unmarshal(raw, &seeds); err != nil {
		log.Fatal().Err(err).Msg("Failed to parse seed file")
	}

	fmt.Printf("=== Seeding %d Questions ===\n", len(seeds))

	successCount := 0
	for i, s := range seeds {
		if !model.ValidCategory(s.Category) || !model.ValidQuestionType(s.QuestionType) || !model.ValidDifficulty(s.Difficulty) {
			fmt.Printf("Skipping question %d: unknown category/type/difficulty\n", i+1)
			continue
		}

		question := &model.Question{
			QuestionText:  s.QuestionText,
			Options:       s.Options,
			CorrectAnswer: s.CorrectAnswer,
			Explanation:   s.Explanation,
			ImageURL:      s.ImageURL,
			QuestionType:  model.QuestionType(s.QuestionType),
			Category:      model.Category(s.Category),
			Difficulty:    model.Difficulty(s.Difficulty),
		}

		if err := questionService.Create(ctx, question); err != nil {
			fmt.Printf("Error creating question %d: %v\n", i+1, err)
			continue
		}
		successCount++
		if successCount%50 == 0 {
			fmt.Printf("Created %d questions...\n", successCount)
		}
	}

	fmt.Printf("\nSeed completed! Successfully added %d/%d questions.\n", successCount, len(seeds))
}
