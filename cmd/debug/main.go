// Debug entry point: runs one live audit against the real APIs and prints a
// short summary. Handy for eyeballing scores and the AI verdict without the
// server.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"gitaudit/internal/adapter/gemini"
	"gitaudit/internal/adapter/github"
	"gitaudit/internal/config"
	"gitaudit/internal/port"
	"gitaudit/internal/scoring"
	"gitaudit/internal/service"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	godotenv.Load()

	username := "torvalds"
	if len(os.Args) > 1 {
		username = os.Args[1]
	}

	zlog, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer zlog.Sync()

	cfg := config.Load()
	if err := cfg.RequireGitHubToken(); err != nil {
		log.Fatalf("missing credential: %v", err)
	}

	ctx := context.Background()
	fetcher := github.NewFetcher(cfg.GitHubToken, zlog)

	var assessor port.Assessor
	if cfg.HasGeminiKey() {
		a, err := gemini.NewAssessor(ctx, cfg.GeminiAPIKey, zlog)
		if err != nil {
			log.Printf("AI assessor unavailable: %v", err)
		} else {
			assessor = a
		}
	}

	svc := service.NewAuditService(fetcher, scoring.NewScorer(), assessor, zlog)

	audit, err := svc.Run(ctx, username)
	if err != nil {
		log.Fatalf("audit failed: %v", err)
	}

	fmt.Printf("user: %s (%d public repos, %d followers)\n",
		audit.Profile.User.Login, audit.Profile.User.PublicRepos, audit.Profile.User.Followers)
	fmt.Printf("portfolio score: %.1f\n", audit.PortfolioScore)
	for dim, score := range audit.Dimensions {
		fmt.Printf("  %-35s %.1f\n", dim, score)
	}
	for _, rec := range audit.Recommendations {
		fmt.Printf("recommendation [%s] %s: %s\n", rec.Priority, rec.Repo, rec.Action)
	}
	if audit.Assessment != nil {
		fmt.Printf("AI verdict: %s (%d/100) — %s\n",
			audit.Assessment.Verdict, audit.Assessment.Score, audit.Assessment.Role)
	} else {
		fmt.Printf("no AI assessment: %s\n", audit.AssessmentError)
	}
}
