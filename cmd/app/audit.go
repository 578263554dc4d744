package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"gitaudit/internal/adapter/gemini"
	"gitaudit/internal/adapter/github"
	"gitaudit/internal/common"
	"gitaudit/internal/config"
	"gitaudit/internal/logger"
	"gitaudit/internal/port"
	"gitaudit/internal/scoring"
	"gitaudit/internal/service"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var auditCmd = &cobra.Command{
	Use:   "audit <username>",
	Short: "Run one analysis pass for a GitHub user and print the result",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runAudit(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(auditCmd)

	auditCmd.Flags().StringP("output", "o", "", "write the export report to this file instead of printing the full result")
}

func runAudit(cmd *cobra.Command, username string) {
	ctx := context.Background()

	zlog, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer zlog.Sync()

	cfg := config.Load()
	if err := cfg.RequireGitHubToken(); err != nil {
		zlog.Fatal("missing repository-host credential",
			zap.Error(err),
			zap.String("hint", "set GITHUB_TOKEN in the environment or a .env file"),
		)
	}

	svc := buildAuditService(ctx, cfg, zlog)

	audit, err := svc.Run(ctx, username)
	if err != nil {
		if common.HasCode(err, common.ErrCodeUserNotFound) {
			zlog.Fatal("user not found or API rate limit exceeded", zap.String("user", username))
		}
		zlog.Fatal("audit failed", zap.String("user", username), zap.Error(err))
	}

	output := cmd.Flag("output").Value.String()
	if output != "" {
		report, err := svc.ExportReport(audit)
		if err != nil {
			zlog.Fatal("building export report", zap.Error(err))
		}
		if err := os.WriteFile(output, report, 0o644); err != nil {
			zlog.Fatal("writing export report", zap.String("file", output), zap.Error(err))
		}
		zlog.Info("report written", zap.String("file", output))
		return
	}

	pretty, err := json.MarshalIndent(audit, "", "  ")
	if err != nil {
		zlog.Fatal("encoding result", zap.Error(err))
	}
	fmt.Println(string(pretty))
}

// buildAuditService wires the pipeline from the configuration. A missing
// Gemini key downgrades the run to "no assessment" instead of failing.
func buildAuditService(ctx context.Context, cfg *config.Config, zlog *zap.Logger) *service.AuditService {
	fetcher := github.NewFetcher(cfg.GitHubToken, zlog)

	var assessor port.Assessor
	if cfg.HasGeminiKey() {
		a, err := gemini.NewAssessor(ctx, cfg.GeminiAPIKey, zlog)
		if err != nil {
			zlog.Warn("AI assessor unavailable, continuing without it", zap.Error(err))
		} else {
			assessor = a
		}
	} else {
		zlog.Warn("GEMINI_API_KEY not configured, the AI assessment will be skipped")
	}

	return service.NewAuditService(fetcher, scoring.NewScorer(), assessor, zlog)
}
