package main

import (
	"context"
	"log"
	"net/http"

	"gitaudit/internal/adapter/lottie"
	"gitaudit/internal/config"
	"gitaudit/internal/handler"
	"gitaudit/internal/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the audit API over HTTP",
	Run: func(cmd *cobra.Command, _ []string) {
		serve(cmd)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("addr", "a", "", "listen address (default \":8080\" or LISTEN_ADDR)")
	viper.BindPFlag("addr", serveCmd.Flags().Lookup("addr"))
}

func serve(cmd *cobra.Command) {
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

	addr := viper.GetString("addr")
	if addr == "" {
		addr = cfg.ListenAddr
	}

	svc := buildAuditService(ctx, cfg, zlog)
	auditHandler := handler.NewAuditHandler(svc, lottie.NewLoader(zlog), cfg.AnimationURL, zlog)

	mux := http.NewServeMux()
	auditHandler.Register(mux)

	zlog.Info("serving audit API", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, mux); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}
