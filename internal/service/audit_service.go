package service

import (
	"context"
	"encoding/json"

	"gitaudit/internal/domain"
	"gitaudit/internal/port"
	"gitaudit/internal/recommend"
	"gitaudit/internal/scoring"

	"go.uber.org/zap"
)

// reportRepoLimit caps how many repositories an exported report carries.
const reportRepoLimit = 10

// AuditService runs one fetch → score → recommend → assess pass. Every run
// builds its bundle from scratch and discards it when done; nothing is
// shared between runs.
type AuditService struct {
	fetcher  port.ProfileFetcher
	scorer   *scoring.Scorer
	assessor port.Assessor
	logger   *zap.Logger
}

// NewAuditService wires the pipeline. A nil assessor is allowed and means
// the AI assessment stage is skipped entirely.
func NewAuditService(fetcher port.ProfileFetcher, scorer *scoring.Scorer, assessor port.Assessor, logger *zap.Logger) *AuditService {
	return &AuditService{
		fetcher:  fetcher,
		scorer:   scorer,
		assessor: assessor,
		logger:   logger,
	}
}

// Run executes one audit. Fetch errors are fatal to the run; an assessment
// failure is isolated, logged and leaves Assessment nil while the rest of
// the result stands.
func (s *AuditService) Run(ctx context.Context, username string) (*domain.Audit, error) {
	s.logger.Info("starting audit", zap.String("user", username))

	profile, err := s.fetcher.FetchProfile(ctx, username)
	if err != nil {
		return nil, err
	}
	s.logger.Info("profile fetched",
		zap.String("user", username),
		zap.Int("repos", len(profile.Repos)),
		zap.Int("orgs", len(profile.Orgs)),
	)

	s.scorer.ScoreRepositories(profile)
	score, dimensions := s.scorer.PortfolioScore(profile)
	s.logger.Info("portfolio scored", zap.Float64("score", score))

	recommendations := recommend.Generate(profile, dimensions)

	audit := &domain.Audit{
		Profile:         profile,
		PortfolioScore:  score,
		Dimensions:      dimensions,
		Recommendations: recommendations,
	}

	if s.assessor == nil {
		s.logger.Warn("no assessor configured, skipping AI assessment")
		return audit, nil
	}

	assessment, err := s.assessor.Assess(ctx, profile)
	if err != nil {
		// Non-fatal: the dashboard renders without the AI-derived sections.
		s.logger.Warn("AI assessment failed", zap.Error(err))
		audit.AssessmentError = err.Error()
		return audit, nil
	}
	audit.Assessment = assessment
	s.logger.Info("AI assessment complete",
		zap.String("verdict", assessment.Verdict),
		zap.Int("score", assessment.Score),
	)

	return audit, nil
}

// BuildReport assembles the exportable subset of an audit: username,
// portfolio score, dimension scores, the assessment and the first ten
// repositories' headline numbers.
func (s *AuditService) BuildReport(audit *domain.Audit) *domain.Report {
	report := &domain.Report{
		Username:        audit.Profile.User.Login,
		PortfolioScore:  audit.PortfolioScore,
		DimensionScores: audit.Dimensions,
		AIAnalysis:      audit.Assessment,
	}

	repos := audit.Profile.Repos
	if len(repos) > reportRepoLimit {
		repos = repos[:reportRepoLimit]
	}
	for _, r := range repos {
		report.Repositories = append(report.Repositories, domain.ReportRepo{
			Name:     r.Name,
			Stars:    r.Stars,
			Forks:    r.Forks,
			DocScore: r.DocScore,
		})
	}

	return report
}

// ExportReport serializes a report for download.
func (s *AuditService) ExportReport(audit *domain.Audit) ([]byte, error) {
	return json.MarshalIndent(s.BuildReport(audit), "", "  ")
}
