package port

import (
	"context"

	"gitaudit/internal/domain"
)

// ProfileFetcher pulls a user's public profile, repositories (enriched with
// README, language and commit-activity data) and organizations in one pass.
type ProfileFetcher interface {
	FetchProfile(ctx context.Context, username string) (*domain.Profile, error)
}

// Assessor turns a fetched profile into a structured hiring assessment.
// Implementations must fail closed: on any error the returned assessment is
// nil, never partially filled.
type Assessor interface {
	Assess(ctx context.Context, profile *domain.Profile) (*domain.Assessment, error)
}
