// Package recommend derives actionable suggestions from scored audit data.
// Rules are evaluated in a fixed order and the result is the first five that
// fire, not a severity ranking.
package recommend

import (
	"fmt"

	"gitaudit/internal/domain"
)

// MaxRecommendations is a hard cap on the returned list.
const MaxRecommendations = 5

// Thresholds the rules fire below.
const (
	portfolioDocThreshold      = 60
	portfolioActivityThreshold = 50
	repoDocThreshold           = 40
)

// GeneralRepo labels portfolio-wide recommendations.
const GeneralRepo = "General"

// Generate scans the portfolio-wide rules first, then every repository in
// fetch order, and truncates to the first MaxRecommendations hits.
func Generate(p *domain.Profile, dims domain.DimensionScores) []*domain.Recommendation {
	var recs []*domain.Recommendation

	if dims[domain.DimDocumentation] < portfolioDocThreshold {
		recs = append(recs, &domain.Recommendation{
			Repo:     GeneralRepo,
			Issue:    "Poor Documentation",
			Action:   "Add comprehensive READMEs with setup instructions, features, and screenshots",
			Priority: domain.PriorityHigh,
		})
	}

	if dims[domain.DimActivity] < portfolioActivityThreshold {
		recs = append(recs, &domain.Recommendation{
			Repo:     GeneralRepo,
			Issue:    "Inconsistent Activity",
			Action:   "Commit code at least 3-4 times per week to show active development",
			Priority: domain.PriorityMedium,
		})
	}

	if p != nil {
		for _, r := range p.Repos {
			if r.DocScore < repoDocThreshold {
				recs = append(recs, &domain.Recommendation{
					Repo:     r.Name,
					Issue:    "Missing Documentation",
					Action:   fmt.Sprintf("Add a detailed README.md to %s with project description and setup guide", r.Name),
					Priority: domain.PriorityHigh,
				})
			}

			if r.Stars == 0 && r.Forks == 0 {
				recs = append(recs, &domain.Recommendation{
					Repo:     r.Name,
					Issue:    "Low Impact",
					Action:   fmt.Sprintf("Promote %s on social media and add screenshots to attract users", r.Name),
					Priority: domain.PriorityMedium,
				})
			}
		}
	}

	if len(recs) > MaxRecommendations {
		recs = recs[:MaxRecommendations]
	}
	return recs
}
