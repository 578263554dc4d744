// Package scoring computes per-repository sub-scores and the aggregate
// portfolio score. Everything here is pure and deterministic: no I/O, the
// clock is injectable for tests.
package scoring

import (
	"math"
	"time"

	"gitaudit/internal/domain"
)

// Fixed dimension weights. They sum to exactly 1.0, which makes the final
// score a convex combination of the six dimensions.
const (
	weightDocumentation  = 0.20
	weightCodeQuality    = 0.20
	weightActivity       = 0.15
	weightOrganization   = 0.15
	weightImpact         = 0.15
	weightTechnicalDepth = 0.15
)

// Documentation point shares. README dominates: it is the single heaviest
// recruiter signal.
const (
	docPointsReadme      = 40
	docPointsDescription = 20
	docPointsHomepage    = 10
	docPointsWiki        = 15
	docPointsPages       = 15
)

// Scorer holds the injectable clock used by the activity buckets.
type Scorer struct {
	nowFunc func() time.Time
}

// NewScorer creates a scorer using the real clock.
func NewScorer() *Scorer {
	return &Scorer{nowFunc: time.Now}
}

// NewScorerAt creates a scorer frozen at the given instant.
func NewScorerAt(now time.Time) *Scorer {
	return &Scorer{nowFunc: func() time.Time { return now }}
}

// DocumentationScore is an additive point system over the documentation
// signals, capped at 100. Monotonic in each signal: enabling any of them
// never lowers the score.
func (s *Scorer) DocumentationScore(r *domain.Repository) int {
	score := 0
	if r.ReadmeExists {
		score += docPointsReadme
	}
	if r.Description != "" {
		score += docPointsDescription
	}
	if r.Homepage != "" {
		score += docPointsHomepage
	}
	if r.HasWiki {
		score += docPointsWiki
	}
	if r.HasPages {
		score += docPointsPages
	}
	return clamp(score)
}

// CodeQualityScore adds a fixed share for each structural signal, capped
// at 100.
func (s *Scorer) CodeQualityScore(r *domain.Repository) int {
	score := 0
	if len(r.Languages) > 0 {
		score += 20
	}
	if r.HasIssues {
		score += 15
	}
	if r.HasProjects {
		score += 15
	}
	if r.Size > 0 {
		score += 25
	}
	if r.Stars > 0 {
		score += 25
	}
	return clamp(score)
}

// ActivityScore buckets freshness by days since the last push, then adds
// flat bonuses for any open issues, forks and watchers. Capped at 100.
func (s *Scorer) ActivityScore(r *domain.Repository) int {
	days := s.nowFunc().Sub(r.PushedAt).Hours() / 24

	var score int
	switch {
	case days < 7:
		score = 40
	case days < 30:
		score = 30
	case days < 90:
		score = 20
	default:
		score = 10
	}

	if r.OpenIssues > 0 {
		score += 20
	}
	if r.Forks > 0 {
		score += 20
	}
	if r.Watchers > 0 {
		score += 20
	}
	return clamp(score)
}

// ScoreRepositories attaches the three sub-scores to every repository in
// the profile.
func (s *Scorer) ScoreRepositories(p *domain.Profile) {
	for _, r := range p.Repos {
		r.DocScore = s.DocumentationScore(r)
		r.CodeScore = s.CodeQualityScore(r)
		r.ActivityScore = s.ActivityScore(r)
	}
}

// PortfolioScore blends the per-repository means with three whole-portfolio
// dimensions into the final weighted score. Returns (0, empty map) when
// there is nothing to score. Expects ScoreRepositories to have run first.
func (s *Scorer) PortfolioScore(p *domain.Profile) (float64, domain.DimensionScores) {
	if p == nil || len(p.Repos) == 0 {
		return 0, domain.DimensionScores{}
	}

	var docSum, codeSum, activitySum float64
	for _, r := range p.Repos {
		docSum += float64(r.DocScore)
		codeSum += float64(r.CodeScore)
		activitySum += float64(r.ActivityScore)
	}
	n := float64(len(p.Repos))
	docScore := docSum / n
	codeScore := codeSum / n
	activityScore := activitySum / n

	orgScore := 0.0
	if len(p.Orgs) > 0 {
		orgScore += 20
	}
	if len(p.Repos) >= 5 {
		orgScore += 20
	}
	if len(p.Repos) >= 3 {
		orgScore += 20
	}

	var totalStars, totalForks int
	for _, r := range p.Repos {
		totalStars += r.Stars
		totalForks += r.Forks
	}
	impactScore := math.Min(100, float64(totalStars*2+totalForks)/5)

	languages := make(map[string]struct{})
	for _, r := range p.Repos {
		for lang := range r.Languages {
			languages[lang] = struct{}{}
		}
	}
	techScore := math.Min(40, float64(len(languages)*8))

	final := docScore*weightDocumentation +
		codeScore*weightCodeQuality +
		activityScore*weightActivity +
		orgScore*weightOrganization +
		impactScore*weightImpact +
		techScore*weightTechnicalDepth

	dimensions := domain.DimensionScores{
		domain.DimDocumentation:  round1(docScore),
		domain.DimCodeQuality:    round1(codeScore),
		domain.DimActivity:       round1(activityScore),
		domain.DimOrganization:   round1(orgScore),
		domain.DimImpact:         round1(impactScore),
		domain.DimTechnicalDepth: round1(techScore),
	}

	return round1(final), dimensions
}

func clamp(score int) int {
	if score > 100 {
		return 100
	}
	if score < 0 {
		return 0
	}
	return score
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
