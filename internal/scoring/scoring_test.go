package scoring

import (
	"fmt"
	"testing"
	"time"

	"gitaudit/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestDocumentationScore(t *testing.T) {
	s := NewScorer()

	tests := []struct {
		name     string
		repo     *domain.Repository
		expected int
	}{
		{
			name:     "bare repository",
			repo:     &domain.Repository{},
			expected: 0,
		},
		{
			name: "readme and description only",
			repo: &domain.Repository{
				ReadmeExists: true,
				Description:  "x",
			},
			expected: 60,
		},
		{
			name: "everything set caps at 100",
			repo: &domain.Repository{
				ReadmeExists: true,
				Description:  "a tool",
				Homepage:     "https://example.com",
				HasWiki:      true,
				HasPages:     true,
			},
			expected: 100,
		},
		{
			name: "homepage and wiki without readme",
			repo: &domain.Repository{
				Homepage: "https://example.com",
				HasWiki:  true,
			},
			expected: 25,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, s.DocumentationScore(tt.repo))
		})
	}
}

// Enabling any single documentation signal must never lower the score.
func TestDocumentationScoreMonotonic(t *testing.T) {
	s := NewScorer()

	base := domain.Repository{
		ReadmeExists: false,
		Description:  "",
		Homepage:     "",
		HasWiki:      false,
		HasPages:     false,
	}

	variants := []func(r *domain.Repository){
		func(r *domain.Repository) { r.ReadmeExists = true },
		func(r *domain.Repository) { r.Description = "desc" },
		func(r *domain.Repository) { r.Homepage = "https://example.com" },
		func(r *domain.Repository) { r.HasWiki = true },
		func(r *domain.Repository) { r.HasPages = true },
	}

	// Walk every combination and flip each remaining signal on top of it.
	for mask := 0; mask < 1<<len(variants); mask++ {
		repo := base
		for i, apply := range variants {
			if mask&(1<<i) != 0 {
				apply(&repo)
			}
		}
		before := s.DocumentationScore(&repo)

		for i, apply := range variants {
			if mask&(1<<i) != 0 {
				continue
			}
			flipped := repo
			apply(&flipped)
			after := s.DocumentationScore(&flipped)
			assert.GreaterOrEqual(t, after, before,
				"flipping signal %d on combination %b decreased the score", i, mask)
		}
	}
}

func TestCodeQualityScore(t *testing.T) {
	s := NewScorer()

	tests := []struct {
		name     string
		repo     *domain.Repository
		expected int
	}{
		{
			name:     "empty repository",
			repo:     &domain.Repository{},
			expected: 0,
		},
		{
			name: "all signals cap at 100",
			repo: &domain.Repository{
				Languages:   map[string]int{"Go": 1000},
				HasIssues:   true,
				HasProjects: true,
				Size:        42,
				Stars:       3,
			},
			expected: 100,
		},
		{
			name: "language and size only",
			repo: &domain.Repository{
				Languages: map[string]int{"Go": 1000},
				Size:      42,
			},
			expected: 45,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, s.CodeQualityScore(tt.repo))
		})
	}
}

func TestActivityScore(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := NewScorerAt(now)

	tests := []struct {
		name     string
		repo     *domain.Repository
		expected int
	}{
		{
			name: "pushed 3 days ago, no engagement",
			repo: &domain.Repository{
				PushedAt: now.AddDate(0, 0, -3),
			},
			expected: 40,
		},
		{
			name: "pushed 10 days ago",
			repo: &domain.Repository{
				PushedAt: now.AddDate(0, 0, -10),
			},
			expected: 30,
		},
		{
			name: "pushed 60 days ago",
			repo: &domain.Repository{
				PushedAt: now.AddDate(0, 0, -60),
			},
			expected: 20,
		},
		{
			name: "stale repository",
			repo: &domain.Repository{
				PushedAt: now.AddDate(-2, 0, 0),
			},
			expected: 10,
		},
		{
			name: "fresh with full engagement caps at 100",
			repo: &domain.Repository{
				PushedAt:   now.AddDate(0, 0, -1),
				OpenIssues: 2,
				Forks:      1,
				Watchers:   5,
			},
			expected: 100,
		},
		{
			name: "stale but engaged",
			repo: &domain.Repository{
				PushedAt:   now.AddDate(-1, 0, 0),
				OpenIssues: 1,
				Forks:      1,
				Watchers:   1,
			},
			expected: 70,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, s.ActivityScore(tt.repo))
		})
	}
}

func TestSubScoresStayInRange(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	s := NewScorerAt(now)

	repos := []*domain.Repository{
		{},
		{
			ReadmeExists: true,
			Description:  "everything",
			Homepage:     "https://example.com",
			HasWiki:      true,
			HasPages:     true,
			HasIssues:    true,
			HasProjects:  true,
			Languages:    map[string]int{"Go": 1, "Rust": 2},
			Size:         9999,
			Stars:        5000,
			Forks:        300,
			OpenIssues:   40,
			Watchers:     5000,
			PushedAt:     now,
		},
		{PushedAt: now.AddDate(-10, 0, 0)},
	}

	for i, repo := range repos {
		for name, score := range map[string]int{
			"doc":      s.DocumentationScore(repo),
			"code":     s.CodeQualityScore(repo),
			"activity": s.ActivityScore(repo),
		} {
			assert.GreaterOrEqual(t, score, 0, "repo %d %s score", i, name)
			assert.LessOrEqual(t, score, 100, "repo %d %s score", i, name)
		}
	}
}

func TestWeightsSumToOne(t *testing.T) {
	sum := weightDocumentation + weightCodeQuality + weightActivity +
		weightOrganization + weightImpact + weightTechnicalDepth
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestPortfolioScoreEmpty(t *testing.T) {
	s := NewScorer()

	score, dims := s.PortfolioScore(&domain.Profile{})
	assert.Equal(t, 0.0, score)
	assert.Empty(t, dims)

	score, dims = s.PortfolioScore(nil)
	assert.Equal(t, 0.0, score)
	assert.Empty(t, dims)
}

func TestPortfolioScore(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := NewScorerAt(now)

	profile := &domain.Profile{
		User: &domain.User{Login: "dev"},
		Orgs: []string{"some-org"},
		Repos: []*domain.Repository{
			{
				ReadmeExists: true,
				Description:  "main project",
				Languages:    map[string]int{"Go": 1000, "Makefile": 20},
				HasIssues:    true,
				Size:         500,
				Stars:        10,
				Forks:        5,
				Watchers:     10,
				OpenIssues:   2,
				PushedAt:     now.AddDate(0, 0, -2),
			},
			{
				Description: "side project",
				Languages:   map[string]int{"Python": 300},
				Size:        100,
				PushedAt:    now.AddDate(0, 0, -45),
			},
		},
	}

	s.ScoreRepositories(profile)
	score, dims := s.PortfolioScore(profile)

	// Per-repo sub-scores feeding the means.
	assert.Equal(t, 60, profile.Repos[0].DocScore)
	assert.Equal(t, 100, profile.Repos[0].ActivityScore)
	assert.Equal(t, 20, profile.Repos[1].DocScore)
	assert.Equal(t, 20, profile.Repos[1].ActivityScore)

	assert.Equal(t, 40.0, dims[domain.DimDocumentation])
	assert.Equal(t, 60.0, dims[domain.DimActivity])
	// One org, fewer than 3 repos.
	assert.Equal(t, 20.0, dims[domain.DimOrganization])
	// (10 stars * 2 + 5 forks) / 5.
	assert.Equal(t, 5.0, dims[domain.DimImpact])
	// 3 distinct languages * 8.
	assert.Equal(t, 24.0, dims[domain.DimTechnicalDepth])

	assert.GreaterOrEqual(t, score, 0.0)
	assert.LessOrEqual(t, score, 100.0)
	assert.Len(t, dims, 6)

	for dim, value := range dims {
		assert.GreaterOrEqual(t, value, 0.0, dim)
		assert.LessOrEqual(t, value, 100.0, dim)
	}
}

// With every dimension input inside [0,100] the weighted blend can never
// leave [0,100].
func TestPortfolioScoreConvex(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	s := NewScorerAt(now)

	for _, repoCount := range []int{1, 3, 5, 50} {
		profile := &domain.Profile{
			User: &domain.User{Login: "dev"},
			Orgs: []string{"a", "b"},
		}
		for i := 0; i < repoCount; i++ {
			profile.Repos = append(profile.Repos, &domain.Repository{
				Name:         fmt.Sprintf("repo-%d", i),
				ReadmeExists: i%2 == 0,
				HasWiki:      i%3 == 0,
				Languages:    map[string]int{fmt.Sprintf("Lang%d", i%7): 100},
				Stars:        i * 100,
				Forks:        i * 10,
				Size:         i,
				PushedAt:     now.AddDate(0, 0, -i*20),
			})
		}

		s.ScoreRepositories(profile)
		score, dims := s.PortfolioScore(profile)

		assert.GreaterOrEqual(t, score, 0.0, "repo count %d", repoCount)
		assert.LessOrEqual(t, score, 100.0, "repo count %d", repoCount)
		for dim, value := range dims {
			assert.GreaterOrEqual(t, value, 0.0, dim)
			assert.LessOrEqual(t, value, 100.0, dim)
		}
	}
}

func TestPortfolioOrganizationTiers(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	s := NewScorerAt(now)

	tests := []struct {
		name     string
		repos    int
		orgs     []string
		expected float64
	}{
		{"one repo no orgs", 1, nil, 0},
		{"three repos", 3, nil, 20},
		{"five repos", 5, nil, 40},
		{"five repos with org", 5, []string{"org"}, 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := &domain.Profile{User: &domain.User{}, Orgs: tt.orgs}
			for i := 0; i < tt.repos; i++ {
				profile.Repos = append(profile.Repos, &domain.Repository{PushedAt: now})
			}
			s.ScoreRepositories(profile)
			_, dims := s.PortfolioScore(profile)
			assert.Equal(t, tt.expected, dims[domain.DimOrganization])
		})
	}
}

func TestPortfolioImpactCaps(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	s := NewScorerAt(now)

	profile := &domain.Profile{
		User: &domain.User{},
		Repos: []*domain.Repository{
			{Stars: 100000, Forks: 50000, PushedAt: now},
		},
	}
	s.ScoreRepositories(profile)
	_, dims := s.PortfolioScore(profile)

	assert.Equal(t, 100.0, dims[domain.DimImpact])
}

func TestPortfolioTechnicalDepthCaps(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	s := NewScorerAt(now)

	languages := map[string]int{}
	for i := 0; i < 20; i++ {
		languages[fmt.Sprintf("Lang%d", i)] = 100
	}
	profile := &domain.Profile{
		User:  &domain.User{},
		Repos: []*domain.Repository{{Languages: languages, PushedAt: now}},
	}
	s.ScoreRepositories(profile)
	_, dims := s.PortfolioScore(profile)

	assert.Equal(t, 40.0, dims[domain.DimTechnicalDepth])
}
