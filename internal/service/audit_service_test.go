package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"gitaudit/internal/common"
	"gitaudit/internal/domain"
	"gitaudit/internal/scoring"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockFetcher struct {
	mock.Mock
}

func (m *MockFetcher) FetchProfile(ctx context.Context, username string) (*domain.Profile, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

type MockAssessor struct {
	mock.Mock
}

func (m *MockAssessor) Assess(ctx context.Context, profile *domain.Profile) (*domain.Assessment, error) {
	args := m.Called(ctx, profile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Assessment), args.Error(1)
}

func testProfile() *domain.Profile {
	return &domain.Profile{
		User: &domain.User{Login: "alice", PublicRepos: 2},
		Repos: []*domain.Repository{
			{
				Name:         "repo-one",
				Description:  "a project",
				ReadmeExists: true,
				Stars:        10,
				Forks:        2,
				PushedAt:     time.Now().AddDate(0, 0, -3),
				Languages:    map[string]int{"Go": 1000},
			},
			{
				Name:     "repo-two",
				PushedAt: time.Now().AddDate(-1, 0, 0),
			},
		},
		Orgs: []string{"acme"},
	}
}

func testAssessment() *domain.Assessment {
	return &domain.Assessment{
		Score:   70,
		Verdict: "Interview",
		Role:    "Backend Engineer",
	}
}

func newTestService(fetcher *MockFetcher, assessor *MockAssessor) *AuditService {
	// A nil *MockAssessor must become a nil interface, not a non-nil
	// interface holding a nil pointer.
	if assessor == nil {
		return NewAuditService(fetcher, scoring.NewScorer(), nil, zap.NewNop())
	}
	return NewAuditService(fetcher, scoring.NewScorer(), assessor, zap.NewNop())
}

func TestRunFullPipeline(t *testing.T) {
	fetcher := new(MockFetcher)
	assessor := new(MockAssessor)
	profile := testProfile()

	fetcher.On("FetchProfile", mock.Anything, "alice").Return(profile, nil)
	assessor.On("Assess", mock.Anything, profile).Return(testAssessment(), nil)

	svc := newTestService(fetcher, assessor)
	audit, err := svc.Run(context.Background(), "alice")

	require.NoError(t, err)
	require.NotNil(t, audit)
	assert.Same(t, profile, audit.Profile)
	assert.Greater(t, audit.PortfolioScore, 0.0)
	assert.Len(t, audit.Dimensions, 6)
	assert.NotNil(t, audit.Assessment)
	assert.Equal(t, "Interview", audit.Assessment.Verdict)
	assert.Empty(t, audit.AssessmentError)

	// Scoring ran as a side effect on the fetched repositories.
	assert.Greater(t, profile.Repos[0].DocScore, 0)

	fetcher.AssertExpectations(t)
	assessor.AssertExpectations(t)
}

func TestRunFetchErrorIsFatal(t *testing.T) {
	fetcher := new(MockFetcher)
	fetchErr := common.NewError(common.ErrCodeUserNotFound, "user ghost not found")
	fetcher.On("FetchProfile", mock.Anything, "ghost").Return(nil, fetchErr)

	svc := newTestService(fetcher, nil)
	audit, err := svc.Run(context.Background(), "ghost")

	assert.Nil(t, audit)
	assert.True(t, common.HasCode(err, common.ErrCodeUserNotFound))
}

func TestRunAssessmentFailureIsIsolated(t *testing.T) {
	fetcher := new(MockFetcher)
	assessor := new(MockAssessor)
	profile := testProfile()

	fetcher.On("FetchProfile", mock.Anything, "alice").Return(profile, nil)
	assessor.On("Assess", mock.Anything, profile).
		Return(nil, errors.New("model returned no JSON"))

	svc := newTestService(fetcher, assessor)
	audit, err := svc.Run(context.Background(), "alice")

	require.NoError(t, err)
	require.NotNil(t, audit)
	assert.Nil(t, audit.Assessment)
	assert.Equal(t, "model returned no JSON", audit.AssessmentError)
	assert.Greater(t, audit.PortfolioScore, 0.0)
}

func TestRunWithoutAssessor(t *testing.T) {
	fetcher := new(MockFetcher)
	fetcher.On("FetchProfile", mock.Anything, "alice").Return(testProfile(), nil)

	svc := newTestService(fetcher, nil)
	audit, err := svc.Run(context.Background(), "alice")

	require.NoError(t, err)
	assert.Nil(t, audit.Assessment)
	assert.Empty(t, audit.AssessmentError)
}

func TestBuildReportCapsRepositories(t *testing.T) {
	profile := &domain.Profile{User: &domain.User{Login: "alice"}}
	for i := 0; i < 15; i++ {
		profile.Repos = append(profile.Repos, &domain.Repository{
			Name:  "repo",
			Stars: i,
		})
	}
	audit := &domain.Audit{
		Profile:        profile,
		PortfolioScore: 42.5,
		Dimensions:     domain.DimensionScores{domain.DimDocumentation: 50},
	}

	svc := newTestService(new(MockFetcher), nil)
	report := svc.BuildReport(audit)

	assert.Equal(t, "alice", report.Username)
	assert.Equal(t, 42.5, report.PortfolioScore)
	assert.Len(t, report.Repositories, reportRepoLimit)
}

func TestExportReport(t *testing.T) {
	audit := &domain.Audit{
		Profile: &domain.Profile{
			User:  &domain.User{Login: "alice"},
			Repos: []*domain.Repository{{Name: "repo-one", Stars: 3, DocScore: 60}},
		},
		PortfolioScore: 55.5,
		Dimensions:     domain.DimensionScores{domain.DimDocumentation: 60},
		Assessment:     testAssessment(),
	}

	svc := newTestService(new(MockFetcher), nil)
	data, err := svc.ExportReport(audit)

	require.NoError(t, err)

	var report domain.Report
	require.NoError(t, json.Unmarshal(data, &report))
	assert.Equal(t, "alice", report.Username)
	assert.Equal(t, 55.5, report.PortfolioScore)
	require.Len(t, report.Repositories, 1)
	assert.Equal(t, "repo-one", report.Repositories[0].Name)
	require.NotNil(t, report.AIAnalysis)
	assert.Equal(t, "Interview", report.AIAnalysis.Verdict)
}
