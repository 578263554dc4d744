package github

import (
	"context"
	"net/http"

	"gitaudit/internal/common"
	"gitaudit/internal/domain"
	"gitaudit/internal/port"

	"github.com/google/go-github/v53/github"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

const (
	// Repositories are pulled in pages of this size, most recently updated
	// first, until a page comes back empty or repoLimit accumulate.
	pageSize  = 30
	repoLimit = 50

	// README content is truncated to this many characters.
	readmePreviewLen = 500
)

// Fetcher implements port.ProfileFetcher on the GitHub REST API.
type Fetcher struct {
	client *github.Client
	token  string
	logger *zap.Logger
}

var _ port.ProfileFetcher = (*Fetcher)(nil)

// NewFetcher builds a GitHub client. An empty token is accepted here but
// FetchProfile refuses to run with one: unauthenticated calls are never made.
func NewFetcher(token string, logger *zap.Logger) *Fetcher {
	var client *github.Client

	if token == "" {
		client = github.NewClient(nil)
	} else {
		ctx := context.Background()
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: token},
		)
		tc := oauth2.NewClient(ctx, ts)
		client = github.NewClient(tc)
	}

	return &Fetcher{client: client, token: token, logger: logger}
}

// FetchProfile pulls the user, up to repoLimit repositories with enrichment,
// and the user's organizations. A failed user lookup aborts the fetch; a
// failed enrichment call only leaves its field absent.
func (f *Fetcher) FetchProfile(ctx context.Context, username string) (*domain.Profile, error) {
	if username == "" {
		return nil, common.NewError(common.ErrCodeInvalidInput, "username is required")
	}
	if f.token == "" {
		return nil, common.NewError(common.ErrCodeNoCredential, "GitHub token is not configured")
	}

	user, resp, err := f.client.Users.Get(ctx, username)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, common.WrapError(common.ErrCodeUserNotFound, "user "+username+" not found", err)
		}
		return nil, common.WrapError(common.ErrCodeGitHubAPI, "user lookup failed", err)
	}

	profile := &domain.Profile{
		User: &domain.User{
			Login:       user.GetLogin(),
			Name:        user.GetName(),
			Bio:         user.GetBio(),
			Location:    user.GetLocation(),
			Followers:   user.GetFollowers(),
			Following:   user.GetFollowing(),
			PublicRepos: user.GetPublicRepos(),
			CreatedAt:   user.GetCreatedAt().Time,
			AvatarURL:   user.GetAvatarURL(),
			HTMLURL:     user.GetHTMLURL(),
		},
	}

	profile.Repos = f.fetchRepositories(ctx, username)
	for _, repo := range profile.Repos {
		f.enrich(ctx, repo)
	}
	profile.Orgs = f.fetchOrganizations(ctx, username)

	return profile, nil
}

// fetchRepositories pages through the user's repositories. A page error
// stops pagination but keeps whatever accumulated so far.
func (f *Fetcher) fetchRepositories(ctx context.Context, username string) []*domain.Repository {
	var repos []*domain.Repository

	opts := &github.RepositoryListOptions{
		Sort:      "updated",
		Direction: "desc",
		ListOptions: github.ListOptions{
			PerPage: pageSize,
			Page:    1,
		},
	}

	for len(repos) < repoLimit {
		page, _, err := f.client.Repositories.List(ctx, username, opts)
		if err != nil {
			f.logger.Debug("repository page fetch failed",
				zap.String("user", username),
				zap.Int("page", opts.Page),
				zap.Error(err),
			)
			break
		}
		if len(page) == 0 {
			break
		}

		for _, item := range page {
			repos = append(repos, &domain.Repository{
				Name:        item.GetName(),
				FullName:    item.GetFullName(),
				Description: item.GetDescription(),
				Homepage:    item.GetHomepage(),
				Language:    item.GetLanguage(),
				Stars:       item.GetStargazersCount(),
				Forks:       item.GetForksCount(),
				OpenIssues:  item.GetOpenIssuesCount(),
				Watchers:    item.GetWatchersCount(),
				Size:        item.GetSize(),
				HasWiki:     item.GetHasWiki(),
				HasPages:    item.GetHasPages(),
				HasIssues:   item.GetHasIssues(),
				HasProjects: item.GetHasProjects(),
				IsFork:      item.GetFork(),
				CreatedAt:   item.GetCreatedAt().Time,
				UpdatedAt:   item.GetUpdatedAt().Time,
				PushedAt:    item.GetPushedAt().Time,
			})
		}
		opts.Page++
	}

	if len(repos) > repoLimit {
		repos = repos[:repoLimit]
	}
	return repos
}

// enrich attaches README, language and commit-activity data to one
// repository. Each call degrades independently to an absent value.
func (f *Fetcher) enrich(ctx context.Context, repo *domain.Repository) {
	owner, name := splitFullName(repo.FullName)

	preview, err := f.fetchReadme(ctx, owner, name)
	if err != nil {
		f.logger.Debug("readme unavailable", zap.String("repo", repo.FullName), zap.Error(err))
		repo.ReadmeExists = false
	} else {
		repo.ReadmeExists = true
		repo.ReadmePreview = preview
	}

	languages, err := f.fetchLanguages(ctx, owner, name)
	if err != nil {
		f.logger.Debug("languages unavailable", zap.String("repo", repo.FullName), zap.Error(err))
		repo.Languages = map[string]int{}
	} else {
		repo.Languages = languages
	}

	activity, err := f.fetchCommitActivity(ctx, owner, name)
	if err != nil {
		f.logger.Debug("commit activity unavailable", zap.String("repo", repo.FullName), zap.Error(err))
		repo.CommitActivity = nil
	} else {
		repo.CommitActivity = activity
	}
}

func (f *Fetcher) fetchReadme(ctx context.Context, owner, name string) (string, error) {
	content, _, err := f.client.Repositories.GetReadme(ctx, owner, name, nil)
	if err != nil {
		return "", err
	}

	text, err := content.GetContent()
	if err != nil {
		return "", err
	}

	runes := []rune(text)
	if len(runes) > readmePreviewLen {
		text = string(runes[:readmePreviewLen])
	}
	return text, nil
}

func (f *Fetcher) fetchLanguages(ctx context.Context, owner, name string) (map[string]int, error) {
	languages, _, err := f.client.Repositories.ListLanguages(ctx, owner, name)
	if err != nil {
		return nil, err
	}
	return languages, nil
}

// fetchCommitActivity pulls weekly commit counts for the trailing year.
// GitHub answers 202 while it computes the statistics; that surfaces as an
// error here and the field stays absent for this run.
func (f *Fetcher) fetchCommitActivity(ctx context.Context, owner, name string) ([]domain.WeeklyCommits, error) {
	weeks, _, err := f.client.Repositories.ListCommitActivity(ctx, owner, name)
	if err != nil {
		return nil, err
	}

	activity := make([]domain.WeeklyCommits, 0, len(weeks))
	for _, week := range weeks {
		activity = append(activity, domain.WeeklyCommits{
			Week:  week.GetWeek().Time,
			Total: week.GetTotal(),
		})
	}
	return activity, nil
}

// fetchOrganizations returns the user's organization logins; failure yields
// an empty list.
func (f *Fetcher) fetchOrganizations(ctx context.Context, username string) []string {
	orgs, _, err := f.client.Organizations.List(ctx, username, nil)
	if err != nil {
		f.logger.Debug("organizations unavailable", zap.String("user", username), zap.Error(err))
		return []string{}
	}

	names := make([]string, 0, len(orgs))
	for _, org := range orgs {
		names = append(names, org.GetLogin())
	}
	return names
}

func splitFullName(fullName string) (owner, name string) {
	for i := 0; i < len(fullName); i++ {
		if fullName[i] == '/' {
			return fullName[:i], fullName[i+1:]
		}
	}
	return "", fullName
}
