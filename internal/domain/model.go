package domain

import "time"

// User is a snapshot of a GitHub account, fetched once per audit run.
type User struct {
	Login       string    `json:"login"`
	Name        string    `json:"name"`
	Bio         string    `json:"bio"`
	Location    string    `json:"location"`
	Followers   int       `json:"followers"`
	Following   int       `json:"following"`
	PublicRepos int       `json:"public_repos"`
	CreatedAt   time.Time `json:"created_at"`
	AvatarURL   string    `json:"avatar_url"`
	HTMLURL     string    `json:"html_url"`
}

// WeeklyCommits is one week of commit-activity statistics.
type WeeklyCommits struct {
	Week  time.Time `json:"week"`
	Total int       `json:"total"`
}

// Repository is one repository's raw attributes plus the fields attached
// during enrichment and scoring. Enrichment is append-only: raw fields are
// never overwritten.
type Repository struct {
	Name        string    `json:"name"`
	FullName    string    `json:"full_name"`
	Description string    `json:"description"`
	Homepage    string    `json:"homepage"`
	Language    string    `json:"language"`
	Stars       int       `json:"stargazers_count"`
	Forks       int       `json:"forks_count"`
	OpenIssues  int       `json:"open_issues_count"`
	Watchers    int       `json:"watchers_count"`
	Size        int       `json:"size"`
	HasWiki     bool      `json:"has_wiki"`
	HasPages    bool      `json:"has_pages"`
	HasIssues   bool      `json:"has_issues"`
	HasProjects bool      `json:"has_projects"`
	IsFork      bool      `json:"fork"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	PushedAt    time.Time `json:"pushed_at"`

	// Enrichment. A nil CommitActivity means the statistics endpoint was
	// unavailable for this repository, not zero commits.
	Languages      map[string]int  `json:"languages"`
	ReadmeExists   bool            `json:"readme_exists"`
	ReadmePreview  string          `json:"readme_preview"`
	CommitActivity []WeeklyCommits `json:"commit_activity,omitempty"`

	// Sub-scores, each 0-100.
	DocScore      int `json:"doc_score"`
	CodeScore     int `json:"code_score"`
	ActivityScore int `json:"activity_score"`
}

// Profile is the data bundle produced by one fetch pass. It lives for a
// single audit run and is never persisted.
type Profile struct {
	User  *User         `json:"user"`
	Repos []*Repository `json:"repos"`
	Orgs  []string      `json:"orgs"`
}

// The six dimensions contributing to the portfolio score.
const (
	DimDocumentation  = "Documentation Quality"
	DimCodeQuality    = "Code Structure & Best Practices"
	DimActivity       = "Activity Consistency"
	DimOrganization   = "Repository Organization"
	DimImpact         = "Project Impact"
	DimTechnicalDepth = "Technical Depth"
)

// DimensionScores maps each dimension name to a value in [0,100], rounded
// to one decimal place.
type DimensionScores map[string]float64

// Recommendation is one actionable suggestion. Repo is either a repository
// name or "General" for portfolio-wide advice.
type Recommendation struct {
	Repo     string `json:"repo"`
	Issue    string `json:"issue"`
	Action   string `json:"action"`
	Priority string `json:"priority"`
}

// Recommendation priorities.
const (
	PriorityHigh   = "High"
	PriorityMedium = "Medium"
	PriorityLow    = "Low"
)

// Verdicts the AI assessment is allowed to return.
var Verdicts = []string{"Hire", "Strong Consider", "Interview", "Cultivate", "Pass"}

// ArchiveAdvice names a repository the candidate should archive.
type ArchiveAdvice struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// ImproveAdvice names a repository worth improving and how.
type ImproveAdvice struct {
	Name        string `json:"name"`
	Improvement string `json:"improvement"`
}

// Assessment is the structured hiring assessment decoded from the model
// response. It is either fully populated or absent (nil) — a run never
// carries a partially filled assessment.
type Assessment struct {
	Score              int             `json:"score"`
	Verdict            string          `json:"verdict"`
	Role               string          `json:"role"`
	Summary            string          `json:"summary"`
	Skills             map[string]int  `json:"skills"`
	SoftSkills         map[string]int  `json:"soft_skills"`
	Pros               []string        `json:"pros"`
	Cons               []string        `json:"cons"`
	InterviewQuestions []string        `json:"interview_questions"`
	ArchiveRepos       []ArchiveAdvice `json:"archive_repos"`
	ImproveRepos       []ImproveAdvice `json:"improve_repos"`
}

// Audit bundles the four artifacts of one run for the presentation layer.
// Assessment is nil when the model call failed or no key was configured;
// AssessmentError then carries the user-visible, non-fatal reason.
type Audit struct {
	Profile         *Profile          `json:"profile"`
	PortfolioScore  float64           `json:"portfolio_score"`
	Dimensions      DimensionScores   `json:"dimension_scores"`
	Recommendations []*Recommendation `json:"recommendations"`
	Assessment      *Assessment       `json:"assessment"`
	AssessmentError string            `json:"assessment_error,omitempty"`
}

// ReportRepo is the per-repository subset included in an exported report.
type ReportRepo struct {
	Name     string `json:"name"`
	Stars    int    `json:"stars"`
	Forks    int    `json:"forks"`
	DocScore int    `json:"doc_score"`
}

// Report is the downloadable export of one audit run.
type Report struct {
	Username        string          `json:"username"`
	PortfolioScore  float64         `json:"portfolio_score"`
	DimensionScores DimensionScores `json:"dimension_scores"`
	AIAnalysis      *Assessment     `json:"ai_analysis"`
	Repositories    []ReportRepo    `json:"repositories"`
}
