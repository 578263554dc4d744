package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"gitaudit/internal/common"
	"gitaudit/internal/domain"
	"gitaudit/internal/port"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// fallbackModel is used when model enumeration fails or no flash-tier model
// is available.
const fallbackModel = "models/gemini-1.5-flash"

// assessmentTemperature keeps repeated runs on the same profile close to
// reproducible.
const assessmentTemperature = 0.2

// promptRepoLimit caps how many repositories are embedded in the prompt.
const promptRepoLimit = 10

// Assessor implements port.Assessor on the Gemini API. It is only
// constructed when an API key exists; without one the whole assessment
// stage is skipped upstream.
type Assessor struct {
	client *genai.Client
	logger *zap.Logger
}

var _ port.Assessor = (*Assessor)(nil)

// NewAssessor creates the Gemini client. An empty key is a hard error:
// callers must not construct an assessor they intend to skip.
func NewAssessor(ctx context.Context, apiKey string, logger *zap.Logger) (*Assessor, error) {
	if apiKey == "" {
		return nil, common.NewError(common.ErrCodeNoCredential, "Gemini API key is not configured")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, common.WrapError(common.ErrCodeAIProcessing, "creating Gemini client", err)
	}

	return &Assessor{client: client, logger: logger}, nil
}

// Close releases the underlying client.
func (a *Assessor) Close() error {
	return a.client.Close()
}

// Assess builds the hiring-assessment prompt, invokes the model and decodes
// the response. Fails closed: any error returns a nil assessment.
func (a *Assessor) Assess(ctx context.Context, profile *domain.Profile) (*domain.Assessment, error) {
	if profile == nil || profile.User == nil {
		return nil, common.NewError(common.ErrCodeInvalidInput, "profile is required")
	}

	name := a.pickModel(ctx)
	a.logger.Debug("assessment model selected", zap.String("model", name))

	model := a.client.GenerativeModel(name)
	model.SetTemperature(assessmentTemperature)
	model.ResponseMIMEType = "application/json"

	resp, err := model.GenerateContent(ctx, genai.Text(buildPrompt(profile)))
	if err != nil {
		return nil, common.WrapError(common.ErrCodeAIProcessing, "model call failed", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, common.NewError(common.ErrCodeAIProcessing, "model returned no content")
	}

	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return nil, common.NewError(common.ErrCodeAIProcessing, "model returned a non-text part")
	}

	assessment, err := parseAssessment(string(text))
	if err != nil {
		return nil, common.WrapError(common.ErrCodeAIProcessing, "decoding model response", err)
	}

	return assessment, nil
}

// pickModel prefers the first generation-capable flash-tier model; anything
// going wrong during enumeration falls back to the hardcoded default.
func (a *Assessor) pickModel(ctx context.Context) string {
	iter := a.client.ListModels(ctx)
	for {
		info, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			a.logger.Debug("model enumeration failed", zap.Error(err))
			return fallbackModel
		}
		if supportsGeneration(info) && strings.Contains(info.Name, "flash") {
			return info.Name
		}
	}
	return fallbackModel
}

func supportsGeneration(info *genai.ModelInfo) bool {
	for _, method := range info.SupportedGenerationMethods {
		if method == "generateContent" {
			return true
		}
	}
	return false
}

// buildPrompt embeds the account metadata, the top repositories with their
// star counts, the de-duplicated primary languages and the organization
// count, and mandates a strict JSON response.
func buildPrompt(profile *domain.Profile) string {
	repos := profile.Repos
	if len(repos) > promptRepoLimit {
		repos = repos[:promptRepoLimit]
	}

	var repoLines []string
	for _, r := range repos {
		lang := r.Language
		if lang == "" {
			lang = "N/A"
		}
		repoLines = append(repoLines, fmt.Sprintf("%s (%s) - %d stars", r.Name, lang, r.Stars))
	}

	seen := make(map[string]struct{})
	var langs []string
	for _, r := range profile.Repos {
		if r.Language == "" {
			continue
		}
		if _, ok := seen[r.Language]; ok {
			continue
		}
		seen[r.Language] = struct{}{}
		langs = append(langs, r.Language)
	}
	langList := "None"
	if len(langs) > 0 {
		langList = strings.Join(langs, ", ")
	}

	u := profile.User
	return fmt.Sprintf(`Act as a VP of Engineering at a top tech company. Analyze this GitHub profile thoroughly.

USER PROFILE:
Username: %s
Name: %s
Bio: %s
Location: %s
Followers: %d
Following: %d
Public Repos: %d
Account Created: %s

TOP REPOSITORIES (with stars):
%s

LANGUAGES USED: %s

ORGANIZATIONS: %d

Based on this data, provide a detailed JSON analysis with:
1. Overall score (0-100)
2. Verdict (Hire/Strong Consider/Interview/Cultivate/Pass)
3. Best fitting job role
4. Executive summary
5. Technical skills with proficiency scores
6. Soft skills assessment
7. Top 5 strengths
8. Top 5 red flags
9. 5 specific interview questions based on their actual projects
10. 3 repos to archive (with reasons)
11. 3 repos to improve (with specific improvements)

RETURN STRICT JSON (No Markdown):
{
    "score": 0,
    "verdict": "Verdict",
    "role": "Best Fitting Role",
    "summary": "Executive summary here",
    "skills": {"Python": 90, "React": 80},
    "soft_skills": {"Communication": 70, "Leadership": 60},
    "pros": ["strength1", "strength2", "strength3", "strength4", "strength5"],
    "cons": ["redflag1", "redflag2", "redflag3", "redflag4", "redflag5"],
    "interview_questions": ["Q1 based on their projects", "Q2", "Q3", "Q4", "Q5"],
    "archive_repos": [{"name": "repo1", "reason": "why to archive"}],
    "improve_repos": [{"name": "repo2", "improvement": "specific improvement"}]
}`,
		u.Login, orNA(u.Name), orNone(u.Bio), orNA(u.Location),
		u.Followers, u.Following, u.PublicRepos,
		u.CreatedAt.Format("2006-01-02"),
		strings.Join(repoLines, "\n"),
		langList,
		len(profile.Orgs),
	)
}

// parseAssessment extracts the JSON object from the raw model output and
// validates it against the assessment schema. Models occasionally wrap the
// JSON in markdown fences despite the prompt; slicing from the first '{' to
// the last '}' strips those along with any stray prose.
func parseAssessment(raw string) (*domain.Assessment, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end <= start {
		return nil, fmt.Errorf("no JSON object in model output: %q", truncate(raw, 120))
	}

	var assessment domain.Assessment
	if err := json.Unmarshal([]byte(raw[start:end+1]), &assessment); err != nil {
		return nil, fmt.Errorf("unmarshal model output: %w", err)
	}

	if err := validateAssessment(&assessment); err != nil {
		return nil, err
	}
	return &assessment, nil
}

// validateAssessment enforces the all-or-nothing contract: a response
// missing required fields is rejected outright rather than surfaced as a
// half-filled object.
func validateAssessment(a *domain.Assessment) error {
	if a.Score < 0 || a.Score > 100 {
		return fmt.Errorf("score %d out of range", a.Score)
	}
	if !validVerdict(a.Verdict) {
		return fmt.Errorf("unknown verdict %q", a.Verdict)
	}
	if a.Role == "" {
		return fmt.Errorf("missing role")
	}
	if a.Summary == "" {
		return fmt.Errorf("missing summary")
	}
	if len(a.Skills) == 0 {
		return fmt.Errorf("missing skills")
	}
	if len(a.SoftSkills) == 0 {
		return fmt.Errorf("missing soft skills")
	}
	if len(a.Pros) == 0 {
		return fmt.Errorf("missing pros")
	}
	if len(a.Cons) == 0 {
		return fmt.Errorf("missing cons")
	}
	if len(a.InterviewQuestions) == 0 {
		return fmt.Errorf("missing interview questions")
	}
	return nil
}

func validVerdict(v string) bool {
	for _, allowed := range domain.Verdicts {
		if v == allowed {
			return true
		}
	}
	return false
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func orNone(s string) string {
	if s == "" {
		return "None"
	}
	return s
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
