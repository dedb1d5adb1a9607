package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	sdk "github.com/inference-gateway/sdk"
	config "github.com/inference-gateway/triage/config"
	domain "github.com/inference-gateway/triage/internal/domain"
	formatting "github.com/inference-gateway/triage/internal/formatting"
	logger "github.com/inference-gateway/triage/internal/logger"
	prompts "github.com/inference-gateway/triage/internal/prompts"
	zap "go.uber.org/zap"
)

// TriageService is the tool-facing facade. Every operation returns a single
// string; failures are rendered as text and never returned as errors.
type TriageService struct {
	repo      *IssueRepository
	assembler *prompts.Assembler
	client    domain.SDKClient
	model     string
	maxTokens int
}

// NewTriageService creates the facade
func NewTriageService(repo *IssueRepository, assembler *prompts.Assembler, client domain.SDKClient, cfg config.TriageConfig) *TriageService {
	return &TriageService{
		repo:      repo,
		assembler: assembler,
		client:    client,
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
	}
}

// GetIssuesCount returns the number of issues in the repository
func (s *TriageService) GetIssuesCount(ctx context.Context, owner, repo string) string {
	issues, err := s.repo.ListIssues(ctx, owner, repo)
	if err != nil {
		return s.failure(ctx, "failed to get issues", err)
	}
	return strconv.Itoa(len(issues))
}

// GetIssues returns the repository issues as a table
func (s *TriageService) GetIssues(ctx context.Context, owner, repo string) string {
	issues, err := s.repo.ListIssues(ctx, owner, repo)
	if err != nil {
		return s.failure(ctx, "failed to get issues", err)
	}
	return formatting.FormatIssuesTable(issues)
}

// GetUntriagedIssues returns open issues without a milestone as a table
func (s *TriageService) GetUntriagedIssues(ctx context.Context, owner, repo string) string {
	issues, err := s.repo.ListIssuesToTriage(ctx, owner, repo)
	if err != nil {
		return s.failure(ctx, "failed to get issues to triage", err)
	}
	return formatting.FormatIssuesTable(issues)
}

// GetIssue returns the narrative rendering of a single issue
func (s *TriageService) GetIssue(ctx context.Context, owner, repo string, number int) string {
	narrative, err := s.repo.GetIssueNarrative(ctx, owner, repo, number)
	if err != nil {
		return s.failure(ctx, fmt.Sprintf("failed to get issue #%d", number), err)
	}
	return narrative
}

// GetCommentsCount returns the number of comments on an issue
func (s *TriageService) GetCommentsCount(ctx context.Context, owner, repo string, number int) string {
	count, err := s.repo.CountComments(ctx, owner, repo, number)
	if err != nil {
		return s.failure(ctx, fmt.Sprintf("failed to count comments of issue #%d", number), err)
	}
	return strconv.Itoa(count)
}

// GetLabelsCount returns the number of repository labels
func (s *TriageService) GetLabelsCount(ctx context.Context, owner, repo string) string {
	labels, err := s.repo.ListLabels(ctx, owner, repo)
	if err != nil {
		return s.failure(ctx, "failed to get labels", err)
	}
	return strconv.Itoa(len(labels))
}

// GetLabels returns the repository labels as a table
func (s *TriageService) GetLabels(ctx context.Context, owner, repo string) string {
	labels, err := s.repo.ListLabels(ctx, owner, repo)
	if err != nil {
		return s.failure(ctx, "failed to get labels", err)
	}
	return formatting.FormatLabelsTable(labels)
}

// CreateLabel creates a repository label
func (s *TriageService) CreateLabel(ctx context.Context, owner, repo, name, color, description string) string {
	label, err := s.repo.CreateLabel(ctx, owner, repo, name, color, description)
	if err != nil {
		return s.failure(ctx, fmt.Sprintf("failed to create label %q", name), err)
	}
	return fmt.Sprintf("Created label %q (#%s) in %s/%s", label.Name, label.Color, owner, repo)
}

// AddLabelsToIssue attaches the given labels to an issue
func (s *TriageService) AddLabelsToIssue(ctx context.Context, owner, repo string, number int, labels []string) string {
	if err := s.repo.AddLabelsToIssue(ctx, owner, repo, number, labels); err != nil {
		return s.failure(ctx, fmt.Sprintf("failed to add labels to issue #%d", number), err)
	}
	return fmt.Sprintf("Added labels [%s] to issue #%d in %s/%s", strings.Join(labels, ", "), number, owner, repo)
}

// SummarizeIssue asks the model for an issue and comments summary
func (s *TriageService) SummarizeIssue(ctx context.Context, owner, repo string, number int) string {
	text, err := s.complete(ctx, prompts.KindSummarize, owner, repo, number)
	if err != nil {
		return s.failure(ctx, fmt.Sprintf("failed to summarize issue #%d", number), err)
	}
	return text
}

// RecommendLabels asks the model to pick existing repository labels for an issue
func (s *TriageService) RecommendLabels(ctx context.Context, owner, repo string, number int) string {
	text, err := s.complete(ctx, prompts.KindRecommendLabels, owner, repo, number)
	if err != nil {
		return s.failure(ctx, fmt.Sprintf("failed to recommend labels for issue #%d", number), err)
	}
	return text
}

// complete fetches the issue data, assembles the conversation and calls the model.
// A response without choices or content yields an empty string.
func (s *TriageService) complete(ctx context.Context, kind prompts.Kind, owner, repo string, number int) (string, error) {
	narrative, err := s.repo.GetIssueNarrative(ctx, owner, repo, number)
	if err != nil {
		return "", err
	}

	labels, err := s.repo.ListLabelsAsJoinedNames(ctx, owner, repo)
	if err != nil {
		return "", err
	}

	target := prompts.Target{Owner: owner, Repo: repo, IssueNumber: number}

	var conv prompts.Conversation
	switch kind {
	case prompts.KindSummarize:
		conv, err = s.assembler.Summarize(target, labels, narrative)
	case prompts.KindRecommendLabels:
		conv, err = s.assembler.RecommendLabels(target, labels, narrative)
	default:
		err = fmt.Errorf("unknown conversation kind %q", kind)
	}
	if err != nil {
		return "", err
	}

	messages, err := conv.Messages()
	if err != nil {
		return "", err
	}

	provider, model, err := splitModel(s.model)
	if err != nil {
		return "", err
	}

	// The SDK request type has no temperature field; the gateway default applies.
	maxTokens := s.maxTokens
	response, err := s.client.
		WithOptions(&sdk.CreateChatCompletionRequest{
			MaxTokens: &maxTokens,
		}).
		WithMiddlewareOptions(&sdk.MiddlewareOptions{
			SkipMCP: true,
			SkipA2A: true,
		}).
		GenerateContent(ctx, provider, model, messages)
	if err != nil {
		logger.L(ctx).Error("failed to generate content",
			zap.String("kind", string(kind)),
			zap.String("model", s.model),
			zap.Error(err))
		return "", domain.RemoteFailure("generate content", err)
	}

	if response == nil || len(response.Choices) == 0 {
		logger.L(ctx).Debug("model returned no choices", zap.String("kind", string(kind)))
		return "", nil
	}

	return formatting.ExtractTextFromContent(response.Choices[0].Message.Content), nil
}

// failure renders err as the tool's text result
func (s *TriageService) failure(ctx context.Context, what string, err error) string {
	kind, _ := domain.KindOf(err)
	logger.L(ctx).Warn(what, zap.String("kind", string(kind)), zap.Error(err))
	return formatting.FormatError(fmt.Sprintf("%s: %v", what, err))
}

// splitModel splits "provider/model" into its parts
func splitModel(model string) (sdk.Provider, string, error) {
	slashIndex := strings.Index(model, "/")
	if slashIndex <= 0 || slashIndex == len(model)-1 {
		return "", "", domain.ConfigurationError("generate content", "invalid model format %q, expected 'provider/model'", model)
	}
	return sdk.Provider(model[:slashIndex]), model[slashIndex+1:], nil
}
