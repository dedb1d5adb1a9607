package services

import (
	"context"
	"strings"

	domain "github.com/inference-gateway/triage/internal/domain"
	formatting "github.com/inference-gateway/triage/internal/formatting"
	logger "github.com/inference-gateway/triage/internal/logger"
	zap "go.uber.org/zap"
)

// IssueRepository validates arguments, calls the issue tracker and logs
// remote failures before handing them back unchanged in kind.
type IssueRepository struct {
	tracker domain.IssueTracker
}

// NewIssueRepository creates a repository adapter over an issue tracker
func NewIssueRepository(tracker domain.IssueTracker) *IssueRepository {
	return &IssueRepository{tracker: tracker}
}

// ListIssues returns the issues visible to the credential with the API's default filter
func (r *IssueRepository) ListIssues(ctx context.Context, owner, repo string) ([]domain.Issue, error) {
	if err := validateRepo("list issues", owner, repo); err != nil {
		return nil, err
	}

	issues, err := r.tracker.ListIssues(ctx, owner, repo, "")
	if err != nil {
		return nil, r.remoteError(ctx, "failed to list issues", err, owner, repo)
	}
	return issues, nil
}

// ListIssuesToTriage returns the open issues that have no milestone
func (r *IssueRepository) ListIssuesToTriage(ctx context.Context, owner, repo string) ([]domain.Issue, error) {
	if err := validateRepo("list issues to triage", owner, repo); err != nil {
		return nil, err
	}

	issues, err := r.tracker.ListIssues(ctx, owner, repo, domain.IssueStateOpen)
	if err != nil {
		return nil, r.remoteError(ctx, "failed to list issues to triage", err, owner, repo)
	}

	untriaged := make([]domain.Issue, 0, len(issues))
	for _, issue := range issues {
		if issue.State != domain.IssueStateOpen || issue.HasMilestone() {
			continue
		}
		untriaged = append(untriaged, issue)
	}
	return untriaged, nil
}

// GetIssue fetches a single issue
func (r *IssueRepository) GetIssue(ctx context.Context, owner, repo string, number int) (*domain.Issue, error) {
	if err := validateIssue("get issue", owner, repo, number); err != nil {
		return nil, err
	}

	issue, err := r.tracker.GetIssue(ctx, owner, repo, number)
	if err != nil {
		return nil, r.remoteError(ctx, "failed to get issue", err, owner, repo, zap.Int("issue_number", number))
	}
	return issue, nil
}

// GetIssueNarrative fetches an issue and its comments and renders them for a model
func (r *IssueRepository) GetIssueNarrative(ctx context.Context, owner, repo string, number int) (string, error) {
	if err := validateIssue("get issue narrative", owner, repo, number); err != nil {
		return "", err
	}

	issue, err := r.tracker.GetIssue(ctx, owner, repo, number)
	if err != nil {
		return "", r.remoteError(ctx, "failed to get issue", err, owner, repo, zap.Int("issue_number", number))
	}

	comments, err := r.tracker.ListComments(ctx, owner, repo, number)
	if err != nil {
		return "", r.remoteError(ctx, "failed to list issue comments", err, owner, repo, zap.Int("issue_number", number))
	}

	return formatting.FormatIssueNarrative(*issue, comments), nil
}

// ListLabels returns every label of the repository
func (r *IssueRepository) ListLabels(ctx context.Context, owner, repo string) ([]domain.Label, error) {
	if err := validateRepo("list labels", owner, repo); err != nil {
		return nil, err
	}

	labels, err := r.tracker.ListLabels(ctx, owner, repo)
	if err != nil {
		return nil, r.remoteError(ctx, "failed to list labels", err, owner, repo)
	}
	return labels, nil
}

// ListLabelsAsJoinedNames returns the label names joined by ", "
func (r *IssueRepository) ListLabelsAsJoinedNames(ctx context.Context, owner, repo string) (string, error) {
	labels, err := r.ListLabels(ctx, owner, repo)
	if err != nil {
		return "", err
	}
	return formatting.JoinLabelNames(labels), nil
}

// CreateLabel creates a label; name and color are required
func (r *IssueRepository) CreateLabel(ctx context.Context, owner, repo, name, color, description string) (*domain.Label, error) {
	const op = "create label"
	if err := validateRepo(op, owner, repo); err != nil {
		return nil, err
	}
	if isBlank(name) {
		return nil, domain.InvalidArgument(op, "label name must not be empty")
	}
	if isBlank(color) {
		return nil, domain.InvalidArgument(op, "label color must not be empty")
	}

	label := domain.Label{
		Name:        name,
		Color:       strings.TrimPrefix(color, "#"),
		Description: description,
	}

	created, err := r.tracker.CreateLabel(ctx, owner, repo, label)
	if err != nil {
		return nil, r.remoteError(ctx, "failed to create label", err, owner, repo, zap.String("label", name))
	}
	return created, nil
}

// AddLabelsToIssue attaches labels to an issue. Label existence is left to the remote API.
func (r *IssueRepository) AddLabelsToIssue(ctx context.Context, owner, repo string, number int, labels []string) error {
	const op = "add labels to issue"
	if err := validateIssue(op, owner, repo, number); err != nil {
		return err
	}
	if len(labels) == 0 {
		return domain.InvalidArgument(op, "at least one label is required")
	}
	for _, l := range labels {
		if isBlank(l) {
			return domain.InvalidArgument(op, "label names must not be empty")
		}
	}

	if _, err := r.tracker.AddLabels(ctx, owner, repo, number, labels); err != nil {
		return r.remoteError(ctx, "failed to add labels to issue", err, owner, repo,
			zap.Int("issue_number", number), zap.Strings("labels", labels))
	}
	return nil
}

// CountComments returns the number of comments on an issue
func (r *IssueRepository) CountComments(ctx context.Context, owner, repo string, number int) (int, error) {
	if err := validateIssue("count comments", owner, repo, number); err != nil {
		return 0, err
	}

	comments, err := r.tracker.ListComments(ctx, owner, repo, number)
	if err != nil {
		return 0, r.remoteError(ctx, "failed to list issue comments", err, owner, repo, zap.Int("issue_number", number))
	}
	return len(comments), nil
}

// remoteError logs a tracker failure with context and returns it unchanged
func (r *IssueRepository) remoteError(ctx context.Context, msg string, err error, owner, repo string, fields ...zap.Field) error {
	fields = append([]zap.Field{
		zap.String("owner", owner),
		zap.String("repo", repo),
		zap.Error(err),
	}, fields...)
	logger.L(ctx).Error(msg, fields...)
	return err
}

func validateRepo(op, owner, repo string) error {
	if isBlank(owner) {
		return domain.InvalidArgument(op, "owner must not be empty")
	}
	if isBlank(repo) {
		return domain.InvalidArgument(op, "repository name must not be empty")
	}
	return nil
}

func validateIssue(op, owner, repo string, number int) error {
	if err := validateRepo(op, owner, repo); err != nil {
		return err
	}
	if number <= 0 {
		return domain.InvalidArgument(op, "issue number must be positive, got %d", number)
	}
	return nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
