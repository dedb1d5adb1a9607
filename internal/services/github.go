package services

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	resty "github.com/go-resty/resty/v2"
	config "github.com/inference-gateway/triage/config"
	domain "github.com/inference-gateway/triage/internal/domain"
	tracing "github.com/inference-gateway/triage/internal/tracing"
	attribute "go.opentelemetry.io/otel/attribute"
	codes "go.opentelemetry.io/otel/codes"
	trace "go.opentelemetry.io/otel/trace"
)

const (
	githubAPIVersion = "2022-11-28"
	githubUserAgent  = "inference-gateway-triage"
)

// GitHubService talks to the GitHub REST API. It implements domain.IssueTracker.
type GitHubService struct {
	client   *resty.Client
	token    string
	perPage  int
	maxPages int
}

// NewGitHubService creates a new GitHub service. Requests are never retried.
func NewGitHubService(cfg config.GitHubConfig) *GitHubService {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30
	}

	client := resty.New().
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetTimeout(time.Duration(timeout)*time.Second).
		SetHeader("Accept", "application/vnd.github+json").
		SetHeader("X-GitHub-Api-Version", githubAPIVersion).
		SetHeader("User-Agent", githubUserAgent).
		SetRetryCount(0)

	if cfg.Token != "" {
		client.SetAuthToken(cfg.Token)
	}

	perPage := cfg.PerPage
	if perPage <= 0 || perPage > 100 {
		perPage = 100
	}
	maxPages := cfg.MaxPages
	if maxPages <= 0 {
		maxPages = 10
	}

	return &GitHubService{
		client:   client,
		token:    cfg.Token,
		perPage:  perPage,
		maxPages: maxPages,
	}
}

// ListIssues lists repository issues, following pagination. An empty state
// leaves the filter to the API default. Pull requests are dropped.
func (g *GitHubService) ListIssues(ctx context.Context, owner, repo string, state domain.IssueState) ([]domain.Issue, error) {
	const op = "list issues"
	ctx, span := g.startSpan(ctx, "github.list_issues", owner, repo)
	defer span.End()

	if err := g.requireToken(op); err != nil {
		return nil, spanError(span, err)
	}

	query := map[string]string{}
	if state != "" {
		query["state"] = string(state)
	}

	all, err := listPages[domain.Issue](ctx, g, op, "/repos/{owner}/{repo}/issues", repoPath(owner, repo), query)
	if err != nil {
		return nil, spanError(span, err)
	}

	issues := make([]domain.Issue, 0, len(all))
	for _, issue := range all {
		if !issue.IsPullRequest() {
			issues = append(issues, issue)
		}
	}

	span.SetAttributes(attribute.Int("github.results", len(issues)))
	return issues, nil
}

// GetIssue fetches a single issue by number
func (g *GitHubService) GetIssue(ctx context.Context, owner, repo string, number int) (*domain.Issue, error) {
	const op = "get issue"
	ctx, span := g.startSpan(ctx, "github.get_issue", owner, repo)
	defer span.End()
	span.SetAttributes(attribute.Int("github.issue_number", number))

	if err := g.requireToken(op); err != nil {
		return nil, spanError(span, err)
	}

	var issue domain.Issue
	resp, err := g.client.R().
		SetContext(ctx).
		SetError(&domain.GitHubError{}).
		SetPathParams(issuePath(owner, repo, number)).
		SetResult(&issue).
		Get("/repos/{owner}/{repo}/issues/{number}")
	if err := checkResponse(op, resp, err); err != nil {
		return nil, spanError(span, err)
	}

	return &issue, nil
}

// ListComments lists all comments of an issue in API order
func (g *GitHubService) ListComments(ctx context.Context, owner, repo string, number int) ([]domain.Comment, error) {
	const op = "list comments"
	ctx, span := g.startSpan(ctx, "github.list_comments", owner, repo)
	defer span.End()
	span.SetAttributes(attribute.Int("github.issue_number", number))

	if err := g.requireToken(op); err != nil {
		return nil, spanError(span, err)
	}

	comments, err := listPages[domain.Comment](ctx, g, op, "/repos/{owner}/{repo}/issues/{number}/comments", issuePath(owner, repo, number), nil)
	if err != nil {
		return nil, spanError(span, err)
	}

	return comments, nil
}

// ListLabels lists all labels defined in the repository
func (g *GitHubService) ListLabels(ctx context.Context, owner, repo string) ([]domain.Label, error) {
	const op = "list labels"
	ctx, span := g.startSpan(ctx, "github.list_labels", owner, repo)
	defer span.End()

	if err := g.requireToken(op); err != nil {
		return nil, spanError(span, err)
	}

	labels, err := listPages[domain.Label](ctx, g, op, "/repos/{owner}/{repo}/labels", repoPath(owner, repo), nil)
	if err != nil {
		return nil, spanError(span, err)
	}

	span.SetAttributes(attribute.Int("github.results", len(labels)))
	return labels, nil
}

// CreateLabel creates a repository label
func (g *GitHubService) CreateLabel(ctx context.Context, owner, repo string, label domain.Label) (*domain.Label, error) {
	const op = "create label"
	ctx, span := g.startSpan(ctx, "github.create_label", owner, repo)
	defer span.End()

	if err := g.requireToken(op); err != nil {
		return nil, spanError(span, err)
	}

	var created domain.Label
	resp, err := g.client.R().
		SetContext(ctx).
		SetError(&domain.GitHubError{}).
		SetPathParams(repoPath(owner, repo)).
		SetBody(label).
		SetResult(&created).
		Post("/repos/{owner}/{repo}/labels")
	if err := checkResponse(op, resp, err); err != nil {
		return nil, spanError(span, err)
	}

	return &created, nil
}

// AddLabels attaches labels to an issue and returns the issue's resulting labels
func (g *GitHubService) AddLabels(ctx context.Context, owner, repo string, number int, labels []string) ([]domain.Label, error) {
	const op = "add labels"
	ctx, span := g.startSpan(ctx, "github.add_labels", owner, repo)
	defer span.End()
	span.SetAttributes(
		attribute.Int("github.issue_number", number),
		attribute.StringSlice("github.labels", labels),
	)

	if err := g.requireToken(op); err != nil {
		return nil, spanError(span, err)
	}

	var result []domain.Label
	resp, err := g.client.R().
		SetContext(ctx).
		SetError(&domain.GitHubError{}).
		SetPathParams(issuePath(owner, repo, number)).
		SetBody(map[string][]string{"labels": labels}).
		SetResult(&result).
		Post("/repos/{owner}/{repo}/issues/{number}/labels")
	if err := checkResponse(op, resp, err); err != nil {
		return nil, spanError(span, err)
	}

	return result, nil
}

// listPages follows pagination until a short page or a Link header without
// rel="next". Running out of pages while more remain is an error.
func listPages[T any](ctx context.Context, g *GitHubService, op, path string, params, query map[string]string) ([]T, error) {
	var items []T
	for page := 1; page <= g.maxPages; page++ {
		var batch []T
		resp, err := g.request(ctx, query, page).
			SetPathParams(params).
			SetResult(&batch).
			Get(path)
		if err := checkResponse(op, resp, err); err != nil {
			return nil, err
		}

		items = append(items, batch...)
		if len(batch) < g.perPage || !hasNextPage(resp) {
			return items, nil
		}
	}

	return nil, domain.RemoteFailure(op, fmt.Errorf(
		"result truncated: more than %d pages of %d items (raise github.max_pages)", g.maxPages, g.perPage))
}

// hasNextPage reads the Link header. Without one a full page is assumed to
// have a successor.
func hasNextPage(resp *resty.Response) bool {
	link := resp.Header().Get("Link")
	if link == "" {
		return true
	}
	return strings.Contains(link, `rel="next"`)
}

// request prepares a paginated GET request
func (g *GitHubService) request(ctx context.Context, query map[string]string, page int) *resty.Request {
	req := g.client.R().
		SetContext(ctx).
		SetError(&domain.GitHubError{}).
		SetQueryParam("per_page", strconv.Itoa(g.perPage)).
		SetQueryParam("page", strconv.Itoa(page))
	if len(query) > 0 {
		req.SetQueryParams(query)
	}
	return req
}

// requireToken fails when no credential is configured
func (g *GitHubService) requireToken(op string) error {
	if g.token == "" {
		return domain.ConfigurationError(op, "GitHub token is not set (export GITHUB_TOKEN or set github.token)")
	}
	return nil
}

func (g *GitHubService) startSpan(ctx context.Context, name, owner, repo string) (context.Context, trace.Span) {
	ctx, span := tracing.Tracer().Start(ctx, name)
	span.SetAttributes(
		attribute.String("github.owner", owner),
		attribute.String("github.repo", repo),
	)
	return ctx, span
}

// checkResponse maps transport and HTTP failures to RemoteFailure errors
func checkResponse(op string, resp *resty.Response, err error) error {
	if err != nil {
		return domain.RemoteFailure(op, fmt.Errorf("request failed: %w", err))
	}

	if !resp.IsError() {
		return nil
	}

	message := http.StatusText(resp.StatusCode())
	if ghErr, ok := resp.Error().(*domain.GitHubError); ok && ghErr.Message != "" {
		message = ghErr.Message
	}

	return domain.RemoteFailure(op, &domain.RemoteError{
		Service:    "GitHub",
		StatusCode: resp.StatusCode(),
		Message:    message,
	})
}

func spanError(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

func repoPath(owner, repo string) map[string]string {
	return map[string]string{"owner": owner, "repo": repo}
}

func issuePath(owner, repo string, number int) map[string]string {
	return map[string]string{"owner": owner, "repo": repo, "number": strconv.Itoa(number)}
}
