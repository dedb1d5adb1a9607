package domain

import "time"

// IssueState is the state filter / value of an issue
type IssueState string

const (
	IssueStateOpen   IssueState = "open"
	IssueStateClosed IssueState = "closed"
)

// GitHubUser is the author of an issue or comment
type GitHubUser struct {
	Login string `json:"login"`
}

// Label is a repository label; its name is the identity key
type Label struct {
	Name        string `json:"name"`
	Color       string `json:"color"`
	Description string `json:"description,omitempty"`
}

// Milestone is an optional grouping attribute on an issue
type Milestone struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
}

// PullRequestRef is present on issue payloads that actually describe a pull request
type PullRequestRef struct {
	URL string `json:"url"`
}

// Issue is a GitHub issue as returned by the REST API
type Issue struct {
	Number      int             `json:"number"`
	Title       string          `json:"title"`
	State       IssueState      `json:"state"`
	User        GitHubUser      `json:"user"`
	CreatedAt   time.Time       `json:"created_at"`
	Body        string          `json:"body"`
	Labels      []Label         `json:"labels"`
	Milestone   *Milestone      `json:"milestone"`
	Comments    int             `json:"comments"`
	HTMLURL     string          `json:"html_url"`
	PullRequest *PullRequestRef `json:"pull_request,omitempty"`
}

// LabelNames returns the names of the labels attached to the issue, in order
func (i Issue) LabelNames() []string {
	names := make([]string, 0, len(i.Labels))
	for _, l := range i.Labels {
		names = append(names, l.Name)
	}
	return names
}

// HasMilestone reports whether the issue is assigned to a milestone
func (i Issue) HasMilestone() bool {
	return i.Milestone != nil
}

// IsPullRequest reports whether the payload describes a pull request
func (i Issue) IsPullRequest() bool {
	return i.PullRequest != nil
}

// Comment is a single issue comment
type Comment struct {
	User      GitHubUser `json:"user"`
	CreatedAt time.Time  `json:"created_at"`
	Body      string     `json:"body"`
}

// GitHubError is the JSON error body returned by the GitHub API
type GitHubError struct {
	Message          string `json:"message"`
	DocumentationURL string `json:"documentation_url,omitempty"`
}
