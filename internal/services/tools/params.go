package tools

// RepoArgs addresses a repository
type RepoArgs struct {
	Owner string `json:"owner" jsonschema:"required,description=Repository owner (user or organization)"`
	Repo  string `json:"repo" jsonschema:"required,description=Repository name"`
}

// IssueArgs addresses a single issue
type IssueArgs struct {
	Owner       string `json:"owner" jsonschema:"required,description=Repository owner (user or organization)"`
	Repo        string `json:"repo" jsonschema:"required,description=Repository name"`
	IssueNumber int    `json:"issueNumber" jsonschema:"required,description=Issue number within the repository"`
}

// CreateLabelArgs describes a label to create
type CreateLabelArgs struct {
	Owner       string `json:"owner" jsonschema:"required,description=Repository owner (user or organization)"`
	Repo        string `json:"repo" jsonschema:"required,description=Repository name"`
	Name        string `json:"name" jsonschema:"required,description=Label name"`
	Color       string `json:"color" jsonschema:"required,description=Hex color without or with a leading #"`
	Description string `json:"description" jsonschema:"description=Optional label description"`
}

// AddLabelsArgs lists labels to attach to an issue
type AddLabelsArgs struct {
	Owner       string   `json:"owner" jsonschema:"required,description=Repository owner (user or organization)"`
	Repo        string   `json:"repo" jsonschema:"required,description=Repository name"`
	IssueNumber int      `json:"issueNumber" jsonschema:"required,description=Issue number within the repository"`
	Labels      []string `json:"labels" jsonschema:"required,description=Names of existing repository labels"`
}
