package prompts

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strings"
	"text/template"

	sdk "github.com/inference-gateway/sdk"
	yaml "gopkg.in/yaml.v3"
)

//go:embed templates.yaml
var defaultTemplates []byte

// Kind identifies a conversation shape
type Kind string

const (
	KindSummarize       Kind = "summarize"
	KindRecommendLabels Kind = "recommend_labels"
)

var requiredSections = map[Kind][]string{
	KindSummarize: {
		"Issue Summary",
		"Comments Summary",
	},
	KindRecommendLabels: {
		"Issue Summary",
		"Labels Found",
		"Selected Labels",
		"Considered But Rejected",
		"Additional Notes",
	},
}

// RequiredSections returns the output section headings the system prompt of kind asks for, in order
func RequiredSections(kind Kind) []string {
	return append([]string(nil), requiredSections[kind]...)
}

// Prompt is the text asset for one conversation shape
type Prompt struct {
	System    string `yaml:"system"`
	Directive string `yaml:"directive"`
}

// Templates is the versioned prompt asset
type Templates struct {
	Version         int    `yaml:"version"`
	Summarize       Prompt `yaml:"summarize"`
	RecommendLabels Prompt `yaml:"recommend_labels"`
}

// LoadTemplates loads the prompt asset from path, or the embedded default when path is empty
func LoadTemplates(path string) (*Templates, error) {
	if path == "" {
		return ParseTemplates(defaultTemplates)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompts file %s: %w", path, err)
	}
	return ParseTemplates(data)
}

// ParseTemplates decodes and validates a YAML prompt asset
func ParseTemplates(data []byte) (*Templates, error) {
	var t Templates
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse prompts: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// Validate checks that every system prompt names its required sections in order
func (t *Templates) Validate() error {
	if t.Version <= 0 {
		return fmt.Errorf("prompts: version must be positive")
	}

	for kind, prompt := range t.byKind() {
		if strings.TrimSpace(prompt.System) == "" {
			return fmt.Errorf("prompts: %s.system is empty", kind)
		}
		if strings.TrimSpace(prompt.Directive) == "" {
			return fmt.Errorf("prompts: %s.directive is empty", kind)
		}

		last := -1
		for _, section := range requiredSections[kind] {
			idx := strings.Index(prompt.System, section)
			if idx == -1 {
				return fmt.Errorf("prompts: %s.system does not mention section %q", kind, section)
			}
			if idx <= last {
				return fmt.Errorf("prompts: %s.system lists section %q out of order", kind, section)
			}
			last = idx
		}
	}
	return nil
}

func (t *Templates) byKind() map[Kind]Prompt {
	return map[Kind]Prompt{
		KindSummarize:       t.Summarize,
		KindRecommendLabels: t.RecommendLabels,
	}
}

// Target is the issue a conversation is about
type Target struct {
	Owner       string
	Repo        string
	IssueNumber int
}

// Conversation is a single-turn exchange: one system message and one user
// message made of ordered text blocks (directive, labels, narrative)
type Conversation struct {
	Kind   Kind
	System string
	Blocks []string
}

// Messages converts the conversation into SDK messages
func (c Conversation) Messages() ([]sdk.Message, error) {
	parts := make([]sdk.ContentPart, 0, len(c.Blocks))
	for _, block := range c.Blocks {
		part, err := sdk.NewTextContentPart(block)
		if err != nil {
			return nil, fmt.Errorf("failed to create text content part: %w", err)
		}
		parts = append(parts, part)
	}

	return []sdk.Message{
		{Role: sdk.System, Content: sdk.NewMessageContent(c.System)},
		{Role: sdk.User, Content: sdk.NewMessageContent(parts)},
	}, nil
}

// Assembler builds conversations from the prompt asset
type Assembler struct {
	templates  *Templates
	directives map[Kind]*template.Template
}

// NewAssembler compiles the directive templates of t
func NewAssembler(t *Templates) (*Assembler, error) {
	a := &Assembler{
		templates:  t,
		directives: make(map[Kind]*template.Template),
	}

	for kind, prompt := range t.byKind() {
		tmpl, err := template.New(string(kind)).Option("missingkey=error").Parse(prompt.Directive)
		if err != nil {
			return nil, fmt.Errorf("prompts: invalid %s.directive: %w", kind, err)
		}
		a.directives[kind] = tmpl
	}
	return a, nil
}

// Summarize builds the conversation asking for an issue summary
func (a *Assembler) Summarize(target Target, labels, narrative string) (Conversation, error) {
	return a.build(KindSummarize, a.templates.Summarize, target, labels, narrative)
}

// RecommendLabels builds the conversation asking for label recommendations
func (a *Assembler) RecommendLabels(target Target, labels, narrative string) (Conversation, error) {
	return a.build(KindRecommendLabels, a.templates.RecommendLabels, target, labels, narrative)
}

func (a *Assembler) build(kind Kind, prompt Prompt, target Target, labels, narrative string) (Conversation, error) {
	var directive bytes.Buffer
	if err := a.directives[kind].Execute(&directive, target); err != nil {
		return Conversation{}, fmt.Errorf("failed to render %s directive: %w", kind, err)
	}

	return Conversation{
		Kind:   kind,
		System: strings.TrimSpace(prompt.System),
		Blocks: []string{
			strings.TrimSpace(directive.String()),
			"Repository labels: " + labels,
			narrative,
		},
	}, nil
}
