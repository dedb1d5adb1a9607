package formatting

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	domain "github.com/inference-gateway/triage/internal/domain"
)

const (
	NoIssuesMessage      = "No issues found."
	NoLabelsMessage      = "No labels found."
	NoDescriptionMessage = "No description provided."
	NoCommentsMessage    = "No comments available."

	// TimestampLayout renders every timestamp in UTC, independent of locale
	TimestampLayout = "2006-01-02 15:04:05 UTC"
	dateLayout      = "2006-01-02"
)

type column struct {
	title string
	width int
}

var issueColumns = []column{
	{"#", 6},
	{"Title", 22},
	{"State", 6},
	{"Author", 15},
	{"Created", 10},
}

var labelColumns = []column{
	{"Name", 18},
	{"Color", 7},
	{"Description", 20},
}

// FormatIssuesTable renders issues as a fixed-width table
func FormatIssuesTable(issues []domain.Issue) string {
	if len(issues) == 0 {
		return NoIssuesMessage
	}

	rows := make([][]string, 0, len(issues))
	for _, issue := range issues {
		rows = append(rows, []string{
			strconv.Itoa(issue.Number),
			issue.Title,
			string(issue.State),
			issue.User.Login,
			formatDate(issue.CreatedAt),
		})
	}
	return renderTable(issueColumns, rows)
}

// FormatLabelsTable renders labels as a fixed-width table
func FormatLabelsTable(labels []domain.Label) string {
	if len(labels) == 0 {
		return NoLabelsMessage
	}

	rows := make([][]string, 0, len(labels))
	for _, label := range labels {
		rows = append(rows, []string{
			label.Name,
			label.Color,
			label.Description,
		})
	}
	return renderTable(labelColumns, rows)
}

// FormatIssueNarrative renders an issue and its comments as the verbose text a model reads.
// Comments keep the order they were fetched in.
func FormatIssueNarrative(issue domain.Issue, comments []domain.Comment) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Title: %s\n", issue.Title))
	b.WriteString(fmt.Sprintf("State: %s\n", issue.State))
	b.WriteString(fmt.Sprintf("Author: %s\n", issue.User.Login))
	b.WriteString(fmt.Sprintf("Created At: %s\n", FormatTimestamp(issue.CreatedAt)))
	b.WriteString(fmt.Sprintf("Labels: %s\n", strings.Join(issue.LabelNames(), ", ")))

	b.WriteString("Body:\n")
	if strings.TrimSpace(issue.Body) == "" {
		b.WriteString(NoDescriptionMessage)
	} else {
		b.WriteString(issue.Body)
	}
	b.WriteString("\n\n")

	b.WriteString("Comments:\n")
	if len(comments) == 0 {
		b.WriteString(NoCommentsMessage)
		b.WriteString("\n")
		return b.String()
	}

	for _, c := range comments {
		b.WriteString(fmt.Sprintf("- [%s at %s]: %s\n", c.User.Login, FormatTimestamp(c.CreatedAt), c.Body))
	}
	return b.String()
}

// JoinLabelNames joins label names with ", "
func JoinLabelNames(labels []domain.Label) string {
	names := make([]string, 0, len(labels))
	for _, l := range labels {
		names = append(names, l.Name)
	}
	return strings.Join(names, ", ")
}

// FormatTimestamp renders t in UTC with a fixed layout
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

func formatDate(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

func renderTable(columns []column, rows [][]string) string {
	var b strings.Builder

	header := make([]string, len(columns))
	separator := make([]string, len(columns))
	for i, col := range columns {
		header[i] = FitColumn(col.title, col.width)
		separator[i] = strings.Repeat("-", col.width)
	}
	writeRow(&b, header)
	writeRow(&b, separator)

	for _, row := range rows {
		cells := make([]string, len(columns))
		for i, col := range columns {
			cells[i] = FitColumn(row[i], col.width)
		}
		writeRow(&b, cells)
	}

	return strings.TrimSuffix(b.String(), "\n")
}

func writeRow(b *strings.Builder, cells []string) {
	b.WriteString(strings.TrimRight(strings.Join(cells, " | "), " "))
	b.WriteString("\n")
}
