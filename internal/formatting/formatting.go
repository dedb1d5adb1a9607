package formatting

import (
	"strings"

	sdk "github.com/inference-gateway/sdk"
	runewidth "github.com/mattn/go-runewidth"
	truncate "github.com/muesli/reflow/truncate"
)

// ============================================================================
// Text Utilities
// ============================================================================

const ellipsis = "..."

// TruncateText truncates text to fit within maxWidth display cells, adding "..." if needed
func TruncateText(text string, maxWidth int) string {
	if runewidth.StringWidth(text) <= maxWidth {
		return text
	}

	if maxWidth <= len(ellipsis) {
		return ellipsis[:max(maxWidth, 0)]
	}

	return truncate.StringWithTail(text, uint(maxWidth), ellipsis)
}

// FitColumn truncates or pads text so it occupies exactly width display cells
func FitColumn(text string, width int) string {
	return runewidth.FillRight(TruncateText(singleLine(text), width), width)
}

// singleLine collapses newlines and tabs so a value cannot break a table row
func singleLine(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// ExtractTextFromContent returns the text of a message, joining the text parts
// of multi-part content with newlines
func ExtractTextFromContent(content sdk.MessageContent) string {
	if simpleStr, err := content.AsMessageContent0(); err == nil {
		return simpleStr
	}

	parts, err := content.AsMessageContent1()
	if err != nil {
		return ""
	}

	var textParts []string
	for _, part := range parts {
		if textPart, err := part.AsTextContentPart(); err == nil {
			textParts = append(textParts, textPart.Text)
		}
	}
	return strings.Join(textParts, "\n")
}

// FormatError formats an error message for a plain-text tool result
func FormatError(message string) string {
	return "Error: " + message
}
