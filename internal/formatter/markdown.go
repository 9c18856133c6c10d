package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/rail44/roster/internal/user"
)

// FormatUsersAsMarkdown converts users to a Markdown document
func FormatUsersAsMarkdown(users []*user.User) string {
	var formatted strings.Builder

	formatted.WriteString(fmt.Sprintf("# Users (%d)\n\n", len(users)))
	if len(users) == 0 {
		formatted.WriteString("_No users._\n")
		return formatted.String()
	}

	formatted.WriteString("| ID | Name | Email |\n")
	formatted.WriteString("|---|---|---|\n")
	for _, u := range users {
		formatted.WriteString(fmt.Sprintf("| %s | %s | %s |\n",
			escapeCell(u.ID.String()), escapeCell(u.Name), escapeCell(u.Email)))
	}

	return formatted.String()
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

// RenderMarkdown renders Markdown for a terminal. Non-terminal output uses
// the notty style so no escape sequences are emitted.
func RenderMarkdown(md string, terminal bool, width int) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if terminal {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle("notty"))
	}

	renderer, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	out, err := renderer.Render(md)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}
