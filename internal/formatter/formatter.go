// Package formatter renders collected users for the console.
package formatter

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"

	"github.com/rail44/roster/internal/user"
)

// Kind is an output format
type Kind string

const (
	KindTable    Kind = "table"
	KindJSON     Kind = "json"
	KindYAML     Kind = "yaml"
	KindMarkdown Kind = "markdown"
	KindPlain    Kind = "plain"
)

// Options controls terminal-dependent rendering
type Options struct {
	Terminal bool
	Width    int
}

// entry is the serialised form of a user
type entry struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Email    string `json:"email" yaml:"email"`
	Instance string `json:"instance" yaml:"instance"`
}

func entries(users []*user.User) []entry {
	out := make([]entry, len(users))
	for i, u := range users {
		out[i] = entry{
			ID:       u.ID.String(),
			Name:     u.Name,
			Email:    u.Email,
			Instance: u.Instance.String(),
		}
	}
	return out
}

var headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// Write renders users to w in the given format
func Write(w io.Writer, kind Kind, users []*user.User, opts Options) error {
	if opts.Width <= 0 {
		opts.Width = 80
	}

	switch kind {
	case KindTable:
		rows := make([][]string, len(users))
		for i, u := range users {
			rows[i] = []string{u.ID.String(), u.Name, u.Email}
		}
		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("ID", "NAME", "EMAIL").
			Rows(rows...).
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					return headerStyle
				}
				return cellStyle
			})
		_, err := fmt.Fprintln(w, t.String())
		return err

	case KindJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries(users))

	case KindYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(entries(users)); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()

	case KindMarkdown:
		out, err := RenderMarkdown(FormatUsersAsMarkdown(users), opts.Terminal, opts.Width)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, out)
		return err

	case KindPlain:
		var b strings.Builder
		for _, u := range users {
			fmt.Fprintf(&b, "%s\t%s\t%s\n", u.ID, u.Name, u.Email)
		}
		_, err := io.WriteString(w, b.String())
		return err

	default:
		return fmt.Errorf("unknown output format: %s", kind)
	}
}
