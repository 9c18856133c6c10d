package ui

import (
	"context"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/rail44/roster/internal/log"
)

// ProgramOptions contains options for creating a Program
type ProgramOptions struct {
	Plain    bool // Use plain text output instead of TUI
	LogLevel slog.Level
}

// IsTerminal reports whether stdout is a terminal
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// TerminalWidth returns the stdout width, or 80 when unknown
func TerminalWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return 80
	}
	return w
}

// Program runs a Browser
type Program struct {
	browser    *Browser
	teaProgram *tea.Program
	isTerminal bool
	plain      bool
	logger     *slog.Logger
}

// NewProgram creates a program for b. Log records at or above opts.LogLevel
// are shown in the browser's status bar.
func NewProgram(b *Browser, opts ProgramOptions) *Program {
	p := &Program{
		browser:    b,
		isTerminal: IsTerminal(),
		plain:      opts.Plain,
	}
	p.teaProgram = tea.NewProgram(b, tea.WithAltScreen())
	p.logger = log.NewCallbackLogger(func(r slog.Record) {
		p.teaProgram.Send(logMsg{Line: log.FormatRecord(r), Level: r.Level})
	}, opts.LogLevel)
	return p
}

// IsTUIEnabled returns whether the TUI can run
func (p *Program) IsTUIEnabled() bool {
	return p.isTerminal && !p.plain
}

// Logger returns a logger whose records are shown in the status bar
func (p *Program) Logger() *slog.Logger {
	return p.logger
}

// Run blocks until the user quits or ctx is done
func (p *Program) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		p.teaProgram.Quit()
	}()
	_, err := p.teaProgram.Run()
	return err
}
