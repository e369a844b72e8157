package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"maintenance_dashboard/internal/service"

	"github.com/charmbracelet/lipgloss"
)

const (
	termSession = "cli"
	cmdScan     = ":scan"
	cmdQuit     = "exit"
)

var (
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff00")).Bold(true)
	outStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00cc00"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff0000"))
	bannerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff00")).Border(lipgloss.NormalBorder()).Padding(0, 1)
)

// replTerminal is the part of the terminal service the REPL drives.
type replTerminal interface {
	Exec(ctx context.Context, sessionID, cmd string) ([]string, error)
	Scan(ctx context.Context, sessionID string) ([]string, error)
}

// runTerm reads commands from in until EOF or exit and prints the
// backend's answers to out.
func runTerm(ctx context.Context, in io.Reader, out io.Writer, term replTerminal) error {
	fmt.Fprintln(out, bannerStyle.Render("NEURO_OT terminal  ("+cmdScan+" escanea, "+cmdQuit+" sale)"))
	sc := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, promptStyle.Render(service.ShellPrompt))
		if !sc.Scan() {
			fmt.Fprintln(out)
			return sc.Err()
		}
		line := strings.TrimSpace(sc.Text())
		if line == cmdQuit {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		var (
			lines []string
			skip  int
		)
		if line == cmdScan {
			lines, _ = term.Scan(ctx, termSession)
		} else {
			lines, _ = term.Exec(ctx, termSession, line)
			skip = 1 // the echoed command
		}
		for i, l := range lines {
			if i < skip {
				continue
			}
			style := outStyle
			if strings.HasPrefix(l, "ERROR:") {
				style = errStyle
			}
			fmt.Fprintln(out, style.Render(l))
		}
		// the console only serves this loop; start every command on a clean one
		_, _ = term.Exec(ctx, termSession, "clear")
	}
}
