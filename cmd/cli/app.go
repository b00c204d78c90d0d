package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yurifrl/tally/pkg/config"
	"github.com/yurifrl/tally/pkg/ledger"
	"github.com/yurifrl/tally/pkg/store"
)

// noSession marks commands that run without loading the ledger.
const noSession = "no-session"

var (
	incomeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10")) // green
	expenseStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))  // red
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))  // gray
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11")) // yellow
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	titleStyle   = lipgloss.NewStyle().Bold(true).Underline(true)
)

// App is what every command needs once configuration is loaded.
type App struct {
	config  *config.Config
	logger  *log.Logger
	session *ledger.Session
	input   *bufio.Reader
}

func newApp(cmd *cobra.Command) (*App, error) {
	cfg, err := config.Build(cfgFile, cmd.Flags())
	if err != nil {
		return nil, err
	}
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "tally",
		Level:           level,
	})

	st := store.NewFileStore(cfg.TransactionsPath(), cfg.SettingsPath(), logger)
	logger.Debug("ledger files", "transactions", st.TransactionsPath(), "settings", st.SettingsPath())
	a := &App{
		config:  cfg,
		logger:  logger,
		session: ledger.Open(st, logger),
		input:   bufio.NewReader(os.Stdin),
	}
	if err := a.session.Unlock(ledger.PrompterFunc(a.readSecret)); err != nil {
		return nil, err
	}
	return a, nil
}

// readSecret reads a line without echo when stdin is a terminal.
func (a *App) readSecret(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	return a.readLine()
}

func (a *App) readLine() (string, error) {
	line, err := a.input.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// confirm asks a yes/no question, defaulting to no.
func (a *App) confirm(prompt string) bool {
	fmt.Fprintf(os.Stderr, "%s [y/N]: ", prompt)
	answer, err := a.readLine()
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
