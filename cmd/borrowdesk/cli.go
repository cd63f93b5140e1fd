package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/AntonStoeckl/library-borrow-desk/library/app"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/core"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell/config"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell/session"
)

var errNotSignedIn = fmt.Errorf("%w: sign in first", core.ErrAuthenticationFailed)

// cli carries what the commands share. The runtime is opened on first use and reused by the shell.
type cli struct {
	in      io.Reader
	scanner *bufio.Scanner
	out     io.Writer
	errOut  io.Writer

	configPath string
	logLevel   string
	asJSON     bool

	cfg    *config.Config
	logger *slog.Logger
	rt     *app.Runtime
}

func newCLI(in io.Reader, out, errOut io.Writer) *cli {
	return &cli{
		in:      in,
		scanner: bufio.NewScanner(in),
		out:     out,
		errOut:  errOut,
	}
}

func (c *cli) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "borrowdesk",
		Short:         "Borrow desk of the library",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.loadConfig()
		},
	}

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "path of the JSON config file (default $"+config.EnvConfigPath+")")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "debug, info, warn or error (default from config)")
	root.PersistentFlags().BoolVar(&c.asJSON, "json", false, "print results as JSON")

	root.AddCommand(
		c.registerCommand(),
		c.loginCommand(),
		c.logoutCommand(),
		c.whoamiCommand(),
		c.booksCommand(),
		c.borrowCommand(),
		c.requestsCommand(),
		c.returnCommand(),
		c.reconcileCommand(),
		c.serveCommand(),
		c.mockAPICommand(),
		c.shellCommand(),
	)

	return root
}

func (c *cli) loadConfig() error {
	if c.cfg != nil {
		return nil
	}

	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}

	if c.logLevel != "" {
		cfg.Log.Level = c.logLevel
	}

	logger, err := newLogger(cfg.Log, c.errOut)
	if err != nil {
		return err
	}

	c.cfg = &cfg
	c.logger = logger
	slog.SetDefault(logger)

	return nil
}

func newLogger(cfg config.LogConfig, w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, fmt.Errorf("%w: log level %q", config.ErrInvalidConfig, cfg.Level)
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}

	return slog.New(slog.NewTextHandler(w, opts)), nil
}

// runtime opens the desk with the persisted session of the config.
func (c *cli) runtime(ctx context.Context) (*app.Runtime, error) {
	if c.rt != nil {
		return c.rt, nil
	}

	rt, err := app.Open(ctx, *c.cfg, c.logger, app.WithPersistentSession())
	if err != nil {
		return nil, err
	}
	c.rt = rt

	return rt, nil
}

func (c *cli) close() error {
	if c.rt == nil {
		return nil
	}

	err := c.rt.Close()
	c.rt = nil

	return err
}

func (c *cli) currentSession(ctx context.Context) (*app.Runtime, session.Session, error) {
	rt, err := c.runtime(ctx)
	if err != nil {
		return nil, session.Session{}, err
	}

	return rt, rt.Dependencies.Sessions.Current(), nil
}

func (c *cli) signedIn(ctx context.Context) (*app.Runtime, session.Session, error) {
	rt, s, err := c.currentSession(ctx)
	if err != nil {
		return nil, s, err
	}

	if s.IsZero() {
		return nil, s, errNotSignedIn
	}

	return rt, s, nil
}

// print writes v as indented JSON with --json, otherwise human renders it.
func (c *cli) print(v any, human func(w io.Writer) error) error {
	if c.asJSON {
		data, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}

		_, err = fmt.Fprintln(c.out, string(data))
		return err
	}

	return human(c.out)
}

// readPassword reads without echo from a terminal and falls back to a plain line otherwise.
func (c *cli) readPassword(prompt string) (string, error) {
	fmt.Fprint(c.errOut, prompt)

	if f, ok := c.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		password, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(c.errOut)
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}

		return strings.TrimSpace(string(password)), nil
	}

	return c.readLine()
}

func (c *cli) readLine() (string, error) {
	if !c.scanner.Scan() {
		if err := c.scanner.Err(); err != nil {
			return "", err
		}

		return "", io.EOF
	}

	return strings.TrimSpace(c.scanner.Text()), nil
}

func requireAdmin(s session.Session) error {
	if !s.IsAdmin() {
		return errors.Join(core.ErrForbidden, errors.New("admins only"))
	}

	return nil
}
