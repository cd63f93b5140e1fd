package main

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/mattn/go-shellwords"
	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell/session"
)

var errInvalidCommandLine = errors.New("invalid command line")

func (c *cli) shellCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Run commands interactively with one session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := c.runtime(cmd.Context())
			if err != nil {
				return err
			}

			p := newPrompt(rt.Dependencies.Sessions.Current())
			unsubscribe := rt.Dependencies.Sessions.Subscribe(p.update)
			defer unsubscribe()

			fmt.Fprintln(c.out, `Type a command without "borrowdesk", "help" for the list, "exit" to leave.`)

			for {
				fmt.Fprint(c.out, p.String())

				line, err := c.readLine()
				if errors.Is(err, io.EOF) {
					fmt.Fprintln(c.out)
					return nil
				}
				if err != nil {
					return err
				}

				args, err := splitArgs(line)
				if err != nil {
					fmt.Fprintf(c.errOut, "Error: %v\n", err)
					continue
				}

				switch {
				case len(args) == 0:
					continue
				case args[0] == "exit" || args[0] == "quit":
					return nil
				case args[0] == "shell":
					fmt.Fprintln(c.errOut, "Already in the shell.")
					continue
				}

				// A fresh tree per line so flag values do not leak into the next command.
				sub := c.rootCommand()
				sub.SetArgs(args)
				sub.SetOut(c.out)
				sub.SetErr(c.errOut)

				if err := sub.ExecuteContext(cmd.Context()); err != nil {
					fmt.Fprintf(c.errOut, "Error: %v\n", err)
				}

				if cmd.Context().Err() != nil {
					return nil
				}
			}
		},
	}
}

type prompt struct {
	mu      sync.Mutex
	current session.Session
}

func newPrompt(s session.Session) *prompt {
	return &prompt{current: s}
}

func (p *prompt) update(s session.Session) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.current = s
}

func (p *prompt) String() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch {
	case p.current.IsZero():
		return "borrowdesk> "
	case p.current.IsAdmin():
		return fmt.Sprintf("borrowdesk (%s, admin)# ", p.current.Username)
	default:
		return fmt.Sprintf("borrowdesk (%s)> ", p.current.Username)
	}
}

// splitArgs splits a line into words the way a POSIX shell would, without expanding anything.
// Pipes, redirects and command lists are refused.
func splitArgs(line string) ([]string, error) {
	parser := shellwords.NewParser()

	args, err := parser.Parse(line)
	if err != nil {
		return nil, errors.Join(errInvalidCommandLine, err)
	}

	if parser.Position >= 0 {
		return nil, fmt.Errorf("%w: pipes, redirects and command lists are not supported", errInvalidCommandLine)
	}

	return args, nil
}
