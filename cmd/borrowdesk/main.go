// Command borrowdesk is the command line and HTTP front of the library borrow desk.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	c := newCLI(os.Stdin, os.Stdout, os.Stderr)
	err := c.rootCommand().ExecuteContext(ctx)

	if closeErr := c.close(); closeErr != nil && err == nil {
		err = closeErr
	}
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
