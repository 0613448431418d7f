// Command pyimporttime visualizes the import time traces printed by
// python -X importtime.
package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pyimporttime/internal/cli"
	"github.com/matzehuels/pyimporttime/pkg/errors"
)

const exitInterrupted = 130

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := execute(ctx)
	stop()
	os.Exit(report(os.Stderr, err))
}

func execute(ctx context.Context) error {
	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()

	var verbose bool
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log pipeline stages and cache activity")

	preRun := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if verbose {
			c.SetLogLevel(cli.LogDebug)
		}
		if preRun == nil {
			return nil
		}
		return preRun(cmd, args)
	}

	return root.ExecuteContext(ctx)
}

// report prints err and returns the process exit code.
func report(w io.Writer, err error) int {
	switch {
	case err == nil:
		return 0
	case stderrors.Is(err, context.Canceled):
		return exitInterrupted
	}
	if code := errors.GetCode(err); code != "" {
		fmt.Fprintf(w, "error [%s]: %s\n", code, errors.UserMessage(err))
	} else {
		fmt.Fprintln(w, "error:", err)
	}
	return 1
}
