package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pyimporttime/pkg/capture"
)

// captureSource names traces captured by the run command in logs and hooks.
const captureSource = "capture"

// runCommand creates the run command that captures and renders a trace.
func (c *CLI) runCommand() *cobra.Command {
	var (
		python    string
		output    string
		saveTrace string
		noCache   bool
		refresh   bool
		open      bool
		lf        layoutFlags
		rf        renderFlags
	)

	cmd := &cobra.Command{
		Use:   "run [flags] [--] <python args...>",
		Short: "Run a Python program with import profiling and render the trace",
		Long: `Run a Python program with PYTHONPROFILEIMPORTTIME=1 and render the captured trace.

Everything after the first argument is passed to the interpreter. If the first
argument is a Python script with a shebang line (a path, or a command on
PATH such as an installed console script), it is run directly:

  pyimporttime run -- -c "import asyncio"
  pyimporttime run -- -m http.server --help
  pyimporttime run black --version

Without -o the outputs are written to the temp directory. The HTML output is
opened in the browser unless --open=false is given. A program that exits with
a non-zero status is still rendered.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if !cmd.Flags().Changed("python") && c.config.Python != "" {
				python = c.config.Python
			}

			prog := newProgress(loggerFromContext(ctx))
			res, err := capture.Run(ctx, capture.Command{Python: python, Args: args})
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Captured %s %s", res.Executable, strings.Join(res.Args, " ")))
			if res.ExitCode != 0 {
				printWarning("command exited with status %d", res.ExitCode)
			}

			if saveTrace != "" {
				if err := writeFile(saveTrace, []byte(res.Trace)); err != nil {
					return err
				}
				printFile(saveTrace)
			}

			opts := c.options(cmd, &lf, &rf)
			opts.Trace = res.Trace
			opts.Source = captureSource
			opts.Refresh = refresh

			base := tempBase()
			if output != "" {
				base = basePath(output, "")
			}
			return c.runRender(cmd, opts, renderTarget{
				output:  output,
				base:    base,
				open:    open,
				noCache: noCache,
			})
		},
	}

	cmd.Flags().SetInterspersed(false)
	cmd.Flags().StringVar(&python, "python", capture.DefaultPython, "Python interpreter")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (default: temp directory)")
	cmd.Flags().StringVar(&saveTrace, "save-trace", "", "also write the raw trace text to this file")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even if cached results exist")
	cmd.Flags().BoolVar(&open, "open", true, "open the HTML output in the browser")
	lf.register(cmd)
	rf.register(cmd)

	return cmd
}
