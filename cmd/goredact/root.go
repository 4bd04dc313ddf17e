package main

import (
	"context"
	"fmt"
	"os"

	"github.com/muhammadluth/goredact"
	"github.com/spf13/cobra"
)

const module = "cli"

// rootOptions are the flags shared by every subcommand.
type rootOptions struct {
	maxDepth int
	debug    bool
}

func (o *rootOptions) sanitizer() (*goredact.Sanitizer, error) {
	rules := goredact.DefaultRules()
	rules.MaxDepth = o.maxDepth
	return goredact.NewSanitizer(rules)
}

func (o *rootOptions) logger(cmd *cobra.Command) *goredact.Logger {
	return goredact.NewLogger(
		goredact.WithServiceName("goredact"),
		goredact.WithOutput(cmd.ErrOrStderr()),
		goredact.WithDebug(o.debug),
		goredact.WithMaxDepth(o.maxDepth),
	)
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "goredact",
		Short: "Mask credentials and tokens in structured data and text",
		Long: `goredact masks sensitive values before they reach a log or a report.

Mapping keys naming credentials (password, token, secret, session, ...) have
their values truncated to a short masked form, and free text has sensitive
URL parameters, Authorization/Cookie headers and inline "key": "value" pairs
replaced by ***.`,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().IntVar(&opts.maxDepth, "max-depth", goredact.DefaultMaxDepth, "maximum nesting depth to sanitize")
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging on stderr")

	cmd.AddCommand(newSanitizeCmd(opts))
	cmd.AddCommand(newConfigCmd(opts))
	return cmd
}

func Execute() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
