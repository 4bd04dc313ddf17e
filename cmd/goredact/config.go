package main

import (
	"fmt"

	"github.com/muhammadluth/goredact"
	"github.com/muhammadluth/goredact/config"
	"github.com/spf13/cobra"
)

func newConfigCmd(opts *rootOptions) *cobra.Command {
	var (
		dir   string
		audit bool
	)
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the sanitized configuration",
		Long: `Config loads config.yaml and config_<TEST_ENV>.yaml from --dir, applies
environment overrides and defaults, and prints the result as YAML with every
sensitive value masked. With --audit it lists entries that look like
plaintext secrets instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.sanitizer()
			if err != nil {
				return err
			}
			m, err := config.Load(cmd.Context(),
				config.WithDir(dir),
				config.WithLogger(opts.logger(cmd)),
				config.WithSanitizer(s),
			)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if audit {
				for _, issue := range m.Audit() {
					fmt.Fprintf(out, "%s: %s\n", issue.Key, issue.Message)
				}
				return nil
			}

			safe, err := m.SafeConfig()
			if err != nil {
				fmt.Fprintln(out, goredact.UnsafePayload)
				return err
			}
			tree, err := goredact.FromAny(safe)
			if err != nil {
				return err
			}
			b, err := goredact.EncodeYAML(tree)
			if err != nil {
				return err
			}
			_, err = out.Write(b)
			return err
		},
	}
	cmd.Flags().StringVarP(&dir, "dir", "d", "config", "directory containing config.yaml")
	cmd.Flags().BoolVar(&audit, "audit", false, "list entries that may hold plaintext secrets")
	return cmd
}
