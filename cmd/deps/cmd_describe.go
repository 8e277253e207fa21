package main

import (
	"encoding/json"

	deps "github.com/goliatone/go-dependencies"
	"github.com/goliatone/go-dependencies/pkg/keys"
	"github.com/spf13/cobra"
)

func newDescribeCmd() *cobra.Command {
	var contextName string
	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Describe the built-in keys as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := deps.ParseContext(contextName)
			if err != nil {
				return err
			}
			v := deps.New(deps.WithContext(c))
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(deps.Describe(keys.Builtins, v))
		},
	}
	cmd.Flags().StringVar(&contextName, "context", "live", "execution context: live, preview or test")
	return cmd
}
