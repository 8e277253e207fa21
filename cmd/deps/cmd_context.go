package main

import (
	"fmt"

	deps "github.com/goliatone/go-dependencies"
	"github.com/spf13/cobra"
)

func newContextCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "context",
		Short: "Print the execution context detected from the environment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := deps.LoadConfig()
			if err != nil {
				return err
			}
			opts, err := cfg.Options()
			if err != nil {
				return err
			}
			v := deps.New(opts...)
			fmt.Fprintln(cmd.OutOrStdout(), v.Context())
			return nil
		},
	}
}
