package main

import (
	"fmt"

	deps "github.com/goliatone/go-dependencies"
	"github.com/goliatone/go-dependencies/pkg/keys"
	"github.com/goliatone/go-dependencies/pkg/profile"
	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	var engine string
	cmd := &cobra.Command{
		Use:   "check <profile.json>",
		Short: "Validate a profile and compile every rule expression",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := profile.Load(args[0])
			if err != nil {
				return err
			}
			// Profiles may only reference the built-in keys from the CLI.
			if _, err := p.Rules(keys.Builtins); err != nil {
				return err
			}
			evaluator, err := deps.NewEvaluatorNamed(engine)
			if err != nil {
				return err
			}
			for _, spec := range p.Rules {
				if spec.When == "" {
					continue
				}
				if _, err := evaluator.Compile(spec.When); err != nil {
					return fmt.Errorf("rule %s: %w", spec.Name, err)
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "profile %s: %d rule(s) ok (%s)\n", p.Name, len(p.Rules), engine)
			return nil
		},
	}
	cmd.Flags().StringVar(&engine, "engine", deps.EngineExpr, "rule engine: expr, cel or js")
	return cmd
}
