package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/grovetools/gate/cli"
	"github.com/spf13/cobra"
)

// NewListCmd creates the list command
func NewListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the configured checks",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := cli.GetOptions(cmd)

			cfg, err := cli.LoadConfig(opts)
			if err != nil {
				return err
			}

			// Building the registry validates the configuration even
			// though listing only needs the declarations.
			reg, err := cfg.BuildRegistry()
			if err != nil {
				return err
			}

			if opts.JSONOutput {
				data, err := json.MarshalIndent(cfg.Hooks, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(data))
				return nil
			}

			for _, def := range reg.List() {
				state := ""
				if !def.IsEnabled() {
					state = " (disabled)"
				}
				pattern := def.Files
				if pattern == "" {
					pattern = "<always>"
				}
				fmt.Printf("%s%s\n", def.Name, state)
				fmt.Printf("  files: %s\n", pattern)
				fmt.Printf("  entry: %s\n", strings.Join(def.Entry, " "))
				if def.Description != "" {
					fmt.Printf("  %s\n", def.Description)
				}
			}
			return nil
		},
	}
}
