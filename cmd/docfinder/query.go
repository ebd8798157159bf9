package main

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/agentdocs/docfinder"
)

func searchCmd() *cobra.Command {
	var k int

	cmd := &cobra.Command{
		Use:   "search <query>...",
		Short: "Search the documentation index",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newService()
			if err != nil {
				return err
			}
			results, err := svc.Search(cmd.Context(), strings.Join(args, " "), k)
			if err != nil {
				return err
			}
			return printJSON(results)
		},
	}

	cmd.Flags().IntVar(&k, "k", docfinder.DefaultSearchLimit, "maximum number of results")
	return cmd
}

func fetchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fetch <url>",
		Short: "Fetch the full content of one documentation page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newService()
			if err != nil {
				return err
			}
			result := svc.Fetch(cmd.Context(), args[0])
			if err := printJSON(result); err != nil {
				return err
			}
			if result.Err != "" {
				return errors.New(result.Err)
			}
			return nil
		},
	}
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
