package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var extractWithCatalog bool

var extractCmd = &cobra.Command{
	Use:   "extract [text]",
	Short: "Run one message through the extraction pipeline and print the result as JSON",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		text := strings.Join(args, " ")

		env, err := initAssistant("chat")
		if err != nil {
			return err
		}
		defer env.Close()

		if extractWithCatalog {
			if err := env.loadCatalog(ctx); err != nil {
				return err
			}
		}

		result, err := env.Assistant.ProcessTurn(ctx, "", text)
		if err != nil {
			return eris.Wrap(err, "process turn")
		}

		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return eris.Wrap(err, "marshal result")
		}
		fmt.Println(string(out))

		return nil
	},
}

func init() {
	extractCmd.Flags().BoolVar(&extractWithCatalog, "catalog", false, "also filter the configured catalog against the extracted preferences")
	rootCmd.AddCommand(extractCmd)
}
