package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/shopassist-cli/internal/assistant"
)

var chatVerbose bool

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive shopping conversation",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		env, err := initAssistant("chat")
		if err != nil {
			return err
		}
		defer env.Close()

		if err := env.loadCatalog(ctx); err != nil {
			return err
		}

		fmt.Println("What are you shopping for today? (type quit to exit)")

		var sessionID string
		scanner := bufio.NewScanner(os.Stdin)
		for {
			fmt.Print("> ")
			if !scanner.Scan() {
				break
			}
			line := strings.TrimSpace(scanner.Text())
			if line == "quit" || line == "exit" {
				break
			}

			result, err := env.Assistant.ProcessTurn(ctx, sessionID, line)
			if err != nil {
				return eris.Wrap(err, "process turn")
			}
			sessionID = result.SessionID

			printTurn(result, chatVerbose)
		}
		if err := scanner.Err(); err != nil {
			return eris.Wrap(err, "read input")
		}

		return nil
	},
}

func printTurn(result *assistant.TurnResult, verbose bool) {
	fmt.Println(result.Response)
	for _, p := range result.Products {
		fmt.Printf("  - %s (%s) $%.2f\n", p.Name, p.Brand, p.Price)
	}
	if result.Remaining > 0 {
		fmt.Printf("  ...and %d more. Say \"show more\" to see them.\n", result.Remaining)
	}
	if verbose {
		fmt.Printf("[%s]\n", result.Summary)
		for _, w := range result.Diagnostics.Warnings {
			fmt.Printf("[warning: %s]\n", w)
		}
	}
}

func init() {
	chatCmd.Flags().BoolVar(&chatVerbose, "verbose", false, "print the preference summary after each turn")
	rootCmd.AddCommand(chatCmd)
}
