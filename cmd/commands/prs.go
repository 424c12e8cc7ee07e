package commands

import (
	"fmt"
	"log"
	"os"

	"github.com/Cyvadra/farewatch/internal/github"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	prsRepo   string
	prsOut    string
	prsToken  string
	prsAPIURL string
)

func init() {
	fetchPRsCmd.Flags().StringVar(&prsRepo, "repo", "", "Repository as owner/name")
	fetchPRsCmd.Flags().StringVar(&prsOut, "out", "transcribe", "Directory to write PR transcripts to")
	fetchPRsCmd.Flags().StringVar(&prsToken, "token", "", "GitHub token (default: $GITHUB_TOKEN)")
	fetchPRsCmd.Flags().StringVar(&prsAPIURL, "api-url", github.DefaultAPIURL, "GitHub API base URL")
	_ = fetchPRsCmd.MarkFlagRequired("repo")
	rootCmd.AddCommand(fetchPRsCmd)
}

var fetchPRsCmd = &cobra.Command{
	Use:   "fetch-prs --repo <owner/name> [--out <dir>]",
	Short: "Writes every open pull request with its changed files into a text file.",
	RunE: func(cmd *cobra.Command, args []string) error {
		// .env is optional
		_ = godotenv.Load()
		token := prsToken
		if token == "" {
			token = os.Getenv("GITHUB_TOKEN")
		}

		client, err := github.NewClient(prsAPIURL, prsRepo, token)
		if err != nil {
			return err
		}

		t := github.NewTranscriber(client, prsOut)
		t.SetLogger(log.New(cmd.OutOrStdout(), "", 0))

		written, err := t.Run(cmd.Context())
		if err != nil {
			return fmt.Errorf("fetch pull requests: %w", err)
		}
		if len(written) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No open pull requests")
		}
		return nil
	},
}
