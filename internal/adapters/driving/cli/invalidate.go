package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var invalidateCmd = &cobra.Command{
	Use:   "invalidate [document-id]",
	Short: "Remove a document from the knowledge base",
	Long:  `Deletes every stored chunk of the document and drops cached search results.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runInvalidate,
}

func init() {
	rootCmd.AddCommand(invalidateCmd)
}

func runInvalidate(cmd *cobra.Command, args []string) error {
	if indexService == nil {
		return errors.New("index service not configured")
	}

	if err := indexService.Invalidate(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("invalidate failed: %w", err)
	}

	cmd.Printf("Removed document %q\n", args[0])
	return nil
}
