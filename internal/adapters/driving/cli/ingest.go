package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var ingestID string

var ingestCmd = &cobra.Command{
	Use:   "ingest [file]",
	Short: "Index a document into the knowledge base",
	Long: `Reads a document, splits it into overlapping chunks, embeds each
chunk and stores the vectors. Re-ingesting the same document ID
replaces its previous chunks.

Pass "-" (or no file) to read the document from stdin; in that case
--id is required.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestID, "id", "", "document ID (defaults to the file name)")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if indexService == nil {
		return errors.New("index service not configured")
	}

	var (
		text       string
		documentID = ingestID
	)

	if len(args) == 0 || args[0] == "-" {
		if documentID == "" {
			return errors.New("--id is required when reading from stdin")
		}
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		text = string(data)
	} else {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}
		text = string(data)
		if documentID == "" {
			base := filepath.Base(args[0])
			documentID = strings.TrimSuffix(base, filepath.Ext(base))
		}
	}

	if err := indexService.Ingest(cmd.Context(), documentID, text); err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	cmd.Printf("Indexed document %q (%d chars)\n", documentID, len(text))
	return nil
}
