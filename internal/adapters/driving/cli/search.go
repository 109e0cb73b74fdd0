package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lessonworks/kbsearch/internal/core/domain"
)

var (
	searchTopK     int
	searchMinSim   float64
	searchPerChunk bool
	searchJSON     bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the knowledge base",
	Long: `Embeds the query and ranks every stored chunk by cosine similarity.
By default one result is returned per document (its best chunk);
use --per-chunk to see every matching chunk.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchTopK, "top-k", "k", domain.DefaultTopK, "maximum number of results")
	searchCmd.Flags().Float64Var(&searchMinSim, "min-similarity", domain.DefaultMinSimilarity,
		"minimum similarity (negative disables filtering)")
	searchCmd.Flags().BoolVar(&searchPerChunk, "per-chunk", false, "return every matching chunk, not one per document")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	opts := domain.SearchOptions{
		TopK:          searchTopK,
		MinSimilarity: searchMinSim,
	}

	search := searchService.SearchDocuments
	if searchPerChunk {
		search = searchService.SearchChunks
	}

	results, err := search(cmd.Context(), args[0], opts)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}
	return outputSearchTable(cmd, results)
}

func outputSearchJSON(cmd *cobra.Command, results []domain.SearchResult) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, results []domain.SearchResult) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		cmd.Printf("  [%d] %s (chunk %d, %.2f)\n",
			i+1, results[i].DocumentID, results[i].ChunkIndex, results[i].Similarity)
		cmd.Printf("      %s\n", snippet(results[i].ChunkText, 120))
		cmd.Println()
	}
	return nil
}

// snippet trims text to at most n characters for table output.
func snippet(text string, n int) string {
	if len(text) <= n {
		return text
	}
	return text[:n] + "..."
}
