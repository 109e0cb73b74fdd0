package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show provider and store status",
	Long:  `Checks that the embedding provider is reachable and reports store statistics.`,
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "output status as JSON")
	rootCmd.AddCommand(statusCmd)
}

type statusReport struct {
	Model      string `json:"model"`
	Dimensions int    `json:"dimensions"`
	Provider   string `json:"provider_status"`
	Documents  int    `json:"documents"`
	Chunks     int    `json:"chunks"`
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if embedService == nil || vectorStore == nil {
		return errors.New("services not configured")
	}

	report := statusReport{
		Model:      embedService.ModelName(),
		Dimensions: embedService.Dimensions(),
		Provider:   "ok",
	}
	if err := embedService.Ping(cmd.Context()); err != nil {
		report.Provider = fmt.Sprintf("unreachable: %v", err)
	}

	stats, err := vectorStore.Stats(cmd.Context())
	if err != nil {
		return fmt.Errorf("reading store stats: %w", err)
	}
	report.Documents = stats.Documents
	report.Chunks = stats.Chunks

	if statusJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal status: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("Model:      %s (%d dimensions)\n", report.Model, report.Dimensions)
	cmd.Printf("Provider:   %s\n", report.Provider)
	cmd.Printf("Documents:  %d\n", report.Documents)
	cmd.Printf("Chunks:     %d\n", report.Chunks)
	return nil
}
