package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/subway-runner/internal/api"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON Schema of render snapshots",
	Long: `Prints the JSON Schema describing the snapshot frames streamed by
/ws/play, the same document served at /api/game/schema.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(api.SnapshotSchema())
	},
}
