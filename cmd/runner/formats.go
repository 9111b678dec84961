package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/subway-runner/internal/registry"
)

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List snapshot wire formats",
	Long:  `Shows the codecs available for WebSocket frames and sim output.`,
	Args:  cobra.NoArgs,
	Run:   runFormats,
}

func runFormats(cmd *cobra.Command, args []string) {
	codecs := registry.List()

	if len(codecs) == 0 {
		fmt.Println("No formats available.")
		return
	}

	fmt.Println("Available formats:")
	fmt.Println()

	// Calculate column widths
	maxNameLen := 4 // "Name" header
	for _, c := range codecs {
		if len(c.Name) > maxNameLen {
			maxNameLen = len(c.Name)
		}
	}

	fmt.Printf("  %-*s  %-20s  %s\n", maxNameLen, "Name", "Content type", "Frames")
	fmt.Printf("  %-*s  %-20s  %s\n", maxNameLen, "----", "------------", "------")

	for _, c := range codecs {
		frames := "text"
		if c.Binary {
			frames = "binary"
		}
		fmt.Printf("  %-*s  %-20s  %s\n", maxNameLen, c.Name, c.ContentType, frames)
	}

	fmt.Println()
	fmt.Println("Use 'runner serve --format <name>' or '/ws/play?format=<name>'.")
}

func errUnknownFormat(name string) error {
	names := make([]string, 0)
	for _, c := range registry.List() {
		names = append(names, c.Name)
	}
	return fmt.Errorf("unknown format %q (available: %s)", name, strings.Join(names, ", "))
}
