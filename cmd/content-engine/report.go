// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/content-engine/internal/index"
	"github.com/pdiddy/content-engine/pkg/types"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show the latest recorded audit score per topic",
	Long: `Report reads the run index written by "generate --record" and lists the
most recent audit report for each slug. Use --export to write the same view
to a YAML or JSON file.`,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().String("output-dir", defaultOutputDir, "output root directory (the index lives under it)")
	reportCmd.Flags().String("slug", "", "only this slug")
	reportCmd.Flags().String("run", "", "reports from this run instead of the latest per slug")
	reportCmd.Flags().Int("min-score", 0, "only reports scoring at least this much")
	reportCmd.Flags().Bool("json", false, "print JSON instead of a table")
	reportCmd.Flags().String("export", "", "write the report to a .yaml or .json file")

	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	if err := bindFlags(cmd, map[string]string{"output.dir": "output-dir"}); err != nil {
		return err
	}
	slug, _ := cmd.Flags().GetString("slug")
	runID, _ := cmd.Flags().GetString("run")
	minScore, _ := cmd.Flags().GetInt("min-score")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	exportPath, _ := cmd.Flags().GetString("export")

	dir := indexDir()
	if !index.Exists(dir) {
		if exportPath != "" {
			return fmt.Errorf("no run index in %s; run generate --record first", dir)
		}
		return formatReport(nil, jsonOutput)
	}

	store, err := index.Open(types.IndexConfig{Enabled: true, Dir: dir})
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	opts := index.QueryOptions{Slug: slug, MinScore: minScore, RunID: runID}

	if exportPath != "" {
		if err := store.Export(ctx, opts, exportPath); err != nil {
			return err
		}
		fmt.Printf("Exported to %s\n", exportPath)
		return nil
	}

	entries, err := store.Latest(ctx, opts)
	if err != nil {
		return err
	}
	return formatReport(entries, jsonOutput)
}

func formatReport(entries []index.Entry, jsonOutput bool) error {
	if jsonOutput {
		if entries == nil {
			entries = []index.Entry{}
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Println("No reports recorded.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-30s  %-5s  %-6s  %-8s  %-20s  %s\n",
		"Slug", "Score", "Issues", "Source", "Recorded", "Run")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 110))

	for _, e := range entries {
		slug := e.Slug
		if len(slug) > 30 {
			slug = slug[:27] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-30s  %-5d  %-6d  %-8s  %-20s  %s\n",
			slug, e.Report.Score, len(e.Report.Issues), e.Source,
			e.CreatedAt.Local().Format("2006-01-02 15:04:05"), e.RunID)
	}

	fmt.Fprintf(os.Stdout, "\n%d topic(s)\n", len(entries))
	return nil
}
