// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate articles and assets for every topic in the topic list",
	Long: `Generate reads the topic list and, for each topic in order, produces an
article, audits it, extracts a structure diagram, and writes nine artifacts
under the output directory. Existing files are overwritten.

The first failing topic stops the run unless --keep-going is set.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().String("topics", defaultTopicsFile, "topic list (JSON or YAML)")
	generateCmd.Flags().String("output-dir", defaultOutputDir, "output root directory")
	generateCmd.Flags().String("source", "template", "article source: template or remote")
	generateCmd.Flags().String("auditor", "stub", "auditor: stub or remote")
	generateCmd.Flags().String("diagram", "static", "diagram extractor: static or remote")
	generateCmd.Flags().String("chart", "placeholder", "chart style: placeholder or score")
	generateCmd.Flags().String("model", "", "chat-completion model for remote stages")
	generateCmd.Flags().Bool("keep-going", false, "continue past failed topics")
	generateCmd.Flags().Bool("record", false, "record audit reports in the run index")

	rootCmd.AddCommand(generateCmd)
}

var generateBindings = map[string]string{
	"topics_file":       "topics",
	"output.dir":        "output-dir",
	"generation.source": "source",
	"audit.strategy":    "auditor",
	"diagram.strategy":  "diagram",
	"output.chart":      "chart",
	"ai.model":          "model",
	"keep_going":        "keep-going",
	"index.enabled":     "record",
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if err := bindFlags(cmd, generateBindings); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary, err := runPipeline(ctx, pipelineConfig(), os.Stdout)
	if err != nil {
		return err
	}
	if summary.HasFailures() {
		return fmt.Errorf("%d topic(s) failed", summary.Failed)
	}
	return nil
}
