// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/content-engine/internal/topics"
)

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "Inspect the topic list",
}

var topicsValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the topic list without generating anything",
	Long: `Validate loads the topic list and checks that every entry has a slug,
a Chinese title, and an English title, and that slugs are unique and safe to
use as file names.`,
	RunE: runTopicsValidate,
}

func init() {
	topicsValidateCmd.Flags().String("topics", defaultTopicsFile, "topic list (JSON or YAML)")

	topicsCmd.AddCommand(topicsValidateCmd)
	rootCmd.AddCommand(topicsCmd)
}

func runTopicsValidate(cmd *cobra.Command, args []string) error {
	if err := bindFlags(cmd, map[string]string{"topics_file": "topics"}); err != nil {
		return err
	}

	path := viper.GetString("topics_file")
	list, err := topics.Load(path)
	if err != nil {
		return err
	}

	for _, t := range list {
		fmt.Fprintf(os.Stdout, "%-30s  %s / %s\n", t.Slug, t.Zh, t.En)
	}
	fmt.Fprintf(os.Stdout, "\n%d topic(s) valid in %s\n", len(list), path)
	return nil
}
