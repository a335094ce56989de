// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/content-engine/internal/schedule"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run generation on a cron schedule until interrupted",
	Long: `Schedule runs the same pass as "generate" on a six-field cron spec
(seconds first) or a descriptor such as @daily. A failed run is reported and
the schedule continues; a run that is still going when the next trigger
fires causes that trigger to be skipped.

Generation flags come from the config file and CONTENT_ENGINE_* variables.`,
	RunE: runSchedule,
}

func init() {
	scheduleCmd.Flags().String("cron", schedule.DefaultSpec, "cron spec with seconds field, or a descriptor")
	scheduleCmd.Flags().Bool("publish", false, "publish the output tree after each successful run")
	scheduleCmd.Flags().Bool("now", false, "also run once immediately")

	rootCmd.AddCommand(scheduleCmd)
}

func runSchedule(cmd *cobra.Command, args []string) error {
	if err := bindFlags(cmd, map[string]string{"schedule.cron": "cron"}); err != nil {
		return err
	}
	publishAfter, _ := cmd.Flags().GetBool("publish")
	runNow, _ := cmd.Flags().GetBool("now")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	job := func(ctx context.Context) error {
		cfg := pipelineConfig()
		summary, err := runPipeline(ctx, cfg, os.Stdout)
		if err != nil {
			return err
		}
		if summary.HasFailures() {
			return fmt.Errorf("%d topic(s) failed", summary.Failed)
		}
		if publishAfter {
			return publishOutput(ctx, cfg.Publish, orDefault(cfg.Output.Dir, defaultOutputDir), os.Stdout)
		}
		return nil
	}

	spec := viper.GetString("schedule.cron")
	s, err := schedule.New(ctx, spec, job, os.Stdout)
	if err != nil {
		return err
	}

	s.Start()
	fmt.Fprintf(os.Stdout, "scheduled %q, next run at %s\n", spec, s.Next().Format(time.RFC3339))
	if runNow {
		go s.Trigger()
	}

	<-ctx.Done()
	fmt.Fprintln(os.Stdout, "stopping scheduler")
	s.Stop()
	return nil
}
