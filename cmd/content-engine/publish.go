// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pdiddy/content-engine/internal/publish"
	"github.com/pdiddy/content-engine/pkg/types"
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Upload the output tree to an S3-compatible bucket",
	Long: `Publish walks the output directory and uploads every artifact to the
configured MinIO (or other S3-compatible) bucket, keyed by its path relative
to the output root under --prefix. Hidden directories such as the run index
are skipped. The bucket is created when missing.

Credentials come from publish.access_key_id / publish.secret_access_key,
MINIO_ACCESS_KEY / MINIO_SECRET_KEY in .env, or .secrets/minio-access-key and
.secrets/minio-secret-key.`,
	RunE: runPublish,
}

func init() {
	publishCmd.Flags().String("output-dir", defaultOutputDir, "output root directory")
	publishCmd.Flags().String("prefix", "", "object key prefix")
	publishCmd.Flags().String("endpoint", "", "object store endpoint (e.g. http://localhost:9000)")
	publishCmd.Flags().String("bucket", "", "destination bucket")

	rootCmd.AddCommand(publishCmd)
}

var publishBindings = map[string]string{
	"output.dir":       "output-dir",
	"publish.prefix":   "prefix",
	"publish.endpoint": "endpoint",
	"publish.bucket":   "bucket",
}

func runPublish(cmd *cobra.Command, args []string) error {
	if err := bindFlags(cmd, publishBindings); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := pipelineConfig()
	return publishOutput(ctx, cfg.Publish, orDefault(cfg.Output.Dir, defaultOutputDir), os.Stdout)
}

func publishOutput(ctx context.Context, cfg types.PublishConfig, root string, w io.Writer) error {
	up, err := publish.NewMinioUploader(ctx, cfg)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "publishing %s to %s/%s\n", root, cfg.Endpoint, cfg.Bucket)
	summary, err := publish.Publish(ctx, up, root, cfg.Prefix, w)
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d file(s) failed upload", summary.Failed)
	}
	return nil
}
