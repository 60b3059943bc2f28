package cmd

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"fakeout/core/config"
	"fakeout/core/logger"
	"fakeout/core/storage"

	"github.com/minio/minio-go/v7"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var curatePrefix string

// curateCmd uploads local photographs into the curated bucket that backs the
// storage source.
var curateCmd = &cobra.Command{
	Use:   "curate [files...]",
	Short: "Upload photographs to the curated storage bucket",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		logg, err := logger.New(&logger.Config{Level: "info", Format: "console"})
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()

		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		exists, err := client.BucketExists(ctx, cfg.Storage.Bucket)
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("bucket %q does not exist", cfg.Storage.Bucket)
		}

		for _, path := range args {
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			stat, err := f.Stat()
			if err != nil {
				f.Close()
				return err
			}

			key := filepath.Base(path)
			if curatePrefix != "" {
				key = strings.TrimSuffix(curatePrefix, "/") + "/" + key
			}

			_, err = client.PutObject(ctx, cfg.Storage.Bucket, key, f, stat.Size(),
				minio.PutObjectOptions{ContentType: contentTypeFor(path)})
			f.Close()
			if err != nil {
				return fmt.Errorf("uploading %s: %w", path, err)
			}
			logg.Info("Uploaded", zap.String("key", key), zap.Int64("bytes", stat.Size()))
		}
		return nil
	},
}

func contentTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}

func init() {
	curateCmd.Flags().StringVar(&curatePrefix, "prefix", "", "Key prefix inside the bucket")
	RootCmd.AddCommand(curateCmd)
}
