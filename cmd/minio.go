package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/spf13/cobra"

	"github.com/123ibadullah/MusicWebApplication/config"
	"github.com/123ibadullah/MusicWebApplication/storage"
)

var minioPrefix string

var minioCmd = &cobra.Command{
	Use:   "minio",
	Short: "Inspect the media bucket",
	Long:  `Connects to MinIO and lists the objects stored in the media bucket, optionally filtered by prefix.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()
		fmt.Printf("MinIO: %s, Bucket: %s\n", cfg.MinioEndpoint, cfg.MinioBucket)

		if err := storage.InitMinio(cfg); err != nil {
			log.Fatalf("Failed to connect to MinIO: %v", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		client := storage.GetMinioClient()
		objects := client.ListObjects(ctx, cfg.MinioBucket, minio.ListObjectsOptions{
			Prefix:    minioPrefix,
			Recursive: true,
		})

		var count int
		var total int64
		for obj := range objects {
			if obj.Err != nil {
				log.Fatalf("Failed to list objects: %v", obj.Err)
			}
			fmt.Printf("%10d  %s\n", obj.Size, obj.Key)
			count++
			total += obj.Size
		}
		fmt.Printf("%d objects, %d bytes total\n", count, total)
	},
}

func init() {
	minioCmd.Flags().StringVar(&minioPrefix, "prefix", "", "only list objects under this prefix")
	rootCmd.AddCommand(minioCmd)
}
