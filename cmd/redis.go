package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/123ibadullah/MusicWebApplication/config"
	"github.com/123ibadullah/MusicWebApplication/db"
)

var redisCmd = &cobra.Command{
	Use:   "redis",
	Short: "Check the Redis connection",
	Long:  `Connects to Redis and runs a set/get/del round trip to verify the configuration.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()
		fmt.Printf("Redis: %s:%s, DB: %d\n", cfg.RedisHost, cfg.RedisPort, cfg.RedisDB)

		if err := db.ConnectRedis(cfg); err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		if err := db.TestRedis(); err != nil {
			log.Fatalf("Redis round trip failed: %v", err)
		}
		if err := db.CloseRedis(); err != nil {
			log.Printf("Error closing Redis connection: %v", err)
		}
		fmt.Println("Redis connection OK.")
	},
}

func init() {
	rootCmd.AddCommand(redisCmd)
}
