package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/AdoyoClifford/how-to-say-NO/internal/cache"
	"github.com/AdoyoClifford/how-to-say-NO/internal/config"
	"github.com/spf13/cobra"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the cached reason",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := cache.Open(config.CachePath(), newLogger())
		if err != nil {
			return fmt.Errorf("opening cache: %w", err)
		}
		defer store.Close()

		if store.Read() == nil {
			fmt.Println("Nothing cached.")
			return nil
		}
		store.Clear()
		fmt.Println("Cached reason cleared.")
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache status",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		dbPath := config.CachePath()
		store, err := cache.Open(dbPath, newLogger())
		if err != nil {
			return fmt.Errorf("opening cache: %w", err)
		}
		defer store.Close()

		fmt.Printf("Cache: %s\n", dbPath)

		entry := store.Read()
		if entry == nil {
			fmt.Println("Cached reason: none")
		} else {
			fmt.Printf("Cached reason: %q\n", entry.Reason)
			fmt.Printf("Age: %s", formatAge(time.Since(entry.WrittenAt)))
			if entry.Stale(cfg.CacheMaxAgeDuration()) {
				fmt.Print(" (stale)")
			}
			fmt.Println()
		}

		if info, err := os.Stat(dbPath); err == nil {
			fmt.Printf("Size: %s\n", formatBytes(info.Size()))
		}
		return nil
	},
}

func formatAge(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
