package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dgnsrekt/hanspeak/internal/cache"
	"github.com/dgnsrekt/hanspeak/tts"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var (
	pruneOlderThan time.Duration

	cacheCmd = &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the translation cache",
		Args:  cobra.NoArgs,
	}

	cacheInfoCmd = &cobra.Command{
		Use:   "info",
		Short: "Show translation cache usage",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			cfg, err := tts.LoadConfigFromViper()
			if err != nil {
				return err
			}
			dir, err := cacheDir(cfg)
			if err != nil {
				return err
			}
			store, err := openCache(cfg)
			if err != nil {
				return err
			}
			defer store.Close() //nolint:errcheck

			return writeCacheInfo(os.Stdout, dir, store.Stats())
		},
	}

	cacheClearCmd = &cobra.Command{
		Use:     "clear",
		Short:   "Delete cached translations",
		Example: paragraph("hanspeak cache clear\nhanspeak cache clear --older-than 720h"),
		Args:    cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			cfg, err := tts.LoadConfigFromViper()
			if err != nil {
				return err
			}
			store, err := openCache(cfg)
			if err != nil {
				return err
			}
			defer store.Close() //nolint:errcheck

			n, err := clearCache(store, pruneOlderThan, time.Now())
			if err != nil {
				return fmt.Errorf("unable to clear cache: %w", err)
			}
			fmt.Printf("Removed %s cached %s.\n", humanize.Comma(int64(n)), plural(n, "translation", "translations"))
			return nil
		},
	}
)

// clearCache removes every entry, or only those older than olderThan when it
// is positive. It returns the number of entries removed.
func clearCache(store *cache.Manager, olderThan time.Duration, now time.Time) (int, error) {
	if olderThan > 0 {
		return store.Prune(now.Add(-olderThan))
	}
	n := int(store.Stats().Disk.ItemCount)
	return n, store.Clear()
}

func writeCacheInfo(w io.Writer, dir string, stats cache.ManagerStats) error {
	disk := stats.Disk
	used := "0%"
	if disk.Capacity > 0 {
		used = fmt.Sprintf("%.1f%%", float64(disk.Size)/float64(disk.Capacity)*100)
	}

	_, err := fmt.Fprintf(w, "%s %s\n%s %s\n%s %s of %s (%s)\n",
		keyword("Directory:"), dir,
		keyword("Entries:  "), humanize.Comma(disk.ItemCount),
		keyword("Size:     "), humanize.IBytes(uint64(max(disk.Size, 0))), humanize.IBytes(uint64(max(disk.Capacity, 0))), used,
	)
	return err
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func init() {
	cacheClearCmd.Flags().DurationVar(&pruneOlderThan, "older-than", 0, "only remove entries older than this")
	cacheCmd.AddCommand(cacheInfoCmd, cacheClearCmd)
}
