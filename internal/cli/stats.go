package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show database statistics",
		Run:   runStats,
	}

	RootCmd.AddCommand(cmd)
}

func runStats(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	s := openStore(cfg)
	defer s.Close()

	stats, err := s.Stats(cmd.Context(), cfg.DBPath)
	if err != nil {
		exitErr("stats", err)
	}

	if formatFlag == "json" {
		printJSON(stats)
		return
	}

	fmt.Printf("Database:   %s (%s)\n", stats.DBPath, humanize.Bytes(uint64(stats.DBSizeBytes)))
	fmt.Printf("Subjects:   %s\n", humanize.Comma(int64(stats.Subjects)))
	fmt.Printf("Homework:   %s\n", humanize.Comma(int64(stats.Homeworks)))
	fmt.Printf("Classes:    %s\n", humanize.Comma(int64(stats.ScheduleEntries)))
	for _, ss := range stats.PerSubject {
		fmt.Printf("  %-20s %d homework, %d classes/week\n", ss.Name, ss.Homeworks, ss.Classes)
	}
}
