package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rcliao/studybot/internal/model"
	"github.com/rcliao/studybot/internal/render"
	"github.com/rcliao/studybot/internal/store"
	"github.com/spf13/cobra"
)

func init() {
	scheduleCmd := &cobra.Command{
		Use:   "schedule",
		Short: "Weekly schedule management",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Show the weekly schedule",
		Run:   runScheduleList,
	}

	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Add a class to the weekly schedule",
		Run:   runScheduleAdd,
	}
	addCmd.Flags().String("day", "", "Weekday: monday ... sunday (required)")
	addCmd.Flags().Int64P("subject", "s", 0, "Subject id (required)")
	addCmd.Flags().StringP("time", "t", "", "Time label, zero-padded 24h such as 09:00 (required)")
	addCmd.MarkFlagRequired("day")
	addCmd.MarkFlagRequired("subject")
	addCmd.MarkFlagRequired("time")

	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Import schedule entries from JSON",
		Long:  `Import schedule entries from a JSON array on stdin: [{"day":"monday","subject":"Math","time":"09:00"}]. Missing subjects are created.`,
		Run:   runScheduleImport,
	}

	scheduleCmd.AddCommand(listCmd, addCmd, importCmd)
	RootCmd.AddCommand(scheduleCmd)
}

func runScheduleList(cmd *cobra.Command, args []string) {
	s := openStore(loadConfig())
	defer s.Close()

	if formatFlag == "json" {
		entries, err := s.ListSchedule(cmd.Context())
		if err != nil {
			exitErr("schedule list", err)
		}
		printJSON(entries)
		return
	}

	text, err := render.New(s).Schedule(cmd.Context())
	if err != nil {
		exitErr("schedule list", err)
	}
	fmt.Println(text)
}

func runScheduleAdd(cmd *cobra.Command, args []string) {
	day, _ := cmd.Flags().GetString("day")
	subjectID, _ := cmd.Flags().GetInt64("subject")
	tm, _ := cmd.Flags().GetString("time")

	if !model.ValidDay(day) {
		exitErr("schedule add", fmt.Errorf("unknown weekday %q (use monday ... sunday)", day))
	}

	s := openStore(loadConfig())
	defer s.Close()

	entry, err := s.CreateScheduleEntry(cmd.Context(), store.CreateScheduleParams{
		Day:       day,
		SubjectID: subjectID,
		Time:      tm,
	})
	if err != nil {
		exitErr("schedule add", err)
	}

	if formatFlag == "json" {
		printJSON(entry)
		return
	}
	fmt.Printf("added %s %s - %s\n", entry.Day, entry.Time, entry.SubjectName)
}

func runScheduleImport(cmd *cobra.Command, args []string) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		exitErr("read stdin", err)
	}

	var rows []store.ScheduleImport
	if err := json.Unmarshal(data, &rows); err != nil {
		exitErr("parse json", err)
	}
	for _, r := range rows {
		if !model.ValidDay(r.Day) {
			exitErr("schedule import", fmt.Errorf("unknown weekday %q", r.Day))
		}
	}

	s := openStore(loadConfig())
	defer s.Close()

	imported, err := s.ImportSchedule(cmd.Context(), rows)
	writeImportResult(os.Stdout, imported, err)
	if err != nil {
		exitErr("schedule import", err)
	}
}

type importResult struct {
	OK       bool   `json:"ok"`
	Imported int    `json:"imported"`
	Error    string `json:"error,omitempty"`
}

// writeImportResult prints the row count, which is non-zero after a partial import.
func writeImportResult(w io.Writer, imported int, err error) {
	res := importResult{OK: err == nil, Imported: imported}
	if err != nil {
		res.Error = err.Error()
	}
	b, _ := json.Marshal(res)
	fmt.Fprintln(w, string(b))
}
