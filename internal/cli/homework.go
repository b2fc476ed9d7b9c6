package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
	"github.com/rcliao/studybot/internal/dates"
	"github.com/rcliao/studybot/internal/render"
	"github.com/rcliao/studybot/internal/store"
	"github.com/spf13/cobra"
)

func init() {
	homeworkCmd := &cobra.Command{
		Use:   "homework",
		Short: "Homework management",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List homework by deadline",
		Run:   runHomeworkList,
	}
	listCmd.Flags().String("before", "", `Only deadlines before this date (e.g. "next friday", 25.12.2024, 2024-12-25)`)

	addCmd := &cobra.Command{
		Use:   "add [task]",
		Short: "Record a homework",
		Args:  cobra.MinimumNArgs(1),
		Run:   runHomeworkAdd,
	}
	addCmd.Flags().Int64P("subject", "s", 0, "Subject id (required)")
	addCmd.Flags().String("due", "", "Deadline as DD.MM.YYYY (required)")
	addCmd.Flags().String("file", "", "Attached file reference")
	addCmd.MarkFlagRequired("subject")
	addCmd.MarkFlagRequired("due")

	homeworkCmd.AddCommand(listCmd, addCmd)
	RootCmd.AddCommand(homeworkCmd)
}

func runHomeworkList(cmd *cobra.Command, args []string) {
	beforeStr, _ := cmd.Flags().GetString("before")

	var params store.ListHomeworksParams
	if beforeStr != "" {
		before, err := parseBefore(beforeStr, time.Now())
		if err != nil {
			exitErr("homework list", err)
		}
		params.Before = before
	}

	cfg := loadConfig()
	s := openStore(cfg)
	defer s.Close()

	if formatFlag == "json" {
		homeworks, err := s.ListHomeworks(cmd.Context(), params)
		if err != nil {
			exitErr("homework list", err)
		}
		printJSON(homeworks)
		return
	}

	text, err := render.New(s).HomeworkList(cmd.Context(), params)
	if err != nil {
		exitErr("homework list", err)
	}
	fmt.Println(text)
}

func runHomeworkAdd(cmd *cobra.Command, args []string) {
	subjectID, _ := cmd.Flags().GetInt64("subject")
	due, _ := cmd.Flags().GetString("due")
	fileID, _ := cmd.Flags().GetString("file")

	deadline, err := dates.ParseUserDate(strings.TrimSpace(due))
	if err != nil {
		exitErr("homework add", err)
	}

	cfg := loadConfig()
	s := openStore(cfg)
	defer s.Close()

	hw, err := s.CreateHomework(cmd.Context(), store.CreateHomeworkParams{
		SubjectID: subjectID,
		Text:      strings.Join(args, " "),
		Deadline:  deadline,
		FileID:    fileID,
	})
	if err != nil {
		exitErr("homework add", err)
	}

	if formatFlag == "json" {
		printJSON(hw)
		return
	}
	r := render.New(s)
	r.Templates = cfg.Templates
	text, err := r.HomeworkAdded(hw)
	if err != nil {
		exitErr("homework add", err)
	}
	fmt.Println(text)
}

// parseBefore accepts DD.MM.YYYY, YYYY-MM-DD or natural language such as
// "next friday", and returns the calendar date it names.
func parseBefore(s string, now time.Time) (time.Time, error) {
	if t, err := dates.ParseUserDate(s); err == nil {
		return t, nil
	}
	if t, err := dates.ParseStoredDate(s); err == nil {
		return t, nil
	}

	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)

	r, err := w.Parse(s, now)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	if r == nil {
		return time.Time{}, fmt.Errorf("unrecognised date %q", s)
	}
	return time.Date(r.Time.Year(), r.Time.Month(), r.Time.Day(), 0, 0, 0, 0, time.UTC), nil
}
