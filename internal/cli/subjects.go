package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	subjectsCmd := &cobra.Command{
		Use:   "subjects",
		Short: "Subject management",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List subjects",
		Run:   runSubjectsList,
	}

	addCmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Add a subject",
		Args:  cobra.MinimumNArgs(1),
		Run:   runSubjectsAdd,
	}

	subjectsCmd.AddCommand(listCmd, addCmd)
	RootCmd.AddCommand(subjectsCmd)
}

func runSubjectsList(cmd *cobra.Command, args []string) {
	s := openStore(loadConfig())
	defer s.Close()

	subjects, err := s.ListSubjects(cmd.Context())
	if err != nil {
		exitErr("list subjects", err)
	}

	if formatFlag == "json" {
		printJSON(subjects)
		return
	}
	for _, sub := range subjects {
		fmt.Printf("%d\t%s\n", sub.ID, sub.Name)
	}
}

func runSubjectsAdd(cmd *cobra.Command, args []string) {
	s := openStore(loadConfig())
	defer s.Close()

	sub, err := s.CreateSubject(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		exitErr("add subject", err)
	}

	if formatFlag == "json" {
		printJSON(sub)
		return
	}
	fmt.Printf("added subject %d: %s\n", sub.ID, sub.Name)
}
