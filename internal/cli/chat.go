package cli

import (
	"fmt"
	"os"

	"github.com/rcliao/studybot/internal/render"
	"github.com/rcliao/studybot/internal/session"
	"github.com/rcliao/studybot/internal/transport"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Talk to the assistant",
		Long:  "Run the assistant on stdin/stdout. Interactive console by default, or JSON lines with --jsonl.\n\n" + transport.ConsoleHelp,
		Run:   runChat,
	}

	cmd.Flags().Int64P("user", "u", 0, "User id for console input and for JSON lines without one (default: config default_user)")
	cmd.Flags().Bool("jsonl", false, "Read and write JSON lines instead of the console")

	RootCmd.AddCommand(cmd)
}

func runChat(cmd *cobra.Command, args []string) {
	user, _ := cmd.Flags().GetInt64("user")
	jsonl, _ := cmd.Flags().GetBool("jsonl")

	cfg := loadConfig()
	if user == 0 {
		user = cfg.DefaultUser
	}

	s := openStore(cfg)
	defer s.Close()

	r := render.New(s)
	r.Templates = cfg.Templates
	m := session.NewMachine(s, r)

	var err error
	if jsonl {
		j := transport.NewJSONLines(os.Stdin, os.Stdout, user)
		err = transport.Run(cmd.Context(), j, m, j)
	} else {
		c := transport.NewConsole(os.Stdin, os.Stdout, user)
		c.Prompt = true
		fmt.Fprintln(os.Stdout, "Type /start to begin, /quit to leave.")
		err = transport.Run(cmd.Context(), c, m, c)
	}
	if err != nil {
		exitErr("chat", err)
	}
}
