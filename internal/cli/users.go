package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"resume-builder/internal/dashboard"

	"github.com/spf13/cobra"
)

var usersCmd = &cobra.Command{
	Use:   "users [query]",
	Short: "Search, summarize or export a dashboard users file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, _ := cmd.Flags().GetString("data")
		watch, _ := cmd.Flags().GetBool("watch")
		stats, _ := cmd.Flags().GetBool("stats")
		format, _ := cmd.Flags().GetString("export")
		if data == "" {
			return fmt.Errorf("--data is required")
		}

		store := dashboard.NewStore(dashboard.FileSource{Path: data})
		if err := store.Refresh(cmd.Context()); err != nil {
			return err
		}
		w := cmd.OutOrStdout()

		switch {
		case format != "":
			f, err := dashboard.ParseFormat(format)
			if err != nil {
				return err
			}
			out, err := dashboard.Export(store.All(), f)
			if err != nil {
				return err
			}
			_, err = w.Write(out)
			return err
		case stats:
			printStats(w, store.Stats())
			return nil
		case watch:
			return watchSearch(cmd.Context(), cmd.InOrStdin(), w, store, dashboard.SearchDelay)
		}

		q := ""
		if len(args) == 1 {
			q = args[0]
		}
		printUsers(w, store.Search(q))
		return nil
	},
}

// watchSearch treats every input line as the current search box content and
// prints results once typing pauses.
func watchSearch(ctx context.Context, in io.Reader, w io.Writer, store *dashboard.Store, delay time.Duration) error {
	if ctx == nil {
		ctx = context.Background()
	}
	queries := make(chan string)
	done := make(chan struct{})
	go func() {
		store.LiveSearch(ctx, queries, delay, func(q string, users []dashboard.User) {
			fmt.Fprintf(w, "%s %q\n", headerStyle.Render("results for"), q)
			printUsers(w, users)
		})
		close(done)
	}()

	sc := bufio.NewScanner(in)
	for sc.Scan() {
		select {
		case queries <- sc.Text():
		case <-done:
			return ctx.Err()
		}
	}
	close(queries)
	<-done
	return sc.Err()
}

func printUsers(w io.Writer, users []dashboard.User) {
	if len(users) == 0 {
		fmt.Fprintln(w, "No users found.")
		return
	}
	for _, u := range users {
		fmt.Fprintf(w, "  %-20s %-10s %-12s %-12s %s\n", u.Name, u.Status, u.City, u.UserType, u.OnboardingDate)
	}
}

func printStats(w io.Writer, st dashboard.Stats) {
	fmt.Fprintln(w, headerStyle.Render("Users"))
	fmt.Fprintf(w, "  total %d  active %d  inactive %d  suspended %d\n", st.Total, st.Active, st.Inactive, st.Suspended)
	fmt.Fprintln(w, headerStyle.Render("Types"))
	for _, t := range st.Types {
		fmt.Fprintf(w, "  %-12s %3d  %5.1f%%\n", t.Type, t.Count, t.Percent)
	}
	fmt.Fprintln(w, headerStyle.Render("Top cities"))
	for _, c := range st.Cities {
		fmt.Fprintf(w, "  %-12s %3d\n", c.City, c.Count)
	}
}

func init() {
	usersCmd.Flags().String("data", os.Getenv("DASHBOARD_DATA"), "users JSON file")
	usersCmd.Flags().Bool("watch", false, "read queries from stdin, one per line, and search as they arrive")
	usersCmd.Flags().Bool("stats", false, "print user statistics")
	usersCmd.Flags().String("export", "", "write all users as json or csv")
	rootCmd.AddCommand(usersCmd)
}
