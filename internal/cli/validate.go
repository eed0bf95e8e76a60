package cli

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"resume-builder/internal/session"
	"resume-builder/internal/usecase"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

var errInvalid = errors.New("resume has validation errors")

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check every section of a resume file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, photo, err := loadDocument(args[0])
		if err != nil {
			return err
		}
		s := toSession(doc, photo, true)

		var res usecase.ValidationResult
		_ = s.Update(func(st *session.State) error {
			res = usecase.Validate(st)
			return nil
		})
		printReport(cmd.OutOrStdout(), res)
		if !res.Valid {
			return errInvalid
		}
		return nil
	},
}

func printReport(w io.Writer, res usecase.ValidationResult) {
	fmt.Fprintln(w, headerStyle.Render("Validation report"))
	for _, sec := range res.Sections {
		var failing []string
		for k, msg := range sec.Errors {
			if msg != "" {
				failing = append(failing, k)
			}
		}
		if len(failing) == 0 {
			fmt.Fprintf(w, "  %s %s\n", okStyle.Render("✓"), sec.Section)
			continue
		}
		sort.Strings(failing)
		fmt.Fprintf(w, "  %s %s\n", failStyle.Render("✗"), sec.Section)
		for _, k := range failing {
			fmt.Fprintf(w, "      %s %s\n", labelStyle.Render(k+":"), sec.Errors[k])
		}
	}
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
