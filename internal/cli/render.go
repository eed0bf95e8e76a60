package cli

import (
	"fmt"
	"os"

	"resume-builder/internal/model"
	"resume-builder/internal/render"
	"resume-builder/internal/session"
	"resume-builder/internal/usecase"

	"github.com/spf13/cobra"
)

// preview runs the full preview step on a resume file.
func preview(cmd *cobra.Command, path string, includePhoto bool, exporter usecase.Exporter) (*session.Session, usecase.PreviewResult, error) {
	doc, photo, err := loadDocument(path)
	if err != nil {
		return nil, usecase.PreviewResult{}, err
	}
	s := toSession(doc, photo, includePhoto)
	p := usecase.NewProcessor(nil, exporter, nil, newLogger(cmd))
	res, err := p.Preview(cmd.Context(), s)
	if err != nil {
		var vr usecase.ValidationResult
		_ = s.Update(func(st *session.State) error {
			vr = usecase.Validate(st)
			return nil
		})
		if !vr.Valid {
			printReport(cmd.ErrOrStderr(), vr)
		}
		return nil, usecase.PreviewResult{}, err
	}
	return s, res, nil
}

var renderCmd = &cobra.Command{
	Use:   "render <file>",
	Short: "Render a resume file to preview HTML",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("output")
		noPhoto, _ := cmd.Flags().GetBool("no-photo")

		_, res, err := preview(cmd, args[0], !noPhoto, nil)
		if err != nil {
			return err
		}
		if out == "" || out == "-" {
			_, err = fmt.Fprint(cmd.OutOrStdout(), res.HTML)
			return err
		}
		if err := os.WriteFile(out, []byte(res.HTML), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", out, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show <file>",
	Short: "Print a resume in the terminal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, _ := cmd.Flags().GetBool("raw")
		width, _ := cmd.Flags().GetInt("width")

		// show skips the declaration gate; it only previews content.
		doc, photo, err := loadDocument(args[0])
		if err != nil {
			return err
		}
		s := toSession(doc, photo, false)
		var r model.Resume
		_ = s.Update(func(st *session.State) error {
			r = usecase.Aggregate(st)
			return nil
		})

		if raw {
			_, err := fmt.Fprint(cmd.OutOrStdout(), render.Markdown(r))
			return err
		}
		out, err := render.Terminal(r, width)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), out)
		return err
	},
}

func init() {
	renderCmd.Flags().StringP("output", "o", "", "output file (default stdout)")
	renderCmd.Flags().Bool("no-photo", false, "leave the photo out")
	showCmd.Flags().Bool("raw", false, "print markdown without terminal styling")
	showCmd.Flags().Int("width", 80, "wrap width")
	rootCmd.AddCommand(renderCmd, showCmd)
}
