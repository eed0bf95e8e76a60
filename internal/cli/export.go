package cli

import (
	"fmt"
	"os"
	"time"

	"resume-builder/internal/export"
	infra "resume-builder/pkg/infrastructure"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Export a resume file to PDF with headless Chrome",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("output")
		modeFlag, _ := cmd.Flags().GetString("mode")
		noPhoto, _ := cmd.Flags().GetBool("no-photo")
		chrome, _ := cmd.Flags().GetString("chrome")
		timeout, _ := cmd.Flags().GetDuration("timeout")

		mode, err := export.ParseMode(modeFlag)
		if err != nil {
			return err
		}
		exporter := export.NewExporter(infra.NewChromedpSurface(chrome), timeout, newLogger(cmd))
		s, _, err := preview(cmd, args[0], !noPhoto, exporter)
		if err != nil {
			return err
		}

		snap := s.Snapshot()
		art, err := exporter.Export(cmd.Context(), snap.Preview, export.Options{IncludePhoto: snap.IncludePhoto, Mode: mode})
		if err != nil {
			return err
		}
		if out == "" {
			out = art.FileName
		}
		if err := os.WriteFile(out, art.Bytes, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", out, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d pages)\n", out, art.Pages)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringP("output", "o", "", "output file (default resume.pdf)")
	exportCmd.Flags().String("mode", string(export.ModeRaster), "raster or print")
	exportCmd.Flags().Bool("no-photo", false, "leave the photo out")
	exportCmd.Flags().String("chrome", os.Getenv("CHROME_PATH"), "Chrome executable")
	exportCmd.Flags().Duration("timeout", 60*time.Second, "render timeout")
	rootCmd.AddCommand(exportCmd)
}
