package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/labelkit/zplview/internal/render"
)

// renderCmd represents the render command.
var renderCmd = &cobra.Command{
	Use:   "render [file]",
	Short: "Render a ZPL file to a preview image",
	Long: `Render ZPL label markup from a file (or stdin with "-") to a PNG or PDF
preview. The rendering mode decides whether the built-in interpreter, the
remote service, or automatic fallback is used.

Examples:
  zplview render label.zpl
  zplview render label.zpl --width 4 --height 6 --dpi 300
  zplview render label.zpl --format pdf -o label.pdf
  cat label.zpl | zplview render - --mode remote`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		width := cfg.Rendering.LabelWidthInches
		if cmd.Flags().Changed("width") {
			width, _ = cmd.Flags().GetFloat64("width")
		}

		height := cfg.Rendering.LabelHeightInches
		if cmd.Flags().Changed("height") {
			height, _ = cmd.Flags().GetFloat64("height")
		}

		dpi := cfg.Rendering.DPI
		if cmd.Flags().Changed("dpi") {
			dpi, _ = cmd.Flags().GetInt("dpi")
		}

		format := cfg.Output.Format
		if cmd.Flags().Changed("format") {
			format, _ = cmd.Flags().GetString("format")
		}

		if cmd.Flags().Changed("mode") {
			mode, _ := cmd.Flags().GetString("mode")
			if _, err := render.ParseMode(mode); err != nil {
				return err
			}
			cfg.Rendering.Mode = mode
		}

		output := cfg.Output.File
		if cmd.Flags().Changed("output") {
			output, _ = cmd.Flags().GetString("output")
		}

		markup, err := readMarkup(args[0])
		if err != nil {
			return err
		}

		orchestrator := buildOrchestrator(cfg)
		res, err := orchestrator.Render(context.Background(), render.Request{
			Markup:       markup,
			WidthInches:  width,
			HeightInches: height,
			DPI:          dpi,
			Format:       format,
		})
		if err != nil {
			return fmt.Errorf("render failed: %w", err)
		}

		if output == "" {
			output = deriveOutputPath(args[0], format)
		}
		if err := os.WriteFile(output, res.Bytes, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", output, err)
		}

		slog.Info("Rendered label",
			"output", output,
			"source", res.Source,
			"bytes", len(res.Bytes),
			"size_inches", fmt.Sprintf("%gx%g", width, height),
			"dpi", dpi)
		return nil
	},
}

// readMarkup reads label markup from a file or stdin ("-").
func readMarkup(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

// deriveOutputPath replaces the input extension with the output format.
func deriveOutputPath(input, format string) string {
	if format == "" {
		format = render.FormatPNG
	}
	if input == "-" {
		return "label." + format
	}
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return base + "." + format
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().Float64P("width", "W", 4.0, "label width in inches")
	renderCmd.Flags().Float64P("height", "H", 6.0, "label height in inches")
	renderCmd.Flags().Int("dpi", 203, "print density in dots per inch")
	renderCmd.Flags().String("mode", "", "rendering mode: local, remote, or auto")
	renderCmd.Flags().StringP("format", "f", "", "output format: png or pdf")
	renderCmd.Flags().StringP("output", "o", "", "output file (default derives from input name)")
}
