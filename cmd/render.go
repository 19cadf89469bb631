package cmd

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/pr-dashboard/internal/gateway"
	"github.com/naka-gawa/pr-dashboard/internal/render"
	"github.com/naka-gawa/pr-dashboard/internal/usecase"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Renders the dashboard charts to a file or standard output",
	Long: `Fetches the data set from api.url, or reads it from --data, and writes
the three dashboard charts in the chosen format.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		logger := newLogger(cmd)
		cfg := mustLoadConfig(cmd)

		formatName, _ := cmd.Flags().GetString("format")
		format, err := render.ParseFormat(formatName)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		var loader gateway.Loader = gateway.NewHTTPLoader(cfg.API.URL, &http.Client{Timeout: cfg.API.Timeout}, logger)
		if dataFile, _ := cmd.Flags().GetString("data"); dataFile != "" {
			loader = gateway.NewFileLoader(dataFile)
		}
		view := usecase.NewDashboard(loader, logger).Build(ctx)
		if view.LoadErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: rendering empty charts, data could not be loaded: %v\n", view.LoadErr)
		}

		path, _ := cmd.Flags().GetString("output")
		if err := writeOutput(path, format, view); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

// writeOutput renders the view in full before touching the output, so a
// failed render never leaves a truncated file behind. An empty path writes
// to standard output.
func writeOutput(path string, format render.Format, view *usecase.View) error {
	var buf bytes.Buffer
	if err := render.Write(&buf, format, view); err != nil {
		return fmt.Errorf("failed to render charts: %w", err)
	}
	if path == "" {
		if _, err := buf.WriteTo(os.Stdout); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	_, err = buf.WriteTo(f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(renderCmd)
	names := make([]string, len(render.Formats))
	for i, f := range render.Formats {
		names[i] = string(f)
	}
	renderCmd.Flags().StringP("format", "f", string(render.FormatSVG), "Output format: "+strings.Join(names, "|"))
	renderCmd.Flags().StringP("output", "o", "", "Output file (default is standard output)")
	renderCmd.Flags().String("data", "", "Read the data set from a local .json or .csv file instead of api.url")
}
