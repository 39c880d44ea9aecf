package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/interview-partner/internal/ingestion"
	"github.com/jonathan/interview-partner/internal/observability"
	"github.com/jonathan/interview-partner/internal/scoring"
)

var scoreResumeCmd = &cobra.Command{
	Use:   "score-resume",
	Short: "Score a resume with the ATS heuristics",
	Long:  "Reads a plain-text or HTML resume, cleans it and prints the ATS score with per-category details and suggestions as JSON.",
	RunE:  runScoreResume,
}

// Output formats of the scoring commands.
const (
	formatJSON = "json"
	formatText = "text"
)

var (
	scoreResumeInput    string
	scoreResumeFormat   string
	scoreResumeOutput   string
	scoreResumeMinChars int
)

func init() {
	scoreResumeCmd.Flags().StringVarP(&scoreResumeInput, "in", "i", "", "Path to the resume (.txt, .md or .html; - for stdin) (required)")
	scoreResumeCmd.Flags().StringVarP(&scoreResumeOutput, "out", "o", "", "Path to write the JSON result (default stdout)")
	scoreResumeCmd.Flags().StringVarP(&scoreResumeFormat, "format", "f", formatJSON, "Output format: json or text")
	scoreResumeCmd.Flags().IntVar(&scoreResumeMinChars, "min-chars", 0, "Reject resumes shorter than this many characters (0 scores anything)")

	if err := scoreResumeCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}

	rootCmd.AddCommand(scoreResumeCmd)
}

func runScoreResume(cmd *cobra.Command, _ []string) error {
	data, name, err := readInput(cmd, scoreResumeInput)
	if err != nil {
		return err
	}

	text, _, err := ingestion.ExtractUpload(name, "", data)
	if err != nil {
		return fmt.Errorf("failed to read resume: %w", err)
	}
	if scoreResumeMinChars > 0 {
		if err := scoring.ValidateResumeText(text, scoreResumeMinChars); err != nil {
			return err
		}
	}

	result := scoring.ScoreResume(text)
	return writeOutput(cmd, scoreResumeOutput, scoreResumeFormat, result, func(p *observability.Printer) {
		p.PrintATSResult(&result)
	})
}

// readInput reads path, or stdin when path is "-". The returned name is used
// to detect the file format.
func readInput(cmd *cobra.Command, path string) ([]byte, string, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, "stdin.txt", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read input file: %w", err)
	}
	return data, filepath.Base(path), nil
}

// writeOutput writes v to path, or to stdout when path is empty. The text
// format uses printText instead of JSON.
func writeOutput(cmd *cobra.Command, path, format string, v any, printText func(*observability.Printer)) error {
	var out []byte
	switch format {
	case formatJSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal result: %w", err)
		}
		out = append(data, '\n')
	case formatText:
		var buf bytes.Buffer
		printText(observability.NewPrinter(&buf))
		out = buf.Bytes()
	default:
		return fmt.Errorf("unknown output format %q (want %s or %s)", format, formatJSON, formatText)
	}

	if path == "" {
		_, err := cmd.OutOrStdout().Write(out)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", path)
	return nil
}
