package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/interview-partner/internal/observability"
	"github.com/jonathan/interview-partner/internal/scoring"
)

var analyzeSpeechCmd = &cobra.Command{
	Use:   "analyze-speech [transcript]",
	Short: "Score a spoken answer transcript",
	Long: `Runs the speech heuristics (fillers, hedges, pace, technical vocabulary)
on a transcript and prints the analysis as JSON. The transcript is taken from
the arguments, or from --in.`,
	RunE: runAnalyzeSpeech,
}

var (
	analyzeSpeechInput    string
	analyzeSpeechOutput   string
	analyzeSpeechFormat   string
	analyzeSpeechDuration float64
)

func init() {
	analyzeSpeechCmd.Flags().StringVarP(&analyzeSpeechInput, "in", "i", "", "Path to a transcript file (- for stdin)")
	analyzeSpeechCmd.Flags().StringVarP(&analyzeSpeechOutput, "out", "o", "", "Path to write the JSON result (default stdout)")
	analyzeSpeechCmd.Flags().StringVarP(&analyzeSpeechFormat, "format", "f", formatJSON, "Output format: json or text")
	analyzeSpeechCmd.Flags().Float64VarP(&analyzeSpeechDuration, "duration", "d", 0, "Speaking time in seconds, enables the pace score")

	rootCmd.AddCommand(analyzeSpeechCmd)
}

func runAnalyzeSpeech(cmd *cobra.Command, args []string) error {
	if analyzeSpeechDuration < 0 {
		return fmt.Errorf("duration must not be negative")
	}

	transcript := strings.Join(args, " ")
	if analyzeSpeechInput != "" {
		if transcript != "" {
			return fmt.Errorf("pass the transcript either as arguments or with --in, not both")
		}
		data, _, err := readInput(cmd, analyzeSpeechInput)
		if err != nil {
			return err
		}
		transcript = string(data)
	}
	if strings.TrimSpace(transcript) == "" {
		return fmt.Errorf("transcript is empty")
	}

	analysis := scoring.AnalyzeSpeech(transcript, analyzeSpeechDuration)
	return writeOutput(cmd, analyzeSpeechOutput, analyzeSpeechFormat, analysis, func(p *observability.Printer) {
		p.PrintSpeechAnalysis(&analysis)
	})
}
