package scoring

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/jonathan/interview-partner/internal/types"
)

// FillerWords are single-token fillers counted against fluency.
var FillerWords = []string{
	"um", "uh", "er", "ah", "hmm", "like", "basically", "actually",
	"literally", "so", "well", "right", "okay",
}

// FillerPhrases are multi-word fillers.
var FillerPhrases = []string{"you know", "i mean", "kind of", "sort of"}

// HedgePhrases lower the confidence score.
var HedgePhrases = []string{
	"i think", "maybe", "probably", "i guess", "perhaps", "not sure",
	"might", "possibly", "i believe", "kind of", "sort of",
}

// AssertivePhrases raise the confidence score.
var AssertivePhrases = []string{
	"i led", "i built", "i designed", "i implemented", "i delivered",
	"i decided", "definitely", "certainly", "achieved", "improved", "resolved",
}

// TechnicalTerms are the vocabulary that moves the technical score.
var TechnicalTerms = []string{
	"algorithm", "api", "architecture", "cache", "caching", "ci/cd", "cloud",
	"complexity", "concurrency", "container", "database", "data structure",
	"debugging", "deployment", "design pattern", "distributed", "docker",
	"golang", "graphql", "hash map", "index", "java", "javascript",
	"kubernetes", "latency", "load balancer", "machine learning",
	"microservices", "optimization", "performance", "python", "queue",
	"react", "recursion", "rest", "scalability", "security", "sql",
	"system design", "testing", "throughput", "typescript", "unit test",
}

const (
	paceMin         = 120.0
	paceMax         = 160.0
	paceUnknown     = 70
	confidenceStart = 70.0
)

// Breakdown weights.
const (
	weightCommunication = 0.25
	weightConfidence    = 0.20
	weightTechnical     = 0.25
	weightPace          = 0.15
	weightFiller        = 0.15
)

// AnalyzeSpeech scores a transcribed answer. durationSeconds <= 0 means the
// speaking time is unknown and pace falls back to a neutral score.
func AnalyzeSpeech(transcript string, durationSeconds float64) types.SpeechAnalysis {
	words := tokenize(transcript)
	if len(words) == 0 {
		return types.SpeechAnalysis{Feedback: []string{"No speech was detected in the answer."}}
	}

	wordCount := len(words)
	sentences := splitSentences(transcript)
	sentenceCount := len(sentences)
	if sentenceCount == 0 {
		sentenceCount = 1
	}
	avgSentence := float64(wordCount) / float64(sentenceCount)

	fillersFound := make(map[string]int)
	fillerCount := 0
	for _, f := range FillerWords {
		if n := countPhrase(words, f); n > 0 {
			fillersFound[f] = n
			fillerCount += n
		}
	}
	for _, f := range FillerPhrases {
		if n := countPhrase(words, f); n > 0 {
			fillersFound[f] = n
			fillerCount += n
		}
	}
	fillerRatio := float64(fillerCount) / float64(wordCount)
	fillerScore := clamp(100 - fillerRatio*500)

	clarity := 100 - capAt(fillerRatio*200, 40)
	if avgSentence > 25 {
		clarity -= capAt(2*(avgSentence-25), 30)
	}
	if avgSentence < 5 {
		clarity -= 15
	}
	if wordCount < 10 {
		clarity -= 20
	}
	clarityScore := clamp(clarity)

	hedges := countAll(words, HedgePhrases)
	assertive := countAll(words, AssertivePhrases)
	questions := strings.Count(transcript, "?")
	exclamations := strings.Count(transcript, "!")
	confidence := confidenceStart -
		capAt(5*float64(hedges), 40) +
		capAt(5*float64(assertive), 25) -
		capAt(3*float64(questions), 15) +
		capAt(2*float64(exclamations), 6)
	confidenceScore := clamp(confidence)

	var wpm float64
	pace := paceUnknown
	if durationSeconds > 0 {
		wpm = float64(wordCount) / (durationSeconds / 60)
		pace = paceScore(wpm)
	}

	terms := matchTerms(words, TechnicalTerms)
	technical := clamp(40 + 12*float64(len(terms)))

	communication := float64(clarityScore+fillerScore) / 2
	if wordCount >= 50 {
		communication += 10
	}
	if wordCount < 15 {
		communication -= 20
	}

	breakdown := types.ScoreBreakdown{
		Communication: clamp(communication),
		Confidence:    confidenceScore,
		Technical:     technical,
		Pace:          pace,
		FillerWords:   fillerScore,
	}
	breakdown.Overall = Overall(breakdown)

	analysis := types.SpeechAnalysis{
		WordCount:         wordCount,
		SentenceCount:     len(sentences),
		FillerCount:       fillerCount,
		FillerRatio:       round2(fillerRatio),
		FillersFound:      fillersFound,
		HedgeCount:        hedges,
		AssertiveCount:    assertive,
		TechnicalTerms:    terms,
		WordsPerMinute:    round2(wpm),
		AvgSentenceLength: round2(avgSentence),
		ClarityScore:      clarityScore,
		ConfidenceScore:   confidenceScore,
		Breakdown:         breakdown,
	}
	analysis.Feedback = speechFeedback(analysis, durationSeconds > 0)
	return analysis
}

// Overall combines a breakdown's categories into its weighted overall score.
func Overall(b types.ScoreBreakdown) int {
	return clamp(weightCommunication*float64(b.Communication) +
		weightConfidence*float64(b.Confidence) +
		weightTechnical*float64(b.Technical) +
		weightPace*float64(b.Pace) +
		weightFiller*float64(b.FillerWords))
}

func paceScore(wpm float64) int {
	switch {
	case wpm < paceMin:
		return clamp(100 - (paceMin - wpm))
	case wpm > paceMax:
		return clamp(100 - (wpm - paceMax))
	default:
		return 100
	}
}

func countAll(words []string, phrases []string) int {
	total := 0
	for _, p := range phrases {
		total += countPhrase(words, p)
	}
	return total
}

// matchTerms returns the distinct vocabulary terms present in words, sorted.
func matchTerms(words []string, vocabulary []string) []string {
	var found []string
	for _, term := range vocabulary {
		if countPhrase(words, term) > 0 {
			found = append(found, term)
		}
	}
	sort.Strings(found)
	return found
}

func speechFeedback(a types.SpeechAnalysis, timed bool) []string {
	var out []string
	if a.FillerRatio > 0.05 {
		out = append(out, fmt.Sprintf("Cut down on filler words (%d found); pause briefly instead.", a.FillerCount))
	}
	if a.HedgeCount > 2 {
		out = append(out, "Replace hedging phrases like \"I think\" or \"maybe\" with direct statements.")
	}
	if a.AvgSentenceLength > 25 {
		out = append(out, "Break long sentences into shorter, self-contained points.")
	}
	if a.WordCount < 15 {
		out = append(out, "Give a fuller answer with a concrete example.")
	}
	if len(a.TechnicalTerms) == 0 {
		out = append(out, "Name the specific technologies and techniques you used.")
	}
	if timed {
		switch {
		case a.WordsPerMinute < paceMin:
			out = append(out, "Speak a little faster to keep the interviewer engaged.")
		case a.WordsPerMinute > paceMax:
			out = append(out, "Slow down so each point lands.")
		}
	}
	if len(out) == 0 {
		out = append(out, "Clear, confident delivery. Keep it up.")
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
