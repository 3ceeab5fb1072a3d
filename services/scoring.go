package services

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/Narain-karthick/Prep2Hire/models"
)

// Scoring constants. The bands and ceilings are the contract; see DESIGN.md
// for the rationale behind the chosen values.
const (
	// Accuracy: blend of keyword density and critical-term coverage. A missing
	// critical term caps the metric regardless of density.
	accuracyDensityWeight  = 0.7
	accuracyCriticalWeight = 0.3
	accuracyMissingCritCap = 60

	// Clarity: too-short answers are capped hard, long rambling answers
	// without structure are capped softly.
	clarityMinWords       = 10
	clarityShortCap       = 25
	clarityStructureBonus = 40
	clarityRamblingWords  = 250
	clarityRamblingCap    = 40

	// Depth: length beyond the minimum threshold earns at most depthLengthCap,
	// so length alone cannot max the metric. Elaboration markers earn the rest.
	depthMinWords     = 20
	depthLengthCap    = 60
	depthMarkerPoints = 10
	depthMarkerCap    = 40

	// Time efficiency: full marks at or under half the allotted time, zero at
	// or beyond the limit, linear in between.
	timeFullMarksRatio = 0.5

	feedbackPositiveThreshold = 75
)

var (
	structureMarkers = []string{
		"first", "second", "then", "because", "therefore",
		"however", "for example", "in conclusion",
	}

	numberPattern   = regexp.MustCompile(`\b\d+(\.\d+)?%?\b`)
	acronymPattern  = regexp.MustCompile(`\b[A-Z]{2,}\b`)
	funcCallPattern = regexp.MustCompile(`\b\w+\(\)`)

	metricHints = map[string]string{
		"accuracy":        "cover the core concepts the question asks about",
		"clarity":         "structure your answer with clear, ordered points",
		"depth":           "elaborate with concrete examples, numbers or named technologies",
		"relevance":       "address the question directly using its key terms",
		"time efficiency": "aim to answer well within the allotted time",
	}
)

// Score is the result of evaluating one answer against the rubric. Each
// sub-score is in [0,100]; Overall is their simple mean rounded to the
// nearest integer. Immutable once produced.
type Score struct {
	Accuracy       float64 `json:"accuracy"`
	Clarity        float64 `json:"clarity"`
	Depth          float64 `json:"depth"`
	Relevance      float64 `json:"relevance"`
	TimeEfficiency float64 `json:"time_efficiency"`
	Overall        int     `json:"overall"`
	Feedback       string  `json:"feedback"`
}

// ScoringEngine evaluates answers deterministically from matched keywords,
// answer length and timing. No hidden state, no external inference.
type ScoringEngine struct{}

func NewScoringEngine() *ScoringEngine {
	return &ScoringEngine{}
}

// ScoreAnswer scores one (question, answer, time taken) triple. An empty or
// whitespace-only answer (including timeouts) short-circuits to an all-zero
// score before any keyword analysis.
func (s *ScoringEngine) ScoreAnswer(question models.Question, answer string, timeTaken int) Score {
	if strings.TrimSpace(answer) == "" {
		return Score{Feedback: "No answer was provided."}
	}

	answerLower := strings.ToLower(answer)
	wordCount := len(strings.Fields(answer))

	relevance := s.scoreRelevance(question.ExpectedKeywords, answerLower)
	accuracy := s.scoreAccuracy(question.ExpectedKeywords, question.CriticalTerms, answerLower)
	clarity := s.scoreClarity(answerLower, wordCount)
	depth := s.scoreDepth(answer, answerLower, wordCount)
	timeEfficiency := s.scoreTimeEfficiency(timeTaken, question.MaxTimeSeconds)

	overall := int(math.Round((accuracy + clarity + depth + relevance + timeEfficiency) / 5))

	score := Score{
		Accuracy:       round2(accuracy),
		Clarity:        round2(clarity),
		Depth:          round2(depth),
		Relevance:      round2(relevance),
		TimeEfficiency: round2(timeEfficiency),
		Overall:        overall,
	}
	score.Feedback = s.buildFeedback(score)
	return score
}

// scoreRelevance is the proportion of expected keywords found in the answer,
// scaled to [0,100]. Matching is case-insensitive substring.
func (s *ScoringEngine) scoreRelevance(keywords []string, answerLower string) float64 {
	if len(keywords) == 0 {
		return 0
	}
	matched := countMatches(keywords, answerLower)
	return float64(matched) / float64(len(keywords)) * 100
}

// scoreAccuracy blends keyword-match density with critical-term coverage. Any
// missing critical term caps the score at accuracyMissingCritCap.
func (s *ScoringEngine) scoreAccuracy(keywords, critical []string, answerLower string) float64 {
	var density float64
	if len(keywords) > 0 {
		density = float64(countMatches(keywords, answerLower)) / float64(len(keywords)) * 100
	}

	if len(critical) == 0 {
		return clamp(density, 0, 100)
	}

	matchedCritical := countMatches(critical, answerLower)
	criticalScore := float64(matchedCritical) / float64(len(critical)) * 100
	accuracy := density*accuracyDensityWeight + criticalScore*accuracyCriticalWeight

	if matchedCritical < len(critical) {
		accuracy = math.Min(accuracy, accuracyMissingCritCap)
	}
	return clamp(accuracy, 0, 100)
}

// scoreClarity rewards answer length up to a point plus structure signals.
// Too-short answers are penalized hard; long answers with no structure
// markers are treated as rambling.
func (s *ScoringEngine) scoreClarity(answerLower string, wordCount int) float64 {
	if wordCount < clarityMinWords {
		return math.Min(float64(wordCount*3), clarityShortCap)
	}

	lengthScore := math.Min(float64(wordCount*2), 100)
	clarity := lengthScore * 0.6
	hasStructure := false
	for _, marker := range structureMarkers {
		if strings.Contains(answerLower, marker) {
			hasStructure = true
			break
		}
	}
	if hasStructure {
		clarity += clarityStructureBonus
	} else if wordCount > clarityRamblingWords {
		clarity = math.Min(clarity, clarityRamblingCap)
	}
	return clamp(clarity, 0, 100)
}

// scoreDepth rewards elaboration: length beyond a minimum threshold earns at
// most depthLengthCap, and each elaboration signal (numbers, acronyms,
// function references, worked examples) earns depthMarkerPoints up to
// depthMarkerCap.
func (s *ScoringEngine) scoreDepth(answer, answerLower string, wordCount int) float64 {
	var lengthScore float64
	if wordCount > depthMinWords {
		lengthScore = math.Min(float64(wordCount-depthMinWords), depthLengthCap)
	}

	markers := 0
	markers += len(numberPattern.FindAllString(answer, -1))
	markers += len(acronymPattern.FindAllString(answer, -1))
	markers += len(funcCallPattern.FindAllString(answer, -1))
	if strings.Contains(answerLower, "for example") || strings.Contains(answerLower, "for instance") {
		markers++
	}
	markerScore := math.Min(float64(markers*depthMarkerPoints), depthMarkerCap)

	return clamp(lengthScore+markerScore, 0, 100)
}

// scoreTimeEfficiency decreases monotonically with the fraction of allotted
// time used: 100 at or under half the limit, 0 at or beyond the limit.
func (s *ScoringEngine) scoreTimeEfficiency(timeTaken, maxTime int) float64 {
	if maxTime <= 0 {
		return 0
	}
	ratio := float64(timeTaken) / float64(maxTime)
	if ratio <= timeFullMarksRatio {
		return 100
	}
	if ratio >= 1 {
		return 0
	}
	return (1 - ratio) / (1 - timeFullMarksRatio) * 100
}

// buildFeedback names the lowest one or two sub-scores with an improvement
// hint, or a positive-reinforcement line when every metric is strong.
func (s *ScoringEngine) buildFeedback(score Score) string {
	metrics := []struct {
		name  string
		value float64
	}{
		{"accuracy", score.Accuracy},
		{"clarity", score.Clarity},
		{"depth", score.Depth},
		{"relevance", score.Relevance},
		{"time efficiency", score.TimeEfficiency},
	}

	allStrong := true
	for _, m := range metrics {
		if m.value < feedbackPositiveThreshold {
			allStrong = false
			break
		}
	}
	if allStrong {
		return "Strong answer across the board. Keep up this level of detail and structure."
	}

	sort.SliceStable(metrics, func(i, j int) bool {
		return metrics[i].value < metrics[j].value
	})

	lowest := metrics[0]
	second := metrics[1]
	if second.value >= feedbackPositiveThreshold {
		return fmt.Sprintf("Work on %s: %s.", lowest.name, metricHints[lowest.name])
	}
	return fmt.Sprintf("Work on %s and %s: %s.", lowest.name, second.name, metricHints[lowest.name])
}

func countMatches(terms []string, answerLower string) int {
	matched := 0
	for _, term := range terms {
		if strings.Contains(answerLower, strings.ToLower(term)) {
			matched++
		}
	}
	return matched
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
