package heuristic

import (
	"fmt"
	"strings"

	"github.com/doeshing/symcheck-go/internal/domain"
)

const demoFooter = "IMPORTANT: This is an INTELLIGENT DEMO analysis for educational purposes only. " +
	"For real medical advice, please consult with a qualified healthcare professional.\n\n" +
	"Note: To get AI-powered analysis, configure a provider and its API key " +
	"(for example AI_PROVIDER=gemini with GEMINI_API_KEY) in the service environment."

// Analyzer produces rule-based reports. The zero value is ready to use.
type Analyzer struct{}

// NewAnalyzer returns the rule-based analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Analyze classifies the symptoms and wraps the matching report in a header that
// echoes the patient information and a closing note. It never fails.
func (a *Analyzer) Analyze(query domain.SymptomQuery) domain.AnalysisResult {
	var b strings.Builder
	b.WriteString("EDUCATIONAL SYMPTOM ANALYSIS (Intelligent Demo Mode)\n\n")
	fmt.Fprintf(&b, "Based on your reported symptoms: \"%s\"\n\n", query.Symptoms)
	b.WriteString("Patient Information:\n")
	fmt.Fprintf(&b, "- Age: %s\n", query.Age.OrDefault())
	fmt.Fprintf(&b, "- Gender: %s\n", query.Gender.OrDefault())
	fmt.Fprintf(&b, "- Duration: %s\n", query.Duration.OrDefault())
	fmt.Fprintf(&b, "- Severity: %s\n\n", query.Severity.OrDefault())
	b.WriteString(Render(Classify(query.Symptoms), query))
	b.WriteString("\n\n")
	b.WriteString(demoFooter)

	return domain.AnalysisResult{
		Text:   b.String(),
		Source: domain.SourceDemo,
	}
}
