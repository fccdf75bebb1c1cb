package ai

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/doeshing/symcheck-go/internal/domain"
)

const systemPrompt = "You are a medical education assistant. Provide helpful, accurate information while " +
	"emphasizing the importance of professional medical care. Always include appropriate disclaimers and safety warnings."

// analysisTemplate is shared by every backend so reports keep the same structure
// regardless of which provider produced them.
var analysisTemplate = template.Must(template.New("analysis").Parse(`You are a medical education assistant. Analyze the following symptoms and provide educational information about possible conditions and recommendations. Always emphasize that this is for educational purposes only and professional medical advice should be sought.

Patient Information:
- Symptoms: {{.Symptoms}}
- Age: {{.Age}}
- Gender: {{.Gender}}
- Duration: {{.Duration}}
- Severity: {{.Severity}}

Please provide a structured, professional clinical assessment in the following format:

CLINICAL ASSESSMENT

SYMPTOM ANALYSIS
Brief overview of the reported symptoms.

POSSIBLE CONDITIONS (Educational Information Only):
{{range .Slots}}
{{.}}
   Description: Brief medical description
   Characteristics: Key features and presentation
   Contributing Factors: Common causes or risk factors
   Management: General approach to treatment
{{end}}
EMERGENCY INDICATORS - Seek Immediate Care:
List urgent warning signs related to these symptoms

RECOMMENDED NEXT STEPS:
1. Immediate self-care actions
2. Lifestyle recommendations
3. When to contact healthcare provider
4. Follow-up considerations

Remember to:
- Use professional medical terminology appropriately
- Be specific to the symptoms and demographics provided
- Emphasize educational nature and need for professional consultation
- Avoid using asterisks, emojis, or informal symbols
- Use clean, clinical formatting
- Include appropriate urgency levels`))

type promptData struct {
	Symptoms string
	Age      string
	Gender   string
	Duration string
	Severity string
	Slots    []string
}

func buildPromptData(query domain.SymptomQuery) promptData {
	return promptData{
		Symptoms: strings.TrimSpace(query.Symptoms),
		Age:      query.Age.OrDefault(),
		Gender:   query.Gender.OrDefault(),
		Duration: query.Duration.OrDefault(),
		Severity: query.Severity.OrDefault(),
		Slots: []string{
			"1. [Most Likely Condition Name]",
			"2. [Second Possibility]",
			"3. [Third Possibility if relevant]",
		},
	}
}

// renderPrompt builds the user prompt for a query. Missing metadata reads "Not specified".
func renderPrompt(query domain.SymptomQuery) (string, error) {
	var buf bytes.Buffer
	if err := analysisTemplate.Execute(&buf, buildPromptData(query)); err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return buf.String(), nil
}
