// Package heuristic is the rule-based analysis strategy: a keyword classifier,
// a content library of canned reports and the analyzer that combines them.
// It has no network or disk dependencies and never fails.
package heuristic

import (
	"strings"

	"github.com/doeshing/symcheck-go/internal/domain"
)

type keywordGroup struct {
	category domain.Category
	keywords []string
}

// The order is a behavioral contract: the first group with any matching keyword wins,
// so "headache and joint pain" is a headache and "tired with stomach pain" is abdominal.
var keywordGroups = []keywordGroup{
	{domain.CategoryHeadache, []string{"headache", "head"}},
	{domain.CategoryFever, []string{"fever", "temperature"}},
	{domain.CategoryRespiratory, []string{"cough", "throat"}},
	{domain.CategoryChest, []string{"chest", "breathing", "breath"}},
	{domain.CategoryAbdominal, []string{"stomach", "abdominal", "nausea", "vomit"}},
	{domain.CategoryFatigue, []string{"fatigue", "tired", "exhausted"}},
	{domain.CategoryPain, []string{"pain", "ache", "hurt"}},
	{domain.CategoryGrowth, []string{"cancer", "tumor", "mass"}},
	{domain.CategoryAnxiety, []string{"anxiety", "panic", "stress"}},
}

// Classify maps symptom text to a category. Matching is case-insensitive substring
// matching; text that matches no group is CategoryGeneral.
func Classify(symptoms string) domain.Category {
	text := strings.ToLower(symptoms)
	for _, group := range keywordGroups {
		for _, keyword := range group.keywords {
			if strings.Contains(text, keyword) {
				return group.category
			}
		}
	}
	return domain.CategoryGeneral
}

// Categories lists every category in precedence order, ending with CategoryGeneral.
func Categories() []domain.Category {
	out := make([]domain.Category, 0, len(keywordGroups)+1)
	for _, group := range keywordGroups {
		out = append(out, group.category)
	}
	return append(out, domain.CategoryGeneral)
}

// painLocation picks the body area named in the pain report.
func painLocation(symptoms string) string {
	text := strings.ToLower(symptoms)
	switch {
	case strings.Contains(text, "back"):
		return "back"
	case strings.Contains(text, "joint"):
		return "joint"
	default:
		return "general"
	}
}
