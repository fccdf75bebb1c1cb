package httpapi

import (
	"encoding/json"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/doeshing/symcheck-go/internal/domain"
)

type analyzeRequest struct {
	Symptoms json.RawMessage `json:"symptoms"`
	Age      domain.Field    `json:"age"`
	Gender   domain.Field    `json:"gender"`
	Duration domain.Field    `json:"duration"`
	Severity domain.Field    `json:"severity"`
}

// toQuery checks the symptom text and returns the trimmed query. Metadata fields
// are passed through unvalidated.
func (req analyzeRequest) toQuery() (domain.SymptomQuery, *domain.ValidationError) {
	var symptoms string
	if len(req.Symptoms) == 0 || json.Unmarshal(req.Symptoms, &symptoms) != nil || strings.TrimSpace(symptoms) == "" {
		return domain.SymptomQuery{}, &domain.ValidationError{
			Code:    "Invalid input",
			Message: "Symptoms description is required and must be a non-empty string",
		}
	}

	symptoms = strings.TrimSpace(symptoms)
	switch n := utf8.RuneCountInString(symptoms); {
	case n > domain.MaxSymptomsLength:
		return domain.SymptomQuery{}, &domain.ValidationError{
			Code:    "Input too long",
			Message: "Symptoms description must be less than 1000 characters",
		}
	case n < domain.MinSymptomsLength:
		return domain.SymptomQuery{}, &domain.ValidationError{
			Code:    "Input too short",
			Message: "Please provide a more detailed description of your symptoms",
		}
	}

	return domain.SymptomQuery{
		Symptoms: symptoms,
		Age:      req.Age,
		Gender:   req.Gender,
		Duration: req.Duration,
		Severity: req.Severity,
	}, nil
}

// pageParams parses limit and offset. Absent values take the defaults; range
// clamping is left to the store.
func pageParams(limitRaw, offsetRaw string) (int, int, *domain.ValidationError) {
	limit, offset := domain.DefaultHistoryLimit, 0
	if limitRaw != "" {
		v, err := strconv.Atoi(strings.TrimSpace(limitRaw))
		if err != nil {
			return 0, 0, &domain.ValidationError{Code: "Invalid limit", Message: "Limit must be a number between 1 and 100"}
		}
		limit = v
	}
	if offsetRaw != "" {
		v, err := strconv.Atoi(strings.TrimSpace(offsetRaw))
		if err != nil {
			return 0, 0, &domain.ValidationError{Code: "Invalid offset", Message: "Offset must be a non-negative number"}
		}
		offset = v
	}
	return limit, offset, nil
}
