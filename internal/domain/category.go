package domain

// Category is the symptom group chosen by the keyword classifier.
type Category string

const (
	CategoryHeadache    Category = "headache"
	CategoryFever       Category = "fever"
	CategoryRespiratory Category = "cough-throat"
	CategoryChest       Category = "chest-breathing"
	CategoryAbdominal   Category = "abdominal"
	CategoryFatigue     Category = "fatigue"
	CategoryPain        Category = "pain"
	CategoryGrowth      Category = "cancer-concern"
	CategoryAnxiety     Category = "anxiety"
	CategoryGeneral     Category = "general"
)
