package heuristic

import (
	"fmt"
	"strings"

	"github.com/doeshing/symcheck-go/internal/domain"
)

const (
	headingConditions = "POSSIBLE CONDITIONS (Educational Information Only)"
	headingEmergency  = "EMERGENCY INDICATORS - Seek Immediate Care"
	headingSteps      = "RECOMMENDED NEXT STEPS"
)

type detail struct {
	label string
	text  string
}

type condition struct {
	title   string
	details []detail
}

type section struct {
	heading string
	bullets []string
	prose   string
}

type report struct {
	conditionsHeading string
	conditions        []condition
	warningHeading    string
	warnings          []string
	steps             []string
	extras            []section
}

// Render returns the report body for a category. Output depends only on the category and
// the symptom text; unknown categories render the general report.
func Render(category domain.Category, query domain.SymptomQuery) string {
	r, ok := library[category]
	if !ok {
		r = library[domain.CategoryGeneral]
	}

	var b strings.Builder
	b.WriteString("CLINICAL ASSESSMENT\n\n")
	fmt.Fprintf(&b, "%s:\n", orDefault(r.conditionsHeading, headingConditions))
	for i, c := range r.conditions {
		fmt.Fprintf(&b, "\n%d. %s\n", i+1, c.title)
		for _, d := range c.details {
			fmt.Fprintf(&b, "   %s: %s\n", d.label, d.text)
		}
	}

	fmt.Fprintf(&b, "\n%s:\n", orDefault(r.warningHeading, headingEmergency))
	for _, w := range r.warnings {
		fmt.Fprintf(&b, "- %s\n", w)
	}

	fmt.Fprintf(&b, "\n%s:\n", headingSteps)
	for i, step := range r.steps {
		fmt.Fprintf(&b, "%d. %s\n", i+1, step)
	}

	for _, extra := range r.extras {
		fmt.Fprintf(&b, "\n%s:\n", extra.heading)
		if extra.prose != "" {
			b.WriteString(extra.prose + "\n")
		}
		for _, line := range extra.bullets {
			fmt.Fprintf(&b, "- %s\n", line)
		}
	}

	body := strings.TrimRight(b.String(), "\n")
	if category == domain.CategoryPain {
		body = strings.ReplaceAll(body, "{location}", painLocation(query.Symptoms))
	}
	return body
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

var library = map[domain.Category]report{
	domain.CategoryHeadache: {
		conditions: []condition{
			{"Tension-Type Headache (Most Common)", []detail{
				{"Description", "Often stress-related or due to muscle tension"},
				{"Characteristics", "Bilateral, pressing or tightening quality, mild to moderate intensity"},
				{"Common Triggers", "Stress, poor posture, eye strain, dehydration"},
				{"Management Considerations", "Rest, hydration, stress management, ergonomic improvements"},
			}},
			{"Migraine Headache", []detail{
				{"Description", "Neurological condition with recurrent episodes"},
				{"Characteristics", "Unilateral, pulsating quality, moderate to severe intensity"},
				{"Associated Features", "Nausea, sensitivity to light and sound, visual disturbances"},
				{"Triggers", "Hormonal changes, certain foods, sleep changes, stress"},
			}},
			{"Sinus Headache", []detail{
				{"Description", "Secondary to sinus inflammation or congestion"},
				{"Characteristics", "Facial pressure, worsens with bending forward"},
				{"Associated Features", "Nasal congestion, facial tenderness"},
				{"Location", "Forehead, cheeks, bridge of nose"},
			}},
		},
		warnings: []string{
			"Sudden, severe thunderclap headache",
			"Headache with fever, stiff neck, or rash",
			"Headache following head injury",
			"Severe headache with vision changes or confusion",
		},
		steps: []string{
			"Maintain adequate hydration and rest",
			"Apply cold or warm compress as preferred",
			"Practice stress management and relaxation techniques",
			"Track headache patterns and potential triggers",
			"Consult healthcare provider for frequent or severe headaches",
		},
	},
	domain.CategoryFever: {
		conditions: []condition{
			{"Viral Infection (Most Common)", []detail{
				{"Description", "Self-limiting illness caused by various viruses"},
				{"Characteristics", "Low to moderate fever, body aches, fatigue"},
				{"Duration", "Typically resolves within 3-7 days"},
				{"Management", "Supportive care with rest and increased fluid intake"},
			}},
			{"Bacterial Infection", []detail{
				{"Description", "Localized or systemic bacterial infection"},
				{"Characteristics", "Higher fever, may have specific localizing symptoms"},
				{"Common Sites", "Respiratory tract, urinary tract, skin, soft tissue"},
				{"Management", "May require antibiotic therapy after medical evaluation"},
			}},
			{"Inflammatory Response", []detail{
				{"Description", "Non-infectious cause of fever"},
				{"Characteristics", "May be chronic or recurrent"},
				{"Considerations", "Autoimmune conditions, medication reactions"},
				{"Evaluation", "Requires comprehensive medical assessment"},
			}},
		},
		warnings: []string{
			"Fever above 103°F (39.4°C)",
			"Difficulty breathing or chest pain",
			"Severe headache with neck stiffness",
			"Signs of dehydration (decreased urination, dizziness)",
			"Fever persisting more than 3 days without improvement",
		},
		steps: []string{
			"Ensure adequate rest and increase fluid intake",
			"Use appropriate fever reducers (acetaminophen, ibuprofen) as directed",
			"Monitor temperature regularly and document trends",
			"Observe for development of additional symptoms",
			"Contact healthcare provider for persistent or worsening fever",
		},
	},
	domain.CategoryRespiratory: {
		conditions: []condition{
			{"Upper Respiratory Tract Infection", []detail{
				{"Description", "Viral illness affecting nose, throat, and upper airways"},
				{"Characteristics", "Cough, sore throat, nasal congestion, mild fever"},
				{"Duration", "Typically improves within 7-10 days"},
				{"Management", "Supportive care with rest and symptomatic treatment"},
			}},
			{"Bacterial Throat Infection (Streptococcal Pharyngitis)", []detail{
				{"Description", "Bacterial infection requiring antibiotic treatment"},
				{"Characteristics", "Severe sore throat, difficulty swallowing, fever"},
				{"Physical Findings", "May have tonsillar exudate or enlarged lymph nodes"},
				{"Diagnosis", "Requires throat culture or rapid strep test for confirmation"},
			}},
			{"Allergic Rhinosinusitis", []detail{
				{"Description", "Inflammatory response to environmental allergens"},
				{"Characteristics", "Seasonal or environmental triggers, postnasal drip"},
				{"Associated Features", "Itchy eyes, nasal congestion, clear discharge"},
				{"Management", "Allergen avoidance and antihistamine therapy"},
			}},
		},
		warnings: []string{
			"Severe difficulty swallowing or breathing",
			"High fever with severe sore throat",
			"Persistent cough with blood production",
			"Signs of respiratory distress",
			"Symptoms persisting beyond 10 days without improvement",
		},
		steps: []string{
			"Maintain hydration with warm, soothing liquids",
			"Use throat lozenges or warm salt water gargles for comfort",
			"Consider humidification for dry environmental conditions",
			"Rest voice if experiencing throat discomfort",
			"Seek medical evaluation if bacterial infection is suspected",
		},
	},
	domain.CategoryChest: {
		conditions: []condition{
			{"Lower Respiratory Tract Infection", []detail{
				{"Description", "Infection affecting bronchi or lung tissue (bronchitis/pneumonia)"},
				{"Characteristics", "Cough with or without sputum, chest discomfort, fever"},
				{"Severity Indicators", "Shortness of breath, persistent high fever"},
				{"Evaluation", "May require chest imaging and medical assessment"},
			}},
			{"Reactive Airway Disease (Asthma)", []detail{
				{"Description", "Chronic inflammatory condition of the airways"},
				{"Characteristics", "Wheezing, chest tightness, cough, breathing difficulty"},
				{"Triggers", "Allergens, irritants, exercise, respiratory infections"},
				{"Management", "Bronchodilator therapy and trigger avoidance"},
			}},
			{"Anxiety-Related Symptoms", []detail{
				{"Description", "Physical manifestations of anxiety or panic response"},
				{"Characteristics", "Chest tightness, rapid breathing, palpitations"},
				{"Associated Features", "Sense of impending doom, sweating, trembling"},
				{"Management", "Relaxation techniques and stress management strategies"},
			}},
		},
		warnings: []string{
			"Severe difficulty breathing or respiratory distress",
			"Chest pain with associated shortness of breath",
			"Cyanosis (blue discoloration of lips or fingernails)",
			"Sudden onset of severe symptoms",
			"Inability to speak in complete sentences due to breathlessness",
		},
		steps: []string{
			"Maintain upright position and remain calm",
			"Use prescribed rescue inhaler if available for known asthma",
			"Identify and avoid known triggers or irritants",
			"Practice controlled, slow deep breathing techniques",
			"Contact healthcare provider immediately for urgent evaluation",
		},
	},
	domain.CategoryAbdominal: {
		conditions: []condition{
			{"Acute Gastroenteritis", []detail{
				{"Description", "Inflammatory condition of the gastrointestinal tract"},
				{"Characteristics", "Nausea, vomiting, diarrhea, abdominal cramping"},
				{"Common Causes", "Viral pathogens, bacterial contamination, food intolerance"},
				{"Duration", "Typically self-limiting within 24-48 hours"},
			}},
			{"Foodborne Illness", []detail{
				{"Description", "Illness resulting from consumption of contaminated food or water"},
				{"Characteristics", "Rapid onset following ingestion, may include fever"},
				{"Timeline", "Symptoms typically develop within hours of exposure"},
				{"Severity", "May range from mild discomfort to severe dehydration"},
			}},
			{"Functional Gastrointestinal Disorders", []detail{
				{"Description", "Chronic conditions affecting digestive function"},
				{"Examples", "Irritable bowel syndrome, gastroesophageal reflux disease"},
				{"Characteristics", "May be stress-related or triggered by specific foods"},
				{"Management", "Dietary modifications and stress management strategies"},
			}},
		},
		warnings: []string{
			"Severe, persistent abdominal pain",
			"Signs of dehydration (dizziness, decreased urination, dry mucous membranes)",
			"Blood in vomitus or stool",
			"High fever accompanying abdominal symptoms",
			"Inability to retain fluids for more than 24 hours",
		},
		steps: []string{
			"Maintain hydration with small, frequent fluid intake",
			"Consider bland diet (bananas, rice, applesauce, toast) when tolerated",
			"Avoid dairy products, fatty foods, and spicy preparations",
			"Allow gastrointestinal rest by avoiding solid foods initially",
			"Monitor symptom progression and seek medical care if deteriorating",
		},
	},
	domain.CategoryFatigue: {
		conditions: []condition{
			{"Sleep Insufficiency or Sleep Disorders", []detail{
				{"Description", "Most common cause of persistent fatigue"},
				{"Characteristics", "Inadequate sleep duration or poor sleep quality"},
				{"Contributing Factors", "Irregular sleep schedule, sleep apnea, insomnia"},
				{"Management", "Sleep hygiene optimization and sleep disorder evaluation"},
			}},
			{"Post-Viral Syndrome", []detail{
				{"Description", "Fatigue following recent viral illness"},
				{"Characteristics", "Persistent tiredness after acute infection resolution"},
				{"Pathophysiology", "Immune system recovery and cellular repair processes"},
				{"Duration", "Typically improves gradually over several weeks"},
			}},
			{"Psychological Stress or Mood Disorders", []detail{
				{"Description", "Mental health conditions manifesting with physical fatigue"},
				{"Examples", "Depression, anxiety disorders, chronic stress"},
				{"Characteristics", "Fatigue may be accompanied by mood changes"},
				{"Management", "Stress reduction techniques and mental health support"},
			}},
		},
		warningHeading: "EMERGENCY INDICATORS - Seek Medical Evaluation",
		warnings: []string{
			"Sudden onset of severe fatigue without identifiable cause",
			"Fatigue persisting longer than 2 weeks without improvement",
			"Fatigue accompanied by unexplained weight loss",
			"Fatigue with persistent fever or other concerning symptoms",
			"Significant impact on daily functioning and quality of life",
		},
		steps: []string{
			"Establish consistent sleep schedule with 7-9 hours nightly",
			"Maintain regular bedtime and wake-up times",
			"Consume balanced, nutritious meals at regular intervals",
			"Ensure adequate hydration while limiting excessive caffeine intake",
			"Implement stress management and relaxation techniques",
			"Consult healthcare provider if fatigue persists or worsens",
		},
	},
	domain.CategoryPain: {
		conditions: []condition{
			{"Musculoskeletal Strain (Most Common for {location} pain)", []detail{
				{"Description", "Soft tissue injury from overuse or mechanical stress"},
				{"Characteristics", "Localized pain, may worsen with movement"},
				{"Common Causes", "Poor posture, sudden movement, repetitive activities"},
				{"Management", "Rest, activity modification, conservative treatment"},
			}},
			{"Inflammatory Musculoskeletal Condition", []detail{
				{"Description", "Inflammatory process affecting joints, muscles, or connective tissue"},
				{"Examples", "Arthritis, tendinitis, bursitis"},
				{"Characteristics", "May be persistent, affect multiple areas"},
				{"Management", "Anti-inflammatory approaches and activity modification"},
			}},
			{"Neuropathic Pain", []detail{
				{"Description", "Pain originating from nerve tissue dysfunction"},
				{"Characteristics", "Sharp, burning, electric-like sensations"},
				{"Associated Features", "Numbness, tingling, altered sensation"},
				{"Evaluation", "May require neurological assessment"},
			}},
		},
		warnings: []string{
			"Sudden severe pain following traumatic injury",
			"Pain accompanied by numbness, weakness, or paralysis",
			"Pain with complete loss of function or mobility",
			"Pain with fever or signs of systemic infection",
			"Severe pain unresponsive to appropriate analgesic medication",
		},
		steps: []string{
			"Allow affected area to rest and avoid aggravating activities",
			"Apply cold therapy for acute injuries, heat for muscle tension",
			"Consider appropriate over-the-counter analgesics as directed",
			"Perform gentle range-of-motion exercises as tolerated",
			"Avoid activities that exacerbate pain symptoms",
			"Seek medical evaluation if pain persists or progressively worsens",
		},
	},
	domain.CategoryGrowth: {
		conditionsHeading: "UNDERSTANDING HEALTH CONCERNS (Educational Information Only)",
		conditions: []condition{
			{"Health Anxiety and Symptom Awareness", []detail{
				{"Description", "Common psychological response to physical symptoms"},
				{"Characteristics", "Heightened awareness of bodily sensations"},
				{"Important Note", "Most symptoms have benign, non-serious explanations"},
				{"Management", "Professional evaluation provides appropriate reassurance"},
			}},
			{"Need for Comprehensive Medical Evaluation", []detail{
				{"Description", "Systematic assessment by qualified healthcare professionals"},
				{"Components", "Clinical history, physical examination, appropriate testing"},
				{"Importance", "Only medical professionals can provide accurate diagnosis"},
				{"Process", "May require multiple assessments and diagnostic procedures"},
			}},
			{"Preventive Healthcare and Early Detection", []detail{
				{"Description", "Regular monitoring and screening programs"},
				{"Benefits", "Early identification of health issues when most treatable"},
				{"Components", "Age-appropriate screenings, family history assessment"},
				{"Approach", "Proactive rather than reactive healthcare management"},
			}},
		},
		warningHeading: "IMPORTANT - Immediate Medical Consultation Recommended",
		warnings: []string{
			"Any persistent, unexplained symptoms lasting longer than expected",
			"Changes in pattern or character of existing symptoms",
			"New masses, lumps, or growths detected during self-examination",
			"Unexplained weight loss or gain over short time periods",
			"Persistent fatigue or pain without identifiable cause",
			"Any symptoms causing significant concern or anxiety",
		},
		steps: []string{
			"Schedule prompt appointment with primary healthcare provider",
			"Document comprehensive symptom history including duration and severity",
			"Prepare detailed list of questions and specific concerns",
			"Compile relevant family medical history information",
			"Complete all recommended diagnostic tests and specialist referrals",
			"Maintain regular follow-up appointments as advised",
		},
		extras: []section{{
			heading: "IMPORTANT PERSPECTIVE",
			prose: "The vast majority of health concerns have benign explanations. However, professional medical " +
				"evaluation is always the appropriate course of action for persistent symptoms and provides the most " +
				"reliable path to accurate diagnosis and peace of mind.",
		}},
	},
	domain.CategoryAnxiety: {
		conditions: []condition{
			{"Acute Stress Response", []detail{
				{"Description", "Normal physiological response to immediate stressors"},
				{"Characteristics", "Temporary anxiety related to specific situations"},
				{"Duration", "Usually resolves when stressor is removed or managed"},
				{"Management", "Stress reduction techniques and coping strategies"},
			}},
			{"Anxiety Disorders", []detail{
				{"Description", "Persistent, excessive worry affecting daily functioning"},
				{"Types", "Generalized anxiety disorder, panic disorder, specific phobias"},
				{"Characteristics", "Symptoms persist beyond normal stress responses"},
				{"Management", "Professional mental health evaluation and treatment"},
			}},
			{"Somatic Manifestations of Anxiety", []detail{
				{"Description", "Physical symptoms resulting from anxiety response"},
				{"Examples", "Rapid heartbeat, sweating, trembling, breathing changes"},
				{"Important Note", "Can mimic symptoms of other medical conditions"},
				{"Evaluation", "Medical assessment may be needed to rule out organic causes"},
			}},
		},
		warningHeading: "EMERGENCY INDICATORS - Seek Immediate Help",
		warnings: []string{
			"Thoughts of self-harm or suicide",
			"Panic attacks accompanied by chest pain or severe breathing difficulty",
			"Complete inability to function in essential daily activities",
			"Use of substances to cope with anxiety symptoms",
			"Anxiety accompanied by severe depression or mood changes",
		},
		steps: []string{
			"Practice controlled breathing and progressive relaxation techniques",
			"Maintain regular physical exercise and consistent sleep schedule",
			"Limit caffeine intake and avoid alcohol as coping mechanism",
			"Engage trusted friends, family, or support network",
			"Explore evidence-based stress management strategies",
			"Consult mental health professional or primary care provider for evaluation",
		},
		extras: []section{{
			heading: "MENTAL HEALTH RESOURCES",
			bullets: []string{
				"National Suicide Prevention Lifeline: 988",
				"Crisis Text Line: Text HOME to 741741",
				"Professional mental health services and online resources available",
			},
		}},
	},
	domain.CategoryGeneral: {
		conditions: []condition{
			{"Common Medical Condition", []detail{
				{"Description", "Many symptoms have benign, treatable explanations"},
				{"Characteristics", "Often represents body's normal response to various factors"},
				{"Management", "Frequently improves with appropriate basic care and time"},
				{"Prognosis", "Generally favorable with proper attention"},
			}},
			{"Lifestyle or Environmental Factors", []detail{
				{"Description", "Symptoms related to daily habits or environmental exposures"},
				{"Examples", "Stress, dietary factors, sleep patterns, environmental irritants"},
				{"Assessment", "Consider recent changes in routine or circumstances"},
				{"Management", "Often responsive to targeted lifestyle modifications"},
			}},
			{"Need for Professional Medical Evaluation", []detail{
				{"Description", "Some symptoms require clinical assessment for accurate diagnosis"},
				{"Importance", "Healthcare providers can perform appropriate diagnostic testing"},
				{"Timing", "Should not delay care for concerning or persistent symptoms"},
				{"Benefits", "Professional evaluation provides definitive assessment and treatment"},
			}},
		},
		warningHeading: "GENERAL WARNING SIGNS - Seek Medical Care",
		warnings: []string{
			"Sudden, severe onset of symptoms without clear cause",
			"Symptoms that progressively worsen over time",
			"Significant interference with daily activities or quality of life",
			"Persistent symptoms lasting more than reasonable expected duration",
			"Any symptoms causing substantial concern or anxiety",
		},
		steps: []string{
			"Monitor symptom progression and document changes over time",
			"Maintain good general health practices and self-care",
			"Ensure adequate hydration and restorative sleep",
			"Consider potential triggers, causes, or precipitating factors",
			"Document symptoms thoroughly for healthcare provider consultation",
			"Schedule appropriate medical evaluation for proper clinical assessment",
		},
		extras: []section{{
			heading: "GENERAL HEALTH MAINTENANCE",
			bullets: []string{
				"Establish and maintain regular, consistent sleep schedule",
				"Consume balanced, nutritious meals at regular intervals",
				"Engage in appropriate physical activity as tolerated",
				"Implement effective stress management strategies",
				"Identify and avoid known triggers when possible",
			},
		}},
	},
}
