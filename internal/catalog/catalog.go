// Package catalog holds the static reference data the triage service scores
// against: the condition catalog, the body-system category tables used by the
// advice selector, and the citation source pool. The data is built once at
// startup and injected into consumers; nothing here is mutated after Default
// returns.
package catalog

import "github.com/symptom-triage-server/internal/domain"

// Category maps a body-system name to the representative symptoms used by
// the advice selector. The representative lists are deliberately smaller
// than the condition catalog's symptom sets.
type Category struct {
	Name     string
	Symptoms []string
}

// Catalog is the immutable reference data set for one service instance.
type Catalog struct {
	conditions []domain.ConditionEntry
	sources    []string
	categories []Category
	advice     map[string]string
}

// GeneralCategory is the advice fallback when no body-system category
// matches any reported symptom.
const GeneralCategory = "general"

// Disclaimer is appended to every advice paragraph the rule-based analyzer
// emits.
const Disclaimer = "DISCLAIMER: This analysis is not a medical diagnosis. " +
	"It's based on a rule-based system using common symptom patterns."

// Default returns the built-in catalog.
func Default() *Catalog {
	return &Catalog{
		conditions: conditionEntries,
		sources:    medicalSources,
		categories: systemCategories,
		advice:     generalAdvice,
	}
}

// Conditions returns the catalog entries in declaration order. Candidate
// ranking relies on this order as the tie-break for equal match scores, so
// it is part of the catalog's contract. Callers must treat the returned
// slice as read-only.
func (c *Catalog) Conditions() []domain.ConditionEntry {
	return c.conditions
}

// Sources returns the citation source pool.
func (c *Catalog) Sources() []string {
	return c.sources
}

// Categories returns the body-system categories in declaration order. The
// advice selector breaks count ties by this order.
func (c *Catalog) Categories() []Category {
	return c.categories
}

// Advice returns the canned advice paragraph for a category, falling back
// to the general paragraph when no category-specific text exists.
func (c *Catalog) Advice(category string) string {
	if text, ok := c.advice[category]; ok {
		return text
	}
	return c.advice[GeneralCategory]
}

var conditionEntries = []domain.ConditionEntry{
	{
		Name:           "Common Cold",
		Description:    "A viral infection of the upper respiratory tract",
		CommonSymptoms: []string{"Cough", "Sore throat", "Runny nose", "Congestion", "Sneezing", "Fever"},
		DietRecommendations: []string{
			"Stay hydrated with water, herbal teas, and broths",
			"Consume vitamin C rich foods like citrus fruits",
			"Eat honey for sore throat (not for children under 1)",
			"Consider warm soups like chicken soup",
		},
		RiskLevel:            domain.RiskLow,
		SeekMedicalAttention: false,
	},
	{
		Name:           "Influenza (Flu)",
		Description:    "A contagious respiratory illness caused by influenza viruses",
		CommonSymptoms: []string{"Fever", "Cough", "Fatigue", "Body aches", "Headache", "Chills"},
		DietRecommendations: []string{
			"Increase fluid intake to prevent dehydration",
			"Easy-to-digest foods like toast and crackers",
			"Vitamin C and zinc-rich foods to boost immunity",
			"Avoid alcohol and caffeine",
		},
		RiskLevel:            domain.RiskModerate,
		SeekMedicalAttention: false,
	},
	{
		Name:           "COVID-19",
		Description:    "A respiratory illness caused by the SARS-CoV-2 virus",
		CommonSymptoms: []string{"Fever", "Cough", "Shortness of breath", "Fatigue", "Loss of taste or smell"},
		DietRecommendations: []string{
			"Stay well-hydrated with water and electrolyte drinks",
			"Consume protein-rich foods for recovery",
			"Vitamin D-rich foods may support immune function",
			"Zinc and vitamin C rich foods",
		},
		RiskLevel:            domain.RiskModerate,
		SeekMedicalAttention: true,
	},
	{
		Name:           "Migraine",
		Description:    "A neurological condition characterized by severe headaches",
		CommonSymptoms: []string{"Headache", "Nausea", "Sensitivity to light", "Blurred vision"},
		DietRecommendations: []string{
			"Avoid trigger foods (aged cheese, alcohol, chocolate)",
			"Stay hydrated throughout the day",
			"Magnesium-rich foods like nuts and seeds",
			"Regular, balanced meals to maintain blood sugar",
		},
		RiskLevel:            domain.RiskLow,
		SeekMedicalAttention: false,
	},
	{
		Name:           "Gastroenteritis",
		Description:    "Inflammation of the stomach and intestines",
		CommonSymptoms: []string{"Nausea", "Vomiting", "Diarrhea", "Abdominal pain", "Fever"},
		DietRecommendations: []string{
			"Follow the BRAT diet (bananas, rice, applesauce, toast)",
			"Clear liquids to prevent dehydration",
			"Avoid dairy, fatty, and spicy foods",
			"Gradually reintroduce normal diet as symptoms improve",
		},
		RiskLevel:            domain.RiskModerate,
		SeekMedicalAttention: false,
	},
	{
		Name:           "Hypertension",
		Description:    "High blood pressure that can lead to serious health problems",
		CommonSymptoms: []string{"Headache", "Dizziness", "Chest pain", "Shortness of breath"},
		DietRecommendations: []string{
			"Reduce sodium intake (less processed foods)",
			"DASH diet (fruits, vegetables, whole grains)",
			"Limit alcohol consumption",
			"Potassium-rich foods like bananas and potatoes",
		},
		RiskLevel:            domain.RiskModerate,
		SeekMedicalAttention: true,
	},
	{
		Name:           "Anxiety Disorder",
		Description:    "A mental health condition characterized by persistent worry and fear",
		CommonSymptoms: []string{"Anxiety", "Restlessness", "Rapid heartbeat", "Sweating", "Fatigue", "Insomnia"},
		DietRecommendations: []string{
			"Complex carbohydrates for serotonin production",
			"Omega-3 fatty acids (fish, walnuts, flaxseed)",
			"Limit caffeine and alcohol intake",
			"Magnesium-rich foods to support nervous system",
		},
		RiskLevel:            domain.RiskLow,
		SeekMedicalAttention: false,
	},
	{
		Name:           "Asthma",
		Description:    "A chronic condition affecting the airways in the lungs",
		CommonSymptoms: []string{"Shortness of breath", "Wheezing", "Chest tightness", "Cough"},
		DietRecommendations: []string{
			"Vitamin D-rich foods (fatty fish, egg yolks)",
			"Antioxidant-rich fruits and vegetables",
			"Omega-3 fatty acids to reduce inflammation",
			"Stay hydrated and maintain healthy weight",
		},
		RiskLevel:            domain.RiskModerate,
		SeekMedicalAttention: true,
	},
	{
		Name:           "Allergic Rhinitis",
		Description:    "Inflammation of the nasal passages caused by allergens",
		CommonSymptoms: []string{"Runny nose", "Sneezing", "Congestion", "Itchy eyes", "Fatigue"},
		DietRecommendations: []string{
			"Anti-inflammatory foods (fatty fish, berries)",
			"Vitamin C-rich foods to support immune system",
			"Local honey may help with pollen allergies",
			"Avoid known food allergens",
		},
		RiskLevel:            domain.RiskLow,
		SeekMedicalAttention: false,
	},
	{
		Name:           "Irritable Bowel Syndrome (IBS)",
		Description:    "A chronic disorder affecting the large intestine",
		CommonSymptoms: []string{"Abdominal pain", "Bloating", "Diarrhea", "Constipation"},
		DietRecommendations: []string{
			"Low-FODMAP diet (limit certain carbohydrates)",
			"Increase soluble fiber intake gradually",
			"Avoid trigger foods (caffeine, alcohol, fatty foods)",
			"Stay hydrated and eat smaller, regular meals",
		},
		RiskLevel:            domain.RiskLow,
		SeekMedicalAttention: false,
	},
	{
		Name:           "Type 2 Diabetes",
		Description:    "A chronic condition affecting how the body processes blood sugar",
		CommonSymptoms: []string{"Increased thirst", "Frequent urination", "Fatigue", "Blurred vision", "Weight loss"},
		DietRecommendations: []string{
			"Focus on low glycemic index foods",
			"Control carbohydrate intake and portion sizes",
			"Increase fiber intake through whole grains",
			"Limit sugary and processed foods",
		},
		RiskLevel:            domain.RiskHigh,
		SeekMedicalAttention: true,
	},
	{
		Name:           "Urinary Tract Infection (UTI)",
		Description:    "An infection affecting the urinary system",
		CommonSymptoms: []string{"Burning during urination", "Frequent urination", "Cloudy urine", "Pelvic pain"},
		DietRecommendations: []string{
			"Increase water intake significantly",
			"Cranberry juice or supplements",
			"Probiotic-rich foods like yogurt",
			"Vitamin C to make urine more acidic",
		},
		RiskLevel:            domain.RiskModerate,
		SeekMedicalAttention: true,
	},
	{
		Name:           "Anemia",
		Description:    "A condition where you lack enough healthy red blood cells",
		CommonSymptoms: []string{"Fatigue", "Weakness", "Pale skin", "Shortness of breath", "Dizziness"},
		DietRecommendations: []string{
			"Iron-rich foods (lean meats, beans, spinach)",
			"Vitamin C to enhance iron absorption",
			"Vitamin B12 sources (meat, eggs, dairy)",
			"Folate-rich foods (leafy greens, citrus)",
		},
		RiskLevel:            domain.RiskModerate,
		SeekMedicalAttention: true,
	},
}

var medicalSources = []string{
	"Mayo Clinic (https://www.mayoclinic.org)",
	"Centers for Disease Control and Prevention (https://www.cdc.gov)",
	"World Health Organization (https://www.who.int)",
	"National Institutes of Health (https://www.nih.gov)",
	"Cleveland Clinic (https://my.clevelandclinic.org)",
	"American Academy of Family Physicians (https://www.aafp.org)",
}

// systemCategories is ordered: when two categories tie on symptom count the
// earlier one wins. The order is part of the advice selector's documented
// behavior and must not be reshuffled casually.
var systemCategories = []Category{
	{Name: "respiratory", Symptoms: []string{"Cough", "Shortness of breath", "Sore throat", "Runny nose", "Congestion", "Wheezing"}},
	{Name: "digestive", Symptoms: []string{"Nausea", "Vomiting", "Diarrhea", "Constipation", "Abdominal pain", "Bloating"}},
	{Name: "cardiovascular", Symptoms: []string{"Chest pain", "Rapid heartbeat", "Shortness of breath", "Dizziness", "Fatigue"}},
	{Name: "neurological", Symptoms: []string{"Headache", "Dizziness", "Confusion", "Numbness", "Tingling sensation", "Blurred vision"}},
	{Name: "musculoskeletal", Symptoms: []string{"Muscle pain", "Joint pain", "Back pain", "Weakness"}},
	{Name: "mental_health", Symptoms: []string{"Anxiety", "Depression", "Insomnia", "Fatigue"}},
}

var generalAdvice = map[string]string{
	"respiratory":     "Ensure adequate rest, stay hydrated, and consider using a humidifier to ease breathing. Avoid smoking and secondhand smoke.",
	"digestive":       "Stay hydrated, eat small and frequent meals, and avoid foods that trigger your symptoms. Consider keeping a food diary to identify triggers.",
	"cardiovascular":  "Maintain a heart-healthy diet low in sodium and saturated fats. Regular physical activity and stress management are important.",
	"neurological":    "Ensure adequate rest, maintain regular sleep patterns, and practice stress-reduction techniques like meditation or deep breathing.",
	"musculoskeletal": "Apply ice to reduce inflammation and heat to relieve muscle tension. Gentle stretching and proper ergonomics can help prevent further issues.",
	"mental_health":   "Practice stress management techniques, maintain social connections, and establish regular sleep and exercise routines.",
	"general":         "Ensure adequate rest, stay hydrated, and maintain a balanced diet rich in fruits and vegetables. Regular moderate exercise can help boost your immune system.",
}
