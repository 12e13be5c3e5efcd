package catalog

import "sort"

// BodySystem groups the selectable symptoms presented to the intake form,
// organized by body system. These lists feed the /symptoms endpoint; the
// scoring rules never read them.
type BodySystem struct {
	Name     string   `json:"name"`
	Symptoms []string `json:"symptoms"`
}

// BodySystems returns the symptom picker groups in display order.
func BodySystems() []BodySystem {
	return bodySystems
}

// CommonSymptoms returns a flat, sorted, de-duplicated list of every
// selectable symptom.
func CommonSymptoms() []string {
	seen := make(map[string]struct{})
	var all []string
	for _, system := range bodySystems {
		for _, symptom := range system.Symptoms {
			if _, ok := seen[symptom]; ok {
				continue
			}
			seen[symptom] = struct{}{}
			all = append(all, symptom)
		}
	}
	sort.Strings(all)
	return all
}

var bodySystems = []BodySystem{
	{Name: "Respiratory", Symptoms: []string{
		"Cough", "Shortness of breath", "Sore throat", "Runny nose", "Congestion",
		"Wheezing", "Chest tightness", "Rapid breathing", "Loss of taste or smell",
	}},
	{Name: "Cardiovascular", Symptoms: []string{
		"Chest pain", "Heart palpitations", "High blood pressure", "Irregular heartbeat",
		"Shortness of breath during activity", "Swelling in legs or ankles",
		"Dizziness when standing", "Cold extremities",
	}},
	{Name: "Digestive", Symptoms: []string{
		"Nausea", "Vomiting", "Diarrhea", "Constipation", "Abdominal pain", "Bloating",
		"Loss of appetite", "Difficulty swallowing", "Heartburn", "Blood in stool",
	}},
	{Name: "Nervous", Symptoms: []string{
		"Headache", "Dizziness", "Confusion", "Numbness", "Tingling sensation",
		"Tremors", "Memory problems", "Difficulty speaking", "Seizures", "Blurred vision",
	}},
	{Name: "Musculoskeletal", Symptoms: []string{
		"Muscle pain", "Joint pain", "Back pain", "Stiffness", "Swelling in joints",
		"Limited range of motion", "Muscle weakness", "Muscle cramps", "Bone pain",
	}},
	{Name: "Skin", Symptoms: []string{
		"Rash", "Itching", "Hives", "Dry skin", "Blisters", "Discoloration",
		"Abnormal growths", "Excessive sweating", "Easy bruising",
	}},
	{Name: "General", Symptoms: []string{
		"Fever", "Fatigue", "Chills", "Sweating", "Weight loss", "Weight gain",
		"Night sweats", "General weakness", "Malaise",
	}},
	{Name: "Mental Health", Symptoms: []string{
		"Anxiety", "Depression", "Insomnia", "Mood swings", "Irritability",
		"Excessive worry", "Panic attacks", "Changes in sleep patterns",
		"Difficulty concentrating",
	}},
}
