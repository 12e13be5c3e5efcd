package llm

import (
	"fmt"
	"strings"

	"github.com/symptom-triage-server/internal/domain"
)

// systemPrompt frames the model as a cautious medical information
// assistant. The wording keeps reminding the model that it is not a
// substitute for professional advice.
const systemPrompt = "You are a helpful medical advisor assistant that provides information " +
	"about symptoms and possible conditions. Always remind users that your analysis is not " +
	"a substitute for professional medical advice."

// conversationSystemPrompt frames the follow-up chat as supportive and
// non-diagnostic.
const conversationSystemPrompt = "You are a caring, supportive health assistant. Provide " +
	"general wellness information and reassurance. Never attempt a specific diagnosis."

// buildAnalysisPrompt renders the structured triage prompt. The requested
// JSON shape mirrors domain.AnalysisResult exactly so the response can be
// unmarshaled without a translation layer.
func buildAnalysisPrompt(req *domain.AnalysisRequest) string {
	var b strings.Builder

	b.WriteString("Act as a medical advisor. Based on the following information, provide an analysis:\n\n")
	b.WriteString("Patient Information:\n")
	fmt.Fprintf(&b, "- Age: %d\n", req.Age)
	fmt.Fprintf(&b, "- Gender: %s\n", req.Gender)
	fmt.Fprintf(&b, "- Symptoms: %s\n", strings.Join(req.Symptoms, ", "))
	fmt.Fprintf(&b, "- Duration: %s\n", req.Duration)
	fmt.Fprintf(&b, "- Severity: %s\n", req.Severity)
	fmt.Fprintf(&b, "- Additional Information: %s\n", req.AdditionalInfo)

	b.WriteString(`
Please analyze these symptoms and provide the following information in JSON format:

1. Possible conditions (list at least 3, at most 5, with brief descriptions)
2. Risk level (low, moderate, high)
3. Whether immediate medical attention is recommended (true/false)
4. General health advice related to these symptoms
5. Diet recommendations for each possible condition
6. Reliable medical sources to consult (at least 2)

Important: For each condition, provide:
- Name
- Brief description
- Common symptoms
- Diet recommendations specific to this condition

Your response should be structured as a valid JSON object with the following format:
{
    "possible_conditions": [
        {
            "name": "Condition name",
            "description": "Brief description",
            "common_symptoms": ["symptom1", "symptom2"],
            "diet_recommendations": ["recommendation1", "recommendation2"]
        }
    ],
    "risk_level": "low/moderate/high",
    "seek_medical_attention": true/false,
    "general_advice": "General health advice text",
    "medical_sources": ["Source 1", "Source 2"]
}

Include a clear disclaimer that this is not a medical diagnosis.
`)

	return b.String()
}

// buildConversationPrompt renders the opening message of a follow-up
// conversation about the user's symptoms.
func buildConversationPrompt(symptoms []string) string {
	return fmt.Sprintf("I'm experiencing the following symptoms: %s. "+
		"Can you provide me with some friendly advice and reassurance? "+
		"Keep your response conversational and supportive, like a caring nurse or doctor would. "+
		"Do not try to diagnose me specifically, but provide general information and wellness tips.",
		strings.Join(symptoms, ", "))
}
