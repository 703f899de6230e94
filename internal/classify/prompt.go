package classify

import "safespot/internal/llmtool"

// promptSpec is the fixed template for the classification call. The
// photo travels as an inline image part next to the rendered text.
var promptSpec = llmtool.ApplyPresets(llmtool.StructuredPromptSpec{
	Purpose: "Classify a reported incident from its description and the attached photo.",
	Background: "Reports come from a community incident map. Classification routes " +
		"each report to the appropriate authorities and flags sensitive reports " +
		"for human review.",
	OutputFields: []llmtool.PromptField{
		{Name: "category", Type: "string", Required: true,
			Description: "The category of the incident, e.g. Vandalism, Theft, Accident, Assault, Other."},
		{Name: "severity", Type: "string", Required: true,
			Description: "The severity of the incident, e.g. Low, Medium, High, Critical."},
		{Name: "requiresHumanReview", Type: "boolean", Required: true,
			Description: "Whether the incident requires human review due to its sensitive nature or potential escalation."},
	},
	Rules: []string{
		"Base the classification on both the description and the photo.",
		"Flag for human review anything involving people in danger, violence, or potential escalation.",
	},
	OutputFormat: "A single JSON object with exactly the fields listed under OUTPUT.",
}, llmtool.PresetStrictJSON(), llmtool.PresetCautious())
