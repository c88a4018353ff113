package analysis

import (
	"testing"
	"time"
)

func TestAssembleResult(t *testing.T) {
	facts := StructureFacts{
		FileName:       "legacy-app.war",
		TotalClasses:   200,
		TotalJars:      1,
		SpringDetected: true,
		SpringVersion:  "5.3.2",
	}
	components := EstimateComponents(facts)
	findings := EstimatePatterns(facts)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	result := Assemble(facts, components, findings, now)

	if result.ProjectName != "legacy-app" {
		t.Fatalf("expected project name legacy-app, got %q", result.ProjectName)
	}
	if !result.AnalysisTime.Equal(now) {
		t.Fatalf("expected analysis time %v, got %v", now, result.AnalysisTime)
	}
	if len(result.ModernizationSuggestions) != 2 {
		t.Fatalf("expected both suggestion rules to fire, got %d", len(result.ModernizationSuggestions))
	}
	if result.ModernizationSuggestions[0].Priority != "HIGH" {
		t.Fatalf("expected first suggestion HIGH, got %q", result.ModernizationSuggestions[0].Priority)
	}
	if result.ModernizationSuggestions[1].Priority != "MEDIUM" {
		t.Fatalf("expected second suggestion MEDIUM, got %q", result.ModernizationSuggestions[1].Priority)
	}
	if result.Summary.TotalComponents != 31 {
		t.Fatalf("expected 31 total components, got %d", result.Summary.TotalComponents)
	}
	if result.Summary.SQLPatternsFound != 10 {
		t.Fatalf("expected 10 patterns, got %d", result.Summary.SQLPatternsFound)
	}
	if result.Summary.HighPrioritySuggestions != 1 {
		t.Fatalf("expected 1 high priority suggestion, got %d", result.Summary.HighPrioritySuggestions)
	}
	if result.CompetitiveAdvantage.ActionableRecommendations != "2 implementation strategies" {
		t.Fatalf("unexpected advantage block: %+v", result.CompetitiveAdvantage)
	}
}

func TestAssembleSuggestionRuleOrder(t *testing.T) {
	components := ComponentEstimate{Controllers: 1}
	findings := []PatternFinding{{File: "LegacyClass1.java"}}

	result := Assemble(StructureFacts{FileName: "a.war"}, components, findings, time.Now().UTC())

	if result.ModernizationSuggestions[0].Category != "Data access layer modernization" {
		t.Fatalf("expected data access rule first, got %q", result.ModernizationSuggestions[0].Category)
	}
	if result.ModernizationSuggestions[1].Category != "API layer standardization" {
		t.Fatalf("expected API rule second, got %q", result.ModernizationSuggestions[1].Category)
	}
}

func TestAssembleAPIRuleRequiresControllers(t *testing.T) {
	result := Assemble(StructureFacts{FileName: "a.war"}, ComponentEstimate{}, nil, time.Now().UTC())

	if len(result.ModernizationSuggestions) != 0 {
		t.Fatalf("expected no suggestions without triggers, got %d", len(result.ModernizationSuggestions))
	}
	if result.Summary.HighPrioritySuggestions != 0 {
		t.Fatalf("expected 0 high priority, got %d", result.Summary.HighPrioritySuggestions)
	}
}
