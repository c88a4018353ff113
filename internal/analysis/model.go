package analysis

import "time"

// StructureFacts captures what the archive itself tells us before any
// estimation happens.
type StructureFacts struct {
	FileName       string   `json:"file_name"`
	FileSizeMB     float64  `json:"file_size_mb"`
	WebInfFound    bool     `json:"web_inf_found"`
	SpringDetected bool     `json:"spring_detected"`
	SpringVersion  string   `json:"spring_version,omitempty"`
	TotalClasses   int      `json:"total_classes"`
	TotalJars      int      `json:"total_jars"`
	JarFiles       []string `json:"jar_files"`
}

// Component is a synthesized component descriptor.
type Component struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	Package   string `json:"package"`
	Estimated bool   `json:"estimated"`
}

// ComponentEstimate holds the per-role counts and the capped descriptor list.
type ComponentEstimate struct {
	TotalComponents int         `json:"total_components"`
	Controllers     int         `json:"controllers"`
	Services        int         `json:"services"`
	Repositories    int         `json:"repositories"`
	Components      []Component `json:"components"`
}

// PatternFinding is a synthesized SQL-pattern occurrence.
type PatternFinding struct {
	File                    string `json:"file"`
	PatternType             string `json:"pattern_type"`
	SQLStatement            string `json:"sql_statement"`
	RiskLevel               string `json:"risk_level"`
	ModernizationSuggestion string `json:"modernization_suggestion"`
}

// Suggestion is a modernization recommendation emitted by a fixed rule.
type Suggestion struct {
	Category        string   `json:"category"`
	Priority        string   `json:"priority"`
	Description     string   `json:"description"`
	SpecificActions []string `json:"specific_actions"`
	EstimatedEffort string   `json:"estimated_effort"`
	BusinessValue   string   `json:"business_value"`
}

// CompetitiveAdvantage is a fixed comparative-metrics block attached to
// every result.
type CompetitiveAdvantage struct {
	ProcessingTime            string `json:"processing_time"`
	VsLeda                    string `json:"vs_leda"`
	VsTraditional             string `json:"vs_traditional"`
	ProfessionalAnalysis      string `json:"professional_analysis"`
	ActionableRecommendations string `json:"actionable_recommendations"`
}

// Summary aggregates the headline numbers of a result.
type Summary struct {
	TotalComponents              int    `json:"total_components"`
	SQLPatternsFound             int    `json:"sql_patterns_found"`
	HighPrioritySuggestions      int    `json:"high_priority_suggestions"`
	EstimatedModernizationEffort string `json:"estimated_modernization_effort"`
	ExpectedROI                  string `json:"expected_roi"`
}

// Result is the immutable aggregate produced for a completed analysis.
type Result struct {
	ProjectName              string               `json:"project_name"`
	AnalysisTime             time.Time            `json:"analysis_time"`
	WarInfo                  StructureFacts       `json:"war_info"`
	SpringComponents         ComponentEstimate    `json:"spring_components"`
	SQLPatterns              []PatternFinding     `json:"sql_patterns"`
	ModernizationSuggestions []Suggestion         `json:"modernization_suggestions"`
	CompetitiveAdvantage     CompetitiveAdvantage `json:"competitive_advantage"`
	Summary                  Summary              `json:"summary"`
}
