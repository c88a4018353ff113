package health

import "time"

// Status reports basic liveness information.
type Status struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
}

// Check returns the current health payload.
func Check() Status {
	return Status{
		Status:    "healthy",
		Service:   "WAR Analyzer",
		Version:   "1.0.0",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}
