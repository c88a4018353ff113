package reports

import "time"

// Report is the archived summary row for a completed analysis. The full
// result JSON lives in the object store under StorageKey.
type Report struct {
	ID            string    `json:"report_id"`
	ProjectName   string    `json:"project_name"`
	FileName      string    `json:"file_name"`
	FileSizeMB    float64   `json:"file_size_mb"`
	TotalClasses  int       `json:"total_classes"`
	TotalJars     int       `json:"total_jars"`
	SpringVersion string    `json:"spring_version,omitempty"`
	StorageKey    string    `json:"-"`
	CreatedAt     time.Time `json:"created_at"`
}
