package analysis

import (
	"archive/zip"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// ErrCorruptArchive is returned when the uploaded archive cannot be opened
// or enumerated.
var ErrCorruptArchive = fmt.Errorf("archive is corrupt or not a valid WAR file")

const maxListedJars = 5

var versionPattern = regexp.MustCompile(`(\d+\.\d+\.\d+)`)

// Inspect enumerates the archive at path and extracts structural facts.
// It reads entry names only; no entry contents are decompressed.
func Inspect(path string) (StructureFacts, error) {
	facts := StructureFacts{
		FileName: filepath.Base(path),
		JarFiles: []string{},
	}

	info, err := os.Stat(path)
	if err != nil {
		return StructureFacts{}, fmt.Errorf("%w: %v", ErrCorruptArchive, err)
	}
	facts.FileSizeMB = math.Round(float64(info.Size())/(1024*1024)*100) / 100

	reader, err := zip.OpenReader(path)
	if err != nil {
		return StructureFacts{}, fmt.Errorf("%w: %v", ErrCorruptArchive, err)
	}
	defer reader.Close()

	var springJars []string
	for _, entry := range reader.File {
		name := entry.Name
		if strings.Contains(name, "WEB-INF") {
			facts.WebInfFound = true
		}
		if strings.HasSuffix(name, ".class") {
			facts.TotalClasses++
		}
		if strings.HasSuffix(name, ".jar") {
			facts.TotalJars++
			if strings.Contains(strings.ToLower(name), "spring") {
				springJars = append(springJars, name)
			}
		}
	}

	if len(springJars) > 0 {
		facts.SpringDetected = true
		if len(springJars) > maxListedJars {
			facts.JarFiles = springJars[:maxListedJars]
		} else {
			facts.JarFiles = springJars
		}
		for _, jar := range springJars {
			if match := versionPattern.FindString(jar); match != "" {
				facts.SpringVersion = match
				break
			}
		}
	}

	return facts, nil
}
