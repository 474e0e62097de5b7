// Package report wraps the raw narrative text in the final DDR layout:
// header with run metadata, the narrative body, conflict and duplicate
// appendices built from the merged data, and a footer.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/Harshitkumar63/ai-ddr-builder/internal/core/model"
)

const (
	separator = "============================================================"
	thinSep   = "------------------------------------------------------------"
)

// Metadata carries the run details stamped into the report header.
// GeneratedAt is injected rather than read from the clock so two runs
// over the same inputs can produce byte-identical reports.
type Metadata struct {
	InspectionFile string
	ThermalFile    string
	GeneratedAt    time.Time
}

// Format assembles the final report string. The narrative body is taken
// as-is; everything around it is derived from merged data and metadata.
func Format(ddrText string, merged *model.MergedData, meta Metadata) string {
	inspectionFile := meta.InspectionFile
	if inspectionFile == "" {
		inspectionFile = "N/A"
	}
	thermalFile := meta.ThermalFile
	if thermalFile == "" {
		thermalFile = "N/A"
	}

	var b strings.Builder

	b.WriteString(separator + "\n")
	b.WriteString("       DETAILED DIAGNOSTIC REPORT (DDR)\n")
	b.WriteString(separator + "\n\n")
	fmt.Fprintf(&b, "Generated : %s\n", meta.GeneratedAt.UTC().Format("2006-01-02 15:04:05 UTC"))
	fmt.Fprintf(&b, "Source 1  : %s\n", inspectionFile)
	fmt.Fprintf(&b, "Source 2  : %s\n", thermalFile)
	b.WriteString("\n" + separator + "\n\n")

	b.WriteString(strings.TrimSpace(ddrText))
	b.WriteString("\n\n")

	writeConflictAppendix(&b, merged)
	writeDuplicateAppendix(&b, merged)

	b.WriteString(separator + "\n")
	b.WriteString("                 END OF REPORT\n")
	b.WriteString(separator)

	return b.String()
}

func writeConflictAppendix(b *strings.Builder, merged *model.MergedData) {
	var conflicted []model.CanonicalArea
	for _, a := range merged.Areas {
		if a.ConflictDetected {
			conflicted = append(conflicted, a)
		}
	}
	if len(conflicted) == 0 {
		return
	}

	b.WriteString(thinSep + "\n")
	b.WriteString("APPENDIX A: CONFLICT SUMMARY\n")
	b.WriteString(thinSep + "\n")
	for _, a := range conflicted {
		fmt.Fprintf(b, "  Area: %s\n", a.Name)
		for _, desc := range a.Conflicts {
			fmt.Fprintf(b, "    %s\n", desc)
		}
		b.WriteString("\n")
	}
}

func writeDuplicateAppendix(b *strings.Builder, merged *model.MergedData) {
	if len(merged.DuplicateWarnings) == 0 {
		return
	}

	b.WriteString(thinSep + "\n")
	b.WriteString("APPENDIX B: DUPLICATE DATA WARNINGS\n")
	b.WriteString(thinSep + "\n")
	for _, w := range merged.DuplicateWarnings {
		fmt.Fprintf(b, "  - %s\n", w)
	}
	b.WriteString("\n")
}
