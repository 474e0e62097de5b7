// Command ddr runs the full report pipeline once from the command line:
// load both documents, extract, merge, draft, validate, and write the
// final DDR (plus the merged dataset as JSON) to the output path.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/Harshitkumar63/ai-ddr-builder/internal/config"
	"github.com/Harshitkumar63/ai-ddr-builder/internal/core"
	"github.com/Harshitkumar63/ai-ddr-builder/internal/document"
	"github.com/Harshitkumar63/ai-ddr-builder/internal/llm"
)

func main() {
	inspectionPath := flag.String("inspection", "data/sample_inspection_report.txt", "path to the inspection report (.txt or .pdf)")
	thermalPath := flag.String("thermal", "data/sample_thermal_report.txt", "path to the thermal report (.txt or .pdf)")
	outputPath := flag.String("output", "data/output_ddr.txt", "where to write the final report")
	threshold := flag.Float64("threshold", 0, "area-match threshold override in (0, 1]")
	configPath := flag.String("config", "config/config.toml", "path to the TOML config file")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using defaults")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Printf("Warning: could not load %s: %v. Using built-in defaults.", *configPath, err)
		cfg = config.Default()
	}
	if envAPIKey := os.Getenv("LLM_API_KEY"); envAPIKey != "" {
		cfg.LLM.APIKey = envAPIKey
	}
	if *threshold > 0 {
		if *threshold > 1 {
			log.Fatalf("threshold must be in (0, 1], got %v", *threshold)
		}
		cfg.Merge.Threshold = *threshold
	}

	ctx := context.Background()

	llmClient, err := llm.NewClient(ctx, cfg.LLM)
	if err != nil {
		log.Fatalf("Failed to initialize LLM client: %v", err)
	}

	fmt.Println("\n  [1/4] Loading documents...")
	inspectionText, err := document.Load(*inspectionPath)
	if err != nil {
		log.Fatalf("Failed to load inspection report: %v", err)
	}
	thermalText, err := document.Load(*thermalPath)
	if err != nil {
		log.Fatalf("Failed to load thermal report: %v", err)
	}
	fmt.Printf("        -> Inspection: %d chars | Thermal: %d chars\n",
		len(inspectionText), len(thermalText))

	fmt.Println("\n  [2/4] Extracting and merging...")
	pipeline := core.NewPipeline(llmClient, cfg, nil)
	result, err := pipeline.Generate(ctx, core.Request{
		InspectionText: inspectionText,
		ThermalText:    thermalText,
		InspectionFile: filepath.Base(*inspectionPath),
		ThermalFile:    filepath.Base(*thermalPath),
	})
	if err != nil {
		log.Fatalf("Pipeline failed: %v", err)
	}
	fmt.Printf("        -> %d area(s), %d conflict(s), %d duplicate warning(s)\n",
		len(result.Merged.Areas), len(result.Merged.Conflicts), len(result.Merged.DuplicateWarnings))

	fmt.Println("\n  [3/4] Validation...")
	if len(result.Validation.Warnings) == 0 {
		fmt.Println("        -> No issues detected.")
	}
	for _, w := range result.Validation.Warnings {
		fmt.Printf("        -> [%s] %s\n", w.Category, w.Detail)
	}

	fmt.Println("\n  [4/4] Writing output...")
	if err := writeOutputs(*outputPath, result); err != nil {
		log.Fatalf("Failed to write output: %v", err)
	}
	fmt.Printf("        -> Report: %s\n", *outputPath)
	fmt.Printf("        -> Merged data: %s\n", mergedPath(*outputPath))
}

// writeOutputs writes the final report and, next to it, the merged
// dataset as JSON for transparency.
func writeOutputs(outputPath string, result *core.Result) error {
	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if err := os.WriteFile(outputPath, []byte(result.Report), 0o644); err != nil {
		return err
	}

	merged, err := json.MarshalIndent(result.Merged, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(mergedPath(outputPath), merged, 0o644)
}

func mergedPath(outputPath string) string {
	ext := filepath.Ext(outputPath)
	return strings.TrimSuffix(outputPath, ext) + "_merged.json"
}
