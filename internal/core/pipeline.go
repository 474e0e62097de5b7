package core

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Harshitkumar63/ai-ddr-builder/internal/config"
	"github.com/Harshitkumar63/ai-ddr-builder/internal/core/extraction"
	"github.com/Harshitkumar63/ai-ddr-builder/internal/core/merge"
	"github.com/Harshitkumar63/ai-ddr-builder/internal/core/model"
	"github.com/Harshitkumar63/ai-ddr-builder/internal/core/reasoning"
	"github.com/Harshitkumar63/ai-ddr-builder/internal/core/report"
	"github.com/Harshitkumar63/ai-ddr-builder/internal/core/validation"
	"github.com/Harshitkumar63/ai-ddr-builder/internal/llm"
	"github.com/Harshitkumar63/ai-ddr-builder/internal/storage"
)

// Pipeline runs the full DDR flow: extract both documents, merge,
// generate the narrative, validate it, format the final report and
// optionally persist the run.
type Pipeline struct {
	Extractor *extraction.Extractor
	Engine    *merge.Engine
	Reasoner  *reasoning.Reasoner
	Validator *validation.Validator
	Store     storage.RunStore

	// Now stamps the report header; overridable for deterministic output.
	Now func() time.Time
}

// NewPipeline wires the standard pipeline from config. store may be nil
// when run history is not wanted (e.g. one-shot CLI runs).
func NewPipeline(llmClient llm.Client, cfg *config.Config, store storage.RunStore) *Pipeline {
	engine := merge.NewEngine(cfg.Merge.Threshold)
	if cfg.Merge.DuplicateThreshold > 0 {
		engine.DuplicateThreshold = cfg.Merge.DuplicateThreshold
	}

	return &Pipeline{
		Extractor: extraction.NewExtractor(llmClient, cfg.Prompts.Extraction),
		Engine:    engine,
		Reasoner:  reasoning.NewReasoner(llmClient, cfg.Prompts.Reasoning),
		Validator: validation.NewValidator(),
		Store:     store,
		Now:       time.Now,
	}
}

// Request is one report-generation job. Texts are the already-loaded
// document contents; file names only appear in the report header.
type Request struct {
	InspectionText string
	ThermalText    string
	InspectionFile string
	ThermalFile    string
}

// Result carries everything a caller may want from a run, including the
// intermediate extractions for transparency.
type Result struct {
	RunID      string                   `json:"run_id"`
	Report     string                   `json:"report"`
	Inspection model.DocumentExtraction `json:"inspection"`
	Thermal    model.DocumentExtraction `json:"thermal"`
	Merged     *model.MergedData        `json:"merged"`
	Validation model.ValidationResult   `json:"validation"`
}

// Generate runs the pipeline end to end. The two extractions are
// independent LLM calls and run in parallel; everything after the merge
// is sequential.
func (p *Pipeline) Generate(ctx context.Context, req Request) (*Result, error) {
	runID := uuid.New().String()
	log.Printf("[%s] starting DDR run (inspection=%s thermal=%s)", runID, req.InspectionFile, req.ThermalFile)

	var inspection, thermal model.DocumentExtraction

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		inspection, err = p.Extractor.Extract(gctx, model.SourceInspection, req.InspectionText)
		return err
	})
	g.Go(func() error {
		var err error
		thermal, err = p.Extractor.Extract(gctx, model.SourceThermal, req.ThermalText)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("extraction failed: %w", err)
	}
	log.Printf("[%s] extracted %d inspection area(s), %d thermal area(s)",
		runID, len(inspection.Areas), len(thermal.Areas))

	merged, err := p.Engine.Merge(inspection, thermal)
	if err != nil {
		return nil, fmt.Errorf("merge failed: %w", err)
	}
	log.Printf("[%s] merged into %d area(s), %d conflict(s), %d duplicate warning(s)",
		runID, len(merged.Areas), len(merged.Conflicts), len(merged.DuplicateWarnings))

	narrative, err := p.Reasoner.Narrative(ctx, merged)
	if err != nil {
		return nil, fmt.Errorf("narrative generation failed: %w", err)
	}

	result := p.Validator.Validate(narrative, merged)
	for _, w := range result.Warnings {
		log.Printf("[%s] validation %s (%s): %s", runID, w.Severity, w.Category, w.Detail)
	}

	final := report.Format(narrative, merged, report.Metadata{
		InspectionFile: req.InspectionFile,
		ThermalFile:    req.ThermalFile,
		GeneratedAt:    p.Now(),
	})

	res := &Result{
		RunID:      runID,
		Report:     final,
		Inspection: inspection,
		Thermal:    thermal,
		Merged:     merged,
		Validation: result,
	}

	if p.Store != nil {
		err := p.Store.SaveRun(ctx, &storage.Run{
			ID:             runID,
			CreatedAt:      p.Now().UTC(),
			InspectionFile: req.InspectionFile,
			ThermalFile:    req.ThermalFile,
			Report:         final,
			Merged:         merged,
			Validation:     result,
			ConflictCount:  len(merged.Conflicts),
		})
		if err != nil {
			// A finished report is still useful even if history fails
			log.Printf("[%s] failed to persist run: %v", runID, err)
		}
	}

	log.Printf("[%s] report generated (%d chars)", runID, len(final))
	return res, nil
}
