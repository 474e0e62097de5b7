package merge

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Harshitkumar63/ai-ddr-builder/internal/core/model"
)

func TestMerge_AgreeingPair(t *testing.T) {
	// "Bedroom 2" and "Rear Bedroom" are the same room; both report the
	// same condition, thermal adds a moisture reading. No conflict.
	e := NewEngine(DefaultThreshold)

	inspection := model.DocumentExtraction{Areas: []model.Observation{
		{Name: "Bedroom 2", Fields: map[string]string{"condition": "Good"}},
	}}
	thermal := model.DocumentExtraction{Areas: []model.Observation{
		{Name: "Rear Bedroom", Fields: map[string]string{"condition": "Good", "moisture": "12%"}},
	}}

	merged, err := e.Merge(inspection, thermal)
	require.NoError(t, err)
	require.Len(t, merged.Areas, 1)

	area := merged.Areas[0]
	assert.Equal(t, "Rear Bedroom", area.Name)
	assert.Equal(t, "Good", area.Fields["condition"])
	assert.Equal(t, "12%", area.Fields["moisture"])
	assert.False(t, area.ConflictDetected)
	assert.Empty(t, merged.Conflicts)
	assert.ElementsMatch(t, []model.Source{model.SourceInspection, model.SourceThermal}, area.Sources)
}

func TestMerge_ConflictingPair(t *testing.T) {
	e := NewEngine(DefaultThreshold)

	inspection := model.DocumentExtraction{Areas: []model.Observation{
		{Name: "Basement", Fields: map[string]string{"condition": "Dry"}},
	}}
	thermal := model.DocumentExtraction{Areas: []model.Observation{
		{Name: "Basement", Fields: map[string]string{"condition": "Significant moisture damage"}},
	}}

	merged, err := e.Merge(inspection, thermal)
	require.NoError(t, err)
	require.Len(t, merged.Areas, 1)

	area := merged.Areas[0]
	assert.True(t, area.ConflictDetected)
	require.Len(t, area.Conflicts, 1)
	assert.Contains(t, area.Conflicts[0], "'Dry'")
	assert.Contains(t, area.Conflicts[0], "'Significant moisture damage'")

	// The stored value itself must show both sides, never silently pick one
	assert.Equal(t, "[CONFLICT] Inspection: Dry | Thermal: Significant moisture damage", area.Fields["condition"])

	require.Len(t, merged.Conflicts, 1)
	rec := merged.Conflicts[0]
	assert.Equal(t, "Basement", rec.Area)
	assert.Equal(t, "condition", rec.Field)
	assert.Equal(t, "Dry", rec.Inspection)
	assert.Equal(t, "Significant moisture damage", rec.Thermal)
}

func TestMerge_NegatedValueIsConflict(t *testing.T) {
	// One value embedded in the other's negation must never be resolved
	// silently toward either side.
	e := NewEngine(DefaultThreshold)

	inspection := model.DocumentExtraction{Areas: []model.Observation{
		{Name: "Subfloor", Fields: map[string]string{"condition": "Dry"}},
	}}
	thermal := model.DocumentExtraction{Areas: []model.Observation{
		{Name: "Subfloor", Fields: map[string]string{"condition": "Not dry"}},
	}}

	merged, err := e.Merge(inspection, thermal)
	require.NoError(t, err)
	require.Len(t, merged.Areas, 1)

	area := merged.Areas[0]
	assert.True(t, area.ConflictDetected)
	assert.Equal(t, "[CONFLICT] Inspection: Dry | Thermal: Not dry", area.Fields["condition"])

	require.Len(t, merged.Conflicts, 1)
	assert.Equal(t, "Dry", merged.Conflicts[0].Inspection)
	assert.Equal(t, "Not dry", merged.Conflicts[0].Thermal)
}

func TestMerge_ThermalOnlySingleton(t *testing.T) {
	e := NewEngine(DefaultThreshold)

	inspection := model.DocumentExtraction{Areas: []model.Observation{
		{Name: "Kitchen", Fields: map[string]string{"condition": "Fair"}},
	}}
	thermal := model.DocumentExtraction{Areas: []model.Observation{
		{Name: "Roof Cavity", Fields: map[string]string{"temperature": "31.5C"}},
	}}

	merged, err := e.Merge(inspection, thermal)
	require.NoError(t, err)
	require.Len(t, merged.Areas, 2)

	cavity, ok := merged.Area("Roof Cavity")
	require.True(t, ok)
	assert.Equal(t, []model.Source{model.SourceThermal}, cavity.Sources)
	assert.Equal(t, "31.5C", cavity.Fields["temperature"])
	assert.False(t, cavity.ConflictDetected)
}

func TestMerge_AbsentFieldsMarkedNotAvailable(t *testing.T) {
	e := NewEngine(DefaultThreshold)

	inspection := model.DocumentExtraction{Areas: []model.Observation{
		{Name: "Attic", Fields: map[string]string{"moisture": "   "}},
	}}
	thermal := model.DocumentExtraction{Areas: []model.Observation{
		{Name: "Attic", Fields: map[string]string{"moisture": ""}},
	}}

	merged, err := e.Merge(inspection, thermal)
	require.NoError(t, err)
	assert.Equal(t, model.NotAvailable, merged.Areas[0].Fields["moisture"])
}

func TestMerge_PrefersDetailedValueWhenSimilar(t *testing.T) {
	e := NewEngine(DefaultThreshold)

	inspection := model.DocumentExtraction{Areas: []model.Observation{
		{Name: "Garage", Fields: map[string]string{"condition": "Minor cracking"}},
	}}
	thermal := model.DocumentExtraction{Areas: []model.Observation{
		{Name: "Garage", Fields: map[string]string{"condition": "Minor cracking near door"}},
	}}

	merged, err := e.Merge(inspection, thermal)
	require.NoError(t, err)

	area := merged.Areas[0]
	assert.False(t, area.ConflictDetected)
	assert.Equal(t, "Minor cracking near door", area.Fields["condition"])
}

func TestMerge_NoFabrication(t *testing.T) {
	// Every non-NotAvailable value must be traceable verbatim (modulo
	// trimming) to one of the inputs, or be an explicit conflict marker.
	e := NewEngine(DefaultThreshold)

	inspection := model.DocumentExtraction{Areas: []model.Observation{
		{Name: "Living Room", Fields: map[string]string{"condition": "Good", "humidity": " 45% "}},
		{Name: "Hallway", Fields: map[string]string{"condition": "Scuffed walls"}},
	}}
	thermal := model.DocumentExtraction{Areas: []model.Observation{
		{Name: "Living Room", Fields: map[string]string{"condition": "Water stain on ceiling", "temperature": "22C"}},
	}}

	sourceValues := map[string]bool{}
	for _, doc := range []model.DocumentExtraction{inspection, thermal} {
		for _, a := range doc.Areas {
			for _, v := range a.Fields {
				sourceValues[strings.TrimSpace(v)] = true
			}
		}
	}

	merged, err := e.Merge(inspection, thermal)
	require.NoError(t, err)

	for _, area := range merged.Areas {
		for field, value := range area.Fields {
			if value == model.NotAvailable || strings.HasPrefix(value, "[CONFLICT]") {
				continue
			}
			assert.True(t, sourceValues[value],
				"field %s of %s holds %q which no source supplied", field, area.Name, value)
		}
	}
}

func TestMerge_Completeness(t *testing.T) {
	e := NewEngine(DefaultThreshold)

	inspection := model.DocumentExtraction{Areas: []model.Observation{
		{Name: "Kitchen"}, {Name: "Garage"}, {Name: "Attic"},
	}}
	thermal := model.DocumentExtraction{Areas: []model.Observation{
		{Name: "Attic"}, {Name: "Subfloor"},
	}}

	merged, err := e.Merge(inspection, thermal)
	require.NoError(t, err)
	assert.Len(t, merged.Areas, 4)

	seen := map[string]int{}
	for _, a := range merged.Areas {
		seen[a.Name]++
	}
	for _, name := range []string{"Kitchen", "Garage", "Attic", "Subfloor"} {
		assert.Equal(t, 1, seen[name], "area %s must appear exactly once", name)
	}
}

func TestMerge_Deterministic(t *testing.T) {
	e := NewEngine(DefaultThreshold)

	inspection := model.DocumentExtraction{
		Areas: []model.Observation{
			{Name: "Bedroom 2", Fields: map[string]string{"condition": "Good", "moisture": "low"}},
			{Name: "Kitchen", Fields: map[string]string{"condition": "Fair"}, Notes: []string{"Tap fitting loose"}},
		},
		GlobalNotes: []string{"Inspection carried out 10 March"},
	}
	thermal := model.DocumentExtraction{
		Areas: []model.Observation{
			{Name: "Rear Bedroom", Fields: map[string]string{"condition": "Good", "temperature": "19C"}},
		},
		GlobalNotes: []string{"Ambient temperature 18C"},
	}

	first, err := e.Merge(inspection, thermal)
	require.NoError(t, err)
	second, err := e.Merge(inspection, thermal)
	require.NoError(t, err)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, a, b, "two runs over identical inputs must be byte-identical")
}

func TestMerge_ConflictSymmetry(t *testing.T) {
	e := NewEngine(DefaultThreshold)

	docA := model.DocumentExtraction{Areas: []model.Observation{
		{Name: "Rear Bedroom", Fields: map[string]string{"condition": "Dry"}},
	}}
	docB := model.DocumentExtraction{Areas: []model.Observation{
		{Name: "Rear Bedroom", Fields: map[string]string{"condition": "Significant moisture damage"}},
	}}

	forward, err := e.Merge(docA, docB)
	require.NoError(t, err)
	reverse, err := e.Merge(docB, docA)
	require.NoError(t, err)

	require.Len(t, forward.Conflicts, 1)
	require.Len(t, reverse.Conflicts, 1)

	// Same conflict either way, with the attributions swapped
	assert.Equal(t, forward.Conflicts[0].Field, reverse.Conflicts[0].Field)
	assert.Equal(t, forward.Conflicts[0].Inspection, reverse.Conflicts[0].Thermal)
	assert.Equal(t, forward.Conflicts[0].Thermal, reverse.Conflicts[0].Inspection)
}

func TestMerge_DuplicateNotesCollapsed(t *testing.T) {
	e := NewEngine(DefaultThreshold)

	inspection := model.DocumentExtraction{Areas: []model.Observation{
		{Name: "Kitchen", Notes: []string{"Water staining on ceiling"}},
	}}
	thermal := model.DocumentExtraction{Areas: []model.Observation{
		{Name: "Kitchen", Notes: []string{"Water staining on ceiling.", "Cold spot near window"}},
	}}

	merged, err := e.Merge(inspection, thermal)
	require.NoError(t, err)

	area := merged.Areas[0]
	assert.Len(t, area.Notes, 2)
	assert.NotEmpty(t, merged.DuplicateWarnings)
}

func TestMerge_GlobalNotes(t *testing.T) {
	e := NewEngine(DefaultThreshold)

	inspection := model.DocumentExtraction{GlobalNotes: []string{"Weather: overcast"}}
	thermal := model.DocumentExtraction{GlobalNotes: []string{"Weather: overcast", "Camera: FLIR E8"}}

	merged, err := e.Merge(inspection, thermal)
	require.NoError(t, err)
	assert.Equal(t, []string{"Weather: overcast", "Camera: FLIR E8"}, merged.GlobalNotes)
	assert.Len(t, merged.DuplicateWarnings, 1)
}

func TestMerge_RejectsUnnamedArea(t *testing.T) {
	e := NewEngine(DefaultThreshold)

	inspection := model.DocumentExtraction{Areas: []model.Observation{
		{Name: "  ", Fields: map[string]string{"condition": "Good"}},
	}}

	merged, err := e.Merge(inspection, model.DocumentExtraction{})
	assert.Error(t, err)
	assert.Nil(t, merged)
	assert.Contains(t, err.Error(), "inspection document")
}

func TestMerge_NumericExactEquality(t *testing.T) {
	// Exact numeric strings imply similarity 1 and bypass the conflict path
	e := NewEngine(DefaultThreshold)

	inspection := model.DocumentExtraction{Areas: []model.Observation{
		{Name: "Attic", Fields: map[string]string{"temperature": "31.5C"}},
	}}
	thermal := model.DocumentExtraction{Areas: []model.Observation{
		{Name: "Attic", Fields: map[string]string{"temperature": "31.5C"}},
	}}

	merged, err := e.Merge(inspection, thermal)
	require.NoError(t, err)
	assert.Equal(t, "31.5C", merged.Areas[0].Fields["temperature"])
	assert.False(t, merged.Areas[0].ConflictDetected)
}
