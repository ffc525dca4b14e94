package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_TableShape(t *testing.T) {
	table := Default()

	assert.Equal(t, 7, table.StepCount())

	step, ok := table.Step(0)
	require.True(t, ok)
	assert.Equal(t, AckInstructions, step.Ack)
	assert.Empty(t, step.Fields)

	step, ok = table.Step(5)
	require.True(t, ok)
	assert.Equal(t, AckTable2, step.Ack)

	step, ok = table.Step(6)
	require.True(t, ok)
	assert.True(t, step.RequiresChecklist)

	_, ok = table.Step(7)
	assert.False(t, ok)
}

func TestDefault_FieldLookup(t *testing.T) {
	table := Default()

	tests := []struct {
		name     string
		field    string
		found    bool
		step     int
		kind     Kind
		required bool
	}{
		{name: "personal email", field: "email", found: true, step: 1, kind: KindEmail, required: true},
		{name: "photo upload", field: "photo", found: true, step: 1, kind: KindFile, required: true},
		{name: "teaching documents", field: "fileTeaching", found: true, step: 3, kind: KindFile, required: true},
		{name: "admin skill documents", field: "fileAdminSkill", found: true, step: 3, kind: KindFile, required: true},
		{name: "responsibility documents", field: "fileAdmin", found: true, step: 4, kind: KindFile, required: true},
		{name: "research file", field: "fileResearch", found: true, step: 5, kind: KindFile, required: true},
		{name: "noc conditional", field: "fileNOC", found: true, step: 6, kind: KindFile, required: false},
		{name: "unknown field", field: "nickname", found: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, step, ok := table.Field(tt.field)
			assert.Equal(t, tt.found, ok)
			if !tt.found {
				return
			}
			assert.Equal(t, tt.step, step)
			assert.Equal(t, tt.kind, f.Kind)
			assert.Equal(t, tt.required, f.Required)
		})
	}
}

func TestStream(t *testing.T) {
	tests := []struct {
		post   string
		stream string
	}{
		{"Assistant Professor (Computer Science)", StreamScience},
		{"assistant professor of political SCIENCE", StreamScience},
		{"Assistant Professor (History)", StreamArts},
		{"", StreamArts},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.stream, Stream(tt.post), "post: %q", tt.post)
	}
}

func TestCapFor_StreamCeilings(t *testing.T) {
	table := Default()

	tests := []struct {
		field   string
		science int
		arts    int
	}{
		{"resPapers", 8, 10},
		{"resPatentInt", 10, 0},
		{"resInvitedState", 2, 0},
		{"resBooksInt", 12, 12}, // same ceiling for both streams
		{"academicMasters", 5, 5},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			f, _, ok := table.Field(tt.field)
			require.True(t, ok)
			assert.Equal(t, tt.science, f.CapFor(StreamScience))
			assert.Equal(t, tt.arts, f.CapFor(StreamArts))
		})
	}
}

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	table, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 7, table.StepCount())
	assert.True(t, table.KnownField("resPapers"))
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "steps.json")
	content := `{
		"steps": [
			{"index": 0, "title": "Intro", "ack": "instructions", "fields": []},
			{"index": 1, "title": "Details", "fields": [
				{"name": "email", "kind": "email", "required": true},
				{"name": "proof", "kind": "file"}
			]}
		]
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	table, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, table.StepCount())

	f, step, ok := table.Field("proof")
	require.True(t, ok)
	assert.Equal(t, 1, step)
	// File fields default to the general upload tier.
	assert.Equal(t, TierGeneral, f.Tier)
}

func TestLoad_RejectsBrokenTables(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "non-contiguous step indexes",
			content: `{"steps": [{"index": 0, "title": "A", "fields": []}, {"index": 2, "title": "B", "fields": []}]}`,
		},
		{
			name: "duplicate field name",
			content: `{"steps": [{"index": 0, "title": "A", "fields": [
				{"name": "email", "kind": "email"}, {"name": "email", "kind": "text"}]}]}`,
		},
		{
			name: "mustMatch references unknown field",
			content: `{"steps": [{"index": 0, "title": "A", "fields": [
				{"name": "confirmEmail", "kind": "email", "mustMatch": "email"}]}]}`,
		},
		{
			name:    "unknown ack gate",
			content: `{"steps": [{"index": 0, "title": "A", "ack": "biometrics", "fields": []}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "steps.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestFieldNames_CoversEveryStep(t *testing.T) {
	table := Default()
	names := table.FieldNames()

	assert.Contains(t, names, "postAppliedFor")
	assert.Contains(t, names, "resInvitedState")
	assert.Contains(t, names, "fileNOC")

	seen := map[string]bool{}
	for _, n := range names {
		assert.False(t, seen[n], "duplicate name %s", n)
		seen[n] = true
	}
}

func TestResearchFieldNames(t *testing.T) {
	table := Default()
	names := table.ResearchFieldNames()

	assert.Contains(t, names, "resPapers")
	assert.Contains(t, names, "resPatentInt")
	assert.Contains(t, names, "resInvitedState")
	assert.NotContains(t, names, "email")
	assert.NotContains(t, names, "teachingExpAbove15")
	assert.NotContains(t, names, "fileResearch")
}
