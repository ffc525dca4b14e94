package validator

import (
	"fmt"
	"testing"
	"time"

	"recruitment-portal/internal/common/logger"
	"recruitment-portal/internal/form/rules"
	"recruitment-portal/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func newTestValidator(t *testing.T) *Validator {
	return New(rules.Default(), logger.NewTestLogger(t))
}

func newRecord() *models.ApplicationRecord {
	return models.NewApplicationRecord("test-app-1", time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
}

func pdfFile(name string) *models.EmbeddedFile {
	return &models.EmbeddedFile{Name: name, ContentType: "application/pdf", Data: []byte("%PDF-1.4 test")}
}

func imageFile(name string) *models.EmbeddedFile {
	return &models.EmbeddedFile{Name: name, ContentType: "image/jpeg", Data: []byte{0xFF, 0xD8, 0xFF}}
}

func fillPersonal(rec *models.ApplicationRecord) {
	for k, v := range map[string]string{
		"postAppliedFor":        "Assistant Professor (History)",
		"category":              "GEN",
		"advertisementRef":      "Advt 02/2026",
		"name":                  "Asha Verma",
		"fatherName":            "Ramesh Verma",
		"dob":                   "1990-06-15",
		"permanentAddress":      "12 Civil Lines, Lucknow",
		"correspondenceAddress": "12 Civil Lines, Lucknow",
		"contactNo1":            "9876543210",
		"email":                 "asha.verma@example.com",
		"confirmEmail":          "asha.verma@example.com",
	} {
		rec.Values[k] = v
	}
	rec.Files["photo"] = imageFile("photo.jpg")
}

func fillAcademic(rec *models.ApplicationRecord) {
	rec.Values["academicMasters"] = "4"
	rec.Values["academicGraduation"] = "3"
	rec.Values["academic12th"] = "4"
	rec.Values["academicMatric"] = "5"
	rec.Files["fileAcademic"] = pdfFile("academic.pdf")
}

func fillExperience(rec *models.ApplicationRecord) {
	rec.Values["teachingExpAbove15"] = "6"
	rec.Values["adminJointDirector"] = "5"
	rec.Values["adminRegistrar"] = "5"
	rec.Values["adminHead"] = "5"
	rec.Files["fileTeaching"] = pdfFile("teaching.pdf")
	rec.Files["fileAdminSkill"] = pdfFile("admin-skill.pdf")
}

func fillResponsibilities(rec *models.ApplicationRecord) {
	rec.Files["fileAdmin"] = pdfFile("responsibilities.pdf")
}

func fillResearch(rec *models.ApplicationRecord) {
	table := rules.Default()
	step, _ := table.Step(5)
	for _, f := range step.Fields {
		if f.Kind == rules.KindCount {
			rec.Values[f.Name] = "0"
		}
	}
	rec.Values["utrNo"] = "UTR123456789"
	rec.Values["draftDate"] = "2026-02-20"
	rec.Values["draftAmount"] = "1500"
	rec.Values["bankName"] = "State Bank"
	rec.Files["fileResearch"] = pdfFile("research.pdf")
	rec.Acknowledgements.Table2Confirmed = true
}

func fillDeclaration(rec *models.ApplicationRecord) {
	rec.Values["parentName"] = "Ramesh Verma"
	rec.Values["place"] = "Lucknow"
	rec.Values["date"] = "2026-03-01"
	rec.Values["hasNOC"] = "no"
	rec.Files["signature"] = imageFile("signature.jpg")
	rec.Checklist = models.VerificationChecklist{
		Name: true, FatherName: true, Post: true, DOB: true, Category: true,
		Photo: true, Signature: true, Documents: true, Table2: true, Payment: true,
	}
}

func fillAll(rec *models.ApplicationRecord) {
	rec.Acknowledgements.InstructionsRead = true
	fillPersonal(rec)
	fillAcademic(rec)
	fillExperience(rec)
	fillResponsibilities(rec)
	fillResearch(rec)
	fillDeclaration(rec)
}

func errorFields(result models.StepResult) []string {
	var fields []string
	for _, e := range result.Errors {
		fields = append(fields, e.Field)
	}
	return fields
}

// ==========================
// Core Functionality Tests
// ==========================

func TestValidateStep_InstructionsGate(t *testing.T) {
	v := newTestValidator(t)
	rec := newRecord()

	result := v.ValidateStep(rec, 0)
	require.False(t, result.Valid)
	assert.Empty(t, result.Errors)
	assert.Contains(t, result.Gate, "read the instructions")

	rec.Acknowledgements.InstructionsRead = true
	result = v.ValidateStep(rec, 0)
	assert.True(t, result.Valid)
	assert.Empty(t, result.Gate)
}

func TestValidateStep_OutOfRange(t *testing.T) {
	v := newTestValidator(t)
	rec := newRecord()

	for _, step := range []int{-1, 7, 100} {
		result := v.ValidateStep(rec, step)
		assert.False(t, result.Valid, "step %d", step)
		assert.Equal(t, "step", result.Errors[0].Field)
	}
}

func TestValidateStep_Personal(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(rec *models.ApplicationRecord)
		wantValid  bool
		wantField  string
		wantCode   string
	}{
		{
			name:      "complete personal details",
			mutate:    func(rec *models.ApplicationRecord) {},
			wantValid: true,
		},
		{
			name:      "missing name",
			mutate:    func(rec *models.ApplicationRecord) { delete(rec.Values, "name") },
			wantField: "name",
			wantCode:  models.ValidationCodeMissingRequired,
		},
		{
			name:      "bad email format",
			mutate:    func(rec *models.ApplicationRecord) { rec.Values["email"] = "not-an-email"; rec.Values["confirmEmail"] = "not-an-email" },
			wantField: "email",
			wantCode:  models.ValidationCodeInvalidFormat,
		},
		{
			name:      "confirm email differs",
			mutate:    func(rec *models.ApplicationRecord) { rec.Values["confirmEmail"] = "asha.verma@other.com" },
			wantField: "confirmEmail",
			wantCode:  models.ValidationCodeMismatch,
		},
		{
			// Confirmation is byte-equal: trailing whitespace is a mismatch
			// even though both address the same mailbox.
			name:      "confirm email with trailing space",
			mutate:    func(rec *models.ApplicationRecord) { rec.Values["confirmEmail"] = "asha.verma@example.com " },
			wantField: "confirmEmail",
			wantCode:  models.ValidationCodeMismatch,
		},
		{
			name:      "unlisted category",
			mutate:    func(rec *models.ApplicationRecord) { rec.Values["category"] = "OBC" },
			wantField: "category",
			wantCode:  models.ValidationCodeInvalidValue,
		},
		{
			name:      "bad date of birth",
			mutate:    func(rec *models.ApplicationRecord) { rec.Values["dob"] = "15/06/1990" },
			wantField: "dob",
			wantCode:  models.ValidationCodeInvalidFormat,
		},
		{
			name:      "phone with formatting accepted",
			mutate:    func(rec *models.ApplicationRecord) { rec.Values["contactNo1"] = "98765-43210" },
			wantValid: true,
		},
		{
			name:      "phone too short",
			mutate:    func(rec *models.ApplicationRecord) { rec.Values["contactNo1"] = "12345" },
			wantField: "contactNo1",
			wantCode:  models.ValidationCodeInvalidFormat,
		},
		{
			name:      "missing photo",
			mutate:    func(rec *models.ApplicationRecord) { delete(rec.Files, "photo") },
			wantField: "photo",
			wantCode:  models.ValidationCodeMissingRequired,
		},
		{
			name:      "optional second contact left blank",
			mutate:    func(rec *models.ApplicationRecord) { delete(rec.Values, "contactNo2") },
			wantValid: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newTestValidator(t)
			rec := newRecord()
			fillPersonal(rec)
			tt.mutate(rec)

			result := v.ValidateStep(rec, 1)
			if tt.wantValid {
				assert.True(t, result.Valid, "errors: %v", result.Errors)
				return
			}
			require.False(t, result.Valid)
			assert.Contains(t, errorFields(result), tt.wantField)
			for _, e := range result.Errors {
				if e.Field == tt.wantField {
					assert.Equal(t, tt.wantCode, e.Code)
				}
			}
		})
	}
}

func TestValidateStep_Academic(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(rec *models.ApplicationRecord)
		wantValid bool
		wantField string
	}{
		{
			name:      "all scores within ceilings",
			mutate:    func(rec *models.ApplicationRecord) {},
			wantValid: true,
		},
		{
			// Blank is not zero: required counts must be entered explicitly.
			name:      "blank required count",
			mutate:    func(rec *models.ApplicationRecord) { delete(rec.Values, "academicMasters") },
			wantField: "academicMasters",
		},
		{
			name:      "score above ceiling",
			mutate:    func(rec *models.ApplicationRecord) { rec.Values["academicMatric"] = "6" },
			wantField: "academicMatric",
		},
		{
			name:      "negative score",
			mutate:    func(rec *models.ApplicationRecord) { rec.Values["academic12th"] = "-1" },
			wantField: "academic12th",
		},
		{
			name:      "non-numeric score",
			mutate:    func(rec *models.ApplicationRecord) { rec.Values["academicGraduation"] = "three" },
			wantField: "academicGraduation",
		},
		{
			name:      "missing marksheet upload",
			mutate:    func(rec *models.ApplicationRecord) { delete(rec.Files, "fileAcademic") },
			wantField: "fileAcademic",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newTestValidator(t)
			rec := newRecord()
			fillPersonal(rec)
			fillAcademic(rec)
			tt.mutate(rec)

			result := v.ValidateStep(rec, 2)
			if tt.wantValid {
				assert.True(t, result.Valid, "errors: %v", result.Errors)
				return
			}
			require.False(t, result.Valid)
			assert.Contains(t, errorFields(result), tt.wantField)
		})
	}
}

func TestValidateStep_ExperienceSumCap(t *testing.T) {
	v := newTestValidator(t)
	rec := newRecord()
	fillPersonal(rec)
	fillExperience(rec)

	// Individually within the per-field ceiling but the combined
	// administrative total may not exceed 25. That failure is reported
	// as a step gate, not against any one field.
	rec.Values["adminJointDirector"] = "15"
	rec.Values["adminRegistrar"] = "15"

	result := v.ValidateStep(rec, 3)
	require.False(t, result.Valid)
	assert.Empty(t, result.Errors)
	assert.Contains(t, result.Gate, "cannot exceed 25")

	rec.Values["adminRegistrar"] = "5"
	result = v.ValidateStep(rec, 3)
	assert.True(t, result.Valid, "gate: %q errors: %v", result.Gate, result.Errors)
}

func TestValidateStep_ExperienceRequiresDocuments(t *testing.T) {
	for _, field := range []string{"fileTeaching", "fileAdminSkill"} {
		t.Run(field, func(t *testing.T) {
			v := newTestValidator(t)
			rec := newRecord()
			fillPersonal(rec)
			fillExperience(rec)
			delete(rec.Files, field)

			result := v.ValidateStep(rec, 3)
			require.False(t, result.Valid)
			assert.Contains(t, errorFields(result), field)
		})
	}
}

func TestValidateStep_Responsibilities(t *testing.T) {
	v := newTestValidator(t)
	rec := newRecord()
	fillPersonal(rec)

	// The counts may all be left blank, the supporting upload may not.
	result := v.ValidateStep(rec, 4)
	require.False(t, result.Valid)
	assert.Contains(t, errorFields(result), "fileAdmin")

	fillResponsibilities(rec)
	result = v.ValidateStep(rec, 4)
	assert.True(t, result.Valid, "errors: %v", result.Errors)

	rec.Values["commIQAC"] = "3" // ceiling is 2
	result = v.ValidateStep(rec, 4)
	require.False(t, result.Valid)
	assert.Contains(t, errorFields(result), "commIQAC")
}

func TestValidateStep_ResearchStreamCeilings(t *testing.T) {
	tests := []struct {
		name      string
		post      string
		field     string
		value     string
		wantValid bool
	}{
		{name: "papers within science ceiling", post: "Assistant Professor (Computer Science)", field: "resPapers", value: "8", wantValid: true},
		{name: "papers above science ceiling", post: "Assistant Professor (Computer Science)", field: "resPapers", value: "9", wantValid: false},
		{name: "arts allows more papers", post: "Assistant Professor (History)", field: "resPapers", value: "10", wantValid: true},
		{name: "patents closed to arts", post: "Assistant Professor (History)", field: "resPatentInt", value: "1", wantValid: false},
		{name: "patents open to science", post: "Assistant Professor (Physics, Science Faculty)", field: "resPatentInt", value: "10", wantValid: true},
		{name: "invited talks closed to arts", post: "Assistant Professor (History)", field: "resInvitedNat", value: "1", wantValid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newTestValidator(t)
			rec := newRecord()
			fillPersonal(rec)
			fillResearch(rec)
			rec.Values["postAppliedFor"] = tt.post
			rec.Values[tt.field] = tt.value

			result := v.ValidateStep(rec, 5)
			if tt.wantValid {
				assert.True(t, result.Valid, "errors: %v", result.Errors)
			} else {
				require.False(t, result.Valid)
				assert.Contains(t, errorFields(result), tt.field)
			}
		})
	}
}

func TestValidateStep_ResearchTable2Gate(t *testing.T) {
	v := newTestValidator(t)
	rec := newRecord()
	fillPersonal(rec)
	fillResearch(rec)

	// The acknowledgement gate is checked before any field, so the step
	// reports no field errors while it is closed.
	rec.Acknowledgements.Table2Confirmed = false
	result := v.ValidateStep(rec, 5)
	require.False(t, result.Valid)
	assert.Empty(t, result.Errors)
	assert.Contains(t, result.Gate, "Table 2")

	rec.Acknowledgements.Table2Confirmed = true
	delete(rec.Values, "utrNo")
	result = v.ValidateStep(rec, 5)
	require.False(t, result.Valid)
	assert.Contains(t, errorFields(result), "utrNo")
}

func TestValidateStep_ResearchRequiresDocuments(t *testing.T) {
	v := newTestValidator(t)
	rec := newRecord()
	fillPersonal(rec)
	fillResearch(rec)
	delete(rec.Files, "fileResearch")

	result := v.ValidateStep(rec, 5)
	require.False(t, result.Valid)
	assert.Contains(t, errorFields(result), "fileResearch")
}

func TestValidateStep_ResearchBlankCountsRejected(t *testing.T) {
	v := newTestValidator(t)
	rec := newRecord()
	fillPersonal(rec)
	fillResearch(rec)
	delete(rec.Values, "resMoocs4Quad")

	result := v.ValidateStep(rec, 5)
	require.False(t, result.Valid)
	found := false
	for _, e := range result.Errors {
		if e.Field == "resMoocs4Quad" {
			found = true
			assert.Contains(t, e.Message, "enter 0")
		}
	}
	assert.True(t, found)
}

func TestValidateStep_Declaration(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(rec *models.ApplicationRecord)
		wantValid bool
		wantField string
	}{
		{
			name:      "complete declaration without NOC",
			mutate:    func(rec *models.ApplicationRecord) {},
			wantValid: true,
		},
		{
			name:      "missing signature",
			mutate:    func(rec *models.ApplicationRecord) { delete(rec.Files, "signature") },
			wantField: "signature",
		},
		{
			name: "NOC yes requires employer details",
			mutate: func(rec *models.ApplicationRecord) {
				rec.Values["hasNOC"] = "yes"
			},
			wantField: "empName",
		},
		{
			name: "NOC yes requires certificate upload",
			mutate: func(rec *models.ApplicationRecord) {
				rec.Values["hasNOC"] = "yes"
				rec.Values["empName"] = "Govt Degree College"
				rec.Values["empDesignation"] = "Assistant Professor"
				rec.Values["empDept"] = "History"
			},
			wantField: "fileNOC",
		},
		{
			name: "NOC yes fully documented",
			mutate: func(rec *models.ApplicationRecord) {
				rec.Values["hasNOC"] = "yes"
				rec.Values["empName"] = "Govt Degree College"
				rec.Values["empDesignation"] = "Assistant Professor"
				rec.Values["empDept"] = "History"
				rec.Files["fileNOC"] = pdfFile("noc.pdf")
			},
			wantValid: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newTestValidator(t)
			rec := newRecord()
			fillPersonal(rec)
			fillDeclaration(rec)
			tt.mutate(rec)

			result := v.ValidateStep(rec, 6)
			if tt.wantValid {
				assert.True(t, result.Valid, "errors: %v", result.Errors)
				return
			}
			require.False(t, result.Valid)
			assert.Contains(t, errorFields(result), tt.wantField)
		})
	}
}

func TestValidateStep_DeclarationChecklistGate(t *testing.T) {
	v := newTestValidator(t)
	rec := newRecord()
	fillPersonal(rec)
	fillDeclaration(rec)
	rec.Checklist.Payment = false

	result := v.ValidateStep(rec, 6)
	require.False(t, result.Valid)
	assert.Empty(t, result.Errors)
	assert.Contains(t, result.Gate, "checklist")

	rec.Checklist.Payment = true
	result = v.ValidateStep(rec, 6)
	assert.True(t, result.Valid, "gate: %q errors: %v", result.Gate, result.Errors)
}

func TestValidateAll(t *testing.T) {
	v := newTestValidator(t)
	rec := newRecord()
	fillAll(rec)

	results := v.ValidateAll(rec)
	require.Len(t, results, 7)
	for _, res := range results {
		assert.True(t, res.Valid, fmt.Sprintf("step %d errors: %v", res.Step, res.Errors))
	}

	// Breaking one step fails only that step.
	delete(rec.Values, "utrNo")
	results = v.ValidateAll(rec)
	for _, res := range results {
		if res.Step == 5 {
			assert.False(t, res.Valid)
		} else {
			assert.True(t, res.Valid, fmt.Sprintf("step %d errors: %v", res.Step, res.Errors))
		}
	}
}
