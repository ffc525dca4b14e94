package rules

// Default returns the compiled-in rule table for the standard
// seven-step recruitment application form.
func Default() *Table {
	t := &Table{
		Steps: []Step{
			{
				Index:  0,
				Title:  "Instructions",
				Ack:    AckInstructions,
				Fields: []Field{},
			},
			{
				Index: 1,
				Title: "Personal Details",
				Fields: []Field{
					req("postAppliedFor", KindText),
					req("category", KindOption, withOptions("GEN", "SC", "BC-A", "BC-B", "EWS", "ESM", "PwD")),
					req("advertisementRef", KindText),
					req("name", KindText),
					req("fatherName", KindText),
					req("dob", KindDate),
					req("permanentAddress", KindText),
					req("correspondenceAddress", KindText),
					req("contactNo1", KindPhone),
					opt("contactNo2", KindPhone),
					req("email", KindEmail),
					matching("confirmEmail", KindEmail, "email"),
					opt("presentEmployer", KindText),
					reqFile("photo", "Passport Photograph"),
				},
			},
			{
				Index: 2,
				Title: "Academic Qualifications",
				Fields: []Field{
					count("academicMasters", 5, true),
					count("academicGraduation", 5, true),
					count("academic12th", 5, true),
					count("academicMatric", 5, true),
					reqFile("fileAcademic", "Academic Documents"),
				},
			},
			{
				Index: 3,
				Title: "Teaching and Administrative Experience",
				Fields: []Field{
					count("teachingExpAbove15", 10, true),
					count("adminJointDirector", 25, true),
					count("adminRegistrar", 25, true),
					count("adminHead", 25, true),
					reqFile("fileTeaching", "Teaching Experience Documents"),
					reqFile("fileAdminSkill", "Administrative Skill Documents"),
				},
				SumCaps: []SumCap{
					{Fields: []string{"adminJointDirector", "adminRegistrar", "adminHead"}, Max: 25},
				},
			},
			{
				Index: 4,
				Title: "Responsibilities and Committees",
				Fields: []Field{
					count("respStaffRep", 3, false),
					count("respCoordinator", 3, false),
					count("respBursar", 3, false),
					count("respNSS", 3, false),
					count("respYRC", 3, false),
					count("respWarden", 3, false),
					count("respStatutory", 2, false),
					count("respNCC", 3, false),
					count("commIQAC", 2, false),
					count("commEditor", 2, false),
					count("commAdvisory", 2, false),
					count("commWork", 2, false),
					count("commCultural", 2, false),
					count("commPurchase", 2, false),
					count("commBuilding", 2, false),
					count("commSports", 2, false),
					count("commDiscipline", 2, false),
					count("commInternal", 2, false),
					count("commRoadSafety", 2, false),
					count("commRedRibbon", 2, false),
					count("commEco", 2, false),
					count("commPlacement", 2, false),
					count("commWomen", 2, false),
					count("commTimeTable", 2, false),
					count("commSCBC", 2, false),
					reqFile("fileAdmin", "Responsibility Documents"),
				},
			},
			{
				Index: 5,
				Title: "Research Contributions and Payment",
				Ack:   AckTable2,
				Fields: append(researchFields(), []Field{
					reqFileTier("fileResearch", "Research Documents", TierResearch),
					opt("googleDriveLink", KindURL),
					req("utrNo", KindText),
					req("draftDate", KindDate),
					req("draftAmount", KindText),
					req("bankName", KindText),
				}...),
			},
			{
				Index: 6,
				Title: "Declaration and Submission",
				Fields: []Field{
					req("parentName", KindText),
					req("place", KindText),
					req("date", KindDate),
					reqFile("signature", "Signature"),
					req("hasNOC", KindOption, withOptions("yes", "no")),
					when("empName", KindText, "hasNOC", "yes"),
					when("empDesignation", KindText, "hasNOC", "yes"),
					when("empDept", KindText, "hasNOC", "yes"),
					opt("empNoticePeriod", KindText),
					whenFile("fileNOC", "No Objection Certificate", "hasNOC", "yes"),
				},
				RequiresChecklist: true,
			},
		},
	}

	if err := t.init(); err != nil {
		// The default table is fixed at compile time; a failure here is
		// a programming error.
		panic(err)
	}
	return t
}

// Research counts in form order. Every entry is required: applicants
// must enter "0" explicitly rather than leaving the field blank.
func researchFields() []Field {
	fields := []Field{
		countSA("resPapers", 8, 10),
		count("resBooksInt", 12, true),
		count("resBooksNat", 10, true),
		count("resChapter", 5, true),
		count("resEditorInt", 10, true),
		count("resEditorNat", 8, true),
		count("resTransChapter", 3, true),
		count("resTransBook", 8, true),
		count("resIctPedagogy", 5, true),
		count("resIctCurricula", 2, true),
		count("resMoocs4Quad", 20, true),
		count("resMoocsModule", 5, true),
		count("resMoocsContent", 2, true),
		count("resMoocsCoord", 8, true),
		count("resEcontentComplete", 12, true),
		count("resEcontentModule", 5, true),
		count("resEcontentContrib", 2, true),
		count("resEcontentEditor", 10, true),
		count("resPhd", 10, true),
		count("resMphil", 2, true),
		count("resProjMore10", 10, true),
		count("resProjLess10", 5, true),
		count("resProjOngoingMore10", 5, true),
		count("resProjOngoingLess10", 2, true),
		count("resConsultancy", 3, true),
		countSA("resPatentInt", 10, 0),
		countSA("resPatentNat", 7, 0),
		count("resPolicyInt", 10, true),
		count("resPolicyNat", 7, true),
		count("resPolicyState", 4, true),
		count("resAwardInt", 7, true),
		count("resAwardNat", 5, true),
		countSA("resInvitedIntAbroad", 7, 0),
		countSA("resInvitedIntWithin", 5, 0),
		countSA("resInvitedNat", 3, 0),
		countSA("resInvitedState", 2, 0),
	}
	for i := range fields {
		fields[i].Research = true
	}
	return fields
}

// --- Table construction helpers ---

func req(name string, kind Kind, mods ...func(*Field)) Field {
	f := Field{Name: name, Kind: kind, Required: true}
	for _, m := range mods {
		m(&f)
	}
	return f
}

func opt(name string, kind Kind, mods ...func(*Field)) Field {
	f := Field{Name: name, Kind: kind}
	for _, m := range mods {
		m(&f)
	}
	return f
}

func matching(name string, kind Kind, target string) Field {
	return Field{Name: name, Kind: kind, Required: true, MustMatch: target}
}

func count(name string, max int, required bool) Field {
	return Field{Name: name, Kind: KindCount, Required: required, Max: max}
}

// countSA sets distinct ceilings for the science and arts streams.
func countSA(name string, science, arts int) Field {
	a := arts
	return Field{Name: name, Kind: KindCount, Required: true, Max: science, MaxArts: &a}
}

func reqFile(name, label string) Field {
	return Field{Name: name, Kind: KindFile, Label: label, Required: true, Tier: TierGeneral}
}

func reqFileTier(name, label, tier string) Field {
	return Field{Name: name, Kind: KindFile, Label: label, Required: true, Tier: tier}
}

func when(name string, kind Kind, condField, condValue string) Field {
	return Field{Name: name, Kind: kind, RequiredWhen: &When{Field: condField, Equals: condValue}}
}

func whenFile(name, label, condField, condValue string) Field {
	return Field{Name: name, Kind: KindFile, Label: label, Tier: TierGeneral, RequiredWhen: &When{Field: condField, Equals: condValue}}
}

func withOptions(options ...string) func(*Field) {
	return func(f *Field) {
		f.Options = options
	}
}
