package render

// Human-readable labels for form fields as they appear on the printed
// application. Order inside each table follows the form layout.

var personalLabels = []labelled{
	{"postAppliedFor", "Post Applied For"},
	{"category", "Category"},
	{"advertisementRef", "Advertisement Reference"},
	{"name", "Name of the Applicant"},
	{"fatherName", "Father's / Husband's Name"},
	{"dob", "Date of Birth"},
	{"permanentAddress", "Permanent Address"},
	{"correspondenceAddress", "Address for Correspondence"},
	{"contactNo1", "Contact No. 1"},
	{"contactNo2", "Contact No. 2"},
	{"email", "Email"},
	{"presentEmployer", "Present Employer (if any)"},
}

var academicLabels = []labelled{
	{"academicMasters", "Master's Degree"},
	{"academicGraduation", "Graduation"},
	{"academic12th", "10+2 or Equivalent"},
	{"academicMatric", "Matriculation"},
}

var adminLabels = []labelled{
	{"adminJointDirector", "Joint Director / Deputy Director"},
	{"adminRegistrar", "Registrar / Controller of Examinations"},
	{"adminHead", "Head of the Department / Principal"},
}

var responsibilityLabels = []labelled{
	{"respStaffRep", "Staff Council Representative"},
	{"respCoordinator", "Programme Coordinator"},
	{"respBursar", "Bursar"},
	{"respNSS", "NSS Programme Officer"},
	{"respYRC", "Youth Red Cross Counsellor"},
	{"respWarden", "Hostel Warden"},
	{"respStatutory", "Member of Statutory Body"},
	{"respNCC", "NCC Officer"},
}

var committeeLabels = []labelled{
	{"commIQAC", "IQAC Committee"},
	{"commEditor", "Editor, College Magazine"},
	{"commAdvisory", "Advisory Committee"},
	{"commWork", "Work Committee"},
	{"commCultural", "Cultural Committee"},
	{"commPurchase", "Purchase Committee"},
	{"commBuilding", "Building Committee"},
	{"commSports", "Sports Committee"},
	{"commDiscipline", "Discipline Committee"},
	{"commInternal", "Internal Complaints Committee"},
	{"commRoadSafety", "Road Safety Club"},
	{"commRedRibbon", "Red Ribbon Club"},
	{"commEco", "Eco Club"},
	{"commPlacement", "Placement Cell"},
	{"commWomen", "Women Cell"},
	{"commTimeTable", "Time Table Committee"},
	{"commSCBC", "SC/BC Cell"},
}

var researchLabels = []labelled{
	{"resPapers", "Research papers in UGC listed journals"},
	{"resBooksInt", "Books published by international publishers"},
	{"resBooksNat", "Books published by national publishers"},
	{"resChapter", "Chapters in edited books"},
	{"resEditorInt", "Editor of book, international publisher"},
	{"resEditorNat", "Editor of book, national publisher"},
	{"resTransChapter", "Translation of a chapter"},
	{"resTransBook", "Translation of a book"},
	{"resIctPedagogy", "Development of innovative pedagogy"},
	{"resIctCurricula", "Design of new curricula and courses"},
	{"resMoocs4Quad", "MOOCs developed with all four quadrants"},
	{"resMoocsModule", "MOOCs module developed"},
	{"resMoocsContent", "Content writer / subject matter expert for MOOCs"},
	{"resMoocsCoord", "Course coordinator for MOOCs"},
	{"resEcontentComplete", "E-content: complete course developed"},
	{"resEcontentModule", "E-content: module developed"},
	{"resEcontentContrib", "E-content contribution to a module"},
	{"resEcontentEditor", "Editor of e-content for a complete course"},
	{"resPhd", "Ph.D. degrees awarded under supervision"},
	{"resMphil", "M.Phil. / P.G. dissertations guided"},
	{"resProjMore10", "Completed research project (above 10 lakhs)"},
	{"resProjLess10", "Completed research project (below 10 lakhs)"},
	{"resProjOngoingMore10", "Ongoing research project (above 10 lakhs)"},
	{"resProjOngoingLess10", "Ongoing research project (below 10 lakhs)"},
	{"resConsultancy", "Consultancy projects"},
	{"resPatentInt", "International patents"},
	{"resPatentNat", "National patents"},
	{"resPolicyInt", "Policy document, international body"},
	{"resPolicyNat", "Policy document, national body"},
	{"resPolicyState", "Policy document, state body"},
	{"resAwardInt", "International award / fellowship"},
	{"resAwardNat", "National award / fellowship"},
	{"resInvitedIntAbroad", "Invited lecture, international (abroad)"},
	{"resInvitedIntWithin", "Invited lecture, international (within country)"},
	{"resInvitedNat", "Invited lecture, national"},
	{"resInvitedState", "Invited lecture, state / university level"},
}

var paymentLabels = []labelled{
	{"utrNo", "UTR / Transaction No."},
	{"draftDate", "Date of Payment"},
	{"draftAmount", "Amount"},
	{"bankName", "Bank Name"},
}

var nocLabels = []labelled{
	{"empName", "Employer Name"},
	{"empDesignation", "Designation Held"},
	{"empDept", "Department"},
	{"empNoticePeriod", "Notice Period"},
}

type labelled struct {
	field string
	label string
}
