package constant

import "ai-counsellor-be/internal/dto"

// CommonDocuments apply to every application regardless of destination.
var CommonDocuments = []dto.ChecklistItemDTO{
	{
		Name:        "Statement of Purpose (SOP)",
		Description: "1-2 page essay explaining your motivation and goals",
		Status:      "required",
		Category:    "essays",
		Tips: []string{
			"Be specific about why this university and program",
			"Highlight relevant experience",
			"Show genuine interest and research",
		},
	},
	{
		Name:        "Letters of Recommendation (LOR)",
		Description: "2-3 letters from professors or employers",
		Status:      "required",
		Category:    "recommendations",
		Tips: []string{
			"Choose recommenders who know you well",
			"Give them at least 3-4 weeks notice",
			"Provide them with your resume and goals",
		},
	},
	{
		Name:        "Academic Transcripts",
		Description: "Official transcripts from all institutions",
		Status:      "required",
		Category:    "academic",
		Tips: []string{
			"Request official sealed transcripts",
			"Keep digital and physical copies",
			"Get translations if not in English",
		},
	},
	{
		Name:        "Resume/CV",
		Description: "Updated academic/professional resume",
		Status:      "required",
		Category:    "professional",
		Tips: []string{
			"Highlight relevant experience",
			"Keep it to 1-2 pages",
			"Use clear, professional formatting",
		},
	},
	{
		Name:        "Passport Copy",
		Description: "Valid passport (at least 6 months validity)",
		Status:      "required",
		Category:    "identification",
	},
}

// CountryDocuments hold destination-specific additions.
var CountryDocuments = map[string][]dto.ChecklistItemDTO{
	"USA": {
		{
			Name:        "I-20 Form",
			Description: "Certificate of Eligibility for F-1 status",
			Status:      "required",
			Category:    "visa",
			Tips:        []string{"Issued by university after admission", "Required for visa application"},
		},
		{
			Name:        "Financial Proof",
			Description: "Bank statements showing $40-80K",
			Status:      "required",
			Category:    "financial",
			Tips:        []string{"Include sponsor affidavit if applicable", "Must cover 1 year of expenses"},
		},
		{
			Name:        "TOEFL/IELTS Score",
			Description: "English proficiency test scores",
			Status:      "required",
			Category:    "tests",
		},
	},
	"UK": {
		{
			Name:        "CAS Letter",
			Description: "Confirmation of Acceptance for Studies",
			Status:      "required",
			Category:    "visa",
		},
		{
			Name:        "Financial Proof (28-day rule)",
			Description: "Bank statements for visa application",
			Status:      "required",
			Category:    "financial",
		},
	},
	"Canada": {
		{
			Name:        "Provincial Attestation Letter (PAL)",
			Description: "Required for study permit (as of 2024)",
			Status:      "required",
			Category:    "visa",
		},
		{
			Name:        "Proof of Funds",
			Description: "Show CAD $20,000+ for living expenses",
			Status:      "required",
			Category:    "financial",
		},
	},
	"Germany": {
		{
			Name:        "Blocked Account (Sperrkonto)",
			Description: "Proof of funds (~€11,000/year)",
			Status:      "required",
			Category:    "financial",
		},
		{
			Name:        "APS Certificate",
			Description: "Academic evaluation (if from certain countries)",
			Status:      "conditional",
			Category:    "academic",
		},
	},
}

// GraduateTestDocument is appended for Master's and MBA applicants.
var GraduateTestDocument = dto.ChecklistItemDTO{
	Name:        "GRE/GMAT Scores",
	Description: "Standardized test scores",
	Status:      "conditional",
	Category:    "tests",
	Tips:        []string{"Check if waived for your profile", "Aim for 320+ (GRE) or 700+ (GMAT)"},
}
