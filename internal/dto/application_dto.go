package dto

type ChecklistItemDTO struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Status      string   `json:"status"` // "required" | "conditional"
	Category    string   `json:"category,omitempty"`
	Tips        []string `json:"tips,omitempty"`
}

type DocumentChecklistResponse struct {
	Country   string             `json:"country"`
	Degree    string             `json:"degree"`
	Documents []ChecklistItemDTO `json:"documents"`
}

type TimelinePhaseDTO struct {
	Phase       string   `json:"phase"`
	Deadline    string   `json:"deadline"`
	Tasks       []string `json:"tasks,omitempty"`
	Status      string   `json:"status"` // "urgent" | "current" | "upcoming"
	Description string   `json:"description,omitempty"`
}

// TimelineResponse carries a generated application timeline.
// Source is "ai" or "default" when generation fell back.
type TimelineResponse struct {
	University string             `json:"university,omitempty"`
	Intake     string             `json:"intake,omitempty"`
	Phases     []TimelinePhaseDTO `json:"phases"`
	Source     string             `json:"source"`
}

type ApplicationGuidanceResponse struct {
	University ShortlistResponse         `json:"university"`
	Checklist  DocumentChecklistResponse `json:"checklist"`
	Timeline   TimelineResponse          `json:"timeline"`
}
