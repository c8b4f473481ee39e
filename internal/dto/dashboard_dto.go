package dto

type DashboardResponse struct {
	Stage             int                `json:"stage"`
	StageName         string             `json:"stage_name"`
	ProfileStrength   string             `json:"profile_strength"`
	ProfileCompletion int                `json:"profile_completion"`
	ShortlistCount    int64              `json:"shortlist_count"`
	LockedUniversity  *ShortlistResponse `json:"locked_university,omitempty"`
	TaskStats         TaskStatsResponse  `json:"task_stats"`
	NextSteps         []string           `json:"next_steps"`
}
