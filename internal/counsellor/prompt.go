package counsellor

import (
	"fmt"
	"strings"

	"ai-counsellor-be/internal/constant"
	"ai-counsellor-be/internal/entity"
	"ai-counsellor-be/pkg/llm"
)

// BuildMessages assembles the prompt for one turn: the system prompt
// with a rendered context block, the bounded history window, and the
// incoming user message.
func BuildMessages(turn *TurnContext, history []entity.ChatMessage, userMessage string) []llm.Message {
	system := constant.CounsellorSystemPrompt + "\n\n" + renderContext(turn)

	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: "system", Content: system})
	for _, msg := range history {
		role := msg.Role
		if role != entity.MessageRoleUser && role != entity.MessageRoleAssistant {
			continue
		}
		messages = append(messages, llm.Message{Role: role, Content: msg.Content})
	}
	messages = append(messages, llm.Message{Role: "user", Content: userMessage})
	return messages
}

func renderContext(turn *TurnContext) string {
	var b strings.Builder

	b.WriteString("STUDENT CONTEXT\n")
	fmt.Fprintf(&b, "Name: %s\n", turn.User.FullName)
	fmt.Fprintf(&b, "Journey stage: %d (%s)\n", turn.User.Stage, constant.StageNames[turn.User.Stage])

	b.WriteString("\nProfile:\n")
	writeProfile(&b, turn.Profile)

	b.WriteString("\nShortlist:\n")
	if len(turn.Shortlist) == 0 {
		b.WriteString("- (empty)\n")
	}
	for _, entry := range turn.Shortlist {
		line := fmt.Sprintf("- %s (%s, %s)", entry.UniversityName, entry.Country, entry.Category)
		if entry.IsLocked {
			line += " [LOCKED]"
		}
		b.WriteString(line + "\n")
	}

	b.WriteString("\nTasks:\n")
	if len(turn.Tasks) == 0 {
		b.WriteString("- (none)\n")
	}
	for _, task := range turn.Tasks {
		fmt.Fprintf(&b, "- %s [%s]\n", task.Title, task.Status)
	}

	return b.String()
}

func writeProfile(b *strings.Builder, p entity.Profile) {
	if p.Gpa != nil {
		scale := 4.0
		if p.GpaScale != nil {
			scale = *p.GpaScale
		}
		fmt.Fprintf(b, "- GPA: %.2f / %.1f\n", *p.Gpa, scale)
	}
	if p.BudgetRangeMin != nil || p.BudgetRangeMax != nil {
		min, max := 0.0, 0.0
		if p.BudgetRangeMin != nil {
			min = *p.BudgetRangeMin
		}
		if p.BudgetRangeMax != nil {
			max = *p.BudgetRangeMax
		}
		fmt.Fprintf(b, "- Budget: %.0f - %.0f USD/year\n", min, max)
	}
	if len(p.PreferredCountries) > 0 {
		fmt.Fprintf(b, "- Preferred countries: %s\n", strings.Join(p.PreferredCountries, ", "))
	}
	if p.IntendedDegree != "" {
		fmt.Fprintf(b, "- Intended degree: %s\n", p.IntendedDegree)
	}
	if p.FieldOfStudy != "" {
		fmt.Fprintf(b, "- Field of study: %s\n", p.FieldOfStudy)
	}
	if p.TargetIntake != "" {
		fmt.Fprintf(b, "- Target intake: %s\n", p.TargetIntake)
	}
	if p.WorkExperience != "" {
		fmt.Fprintf(b, "- Work experience: %s\n", p.WorkExperience)
	}
	if p.ExtraNotes != "" {
		fmt.Fprintf(b, "- Notes: %s\n", p.ExtraNotes)
	}
}

// BuildFollowUpMessages seeds a second completion call with the action
// outcomes so the model can phrase a natural confirmation.
func BuildFollowUpMessages(userMessage string, outcomes []Outcome) []llm.Message {
	var b strings.Builder
	b.WriteString("Executed actions:\n")
	for _, o := range outcomes {
		status := "ok"
		if !o.Success {
			status = "failed"
		}
		fmt.Fprintf(&b, "- %s (%s): %s\n", o.Name, status, o.Message)
	}

	return []llm.Message{
		{Role: "system", Content: constant.FollowUpSystemPrompt},
		{Role: "user", Content: fmt.Sprintf("Student said: %q\n\n%s", userMessage, b.String())},
	}
}
