package counsellor

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"ai-counsellor-be/internal/entity"
	"ai-counsellor-be/internal/pkg/logger"
	"ai-counsellor-be/internal/repository/contract"
	"ai-counsellor-be/internal/repository/specification"
)

// LockFlow commits the user to one shortlisted university: unlock the
// previous entry, lock the new one, advance the stage, and seed the
// application tasks. Implemented by the shortlist service so the chat
// path and the REST path share one flow.
type LockFlow interface {
	Lock(ctx context.Context, userId, shortlistId uuid.UUID) (*entity.ShortlistEntry, error)
}

// Recommender regenerates university recommendations from the user's
// current stored profile.
type Recommender interface {
	Refresh(ctx context.Context, userId uuid.UUID) (*entity.RecommendationSet, error)
}

// Executor runs extracted actions in order against the stores. Every
// failure is local: one bad action never stops the rest of the queue.
type Executor struct {
	registry    *Registry
	users       contract.UserRepository
	shortlists  contract.ShortlistRepository
	tasks       contract.TaskRepository
	lockFlow    LockFlow
	recommender Recommender
	log         logger.ILogger
}

func NewExecutor(
	users contract.UserRepository,
	shortlists contract.ShortlistRepository,
	tasks contract.TaskRepository,
	lockFlow LockFlow,
	recommender Recommender,
	log logger.ILogger,
) *Executor {
	e := &Executor{
		users:       users,
		shortlists:  shortlists,
		tasks:       tasks,
		lockFlow:    lockFlow,
		recommender: recommender,
		log:         log,
	}

	r := NewRegistry()
	r.Register(Action{
		Name:        ActionShortlistUniversity,
		Description: "Add a university to the student's shortlist. No-op if it is already there.",
		Parameters: objectSchema(map[string]interface{}{
			"university_name": stringProp("Full university name"),
			"country":         stringProp("Country the university is in"),
			"program":         stringProp("Program or course of interest"),
			"category":        enumProp("Fit tier for this student", "Dream", "Target", "Safe"),
		}, "university_name"),
		Handler: e.shortlistUniversity,
	})
	r.Register(Action{
		Name:        ActionAddTask,
		Description: "Create a new to-do item for the student. Always creates, never updates.",
		Parameters: objectSchema(map[string]interface{}{
			"title":       stringProp("Short task title"),
			"description": stringProp("Optional details"),
			"category":    stringProp("Optional grouping, e.g. Documents, Tests"),
			"priority":    enumProp("Task priority", "high", "medium", "low"),
		}, "title"),
		Handler: e.addTask,
	})
	r.Register(Action{
		Name:        ActionSetTaskStatus,
		Description: "Update the status of an existing task, matched by a keyword from its title.",
		Parameters: objectSchema(map[string]interface{}{
			"keyword": stringProp("A distinctive word from the task title"),
			"status":  stringProp("New status, e.g. completed, in-progress, pending"),
		}, "keyword", "status"),
		Handler: e.setTaskStatus,
	})
	r.Register(Action{
		Name:        ActionLockUniversity,
		Description: "Commit to one shortlisted university and move the student to the application phase.",
		Parameters: objectSchema(map[string]interface{}{
			"university_name": stringProp("Name (or distinctive part of it) of a shortlisted university"),
		}, "university_name"),
		Handler: e.lockUniversity,
	})
	r.Register(Action{
		Name:        ActionUpdateProfile,
		Description: "Record one profile field the student mentioned, e.g. gpa, budget_range_max, preferred_countries.",
		Parameters: objectSchema(map[string]interface{}{
			"field": enumProp("Profile field to set",
				"gpa", "gpa_scale", "budget_range_min", "budget_range_max",
				"preferred_countries", "intended_degree", "field_of_study",
				"target_intake", "work_experience", "extra_notes"),
			"value": stringProp("The value the student gave, as stated"),
		}, "field", "value"),
		Handler: e.updateProfile,
	})
	r.Register(Action{
		Name:        ActionGetRecommendations,
		Description: "Generate fresh dream/target/safe university recommendations from the current profile.",
		Parameters:  objectSchema(map[string]interface{}{}),
		Handler:     e.getRecommendations,
	})
	e.registry = r

	return e
}

func (e *Executor) Registry() *Registry {
	return e.registry
}

// Execute runs the calls in order and collects one outcome each. A
// panic or error inside a handler is contained to that action.
func (e *Executor) Execute(ctx context.Context, userId uuid.UUID, calls []Call, turn *TurnContext) []Outcome {
	outcomes := make([]Outcome, 0, len(calls))
	for _, call := range calls {
		outcomes = append(outcomes, e.runOne(ctx, userId, call, turn))
	}
	return outcomes
}

func (e *Executor) runOne(ctx context.Context, userId uuid.UUID, call Call, turn *TurnContext) (outcome Outcome) {
	defer func() {
		if rec := recover(); rec != nil {
			e.log.Error("counsellor.executor", "action handler panicked", map[string]interface{}{
				"action": call.Name,
				"panic":  fmt.Sprintf("%v", rec),
			})
			outcome = failed(call.Name, "Something went wrong while performing this action.")
		}
	}()

	action, ok := e.registry.Get(call.Name)
	if !ok {
		return failed(call.Name, fmt.Sprintf("Unknown action '%s'.", call.Name))
	}
	if call.Args == nil {
		call.Args = map[string]interface{}{}
	}

	outcome = action.Handler(ctx, userId, call.Args, turn)
	e.log.Info("counsellor.executor", "action executed", map[string]interface{}{
		"action":  call.Name,
		"success": outcome.Success,
		"user_id": userId.String(),
	})
	return outcome
}

func (e *Executor) shortlistUniversity(ctx context.Context, userId uuid.UUID, args map[string]interface{}, turn *TurnContext) Outcome {
	name := argString(args, "university_name", "name", "university")
	if name == "" {
		return failed(ActionShortlistUniversity, "Missing required field 'university_name'.")
	}

	existing, err := e.shortlists.FindOne(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.ByUniversityName{Name: name},
	)
	if err != nil {
		return failed(ActionShortlistUniversity, "Could not check the shortlist right now.")
	}
	if existing != nil {
		return Outcome{
			Name:    ActionShortlistUniversity,
			Success: true,
			Message: fmt.Sprintf("%s is already in your shortlist.", existing.UniversityName),
			Data:    map[string]interface{}{"shortlist_id": existing.Id.String(), "duplicate": true},
		}
	}

	category := argString(args, "category")
	switch strings.ToLower(category) {
	case "dream":
		category = entity.CategoryDream
	case "safe":
		category = entity.CategorySafe
	default:
		category = entity.CategoryTarget
	}

	entry := &entity.ShortlistEntry{
		Id:             uuid.New(),
		UserId:         userId,
		UniversityName: name,
		Country:        argString(args, "country"),
		Program:        argString(args, "program"),
		Category:       category,
	}
	if err := e.shortlists.Create(ctx, entry); err != nil {
		return failed(ActionShortlistUniversity, fmt.Sprintf("Could not add %s to your shortlist.", name))
	}

	turn.Shortlist = append(turn.Shortlist, entry)
	return Outcome{
		Name:    ActionShortlistUniversity,
		Success: true,
		Message: fmt.Sprintf("Added %s to your shortlist as a %s school.", name, category),
		Data:    map[string]interface{}{"shortlist_id": entry.Id.String(), "university_name": name},
	}
}

func (e *Executor) addTask(ctx context.Context, userId uuid.UUID, args map[string]interface{}, turn *TurnContext) Outcome {
	title := argString(args, "title", "task", "name")
	if title == "" {
		return failed(ActionAddTask, "Missing required field 'title'.")
	}

	priority := strings.ToLower(argString(args, "priority"))
	switch priority {
	case "high", "medium", "low":
	default:
		priority = "medium"
	}

	task := &entity.Task{
		Id:          uuid.New(),
		UserId:      userId,
		Title:       title,
		Description: argString(args, "description"),
		Category:    argString(args, "category"),
		Priority:    priority,
		Status:      entity.TaskStatusNotStarted,
		AiGenerated: true,
	}
	if err := e.tasks.Create(ctx, task); err != nil {
		return failed(ActionAddTask, fmt.Sprintf("Could not create the task '%s'.", title))
	}

	turn.Tasks = append(turn.Tasks, task)
	return Outcome{
		Name:    ActionAddTask,
		Success: true,
		Message: fmt.Sprintf("Added task: %s.", title),
		Data:    map[string]interface{}{"task_id": task.Id.String(), "title": title},
	}
}

func (e *Executor) setTaskStatus(ctx context.Context, userId uuid.UUID, args map[string]interface{}, turn *TurnContext) Outcome {
	keyword := argString(args, "keyword", "title", "task")
	if keyword == "" {
		return failed(ActionSetTaskStatus, "Missing required field 'keyword'.")
	}
	rawStatus := argString(args, "status")
	if rawStatus == "" {
		return failed(ActionSetTaskStatus, "Missing required field 'status'.")
	}
	status := NormalizeStatus(rawStatus)

	tasks, err := e.tasks.FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return failed(ActionSetTaskStatus, "Could not load your tasks right now.")
	}

	// First match by creation order keeps resolution deterministic when
	// several titles contain the keyword.
	var target *entity.Task
	for _, task := range tasks {
		if strings.Contains(strings.ToLower(task.Title), strings.ToLower(keyword)) {
			target = task
			break
		}
	}
	if target == nil {
		return failed(ActionSetTaskStatus, fmt.Sprintf("No task matching '%s' was found.", keyword))
	}

	target.Status = status
	if status == entity.TaskStatusCompleted {
		now := timeNow()
		target.CompletedAt = &now
	} else {
		target.CompletedAt = nil
	}
	if err := e.tasks.Update(ctx, target); err != nil {
		return failed(ActionSetTaskStatus, fmt.Sprintf("Could not update the task '%s'.", target.Title))
	}

	for i, task := range turn.Tasks {
		if task.Id == target.Id {
			turn.Tasks[i] = target
		}
	}
	return Outcome{
		Name:    ActionSetTaskStatus,
		Success: true,
		Message: fmt.Sprintf("Marked '%s' as %s.", target.Title, status),
		Data:    map[string]interface{}{"task_id": target.Id.String(), "title": target.Title, "status": status},
	}
}

func (e *Executor) lockUniversity(ctx context.Context, userId uuid.UUID, args map[string]interface{}, turn *TurnContext) Outcome {
	keyword := argString(args, "university_name", "name", "keyword")
	if keyword == "" {
		return failed(ActionLockUniversity, "Missing required field 'university_name'.")
	}

	entries := turn.Shortlist
	if len(entries) == 0 {
		fresh, err := e.shortlists.FindAll(ctx, specification.UserOwnedBy{UserID: userId})
		if err != nil {
			return failed(ActionLockUniversity, "Could not load your shortlist right now.")
		}
		entries = fresh
	}

	// Partial match in either direction: "mit" finds "MIT" and
	// "Massachusetts Institute of Technology (MIT)" finds "MIT".
	lowered := strings.ToLower(keyword)
	var target *entity.ShortlistEntry
	for _, entry := range entries {
		name := strings.ToLower(entry.UniversityName)
		if strings.Contains(name, lowered) || strings.Contains(lowered, name) {
			target = entry
			break
		}
	}
	if target == nil {
		return failed(ActionLockUniversity, fmt.Sprintf("'%s' is not in your shortlist, so it cannot be locked.", keyword))
	}

	locked, err := e.lockFlow.Lock(ctx, userId, target.Id)
	if err != nil {
		return failed(ActionLockUniversity, fmt.Sprintf("Could not lock %s.", target.UniversityName))
	}

	for _, entry := range turn.Shortlist {
		entry.IsLocked = entry.Id == locked.Id
	}
	turn.User.Stage = entity.StageApplication
	return Outcome{
		Name:    ActionLockUniversity,
		Success: true,
		Message: fmt.Sprintf("Locked %s. You're now in the application phase.", locked.UniversityName),
		Data:    map[string]interface{}{"shortlist_id": locked.Id.String(), "university_name": locked.UniversityName},
	}
}

func (e *Executor) updateProfile(ctx context.Context, userId uuid.UUID, args map[string]interface{}, turn *TurnContext) Outcome {
	field := argString(args, "field")
	if field == "" {
		return failed(ActionUpdateProfile, "Missing required field 'field'.")
	}
	raw, ok := args["value"]
	if !ok {
		return failed(ActionUpdateProfile, "Missing required field 'value'.")
	}

	value := NormalizeProfileValue(field, raw)
	merged, err := e.users.UpdateProfileField(ctx, userId, field, value)
	if err != nil {
		return failed(ActionUpdateProfile, fmt.Sprintf("Could not update '%s' on your profile.", field))
	}

	// Refresh the in-turn profile so later actions see the new value.
	turn.Profile = profileFromMap(merged)
	turn.User.Profile = turn.Profile
	return Outcome{
		Name:    ActionUpdateProfile,
		Success: true,
		Message: fmt.Sprintf("Updated your %s.", strings.ReplaceAll(field, "_", " ")),
		Data:    map[string]interface{}{"field": field, "value": value, "profile": merged},
	}
}

func (e *Executor) getRecommendations(ctx context.Context, userId uuid.UUID, _ map[string]interface{}, turn *TurnContext) Outcome {
	// Regenerates from the stored profile, not the in-memory copy, so a
	// profile update earlier in the same turn is reflected.
	set, err := e.recommender.Refresh(ctx, userId)
	if err != nil {
		return failed(ActionGetRecommendations, "Could not generate recommendations right now.")
	}

	total := len(set.Dream) + len(set.Target) + len(set.Safe)
	return Outcome{
		Name:    ActionGetRecommendations,
		Success: true,
		Message: fmt.Sprintf("Generated %d fresh university recommendations. Check the recommendations page.", total),
		Data: map[string]interface{}{
			"dream":  len(set.Dream),
			"target": len(set.Target),
			"safe":   len(set.Safe),
		},
	}
}

func failed(name, message string) Outcome {
	return Outcome{Name: name, Success: false, Message: message}
}
