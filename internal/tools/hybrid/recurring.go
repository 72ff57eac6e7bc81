package hybrid

import (
	"context"
	"encoding/json"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/sulaljuhani/ai-assistant-local-stack-sub001/internal/coreerrors"
	"github.com/sulaljuhani/ai-assistant-local-stack-sub001/internal/tools/structured"
	"github.com/sulaljuhani/ai-assistant-local-stack-sub001/pkg/models"
)

// RecurringExpander implements spec.md §4.5's recurring task expansion:
// for each active recurring task whose next instance date is due, insert
// a concrete instance and advance the parent's next-date pointer,
// grounded on the teacher's github.com/robfig/cron/v3 dependency for
// interpreting the recurrence rule's standard 5-field cron expression —
// the core only ever evaluates the expression once per call, it never
// runs a live cron.Scheduler (that belongs to the out-of-scope job
// scheduler).
type RecurringExpander struct {
	store  structured.EntityStore[models.Task]
	parser cron.Parser
}

// NewRecurringExpander builds a RecurringExpander over store.
func NewRecurringExpander(store structured.EntityStore[models.Task]) *RecurringExpander {
	return &RecurringExpander{
		store:  store,
		parser: cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow),
	}
}

// Expanded is one newly materialized task instance.
type Expanded struct {
	Instance models.Task `json:"instance"`
	Parent   models.Task `json:"parent"`
}

// Expand scans userID's active recurring tasks and materializes every
// instance whose next_date is due (<= now), advancing each parent's
// pointer past it. Idempotent by (parent_id, next_date): an instance
// already materialized for a given next_date is never duplicated.
func (r *RecurringExpander) Expand(ctx context.Context, userID string, now time.Time) ([]Expanded, error) {
	var parents []models.Task
	cursor := ""
	for {
		page, err := r.store.List(ctx, userID, func(t *models.Task) bool {
			return t.Recurrence != "" && t.ParentID == "" && t.NextDate != nil && !t.NextDate.After(now)
		}, cursor, structured.MaxPageSize)
		if err != nil {
			return nil, err
		}
		parents = append(parents, page.Items...)
		if page.NextCursor == "" {
			break
		}
		cursor = page.NextCursor
	}

	var out []Expanded
	for _, parent := range parents {
		schedule, err := r.parser.Parse(string(parent.Recurrence))
		if err != nil {
			return nil, coreerrors.Wrap(coreerrors.KindInvalidArgument, err, "invalid recurrence rule on task %q", parent.ID)
		}

		dueAt := *parent.NextDate
		already, err := r.alreadyExpanded(ctx, userID, parent.ID, dueAt)
		if err != nil {
			return nil, err
		}

		var instance models.Task
		if !already {
			instance = models.Task{
				UserID:   userID,
				Title:    parent.Title,
				Notes:    parent.Notes,
				DueAt:    &dueAt,
				ParentID: parent.ID,
			}
			if err := r.store.Create(ctx, userID, &instance); err != nil {
				return nil, err
			}
		}

		next := schedule.Next(dueAt)
		updatedParent, err := r.store.Update(ctx, userID, parent.ID, func(t *models.Task) {
			t.NextDate = &next
		})
		if err != nil {
			return nil, err
		}
		if !already {
			out = append(out, Expanded{Instance: instance, Parent: *updatedParent})
		}
	}
	return out, nil
}

func (r *RecurringExpander) alreadyExpanded(ctx context.Context, userID, parentID string, dueAt time.Time) (bool, error) {
	page, err := r.store.List(ctx, userID, func(t *models.Task) bool {
		return t.ParentID == parentID && t.DueAt != nil && t.DueAt.Equal(dueAt)
	}, "", structured.MaxPageSize)
	if err != nil {
		return false, err
	}
	return len(page.Items) > 0, nil
}

// Tool builds the task_recurring_expand tool descriptor.
func (r *RecurringExpander) Tool() *models.ToolDescriptor {
	schema := []byte(`{
		"type": "object",
		"required": ["user_id"],
		"properties": {"user_id": {"type": "string"}}
	}`)
	return &models.ToolDescriptor{
		Name:            "task_recurring_expand",
		Description:     "Materialize due instances of the user's recurring tasks and advance their schedules.",
		ParameterSchema: schema,
		SideEffectClass: models.SideEffectWrite,
		Idempotent:      true,
		Handler: func(ctx context.Context, arguments json.RawMessage) (json.RawMessage, error) {
			var args struct {
				UserID string `json:"user_id"`
			}
			if err := json.Unmarshal(arguments, &args); err != nil {
				return nil, coreerrors.Wrap(coreerrors.KindInvalidArgument, err, "decode task_recurring_expand arguments")
			}
			expanded, err := r.Expand(ctx, args.UserID, time.Now())
			if err != nil {
				return nil, err
			}
			return json.Marshal(map[string]any{"expanded": expanded})
		},
	}
}
