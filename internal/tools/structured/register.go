package structured

import "github.com/sulaljuhani/ai-assistant-local-stack-sub001/pkg/models"

// Tools builds every capability-set-S tool descriptor (spec §4.5): seven
// entities, five operations each. Callers register the result into
// experts.Registry via Registry.RegisterTool.
func Tools(store Store) []*models.ToolDescriptor {
	var out []*models.ToolDescriptor
	out = append(out, buildEntityTools("food_entry", store.FoodEntries(), foodEntryCreateSchema, foodEntryPatchSchema)...)
	out = append(out, buildEntityTools("task", store.Tasks(), taskCreateSchema, taskPatchSchema)...)
	out = append(out, buildEntityTools("reminder", store.Reminders(), reminderCreateSchema, reminderPatchSchema)...)
	out = append(out, buildEntityTools("event", store.Events(), eventCreateSchema, eventPatchSchema)...)
	out = append(out, buildEntityTools("note", store.Notes(), noteCreateSchema, notePatchSchema)...)
	out = append(out, buildEntityTools("document", store.Documents(), documentCreateSchema, documentPatchSchema)...)
	out = append(out, buildEntityTools("memory", store.Memories(), memoryCreateSchema, memoryPatchSchema)...)
	return out
}
