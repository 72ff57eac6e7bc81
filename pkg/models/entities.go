package models

import "time"

// Preference is the user's stated rating of a food entry.
type Preference string

const (
	PreferenceNeutral  Preference = "neutral"
	PreferenceLiked    Preference = "liked"
	PreferenceFavorite Preference = "favorite"
	PreferenceDisliked Preference = "disliked"
)

// Positive reports whether the preference counts as a positive rating for
// the purposes of the hybrid food recommendation filter (spec §4.5).
func (p Preference) Positive() bool {
	return p == PreferenceLiked || p == PreferenceFavorite
}

// FoodEntry is one logged meal/food item.
type FoodEntry struct {
	ID           string     `json:"id"`
	UserID       string     `json:"user_id"`
	Name         string     `json:"name"`
	Location     string     `json:"location,omitempty"`
	Preference   Preference `json:"preference"`
	ConsumedAt   time.Time  `json:"consumed_at"`
	IsMerged     bool       `json:"is_merged"`
	MergedFrom   []string   `json:"merged_from,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// RecurrenceRule is a standard 5-field cron expression describing when a
// recurring task produces its next instance.
type RecurrenceRule string

// Task is a user-tracked to-do, optionally recurring.
type Task struct {
	ID         string         `json:"id"`
	UserID     string         `json:"user_id"`
	Title      string         `json:"title"`
	Notes      string         `json:"notes,omitempty"`
	DueAt      *time.Time     `json:"due_at,omitempty"`
	Done       bool           `json:"done"`
	Recurrence RecurrenceRule `json:"recurrence,omitempty"`
	NextDate   *time.Time     `json:"next_date,omitempty"`
	ParentID   string         `json:"parent_id,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// Reminder fires a message at (or from) a specific time.
type Reminder struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Message   string    `json:"message"`
	Title     string    `json:"title,omitempty"`
	TriggerAt time.Time `json:"trigger_at"`
	Cancelled bool      `json:"cancelled"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Event is a calendar entry.
type Event struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	StartsAt  time.Time `json:"starts_at"`
	EndsAt    time.Time `json:"ends_at"`
	Location  string    `json:"location,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Note is a freeform, cross-domain text entry.
type Note struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title,omitempty"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Document is a larger attached artifact (cross-domain).
type Document struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	MimeType  string    `json:"mime_type,omitempty"`
	URI       string    `json:"uri"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MemoryEntry is a piece of free text slated for vector indexing.
type MemoryEntry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ConversationSummary is the structured-data view of a session used by the
// `conversation` entity's read operation, conversation_get (distinct from the full
// Session used internally by the runtime).
type ConversationSummary struct {
	SessionID     string    `json:"session_id"`
	UserID        string    `json:"user_id"`
	CurrentExpert string    `json:"current_expert,omitempty"`
	MessageCount  int       `json:"message_count"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Page is a cursor-paginated result set (spec §4.5: list operations support
// pagination by cursor and bounded page size).
type Page[T any] struct {
	Items      []T    `json:"items"`
	NextCursor string `json:"next_cursor,omitempty"`
}
