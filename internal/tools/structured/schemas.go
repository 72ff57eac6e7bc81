package structured

import "encoding/json"

// Create/patch JSON Schemas for each structured entity. Kept as literal
// documents (rather than generated from the Go struct tags) since the
// create schema is intentionally narrower than the full stored shape —
// server-assigned fields like id/created_at/updated_at are never
// accepted from the model.

var foodEntryCreateSchema = json.RawMessage(`{
	"type": "object",
	"required": ["user_id", "entity"],
	"properties": {
		"user_id": {"type": "string"},
		"entity": {
			"type": "object",
			"required": ["name", "preference"],
			"properties": {
				"name": {"type": "string"},
				"location": {"type": "string"},
				"preference": {"type": "string", "enum": ["neutral", "liked", "favorite", "disliked"]},
				"consumed_at": {"type": "string", "format": "date-time"}
			}
		}
	}
}`)

var foodEntryPatchSchema = json.RawMessage(`{
	"type": "object",
	"required": ["user_id", "id", "patch"],
	"properties": {
		"user_id": {"type": "string"},
		"id": {"type": "string"},
		"patch": {
			"type": "object",
			"properties": {
				"name": {"type": "string"},
				"location": {"type": "string"},
				"preference": {"type": "string", "enum": ["neutral", "liked", "favorite", "disliked"]},
				"consumed_at": {"type": "string", "format": "date-time"}
			}
		}
	}
}`)

var taskCreateSchema = json.RawMessage(`{
	"type": "object",
	"required": ["user_id", "entity"],
	"properties": {
		"user_id": {"type": "string"},
		"entity": {
			"type": "object",
			"required": ["title"],
			"properties": {
				"title": {"type": "string"},
				"notes": {"type": "string"},
				"due_at": {"type": "string", "format": "date-time"},
				"recurrence": {"type": "string"}
			}
		}
	}
}`)

var taskPatchSchema = json.RawMessage(`{
	"type": "object",
	"required": ["user_id", "id", "patch"],
	"properties": {
		"user_id": {"type": "string"},
		"id": {"type": "string"},
		"patch": {
			"type": "object",
			"properties": {
				"title": {"type": "string"},
				"notes": {"type": "string"},
				"due_at": {"type": "string", "format": "date-time"},
				"done": {"type": "boolean"},
				"recurrence": {"type": "string"}
			}
		}
	}
}`)

var reminderCreateSchema = json.RawMessage(`{
	"type": "object",
	"required": ["user_id", "entity"],
	"properties": {
		"user_id": {"type": "string"},
		"entity": {
			"type": "object",
			"required": ["message", "trigger_at"],
			"properties": {
				"message": {"type": "string"},
				"title": {"type": "string"},
				"trigger_at": {"type": "string", "format": "date-time"}
			}
		}
	}
}`)

var reminderPatchSchema = json.RawMessage(`{
	"type": "object",
	"required": ["user_id", "id", "patch"],
	"properties": {
		"user_id": {"type": "string"},
		"id": {"type": "string"},
		"patch": {
			"type": "object",
			"properties": {
				"message": {"type": "string"},
				"title": {"type": "string"},
				"trigger_at": {"type": "string", "format": "date-time"},
				"cancelled": {"type": "boolean"}
			}
		}
	}
}`)

var eventCreateSchema = json.RawMessage(`{
	"type": "object",
	"required": ["user_id", "entity"],
	"properties": {
		"user_id": {"type": "string"},
		"entity": {
			"type": "object",
			"required": ["title", "starts_at", "ends_at"],
			"properties": {
				"title": {"type": "string"},
				"starts_at": {"type": "string", "format": "date-time"},
				"ends_at": {"type": "string", "format": "date-time"},
				"location": {"type": "string"}
			}
		}
	}
}`)

var eventPatchSchema = json.RawMessage(`{
	"type": "object",
	"required": ["user_id", "id", "patch"],
	"properties": {
		"user_id": {"type": "string"},
		"id": {"type": "string"},
		"patch": {
			"type": "object",
			"properties": {
				"title": {"type": "string"},
				"starts_at": {"type": "string", "format": "date-time"},
				"ends_at": {"type": "string", "format": "date-time"},
				"location": {"type": "string"}
			}
		}
	}
}`)

var noteCreateSchema = json.RawMessage(`{
	"type": "object",
	"required": ["user_id", "entity"],
	"properties": {
		"user_id": {"type": "string"},
		"entity": {
			"type": "object",
			"required": ["body"],
			"properties": {
				"title": {"type": "string"},
				"body": {"type": "string"}
			}
		}
	}
}`)

var notePatchSchema = json.RawMessage(`{
	"type": "object",
	"required": ["user_id", "id", "patch"],
	"properties": {
		"user_id": {"type": "string"},
		"id": {"type": "string"},
		"patch": {
			"type": "object",
			"properties": {
				"title": {"type": "string"},
				"body": {"type": "string"}
			}
		}
	}
}`)

var documentCreateSchema = json.RawMessage(`{
	"type": "object",
	"required": ["user_id", "entity"],
	"properties": {
		"user_id": {"type": "string"},
		"entity": {
			"type": "object",
			"required": ["title", "uri"],
			"properties": {
				"title": {"type": "string"},
				"mime_type": {"type": "string"},
				"uri": {"type": "string"}
			}
		}
	}
}`)

var documentPatchSchema = json.RawMessage(`{
	"type": "object",
	"required": ["user_id", "id", "patch"],
	"properties": {
		"user_id": {"type": "string"},
		"id": {"type": "string"},
		"patch": {
			"type": "object",
			"properties": {
				"title": {"type": "string"},
				"mime_type": {"type": "string"},
				"uri": {"type": "string"}
			}
		}
	}
}`)

var memoryCreateSchema = json.RawMessage(`{
	"type": "object",
	"required": ["user_id", "entity"],
	"properties": {
		"user_id": {"type": "string"},
		"entity": {
			"type": "object",
			"required": ["text"],
			"properties": {
				"text": {"type": "string"}
			}
		}
	}
}`)

var memoryPatchSchema = json.RawMessage(`{
	"type": "object",
	"required": ["user_id", "id", "patch"],
	"properties": {
		"user_id": {"type": "string"},
		"id": {"type": "string"},
		"patch": {
			"type": "object",
			"properties": {
				"text": {"type": "string"}
			}
		}
	}
}`)
