package structured

import (
	"context"
	"testing"

	"github.com/sulaljuhani/ai-assistant-local-stack-sub001/internal/coreerrors"
	"github.com/sulaljuhani/ai-assistant-local-stack-sub001/pkg/models"
)

func TestMemoryStoreCreateAssignsID(t *testing.T) {
	store := NewMemoryStore()
	entry := models.Note{UserID: "u1", Body: "hello"}
	if err := store.Notes().Create(context.Background(), "u1", &entry); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if entry.ID == "" {
		t.Error("Create should assign an id when none was provided")
	}
	if entry.CreatedAt.IsZero() || entry.UpdatedAt.IsZero() {
		t.Error("Create should stamp CreatedAt/UpdatedAt")
	}
}

func TestMemoryStoreGetNotFound(t *testing.T) {
	store := NewMemoryStore()
	_, err := store.Notes().Get(context.Background(), "u1", "ghost")
	if err == nil {
		t.Fatal("expected not-found error")
	}
	if coreerrors.KindOf(err) != coreerrors.KindNotFound {
		t.Errorf("KindOf(err) = %v, want %v", coreerrors.KindOf(err), coreerrors.KindNotFound)
	}
}

func TestMemoryStoreGetScopedToOwner(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	entry := models.Note{UserID: "u1", Body: "private"}
	if err := store.Notes().Create(ctx, "u1", &entry); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := store.Notes().Get(ctx, "u2", entry.ID); err == nil {
		t.Error("Get should not return another user's entity")
	}
	if _, err := store.Notes().Get(ctx, "u1", entry.ID); err != nil {
		t.Errorf("Get for the owning user should succeed, got %v", err)
	}
}

func TestMemoryStoreUpdateAppliesPatch(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	entry := models.Task{UserID: "u1", Title: "Buy milk"}
	if err := store.Tasks().Create(ctx, "u1", &entry); err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := store.Tasks().Update(ctx, "u1", entry.ID, func(task *models.Task) { task.Done = true })
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !updated.Done {
		t.Error("Update should apply the patch function")
	}
}

func TestMemoryStoreUpdateNotFoundForWrongOwner(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	entry := models.Task{UserID: "u1", Title: "Buy milk"}
	if err := store.Tasks().Create(ctx, "u1", &entry); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := store.Tasks().Update(ctx, "u2", entry.ID, func(task *models.Task) { task.Done = true }); err == nil {
		t.Error("Update should fail when userID doesn't own the entity")
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	entry := models.Task{UserID: "u1", Title: "Buy milk"}
	if err := store.Tasks().Create(ctx, "u1", &entry); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := store.Tasks().Delete(ctx, "u1", entry.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Tasks().Get(ctx, "u1", entry.ID); err == nil {
		t.Error("Get after Delete should fail")
	}
}

func TestMemoryStoreListPaginatesByCursor(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		entry := models.Task{UserID: "u1", Title: "task"}
		if err := store.Tasks().Create(ctx, "u1", &entry); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	var all []models.Task
	cursor := ""
	for {
		page, err := store.Tasks().List(ctx, "u1", nil, cursor, 2)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		all = append(all, page.Items...)
		if page.NextCursor == "" {
			break
		}
		cursor = page.NextCursor
	}
	if len(all) != 5 {
		t.Errorf("total paginated items = %d, want 5", len(all))
	}
}

func TestMemoryStoreListAppliesFilterAndOwnerScope(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	done := models.Task{UserID: "u1", Title: "done", Done: true}
	pending := models.Task{UserID: "u1", Title: "pending"}
	other := models.Task{UserID: "u2", Title: "other"}
	for _, e := range []*models.Task{&done, &pending, &other} {
		if err := store.Tasks().Create(ctx, e.UserID, e); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	page, err := store.Tasks().List(ctx, "u1", func(task *models.Task) bool { return !task.Done }, "", DefaultPageSize)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].Title != "pending" {
		t.Errorf("List(u1, !done) = %+v, want only the pending task", page.Items)
	}
}

func TestClampPageSize(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{0, DefaultPageSize},
		{-1, DefaultPageSize},
		{10, 10},
		{MaxPageSize + 100, MaxPageSize},
	}
	for _, tt := range tests {
		if got := clampPageSize(tt.in); got != tt.want {
			t.Errorf("clampPageSize(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
