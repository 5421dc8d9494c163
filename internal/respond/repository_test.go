package respond

import (
	"sync"
	"testing"

	"github.com/fairwaylabs/caddie/internal/core/domain"
)

func TestRepository_ReplaceRebuildsRoster(t *testing.T) {
	repo := NewRepository("s1")
	repo.ReplaceFor("gone", &domain.Response{UserID: "gone", Status: domain.StatusIn})

	repo.Replace([]*domain.Response{
		{UserID: "u2", Status: domain.StatusOut},
		{UserID: "u1", Status: domain.StatusIn},
	})

	if repo.Get("gone") != nil {
		t.Error("Replace should drop records absent from the fetch")
	}

	responses := repo.Responses()
	if len(responses) != 2 {
		t.Fatalf("Expected 2 responses, got %d", len(responses))
	}
	if responses[0].UserID != "u1" || responses[1].UserID != "u2" {
		t.Errorf("Expected order by user ID, got %s, %s", responses[0].UserID, responses[1].UserID)
	}
}

func TestRepository_RemoveFor(t *testing.T) {
	repo := NewRepository("s1")
	repo.ReplaceFor("u1", &domain.Response{UserID: "u1", Status: domain.StatusIn})
	repo.RemoveFor("u1")

	if repo.Get("u1") != nil {
		t.Error("Expected record removed")
	}
}

func TestRepository_GetReturnsCopy(t *testing.T) {
	repo := NewRepository("s1")
	repo.ReplaceFor("u1", &domain.Response{UserID: "u1", Status: domain.StatusIn})

	got := repo.Get("u1")
	got.Status = domain.StatusOut

	if repo.Get("u1").Status != domain.StatusIn {
		t.Error("Get must return a copy, not the stored record")
	}
}

func TestRepository_ConcurrentAccess(t *testing.T) {
	repo := NewRepository("s1")

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			repo.ReplaceFor("u1", &domain.Response{UserID: "u1", Status: domain.StatusIn})
			repo.Get("u1")
			repo.Responses()
		}()
	}
	wg.Wait()

	if repo.Get("u1") == nil {
		t.Error("Expected record present after concurrent writes")
	}
}
