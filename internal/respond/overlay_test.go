package respond

import (
	"testing"

	"github.com/fairwaylabs/caddie/internal/core/domain"
)

func TestOverlay_ReadWithoutEntry(t *testing.T) {
	repo := NewRepository("s1")
	overlay := NewOverlay(repo)

	if got := overlay.Read("u1"); got != nil {
		t.Errorf("Expected nil for unknown user, got %+v", got)
	}

	repo.ReplaceFor("u1", &domain.Response{
		ID: "r1", SessionID: "s1", UserID: "u1",
		Status: domain.StatusOut,
	})

	got := overlay.Read("u1")
	if got == nil || got.Status != domain.StatusOut || got.ID != "r1" {
		t.Errorf("Expected repository record, got %+v", got)
	}
}

func TestOverlay_EntryWinsOverRepository(t *testing.T) {
	repo := NewRepository("s1")
	overlay := NewOverlay(repo)

	repo.ReplaceFor("u1", &domain.Response{
		ID: "r1", SessionID: "s1", UserID: "u1", UserName: "Sam",
		Status: domain.StatusOut, Note: "old", Transport: domain.TransportWalking,
	})
	overlay.Set("u1", Entry{
		Status: domain.StatusIn, Note: "new", Transport: domain.TransportRiding,
	})

	got := overlay.Read("u1")
	if got.Status != domain.StatusIn || got.Note != "new" || got.Transport != domain.TransportRiding {
		t.Errorf("Entry fields should win, got %+v", got)
	}
	if got.ID != "r1" || got.UserName != "Sam" {
		t.Errorf("Server identity should be preserved, got %+v", got)
	}
}

func TestOverlay_SynthesizesWhenNoRecord(t *testing.T) {
	repo := NewRepository("s1")
	overlay := NewOverlay(repo)

	overlay.Set("u1", Entry{Status: domain.StatusIn, Transport: domain.TransportWalking})

	got := overlay.Read("u1")
	if got == nil {
		t.Fatal("Expected synthesized response")
	}
	if got.ID != "" {
		t.Errorf("Provisional response must have no server ID, got %q", got.ID)
	}
	if got.SessionID != "s1" || got.UserID != "u1" {
		t.Errorf("Expected session/user identity, got %+v", got)
	}
	if got.Status != domain.StatusIn {
		t.Errorf("Status = %s, want IN", got.Status)
	}
}

func TestOverlay_SetReplacesPreviousEntry(t *testing.T) {
	repo := NewRepository("s1")
	overlay := NewOverlay(repo)

	overlay.Set("u1", Entry{Status: domain.StatusIn})
	overlay.Set("u1", Entry{Status: domain.StatusOut})

	e, ok := overlay.Peek("u1")
	if !ok || e.Status != domain.StatusOut {
		t.Errorf("Expected latest entry OUT, got %+v (ok=%v)", e, ok)
	}
}

func TestOverlay_Clear(t *testing.T) {
	repo := NewRepository("s1")
	overlay := NewOverlay(repo)

	overlay.Set("u1", Entry{Status: domain.StatusIn})
	overlay.Clear("u1")

	if _, ok := overlay.Peek("u1"); ok {
		t.Error("Expected entry cleared")
	}
	if got := overlay.Read("u1"); got != nil {
		t.Errorf("Expected nil after clear with empty repository, got %+v", got)
	}
}

func TestOverlay_ReadDoesNotMutateRepository(t *testing.T) {
	repo := NewRepository("s1")
	overlay := NewOverlay(repo)

	repo.ReplaceFor("u1", &domain.Response{
		ID: "r1", SessionID: "s1", UserID: "u1", Status: domain.StatusOut,
	})
	overlay.Set("u1", Entry{Status: domain.StatusIn})
	_ = overlay.Read("u1")
	overlay.Clear("u1")

	if got := repo.Get("u1"); got.Status != domain.StatusOut {
		t.Errorf("Repository record mutated by merged read: %+v", got)
	}
}
