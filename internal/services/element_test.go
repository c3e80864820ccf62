package services_test

import (
	"errors"
	"testing"

	"github.com/slateroom/slateroom-backend/internal/domain"
	pkgerrors "github.com/slateroom/slateroom-backend/internal/pkg/errors"
)

func TestElementDetailCollectsAttachments(t *testing.T) {
	env := newFlowEnv(t)
	script := env.readyFirstRevision(t, []domain.DetectedElement{
		{Name: "JOHN SMITH", Type: domain.ElementTypeCharacter, Pages: []int{1}},
	})

	summaries, err := env.elements.ListByScript(env.dbc, script.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	elementID := summaries[0].ID

	option, err := env.elements.AddOption(env.dbc, elementID, "look-a", "options/look-a.png")
	if err != nil {
		t.Fatalf("add option: %v", err)
	}
	if option.Status != domain.OptionStatusProposed {
		t.Fatalf("new options start PROPOSED, got %q", option.Status)
	}
	if _, err := env.elements.AddApproval(env.dbc, elementID, &option.ID, domain.ApprovalStatusApproved, "works"); err != nil {
		t.Fatalf("add approval: %v", err)
	}
	if _, err := env.elements.AddNote(env.dbc, elementID, "needs a scar in act two"); err != nil {
		t.Fatalf("add note: %v", err)
	}

	detail, err := env.elements.GetDetail(env.dbc, elementID)
	if err != nil {
		t.Fatalf("get detail: %v", err)
	}
	if len(detail.Options) != 1 || len(detail.Approvals) != 1 || len(detail.Notes) != 1 {
		t.Fatalf("expected 1/1/1 attachments, got %d/%d/%d", len(detail.Options), len(detail.Approvals), len(detail.Notes))
	}
	if detail.OptionCount != 1 || detail.ApprovalCount != 1 || detail.NoteCount != 1 {
		t.Fatalf("counts out of sync with attachments: %+v", detail.ElementSummary)
	}
}

func TestElementAttachmentValidation(t *testing.T) {
	env := newFlowEnv(t)
	script := env.readyFirstRevision(t, []domain.DetectedElement{
		{Name: "JOHN SMITH", Type: domain.ElementTypeCharacter, Pages: []int{1}},
	})
	summaries, err := env.elements.ListByScript(env.dbc, script.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	elementID := summaries[0].ID

	if _, err := env.elements.AddOption(env.dbc, elementID, "x", ""); !errors.Is(err, pkgerrors.ErrInvalidArgument) {
		t.Fatalf("empty storage key must be rejected, got %v", err)
	}
	if _, err := env.elements.AddApproval(env.dbc, elementID, nil, "MAYBE", ""); !errors.Is(err, pkgerrors.ErrInvalidArgument) {
		t.Fatalf("unknown approval status must be rejected, got %v", err)
	}
	if _, err := env.elements.AddNote(env.dbc, elementID, ""); !errors.Is(err, pkgerrors.ErrInvalidArgument) {
		t.Fatalf("empty note body must be rejected, got %v", err)
	}
}
