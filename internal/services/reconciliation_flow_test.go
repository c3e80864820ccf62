package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/slateroom/slateroom-backend/internal/data/repos"
	"github.com/slateroom/slateroom-backend/internal/data/repos/testutil"
	"github.com/slateroom/slateroom-backend/internal/domain"
	"github.com/slateroom/slateroom-backend/internal/pkg/dbctx"
	pkgerrors "github.com/slateroom/slateroom-backend/internal/pkg/errors"
	"github.com/slateroom/slateroom-backend/internal/services"
)

type flowEnv struct {
	dbc            dbctx.Context
	scripts        services.ScriptService
	elements       services.ElementService
	reconciliation services.ReconciliationService
	matchRepo      repos.RevisionMatchRepo
}

// newFlowEnv builds the service stack on top of one rolled-back transaction;
// inner service transactions become savepoints.
func newFlowEnv(t *testing.T) flowEnv {
	t.Helper()
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)

	scriptRepo := repos.NewScriptRepo(tx, log)
	elementRepo := repos.NewElementRepo(tx, log)
	optionRepo := repos.NewElementOptionRepo(tx, log)
	approvalRepo := repos.NewElementApprovalRepo(tx, log)
	noteRepo := repos.NewElementNoteRepo(tx, log)
	matchRepo := repos.NewRevisionMatchRepo(tx, log)

	return flowEnv{
		dbc:            dbctx.Context{Ctx: context.Background()},
		scripts:        services.NewScriptService(tx, log, scriptRepo, elementRepo, matchRepo, nil, nil, nil, 0.80),
		elements:       services.NewElementService(tx, log, scriptRepo, elementRepo, optionRepo, approvalRepo, noteRepo),
		reconciliation: services.NewReconciliationService(tx, log, scriptRepo, elementRepo, optionRepo, approvalRepo, noteRepo, matchRepo, nil, nil),
		matchRepo:      matchRepo,
	}
}

func (env flowEnv) readyFirstRevision(t *testing.T, detected []domain.DetectedElement) *domain.Script {
	t.Helper()
	script, err := env.scripts.CreateScript(env.dbc, "pilot")
	if err != nil {
		t.Fatalf("create script: %v", err)
	}
	if _, err := env.scripts.IngestDetections(env.dbc, script.ID, detected); err != nil {
		t.Fatalf("ingest v1: %v", err)
	}
	ready, err := env.scripts.CompleteReview(env.dbc, script.ID)
	if err != nil {
		t.Fatalf("complete review: %v", err)
	}
	return ready
}

func TestFirstRevisionGoesToReview(t *testing.T) {
	env := newFlowEnv(t)

	script, err := env.scripts.CreateScript(env.dbc, "pilot")
	if err != nil {
		t.Fatalf("create script: %v", err)
	}
	if script.Version != 1 || script.LineageID != script.ID {
		t.Fatalf("v1 must root its own lineage, got %+v", script)
	}

	result, err := env.scripts.IngestDetections(env.dbc, script.ID, []domain.DetectedElement{
		{Name: "JOHN SMITH", Type: domain.ElementTypeCharacter, Pages: []int{1, 4}},
		{Name: "WAREHOUSE", Type: domain.ElementTypeLocation, Pages: []int{2}},
	})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if result.Script.Status != domain.ScriptStatusReviewing {
		t.Fatalf("expected REVIEWING after v1 ingest, got %s", result.Script.Status)
	}
	if result.CreatedNew != 2 || result.MatchesCreated != 0 {
		t.Fatalf("v1 creates everything with no match rows, got %+v", result)
	}

	summaries, err := env.elements.ListByScript(env.dbc, script.ID)
	if err != nil {
		t.Fatalf("list elements: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 elements, got %d", len(summaries))
	}
}

func TestRevisionAllExactSkipsReconciliation(t *testing.T) {
	env := newFlowEnv(t)
	detected := []domain.DetectedElement{
		{Name: "JOHN SMITH", Type: domain.ElementTypeCharacter, Pages: []int{1}},
	}
	v1 := env.readyFirstRevision(t, detected)

	v2, err := env.scripts.CreateRevision(env.dbc, v1.ID, "")
	if err != nil {
		t.Fatalf("create revision: %v", err)
	}
	if v2.Version != 2 || v2.LineageID != v1.LineageID {
		t.Fatalf("revision must continue the lineage, got %+v", v2)
	}

	result, err := env.scripts.IngestDetections(env.dbc, v2.ID, []domain.DetectedElement{
		{Name: "john  smith", Type: domain.ElementTypeCharacter, Pages: []int{7}},
	})
	if err != nil {
		t.Fatalf("ingest v2: %v", err)
	}
	if result.Script.Status != domain.ScriptStatusReady {
		t.Fatalf("all-exact revision should land READY, got %s", result.Script.Status)
	}
	if result.AutoLinked != 1 || result.MatchesCreated != 0 {
		t.Fatalf("expected one auto-link, got %+v", result)
	}

	// Identity survived; only the pages moved.
	summaries, err := env.elements.ListByScript(env.dbc, v2.ID)
	if err != nil {
		t.Fatalf("list elements: %v", err)
	}
	if len(summaries) != 1 || summaries[0].Name != "JOHN SMITH" {
		t.Fatalf("unexpected element set: %+v", summaries)
	}
	if len(summaries[0].Pages) != 1 || summaries[0].Pages[0] != 7 {
		t.Fatalf("expected pages [7], got %v", summaries[0].Pages)
	}
}

func TestRevisionReconciliationRoundTrip(t *testing.T) {
	env := newFlowEnv(t)
	v1 := env.readyFirstRevision(t, []domain.DetectedElement{
		{Name: "JOHN SMITH", Type: domain.ElementTypeCharacter, Pages: []int{1}},
		{Name: "WAREHOUSE", Type: domain.ElementTypeLocation, Pages: []int{2}},
	})

	// Work attached to the prior identity must ride through the mapping.
	v1Elements, err := env.elements.ListByScript(env.dbc, v1.ID)
	if err != nil {
		t.Fatalf("list v1 elements: %v", err)
	}
	var smithID uuid.UUID
	for _, s := range v1Elements {
		if s.Name == "JOHN SMITH" {
			smithID = s.ID
		}
	}
	option, err := env.elements.AddOption(env.dbc, smithID, "look-a", "options/look-a.png")
	if err != nil {
		t.Fatalf("add option: %v", err)
	}
	if _, err := env.elements.AddApproval(env.dbc, smithID, &option.ID, domain.ApprovalStatusApproved, ""); err != nil {
		t.Fatalf("add approval: %v", err)
	}

	v2, err := env.scripts.CreateRevision(env.dbc, v1.ID, "")
	if err != nil {
		t.Fatalf("create revision: %v", err)
	}

	// JOHN SMITHE is fuzzy against JOHN SMITH, GENERAL HUX is brand new,
	// WAREHOUSE has no counterpart and goes missing.
	result, err := env.scripts.IngestDetections(env.dbc, v2.ID, []domain.DetectedElement{
		{Name: "JOHN SMITHE", Type: domain.ElementTypeCharacter, Pages: []int{3}},
		{Name: "GENERAL HUX", Type: domain.ElementTypeCharacter, Pages: []int{5}},
	})
	if err != nil {
		t.Fatalf("ingest v2: %v", err)
	}
	if result.Script.Status != domain.ScriptStatusReconciling {
		t.Fatalf("expected RECONCILING, got %s", result.Script.Status)
	}
	if result.MatchesCreated != 2 {
		t.Fatalf("expected fuzzy + missing rows, got %+v", result)
	}

	state, err := env.reconciliation.GetState(env.dbc, v2.ID)
	if err != nil {
		t.Fatalf("get state: %v", err)
	}
	if len(state.Matches) != 2 {
		t.Fatalf("expected 2 open matches, got %+v", state.Matches)
	}

	decisions := make([]services.MatchDecision, 0, 2)
	for _, m := range state.Matches {
		switch m.MatchStatus {
		case domain.MatchStatusFuzzy:
			if m.OldElement == nil || m.OldElement.Name != "JOHN SMITH" {
				t.Fatalf("fuzzy match missing old element summary: %+v", m)
			}
			if m.Similarity == nil || *m.Similarity < 0.80 {
				t.Fatalf("fuzzy similarity missing or out of range: %+v", m)
			}
			decisions = append(decisions, services.MatchDecision{MatchID: m.ID, Decision: domain.DecisionMap})
		case domain.MatchStatusMissing:
			if m.OldElement == nil || m.OldElement.Name != "WAREHOUSE" {
				t.Fatalf("missing match should reference WAREHOUSE: %+v", m)
			}
			decisions = append(decisions, services.MatchDecision{MatchID: m.ID, Decision: domain.DecisionArchive})
		default:
			t.Fatalf("unexpected match status %q", m.MatchStatus)
		}
	}

	// An incomplete submission must change nothing.
	err = env.reconciliation.Resolve(env.dbc, v2.ID, decisions[:1])
	if !errors.Is(err, pkgerrors.ErrIncompleteDecisionSet) {
		t.Fatalf("expected ErrIncompleteDecisionSet, got %v", err)
	}
	count, err := env.matchRepo.CountUnresolvedByScriptID(env.dbc.Ctx, env.dbc.Tx, v2.ID)
	if err != nil {
		t.Fatalf("count unresolved: %v", err)
	}
	if count != 2 {
		t.Fatalf("rejected submission must leave all matches open, got %d resolved", 2-int(count))
	}

	if err := env.reconciliation.Resolve(env.dbc, v2.ID, decisions); err != nil {
		t.Fatalf("resolve: %v", err)
	}

	script, err := env.scripts.GetScript(env.dbc, v2.ID)
	if err != nil {
		t.Fatalf("get script: %v", err)
	}
	if script.Status != domain.ScriptStatusReady {
		t.Fatalf("expected READY after resolve, got %s", script.Status)
	}

	summaries, err := env.elements.ListByScript(env.dbc, v2.ID)
	if err != nil {
		t.Fatalf("list elements: %v", err)
	}
	byName := map[string]services.ElementSummary{}
	for _, s := range summaries {
		byName[s.Name] = s
	}
	if got := byName["JOHN SMITHE"]; got.Status != domain.ElementStatusActive {
		t.Fatalf("mapped element should carry the new name and stay ACTIVE: %+v", summaries)
	}
	if got := byName["JOHN SMITHE"]; got.ID != smithID || got.OptionCount != 1 || got.ApprovalCount != 1 {
		t.Fatalf("mapping must preserve identity and attached options/approvals: %+v", got)
	}
	if _, stillThere := byName["JOHN SMITH"]; stillThere {
		t.Fatalf("old identity should have been renamed: %+v", summaries)
	}
	if got := byName["WAREHOUSE"]; got.Status != domain.ElementStatusArchived {
		t.Fatalf("archived element should remain with ARCHIVED status: %+v", summaries)
	}
	if got := byName["GENERAL HUX"]; got.Status != domain.ElementStatusActive {
		t.Fatalf("new element should exist as ACTIVE: %+v", summaries)
	}

	// Resolution is write-once for the whole batch; an identical
	// resubmission reports the batch as already resolved.
	err = env.reconciliation.Resolve(env.dbc, v2.ID, decisions)
	if !errors.Is(err, pkgerrors.ErrAlreadyResolved) {
		t.Fatalf("expected ErrAlreadyResolved on resubmission, got %v", err)
	}
}

func TestResolveRejectsIllegalDecisionAtomically(t *testing.T) {
	env := newFlowEnv(t)
	v1 := env.readyFirstRevision(t, []domain.DetectedElement{
		{Name: "JOHN SMITH", Type: domain.ElementTypeCharacter, Pages: []int{1}},
		{Name: "WAREHOUSE", Type: domain.ElementTypeLocation, Pages: []int{2}},
	})

	v2, err := env.scripts.CreateRevision(env.dbc, v1.ID, "")
	if err != nil {
		t.Fatalf("create revision: %v", err)
	}
	if _, err := env.scripts.IngestDetections(env.dbc, v2.ID, []domain.DetectedElement{
		{Name: "JOHN SMITHE", Type: domain.ElementTypeCharacter, Pages: []int{3}},
	}); err != nil {
		t.Fatalf("ingest v2: %v", err)
	}

	state, err := env.reconciliation.GetState(env.dbc, v2.ID)
	if err != nil {
		t.Fatalf("get state: %v", err)
	}
	if len(state.Matches) != 2 {
		t.Fatalf("expected fuzzy + missing, got %+v", state.Matches)
	}

	decisions := make([]services.MatchDecision, 0, 2)
	for _, m := range state.Matches {
		// "keep" is illegal for the FUZZY row; the whole batch must bounce.
		decisions = append(decisions, services.MatchDecision{MatchID: m.ID, Decision: domain.DecisionKeep})
	}
	err = env.reconciliation.Resolve(env.dbc, v2.ID, decisions)
	if !errors.Is(err, pkgerrors.ErrInvalidDecisionForStatus) {
		t.Fatalf("expected ErrInvalidDecisionForStatus, got %v", err)
	}

	script, err := env.scripts.GetScript(env.dbc, v2.ID)
	if err != nil {
		t.Fatalf("get script: %v", err)
	}
	if script.Status != domain.ScriptStatusReconciling {
		t.Fatalf("failed resolve must leave script RECONCILING, got %s", script.Status)
	}
	count, err := env.matchRepo.CountUnresolvedByScriptID(env.dbc.Ctx, env.dbc.Tx, v2.ID)
	if err != nil {
		t.Fatalf("count unresolved: %v", err)
	}
	if count != 2 {
		t.Fatalf("failed resolve must leave matches open, got %d open", count)
	}
}

func TestCreateRevisionRequiresReadyParent(t *testing.T) {
	env := newFlowEnv(t)

	script, err := env.scripts.CreateScript(env.dbc, "pilot")
	if err != nil {
		t.Fatalf("create script: %v", err)
	}

	_, err = env.scripts.CreateRevision(env.dbc, script.ID, "")
	if !errors.Is(err, pkgerrors.ErrInvalidArgument) {
		t.Fatalf("expected rejection for non-READY parent, got %v", err)
	}
}
