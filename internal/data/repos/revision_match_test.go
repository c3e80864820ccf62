package repos_test

import (
	"context"
	"errors"
	"testing"

	"github.com/slateroom/slateroom-backend/internal/data/repos"
	"github.com/slateroom/slateroom-backend/internal/data/repos/testutil"
	"github.com/slateroom/slateroom-backend/internal/domain"
	pkgerrors "github.com/slateroom/slateroom-backend/internal/pkg/errors"
)

func TestRevisionMatchRepoResolveWritesOnce(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := repos.NewRevisionMatchRepo(db, testutil.Logger(t))

	lineage := testutil.SeedLineage(t, ctx, tx)
	el := testutil.SeedElement(t, ctx, tx, lineage.LineageID, "JOHN SMITH", domain.ElementTypeCharacter)
	match := testutil.SeedFuzzyMatch(t, ctx, tx, lineage.ID, el.ID, "JOHN SMITHE", domain.ElementTypeCharacter, 0.9)

	if err := repo.Resolve(ctx, tx, match.ID, domain.DecisionMap); err != nil {
		t.Fatalf("first resolve: %v", err)
	}

	resolved, err := repo.GetByScriptID(ctx, tx, lineage.ID)
	if err != nil {
		t.Fatalf("get by script: %v", err)
	}
	if len(resolved) != 1 || !resolved[0].Resolved {
		t.Fatalf("expected resolved match, got %+v", resolved)
	}
	if resolved[0].UserDecision == nil || *resolved[0].UserDecision != domain.DecisionMap {
		t.Fatalf("expected recorded decision %q, got %+v", domain.DecisionMap, resolved[0].UserDecision)
	}

	err = repo.Resolve(ctx, tx, match.ID, domain.DecisionCreateNew)
	if !errors.Is(err, pkgerrors.ErrAlreadyResolved) {
		t.Fatalf("expected ErrAlreadyResolved on second resolve, got %v", err)
	}

	// The first decision must survive the rejected rewrite.
	resolved, err = repo.GetByScriptID(ctx, tx, lineage.ID)
	if err != nil {
		t.Fatalf("get by script: %v", err)
	}
	if *resolved[0].UserDecision != domain.DecisionMap {
		t.Fatalf("decision was rewritten to %q", *resolved[0].UserDecision)
	}
}

func TestRevisionMatchRepoUnresolvedQueries(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := repos.NewRevisionMatchRepo(db, testutil.Logger(t))

	lineage := testutil.SeedLineage(t, ctx, tx)
	el := testutil.SeedElement(t, ctx, tx, lineage.LineageID, "JOHN SMITH", domain.ElementTypeCharacter)
	gone := testutil.SeedElement(t, ctx, tx, lineage.LineageID, "WAREHOUSE", domain.ElementTypeLocation)
	fuzzy := testutil.SeedFuzzyMatch(t, ctx, tx, lineage.ID, el.ID, "JOHN SMITHE", domain.ElementTypeCharacter, 0.9)
	testutil.SeedMissingMatch(t, ctx, tx, lineage.ID, gone.ID)

	count, err := repo.CountUnresolvedByScriptID(ctx, tx, lineage.ID)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 unresolved, got %d", count)
	}

	if err := repo.Resolve(ctx, tx, fuzzy.ID, domain.DecisionMap); err != nil {
		t.Fatalf("resolve: %v", err)
	}

	unresolved, err := repo.GetUnresolvedByScriptID(ctx, tx, lineage.ID)
	if err != nil {
		t.Fatalf("get unresolved: %v", err)
	}
	if len(unresolved) != 1 || unresolved[0].MatchStatus != domain.MatchStatusMissing {
		t.Fatalf("expected one unresolved MISSING match, got %+v", unresolved)
	}

	count, err = repo.CountUnresolvedByScriptID(ctx, tx, lineage.ID)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 unresolved after resolve, got %d", count)
	}
}
