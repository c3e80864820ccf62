package services

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/slateroom/slateroom-backend/internal/data/repos"
	"github.com/slateroom/slateroom-backend/internal/domain"
	"github.com/slateroom/slateroom-backend/internal/pkg/dbctx"
	pkgerrors "github.com/slateroom/slateroom-backend/internal/pkg/errors"
	"github.com/slateroom/slateroom-backend/internal/platform/logger"
	"github.com/slateroom/slateroom-backend/internal/realtime"
	"github.com/slateroom/slateroom-backend/internal/realtime/bus"
)

// MatchDecision is one user decision in a resolve submission.
type MatchDecision struct {
	MatchID  uuid.UUID `json:"match_id"`
	Decision string    `json:"decision"`
}

// MatchView is one unresolved match prepared for display, including the
// referenced prior element's summary.
type MatchView struct {
	ID            uuid.UUID       `json:"id"`
	MatchStatus   string          `json:"match_status"`
	DetectedName  string          `json:"detected_name,omitempty"`
	DetectedType  string          `json:"detected_type,omitempty"`
	DetectedPages []int           `json:"detected_pages,omitempty"`
	Similarity    *float64        `json:"similarity,omitempty"`
	OldElement    *ElementSummary `json:"old_element,omitempty"`
}

// ReconciliationState is the GET response for a revision in reconciliation.
type ReconciliationState struct {
	ScriptID     uuid.UUID   `json:"script_id"`
	ScriptStatus string      `json:"script_status"`
	Matches      []MatchView `json:"matches"`
}

type ReconciliationService interface {
	GetState(dbc dbctx.Context, scriptID uuid.UUID) (*ReconciliationState, error)
	Resolve(dbc dbctx.Context, scriptID uuid.UUID, decisions []MatchDecision) error
}

type reconciliationService struct {
	db           *gorm.DB
	log          *logger.Logger
	scriptRepo   repos.ScriptRepo
	elementRepo  repos.ElementRepo
	optionRepo   repos.ElementOptionRepo
	approvalRepo repos.ElementApprovalRepo
	noteRepo     repos.ElementNoteRepo
	matchRepo    repos.RevisionMatchRepo
	hub          *realtime.Hub
	eventBus     bus.Bus
}

func NewReconciliationService(
	db *gorm.DB,
	log *logger.Logger,
	scriptRepo repos.ScriptRepo,
	elementRepo repos.ElementRepo,
	optionRepo repos.ElementOptionRepo,
	approvalRepo repos.ElementApprovalRepo,
	noteRepo repos.ElementNoteRepo,
	matchRepo repos.RevisionMatchRepo,
	hub *realtime.Hub,
	eventBus bus.Bus,
) ReconciliationService {
	serviceLog := log.With("service", "ReconciliationService")
	return &reconciliationService{
		db:           db,
		log:          serviceLog,
		scriptRepo:   scriptRepo,
		elementRepo:  elementRepo,
		optionRepo:   optionRepo,
		approvalRepo: approvalRepo,
		noteRepo:     noteRepo,
		matchRepo:    matchRepo,
		hub:          hub,
		eventBus:     eventBus,
	}
}

func (rs *reconciliationService) GetState(dbc dbctx.Context, scriptID uuid.UUID) (*ReconciliationState, error) {
	scripts, err := rs.scriptRepo.GetByIDs(dbc.Ctx, dbc.Tx, []uuid.UUID{scriptID})
	if err != nil {
		return nil, fmt.Errorf("fetch script: %w", err)
	}
	if len(scripts) == 0 || scripts[0] == nil {
		return nil, fmt.Errorf("%w: script %s", pkgerrors.ErrNotFound, scriptID)
	}
	script := scripts[0]

	matches, err := rs.matchRepo.GetUnresolvedByScriptID(dbc.Ctx, dbc.Tx, scriptID)
	if err != nil {
		return nil, fmt.Errorf("fetch matches: %w", err)
	}

	oldIDs := make([]uuid.UUID, 0, len(matches))
	for _, m := range matches {
		if m.OldElementID != nil {
			oldIDs = append(oldIDs, *m.OldElementID)
		}
	}
	oldElements, err := rs.elementRepo.GetByIDs(dbc.Ctx, dbc.Tx, oldIDs)
	if err != nil {
		return nil, fmt.Errorf("fetch old elements: %w", err)
	}
	summaries, err := summarizeElements(dbc.Ctx, dbc.Tx, oldElements, rs.optionRepo, rs.approvalRepo, rs.noteRepo)
	if err != nil {
		return nil, err
	}
	summaryByID := make(map[uuid.UUID]*ElementSummary, len(summaries))
	for i := range summaries {
		summaryByID[summaries[i].ID] = &summaries[i]
	}

	views := make([]MatchView, 0, len(matches))
	for _, m := range matches {
		view := MatchView{
			ID:            m.ID,
			MatchStatus:   m.MatchStatus,
			DetectedName:  m.DetectedName,
			DetectedType:  m.DetectedType,
			DetectedPages: domain.PageList(m.DetectedPages),
			Similarity:    m.Similarity,
		}
		if m.OldElementID != nil {
			view.OldElement = summaryByID[*m.OldElementID]
		}
		views = append(views, view)
	}

	return &ReconciliationState{
		ScriptID:     script.ID,
		ScriptStatus: script.Status,
		Matches:      views,
	}, nil
}

// Resolve validates the submitted decision set against every revision match
// for the script, then applies all element mutations, the write-once
// resolved flags, and the READY flip in one transaction. Any validation
// failure rejects the whole submission with no effect; a racing submission
// loses on the resolved flag inside the transaction.
func (rs *reconciliationService) Resolve(dbc dbctx.Context, scriptID uuid.UUID, decisions []MatchDecision) error {
	scripts, err := rs.scriptRepo.GetByIDs(dbc.Ctx, dbc.Tx, []uuid.UUID{scriptID})
	if err != nil {
		return fmt.Errorf("fetch script: %w", err)
	}
	if len(scripts) == 0 || scripts[0] == nil {
		return fmt.Errorf("%w: script %s", pkgerrors.ErrNotFound, scriptID)
	}
	script := scripts[0]
	if script.Status != domain.ScriptStatusReconciling {
		// A resubmission after a successful resolve lands here: the script
		// already flipped READY and its matches carry the resolved flag.
		prior, err := rs.matchRepo.GetByScriptID(dbc.Ctx, dbc.Tx, scriptID)
		if err != nil {
			return fmt.Errorf("fetch matches: %w", err)
		}
		for _, m := range prior {
			if m.Resolved {
				return fmt.Errorf("%w: reconciliation for script %s", pkgerrors.ErrAlreadyResolved, scriptID)
			}
		}
		return fmt.Errorf("%w: script is %s, not RECONCILING", pkgerrors.ErrInvalidArgument, script.Status)
	}

	err = rs.db.WithContext(dbc.Ctx).Transaction(func(tx *gorm.DB) error {
		matches, err := rs.matchRepo.GetByScriptID(dbc.Ctx, tx, scriptID)
		if err != nil {
			return fmt.Errorf("fetch matches: %w", err)
		}
		if len(matches) == 0 {
			return fmt.Errorf("%w: no revision matches for script %s", pkgerrors.ErrNotFound, scriptID)
		}

		decisionByID, err := validateDecisions(matches, decisions)
		if err != nil {
			return err
		}

		for _, match := range matches {
			decision := decisionByID[match.ID]
			if err := rs.applyDecision(dbc, tx, match, decision); err != nil {
				return err
			}
			if err := rs.matchRepo.Resolve(dbc.Ctx, tx, match.ID, decision); err != nil {
				return err
			}
		}

		remaining, err := rs.matchRepo.CountUnresolvedByScriptID(dbc.Ctx, tx, scriptID)
		if err != nil {
			return fmt.Errorf("count unresolved: %w", err)
		}
		if remaining != 0 {
			return fmt.Errorf("%w: %d matches left unresolved", pkgerrors.ErrIncompleteDecisionSet, remaining)
		}

		if err := rs.scriptRepo.UpdateStatus(dbc.Ctx, tx, scriptID, domain.ScriptStatusReady); err != nil {
			return fmt.Errorf("update status: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	publishScriptStatus(dbc.Ctx, rs.hub, rs.eventBus, rs.log, scriptID, domain.ScriptStatusReady)
	rs.log.Info("Reconciliation resolved", "script_id", scriptID.String(), "decisions", len(decisions))
	return nil
}

func (rs *reconciliationService) applyDecision(dbc dbctx.Context, tx *gorm.DB, match *domain.RevisionMatch, decision string) error {
	switch decision {
	case domain.DecisionMap:
		// The detected element adopts the old element's identity; options,
		// approvals and notes stay attached to that identity untouched.
		return rs.elementRepo.UpdateDetected(dbc.Ctx, tx, *match.OldElementID, match.DetectedName, match.DetectedType, match.DetectedPages)
	case domain.DecisionCreateNew:
		script := match.Script
		lineageID, err := rs.lineageForScript(dbc, tx, match.ScriptID, script)
		if err != nil {
			return err
		}
		element := &domain.Element{
			ID:        uuid.New(),
			LineageID: lineageID,
			Name:      match.DetectedName,
			Type:      match.DetectedType,
			Status:    domain.ElementStatusActive,
			Pages:     match.DetectedPages,
		}
		if _, err := rs.elementRepo.Create(dbc.Ctx, tx, []*domain.Element{element}); err != nil {
			return fmt.Errorf("create element: %w", err)
		}
		return nil
	case domain.DecisionKeep:
		return nil
	case domain.DecisionArchive:
		return rs.elementRepo.ArchiveByIDs(dbc.Ctx, tx, []uuid.UUID{*match.OldElementID})
	default:
		return fmt.Errorf("%w: %q", pkgerrors.ErrInvalidDecisionForStatus, decision)
	}
}

func (rs *reconciliationService) lineageForScript(dbc dbctx.Context, tx *gorm.DB, scriptID uuid.UUID, preloaded *domain.Script) (uuid.UUID, error) {
	if preloaded != nil {
		return preloaded.LineageID, nil
	}
	scripts, err := rs.scriptRepo.GetByIDs(dbc.Ctx, tx, []uuid.UUID{scriptID})
	if err != nil {
		return uuid.Nil, fmt.Errorf("fetch script: %w", err)
	}
	if len(scripts) == 0 || scripts[0] == nil {
		return uuid.Nil, fmt.Errorf("%w: script %s", pkgerrors.ErrNotFound, scriptID)
	}
	return scripts[0].LineageID, nil
}

// validateDecisions checks a submission against the full match batch before
// anything mutates: every match covered exactly once, no unknown or
// duplicate match ids, only status-legal decisions, no match already
// resolved, and at most one map claim per old element.
func validateDecisions(matches []*domain.RevisionMatch, decisions []MatchDecision) (map[uuid.UUID]string, error) {
	decisionByID := make(map[uuid.UUID]string, len(decisions))
	for _, d := range decisions {
		if _, dup := decisionByID[d.MatchID]; dup {
			return nil, fmt.Errorf("%w: duplicate decision for match %s", pkgerrors.ErrInvalidArgument, d.MatchID)
		}
		decisionByID[d.MatchID] = d.Decision
	}

	known := make(map[uuid.UUID]bool, len(matches))
	mapClaims := make(map[uuid.UUID]uuid.UUID)
	for _, match := range matches {
		known[match.ID] = true

		decision, ok := decisionByID[match.ID]
		if !ok {
			return nil, fmt.Errorf("%w: no decision for match %s", pkgerrors.ErrIncompleteDecisionSet, match.ID)
		}
		if match.Resolved {
			return nil, fmt.Errorf("%w: match %s", pkgerrors.ErrAlreadyResolved, match.ID)
		}

		legal := false
		for _, allowed := range domain.LegalDecisions(match.MatchStatus) {
			if decision == allowed {
				legal = true
				break
			}
		}
		if !legal {
			return nil, fmt.Errorf("%w: %q on %s match %s", pkgerrors.ErrInvalidDecisionForStatus, decision, match.MatchStatus, match.ID)
		}

		if decision == domain.DecisionMap && match.OldElementID != nil {
			if _, claimed := mapClaims[*match.OldElementID]; claimed {
				return nil, fmt.Errorf("%w: element %s", pkgerrors.ErrConflictingMapClaims, match.OldElementID)
			}
			mapClaims[*match.OldElementID] = match.ID
		}
	}

	for id := range decisionByID {
		if !known[id] {
			return nil, fmt.Errorf("%w: unknown match %s", pkgerrors.ErrInvalidArgument, id)
		}
	}

	return decisionByID, nil
}
