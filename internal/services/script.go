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
	"github.com/slateroom/slateroom-backend/internal/reconcile"
)

// IngestResult summarizes one classification pass over a revision's
// detected elements.
type IngestResult struct {
	Script         *domain.Script `json:"script"`
	AutoLinked     int            `json:"auto_linked"`
	CreatedNew     int            `json:"created_new"`
	MatchesCreated int            `json:"matches_created"`
}

type ScriptService interface {
	CreateScript(dbc dbctx.Context, title string) (*domain.Script, error)
	CreateRevision(dbc dbctx.Context, parentScriptID uuid.UUID, title string) (*domain.Script, error)
	GetScript(dbc dbctx.Context, scriptID uuid.UUID) (*domain.Script, error)
	CompleteReview(dbc dbctx.Context, scriptID uuid.UUID) (*domain.Script, error)
	IngestDetections(dbc dbctx.Context, scriptID uuid.UUID, detected []domain.DetectedElement) (*IngestResult, error)
	ProcessFromSource(dbc dbctx.Context, scriptID uuid.UUID) (*IngestResult, error)
}

type scriptService struct {
	db             *gorm.DB
	log            *logger.Logger
	scriptRepo     repos.ScriptRepo
	elementRepo    repos.ElementRepo
	matchRepo      repos.RevisionMatchRepo
	source         DetectionSource
	hub            *realtime.Hub
	eventBus       bus.Bus
	fuzzyThreshold float64
}

func NewScriptService(
	db *gorm.DB,
	log *logger.Logger,
	scriptRepo repos.ScriptRepo,
	elementRepo repos.ElementRepo,
	matchRepo repos.RevisionMatchRepo,
	source DetectionSource,
	hub *realtime.Hub,
	eventBus bus.Bus,
	fuzzyThreshold float64,
) ScriptService {
	serviceLog := log.With("service", "ScriptService")
	if fuzzyThreshold <= 0 || fuzzyThreshold > 1 {
		fuzzyThreshold = reconcile.DefaultFuzzyThreshold
	}
	return &scriptService{
		db:             db,
		log:            serviceLog,
		scriptRepo:     scriptRepo,
		elementRepo:    elementRepo,
		matchRepo:      matchRepo,
		source:         source,
		hub:            hub,
		eventBus:       eventBus,
		fuzzyThreshold: fuzzyThreshold,
	}
}

func (s *scriptService) CreateScript(dbc dbctx.Context, title string) (*domain.Script, error) {
	if title == "" {
		return nil, fmt.Errorf("%w: title required", pkgerrors.ErrInvalidArgument)
	}

	id := uuid.New()
	script := &domain.Script{
		ID:        id,
		LineageID: id,
		Title:     title,
		Version:   1,
		Status:    domain.ScriptStatusProcessing,
	}
	created, err := s.scriptRepo.Create(dbc.Ctx, dbc.Tx, []*domain.Script{script})
	if err != nil {
		return nil, fmt.Errorf("create script: %w", err)
	}
	return created[0], nil
}

func (s *scriptService) CreateRevision(dbc dbctx.Context, parentScriptID uuid.UUID, title string) (*domain.Script, error) {
	parent, err := s.getScript(dbc, parentScriptID)
	if err != nil {
		return nil, err
	}
	if parent.Status != domain.ScriptStatusReady {
		return nil, fmt.Errorf("%w: parent script is %s, revisions require READY", pkgerrors.ErrInvalidArgument, parent.Status)
	}
	if title == "" {
		title = parent.Title
	}

	maxVersion, err := s.scriptRepo.MaxVersionByLineageID(dbc.Ctx, dbc.Tx, parent.LineageID)
	if err != nil {
		return nil, fmt.Errorf("max version: %w", err)
	}

	revision := &domain.Script{
		ID:             uuid.New(),
		LineageID:      parent.LineageID,
		ParentScriptID: &parent.ID,
		Title:          title,
		Version:        maxVersion + 1,
		Status:         domain.ScriptStatusProcessing,
	}
	created, err := s.scriptRepo.Create(dbc.Ctx, dbc.Tx, []*domain.Script{revision})
	if err != nil {
		return nil, fmt.Errorf("create revision: %w", err)
	}
	return created[0], nil
}

func (s *scriptService) GetScript(dbc dbctx.Context, scriptID uuid.UUID) (*domain.Script, error) {
	return s.getScript(dbc, scriptID)
}

func (s *scriptService) CompleteReview(dbc dbctx.Context, scriptID uuid.UUID) (*domain.Script, error) {
	script, err := s.getScript(dbc, scriptID)
	if err != nil {
		return nil, err
	}
	if script.Status != domain.ScriptStatusReviewing {
		return nil, fmt.Errorf("%w: script is %s, not REVIEWING", pkgerrors.ErrInvalidArgument, script.Status)
	}
	if err := s.scriptRepo.UpdateStatus(dbc.Ctx, dbc.Tx, script.ID, domain.ScriptStatusReady); err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}
	script.Status = domain.ScriptStatusReady
	publishScriptStatus(dbc.Ctx, s.hub, s.eventBus, s.log, script.ID, script.Status)
	return script, nil
}

// IngestDetections runs the single classification pass for a revision:
// exact matches are auto-linked, sub-threshold detections become new
// elements, and the FUZZY/MISSING batch is written before the script is
// exposed as RECONCILING. The whole pass commits atomically.
func (s *scriptService) IngestDetections(dbc dbctx.Context, scriptID uuid.UUID, detected []domain.DetectedElement) (*IngestResult, error) {
	script, err := s.getScript(dbc, scriptID)
	if err != nil {
		return nil, err
	}
	if script.Status != domain.ScriptStatusProcessing {
		return nil, fmt.Errorf("%w: script is %s, detections are ingested while PROCESSING", pkgerrors.ErrInvalidArgument, script.Status)
	}
	for _, det := range detected {
		if det.Name == "" || det.Type == "" {
			return nil, fmt.Errorf("%w: detected element requires name and type", pkgerrors.ErrInvalidArgument)
		}
	}

	result := &IngestResult{Script: script}
	err = s.db.WithContext(dbc.Ctx).Transaction(func(tx *gorm.DB) error {
		if script.ParentScriptID == nil {
			return s.ingestFirstRevision(dbc, tx, script, detected, result)
		}
		return s.ingestRevision(dbc, tx, script, detected, result)
	})
	if err != nil {
		return nil, err
	}

	publishScriptStatus(dbc.Ctx, s.hub, s.eventBus, s.log, script.ID, script.Status)
	s.log.Info("Detections ingested",
		"script_id", script.ID.String(),
		"status", script.Status,
		"auto_linked", result.AutoLinked,
		"created_new", result.CreatedNew,
		"matches_created", result.MatchesCreated,
	)
	return result, nil
}

func (s *scriptService) ProcessFromSource(dbc dbctx.Context, scriptID uuid.UUID) (*IngestResult, error) {
	if s.source == nil {
		return nil, fmt.Errorf("%w: no detection source configured", pkgerrors.ErrInvalidArgument)
	}
	detected, err := s.source.DetectElements(dbc.Ctx, scriptID)
	if err != nil {
		return nil, fmt.Errorf("detect elements: %w", err)
	}
	return s.IngestDetections(dbc, scriptID, detected)
}

// First revision: there is no prior element set, so every detection becomes
// a new ACTIVE element and the draft moves to human review.
func (s *scriptService) ingestFirstRevision(dbc dbctx.Context, tx *gorm.DB, script *domain.Script, detected []domain.DetectedElement, result *IngestResult) error {
	elements := make([]*domain.Element, 0, len(detected))
	for _, det := range detected {
		elements = append(elements, &domain.Element{
			ID:        uuid.New(),
			LineageID: script.LineageID,
			Name:      det.Name,
			Type:      det.Type,
			Status:    domain.ElementStatusActive,
			Pages:     domain.PagesJSON(det.Pages),
		})
	}
	if _, err := s.elementRepo.Create(dbc.Ctx, tx, elements); err != nil {
		return fmt.Errorf("create elements: %w", err)
	}
	if err := s.scriptRepo.UpdateStatus(dbc.Ctx, tx, script.ID, domain.ScriptStatusReviewing); err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	script.Status = domain.ScriptStatusReviewing
	result.CreatedNew = len(elements)
	return nil
}

func (s *scriptService) ingestRevision(dbc dbctx.Context, tx *gorm.DB, script *domain.Script, detected []domain.DetectedElement, result *IngestResult) error {
	actives, err := s.elementRepo.GetActiveByLineageID(dbc.Ctx, tx, script.LineageID)
	if err != nil {
		return fmt.Errorf("load active elements: %w", err)
	}

	plan := reconcile.Classify(detected, actives, s.fuzzyThreshold)

	for _, exact := range plan.Exact {
		if err := s.elementRepo.UpdatePages(dbc.Ctx, tx, exact.Element.ID, domain.PagesJSON(exact.Detected.Pages)); err != nil {
			return fmt.Errorf("update pages: %w", err)
		}
	}

	newElements := make([]*domain.Element, 0, len(plan.Created))
	for _, det := range plan.Created {
		newElements = append(newElements, &domain.Element{
			ID:        uuid.New(),
			LineageID: script.LineageID,
			Name:      det.Name,
			Type:      det.Type,
			Status:    domain.ElementStatusActive,
			Pages:     domain.PagesJSON(det.Pages),
		})
	}
	if _, err := s.elementRepo.Create(dbc.Ctx, tx, newElements); err != nil {
		return fmt.Errorf("create elements: %w", err)
	}

	matches := make([]*domain.RevisionMatch, 0, len(plan.Fuzzy)+len(plan.Missing))
	for _, fuzzy := range plan.Fuzzy {
		similarity := fuzzy.Similarity
		oldID := fuzzy.Element.ID
		matches = append(matches, &domain.RevisionMatch{
			ID:            uuid.New(),
			ScriptID:      script.ID,
			DetectedName:  fuzzy.Detected.Name,
			DetectedType:  fuzzy.Detected.Type,
			DetectedPages: domain.PagesJSON(fuzzy.Detected.Pages),
			MatchStatus:   domain.MatchStatusFuzzy,
			OldElementID:  &oldID,
			Similarity:    &similarity,
		})
	}
	for _, missing := range plan.Missing {
		oldID := missing.ID
		matches = append(matches, &domain.RevisionMatch{
			ID:           uuid.New(),
			ScriptID:     script.ID,
			MatchStatus:  domain.MatchStatusMissing,
			OldElementID: &oldID,
		})
	}
	if _, err := s.matchRepo.Create(dbc.Ctx, tx, matches); err != nil {
		return fmt.Errorf("create revision matches: %w", err)
	}

	status := domain.ScriptStatusReady
	if plan.NeedsDecision() {
		status = domain.ScriptStatusReconciling
	}
	if err := s.scriptRepo.UpdateStatus(dbc.Ctx, tx, script.ID, status); err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	script.Status = status

	result.AutoLinked = len(plan.Exact)
	result.CreatedNew = len(newElements)
	result.MatchesCreated = len(matches)
	return nil
}

func (s *scriptService) getScript(dbc dbctx.Context, scriptID uuid.UUID) (*domain.Script, error) {
	found, err := s.scriptRepo.GetByIDs(dbc.Ctx, dbc.Tx, []uuid.UUID{scriptID})
	if err != nil {
		return nil, fmt.Errorf("fetch script: %w", err)
	}
	if len(found) == 0 || found[0] == nil {
		return nil, fmt.Errorf("%w: script %s", pkgerrors.ErrNotFound, scriptID)
	}
	return found[0], nil
}
