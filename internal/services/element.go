package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/slateroom/slateroom-backend/internal/data/repos"
	"github.com/slateroom/slateroom-backend/internal/domain"
	"github.com/slateroom/slateroom-backend/internal/pkg/ctxutil"
	"github.com/slateroom/slateroom-backend/internal/pkg/dbctx"
	pkgerrors "github.com/slateroom/slateroom-backend/internal/pkg/errors"
	"github.com/slateroom/slateroom-backend/internal/platform/logger"
)

// ElementSummary is the display shape for an element: its identity plus how
// much work (options, approvals, notes) hangs off it.
type ElementSummary struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Type          string    `json:"type"`
	Status        string    `json:"status"`
	Pages         []int     `json:"pages"`
	OptionCount   int64     `json:"option_count"`
	ApprovalCount int64     `json:"approval_count"`
	NoteCount     int64     `json:"note_count"`
}

// ElementDetail is one element with everything attached to it.
type ElementDetail struct {
	ElementSummary
	Options   []*domain.ElementOption   `json:"options"`
	Approvals []*domain.ElementApproval `json:"approvals"`
	Notes     []*domain.ElementNote     `json:"notes"`
}

type ElementService interface {
	ListByScript(dbc dbctx.Context, scriptID uuid.UUID) ([]ElementSummary, error)
	GetDetail(dbc dbctx.Context, elementID uuid.UUID) (*ElementDetail, error)
	Archive(dbc dbctx.Context, elementID uuid.UUID) error
	AddOption(dbc dbctx.Context, elementID uuid.UUID, label, storageKey string) (*domain.ElementOption, error)
	AddApproval(dbc dbctx.Context, elementID uuid.UUID, optionID *uuid.UUID, status, comment string) (*domain.ElementApproval, error)
	AddNote(dbc dbctx.Context, elementID uuid.UUID, body string) (*domain.ElementNote, error)
}

type elementService struct {
	db           *gorm.DB
	log          *logger.Logger
	scriptRepo   repos.ScriptRepo
	elementRepo  repos.ElementRepo
	optionRepo   repos.ElementOptionRepo
	approvalRepo repos.ElementApprovalRepo
	noteRepo     repos.ElementNoteRepo
}

func NewElementService(
	db *gorm.DB,
	log *logger.Logger,
	scriptRepo repos.ScriptRepo,
	elementRepo repos.ElementRepo,
	optionRepo repos.ElementOptionRepo,
	approvalRepo repos.ElementApprovalRepo,
	noteRepo repos.ElementNoteRepo,
) ElementService {
	serviceLog := log.With("service", "ElementService")
	return &elementService{
		db:           db,
		log:          serviceLog,
		scriptRepo:   scriptRepo,
		elementRepo:  elementRepo,
		optionRepo:   optionRepo,
		approvalRepo: approvalRepo,
		noteRepo:     noteRepo,
	}
}

func (es *elementService) ListByScript(dbc dbctx.Context, scriptID uuid.UUID) ([]ElementSummary, error) {
	scripts, err := es.scriptRepo.GetByIDs(dbc.Ctx, dbc.Tx, []uuid.UUID{scriptID})
	if err != nil {
		return nil, fmt.Errorf("fetch script: %w", err)
	}
	if len(scripts) == 0 || scripts[0] == nil {
		return nil, fmt.Errorf("%w: script %s", pkgerrors.ErrNotFound, scriptID)
	}

	elements, err := es.elementRepo.GetByLineageID(dbc.Ctx, dbc.Tx, scripts[0].LineageID)
	if err != nil {
		return nil, fmt.Errorf("fetch elements: %w", err)
	}
	return summarizeElements(dbc.Ctx, dbc.Tx, elements, es.optionRepo, es.approvalRepo, es.noteRepo)
}

func (es *elementService) GetDetail(dbc dbctx.Context, elementID uuid.UUID) (*ElementDetail, error) {
	element, err := es.getElement(dbc, elementID)
	if err != nil {
		return nil, err
	}
	summaries, err := summarizeElements(dbc.Ctx, dbc.Tx, []*domain.Element{element}, es.optionRepo, es.approvalRepo, es.noteRepo)
	if err != nil {
		return nil, err
	}

	ids := []uuid.UUID{elementID}
	options, err := es.optionRepo.GetByElementIDs(dbc.Ctx, dbc.Tx, ids)
	if err != nil {
		return nil, fmt.Errorf("fetch options: %w", err)
	}
	approvals, err := es.approvalRepo.GetByElementIDs(dbc.Ctx, dbc.Tx, ids)
	if err != nil {
		return nil, fmt.Errorf("fetch approvals: %w", err)
	}
	notes, err := es.noteRepo.GetByElementIDs(dbc.Ctx, dbc.Tx, ids)
	if err != nil {
		return nil, fmt.Errorf("fetch notes: %w", err)
	}

	return &ElementDetail{
		ElementSummary: summaries[0],
		Options:        options,
		Approvals:      approvals,
		Notes:          notes,
	}, nil
}

func (es *elementService) Archive(dbc dbctx.Context, elementID uuid.UUID) error {
	if _, err := es.getElement(dbc, elementID); err != nil {
		return err
	}
	if err := es.elementRepo.ArchiveByIDs(dbc.Ctx, dbc.Tx, []uuid.UUID{elementID}); err != nil {
		return fmt.Errorf("archive element: %w", err)
	}
	return nil
}

func (es *elementService) AddOption(dbc dbctx.Context, elementID uuid.UUID, label, storageKey string) (*domain.ElementOption, error) {
	if storageKey == "" {
		return nil, fmt.Errorf("%w: storage_key required", pkgerrors.ErrInvalidArgument)
	}
	if _, err := es.getElement(dbc, elementID); err != nil {
		return nil, err
	}
	option := &domain.ElementOption{
		ID:         uuid.New(),
		ElementID:  elementID,
		Label:      label,
		StorageKey: storageKey,
		Status:     domain.OptionStatusProposed,
	}
	created, err := es.optionRepo.Create(dbc.Ctx, dbc.Tx, []*domain.ElementOption{option})
	if err != nil {
		return nil, fmt.Errorf("create option: %w", err)
	}
	return created[0], nil
}

func (es *elementService) AddApproval(dbc dbctx.Context, elementID uuid.UUID, optionID *uuid.UUID, status, comment string) (*domain.ElementApproval, error) {
	if status != domain.ApprovalStatusApproved && status != domain.ApprovalStatusRejected {
		return nil, fmt.Errorf("%w: approval status %q", pkgerrors.ErrInvalidArgument, status)
	}
	if _, err := es.getElement(dbc, elementID); err != nil {
		return nil, err
	}

	approval := &domain.ElementApproval{
		ID:        uuid.New(),
		ElementID: elementID,
		OptionID:  optionID,
		Status:    status,
		Comment:   comment,
	}
	if rd := ctxutil.GetRequestData(dbc.Ctx); rd != nil && rd.UserID != uuid.Nil {
		userID := rd.UserID
		approval.DecidedBy = &userID
	}
	created, err := es.approvalRepo.Create(dbc.Ctx, dbc.Tx, []*domain.ElementApproval{approval})
	if err != nil {
		return nil, fmt.Errorf("create approval: %w", err)
	}
	return created[0], nil
}

func (es *elementService) AddNote(dbc dbctx.Context, elementID uuid.UUID, body string) (*domain.ElementNote, error) {
	if body == "" {
		return nil, fmt.Errorf("%w: body required", pkgerrors.ErrInvalidArgument)
	}
	if _, err := es.getElement(dbc, elementID); err != nil {
		return nil, err
	}

	note := &domain.ElementNote{
		ID:        uuid.New(),
		ElementID: elementID,
		Body:      body,
	}
	if rd := ctxutil.GetRequestData(dbc.Ctx); rd != nil && rd.UserID != uuid.Nil {
		userID := rd.UserID
		note.AuthorID = &userID
	}
	created, err := es.noteRepo.Create(dbc.Ctx, dbc.Tx, []*domain.ElementNote{note})
	if err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}
	return created[0], nil
}

func (es *elementService) getElement(dbc dbctx.Context, elementID uuid.UUID) (*domain.Element, error) {
	found, err := es.elementRepo.GetByIDs(dbc.Ctx, dbc.Tx, []uuid.UUID{elementID})
	if err != nil {
		return nil, fmt.Errorf("fetch element: %w", err)
	}
	if len(found) == 0 || found[0] == nil {
		return nil, fmt.Errorf("%w: element %s", pkgerrors.ErrNotFound, elementID)
	}
	return found[0], nil
}

func summarizeElements(
	ctx context.Context,
	tx *gorm.DB,
	elements []*domain.Element,
	optionRepo repos.ElementOptionRepo,
	approvalRepo repos.ElementApprovalRepo,
	noteRepo repos.ElementNoteRepo,
) ([]ElementSummary, error) {
	ids := make([]uuid.UUID, 0, len(elements))
	for _, el := range elements {
		ids = append(ids, el.ID)
	}

	optionCounts, err := optionRepo.CountByElementIDs(ctx, tx, ids)
	if err != nil {
		return nil, fmt.Errorf("count options: %w", err)
	}
	approvalCounts, err := approvalRepo.CountByElementIDs(ctx, tx, ids)
	if err != nil {
		return nil, fmt.Errorf("count approvals: %w", err)
	}
	noteCounts, err := noteRepo.CountByElementIDs(ctx, tx, ids)
	if err != nil {
		return nil, fmt.Errorf("count notes: %w", err)
	}

	summaries := make([]ElementSummary, 0, len(elements))
	for _, el := range elements {
		summaries = append(summaries, ElementSummary{
			ID:            el.ID,
			Name:          el.Name,
			Type:          el.Type,
			Status:        el.Status,
			Pages:         domain.PageList(el.Pages),
			OptionCount:   optionCounts[el.ID],
			ApprovalCount: approvalCounts[el.ID],
			NoteCount:     noteCounts[el.ID],
		})
	}
	return summaries, nil
}
