package app

import (
	"gorm.io/gorm"

	"github.com/slateroom/slateroom-backend/internal/data/repos"
	"github.com/slateroom/slateroom-backend/internal/platform/logger"
)

type Repos struct {
	Script          repos.ScriptRepo
	Element         repos.ElementRepo
	ElementOption   repos.ElementOptionRepo
	ElementApproval repos.ElementApprovalRepo
	ElementNote     repos.ElementNoteRepo
	RevisionMatch   repos.RevisionMatchRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Script:          repos.NewScriptRepo(db, log),
		Element:         repos.NewElementRepo(db, log),
		ElementOption:   repos.NewElementOptionRepo(db, log),
		ElementApproval: repos.NewElementApprovalRepo(db, log),
		ElementNote:     repos.NewElementNoteRepo(db, log),
		RevisionMatch:   repos.NewRevisionMatchRepo(db, log),
	}
}
