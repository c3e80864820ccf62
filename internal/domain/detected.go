package domain

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// DetectedElement is the ephemeral output of script-text analysis for one
// revision. It has no identity of its own and is never persisted.
type DetectedElement struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Pages []int  `json:"pages"`
}

// PagesJSON encodes a page list for a jsonb column. A nil list encodes as [].
func PagesJSON(pages []int) datatypes.JSON {
	if pages == nil {
		pages = []int{}
	}
	raw, err := json.Marshal(pages)
	if err != nil {
		return datatypes.JSON([]byte("[]"))
	}
	return datatypes.JSON(raw)
}

// PageList decodes a jsonb page column back into a slice.
func PageList(raw datatypes.JSON) []int {
	if len(raw) == 0 {
		return nil
	}
	var pages []int
	if err := json.Unmarshal(raw, &pages); err != nil {
		return nil
	}
	return pages
}
