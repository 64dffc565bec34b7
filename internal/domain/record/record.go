package record

import (
	"time"

	"sgf_service/internal/domain/sgf"
)

const (
	SourceAPI       = "api"
	SourceWebsocket = "ws"
	SourceImport    = "import"
)

// Record - сохранённый разобранный SGF-документ
type Record struct {
	ID         string          `json:"id" bson:"_id"`
	Name       string          `json:"name" bson:"name"`
	Source     string          `json:"source" bson:"source"`
	Path       string          `json:"path,omitempty" bson:"path,omitempty"`
	CreatedAt  time.Time       `json:"created_at" bson:"created_at"`
	Summary    sgf.Summary     `json:"summary" bson:"summary"`
	Collection *sgf.Collection `json:"collection,omitempty" bson:"collection,omitempty"`
	Text       string          `json:"-" bson:"text,omitempty"` // копия исходника на случай промаха кэша
}

// SgfFile - файл .sgf, найденный при импорте каталога
type SgfFile struct {
	Path string
	Name string
	Text string
}

type RecordPage struct {
	PageNum    int      `json:"page_num"`
	TotalPages int      `json:"total_pages"`
	Total      int64    `json:"total"`
	Records    []Record `json:"records"`
}

// ParseResult is what the API returns for a parse request.
type ParseResult struct {
	Collection *sgf.Collection `json:"collection,omitempty"`
	Summary    *sgf.Summary    `json:"summary,omitempty"`
	Error      string          `json:"error,omitempty"`
}

type ImportReport struct {
	Stored []string          `json:"stored"`
	Failed map[string]string `json:"failed"`
}
