package sgf

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"sgf_service/internal/domain/record"
	"sgf_service/internal/domain/sgf"
	"sgf_service/internal/errors"
	"sgf_service/internal/parser"
)

type RecordStore interface {
	PutRecord(ctx context.Context, rec record.Record) error
	GetRecordByID(ctx context.Context, id string) (record.Record, error)
	ListRecords(ctx context.Context, skip int64, limit int64) ([]record.Record, int64, error)
	DeleteRecord(ctx context.Context, id string) error
}

type SourceStore interface {
	SaveSource(ctx context.Context, id string, text string) error
	LoadSource(ctx context.Context, id string) (string, error)
	DeleteSource(ctx context.Context, id string) error
}

type FileLoader interface {
	LoadSgfFiles(root string) ([]record.SgfFile, error)
}

// MaxStoredDepth bounds the variation depth of stored records. Every game-tree
// level costs two BSON levels and MongoDB refuses documents nested deeper than 100.
const MaxStoredDepth = 40

type SgfUseCase struct {
	records     RecordStore
	sources     SourceStore
	files       FileLoader
	log         *zap.SugaredLogger
	maxDepth    int
	storedDepth int
	pageLimit   int
	now         func() time.Time
}

func NewSgfUseCase(records RecordStore, sources SourceStore, files FileLoader, log *zap.SugaredLogger, maxDepth int, pageLimit int) *SgfUseCase {
	if pageLimit <= 0 {
		pageLimit = 20
	}
	return &SgfUseCase{
		records:     records,
		sources:     sources,
		files:       files,
		log:         log,
		maxDepth:    maxDepth,
		storedDepth: MaxStoredDepth,
		pageLimit:   pageLimit,
		now:         time.Now,
	}
}

// Parse runs the parser with the configured depth limit.
func (u *SgfUseCase) Parse(text string) (*sgf.Collection, sgf.Summary, error) {
	collection, err := parser.Parse(text, parser.WithMaxDepth(u.maxDepth))
	if err != nil {
		return nil, sgf.Summary{}, err
	}
	return collection, sgf.Summarize(collection), nil
}

// ParseResult never fails: syntax errors end up in the result's Error field.
func (u *SgfUseCase) ParseResult(text string) record.ParseResult {
	collection, summary, err := u.Parse(text)
	if err != nil {
		return record.ParseResult{Error: err.Error()}
	}
	return record.ParseResult{Collection: collection, Summary: &summary}
}

func (u *SgfUseCase) SaveRecord(ctx context.Context, name string, source string, text string) (record.Record, error) {
	return u.save(ctx, record.Record{Name: name, Source: source}, text)
}

func (u *SgfUseCase) save(ctx context.Context, rec record.Record, text string) (record.Record, error) {
	collection, summary, err := u.Parse(text)
	if err != nil {
		return record.Record{}, err
	}
	if summary.MaxDepth > u.storedDepth {
		return record.Record{}, fmt.Errorf("%w: depth %d, at most %d", errors.ErrRecordTooDeep, summary.MaxDepth, u.storedDepth)
	}

	rec.ID = uuid.New().String()
	rec.CreatedAt = u.now().UTC()
	rec.Summary = summary
	rec.Collection = collection
	rec.Text = text
	if rec.Name == "" {
		rec.Name = defaultName(summary, rec.ID)
	}

	if err = u.records.PutRecord(ctx, rec); err != nil {
		return record.Record{}, err
	}
	if err = u.sources.SaveSource(ctx, rec.ID, text); err != nil {
		// монга уже хранит копию текста, кэш можно прогреть позже
		u.log.Warnf("failed to cache source of record %s: %v", rec.ID, err)
	}

	return rec, nil
}

// IsRejected reports errors caused by the document itself rather than by storage.
func IsRejected(err error) bool {
	return stderrors.Is(err, errors.ErrSyntax) || stderrors.Is(err, errors.ErrRecordTooDeep)
}

func defaultName(summary sgf.Summary, id string) string {
	pb, pw := summary.Root["PB"], summary.Root["PW"]
	if pb != "" || pw != "" {
		return fmt.Sprintf("%s vs %s", pb, pw)
	}
	return id
}

func (u *SgfUseCase) GetRecord(ctx context.Context, id string) (record.Record, error) {
	return u.records.GetRecordByID(ctx, id)
}

// GetSource prefers the Redis copy and falls back to the text stored in mongo.
func (u *SgfUseCase) GetSource(ctx context.Context, id string) (string, error) {
	text, err := u.sources.LoadSource(ctx, id)
	if err == nil {
		return text, nil
	}
	if !stderrors.Is(err, errors.ErrRecordNotFound) {
		u.log.Warnf("source cache lookup for %s failed: %v", id, err)
	}

	rec, err := u.records.GetRecordByID(ctx, id)
	if err != nil {
		return "", err
	}
	if err = u.sources.SaveSource(ctx, id, rec.Text); err != nil {
		u.log.Warnf("failed to re-cache source of record %s: %v", id, err)
	}
	return rec.Text, nil
}

func (u *SgfUseCase) ListRecords(ctx context.Context, pageNum int) (*record.RecordPage, error) {
	if pageNum < 1 {
		pageNum = 1
	}
	skip := int64((pageNum - 1) * u.pageLimit)

	records, total, err := u.records.ListRecords(ctx, skip, int64(u.pageLimit))
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []record.Record{}
	}

	return &record.RecordPage{
		PageNum:    pageNum,
		TotalPages: int((total + int64(u.pageLimit) - 1) / int64(u.pageLimit)),
		Total:      total,
		Records:    records,
	}, nil
}

func (u *SgfUseCase) DeleteRecord(ctx context.Context, id string) error {
	if err := u.records.DeleteRecord(ctx, id); err != nil {
		return err
	}
	if err := u.sources.DeleteSource(ctx, id); err != nil {
		u.log.Warnf("failed to drop cached source of record %s: %v", id, err)
	}
	return nil
}

// ImportDir stores every .sgf file below root. Files that do not parse or
// are too deep to store are reported and skipped; a storage error stops the import.
func (u *SgfUseCase) ImportDir(ctx context.Context, root string) (record.ImportReport, error) {
	report := record.ImportReport{Stored: []string{}, Failed: map[string]string{}}

	files, err := u.files.LoadSgfFiles(root)
	if err != nil {
		return report, err
	}

	for _, file := range files {
		rec, err := u.save(ctx, record.Record{Name: file.Name, Source: record.SourceImport, Path: file.Path}, file.Text)
		if IsRejected(err) {
			u.log.Infof("skipping %s: %v", file.Path, err)
			report.Failed[file.Path] = err.Error()
			continue
		}
		if err != nil {
			return report, fmt.Errorf("import %s: %w", file.Path, err)
		}
		report.Stored = append(report.Stored, rec.ID)
	}

	u.log.Infof("imported %d of %d files from %s", len(report.Stored), len(files), root)
	return report, nil
}
