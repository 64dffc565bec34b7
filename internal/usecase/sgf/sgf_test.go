package sgf

import (
	"context"
	stderrors "errors"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"sgf_service/internal/domain/record"
	"sgf_service/internal/domain/sgf"
	"sgf_service/internal/errors"
)

// memoryRecords rejects records MongoDB would refuse when maxNesting is set.
type memoryRecords struct {
	records    map[string]record.Record
	putErr     error
	maxNesting int
}

// bsonNesting counts document and array levels down to the deepest value list:
// record, collection, trees, then two per game tree, then sequence, nodes,
// node, properties, property and values.
func bsonNesting(rec record.Record) int {
	return 2*sgf.Summarize(rec.Collection).MaxDepth + 8
}

func newMemoryRecords() *memoryRecords {
	return &memoryRecords{records: map[string]record.Record{}}
}

func (m *memoryRecords) PutRecord(ctx context.Context, rec record.Record) error {
	if m.putErr != nil {
		return m.putErr
	}
	if m.maxNesting > 0 && bsonNesting(rec) > m.maxNesting {
		return fmt.Errorf("document nesting %d exceeds %d", bsonNesting(rec), m.maxNesting)
	}
	m.records[rec.ID] = rec
	return nil
}

func (m *memoryRecords) GetRecordByID(ctx context.Context, id string) (record.Record, error) {
	rec, ok := m.records[id]
	if !ok {
		return record.Record{}, errors.ErrRecordNotFound
	}
	return rec, nil
}

func (m *memoryRecords) ListRecords(ctx context.Context, skip int64, limit int64) ([]record.Record, int64, error) {
	all := make([]record.Record, 0, len(m.records))
	for _, rec := range m.records {
		all = append(all, rec)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })

	total := int64(len(all))
	if skip > total {
		skip = total
	}
	end := skip + limit
	if end > total {
		end = total
	}
	return all[skip:end], total, nil
}

func (m *memoryRecords) DeleteRecord(ctx context.Context, id string) error {
	if _, ok := m.records[id]; !ok {
		return errors.ErrRecordNotFound
	}
	delete(m.records, id)
	return nil
}

type memorySources struct {
	texts   map[string]string
	loadErr error
}

func newMemorySources() *memorySources {
	return &memorySources{texts: map[string]string{}}
}

func (m *memorySources) SaveSource(ctx context.Context, id string, text string) error {
	m.texts[id] = text
	return nil
}

func (m *memorySources) LoadSource(ctx context.Context, id string) (string, error) {
	if m.loadErr != nil {
		return "", m.loadErr
	}
	text, ok := m.texts[id]
	if !ok {
		return "", errors.ErrRecordNotFound
	}
	return text, nil
}

func (m *memorySources) DeleteSource(ctx context.Context, id string) error {
	delete(m.texts, id)
	return nil
}

type staticFiles struct {
	files []record.SgfFile
	err   error
}

func (s staticFiles) LoadSgfFiles(root string) ([]record.SgfFile, error) {
	return s.files, s.err
}

func newUseCase(files FileLoader) (*SgfUseCase, *memoryRecords, *memorySources) {
	records := newMemoryRecords()
	sources := newMemorySources()
	uc := NewSgfUseCase(records, sources, files, zap.NewNop().Sugar(), 100, 2)
	uc.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return uc, records, sources
}

func TestParseResult(t *testing.T) {
	uc, _, _ := newUseCase(nil)

	ok := uc.ParseResult("(;GM[1];B[pd](;W[dd])(;W[dp]))")
	if ok.Error != "" || ok.Collection == nil || ok.Summary == nil {
		t.Fatalf("unexpected result %+v", ok)
	}
	if ok.Summary.Nodes != 4 || ok.Summary.Variations != 2 {
		t.Errorf("unexpected summary %+v", ok.Summary)
	}

	bad := uc.ParseResult("(;B)")
	if bad.Error != "expected '['" || bad.Collection != nil {
		t.Errorf("unexpected result %+v", bad)
	}
}

func TestParseDepthLimit(t *testing.T) {
	records, sources := newMemoryRecords(), newMemorySources()
	uc := NewSgfUseCase(records, sources, nil, zap.NewNop().Sugar(), 1, 10)
	if _, _, err := uc.Parse("(;B[aa](;W[bb]))"); err == nil || err.Error() != "maximum nesting depth exceeded" {
		t.Errorf("Expected depth error, got %v", err)
	}
}

func TestSaveRecord(t *testing.T) {
	uc, records, sources := newUseCase(nil)

	rec, err := uc.SaveRecord(context.Background(), "", record.SourceAPI, "(;PB[bob]PW[alice];B[pd])")
	if err != nil {
		t.Fatalf("SaveRecord failed: %v", err)
	}
	if rec.ID == "" || rec.Name != "bob vs alice" || rec.Source != record.SourceAPI {
		t.Errorf("unexpected record %+v", rec)
	}
	if !rec.CreatedAt.Equal(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)) {
		t.Errorf("unexpected creation time %v", rec.CreatedAt)
	}
	if _, ok := records.records[rec.ID]; !ok {
		t.Errorf("Expected record to be stored")
	}
	if sources.texts[rec.ID] != "(;PB[bob]PW[alice];B[pd])" {
		t.Errorf("Expected source to be cached")
	}
}

func TestSaveRecordSyntaxError(t *testing.T) {
	uc, records, _ := newUseCase(nil)
	_, err := uc.SaveRecord(context.Background(), "x", record.SourceAPI, "(;B[pd]")
	if !stderrors.Is(err, errors.ErrSyntax) {
		t.Fatalf("Expected syntax error, got %v", err)
	}
	if len(records.records) != 0 {
		t.Errorf("Expected nothing stored")
	}
}

func TestSaveRecordStoreError(t *testing.T) {
	uc, records, _ := newUseCase(nil)
	records.putErr = errors.ErrInternal
	if _, err := uc.SaveRecord(context.Background(), "x", record.SourceAPI, "(;B[pd])"); !stderrors.Is(err, errors.ErrInternal) {
		t.Errorf("Expected store error, got %v", err)
	}
}

func TestGetSourceFallsBackToRecord(t *testing.T) {
	uc, _, sources := newUseCase(nil)
	rec, err := uc.SaveRecord(context.Background(), "x", record.SourceAPI, "(;C[hi])")
	if err != nil {
		t.Fatal(err)
	}

	delete(sources.texts, rec.ID)
	text, err := uc.GetSource(context.Background(), rec.ID)
	if err != nil || text != "(;C[hi])" {
		t.Fatalf("unexpected source %q, %v", text, err)
	}
	if sources.texts[rec.ID] != "(;C[hi])" {
		t.Errorf("Expected source to be re-cached")
	}

	sources.loadErr = stderrors.New("redis down")
	if text, err = uc.GetSource(context.Background(), rec.ID); err != nil || text != "(;C[hi])" {
		t.Errorf("Expected fallback on cache failure, got %q, %v", text, err)
	}

	if _, err = uc.GetSource(context.Background(), "missing"); !stderrors.Is(err, errors.ErrRecordNotFound) {
		t.Errorf("Expected not found, got %v", err)
	}
}

func TestListRecords(t *testing.T) {
	uc, _, _ := newUseCase(nil)
	for _, name := range []string{"a", "b", "c"} {
		if _, err := uc.SaveRecord(context.Background(), name, record.SourceAPI, "(;B[aa])"); err != nil {
			t.Fatal(err)
		}
	}

	page, err := uc.ListRecords(context.Background(), 2)
	if err != nil {
		t.Fatal(err)
	}
	if page.TotalPages != 2 || page.Total != 3 || len(page.Records) != 1 || page.Records[0].Name != "c" {
		t.Errorf("unexpected page %+v", page)
	}

	page, err = uc.ListRecords(context.Background(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if page.PageNum != 1 || len(page.Records) != 2 {
		t.Errorf("unexpected first page %+v", page)
	}

	page, err = uc.ListRecords(context.Background(), 9)
	if err != nil {
		t.Fatal(err)
	}
	if page.Records == nil || len(page.Records) != 0 {
		t.Errorf("Expected empty page, got %+v", page)
	}
}

func TestDeleteRecord(t *testing.T) {
	uc, records, sources := newUseCase(nil)
	rec, err := uc.SaveRecord(context.Background(), "x", record.SourceAPI, "(;B[aa])")
	if err != nil {
		t.Fatal(err)
	}
	if err = uc.DeleteRecord(context.Background(), rec.ID); err != nil {
		t.Fatalf("DeleteRecord failed: %v", err)
	}
	if len(records.records) != 0 || len(sources.texts) != 0 {
		t.Errorf("Expected record and source to be gone")
	}
	if err = uc.DeleteRecord(context.Background(), rec.ID); !stderrors.Is(err, errors.ErrRecordNotFound) {
		t.Errorf("Expected not found, got %v", err)
	}
}

func TestImportDir(t *testing.T) {
	files := staticFiles{files: []record.SgfFile{
		{Path: "games/1.sgf", Name: "1", Text: "(;GM[1];B[pd])"},
		{Path: "games/broken.sgf", Name: "broken", Text: "(;GM[1]"},
		{Path: "games/2.sgf", Name: "2", Text: "(;GM[1](;B[aa])(;B[bb]))"},
	}}
	uc, records, _ := newUseCase(files)

	report, err := uc.ImportDir(context.Background(), "games")
	if err != nil {
		t.Fatalf("ImportDir failed: %v", err)
	}
	if len(report.Stored) != 2 {
		t.Errorf("Expected 2 stored records, got %v", report.Stored)
	}
	if report.Failed["games/broken.sgf"] != "expected ')'" {
		t.Errorf("unexpected failures %v", report.Failed)
	}
	for _, id := range report.Stored {
		rec := records.records[id]
		if rec.Source != record.SourceImport || rec.Path == "" {
			t.Errorf("unexpected imported record %+v", rec)
		}
	}
}

func TestImportDirErrors(t *testing.T) {
	uc, _, _ := newUseCase(staticFiles{err: stderrors.New("no such dir")})
	if _, err := uc.ImportDir(context.Background(), "nowhere"); err == nil {
		t.Errorf("Expected loader error")
	}

	uc, records, _ := newUseCase(staticFiles{files: []record.SgfFile{{Path: "a.sgf", Name: "a", Text: "(;B[aa])"}}})
	records.putErr = errors.ErrInternal
	if _, err := uc.ImportDir(context.Background(), "."); !stderrors.Is(err, errors.ErrInternal) {
		t.Errorf("Expected storage error, got %v", err)
	}
}

func nested(depth int) string {
	return strings.Repeat("(;B[aa]", depth) + strings.Repeat(")", depth)
}

func TestSaveRecordDepthFitsMongo(t *testing.T) {
	uc, records, sources := newUseCase(nil)
	records.maxNesting = 100

	rec, err := uc.SaveRecord(context.Background(), "deep", record.SourceAPI, nested(MaxStoredDepth))
	if err != nil {
		t.Fatalf("Expected depth %d to be stored: %v", MaxStoredDepth, err)
	}
	if rec.Summary.MaxDepth != MaxStoredDepth {
		t.Errorf("unexpected depth %d", rec.Summary.MaxDepth)
	}

	_, err = uc.SaveRecord(context.Background(), "deeper", record.SourceAPI, nested(MaxStoredDepth+10))
	if !stderrors.Is(err, errors.ErrRecordTooDeep) {
		t.Fatalf("Expected ErrRecordTooDeep, got %v", err)
	}
	if !IsRejected(err) {
		t.Errorf("Expected too deep record to count as rejected")
	}
	if len(records.records) != 1 || len(sources.texts) != 1 {
		t.Errorf("Expected only the first record to be stored")
	}
}

func TestImportDirSkipsTooDeep(t *testing.T) {
	files := staticFiles{files: []record.SgfFile{
		{Path: "deep.sgf", Name: "deep", Text: nested(60)},
		{Path: "flat.sgf", Name: "flat", Text: "(;B[aa])"},
	}}
	uc, records, _ := newUseCase(files)
	records.maxNesting = 100

	report, err := uc.ImportDir(context.Background(), ".")
	if err != nil {
		t.Fatalf("Expected import to continue past deep file: %v", err)
	}
	if len(report.Stored) != 1 || len(records.records) != 1 {
		t.Errorf("Expected the flat file to be stored, got %v", report.Stored)
	}
	if msg := report.Failed["deep.sgf"]; !strings.HasPrefix(msg, errors.ErrRecordTooDeep.Error()) {
		t.Errorf("unexpected failure %q", msg)
	}
}
