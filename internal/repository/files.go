package repository

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"sgf_service/internal/domain/record"
)

// SgfFiles reads .sgf files from disk.
type SgfFiles struct{}

func NewSgfFiles() *SgfFiles {
	return &SgfFiles{}
}

// LoadSgfFiles walks root and returns every file with an .sgf extension
// (case-insensitive), sorted by path.
func (f *SgfFiles) LoadSgfFiles(root string) ([]record.SgfFile, error) {
	var files []record.SgfFile
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !strings.EqualFold(filepath.Ext(info.Name()), ".sgf") {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		files = append(files, record.SgfFile{
			Path: path,
			Name: strings.TrimSuffix(info.Name(), filepath.Ext(info.Name())),
			Text: string(data),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}
