// Package importer reads word lists from spreadsheets and CSV files.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Cyber-shmuck/Dutch/internal/domain"
)

// Column names recognised in the header row, lowercased. The first name of
// each group is canonical.
var headerAliases = map[string][]string{
	"dutch":       {"dutch", "nl", "word"},
	"translation": {"translation"},
	"ru":          {"ru", "russian"},
	"en":          {"en", "english"},
	"uk":          {"uk", "ukrainian"},
	"level":       {"level"},
}

// ImportConfig defines the import configuration.
type ImportConfig struct {
	FilePath     string       // Path to the .xlsx or .csv file
	SheetName    string       // Sheet to import; empty means the first sheet
	DefaultLevel domain.Level // Level for rows that leave it blank
}

// ImportResult holds the outcome of reading one file.
type ImportResult struct {
	TotalProcessed int
	Words          []domain.NewWord
	Errors         []string
}

// Supported reports whether path has an extension the importer reads.
func Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".csv":
		return true
	}
	return false
}

// ImportWords reads words from an Excel or CSV file. The first row must be
// a header naming the columns; a "dutch" column and at least one
// translation column are required. Rows that cannot be used are reported
// in ImportResult.Errors and skipped.
func ImportWords(config ImportConfig) (*ImportResult, error) {
	if config.DefaultLevel == "" {
		config.DefaultLevel = domain.LevelA1
	}

	var (
		rows [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(config.FilePath)) {
	case ".csv":
		rows, err = readCSV(config.FilePath)
	case ".xlsx":
		rows, err = readExcel(config.FilePath, config.SheetName)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", config.FilePath)
	}
	if err != nil {
		return nil, err
	}

	return importRows(rows, config.DefaultLevel)
}

func readExcel(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook %s has no sheets", path)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	return rows, nil
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %w", err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func importRows(rows [][]string, defaultLevel domain.Level) (*ImportResult, error) {
	if len(rows) == 0 {
		return nil, errors.New("file is empty")
	}
	columns := headerColumns(rows[0])
	if _, ok := columns["dutch"]; !ok {
		return nil, errors.New(`header row has no "dutch" column`)
	}
	_, hasT := columns["translation"]
	_, hasRu := columns["ru"]
	_, hasEn := columns["en"]
	_, hasUk := columns["uk"]
	if !hasT && !hasRu && !hasEn && !hasUk {
		return nil, errors.New("header row has no translation column")
	}

	result := &ImportResult{Errors: make([]string, 0)}
	for i, row := range rows[1:] {
		rowNum := i + 2
		cell := func(name string) string {
			idx, ok := columns[name]
			if !ok || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}
		if isBlank(row) {
			continue
		}
		result.TotalProcessed++

		w := domain.NewWord{
			Dutch:         cell("dutch"),
			Translation:   cell("translation"),
			TranslationRu: cell("ru"),
			TranslationEn: cell("en"),
			TranslationUk: cell("uk"),
			Level:         defaultLevel,
		}
		if w.Dutch == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: word cannot be empty", rowNum))
			continue
		}
		if w.Translation == "" && w.TranslationRu == "" && w.TranslationEn == "" && w.TranslationUk == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: translation cannot be empty", rowNum))
			continue
		}
		if raw := cell("level"); raw != "" {
			level, err := domain.ParseLevel(raw)
			if err != nil || !level.IsCEFR() {
				result.Errors = append(result.Errors, fmt.Sprintf("Row %d: invalid level %q", rowNum, raw))
				continue
			}
			w.Level = level
		}
		result.Words = append(result.Words, w)
	}
	return result, nil
}

func headerColumns(header []string) map[string]int {
	columns := make(map[string]int)
	for idx, name := range header {
		name = strings.ToLower(strings.TrimSpace(name))
		for canonical, aliases := range headerAliases {
			for _, alias := range aliases {
				if name == alias {
					if _, seen := columns[canonical]; !seen {
						columns[canonical] = idx
					}
				}
			}
		}
	}
	return columns
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
