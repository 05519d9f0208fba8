package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"course-intel/models"
	"course-intel/utils"
)

// CSVWriter saves one row per research record, for spreadsheets.
type CSVWriter struct {
	path string
}

func NewCSVWriter(path string) *CSVWriter {
	return &CSVWriter{path: path}
}

var csvHeader = []string{
	"platform", "url", "pricing_model", "currency", "prices", "discounts",
	"features", "module_count", "avg_lessons_per_module", "total_duration", "screenshots",
}

// Write saves all records to the CSV file.
// Creates the output directory if it does not exist.
func (w *CSVWriter) Write(records []models.ResearchRecord) error {
	if len(records) == 0 {
		utils.Warn("No records to write")
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(w.path), 0755); err != nil {
		return fmt.Errorf("could not create output dir: %w", err)
	}

	file, err := os.Create(w.path)
	if err != nil {
		return fmt.Errorf("could not create file: %w", err)
	}
	defer file.Close()

	if err := WriteCSV(file, records); err != nil {
		return err
	}

	utils.Success("Saved %d records → %s", len(records), w.path)
	return nil
}

// WriteCSV encodes records to any writer. Multi-valued fields are joined
// with " | ".
func WriteCSV(out io.Writer, records []models.ResearchRecord) error {
	writer := csv.NewWriter(out)

	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("csv write error: %w", err)
	}
	for _, r := range records {
		row := []string{
			r.Platform,
			r.URL,
			string(r.Pricing.Model),
			string(r.Pricing.Currency),
			strings.Join(r.Pricing.Prices, " | "),
			strings.Join(r.Pricing.Discounts, " | "),
			strings.Join(r.Features.Enabled(), " | "),
			strconv.Itoa(r.Structure.ModuleCount),
			strconv.Itoa(r.Structure.AverageLessonsPerModule),
			r.Structure.TotalDuration,
			strings.Join(r.Screenshots, " | "),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("csv write error: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("csv write error: %w", err)
	}
	return nil
}
