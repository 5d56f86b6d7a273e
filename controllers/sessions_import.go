package controllers

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"anglebelearn_go/middleware"
	"anglebelearn_go/services"
	"anglebelearn_go/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

// SessionsImportController handles uploads of the class-details, timetable
// and student-register sheets as CSV or XLSX files
type SessionsImportController struct {
	Importer *services.Importer
	storage  *storage.StorageService
}

func NewSessionsImportController(importer *services.Importer) *SessionsImportController {
	st, err := storage.NewStorageService()
	if err != nil {
		logrus.WithError(err).Warn("S3 storage unavailable; raw uploads will not be archived")
		st = nil
	}
	return &SessionsImportController{Importer: importer, storage: st}
}

// archiveUpload keeps the original file in S3 for dispute resolution; a
// failed archive never fails the import
func (sc *SessionsImportController) archiveUpload(c *fiber.Ctx, batchID string) {
	if sc.storage == nil {
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return
	}
	if url, err := sc.storage.ArchiveUpload(fh, batchID); err != nil {
		logrus.WithError(err).Warn("Failed to archive upload to S3")
	} else {
		logrus.WithField("url", url).Info("Raw upload archived")
	}
}

// POST /api/import/sessions
// Multipart form with file field: file. Optional form field: sheet (tab name
// for XLSX, defaults to the first tab).
func (sc *SessionsImportController) ImportSessions(c *fiber.Ctx) error {
	rows, fileName, sheetName, err := sc.readUpload(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	result, err := sc.Importer.ImportSessions(rows, "upload", fileName, sheetName)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	sc.archiveUpload(c, result.BatchID)
	middleware.LogActivity(c, "IMPORT", "sessions", 0, result)
	return c.JSON(fiber.Map{
		"success":    true,
		"file_name":  fileName,
		"batch_id":   result.BatchID,
		"data_rows":  result.RowCount,
		"inserted":   result.Inserted,
		"duplicates": result.Duplicates,
		"errors":     result.Errors,
	})
}

// POST /api/import/timetable
// The sheet (or form field "sheet") must be a weekday name; its rows replace
// that weekday's slot assignments.
func (sc *SessionsImportController) ImportTimetable(c *fiber.Ctx) error {
	rows, fileName, sheetName, err := sc.readUpload(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	result, err := sc.Importer.ImportTimetable(rows, "upload", fileName, sheetName)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	sc.archiveUpload(c, result.BatchID)
	middleware.LogActivity(c, "IMPORT", "timetable", 0, result)
	return c.JSON(fiber.Map{
		"success":   true,
		"file_name": fileName,
		"batch_id":  result.BatchID,
		"data_rows": result.RowCount,
		"inserted":  result.Inserted,
		"errors":    result.Errors,
	})
}

// POST /api/import/students
// Upserts the student register (EM contacts, Supalearn passwords)
func (sc *SessionsImportController) ImportStudents(c *fiber.Ctx) error {
	rows, fileName, sheetName, err := sc.readUpload(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	result, err := sc.Importer.ImportStudents(rows, "upload", fileName, sheetName)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	sc.archiveUpload(c, result.BatchID)
	middleware.LogActivity(c, "IMPORT", "students", 0, result)
	return c.JSON(fiber.Map{
		"success":   true,
		"file_name": fileName,
		"batch_id":  result.BatchID,
		"data_rows": result.RowCount,
		"inserted":  result.Inserted,
		"errors":    result.Errors,
	})
}

// readUpload reads the uploaded file into rows. CSV is read directly; XLSX
// is buffered to a temp file for excelize.
func (sc *SessionsImportController) readUpload(c *fiber.Ctx) ([][]string, string, string, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return nil, "", "", fmt.Errorf("file is required")
	}

	sheetName := strings.TrimSpace(c.FormValue("sheet"))

	filename := strings.ToLower(fh.Filename)
	switch {
	case strings.HasSuffix(filename, ".csv"):
		f, err := fh.Open()
		if err != nil {
			return nil, "", "", fmt.Errorf("cannot open file")
		}
		defer f.Close()
		rows, err := readCSVRows(f)
		if err != nil {
			return nil, "", "", err
		}
		if sheetName == "" {
			sheetName = strings.TrimSuffix(fh.Filename, filepath.Ext(fh.Filename))
		}
		return rows, fh.Filename, sheetName, nil

	case strings.HasSuffix(filename, ".xlsx"), strings.HasSuffix(filename, ".xls"):
		tmpDir, _ := os.MkdirTemp("", "ab-import-")
		tmp := filepath.Join(tmpDir, fmt.Sprintf("%d_%s", time.Now().UnixNano(), sanitizeFilename(fh.Filename)))
		if err := c.SaveFile(fh, tmp); err != nil {
			return nil, "", "", fmt.Errorf("failed to buffer upload")
		}
		rows, usedSheet, rerr := readXLSXRows(tmp, sheetName)
		_ = os.Remove(tmp)
		_ = os.Remove(tmpDir)
		if rerr != nil {
			return nil, "", "", rerr
		}
		return rows, fh.Filename, usedSheet, nil

	default:
		return nil, "", "", fmt.Errorf("unsupported file type (csv,xlsx)")
	}
}

func readCSVRows(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	var rows [][]string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, rec)
	}
	return rows, nil
}

func readXLSXRows(path, sheetName string) ([][]string, string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()
	sht := sheetName
	if sht == "" {
		sht = f.GetSheetName(0)
	}
	if sht == "" {
		sht = "Sheet1"
	}
	data, err := f.GetRows(sht)
	if err != nil {
		return nil, "", err
	}
	return data, sht, nil
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}
