package services

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"anglebelearn_go/database"
	"anglebelearn_go/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Importer turns tabular rows (uploaded files or synced sheets) into stored
// session, timetable and student records. Rows are deduplicated by a
// deterministic RowUID so re-importing the same file is safe.
type Importer struct {
	Reports *ReportService
}

func NewImporter(reports *ReportService) *Importer {
	return &Importer{Reports: reports}
}

// ImportResult summarizes one import pass
type ImportResult struct {
	BatchID    string   `json:"batch_id"`
	RowCount   int      `json:"row_count"`
	Inserted   int      `json:"inserted"`
	Duplicates int      `json:"duplicates"`
	Errors     []string `json:"errors,omitempty"`
}

// weekdayNames maps timetable sheet names to weekday numbers, Sunday first
var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ImportSessions ingests class-details rows. The first row must be the
// header. Cell values are stored raw; pricing normalizes later so one bad
// cell degrades a single row instead of failing the batch.
func (im *Importer) ImportSessions(rows [][]string, source, fileName, sheetName string) (*ImportResult, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("no rows to import")
	}

	header := rows[0]
	col := MapHeaderIndexes(header)
	if _, ok := col["date"]; !ok {
		return nil, fmt.Errorf("missing column: Date")
	}
	if _, ok := col["student id"]; !ok {
		return nil, fmt.Errorf("missing column: Student ID")
	}

	result := &ImportResult{
		BatchID:  uuid.NewString(),
		RowCount: len(rows) - 1,
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		for i := 1; i < len(rows); i++ {
			r := rows[i]
			get := func(keys ...string) string {
				return cellValue(col, r, keys...)
			}

			dateStr := get("date")
			studentID := get("student id")
			if dateStr == "" && studentID == "" {
				continue // blank filler row
			}

			// Deterministic RowUID from key columns so repeated imports of
			// the same sheet never double-count a session
			rowUID := strings.Join([]string{
				dateStr,
				studentID,
				get("teacher id", "teachers id"),
				get("subject"),
				get("hours", "hr"),
				get("chapter taken"),
				sheetName,
			}, "|")

			var existing models.ClassSession
			if err := tx.Where("row_uid = ?", rowUID).First(&existing).Error; err == nil {
				result.Duplicates++
				continue
			}

			// "Hr" is what the live sheet calls it; "hours" covers cleaned-up
			// re-exports
			hours, _ := strconv.ParseFloat(strings.ReplaceAll(get("hours", "hr"), ",", ""), 64)

			rawMap := map[string]string{}
			for j, h := range header {
				if j < len(r) {
					rawMap[h] = r[j]
				}
			}
			rawBytes, _ := json.Marshal(rawMap)

			session := models.ClassSession{
				RowUID:            rowUID,
				Date:              dateStr,
				ParsedDate:        ParseSheetDate(dateStr),
				Month:             get("mm", "month"),
				Year:              get("year"),
				StudentID:         studentID,
				StudentName:       get("student name", "student"),
				TeacherID:         get("teacher id", "teachers id"),
				TeacherName:       get("teacher name", "teachers name"),
				Level:             get("class", "level"),
				Syllabus:          get("syllabus", "board"),
				ClassType:         get("class type", "type of class"),
				Subject:           get("subject"),
				ChapterTaken:      get("chapter taken"),
				Hours:             hours,
				SupalearnPassword: get("supalearn password"),
				SourceSheet:       sheetName,
				ImportBatchID:     result.BatchID,
				Raw:               models.JSON(rawBytes),
			}

			if err := tx.Create(&session).Error; err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", i+1, err))
				continue
			}
			result.Inserted++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	im.recordBatch(result, source, fileName, sheetName)
	im.invalidate()
	return result, nil
}

// ImportTimetable ingests one weekday's slot assignments. The sheet name
// must be a weekday name ("Sunday" .. "Saturday").
func (im *Importer) ImportTimetable(rows [][]string, source, fileName, sheetName string) (*ImportResult, error) {
	weekday, ok := weekdayNames[strings.ToLower(strings.TrimSpace(sheetName))]
	if !ok {
		return nil, fmt.Errorf("timetable sheet name must be a weekday, got %q", sheetName)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no rows to import")
	}

	header := rows[0]
	col := MapHeaderIndexes(header)
	if _, ok := col["time slot"]; !ok {
		return nil, fmt.Errorf("missing column: Time Slot")
	}

	result := &ImportResult{
		BatchID:  uuid.NewString(),
		RowCount: len(rows) - 1,
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		// A timetable sheet is authoritative for its weekday; replace its
		// previous rows wholesale so removed slots disappear
		if err := tx.Where("weekday = ?", int(weekday)).Delete(&models.SlotAssignment{}).Error; err != nil {
			return fmt.Errorf("failed to clear weekday %d: %w", int(weekday), err)
		}

		for i := 1; i < len(rows); i++ {
			r := rows[i]
			get := func(keys ...string) string {
				return cellValue(col, r, keys...)
			}

			timeSlot := get("time slot")
			studentID := get("student id")
			if timeSlot == "" && studentID == "" {
				continue
			}

			rowUID := strings.Join([]string{
				sheetName,
				timeSlot,
				get("teacher id"),
				studentID,
				fmt.Sprintf("r%d", i),
			}, "|")

			assignment := models.SlotAssignment{
				RowUID:      rowUID,
				Weekday:     int(weekday),
				TimeSlot:    timeSlot,
				TeacherID:   get("teacher id"),
				StudentID:   studentID,
				Status:      get("status"),
				SourceSheet: sheetName,
			}

			if err := tx.Create(&assignment).Error; err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", i+1, err))
				continue
			}
			result.Inserted++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	im.recordBatch(result, source, fileName, sheetName)
	return result, nil
}

// ImportStudents upserts the student register including the EM
// (point-of-contact) columns and Supalearn passwords, keyed by Student ID
func (im *Importer) ImportStudents(rows [][]string, source, fileName, sheetName string) (*ImportResult, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("no rows to import")
	}

	header := rows[0]
	col := MapHeaderIndexes(header)
	if _, ok := col["student id"]; !ok {
		return nil, fmt.Errorf("missing column: Student ID")
	}

	result := &ImportResult{
		BatchID:  uuid.NewString(),
		RowCount: len(rows) - 1,
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		for i := 1; i < len(rows); i++ {
			r := rows[i]
			get := func(keys ...string) string {
				return cellValue(col, r, keys...)
			}

			studentID := get("student id")
			if studentID == "" {
				continue
			}

			var student models.Student
			err := tx.Where("student_id = ?", studentID).First(&student).Error
			isNew := err == gorm.ErrRecordNotFound
			if err != nil && !isNew {
				result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", i+1, err))
				continue
			}

			student.StudentID = studentID
			if v := get("student name", "student", "name"); v != "" {
				student.Name = v
			}
			if v := get("em name", "em"); v != "" {
				student.EMName = v
			}
			if v := get("em phone", "phone number", "em phone number"); v != "" {
				student.EMPhone = v
			}
			if v := get("supalearn password"); v != "" {
				student.SupalearnPassword = v
			}
			student.Active = true

			if isNew {
				err = tx.Create(&student).Error
			} else {
				err = tx.Save(&student).Error
			}
			if err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", i+1, err))
				continue
			}
			result.Inserted++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	im.recordBatch(result, source, fileName, sheetName)
	im.invalidate()
	return result, nil
}

func (im *Importer) recordBatch(result *ImportResult, source, fileName, sheetName string) {
	status := "completed"
	if len(result.Errors) > 0 {
		status = "partial"
		if result.Inserted == 0 {
			status = "failed"
		}
	}
	batch := models.ImportBatch{
		BatchID:    result.BatchID,
		Source:     source,
		FileName:   fileName,
		SheetName:  sheetName,
		RowCount:   result.RowCount,
		Inserted:   result.Inserted,
		Duplicates: result.Duplicates,
		Errors:     len(result.Errors),
		Status:     status,
	}
	if err := database.DB.Create(&batch).Error; err != nil {
		logrus.WithError(err).Warn("Failed to record import batch")
	}
}

func (im *Importer) invalidate() {
	if im.Reports != nil {
		im.Reports.InvalidateReportCache()
	}
}

// MapHeaderIndexes builds a lowercase header -> column index map
func MapHeaderIndexes(header []string) map[string]int {
	m := map[string]int{}
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if key != "" {
			m[key] = i
		}
	}
	return m
}

// cellValue returns the first non-empty cell among candidate header names
func cellValue(col map[string]int, row []string, keys ...string) string {
	for _, k := range keys {
		if idx, ok := col[k]; ok && idx < len(row) {
			if v := strings.TrimSpace(row[idx]); v != "" {
				return v
			}
		}
	}
	return ""
}

// ParseSheetDate tries the date layouts seen in the source sheets. Returns
// nil when nothing matches; the raw literal is still stored.
func ParseSheetDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	layouts := []string{"02/01/2006", "2/1/2006", "2006-01-02", "02-01-2006", time.RFC3339}
	for _, l := range layouts {
		if t, err := time.Parse(l, s); err == nil {
			return &t
		}
	}
	if t, err := time.Parse("2/1/06", s); err == nil {
		return &t
	}
	return nil
}
