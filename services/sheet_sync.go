package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"anglebelearn_go/config"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// SessionSheetName is the tab holding the class-details rows
const SessionSheetName = "Student class details"

// StudentSheetName is the tab holding the student register (EM contacts,
// Supalearn passwords)
const StudentSheetName = "Student Data"

// timetableSheets are the per-weekday timetable tabs, Sunday first
var timetableSheets = []string{
	"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday",
}

// SheetSyncService pulls the source-of-truth Google spreadsheet into the
// database on a schedule, replacing manual file uploads for day-to-day use
type SheetSyncService struct {
	svc      *gsheet.Service
	importer *Importer
	cron     *cron.Cron
}

// NewSheetSyncService creates a Sheets client from the configured service
// account credentials
func NewSheetSyncService(ctx context.Context, importer *Importer) (*SheetSyncService, error) {
	credFile := strings.TrimSpace(config.AppConfig.SheetsCredentialsFile)
	if credFile == "" {
		credFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}
	if credFile == "" {
		return nil, errors.New("missing service account credentials (set SHEETS_CREDENTIALS_FILE or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	credentialsJSON, err := os.ReadFile(credFile)
	if err != nil {
		return nil, fmt.Errorf("read service account file: %w", err)
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsReadonlyScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &SheetSyncService{svc: svc, importer: importer}, nil
}

// SyncAll pulls the class-details tab, the student register and every
// timetable tab. Partial failures are logged and the rest keeps going.
func (ss *SheetSyncService) SyncAll(ctx context.Context) error {
	var errs []string

	if err := ss.SyncSessions(ctx); err != nil {
		errs = append(errs, fmt.Sprintf("sessions: %v", err))
	}
	if err := ss.SyncStudents(ctx); err != nil {
		errs = append(errs, fmt.Sprintf("students: %v", err))
	}
	if err := ss.SyncTimetable(ctx); err != nil {
		errs = append(errs, fmt.Sprintf("timetable: %v", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("sheet sync finished with errors: %s", strings.Join(errs, "; "))
	}
	return nil
}

// SyncSessions imports the class-details tab
func (ss *SheetSyncService) SyncSessions(ctx context.Context) error {
	spreadsheetID := config.AppConfig.SheetsSpreadsheetID
	if spreadsheetID == "" {
		return errors.New("SHEETS_SPREADSHEET_ID not configured")
	}

	rows, err := ss.readSheet(ctx, spreadsheetID, SessionSheetName)
	if err != nil {
		return err
	}

	result, err := ss.importer.ImportSessions(rows, "sheets", spreadsheetID, SessionSheetName)
	if err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"sheet":      SessionSheetName,
		"inserted":   result.Inserted,
		"duplicates": result.Duplicates,
		"errors":     len(result.Errors),
	}).Info("Session sheet synced")
	return nil
}

// SyncStudents imports the student register tab
func (ss *SheetSyncService) SyncStudents(ctx context.Context) error {
	spreadsheetID := config.AppConfig.SheetsSpreadsheetID
	if spreadsheetID == "" {
		return errors.New("SHEETS_SPREADSHEET_ID not configured")
	}

	rows, err := ss.readSheet(ctx, spreadsheetID, StudentSheetName)
	if err != nil {
		return err
	}

	result, err := ss.importer.ImportStudents(rows, "sheets", spreadsheetID, StudentSheetName)
	if err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"sheet":    StudentSheetName,
		"inserted": result.Inserted,
		"errors":   len(result.Errors),
	}).Info("Student sheet synced")
	return nil
}

// SyncTimetable imports every weekday tab of the timetable spreadsheet.
// Falls back to the main spreadsheet when no dedicated timetable sheet is
// configured.
func (ss *SheetSyncService) SyncTimetable(ctx context.Context) error {
	spreadsheetID := config.AppConfig.TimetableSheetID
	if spreadsheetID == "" {
		spreadsheetID = config.AppConfig.SheetsSpreadsheetID
	}
	if spreadsheetID == "" {
		return errors.New("TIMETABLE_SHEET_ID not configured")
	}

	var errs []string
	for _, day := range timetableSheets {
		rows, err := ss.readSheet(ctx, spreadsheetID, day)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", day, err))
			continue
		}
		result, err := ss.importer.ImportTimetable(rows, "sheets", spreadsheetID, day)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", day, err))
			continue
		}
		logrus.WithFields(logrus.Fields{
			"sheet":    day,
			"inserted": result.Inserted,
			"errors":   len(result.Errors),
		}).Info("Timetable sheet synced")
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// readSheet fetches all cells of one tab as strings
func (ss *SheetSyncService) readSheet(ctx context.Context, spreadsheetID, sheetName string) ([][]string, error) {
	resp, err := ss.svc.Spreadsheets.Values.Get(spreadsheetID, sheetName).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheetName, err)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, row := range resp.Values {
		cells := make([]string, 0, len(row))
		for _, cell := range row {
			cells = append(cells, fmt.Sprintf("%v", cell))
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

// StartScheduler runs SyncAll on the configured cron expression. The first
// sync runs immediately so the database is populated at startup.
func (ss *SheetSyncService) StartScheduler() error {
	spec := config.AppConfig.SheetSyncCron
	if spec == "" {
		spec = "0 */6 * * *"
	}

	ss.cron = cron.New()
	_, err := ss.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		if err := ss.SyncAll(ctx); err != nil {
			logrus.WithError(err).Warn("Scheduled sheet sync failed")
		}
	})
	if err != nil {
		return fmt.Errorf("invalid SHEET_SYNC_CRON %q: %w", spec, err)
	}
	ss.cron.Start()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		if err := ss.SyncAll(ctx); err != nil {
			logrus.WithError(err).Warn("Initial sheet sync failed")
		}
	}()

	logrus.WithField("cron", spec).Info("Sheet sync scheduler started")
	return nil
}

// StopScheduler stops the cron loop, waiting for a running sync to finish
func (ss *SheetSyncService) StopScheduler() {
	if ss.cron != nil {
		<-ss.cron.Stop().Done()
	}
}
