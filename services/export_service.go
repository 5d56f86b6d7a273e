package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"anglebelearn_go/config"
	"anglebelearn_go/database"
	"anglebelearn_go/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"
)

// ExportService generates payroll CSVs from priced reports and uploads them
// to S3 for the accounting handoff
type ExportService struct {
	reports   *ReportService
	awsConfig aws.Config
}

func NewExportService(reports *ReportService) *ExportService {
	cfg, err := awscfg.LoadDefaultConfig(context.Background(), awscfg.WithRegion(config.AppConfig.AWSRegion))
	if err != nil {
		logrus.WithError(err).Warn("Failed to load AWS config; payroll exports will fail until configured")
	}
	return &ExportService{reports: reports, awsConfig: cfg}
}

// ExportTeacherPayroll prices one teacher's period, writes the breakdown as
// CSV and uploads it. The stored PayrollExport row is returned for the API.
func (es *ExportService) ExportTeacherPayroll(teacherID, claimedName, month, year string) (*models.PayrollExport, error) {
	report, err := es.reports.BuildTeacherReport(teacherID, claimedName, month, year)
	if err != nil {
		return nil, err
	}

	buf, err := es.renderCSV(report)
	if err != nil {
		return nil, err
	}

	fileName := fmt.Sprintf("payroll_%s_%s-%s.csv", sanitizeKeyPart(teacherID), year, month)
	s3Key := fmt.Sprintf("payroll/%s/%s/%s", year, month, fileName)

	if err := es.uploadToS3(s3Key, buf, "text/csv"); err != nil {
		return nil, fmt.Errorf("failed to upload payroll export: %w", err)
	}

	export := models.PayrollExport{
		TeacherID: teacherID,
		Month:     month,
		Year:      year,
		S3Key:     s3Key,
		RowCount:  len(report.Sessions),
		FileSize:  int64(buf.Len()),
	}
	if err := database.DB.Create(&export).Error; err != nil {
		logrus.WithError(err).Warn("Failed to record payroll export")
	}

	logrus.WithFields(logrus.Fields{
		"teacher_id": teacherID,
		"s3_key":     s3Key,
		"rows":       export.RowCount,
	}).Info("Payroll export uploaded")
	return &export, nil
}

// renderCSV writes one row per priced session plus a totals row. Amounts are
// rounded to 2 places at this presentation boundary only.
func (es *ExportService) renderCSV(report *TeacherReport) (*bytes.Buffer, error) {
	buf := new(bytes.Buffer)
	w := csv.NewWriter(buf)

	header := []string{
		"Date", "Student ID", "Student Name", "Class", "Syllabus",
		"Class Type", "Category", "Hours", "Rate Rule", "Amount", "Warning",
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, p := range report.Sessions {
		row := []string{
			p.Session.Date,
			p.Session.StudentID,
			p.Session.StudentName,
			p.Session.RawLevel,
			p.Session.Board,
			p.Session.ClassType,
			string(p.Category),
			p.Session.Hours.String(),
			p.MatchedRule,
			p.Amount.Round(2).String(),
			p.Warning,
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	totals := []string{
		"TOTAL", "", "", "", "", "", "",
		report.TotalHours.String(), "",
		report.TotalAmount.Round(2).String(), "",
	}
	if err := w.Write(totals); err != nil {
		return nil, err
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf, nil
}

// uploadToS3 uploads data to the configured bucket
func (es *ExportService) uploadToS3(key string, data *bytes.Buffer, contentType string) error {
	if es.awsConfig.Region == "" {
		return fmt.Errorf("AWS not configured")
	}

	s3Client := s3.NewFromConfig(es.awsConfig)
	bucketName := config.AppConfig.S3BucketName

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	_, err := s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &bucketName,
		Key:         &key,
		Body:        bytes.NewReader(data.Bytes()),
		ContentType: aws.String(contentType),
	})
	return err
}

// ListExports returns past exports, newest first
func (es *ExportService) ListExports(teacherID string) ([]models.PayrollExport, error) {
	q := database.DB.Order("created_at DESC")
	if teacherID != "" {
		q = q.Where("teacher_id = ?", teacherID)
	}
	var exports []models.PayrollExport
	if err := q.Find(&exports).Error; err != nil {
		return nil, fmt.Errorf("failed to list payroll exports: %w", err)
	}
	return exports, nil
}

func sanitizeKeyPart(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			out = append(out, r)
		case r == ' ':
			// drop
		default:
			out = append(out, '_')
		}
	}
	return string(out)
}
