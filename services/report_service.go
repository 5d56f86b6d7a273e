package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"anglebelearn_go/config"
	"anglebelearn_go/database"
	"anglebelearn_go/engine"
	"anglebelearn_go/models"
	"anglebelearn_go/utils"

	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// ReportService builds compensation reports from imported session rows.
// Pricing itself lives in the engine package; this service handles fetching,
// identity verification and caching.
type ReportService struct {
	Rates *RateService
}

func NewReportService() *ReportService {
	return &ReportService{Rates: &RateService{}}
}

// TeacherReport is the payroll breakdown returned for one teacher and period.
// The Supalearn password rides on the session rows and is only surfaced once
// the claimed identity is verified.
type TeacherReport struct {
	TeacherID         string                  `json:"teacher_id"`
	TeacherName       string                  `json:"teacher_name"`
	SupalearnPassword string                  `json:"supalearn_password,omitempty"`
	Month             string                  `json:"month"`
	Year              string                  `json:"year"`
	Sessions          []engine.PricedSession  `json:"sessions"`
	TotalHours        decimal.Decimal         `json:"total_hours"`
	TotalAmount       decimal.Decimal         `json:"total_amount"`
	Unclassified      []engine.PricedSession  `json:"unclassified,omitempty"`
	Duplicates        []engine.DuplicateGroup `json:"duplicates,omitempty"`
	ByStudent         []engine.Bucket         `json:"by_student"`
	ByWeek            []engine.Bucket         `json:"by_week"`
	GeneratedAt       time.Time               `json:"generated_at"`
}

// StudentReport is the session history returned for one student and period,
// including the EM (point-of-contact) details and Supalearn password
type StudentReport struct {
	StudentID         string                 `json:"student_id"`
	StudentName       string                 `json:"student_name"`
	EMName            string                 `json:"em_name,omitempty"`
	EMPhone           string                 `json:"em_phone,omitempty"`
	SupalearnPassword string                 `json:"supalearn_password,omitempty"`
	Month             string                 `json:"month"`
	Year              string                 `json:"year"`
	Sessions          []utils.SessionDTO     `json:"sessions"`
	Priced            []engine.PricedSession `json:"priced"`
	TotalHours        decimal.Decimal        `json:"total_hours"`
	TotalAmount       decimal.Decimal        `json:"total_amount"`
	GeneratedAt       time.Time              `json:"generated_at"`
}

// OverviewReport is the admin-wide reconciliation view for one period
type OverviewReport struct {
	Month           string                  `json:"month"`
	Year            string                  `json:"year"`
	SessionCount    int                     `json:"session_count"`
	TotalHours      decimal.Decimal         `json:"total_hours"`
	TotalAmount     decimal.Decimal         `json:"total_amount"`
	Unclassified    []engine.PricedSession  `json:"unclassified,omitempty"`
	Duplicates      []engine.DuplicateGroup `json:"duplicates,omitempty"`
	ByTeacher       []engine.Bucket         `json:"by_teacher"`
	ByLevelBoard    []engine.Bucket         `json:"by_level_board_type"`
	ByWeek          []engine.Bucket         `json:"by_week"`
	GeneratedAt     time.Time               `json:"generated_at"`
}

// ErrTeacherVerification is returned when the claimed identity does not match
// the session rows
var ErrTeacherVerification = fmt.Errorf("teacher id and name do not match any session")

// ErrStudentVerification is the student-side equivalent; EM contact details
// and the Supalearn password sit behind it
var ErrStudentVerification = fmt.Errorf("student id and name do not match any session")

// BuildTeacherReport verifies the claimed identity against imported rows and
// prices the teacher's sessions for the period. Verification requires the
// teacher ID to appear on rows for the period AND the claimed name to match
// the stored teacher name.
func (rs *ReportService) BuildTeacherReport(teacherID, claimedName, month, year string) (*TeacherReport, error) {
	cacheKey := fmt.Sprintf("reports:teacher:%s:%s-%s", utils.NormalizeSheetID(teacherID), year, month)
	var cached TeacherReport
	if rs.fromCache(cacheKey, &cached) {
		if !verifyClaimedName(claimedName, cached.TeacherName) {
			return nil, ErrTeacherVerification
		}
		return &cached, nil
	}

	rows, err := rs.fetchSessions(month, year, "teacher_id = ?", teacherID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrTeacherVerification
	}
	if !verifyClaimedName(claimedName, rows[0].TeacherName) {
		return nil, ErrTeacherVerification
	}

	schedule, err := rs.Rates.EffectiveSchedule()
	if err != nil {
		return nil, err
	}

	records := utils.ToSessionRecords(rows)
	priced, err := engine.PriceAll(records, schedule)
	if err != nil {
		return nil, err
	}

	dups, err := engine.FindDuplicates(records, engine.KeyDateStudent)
	if err != nil {
		return nil, err
	}
	byStudent, err := engine.Aggregate(priced, engine.ByStudent)
	if err != nil {
		return nil, err
	}
	byWeek, err := engine.Aggregate(priced, engine.ByISOWeek)
	if err != nil {
		return nil, err
	}

	report := &TeacherReport{
		TeacherID:         teacherID,
		TeacherName:       rows[0].TeacherName,
		SupalearnPassword: firstSupalearnPassword(rows),
		Month:             month,
		Year:              year,
		Sessions:          priced,
		TotalHours:        totalHours(priced),
		TotalAmount:       engine.TotalAmount(priced),
		Unclassified:      engine.Unclassified(priced),
		Duplicates:        dups,
		ByStudent:         byStudent,
		ByWeek:            byWeek,
		GeneratedAt:       time.Now().UTC(),
	}

	rs.toCache(cacheKey, report)
	return report, nil
}

// BuildStudentReport verifies the claimed identity the same way the teacher
// path does, then prices the student's sessions for the period and joins the
// EM contact details from the student register
func (rs *ReportService) BuildStudentReport(studentID, claimedName, month, year string) (*StudentReport, error) {
	cacheKey := fmt.Sprintf("reports:student:%s:%s-%s", utils.NormalizeSheetID(studentID), year, month)
	var cached StudentReport
	if rs.fromCache(cacheKey, &cached) {
		if !verifyClaimedName(claimedName, cached.StudentName) {
			return nil, ErrStudentVerification
		}
		return &cached, nil
	}

	rows, err := rs.fetchSessions(month, year, "student_id = ?", studentID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrStudentVerification
	}
	if !verifyClaimedName(claimedName, rows[0].StudentName) {
		return nil, ErrStudentVerification
	}

	schedule, err := rs.Rates.EffectiveSchedule()
	if err != nil {
		return nil, err
	}

	records := utils.ToSessionRecords(rows)
	priced, err := engine.PriceAll(records, schedule)
	if err != nil {
		return nil, err
	}

	report := &StudentReport{
		StudentID:   studentID,
		Month:       month,
		Year:        year,
		Sessions:    make([]utils.SessionDTO, 0, len(rows)),
		Priced:      priced,
		TotalHours:  totalHours(priced),
		TotalAmount: engine.TotalAmount(priced),
		GeneratedAt: time.Now().UTC(),
	}
	for _, r := range rows {
		report.Sessions = append(report.Sessions, utils.ToSessionDTO(r))
		if report.StudentName == "" {
			report.StudentName = r.StudentName
		}
		if report.SupalearnPassword == "" {
			report.SupalearnPassword = r.SupalearnPassword
		}
	}

	// EM details come from the student register, keyed by sheet ID
	var student models.Student
	if err := database.DB.Where("student_id = ?", studentID).First(&student).Error; err == nil {
		report.EMName = student.EMName
		report.EMPhone = student.EMPhone
		if report.StudentName == "" {
			report.StudentName = student.Name
		}
		if report.SupalearnPassword == "" {
			report.SupalearnPassword = student.SupalearnPassword
		}
	}

	rs.toCache(cacheKey, report)
	return report, nil
}

// BuildOverviewReport prices every session in the period for admin
// reconciliation: totals, unclassified rows, duplicate suspects and the
// standard aggregations
func (rs *ReportService) BuildOverviewReport(month, year string) (*OverviewReport, error) {
	cacheKey := fmt.Sprintf("reports:overview:%s-%s", year, month)
	var cached OverviewReport
	if rs.fromCache(cacheKey, &cached) {
		return &cached, nil
	}

	rows, err := rs.fetchSessions(month, year, "", nil)
	if err != nil {
		return nil, err
	}

	schedule, err := rs.Rates.EffectiveSchedule()
	if err != nil {
		return nil, err
	}

	records := utils.ToSessionRecords(rows)
	priced, err := engine.PriceAll(records, schedule)
	if err != nil {
		return nil, err
	}
	dups, err := engine.FindDuplicates(records, engine.KeyDateStudentTeacher)
	if err != nil {
		return nil, err
	}
	byTeacher, err := engine.Aggregate(priced, engine.ByTeacher)
	if err != nil {
		return nil, err
	}
	byLevelBoard, err := engine.Aggregate(priced, engine.ByLevelBoardType)
	if err != nil {
		return nil, err
	}
	byWeek, err := engine.Aggregate(priced, engine.ByISOWeek)
	if err != nil {
		return nil, err
	}

	report := &OverviewReport{
		Month:        month,
		Year:         year,
		SessionCount: len(priced),
		TotalHours:   totalHours(priced),
		TotalAmount:  engine.TotalAmount(priced),
		Unclassified: engine.Unclassified(priced),
		Duplicates:   dups,
		ByTeacher:    byTeacher,
		ByLevelBoard: byLevelBoard,
		ByWeek:       byWeek,
		GeneratedAt:  time.Now().UTC(),
	}

	rs.toCache(cacheKey, report)
	return report, nil
}

// InvalidateReportCache drops all cached reports. Called after imports and
// rate changes so stale totals never survive new data.
func (rs *ReportService) InvalidateReportCache() {
	redisClient := database.GetRedisClient()
	if redisClient == nil {
		return
	}
	ctx := context.Background()
	iter := redisClient.Scan(ctx, 0, "reports:*", 200).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		logrus.WithError(err).Warn("Failed to scan report cache keys")
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := redisClient.Del(ctx, keys...).Err(); err != nil {
		logrus.WithError(err).Warn("Failed to invalidate report cache")
		return
	}
	logrus.WithField("keys", len(keys)).Info("Report cache invalidated")
}

// fetchSessions loads session rows for the period, newest import first kept
// stable by primary key so reports are deterministic
func (rs *ReportService) fetchSessions(month, year, extraCond string, extraArg interface{}) ([]models.ClassSession, error) {
	q := database.DB.Model(&models.ClassSession{}).Order("id ASC")
	if month != "" {
		q = q.Where("month = ?", normalizeMonth(month))
	}
	if year != "" {
		q = q.Where("year = ?", strings.TrimSpace(year))
	}
	if extraCond != "" {
		q = q.Where(extraCond, extraArg)
	}

	var rows []models.ClassSession
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch sessions: %w", err)
	}
	return rows, nil
}

func (rs *ReportService) fromCache(key string, out interface{}) bool {
	redisClient := database.GetRedisClient()
	if redisClient == nil {
		return false
	}
	data, err := redisClient.Get(context.Background(), key).Result()
	if err != nil {
		if err != redis.Nil {
			logrus.WithError(err).WithField("key", key).Warn("Report cache read failed")
		}
		return false
	}
	if err := json.Unmarshal([]byte(data), out); err != nil {
		logrus.WithError(err).WithField("key", key).Warn("Report cache entry corrupt, ignoring")
		return false
	}
	return true
}

func (rs *ReportService) toCache(key string, report interface{}) {
	redisClient := database.GetRedisClient()
	if redisClient == nil {
		return
	}
	data, err := json.Marshal(report)
	if err != nil {
		logrus.WithError(err).Warn("Failed to marshal report for cache")
		return
	}
	ttl := 15 * time.Minute
	if config.AppConfig != nil && config.AppConfig.ReportCacheTTL > 0 {
		ttl = config.AppConfig.ReportCacheTTL
	}
	if err := redisClient.Set(context.Background(), key, data, ttl).Err(); err != nil {
		logrus.WithError(err).WithField("key", key).Warn("Report cache write failed")
	}
}

// verifyClaimedName wraps the shared name check; an empty claim never passes
func verifyClaimedName(claimed, stored string) bool {
	if strings.TrimSpace(claimed) == "" {
		return false
	}
	return utils.TeacherNameMatches(claimed, stored)
}

// firstSupalearnPassword returns the password carried on the first session
// row that has one; the sheet repeats it per row
func firstSupalearnPassword(rows []models.ClassSession) string {
	for _, r := range rows {
		if r.SupalearnPassword != "" {
			return r.SupalearnPassword
		}
	}
	return ""
}

func totalHours(priced []engine.PricedSession) decimal.Decimal {
	total := decimal.Zero
	for _, p := range priced {
		if p.Session.Hours.Sign() > 0 {
			total = total.Add(p.Session.Hours)
		}
	}
	return total
}

// normalizeMonth canonicalizes month filters so "jan", "Jan" and "January"
// all hit the same imported rows
func normalizeMonth(month string) string {
	m := strings.TrimSpace(month)
	if len(m) == 0 {
		return m
	}
	lower := strings.ToLower(m)
	capital := strings.ToUpper(lower[:1]) + lower[1:]
	if t, err := time.Parse("January", capital); err == nil {
		return t.Format("Jan")
	}
	if t, err := time.Parse("Jan", capital); err == nil {
		return t.Format("Jan")
	}
	return m
}
