package models

import (
	"database/sql/driver"
	"time"

	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// JSON field type for GORM
type JSON []byte

func (j JSON) Value() (driver.Value, error) {
	if j.IsNull() {
		return nil, nil
	}
	return string(j), nil
}

func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	s, ok := value.([]byte)
	if !ok {
		return nil
	}
	*j = append((*j)[0:0], s...)
	return nil
}

func (j JSON) MarshalJSON() ([]byte, error) {
	if j == nil {
		return []byte("null"), nil
	}
	return j, nil
}

func (j *JSON) UnmarshalJSON(data []byte) error {
	if j == nil {
		return nil
	}
	*j = append((*j)[0:0], data...)
	return nil
}

func (j JSON) IsNull() bool {
	return len(j) == 0 || string(j) == "null"
}

// User model for dashboard logins
type User struct {
	BaseModel
	Username string `json:"username" gorm:"size:100;not null;uniqueIndex"`
	Password string `json:"-" gorm:"size:255;not null"`
	Email    string `json:"email" gorm:"size:255;uniqueIndex"`
	Phone    string `json:"phone" gorm:"size:20"`
	Role     string `json:"role" gorm:"size:50;not null;default:'teacher';type:enum('owner','admin','teacher','student')"` // owner, admin, teacher, student
	Status   string `json:"status" gorm:"size:50;not null;default:'active';type:enum('active','inactive','suspended')"`    // active, inactive, suspended

	// Sheet-side identity this login reports on (teacher or student code
	// from the class-details sheet)
	SheetID string `json:"sheet_id" gorm:"size:100;index"`
}

// Teacher model, one row per tutor appearing in the class-details sheet
type Teacher struct {
	BaseModel
	TeacherID string `json:"teacher_id" gorm:"size:100;not null;uniqueIndex"`
	Name      string `json:"name" gorm:"size:200"`
	Email     string `json:"email" gorm:"size:255"`
	Phone     string `json:"phone" gorm:"size:20"`
	Active    bool   `json:"active" gorm:"default:true"`
}

// Student model with the EM (point-of-contact) details merged from the
// student-data sheet
type Student struct {
	BaseModel
	StudentID         string `json:"student_id" gorm:"size:100;not null;uniqueIndex"`
	Name              string `json:"name" gorm:"size:200"`
	EMName            string `json:"em_name" gorm:"size:200"`
	EMPhone           string `json:"em_phone" gorm:"size:20"`
	SupalearnPassword string `json:"-" gorm:"size:100"`
	Active            bool   `json:"active" gorm:"default:true"`
}

// ClassSession is one imported row of the class-details sheet. Raw cell
// values are kept as strings; the pricing engine does its own normalization
// so a bad cell degrades instead of blocking an import.
type ClassSession struct {
	BaseModel
	RowUID            string     `json:"row_uid" gorm:"size:500;not null;uniqueIndex"`
	Date              string     `json:"date" gorm:"size:50"` // raw literal as imported
	ParsedDate        *time.Time `json:"parsed_date"`
	Month             string     `json:"month" gorm:"size:20;index"` // MM column
	Year              string     `json:"year" gorm:"size:10;index"`
	StudentID         string     `json:"student_id" gorm:"size:100;index"`
	StudentName       string     `json:"student_name" gorm:"size:200"`
	TeacherID         string     `json:"teacher_id" gorm:"size:100;index"`
	TeacherName       string     `json:"teacher_name" gorm:"size:200"`
	Level             string     `json:"level" gorm:"size:50"` // raw "Class" column
	Syllabus          string     `json:"syllabus" gorm:"size:50"`
	ClassType         string     `json:"class_type" gorm:"size:100"`
	Subject           string     `json:"subject" gorm:"size:100"`
	ChapterTaken      string     `json:"chapter_taken" gorm:"size:255"`
	Hours             float64    `json:"hours"`
	SupalearnPassword string     `json:"-" gorm:"size:100"`
	SourceSheet       string     `json:"source_sheet" gorm:"size:100"`
	ImportBatchID     string     `json:"import_batch_id" gorm:"size:100;index"`
	Raw               JSON       `json:"raw,omitempty" gorm:"type:json"`
}

// SlotAssignment is one imported row of the per-weekday timetable sheets
type SlotAssignment struct {
	BaseModel
	RowUID      string `json:"row_uid" gorm:"size:500;not null;uniqueIndex"`
	Weekday     int    `json:"weekday" gorm:"not null;index"` // 0=Sunday .. 6=Saturday
	TimeSlot    string `json:"time_slot" gorm:"size:50"`
	TeacherID   string `json:"teacher_id" gorm:"size:100;index"`
	StudentID   string `json:"student_id" gorm:"size:100"`
	Status      string `json:"status" gorm:"size:50"`
	SourceSheet string `json:"source_sheet" gorm:"size:100"`
}

// RateOverride is one persisted row of an admin-supplied rate table. When
// any active overrides exist they replace the built-in schedule wholesale;
// Position preserves first-match-wins ordering.
type RateOverride struct {
	BaseModel
	Position int     `json:"position" gorm:"not null;index"`
	RuleID   string  `json:"rule_id" gorm:"size:100;not null"`
	Category string  `json:"category" gorm:"size:50;not null;type:enum('demo','paid','standard')"` // demo, paid, standard
	Board    string  `json:"board" gorm:"size:50"`                                                 // IB_IGCSE, OTHER, or blank for any
	MinLevel int     `json:"min_level"`
	MaxLevel int     `json:"max_level"`
	Rate     float64 `json:"rate" gorm:"not null"`
	Formula  string  `json:"formula" gorm:"size:50;not null;default:'perHour';type:enum('perHour','perHourTimesFour')"`
	Active   bool    `json:"active" gorm:"default:true"`
}

// ImportBatch records one upload or sheet sync for traceability
type ImportBatch struct {
	BaseModel
	BatchID    string `json:"batch_id" gorm:"size:100;not null;uniqueIndex"`
	Source     string `json:"source" gorm:"size:50;not null;type:enum('upload','sheets')"` // upload, sheets
	FileName   string `json:"file_name" gorm:"size:255"`
	SheetName  string `json:"sheet_name" gorm:"size:100"`
	RowCount   int    `json:"row_count"`
	Inserted   int    `json:"inserted"`
	Duplicates int    `json:"duplicates"`
	Errors     int    `json:"errors"`
	Status     string `json:"status" gorm:"size:50;not null;default:'completed';type:enum('completed','partial','failed')"` // completed, partial, failed
}

// PayrollExport tracks generated payroll CSVs uploaded to S3
type PayrollExport struct {
	BaseModel
	TeacherID string `json:"teacher_id" gorm:"size:100;index"`
	Month     string `json:"month" gorm:"size:20"`
	Year      string `json:"year" gorm:"size:10"`
	S3Key     string `json:"s3_key" gorm:"size:500;not null"`
	URL       string `json:"url" gorm:"size:500"`
	RowCount  int    `json:"row_count"`
	FileSize  int64  `json:"file_size"`
}

// Log model for activity tracking
type ActivityLog struct {
	BaseModel
	UserID     uint   `json:"user_id"`
	Action     string `json:"action" gorm:"size:100;not null"`
	Resource   string `json:"resource" gorm:"size:100;not null"`
	ResourceID uint   `json:"resource_id"`
	Details    JSON   `json:"details" gorm:"type:json"`
	IPAddress  string `json:"ip_address" gorm:"size:45"`
	UserAgent  string `json:"user_agent" gorm:"size:500"`

	// Relationships
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}
