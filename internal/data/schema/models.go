package schema

import (
	"time"

	"github.com/google/uuid"
)

// Table models mirror the rows the pgx repositories read and write.
// They exist for migrations only; the runtime path does not go through gorm.

type Activity struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	CourseID         uuid.UUID `gorm:"type:uuid;not null;index"`
	Name             string    `gorm:"type:varchar(255);not null"`
	ShortName        string    `gorm:"column:shortname;type:varchar(255)"`
	ApprovalRequired bool      `gorm:"not null;default:false"`
	MultipleSignups  bool      `gorm:"not null;default:false"`
	CreatedAt        time.Time `gorm:"not null"`
	UpdatedAt        time.Time `gorm:"not null"`
}

func (Activity) TableName() string { return "facetoface_activities" }

type Session struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	ActivityID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Capacity      int       `gorm:"not null;default:0"`
	AllowOverbook bool      `gorm:"not null;default:false"`
	DatesKnown    bool      `gorm:"not null;default:false"`
	Details       string    `gorm:"type:text"`
	Duration      int       `gorm:"not null;default:0"`
	NormalCost    *float64
	DiscountCost  *float64
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"not null"`

	Activity *Activity `gorm:"foreignKey:ActivityID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (Session) TableName() string { return "facetoface_sessions" }

type SessionDate struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	SessionID  uuid.UUID `gorm:"type:uuid;not null;index"`
	TimeStart  time.Time `gorm:"not null"`
	TimeFinish time.Time `gorm:"not null"`

	Session *Session `gorm:"foreignKey:SessionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (SessionDate) TableName() string { return "facetoface_session_dates" }

type SessionData struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	SessionID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_session_data_field"`
	Field     string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_session_data_field"`
	Data      string    `gorm:"type:text"`

	Session *Session `gorm:"foreignKey:SessionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (SessionData) TableName() string { return "facetoface_session_data" }

type SessionRole struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	SessionID uuid.UUID `gorm:"type:uuid;not null;index"`
	Role      string    `gorm:"type:varchar(100);not null"`
	UserID    uuid.UUID `gorm:"type:uuid;not null"`

	Session *Session `gorm:"foreignKey:SessionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (SessionRole) TableName() string { return "facetoface_session_roles" }

type Signup struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	SessionID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_signup_session_user"`
	UserID           uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_signup_session_user;index"`
	DiscountCode     *string   `gorm:"type:varchar(255)"`
	NotificationType string    `gorm:"type:varchar(16);not null;default:'email'"`
	CreatedAt        time.Time `gorm:"not null"`
	UpdatedAt        time.Time `gorm:"not null"`

	Session *Session `gorm:"foreignKey:SessionID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

func (Signup) TableName() string { return "facetoface_signups" }

type SignupStatus struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	SignupID   uuid.UUID `gorm:"type:uuid;not null;index"`
	StatusCode int       `gorm:"not null;index"`
	CreatedBy  uuid.UUID `gorm:"type:uuid;not null"`
	Note       string    `gorm:"type:text;not null;default:''"`
	Grade      *int
	Superseded bool      `gorm:"not null;default:false"`
	CreatedAt  time.Time `gorm:"not null"`

	Signup *Signup `gorm:"foreignKey:SignupID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

func (SignupStatus) TableName() string { return "facetoface_signup_statuses" }

type Grade struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	SignupID  uuid.UUID `gorm:"type:uuid;not null;index"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Grade     int       `gorm:"not null"`
	CreatedBy uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt time.Time `gorm:"not null"`
}

func (Grade) TableName() string { return "facetoface_grades" }
