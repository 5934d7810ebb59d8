package models

import "time"

const (
	ExportResourceGuests   = "guests"
	ExportResourceRsvps    = "rsvps"
	ExportResourceTravel   = "travel"
	ExportResourcePayments = "payments"
)

type ExportJob struct {
	JobID     string    `gorm:"column:job_id;primaryKey;size:36" json:"job_id"`
	Resource  string    `gorm:"column:resource;size:20;not null" json:"resource"`
	Status    string    `gorm:"column:status;size:20;default:'queued'" json:"status"`
	FilePath  *string   `gorm:"column:file_path;type:text" json:"file_path,omitempty"`
	ErrorMsg  *string   `gorm:"column:error_msg;type:text" json:"error_msg,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ExportJob) TableName() string {
	return "export_jobs"
}

func ValidExportResource(r string) bool {
	switch r {
	case ExportResourceGuests, ExportResourceRsvps, ExportResourceTravel, ExportResourcePayments:
		return true
	}
	return false
}
