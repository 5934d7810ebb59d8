package controllers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dgarrido/wedding-server/config"
	"github.com/dgarrido/wedding-server/models"
)

type ExportRequest struct {
	Resource string `json:"resource" binding:"required"`
}

// POST /api/admin/export
func AdminCreateExport(c *gin.Context) {
	var req ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid payload"})
		return
	}
	if !models.ValidExportResource(req.Resource) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Unknown export resource"})
		return
	}

	jobID := uuid.New().String()
	job := models.ExportJob{
		JobID:    jobID,
		Resource: req.Resource,
		Status:   "queued",
	}
	if err := config.DB.Create(&job).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Unable to create export job"})
		return
	}

	go processExportJob(jobID)

	c.JSON(http.StatusAccepted, gin.H{
		"job_id": jobID,
		"status": "queued",
	})
}

// GET /api/admin/export/:jobID
func AdminGetExport(c *gin.Context) {
	jobID := c.Param("jobID")
	var job models.ExportJob
	if err := config.DB.First(&job, "job_id = ?", jobID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Export job not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Unable to load export job"})
		return
	}

	if job.Status == "done" && job.FilePath != nil {
		c.FileAttachment(*job.FilePath, path.Base(*job.FilePath))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"job_id": job.JobID,
		"status": job.Status,
		"error":  job.ErrorMsg,
	})
}

func processExportJob(jobID string) {
	var job models.ExportJob
	if err := config.DB.First(&job, "job_id = ?", jobID).Error; err != nil {
		return
	}
	config.DB.Model(&job).Update("status", "processing")

	outDir := "./exports"
	os.MkdirAll(outDir, 0755)
	outPath := path.Join(outDir, fmt.Sprintf("export_%s_%s.csv", job.Resource, job.JobID))

	f, err := os.Create(outPath)
	if err != nil {
		failExportJob(&job, err)
		return
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	switch job.Resource {
	case models.ExportResourceGuests:
		err = exportGuests(w)
	case models.ExportResourceRsvps:
		err = exportRsvps(w)
	case models.ExportResourceTravel:
		err = exportTravel(w)
	case models.ExportResourcePayments:
		err = exportPayments(w)
	}
	if err != nil {
		failExportJob(&job, err)
		return
	}

	config.DB.Model(&job).Updates(map[string]interface{}{"status": "done", "file_path": outPath})
}

func failExportJob(job *models.ExportJob, err error) {
	em := err.Error()
	config.DB.Model(job).Updates(map[string]interface{}{"status": "failed", "error_msg": em})
}

func exportGuests(w *csv.Writer) error {
	var guests []models.Guest
	if err := config.DB.Order("invite_id ASC, is_primary DESC").Find(&guests).Error; err != nil {
		return err
	}
	w.Write([]string{"guest_id", "invite_id", "first_name", "last_name", "email", "is_primary"})
	for _, g := range guests {
		email := ""
		if g.Email != nil {
			email = *g.Email
		}
		w.Write([]string{
			fmt.Sprintf("%d", g.ID), fmt.Sprintf("%d", g.InviteID),
			g.FirstName, g.LastName, email, fmt.Sprintf("%t", g.IsPrimary),
		})
	}
	return nil
}

func exportRsvps(w *csv.Writer) error {
	var guests []models.Guest
	if err := config.DB.Preload("RsvpResponse").Order("invite_id ASC, id ASC").Find(&guests).Error; err != nil {
		return err
	}
	w.Write([]string{
		"guest_id", "invite_id", "name", "attending", "dietary_restrictions",
		"dietary_notes", "accommodation_needed", "accommodation_tier",
		"atitlan_attending", "atitlan_tier",
	})
	for _, g := range guests {
		r := g.RsvpResponse
		if r == nil {
			w.Write([]string{fmt.Sprintf("%d", g.ID), fmt.Sprintf("%d", g.InviteID), g.FullName(),
				"", "", "", "", "", "", ""})
			continue
		}
		w.Write([]string{
			fmt.Sprintf("%d", g.ID), fmt.Sprintf("%d", g.InviteID), g.FullName(),
			fmt.Sprintf("%t", r.Attending), strings.Join(r.DietaryList(), "|"),
			r.DietaryNotes, fmt.Sprintf("%t", r.AccommodationNeeded), r.AccommodationTier,
			fmt.Sprintf("%t", r.AtitlanAttending), r.AtitlanTier,
		})
	}
	return nil
}

func exportTravel(w *csv.Writer) error {
	var guests []models.Guest
	if err := config.DB.Preload("TravelDetails").Order("invite_id ASC, id ASC").Find(&guests).Error; err != nil {
		return err
	}
	w.Write([]string{"guest_id", "name", "arrival_at", "departure_at", "airline", "flight_number", "needs_transfer", "notes"})
	for _, g := range guests {
		t := g.TravelDetails
		if t == nil {
			continue
		}
		arrival, departure := "", ""
		if t.ArrivalAt != nil {
			arrival = t.ArrivalAt.Format(time.RFC3339)
		}
		if t.DepartureAt != nil {
			departure = t.DepartureAt.Format(time.RFC3339)
		}
		w.Write([]string{
			fmt.Sprintf("%d", g.ID), g.FullName(), arrival, departure,
			t.Airline, t.FlightNumber, fmt.Sprintf("%t", t.NeedsTransfer), t.Notes,
		})
	}
	return nil
}

func exportPayments(w *csv.Writer) error {
	var payments []models.Payment
	if err := config.DB.Order("invite_id ASC, payment_type ASC").Find(&payments).Error; err != nil {
		return err
	}
	w.Write([]string{"payment_id", "invite_id", "type", "amount_committed", "amount_paid", "method", "notes"})
	for _, p := range payments {
		w.Write([]string{
			fmt.Sprintf("%d", p.ID), fmt.Sprintf("%d", p.InviteID), p.PaymentType,
			fmt.Sprintf("%.2f", p.AmountCommitted), fmt.Sprintf("%.2f", p.AmountPaid),
			p.Method, p.Notes,
		})
	}
	return nil
}
