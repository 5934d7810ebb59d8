package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dgarrido/wedding-server/config"
	"github.com/dgarrido/wedding-server/models"
)

// AdminStats powers the dashboard. The whole query set races a fixed
// timeout so a misbehaving store cannot hang the page.
func AdminStats(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()
	db := config.DB.WithContext(ctx)

	statusCounts := map[string]int64{}
	for _, status := range []string{
		models.RsvpStatusPending, models.RsvpStatusConfirmed,
		models.RsvpStatusPartial, models.RsvpStatusDeclined,
	} {
		var n int64
		if err := db.Model(&models.Invite{}).Where("rsvp_status = ?", status).Count(&n).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Unable to load stats"})
			return
		}
		statusCounts[status] = n
	}

	var totalGuests, attendingGuests, travelFiled int64
	if err := db.Model(&models.Guest{}).Count(&totalGuests).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Unable to load stats"})
		return
	}
	if err := db.Model(&models.RsvpResponse{}).Where("attending = ?", true).Count(&attendingGuests).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Unable to load stats"})
		return
	}
	if err := db.Model(&models.TravelDetails{}).Count(&travelFiled).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Unable to load stats"})
		return
	}

	// dietary tally: tags are a JSON text column, so decode in Go
	var responses []models.RsvpResponse
	if err := db.Where("attending = ?", true).Find(&responses).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Unable to load stats"})
		return
	}
	dietary := map[string]int{}
	for i := range responses {
		for _, tag := range responses[i].DietaryList() {
			dietary[tag]++
		}
	}

	type paymentTotals struct {
		Committed float64
		Paid      float64
	}
	payments := map[string]paymentTotals{}
	for _, pt := range []string{models.PaymentTypeAccommodation, models.PaymentTypeAtitlan} {
		var totals paymentTotals
		row := db.Model(&models.Payment{}).
			Select("COALESCE(SUM(amount_committed),0) AS committed, COALESCE(SUM(amount_paid),0) AS paid").
			Where("payment_type = ?", pt).Row()
		if err := row.Scan(&totals.Committed, &totals.Paid); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Unable to load stats"})
			return
		}
		payments[pt] = paymentTotals{Committed: totals.Committed, Paid: totals.Paid}
	}

	c.JSON(http.StatusOK, gin.H{
		"invites_by_status": statusCounts,
		"total_guests":      totalGuests,
		"attending_guests":  attendingGuests,
		"travel_filed":      travelFiled,
		"dietary":           dietary,
		"payments": gin.H{
			models.PaymentTypeAccommodation: gin.H{
				"committed": payments[models.PaymentTypeAccommodation].Committed,
				"paid":      payments[models.PaymentTypeAccommodation].Paid,
			},
			models.PaymentTypeAtitlan: gin.H{
				"committed": payments[models.PaymentTypeAtitlan].Committed,
				"paid":      payments[models.PaymentTypeAtitlan].Paid,
			},
		},
	})
}
