package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/dgarrido/wedding-server/controllers"
	"github.com/dgarrido/wedding-server/middleware"
)

func SetupRoutes(r *gin.Engine) {
	r.GET("/health", controllers.HealthCheck)

	api := r.Group("/api")
	{
		api.GET("/ping", controllers.Ping)

		auth := api.Group("/auth")
		{
			auth.POST("/login", middleware.RateLimitLogin(), controllers.Login)
			auth.POST("/change-password", middleware.AuthJWT(), controllers.ChangePassword)
		}

		protected := api.Group("/")
		protected.Use(middleware.AuthJWT())
		{
			protected.GET("/me", controllers.Me)

			protected.GET("/rsvp", controllers.GetRsvp)
			protected.POST("/rsvp/validate", controllers.ValidateRsvp)
			protected.POST("/rsvp/submit", controllers.SubmitRsvp)

			protected.GET("/travel/:guestID", controllers.GetTravel)
			protected.PUT("/travel/:guestID", controllers.UpsertTravel)
		}

		admin := protected.Group("/admin")
		admin.Use(middleware.RequireAdmin())
		{
			admin.POST("/invitations/create", middleware.RateLimitProvisioning(), controllers.CreateInvitation)

			admin.GET("/guests", controllers.AdminListGuests)
			admin.PUT("/guests/:id", controllers.AdminUpdateGuest)
			admin.DELETE("/guests/:id", controllers.AdminDeleteGuest)

			admin.GET("/invites", controllers.AdminListInvites)
			admin.GET("/invites/:id", controllers.AdminGetInvite)

			admin.GET("/payments", controllers.AdminListPayments)
			admin.PUT("/payments/:id", controllers.AdminUpdatePayment)

			admin.GET("/accommodation-groups", controllers.AdminListAccommodationGroups)
			admin.POST("/accommodation-groups", controllers.AdminCreateAccommodationGroup)

			admin.GET("/stats", controllers.AdminStats)
			admin.POST("/export", controllers.AdminCreateExport)
			admin.GET("/export/:jobID", controllers.AdminGetExport)
		}
	}
}
