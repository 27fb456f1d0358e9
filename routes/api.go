package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rizkirifandi7/web-silat-be-v2/middleware"
	"github.com/rizkirifandi7/web-silat-be-v2/models"
	"github.com/rizkirifandi7/web-silat-be-v2/services"
	"go.uber.org/zap"
)

type APIRoutes struct {
	gateway    *services.MidtransClient
	reconciler *services.Reconciler
	limiter    services.AttemptLimiter
	logger     *zap.Logger
	hub        *Hub
}

func NewAPIRoutes(gateway *services.MidtransClient, limiter services.AttemptLimiter, logger *zap.Logger) *APIRoutes {
	ar := &APIRoutes{
		gateway: gateway,
		limiter: limiter,
		logger:  logger,
		hub:     NewHub(logger),
	}
	ar.reconciler = services.NewReconciler(logger, ar.broadcastDonation)

	go ar.hub.Run()

	return ar
}

// SetupRoutes wires the full route table.
func (ar *APIRoutes) SetupRoutes(router *gin.Engine) {
	authn := middleware.Authenticate()
	adminOnly := middleware.Authorize(models.RoleAdmin)
	memberOnly := middleware.Authorize(models.RoleAdmin, models.RoleAnggota)

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Web Silat API",
			"version": "2.0.0",
			"endpoints": gin.H{
				"auth":          "/api/auth",
				"events":        "/api/events",
				"registrations": "/api/registrations",
				"payments":      "/api/payments",
				"anggota":       "/api/anggota",
				"donations":     "/api/donations",
				"campaigns":     "/api/campaigns",
				"gallery":       "/api/gallery",
				"materials":     "/api/materials",
				"about":         "/api/about",
				"products":      "/api/products",
				"dashboard":     "/api/dashboard",
			},
		})
	})

	auth := router.Group("/api/auth")
	{
		auth.POST("/register", ar.Register)
		auth.POST("/login", ar.Login)
		auth.POST("/logout", ar.Logout)
		auth.GET("/verify", authn, ar.VerifyToken)
		auth.GET("/profile", authn, ar.GetProfile)
		auth.PUT("/profile", authn, ar.UpdateProfile)
		auth.PUT("/change-password", authn, ar.ChangePassword)
	}

	events := router.Group("/api/events")
	{
		events.GET("", ar.ListEvents)
		events.GET("/upcoming", ar.UpcomingEvents)
		events.GET("/organizer/:organizerId", ar.EventsByOrganizer)
		events.GET("/:id", ar.GetEvent)
		events.POST("", authn, adminOnly, ar.CreateEvent)
		events.PUT("/:id", authn, adminOnly, ar.UpdateEvent)
		events.DELETE("/:id", authn, adminOnly, ar.DeleteEvent)
	}

	registrations := router.Group("/api/registrations")
	registrations.Use(authn)
	{
		registrations.POST("", ar.RegisterToEvent)
		registrations.POST("/with-payment", ar.RegisterWithPayment)
		registrations.GET("/user/:userId", ar.RegistrationsByUser)
		registrations.GET("/event/:eventId", adminOnly, ar.RegistrationsByEvent)
		registrations.GET("/check/:eventId/:userId", ar.CheckRegistration)
		registrations.PUT("/:id/status", adminOnly, ar.UpdateRegistrationStatus)
		registrations.DELETE("/:id", ar.CancelRegistration)
	}

	payments := router.Group("/api/payments")
	{
		payments.POST("", authn, ar.CreatePayment)
		payments.POST("/notification", ar.HandlePaymentNotification)
		payments.GET("/status/:orderId", authn, ar.CheckPaymentStatus)
		payments.GET("/qrcode/:orderId", ar.PaymentQRCode)
		payments.GET("/user/:userId", authn, ar.PaymentsByUser)
		payments.GET("/:id", authn, ar.GetPayment)
		payments.PUT("/:id/status", authn, adminOnly, ar.AdminUpdatePaymentStatus)
	}

	donations := router.Group("/api/donations")
	{
		donations.POST("", middleware.OptionalAuth(), ar.CreateDonation)
		donations.POST("/notification", ar.HandleDonationNotification)
		donations.GET("", authn, adminOnly, ar.ListDonations)
		donations.GET("/stats", ar.DonationStats)
		donations.GET("/user/:userId", authn, ar.DonationsByUser)
		donations.GET("/:id", authn, adminOnly, ar.GetDonation)
	}

	campaigns := router.Group("/api/campaigns")
	{
		campaigns.GET("", ar.ListCampaigns)
		campaigns.GET("/:id", ar.GetCampaign)
		campaigns.GET("/:id/donors", ar.CampaignDonors)
		campaigns.POST("", authn, adminOnly, ar.CreateCampaign)
		campaigns.PUT("/:id", authn, middleware.RequireOwner(campaignOwner), ar.UpdateCampaign)
		campaigns.DELETE("/:id", authn, middleware.RequireOwner(campaignOwner), ar.DeleteCampaign)
	}

	anggota := router.Group("/api/anggota")
	anggota.Use(authn)
	{
		anggota.POST("", adminOnly, ar.CreateAnggota)
		anggota.GET("", adminOnly, ar.ListAnggota)
		anggota.GET("/stats", adminOnly, ar.AnggotaStats)
		anggota.GET("/user/:userId", ar.AnggotaByUser)
		anggota.GET("/:id", ar.GetAnggota)
		anggota.PUT("/:id", adminOnly, ar.UpdateAnggota)
		anggota.PUT("/:id/verify", adminOnly, ar.VerifyAnggota)
		anggota.DELETE("/:id", adminOnly, ar.DeactivateAnggota)
	}

	gallery := router.Group("/api/gallery")
	{
		gallery.GET("", ar.ListPhotos)
		gallery.GET("/:id", ar.GetPhoto)
		gallery.POST("", authn, adminOnly, ar.CreatePhoto)
		gallery.PUT("/:id", authn, adminOnly, ar.UpdatePhoto)
		gallery.DELETE("/:id", authn, adminOnly, ar.DeactivatePhoto)
	}

	materials := router.Group("/api/materials")
	materials.Use(authn)
	{
		materials.GET("", memberOnly, ar.ListMaterials)
		materials.GET("/:id", memberOnly, ar.GetMaterial)
		materials.POST("/:id/view", memberOnly, ar.MaterialViewed)
		materials.POST("/:id/download", memberOnly, ar.MaterialDownloaded)
		materials.POST("", adminOnly, ar.CreateMaterial)
		materials.PUT("/:id", adminOnly, ar.UpdateMaterial)
		materials.DELETE("/:id", adminOnly, ar.DeactivateMaterial)
	}

	about := router.Group("/api/about")
	{
		about.GET("", ar.GetAbout)
		about.PUT("", authn, adminOnly, ar.UpdateAbout)
		about.GET("/founders", ar.ListFounders)
		about.POST("/founders", authn, adminOnly, ar.CreateFounder)
		about.PUT("/founders/:id", authn, adminOnly, ar.UpdateFounder)
		about.DELETE("/founders/:id", authn, adminOnly, ar.DeactivateFounder)
	}

	products := router.Group("/api/products")
	{
		products.GET("", ar.ListProducts)
		products.GET("/:id", ar.GetProduct)
		products.POST("", authn, adminOnly, ar.CreateProduct)
		products.PUT("/:id", authn, adminOnly, ar.UpdateProduct)
		products.DELETE("/:id", authn, adminOnly, ar.DeactivateProduct)
	}

	users := router.Group("/api/users")
	users.Use(authn, adminOnly)
	{
		users.GET("", ar.ListUsers)
		users.GET("/:id", ar.GetUser)
		users.POST("", ar.CreateUser)
		users.PUT("/:id", ar.UpdateUser)
		users.DELETE("/:id", ar.DeleteUser)
	}

	router.GET("/api/dashboard/stats", authn, adminOnly, ar.DashboardStats)

	router.GET("/ws/donations", ar.DonationFeed)
}
