package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/care-scheduler/internal/audit"
	"github.com/BruksfildServices01/care-scheduler/internal/auth"
	"github.com/BruksfildServices01/care-scheduler/internal/cache"
	"github.com/BruksfildServices01/care-scheduler/internal/config"
	"github.com/BruksfildServices01/care-scheduler/internal/handlers"
	"github.com/BruksfildServices01/care-scheduler/internal/infra/mailer"
	"github.com/BruksfildServices01/care-scheduler/internal/infra/payments"
	infraRepo "github.com/BruksfildServices01/care-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/care-scheduler/internal/infra/storage"
	"github.com/BruksfildServices01/care-scheduler/internal/logger"
	"github.com/BruksfildServices01/care-scheduler/internal/middleware"
	"github.com/BruksfildServices01/care-scheduler/internal/models"
	"github.com/BruksfildServices01/care-scheduler/internal/notify"
	"github.com/BruksfildServices01/care-scheduler/internal/reports"
	ucAppointment "github.com/BruksfildServices01/care-scheduler/internal/usecase/appointment"
	ucInvitation "github.com/BruksfildServices01/care-scheduler/internal/usecase/invitation"
	ucInvoice "github.com/BruksfildServices01/care-scheduler/internal/usecase/invoice"
	ucMessaging "github.com/BruksfildServices01/care-scheduler/internal/usecase/messaging"
	ucShift "github.com/BruksfildServices01/care-scheduler/internal/usecase/shift"
	"github.com/BruksfildServices01/care-scheduler/internal/validators"
)

// Deps carries the process-wide singletons built in main. Redis and the
// payment gateways are optional; a nil interface disables the feature.
type Deps struct {
	DB     *gorm.DB
	Config *config.Config
	Redis  *redis.Client

	Audit    *audit.Dispatcher
	Mail     *mailer.Async
	Notifier *notify.Service
	Files    *storage.Service
	Locker   cache.Locker

	AppointmentPayments payments.AppointmentGateway
	InvoicePayments     payments.InvoiceGateway
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	cfg := d.Config
	db := d.DB

	validators.RegisterGin()

	// ======================================================
	// GLOBAL MIDDLEWARE
	// ======================================================
	r.Use(logger.RequestLogger())
	r.Use(middleware.CORSMiddleware(cfg.CORSOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ======================================================
	// INFRA
	// ======================================================
	issuer := auth.NewIssuer(cfg.JWTSecret)

	appointmentRepo := infraRepo.NewAppointmentGormRepository(db)
	shiftRepo := infraRepo.NewShiftGormRepository(db)
	invoiceRepo := infraRepo.NewInvoiceGormRepository(db)
	invitationRepo := infraRepo.NewInvitationGormRepository(db)
	messagingRepo := infraRepo.NewMessagingGormRepository(db)

	defaultRate, err := decimal.NewFromString(cfg.DefaultHourlyRate)
	if err != nil || !defaultRate.IsPositive() {
		defaultRate = decimal.NewFromInt(30)
	}

	strict := middleware.StrictLimit
	public := middleware.PublicLimit
	strictLimiter := middleware.NewLimiter(d.Redis, strict)
	publicLimiter := middleware.NewLimiter(d.Redis, public)

	// ======================================================
	// USE CASES
	// ======================================================

	// -------- Appointments --------
	createAppointmentUC := ucAppointment.NewCreatePrivateAppointment(appointmentRepo, d.Audit)
	listAppointmentsUC := ucAppointment.NewListAppointments(appointmentRepo)
	confirmAppointmentUC := ucAppointment.NewConfirmAppointment(appointmentRepo, d.Audit)
	appointmentStatusUC := ucAppointment.NewChangeAppointmentStatus(appointmentRepo, d.Audit)

	// -------- Shifts --------
	createShiftUC := ucShift.NewCreateShift(shiftRepo, d.Audit, d.Notifier)
	updateShiftUC := ucShift.NewUpdateShift(shiftRepo, d.Audit, d.Notifier)
	respondShiftUC := ucShift.NewRespondToShift(shiftRepo, d.Audit, d.Notifier)
	shiftStatusUC := ucShift.NewChangeShiftStatus(shiftRepo, d.Audit, d.Notifier)
	listShiftsUC := ucShift.NewListShifts(shiftRepo)

	// -------- Invoices --------
	generateInvoiceUC := ucInvoice.NewGenerateInvoice(invoiceRepo, d.Locker, d.Audit)
	listInvoicesUC := ucInvoice.NewListInvoices(invoiceRepo)
	invoiceStatusUC := ucInvoice.NewUpdateStatus(invoiceRepo, d.Audit)
	sendInvoiceUC := ucInvoice.NewSendInvoice(invoiceRepo, d.Mail, d.Notifier, d.Audit)
	invoiceLinkUC := ucInvoice.NewCreatePaymentLink(invoiceRepo, d.InvoicePayments, d.Audit, cfg.AppBaseURL)

	// -------- Invitations --------
	sendInvitationUC := ucInvitation.NewSendInvitation(invitationRepo, d.Mail, d.Audit, cfg.AppBaseURL, cfg.InvitationTTL)
	manageInvitationsUC := ucInvitation.NewManageInvitations(invitationRepo, d.Audit)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, issuer, d.Audit, defaultRate)
	meHandler := handlers.NewMeHandler(db, d.Files)
	organizationHandler := handlers.NewOrganizationHandler(db, d.Audit)
	openingHoursHandler := handlers.NewOpeningHoursHandler(db, d.Audit)

	staffHandler := handlers.NewStaffHandler(db, d.Audit)
	clientHandler := handlers.NewClientHandler(db, d.Audit)
	recordHandler := handlers.NewClientRecordHandler(db, d.Files, d.Audit)

	shiftHandler := handlers.NewShiftHandler(shiftRepo, createShiftUC, updateShiftUC, respondShiftUC, shiftStatusUC, listShiftsUC)
	invoiceHandler := handlers.NewInvoiceHandler(generateInvoiceUC, listInvoicesUC, invoiceStatusUC, sendInvoiceUC, invoiceLinkUC)
	appointmentHandler := handlers.NewAppointmentHandler(
		createAppointmentUC,
		listAppointmentsUC,
		confirmAppointmentUC,
		appointmentStatusUC,
	)
	invitationHandler := handlers.NewInvitationHandler(sendInvitationUC, manageInvitationsUC)

	notificationHandler := handlers.NewNotificationHandler(d.Notifier)
	messageHandler := handlers.NewMessageHandler(ucMessaging.NewService(messagingRepo, d.Notifier))
	fileHandler := handlers.NewFileHandler(d.Files, d.Audit)
	reportHandler := handlers.NewReportHandler(db, reports.NewService(db))
	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	publicHandler := handlers.NewPublicHandler(db, handlers.PublicDeps{
		Availability: ucAppointment.NewGetAvailability(appointmentRepo),
		Book:         ucAppointment.NewCreatePublicAppointment(appointmentRepo, d.Audit, d.Notifier),
		Pay:          ucAppointment.NewPayAppointment(appointmentRepo, d.AppointmentPayments, d.Audit, cfg.AppBaseURL),
		ConfirmPay:   ucAppointment.NewConfirmPayment(appointmentRepo, d.AppointmentPayments, d.Audit),
		Validate:     ucInvitation.NewValidateInvitation(invitationRepo),
		Accept:       ucInvitation.NewAcceptInvitation(invitationRepo, issuer, d.Notifier, d.Audit),
	})

	// ======================================================
	// API
	// ======================================================
	api := r.Group("/api")

	// ------------------------------
	// PUBLIC
	// ------------------------------
	publicAPI := api.Group("/public")
	publicAPI.Use(middleware.RateLimit(publicLimiter, public))
	{
		publicAPI.GET("/:slug", publicHandler.Organization)
		publicAPI.GET("/:slug/availability", publicHandler.Availability)
		publicAPI.POST("/:slug/appointments", middleware.RateLimit(strictLimiter, strict), publicHandler.CreateAppointment)

		publicAPI.POST("/appointments/:id/pay", publicHandler.PayAppointment)
		publicAPI.POST("/payments/webhook", publicHandler.PaymentWebhook)

		publicAPI.GET("/invitations/:token", publicHandler.ValidateInvitation)
		publicAPI.POST("/invitations/:token/accept", middleware.RateLimit(strictLimiter, strict), publicHandler.AcceptInvitation)
	}

	// ------------------------------
	// AUTH
	// ------------------------------
	authAPI := api.Group("/auth")
	authAPI.Use(middleware.RateLimit(strictLimiter, strict))
	{
		authAPI.POST("/register", authHandler.Register)
		authAPI.POST("/login", authHandler.Login)
	}

	// ------------------------------
	// ANY SIGNED-IN USER
	// ------------------------------
	me := api.Group("/me")
	me.Use(middleware.AuthMiddleware(issuer))
	{
		me.GET("", meHandler.GetMe)
		me.POST("/avatar", meHandler.UploadAvatar)

		me.GET("/notifications", notificationHandler.List)
		me.GET("/notifications/unread-count", notificationHandler.UnreadCount)
		me.GET("/notifications/stream", notificationHandler.Stream)
		me.PATCH("/notifications/read-all", notificationHandler.MarkAllRead)
		me.PATCH("/notifications/:id/read", notificationHandler.MarkRead)
		me.DELETE("/notifications/:id", notificationHandler.Delete)

		me.GET("/conversations", messageHandler.List)
		me.POST("/conversations", messageHandler.Start)
		me.GET("/conversations/:id/messages", messageHandler.Messages)
		me.POST("/conversations/:id/messages", messageHandler.Send)
		me.PATCH("/conversations/:id/read", messageHandler.MarkRead)

		me.GET("/organization", organizationHandler.Get)
	}

	// ------------------------------
	// STAFF SELF-SERVICE
	// ------------------------------
	staffSelf := me.Group("/shifts")
	staffSelf.Use(middleware.RequireRole(models.RoleStaff))
	{
		staffSelf.GET("/mine", shiftHandler.Mine)
		staffSelf.PATCH("/:id/accept", shiftHandler.Accept)
		staffSelf.PATCH("/:id/decline", shiftHandler.Decline)
	}

	// ------------------------------
	// ORGANIZATION ADMIN
	// ------------------------------
	admin := me.Group("")
	admin.Use(middleware.RequireAdmin())
	{
		admin.PATCH("/organization", organizationHandler.Update)
		admin.GET("/opening-hours", openingHoursHandler.Get)
		admin.PUT("/opening-hours", openingHoursHandler.Update)

		admin.GET("/staff", staffHandler.List)
		admin.POST("/staff", staffHandler.Create)
		admin.GET("/staff/:id", staffHandler.Get)
		admin.PATCH("/staff/:id", staffHandler.Update)
		admin.DELETE("/staff/:id", staffHandler.Deactivate)

		admin.GET("/clients", clientHandler.List)
		admin.POST("/clients", clientHandler.Create)
		admin.GET("/clients/:id", clientHandler.Get)
		admin.PATCH("/clients/:id", clientHandler.Update)
		admin.DELETE("/clients/:id", clientHandler.Archive)

		admin.GET("/clients/:id/notes", recordHandler.ListNotes)
		admin.POST("/clients/:id/notes", recordHandler.CreateNote)
		admin.PATCH("/clients/:id/notes/:noteId", recordHandler.UpdateNote)
		admin.DELETE("/clients/:id/notes/:noteId", recordHandler.DeleteNote)

		admin.GET("/clients/:id/reminders", recordHandler.ListReminders)
		admin.POST("/clients/:id/reminders", recordHandler.CreateReminder)
		admin.PATCH("/clients/:id/reminders/:reminderId", recordHandler.UpdateReminder)
		admin.PATCH("/clients/:id/reminders/:reminderId/complete", recordHandler.CompleteReminder)
		admin.PATCH("/clients/:id/reminders/:reminderId/reopen", recordHandler.ReopenReminder)
		admin.DELETE("/clients/:id/reminders/:reminderId", recordHandler.DeleteReminder)

		admin.GET("/clients/:id/care-plans", recordHandler.ListCarePlans)
		admin.POST("/clients/:id/care-plans", recordHandler.CreateCarePlan)
		admin.PATCH("/clients/:id/care-plans/:planId", recordHandler.UpdateCarePlan)
		admin.DELETE("/clients/:id/care-plans/:planId", recordHandler.ArchiveCarePlan)

		admin.GET("/clients/:id/care-logs", recordHandler.ListCareLogs)
		admin.POST("/clients/:id/care-logs", recordHandler.CreateCareLog)
		admin.POST("/clients/:id/care-logs/:logId/attachment", recordHandler.AttachToCareLog)

		admin.GET("/shifts", shiftHandler.List)
		admin.POST("/shifts", shiftHandler.Create)
		admin.GET("/shifts/:id", shiftHandler.Get)
		admin.PATCH("/shifts/:id", shiftHandler.Update)
		admin.PATCH("/shifts/:id/cancel", shiftHandler.Cancel)
		admin.PATCH("/shifts/:id/start", shiftHandler.Start)
		admin.PATCH("/shifts/:id/complete", shiftHandler.Complete)

		admin.GET("/invoices", invoiceHandler.List)
		admin.POST("/invoices", invoiceHandler.Generate)
		admin.GET("/invoices/:id", invoiceHandler.Get)
		admin.PATCH("/invoices/:id/status", invoiceHandler.UpdateStatus)
		admin.POST("/invoices/:id/send", invoiceHandler.Send)
		admin.POST("/invoices/:id/payment-link", invoiceHandler.PaymentLink)

		admin.POST("/appointments", appointmentHandler.Create)
		admin.GET("/appointments", appointmentHandler.ListByDate)
		admin.GET("/appointments/month", appointmentHandler.ListByMonth)
		admin.PATCH("/appointments/:id/confirm", appointmentHandler.Confirm)
		admin.PATCH("/appointments/:id/cancel", appointmentHandler.Cancel)
		admin.PATCH("/appointments/:id/complete", appointmentHandler.Complete)

		admin.GET("/invitations", invitationHandler.List)
		admin.POST("/invitations", middleware.RateLimit(strictLimiter, strict), invitationHandler.Send)
		admin.POST("/invitations/:id/resend", invitationHandler.Resend)
		admin.DELETE("/invitations/:id", invitationHandler.Revoke)

		admin.POST("/files/:bucket", fileHandler.Upload)
		admin.GET("/files/:id/url", fileHandler.URL)
		admin.DELETE("/files/:id", fileHandler.Delete)

		admin.GET("/reports/:file", reportHandler.Export)
		admin.GET("/audit-logs", auditLogsHandler.List)
	}
}
