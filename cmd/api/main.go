package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-fabric-ledger/internal/handler"
	"go-fabric-ledger/internal/middleware"
	"go-fabric-ledger/internal/model"
	"go-fabric-ledger/internal/rbac"
	"go-fabric-ledger/internal/repository"
	"go-fabric-ledger/internal/service"
	"go-fabric-ledger/pkg/database"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	// 1. Load env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// 2. Database
	db := database.ConnectDB()
	if err := db.AutoMigrate(
		&model.FabricEntry{},
		&model.FabricRoll{},
		&model.RibDetails{},
		&model.QualityParameters{},
		&model.RollApproval{},
		&model.User{},
	); err != nil {
		log.Fatal("Migration failed: ", err)
	}

	// 3. Wiring
	entryRepo := repository.NewEntryRepo(db)
	rollRepo := repository.NewRollRepo(db)
	qualityRepo := repository.NewQualityRepo(db)
	approvalRepo := repository.NewApprovalRepo(db)
	userRepo := repository.NewUserRepo(db)

	seedSuperadmin(userRepo)

	intakeService := service.NewIntakeService(entryRepo)
	qualityService := service.NewQualityService(entryRepo, qualityRepo)
	approvalService := service.NewApprovalService(entryRepo, rollRepo, approvalRepo)
	reportService := service.NewReportService(entryRepo)
	authService := service.NewAuthService(userRepo)
	userService := service.NewUserService(userRepo)

	authHandler := handler.NewAuthHandler(authService)
	inwardHandler := handler.NewInwardHandler(intakeService)
	qualityHandler := handler.NewQualityHandler(qualityService)
	approvalHandler := handler.NewApprovalHandler(approvalService)
	reportHandler := handler.NewReportHandler(reportService)
	userHandler := handler.NewUserHandler(userService)

	// 4. Fiber
	app := fiber.New(fiber.Config{
		AppName: "Fabric Ledger API v1.0",
	})

	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(cors.New())

	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/validate-token", authHandler.ValidateToken)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(userRepo))

	// Inward (intake)
	protected.Get("/entries", middleware.RequireCapability(rbac.CapEntryView), inwardHandler.GetEntries)
	protected.Get("/entries/:id", middleware.RequireCapability(rbac.CapEntryView), inwardHandler.GetEntry)
	protected.Post("/entries", middleware.RequireCapability(rbac.CapEntryCreate), inwardHandler.CreateEntry)
	protected.Put("/entries/:id", middleware.RequireCapability(rbac.CapEntryUpdate), inwardHandler.UpdateEntry)
	protected.Delete("/entries/:id", middleware.RequireCapability(rbac.CapEntryDelete), inwardHandler.DeleteEntry)
	protected.Put("/entries/:id/document", middleware.RequireAnyCapability(rbac.CapEntryCreate, rbac.CapEntryUpdate), inwardHandler.AttachDocument)

	// Quality gate
	protected.Get("/quality/pending", middleware.RequireCapability(rbac.CapEntryView), qualityHandler.PendingQueue)
	protected.Get("/entries/:id/quality", middleware.RequireCapability(rbac.CapEntryView), qualityHandler.GetQuality)
	protected.Post("/entries/:id/quality", middleware.RequireCapability(rbac.CapQualityCreate), qualityHandler.RecordQuality)

	// Roll approval
	protected.Get("/approvals/queue", middleware.RequireAnyCapability(rbac.CapApprovalApprove, rbac.CapApprovalReject), approvalHandler.ApprovalQueue)
	protected.Get("/entries/:id/approvals", middleware.RequireAnyCapability(rbac.CapApprovalApprove, rbac.CapApprovalReject, rbac.CapReportsViewAll), approvalHandler.GetEntryApprovals)
	protected.Post("/rolls/:id/decision", middleware.RequireAnyCapability(rbac.CapApprovalApprove, rbac.CapApprovalReject), approvalHandler.DecideRoll)
	protected.Put("/approvals/:id/evidence", middleware.RequireCapability(rbac.CapApprovalReject), approvalHandler.AttachEvidence)

	// Reports
	protected.Get("/reports/entries", reportHandler.EntriesReport)
	protected.Get("/reports/entries/export", middleware.RequireCapability(rbac.CapReportsExport), reportHandler.ExportEntries)

	// User management
	protected.Get("/users", middleware.RequireCapability(rbac.CapUserManage), userHandler.GetUsers)
	protected.Post("/users", middleware.RequireCapability(rbac.CapUserManage), userHandler.CreateUser)
	protected.Put("/users/:id/active", middleware.RequireCapability(rbac.CapUserManage), userHandler.SetUserActive)
	protected.Delete("/users/:id", middleware.RequireCapability(rbac.CapUserManage), userHandler.DeleteUser)

	// Capability listing for the frontend
	protected.Get("/capabilities", func(c *fiber.Ctx) error {
		role, _ := c.Locals("user_role").(string)
		return c.JSON(fiber.Map{"role": role, "capabilities": rbac.CapabilitiesOf(role)})
	})

	// 5. Graceful shutdown
	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}
	log.Println("Server exited")
}

// seedSuperadmin creates the default superadmin on first boot.
func seedSuperadmin(userRepo repository.UserRepository) {
	email := os.Getenv("SEED_ADMIN_EMAIL")
	if email == "" {
		email = "admin@example.com"
	}
	if _, err := userRepo.FindByEmail(email); err == nil {
		return
	}

	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if password == "" {
		password = "admin123"
	}

	admin := &model.User{
		Email:    email,
		FullName: "Superadmin",
		Role:     model.RoleSuperadmin,
		IsActive: true,
	}
	if err := admin.SetPassword(password); err != nil {
		log.Printf("Warning: failed to hash seed admin password: %v", err)
		return
	}
	if err := userRepo.Create(admin); err != nil {
		log.Printf("Warning: failed to create seed admin: %v", err)
		return
	}
	log.Printf("Seed superadmin created: %s", email)
}
