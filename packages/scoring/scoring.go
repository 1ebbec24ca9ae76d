package scoring

import (
	"log"
	"math/rand"

	"scoring/cron"
	"scoring/handlers"
	"scoring/services"

	panelMiddleware "panel/middleware"
	panelModels "panel/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Module struct {
	CourtHandler   *handlers.CourtHandler
	MatchHandler   *handlers.MatchHandler
	ScoreHandler   *handlers.ScoreHandler
	DisplayHandler *handlers.DisplayHandler
	MatchService   *services.MatchService
	ScoreService   *services.ScoreService
	UndoService    *services.UndoService
	CleanupService *services.CleanupService
	Scheduler      *cron.Scheduler
	db             *gorm.DB
}

func NewModule(db *gorm.DB, rng *rand.Rand) *Module {
	matchService := services.NewMatchService(db, rng)
	matchHandler := handlers.NewMatchHandler(matchService)

	scoreService := services.NewScoreService(db, matchService)
	undoService := services.NewUndoService(db, matchService)
	scoreHandler := handlers.NewScoreHandler(scoreService, undoService)

	courtHandler := handlers.NewCourtHandler(db)
	displayHandler := handlers.NewDisplayHandler(matchService)

	// Initialize stale-match cleanup and its scheduler
	cleanupService := services.NewCleanupService(db)
	scheduler := cron.NewScheduler(db, cleanupService)

	return &Module{
		CourtHandler:   courtHandler,
		MatchHandler:   matchHandler,
		ScoreHandler:   scoreHandler,
		DisplayHandler: displayHandler,
		MatchService:   matchService,
		ScoreService:   scoreService,
		UndoService:    undoService,
		CleanupService: cleanupService,
		Scheduler:      scheduler,
		db:             db,
	}
}

func (m *Module) SetupRoutes(r *gin.Engine) {
	courts := r.Group("/courts")
	{
		courts.GET("", m.CourtHandler.GetCourts)
		courts.GET("/:id", m.CourtHandler.GetCourt)
		courts.POST("", panelMiddleware.JWTMiddleware(), panelMiddleware.RequireRole(m.db, panelModels.RoleStaff), m.CourtHandler.CreateCourt)

		// Display and scoring are open: scoreboards poll the display and
		// the court hardware buttons post points without a panel token.
		courts.GET("/:id/display", m.DisplayHandler.GetDisplay)
		courts.GET("/:id/match", m.MatchHandler.GetActiveMatch)
		courts.POST("/:id/score", m.ScoreHandler.ScorePoint)
		courts.POST("/:id/undo", panelMiddleware.JWTMiddleware(), m.ScoreHandler.UndoLastPoint)
	}

	matches := r.Group("/matches")
	{
		matches.GET("/recent", m.MatchHandler.GetRecentMatches)
		matches.POST("", panelMiddleware.JWTMiddleware(), m.MatchHandler.CreateMatch)
		matches.POST("/:id/abandon", panelMiddleware.JWTMiddleware(), m.MatchHandler.AbandonMatch)
	}
}

// StartScheduler starts the cron scheduler for stale-match cleanup
func (m *Module) StartScheduler() error {
	log.Println("Starting scoring module scheduler...")
	return m.Scheduler.Start()
}

// StopScheduler stops the cron scheduler
func (m *Module) StopScheduler() {
	log.Println("Stopping scoring module scheduler...")
	m.Scheduler.Stop()
}

// RunCleanupNow manually triggers the stale-match sweep (useful for testing)
func (m *Module) RunCleanupNow() {
	log.Println("Manually triggering stale-match cleanup...")
	m.Scheduler.RunNow()
}
