// Package server wires services and handlers into the HTTP router.
package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"budgeteer/internal/events"
	"budgeteer/internal/handlers"
	"budgeteer/internal/middleware"
	"budgeteer/internal/services"
)

// Options tunes the service layer.
type Options struct {
	BcryptCost int
	Location   *time.Location
	Publisher  events.Publisher
}

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Auth           *handlers.AuthHandler
	Settings       *handlers.SettingsHandler
	Category       *handlers.CategoryHandler
	BudgetPeriod   *handlers.BudgetPeriodHandler
	Income         *handlers.IncomeHandler
	Expense        *handlers.ExpenseHandler
	ExpenseGroup   *handlers.ExpenseGroupHandler
	PersonalBudget *handlers.PersonalBudgetHandler
}

// NewHandlers builds the services over db and the handlers over them.
func NewHandlers(db *gorm.DB, jwt *middleware.JWTManager, opts Options) Handlers {
	// Services
	auditService := services.NewAuditService(db, opts.Publisher)
	categoryService := services.NewCategoryService(db)
	userService := services.NewUserService(db, categoryService, opts.BcryptCost)
	settingsService := services.NewSettingsService(db)
	periodService := services.NewBudgetPeriodService(db)
	metricsService := services.NewMetricsService(db, opts.Location)
	incomeService := services.NewIncomeService(db)
	expenseService := services.NewExpenseService(db)
	groupService := services.NewExpenseGroupService(db)
	personalBudgetService := services.NewPersonalBudgetService(db)

	// Handlers
	return Handlers{
		Auth:           handlers.NewAuthHandler(userService, jwt, auditService),
		Settings:       handlers.NewSettingsHandler(settingsService, auditService),
		Category:       handlers.NewCategoryHandler(categoryService, auditService),
		BudgetPeriod:   handlers.NewBudgetPeriodHandler(periodService, metricsService, auditService, opts.Location),
		Income:         handlers.NewIncomeHandler(incomeService, auditService),
		Expense:        handlers.NewExpenseHandler(expenseService, auditService),
		ExpenseGroup:   handlers.NewExpenseGroupHandler(groupService, auditService),
		PersonalBudget: handlers.NewPersonalBudgetHandler(personalBudgetService, auditService),
	}
}

// NewRouter mounts the public and authenticated routes under /api/v1.
func NewRouter(h Handlers, jwt *middleware.JWTManager) *gin.Engine {
	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	// Public routes
	v1.POST("/users/register", h.Auth.Register)
	v1.POST("/auth/login", h.Auth.Login)

	// Protected routes
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(jwt))

	users := protected.Group("/users")
	users.GET("/me", h.Auth.GetProfile)
	users.PATCH("/profile", h.Auth.UpdateProfile)
	users.PATCH("/password", h.Auth.ChangePassword)

	protected.GET("/settings", h.Settings.GetSettings)
	protected.PATCH("/settings", h.Settings.UpdateSettings)

	categories := protected.Group("/categories")
	categories.POST("", h.Category.CreateCategory)
	categories.GET("", h.Category.GetUserCategories)
	categories.GET("/:id", h.Category.GetCategoryByID)
	categories.PATCH("/:id", h.Category.UpdateCategory)
	categories.DELETE("/:id", h.Category.DeleteCategory)

	periods := protected.Group("/budget-periods")
	periods.POST("", h.BudgetPeriod.CreateBudgetPeriod)
	periods.GET("", h.BudgetPeriod.GetBudgetPeriods)
	periods.GET("/metrics/yearly", h.BudgetPeriod.GetYearlyMetrics)
	periods.GET("/metrics/overall", h.BudgetPeriod.GetOverallMetrics)
	periods.GET("/metrics/year-range", h.BudgetPeriod.GetYearRangeMetrics)
	periods.GET("/:id", h.BudgetPeriod.GetBudgetPeriod)
	periods.PATCH("/:id", h.BudgetPeriod.UpdateBudgetPeriod)
	periods.DELETE("/:id", h.BudgetPeriod.DeleteBudgetPeriod)
	periods.POST("/:id/duplicate", h.BudgetPeriod.DuplicateBudgetPeriod)
	periods.GET("/:id/summary", h.BudgetPeriod.GetSummary)

	incomes := protected.Group("/incomes")
	incomes.POST("", h.Income.CreateIncome)
	incomes.GET("/budget-period/:budgetPeriodId", h.Income.GetPeriodIncomes)
	incomes.GET("/:id", h.Income.GetIncome)
	incomes.PATCH("/:id", h.Income.UpdateIncome)
	incomes.DELETE("/:id", h.Income.DeleteIncome)

	expenses := protected.Group("/expenses")
	expenses.POST("", h.Expense.CreateExpense)
	expenses.POST("/bulk", h.Expense.CreateExpenses)
	expenses.GET("", h.Expense.GetExpenses)
	expenses.GET("/:id", h.Expense.GetExpense)
	expenses.PATCH("/:id", h.Expense.UpdateExpense)
	expenses.DELETE("/:id", h.Expense.DeleteExpense)

	groups := protected.Group("/expense-groups")
	groups.POST("", h.ExpenseGroup.CreateExpenseGroup)
	groups.GET("", h.ExpenseGroup.GetExpenseGroups)
	groups.POST("/move-expenses", h.ExpenseGroup.MoveExpenses)
	groups.DELETE("/expenses/:expenseId", h.ExpenseGroup.RemoveExpense)
	groups.GET("/:id", h.ExpenseGroup.GetExpenseGroup)
	groups.PATCH("/:id", h.ExpenseGroup.UpdateExpenseGroup)
	groups.DELETE("/:id", h.ExpenseGroup.DeleteExpenseGroup)
	groups.POST("/:id/expenses", h.ExpenseGroup.AddExpenses)

	personal := protected.Group("/personal-budgets")
	personal.POST("", h.PersonalBudget.CreatePersonalBudget)
	personal.GET("", h.PersonalBudget.GetPersonalBudgets)
	personal.GET("/:id", h.PersonalBudget.GetPersonalBudget)
	personal.PATCH("/:id", h.PersonalBudget.UpdatePersonalBudget)
	personal.DELETE("/:id", h.PersonalBudget.DeletePersonalBudget)
	personal.GET("/:id/summary", h.PersonalBudget.GetSummary)
	personal.POST("/:id/items", h.PersonalBudget.AddItem)
	personal.PATCH("/:id/items/:itemId", h.PersonalBudget.UpdateItem)
	personal.DELETE("/:id/items/:itemId", h.PersonalBudget.DeleteItem)

	return router
}
