package handlers

import (
	"context"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-api/internal/auth"
	apierrors "github.com/yukikurage/task-api/internal/errors"
	"github.com/yukikurage/task-api/internal/middleware"
	"github.com/yukikurage/task-api/internal/models"
	"github.com/yukikurage/task-api/internal/services"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RouterDeps carries everything the HTTP layer needs.
type RouterDeps struct {
	APIPrefix    string
	AllowOrigins []string
	DB           *gorm.DB
	Tokens       *auth.TokenManager
	AuthService  *services.AuthService
	TaskService  *services.TaskService
	Logger       *zap.Logger
}

// route is one row of the routing table. Public routes skip authentication;
// the others require a valid bearer token plus any of roles (none means any
// authenticated user).
type route struct {
	method  string
	path    string
	public  bool
	roles   []models.Role
	handler gin.HandlerFunc
}

// NewRouter builds the gin engine with middleware and every API route.
func NewRouter(deps RouterDeps) *gin.Engine {
	useJSONFieldNames()

	r := gin.New()
	r.Use(middleware.RequestLogger(deps.Logger), middleware.Recovery(deps.Logger))
	r.Use(cors.New(corsConfig(deps.AllowOrigins)))

	r.GET("/health", healthHandler(deps.DB))

	authHandler := NewAuthHandler(deps.AuthService, deps.Logger)
	userHandler := NewUserHandler(deps.AuthService, deps.Logger)
	taskHandler := NewTaskHandler(deps.TaskService, deps.Logger)

	routes := []route{
		// Auth
		{method: http.MethodPost, path: "/auth/register", public: true, handler: authHandler.Register},
		{method: http.MethodPost, path: "/auth/login", public: true, handler: authHandler.Login},
		{method: http.MethodGet, path: "/auth/me", handler: authHandler.GetCurrentUser},

		// Users
		{method: http.MethodGet, path: "/users", roles: []models.Role{models.RoleAdmin}, handler: userHandler.ListUsers},

		// Tasks
		{method: http.MethodPost, path: "/tasks", handler: taskHandler.CreateTask},
		{method: http.MethodGet, path: "/tasks", handler: taskHandler.ListTasks},
		{method: http.MethodGet, path: "/tasks/:id", handler: taskHandler.GetTask},
		{method: http.MethodPatch, path: "/tasks/:id", handler: taskHandler.UpdateTask},
		{method: http.MethodDelete, path: "/tasks/:id", handler: taskHandler.DeleteTask},
	}

	api := r.Group(deps.APIPrefix)
	requireAuth := middleware.RequireAuth(deps.Tokens, deps.AuthService, deps.Logger)
	for _, rt := range routes {
		var chain []gin.HandlerFunc
		if !rt.public {
			chain = append(chain, requireAuth, middleware.RequireRoles(deps.Logger, rt.roles...))
		}
		chain = append(chain, rt.handler)
		api.Handle(rt.method, rt.path, chain...)
	}

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}

	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

func healthHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db != nil {
			if err := pingDB(c.Request.Context(), db); err != nil {
				apierrors.ServiceUnavailable(c, "Database unreachable")
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Task Management API is running",
		})
	}
}

func pingDB(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
