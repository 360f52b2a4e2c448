// Package api exposes the task board over HTTP.
package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/UnknownOlympus/hestia/internal/auth"
	"github.com/UnknownOlympus/hestia/internal/metrics"
	"github.com/UnknownOlympus/hestia/internal/models"
	"github.com/UnknownOlympus/hestia/internal/realtime"
	"github.com/UnknownOlympus/hestia/internal/services/tasks"
	"github.com/UnknownOlympus/hestia/internal/services/users"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type TaskService interface {
	Create(ctx context.Context, author string, in tasks.NewTask) (models.Task, error)
	Update(ctx context.Context, id int, author string, upd tasks.Update) (models.Task, error)
	AddComment(ctx context.Context, id int, author, text string) (models.Task, error)
	List(ctx context.Context) ([]models.Task, error)
	ListByDepartment(ctx context.Context, department string) ([]models.Task, error)
	Departments() []string
}

type UserService interface {
	Login(ctx context.Context, username, password string) (string, models.User, error)
	CreateUser(ctx context.Context, in users.NewUser) (models.User, error)
	ChangePassword(ctx context.Context, username, newPassword string) error
}

type SettingsService interface {
	Current() models.Settings
	Update(ctx context.Context, patch models.Settings) (models.Settings, error)
}

type SubscriptionService interface {
	Subscribe(ctx context.Context, raw []byte, department, callerDepartment string) (models.PushSubscription, error)
}

type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

type RealtimeServer interface {
	ServeWS(w http.ResponseWriter, r *http.Request, identity realtime.Identity)
}

type Options struct {
	Env                  string
	AllowedOrigins       []string
	CrossDepartmentRoles []string
	StaticDir            string
}

type Handler struct {
	log           *slog.Logger
	metrics       *metrics.Metrics
	tasks         TaskService
	users         UserService
	settings      SettingsService
	subscriptions SubscriptionService
	tokens        TokenVerifier
	realtime      RealtimeServer
	opts          Options
	crossRoles    map[string]struct{}
}

type Deps struct {
	Tasks         TaskService
	Users         UserService
	Settings      SettingsService
	Subscriptions SubscriptionService
	Tokens        TokenVerifier
	Realtime      RealtimeServer
}

func NewHandler(log *slog.Logger, metrics *metrics.Metrics, deps Deps, opts Options) *Handler {
	crossRoles := make(map[string]struct{}, len(opts.CrossDepartmentRoles))
	for _, role := range opts.CrossDepartmentRoles {
		crossRoles[role] = struct{}{}
	}

	return &Handler{
		log:           log.With(slog.String("division", "api")),
		metrics:       metrics,
		tasks:         deps.Tasks,
		users:         deps.Users,
		settings:      deps.Settings,
		subscriptions: deps.Subscriptions,
		tokens:        deps.Tokens,
		realtime:      deps.Realtime,
		opts:          opts,
		crossRoles:    crossRoles,
	}
}

// Router builds the gin engine with every route and middleware attached.
func (h *Handler) Router() *gin.Engine {
	if h.opts.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(h.requestLogger())
	router.Use(h.instrument())
	router.Use(cors.New(h.corsConfig()))

	router.POST("/login", h.HandleLogin)
	router.GET("/settings", h.HandleGetSettings)
	router.GET("/ws", h.HandleRealtime)

	authorized := router.Group("/")
	authorized.Use(h.HandleAuthMiddleware)
	{
		authorized.POST("/tasks", h.HandleCreateTask)
		authorized.PUT("/tasks/:id", h.HandleUpdateTask)
		authorized.POST("/tasks/:id/comments", h.HandleAddComment)
		authorized.GET("/tasks", h.RequireCrossDepartment, h.HandleListTasks)
		authorized.GET("/tasks/:department", h.HandleListDepartmentTasks)
		authorized.GET("/departments", h.HandleListDepartments)
		authorized.POST("/subscribe", h.HandleSubscribe)
	}

	admin := authorized.Group("/")
	admin.Use(h.RequireRole(models.RoleSistemas))
	{
		admin.POST("/change-password", h.HandleChangePassword)
		admin.POST("/users", h.HandleCreateUser)
		admin.POST("/settings", h.HandleUpdateSettings)
	}

	if h.opts.StaticDir != "" {
		router.Static("/app", h.opts.StaticDir)
	}

	return router
}

func (h *Handler) corsConfig() cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization")

	if len(h.opts.AllowedOrigins) == 0 {
		// same-origin deployments do not need CORS at all
		cfg.AllowOriginFunc = func(string) bool { return false }
		return cfg
	}

	cfg.AllowOrigins = h.opts.AllowedOrigins
	return cfg
}

func (h *Handler) isCrossDepartment(role string) bool {
	_, ok := h.crossRoles[role]
	return ok
}
