package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/dmitrijs2005/fittrack/internal/logging"
	"github.com/dmitrijs2005/fittrack/internal/server/auth"
	"github.com/dmitrijs2005/fittrack/internal/server/metrics"
	"github.com/dmitrijs2005/fittrack/internal/server/models"
	"github.com/dmitrijs2005/fittrack/internal/server/services"
	"github.com/gin-gonic/gin"
)

type AuthService interface {
	Register(ctx context.Context, in models.RegisterInput) (*models.UserDetails, *services.SessionToken, error)
	Authenticate(ctx context.Context, username, password string) (*models.UserDetails, *services.SessionToken, error)
	VerifySession(ctx context.Context, token string) (*auth.Session, error)
	InvalidateSession(ctx context.Context, token string) error
	Check(ctx context.Context, userID int64) (*models.UserDetails, error)
}

type ProfileService interface {
	CreateOrUpdate(ctx context.Context, userID int64, in models.ProfileInput) (*models.Profile, bool, error)
	Get(ctx context.Context, userID int64) (*models.Profile, error)
	GetUserDetails(ctx context.Context, userID int64) (*models.UserDetails, error)
	AvatarUploadURL(ctx context.Context, userID int64) (string, error)
	AvatarDownloadURL(ctx context.Context, userID int64) (string, error)
}

type GoalService interface {
	CreateGoal(ctx context.Context, userID int64, in models.GoalInput) (*models.Goal, error)
	CreateActivity(ctx context.Context, userID int64, in models.ActivityInput) (*models.Activity, error)
	RecomputeGoal(ctx context.Context, userID, goalID int64) (float64, error)
	ListGoals(ctx context.Context, userID int64) ([]models.Goal, error)
	ListGoalActivities(ctx context.Context, userID, goalID int64) ([]models.Activity, error)
	ListActivities(ctx context.Context, userID int64) ([]models.Activity, error)
	DeleteGoal(ctx context.Context, userID, goalID int64) error
	WeeklyReport(ctx context.Context, userID int64, now time.Time) (*models.WeeklyReport, error)
}

// Pinger reports database reachability; *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Options holds the HTTP-facing knobs taken from the server config.
type Options struct {
	SecureCookie   bool
	AllowedOrigins []string
	AuthRateLimit  int // requests per minute per IP on /auth; 0 disables
}

type Handler struct {
	auth     AuthService
	profiles ProfileService
	goals    GoalService
	db       Pinger
	logger   logging.Logger
	opts     Options
	now      func() time.Time
}

func NewHandler(as AuthService, ps ProfileService, gs GoalService, db Pinger, l logging.Logger, opts Options) *Handler {
	return &Handler{
		auth:     as,
		profiles: ps,
		goals:    gs,
		db:       db,
		logger:   l.With("module", "http_api"),
		opts:     opts,
		now:      time.Now,
	}
}

// NewRouter wires the route table. m may be nil, in which case no metrics
// are collected or exposed.
func NewRouter(h *Handler, m *metrics.Metrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), traceMiddleware(), requestLogger(h.logger), secureHeaders(), cors(h.opts.AllowedOrigins))
	if m != nil {
		r.Use(m.Middleware())
		r.GET("/metrics", m.Handler())
	}

	r.GET("/healthz", h.health)

	authGroup := r.Group("/auth")
	if h.opts.AuthRateLimit > 0 {
		authGroup.Use(newIPRateLimiter(h.opts.AuthRateLimit).middleware())
	}
	authGroup.POST("/signup", h.signup)
	authGroup.POST("/signin", h.signin)
	authGroup.POST("/logout", h.logout)
	authGroup.GET("/check", sessionMiddleware(h.auth), h.check)

	api := r.Group("/api", sessionMiddleware(h.auth))
	api.GET("/profile", h.getProfile)
	api.POST("/profile", h.saveProfile)
	api.PUT("/profile", h.saveProfile)
	api.POST("/profile/avatar", h.avatarUpload)
	api.GET("/profile/avatar", h.avatarDownload)
	api.GET("/user/details", h.userDetails)

	g := api.Group("/goals")
	g.POST("/createGoal", h.createGoal)
	g.GET("/viewGoal", h.viewGoals)
	g.POST("/updateGoal", h.updateGoal)
	g.PATCH("/updateGoal", h.updateGoal)
	g.DELETE("/deleteGoal", h.deleteGoal)
	g.POST("/createActivity", h.createActivity)
	g.POST("/viewActivity", h.viewActivity)
	g.GET("/allActivities", h.allActivities)
	g.GET("/weeklyReport", h.weeklyReport)

	r.NoRoute(func(c *gin.Context) {
		abortWithError(c, http.StatusNotFound, "route not found")
	})
	return r
}

func (h *Handler) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		h.logger.Warn(ctx, "health check failed", "error", err.Error())
		abortWithError(c, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
