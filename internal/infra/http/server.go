package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"obotcall/internal/config"
	"obotcall/internal/domain"
	"obotcall/internal/infra/db"
	"obotcall/internal/infra/identity"
	"obotcall/internal/infra/policyrego"
	"obotcall/internal/infra/ratelimit"
	"obotcall/internal/usecase"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ResourceStore backs the thin record routes mounted behind the gates.
type ResourceStore interface {
	Create(ctx context.Context, kind domain.ResourceKind, tenantID, name string) (db.ResourceRecord, error)
	List(ctx context.Context, kind domain.ResourceKind, tenantID string) ([]db.ResourceRecord, error)
}

type Server struct {
	cfg   config.Config
	store *db.Store
	r     *gin.Engine

	verifier     domain.IdentityVerifier
	resolver     *usecase.ContextResolver
	entitlements *usecase.Entitlements
	roles        domain.RoleAuthorizer
	tenants      usecase.TenantDirectory
	usage        usecase.UsageSource
	resources    ResourceStore

	adminAPIKey string
	authInitErr error
	now         func() time.Time

	rateLimiter         domain.RateLimiter
	rateLimitRequests   int
	rateLimitWindow     time.Duration
	rateLimitFailClosed bool
}

func NewServer(cfg config.Config, store *db.Store) *Server {
	r := gin.New()
	r.Use(gin.Recovery())

	s := &Server{cfg: cfg, store: store, r: r, now: time.Now}
	s.initDeps()
	s.routes()
	return s
}

type ServerDeps struct {
	Verifier      domain.IdentityVerifier
	Users         usecase.UserDirectory
	Tenants       usecase.TenantDirectory
	Subscriptions usecase.SubscriptionDirectory
	Usage         usecase.UsageSource
	Resources     ResourceStore
	Catalog       *domain.PlanCatalog
	Roles         domain.RoleAuthorizer
	RateLimiter   domain.RateLimiter
	AdminAPIKey   string
	Now           func() time.Time
}

func NewServerWithDeps(cfg config.Config, deps ServerDeps) *Server {
	r := gin.New()
	r.Use(gin.Recovery())

	catalog := deps.Catalog
	if catalog == nil {
		catalog = domain.DefaultCatalog()
	}
	s := &Server{
		cfg:      cfg,
		r:        r,
		verifier: deps.Verifier,
		resolver: &usecase.ContextResolver{
			Users:         deps.Users,
			Tenants:       deps.Tenants,
			Subscriptions: deps.Subscriptions,
		},
		entitlements: &usecase.Entitlements{Catalog: catalog, Usage: deps.Usage},
		roles:        deps.Roles,
		tenants:      deps.Tenants,
		usage:        deps.Usage,
		resources:    deps.Resources,
		adminAPIKey:  deps.AdminAPIKey,
		now:          deps.Now,
	}
	if s.now == nil {
		s.now = time.Now
	}
	s.initRateLimit(deps.RateLimiter)
	s.initAuth()
	s.routes()
	return s
}

func (s *Server) initDeps() {
	s.adminAPIKey = s.cfg.AdminAPIKey

	var gdb *gorm.DB
	if s.store != nil {
		gdb = s.store.DB
	}
	userRepo := db.NewUserRepository(gdb)
	tenantRepo := db.NewTenantRepository(gdb)
	subscriptionRepo := db.NewSubscriptionRepository(gdb)
	usageRepo := db.NewUsageRepository(gdb)

	s.resolver = &usecase.ContextResolver{
		Users:         userRepo,
		Tenants:       tenantRepo,
		Subscriptions: subscriptionRepo,
	}
	s.entitlements = &usecase.Entitlements{
		Catalog: domain.DefaultCatalog(),
		Usage:   usageRepo,
	}
	s.tenants = tenantRepo
	s.usage = usageRepo
	s.resources = db.NewResourceRepository(gdb)

	s.initRateLimit(nil)
	s.initAuth()
}

func (s *Server) initAuth() {
	switch s.cfg.AuthMode {
	case "none":
		// Dev mode: the bearer token is taken as the subject id directly.
		if s.verifier == nil {
			s.verifier = passthroughVerifier{}
		}
	case "identity":
		if s.verifier == nil {
			client, err := identity.NewClientFromConfig(s.cfg)
			if err != nil {
				s.authInitErr = err
				return
			}
			s.verifier = client
		}
	default:
		s.authInitErr = errors.New("unsupported auth mode")
		return
	}
	if s.roles == nil {
		var (
			engine *policyrego.Engine
			err    error
		)
		if s.cfg.PolicyPath != "" {
			engine, err = policyrego.NewEngineFromPath(context.Background(), s.cfg.PolicyPath)
		} else {
			engine, err = policyrego.NewEngine(context.Background())
		}
		if err != nil {
			s.authInitErr = err
			return
		}
		s.roles = engine
	}
}

func (s *Server) initRateLimit(override domain.RateLimiter) {
	if override != nil {
		s.rateLimiter = override
	}
	if s.rateLimiter == nil && s.cfg.RateLimitRequests > 0 {
		if s.cfg.RedisAddr != "" {
			if limiter, err := ratelimit.NewRedisLimiter(s.cfg.RedisAddr, s.cfg.RedisPassword, s.cfg.RedisDB, nil); err == nil {
				s.rateLimiter = limiter
			}
		}
		if s.rateLimiter == nil {
			s.rateLimiter = ratelimit.NewMemoryLimiter(ratelimit.MemoryLimiterConfig{
				MaxKeys: s.cfg.RateLimitMaxKeys,
			})
		}
	}
	s.rateLimitRequests = s.cfg.RateLimitRequests
	s.rateLimitWindow = s.cfg.RateLimitWindow()
	s.rateLimitFailClosed = s.cfg.RateLimitFailClosed
}

const (
	inviteLimitRequests = 10
	inviteLimitWindow   = time.Minute
)

func (s *Server) routes() {
	s.r.GET("/healthz", func(c *gin.Context) {
		dbMode := "no-db"
		if s.store != nil && s.store.DB != nil {
			dbMode = "db"
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "mode": dbMode})
	})

	v1 := s.r.Group("/v1")
	{
		// Public: rate limited only; the caller key falls through to the
		// client address.
		v1.GET("/plans", s.rateLimitMiddleware(), s.handleListPlans)

		protected := v1.Group("", s.authMiddleware())
		sharedLimit := s.rateLimitMiddleware()

		type resourceMount struct {
			path    string
			kind    domain.ResourceKind
			feature string
		}
		for _, mount := range []resourceMount{
			{"/interventions", domain.ResourceInterventions, domain.FeatureInterventions},
			{"/clients", domain.ResourceClients, domain.FeatureClients},
			{"/quotes", domain.ResourceQuotes, domain.FeatureQuotes},
			{"/invoices", domain.ResourceInvoices, domain.FeatureInvoices},
		} {
			protected.POST(mount.path,
				sharedLimit,
				s.requirePermission(string(mount.kind)+":write"),
				s.requireFeature(mount.feature),
				s.requireQuota(mount.kind),
				s.handleCreateResource(mount.kind))
			protected.GET(mount.path,
				sharedLimit,
				s.requirePermission(string(mount.kind)+":read"),
				s.requireFeature(mount.feature),
				s.handleListResources(mount.kind))
		}

		// Invites fan out email, so the mount carries its own tighter
		// budget instead of the shared one.
		protected.POST("/members/invites",
			s.rateLimitMiddleware(limitOverride{
				Scope:    "invites",
				Requests: inviteLimitRequests,
				Window:   inviteLimitWindow,
			}),
			s.requirePermission("members:invite"),
			s.requireSeats(),
			s.handleInviteMember)

		protected.GET("/tenants/:tenant_id/usage",
			sharedLimit,
			s.requirePermission("admin:usage"),
			s.handleTenantUsage)
	}
}

func (s *Server) Run() error {
	if s.authInitErr != nil {
		return s.authInitErr
	}
	return s.r.Run(s.cfg.HTTPAddr)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.r
}

type passthroughVerifier struct{}

func (passthroughVerifier) Verify(_ context.Context, token string) (string, error) {
	if token == "" {
		return "", domain.ErrUnauthenticated
	}
	return token, nil
}
