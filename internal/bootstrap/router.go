package bootstrap

import (
	"database/sql"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/aurashop/marketplace-backend/config"
	adminhttp "github.com/aurashop/marketplace-backend/internal/admin/http"
	adminrepo "github.com/aurashop/marketplace-backend/internal/admin/repository"
	adminservice "github.com/aurashop/marketplace-backend/internal/admin/service"
	httpapi "github.com/aurashop/marketplace-backend/internal/api/http"
	apimiddleware "github.com/aurashop/marketplace-backend/internal/api/middleware"
	"github.com/aurashop/marketplace-backend/internal/auth"
	authmiddleware "github.com/aurashop/marketplace-backend/internal/auth/middleware"
	"github.com/aurashop/marketplace-backend/internal/cache"
	cataloghttp "github.com/aurashop/marketplace-backend/internal/catalog/http"
	catalogrepo "github.com/aurashop/marketplace-backend/internal/catalog/repository"
	notifhttp "github.com/aurashop/marketplace-backend/internal/notifications/http"
	notifrepo "github.com/aurashop/marketplace-backend/internal/notifications/repository"
	notifservice "github.com/aurashop/marketplace-backend/internal/notifications/service"
	shoppinghttp "github.com/aurashop/marketplace-backend/internal/shopping/http"
	shoppingrepo "github.com/aurashop/marketplace-backend/internal/shopping/repository"
	staffinghttp "github.com/aurashop/marketplace-backend/internal/staffing/http"
	staffingrepo "github.com/aurashop/marketplace-backend/internal/staffing/repository"
	staffingservice "github.com/aurashop/marketplace-backend/internal/staffing/service"
	"github.com/aurashop/marketplace-backend/internal/storage"
	storehttp "github.com/aurashop/marketplace-backend/internal/stores/http"
	storerepo "github.com/aurashop/marketplace-backend/internal/stores/repository"
	trackinghttp "github.com/aurashop/marketplace-backend/internal/tracking/http"
	trackingrepo "github.com/aurashop/marketplace-backend/internal/tracking/repository"
	trackingservice "github.com/aurashop/marketplace-backend/internal/tracking/service"
	userhttp "github.com/aurashop/marketplace-backend/internal/users/http"
	userrepo "github.com/aurashop/marketplace-backend/internal/users/repository"
	vendorhttp "github.com/aurashop/marketplace-backend/internal/vendorpkg/http"
	vendorservice "github.com/aurashop/marketplace-backend/internal/vendorpkg/service"
)

// RouterDeps carries everything BuildRouter wires together.
type RouterDeps struct {
	Cfg      *config.Config
	Firebase *FirebaseClients
	DB       *pgxpool.Pool
	TSDB     *sql.DB
	Redis    *redis.Client
	Uploader storage.Uploader
	Cache    *cache.Cache
}

func BuildRouter(dep RouterDeps) (*gin.Engine, *trackingservice.Collector) {
	r := gin.Default()

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowOrigins = dep.Cfg.Server.AllowedOrigins
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization", "X-Request-Id", "X-Tracking-Session")
	r.Use(cors.New(corsCfg))
	r.Use(apimiddleware.RequestID())

	healthHandler := httpapi.NewHealthHandler("marketplace-backend", dep.Cfg.App.Version, dep.DB, dep.Redis)
	healthHandler.RegisterRoutes(r)

	// Repositories.
	users := userrepo.NewUserRepository(dep.Firebase.Firestore)
	stores := storerepo.NewStoreRepository(dep.Firebase.Firestore)
	products := catalogrepo.NewProductRepository(dep.Firebase.Firestore)
	orders := catalogrepo.NewOrderRepository(dep.Firebase.Firestore)
	carts := shoppingrepo.NewCartRepository(dep.Firebase.Firestore)
	wishlists := shoppingrepo.NewWishlistRepository(dep.Firebase.Firestore)
	notifications := notifrepo.NewNotificationRepository(dep.Firebase.Firestore)
	directory := notifrepo.NewUserDirectory(dep.Firebase.Firestore)
	audit := notifrepo.NewAuditRepository(dep.DB)
	invites := staffingrepo.NewInviteRepository(dep.Firebase.Firestore)
	stats := adminrepo.NewStatsRepository(dep.Firebase.Firestore)
	sessions := trackingrepo.NewSessionRepository(dep.Firebase.Firestore)
	activity := trackingrepo.NewActivityTimeseriesRepository(dep.TSDB)

	var mirror *cache.Mirror
	if dep.Redis != nil {
		mirror = cache.NewMirror(dep.Redis)
	}

	// Services.
	phones := auth.NewPhoneVerifier(dep.Firebase.Auth)
	onboarding := vendorservice.NewOnboarding(stores, users, phones, dep.Uploader)
	staffing := staffingservice.NewStaffing(invites, stores, notifications, dep.Cfg.App.PublicBaseURL)
	review := adminservice.NewReview(stores, users, notifications)
	fanout := notifservice.NewFanout(notifications, directory, audit, dep.Cfg.App.BulkNotifyConcurrency)
	collector := trackingservice.NewCollector(sessions, activity)

	// Handlers.
	vendorHandler := vendorhttp.NewHandler(onboarding)
	staffingHandler := staffinghttp.NewHandler(staffing)
	adminHandler := adminhttp.NewHandler(review, stats, fanout, audit)
	notifHandler := notifhttp.NewHandler(notifications)
	userHandler := userhttp.NewHandler(users)
	storeHandler := storehttp.NewHandler(stores, dep.Cache, mirror)
	catalogHandler := cataloghttp.NewHandler(products, orders, stores)
	shoppingHandler := shoppinghttp.NewHandler(carts, wishlists, collector)
	trackingHandler := trackinghttp.NewHandler(collector)

	api := r.Group("/api/v1")

	// Public storefront surface. Anonymous traffic is limited per IP.
	public := api.Group("")
	public.Use(apimiddleware.RateLimit(20, 40))
	storeHandler.Register(public.Group("/stores"))
	catalogHandler.RegisterPublic(public)

	// Everything below requires a verified identity. The limiter sits after
	// the auth middleware so buckets key on the uid, not the shared IP.
	authed := api.Group("")
	authed.Use(authmiddleware.FirebaseAuth(dep.Firebase.Auth, authmiddleware.Options{
		DevAdmins:  dep.Cfg.App.DevAdmins,
		Production: dep.Cfg.IsProduction(),
	}))
	authed.Use(apimiddleware.RateLimit(20, 40))

	userHandler.Register(authed.Group("/users"))
	notifHandler.Register(authed.Group("/notifications"))
	shoppingHandler.Register(authed.Group("/shopping"))
	trackingHandler.Register(authed.Group("/tracking"))
	catalogHandler.RegisterCustomer(authed)
	staffingHandler.RegisterApplicant(authed.Group("/careers"))

	vendor := authed.Group("/vendor")
	vendorHandler.Register(vendor.Group("/onboarding"))
	staffingHandler.RegisterVendor(vendor)
	catalogHandler.RegisterVendor(vendor)

	admin := authed.Group("/admin")
	admin.Use(authmiddleware.AdminOnly())
	adminHandler.Register(admin)
	staffingHandler.RegisterAdmin(admin.Group("/staffing"))

	return r, collector
}
