package server

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shangrila/config"
	"shangrila/internal/auth"
	"shangrila/internal/booking"
	"shangrila/internal/catalog"
	"shangrila/internal/db"
	"shangrila/internal/health"
	"shangrila/internal/logs"
	"shangrila/internal/middleware"
	"shangrila/internal/models"
	"shangrila/internal/repo"
	"shangrila/internal/spa"

	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

type App struct {
	cfg        *config.Config
	db         *gorm.DB
	Router     *mux.Router
	httpServer *http.Server

	ctx    context.Context
	cancel context.CancelFunc
}

func (a *App) Initialize(cfg *config.Config) {
	a.cfg = cfg

	/* 1) Логи */
	logs.Init(logs.Options{
		Level:  a.cfg.Logging.Level,
		Format: a.cfg.Logging.Format,
		File:   a.cfg.Logging.File,
	})

	/* 2) DB (опционально: без драйвера — fallback на in-memory каталог) */
	if drv := a.cfg.Database.Driver; drv != "" {
		d, err := db.Open(drv, a.cfg.Database.DSN)
		if err != nil {
			log.Fatalf("db open failed: %v", err)
		}
		a.db = d

		if err := a.db.AutoMigrate(
			&models.RoomType{},
			&models.RoomImage{},
			&models.RoomAmenity{},
			&models.SpaCategory{},
			&models.SpaService{},
			&models.Booking{},
			&models.SpaAppointment{},
			&models.User{},
			&models.AuthToken{},
			&models.Testimonial{}); err != nil {
			log.Fatalf("db migrate failed: %v", err)
		}
		if err := repo.SeedCatalog(context.Background(), a.db); err != nil {
			log.Fatalf("catalog seed failed: %v", err)
		}
	}

	/* 3) Хранилища: GORM либо in-memory (degraded) */
	degraded := a.db == nil
	var (
		catalogStore     repo.CatalogStore
		bookingStore     repo.BookingStore
		spaStore         repo.SpaStore
		userStore        repo.UserStore
		tokenStore       repo.TokenStore
		testimonialStore repo.TestimonialStore
	)
	if degraded {
		logs.Logger.Warn("no database configured, serving static catalog in fallback mode")
		mem := repo.NewMemoryCatalogStore()
		catalogStore = mem
		bookingStore = repo.NewMemoryBookingStore(mem)
		spaStore = repo.NewMemorySpaStore(mem)
		userStore = repo.NewMemoryUserStore()
		tokenStore = repo.NewMemoryTokenStore()
		testimonialStore = repo.NewMemoryTestimonialStore()
	} else {
		catalogStore = repo.NewCatalogStore(a.db)
		bookingStore = repo.NewBookingStore(a.db)
		spaStore = repo.NewSpaStore(a.db)
		userStore = repo.NewUserStore(a.db)
		tokenStore = repo.NewTokenStore(a.db)
		testimonialStore = repo.NewTestimonialStore(a.db)
	}

	/* 4) Сервисы и обработчики */
	tokenTTL := time.Duration(a.cfg.Auth.TokenTTLDays) * 24 * time.Hour
	authSvc := auth.New(userStore, tokenStore, tokenTTL, degraded)
	bookingSvc := booking.New(catalogStore, bookingStore, a.cfg.Booking.ReferencePrefix, degraded)
	spaSvc := spa.New(catalogStore, spaStore, a.cfg.Spa.ReferencePrefix, degraded)

	bookingH := booking.NewHandler(bookingSvc, authSvc)
	spaH := spa.NewHandler(spaSvc, catalogStore, authSvc)
	catalogH := catalog.NewHandler(catalogStore, testimonialStore, degraded)
	authH := auth.NewHandler(authSvc, bookingSvc, spaSvc)

	/* 5) Router + middleware */
	a.Router = mux.NewRouter().StrictSlash(true)
	a.Router.Use(
		middleware.CORS,
		middleware.RequestID,
		middleware.Recoverer,
		middleware.LoggerMW,
	)

	if a.db != nil {
		health.RegisterRoutesWithDB(a.Router, a.db, degraded) // /healthz, /readyz, /api/status
	} else {
		health.RegisterRoutes(a.Router, degraded)
	}

	catalog.RegisterRoutes(a.Router, catalogH)
	booking.RegisterRoutes(a.Router, bookingH)
	spa.RegisterRoutes(a.Router, spaH)
	auth.RegisterRoutes(a.Router, authH)

	/* (необязательно) вывести известные маршруты в лог при старте */
	_ = a.Router.Walk(func(rt *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		path, _ := rt.GetPathTemplate()
		methods, _ := rt.GetMethods()
		if len(methods) == 0 {
			methods = []string{"ANY"}
		}
		log.Printf("route: %-6v %s", methods, path)
		return nil
	})
}

func (a *App) Run() error {
	if a.Router == nil || a.cfg == nil {
		return fmt.Errorf("server not initialized")
	}

	bind := net.JoinHostPort(a.cfg.Server.Address, a.cfg.Server.HTTPPort)

	a.ctx, a.cancel = context.WithCancel(context.Background())
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		s := <-sigs
		logs.Logger.Infof("shutdown signal: %s", s)
		a.cancel()
	}()

	// Жёсткие таймауты — это важно для production
	a.httpServer = &http.Server{
		Addr:              bind,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logs.Logger.Infof("HTTP listening on %s", bind)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logs.Logger.Fatalf("http server error: %v", err)
		}
	}()

	<-a.ctx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.httpServer.Shutdown(ctx); err != nil {
		logs.Logger.Errorf("http shutdown: %v", err)
	}
	return nil
}
