package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	v1 "certhub/api/v1"
	"certhub/internal/auth"
	"certhub/internal/cache"
	"certhub/internal/config"
	"certhub/internal/db"
	"certhub/internal/feeschedule"
	"certhub/internal/fileintake"
	"certhub/internal/renewal"
	"certhub/internal/storage"
	"certhub/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	configPath := flag.String("config", "", "path to INI config file (env vars take precedence)")
	flag.Parse()

	// 1. Load configuration
	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadFromINI(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
		os.Exit(1)
	}
	log.Println("✓ Configuration loaded")

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	entry := logger.WithField("service", "certhub")

	// 2. Initialize MySQL
	if err := db.InitMySQL(cfg.MySQL.DSN); err != nil {
		log.Fatalf("Failed to initialize MySQL: %v", err)
		os.Exit(1)
	}
	defer db.Close()

	if cfg.Migrate {
		if err := db.Migrate(db.GetDB()); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
			os.Exit(1)
		}
		log.Println("✓ Migrations applied")
	}

	// 3. Initialize Redis
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		log.Fatalf("Failed to initialize Redis: %v", err)
		os.Exit(1)
	}
	defer cache.Close()

	// 4. Initialize JWT
	auth.InitJWT(cfg.JWT.Secret)

	// 5. Initialize object storage
	blobs, err := storage.NewMinioService(&cfg.Minio)
	if err != nil {
		log.Fatalf("Failed to initialize object storage: %v", err)
		os.Exit(1)
	}
	if err := blobs.EnsureBucket(context.Background()); err != nil {
		log.Fatalf("Failed to ensure bucket: %v", err)
		os.Exit(1)
	}
	log.Println("✓ Object storage ready")

	// 6. Wire renewal services
	schedules := feeschedule.NewProvider(
		feeschedule.NewGormSource(db.GetDB()),
		cache.Client,
		time.Duration(cfg.FeeSchedule.MirrorTTLSec)*time.Second,
		entry,
	)
	uploader := fileintake.NewUploader(blobs, entry)
	appStore := renewal.NewGormApplicationStore(db.GetDB())
	persister := renewal.NewPersister(appStore, uploader, entry)
	certStore := renewal.NewGormCertificateStore(db.GetDB())
	manager := renewal.NewManager(certStore, schedules, persister, ws.RenewalSink{})

	// 7. Initialize Socket.IO server
	if err := ws.InitServer(); err != nil {
		log.Fatalf("Failed to initialize websocket server: %v", err)
		os.Exit(1)
	}

	// 8. Start orphaned upload sweeper
	if cfg.OrphanSweep.Enabled {
		sweeper := renewal.NewOrphanSweeper(&renewal.OrphanSweeperConfig{
			Apps:         appStore,
			Blobs:        blobs,
			Logger:       entry,
			IntervalSec:  cfg.OrphanSweep.IntervalSec,
			GraceMinutes: cfg.OrphanSweep.GraceMinutes,
		})
		sweeper.Start()
		defer sweeper.Stop()
		log.Println("✓ Orphan sweeper started")
	}

	// 9. Initialize Gin router
	gin.SetMode(gin.ReleaseMode)
	r := gin.Default()

	// Socket.IO endpoint (JWT checked during handshake)
	r.Any("/socket.io/*any", gin.WrapH(ws.WrapWithAuth(ws.Server)))

	// Setup API v1 routes
	v1.SetupRouter(r, v1.Deps{
		DB:       db.GetDB(),
		Config:   cfg,
		Schedule: schedules,
		Renewals: manager,
		Blobs:    blobs,
	})

	log.Printf("✓ Server starting on %s", cfg.HTTPAddr)

	// Start server
	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
		os.Exit(1)
	}
}
