package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"

	"luxestate/admin"
	"luxestate/agent"
	"luxestate/api"
	"luxestate/auth"
	"luxestate/config"
	"luxestate/db"
	"luxestate/inquiry"
	"luxestate/media"
	"luxestate/notify"
	"luxestate/property"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("bootstrap database pool: %v", err)
	}
	defer pool.Close()

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("connect mongo: %v", err)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Printf("disconnect mongo: %v", err)
		}
	}()

	blobs, err := media.NewGridFSStore(mongoClient.Database(cfg.MongoDB), cfg.MediaBaseURL)
	if err != nil {
		log.Fatalf("open media store: %v", err)
	}

	notifier := notify.NewRedis(cfg.RedisAddr, cfg.RedisPass)
	defer notifier.Close()

	propertyRepo := property.NewRepository(pool)
	propertySvc := property.NewService(propertyRepo, blobs, notifier)
	propertyWatcher := property.NewWatcher(pool, propertyRepo)

	agentRepo := agent.NewRepository(pool)
	agentSvc := agent.NewService(agentRepo, notifier)
	agentWatcher := agent.NewWatcher(pool, agentRepo)

	inquiryRepo := inquiry.NewRepository(pool)
	inquirySvc := inquiry.NewService(inquiryRepo, notifier)
	inquiryWatcher := inquiry.NewWatcher(pool, inquiryRepo)

	authRepo := auth.NewRepository(pool)
	authSvc := auth.NewService(authRepo, cfg.JWTSecret)

	adminSvc := admin.NewService(admin.NewRepository(pool))

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	server := api.NewServer(api.Deps{
		Properties:     propertySvc,
		PropertyStream: propertyWatcher,
		Agents:         agentSvc,
		AgentStream:    agentWatcher,
		Inquiries:      inquirySvc,
		InquiryStream:  inquiryWatcher,
		Auth:           authSvc,
		Admin:          adminSvc,
		Media:          blobs,
	})
	server.Register(e)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Printf("listening on %s", cfg.HTTPAddr)
		if err := e.Start(cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("server: %v", err)
	}
}
