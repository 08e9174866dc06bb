package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"SportClubAPI/external/abstractapi"
	"SportClubAPI/external/mailgun"
	"SportClubAPI/external/resend"
	"SportClubAPI/external/smtp"

	"SportClubAPI/internal/config"
	"SportClubAPI/internal/db"
	"SportClubAPI/internal/middleware"
	"SportClubAPI/internal/repository"
	"SportClubAPI/internal/services"
	"SportClubAPI/internal/sessions"
	"SportClubAPI/internal/storage"
	"SportClubAPI/internal/verification"

	flags "github.com/jessevdk/go-flags"
	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

// mailers groups the outbound email roles one provider fills.
type mailers struct {
	verify     services.VerificationMailer
	bulk       services.Mailer
	subscriber services.ListSubscriber
	list       string
}

func newMailers(cfg *config.Config) (*mailers, error) {
	switch cfg.MailProvider {
	case config.MailResend:
		m, err := resend.NewResendMailer(cfg.ResendAPIKey, cfg.VerifyFrom, cfg.NewsletterList)
		if err != nil {
			return nil, err
		}
		return &mailers{verify: m, bulk: m, subscriber: m}, nil
	case config.MailSMTP:
		m, err := smtp.NewMailer(cfg.SMTPURL, cfg.VerifyFrom, cfg.SMTPSkipVerify)
		if err != nil {
			return nil, err
		}
		return &mailers{verify: m, bulk: m}, nil
	default:
		m, err := mailgun.NewMailer(cfg.MailgunAPIKey, cfg.MailgunDomain, cfg.MailgunURL, cfg.VerifyFrom, cfg.NewsletterList)
		if err != nil {
			return nil, err
		}
		return &mailers{verify: m, bulk: m, subscriber: m, list: m.ListAddress()}, nil
	}
}

func newImageStore(ctx context.Context, cfg *config.Config) (storage.ImageStore, error) {
	if cfg.Storage != config.StorageS3 {
		return storage.NewLocalStore(cfg.AssetsDir), nil
	}
	client, err := storage.NewS3Client(ctx, storage.S3Options{
		AccessKey:    cfg.S3AccessKey,
		SecretKey:    cfg.S3SecretKey,
		Region:       cfg.S3Region,
		BaseEndpoint: cfg.S3Endpoint,
	})
	if err != nil {
		return nil, err
	}
	return storage.NewS3Store(client, cfg.S3Bucket), nil
}

func newSessionDB(ctx context.Context, cfg *config.Config) (sessions.DB, func(), error) {
	if cfg.SessionStore == config.SessionsMemory {
		log.Warnf("Sessions are kept in memory and are lost on restart")
		return sessions.NewMemoryDB(), func() {}, nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, nil, fmt.Errorf("redis ping: %w", err)
	}
	return sessions.NewRedisDB(rdb), func() { rdb.Close() }, nil
}

func run() error {
	cfg, err := config.Load(".env", os.Args[1:])
	if err != nil {
		var e *flags.Error
		if errors.As(err, &e) && e.Type == flags.ErrHelp {
			return nil
		}
		return err
	}

	if cfg.LogFile != "" {
		if err := initLogRotator(cfg.LogFile); err != nil {
			return err
		}
		defer logRotator.Close()
	}
	if err := parseAndSetDebugLevels(cfg.DebugLevel); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ======================
	// INFRA
	// ======================
	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := db.MigratePool(ctx, pool); err != nil {
		return err
	}

	sessDB, closeSessDB, err := newSessionDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeSessDB()
	sess := sessions.New(sessDB, cfg.SessionSecret, !cfg.InsecureCookies)

	// ======================
	// EXTERNALS
	// ======================
	var emailValidator services.EmailValidator
	if cfg.UseEmailReputation {
		emailValidator, err = abstractapi.NewReputationValidator(cfg.AbstractAPIKey)
		if err != nil {
			return err
		}
	} else {
		emailValidator = services.NewLocalValidator()
	}

	mail, err := newMailers(cfg)
	if err != nil {
		return err
	}
	log.Infof("Mail provider: %v", cfg.MailProvider)

	images, err := newImageStore(ctx, cfg)
	if err != nil {
		return err
	}
	log.Infof("Image storage: %v", cfg.Storage)

	// ======================
	// REPOSITORIES
	// ======================
	userRepo := repository.NewUserRepository(pool)
	teamRepo := repository.NewTeamRepository(pool)
	matchRepo := repository.NewMatchRepository(pool)
	newsRepo := repository.NewNewsRepository(pool)

	// ======================
	// SERVICES
	// ======================
	pending := verification.NewStore(clockwork.NewRealClock(), cfg.VerificationTTL)
	dispatcher := services.NewVerificationDispatcher(mail.verify)
	regSvc := services.NewRegistrationService(userRepo, pending, dispatcher, emailValidator)
	authSvc := services.NewAuthService(userRepo)
	imgSvc := services.NewImageService(images)
	teamSvc := services.NewTeamService(teamRepo, imgSvc)
	matchSvc := services.NewMatchService(matchRepo)
	newsSvc := services.NewNewsService(newsRepo, imgSvc)
	nlSvc := services.NewNewsletterService(mail.bulk, mail.subscriber, userRepo,
		storage.NewLocalStore(cfg.AssetsDir), cfg.NewsletterFrom, mail.list)

	// ======================
	// ECHO
	// ======================
	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.BodyLimit("50M"))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowMethods: []string{http.MethodPost, http.MethodPut, http.MethodGet,
			http.MethodOptions, http.MethodHead, http.MethodDelete},
	}))
	e.Static("/", cfg.AssetsDir)
	registerImageServeRoutes(e, imgSvc)

	api := e.Group("/api", middleware.LoadSessionUser(sess, authSvc))

	// ======================
	// ROUTES
	// ======================
	registerVerificationRoutes(api, regSvc, cfg.FrontEnd)
	registerAuthRoutes(api, authSvc, sess)
	registerTeamRoutes(api, teamSvc)
	registerMatchRoutes(api, matchSvc)
	registerNewsRoutes(api, newsSvc)
	registerImageRoutes(api, imgSvc)
	registerNewsletterRoutes(api, nlSvc)

	for _, r := range e.Routes() {
		log.Debugf("Route %v %v", r.Method, r.Path)
	}

	// ======================
	// SERVER
	// ======================
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		pending.Run(gctx)
		return nil
	})
	g.Go(func() error {
		log.Infof("Listening on :%v", cfg.Port)
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
