package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"

	"github.com/jhoicas/stockmaster-api/internal/application/auth"
	"github.com/jhoicas/stockmaster-api/internal/application/inventory"
	"github.com/jhoicas/stockmaster-api/internal/application/reconciler"
	"github.com/jhoicas/stockmaster-api/internal/application/usecase"
	"github.com/jhoicas/stockmaster-api/internal/domain/repository"
	"github.com/jhoicas/stockmaster-api/internal/infrastructure/mail"
	"github.com/jhoicas/stockmaster-api/internal/infrastructure/memory"
	"github.com/jhoicas/stockmaster-api/internal/infrastructure/otp"
	infrapdf "github.com/jhoicas/stockmaster-api/internal/infrastructure/pdf"
	"github.com/jhoicas/stockmaster-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/stockmaster-api/internal/interfaces/http"
	"github.com/jhoicas/stockmaster-api/pkg/config"
	"github.com/jhoicas/stockmaster-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
		App:   cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Ledger Store: postgres (con migraciones) o memoria para desarrollo.
	var (
		txRunner repository.TxRunner
		repos    repository.Repositories
	)
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		store := memory.NewStore()
		txRunner, repos = store, store.Repositories()
		log.Warn().Msg("store en memoria: los datos se pierden al reiniciar")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		applied, err := postgres.Migrate(ctx, pool)
		if err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		if len(applied) > 0 {
			log.Info().Strs("migrations", applied).Msg("migraciones aplicadas")
		}
		txRunner, repos = postgres.NewTxRunner(pool), postgres.NewRepositories(pool)
	}

	// OTP: Redis compartido si hay REDIS_ADDR, si no memoria con janitor.
	var otpStore auth.OTPStore
	if cfg.Redis.Addr != "" {
		rdb, err := otp.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		otpStore = otp.NewRedisStore(rdb, cfg.OTP.MaxAttempts)
	} else {
		mem := otp.NewMemoryStore(cfg.OTP.MaxAttempts)
		otpStore = mem
		otpLog := log.Component("otp")
		go otp.RunJanitor(ctx, mem, time.Minute, func(n int, err error) {
			if err != nil {
				otpLog.Error().Err(err).Msg("purga de OTP")
				return
			}
			if n > 0 {
				otpLog.Debug().Int("purged", n).Msg("OTP vencidos eliminados")
			}
		})
	}

	sender := mail.NewSender(cfg.Mail)
	if !cfg.Mail.Configured() {
		log.Warn().Msg("SMTP no configurado: los OTP se devuelven en la respuesta")
	}

	accountant := inventory.NewStockAccountant(log.Component("inventory"))
	deps := httpRouter.RouterDeps{
		ProductUC:     usecase.NewProductUseCase(txRunner, repos.Products),
		OperationUC:   usecase.NewOperationUseCase(txRunner, repos.Operations, repos.StockMoves),
		StockMoveUC:   inventory.NewStockMoveUseCase(txRunner, repos.StockMoves, accountant, log.Component("inventory")),
		Replenishment: inventory.NewReplenishmentUseCase(repos.Products, infrapdf.NewMarotoStockReport()),
		Reconciler:    reconciler.NewReconciler(txRunner, repos, accountant, log.Component("sync")),
		AuthUC: auth.NewAuthUseCase(repos.Users, otpStore, sender, auth.Config{
			OTPTTL:    cfg.OTP.TTL(),
			OTPLength: cfg.OTP.Length,
		}, log.Component("auth")),
		UserUC: usecase.NewUserUseCase(repos.Users),
		Session: httpRouter.SessionConfig{
			Secret:     cfg.JWT.Secret,
			Issuer:     cfg.JWT.Issuer,
			ExpMinutes: cfg.JWT.Expiration,
		},
		Log: log.Component("http"),
	}

	app := httpRouter.NewApp(cfg.App.Name, log.Component("http"))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "StockMaster API",
		}))
	}

	httpRouter.Router(app, deps)

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
