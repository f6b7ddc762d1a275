package main

import (
	"context"
	accountshandler "railbook/internal/accounts/handler"
	accountsrepo "railbook/internal/accounts/repository"
	accountsservice "railbook/internal/accounts/service"
	accountsvalidator "railbook/internal/accounts/validator"
	bookinghandler "railbook/internal/booking/handler"
	bookingservice "railbook/internal/booking/service"
	bookingvalidator "railbook/internal/booking/validator"
	"railbook/internal/events"
	"railbook/internal/memstore"
	reservationshandler "railbook/internal/reservations/handler"
	reservationsrepo "railbook/internal/reservations/repository"
	reservationsservice "railbook/internal/reservations/service"
	trainshandler "railbook/internal/trains/handler"
	trainsrepo "railbook/internal/trains/repository"
	trainsservice "railbook/internal/trains/service"
	trainsvalidator "railbook/internal/trains/validator"
	"railbook/pkg/app"
	"railbook/pkg/config"
	"railbook/pkg/contracts"
	"railbook/pkg/db"
	mongodb "railbook/pkg/db/mongo"
	"railbook/pkg/db/postgres"
	"railbook/pkg/kafka"
	kafkaconfig "railbook/pkg/kafka/config"
	kafkamiddleware "railbook/pkg/kafka/middleware"
	"railbook/pkg/middleware"
	"railbook/pkg/model"
	"railbook/pkg/password"
	"railbook/pkg/sealer"
)

const ServiceName = "railbook"

type stores struct {
	accounts     accountsrepo.AccountRepository
	trains       trainsrepo.TrainRepository
	reservations reservationsrepo.ReservationRepository
	tx           db.Transactor
	pinger       contracts.Pinger
}

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetStorage()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting railbook service", "storage_driver", cfg.StorageDriver)

	st := initStores(cfg)
	auth := initAuthenticator(cfg)
	publisher := initPublisher(cfg)

	trains := trainsservice.NewTrainService(st.trains, trainsvalidator.NewTrainValidator(cfg.Log), cfg)
	accounts := accountsservice.NewAccountService(
		st.accounts,
		st.tx,
		accountsvalidator.NewAccountValidator(cfg.Log),
		password.NewHasher(cfg.BcryptCost),
		auth,
		cfg,
	)
	bootstrapAdmin(cfg, accounts)
	reservations := reservationsservice.NewReservationService(st.reservations, cfg)
	booking := bookingservice.NewBookingService(
		trains,
		accounts,
		reservations,
		st.tx,
		publisher,
		bookingvalidator.NewBookingValidator(cfg.Log, cfg.MaxSeatsPerBooking),
		cfg,
	)
	cfg.Log.Info("Services initialized")

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(st.pinger,
		accountshandler.NewAccountHandler(accounts, auth, cfg.Log),
		trainshandler.NewTrainHandler(trains, auth, cfg.Log),
		bookinghandler.NewBookingHandler(booking, auth, cfg.Log),
		reservationshandler.NewReservationHandler(reservations, auth, cfg.Log),
	)
	serverApp.OnShutdown("event publisher", publisher.Close)
	serverApp.Run()
}

// bootstrapAdmin is the only way to obtain the first admin account. Further
// admins are created by an admin over the API.
func bootstrapAdmin(cfg *config.Config, accounts accountsservice.AccountService) {
	if cfg.AdminUserName == "" {
		cfg.Log.Info("No bootstrap admin configured")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout)
	defer cancel()

	err := accounts.EnsureAdmin(ctx, &model.Registration{
		UserName: cfg.AdminUserName,
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
	})
	if err != nil {
		cfg.Log.Fatal("Failed to bootstrap admin account", "user_name", cfg.AdminUserName, "error", err)
	}
}

func initStores(cfg *config.Config) stores {
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		return stores{
			accounts:     accountsrepo.NewPostgresAccountRepository(cfg),
			trains:       trainsrepo.NewPostgresTrainRepository(cfg),
			reservations: reservationsrepo.NewPostgresReservationRepository(cfg),
			tx:           postgres.NewTransactionManager(cfg.Client.Postgres),
			pinger:       cfg.Client,
		}
	case config.StorageMemory:
		cfg.Log.Warn("Using in-memory storage, data is lost on restart")
		store := memstore.New()
		return stores{
			accounts:     store.Accounts(),
			trains:       store.Trains(),
			reservations: store.Reservations(),
			tx:           store,
			pinger:       store,
		}
	default:
		return stores{
			accounts:     accountsrepo.NewMongoAccountRepository(cfg),
			trains:       trainsrepo.NewMongoTrainRepository(cfg),
			reservations: reservationsrepo.NewMongoReservationRepository(cfg),
			tx:           mongodb.NewTransactionManager(cfg.Client.Mongo),
			pinger:       cfg.Client,
		}
	}
}

// initAuthenticator falls back to a random key, which invalidates every
// session on restart.
func initAuthenticator(cfg *config.Config) *middleware.Authenticator {
	key := cfg.SessionKey
	if key == "" {
		generated, err := sealer.GenerateKey()
		if err != nil {
			cfg.Log.Fatal("Failed to generate session key", "error", err)
		}
		cfg.Log.Warn("SESSION_KEY not set, sessions will not survive a restart")
		key = generated
	}

	s, err := sealer.New(key)
	if err != nil {
		cfg.Log.Fatal("Invalid session key", "error", err)
	}
	return middleware.NewAuthenticator(s, cfg.SessionTTL, cfg.Log)
}

func initPublisher(cfg *config.Config) events.Publisher {
	if !cfg.EventsEnabled {
		cfg.Log.Info("Reservation events disabled")
		return events.NewNopPublisher()
	}

	kafkaCfg, err := kafkaconfig.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log)

	producer, err := kafka.NewProducer(kafkaCfg, cfg.EventsTopic, cfg.EventsDLQTopic, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	producer.Use(kafkamiddleware.LoggingProducerMiddleware(cfg.Log))
	producer.Use(kafkamiddleware.NewMetrics().ProducerMiddleware())

	cfg.Log.Info("Reservation events enabled", "topic", cfg.EventsTopic)
	return events.NewKafkaPublisher(producer, ServiceName)
}
