package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"

	"github.com/MarcGrol/marketplace/lib/myauth"
	"github.com/MarcGrol/marketplace/lib/myconfig"
	"github.com/MarcGrol/marketplace/lib/mylog"
	"github.com/MarcGrol/marketplace/lib/mymetrics"
	"github.com/MarcGrol/marketplace/lib/mypublisher"
	"github.com/MarcGrol/marketplace/lib/mypubsub"
	"github.com/MarcGrol/marketplace/lib/myqueue"
	"github.com/MarcGrol/marketplace/lib/mystore"
	"github.com/MarcGrol/marketplace/lib/mytime"
	"github.com/MarcGrol/marketplace/lib/myuuid"
	"github.com/MarcGrol/marketplace/services/cart"
	"github.com/MarcGrol/marketplace/services/catalog"
	"github.com/MarcGrol/marketplace/services/checkout"
	"github.com/MarcGrol/marketplace/services/checkoutevents"
	"github.com/MarcGrol/marketplace/services/checkoutreturn"
	"github.com/MarcGrol/marketplace/services/library"
	"github.com/MarcGrol/marketplace/services/reviews"
	"github.com/MarcGrol/marketplace/services/warmup"
)

func main() {
	configFile := flag.String("config", "", "optional yaml config file")
	flag.Parse()

	c := context.Background()

	cfg, err := myconfig.Load(*configFile)
	if err != nil {
		log.Fatalf("Error loading config: %s", err)
	}

	if cfg.Log.File != "" {
		closeLog := mylog.RotateToFile(cfg.Log.File)
		defer closeLog()
	}

	router := mux.NewRouter()
	router.Use(mymetrics.Middleware)
	mymetrics.RegisterEndpoints(router)

	cleanup, err := registerServices(c, cfg, router)
	if err != nil {
		log.Fatalf("Error wiring services: %s", err)
	}
	defer cleanup()

	startWebServerBlocking(c, cfg.HTTP.Port, router)
}

func registerServices(c context.Context, cfg myconfig.Config, router *mux.Router) (func(), error) {
	cleanups := []func(){}
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	nower := mytime.RealNower{}
	uuider := myuuid.RealUUIDer{}
	authenticator := myauth.New(cfg.Auth.JWTSecret, cfg.Auth.Issuer)

	repo, repoCleanup, err := catalog.NewSQLRepository(c, cfg.Catalog.DSN)
	if err != nil {
		return cleanup, fmt.Errorf("error creating catalog: %s", err)
	}
	cleanups = append(cleanups, repoCleanup)

	checks := map[string]warmup.Check{
		"catalog": func(c context.Context) error {
			_, err := repo.ListCategories(c)
			return err
		},
	}

	cartStorage, libraryCache, redisCheck, redisCleanup := newCaches(cfg)
	cleanups = append(cleanups, redisCleanup)
	if redisCheck != nil {
		checks["redis"] = redisCheck
	}

	pubsub, pubsubCleanup, err := mypubsub.New(c)
	if err != nil {
		return cleanup, fmt.Errorf("error creating pubsub: %s", err)
	}
	cleanups = append(cleanups, pubsubCleanup)

	queue, queueCleanup, err := myqueue.New(c, cfg.App.URL)
	if err != nil {
		return cleanup, fmt.Errorf("error creating queue: %s", err)
	}
	cleanups = append(cleanups, queueCleanup)

	publisher, publisherCleanup, err := mypublisher.New(c, pubsub, queue, nower)
	if err != nil {
		return cleanup, fmt.Errorf("error creating publisher: %s", err)
	}
	cleanups = append(cleanups, publisherCleanup)
	publisher.RegisterEndpoints(c, router)

	err = publisher.CreateTopic(c, checkoutevents.TopicName)
	if err != nil {
		return cleanup, fmt.Errorf("error creating topic %s: %s", checkoutevents.TopicName, err)
	}

	checkoutStore, checkoutStoreCleanup, err := mystore.New[checkout.CheckoutContext](c)
	if err != nil {
		return cleanup, fmt.Errorf("error creating checkout store: %s", err)
	}
	cleanups = append(cleanups, checkoutStoreCleanup)

	orderStore, orderStoreCleanup, err := mystore.New[library.Order](c)
	if err != nil {
		return cleanup, fmt.Errorf("error creating order store: %s", err)
	}
	cleanups = append(cleanups, orderStoreCleanup)

	reviewStore, reviewStoreCleanup, err := mystore.New[reviews.Review](c)
	if err != nil {
		return cleanup, fmt.Errorf("error creating review store: %s", err)
	}
	cleanups = append(cleanups, reviewStoreCleanup)

	processor, err := newProcessor(cfg)
	if err != nil {
		return cleanup, err
	}

	warmup.NewService(checks).RegisterEndpoints(c, router)
	catalog.NewWebService(repo).RegisterEndpoints(c, router)
	cart.NewWebService(cartStorage, uuider).RegisterEndpoints(c, router)

	reviewService := reviews.NewWebService(authenticator, nower, uuider, repo, reviewStore)
	reviewService.RegisterEndpoints(c, router)

	libraryService := library.NewWebService(cfg.App.URL, authenticator, repo, orderStore, reviewService, libraryCache, pubsub)
	err = libraryService.RegisterEndpoints(c, router)
	if err != nil {
		return cleanup, err
	}

	checkoutService := checkout.NewWebService(checkout.Config{
		AppURL:              cfg.App.URL,
		FeePercentage:       cfg.Payment.FeePercentage,
		Currency:            cfg.Payment.Currency,
		StripeWebhookSecret: cfg.Payment.StripeWebhookSecret,
	}, authenticator, nower, repo, processor, checkoutStore, publisher, libraryService)
	checkoutService.RegisterEndpoints(c, router)

	reconciler := checkoutreturn.NewReconciler(checkoutService, checkoutService, libraryService)
	checkoutreturn.NewWebService(authenticator, cartStorage, uuider, reconciler).RegisterEndpoints(c, router)

	return cleanup, nil
}

// newCaches prefers redis and falls back to process memory for local development
func newCaches(cfg myconfig.Config) (cart.Storage, library.Cache, warmup.Check, func()) {
	if cfg.Redis.Addr == "" {
		return cart.NewInMemoryStorage(), library.NewInMemoryCache(), nil, func() {}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
	})

	ping := func(c context.Context) error {
		return client.Ping(c).Err()
	}

	return cart.NewRedisStorage(client), library.NewRedisCache(client, cfg.Library.CacheTTL), ping, func() {
		client.Close()
	}
}

func newProcessor(cfg myconfig.Config) (checkout.Processor, error) {
	switch cfg.Payment.Provider {
	case myconfig.ProviderMollie:
		processor, err := checkout.NewMollieProcessor(cfg.Payment.MollieAPIKey, cfg.Payment.MollieTestMode, cfg.Payment.Timeout)
		if err != nil {
			return nil, fmt.Errorf("error creating mollie processor: %s", err)
		}
		return checkout.NewGuardedProcessor(processor), nil
	default:
		return checkout.NewGuardedProcessor(checkout.NewStripeProcessor(cfg.Payment.StripeSecretKey, cfg.Payment.Timeout)), nil
	}
}

func startWebServerBlocking(c context.Context, port string, router *mux.Router) {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("Starting webserver on port %s (try http://localhost:%s)", port, port)
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Error starting webserver on port %s: %s", port, err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(c, 10*time.Second)
	defer cancel()

	err := srv.Shutdown(shutdownCtx)
	if err != nil {
		log.Printf("Error shutting down webserver: %s", err)
	}
}
