package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/greenharvest/shop/internal/config"
	"github.com/greenharvest/shop/internal/coupon"
	"github.com/greenharvest/shop/internal/es"
	"github.com/greenharvest/shop/internal/handlers"
	"github.com/greenharvest/shop/internal/httpserver"
	"github.com/greenharvest/shop/internal/logging"
	"github.com/greenharvest/shop/internal/mykafka"
	"github.com/greenharvest/shop/internal/store"
)

const productIndex = "products"

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)

	st, err := store.Connect(context.Background(), configuration.MONGO_URI, configuration.MONGO_DB)
	if err != nil {
		log.Fatalf("mongo connect error: %v", err)
	}

	var prod *mykafka.Producer
	if configuration.KAFKA_ADDRESS != "" {
		brokers := []string{configuration.KAFKA_ADDRESS}
		topics := []string{"user_events", "cart_events", "order_events", "product_events", "wishlist_events"}
		prod, err = mykafka.NewProducer(brokers, topics)
		if err != nil {
			log.Fatal(err)
		}
	} else {
		logger.Warn("KAFKA_ADDRESS not set, domain events disabled")
	}

	var esClient *elasticsearch.Client
	if configuration.ES_URL != "" {
		esClient, err = es.NewClient(configuration)
		if err != nil {
			log.Fatalf("elasticsearch connect error: %v", err)
		}
	} else {
		logger.Warn("ES_URL not set, product search disabled")
	}

	jwtSecret := []byte(configuration.JWT_SECRET)
	coupons := coupon.Default()

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := logging.IntoContext(c.Request().Context(), logger)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	})

	deps := httpserver.Deps{
		Auth:  &handlers.AuthMiddleware{JWTSecret: jwtSecret},
		AuthH: &handlers.AuthHandler{Users: st.Users, Producer: prod, JWTSecret: jwtSecret, Env: configuration.ENVIRONMENT},
		Products: &handlers.ProductHandler{
			Products: st.Products, Producer: prod,
			ES: esClient, ESIndex: productIndex, Env: configuration.ENVIRONMENT,
		},
		Carts: &handlers.CartHandler{
			Carts: st.Carts, Products: st.Products, Coupons: coupons,
			Producer: prod, Env: configuration.ENVIRONMENT,
		},
		Orders: &handlers.OrderHandler{
			Orders: st.Orders, Carts: st.Carts, Products: st.Products,
			Producer: prod, Env: configuration.ENVIRONMENT,
		},
		Wishlist: &handlers.WishlistHandler{
			Wishlists: st.Wishlists, Products: st.Products,
			Producer: prod, Env: configuration.ENVIRONMENT,
		},
		Search: &handlers.SearchHandler{ES: esClient, Index: productIndex, Env: configuration.ENVIRONMENT},
	}
	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         configuration.LISTEN_ADDR,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()
	logger.Info("server started", "addr", configuration.LISTEN_ADDR)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}
	if err := st.Close(ctx); err != nil {
		log.Printf("mongo close error: %v", err)
	}
	if err := prod.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	log.Println("shutdown complete")
}
