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

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"sunatstock/config"
	"sunatstock/internal/blob"
	"sunatstock/internal/blob/local"
	"sunatstock/internal/blob/s3"
	"sunatstock/internal/gateway"
	"sunatstock/internal/gateway/clients"
	"sunatstock/internal/logging"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gateway",
		Short: "SunatStock HTTP gateway",
	}

	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP gateway",
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, _ := cmd.Flags().GetString("addr")
			return runServer(addr)
		},
	}
	cmd.Flags().String("addr", "", "Listen address (defaults to GATEWAY_ADDR)")
	return cmd
}

func runServer(addr string) error {
	cfg := config.LoadConfig()
	logger := logging.New(cfg.Env, "gateway")

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	grpcClients, err := clients.NewGRPCClients(cfg.GRPC)
	if err != nil {
		return fmt.Errorf("failed to create grpc clients: %w", err)
	}
	defer grpcClients.Close()

	images, err := openImageStore(context.Background(), cfg.Blob)
	if err != nil {
		return fmt.Errorf("failed to open image store: %w", err)
	}

	router, err := gateway.NewRouter(gateway.RouterConfig{
		Inventory:   grpcClients.Inventory,
		User:        grpcClients.User,
		Images:      images,
		Location:    loc,
		Logger:      logger,
		RateLimit:   cfg.Gateway.RateLimit,
		CORSOrigins: cfg.Gateway.CORSOrigins,
		Health: func(ctx context.Context) map[string]string {
			return grpcClients.ServiceStates(ctx, 2*time.Second)
		},
	})
	if err != nil {
		return err
	}

	if addr == "" {
		addr = cfg.Gateway.Addr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().
			Str("addr", addr).
			Str("images", string(images.Driver())).
			Str("timezone", loc.String()).
			Msg("gateway listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("gateway error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down gateway")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

func openImageStore(ctx context.Context, cfg config.BlobConfig) (blob.Store, error) {
	switch blob.Driver(cfg.Driver) {
	case blob.DriverLocal, "":
		return local.New(cfg.LocalDir)
	case blob.DriverS3:
		return s3.New(ctx, s3.Config{
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			Endpoint:  cfg.S3Endpoint,
			PathStyle: cfg.S3PathStyle,
		})
	default:
		return nil, fmt.Errorf("unknown blob driver %q", cfg.Driver)
	}
}
