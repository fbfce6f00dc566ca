package main

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"sunatstock/config"
	"sunatstock/internal/database"
	"sunatstock/internal/logging"
	"sunatstock/internal/rpc"
	"sunatstock/internal/services/inventory/handler"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "inventory",
		Short: "SunatStock inventory gRPC service",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the inventory gRPC server",
		RunE: func(cmd *cobra.Command, args []string) error {
			listen, _ := cmd.Flags().GetString("listen")
			return runServer(listen)
		},
	}
	cmd.Flags().String("listen", "", "Listen address (defaults to the port of INVENTORY_GRPC_ADDR)")
	return cmd
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the inventory schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig()
			db, err := database.NewConnection(cfg.DB.Driver, cfg.DB.InventoryDSN)
			if err != nil {
				return err
			}
			if err := database.MigrateInventoryDB(db); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Println("Inventory schema is up to date.")
			return nil
		},
	}
}

func runServer(listen string) error {
	cfg := config.LoadConfig()
	logger := logging.New(cfg.Env, "inventory")

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	redisClient, err := config.NewRedisClient(cfg.Redis)
	if err != nil {
		logger.Warn().Err(err).Msg("redis unavailable, caching disabled")
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	db, err := database.NewConnection(cfg.DB.Driver, cfg.DB.InventoryDSN)
	if err != nil {
		return fmt.Errorf("failed to connect to db: %w", err)
	}

	if err := database.MigrateInventoryDB(db); err != nil {
		return fmt.Errorf("failed to migrate inventory database: %w", err)
	}

	if listen == "" {
		listen, err = listenAddr(cfg.GRPC.InventoryAddr)
		if err != nil {
			return err
		}
	}
	lis, err := net.Listen("tcp", listen)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	s := grpc.NewServer(grpc.ChainUnaryInterceptor(rpc.LoggingInterceptor(logger)))

	inventoryHandler := handler.NewInventoryHandler(db, redisClient, logger, handler.WithLocation(loc))
	rpc.RegisterInventoryService(s, inventoryHandler)

	healthServer := health.NewServer()
	healthServer.SetServingStatus(rpc.InventoryServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(s, healthServer)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logger.Info().Msg("shutting down inventory service")
		healthServer.Shutdown()
		s.GracefulStop()
	}()

	logger.Info().Str("addr", lis.Addr().String()).Str("timezone", loc.String()).Msg("inventory service listening")
	if err := s.Serve(lis); err != nil {
		return fmt.Errorf("failed to serve: %w", err)
	}
	return nil
}

// listenAddr keeps only the port of a dial address so the server binds all
// interfaces.
func listenAddr(dialAddr string) (string, error) {
	_, port, err := net.SplitHostPort(dialAddr)
	if err != nil {
		return "", fmt.Errorf("invalid address %q: %w", dialAddr, err)
	}
	return ":" + port, nil
}
