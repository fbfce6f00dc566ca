package main

import (
	"context"
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
	"sunatstock/internal/services/user/handler"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "user",
		Short: "SunatStock user (login) gRPC service",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(createUserCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the user gRPC server",
		RunE: func(cmd *cobra.Command, args []string) error {
			listen, _ := cmd.Flags().GetString("listen")
			return runServer(listen)
		},
	}
	cmd.Flags().String("listen", "", "Listen address (defaults to the port of USER_GRPC_ADDR)")
	return cmd
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the user schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig()
			db, err := database.NewConnection(cfg.DB.Driver, cfg.DB.UserDSN)
			if err != nil {
				return err
			}
			if err := database.MigrateUserDB(db); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Println("User schema is up to date.")
			return nil
		},
	}
}

func createUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Add a staff account",
		RunE: func(cmd *cobra.Command, args []string) error {
			username, _ := cmd.Flags().GetString("username")
			password, _ := cmd.Flags().GetString("password")
			fullName, _ := cmd.Flags().GetString("full-name")

			cfg := config.LoadConfig()
			logger := logging.New(cfg.Env, "user")

			db, err := database.NewConnection(cfg.DB.Driver, cfg.DB.UserDSN)
			if err != nil {
				return err
			}
			if err := database.MigrateUserDB(db); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			user, err := handler.NewUserHandler(db, logger).CreateUser(context.Background(), username, password, fullName)
			if err != nil {
				return err
			}
			fmt.Printf("Created user %q with ID %d.\n", user.Username, user.ID)
			return nil
		},
	}
	cmd.Flags().String("username", "", "Login name")
	cmd.Flags().String("password", "", "Password")
	cmd.Flags().String("full-name", "", "Display name")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	_ = cmd.MarkFlagRequired("full-name")
	return cmd
}

func runServer(listen string) error {
	cfg := config.LoadConfig()
	logger := logging.New(cfg.Env, "user")

	db, err := database.NewConnection(cfg.DB.Driver, cfg.DB.UserDSN)
	if err != nil {
		return fmt.Errorf("failed to connect to db: %w", err)
	}

	if err := database.MigrateUserDB(db); err != nil {
		return fmt.Errorf("failed to migrate user database: %w", err)
	}

	if listen == "" {
		_, port, err := net.SplitHostPort(cfg.GRPC.UserAddr)
		if err != nil {
			return fmt.Errorf("invalid USER_GRPC_ADDR %q: %w", cfg.GRPC.UserAddr, err)
		}
		listen = ":" + port
	}
	lis, err := net.Listen("tcp", listen)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	s := grpc.NewServer(grpc.ChainUnaryInterceptor(rpc.LoggingInterceptor(logger)))

	userHandler := handler.NewUserHandler(db, logger)
	rpc.RegisterUserService(s, userHandler)

	healthServer := health.NewServer()
	healthServer.SetServingStatus(rpc.UserServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(s, healthServer)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logger.Info().Msg("shutting down user service")
		healthServer.Shutdown()
		s.GracefulStop()
	}()

	logger.Info().Str("addr", lis.Addr().String()).Msg("user service listening")
	if err := s.Serve(lis); err != nil {
		return fmt.Errorf("failed to serve: %w", err)
	}
	return nil
}
