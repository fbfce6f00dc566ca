package clients

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/connectivity"
	"google.golang.org/grpc/credentials/insecure"

	"sunatstock/config"
	"sunatstock/internal/rpc"
)

type GRPCClients struct {
	User          rpc.UserService
	Inventory     rpc.InventoryService
	userConn      *grpc.ClientConn
	inventoryConn *grpc.ClientConn
}

// NewGRPCClients prepares connections to both services. Connections are
// established lazily on the first call.
func NewGRPCClients(cfg config.GRPCConfig) (*GRPCClients, error) {
	userConn, err := grpc.NewClient(cfg.UserAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("user service connection failed: %w", err)
	}

	inventoryConn, err := grpc.NewClient(cfg.InventoryAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		userConn.Close()
		return nil, fmt.Errorf("inventory service connection failed: %w", err)
	}

	return &GRPCClients{
		User:          rpc.NewUserClient(userConn),
		Inventory:     rpc.NewInventoryClient(inventoryConn),
		userConn:      userConn,
		inventoryConn: inventoryConn,
	}, nil
}

func (c *GRPCClients) Close() {
	if c.userConn != nil {
		c.userConn.Close()
	}
	if c.inventoryConn != nil {
		c.inventoryConn.Close()
	}
}

// ServiceStates reports the connectivity of each backend, waiting up to
// timeout for idle connections to come up.
func (c *GRPCClients) ServiceStates(ctx context.Context, timeout time.Duration) map[string]string {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return map[string]string{
		"user":      connState(ctx, c.userConn),
		"inventory": connState(ctx, c.inventoryConn),
	}
}

func connState(ctx context.Context, conn *grpc.ClientConn) string {
	if conn == nil {
		return connectivity.Shutdown.String()
	}
	state := conn.GetState()
	if state == connectivity.Idle {
		conn.Connect()
	}
	for state != connectivity.Ready {
		if !conn.WaitForStateChange(ctx, state) {
			break
		}
		state = conn.GetState()
	}
	return state.String()
}
