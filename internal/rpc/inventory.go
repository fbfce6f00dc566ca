package rpc

import (
	"context"

	"google.golang.org/grpc"

	"sunatstock/internal/api"
)

const InventoryServiceName = "sunatstock.inventory.v1.InventoryService"

// InventoryService is implemented by the inventory handler on the server
// side and by InventoryClient on the gateway side. Methods returning a nil
// item with a nil error mean the item does not exist.
type InventoryService interface {
	CreateMedicalItem(ctx context.Context, req api.CreateMedicalItemRequest) (*api.MedicalItem, error)
	UpdateMedicalItem(ctx context.Context, req api.UpdateMedicalItemRequest) (*api.MedicalItem, error)
	GetMedicalItems(ctx context.Context, filter *api.StockFilter) ([]api.MedicalItem, error)
	GetMedicalItem(ctx context.Context, id int64) (*api.MedicalItem, error)
	GetLowStockItems(ctx context.Context) ([]api.MedicalItem, error)
	RestockItem(ctx context.Context, req api.RestockItemRequest) (*api.MedicalItem, error)
	GetStockHistory(ctx context.Context, itemID int64) ([]api.StockTransaction, error)
	CreateProcedure(ctx context.Context, req api.CreateProcedureRequest) (*api.CircumcisionProcedure, error)
	GetProcedures(ctx context.Context, dateRange *api.DateRange) ([]api.CircumcisionProcedure, error)
	GetDashboardStats(ctx context.Context) (*api.DashboardStats, error)
	GetUsageReport(ctx context.Context, dateRange api.DateRange) ([]api.UsageReportItem, error)
}

func inventory(srv interface{}) InventoryService {
	return srv.(InventoryService)
}

var inventoryServiceDesc = grpc.ServiceDesc{
	ServiceName: InventoryServiceName,
	HandlerType: (*InventoryService)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "CreateMedicalItem",
			Handler: unary(InventoryServiceName, "CreateMedicalItem",
				func(srv interface{}, ctx context.Context, req *api.CreateMedicalItemRequest) (*api.MedicalItem, error) {
					return inventory(srv).CreateMedicalItem(ctx, *req)
				}),
		},
		{
			MethodName: "UpdateMedicalItem",
			Handler: unary(InventoryServiceName, "UpdateMedicalItem",
				func(srv interface{}, ctx context.Context, req *api.UpdateMedicalItemRequest) (api.ItemResponse, error) {
					item, err := inventory(srv).UpdateMedicalItem(ctx, *req)
					return api.ItemResponse{Item: item}, err
				}),
		},
		{
			MethodName: "GetMedicalItems",
			Handler: unary(InventoryServiceName, "GetMedicalItems",
				func(srv interface{}, ctx context.Context, req *api.StockFilter) (api.ItemsResponse, error) {
					items, err := inventory(srv).GetMedicalItems(ctx, req)
					return api.ItemsResponse{Items: items}, err
				}),
		},
		{
			MethodName: "GetMedicalItem",
			Handler: unary(InventoryServiceName, "GetMedicalItem",
				func(srv interface{}, ctx context.Context, req *api.ItemRequest) (api.ItemResponse, error) {
					item, err := inventory(srv).GetMedicalItem(ctx, req.ID)
					return api.ItemResponse{Item: item}, err
				}),
		},
		{
			MethodName: "GetLowStockItems",
			Handler: unary(InventoryServiceName, "GetLowStockItems",
				func(srv interface{}, ctx context.Context, _ *api.Empty) (api.ItemsResponse, error) {
					items, err := inventory(srv).GetLowStockItems(ctx)
					return api.ItemsResponse{Items: items}, err
				}),
		},
		{
			MethodName: "RestockItem",
			Handler: unary(InventoryServiceName, "RestockItem",
				func(srv interface{}, ctx context.Context, req *api.RestockItemRequest) (api.ItemResponse, error) {
					item, err := inventory(srv).RestockItem(ctx, *req)
					return api.ItemResponse{Item: item}, err
				}),
		},
		{
			MethodName: "GetStockHistory",
			Handler: unary(InventoryServiceName, "GetStockHistory",
				func(srv interface{}, ctx context.Context, req *api.StockHistoryRequest) (api.StockHistoryResponse, error) {
					txs, err := inventory(srv).GetStockHistory(ctx, req.ItemID)
					return api.StockHistoryResponse{Transactions: txs}, err
				}),
		},
		{
			MethodName: "CreateProcedure",
			Handler: unary(InventoryServiceName, "CreateProcedure",
				func(srv interface{}, ctx context.Context, req *api.CreateProcedureRequest) (*api.CircumcisionProcedure, error) {
					return inventory(srv).CreateProcedure(ctx, *req)
				}),
		},
		{
			MethodName: "GetProcedures",
			Handler: unary(InventoryServiceName, "GetProcedures",
				func(srv interface{}, ctx context.Context, req *api.ProceduresRequest) (api.ProceduresResponse, error) {
					procs, err := inventory(srv).GetProcedures(ctx, req.DateRange)
					return api.ProceduresResponse{Procedures: procs}, err
				}),
		},
		{
			MethodName: "GetDashboardStats",
			Handler: unary(InventoryServiceName, "GetDashboardStats",
				func(srv interface{}, ctx context.Context, _ *api.Empty) (*api.DashboardStats, error) {
					return inventory(srv).GetDashboardStats(ctx)
				}),
		},
		{
			MethodName: "GetUsageReport",
			Handler: unary(InventoryServiceName, "GetUsageReport",
				func(srv interface{}, ctx context.Context, req *api.DateRange) (api.UsageReportResponse, error) {
					rows, err := inventory(srv).GetUsageReport(ctx, *req)
					return api.UsageReportResponse{Items: rows}, err
				}),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "sunatstock/inventory/v1/inventory.proto",
}

func RegisterInventoryService(s grpc.ServiceRegistrar, srv InventoryService) {
	s.RegisterService(&inventoryServiceDesc, srv)
}

// InventoryClient calls a remote InventoryService.
type InventoryClient struct {
	cc grpc.ClientConnInterface
}

var _ InventoryService = (*InventoryClient)(nil)

func NewInventoryClient(cc grpc.ClientConnInterface) *InventoryClient {
	return &InventoryClient{cc: cc}
}

func (c *InventoryClient) call(ctx context.Context, method string, req, resp interface{}) error {
	return invoke(ctx, c.cc, InventoryServiceName, method, req, resp)
}

func (c *InventoryClient) CreateMedicalItem(ctx context.Context, req api.CreateMedicalItemRequest) (*api.MedicalItem, error) {
	var out api.MedicalItem
	if err := c.call(ctx, "CreateMedicalItem", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *InventoryClient) UpdateMedicalItem(ctx context.Context, req api.UpdateMedicalItemRequest) (*api.MedicalItem, error) {
	var out api.ItemResponse
	if err := c.call(ctx, "UpdateMedicalItem", req, &out); err != nil {
		return nil, err
	}
	return out.Item, nil
}

func (c *InventoryClient) GetMedicalItems(ctx context.Context, filter *api.StockFilter) ([]api.MedicalItem, error) {
	if filter == nil {
		filter = &api.StockFilter{}
	}
	var out api.ItemsResponse
	if err := c.call(ctx, "GetMedicalItems", filter, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

func (c *InventoryClient) GetMedicalItem(ctx context.Context, id int64) (*api.MedicalItem, error) {
	var out api.ItemResponse
	if err := c.call(ctx, "GetMedicalItem", api.ItemRequest{ID: id}, &out); err != nil {
		return nil, err
	}
	return out.Item, nil
}

func (c *InventoryClient) GetLowStockItems(ctx context.Context) ([]api.MedicalItem, error) {
	var out api.ItemsResponse
	if err := c.call(ctx, "GetLowStockItems", api.Empty{}, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

func (c *InventoryClient) RestockItem(ctx context.Context, req api.RestockItemRequest) (*api.MedicalItem, error) {
	var out api.ItemResponse
	if err := c.call(ctx, "RestockItem", req, &out); err != nil {
		return nil, err
	}
	return out.Item, nil
}

func (c *InventoryClient) GetStockHistory(ctx context.Context, itemID int64) ([]api.StockTransaction, error) {
	var out api.StockHistoryResponse
	if err := c.call(ctx, "GetStockHistory", api.StockHistoryRequest{ItemID: itemID}, &out); err != nil {
		return nil, err
	}
	return out.Transactions, nil
}

func (c *InventoryClient) CreateProcedure(ctx context.Context, req api.CreateProcedureRequest) (*api.CircumcisionProcedure, error) {
	var out api.CircumcisionProcedure
	if err := c.call(ctx, "CreateProcedure", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *InventoryClient) GetProcedures(ctx context.Context, dateRange *api.DateRange) ([]api.CircumcisionProcedure, error) {
	var out api.ProceduresResponse
	if err := c.call(ctx, "GetProcedures", api.ProceduresRequest{DateRange: dateRange}, &out); err != nil {
		return nil, err
	}
	return out.Procedures, nil
}

func (c *InventoryClient) GetDashboardStats(ctx context.Context) (*api.DashboardStats, error) {
	var out api.DashboardStats
	if err := c.call(ctx, "GetDashboardStats", api.Empty{}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *InventoryClient) GetUsageReport(ctx context.Context, dateRange api.DateRange) ([]api.UsageReportItem, error) {
	var out api.UsageReportResponse
	if err := c.call(ctx, "GetUsageReport", dateRange, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}
