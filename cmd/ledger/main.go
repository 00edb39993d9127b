package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"

	pb "github.com/example/brokerage-ledger/api/gen/brokerage"
	"github.com/example/brokerage-ledger/internal/config"
	"github.com/example/brokerage-ledger/internal/ledger"
	"github.com/example/brokerage-ledger/internal/quotes"
	"github.com/example/brokerage-ledger/pkg/audit"
)

// BrokerageGRPCService exposes the ledger engine's command and query API.
type BrokerageGRPCService struct {
	pb.UnimplementedBrokerageServiceServer
	service *ledger.Service
	log     *slog.Logger
}

func NewBrokerageGRPCService(service *ledger.Service, log *slog.Logger) *BrokerageGRPCService {
	return &BrokerageGRPCService{service: service, log: log}
}

func (s *BrokerageGRPCService) Deposit(ctx context.Context, req *pb.DepositRequest) (*pb.CommandResponse, error) {
	if req.AccountID == "" {
		return nil, status.Error(codes.InvalidArgument, "account_id is required")
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid amount %q", req.Amount)
	}

	entry, err := s.service.Deposit(ctx, req.AccountID, amount)
	if err != nil {
		return nil, toStatus(err)
	}
	return &pb.CommandResponse{Entry: toProtoEntry(entry)}, nil
}

func (s *BrokerageGRPCService) Withdraw(ctx context.Context, req *pb.WithdrawRequest) (*pb.CommandResponse, error) {
	if req.AccountID == "" {
		return nil, status.Error(codes.InvalidArgument, "account_id is required")
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid amount %q", req.Amount)
	}

	entry, err := s.service.Withdraw(ctx, req.AccountID, amount)
	if err != nil {
		return nil, toStatus(err)
	}
	return &pb.CommandResponse{Entry: toProtoEntry(entry)}, nil
}

func (s *BrokerageGRPCService) Buy(ctx context.Context, req *pb.OrderRequest) (*pb.CommandResponse, error) {
	accountID, symbol, quantity, kind, err := parseOrder(req)
	if err != nil {
		return nil, err
	}

	entry, err := s.service.Buy(ctx, accountID, symbol, quantity, kind)
	if err != nil {
		return nil, toStatus(err)
	}
	return &pb.CommandResponse{Entry: toProtoEntry(entry)}, nil
}

func (s *BrokerageGRPCService) Sell(ctx context.Context, req *pb.OrderRequest) (*pb.CommandResponse, error) {
	accountID, symbol, quantity, kind, err := parseOrder(req)
	if err != nil {
		return nil, err
	}

	entry, err := s.service.Sell(ctx, accountID, symbol, quantity, kind)
	if err != nil {
		return nil, toStatus(err)
	}
	return &pb.CommandResponse{Entry: toProtoEntry(entry)}, nil
}

func (s *BrokerageGRPCService) GetBalance(ctx context.Context, req *pb.GetBalanceRequest) (*pb.GetBalanceResponse, error) {
	if req.AccountID == "" {
		return nil, status.Error(codes.InvalidArgument, "account_id is required")
	}

	snap, err := s.service.GetSnapshot(ctx, req.AccountID)
	if err != nil {
		return nil, toStatus(err)
	}

	return &pb.GetBalanceResponse{
		AccountID: req.AccountID,
		Balance:   snap.Balance.String(),
		Version:   snap.Version,
	}, nil
}

func (s *BrokerageGRPCService) GetPositions(ctx context.Context, req *pb.GetPositionsRequest) (*pb.GetPositionsResponse, error) {
	if req.AccountID == "" {
		return nil, status.Error(codes.InvalidArgument, "account_id is required")
	}

	positions, err := s.service.GetPositions(ctx, req.AccountID)
	if err != nil {
		return nil, toStatus(err)
	}

	resp := &pb.GetPositionsResponse{AccountID: req.AccountID}
	for _, p := range positions {
		resp.Positions = append(resp.Positions, &pb.Position{
			Symbol:         p.Symbol,
			Shares:         p.Shares.String(),
			InvestedAmount: p.InvestedAmount.String(),
		})
	}
	return resp, nil
}

func (s *BrokerageGRPCService) GetHistory(ctx context.Context, req *pb.GetHistoryRequest) (*pb.GetHistoryResponse, error) {
	if req.AccountID == "" {
		return nil, status.Error(codes.InvalidArgument, "account_id is required")
	}

	entries, err := s.service.GetHistory(ctx, req.AccountID)
	if err != nil {
		return nil, toStatus(err)
	}

	resp := &pb.GetHistoryResponse{AccountID: req.AccountID}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, toProtoEntry(e))
	}
	return resp, nil
}

func (s *BrokerageGRPCService) StreamUpdates(req *pb.StreamUpdatesRequest, stream pb.BrokerageService_StreamUpdatesServer) error {
	if req.AccountID == "" {
		return status.Error(codes.InvalidArgument, "account_id is required")
	}

	sub, err := s.service.Subscribe(stream.Context(), req.AccountID)
	if err != nil {
		return toStatus(err)
	}
	defer sub.Cancel()

	for {
		select {
		case <-stream.Context().Done():
			return nil
		case entry, ok := <-sub.Entries():
			if !ok {
				return nil
			}
			if err := stream.Send(toProtoEntry(entry)); err != nil {
				return err
			}
		}
	}
}

func parseOrder(req *pb.OrderRequest) (accountID, symbol string, quantity decimal.Decimal, kind ledger.QuantityKind, err error) {
	if req.AccountID == "" {
		return "", "", decimal.Zero, "", status.Error(codes.InvalidArgument, "account_id is required")
	}
	if req.Symbol == "" {
		return "", "", decimal.Zero, "", status.Error(codes.InvalidArgument, "symbol is required")
	}

	quantity, qerr := decimal.NewFromString(req.Quantity)
	if qerr != nil {
		return "", "", decimal.Zero, "", status.Errorf(codes.InvalidArgument, "invalid quantity %q", req.Quantity)
	}

	kind = ledger.QuantityKind(req.QuantityKind)
	if kind == "" {
		kind = ledger.QuantityShares
	}
	if !kind.IsValid() {
		return "", "", decimal.Zero, "", status.Errorf(codes.InvalidArgument, "invalid quantity_kind %q", req.QuantityKind)
	}

	return req.AccountID, req.Symbol, quantity, kind, nil
}

// toStatus maps the engine's error taxonomy onto gRPC codes. Business
// rejections are FailedPrecondition so clients can tell them apart from
// Aborted conflicts worth retrying.
func toStatus(err error) error {
	var ise *ledger.InsufficientSharesError
	switch {
	case errors.Is(err, ledger.ErrInvalidAmount):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, ledger.ErrInsufficientFunds):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.As(err, &ise):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, ledger.ErrConflict):
		return status.Error(codes.Aborted, err.Error())
	case errors.Is(err, ledger.ErrUpstreamUnavailable):
		return status.Error(codes.Unavailable, err.Error())
	case errors.Is(err, ledger.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

func toProtoEntry(e ledger.Entry) *pb.Entry {
	return &pb.Entry{
		ID:        e.ID,
		AccountID: e.AccountID,
		Sequence:  e.Sequence,
		Kind:      string(e.Kind),
		Symbol:    e.Symbol,
		Shares:    e.Shares.String(),
		Price:     e.Price.String(),
		Amount:    e.Amount.String(),
		Timestamp: e.Timestamp.UTC().Format(time.RFC3339),
	}
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	var store ledger.Store
	switch cfg.Store {
	case config.StorePostgres:
		pool, perr := pgxpool.New(context.Background(), cfg.DatabaseURL)
		if perr != nil {
			logger.Error("failed to create postgres pool", "error", perr)
			os.Exit(1)
		}
		defer pool.Close()

		if perr := pool.Ping(context.Background()); perr != nil {
			logger.Error("failed to ping database", "error", perr)
			os.Exit(1)
		}

		pg := ledger.NewPostgresStore(pool)
		if perr := pg.Init(context.Background()); perr != nil {
			logger.Error("failed to init schema", "error", perr)
			os.Exit(1)
		}
		store = pg
	case config.StoreSQLite:
		sq, serr := ledger.NewSQLiteStore(cfg.SQLitePath)
		if serr != nil {
			logger.Error("failed to open sqlite store", "error", serr)
			os.Exit(1)
		}
		defer sq.Close()
		store = sq
	default:
		store = ledger.NewMemoryStore()
	}

	var source quotes.Source
	if cfg.QuoteAPIURL != "" {
		source = quotes.NewHTTPSource(cfg.QuoteAPIURL, cfg.QuoteAPIKey)
	} else {
		logger.Warn("no quote feed configured; orders will fail as unavailable")
		source = quotes.NewStatic(nil)
	}

	validator := ledger.NewValidator(store, source)
	auditor := audit.NewChainLogger()
	service := ledger.NewService(store, validator, auditor, logger)

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		logger.Error("failed to listen", "addr", cfg.GRPCAddr, "error", err)
		os.Exit(1)
	}

	grpcServer := grpc.NewServer(
		grpc.MaxRecvMsgSize(1024*1024), // 1MB
		grpc.MaxSendMsgSize(1024*1024), // 1MB
	)
	pb.RegisterBrokerageServiceServer(grpcServer, NewBrokerageGRPCService(service, logger))
	reflection.Register(grpcServer)

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		logger.Info("shutting down gRPC server")
		grpcServer.GracefulStop()
	}()

	logger.Info("starting brokerage ledger gRPC server", "addr", cfg.GRPCAddr, "store", cfg.Store)
	if err := grpcServer.Serve(lis); err != nil {
		logger.Error("serve failed", "error", err)
		os.Exit(1)
	}
}
