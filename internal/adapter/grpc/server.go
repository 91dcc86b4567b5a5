package grpc

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/simaogato/auravault-backend/internal/adapter/strategy"
	"github.com/simaogato/auravault-backend/internal/adapter/token"
	"github.com/simaogato/auravault-backend/internal/domain"
	"github.com/simaogato/auravault-backend/internal/usecase/dashboard"
	"github.com/simaogato/auravault-backend/internal/usecase/vault"
)

// Preview kinds accepted by the Preview RPC
const (
	PreviewDeposit         = "deposit"
	PreviewWithdraw        = "withdraw"
	PreviewRedeem          = "redeem"
	PreviewConvertToShares = "convert_to_shares"
	PreviewConvertToAssets = "convert_to_assets"
	PreviewMaxWithdraw     = "max_withdraw"
	PreviewMaxRedeem       = "max_redeem"
)

// Server implements the VaultService gRPC server
type Server struct {
	Vault      *vault.VaultService
	Dashboard  *dashboard.DashboardService
	Assets     *token.Ledger
	Strategies *strategy.Directory
	VaultID    uuid.UUID
}

var _ VaultServiceServer = (*Server)(nil)

// NewServer creates a new gRPC server instance
func NewServer(
	vaultService *vault.VaultService,
	dashboardService *dashboard.DashboardService,
	assets *token.Ledger,
	strategies *strategy.Directory,
	vaultID uuid.UUID,
) *Server {
	return &Server{
		Vault:      vaultService,
		Dashboard:  dashboardService,
		Assets:     assets,
		Strategies: strategies,
		VaultID:    vaultID,
	}
}

// Deposit handles the Deposit RPC
func (s *Server) Deposit(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	assets, err := amountField(req, "assets")
	if err != nil {
		return nil, err
	}
	receiver, err := s.holderOrCaller(ctx, req, "receiver")
	if err != nil {
		return nil, err
	}

	minted, err := s.Vault.Deposit(ctx, assets, receiver)
	if err != nil {
		return nil, mapError(err)
	}
	return newStruct(map[string]interface{}{"shares": minted.String()})
}

// Withdraw handles the Withdraw RPC
func (s *Server) Withdraw(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	assets, err := amountField(req, "assets")
	if err != nil {
		return nil, err
	}
	receiver, owner, err := s.receiverAndOwner(ctx, req)
	if err != nil {
		return nil, err
	}

	burned, err := s.Vault.Withdraw(ctx, assets, receiver, owner)
	if err != nil {
		return nil, mapError(err)
	}
	return newStruct(map[string]interface{}{"shares": burned.String()})
}

// Redeem handles the Redeem RPC
func (s *Server) Redeem(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	shares, err := amountField(req, "shares")
	if err != nil {
		return nil, err
	}
	receiver, owner, err := s.receiverAndOwner(ctx, req)
	if err != nil {
		return nil, err
	}

	assets, err := s.Vault.Redeem(ctx, shares, receiver, owner)
	if err != nil {
		return nil, mapError(err)
	}
	return newStruct(map[string]interface{}{"assets": assets.String()})
}

// ReportProfit handles the ReportProfit RPC; the caller must be a registered strategy
func (s *Server) ReportProfit(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	amount, err := amountField(req, "amount")
	if err != nil {
		return nil, err
	}
	if err := s.Vault.ReportProfit(ctx, amount); err != nil {
		return nil, mapError(err)
	}
	return ok()
}

// TransferShares handles the TransferShares RPC
func (s *Server) TransferShares(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	to, err := idField(req, "to")
	if err != nil {
		return nil, err
	}
	shares, err := amountField(req, "shares")
	if err != nil {
		return nil, err
	}
	if err := s.Vault.TransferShares(ctx, to, shares); err != nil {
		return nil, mapError(err)
	}
	return ok()
}

// ApproveShares handles the ApproveShares RPC
func (s *Server) ApproveShares(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	spender, err := idField(req, "spender")
	if err != nil {
		return nil, err
	}
	shares, err := amountField(req, "shares")
	if err != nil {
		return nil, err
	}
	if err := s.Vault.ApproveShares(ctx, spender, shares); err != nil {
		return nil, mapError(err)
	}
	return ok()
}

// AddStrategy handles the AddStrategy RPC.
// The strategy is deployed from the reference strategy directory.
func (s *Server) AddStrategy(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := idField(req, "strategy_id")
	if err != nil {
		return nil, err
	}
	hook, deployed := s.Strategies.Deploy(id)
	if err := s.Vault.AddStrategy(ctx, id, hook); err != nil {
		if deployed {
			s.Strategies.Undeploy(id)
		}
		return nil, mapError(err)
	}
	return ok()
}

// RemoveStrategy handles the RemoveStrategy RPC
func (s *Server) RemoveStrategy(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := idField(req, "strategy_id")
	if err != nil {
		return nil, err
	}
	if err := s.Vault.RemoveStrategy(ctx, id); err != nil {
		return nil, mapError(err)
	}
	return ok()
}

// RecallStrategy handles the RecallStrategy RPC
func (s *Server) RecallStrategy(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := idField(req, "strategy_id")
	if err != nil {
		return nil, err
	}
	recalled, err := s.Vault.RecallStrategy(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	return newStruct(map[string]interface{}{"assets": recalled.String()})
}

// Pause handles the Pause RPC
func (s *Server) Pause(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	if err := s.Vault.Pause(ctx); err != nil {
		return nil, mapError(err)
	}
	return ok()
}

// Unpause handles the Unpause RPC
func (s *Server) Unpause(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	if err := s.Vault.Unpause(ctx); err != nil {
		return nil, mapError(err)
	}
	return ok()
}

// TransferOwnership handles the TransferOwnership RPC
func (s *Server) TransferOwnership(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	newOwner, err := idField(req, "new_owner")
	if err != nil {
		return nil, err
	}
	if err := s.Vault.TransferOwnership(ctx, newOwner); err != nil {
		return nil, mapError(err)
	}
	return ok()
}

// GetVault handles the GetVault RPC
func (s *Server) GetVault(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	summary, err := s.Dashboard.GetSummary(ctx)
	if err != nil {
		return nil, mapError(err)
	}

	strategies := make([]interface{}, 0, len(summary.Strategies))
	for _, st := range summary.Strategies {
		fields := map[string]interface{}{
			"id":               st.ID.String(),
			"active":           st.Active,
			"allocated_assets": st.AllocatedAssets.String(),
			"pending_profit":   st.PendingProfit.String(),
		}
		if st.PendingError != "" {
			fields["pending_error"] = st.PendingError
		}
		strategies = append(strategies, fields)
	}

	return newStruct(map[string]interface{}{
		"id":               s.VaultID.String(),
		"name":             summary.Name,
		"symbol":           summary.Symbol,
		"decimals":         float64(summary.Decimals),
		"asset_code":       s.Vault.Metadata().AssetCode,
		"owner":            summary.Owner.String(),
		"paused":           summary.Paused,
		"total_assets":     summary.TotalAssets.String(),
		"idle_assets":      summary.IdleAssets.String(),
		"allocated_assets": summary.AllocatedAssets.String(),
		"total_shares":     summary.TotalShares.String(),
		"price_per_share":  summary.PricePerShare.String(),
		"operations":       float64(summary.Operations),
		"strategies":       strategies,
	})
}

// BalanceOf handles the BalanceOf RPC.
// holder defaults to the caller; spender is optional and selects the allowance reported.
func (s *Server) BalanceOf(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	holder, err := s.holderOrCaller(ctx, req, "holder")
	if err != nil {
		return nil, err
	}
	spender, err := idFieldOr(req, "spender", uuid.Nil)
	if err != nil {
		return nil, err
	}

	shares := s.Vault.BalanceOf(holder)
	fields := map[string]interface{}{
		"holder":       holder.String(),
		"shares":       shares.String(),
		"assets":       s.Vault.ConvertToAssets(shares).String(),
		"max_withdraw": s.Vault.MaxWithdraw(holder).String(),
		"max_redeem":   s.Vault.MaxRedeem(holder).String(),
	}
	if spender != uuid.Nil {
		fields["allowance"] = s.Vault.Allowance(holder, spender).String()
	}
	return newStruct(fields)
}

// ListStrategies handles the ListStrategies RPC; ids are in registration order
func (s *Server) ListStrategies(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	ids := s.Vault.ListStrategies()
	out := make([]interface{}, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return newStruct(map[string]interface{}{"strategies": out})
}

// GetStrategy handles the GetStrategy RPC
func (s *Server) GetStrategy(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := idField(req, "strategy_id")
	if err != nil {
		return nil, err
	}
	st, err := s.Vault.Strategy(id)
	if err != nil {
		return nil, mapError(err)
	}
	pending, err := s.Vault.PendingProfit(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}

	return newStruct(map[string]interface{}{
		"id":               st.ID.String(),
		"active":           st.Active,
		"allocated_assets": st.AllocatedAssets.String(),
		"pending_profit":   pending.String(),
	})
}

// ListOperations handles the ListOperations RPC
func (s *Server) ListOperations(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	limit := intField(req, "limit", 0)
	offset := intField(req, "offset", 0)
	if offset < 0 {
		return nil, status.Errorf(codes.InvalidArgument, "offset must be non-negative")
	}

	page, err := s.Dashboard.ListActivity(ctx, limit, offset)
	if err != nil {
		return nil, mapError(err)
	}

	ops := make([]interface{}, 0, len(page.Operations))
	for _, op := range page.Operations {
		ops = append(ops, operationFields(op))
	}
	return newStruct(map[string]interface{}{
		"operations":  ops,
		"total_count": float64(page.Total),
		"limit":       float64(page.Limit),
		"offset":      float64(page.Offset),
	})
}

// Preview handles the Preview RPC.
// kind selects the computation; max_* kinds read owner instead of amount.
func (s *Server) Preview(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	kind := stringField(req, "kind")

	var result decimal.Decimal
	switch kind {
	case PreviewMaxWithdraw, PreviewMaxRedeem:
		owner, err := s.holderOrCaller(ctx, req, "owner")
		if err != nil {
			return nil, err
		}
		if kind == PreviewMaxWithdraw {
			result = s.Vault.MaxWithdraw(owner)
		} else {
			result = s.Vault.MaxRedeem(owner)
		}
	case PreviewDeposit, PreviewWithdraw, PreviewRedeem, PreviewConvertToShares, PreviewConvertToAssets:
		amount, err := amountField(req, "amount")
		if err != nil {
			return nil, err
		}
		switch kind {
		case PreviewDeposit:
			result = s.Vault.PreviewDeposit(amount)
		case PreviewWithdraw:
			result = s.Vault.PreviewWithdraw(amount)
		case PreviewRedeem:
			result = s.Vault.PreviewRedeem(amount)
		case PreviewConvertToShares:
			result = s.Vault.ConvertToShares(amount)
		default:
			result = s.Vault.ConvertToAssets(amount)
		}
	default:
		return nil, status.Errorf(codes.InvalidArgument, "unknown preview kind: %q", kind)
	}

	return newStruct(map[string]interface{}{"kind": kind, "result": result.String()})
}

// Harvest handles the Harvest RPC: a reference strategy reports its pending profit
func (s *Server) Harvest(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := idField(req, "strategy_id")
	if err != nil {
		return nil, err
	}
	st, found := s.Strategies.Get(id)
	if !found {
		return nil, status.Errorf(codes.NotFound, "strategy %s is not deployed", id)
	}

	reported, err := st.Harvest(ctx, s.Vault)
	if err != nil {
		return nil, mapError(err)
	}
	return newStruct(map[string]interface{}{"reported": reported.String()})
}

// MintAsset handles the MintAsset RPC of the development asset ledger.
// Minting to a strategy account simulates yield.
func (s *Server) MintAsset(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	holder, err := s.holderOrCaller(ctx, req, "holder")
	if err != nil {
		return nil, err
	}
	amount, err := amountField(req, "amount")
	if err != nil {
		return nil, err
	}
	if err := s.Assets.Mint(ctx, holder, amount); err != nil {
		return nil, mapError(err)
	}
	return s.assetBalance(ctx, holder)
}

// ApproveAsset handles the ApproveAsset RPC: the caller lets spender (the vault by default)
// pull amount of the underlying asset
func (s *Server) ApproveAsset(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	caller, found := domain.CallerFromContext(ctx)
	if !found {
		return nil, mapError(domain.ErrNoCaller)
	}
	spender, err := idFieldOr(req, "spender", s.VaultID)
	if err != nil {
		return nil, err
	}
	amount, err := amountField(req, "amount")
	if err != nil {
		return nil, err
	}
	if err := s.Assets.Approve(ctx, caller, spender, amount); err != nil {
		return nil, mapError(err)
	}
	return ok()
}

// AssetBalance handles the AssetBalance RPC; holder defaults to the caller
func (s *Server) AssetBalance(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	holder, err := s.holderOrCaller(ctx, req, "holder")
	if err != nil {
		return nil, err
	}
	return s.assetBalance(ctx, holder)
}

func (s *Server) assetBalance(ctx context.Context, holder uuid.UUID) (*structpb.Struct, error) {
	balance, err := s.Assets.BalanceOf(ctx, holder)
	if err != nil {
		return nil, mapError(err)
	}
	allowance, err := s.Assets.Allowance(ctx, holder, s.VaultID)
	if err != nil {
		return nil, mapError(err)
	}
	return newStruct(map[string]interface{}{
		"holder":          holder.String(),
		"balance":         balance.String(),
		"vault_allowance": allowance.String(),
		"total_supply":    s.Assets.TotalSupply().String(),
	})
}

// receiverAndOwner reads the payout receiver and the share owner, both defaulting to the caller
func (s *Server) receiverAndOwner(ctx context.Context, req *structpb.Struct) (uuid.UUID, uuid.UUID, error) {
	receiver, err := s.holderOrCaller(ctx, req, "receiver")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	owner, err := s.holderOrCaller(ctx, req, "owner")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return receiver, owner, nil
}

// holderOrCaller reads an optional identity field, falling back to the caller
func (s *Server) holderOrCaller(ctx context.Context, req *structpb.Struct, name string) (uuid.UUID, error) {
	caller, _ := domain.CallerFromContext(ctx)
	id, err := idFieldOr(req, name, caller)
	if err != nil {
		return uuid.Nil, err
	}
	if id == uuid.Nil {
		return uuid.Nil, status.Errorf(codes.InvalidArgument, "%s is required without %s", name, CallerHeader)
	}
	return id, nil
}

// ErrorDomain names the origin of the ErrorInfo detail attached to vault errors
const ErrorDomain = "auravault.v1"

// mapError converts use case errors into gRPC status errors.
// Vault errors carry their stable code as an ErrorInfo reason.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if _, isStatus := status.FromError(err); isStatus {
		return err
	}

	switch {
	case errors.Is(err, domain.ErrNoCaller):
		return vaultStatus(codes.Unauthenticated, err)
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	}

	switch domain.ClassOf(err) {
	case domain.ClassAuthorization:
		return vaultStatus(codes.PermissionDenied, err)
	case domain.ClassValidation:
		return vaultStatus(codes.InvalidArgument, err)
	case domain.ClassState, domain.ClassFunds:
		return vaultStatus(codes.FailedPrecondition, err)
	case domain.ClassExists:
		return vaultStatus(codes.AlreadyExists, err)
	case domain.ClassNotFound:
		return vaultStatus(codes.NotFound, err)
	}

	// Default to Internal error for unknown errors
	return status.Error(codes.Internal, err.Error())
}

func vaultStatus(code codes.Code, err error) error {
	st := status.New(code, err.Error())
	reason := domain.CodeOf(err)
	if reason == "" {
		return st.Err()
	}
	detailed, detailErr := st.WithDetails(&errdetails.ErrorInfo{Reason: reason, Domain: ErrorDomain})
	if detailErr != nil {
		return st.Err()
	}
	return detailed.Err()
}
