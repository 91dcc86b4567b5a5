package grpc

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/simaogato/auravault-backend/internal/domain"
)

// StrategyInfo describes one registered strategy as reported by the server
type StrategyInfo struct {
	ID              uuid.UUID
	Active          bool
	AllocatedAssets decimal.Decimal
	PendingProfit   decimal.Decimal
	PendingError    string
}

// VaultInfo is the decoded GetVault response
type VaultInfo struct {
	ID              uuid.UUID
	Name            string
	Symbol          string
	Decimals        int32
	AssetCode       string
	Owner           uuid.UUID
	Paused          bool
	TotalAssets     decimal.Decimal
	IdleAssets      decimal.Decimal
	AllocatedAssets decimal.Decimal
	TotalShares     decimal.Decimal
	PricePerShare   decimal.Decimal
	Operations      int
	Strategies      []StrategyInfo
}

// Balance is the decoded BalanceOf response
type Balance struct {
	Holder      uuid.UUID
	Shares      decimal.Decimal
	Assets      decimal.Decimal
	MaxWithdraw decimal.Decimal
	MaxRedeem   decimal.Decimal
}

// AssetBalance is the decoded AssetBalance response
type AssetBalance struct {
	Holder         uuid.UUID
	Balance        decimal.Decimal
	VaultAllowance decimal.Decimal
	TotalSupply    decimal.Decimal
}

// OperationPage is the decoded ListOperations response
type OperationPage struct {
	Operations []*domain.Operation
	TotalCount int
}

// Client calls auravault.v1.VaultService with a bearer token and an optional caller identity
type Client struct {
	conn   grpc.ClientConnInterface
	token  string
	caller uuid.UUID
}

// NewClient creates a client that authenticates with token
func NewClient(conn grpc.ClientConnInterface, token string) *Client {
	return &Client{conn: conn, token: token}
}

// As returns a copy of the client acting as caller
func (c *Client) As(caller uuid.UUID) *Client {
	clone := *c
	clone.caller = caller
	return &clone
}

// Call invokes method with a request built from fields
func (c *Client) Call(ctx context.Context, method string, fields map[string]interface{}) (*structpb.Struct, error) {
	if fields == nil {
		fields = map[string]interface{}{}
	}
	req, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("encode %s request: %w", method, err)
	}

	md := metadata.Pairs("authorization", c.token)
	if c.caller != uuid.Nil {
		md.Set(CallerHeader, c.caller.String())
	}
	ctx = metadata.NewOutgoingContext(ctx, md)

	resp := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, "/"+ServiceName+"/"+method, req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// Deposit deposits assets and returns the shares minted to receiver
func (c *Client) Deposit(ctx context.Context, assets decimal.Decimal, receiver uuid.UUID) (decimal.Decimal, error) {
	resp, err := c.Call(ctx, "Deposit", withOptionalIDs(map[string]interface{}{"assets": assets.String()}, "receiver", receiver))
	if err != nil {
		return decimal.Zero, err
	}
	return decimalField(resp, "shares")
}

// Withdraw pays out assets to receiver and returns the shares burned from owner
func (c *Client) Withdraw(ctx context.Context, assets decimal.Decimal, receiver, owner uuid.UUID) (decimal.Decimal, error) {
	resp, err := c.Call(ctx, "Withdraw", withOptionalIDs(map[string]interface{}{"assets": assets.String()}, "receiver", receiver, "owner", owner))
	if err != nil {
		return decimal.Zero, err
	}
	return decimalField(resp, "shares")
}

// Redeem burns shares of owner and returns the assets paid to receiver
func (c *Client) Redeem(ctx context.Context, shares decimal.Decimal, receiver, owner uuid.UUID) (decimal.Decimal, error) {
	resp, err := c.Call(ctx, "Redeem", withOptionalIDs(map[string]interface{}{"shares": shares.String()}, "receiver", receiver, "owner", owner))
	if err != nil {
		return decimal.Zero, err
	}
	return decimalField(resp, "assets")
}

// ReportProfit credits a realized gain; the client must act as a registered strategy
func (c *Client) ReportProfit(ctx context.Context, amount decimal.Decimal) error {
	_, err := c.Call(ctx, "ReportProfit", map[string]interface{}{"amount": amount.String()})
	return err
}

// TransferShares moves shares from the caller to to
func (c *Client) TransferShares(ctx context.Context, to uuid.UUID, shares decimal.Decimal) error {
	_, err := c.Call(ctx, "TransferShares", map[string]interface{}{"to": to.String(), "shares": shares.String()})
	return err
}

// ApproveShares lets spender withdraw or redeem on behalf of the caller
func (c *Client) ApproveShares(ctx context.Context, spender uuid.UUID, shares decimal.Decimal) error {
	_, err := c.Call(ctx, "ApproveShares", map[string]interface{}{"spender": spender.String(), "shares": shares.String()})
	return err
}

// AddStrategy registers a reference strategy
func (c *Client) AddStrategy(ctx context.Context, id uuid.UUID) error {
	_, err := c.Call(ctx, "AddStrategy", map[string]interface{}{"strategy_id": id.String()})
	return err
}

// RemoveStrategy deactivates an empty strategy
func (c *Client) RemoveStrategy(ctx context.Context, id uuid.UUID) error {
	_, err := c.Call(ctx, "RemoveStrategy", map[string]interface{}{"strategy_id": id.String()})
	return err
}

// RecallStrategy moves a strategy's allocation back to idle and returns the amount recalled
func (c *Client) RecallStrategy(ctx context.Context, id uuid.UUID) (decimal.Decimal, error) {
	resp, err := c.Call(ctx, "RecallStrategy", map[string]interface{}{"strategy_id": id.String()})
	if err != nil {
		return decimal.Zero, err
	}
	return decimalField(resp, "assets")
}

// Pause stops deposits
func (c *Client) Pause(ctx context.Context) error {
	_, err := c.Call(ctx, "Pause", nil)
	return err
}

// Unpause resumes deposits
func (c *Client) Unpause(ctx context.Context) error {
	_, err := c.Call(ctx, "Unpause", nil)
	return err
}

// TransferOwnership hands the vault to newOwner
func (c *Client) TransferOwnership(ctx context.Context, newOwner uuid.UUID) error {
	_, err := c.Call(ctx, "TransferOwnership", map[string]interface{}{"new_owner": newOwner.String()})
	return err
}

// GetVault returns the vault summary
func (c *Client) GetVault(ctx context.Context) (*VaultInfo, error) {
	resp, err := c.Call(ctx, "GetVault", nil)
	if err != nil {
		return nil, err
	}

	info := &VaultInfo{
		Name:       stringField(resp, "name"),
		Symbol:     stringField(resp, "symbol"),
		Decimals:   int32(intField(resp, "decimals", 0)),
		AssetCode:  stringField(resp, "asset_code"),
		Paused:     resp.GetFields()["paused"].GetBoolValue(),
		Operations: intField(resp, "operations", 0),
	}
	if info.ID, err = uuid.Parse(stringField(resp, "id")); err != nil {
		return nil, fmt.Errorf("vault id: %w", err)
	}
	if info.Owner, err = uuid.Parse(stringField(resp, "owner")); err != nil {
		return nil, fmt.Errorf("vault owner: %w", err)
	}
	if err := decodeDecimals(resp, map[string]*decimal.Decimal{
		"total_assets":     &info.TotalAssets,
		"idle_assets":      &info.IdleAssets,
		"allocated_assets": &info.AllocatedAssets,
		"total_shares":     &info.TotalShares,
		"price_per_share":  &info.PricePerShare,
	}); err != nil {
		return nil, err
	}

	for _, v := range resp.GetFields()["strategies"].GetListValue().GetValues() {
		st, err := decodeStrategy(v.GetStructValue())
		if err != nil {
			return nil, err
		}
		info.Strategies = append(info.Strategies, st)
	}
	return info, nil
}

// BalanceOf returns the share position of holder; uuid.Nil selects the caller
func (c *Client) BalanceOf(ctx context.Context, holder uuid.UUID) (*Balance, error) {
	resp, err := c.Call(ctx, "BalanceOf", withOptionalIDs(map[string]interface{}{}, "holder", holder))
	if err != nil {
		return nil, err
	}

	balance := &Balance{}
	if balance.Holder, err = uuid.Parse(stringField(resp, "holder")); err != nil {
		return nil, fmt.Errorf("holder: %w", err)
	}
	if err := decodeDecimals(resp, map[string]*decimal.Decimal{
		"shares":       &balance.Shares,
		"assets":       &balance.Assets,
		"max_withdraw": &balance.MaxWithdraw,
		"max_redeem":   &balance.MaxRedeem,
	}); err != nil {
		return nil, err
	}
	return balance, nil
}

// ListStrategies returns registered strategy ids in registration order
func (c *Client) ListStrategies(ctx context.Context) ([]uuid.UUID, error) {
	resp, err := c.Call(ctx, "ListStrategies", nil)
	if err != nil {
		return nil, err
	}
	var ids []uuid.UUID
	for _, v := range resp.GetFields()["strategies"].GetListValue().GetValues() {
		id, err := uuid.Parse(v.GetStringValue())
		if err != nil {
			return nil, fmt.Errorf("strategy id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// GetStrategy returns one registered strategy
func (c *Client) GetStrategy(ctx context.Context, id uuid.UUID) (StrategyInfo, error) {
	resp, err := c.Call(ctx, "GetStrategy", map[string]interface{}{"strategy_id": id.String()})
	if err != nil {
		return StrategyInfo{}, err
	}
	return decodeStrategy(resp)
}

// ListOperations returns a page of the operation journal, newest first
func (c *Client) ListOperations(ctx context.Context, limit, offset int) (*OperationPage, error) {
	resp, err := c.Call(ctx, "ListOperations", map[string]interface{}{"limit": limit, "offset": offset})
	if err != nil {
		return nil, err
	}

	page := &OperationPage{TotalCount: intField(resp, "total_count", 0)}
	for _, v := range resp.GetFields()["operations"].GetListValue().GetValues() {
		op, err := ParseOperation(v.GetStructValue())
		if err != nil {
			return nil, err
		}
		page.Operations = append(page.Operations, op)
	}
	return page, nil
}

// Preview runs a read-only conversion. Amount-based kinds read amount, max_* kinds read owner.
func (c *Client) Preview(ctx context.Context, kind string, amount decimal.Decimal, owner uuid.UUID) (decimal.Decimal, error) {
	fields := map[string]interface{}{"kind": kind}
	switch kind {
	case PreviewMaxWithdraw, PreviewMaxRedeem:
		fields = withOptionalIDs(fields, "owner", owner)
	default:
		fields["amount"] = amount.String()
	}
	resp, err := c.Call(ctx, "Preview", fields)
	if err != nil {
		return decimal.Zero, err
	}
	return decimalField(resp, "result")
}

// Harvest makes a reference strategy report its pending profit
func (c *Client) Harvest(ctx context.Context, id uuid.UUID) (decimal.Decimal, error) {
	resp, err := c.Call(ctx, "Harvest", map[string]interface{}{"strategy_id": id.String()})
	if err != nil {
		return decimal.Zero, err
	}
	return decimalField(resp, "reported")
}

// MintAsset creates development asset units for holder; uuid.Nil selects the caller
func (c *Client) MintAsset(ctx context.Context, holder uuid.UUID, amount decimal.Decimal) (*AssetBalance, error) {
	resp, err := c.Call(ctx, "MintAsset", withOptionalIDs(map[string]interface{}{"amount": amount.String()}, "holder", holder))
	if err != nil {
		return nil, err
	}
	return decodeAssetBalance(resp)
}

// ApproveAsset lets spender pull amount of the caller's assets; uuid.Nil selects the vault
func (c *Client) ApproveAsset(ctx context.Context, spender uuid.UUID, amount decimal.Decimal) error {
	_, err := c.Call(ctx, "ApproveAsset", withOptionalIDs(map[string]interface{}{"amount": amount.String()}, "spender", spender))
	return err
}

// AssetBalance returns the underlying asset balance of holder; uuid.Nil selects the caller
func (c *Client) AssetBalance(ctx context.Context, holder uuid.UUID) (*AssetBalance, error) {
	resp, err := c.Call(ctx, "AssetBalance", withOptionalIDs(map[string]interface{}{}, "holder", holder))
	if err != nil {
		return nil, err
	}
	return decodeAssetBalance(resp)
}

// withOptionalIDs adds name/id pairs to fields, skipping uuid.Nil
func withOptionalIDs(fields map[string]interface{}, pairs ...interface{}) map[string]interface{} {
	for i := 0; i+1 < len(pairs); i += 2 {
		name, id := pairs[i].(string), pairs[i+1].(uuid.UUID)
		if id != uuid.Nil {
			fields[name] = id.String()
		}
	}
	return fields
}

func decimalField(s *structpb.Struct, name string) (decimal.Decimal, error) {
	v, err := decimal.NewFromString(stringField(s, name))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: %w", name, err)
	}
	return v, nil
}

func decodeDecimals(s *structpb.Struct, dst map[string]*decimal.Decimal) error {
	for name, ptr := range dst {
		v, err := decimalField(s, name)
		if err != nil {
			return err
		}
		*ptr = v
	}
	return nil
}

func decodeStrategy(s *structpb.Struct) (StrategyInfo, error) {
	id, err := uuid.Parse(stringField(s, "id"))
	if err != nil {
		return StrategyInfo{}, fmt.Errorf("strategy id: %w", err)
	}
	info := StrategyInfo{
		ID:           id,
		Active:       s.GetFields()["active"].GetBoolValue(),
		PendingError: stringField(s, "pending_error"),
	}
	err = decodeDecimals(s, map[string]*decimal.Decimal{
		"allocated_assets": &info.AllocatedAssets,
		"pending_profit":   &info.PendingProfit,
	})
	return info, err
}

func decodeAssetBalance(s *structpb.Struct) (*AssetBalance, error) {
	holder, err := uuid.Parse(stringField(s, "holder"))
	if err != nil {
		return nil, fmt.Errorf("holder: %w", err)
	}
	balance := &AssetBalance{Holder: holder}
	if err := decodeDecimals(s, map[string]*decimal.Decimal{
		"balance":         &balance.Balance,
		"vault_allowance": &balance.VaultAllowance,
		"total_supply":    &balance.TotalSupply,
	}); err != nil {
		return nil, err
	}
	return balance, nil
}

// ErrorCode returns the stable vault error code carried by a status error, or ""
func ErrorCode(err error) string {
	st, ok := status.FromError(err)
	if !ok {
		return ""
	}
	for _, detail := range st.Details() {
		if info, ok := detail.(*errdetails.ErrorInfo); ok && info.GetDomain() == ErrorDomain {
			return info.GetReason()
		}
	}
	return ""
}
