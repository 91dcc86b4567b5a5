package grpc

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/simaogato/auravault-backend/internal/domain"
)

// stringField returns a string field of a request, "" when absent
func stringField(req *structpb.Struct, name string) string {
	if req == nil {
		return ""
	}
	v, ok := req.GetFields()[name]
	if !ok {
		return ""
	}
	return v.GetStringValue()
}

// amountField parses a required amount in smallest units
func amountField(req *structpb.Struct, name string) (decimal.Decimal, error) {
	raw := stringField(req, name)
	if raw == "" {
		return decimal.Zero, status.Errorf(codes.InvalidArgument, "%s is required", name)
	}
	amount, err := domain.ParseAmount(raw)
	if err != nil {
		return decimal.Zero, status.Errorf(codes.InvalidArgument, "invalid %s format: %q", name, raw)
	}
	return amount, nil
}

// idField parses a required UUID field
func idField(req *structpb.Struct, name string) (uuid.UUID, error) {
	raw := stringField(req, name)
	if raw == "" {
		return uuid.Nil, status.Errorf(codes.InvalidArgument, "%s is required", name)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, status.Errorf(codes.InvalidArgument, "invalid %s format: %v", name, err)
	}
	return id, nil
}

// idFieldOr parses an optional UUID field, falling back to def when absent
func idFieldOr(req *structpb.Struct, name string, def uuid.UUID) (uuid.UUID, error) {
	if stringField(req, name) == "" {
		return def, nil
	}
	return idField(req, name)
}

// intField returns a numeric field as int, def when absent
func intField(req *structpb.Struct, name string, def int) int {
	if req == nil {
		return def
	}
	v, ok := req.GetFields()[name]
	if !ok {
		return def
	}
	return int(v.GetNumberValue())
}

// newStruct builds a response message
func newStruct(fields map[string]interface{}) (*structpb.Struct, error) {
	out, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return out, nil
}

// ok is the response of operations that return nothing
func ok() (*structpb.Struct, error) {
	return newStruct(map[string]interface{}{"ok": true})
}

func optionalID(id *uuid.UUID) interface{} {
	if id == nil {
		return nil
	}
	return id.String()
}

// operationFields encodes a journal record
func operationFields(op *domain.Operation) map[string]interface{} {
	return map[string]interface{}{
		"id":           op.ID.String(),
		"kind":         string(op.Kind),
		"caller":       op.Caller.String(),
		"receiver":     optionalID(op.Receiver),
		"owner":        optionalID(op.Owner),
		"strategy_id":  optionalID(op.StrategyID),
		"assets":       op.Assets.String(),
		"shares":       op.Shares.String(),
		"total_assets": op.TotalAssets.String(),
		"total_shares": op.TotalShares.String(),
		"date":         op.Date.UTC().Format(time.RFC3339Nano),
	}
}

// ParseOperation decodes a journal record encoded by operationFields
func ParseOperation(s *structpb.Struct) (*domain.Operation, error) {
	id, err := uuid.Parse(stringField(s, "id"))
	if err != nil {
		return nil, fmt.Errorf("operation id: %w", err)
	}
	caller, err := uuid.Parse(stringField(s, "caller"))
	if err != nil {
		return nil, fmt.Errorf("operation caller: %w", err)
	}

	op := &domain.Operation{ID: id, Kind: domain.OperationKind(stringField(s, "kind")), Caller: caller}
	for name, dst := range map[string]**uuid.UUID{"receiver": &op.Receiver, "owner": &op.Owner, "strategy_id": &op.StrategyID} {
		if raw := stringField(s, name); raw != "" {
			parsed, err := uuid.Parse(raw)
			if err != nil {
				return nil, fmt.Errorf("operation %s: %w", name, err)
			}
			*dst = &parsed
		}
	}
	for name, dst := range map[string]*decimal.Decimal{"assets": &op.Assets, "shares": &op.Shares, "total_assets": &op.TotalAssets, "total_shares": &op.TotalShares} {
		amount, err := decimal.NewFromString(stringField(s, name))
		if err != nil {
			return nil, fmt.Errorf("operation %s: %w", name, err)
		}
		*dst = amount
	}
	if raw := stringField(s, "date"); raw != "" {
		date, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return nil, fmt.Errorf("operation date: %w", err)
		}
		op.Date = date
	}
	return op, nil
}
