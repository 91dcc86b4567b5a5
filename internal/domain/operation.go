package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OperationKind represents the kind of a committed vault operation
type OperationKind string

const (
	OperationDeposit           OperationKind = "DEPOSIT"
	OperationWithdraw          OperationKind = "WITHDRAW"
	OperationRedeem            OperationKind = "REDEEM"
	OperationReportProfit      OperationKind = "REPORT_PROFIT"
	OperationTransferShares    OperationKind = "TRANSFER_SHARES"
	OperationApproveShares     OperationKind = "APPROVE_SHARES"
	OperationAddStrategy       OperationKind = "ADD_STRATEGY"
	OperationRemoveStrategy    OperationKind = "REMOVE_STRATEGY"
	OperationRecallStrategy    OperationKind = "RECALL_STRATEGY"
	OperationPause             OperationKind = "PAUSE"
	OperationUnpause           OperationKind = "UNPAUSE"
	OperationTransferOwnership OperationKind = "TRANSFER_OWNERSHIP"
)

// Operation is the journal record of one committed vault operation.
// Totals are the values right after the operation committed.
type Operation struct {
	ID          uuid.UUID       `json:"id"`
	Kind        OperationKind   `json:"kind"`
	Caller      uuid.UUID       `json:"caller"`
	Receiver    *uuid.UUID      `json:"receiver,omitempty"`
	Owner       *uuid.UUID      `json:"owner,omitempty"`
	StrategyID  *uuid.UUID      `json:"strategy_id,omitempty"`
	Assets      decimal.Decimal `json:"assets"`
	Shares      decimal.Decimal `json:"shares"`
	TotalAssets decimal.Decimal `json:"total_assets"`
	TotalShares decimal.Decimal `json:"total_shares"`
	Date        time.Time       `json:"date"`
}
