package brokerage

// Monetary and share quantities travel as decimal strings to keep the
// engine's precision across the wire; rounding is a presentation concern.

type DepositRequest struct {
	AccountID string `protobuf:"bytes,1,opt,name=account_id"`
	Amount    string `protobuf:"bytes,2,opt,name=amount"`
}

type WithdrawRequest struct {
	AccountID string `protobuf:"bytes,1,opt,name=account_id"`
	Amount    string `protobuf:"bytes,2,opt,name=amount"`
}

type OrderRequest struct {
	AccountID    string `protobuf:"bytes,1,opt,name=account_id"`
	Symbol       string `protobuf:"bytes,2,opt,name=symbol"`
	Quantity     string `protobuf:"bytes,3,opt,name=quantity"`
	QuantityKind string `protobuf:"bytes,4,opt,name=quantity_kind"`
}

type Entry struct {
	ID        string `protobuf:"bytes,1,opt,name=id"`
	AccountID string `protobuf:"bytes,2,opt,name=account_id"`
	Sequence  uint64 `protobuf:"varint,3,opt,name=sequence"`
	Kind      string `protobuf:"bytes,4,opt,name=kind"`
	Symbol    string `protobuf:"bytes,5,opt,name=symbol"`
	Shares    string `protobuf:"bytes,6,opt,name=shares"`
	Price     string `protobuf:"bytes,7,opt,name=price"`
	Amount    string `protobuf:"bytes,8,opt,name=amount"`
	Timestamp string `protobuf:"bytes,9,opt,name=timestamp"`
}

type CommandResponse struct {
	Entry *Entry `protobuf:"bytes,1,opt,name=entry"`
}

type GetBalanceRequest struct {
	AccountID string `protobuf:"bytes,1,opt,name=account_id"`
}

type GetBalanceResponse struct {
	AccountID string `protobuf:"bytes,1,opt,name=account_id"`
	Balance   string `protobuf:"bytes,2,opt,name=balance"`
	Version   uint64 `protobuf:"varint,3,opt,name=version"`
}

type Position struct {
	Symbol         string `protobuf:"bytes,1,opt,name=symbol"`
	Shares         string `protobuf:"bytes,2,opt,name=shares"`
	InvestedAmount string `protobuf:"bytes,3,opt,name=invested_amount"`
}

type GetPositionsRequest struct {
	AccountID string `protobuf:"bytes,1,opt,name=account_id"`
}

type GetPositionsResponse struct {
	AccountID string      `protobuf:"bytes,1,opt,name=account_id"`
	Positions []*Position `protobuf:"bytes,2,rep,name=positions"`
}

type GetHistoryRequest struct {
	AccountID string `protobuf:"bytes,1,opt,name=account_id"`
}

type GetHistoryResponse struct {
	AccountID string   `protobuf:"bytes,1,opt,name=account_id"`
	Entries   []*Entry `protobuf:"bytes,2,rep,name=entries"`
}

type StreamUpdatesRequest struct {
	AccountID string `protobuf:"bytes,1,opt,name=account_id"`
}
