package repositories

import "context"

// TxFn runs within a transaction. Returning an error rolls the whole
// unit of work back.
type TxFn func(ctx context.Context) error

// TransactionManager scopes a function to one atomic unit of work against
// the durable store. Every public core operation runs inside exactly one.
type TransactionManager interface {
	ExecTx(ctx context.Context, fn TxFn) error
}
