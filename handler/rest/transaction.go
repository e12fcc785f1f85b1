package rest

import (
	"errors"
	"net/http"

	"lendpool/core"
	"lendpool/handler/param"
	"lendpool/handler/render"
	"lendpool/handler/views"
)

const maxTransactionLimit = 500

// audit records of the pool with id greater than from, oldest first
func transactionsHandler(transactions core.TransactionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		from := param.Int64(r, "from", 0)
		limit := param.Int(r, "limit", maxTransactionLimit)
		if limit <= 0 || limit > maxTransactionLimit {
			limit = maxTransactionLimit
		}

		records, err := transactions.List(ctx, param.String(r, "pool"), from, limit)
		if err != nil {
			render.Error(w, err)
			return
		}

		view := views.Transactions{Transactions: records}
		if len(records) == limit {
			view.NextFrom = records[len(records)-1].ID
		}

		render.JSON(w, view)
	}
}

func transactionHandler(transactions core.TransactionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := transactions.FindByTraceID(r.Context(), param.String(r, "trace"))
		if err != nil {
			render.Error(w, err)
			return
		}

		if t == nil || t.PoolID != param.String(r, "pool") {
			render.NotFoundRequest(w, errors.New("transaction not found"))
			return
		}

		render.JSON(w, t)
	}
}
