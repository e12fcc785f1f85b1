package request

import (
	"context"
	"net/http"
	"strings"
)

// AccountHeader header naming the calling account
const AccountHeader = "X-Account"

type key int

const (
	accountKey key = iota
)

type ContextX struct {
	context.Context
}

// NewContext context extension
func NewContext(ctx context.Context) ContextX {
	return ContextX{
		Context: ctx,
	}
}

// WithAccount context with the calling account
func (c ContextX) WithAccount(account string) context.Context {
	return context.WithValue(c, accountKey, account)
}

// GetAccount get the calling account from context
func (c ContextX) GetAccount() (string, bool) {
	account, ok := c.Value(accountKey).(string)
	return account, ok && account != ""
}

// HandleAccount puts the X-Account header into the request context
func HandleAccount(next http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		if account := strings.TrimSpace(r.Header.Get(AccountHeader)); account != "" {
			ctx := NewContext(r.Context()).WithAccount(account)
			r = r.WithContext(ctx)
		}

		next.ServeHTTP(w, r)
	}

	return http.HandlerFunc(fn)
}
