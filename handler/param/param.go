package param

import (
	"encoding/json"
	"net/http"
	"reflect"

	"github.com/asaskevich/govalidator"
	"github.com/go-chi/chi"
	"github.com/gorilla/schema"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
	"github.com/twitchtv/twirp"
)

var decoder = schema.NewDecoder()

func init() {
	decoder.SetAliasTag("json")
	decoder.IgnoreUnknownKeys(true)
	decoder.RegisterConverter(decimal.Decimal{}, func(s string) reflect.Value {
		v, err := decimal.NewFromString(s)
		if err != nil {
			return reflect.Value{}
		}

		return reflect.ValueOf(v)
	})
}

// Binding decodes the query (GET) or the json body into v and validates it
func Binding(r *http.Request, v interface{}) error {
	switch r.Method {
	case http.MethodGet, http.MethodDelete:
		if err := decoder.Decode(v, r.URL.Query()); err != nil {
			return twirp.InvalidArgumentError("query", err.Error())
		}
	default:
		if r.Body != nil && r.Body != http.NoBody {
			if err := json.NewDecoder(r.Body).Decode(v); err != nil {
				return twirp.InvalidArgumentError("body", err.Error())
			}
		}
	}

	if _, err := govalidator.ValidateStruct(v); err != nil {
		return twirp.InvalidArgumentError("params", err.Error())
	}

	return nil
}

// String url param
func String(r *http.Request, key string) string {
	return chi.URLParam(r, key)
}

// Int query value, def when absent or malformed
func Int(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}

	n, err := cast.ToIntE(v)
	if err != nil {
		return def
	}

	return n
}

// Int64 query value, def when absent or malformed
func Int64(r *http.Request, key string, def int64) int64 {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}

	n, err := cast.ToInt64E(v)
	if err != nil {
		return def
	}

	return n
}
