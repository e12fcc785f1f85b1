package codes

import (
	"errors"
	"strconv"

	"lendpool/core"

	"github.com/twitchtv/twirp"
)

const (
	// CustomCodeKey code key
	CustomCodeKey = "custom_code"

	// InvalidArguments invalid arguments
	InvalidArguments = 100001
)

// With with specified error
func With(err error, code int) error {
	twerr, ok := err.(twirp.Error)
	if !ok {
		twerr = twirp.InternalErrorWith(err)
	}

	return twerr.WithMeta(CustomCodeKey, strconv.Itoa(code))
}

// From converts a ledger error into a twirp error carrying the ledger code
func From(err error) twirp.Error {
	if twerr, ok := err.(twirp.Error); ok {
		return twerr
	}

	var code core.ErrorCode
	if !errors.As(err, &code) {
		return twirp.InternalErrorWith(err)
	}

	var twerr twirp.Error
	switch code {
	case core.ErrPoolNotFound, core.ErrMarketNotFound:
		twerr = twirp.NotFoundError(code.Message())
	default:
		twerr = twirp.NewError(classCode(code.Class()), code.Message())
	}

	return twerr.
		WithMeta(CustomCodeKey, code.String()).
		WithMeta("class", code.Class().String())
}

func classCode(class core.ErrorClass) twirp.ErrorCode {
	switch class {
	case core.ClassValidation:
		return twirp.InvalidArgument
	case core.ClassFreshness, core.ClassInsufficient:
		return twirp.FailedPrecondition
	case core.ClassAuthorization:
		return twirp.PermissionDenied
	case core.ClassOracle:
		return twirp.Unavailable
	case core.ClassInvariant:
		return twirp.Aborted
	default:
		return twirp.Internal
	}
}

// Get get error code
func Get(twerr twirp.Error) int {
	if v := twerr.Meta(CustomCodeKey); v != "" {
		if code, err := strconv.Atoi(v); err == nil {
			return code
		}
	}

	switch twerr.Code() {
	case twirp.InvalidArgument:
		return InvalidArguments
	default:
		return twirp.ServerHTTPStatusFromErrorCode(twerr.Code())
	}
}
