package core

import "strconv"

// ErrorCode int
type ErrorCode int

// ErrorClass groups error codes by how the caller must react
type ErrorClass int

const (
	// ClassValidation bad input, caller must correct it
	ClassValidation ErrorClass = iota + 1
	// ClassFreshness accrual not performed in the current block
	ClassFreshness
	// ClassInsufficient cash, collateral or balance too low, may succeed later
	ClassInsufficient
	// ClassAuthorization restricted entry point, never retried
	ClassAuthorization
	// ClassOracle zero or missing price
	ClassOracle
	// ClassInvariant ledger consistency broken
	ClassInvariant
)

func (c ErrorClass) String() string {
	switch c {
	case ClassValidation:
		return "validation"
	case ClassFreshness:
		return "freshness"
	case ClassInsufficient:
		return "insufficient"
	case ClassAuthorization:
		return "authorization"
	case ClassOracle:
		return "oracle"
	case ClassInvariant:
		return "invariant"
	default:
		return "unknown"
	}
}

const (
	// ErrUnknown unkown
	ErrUnknown ErrorCode = 100000
	// ErrOperationForbidden operation forbidden
	ErrOperationForbidden ErrorCode = 100001

	// ErrMarketNotFound no market
	ErrMarketNotFound ErrorCode = 100100
	// ErrInvalidAmount zero, negative or unbounded amount
	ErrInvalidAmount ErrorCode = 100101
	// ErrMarketNotListed market not listed in the pool
	ErrMarketNotListed ErrorCode = 100102
	// ErrMarketAlreadyListed market listed twice
	ErrMarketAlreadyListed ErrorCode = 100103
	// ErrInsufficientCollateral account collateral too low
	ErrInsufficientCollateral ErrorCode = 100104
	// ErrInsufficientCash pool cash too low
	ErrInsufficientCash ErrorCode = 100105
	// ErrInsufficientLiquidity action would leave the account with a shortfall
	ErrInsufficientLiquidity ErrorCode = 100106
	// ErrInsufficientBalance underlying or claim token balance too low
	ErrInsufficientBalance ErrorCode = 100107
	// ErrInvalidPrice zero or missing oracle price
	ErrInvalidPrice ErrorCode = 100108
	// ErrActionPaused action paused for the market
	ErrActionPaused ErrorCode = 100109
	// ErrSupplyCapReached supply cap reached
	ErrSupplyCapReached ErrorCode = 100110
	// ErrBorrowCapReached borrow cap reached
	ErrBorrowCapReached ErrorCode = 100111
	// ErrAccrualNotFresh market not accrued in the current block
	ErrAccrualNotFresh ErrorCode = 100112
	// ErrCollateralNotFresh collateral market not accrued in the current block
	ErrCollateralNotFresh ErrorCode = 100113
	// ErrSelfLiquidation liquidator is the borrower
	ErrSelfLiquidation ErrorCode = 100114
	// ErrTooMuchRepay repay over the close factor
	ErrTooMuchRepay ErrorCode = 100115
	// ErrNoShortfall account is healthy
	ErrNoShortfall ErrorCode = 100116
	// ErrMinimalCollateralViolated collateral under the ordinary liquidation threshold
	ErrMinimalCollateralViolated ErrorCode = 100117
	// ErrCollateralExceedsThreshold collateral above the batch liquidation threshold
	ErrCollateralExceedsThreshold ErrorCode = 100118
	// ErrCollateralTooHighToHeal collateral covers the debt with incentive
	ErrCollateralTooHighToHeal ErrorCode = 100119
	// ErrNonzeroBorrowBalance exit market with borrows
	ErrNonzeroBorrowBalance ErrorCode = 100120
	// ErrTooManyMarkets iteration bound exceeded
	ErrTooManyMarkets ErrorCode = 100121
	// ErrInvalidParameter risk parameter out of bounds
	ErrInvalidParameter ErrorCode = 100122
	// ErrArrayLengthMismatch parallel arrays of different length
	ErrArrayLengthMismatch ErrorCode = 100123
	// ErrSeizeNotAllowed seize from a market that is not listed
	ErrSeizeNotAllowed ErrorCode = 100124
	// ErrBorrowRateTooHigh rate model returned a rate above the ceiling
	ErrBorrowRateTooHigh ErrorCode = 100125
	// ErrPoolNotFound no pool
	ErrPoolNotFound ErrorCode = 100126
	// ErrUnauthorized caller lacks the permission
	ErrUnauthorized ErrorCode = 100200
	// ErrReentered nested call into the pool
	ErrReentered ErrorCode = 100201
	// ErrInvariantViolation ledger left inconsistent
	ErrInvariantViolation ErrorCode = 100300
)

var messages = map[ErrorCode]string{
	ErrUnknown:                    "unknown",
	ErrOperationForbidden:         "operation forbidden",
	ErrMarketNotFound:             "market not found",
	ErrInvalidAmount:              "invalid amount",
	ErrMarketNotListed:            "market not listed",
	ErrMarketAlreadyListed:        "market already listed",
	ErrInsufficientCollateral:     "insufficient collateral",
	ErrInsufficientCash:           "insufficient cash",
	ErrInsufficientLiquidity:      "insufficient liquidity",
	ErrInsufficientBalance:        "insufficient balance",
	ErrInvalidPrice:               "invalid price",
	ErrActionPaused:               "action paused",
	ErrSupplyCapReached:           "supply cap reached",
	ErrBorrowCapReached:           "borrow cap reached",
	ErrAccrualNotFresh:            "accrual block number not fresh",
	ErrCollateralNotFresh:         "collateral accrual block number not fresh",
	ErrSelfLiquidation:            "liquidator is borrower",
	ErrTooMuchRepay:               "too much repay",
	ErrNoShortfall:                "account has no shortfall",
	ErrMinimalCollateralViolated:  "collateral below minimal liquidatable collateral",
	ErrCollateralExceedsThreshold: "collateral exceeds minimal liquidatable collateral",
	ErrCollateralTooHighToHeal:    "collateral exceeds debt with incentive",
	ErrNonzeroBorrowBalance:       "nonzero borrow balance",
	ErrTooManyMarkets:             "too many markets",
	ErrInvalidParameter:           "invalid parameter",
	ErrArrayLengthMismatch:        "array length mismatch",
	ErrSeizeNotAllowed:            "seize not allowed",
	ErrBorrowRateTooHigh:          "borrow rate is absurdly high",
	ErrPoolNotFound:               "pool not found",
	ErrUnauthorized:               "unauthorized",
	ErrReentered:                  "reentered",
	ErrInvariantViolation:         "invariant violation",
}

func (e ErrorCode) String() string {
	return strconv.Itoa(int(e))
}

func (e ErrorCode) Error() string {
	return e.String()
}

// Message human readable text of the code
func (e ErrorCode) Message() string {
	if msg, ok := messages[e]; ok {
		return msg
	}

	return messages[ErrUnknown]
}

// Class error class of the code
func (e ErrorCode) Class() ErrorClass {
	switch e {
	case ErrAccrualNotFresh, ErrCollateralNotFresh:
		return ClassFreshness
	case ErrInsufficientCollateral, ErrInsufficientCash, ErrInsufficientLiquidity,
		ErrInsufficientBalance, ErrSupplyCapReached, ErrBorrowCapReached,
		ErrNoShortfall, ErrMinimalCollateralViolated, ErrCollateralExceedsThreshold,
		ErrCollateralTooHighToHeal:
		return ClassInsufficient
	case ErrUnauthorized, ErrReentered, ErrOperationForbidden:
		return ClassAuthorization
	case ErrInvalidPrice, ErrBorrowRateTooHigh:
		return ClassOracle
	case ErrInvariantViolation:
		return ClassInvariant
	default:
		return ClassValidation
	}
}
