package types

import "errors"

// Storage driver errors.
var (
	ErrTableNotFound = errors.New("table not found")
	ErrColumnMissing = errors.New("required column missing from payload")
	ErrColumnUnknown = errors.New("column not declared in table schema")
	ErrNotFound      = errors.New("record not found")
)

// Value normalization errors.
var (
	ErrInvalidDate   = errors.New("invalid date, expected a month like 2024-05")
	ErrInvalidNumber = errors.New("invalid numeric value")
)

// Transaction errors.
var (
	ErrInvalidTranType = errors.New("transaction type must be INCOME or OUTLAY")
)

// Import/export errors.
var (
	ErrImportMember  = errors.New("archive is missing a required member")
	ErrImportColumns = errors.New("imported column set does not match table schema")
)
