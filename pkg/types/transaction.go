package types

// Transaction table name and column names.
const (
	TranTableName = "TRAN"

	ColTranID    = "ID"
	ColTranType  = "TYPE"
	ColTranValue = "VALUE"
	ColTranCat   = "CAT"
	ColTranNote  = "NOTE"
)

// Transaction types.
const (
	TranIncome = "INCOME"
	TranOutlay = "OUTLAY"
)

// validTranTypes is the set of recognized transaction type values.
var validTranTypes = map[string]bool{
	TranIncome: true,
	TranOutlay: true,
}

// ValidTranType reports whether t is a recognized transaction type.
func ValidTranType(t string) bool {
	return validTranTypes[t]
}

// Transaction is a discrete money-flow event.
//
// ID is derived as digitDate*10000 + sequence (e.g. 2024050001). The scheme
// wraps past 10000 entries per month; Reindex repairs IDs after bulk import.
type Transaction struct {
	ID       int64
	Date     string // normalized "YYYY-MM"
	Type     string // TranIncome or TranOutlay
	Value    float64
	Category string
	Note     string
}
