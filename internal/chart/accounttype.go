package chart

import (
	"strconv"
	"strings"

	"github.com/sageflow/ptbrecover/internal/model"
)

// InferType maps an account number to its class by numeric band. Separators
// are ignored and at most the leading four digits are read; anything below
// 1000 or unparseable is an asset.
func InferType(number string) model.AccountType {
	digits := strings.NewReplacer(".", "", "-", "", " ", "").Replace(number)
	if len(digits) > 4 {
		digits = digits[:4]
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return model.AccountTypeAsset
	}
	switch {
	case n >= 1000 && n < 2000:
		return model.AccountTypeAsset
	case n >= 2000 && n < 3000:
		return model.AccountTypeLiability
	case n >= 3000 && n < 4000:
		return model.AccountTypeEquity
	case n >= 4000 && n < 5000:
		return model.AccountTypeRevenue
	case n >= 5000:
		return model.AccountTypeExpense
	default:
		return model.AccountTypeAsset
	}
}
