package entity

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func ledgerValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
	})
	return validate
}

// Validate checks the whole ledger and reports every problem at once.
func (l Ledger) Validate() error {
	var problems []string
	if len(l.Wallets) == 0 {
		problems = append(problems, "ledger: no wallets")
	}
	for _, w := range l.Wallets {
		err := ledgerValidator().Struct(w)
		if err == nil {
			continue
		}
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return fmt.Errorf("failed to validate wallet %s: %w", w.Wallet, err)
		}
		for _, fe := range fieldErrs {
			problems = append(problems, describeFieldError(w.Wallet, fe))
		}
	}
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

func describeFieldError(wallet string, fe validator.FieldError) string {
	// drop the struct name prefix, e.g. "WalletHoldings.holdings[0].symbol"
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}
	var rule string
	switch fe.Tag() {
	case "required":
		rule = "is required"
	case "eth_addr":
		rule = "must be a 0x-prefixed 20 byte hex address"
	case "eth_addr|eq=native":
		rule = `must be a 0x-prefixed 20 byte hex address or "native"`
	case "gte":
		rule = "must be >= " + fe.Param()
	case "lte":
		rule = "must be <= " + fe.Param()
	default:
		rule = "failed " + fe.Tag()
	}
	return fmt.Sprintf("%s: %s %s", wallet, field, rule)
}
