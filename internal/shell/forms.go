package shell

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
)

// ErrInvalidForm wraps every form validation failure.
var ErrInvalidForm = errors.New("invalid form")

// ExpenseForm is the add-expense form (also the home page quick add).
type ExpenseForm struct {
	// Date defaults to today when left empty.
	Date     models.Date     `json:"date"`
	Category string          `json:"category" validate:"required,category"`
	Amount   decimal.Decimal `json:"amount" validate:"gte=0"`
	Note     string          `json:"note" validate:"max=500"`
}

// RangeForm selects the date window of the expense history.
// Empty dates fall back to the default window.
type RangeForm struct {
	Start models.Date `json:"start"`
	End   models.Date `json:"end"`
}

// VisualizeForm picks categories for the charts. Empty means all.
type VisualizeForm struct {
	Categories []string `json:"categories" validate:"dive,category"`
}

// GroupExpenseForm is the add-group-expense form.
type GroupExpenseForm struct {
	Description string          `json:"description" validate:"max=200"`
	Total       decimal.Decimal `json:"total" validate:"gte=0"`

	// Participants is the raw comma separated list as typed.
	Participants string `json:"participants" validate:"required"`

	// Paid has one amount per parsed participant, in order.
	Paid []decimal.Decimal `json:"paid" validate:"dive,gte=0"`
}

// newValidator builds the form validator. Registration only fails on a
// malformed tag, which is a programming error, so it panics.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Validate decimals as numbers so gte/lte tags apply to them.
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	if err := v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		_, err := models.ParseCategory(fl.Field().String())
		return err == nil
	}); err != nil {
		panic(fmt.Sprintf("register category validation: %v", err))
	}

	v.RegisterStructValidation(expenseFormRules, ExpenseForm{})
	v.RegisterStructValidation(groupExpenseFormRules, GroupExpenseForm{})

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// isCents reports whether d has at most two decimal places.
func isCents(d decimal.Decimal) bool {
	return d.Equal(d.Round(2))
}

// hasCR reports a carriage return, which CSV export cannot round trip.
func hasCR(s string) bool {
	return strings.ContainsRune(s, '\r')
}

func expenseFormRules(sl validator.StructLevel) {
	form := sl.Current().Interface().(ExpenseForm)
	if !isCents(form.Amount) {
		sl.ReportError(form.Amount, "amount", "Amount", "cents", "")
	}
	if hasCR(form.Note) {
		sl.ReportError(form.Note, "note", "Note", "nocr", "")
	}
}

func groupExpenseFormRules(sl validator.StructLevel) {
	form := sl.Current().Interface().(GroupExpenseForm)
	if !isCents(form.Total) {
		sl.ReportError(form.Total, "total", "Total", "cents", "")
	}
	for i, p := range form.Paid {
		if !isCents(p) {
			sl.ReportError(p, fmt.Sprintf("paid[%d]", i), fmt.Sprintf("Paid[%d]", i), "cents", "")
		}
	}
	if hasCR(form.Description) {
		sl.ReportError(form.Description, "description", "Description", "nocr", "")
	}
	if hasCR(form.Participants) {
		sl.ReportError(form.Participants, "participants", "Participants", "nocr", "")
	}
}

// validateForm runs struct validation and flattens the result into one
// ErrInvalidForm error naming each failing field.
func validateForm(v *validator.Validate, form any) error {
	err := v.Struct(form)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", ErrInvalidForm, err)
	}
	msgs := make([]string, len(fieldErrs))
	for i, fe := range fieldErrs {
		if fe.Param() != "" {
			msgs[i] = fmt.Sprintf("%s must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param())
		} else {
			msgs[i] = fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
		}
	}
	return fmt.Errorf("%w: %s", ErrInvalidForm, strings.Join(msgs, "; "))
}
