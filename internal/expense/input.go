package expense

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"expense-api/internal/apperr"
	"expense-api/models"

	"github.com/shopspring/decimal"
)

const (
	MsgRequired        = "This field is required."
	MsgNull            = "This field may not be null."
	MsgBlank           = "This field may not be blank."
	MsgNotString       = "Not a valid string."
	MsgInvalidNumber   = "A valid number is required."
	MsgDateFormat      = "Date has wrong format. Use one of these formats instead: YYYY-MM-DD."
	MsgCategoryType    = "Incorrect type. Expected pk value, received %s."
	MsgCategoryMissing = "Invalid pk \"%d\" - object does not exist."
)

// ExpenseInput holds the writable fields a client supplied. A nil field was
// not supplied. The owner is never read from input.
type ExpenseInput struct {
	Category    *int64
	Amount      *decimal.Decimal
	Description *string
	Date        *models.Date

	errs apperr.FieldErrors
}

// DecodeExpenseInput parses the writable fields out of a JSON object. Type
// and format problems are kept on the input and reported by the service
// together with every other validation failure.
func DecodeExpenseInput(raw map[string]json.RawMessage) ExpenseInput {
	in := ExpenseInput{errs: apperr.FieldErrors{}}

	if v, ok := raw["category"]; ok {
		if id, msg := decodeCategory(v); msg != "" {
			in.errs.Add("category", msg)
		} else {
			in.Category = &id
		}
	}
	if v, ok := raw["amount"]; ok {
		if amount, msg := decodeAmount(v); msg != "" {
			in.errs.Add("amount", msg)
		} else {
			in.Amount = &amount
		}
	}
	if v, ok := raw["description"]; ok {
		if s, msg := decodeString(v); msg != "" {
			in.errs.Add("description", msg)
		} else {
			in.Description = &s
		}
	}
	if v, ok := raw["date"]; ok {
		if d, msg := decodeDate(v); msg != "" {
			in.errs.Add("date", msg)
		} else {
			in.Date = &d
		}
	}
	return in
}

func isNull(v json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}

func decodeCategory(v json.RawMessage) (int64, string) {
	if isNull(v) {
		return 0, MsgNull
	}
	var id int64
	if err := json.Unmarshal(v, &id); err == nil {
		return id, ""
	}
	// numeric strings are accepted as primary keys
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		if err := json.Unmarshal([]byte(strings.TrimSpace(s)), &id); err == nil && s != "" {
			return id, ""
		}
		return 0, fmt.Sprintf(MsgCategoryType, "str")
	}
	return 0, fmt.Sprintf(MsgCategoryType, jsonTypeName(v))
}

func decodeAmount(v json.RawMessage) (decimal.Decimal, string) {
	if isNull(v) {
		return decimal.Decimal{}, MsgNull
	}

	text := strings.TrimSpace(string(v))
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		text = strings.TrimSpace(s)
	} else if len(text) == 0 || !(text[0] == '-' || (text[0] >= '0' && text[0] <= '9')) {
		return decimal.Decimal{}, MsgInvalidNumber
	}

	amount, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Decimal{}, MsgInvalidNumber
	}
	if err := models.ValidateAmount(amount); err != nil {
		return decimal.Decimal{}, err.Error()
	}
	if amount.IsZero() {
		amount = decimal.Zero
	}
	return amount, ""
}

func decodeString(v json.RawMessage) (string, string) {
	if isNull(v) {
		return "", MsgNull
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return "", MsgNotString
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", MsgBlank
	}
	return s, ""
}

func decodeDate(v json.RawMessage) (models.Date, string) {
	if isNull(v) {
		return models.Date{}, MsgNull
	}
	var d models.Date
	if err := json.Unmarshal(v, &d); err != nil {
		return models.Date{}, MsgDateFormat
	}
	return d, ""
}

func jsonTypeName(v json.RawMessage) string {
	t := bytes.TrimSpace(v)
	if len(t) == 0 {
		return "str"
	}
	switch t[0] {
	case '{':
		return "dict"
	case '[':
		return "list"
	case 't', 'f':
		return "bool"
	default:
		return "float"
	}
}
