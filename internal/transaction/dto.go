package transaction

import (
	"encoding/json"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/xpensecontrol/xpense/internal"
)

// Amount accepts a JSON number or a numeric string, mirroring what the
// dashboard form submits.
type Amount float64

func (a *Amount) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch v := raw.(type) {
	case float64:
		*a = Amount(v)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			*a = Amount(math.NaN())
			return nil
		}
		*a = Amount(parsed)
	default:
		*a = Amount(math.NaN())
	}
	return nil
}

// Date accepts RFC 3339 timestamps or bare YYYY-MM-DD strings.
type Date struct {
	time.Time
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			d.Time = t
			return nil
		}
	}

	// Leave the zero value for Validate to reject with a field message.
	d.Time = time.Time{}
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Time.Format(time.RFC3339))
}

// CreateTransactionDTO is the request payload for creating a transaction.
// Category is referenced by display name, not id; a typo is a NotFound at
// the service layer rather than a silent creation.
type CreateTransactionDTO struct {
	Description string `json:"description"`
	Value       Amount `json:"value"`
	Type        string `json:"type"`
	Category    string `json:"category"`
	Date        Date   `json:"date"`
}

func (dto CreateTransactionDTO) Validate() *internal.AppError {
	var fieldErrors []internal.ValidationError

	// Length limits count characters, not bytes.
	if utf8.RuneCountInString(dto.Description) < 3 {
		fieldErrors = append(fieldErrors, internal.ValidationError{
			Field:   "description",
			Message: "description must have at least 3 characters",
			Code:    string(internal.ErrCodeInvalidDescription),
		})
	} else if utf8.RuneCountInString(dto.Description) > 100 {
		fieldErrors = append(fieldErrors, internal.ValidationError{
			Field:   "description",
			Message: "description must have at most 100 characters",
			Code:    string(internal.ErrCodeInvalidDescription),
		})
	}

	if math.IsNaN(float64(dto.Value)) || float64(dto.Value) <= 0 {
		fieldErrors = append(fieldErrors, internal.ValidationError{
			Field:   "value",
			Message: "value must be greater than zero",
			Code:    string(internal.ErrCodeInvalidValue),
		})
	}

	if !Type(dto.Type).Valid() {
		fieldErrors = append(fieldErrors, internal.ValidationError{
			Field:   "type",
			Message: "type must be INCOME or EXPENSE",
			Code:    string(internal.ErrCodeInvalidType),
		})
	}

	if strings.TrimSpace(dto.Category) == "" {
		fieldErrors = append(fieldErrors, internal.ValidationError{
			Field:   "category",
			Message: "category is required",
			Code:    string(internal.ErrCodeInvalidCategory),
		})
	}

	if dto.Date.IsZero() {
		fieldErrors = append(fieldErrors, internal.ValidationError{
			Field:   "date",
			Message: "date must be a valid calendar date",
			Code:    string(internal.ErrCodeInvalidDate),
		})
	}

	if len(fieldErrors) > 0 {
		return internal.NewValidationFieldErrors(fieldErrors)
	}
	return nil
}

// UpdateTransactionDTO is the full-record update payload. There is no
// partial patch; every field is replaced.
type UpdateTransactionDTO struct {
	ID string `json:"id"`
	CreateTransactionDTO
}

func (dto UpdateTransactionDTO) Validate() *internal.AppError {
	if strings.TrimSpace(dto.ID) == "" {
		return internal.NewValidationFieldErrors([]internal.ValidationError{{
			Field:   "id",
			Message: "id is required",
			Code:    string(internal.ErrCodeMissingID),
		}})
	}
	return dto.CreateTransactionDTO.Validate()
}

// MonthQuery is the validated month/year window selector.
type MonthQuery struct {
	Month int
	Year  int
}

// ParseMonthQuery validates the month/year query parameters: month must be
// an integer 1-12, year defaults to the current year and must fall in
// 2000-2100.
func ParseMonthQuery(values url.Values) (MonthQuery, *internal.AppError) {
	var fieldErrors []internal.ValidationError

	month, err := strconv.Atoi(values.Get("month"))
	if err != nil || month < 1 || month > 12 {
		fieldErrors = append(fieldErrors, internal.ValidationError{
			Field:   "month",
			Message: "month must be an integer between 1 and 12",
			Code:    string(internal.ErrCodeInvalidMonth),
		})
	}

	year := time.Now().Year()
	if rawYear := values.Get("year"); rawYear != "" {
		year, err = strconv.Atoi(rawYear)
		if err != nil || year < 2000 || year > 2100 {
			fieldErrors = append(fieldErrors, internal.ValidationError{
				Field:   "year",
				Message: "year must be an integer between 2000 and 2100",
				Code:    string(internal.ErrCodeInvalidYear),
			})
		}
	}

	if len(fieldErrors) > 0 {
		return MonthQuery{}, internal.NewValidationFieldErrors(fieldErrors)
	}
	return MonthQuery{Month: month, Year: year}, nil
}

// Window is the half-open [monthStart, nextMonthStart) range scoping a
// month's transactions, so midnight of the next month's first day is
// excluded.
func (q MonthQuery) Window() (time.Time, time.Time) {
	start := time.Date(q.Year, time.Month(q.Month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}
