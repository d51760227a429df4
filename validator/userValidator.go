package validator

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"users-backend/constant"
)

// EchoValidator plugs go-playground/validator into echo.
type EchoValidator struct {
	validate *validator.Validate
}

func New() *EchoValidator {
	v := validator.New()
	// report json names, not Go field names
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &EchoValidator{validate: v}
}

func (cv *EchoValidator) Validate(i interface{}) error {
	return cv.validate.Struct(i)
}

// FieldErrors turns a validation error into per-field messages.
func FieldErrors(err error) url.Values {
	errs := url.Values{}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		errs.Add("body", err.Error())
		return errs
	}
	for _, fe := range validationErrors {
		errs.Add(fe.Field(), fmt.Sprintf("The %s is %s!", fe.Field(), fe.Tag()))
	}
	return errs
}

// ListParams checks skip and limit from the query string. Empty values take
// their defaults.
func ListParams(skipRaw, limitRaw string) (skip int, limit int, errs url.Values) {
	errs = url.Values{}
	skip, limit = 0, constant.DEFAULT_LIST_LIMIT

	if skipRaw != "" {
		v, err := strconv.Atoi(skipRaw)
		if err != nil || v < 0 {
			errs.Add("skip", "The skip must be a non-negative integer!")
		} else {
			skip = v
		}
	}
	if limitRaw != "" {
		v, err := strconv.Atoi(limitRaw)
		if err != nil || v < 0 {
			errs.Add("limit", "The limit must be a non-negative integer!")
		} else {
			limit = v
		}
	}
	return skip, limit, errs
}

// UserID parses the :id path parameter. Text that is not an integer is a
// validation error; an integer outside the users.id column range parses
// fine but reports inRange false, since no row can carry it.
func UserID(raw string) (id uint, inRange bool, errs url.Values) {
	errs = url.Values{}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			return 0, false, errs
		}
		errs.Add("id", "The id must be an integer!")
		return 0, false, errs
	}
	if v < 1 || v > constant.MAX_USER_ID {
		return 0, false, errs
	}
	return uint(v), true, errs
}
