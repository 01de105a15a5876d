// Package validate turns ozzo-validation results into apperr values.
package validate

import (
	"errors"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/redmonkez12/jeogi-market/internal/apperr"
	"github.com/redmonkez12/jeogi-market/internal/httputil"
)

// Check maps the result of validation.ValidateStruct to a 400 error whose
// "errors" detail lists the failing fields. Internal validator errors are
// returned unchanged.
func Check(err error) error {
	if err == nil {
		return nil
	}

	var fieldErrs validation.Errors
	if !errors.As(err, &fieldErrs) {
		var internal validation.InternalError
		if errors.As(err, &internal) {
			return err
		}
		return apperr.Validation(httputil.CodeValidationFailed, err.Error())
	}

	fields := make(map[string]string, len(fieldErrs))
	names := make([]string, 0, len(fieldErrs))
	for name, fe := range fieldErrs {
		if fe == nil {
			continue
		}
		fields[name] = fe.Error()
		names = append(names, name)
	}
	sort.Strings(names)

	message := "validation failed"
	if len(names) > 0 {
		message = names[0] + ": " + fields[names[0]]
	}

	return apperr.Validation(httputil.CodeValidationFailed, message).WithDetail("errors", fields)
}
