package devapi

import (
	"errors"
	"fmt"
	"maps"
	"net/http"
	"slices"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// fieldErrors is the errors object of a 422 body.
type fieldErrors map[string][]string

func (f fieldErrors) add(field, msg string) {
	f[field] = append(f[field], msg)
}

// validationBody renders a 422 body the way Laravel does: message is the
// first error, with a count of the rest.
func validationBody(errs fieldErrors, code string) map[string]any {
	keys := slices.Sorted(maps.Keys(errs))
	message := "The given data was invalid."
	total := 0
	for _, k := range keys {
		total += len(errs[k])
	}
	if len(keys) > 0 && len(errs[keys[0]]) > 0 {
		message = errs[keys[0]][0]
		if total > 1 {
			message = fmt.Sprintf("%s (and %d more error%s)", message, total-1, plural(total-1))
		}
	}
	body := map[string]any{"message": message, "errors": errs}
	if code != "" {
		body["code"] = code
	}
	return body
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

func writeValidation(w http.ResponseWriter, errs fieldErrors) {
	writeJSON(w, http.StatusUnprocessableEntity, validationBody(errs, ""))
}

// asFieldErrors converts ozzo validation output. Internal rule failures are
// returned as plain errors.
func asFieldErrors(err error) (fieldErrors, error) {
	if err == nil {
		return nil, nil
	}
	var internal validation.InternalError
	if errors.As(err, &internal) {
		return nil, internal.InternalError()
	}
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		return nil, err
	}
	out := fieldErrors{}
	for field, ferr := range verrs {
		if ferr == nil {
			continue
		}
		out.add(field, ferr.Error())
	}
	return out, nil
}

func required(label string) validation.Rule {
	return validation.Required.Error(fmt.Sprintf("The %s field is required.", label))
}

// dateRule accepts the timestamp shapes the console and the feed importer
// send.
func dateRule(label string) validation.Rule {
	return validation.By(func(value any) error {
		s, _ := value.(string)
		if strings.TrimSpace(s) == "" {
			return nil
		}
		for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", time.DateOnly} {
			if _, err := time.Parse(layout, s); err == nil {
				return nil
			}
		}
		return validation.NewError("validation_date", fmt.Sprintf("The %s is not a valid date.", label))
	})
}
