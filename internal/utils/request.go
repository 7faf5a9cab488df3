package utils

import (
	"errors"
	"net/http"
	"strconv"

	appErrors "github.com/aaravmahajanofficial/dealer-incentive-platform/internal/errors"
	"github.com/aaravmahajanofficial/dealer-incentive-platform/internal/listing"
	"github.com/aaravmahajanofficial/dealer-incentive-platform/internal/utils/response"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ParseAndValidate decodes the body into dest and runs its struct tags. On
// failure it writes the error response and returns false.
func ParseAndValidate(r *http.Request, w http.ResponseWriter, dest any, validate *validator.Validate) bool {
	if err := DecodeJSONBody(r, dest); err != nil {
		response.Error(w, appErrors.BadRequestError(err.Error()))
		return false
	}

	if err := ValidateStruct(validate, dest); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			response.ValidationError(w, validationErrs)
			return false
		}

		response.Error(w, appErrors.BadRequestError("Invalid input data").WithError(err))

		return false
	}

	return true
}

// ParseID reads a uuid path value.
func ParseID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		return uuid.Nil, appErrors.AddValidationError(name, "must be a valid UUID").WithError(err)
	}

	return id, nil
}

// PageParams reads ?page= and ?pageSize=, normalised to listing defaults.
func PageParams(r *http.Request) (int, int) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))

	return listing.Normalize(page, pageSize)
}

// FilterParams reads ?search=, ?status= and the named facet parameters.
func FilterParams(r *http.Request, facets ...string) listing.Filter {
	q := r.URL.Query()

	filter := listing.Filter{
		Search: q.Get("search"),
		Status: q.Get("status"),
	}

	for _, name := range facets {
		if v := q.Get(name); v != "" {
			if filter.Facets == nil {
				filter.Facets = make(map[string]string, len(facets))
			}

			filter.Facets[name] = v
		}
	}

	return filter
}
