package utils

import (
	stdErrors "errors"
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

func ParseAndValidate(r *http.Request, w http.ResponseWriter, dest any, validate *validator.Validate) bool {

	r.Body = http.MaxBytesReader(w, r.Body, MaxJSONBodySize)

	if err := DecodeJSONBody(r, dest); err != nil {
		slog.Warn("Invalid request", slog.String("error", err.Error()))

		var tooLarge *http.MaxBytesError
		if stdErrors.As(err, &tooLarge) {
			response.Error(w, errors.RequestTooLargeError("Request body too large").WithError(err))
			return false
		}

		response.Error(w, errors.BadRequestError("Invalid request body").WithError(err))
		return false
	}

	if err := ValidateStruct(validate, dest); err != nil {
		slog.Warn("Validation failed", slog.String("error", err.Error()))
		if validationErrs, ok := AsValidationErrors(err); ok {
			response.ValidationError(w, validationErrs)
			return false
		}
		response.Error(w, errors.ValidationError("Invalid input data").WithError(err))
		return false
	}

	return true

}
