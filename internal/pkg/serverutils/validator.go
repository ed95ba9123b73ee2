package serverutils

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/soujanyavullam/epic-web-app/internal/apperror"
)

var validate = validator.New()

// ValidateRequest runs struct tag validation and folds failures into a
// single invalid-argument error.
func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperror.Wrap(apperror.KindInvalid, "serverutils.ValidateRequest", "invalid request", err)
	}

	fields := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		fields = append(fields, fe.Field()+" ("+fe.Tag()+")")
	}
	return apperror.New(apperror.KindInvalid, "serverutils.ValidateRequest",
		"validation failed: "+strings.Join(fields, ", "))
}
