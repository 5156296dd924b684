package controllers

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"courseplatform/utils"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// video references must look like a YouTube URL or a bare 11-char id
	v.RegisterValidation("youtube", func(fl validator.FieldLevel) bool {
		return utils.ValidateYouTubeURL(fl.Field().String())
	})
	return v
}

// validationDetails flattens validator errors into a field -> failed-rule map
// for the error envelope.
func validationDetails(err error) map[string]string {
	details := map[string]string{}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			details[strings.ToLower(fe.Field())] = fe.Tag()
		}
	}
	return details
}
