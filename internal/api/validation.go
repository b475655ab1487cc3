package api

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"laundry-service-backend/internal/model"
	"laundry-service-backend/internal/order"
)

var setupValidatorOnce sync.Once

// SetupValidator reports JSON field names in errors and registers the
// orderstatus and machinestatus rules.
func SetupValidator() {
	setupValidatorOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}

		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		_ = v.RegisterValidation("orderstatus", func(fl validator.FieldLevel) bool {
			_, err := order.ParseStatus(fl.Field().String())
			return err == nil
		})
		_ = v.RegisterValidation("machinestatus", func(fl validator.FieldLevel) bool {
			return model.MachineStatus(fl.Field().String()).Valid()
		})
	})
}

func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "email":
		return "Invalid email format"
	case "orderstatus":
		return fmt.Sprintf("Invalid status: %v", e.Value())
	case "machinestatus":
		return "Invalid machine status"
	case "min", "gte":
		return e.Field() + " must be at least " + e.Param()
	case "max", "lte":
		return e.Field() + " must be at most " + e.Param()
	default:
		return "Invalid value for " + e.Field()
	}
}
