package middleware

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/brindes/backend/internal/domain/sales"
	"github.com/brindes/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Custom binding tags understood by request structs
const (
	TagCostComponent = "cost_component"
	TagOrderStatus   = "order_status"
	TagPositive      = "positive"
)

// SetupValidator reports fields by their json/form name and registers the
// order-domain tags on gin's validator
func SetupValidator() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	RegisterValidations(v)
}

// RegisterValidations installs the field naming and custom tags on v
func RegisterValidations(v *validator.Validate) {
	v.RegisterTagNameFunc(fieldName)
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})
	_ = v.RegisterValidation(TagCostComponent, func(fl validator.FieldLevel) bool {
		_, err := sales.ParseComponentKind(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation(TagOrderStatus, func(fl validator.FieldLevel) bool {
		return sales.OrderStatus(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation(TagPositive, func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(fl.Field().String())
		return err == nil && d.IsPositive()
	})
}

func fieldName(fld reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name, _, _ := strings.Cut(fld.Tag.Get(tag), ",")
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return ""
}

// HandleValidationError writes a 400 listing every rejected field
func HandleValidationError(c *gin.Context, err error) {
	var details []dto.ValidationDetail
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			details = append(details, dto.ValidationDetail{Field: fe.Field(), Message: describe(fe)})
		}
	}
	c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse("Request validation failed", GetRequestID(c), details))
}

var tagMessages = map[string]string{
	"required":       "This field is required",
	"email":          "Invalid email format",
	"uuid":           "Invalid UUID format",
	TagCostComponent: "Unknown cost component",
	TagOrderStatus:   "Unknown order status",
	TagPositive:      "Must be greater than zero",
}

var boundMessages = map[string]string{
	"oneof": "Must be one of: ",
	"gte":   "Must be greater than or equal to ",
	"lte":   "Must be less than or equal to ",
	"gt":    "Must be greater than ",
	"lt":    "Must be less than ",
}

func describe(fe validator.FieldError) string {
	if msg, ok := tagMessages[fe.Tag()]; ok {
		return msg
	}
	if prefix, ok := boundMessages[fe.Tag()]; ok {
		return prefix + fe.Param()
	}
	unit := ""
	if fe.Kind() == reflect.String {
		unit = " characters"
	}
	switch fe.Tag() {
	case "min":
		return "Must be at least " + fe.Param() + unit
	case "max":
		return "Must be at most " + fe.Param() + unit
	}
	return "Invalid value"
}
