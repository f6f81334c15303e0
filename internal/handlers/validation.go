package handlers

import (
	"errors"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	apierrors "github.com/yukikurage/task-api/internal/errors"
)

var registerTagNames sync.Once

// useJSONFieldNames makes validation errors report the json/form name of a
// field instead of its Go name.
func useJSONFieldNames() {
	registerTagNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return fld.Name
		})
	})
}

// respondBindError answers a failed ShouldBind call with a 400 listing the
// offending fields when the validator produced them.
func respondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		apierrors.BadRequest(c, "Invalid request")
		return
	}

	details := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		details[fe.Field()] = describeRule(fe)
	}
	apierrors.BadRequestWithDetails(c, "Validation failed", details)
}

func describeRule(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "failed " + fe.Tag() + " validation"
	}
}

// parseID reads a positive decimal id from the named path parameter.
func parseID(c *gin.Context, param string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 63)
	if err != nil || id == 0 {
		apierrors.BadRequest(c, "Invalid "+param)
		return 0, false
	}
	return id, true
}

// parseStatusFilter reads the optional status query value. An empty value
// leaves the filter unset.
func parseStatusFilter(c *gin.Context, raw string) (*bool, bool) {
	if raw == "" {
		return nil, true
	}
	status, err := strconv.ParseBool(raw)
	if err != nil {
		apierrors.BadRequestWithDetails(c, "Validation failed", map[string]string{"status": "must be true or false"})
		return nil, false
	}
	return &status, true
}
