// Package validation turns form binding failures into field messages.
package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"rumal.store/web/internal/shared/apperr"
)

type FieldErrors map[string]string

// Bind binds the request form into dst and reports problems as an Invalid
// AppError carrying the field map.
func Bind(c *gin.Context, dst any) error {
	if err := c.ShouldBind(dst); err != nil {
		fields := FromBindError(err, dst)
		return apperr.InvalidErr(summary(fields), fields)
	}
	return nil
}

// FromBindError maps a bind/validation error to form field -> message.
// dst is the bound struct pointer, read for its form tags.
func FromBindError(err error, dst any) FieldErrors {
	out := FieldErrors{}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			out[fieldKey(dst, fe.StructField())] = messageForTag(fe.Tag(), fe.Param())
		}
		return out
	}

	out["_"] = "The form could not be read."
	return out
}

func summary(fields FieldErrors) string {
	if len(fields) == 1 {
		for k, msg := range fields {
			if k == "_" {
				return msg
			}
			return humanize(k) + ": " + msg
		}
	}
	return "Please check the highlighted fields."
}

func humanize(key string) string {
	key = strings.ReplaceAll(key, "_", " ")
	if key == "" {
		return key
	}
	return strings.ToUpper(key[:1]) + key[1:]
}

func fieldKey(dst any, structField string) string {
	t := reflect.TypeOf(dst)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return strings.ToLower(structField)
	}

	f, ok := t.FieldByName(structField)
	if !ok {
		return strings.ToLower(structField)
	}
	tag := f.Tag.Get("form")
	if i := strings.Index(tag, ","); i >= 0 {
		tag = tag[:i]
	}
	if tag == "" || tag == "-" {
		return strings.ToLower(structField)
	}
	return tag
}

func messageForTag(tag, param string) string {
	switch tag {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "min":
		return "Must be at least " + param + "."
	case "max":
		return "Must be at most " + param + "."
	case "oneof":
		return "Choose one of: " + strings.ReplaceAll(param, " ", ", ") + "."
	case "url":
		return "Enter a valid URL."
	default:
		return "Invalid value."
	}
}
