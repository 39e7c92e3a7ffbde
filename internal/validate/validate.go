// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package validate checks feed-forward requests before any side effect.
// Every function is pure: it returns nil or an *apperrors.ValidationError
// and never touches storage.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/pdiddy/feedforward/internal/apperrors"
	"github.com/pdiddy/feedforward/pkg/types"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterValidation("notblank", validators.NotBlank)
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
}

// Supply validates a createSupply request.
func Supply(req *types.SupplyRequest) error {
	if req == nil {
		return apperrors.Invalid("", "missing supply request")
	}
	return structErr(validate.Struct(req))
}

// Demand validates a createDemand request. Expires, when set, must be
// strictly after now.
func Demand(req *types.DemandRequest, now time.Time) error {
	if req == nil {
		return apperrors.Invalid("", "missing demand request")
	}
	if err := structErr(validate.Struct(req)); err != nil {
		return err
	}
	if req.Expires != nil && !req.Expires.After(now) {
		return apperrors.Invalid("expires", "must be in the future")
	}
	if req.MaxResults != nil && *req.MaxResults < 1 {
		return apperrors.Invalid("max_results", "must be at least 1")
	}
	return nil
}

// TrustAdjustment validates an updateTrust request.
func TrustAdjustment(req *types.TrustAdjustment) error {
	if req == nil {
		return apperrors.Invalid("", "missing trust adjustment")
	}
	return structErr(validate.Struct(req))
}

// Match validates matchSupplyDemand parameters.
func Match(req *types.MatchRequest) error {
	if req == nil {
		return apperrors.Invalid("", "missing match request")
	}
	return structErr(validate.Struct(req))
}

// Sharing validates an enableSharing request.
func Sharing(req *types.SharingRequest) error {
	if req == nil {
		return apperrors.Invalid("", "missing sharing request")
	}
	return structErr(validate.Struct(req))
}

// CorpusQuery validates getCorpusStream parameters.
func CorpusQuery(q *types.CorpusQuery) error {
	if q == nil {
		return nil
	}
	if q.Since != nil && *q.Since < 0 {
		return apperrors.Invalid("since", "must be non-negative")
	}
	if q.MinQuality != nil && (*q.MinQuality < 0 || *q.MinQuality > 1) {
		return apperrors.Invalid("min_quality", "must be between 0 and 1")
	}
	return nil
}

// structErr converts the first validator failure into a ValidationError.
func structErr(err error) error {
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return apperrors.Invalid("", "%v", err)
	}
	fe := fieldErrs[0]
	return &apperrors.ValidationError{Field: fieldName(fe), Message: message(fe)}
}

// fieldName strips the struct prefix from the namespace, keeping element
// indexes such as keywords[3].
func fieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	isList := fe.Kind() == reflect.Slice || fe.Kind() == reflect.Map
	switch fe.Tag() {
	case "required":
		return "is required"
	case "notblank":
		return "must not be blank"
	case "min":
		if isList {
			return fmt.Sprintf("must contain at least %s entries", fe.Param())
		}
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if isList {
			return fmt.Sprintf("must contain at most %s entries", fe.Param())
		}
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}
