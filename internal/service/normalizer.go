package service

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/vanshika/movieshelf/backend/internal/domain"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// normalizeID trims surrounding whitespace from an external identifier.
func normalizeID(id string) string {
	return strings.TrimSpace(id)
}

// normalizeListParams canonicalizes sort keys and directions and fills in
// defaults for zero values. Unknown keys are left as given so validation can
// reject them.
func normalizeListParams(p ListParams) ListParams {
	p.Sort = strings.TrimSpace(p.Sort)
	if p.Sort == "" {
		p.Sort = domain.DefaultSortField
	} else if canonical, ok := domain.CanonicalSortField(p.Sort); ok {
		p.Sort = canonical
	}

	p.Order = strings.TrimSpace(p.Order)
	if p.Order == "" {
		p.Order = domain.DefaultSortOrder
	} else if canonical, ok := domain.CanonicalSortOrder(p.Order); ok {
		p.Order = canonical
	}

	if p.Limit == 0 {
		p.Limit = domain.DefaultLimit
	}
	return p
}

// sanitizeString collapses whitespace and trims the result.
func sanitizeString(value string) string {
	value = whitespaceRegex.ReplaceAllString(value, " ")
	return strings.TrimSpace(value)
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("sortfield", func(fl validator.FieldLevel) bool {
		_, ok := domain.CanonicalSortField(fl.Field().String())
		return ok
	})
	return v
}

func toValidationError(fe validator.FieldError) *domain.ValidationError {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "sortfield":
		return &domain.ValidationError{
			Field:   field,
			Message: fmt.Sprintf("%q is not sortable; use one of %s", sanitizeString(fe.Value().(string)), strings.Join(domain.SortableFields(), ", ")),
		}
	case "oneof":
		return &domain.ValidationError{Field: field, Message: fmt.Sprintf("must be one of %s", fe.Param())}
	case "gte":
		return &domain.ValidationError{Field: field, Message: "must be non-negative"}
	default:
		return &domain.ValidationError{Field: field, Message: fmt.Sprintf("failed %s validation", fe.Tag())}
	}
}
