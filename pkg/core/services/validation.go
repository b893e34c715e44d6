package services

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/wadjakorntonsri/linkbio/pkg/core/domain"
)

var usernamePattern = regexp.MustCompile(`^[a-z0-9_]{3,30}$`)

// profileFields mirrors the editable profile columns for validation.
type profileFields struct {
	Username        string `validate:"required,username"`
	DisplayName     string `validate:"max=80"`
	Bio             string `validate:"max=280"`
	AvatarURL       string `validate:"omitempty,http_url,max=2048"`
	Website         string `validate:"omitempty,http_url,max=2048"`
	SocialInstagram string `validate:"max=100"`
	SocialLinkedIn  string `validate:"max=100"`
	SocialTwitter   string `validate:"max=100"`
	SocialYouTube   string `validate:"max=100"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	return v
}

// validationError converts validator output into the domain error.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := &domain.ValidationError{Fields: make(map[string]string, len(verrs))}
	for _, fe := range verrs {
		out.Fields[fieldName(fe.Field())] = describe(fe)
	}
	return out
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "http_url":
		return "must be an http or https URL"
	case "username":
		return "must be 3-30 characters of a-z, 0-9 or _"
	default:
		return "is invalid"
	}
}

// fieldName turns Go field names into their JSON spelling.
func fieldName(name string) string {
	switch name {
	case "URL":
		return "url"
	case "AvatarURL":
		return "avatar_url"
	case "DisplayName":
		return "display_name"
	case "SocialInstagram":
		return "social_instagram"
	case "SocialLinkedIn":
		return "social_linkedin"
	case "SocialTwitter":
		return "social_twitter"
	case "SocialYouTube":
		return "social_youtube"
	default:
		return strings.ToLower(name)
	}
}

// NormalizeUsername lowercases a candidate and strips characters that cannot
// appear in a username.
func NormalizeUsername(raw string) string {
	raw = strings.ToLower(strings.TrimSpace(raw))
	var b strings.Builder
	for _, r := range raw {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
