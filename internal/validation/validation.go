// Package validation checks the shape of profile, experience and education
// payloads before they reach the service layer.
//
// Rules are declared as validator struct tags on the typed inputs; failures
// are reported keyed by the payload's JSON field name.
package validation

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/devconnect/profile-service/internal/profile"
	"github.com/go-playground/validator/v10"
)

// DateLayouts are the accepted formats for from/to dates.
var DateLayouts = []string{"2006-01-02", time.RFC3339}

// Result is the outcome of validating one payload.
type Result struct {
	Errors  map[string]string `json:"errors"`
	IsValid bool              `json:"isValid"`
}

type ProfileInput struct {
	Handle         string `json:"handle" validate:"omitempty,min=2,max=40"`
	Company        string `json:"company"`
	Website        string `json:"website" validate:"omitempty,url"`
	Location       string `json:"location"`
	Bio            string `json:"bio" validate:"omitempty,max=500"`
	Status         string `json:"status" validate:"required"`
	GitHubUsername string `json:"githubusername"`
	Skills         string `json:"skills"`

	skillsSet bool
}

type ExperienceInput struct {
	Title       string `json:"title" validate:"required"`
	Company     string `json:"company" validate:"required"`
	Location    string `json:"location"`
	From        string `json:"from" validate:"required,date"`
	To          string `json:"to" validate:"omitempty,date"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

type EducationInput struct {
	School      string `json:"school" validate:"required"`
	Degree      string `json:"degree" validate:"required"`
	Major       string `json:"major" validate:"required"`
	From        string `json:"from" validate:"required,date"`
	To          string `json:"to" validate:"omitempty,date"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("date", func(fl validator.FieldLevel) bool {
		_, err := ParseDate(fl.Field().String())
		return err == nil
	}); err != nil {
		panic(err)
	}
	return v
}

// ParseDate accepts any of DateLayouts.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range DateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

func ValidateProfileInput(data map[string]any) Result {
	in := ProfileInputFromMap(data)
	return check(&in)
}

func ValidateExperienceInput(data map[string]any) Result {
	in := ExperienceInputFromMap(data)
	return check(&in)
}

func ValidateEducationInput(data map[string]any) Result {
	in := EducationInputFromMap(data)
	return check(&in)
}

func check(in any) Result {
	res := Result{Errors: map[string]string{}}
	if err := validate.Struct(in); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			res.Errors["error"] = err.Error()
			return res
		}
		for _, fe := range verrs {
			res.Errors[fe.Field()] = message(fe)
		}
	}
	res.IsValid = len(res.Errors) == 0
	return res
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s field is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must not exceed %s characters", field, fe.Param())
	case "url":
		return "not a valid URL"
	case "date":
		return fmt.Sprintf("%s must be a date (YYYY-MM-DD)", field)
	}
	return fmt.Sprintf("%s is invalid", field)
}

// ProfileInputFromMap reads the profile fields out of a decoded JSON body.
// Non-string values are treated as absent.
func ProfileInputFromMap(data map[string]any) ProfileInput {
	in := ProfileInput{
		Handle:         str(data, "handle"),
		Company:        str(data, "company"),
		Website:        str(data, "website"),
		Location:       str(data, "location"),
		Bio:            str(data, "bio"),
		Status:         str(data, "status"),
		GitHubUsername: str(data, "githubusername"),
	}
	if s, ok := data["skills"].(string); ok {
		in.Skills = s
		in.skillsSet = true
	}
	return in
}

// Fields converts the input into a partial update: empty strings are left
// out, skills are split whenever the key was sent.
func (in ProfileInput) Fields() profile.Fields {
	opt := func(s string) *string {
		if s == "" {
			return nil
		}
		return &s
	}
	f := profile.Fields{
		Handle:         opt(in.Handle),
		Company:        opt(in.Company),
		Website:        opt(in.Website),
		Location:       opt(in.Location),
		Bio:            opt(in.Bio),
		Status:         opt(in.Status),
		GitHubUsername: opt(in.GitHubUsername),
	}
	if in.skillsSet {
		f.Skills = profile.SplitSkills(in.Skills)
		f.SkillsSet = true
	}
	return f
}

func ExperienceInputFromMap(data map[string]any) ExperienceInput {
	return ExperienceInput{
		Title:       str(data, "title"),
		Company:     str(data, "company"),
		Location:    str(data, "location"),
		From:        str(data, "from"),
		To:          str(data, "to"),
		Current:     boolean(data, "current"),
		Description: str(data, "description"),
	}
}

// Experience converts a validated input; call only after validation passed.
func (in ExperienceInput) Experience() (profile.Experience, error) {
	from, to, err := dates(in.From, in.To)
	if err != nil {
		return profile.Experience{}, err
	}
	return profile.Experience{
		Title:       in.Title,
		Company:     in.Company,
		Location:    in.Location,
		From:        from,
		To:          to,
		Current:     in.Current,
		Description: in.Description,
	}, nil
}

func EducationInputFromMap(data map[string]any) EducationInput {
	return EducationInput{
		School:      str(data, "school"),
		Degree:      str(data, "degree"),
		Major:       str(data, "major"),
		From:        str(data, "from"),
		To:          str(data, "to"),
		Current:     boolean(data, "current"),
		Description: str(data, "description"),
	}
}

func (in EducationInput) Education() (profile.Education, error) {
	from, to, err := dates(in.From, in.To)
	if err != nil {
		return profile.Education{}, err
	}
	return profile.Education{
		School:      in.School,
		Degree:      in.Degree,
		Major:       in.Major,
		From:        from,
		To:          to,
		Current:     in.Current,
		Description: in.Description,
	}, nil
}

func dates(fromRaw, toRaw string) (time.Time, *time.Time, error) {
	from, err := ParseDate(fromRaw)
	if err != nil {
		return time.Time{}, nil, err
	}
	if toRaw == "" {
		return from, nil, nil
	}
	to, err := ParseDate(toRaw)
	if err != nil {
		return time.Time{}, nil, err
	}
	return from, &to, nil
}

func str(data map[string]any, key string) string {
	s, _ := data[key].(string)
	return s
}

// boolean accepts JSON true as well as the "true"/"on" strings HTML forms send.
func boolean(data map[string]any, key string) bool {
	switch v := data[key].(type) {
	case bool:
		return v
	case string:
		return v == "true" || v == "on"
	}
	return false
}
