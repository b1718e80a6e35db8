package book

import (
	"bytes"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report JSON field names, not Go struct field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Year is an int that also accepts a quoted numeric string, since HTML forms
// submit publishedYear as a string and the API coerces it.
type Year int

func (y *Year) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if len(data) == 0 || string(data) == "null" {
		*y = 0
		return nil
	}
	n, err := strconv.Atoi(string(data))
	if err != nil {
		return fmt.Errorf("publishedYear must be a number: %w", err)
	}
	*y = Year(n)
	return nil
}

// Input is the request body for creating or replacing a book. Optional
// fields default to the empty string.
type Input struct {
	Title         string `json:"title" validate:"required"`
	Author        string `json:"author" validate:"required"`
	Genre         string `json:"genre" validate:"required"`
	ISBN          string `json:"isbn" validate:"required"`
	PublishedYear Year   `json:"publishedYear" validate:"required"`
	Description   string `json:"description"`
	CoverURL      string `json:"coverUrl"`
}

// ValidationError reports which required fields were missing or blank.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}

// Normalize trims whitespace from every text field, so that blank-but-present
// values fail the required check just like absent ones.
func (in *Input) Normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Author = strings.TrimSpace(in.Author)
	in.Genre = strings.TrimSpace(in.Genre)
	in.ISBN = strings.TrimSpace(in.ISBN)
	in.Description = strings.TrimSpace(in.Description)
	in.CoverURL = strings.TrimSpace(in.CoverURL)
}

// Validate checks the required fields. Callers must Normalize first.
func (in Input) Validate() error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	verr := &ValidationError{}
	for _, fe := range err.(validator.ValidationErrors) {
		verr.Fields = append(verr.Fields, fe.Field())
	}
	return verr
}

// Fields converts a normalized, validated input into storable fields.
func (in Input) Fields() Fields {
	return Fields{
		Title:         in.Title,
		Author:        in.Author,
		Genre:         in.Genre,
		ISBN:          in.ISBN,
		PublishedYear: int(in.PublishedYear),
		Description:   in.Description,
		CoverURL:      in.CoverURL,
	}
}
