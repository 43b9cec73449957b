package order

import (
	"regexp"
	"strings"
)

// Field names a checkout form field.
type Field string

const (
	FieldName      Field = "name"
	FieldPhone     Field = "phone"
	FieldStreet    Field = "street"
	FieldBuilding  Field = "building"
	FieldFloor     Field = "floor"
	FieldApartment Field = "apartment"
	FieldLandmark  Field = "landmark"
	FieldArea      Field = "area"
	FieldCity      Field = "city"
)

// Fields lists the form fields in display order.
var Fields = []Field{
	FieldName, FieldPhone, FieldStreet, FieldBuilding, FieldFloor,
	FieldApartment, FieldLandmark, FieldArea, FieldCity,
}

// Cities are the delivery cities.
var Cities = []string{"Cairo", "Giza"}

var patterns = map[Field]*regexp.Regexp{
	FieldName:      regexp.MustCompile(`^[\p{L} .'-]{2,50}$`),
	FieldPhone:     regexp.MustCompile(`^01[0125][0-9]{8}$`),
	FieldStreet:    regexp.MustCompile(`^[\p{L}\p{N} .,'/-]{2,100}$`),
	FieldBuilding:  regexp.MustCompile(`^[\p{L}\p{N} /-]{1,20}$`),
	FieldFloor:     regexp.MustCompile(`^[\p{L}\p{N} -]{1,10}$`),
	FieldApartment: regexp.MustCompile(`^[\p{L}\p{N} /-]{1,10}$`),
	FieldLandmark:  regexp.MustCompile(`^([\p{L}\p{N} .,'/-]{2,100})?$`),
	FieldArea:      regexp.MustCompile(`^[\p{L}\p{N} .,'-]{2,50}$`),
	FieldCity:      regexp.MustCompile(`^(` + strings.Join(Cities, "|") + `)$`),
}

// hints are shown next to a field that failed validation.
var hints = map[Field]string{
	FieldName:      "Enter your full name",
	FieldPhone:     "Enter an Egyptian mobile number, e.g. 01012345678",
	FieldStreet:    "Enter the street name",
	FieldBuilding:  "Enter the building number",
	FieldFloor:     "Enter the floor",
	FieldApartment: "Enter the apartment number",
	FieldLandmark:  "Landmark is too short or contains unsupported characters",
	FieldArea:      "Enter the area",
	FieldCity:      "Delivery is available in " + strings.Join(Cities, " and ") + " only",
}

// ValidateField reports whether value is acceptable for field. Surrounding
// whitespace is ignored. Unknown fields never validate.
func ValidateField(field Field, value string) bool {
	re, ok := patterns[field]
	if !ok {
		return false
	}
	return re.MatchString(strings.TrimSpace(value))
}

// Hint returns the correction message for field.
func Hint(field Field) string {
	return hints[field]
}

// ValidationError lists the fields of a draft that failed validation.
type ValidationError struct {
	Fields []Field
}

func (e *ValidationError) Error() string {
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = string(f)
	}
	return "invalid fields: " + strings.Join(names, ", ")
}

// UserMessage implements the notice message contract.
func (e *ValidationError) UserMessage() string {
	if len(e.Fields) == 1 {
		return Hint(e.Fields[0])
	}
	return "Please correct the highlighted fields"
}

// Checker records the outcome of the latest check of every field, so that
// a form can validate on change and again before submission.
type Checker struct {
	results map[Field]bool
}

// NewChecker returns a Checker with no recorded results.
func NewChecker() *Checker {
	return &Checker{results: make(map[Field]bool, len(Fields))}
}

// Check validates value for field and records the result.
func (c *Checker) Check(field Field, value string) bool {
	ok := ValidateField(field, value)
	c.results[field] = ok
	return ok
}

// Result returns the recorded result for field and whether one exists.
func (c *Checker) Result(field Field) (ok, checked bool) {
	ok, checked = c.results[field]
	return ok, checked
}

// Results returns a copy of the pass/fail map.
func (c *Checker) Results() map[Field]bool {
	out := make(map[Field]bool, len(c.results))
	for f, ok := range c.results {
		out[f] = ok
	}
	return out
}

// CheckAddress checks every field of a and returns a *ValidationError
// listing the failures in display order, or nil.
func (c *Checker) CheckAddress(a Address) error {
	values := addressValues(a)
	var failed []Field
	for _, f := range Fields {
		if !c.Check(f, values[f]) {
			failed = append(failed, f)
		}
	}
	if len(failed) > 0 {
		return &ValidationError{Fields: failed}
	}
	return nil
}

func addressValues(a Address) map[Field]string {
	return map[Field]string{
		FieldName:      a.Name,
		FieldPhone:     a.Phone,
		FieldStreet:    a.Street,
		FieldBuilding:  a.Building,
		FieldFloor:     a.Floor,
		FieldApartment: a.Apartment,
		FieldLandmark:  a.Landmark,
		FieldArea:      a.Area,
		FieldCity:      a.City,
	}
}

// Normalize trims surrounding whitespace from every field.
func (a Address) Normalize() Address {
	return Address{
		Name:      strings.TrimSpace(a.Name),
		Phone:     strings.TrimSpace(a.Phone),
		Street:    strings.TrimSpace(a.Street),
		Building:  strings.TrimSpace(a.Building),
		Floor:     strings.TrimSpace(a.Floor),
		Apartment: strings.TrimSpace(a.Apartment),
		Landmark:  strings.TrimSpace(a.Landmark),
		Area:      strings.TrimSpace(a.Area),
		City:      strings.TrimSpace(a.City),
	}
}
