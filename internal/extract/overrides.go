package extract

import "strings"

// Overrides are submitter-supplied values that replace extracted fields.
// Empty fields leave the extracted value alone.
type Overrides struct {
	Title    string
	Authors  []string
	Abstract string
}

// ParseAuthorList splits a comma-separated author list as given on the
// command line or in INPUT_AUTHORS.
func ParseAuthorList(s string) []string {
	var authors []string
	for _, a := range strings.Split(s, ",") {
		if a = strings.TrimSpace(a); a != "" {
			authors = append(authors, a)
		}
	}
	return authors
}

// IsEmpty reports whether no override is set.
func (o Overrides) IsEmpty() bool {
	return o.Title == "" && len(o.Authors) == 0 && o.Abstract == ""
}

// Apply replaces the fields of r that o sets and marks them Manual.
func (r *Record) Apply(o Overrides) {
	if r.Confidence == nil {
		r.Confidence = make(map[string]Confidence, 3)
	}
	if t := strings.TrimSpace(o.Title); t != "" {
		r.Title = t
		r.Confidence[FieldTitle] = Manual
	}
	var authors []string
	for _, a := range o.Authors {
		if a = strings.TrimSpace(a); a != "" {
			authors = append(authors, a)
		}
	}
	if len(authors) > 0 {
		r.Authors = authors
		r.Confidence[FieldAuthors] = Manual
	}
	if a := strings.TrimSpace(o.Abstract); a != "" {
		r.Abstract = a
		r.Confidence[FieldAbstract] = Manual
	}
}
