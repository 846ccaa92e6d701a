// Package ftag provides functional tags: a (class, function) classification
// pair that can be attached to a building block, e.g. protein::kinase.
//
// Tags are encoded as "class::function". The predefined families (Protein,
// Drug, Rna, ...) are enumerations of Member values carrying that encoding.
package ftag

import (
	"fmt"
	"strings"
)

// Sep separates the class from the function in the canonical encoding.
const Sep = "::"

// Tag is an immutable (class, function) pair.
type Tag struct {
	Class    string
	Function string
}

// New builds a Tag from its two parts. Neither part may contain the
// separator or begin or end with a colon.
func New(class, function string) (Tag, error) {
	if err := checkParts(class, function); err != nil {
		return Tag{}, err
	}
	return Tag{Class: class, Function: function}, nil
}

// Encode joins a class and a function with the separator. It rejects parts
// that Parse could not split back apart, such as "a:" (giving "a:::b").
func Encode(class, function string) (string, error) {
	if err := checkParts(class, function); err != nil {
		return "", err
	}
	return class + Sep + function, nil
}

func checkParts(parts ...string) error {
	for _, p := range parts {
		if strings.Contains(p, Sep) || strings.HasPrefix(p, ":") || strings.HasSuffix(p, ":") {
			return fmt.Errorf("invalid functional tag part %q: must not contain %q or begin or end with ':'", p, Sep)
		}
	}
	return nil
}

// Parse splits an encoded tag into class and function. The input must contain
// the separator exactly once.
func Parse(s string) (class, function string, err error) {
	parts := strings.Split(s, Sep)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("invalid functional tag %q: expected exactly one %q separator", s, Sep)
	}
	return parts[0], parts[1], nil
}

// FromMember parses a member's canonical value into a Tag.
func FromMember(m Member) (Tag, error) {
	class, function, err := Parse(m.Value())
	if err != nil {
		return Tag{}, err
	}
	return Tag{Class: class, Function: function}, nil
}

// String returns the canonical "class::function" encoding.
func (t Tag) String() string {
	return t.Class + Sep + t.Function
}

// Equal compares the (class, function) pairs.
func (t Tag) Equal(other Tag) bool {
	return t.Class == other.Class && t.Function == other.Function
}

// Matches reports whether the tag equals the tag encoded by an enum member.
func (t Tag) Matches(m Member) bool {
	class, function, err := Parse(m.Value())
	if err != nil {
		return false
	}
	return t.Class == class && t.Function == function
}

// IsZero reports whether the tag is unset.
func (t Tag) IsZero() bool {
	return t.Class == "" && t.Function == ""
}
