package reconcile

import (
	"fmt"

	"tresjolie.dev/transit/model"
)

// A stop code appears more than once within a single stop set.
type DuplicateKeyError struct {
	Code string
	Set  string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate stop code '%s' in %s", e.Code, e.Set)
}

// A record lacks a required field. Index is the record's position in
// its source (0 based); Code is set when the record has one.
type MissingFieldError struct {
	Set   string
	Index int
	Code  string
	Field string
}

func (e *MissingFieldError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: record %d (code '%s') is missing %s", e.Set, e.Index, e.Code, e.Field)
	}
	return fmt.Sprintf("%s: record %d is missing %s", e.Set, e.Index, e.Field)
}

// An override whose code matched no stop. Not fatal.
type UnmatchedOverride struct {
	Code  string
	Field model.Field
}

func (u UnmatchedOverride) String() string {
	return fmt.Sprintf("no stop %s found for %s", u.Code, u.Field)
}

// A record has a field with an unusable value, such as a coordinate
// that is not a finite number.
type InvalidFieldError struct {
	Set   string
	Index int
	Code  string
	Field string
	Value string
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("%s: record %d (code '%s') has invalid %s '%s'", e.Set, e.Index, e.Code, e.Field, e.Value)
}
