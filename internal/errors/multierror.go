package errors

import "strings"

// MultiError collects errors from a multi-step flow, it is not safe for
// concurrent use.
type MultiError struct {
	Name   string
	Errors []error
}

func NewMultiError(name string) *MultiError {
	return &MultiError{Name: name}
}

func (m *MultiError) Append(err error) {
	if err != nil {
		m.Errors = append(m.Errors, err)
	}
}

func (m *MultiError) Error() string {
	var sb strings.Builder
	sb.WriteString(m.Name + ":")
	for _, err := range m.Errors {
		sb.WriteString("\n " + err.Error())
	}
	return sb.String()
}

// ToErr returns nil when no errors were collected so the result can be
// returned directly from a function
func (m *MultiError) ToErr() error {
	if m == nil || len(m.Errors) == 0 {
		return nil
	}
	return m
}
