package translate

import "fmt"

// UnsupportedOperatorError reports a condition operator with no remote
// filter equivalent. It is raised while building the request, before
// any network call.
type UnsupportedOperatorError struct {
	Operator string
}

func (e *UnsupportedOperatorError) Error() string {
	return fmt.Sprintf("no remote filter operator for %q", e.Operator)
}

// UnknownPropertyError reports a property name absent from the target
// table's schema.
type UnknownPropertyError struct {
	Property string
}

func (e *UnknownPropertyError) Error() string {
	return fmt.Sprintf("unknown property %q", e.Property)
}

// ConfigError reports missing configuration required by a statement
// kind, such as the parent container for CREATE TABLE.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "configuration error: " + e.Reason
}

// TranslationError reports a statement that cannot be compiled into a
// remote request for a reason other than an unsupported operator or an
// unknown property.
type TranslationError struct {
	Reason string
}

func (e *TranslationError) Error() string {
	return "translation error: " + e.Reason
}
