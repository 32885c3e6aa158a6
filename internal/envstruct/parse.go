package envstruct

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	ErrEnvNotSet    = errors.New("environment variable not set")
	ErrInvalidValue = errors.New("v must be a pointer to a struct")
)

// Populate fills the string fields of the struct pointed to by v from the
// environment.
//
// lookupEnv has the same signature as [os.LookupEnv] so tests can substitute
// their own environment. Fields opt in with an `env:"ENV_VAR"` tag. When the
// variable is unset the `envDefault:"value"` tag supplies the value; without
// one ErrEnvNotSet is returned.
func Populate(v any, lookupEnv func(string) (string, bool)) error {
	ptrRef := reflect.ValueOf(v)
	if ptrRef.Kind() != reflect.Ptr {
		return fmt.Errorf("%w: not pointer: %v", ErrInvalidValue, v)
	}
	ref := ptrRef.Elem()
	if ref.Kind() != reflect.Struct {
		return fmt.Errorf("%w: not struct: %v", ErrInvalidValue, v)
	}

	refType := ref.Type()

	var errs []error
	for i := range refType.NumField() {
		if err := populateField(ref.Field(i), refType.Field(i), lookupEnv); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func populateField(
	field reflect.Value, fieldType reflect.StructField, lookupEnv func(string) (string, bool)) error {
	name, ok := fieldType.Tag.Lookup("env")
	if !ok {
		return nil
	}
	if !field.CanSet() {
		return fmt.Errorf("%w: cannot set field: %s", ErrInvalidValue, fieldType.Name)
	}
	if field.Kind() != reflect.String {
		return fmt.Errorf("%w: only strings are supported - field: %s, type: %s, env: %s",
			ErrInvalidValue, fieldType.Name, field.Kind().String(), name)
	}

	value, ok := lookupEnv(name)
	if !ok {
		if value, ok = fieldType.Tag.Lookup("envDefault"); !ok {
			return fmt.Errorf("%w: %s", ErrEnvNotSet, name)
		}
	}
	field.SetString(value)
	return nil
}
