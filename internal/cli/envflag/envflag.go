// © 2024 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package envflag provides a wrapper around the standard flag package, allowing
// flags to be overridden by environment variables.
package envflag

import (
	"flag"
	"fmt"
	"strconv"
)

// Type is a constraint that permits only types supported by envflag package.
type Type interface {
	int | int64 | float64 | bool | string
}

// Value sets up a flag with the given name, default value, and usage
// information on fs.
//
// The flag can be overridden by the environment variable envName. The
// environment is consulted by [Apply] after command-line parsing, so values
// given on the command line always win.
func Value[T Type](fs *flag.FlagSet, name, envName string, value T, usage string) *T {
	result := new(T)
	usage += " Can be overridden by " + envName + " environment variable."
	fs.Var(newFlagValue(value, result, envName), name, usage)
	return result
}

// Apply sets every flag in fs that was registered with [Value] and not set on
// the command line from the environment variable it is bound to.
//
// Flags set by Apply are reported by [flag.FlagSet.Visit] just like flags set
// on the command line.
func Apply(fs *flag.FlagSet, getenv func(string) string) error {
	if getenv == nil {
		return nil
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	var err error
	fs.VisitAll(func(f *flag.Flag) {
		if err != nil || set[f.Name] {
			return
		}
		ev, ok := f.Value.(envBound)
		if !ok {
			return
		}
		v := getenv(ev.envName())
		if v == "" {
			return
		}
		if serr := fs.Set(f.Name, v); serr != nil {
			err = fmt.Errorf("invalid value %q for environment variable %s: %w", v, ev.envName(), serr)
		}
	})
	return err
}

type envBound interface {
	flag.Value
	envName() string
}

type flagValue[T any] struct {
	value *T
	env   string
}

func newFlagValue[T any](defaultValue T, value *T, env string) *flagValue[T] {
	*value = defaultValue
	return &flagValue[T]{value: value, env: env}
}

func (f *flagValue[T]) envName() string { return f.env }

func (f *flagValue[T]) IsBoolFlag() bool {
	_, ok := any(f.value).(*bool)
	return ok
}

func (f *flagValue[T]) String() string {
	if f.value == nil {
		return ""
	}
	return toString(*f.value)
}

func (f *flagValue[T]) Set(s string) error {
	switch any(f.value).(type) {
	case *int:
		v, err := strconv.Atoi(s)
		if err != nil {
			return err
		}
		*f.value = any(v).(T)
	case *int64:
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return err
		}
		*f.value = any(v).(T)
	case *float64:
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		*f.value = any(v).(T)
	case *bool:
		v, err := strconv.ParseBool(s)
		if err != nil {
			return err
		}
		*f.value = any(v).(T)
	case *string:
		*f.value = any(s).(T)
	default:
		return nil
	}
	return nil
}

func toString[T any](value T) string {
	switch v := any(value).(type) {
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case string:
		return v
	default:
		return ""
	}
}
