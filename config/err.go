package config

import (
	"errors"

	"github.com/ezrec/rize/translate"
)

var f = translate.From

var (
	ErrConfigType  = errors.New(f("wrong type"))
	ErrConfigRange = errors.New(f("out of range"))
)

// ErrConfig locates a configuration failure by setting name.
type ErrConfig struct {
	Key string
	Err error
}

func (err ErrConfig) Error() string {
	return f("config %v: %v", err.Key, err.Err)
}

func (err ErrConfig) Unwrap() error {
	return err.Err
}
