package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type entry struct {
	once  sync.Once
	value any
	err   error
}

var (
	mu      sync.Mutex
	entries = map[reflect.Type]*entry{}

	defaultEnvOnce sync.Once
)

// LoadEnv loads the given .env files into the process environment, or the
// .env file of the working directory when no path is given. Variables that
// are already set are not overridden, so earlier files take precedence.
func LoadEnv(paths ...string) error {
	if err := godotenv.Load(paths...); err != nil {
		return errors.Join(ErrLoadingEnvFile, err)
	}
	return nil
}

// MustLoadEnv is like LoadEnv but panics on failure.
func MustLoadEnv(paths ...string) {
	if err := LoadEnv(paths...); err != nil {
		panic(err)
	}
}

// Load parses the environment into v. The optional .env file of the working
// directory is read on first use. Each type is parsed once per process and
// later calls receive a copy of the cached value; a failed parse is not
// cached.
//
//	var cfg systemuser.Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
func Load[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}
	defaultEnvOnce.Do(func() { _ = godotenv.Load() })

	typ := reflect.TypeFor[T]()
	if typ.Kind() != reflect.Struct {
		return fmt.Errorf("%w: %s", ErrInvalidConfigType, typ)
	}

	mu.Lock()
	e, ok := entries[typ]
	if !ok {
		e = &entry{}
		entries[typ] = e
	}
	mu.Unlock()

	e.once.Do(func() {
		var parsed T
		if err := env.Parse(&parsed); err != nil {
			e.err = errors.Join(ErrParsingConfig, err)
			return
		}
		e.value = parsed
	})

	if e.err != nil {
		mu.Lock()
		if entries[typ] == e {
			delete(entries, typ)
		}
		mu.Unlock()
		return e.err
	}

	*v = e.value.(T)
	return nil
}

// MustLoad is like Load but panics on failure.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}

// Reload drops the cached value of T and parses the environment again.
func Reload[T any](v *T) error {
	mu.Lock()
	delete(entries, reflect.TypeFor[T]())
	mu.Unlock()
	return Load(v)
}

// Reset clears every cached configuration.
func Reset() {
	mu.Lock()
	entries = map[reflect.Type]*entry{}
	mu.Unlock()
}
