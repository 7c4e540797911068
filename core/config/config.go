package config

import (
	_ "embed"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	//go:embed default/config.yaml
	defaultConfigData []byte
)

// Configuration holds the compiled-in settings of the shell.
type Configuration struct {
	PromptEnv       string `json:"prompt_env" validate:"required,excludes=="`
	DefaultPrompt   string `json:"default_prompt" validate:"required"`
	HistoryLimit    int    `json:"history_limit" validate:"gte=0"`
	InterruptPrompt string `json:"interrupt_prompt"`
}

// Validate the configuration for basic semantic errors.
func (c *Configuration) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		return name
	})

	return validate.Struct(c)
}

// Prompt resolves the prompt text. lookup has the signature of
// os.LookupEnv.
func (c *Configuration) Prompt(lookup func(string) (string, bool)) string {
	if prompt, ok := lookup(c.PromptEnv); ok {
		return prompt
	}
	return c.DefaultPrompt
}

// Default returns a fresh copy of the built-in configuration.
func Default() *Configuration {
	cfg, err := Parse(defaultConfigData)
	if err != nil {
		// The embedded file is covered by tests, this never happens at runtime.
		panic(err)
	}
	return cfg
}
