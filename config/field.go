package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"text/template"

	"github.com/epcltv/epcltv/color"
	"github.com/epcltv/epcltv/constant"
	"github.com/epcltv/epcltv/style"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// Field is a registered configuration key with its default value.
type Field struct {
	Key         string
	Value       any
	Description string

	// validate rejects values outside the accepted range. Nil accepts anything
	// of the default's type.
	validate func(value any) error
}

// Validate checks value against the field type and its constraints.
func (f *Field) Validate(value any) error {
	if reflect.TypeOf(value) != reflect.TypeOf(f.Value) {
		return fmt.Errorf("%s expects %s, got %T", f.Key, f.typeName(), value)
	}
	if f.validate == nil {
		return nil
	}
	if err := f.validate(value); err != nil {
		return fmt.Errorf("invalid value for %s: %w", f.Key, err)
	}
	return nil
}

// Current returns the effective value converted to the type of the default.
func (f *Field) Current() any {
	switch f.Value.(type) {
	case string:
		return viper.GetString(f.Key)
	case int:
		return viper.GetInt(f.Key)
	case bool:
		return viper.GetBool(f.Key)
	case []string:
		return viper.GetStringSlice(f.Key)
	default:
		return viper.Get(f.Key)
	}
}

// Env returns the environment variable bound to the field.
func (f *Field) Env() string {
	return strings.ToUpper(constant.App + "_" + EnvKeyReplacer.Replace(f.Key))
}

func (f *Field) Pretty() string {
	var b strings.Builder
	lo.Must0(prettyTemplate.Execute(&b, f))
	return b.String()
}

type fieldJSON struct {
	Key         string `json:"key"`
	Env         string `json:"env"`
	Value       any    `json:"value"`
	Default     any    `json:"default"`
	Description string `json:"description"`
	Type        string `json:"type"`
}

func (f *Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(fieldJSON{
		Key:         f.Key,
		Env:         f.Env(),
		Value:       f.Current(),
		Default:     f.Value,
		Description: f.Description,
		Type:        f.typeName(),
	})
}

func (f *Field) typeName() string {
	if f.Value == nil {
		return "unknown"
	}
	return reflect.TypeOf(f.Value).String()
}

func highlight(v any) string {
	switch value := v.(type) {
	case bool:
		if value {
			return style.Fg(color.Green)(strconv.FormatBool(value))
		}
		return style.Fg(color.Red)(strconv.FormatBool(value))
	case string:
		return style.Fg(color.Yellow)(strconv.Quote(value))
	case []string:
		return "[" + strings.Join(lo.Map(value, func(s string, _ int) string {
			return highlight(s)
		}), ", ") + "]"
	default:
		return fmt.Sprint(value)
	}
}

var prettyTemplate = template.Must(template.New("field").Funcs(template.FuncMap{
	"faint":  style.Faint,
	"label":  style.Fg(color.Blue),
	"purple": style.Fg(color.Purple),
	"hl":     highlight,
}).Parse(`{{ faint .Description }}
{{ label "Key:" }}     {{ purple .Key }}
{{ label "Env:" }}     {{ .Env }}
{{ label "Value:" }}   {{ hl .Current }}
{{ label "Default:" }} {{ hl .Value }}`))
