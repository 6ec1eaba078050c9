package asciimath

import (
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

var (
	vOnce sync.Once
	vSvc  *validator.Validate
)

// reasons 自定义 tag 的错误说明
var reasons = map[string]string{
	"amprefixes": "at least one prefix is required and each must be a single word",
	"amopen":     "must start with exactly one backtick and be longer than one character",
	"amclose":    "must end with exactly one backtick and be longer than one character",
	"amsymbol":   "each rule needs exactly a symbol and its LaTeX",
}

// settingsValidator returns the validator singleton with yaml tag names and the custom tags.
func settingsValidator() *validator.Validate {
	vOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())

		// 错误信息中使用 yaml 字段名
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			tag := fld.Tag.Get("yaml")
			if tag == "-" || tag == "" {
				return fld.Name
			}
			if idx := strings.Index(tag, ","); idx >= 0 {
				tag = tag[:idx]
			}
			return tag
		})

		_ = v.RegisterValidation("amprefixes", validPrefixes)
		_ = v.RegisterValidation("amopen", func(fl validator.FieldLevel) bool {
			open := fl.Field().String()
			return len(open) > 1 && strings.HasPrefix(open, "`") && !strings.HasPrefix(open, "``")
		})
		_ = v.RegisterValidation("amclose", func(fl validator.FieldLevel) bool {
			closing := fl.Field().String()
			return len(closing) > 1 && strings.HasSuffix(closing, "`") && !strings.HasSuffix(closing, "``")
		})
		_ = v.RegisterValidation("amsymbol", func(fl validator.FieldLevel) bool {
			rule, ok := fl.Field().Interface().([]string)
			return ok && len(rule) == 2 &&
				strings.TrimSpace(rule[0]) != "" && strings.TrimSpace(rule[1]) != ""
		})

		vSvc = v
	})
	return vSvc
}

// validPrefixes 至少一个非空前缀，且每个都是单个词
func validPrefixes(fl validator.FieldLevel) bool {
	prefixes, ok := fl.Field().Interface().([]string)
	if !ok {
		return false
	}
	n := 0
	for _, p := range prefixes {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if strings.ContainsAny(p, " \t`~") {
			return false
		}
		n++
	}
	return n > 0
}

// validateSettings 把第一个 validator.FieldError 转为 *ConfigError
func validateSettings(s *Settings) error {
	err := settingsValidator().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &ConfigError{Field: "settings", Reason: "cannot validate", Err: err}
	}
	fe := verrs[0]
	reason, ok := reasons[fe.Tag()]
	if !ok {
		reason = "failed " + fe.Tag()
	}
	return &ConfigError{Field: fieldName(fe.Namespace()), Reason: reason}
}

// fieldName "Settings.customSymbols[1]" → "customSymbols"
func fieldName(ns string) string {
	if idx := strings.Index(ns, "."); idx >= 0 {
		ns = ns[idx+1:]
	}
	if idx := strings.Index(ns, "["); idx >= 0 {
		ns = ns[:idx]
	}
	return ns
}
