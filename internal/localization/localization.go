package localization

import (
	"embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed translations/*.yaml
var translationsFS embed.FS

const DefaultLanguage = "es"

var languages = []string{"es", "en"}

type Service struct {
	translations map[string]map[string]interface{}
	fallback     string
}

// NewService loads the embedded catalogs. fallback is used for unknown languages and
// defaults to Spanish.
func NewService(fallback string) (*Service, error) {
	s := &Service{
		translations: make(map[string]map[string]interface{}),
		fallback:     DefaultLanguage,
	}

	for _, lang := range languages {
		data, err := translationsFS.ReadFile(fmt.Sprintf("translations/%s.yaml", lang))
		if err != nil {
			return nil, fmt.Errorf("read %s translations: %w", lang, err)
		}

		var translations map[string]interface{}
		if err := yaml.Unmarshal(data, &translations); err != nil {
			return nil, fmt.Errorf("parse %s translations: %w", lang, err)
		}

		s.translations[lang] = translations
	}

	if _, ok := s.translations[fallback]; ok {
		s.fallback = fallback
	}
	return s, nil
}

// Get retrieves a translation by key for the given language
// Key format: "section.subsection.key" or "section.key"
// Params can contain placeholders like {{name}}, {{amount}}, etc.
func (s *Service) Get(lang, key string, params map[string]interface{}) string {
	langTranslations, ok := s.translations[lang]
	if !ok {
		langTranslations = s.translations[s.fallback]
	}

	parts := strings.Split(key, ".")
	var current interface{} = langTranslations

	for _, part := range parts {
		if m, ok := current.(map[string]interface{}); ok {
			current = m[part]
		} else {
			return key
		}
	}

	text, ok := current.(string)
	if !ok {
		return key
	}

	return s.replacePlaceholders(text, params)
}

// T is Get in the fallback language.
func (s *Service) T(key string, params map[string]interface{}) string {
	return s.Get(s.fallback, key, params)
}

func (s *Service) replacePlaceholders(text string, params map[string]interface{}) string {
	if params == nil {
		return text
	}

	result := text
	for key, value := range params {
		placeholder := fmt.Sprintf("{{%s}}", key)
		result = strings.ReplaceAll(result, placeholder, fmt.Sprint(value))
	}

	return result
}
