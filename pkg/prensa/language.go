package prensa

import "slices"

// Language is an immutable value identifying one supported language.
// Code is the canonical code; Aliases are accepted alternates.
type Language struct {
	Name    string   `json:"name"`
	Code    string   `json:"code"`
	Aliases []string `json:"aliases,omitempty"`
}

// Is reports whether code matches the language's canonical code or any
// alias. Matching is case-sensitive and exact.
func (l Language) Is(code string) bool {
	return code == l.Code || slices.Contains(l.Aliases, code)
}

func (l Language) String() string { return l.Code }

// Directory is the static registry of supported languages. Its order
// is stable and drives numbered-menu presentation.
type Directory struct {
	languages []Language
}

// NewDirectory builds a directory with the given languages in order.
func NewDirectory(languages ...Language) *Directory {
	return &Directory{languages: slices.Clone(languages)}
}

// DefaultLanguages returns the directory shipped with the application.
func DefaultLanguages() *Directory {
	return NewDirectory(
		Language{Name: "Brazilian Portuguese", Code: "pt-br", Aliases: []string{"ptbr", "pt", "br"}},
		Language{Name: "English (US)", Code: "en-us", Aliases: []string{"enus", "en", "us"}},
		Language{Name: "Spanish", Code: "es"},
		Language{Name: "Chinese", Code: "zh"},
		Language{Name: "Japanese", Code: "ja"},
	)
}

// All returns the directory languages in registration order.
func (d *Directory) All() []Language {
	return slices.Clone(d.languages)
}

// Resolve matches a free-form code against every language's canonical
// code and aliases. Returns ErrLanguageNotFound when nothing matches.
func (d *Directory) Resolve(code string) (Language, error) {
	for _, lang := range d.languages {
		if lang.Is(code) {
			return lang, nil
		}
	}
	return Language{}, ErrLanguageNotFound
}

// MissingFor returns the directory languages the post has no content
// for, preserving directory order.
func (d *Directory) MissingFor(post *Post) []Language {
	var missing []Language
	for _, lang := range d.languages {
		if !post.HasLanguage(lang.Code) {
			missing = append(missing, lang)
		}
	}
	return missing
}
