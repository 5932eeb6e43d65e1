package internal

import (
	"embed"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.toml
var localeFS embed.FS

var (
	bundleOnce sync.Once
	bundle     *i18n.Bundle

	localizerMu sync.RWMutex
	localizer   *i18n.Localizer
)

func getBundle() *i18n.Bundle {
	bundleOnce.Do(func() {
		bundle = i18n.NewBundle(language.English)
		bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)
		for _, name := range []string{"locales/active.en.toml", "locales/active.fr.toml"} {
			if _, err := bundle.LoadMessageFileFS(localeFS, name); err != nil {
				GetInternalLogger().Error("Failed to load message file", "file", name, "error", err)
			}
		}
	})
	return bundle
}

// SetLanguage selects the language used by T. Unknown tags fall back to
// English.
func SetLanguage(lang string) {
	tag, err := language.Parse(lang)
	if err != nil {
		GetInternalLogger().Debug("Unknown language, using English", "language", lang, "error", err)
		tag = language.English
	}
	l := i18n.NewLocalizer(getBundle(), tag.String(), language.English.String())
	localizerMu.Lock()
	localizer = l
	localizerMu.Unlock()
}

// T returns the localized string for id. Missing messages return id itself.
func T(id string, data ...map[string]any) string {
	localizerMu.RLock()
	l := localizer
	localizerMu.RUnlock()
	if l == nil {
		l = i18n.NewLocalizer(getBundle(), language.English.String())
	}

	cfg := &i18n.LocalizeConfig{MessageID: id}
	if len(data) > 0 {
		cfg.TemplateData = data[0]
	}
	msg, err := l.Localize(cfg)
	if err != nil {
		return id
	}
	return msg
}
