// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package translate formats user facing messages for the host locale.
package translate

import (
	"github.com/jeandeaual/go-locale"
	log "github.com/sirupsen/logrus"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const fallback = "en-US"

var (
	printer *message.Printer
	current language.Tag
)

func init() {
	locales, err := locale.GetLocales()
	if err != nil {
		log.WithError(err).Debug("translate: locale detection failed")
	}

	SetLanguage(locales...)
}

// SetLanguage selects the best match among the given BCP 47 tags.
// With no usable tags, en-US is used.
func SetLanguage(tags ...string) {
	if len(tags) == 0 {
		tags = []string{fallback}
	}

	current = message.MatchLanguage(tags...)
	printer = message.NewPrinter(current)
}

// Language returns the tag messages are currently formatted for.
func Language() language.Tag {
	return current
}

// From an en-US Sprintf() format, translate to string.
func From(key message.Reference, args ...any) string {
	return printer.Sprintf(key, args...)
}
