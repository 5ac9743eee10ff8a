package notify

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Message keys double as the English text.
const (
	keyCountdown  = "Redirecting in %d seconds..."
	keyFellOff    = "You fell off the map! Respawning..."
	keyDiscovered = "Shh 🤫"
	keyNavigating = "Opening %s"
)

// translations are registered in the default catalog. Locales without an entry, and
// keys missing from a locale, print the English key.
var translations = map[language.Tag]map[string]string{
	language.German: {
		keyCountdown:  "Weiterleitung in %d Sekunden...",
		keyFellOff:    "Du bist von der Karte gefallen! Neustart...",
		keyDiscovered: "Pst 🤫",
		keyNavigating: "Öffne %s",
	},
	language.Spanish: {
		keyCountdown:  "Redirigiendo en %d segundos...",
		keyFellOff:    "¡Te caíste del mapa! Reapareciendo...",
		keyDiscovered: "Chis 🤫",
		keyNavigating: "Abriendo %s",
	},
}

func init() {
	for tag, msgs := range translations {
		for key, text := range msgs {
			if err := message.SetString(tag, key, text); err != nil {
				panic(err)
			}
		}
	}
}

// Messages formats the user-facing strings for a locale.
// A nil *Messages formats in English.
type Messages struct {
	p *message.Printer
}

// NewMessages returns messages for the BCP 47 tag locale, falling back to English.
func NewMessages(locale string) *Messages {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return &Messages{p: message.NewPrinter(tag)}
}

func (m *Messages) printer() *message.Printer {
	if m == nil || m.p == nil {
		return message.NewPrinter(language.English)
	}
	return m.p
}

// Countdown is the hotspot redirect notice.
func (m *Messages) Countdown(seconds int) string {
	return m.printer().Sprintf(keyCountdown, seconds)
}

// FellOff is shown when the player is respawned after leaving the world.
func (m *Messages) FellOff() string {
	return m.printer().Sprintf(keyFellOff)
}

// Discovered is shown when a collectible is found.
func (m *Messages) Discovered() string {
	return m.printer().Sprintf(keyDiscovered)
}

// Navigating is logged when a hotspot fires.
func (m *Messages) Navigating(target string) string {
	return m.printer().Sprintf(keyNavigating, target)
}
