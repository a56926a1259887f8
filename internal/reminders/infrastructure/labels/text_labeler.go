package labels

import (
	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

type entry struct {
	key        string
	quantified bool
	messages   map[language.Tag]catalog.Message
}

var entries = []entry{
	{
		key: "reminders.title",
		messages: map[language.Tag]catalog.Message{
			language.English: catalog.String("Medication reminder"),
			language.German:  catalog.String("Medikamentenerinnerung"),
		},
	},
	{
		key:        "reminders.body",
		quantified: true,
		messages: map[language.Tag]catalog.Message{
			language.English: plural.Selectf(1, "%d",
				"=1", "Take %d unit",
				"other", "Take %d units",
			),
			language.German: plural.Selectf(1, "%d",
				"=1", "%d Einheit einnehmen",
				"other", "%d Einheiten einnehmen",
			),
		},
	},
}

// TextLabeler formats reminder labels from an x/text message catalog.
// Unknown languages fall back to English; unknown keys are returned as is.
type TextLabeler struct {
	catalog    *catalog.Builder
	matcher    language.Matcher
	supported  []language.Tag
	quantified map[string]bool
}

// NewTextLabeler builds the catalog.
func NewTextLabeler() (*TextLabeler, error) {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	quantified := make(map[string]bool, len(entries))
	for _, e := range entries {
		for tag, msg := range e.messages {
			if err := b.Set(tag, e.key, msg); err != nil {
				return nil, err
			}
		}
		quantified[e.key] = e.quantified
	}
	supported := []language.Tag{language.English, language.German}
	return &TextLabeler{
		catalog:    b,
		matcher:    language.NewMatcher(supported),
		supported:  supported,
		quantified: quantified,
	}, nil
}

// Format renders table.key in the given language.
func (l *TextLabeler) Format(table string, quantity int, lang, key string) string {
	id := table + "." + key
	withQuantity, known := l.quantified[id]
	if !known {
		return key
	}

	p := message.NewPrinter(l.match(lang), message.Catalog(l.catalog))
	if withQuantity {
		return p.Sprintf(id, quantity)
	}
	return p.Sprintf(id)
}

// Languages lists the languages with a translation.
func (l *TextLabeler) Languages() []language.Tag {
	return l.catalog.Languages()
}

func (l *TextLabeler) match(lang string) language.Tag {
	tag, err := language.Parse(lang)
	if err != nil {
		return language.English
	}
	_, index, confidence := l.matcher.Match(tag)
	if confidence == language.No {
		return language.English
	}
	return l.supported[index]
}
