package pipeline

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"

	"github.com/ppiankov/incidents/internal/model"
)

// Supplementary content shown for records that lack their own
const (
	DefaultPhoto    = "https://i.insider.com/54806a086bb3f763254d6d6a?width=1100&format=jpeg&auto=webp"
	DefaultSummary  = "On July 17, 2014, Eric Garner died in the New York City borough of Staten Island after Daniel Pantaleo, a New York City Police Department (NYPD) officer, put him in a chokehold while arresting him. Video footage of the incident generated widespread national attention and raised questions about the appropriate use of force by law enforcement."
	DefaultNewsLink = "https://en.wikipedia.org/wiki/Death_of_Eric_Garner"
	DefaultYouTube  = "https://www.youtube.com/embed/_s8JklrBSlk"
)

var genderNames = map[string]string{
	"M": "Male",
	"F": "Female",
}

var raceNames = map[string]string{
	"W": "White",
	"B": "Black",
	"H": "Hispanic",
	"N": "Native American",
	"O": "Other",
}

// Prettify maps coded gender and race values to display words and tidies the name.
// Codes match ignoring case and surrounding space; anything else becomes "Unknown".
func Prettify(inc model.Incident) model.Incident {
	inc.Name = norm.NFC.String(strings.TrimSpace(inc.Name))
	inc.Gender = decode(genderNames, inc.Gender)
	inc.Race = decode(raceNames, inc.Race)
	return inc
}

func decode(names map[string]string, code string) string {
	if name, ok := names[strings.ToUpper(strings.TrimSpace(code))]; ok {
		return name
	}
	return "Unknown"
}

// WithDefaults fills missing supplementary content and marks the record Defaulted.
// A video reference is first recovered from raw embed markup when present.
func WithDefaults(inc model.Incident) model.Incident {
	if inc.YouTube == "" && inc.Embed != "" {
		inc.YouTube = EmbedSource(inc.Embed)
	}

	fill := func(field *string, def string) {
		if strings.TrimSpace(*field) == "" {
			*field = def
			inc.Defaulted = true
		}
	}
	fill(&inc.Photo, DefaultPhoto)
	fill(&inc.Summary, DefaultSummary)
	fill(&inc.NewsLink, DefaultNewsLink)
	fill(&inc.YouTube, DefaultYouTube)

	return inc
}

// EmbedSource returns the src of the first iframe or video element in markup
func EmbedSource(markup string) string {
	z := html.NewTokenizer(strings.NewReader(markup))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return ""
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			if tok.Data != "iframe" && tok.Data != "video" && tok.Data != "source" {
				continue
			}
			for _, attr := range tok.Attr {
				if attr.Key == "src" && strings.TrimSpace(attr.Val) != "" {
					return strings.TrimSpace(attr.Val)
				}
			}
		}
	}
}

// Fallback returns the built-in record substituted when nothing else can be fetched
func Fallback() model.Incident {
	return model.Incident{
		ID:       model.FallbackID,
		Name:     "Eric Garner" + model.FallbackSuffix,
		Age:      43,
		Gender:   "Male",
		Race:     "Black",
		Armed:    "unarmed",
		Date:     "2014-07-17",
		City:     "Staten Island",
		State:    "NY",
		Photo:    DefaultPhoto,
		Summary:  DefaultSummary,
		NewsLink: DefaultNewsLink,
		YouTube:  DefaultYouTube,
		Fallback: true,
	}
}
