package amazon

import (
	"strings"

	"go-jobwatch/internal/errors"
	"go-jobwatch/internal/listing"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/unicode/norm"
)

const (
	cardSelector     = "[class*='jobCard']"
	detailSelector   = ".jobDetailText"
	paySelector      = "[data-test-id='jobCardPayRateText']"
	durationSelector = "[data-test-id='jobCardDurationText']"

	unknownLocation = "Unknown"
)

var (
	// ErrEmptyCard marks a padding slot with no job details in it.
	ErrEmptyCard = errors.New("empty card slot")
	// ErrMissingTitle marks a card whose title element is absent or blank.
	ErrMissingTitle = errors.New("card has no title")
)

// SkippedCard records a card slot that did not produce a job.
type SkippedCard struct {
	Index  int
	Reason error
}

// Parsed is the outcome of parsing one rendered results page.
type Parsed struct {
	Slots   int
	Jobs    []listing.Job
	Skipped []SkippedCard
}

// field is the result of looking up one piece of card text.
type field struct {
	value string
	ok    bool
}

func lookup(sel *goquery.Selection) field {
	if sel.Length() == 0 {
		return field{}
	}
	v := cleanText(sel.Text())
	return field{value: v, ok: v != ""}
}

// without drops a label prefix such as "Pay rate:" from the value.
func (f field) without(prefix string) field {
	if !f.ok {
		return f
	}
	v := strings.TrimSpace(strings.Replace(f.value, prefix, "", 1))
	return field{value: v, ok: v != ""}
}

func (f field) or(def string) string {
	if f.ok {
		return f.value
	}
	return def
}

// ParseCards extracts jobs from the HTML of a rendered search page. Card
// slots that cannot be turned into a job are reported in Skipped and do not
// stop the others.
func ParseCards(html, label, pageURL string) (Parsed, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return Parsed{}, errors.Wrap(err, "parse page html")
	}

	// A match that wraps other matches holding job details is the list
	// container, not a slot.
	cards := doc.Find(cardSelector).FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.Find(cardSelector).Has(detailSelector).Length() == 0
	})

	parsed := Parsed{Slots: cards.Length()}
	cards.Each(func(i int, card *goquery.Selection) {
		job, err := parseCard(card, label, pageURL)
		if err != nil {
			parsed.Skipped = append(parsed.Skipped, SkippedCard{Index: i, Reason: err})
			return
		}
		parsed.Jobs = append(parsed.Jobs, job)
	})
	return parsed, nil
}

// parseCard reads one card. Detail divs come in order: title, type, ...
// Pay and duration have stable test ids. The location is the last <strong>
// outside the detail divs.
func parseCard(card *goquery.Selection, label, pageURL string) (listing.Job, error) {
	details := card.Find(detailSelector)
	if details.Length() == 0 {
		return listing.Job{}, ErrEmptyCard
	}

	title := lookup(details.First().Find("strong").First())
	if !title.ok {
		return listing.Job{}, ErrMissingTitle
	}

	var jobType field
	if details.Length() >= 2 {
		jobType = lookup(details.Eq(1)).without("Type:")
	}

	pay := lookup(card.Find(paySelector).First()).without("Pay rate:")
	duration := lookup(card.Find(durationSelector).First()).without("Duration:")

	location := lookup(card.Find("strong").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.ParentsFiltered(detailSelector).Length() == 0
	}).Last())

	return listing.Job{
		Title:    title.value,
		Type:     jobType.or(""),
		Duration: duration.or(""),
		Pay:      pay.or(""),
		Location: location.or(unknownLocation),
		URL:      pageURL,
		Category: label,
	}, nil
}

// cleanText collapses runs of HTML whitespace the way the browser's rendered
// text does, trims the ends (NBSP included) and normalizes to NFC. An NBSP
// inside the text is content and is kept, so identities match those stored
// from rendered text.
func cleanText(s string) string {
	collapsed := strings.Join(strings.FieldsFunc(s, isHTMLSpace), " ")
	return norm.NFC.String(strings.TrimSpace(collapsed))
}

func isHTMLSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\f':
		return true
	}
	return false
}
