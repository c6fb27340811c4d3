package services

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"

	"github.com/schikamarun/christmas-cards/internal/domain"
	"github.com/schikamarun/christmas-cards/internal/routing"
)

// Default copy used when the bound collection or recipient leaves a field empty.
const (
	DefaultTitle      = "Merry Christmas 💌"
	DefaultSubtitle   = "A little letter for you"
	DefaultMessage    = "Wishing you a warm, peaceful Christmas and a beautiful start to the new year."
	DefaultFooterNote = ""
	DefaultSignature  = "—"
	defaultAddressee  = "You"
	metaSeparator     = " • "
)

// Messages are plain text: blank lines split paragraphs and single newlines
// become <br>. No other Markdown syntax is recognised and raw HTML is escaped.
var (
	messageMarkdown = goldmark.New(
		goldmark.WithParser(parser.NewParser(
			parser.WithBlockParsers(util.Prioritized(parser.NewParagraphParser(), 1000)),
		)),
		goldmark.WithRendererOptions(html.WithHardWraps()),
	)
	messagePolicy = bluemonday.UGCPolicy()
)

// CardView is everything the presentation layer paints for one binding.
type CardView struct {
	Theme        domain.Theme  `json:"theme"`
	ToLine       string        `json:"toLine"`
	SubLine      string        `json:"subLine"`
	Kicker       string        `json:"kicker"`
	Headline     string        `json:"headline"`
	Meta         string        `json:"meta"`
	MessageHTML  template.HTML `json:"messageHtml"`
	Signature    string        `json:"signature"`
	FooterNote   string        `json:"footerNote"`
	RoutePill    string        `json:"routePill"`
	ShareURL     string        `json:"shareUrl"`
	ShareMessage string        `json:"shareMessage"`
	AutoOpen     bool          `json:"autoOpen"`
	LocalPreview bool          `json:"localPreview"`
}

// BuildCardView derives the presentation copy for a binding. It performs no I/O.
func BuildCardView(binding domain.Binding, route routing.CanonicalRoute, shareURL string) CardView {
	var collection domain.Collection
	if binding.Collection != nil {
		collection = *binding.Collection
	}
	var recipient domain.Recipient
	if binding.Recipient != nil {
		recipient = *binding.Recipient
	}

	subtitle := firstNonEmpty(collection.Subtitle, DefaultSubtitle)
	view := CardView{
		Theme:        binding.EffectiveTheme,
		ToLine:       "To: " + firstNonEmpty(recipient.Name, defaultAddressee),
		SubLine:      subtitle,
		Kicker:       firstNonEmpty(collection.Title, DefaultTitle),
		Headline:     subtitle,
		Meta:         joinNonEmpty(metaSeparator, recipient.Name, recipient.Date),
		MessageHTML:  RenderMessage(recipient.Message),
		Signature:    firstNonEmpty(recipient.Signature, DefaultSignature),
		FooterNote:   firstNonEmpty(collection.FooterNote, DefaultFooterNote),
		RoutePill:    route.Display,
		ShareURL:     shareURL,
		ShareMessage: ShareMessage(recipient.Name, shareURL),
	}
	if view.Theme == "" {
		view.Theme = domain.DefaultTheme
	}
	return view
}

// RenderMessage renders a card message to sanitized HTML. Blank lines separate
// paragraphs and single newlines become line breaks. An empty message renders
// the default message.
func RenderMessage(message string) template.HTML {
	message = strings.TrimSpace(strings.ReplaceAll(message, "\r\n", "\n"))
	if message == "" {
		message = DefaultMessage
	}
	var buf bytes.Buffer
	if err := messageMarkdown.Convert([]byte(message), &buf); err != nil {
		return template.HTML("<p>" + template.HTMLEscapeString(message) + "</p>")
	}
	return template.HTML(strings.TrimSpace(messagePolicy.Sanitize(buf.String())))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func joinNonEmpty(sep string, values ...string) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, sep)
}
