package render

// Package render maps a template document description onto the fixed
// document layout: title, subtitle, description, five key-point blocks,
// and six positional image slots. Parsing is permissive; missing or
// malformed pieces degrade to defaults rather than failing a render.

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"strings"

	"github.com/smartpdf/ui-api/internal/domain/model"
)

// Default slot values applied when the content description is missing fields.
const (
	DefaultTitle       = "Default Title"
	DefaultSubtitle    = "Default Sub-title"
	DefaultDescription = "Default description text."

	defaultFontFamily    = "Arial"
	defaultTitleSize     = "36pt"
	defaultBodySize      = "16pt"
	defaultFontColor     = "#361F1B"
	defaultBackgroundHex = "#FFF9F0"
)

// DesignRecommendations carries the styling hints embedded in content.
// Font declarations are comma-joined strings like "Arial, 36pt, #361F1B".
type DesignRecommendations struct {
	TitleFont       string `json:"title_font"`
	DescriptionFont string `json:"description_font"`
	BackgroundColor string `json:"background_color"`
}

// Content is the parsed document description.
type Content struct {
	Title                 string                `json:"title"`
	Subtitle              string                `json:"subtitle"`
	Description           string                `json:"description"`
	DesignRecommendations DesignRecommendations `json:"designRecommendations"`
}

// ParseContent decodes a JSON-encoded content string. Invalid JSON
// yields the default content and ok=false so callers can surface the
// parse failure while still rendering something.
func ParseContent(raw string) (Content, bool) {
	var c Content
	ok := true
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		c = Content{}
		ok = false
	}
	if strings.TrimSpace(c.Title) == "" {
		c.Title = DefaultTitle
	}
	if strings.TrimSpace(c.Subtitle) == "" {
		c.Subtitle = DefaultSubtitle
	}
	if strings.TrimSpace(c.Description) == "" {
		c.Description = DefaultDescription
	}
	return c, ok
}

// FontSpec is a parsed comma-joined font declaration.
type FontSpec struct {
	Family string
	Size   string
	Color  string
}

// ParseFont splits a "Family, Size, Color" declaration, falling back
// per-field on malformed input.
func ParseFont(spec string, fallback FontSpec) FontSpec {
	out := fallback
	parts := strings.Split(spec, ",")
	if len(parts) > 0 {
		if v := strings.TrimSpace(parts[0]); v != "" {
			out.Family = v
		}
	}
	if len(parts) > 1 {
		if v := strings.TrimSpace(parts[1]); v != "" {
			out.Size = v
		}
	}
	if len(parts) > 2 {
		if v := strings.TrimSpace(parts[2]); v != "" {
			out.Color = v
		}
	}
	return out
}

// DefaultTitleFont is the fallback for the title slot.
func DefaultTitleFont() FontSpec {
	return FontSpec{Family: defaultFontFamily, Size: defaultTitleSize, Color: defaultFontColor}
}

// DefaultBodyFont is the fallback for description and key points.
func DefaultBodyFont() FontSpec {
	return FontSpec{Family: defaultFontFamily, Size: defaultBodySize, Color: defaultFontColor}
}

// Document is the full input to Render.
type Document struct {
	Content      Content
	KeyPoints    []string
	ImageResults []string
	// ParseFailed records that the content string was unparsable and
	// defaults were substituted.
	ParseFailed bool
}

// DocumentFromTemplate assembles a render Document from a saved template.
func DocumentFromTemplate(t *model.Template) Document {
	content, ok := ParseContent(t.Content)
	return Document{
		Content:      content,
		KeyPoints:    t.KeyPoints,
		ImageResults: t.ImageResults,
		ParseFailed:  !ok,
	}
}

// slotted pads or truncates a slice to exactly n entries.
func slotted(values []string, n int) []string {
	out := make([]string, n)
	copy(out, values)
	return out
}

var layoutTmpl = template.Must(template.New("document").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
body { background-color: {{.Background}}; margin: 0; padding: 40px; }
h1 { font-family: {{.TitleFont.Family}}; font-size: {{.TitleFont.Size}}; color: {{.TitleFont.Color}}; }
h2 { font-family: {{.TitleFont.Family}}; color: {{.TitleFont.Color}}; }
p, li { font-family: {{.BodyFont.Family}}; font-size: {{.BodyFont.Size}}; color: {{.BodyFont.Color}}; }
.images { display: flex; flex-wrap: wrap; }
.images div { width: 30%; min-height: 120px; margin: 8px; }
img { max-width: 100%; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<h2>{{.Subtitle}}</h2>
<p>{{.Description}}</p>
<ul>
{{- range .KeyPoints}}
<li>{{.}}</li>
{{- end}}
</ul>
<div class="images">
{{- range .Images}}
<div>{{if .}}<img src="{{.}}" alt="">{{end}}</div>
{{- end}}
</div>
</body>
</html>
`))

type layoutData struct {
	Title       string
	Subtitle    string
	Description string
	KeyPoints   []string
	Images      []string
	TitleFont   FontSpec
	BodyFont    FontSpec
	Background  string
}

// Render produces the HTML document for the fixed layout. It never
// fails on missing slots; only template execution errors surface.
func Render(doc Document) ([]byte, error) {
	design := doc.Content.DesignRecommendations

	background := strings.TrimSpace(design.BackgroundColor)
	if background == "" {
		background = defaultBackgroundHex
	}

	data := layoutData{
		Title:       doc.Content.Title,
		Subtitle:    doc.Content.Subtitle,
		Description: doc.Content.Description,
		KeyPoints:   slotted(doc.KeyPoints, model.MaxKeyPoints),
		Images:      slotted(doc.ImageResults, model.MaxImageSlots),
		TitleFont:   ParseFont(design.TitleFont, DefaultTitleFont()),
		BodyFont:    ParseFont(design.DescriptionFont, DefaultBodyFont()),
		Background:  background,
	}

	var buf bytes.Buffer
	if err := layoutTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render document: %w", err)
	}
	return buf.Bytes(), nil
}
