package report

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/nao1215/vncfetch/internal/model"
)

// createTestResultSet creates a result set with two records for testing.
func createTestResultSet() *model.ResultSet {
	first := model.NewRecord(
		model.Field{Key: "id", Value: model.Int(1)},
		model.Field{Key: "ip", Value: model.String("1.2.3.4")},
		model.Field{Key: "password", Value: model.Null()},
		model.Field{Key: model.FieldImageLink, Value: model.String("https://example.com/screenshot/1")},
	)
	second := model.NewRecord(
		model.Field{Key: "id", Value: model.Int(2)},
		model.Field{Key: "ip", Value: model.String("5.6.7.8")},
		model.Field{Key: "title", Value: model.String(`<b>"Lab" & co</b>`)},
		model.Field{Key: model.FieldImageLink, Value: model.String("https://example.com/screenshot/2")},
	)
	return model.NewResultSet("DE", first, second)
}

func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("round trips records in order", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(createTestResultSet()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var got model.ResultSet
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if got.Count() != 2 {
			t.Fatalf("expected 2 records, got %d", got.Count())
		}

		keys := strings.Join(got.Results[0].Keys(), ",")
		if keys != "id,ip,password,imagelink" {
			t.Errorf("unexpected key order: %s", keys)
		}
		if got.Results[1].ImageLink() != "https://example.com/screenshot/2" {
			t.Errorf("unexpected imagelink: %s", got.Results[1].ImageLink())
		}
	})

	t.Run("indents with four spaces", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(createTestResultSet()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "\n    \"results\"") {
			t.Errorf("expected four-space indentation, got:\n%s", buf.String())
		}
	})

	t.Run("compact output", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithIndent("")).Write(model.NewResultSet("DE")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if buf.String() != "{\"results\":[]}\n" {
			t.Errorf("unexpected output: %q", buf.String())
		}
	})

	t.Run("does not escape markup", func(t *testing.T) {
		t.Parallel()

		rs := model.NewResultSet("DE", model.NewRecord(
			model.Field{Key: "title", Value: model.String("x<&>")},
		))
		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithIndent("")).Write(rs); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := "{\"results\":[{\"title\":\"x<&>\"}]}\n"
		if buf.String() != want {
			t.Errorf("expected %q, got %q", want, buf.String())
		}
		if strings.Contains(buf.String(), `\u003c`) {
			t.Errorf("markup was escaped: %s", buf.String())
		}
	})
}

// xmlDocument mirrors the exported XML for decoding in tests.
type xmlDocument struct {
	XMLName xml.Name `xml:"results"`
	Items   []struct {
		ID        string `xml:"id"`
		IP        string `xml:"ip"`
		Password  string `xml:"password"`
		Title     string `xml:"title"`
		ImageLink string `xml:"imagelink"`
	} `xml:"item"`
}

func TestXMLWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes one item per record", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewXMLWriter(&buf).Write(createTestResultSet()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.HasPrefix(buf.String(), xml.Header) {
			t.Error("expected XML declaration")
		}

		var doc xmlDocument
		if err := xml.Unmarshal(buf.Bytes(), &doc); err != nil {
			t.Fatalf("output is not valid XML: %v", err)
		}
		if len(doc.Items) != 2 {
			t.Fatalf("expected 2 items, got %d", len(doc.Items))
		}
		if doc.Items[0].ID != "1" || doc.Items[0].IP != "1.2.3.4" {
			t.Errorf("unexpected first item: %+v", doc.Items[0])
		}
		if doc.Items[0].Password != "" {
			t.Errorf("null should render empty, got %q", doc.Items[0].Password)
		}
		if doc.Items[1].Title != `<b>"Lab" & co</b>` {
			t.Errorf("title not preserved: %q", doc.Items[1].Title)
		}
		if doc.Items[1].ImageLink != "https://example.com/screenshot/2" {
			t.Errorf("unexpected imagelink: %q", doc.Items[1].ImageLink)
		}
	})

	t.Run("empty result set", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewXMLWriter(&buf).Write(model.NewResultSet("DE")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var doc xmlDocument
		if err := xml.Unmarshal(buf.Bytes(), &doc); err != nil {
			t.Fatalf("output is not valid XML: %v", err)
		}
		if len(doc.Items) != 0 {
			t.Errorf("expected no items, got %d", len(doc.Items))
		}
	})
}

func TestXMLName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		key  string
		want string
	}{
		{name: "plain", key: "city", want: "city"},
		{name: "underscore", key: "client_name", want: "client_name"},
		{name: "leading digit", key: "2fa", want: "_2fa"},
		{name: "space", key: "screen size", want: "screen_size"},
		{name: "colon", key: "ns:key", want: "ns_key"},
		{name: "empty", key: "", want: "_"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := XMLName(tt.key); got != tt.want {
				t.Errorf("XMLName(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestHTMLWriter(t *testing.T) {
	t.Parallel()

	t.Run("renders a block per record", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewHTMLWriter(&buf).Write(createTestResultSet()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		doc, err := goquery.NewDocumentFromReader(&buf)
		if err != nil {
			t.Fatalf("failed to parse HTML: %v", err)
		}

		items := doc.Find("div.item")
		if items.Length() != 2 {
			t.Fatalf("expected 2 items, got %d", items.Length())
		}

		src, _ := items.First().Find("img").Attr("src")
		if src != "https://example.com/screenshot/1" {
			t.Errorf("unexpected img src: %s", src)
		}

		header := items.First().Find("tr").First().Text()
		if header != "KeyValue" {
			t.Errorf("unexpected header row: %q", header)
		}

		// Header row plus id, ip and password. The image link is not a row.
		if rows := items.First().Find("tr").Length(); rows != 4 {
			t.Errorf("expected 4 rows, got %d", rows)
		}
		if strings.Contains(items.First().Find("table").Text(), "imagelink") {
			t.Error("imagelink should not be a table row")
		}

		if doc.Find("script").Length() != 1 {
			t.Error("expected blob script for remote images")
		}
	})

	t.Run("escapes values", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewHTMLWriter(&buf).Write(createTestResultSet()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Contains(buf.String(), "<b>") {
			t.Error("value markup was not escaped")
		}

		doc, err := goquery.NewDocumentFromReader(&buf)
		if err != nil {
			t.Fatalf("failed to parse HTML: %v", err)
		}
		cell := doc.Find("div.item").Eq(1).Find("tr").Last().Find("td").Last().Text()
		if cell != `<b>"Lab" & co</b>` {
			t.Errorf("unexpected cell text: %q", cell)
		}
	})

	t.Run("local image sources", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewHTMLWriter(&buf, WithImageSources([]string{"images/1.png", "images/2.png"}))
		if _, err := w.Write(createTestResultSet()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		doc, err := goquery.NewDocumentFromReader(&buf)
		if err != nil {
			t.Fatalf("failed to parse HTML: %v", err)
		}
		var srcs []string
		doc.Find("div.item img").Each(func(_ int, s *goquery.Selection) {
			src, _ := s.Attr("src")
			srcs = append(srcs, src)
		})
		if strings.Join(srcs, ",") != "images/1.png,images/2.png" {
			t.Errorf("unexpected sources: %v", srcs)
		}
		if doc.Find("script").Length() != 0 {
			t.Error("local images should not embed the blob script")
		}
	})

	t.Run("empty result set", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewHTMLWriter(&buf).Write(model.NewResultSet("DE")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		doc, err := goquery.NewDocumentFromReader(&buf)
		if err != nil {
			t.Fatalf("failed to parse HTML: %v", err)
		}
		if doc.Find("div.item").Length() != 0 {
			t.Error("expected no items")
		}
		if doc.Find("p.empty").Length() != 1 {
			t.Error("expected empty notice")
		}
	})
}

func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if _, err := NewMarkdownWriter(&buf).Write(createTestResultSet()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := buf.String()
	for _, want := range []string{
		"# VNC Resolver Results for DE",
		"## Result 1",
		"## Result 2",
		"![screenshot 1](https://example.com/screenshot/1)",
		"1.2.3.4",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %q", want)
		}
	}
}
