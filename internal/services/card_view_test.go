package services

import (
	"strings"
	"testing"

	"github.com/schikamarun/christmas-cards/internal/domain"
	"github.com/schikamarun/christmas-cards/internal/routing"
)

func TestBuildCardViewRecipient(t *testing.T) {
	route := routing.FromFragment("anna")
	binding := Resolve(route, testStore())
	view := BuildCardView(binding, route, "https://example.com/#/anna")

	if view.Theme != domain.ThemeMidnight {
		t.Fatalf("expected midnight theme, got %q", view.Theme)
	}
	if view.ToLine != "To: Anna" {
		t.Fatalf("unexpected to line %q", view.ToLine)
	}
	if view.Kicker != "Xmas" || view.Headline != "For you" || view.SubLine != "For you" {
		t.Fatalf("unexpected collection copy %+v", view)
	}
	if view.Meta != "Anna • 2025-12-24" {
		t.Fatalf("unexpected meta %q", view.Meta)
	}
	if view.Signature != DefaultSignature {
		t.Fatalf("expected default signature, got %q", view.Signature)
	}
	if view.RoutePill != "#/anna" {
		t.Fatalf("expected display fragment, got %q", view.RoutePill)
	}
	if !strings.HasPrefix(view.ShareMessage, "Hey Anna!") {
		t.Fatalf("unexpected share message %q", view.ShareMessage)
	}
	if !strings.Contains(string(view.MessageHTML), DefaultMessage) {
		t.Fatalf("expected default message, got %q", view.MessageHTML)
	}
}

func TestBuildCardViewWithoutData(t *testing.T) {
	route := routing.FromFragment("#/collection/x/y")
	view := BuildCardView(Resolve(route, domain.DataStore{}), route, "")

	if view.ToLine != "To: You" {
		t.Fatalf("unexpected to line %q", view.ToLine)
	}
	if view.Kicker != DefaultTitle || view.Headline != DefaultSubtitle {
		t.Fatalf("unexpected default copy %+v", view)
	}
	if view.Meta != "" || view.FooterNote != "" {
		t.Fatalf("expected empty meta and footer, got %+v", view)
	}
	if view.Theme != domain.ThemeClassic {
		t.Fatalf("expected classic theme, got %q", view.Theme)
	}
	if !strings.HasPrefix(view.ShareMessage, "Hey there!") {
		t.Fatalf("unexpected share message %q", view.ShareMessage)
	}
}

func TestRenderMessage(t *testing.T) {
	cases := []struct {
		name    string
		message string
		want    []string
		reject  []string
	}{
		{
			name:    "paragraphs and line breaks",
			message: "Dear Anna,\nhappy holidays.\n\nLove",
			want:    []string{"<p>Dear Anna,<br>", "happy holidays.</p>", "<p>Love</p>"},
		},
		{
			name:    "script stripped",
			message: "hi <script>alert(1)</script>",
			want:    []string{"hi"},
			reject:  []string{"<script", "alert(1)</script>"},
		},
		{
			name:    "crlf normalized",
			message: "a\r\nb",
			want:    []string{"a<br>"},
			reject:  []string{"\r"},
		},
		{
			name:    "leading number stays text",
			message: "2025. What a year!",
			want:    []string{"<p>2025. What a year!</p>"},
			reject:  []string{"<ol", "<li"},
		},
		{
			name:    "hash is not a heading",
			message: "# 1 fan\nof yours",
			want:    []string{"# 1 fan<br>", "of yours"},
			reject:  []string{"<h1"},
		},
		{
			name:    "asterisks are literal",
			message: "5*3*2 = 30 hugs",
			want:    []string{"5*3*2 = 30 hugs"},
			reject:  []string{"<em>"},
		},
		{
			name:    "emphasis markers kept verbatim",
			message: "Hello **Anna**",
			want:    []string{"Hello **Anna**"},
			reject:  []string{"<strong>"},
		},
		{
			name:    "blank uses default",
			message: "   ",
			want:    []string{DefaultMessage},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := string(RenderMessage(tc.message))
			for _, w := range tc.want {
				if !strings.Contains(got, w) {
					t.Fatalf("RenderMessage(%q) = %q, missing %q", tc.message, got, w)
				}
			}
			for _, r := range tc.reject {
				if strings.Contains(got, r) {
					t.Fatalf("RenderMessage(%q) = %q, must not contain %q", tc.message, got, r)
				}
			}
		})
	}
}
