package services

import "testing"

func TestCategorizeApplication(t *testing.T) {
	tests := []struct {
		name string
		app  string
		want string
	}{
		{"editor", "Visual Studio Code", AppCategoryDevelopment},
		{"terminal", "iTerm2", AppCategoryDevelopment},
		{"design tool", "Figma", AppCategoryDesign},
		{"chat", "Slack", AppCategoryCommunication},
		{"office", "Microsoft Excel", AppCategoryProductive},
		{"video", "Netflix", AppCategoryDistracting},
		{"case insensitive", "SPOTIFY", AppCategoryDistracting},
		{"unknown", "Calculator", AppCategoryNeutral},
		{"empty", "", AppCategoryNeutral},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			got := CategorizeApplication(testCase.app)
			if got != testCase.want {
				t.Fatalf("CategorizeApplication(%q) = %q, want %q", testCase.app, got, testCase.want)
			}
		})
	}
}

func TestCategorizeWebsite(t *testing.T) {
	tests := []struct {
		name   string
		domain string
		want   string
	}{
		{"social", "facebook.com", SiteCategorySocialMedia},
		{"code hosting", "github.com", SiteCategoryDevelopment},
		{"mail", "gmail.com", SiteCategoryCommunication},
		{"video", "youtube.com", SiteCategoryEntertainment},
		{"news", "news.ycombinator.com", SiteCategoryNews},
		{"search", "google.com", SiteCategorySearch},
		{"project tracker", "mycompany.atlassian.net", SiteCategoryWorkRelated},
		{"unknown", "example.org", SiteCategoryOther},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			got := CategorizeWebsite(testCase.domain)
			if got != testCase.want {
				t.Fatalf("CategorizeWebsite(%q) = %q, want %q", testCase.domain, got, testCase.want)
			}
		})
	}
}

func TestExtractDomain(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"full url", "https://www.github.com/vantahq/pulseboard", "github.com"},
		{"no scheme", "stackoverflow.com/questions/123", "stackoverflow.com"},
		{"bare domain", "example.org", "example.org"},
		{"port stripped", "http://localhost:8080/admin", "localhost"},
		{"query only", "https://google.com?q=go", "google.com"},
		{"fragment", "https://pkg.go.dev#section", "pkg.go.dev"},
		{"uppercase", "HTTPS://WWW.Reddit.COM/r/golang", "reddit.com"},
		{"whitespace", "  https://bbc.com/news  ", "bbc.com"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			got := ExtractDomain(testCase.raw)
			if got != testCase.want {
				t.Fatalf("ExtractDomain(%q) = %q, want %q", testCase.raw, got, testCase.want)
			}
		})
	}
}
