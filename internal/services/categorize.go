package services

import "strings"

const (
	AppCategoryDevelopment   = "development"
	AppCategoryDesign        = "design"
	AppCategoryCommunication = "communication"
	AppCategoryProductive    = "productive"
	AppCategoryDistracting   = "distracting"
	AppCategoryNeutral       = "neutral"
)

const (
	SiteCategorySocialMedia   = "social_media"
	SiteCategoryDevelopment   = "development"
	SiteCategoryCommunication = "communication"
	SiteCategoryEntertainment = "entertainment"
	SiteCategoryNews          = "news"
	SiteCategorySearch        = "search"
	SiteCategoryWorkRelated   = "work_related"
	SiteCategoryOther         = "other"
)

// appKeywords are checked in order; the first category with a matching
// keyword wins, so "Visual Studio Code" lands in development even though
// nothing else matches.
var appKeywords = []struct {
	category string
	keywords []string
}{
	{AppCategoryDevelopment, []string{
		"code", "studio", "intellij", "pycharm", "webstorm", "goland",
		"vim", "emacs", "sublime", "terminal", "iterm", "xcode", "eclipse",
	}},
	{AppCategoryDesign, []string{
		"photoshop", "illustrator", "figma", "sketch", "canva", "blender", "affinity",
	}},
	{AppCategoryCommunication, []string{
		"slack", "teams", "zoom", "discord", "skype", "telegram", "outlook", "thunderbird",
	}},
	{AppCategoryProductive, []string{
		"excel", "word", "powerpoint", "notion", "obsidian", "jira", "confluence", "trello",
	}},
	{AppCategoryDistracting, []string{
		"game", "steam", "netflix", "youtube", "spotify", "twitch", "solitaire",
	}},
}

var siteKeywords = []struct {
	category string
	domains  []string
}{
	{SiteCategorySocialMedia, []string{
		"facebook.com", "twitter.com", "instagram.com", "tiktok.com", "reddit.com", "linkedin.com",
	}},
	{SiteCategoryDevelopment, []string{
		"github.com", "stackoverflow.com", "gitlab.com", "bitbucket.org",
		"developer.mozilla.org", "pkg.go.dev",
	}},
	{SiteCategoryCommunication, []string{
		"gmail.com", "outlook.com", "slack.com", "discord.com", "web.whatsapp.com", "telegram.org",
	}},
	{SiteCategoryEntertainment, []string{
		"youtube.com", "netflix.com", "twitch.tv", "spotify.com", "hulu.com",
	}},
	{SiteCategoryNews, []string{
		"cnn.com", "bbc.com", "nytimes.com", "theguardian.com", "news.ycombinator.com",
	}},
	{SiteCategorySearch, []string{
		"google.com", "bing.com", "duckduckgo.com",
	}},
	{SiteCategoryWorkRelated, []string{
		"atlassian.net", "notion.so", "trello.com", "asana.com", "monday.com",
	}},
}

// CategorizeApplication buckets an application by case-insensitive
// substring match on its name.
func CategorizeApplication(appName string) string {
	needle := strings.ToLower(appName)
	for _, group := range appKeywords {
		for _, keyword := range group.keywords {
			if strings.Contains(needle, keyword) {
				return group.category
			}
		}
	}
	return AppCategoryNeutral
}

// CategorizeWebsite buckets a domain the same way.
func CategorizeWebsite(domain string) string {
	needle := strings.ToLower(domain)
	for _, group := range siteKeywords {
		for _, candidate := range group.domains {
			if strings.Contains(needle, candidate) {
				return group.category
			}
		}
	}
	return SiteCategoryOther
}

// ExtractDomain pulls the host out of a URL without caring whether a
// scheme or path is present.
func ExtractDomain(rawURL string) string {
	domain := strings.TrimSpace(strings.ToLower(rawURL))
	if index := strings.Index(domain, "://"); index >= 0 {
		domain = domain[index+3:]
	}
	if index := strings.IndexAny(domain, "/?#"); index >= 0 {
		domain = domain[:index]
	}
	domain = strings.TrimPrefix(domain, "www.")
	if index := strings.Index(domain, ":"); index >= 0 {
		domain = domain[:index]
	}
	return domain
}
