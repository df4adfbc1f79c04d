package templates

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/emiliopalmerini/exportview/internal/analytics"
	"github.com/emiliopalmerini/exportview/internal/domain"
	"github.com/emiliopalmerini/exportview/internal/util"
)

type navItem struct {
	key   string
	label string
	href  string
}

var navItems = []navItem{
	{"overview", "Overview", "/"},
	{"users", "Users", "/users"},
	{"conversations", "Conversations", "/conversations"},
	{"projects", "Projects", "/projects"},
}

func themeOrDefault(theme string) string {
	if theme == "" {
		return string(domain.ThemeDark)
	}
	return theme
}

func toggleLabel(theme string) string {
	if themeOrDefault(theme) == string(domain.ThemeDark) {
		return "Light mode"
	}
	return "Dark mode"
}

func pageTitle(p Page) string {
	if p.Title == "" {
		return "exportview"
	}
	return p.Title + " · exportview"
}

func sourceLine(p Page) string {
	if p.LoadedAt == "" {
		return p.Source
	}
	return p.Source + " · loaded " + p.LoadedAt
}

type cardValue struct {
	Label string
	Value string
}

func overviewCards(ov analytics.Overview) []cardValue {
	return []cardValue{
		{"Users", util.FormatCount(ov.Users)},
		{"Conversations", util.FormatCount(ov.Conversations)},
		{"Messages", util.FormatCount(ov.Messages)},
		{"Projects", util.FormatCount(ov.Projects)},
		{"Thinking blocks", util.FormatCount(ov.ThinkingBlocks)},
		{"Tool calls", util.FormatCount(ov.ToolInvocations)},
		{"Active days", util.FormatCount(ov.ActiveDays)},
		{"Unattributed", util.FormatCount(ov.UnattributedConvs)},
	}
}

func activityRange(ov analytics.Overview) string {
	return fmt.Sprintf("Activity from %s to %s", ov.FirstActivity, ov.LastActivity)
}

// chartBar is one column of the daily chart in a 0..100 tall viewBox.
type chartBar struct {
	X      string
	Y      string
	Height string
	Title  string
}

func chartViewBox(n int) string {
	return "0 0 " + strconv.Itoa(n) + " 100"
}

func dailyBars(daily []analytics.DailyActivity) []chartBar {
	peak := 0
	for _, d := range daily {
		peak = max(peak, d.Messages)
	}
	bars := make([]chartBar, 0, len(daily))
	for i, d := range daily {
		h := 0
		if peak > 0 {
			h = d.Messages * 100 / peak
		}
		bars = append(bars, chartBar{
			X:      strconv.Itoa(i),
			Y:      strconv.Itoa(100 - h),
			Height: strconv.Itoa(h),
			Title:  fmt.Sprintf("%s: %d messages, %d conversations", d.Date, d.Messages, d.Conversations),
		})
	}
	return bars
}

func conversationURL(id string) templ.SafeURL {
	return templ.URL("/conversations/" + url.PathEscape(id))
}

func conversationCaption(list ConversationList) string {
	if list.Query != "" {
		return fmt.Sprintf("%d of %d conversations match %q", len(list.Items), list.Total, list.Query)
	}
	return fmt.Sprintf("%d conversations", list.Total)
}

func threadMeta(d analytics.ConversationDetail) string {
	return fmt.Sprintf("%s · %s · %d messages (%d human / %d assistant)",
		d.UserName, util.FormatDateTime(d.CreatedAt), d.TotalMessages, d.HumanMessages, d.AssistantMessages)
}

func messageMeta(m MessageView) string {
	return strings.TrimSpace(util.FormatDateTime(m.CreatedAt) + " " + strings.Join(m.Markers, " "))
}

func projectName(pr domain.Project) string {
	if pr.Name == "" {
		return analytics.UntitledConversation
	}
	return pr.Name
}

func projectFlags(pr domain.Project) string {
	var flags []string
	if pr.IsPrivate {
		flags = append(flags, "private")
	}
	if pr.IsStarter {
		flags = append(flags, "starter")
	}
	return strings.Join(flags, ", ")
}

func toolSummary(tc analytics.ToolCounts) string {
	if tc.Len() == 0 {
		return ""
	}
	parts := make([]string, 0, tc.Len())
	for _, e := range tc.Entries() {
		parts = append(parts, fmt.Sprintf("%s (%d)", e.Name, e.Count))
	}
	return strings.Join(parts, ", ")
}
