package analytics

import (
	"cmp"
	"math"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/emiliopalmerini/exportview/internal/domain"
)

// The functions in this file are pure: they never mutate their inputs, never
// fail, and return empty (non-nil) slices for empty input.

// messageTally accumulates per-message statistics for one scope
// (a user or a conversation).
type messageTally struct {
	total          int
	human          int
	assistant      int
	humanChars     int
	assistantChars int
	thinking       int
	tools          ToolCounts
}

func (t *messageTally) add(m domain.Message) {
	t.total++

	chars := utf8.RuneCountInString(m.Text)
	switch m.Sender {
	case domain.SenderHuman:
		t.human++
		t.humanChars += chars
	case domain.SenderAssistant:
		t.assistant++
		t.assistantChars += chars
	}

	for _, block := range m.Content {
		if block.Type == domain.BlockThinking {
			t.thinking++
			continue
		}
		if name, ok := block.ToolName(); ok {
			t.tools.Add(name)
		}
	}
}

// averageLength is chars/count rounded to the nearest integer, 0 when count is 0.
func averageLength(chars, count int) int {
	if count == 0 {
		return 0
	}
	return int(math.Round(float64(chars) / float64(count)))
}

// ComputeUserStats builds one UserStats per user, ordered by conversation
// count descending. Users with equal counts keep their input order.
// A conversation belongs to at most one user: the first with a matching
// non-empty id.
func ComputeUserStats(users []domain.User, conversations []domain.Conversation) []UserStats {
	byAccount := make(map[string][]int, len(users))
	for i, c := range conversations {
		if c.Account.ID == "" {
			continue
		}
		byAccount[c.Account.ID] = append(byAccount[c.Account.ID], i)
	}

	stats := make([]UserStats, 0, len(users))
	for _, u := range users {
		var tally messageTally
		lastActive := ""

		owned := byAccount[u.ID]
		delete(byAccount, u.ID)
		for _, idx := range owned {
			c := conversations[idx]
			if lastActive == "" || compareTimestamps(c.UpdatedAt, lastActive) > 0 {
				lastActive = c.UpdatedAt
			}
			for _, m := range c.Messages {
				tally.add(m)
			}
		}

		stats = append(stats, UserStats{
			UserID:            u.ID,
			Name:              u.FullName,
			Email:             u.Email,
			ConversationCount: len(owned),
			MessageCount:      tally.total,
			HumanMessages:     tally.human,
			AssistantMessages: tally.assistant,
			HumanChars:        tally.humanChars,
			AssistantChars:    tally.assistantChars,
			AvgPromptLength:   averageLength(tally.humanChars, tally.human),
			AvgResponseLength: averageLength(tally.assistantChars, tally.assistant),
			ThinkingBlocks:    tally.thinking,
			ToolsUsed:         tally.tools,
			LastActive:        lastActive,
		})
	}

	slices.SortStableFunc(stats, func(a, b UserStats) int {
		return cmp.Compare(b.ConversationCount, a.ConversationCount)
	})
	return stats
}

// ComputeDailyActivity groups conversations by the date part of created_at,
// ascending by date.
func ComputeDailyActivity(conversations []domain.Conversation) []DailyActivity {
	days := make([]DailyActivity, 0)
	index := make(map[string]int)

	for _, c := range conversations {
		key := DateKey(c.CreatedAt)
		i, ok := index[key]
		if !ok {
			i = len(days)
			index[key] = i
			days = append(days, DailyActivity{Date: key})
		}
		days[i].Conversations++
		days[i].Messages += len(c.Messages)
	}

	slices.SortStableFunc(days, func(a, b DailyActivity) int {
		return strings.Compare(a.Date, b.Date)
	})
	return days
}

// ComputeToolUsage counts every named tool_use block across all
// conversations, highest count first. Ties keep first-seen order.
func ComputeToolUsage(conversations []domain.Conversation) []ToolUsageEntry {
	var counts ToolCounts
	for _, c := range conversations {
		for _, m := range c.Messages {
			for _, block := range m.Content {
				if name, ok := block.ToolName(); ok {
					counts.Add(name)
				}
			}
		}
	}
	return sortByCount(counts.Entries())
}

// ComputeConversationDetails summarises every conversation, most recently
// created first.
func ComputeConversationDetails(conversations []domain.Conversation, users []domain.User) []ConversationDetail {
	details := make([]ConversationDetail, 0, len(conversations))
	for _, c := range conversations {
		details = append(details, summarize(c, users))
	}

	slices.SortStableFunc(details, func(a, b ConversationDetail) int {
		return compareTimestamps(b.CreatedAt, a.CreatedAt)
	})
	return details
}

func summarize(c domain.Conversation, users []domain.User) ConversationDetail {
	var tally messageTally
	for _, m := range c.Messages {
		tally.add(m)
	}

	return ConversationDetail{
		ID:                c.ID,
		Name:              ConversationName(c),
		UserName:          UserName(users, c.Account.ID),
		CreatedAt:         c.CreatedAt,
		TotalMessages:     tally.total,
		HumanMessages:     tally.human,
		AssistantMessages: tally.assistant,
		HumanChars:        tally.humanChars,
		AssistantChars:    tally.assistantChars,
		ThinkingBlocks:    tally.thinking,
		ToolsUsed:         tally.tools,
		HasThinking:       tally.thinking > 0,
	}
}

// ComputeOverview returns the headline totals of an export.
func ComputeOverview(export *domain.Export) Overview {
	var ov Overview
	if export == nil {
		return ov
	}

	ov.Users = len(export.Users)
	ov.Conversations = len(export.Conversations)
	ov.Projects = len(export.Projects)
	for _, p := range export.Projects {
		ov.ProjectDocs += len(p.Docs)
	}

	known := make(map[string]struct{}, len(export.Users))
	for _, u := range export.Users {
		if u.ID != "" {
			known[u.ID] = struct{}{}
		}
	}

	var tools ToolCounts
	for _, c := range export.Conversations {
		var tally messageTally
		for _, m := range c.Messages {
			tally.add(m)
		}

		ov.Messages += tally.total
		ov.HumanMessages += tally.human
		ov.AssistantMessages += tally.assistant
		ov.ThinkingBlocks += tally.thinking
		for _, e := range tally.tools.Entries() {
			tools.AddN(e.Name, e.Count)
		}
		if tally.tools.Len() > 0 {
			ov.ConversationsWithTool++
		}
		if _, ok := known[c.Account.ID]; !ok {
			ov.UnattributedConvs++
			ov.UnattributedMessages += tally.total
		}
	}
	ov.ToolInvocations = tools.Total()
	ov.DistinctTools = tools.Len()

	daily := ComputeDailyActivity(export.Conversations)
	ov.ActiveDays = len(daily)
	if len(daily) > 0 {
		ov.FirstActivity = daily[0].Date
		ov.LastActivity = daily[len(daily)-1].Date
	}
	return ov
}

// FindUser looks a user up by id. The collection is not assumed to be
// referentially consistent with conversations, so a miss is normal.
// An empty id never matches.
func FindUser(users []domain.User, id string) (domain.User, bool) {
	if id == "" {
		return domain.User{}, false
	}
	for _, u := range users {
		if u.ID == id {
			return u, true
		}
	}
	return domain.User{}, false
}

// UserName resolves a display name for an account reference.
func UserName(users []domain.User, id string) string {
	u, ok := FindUser(users, id)
	if !ok || u.FullName == "" {
		return UnknownUser
	}
	return u.FullName
}

// ConversationName returns the display name of c.
func ConversationName(c domain.Conversation) string {
	if c.Name == "" {
		return UntitledConversation
	}
	return c.Name
}

// DateKey returns the calendar-day part (first ten characters) of an
// ISO-8601 timestamp.
func DateKey(ts string) string {
	if len(ts) > 10 {
		return ts[:10]
	}
	return ts
}

func sortByCount(entries []ToolUsageEntry) []ToolUsageEntry {
	slices.SortStableFunc(entries, func(a, b ToolUsageEntry) int {
		return cmp.Compare(b.Count, a.Count)
	})
	return entries
}

// compareTimestamps orders two timestamps chronologically. Values that do
// not parse as RFC 3339 fall back to string comparison.
func compareTimestamps(a, b string) int {
	ta, errA := time.Parse(time.RFC3339Nano, a)
	tb, errB := time.Parse(time.RFC3339Nano, b)
	if errA == nil && errB == nil {
		return ta.Compare(tb)
	}
	return strings.Compare(a, b)
}
