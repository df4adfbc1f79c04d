package analytics

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/emiliopalmerini/exportview/internal/domain"
)

func msg(sender domain.Sender, text string, blocks ...domain.ContentBlock) domain.Message {
	return domain.Message{Sender: sender, Text: text, Content: blocks}
}

func toolUse(name string) domain.ContentBlock {
	return domain.ContentBlock{Type: domain.BlockToolUse, Name: name}
}

func thinking() domain.ContentBlock {
	return domain.ContentBlock{Type: domain.BlockThinking, Thinking: "hmm"}
}

func conv(id, account, created string, messages ...domain.Message) domain.Conversation {
	return domain.Conversation{
		ID:        id,
		Name:      "conv " + id,
		CreatedAt: created,
		UpdatedAt: created,
		Account:   domain.AccountRef{ID: account},
		Messages:  messages,
	}
}

func TestEmptyInputs(t *testing.T) {
	if got := ComputeUserStats(nil, nil); got == nil || len(got) != 0 {
		t.Errorf("ComputeUserStats: expected empty non-nil slice, got %#v", got)
	}
	if got := ComputeDailyActivity(nil); got == nil || len(got) != 0 {
		t.Errorf("ComputeDailyActivity: expected empty non-nil slice, got %#v", got)
	}
	if got := ComputeToolUsage(nil); got == nil || len(got) != 0 {
		t.Errorf("ComputeToolUsage: expected empty non-nil slice, got %#v", got)
	}
	if got := ComputeConversationDetails(nil, nil); got == nil || len(got) != 0 {
		t.Errorf("ComputeConversationDetails: expected empty non-nil slice, got %#v", got)
	}
	assertEqual(t, "overview of nil export", Overview{}, ComputeOverview(nil))
}

func TestComputeUserStats_TwoUsers(t *testing.T) {
	users := []domain.User{
		{ID: "b", FullName: "Bea"},
		{ID: "a", FullName: "Ada", Email: "ada@example.com"},
	}
	convs := []domain.Conversation{
		conv("1", "a", "2024-01-01T10:00:00Z",
			msg(domain.SenderHuman, "hi"),
			msg(domain.SenderAssistant, "hello")),
		conv("2", "a", "2024-01-03T10:00:00Z",
			msg(domain.SenderHuman, "abcd"),
			msg(domain.SenderAssistant, "xyz"),
			msg(domain.SenderAssistant, "")),
		conv("3", "b", "2024-01-02T10:00:00Z"),
	}

	stats := ComputeUserStats(users, convs)
	if len(stats) != 2 {
		t.Fatalf("expected 2 user stats, got %d", len(stats))
	}

	a, b := stats[0], stats[1]
	assertEqual(t, "first user", "a", a.UserID)
	assertEqual(t, "a.ConversationCount", 2, a.ConversationCount)
	assertEqual(t, "a.MessageCount", 5, a.MessageCount)
	assertEqual(t, "a.HumanMessages", 2, a.HumanMessages)
	assertEqual(t, "a.AssistantMessages", 3, a.AssistantMessages)
	assertEqual(t, "a.HumanChars", 6, a.HumanChars)
	assertEqual(t, "a.AssistantChars", 8, a.AssistantChars)
	assertEqual(t, "a.AvgPromptLength", 3, a.AvgPromptLength)
	assertEqual(t, "a.AvgResponseLength", 3, a.AvgResponseLength)
	assertEqual(t, "a.LastActive", "2024-01-03T10:00:00Z", a.LastActive)
	assertEqual(t, "a.Email", "ada@example.com", a.Email)

	assertEqual(t, "second user", "b", b.UserID)
	assertEqual(t, "b.ConversationCount", 1, b.ConversationCount)
	assertEqual(t, "b.MessageCount", 0, b.MessageCount)
	assertEqual(t, "b.AvgPromptLength", 0, b.AvgPromptLength)
	assertEqual(t, "b.AvgResponseLength", 0, b.AvgResponseLength)
}

func TestComputeUserStats_NoConversations(t *testing.T) {
	stats := ComputeUserStats([]domain.User{{ID: "u"}}, nil)
	assertEqual(t, "len", 1, len(stats))
	assertEqual(t, "LastActive", "", stats[0].LastActive)
	assertEqual(t, "ToolsUsed", 0, stats[0].ToolsUsed.Len())
}

func TestComputeUserStats_StableTies(t *testing.T) {
	users := []domain.User{{ID: "x"}, {ID: "y"}, {ID: "z"}}
	convs := []domain.Conversation{
		conv("1", "y", "2024-01-01"),
		conv("2", "z", "2024-01-01"),
		conv("3", "z", "2024-01-01"),
		conv("4", "x", "2024-01-01"),
	}

	stats := ComputeUserStats(users, convs)
	var order []string
	for _, s := range stats {
		order = append(order, s.UserID)
	}
	if !reflect.DeepEqual(order, []string{"z", "x", "y"}) {
		t.Errorf("unexpected order: %v", order)
	}
}

func TestComputeUserStats_LastActiveChronological(t *testing.T) {
	users := []domain.User{{ID: "u"}}
	first := conv("1", "u", "2024-01-01T00:00:00Z")
	first.UpdatedAt = "2024-01-01T12:00:00+02:00"
	second := conv("2", "u", "2024-01-01T00:00:00Z")
	second.UpdatedAt = "2024-01-01T11:00:00Z"

	stats := ComputeUserStats(users, []domain.Conversation{first, second})
	assertEqual(t, "LastActive", "2024-01-01T11:00:00Z", stats[0].LastActive)
}

func TestComputeUserStats_CountsCodePoints(t *testing.T) {
	users := []domain.User{{ID: "u"}}
	convs := []domain.Conversation{conv("1", "u", "2024-01-01", msg(domain.SenderHuman, "héllo 🌍"))}

	stats := ComputeUserStats(users, convs)
	assertEqual(t, "HumanChars", 7, stats[0].HumanChars)
}

func TestComputeUserStats_SumLaw(t *testing.T) {
	users := []domain.User{{ID: "a"}, {ID: "b"}}
	convs := []domain.Conversation{
		conv("1", "a", "2024-01-01", msg(domain.SenderHuman, "x"), msg(domain.SenderAssistant, "y")),
		conv("2", "b", "2024-01-02", msg(domain.SenderHuman, "x")),
		conv("3", "b", "2024-01-03", msg(domain.SenderAssistant, "y"), msg(domain.SenderAssistant, "z"), msg(domain.SenderHuman, "")),
	}

	total := 0
	for _, c := range convs {
		total += len(c.Messages)
	}
	sum := 0
	for _, s := range ComputeUserStats(users, convs) {
		sum += s.MessageCount
	}
	assertEqual(t, "sum of message counts", total, sum)
}

func TestComputeUserStats_UnresolvedExcluded(t *testing.T) {
	users := []domain.User{{ID: "a"}}
	convs := []domain.Conversation{
		conv("1", "a", "2024-01-01", msg(domain.SenderHuman, "x")),
		conv("2", "ghost", "2024-01-01", msg(domain.SenderHuman, "x"), msg(domain.SenderHuman, "y")),
	}

	stats := ComputeUserStats(users, convs)
	assertEqual(t, "a.MessageCount", 1, stats[0].MessageCount)

	ov := ComputeOverview(&domain.Export{Users: users, Conversations: convs})
	assertEqual(t, "overview messages", 3, ov.Messages)
	assertEqual(t, "unattributed conversations", 1, ov.UnattributedConvs)
	assertEqual(t, "unattributed messages", 2, ov.UnattributedMessages)
}

func TestAverageLength(t *testing.T) {
	tests := []struct {
		name  string
		chars int
		count int
		want  int
	}{
		{"zero denominator", 10, 0, 0},
		{"exact", 10, 2, 5},
		{"rounds down", 10, 3, 3},
		{"rounds half up", 5, 2, 3},
		{"rounds up", 11, 3, 4},
		{"nothing", 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertEqual(t, "averageLength", tt.want, averageLength(tt.chars, tt.count))
		})
	}
}

func TestComputeDailyActivity(t *testing.T) {
	three := []domain.Message{{}, {}, {}}
	four := []domain.Message{{}, {}, {}, {}}
	convs := []domain.Conversation{
		conv("3", "u", "2024-01-02T09:00:00Z", domain.Message{}),
		conv("1", "u", "2024-01-01T10:00:00Z", three...),
		conv("2", "u", "2024-01-01T10:00:00Z", four...),
	}

	got := ComputeDailyActivity(convs)
	want := []DailyActivity{
		{Date: "2024-01-01", Conversations: 2, Messages: 7},
		{Date: "2024-01-02", Conversations: 1, Messages: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ComputeDailyActivity() = %+v, want %+v", got, want)
	}
}

func TestComputeDailyActivity_ShortTimestamp(t *testing.T) {
	got := ComputeDailyActivity([]domain.Conversation{conv("1", "u", "2024")})
	assertEqual(t, "date", "2024", got[0].Date)
}

func TestToolScenario(t *testing.T) {
	c := conv("1", "u", "2024-01-01T00:00:00Z",
		msg(domain.SenderAssistant, "", toolUse("web_search"), toolUse("web_search"), thinking()))

	tools := ComputeToolUsage([]domain.Conversation{c})
	if !reflect.DeepEqual(tools, []ToolUsageEntry{{Name: "web_search", Count: 2}}) {
		t.Errorf("ComputeToolUsage() = %+v", tools)
	}

	details := ComputeConversationDetails([]domain.Conversation{c}, nil)
	d := details[0]
	assertEqual(t, "ThinkingBlocks", 1, d.ThinkingBlocks)
	assertEqual(t, "HasThinking", true, d.HasThinking)
	assertEqual(t, "web_search count", 2, d.ToolsUsed.Get("web_search"))
	assertEqual(t, "distinct tools", 1, d.ToolsUsed.Len())

	raw, err := json.Marshal(d.ToolsUsed)
	if err != nil {
		t.Fatalf("marshal tools: %v", err)
	}
	assertEqual(t, "tools json", `{"web_search":2}`, string(raw))
}

func TestComputeToolUsage_SortAndTies(t *testing.T) {
	convs := []domain.Conversation{
		conv("1", "u", "2024-01-01",
			msg(domain.SenderAssistant, "", toolUse("b"), toolUse("a"), toolUse("c"))),
		conv("2", "u", "2024-01-01",
			msg(domain.SenderAssistant, "", toolUse("c"), domain.ContentBlock{Type: domain.BlockToolUse}),
			msg(domain.SenderHuman, "", domain.ContentBlock{Type: domain.BlockToolResult, Name: "a"})),
	}

	got := ComputeToolUsage(convs)
	want := []ToolUsageEntry{{Name: "c", Count: 2}, {Name: "b", Count: 1}, {Name: "a", Count: 1}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ComputeToolUsage() = %+v, want %+v", got, want)
	}
}

func TestComputeConversationDetails_Fallbacks(t *testing.T) {
	users := []domain.User{{ID: "a", FullName: "Ada"}, {ID: "n"}}
	untitled := conv("1", "a", "2024-01-01T00:00:00Z")
	untitled.Name = ""
	convs := []domain.Conversation{
		untitled,
		conv("2", "missing", "2024-01-02T00:00:00Z"),
		conv("3", "n", "2024-01-03T00:00:00Z"),
	}

	details := ComputeConversationDetails(convs, users)
	byID := make(map[string]ConversationDetail)
	for _, d := range details {
		byID[d.ID] = d
	}

	assertEqual(t, "untitled name", UntitledConversation, byID["1"].Name)
	assertEqual(t, "resolved user", "Ada", byID["1"].UserName)
	assertEqual(t, "unresolved user", UnknownUser, byID["2"].UserName)
	assertEqual(t, "nameless user", UnknownUser, byID["3"].UserName)
	assertEqual(t, "no thinking", false, byID["1"].HasThinking)
}

func TestComputeConversationDetails_SortedByCreatedDesc(t *testing.T) {
	convs := []domain.Conversation{
		conv("old", "u", "2023-12-31T23:00:00Z"),
		conv("new", "u", "2024-01-02T00:00:00Z"),
		conv("mid", "u", "2024-01-01T00:00:00Z"),
	}

	var order []string
	for _, d := range ComputeConversationDetails(convs, nil) {
		order = append(order, d.ID)
	}
	if !reflect.DeepEqual(order, []string{"new", "mid", "old"}) {
		t.Errorf("unexpected order: %v", order)
	}
}

func TestComputeConversationDetails_PerConversationTools(t *testing.T) {
	convs := []domain.Conversation{
		conv("1", "u", "2024-01-01", msg(domain.SenderAssistant, "", toolUse("x"))),
		conv("2", "u", "2024-01-02", msg(domain.SenderAssistant, "", toolUse("y"), toolUse("y"))),
	}

	for _, d := range ComputeConversationDetails(convs, nil) {
		switch d.ID {
		case "1":
			assertEqual(t, "conv 1 y", 0, d.ToolsUsed.Get("y"))
			assertEqual(t, "conv 1 x", 1, d.ToolsUsed.Get("x"))
		case "2":
			assertEqual(t, "conv 2 x", 0, d.ToolsUsed.Get("x"))
			assertEqual(t, "conv 2 y", 2, d.ToolsUsed.Get("y"))
		}
	}
}

func TestMissingOptionalFields(t *testing.T) {
	var convs []domain.Conversation
	if err := json.Unmarshal([]byte(`[
		{"uuid":"1","chat_messages":[{"sender":"human"},{"sender":"assistant","content":null},{"content":[{"type":"tool_use"},{"type":"mystery"}]}]},
		{"uuid":"2"}
	]`), &convs); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	details := ComputeConversationDetails(convs, nil)
	assertEqual(t, "details", 2, len(details))
	assertEqual(t, "tools", 0, len(ComputeToolUsage(convs)))
	assertEqual(t, "daily", 1, len(ComputeDailyActivity(convs)))
	assertEqual(t, "daily key", "", ComputeDailyActivity(convs)[0].Date)
}

func TestIdempotence(t *testing.T) {
	users := []domain.User{{ID: "a", FullName: "Ada"}}
	convs := []domain.Conversation{
		conv("1", "a", "2024-01-01T00:00:00Z", msg(domain.SenderHuman, "q", toolUse("t")), msg(domain.SenderAssistant, "a", thinking())),
		conv("2", "a", "2024-01-02T00:00:00Z"),
	}

	if !reflect.DeepEqual(ComputeUserStats(users, convs), ComputeUserStats(users, convs)) {
		t.Error("ComputeUserStats is not idempotent")
	}
	if !reflect.DeepEqual(ComputeDailyActivity(convs), ComputeDailyActivity(convs)) {
		t.Error("ComputeDailyActivity is not idempotent")
	}
	if !reflect.DeepEqual(ComputeToolUsage(convs), ComputeToolUsage(convs)) {
		t.Error("ComputeToolUsage is not idempotent")
	}
	if !reflect.DeepEqual(ComputeConversationDetails(convs, users), ComputeConversationDetails(convs, users)) {
		t.Error("ComputeConversationDetails is not idempotent")
	}
}

func TestComputeOverview(t *testing.T) {
	export := &domain.Export{
		Users: []domain.User{{ID: "a"}},
		Conversations: []domain.Conversation{
			conv("1", "a", "2024-01-02T00:00:00Z",
				msg(domain.SenderHuman, "q"),
				msg(domain.SenderAssistant, "r", toolUse("x"), toolUse("y"), thinking())),
			conv("2", "a", "2024-01-05T00:00:00Z",
				msg(domain.SenderAssistant, "r", toolUse("x"))),
			conv("3", "a", "2024-01-02T08:00:00Z"),
		},
		Projects: []domain.Project{
			{ID: "p", Docs: []domain.ProjectDoc{{ID: "d1"}, {ID: "d2"}}},
		},
	}

	ov := ComputeOverview(export)
	assertEqual(t, "Users", 1, ov.Users)
	assertEqual(t, "Conversations", 3, ov.Conversations)
	assertEqual(t, "Messages", 3, ov.Messages)
	assertEqual(t, "HumanMessages", 1, ov.HumanMessages)
	assertEqual(t, "AssistantMessages", 2, ov.AssistantMessages)
	assertEqual(t, "Projects", 1, ov.Projects)
	assertEqual(t, "ProjectDocs", 2, ov.ProjectDocs)
	assertEqual(t, "ThinkingBlocks", 1, ov.ThinkingBlocks)
	assertEqual(t, "ToolInvocations", 3, ov.ToolInvocations)
	assertEqual(t, "DistinctTools", 2, ov.DistinctTools)
	assertEqual(t, "ConversationsWithTool", 2, ov.ConversationsWithTool)
	assertEqual(t, "ActiveDays", 2, ov.ActiveDays)
	assertEqual(t, "FirstActivity", "2024-01-02", ov.FirstActivity)
	assertEqual(t, "LastActivity", "2024-01-05", ov.LastActivity)
	assertEqual(t, "UnattributedConvs", 0, ov.UnattributedConvs)
}

func TestFindUser(t *testing.T) {
	users := []domain.User{{ID: "a", FullName: "Ada"}, {ID: "", FullName: "Nobody"}}

	u, ok := FindUser(users, "a")
	assertEqual(t, "found", true, ok)
	assertEqual(t, "name", "Ada", u.FullName)

	_, ok = FindUser(users, "zzz")
	assertEqual(t, "missing", false, ok)

	_, ok = FindUser(users, "")
	assertEqual(t, "empty id never matches", false, ok)
	assertEqual(t, "empty id name", UnknownUser, UserName(users, ""))
}

func TestComputeUserStats_BlankIDsAreNotShared(t *testing.T) {
	users := []domain.User{{ID: "u1", FullName: "Ada"}, {ID: ""}, {ID: ""}}
	conversations := []domain.Conversation{
		{ID: "c1", Account: domain.AccountRef{ID: "u1"}, Messages: []domain.Message{{Sender: domain.SenderHuman, Text: "hi"}}},
		{ID: "c2", Messages: []domain.Message{{Sender: domain.SenderHuman, Text: "lost"}}},
	}

	stats := ComputeUserStats(users, conversations)
	total := 0
	for _, s := range stats {
		total += s.ConversationCount
	}
	assertEqual(t, "attributed conversations", 1, total)
	assertEqual(t, "owner", "u1", stats[0].UserID)
	assertEqual(t, "blank user 1", 0, stats[1].ConversationCount)
	assertEqual(t, "blank user 2", 0, stats[2].ConversationCount)

	ov := ComputeOverview(&domain.Export{Users: users, Conversations: conversations})
	assertEqual(t, "unattributed", 1, ov.UnattributedConvs)
	assertEqual(t, "unattributed messages", 1, ov.UnattributedMessages)
}

func TestComputeUserStats_DuplicateIDsCountOnce(t *testing.T) {
	users := []domain.User{{ID: "u1", FullName: "First"}, {ID: "u1", FullName: "Second"}}
	conversations := []domain.Conversation{{ID: "c1", Account: domain.AccountRef{ID: "u1"}}}

	stats := ComputeUserStats(users, conversations)
	assertEqual(t, "first copy owns it", 1, stats[0].ConversationCount)
	assertEqual(t, "first copy name", "First", stats[0].Name)
	assertEqual(t, "second copy", 0, stats[1].ConversationCount)
}

func TestCompareTimestamps(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want int
	}{
		{"equal", "2024-01-01T00:00:00Z", "2024-01-01T00:00:00Z", 0},
		{"offsets", "2024-01-01T01:00:00+02:00", "2024-01-01T00:00:00Z", -1},
		{"fractional", "2024-01-01T00:00:00.5Z", "2024-01-01T00:00:00Z", 1},
		{"unparsable falls back", "b", "a", 1},
		{"empty before date", "", "2024-01-01", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertEqual(t, "compareTimestamps", tt.want, compareTimestamps(tt.a, tt.b))
		})
	}
}

func TestToolCounts_ZeroValue(t *testing.T) {
	var tc ToolCounts
	assertEqual(t, "Len", 0, tc.Len())
	assertEqual(t, "Total", 0, tc.Total())

	raw, err := json.Marshal(tc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	assertEqual(t, "empty json", "{}", string(raw))

	tc.Add("z")
	tc.AddN("a", 3)
	tc.Add("z")
	raw, _ = json.Marshal(tc)
	assertEqual(t, "ordered json", `{"z":2,"a":3}`, string(raw))
}

func assertEqual[T comparable](t *testing.T, name string, expected, actual T) {
	t.Helper()
	if expected != actual {
		t.Errorf("%s: expected %v, got %v", name, expected, actual)
	}
}
