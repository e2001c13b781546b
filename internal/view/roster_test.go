package view

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/hitoshi/teamroster/internal/goalupdate"
	"github.com/hitoshi/teamroster/internal/model"
	"github.com/hitoshi/teamroster/internal/roster"
)

type stubAvatars struct{}

func (stubAvatars) URL(_ context.Context, identity model.Identity, size int) string {
	return fmt.Sprintf("https://img.example.com/%d.png?s=%d", identity.ID, size)
}

func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id%d", n)
	}
}

func newTestRenderer() *Renderer {
	return NewRenderer(stubAvatars{}, Options{GoalUpdatesURL: "/teams/goal-updates", NewID: seqIDs()})
}

func renderRoster(t *testing.T, res *roster.Result) string {
	t.Helper()
	out, err := newTestRenderer().Roster(context.Background(), res, "nonce-123")
	if err != nil {
		t.Fatalf("Roster() error: %v", err)
	}
	return out
}

func TestRoster_OutcomeMessages(t *testing.T) {
	tests := []struct {
		outcome   model.Outcome
		wantClass string
		wantText  string
	}{
		{model.OutcomeUnauthenticated, "roster-error", MsgUnauthenticated},
		{model.OutcomeNotEntitled, "roster-subscription-error", MsgNotEntitled + " " + MsgNotEntitledLink},
		{model.OutcomeNoMembership, "roster-membership-error", MsgNoMembership},
		{model.OutcomeTeamUnavailable, "roster-error", MsgTeamUnavailable},
	}
	for _, tt := range tests {
		t.Run(string(tt.outcome), func(t *testing.T) {
			nodes := parse(t, renderRoster(t, &roster.Result{Outcome: tt.outcome}))
			box := findOne(t, nodes, tt.wantClass)
			if got := strings.TrimSpace(textOf(box)); got != tt.wantText {
				t.Errorf("text = %q, want %q", got, tt.wantText)
			}
		})
	}
}

func TestRoster_NotEntitledLinksToPrograms(t *testing.T) {
	out := renderRoster(t, &roster.Result{Outcome: model.OutcomeNotEntitled})
	if !strings.Contains(out, `<a href="/programs">Find out more, here.</a>`) {
		t.Errorf("missing programs link: %s", out)
	}

	r := NewRenderer(nil, Options{ProgramsURL: "https://example.com/plans"})
	out, err := r.Roster(context.Background(), &roster.Result{Outcome: model.OutcomeNotEntitled}, "")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `href="https://example.com/plans"`) {
		t.Errorf("custom programs url not used: %s", out)
	}
}

func TestRoster_EmptyRosterShowsTeamName(t *testing.T) {
	out := renderRoster(t, &roster.Result{
		Outcome: model.OutcomeEmptyRoster,
		Team:    &model.Team{ID: 1, Name: "R&D <Core>"},
	})

	nodes := parse(t, out)
	box := findOne(t, nodes, "roster-empty")
	if got := textOf(box); got != "R&D <Core>"+MsgNoMembers {
		t.Errorf("text = %q", got)
	}
	if !strings.Contains(out, "<h2>R&amp;D &lt;Core&gt;</h2>") {
		t.Errorf("team name not escaped in heading: %s", out)
	}
}

func rendered(members ...model.EnrichedMember) *roster.Result {
	return &roster.Result{
		Outcome: model.OutcomeRendered,
		Team:    &model.Team{ID: 10, Name: "Platform"},
		Members: members,
	}
}

func TestRoster_RenderedContainer(t *testing.T) {
	out := renderRoster(t, rendered(
		model.EnrichedMember{
			MembershipRecord: model.MembershipRecord{UserID: 1, RoleLabel: "team_lead", Role: model.RoleLead},
			Identity:         model.Identity{ID: 1, FirstName: "Mia", LastName: "Manager", Title: "Director"},
			IsLead:           true,
		},
		model.EnrichedMember{
			MembershipRecord: model.MembershipRecord{UserID: 2, RoleLabel: "individual_contributor"},
			Identity:         model.Identity{ID: 2, DisplayName: "zed"},
		},
	))
	nodes := parse(t, out)

	container := findOne(t, nodes, "roster-container")
	if v, _ := attrOf(container, "data-nonce"); v != "nonce-123" {
		t.Errorf("data-nonce = %q", v)
	}
	if v, _ := attrOf(container, "data-goal-updates-url"); v != "/teams/goal-updates" {
		t.Errorf("data-goal-updates-url = %q", v)
	}
	if got := textOf(findOne(t, nodes, "roster-title")); got != "Platform" {
		t.Errorf("title = %q", got)
	}

	members := findOne(t, nodes, "roster-members")
	if !hasClass(members, "roster-members-small") {
		t.Errorf("expected small grid class")
	}
	if v, _ := attrOf(members, "data-display-mode"); v != "card" {
		t.Errorf("display mode = %q", v)
	}

	cards := findAll(nodes, "roster-member-card")
	if len(cards) != 2 {
		t.Fatalf("cards = %d, want 2", len(cards))
	}
	if !hasClass(cards[0], "roster-team-lead") || !hasClass(cards[1], "roster-individual") {
		t.Error("lead/individual card classes not applied")
	}

	names := findAll(nodes, "roster-member-name")
	if got := textOf(names[0]); got != "Mia Manager ★" {
		t.Errorf("lead name = %q", got)
	}
	if got := textOf(names[1]); got != "zed" {
		t.Errorf("fallback display name = %q", got)
	}

	roles := findAll(nodes, "roster-member-role")
	if got := textOf(roles[0]); got != "Role: Team Lead" {
		t.Errorf("role = %q", got)
	}
	if got := textOf(roles[1]); got != "Role: Individual Contributor" {
		t.Errorf("role = %q", got)
	}

	titles := findAll(nodes, "roster-member-title")
	if len(titles) != 1 || textOf(titles[0]) != "Director" {
		t.Errorf("title paragraphs = %d", len(titles))
	}

	img := findAll(nodes, "roster-avatar-img")[0]
	if v, _ := attrOf(img, "src"); v != "https://img.example.com/1.png?s=60" {
		t.Errorf("avatar src = %q", v)
	}

	if len(findAll(nodes, "roster-goals")) != 0 || len(findAll(nodes, "roster-personality")) != 0 {
		t.Error("members without goals or traits should not render those sections")
	}
}

func TestRoster_GoalsSection(t *testing.T) {
	end := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	updated := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	out := renderRoster(t, rendered(model.EnrichedMember{
		MembershipRecord: model.MembershipRecord{UserID: 1},
		Identity:         model.Identity{ID: 1, FirstName: "Ada"},
		Goals: []model.Goal{
			{ID: 77, Name: `Ship "v2"`, Status: "On Track", EndDate: &end, Progress: 40, UpdatedAt: &updated},
			{ID: 78, Name: "Docs", Status: "Behind"},
		},
	}))
	nodes := parse(t, out)

	summary := findOne(t, nodes, "roster-goals-summary")
	if got := textOf(summary); got != "Goals: 2 active goals ▼" {
		t.Errorf("summary = %q", got)
	}
	if v, _ := attrOf(summary, "data-toggle-target"); v != "goals-id1" {
		t.Errorf("toggle target = %q", v)
	}

	details := findOne(t, nodes, "roster-goals-details")
	if v, _ := attrOf(details, "id"); v != "goals-id1" {
		t.Errorf("details id = %q", v)
	}
	if _, hidden := attrOf(details, "hidden"); !hidden {
		t.Error("details should start hidden")
	}
	if !strings.Contains(out, `id="toggle-goals-id1"`) {
		t.Error("toggle marker id missing")
	}

	rows := findAll(nodes, "roster-goals-table")[0]
	text := textOf(rows)
	for _, want := range []string{"GoalStatusStartEndProgressUpdated", `Ship "v2"On TrackN/AJun 30, 202440%May 1, 2024`, "DocsBehindN/AN/A0%N/A"} {
		if !strings.Contains(text, want) {
			t.Errorf("goals table text %q missing %q", text, want)
		}
	}

	links := findAll(nodes, "roster-goals-updates-link")
	if v, _ := attrOf(links[0], "data-goal-id"); v != "77" {
		t.Errorf("data-goal-id = %q", v)
	}
}

func TestRoster_PersonalitySection(t *testing.T) {
	high, low, faded := 80, 60, 30
	out := renderRoster(t, rendered(model.EnrichedMember{
		MembershipRecord: model.MembershipRecord{UserID: 1},
		Identity:         model.Identity{ID: 1, FirstName: "Ada"},
		ShowPersonality:  true,
		Traits: []model.TraitRecord{
			{Trait: "Agreeableness", HighType: "Warm", HighValue: &faded, LowType: "Direct", LowValue: &low, PrimaryTrait: "Warm"},
			{Trait: "Openness", HighType: "Curious", HighValue: &high, PrimaryTrait: "Curious"},
		},
	}))
	nodes := parse(t, out)

	summary := findOne(t, nodes, "roster-personality-summary")
	if got := textOf(summary); got != "Personality: Warm; Curious ▼" {
		t.Errorf("summary = %q", got)
	}
	if v, _ := attrOf(summary, "data-toggle-target"); v != "personality-id1" {
		t.Errorf("toggle target = %q", v)
	}

	rows := findAll(nodes, "roster-personality-row")
	if len(rows) != 2 {
		t.Fatalf("rows = %d", len(rows))
	}
	if got := textOf(rows[0]); got != "Agreeableness:Warm(30)Direct(60)" {
		t.Errorf("row 0 = %q", got)
	}
	if got := textOf(rows[1]); got != "Openness:Curious(80)" {
		t.Errorf("row 1 = %q", got)
	}

	fadedBadges := findAll(nodes, "roster-trait-faded")
	if len(fadedBadges) != 1 || textOf(fadedBadges[0]) != "Warm" {
		t.Errorf("faded badges = %d", len(fadedBadges))
	}
}

func TestRoster_UniqueSectionIDsAcrossMembers(t *testing.T) {
	goal := []model.Goal{{ID: 1, Name: "g", Status: "On Track"}}
	out := renderRoster(t, rendered(
		model.EnrichedMember{MembershipRecord: model.MembershipRecord{UserID: 1}, Identity: model.Identity{ID: 1}, Goals: goal},
		model.EnrichedMember{MembershipRecord: model.MembershipRecord{UserID: 2}, Identity: model.Identity{ID: 2}, Goals: goal},
	))
	if !strings.Contains(out, `id="goals-id1"`) || !strings.Contains(out, `id="goals-id2"`) {
		t.Errorf("section ids are not unique: %s", out)
	}
}

func TestRoster_EscapesUserText(t *testing.T) {
	out := renderRoster(t, rendered(model.EnrichedMember{
		MembershipRecord: model.MembershipRecord{UserID: 1},
		Identity:         model.Identity{ID: 1, FirstName: "<script>alert(1)</script>", Title: `" onmouseover="x`},
	}))
	if strings.Contains(out, "<script>alert(1)</script>") {
		t.Errorf("name not escaped: %s", out)
	}
	if strings.Contains(out, `" onmouseover="x`) {
		t.Errorf("title not escaped: %s", out)
	}
}

func TestGoalUpdates_Empty(t *testing.T) {
	out, err := GoalUpdates(&goalupdate.Result{Empty: true})
	if err != nil {
		t.Fatal(err)
	}
	if out != `<p class="roster-no-updates">No updates found for this goal.</p>` {
		t.Errorf("GoalUpdates() = %q", out)
	}
}

func TestGoalUpdates_Table(t *testing.T) {
	created := time.Date(2024, 2, 1, 9, 5, 0, 0, time.UTC)
	progress := 55
	out, err := GoalUpdates(&goalupdate.Result{Updates: []model.GoalUpdate{
		{ID: 1, CreatedAt: &created, StatusAfter: "On Track", ProgressAfter: &progress, Content: "<p>Halfway <strong>there</strong></p>"},
		{ID: 2, Content: ""},
	}})
	if err != nil {
		t.Fatal(err)
	}
	nodes := parse(t, out)

	text := textOf(findOne(t, nodes, "roster-updates-table"))
	for _, want := range []string{"DateStatusProgressUpdated", "Feb 1, 2024 9:05 AMOn Track55%Halfway there", "N/AN/AN/ANo update content"} {
		if !strings.Contains(text, want) {
			t.Errorf("table text %q missing %q", text, want)
		}
	}
	if !strings.Contains(out, "<p>Halfway <strong>there</strong></p>") {
		t.Errorf("sanitized markup should be embedded as markup: %s", out)
	}
}

func TestPage_WrapsFragment(t *testing.T) {
	out, err := Page("Team <Roster>", `<div class="roster-error"><p>x</p></div>`, "/static")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"<!DOCTYPE html>",
		"<title>Team &lt;Roster&gt;</title>",
		`<script src="/static/roster.js" defer=""></script>`,
		`<body><div class="roster-error"><p>x</p></div></body>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Page() missing %q:\n%s", want, out)
		}
	}
}

func TestAssets_ContainsScriptAndStyle(t *testing.T) {
	fsys := Assets()
	for _, name := range []string{"roster.js", "roster.css"} {
		f, err := fsys.Open(name)
		if err != nil {
			t.Errorf("asset %s missing: %v", name, err)
			continue
		}
		f.Close()
	}
}
