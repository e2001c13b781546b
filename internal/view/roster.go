// Package view はロスターと進捗履歴のHTMLを組み立てる。
// 文字列連結ではなくx/net/htmlのノードツリーを構築し、html.Renderで出力する。
package view

import (
	"context"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/hitoshi/teamroster/internal/model"
	"github.com/hitoshi/teamroster/internal/roster"
)

// 描画結果ごとの固定文言。
const (
	MsgUnauthenticated = "Please log in to view team information."
	MsgNotEntitled     = "Oops. Team features are not available in your current subscription plan."
	MsgNotEntitledLink = "Find out more, here."
	MsgNoMembership    = "Oops! You're not part of a team. Check with your organization admin. If you are the organization admin, click here."
	MsgTeamUnavailable = "Unable to load team information. Please try again later."
	MsgNoMembers       = "No team members found."
	DefaultProgramsURL = "/programs"
	DefaultAvatarSize  = 60
	leadIndicator      = "★"
	toggleCollapsed    = "▼"
	fadedTraitClass    = "roster-trait-faded"
)

// AvatarResolver はメンバーのアバターURLを返す。
type AvatarResolver interface {
	URL(ctx context.Context, identity model.Identity, size int) string
}

// Options は描画の設定。
type Options struct {
	ProgramsURL    string
	GoalUpdatesURL string
	AvatarSize     int
	// NewID は折りたたみセクションの一意なIDを生成する。未設定の場合はuuid.NewString。
	NewID func() string
}

// Renderer はロスター構築結果をHTMLに変換する。
type Renderer struct {
	avatars AvatarResolver
	opts    Options
}

// NewRenderer はRendererを生成する。
func NewRenderer(avatars AvatarResolver, opts Options) *Renderer {
	if opts.ProgramsURL == "" {
		opts.ProgramsURL = DefaultProgramsURL
	}
	if opts.AvatarSize <= 0 {
		opts.AvatarSize = DefaultAvatarSize
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	return &Renderer{avatars: avatars, opts: opts}
}

// Roster は構築結果をHTMLフラグメントとして返す。
// nonceは進捗履歴取得リクエスト用で、rendered以外では使用しない。
func (r *Renderer) Roster(ctx context.Context, res *roster.Result, nonce string) (string, error) {
	return render(r.rosterNode(ctx, res, nonce))
}

func (r *Renderer) rosterNode(ctx context.Context, res *roster.Result, nonce string) *html.Node {
	switch res.Outcome {
	case model.OutcomeUnauthenticated:
		return el(atom.Div, "roster-error", para("", MsgUnauthenticated))
	case model.OutcomeNotEntitled:
		link := withAttr(el(atom.A, "", text(MsgNotEntitledLink)), "href", r.opts.ProgramsURL)
		return el(atom.Div, "roster-subscription-error",
			el(atom.P, "", text(MsgNotEntitled+" "), link))
	case model.OutcomeNoMembership:
		return el(atom.Div, "roster-membership-error", para("", MsgNoMembership))
	case model.OutcomeEmptyRoster:
		return el(atom.Div, "roster-empty",
			el(atom.H2, "", text(teamName(res))),
			para("", MsgNoMembers))
	case model.OutcomeRendered:
		return r.containerNode(ctx, res, nonce)
	default:
		return el(atom.Div, "roster-error", para("", MsgTeamUnavailable))
	}
}

func teamName(res *roster.Result) string {
	if res.Team == nil {
		return ""
	}
	return res.Team.Name
}

func (r *Renderer) containerNode(ctx context.Context, res *roster.Result, nonce string) *html.Node {
	container := el(atom.Div, "roster-container")
	withAttr(container, "data-nonce", nonce)
	if r.opts.GoalUpdatesURL != "" {
		withAttr(container, "data-goal-updates-url", r.opts.GoalUpdatesURL)
	}
	container.AppendChild(el(atom.H2, "roster-title", text(teamName(res))))

	count := len(res.Members)
	members := el(atom.Div, "roster-members roster-members-"+GridSizeClass(count))
	withAttr(members, "data-display-mode", DisplayMode(count))
	for _, m := range res.Members {
		members.AppendChild(r.cardNode(ctx, m))
	}
	container.AppendChild(members)
	return container
}

func (r *Renderer) cardNode(ctx context.Context, m model.EnrichedMember) *html.Node {
	cardClass := "roster-member-card roster-individual"
	if m.IsLead {
		cardClass = "roster-member-card roster-team-lead"
	}
	card := el(atom.Div, cardClass)
	withAttr(card, "data-user-id", strconv.FormatInt(m.UserID, 10))

	avatarURL := ""
	if r.avatars != nil {
		avatarURL = r.avatars.URL(ctx, m.Identity, r.opts.AvatarSize)
	}
	img := el(atom.Img, "roster-avatar-img")
	withAttr(img, "src", avatarURL)
	withAttr(img, "alt", m.Identity.DisplayName)
	card.AppendChild(el(atom.Div, "roster-member-avatar", img))

	content := el(atom.Div, "roster-member-content")

	name := el(atom.H3, "roster-member-name", text(m.Identity.FullName()))
	if m.IsLead {
		name.AppendChild(text(" "))
		name.AppendChild(withAttr(el(atom.Span, "roster-lead-indicator", text(leadIndicator)), "title", "Team Lead"))
	}
	content.AppendChild(name)

	content.AppendChild(el(atom.P, "roster-member-role",
		el(atom.Span, "roster-role-label", text("Role:")),
		text(" "+roleDisplay(m.MembershipRecord)),
	))

	if m.Identity.Title != "" {
		content.AppendChild(para("roster-member-title", m.Identity.Title))
	}

	if len(m.Goals) > 0 {
		content.AppendChild(r.goalsNode(m.Goals))
	}
	if m.ShowPersonality {
		content.AppendChild(r.personalityNode(m.Traits))
	}

	card.AppendChild(content)
	return card
}

func roleDisplay(rec model.MembershipRecord) string {
	if strings.TrimSpace(rec.RoleLabel) != "" {
		return model.FormatRoleLabel(rec.RoleLabel)
	}
	return model.FormatRoleLabel(rec.Role.String())
}

// toggleSummary は折りたたみセクションの見出し行を生成する。
func toggleSummary(class, sectionID, label string, summary ...*html.Node) *html.Node {
	row := el(atom.Div, class,
		el(atom.Span, class+"-label", el(atom.Strong, "", text(label+":")), text(" ")),
	)
	withAttr(row, "data-toggle-target", sectionID)
	withAttr(row, "role", "button")
	for _, n := range summary {
		row.AppendChild(n)
	}
	row.AppendChild(text(" "))
	row.AppendChild(withAttr(el(atom.Span, "roster-toggle", text(toggleCollapsed)), "id", "toggle-"+sectionID))
	return row
}

func hiddenSection(class, sectionID string) *html.Node {
	n := el(atom.Div, class)
	withAttr(n, "id", sectionID)
	withAttr(n, "hidden", "")
	return n
}

func (r *Renderer) goalsNode(goals []model.Goal) *html.Node {
	sectionID := "goals-" + r.opts.NewID()

	table := el(atom.Table, "roster-goals-table")
	head := el(atom.Tr, "")
	for _, h := range []string{"Goal", "Status", "Start", "End", "Progress", "Updated"} {
		head.AppendChild(el(atom.Th, "", text(h)))
	}
	table.AppendChild(el(atom.Thead, "", head))

	body := el(atom.Tbody, "")
	for _, g := range goals {
		progress := g.Progress
		link := el(atom.Button, "roster-goals-updates-link", text(FormatDate(g.UpdatedAt)))
		withAttr(link, "type", "button")
		withAttr(link, "data-goal-id", strconv.FormatInt(g.ID, 10))
		withAttr(link, "data-goal-name", g.Name)

		body.AppendChild(el(atom.Tr, "",
			el(atom.Td, "", text(g.Name)),
			el(atom.Td, "", text(g.Status)),
			el(atom.Td, "", text(FormatDate(g.StartDate))),
			el(atom.Td, "", text(FormatDate(g.EndDate))),
			el(atom.Td, "", text(FormatProgress(&progress))),
			el(atom.Td, "", link),
		))
	}
	table.AppendChild(body)

	details := hiddenSection("roster-goals-details", sectionID)
	details.AppendChild(table)

	return el(atom.Div, "roster-goals",
		toggleSummary("roster-goals-summary", sectionID, "Goals", text(activeGoalsLabel(len(goals)))),
		details,
	)
}

func (r *Renderer) personalityNode(traits []model.TraitRecord) *html.Node {
	sectionID := "personality-" + r.opts.NewID()

	var primary []string
	for _, t := range traits {
		if t.PrimaryTrait != "" {
			primary = append(primary, t.PrimaryTrait)
		}
	}

	details := hiddenSection("roster-personality-details", sectionID)
	for _, t := range traits {
		details.AppendChild(el(atom.Div, "roster-personality-row",
			el(atom.Div, "roster-personality-trait-name", text(t.Trait+":")),
			el(atom.Div, "roster-personality-high-trait", traitBadge(t.HighType, t.HighValue, "roster-trait-high-badge")),
			el(atom.Div, "roster-personality-high-value", traitValue(t.HighValue)),
			el(atom.Div, "roster-personality-low-trait", traitBadge(t.LowType, t.LowValue, "roster-trait-low-badge")),
			el(atom.Div, "roster-personality-low-value", traitValue(t.LowValue)),
		))
	}

	return el(atom.Div, "roster-personality",
		toggleSummary("roster-personality-summary", sectionID, "Personality", text(strings.Join(primary, "; "))),
		details,
	)
}

func traitBadge(label string, value *int, poleClass string) *html.Node {
	if label == "" {
		return nil
	}
	class := "roster-trait-badge " + poleClass
	if model.IsFaded(value) {
		class += " " + fadedTraitClass
	}
	return el(atom.Span, class, text(label))
}

func traitValue(value *int) *html.Node {
	if value == nil {
		return nil
	}
	return el(atom.Span, "roster-trait-value", text("("+strconv.Itoa(*value)+")"))
}
