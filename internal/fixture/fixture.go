// Package fixture はYAMLファイルから読み込むインメモリのデータストアを提供する。
// 開発環境でのデータベースなし起動と、各パッケージのテストで使用する。
package fixture

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hitoshi/teamroster/internal/model"
)

// Document はフィクスチャファイルのトップレベル構造。
type Document struct {
	Users       []UserDoc    `yaml:"users"`
	Plans       []PlanDoc    `yaml:"plans"`
	Sessions    []SessionDoc `yaml:"sessions"`
	Teams       []TeamDoc    `yaml:"teams"`
	Goals       []GoalDoc    `yaml:"goals"`
	Personality []TraitDoc   `yaml:"personality"`
}

type UserDoc struct {
	ID          int64  `yaml:"id"`
	FirstName   string `yaml:"first_name"`
	LastName    string `yaml:"last_name"`
	DisplayName string `yaml:"display_name"`
	Email       string `yaml:"email"`
	Title       string `yaml:"title"`
	AvatarKey   string `yaml:"avatar_key"`
}

type PlanDoc struct {
	UserID int64  `yaml:"user_id"`
	Plan   string `yaml:"plan"`
}

type SessionDoc struct {
	ID        string `yaml:"id"`
	UserID    int64  `yaml:"user_id"`
	ExpiresAt string `yaml:"expires_at"`
}

type TeamDoc struct {
	ID      int64       `yaml:"id"`
	Name    string      `yaml:"name"`
	Members []MemberDoc `yaml:"members"`
}

type MemberDoc struct {
	UserID int64  `yaml:"user_id"`
	Role   string `yaml:"role"`
}

type GoalDoc struct {
	ID        int64       `yaml:"id"`
	UserID    int64       `yaml:"user_id"`
	Name      string      `yaml:"name"`
	Status    string      `yaml:"status"`
	StartDate string      `yaml:"start_date"`
	EndDate   string      `yaml:"end_date"`
	Progress  int         `yaml:"progress"`
	UpdatedAt string      `yaml:"updated_at"`
	Updates   []UpdateDoc `yaml:"updates"`
}

type UpdateDoc struct {
	ID            int64  `yaml:"id"`
	CreatedAt     string `yaml:"created_at"`
	StatusAfter   string `yaml:"status_after"`
	ProgressAfter *int   `yaml:"progress_after"`
	Content       string `yaml:"content"`
}

type TraitDoc struct {
	UserID       int64  `yaml:"user_id"`
	Trait        string `yaml:"trait"`
	HighType     string `yaml:"high_type"`
	HighValue    *int   `yaml:"high_value"`
	LowType      string `yaml:"low_type"`
	LowValue     *int   `yaml:"low_value"`
	PrimaryTrait string `yaml:"primary_trait"`
}

// Parse はYAMLペイロードをデコードしてStoreを構築する。
func Parse(data []byte) (*Store, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("fixture: payload is empty")
	}
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("fixture: decode: %w", err)
	}
	return FromDocument(doc)
}

// Load はファイルからフィクスチャを読み込む。
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fixture: read %s: %w", path, err)
	}
	store, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("fixture: %s: %w", path, err)
	}
	return store, nil
}

// FromDocument はデコード済みのDocumentからStoreを構築する。
// 日付はYYYY-MM-DDまたはRFC3339で記述する。
func FromDocument(doc Document) (*Store, error) {
	s := newStore()

	for _, u := range doc.Users {
		if _, dup := s.identities[u.ID]; dup {
			return nil, fmt.Errorf("fixture: duplicate user id %d", u.ID)
		}
		s.identities[u.ID] = model.Identity{
			ID:          u.ID,
			FirstName:   u.FirstName,
			LastName:    u.LastName,
			DisplayName: u.DisplayName,
			Email:       u.Email,
			Title:       u.Title,
			AvatarKey:   u.AvatarKey,
		}
	}

	for _, p := range doc.Plans {
		s.plans[p.UserID] = model.Plan{UserID: p.UserID, Label: p.Plan}
	}

	for _, sd := range doc.Sessions {
		expires, err := parseTime(sd.ExpiresAt)
		if err != nil {
			return nil, fmt.Errorf("fixture: session %s: %w", sd.ID, err)
		}
		if expires == nil {
			return nil, fmt.Errorf("fixture: session %s: expires_at is required", sd.ID)
		}
		s.sessions[sd.ID] = model.Session{ID: sd.ID, UserID: sd.UserID, ExpiresAt: *expires}
	}

	for _, td := range doc.Teams {
		s.teams = append(s.teams, model.Team{ID: td.ID, Name: td.Name})
		for _, md := range td.Members {
			s.members[td.ID] = append(s.members[td.ID], model.MembershipRecord{
				UserID:    md.UserID,
				TeamID:    td.ID,
				Role:      model.ParseRole(md.Role),
				RoleLabel: md.Role,
			})
		}
	}

	for _, gd := range doc.Goals {
		g := model.Goal{
			ID:       gd.ID,
			UserID:   gd.UserID,
			Name:     gd.Name,
			Status:   gd.Status,
			Progress: gd.Progress,
		}
		var err error
		if g.StartDate, err = parseTime(gd.StartDate); err != nil {
			return nil, fmt.Errorf("fixture: goal %d start_date: %w", gd.ID, err)
		}
		if g.EndDate, err = parseTime(gd.EndDate); err != nil {
			return nil, fmt.Errorf("fixture: goal %d end_date: %w", gd.ID, err)
		}
		if g.UpdatedAt, err = parseTime(gd.UpdatedAt); err != nil {
			return nil, fmt.Errorf("fixture: goal %d updated_at: %w", gd.ID, err)
		}
		s.goals[gd.UserID] = append(s.goals[gd.UserID], g)

		for _, ud := range gd.Updates {
			created, err := parseTime(ud.CreatedAt)
			if err != nil {
				return nil, fmt.Errorf("fixture: goal update %d created_at: %w", ud.ID, err)
			}
			s.updates[gd.ID] = append(s.updates[gd.ID], model.GoalUpdate{
				ID:            ud.ID,
				GoalID:        gd.ID,
				CreatedAt:     created,
				StatusAfter:   ud.StatusAfter,
				ProgressAfter: ud.ProgressAfter,
				Content:       ud.Content,
			})
		}
	}

	for _, tr := range doc.Personality {
		s.traits[tr.UserID] = append(s.traits[tr.UserID], model.TraitRecord{
			UserID:       tr.UserID,
			Trait:        tr.Trait,
			HighType:     tr.HighType,
			HighValue:    tr.HighValue,
			LowType:      tr.LowType,
			LowValue:     tr.LowValue,
			PrimaryTrait: tr.PrimaryTrait,
		})
	}

	return s, nil
}

func parseTime(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("unsupported time %q", raw)
}
