package server

import (
	"backstage/internal/domain"
	"backstage/internal/engine"
)

// Request payloads

type LoginRequest struct {
	Password string `json:"password"`
}

type CreateShowRequest struct {
	Name           string `json:"name" minLength:"1"`
	Date           string `json:"date,omitempty"`
	StartTime      string `json:"start_time,omitempty" example:"19:30"`
	BreakAfterItem int    `json:"break_after_item,omitempty"`
	BreakMinutes   int    `json:"break_minutes,omitempty"`
	Headsets       int    `json:"headsets,omitempty"`
	Handhelds      int    `json:"handhelds,omitempty"`
}

type UpdateShowRequest struct {
	Name           *string `json:"name,omitempty"`
	Date           *string `json:"date,omitempty"`
	StartTime      *string `json:"start_time,omitempty"`
	BreakAfterItem *int    `json:"break_after_item,omitempty"`
	BreakMinutes   *int    `json:"break_minutes,omitempty"`
	Headsets       *int    `json:"headsets,omitempty"`
	Handhelds      *int    `json:"handhelds,omitempty"`
}

func (r UpdateShowRequest) patch() engine.ShowPatch {
	return engine.ShowPatch{
		Name:           r.Name,
		Date:           r.Date,
		StartTime:      r.StartTime,
		BreakAfterItem: r.BreakAfterItem,
		BreakMinutes:   r.BreakMinutes,
		Headsets:       r.Headsets,
		Handhelds:      r.Handhelds,
	}
}

type RoleRequest struct {
	Name     string `json:"name"`
	NeedsMic bool   `json:"needs_mic,omitempty"`
}

type CreateItemRequest struct {
	Kind        domain.ItemKind `json:"kind" enum:"sketch,break,waerse"`
	Title       string          `json:"title,omitempty"`
	DurationMin int             `json:"duration_min,omitempty" minimum:"0"`
	Roles       []RoleRequest   `json:"roles,omitempty"`
}

type UpdateItemRequest struct {
	Kind        *domain.ItemKind `json:"kind,omitempty" enum:"sketch,break,waerse"`
	Title       *string          `json:"title,omitempty"`
	DurationMin *int             `json:"duration_min,omitempty"`
	Order       *int             `json:"order,omitempty"`
	Script      *string          `json:"script,omitempty"`
	Notes       *string          `json:"notes,omitempty"`
	Props       *[]string        `json:"props,omitempty"`
	Costumes    *[]string        `json:"costumes,omitempty"`
	Cues        *[]string        `json:"cues,omitempty"`
	Attachments *[]string        `json:"attachments,omitempty"`
}

func (r UpdateItemRequest) patch() engine.ItemPatch {
	return engine.ItemPatch{
		Kind:        r.Kind,
		Title:       r.Title,
		DurationMin: r.DurationMin,
		Order:       r.Order,
		Script:      r.Script,
		Notes:       r.Notes,
		Props:       r.Props,
		Costumes:    r.Costumes,
		Cues:        r.Cues,
		Attachments: r.Attachments,
	}
}

type MoveItemRequest struct {
	OverID string `json:"over_id"`
}

type AssignRoleRequest struct {
	PersonID string `json:"person_id,omitempty"`
	// RoleKey is a role id, or a position for roles without one. Empty
	// clears the person's current role.
	RoleKey string `json:"role_key,omitempty"`
}

type AssignMicRequest struct {
	PersonID string `json:"person_id,omitempty"`
}

type CreatePersonRequest struct {
	FirstName string                `json:"first_name" minLength:"1"`
	LastName  string                `json:"last_name,omitempty"`
	Category  domain.PersonCategory `json:"category,omitempty" enum:"speler,danser"`
	Tags      string                `json:"tags,omitempty"`
}

type CreateMicRequest struct {
	Name string         `json:"name,omitempty"`
	Kind domain.MicKind `json:"kind,omitempty" enum:"headset,handheld"`
}

type CreateRehearsalRequest struct {
	Date      string   `json:"date,omitempty"`
	Location  string   `json:"location,omitempty"`
	Type      string   `json:"type,omitempty"`
	Comments  string   `json:"comments,omitempty"`
	Absentees []string `json:"absentees,omitempty"`
}

type SetAbsenteesRequest struct {
	Absentees []string `json:"absentees"`
}

type SaveVersionRequest struct {
	Label string `json:"label" minLength:"1"`
}

// Responses

type RoleAssignment struct {
	Key     string          `json:"key"`
	Role    domain.Role     `json:"role"`
	Options []domain.Person `json:"options"`
}

type ChannelAssignment struct {
	Channel  domain.Channel `json:"channel"`
	PersonID string         `json:"person_id,omitempty"`
	Options  []string       `json:"options"`
}

type AssignmentsResponse struct {
	ItemID    string              `json:"item_id"`
	Roles     []RoleAssignment    `json:"roles"`
	Channels  []ChannelAssignment `json:"channels"`
	Required  []string            `json:"required_mic_people"`
	MicStatus engine.MicStatus    `json:"mic_status"`
}

type HistoryResponse struct {
	Applied bool `json:"applied"`
	CanUndo bool `json:"can_undo"`
	CanRedo bool `json:"can_redo"`
}

type ImportResponse struct {
	ShowID string `json:"show_id"`
}

type UpdatePersonRequest struct {
	FirstName *string                `json:"first_name,omitempty"`
	LastName  *string                `json:"last_name,omitempty"`
	Category  *domain.PersonCategory `json:"category,omitempty" enum:"speler,danser"`
	Tags      *string                `json:"tags,omitempty"`
}

func (r UpdatePersonRequest) patch() engine.PersonPatch {
	return engine.PersonPatch{FirstName: r.FirstName, LastName: r.LastName, Category: r.Category, Tags: r.Tags}
}

type CreatePRItemRequest struct {
	Title   string `json:"title" minLength:"1"`
	Channel string `json:"channel,omitempty"`
	Status  string `json:"status,omitempty"`
	Due     string `json:"due,omitempty"`
	Notes   string `json:"notes,omitempty"`
}

type UpdatePRItemRequest struct {
	Title   *string `json:"title,omitempty"`
	Channel *string `json:"channel,omitempty"`
	Status  *string `json:"status,omitempty"`
	Due     *string `json:"due,omitempty"`
	Notes   *string `json:"notes,omitempty"`
}

func (r UpdatePRItemRequest) patch() engine.PRPatch {
	return engine.PRPatch{Title: r.Title, Channel: r.Channel, Status: r.Status, Due: r.Due, Notes: r.Notes}
}
