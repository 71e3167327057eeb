package model

import "time"

type Attendee struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	RefNumber    string    `json:"refNumber"`
	PasswordHash string    `json:"-"`
	Email        *string   `json:"email"`
	Dietary      *string   `json:"dietary"`
	RoomID       *int64    `json:"roomId"`
	GroupID      *int64    `json:"groupId"`
	CheckedIn    bool      `json:"checkedIn"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type AttendeeCreateRequest struct {
	Name      string  `json:"name"`
	RefNumber string  `json:"ref_number"`
	Password  string  `json:"password"`
	Email     *string `json:"email"`
	Dietary   *string `json:"dietary"`
	RoomID    *int64  `json:"room_id"`
	GroupID   *int64  `json:"group_id"`
}

type AttendeeUpdateRequest struct {
	Name      string  `json:"name"`
	RefNumber string  `json:"ref_number"`
	Password  string  `json:"password"`
	Email     *string `json:"email"`
	Dietary   *string `json:"dietary"`
	RoomID    *int64  `json:"room_id"`
	GroupID   *int64  `json:"group_id"`
	CheckedIn *bool   `json:"checked_in"`
}

// AttendeeFilter narrows attendee listings; zero values mean no filter.
type AttendeeFilter struct {
	RoomID     *int64
	GroupID    *int64
	NamePrefix string
}

// AttendeeProfile is the attendee self-view with room and group resolved.
type AttendeeProfile struct {
	Attendee Attendee `json:"attendee"`
	Room     *Room    `json:"room"`
	Group    *Group   `json:"group"`
}
