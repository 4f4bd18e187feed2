package handler

import (
	"math"
	"time"

	"privlib/internal/app/db"
	dbc "privlib/internal/app/db/sqlc"
)

// UserView is the public representation of an account.
type UserView struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	Theme     string    `json:"theme"`
	CreatedAt time.Time `json:"created_at"`
}

func newUserView(u dbc.User) UserView {
	return UserView{
		ID:        db.UUIDString(u.ID),
		Username:  u.Username,
		Role:      u.Role,
		Theme:     u.Theme,
		CreatedAt: u.CreatedAt.Time,
	}
}

// TeamView is a team with its member usernames.
type TeamView struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedBy   string    `json:"created_by"`
	Members     []string  `json:"members"`
	CreatedAt   time.Time `json:"created_at"`
}

func newTeamView(t dbc.Team, members []string) TeamView {
	if members == nil {
		members = []string{}
	}
	return TeamView{
		ID:          db.UUIDString(t.ID),
		Name:        t.Name,
		Description: t.Description,
		CreatedBy:   t.CreatedBy,
		Members:     members,
		CreatedAt:   t.CreatedAt.Time,
	}
}

// FileView is file metadata without the password hash or storage key.
type FileView struct {
	ID           string    `json:"id"`
	OriginalName string    `json:"original_name"`
	FileType     string    `json:"file_type"`
	FileSize     int64     `json:"file_size"`
	UploadedBy   string    `json:"uploaded_by"`
	TeamID       *string   `json:"team_id"`
	IsPrivate    bool      `json:"is_private"`
	HasPassword  bool      `json:"has_password"`
	UploadedAt   time.Time `json:"uploaded_at"`
}

func newFileView(f dbc.File) FileView {
	v := FileView{
		ID:           db.UUIDString(f.ID),
		OriginalName: f.OriginalName,
		FileType:     f.FileType,
		FileSize:     f.FileSize,
		UploadedBy:   f.UploadedBy,
		IsPrivate:    f.IsPrivate,
		HasPassword:  f.PasswordHash.Valid,
		UploadedAt:   f.UploadedAt.Time,
	}
	if f.TeamID.Valid {
		teamID := db.UUIDString(f.TeamID)
		v.TeamID = &teamID
	}
	return v
}

func newFileViews(files []dbc.File) []FileView {
	views := make([]FileView, 0, len(files))
	for _, f := range files {
		views = append(views, newFileView(f))
	}
	return views
}

// megabytes rounds a byte count to two decimals.
func megabytes(n int64) float64 {
	return math.Round(float64(n)/(1<<20)*100) / 100
}
