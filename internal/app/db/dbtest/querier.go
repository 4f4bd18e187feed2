/*
Package dbtest provides an in-memory implementation of the generated Querier for tests.

It mimics the constraints of the real schema that handlers rely on: unique usernames,
team membership referencing existing users, and cascading deletes.
*/
package dbtest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	dbc "privlib/internal/app/db/sqlc"
)

type memberKey struct {
	team     [16]byte
	username string
}

// Querier is a goroutine-safe fake of dbc.Querier.
type Querier struct {
	mu sync.Mutex

	users    map[[16]byte]dbc.User
	teams    map[[16]byte]dbc.Team
	members  map[memberKey]time.Time
	files    map[[16]byte]dbc.File
	chat     map[[16]byte]dbc.ChatMessage
	settings map[string]bool

	// clock increments on every insert so ordering by time is deterministic.
	clock time.Time
}

var _ dbc.Querier = (*Querier)(nil)

// New returns an empty store.
func New() *Querier {
	return &Querier{
		users:    make(map[[16]byte]dbc.User),
		teams:    make(map[[16]byte]dbc.Team),
		members:  make(map[memberKey]time.Time),
		files:    make(map[[16]byte]dbc.File),
		chat:     make(map[[16]byte]dbc.ChatMessage),
		settings: make(map[string]bool),
		clock:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (q *Querier) tick() pgtype.Timestamptz {
	q.clock = q.clock.Add(time.Second)
	return pgtype.Timestamptz{Time: q.clock, Valid: true}
}

func newID() pgtype.UUID {
	return pgtype.UUID{Bytes: uuid.New(), Valid: true}
}

func uniqueViolation() error {
	return &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"}
}

func foreignKeyViolation() error {
	return &pgconn.PgError{Code: "23503", Message: "violates foreign key constraint"}
}

func (q *Querier) userByName(username string) (dbc.User, bool) {
	for _, u := range q.users {
		if u.Username == username {
			return u, true
		}
	}
	return dbc.User{}, false
}

func (q *Querier) AddTeamMember(_ context.Context, arg dbc.AddTeamMemberParams) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, ok := q.teams[arg.TeamID.Bytes]; !ok {
		return foreignKeyViolation()
	}
	if _, ok := q.userByName(arg.Username); !ok {
		return foreignKeyViolation()
	}

	key := memberKey{arg.TeamID.Bytes, arg.Username}
	if _, ok := q.members[key]; ok {
		return uniqueViolation()
	}
	q.members[key] = q.tick().Time
	return nil
}

func (q *Querier) CountTeams(_ context.Context) (int64, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return int64(len(q.teams)), nil
}

func (q *Querier) CountTeamsForUser(_ context.Context, username string) (int64, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	var n int64
	for key := range q.members {
		if key.username == username {
			n++
		}
	}
	return n, nil
}

func (q *Querier) CountUsers(_ context.Context) (int64, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return int64(len(q.users)), nil
}

func (q *Querier) CreateChatMessage(_ context.Context, arg dbc.CreateChatMessageParams) (dbc.ChatMessage, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	m := dbc.ChatMessage{
		ID:        newID(),
		Username:  arg.Username,
		Message:   arg.Message,
		Role:      arg.Role,
		CreatedAt: q.tick(),
	}
	q.chat[m.ID.Bytes] = m
	return m, nil
}

func (q *Querier) CreateFile(_ context.Context, arg dbc.CreateFileParams) (dbc.File, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, ok := q.files[arg.ID.Bytes]; ok {
		return dbc.File{}, uniqueViolation()
	}
	if arg.TeamID.Valid {
		if _, ok := q.teams[arg.TeamID.Bytes]; !ok {
			return dbc.File{}, foreignKeyViolation()
		}
	}

	f := dbc.File{
		ID:           arg.ID,
		ObjectKey:    arg.ObjectKey,
		OriginalName: arg.OriginalName,
		FileType:     arg.FileType,
		FileSize:     arg.FileSize,
		UploadedBy:   arg.UploadedBy,
		TeamID:       arg.TeamID,
		IsPrivate:    arg.IsPrivate,
		PasswordHash: arg.PasswordHash,
		UploadedAt:   q.tick(),
	}
	q.files[f.ID.Bytes] = f
	return f, nil
}

func (q *Querier) CreateTeam(_ context.Context, arg dbc.CreateTeamParams) (dbc.Team, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	t := dbc.Team{
		ID:          newID(),
		Name:        arg.Name,
		Description: arg.Description,
		CreatedBy:   arg.CreatedBy,
		CreatedAt:   q.tick(),
	}
	q.teams[t.ID.Bytes] = t
	return t, nil
}

func (q *Querier) CreateUser(_ context.Context, arg dbc.CreateUserParams) (dbc.User, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, ok := q.userByName(arg.Username); ok {
		return dbc.User{}, uniqueViolation()
	}

	u := dbc.User{
		ID:           newID(),
		Username:     arg.Username,
		PasswordHash: arg.PasswordHash,
		Role:         arg.Role,
		Theme:        "auto",
		CreatedAt:    q.tick(),
	}
	q.users[u.ID.Bytes] = u
	return u, nil
}

func (q *Querier) DeleteChatMessage(_ context.Context, id pgtype.UUID) (int64, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, ok := q.chat[id.Bytes]; !ok {
		return 0, nil
	}
	delete(q.chat, id.Bytes)
	return 1, nil
}

func (q *Querier) DeleteFile(_ context.Context, id pgtype.UUID) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	delete(q.files, id.Bytes)
	return nil
}

func (q *Querier) DeleteTeam(_ context.Context, id pgtype.UUID) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	delete(q.teams, id.Bytes)
	for key := range q.members {
		if key.team == id.Bytes {
			delete(q.members, key)
		}
	}
	for fid, f := range q.files {
		if f.TeamID.Valid && f.TeamID.Bytes == id.Bytes {
			delete(q.files, fid)
		}
	}
	return nil
}

func (q *Querier) DeleteUser(_ context.Context, id pgtype.UUID) (int64, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	u, ok := q.users[id.Bytes]
	if !ok {
		return 0, nil
	}
	delete(q.users, id.Bytes)
	for key := range q.members {
		if key.username == u.Username {
			delete(q.members, key)
		}
	}
	return 1, nil
}

func (q *Querier) EnsureSetting(_ context.Context, arg dbc.EnsureSettingParams) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, ok := q.settings[arg.Key]; !ok {
		q.settings[arg.Key] = arg.Value
	}
	return nil
}

func (q *Querier) GetFile(_ context.Context, id pgtype.UUID) (dbc.File, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	f, ok := q.files[id.Bytes]
	if !ok {
		return dbc.File{}, pgx.ErrNoRows
	}
	return f, nil
}

func (q *Querier) GetFileStats(_ context.Context) (dbc.GetFileStatsRow, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	var row dbc.GetFileStatsRow
	for _, f := range q.files {
		row.TotalFiles++
		row.TotalBytes += f.FileSize
	}
	return row, nil
}

func (q *Querier) GetSetting(_ context.Context, key string) (bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	v, ok := q.settings[key]
	if !ok {
		return false, pgx.ErrNoRows
	}
	return v, nil
}

func (q *Querier) GetTeam(_ context.Context, id pgtype.UUID) (dbc.Team, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	t, ok := q.teams[id.Bytes]
	if !ok {
		return dbc.Team{}, pgx.ErrNoRows
	}
	return t, nil
}

func (q *Querier) GetUserByID(_ context.Context, id pgtype.UUID) (dbc.User, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	u, ok := q.users[id.Bytes]
	if !ok {
		return dbc.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func (q *Querier) GetUserByUsername(_ context.Context, username string) (dbc.User, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	u, ok := q.userByName(username)
	if !ok {
		return dbc.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func (q *Querier) GetUserFileStats(_ context.Context, uploadedBy string) (dbc.GetUserFileStatsRow, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	var row dbc.GetUserFileStatsRow
	for _, f := range q.files {
		if f.UploadedBy == uploadedBy {
			row.TotalFiles++
			row.TotalBytes += f.FileSize
		}
	}
	return row, nil
}

func (q *Querier) IsTeamMember(_ context.Context, arg dbc.IsTeamMemberParams) (bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	_, ok := q.members[memberKey{arg.TeamID.Bytes, arg.Username}]
	return ok, nil
}

func sortFiles(files []dbc.File) []dbc.File {
	sort.Slice(files, func(i, j int) bool {
		return files[i].UploadedAt.Time.After(files[j].UploadedAt.Time)
	})
	return files
}

func (q *Querier) ListAllFiles(_ context.Context) ([]dbc.File, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	var out []dbc.File
	for _, f := range q.files {
		out = append(out, f)
	}
	return sortFiles(out), nil
}

func (q *Querier) ListFilesByTeam(_ context.Context, teamID pgtype.UUID) ([]dbc.File, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	var out []dbc.File
	for _, f := range q.files {
		if f.TeamID.Valid && f.TeamID.Bytes == teamID.Bytes {
			out = append(out, f)
		}
	}
	return sortFiles(out), nil
}

func (q *Querier) ListFilesForUser(_ context.Context, uploadedBy string) ([]dbc.File, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	var out []dbc.File
	for _, f := range q.files {
		if f.UploadedBy == uploadedBy {
			out = append(out, f)
			continue
		}
		if f.TeamID.Valid {
			if _, ok := q.members[memberKey{f.TeamID.Bytes, uploadedBy}]; ok {
				out = append(out, f)
			}
		}
	}
	return sortFiles(out), nil
}

func (q *Querier) ListRecentChatMessages(_ context.Context, limit int32) ([]dbc.ChatMessage, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]dbc.ChatMessage, 0, len(q.chat))
	for _, m := range q.chat {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Time.After(out[j].CreatedAt.Time)
	})
	if int(limit) < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (q *Querier) ListTeamMembers(_ context.Context, teamID pgtype.UUID) ([]string, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	type entry struct {
		name  string
		added time.Time
	}
	var entries []entry
	for key, added := range q.members {
		if key.team == teamID.Bytes {
			entries = append(entries, entry{key.username, added})
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].added.Before(entries[j].added) })

	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.name)
	}
	return out, nil
}

func (q *Querier) ListTeamsForUser(_ context.Context, username string) ([]dbc.Team, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	var out []dbc.Team
	for key := range q.members {
		if key.username == username {
			if t, ok := q.teams[key.team]; ok {
				out = append(out, t)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Time.Before(out[j].CreatedAt.Time) })
	return out, nil
}

func (q *Querier) ListUsers(_ context.Context) ([]dbc.User, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]dbc.User, 0, len(q.users))
	for _, u := range q.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Time.Before(out[j].CreatedAt.Time) })
	return out, nil
}

func (q *Querier) RemoveTeamMember(_ context.Context, arg dbc.RemoveTeamMemberParams) (int64, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	key := memberKey{arg.TeamID.Bytes, arg.Username}
	if _, ok := q.members[key]; !ok {
		return 0, nil
	}
	delete(q.members, key)
	return 1, nil
}

func (q *Querier) UpdateFileSize(_ context.Context, arg dbc.UpdateFileSizeParams) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if f, ok := q.files[arg.ID.Bytes]; ok {
		f.FileSize = arg.FileSize
		q.files[arg.ID.Bytes] = f
	}
	return nil
}

func (q *Querier) UpdateUserTheme(_ context.Context, arg dbc.UpdateUserThemeParams) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if u, ok := q.users[arg.ID.Bytes]; ok {
		u.Theme = arg.Theme
		q.users[arg.ID.Bytes] = u
	}
	return nil
}

func (q *Querier) UpsertSetting(_ context.Context, arg dbc.UpsertSettingParams) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.settings[arg.Key] = arg.Value
	return nil
}
