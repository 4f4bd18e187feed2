package library

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"privlib/internal/app/db"
	"privlib/internal/app/db/dbtest"
	dbc "privlib/internal/app/db/sqlc"
	"privlib/internal/pkg/auth/jwt"
	"privlib/internal/pkg/errs"
	"privlib/internal/pkg/randx"
)

func TestContentType(t *testing.T) {
	tests := []struct {
		name, file, declared, want string
	}{
		{"declared wins", "a.bin", "image/png", "image/png"},
		{"declared params stripped", "a.txt", "text/plain; charset=utf-8", "text/plain"},
		{"generic falls back to extension", "notes.md", "application/octet-stream", "text/markdown"},
		{"missing falls back to extension", "photo.JPG", "", "image/jpeg"},
		{"unknown", "blob", "", "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ContentType(tt.file, tt.declared))
		})
	}
}

func TestPreview(t *testing.T) {
	assert.Equal(t, PreviewText, Preview("text/plain", "a.txt", 10))
	assert.Equal(t, PreviewText, Preview("application/json", "a.json", 10))
	assert.Equal(t, PreviewBase64, Preview("image/png", "a.png", 10))
	assert.Equal(t, PreviewBase64, Preview("application/pdf", "a.pdf", InlinePreviewLimit-1))
	assert.Equal(t, PreviewStream, Preview("application/pdf", "a.pdf", InlinePreviewLimit))
	assert.Equal(t, PreviewBase64, Preview("image/png", "a.png", InlinePreviewLimit*2))
	assert.Equal(t, PreviewStream, Preview("video/mp4", "a.mp4", 50<<20))
	assert.Equal(t, PreviewStream, Preview("text/plain", "huge.log", MaxInlinePreview+1))
}

func TestValidators(t *testing.T) {
	assert.Nil(t, ValidateFileSize(10, 100))
	assert.Equal(t, errs.ErrFileSizeTooLarge, ValidateFileSize(101, 100).Code)
	assert.Equal(t, errs.ErrInvalidParams, ValidateFileSize(0, 100).Code)

	assert.Nil(t, ValidateTeam("Writers", ""))
	assert.NotNil(t, ValidateTeam("   ", ""))

	assert.Nil(t, ValidateTheme("carnaval"))
	assert.Equal(t, errs.ErrInvalidTheme, ValidateTheme("neon").Code)
}

func TestAccess(t *testing.T) {
	ctx := context.Background()
	q := dbtest.New()

	for _, name := range []string{"alice", "bob", "carol"} {
		_, err := q.CreateUser(ctx, dbc.CreateUserParams{Username: name, PasswordHash: "x", Role: "user"})
		require.NoError(t, err)
	}

	team, err := q.CreateTeam(ctx, dbc.CreateTeamParams{Name: "t", CreatedBy: "alice"})
	require.NoError(t, err)
	require.NoError(t, q.AddTeamMember(ctx, dbc.AddTeamMemberParams{TeamID: team.ID, Username: "alice"}))
	require.NoError(t, q.AddTeamMember(ctx, dbc.AddTeamMemberParams{TeamID: team.ID, Username: "bob"}))

	fileID := randx.ID()
	id, _ := db.ParseUUID(fileID)
	_, err = q.CreateFile(ctx, dbc.CreateFileParams{
		ID: id, ObjectKey: "alice/" + fileID, OriginalName: "a.txt", FileType: "text/plain",
		FileSize: 1, UploadedBy: "alice", TeamID: team.ID,
	})
	require.NoError(t, err)

	alice := &jwt.Payload{Username: "alice", Role: jwt.RoleUser}
	bob := &jwt.Payload{Username: "bob", Role: jwt.RoleUser}
	carol := &jwt.Payload{Username: "carol", Role: jwt.RoleUser}
	root := &jwt.Payload{Username: "root", Role: jwt.RoleAdmin}

	for _, p := range []*jwt.Payload{alice, bob, root} {
		_, err := LoadReadable(ctx, q, p, fileID)
		assert.NoError(t, err, p.Username)
	}

	_, err = LoadReadable(ctx, q, carol, fileID)
	assert.ErrorIs(t, err, errs.NewError(errs.ErrFileAccessDenied))

	_, err = LoadReadable(ctx, q, alice, randx.ID())
	assert.ErrorIs(t, err, errs.NewError(errs.ErrFileNotFound))

	teamID := db.UUIDString(team.ID)
	_, err = RequireTeamMember(ctx, q, bob, teamID, false)
	assert.NoError(t, err)
	_, err = RequireTeamMember(ctx, q, carol, teamID, false)
	assert.ErrorIs(t, err, errs.NewError(errs.ErrNotTeamMember))
	_, err = RequireTeamMember(ctx, q, root, teamID, false)
	assert.ErrorIs(t, err, errs.NewError(errs.ErrNotTeamMember))
	_, err = RequireTeamMember(ctx, q, root, teamID, true)
	assert.NoError(t, err)
	_, err = RequireTeamMember(ctx, q, bob, "nope", false)
	assert.ErrorIs(t, err, errs.NewError(errs.ErrTeamNotFound))
}
