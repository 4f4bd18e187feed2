package handler

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"golang.org/x/crypto/bcrypt"

	"privlib/internal/app/db"
	dbc "privlib/internal/app/db/sqlc"
	"privlib/internal/app/library"
	"privlib/internal/app/storage"
	"privlib/internal/pkg/auth/jwt"
	"privlib/internal/pkg/errs"
	"privlib/internal/pkg/logx"
	"privlib/internal/pkg/randx"
	"privlib/internal/pkg/req"
	"privlib/internal/pkg/resp"
)

// HandleUploadFile stores a multipart upload. A file with a team_id is shared with that team;
// otherwise it is private to the uploader.
func HandleUploadFile(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)
		limit := deps.Config.MaxUploadBytes()

		if customErr := req.SetupMultipart(w, r, limit); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams, "file"))
			return
		}
		defer file.Close()

		if customErr := library.ValidateFileSize(header.Size, limit); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		var teamID pgtype.UUID
		if rawTeamID := strings.TrimSpace(r.FormValue("team_id")); rawTeamID != "" {
			team, err := library.RequireTeamMember(r.Context(), deps.DB, identity, rawTeamID, false)
			if err != nil {
				resp.RespondErr(w, r, err)
				return
			}
			teamID = team.ID
		}

		var passwordHash pgtype.Text
		if password := r.FormValue("password"); password != "" {
			hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
			if err != nil {
				resp.RespondError(w, r, errs.NewError(errs.ErrInvalidPassword))
				return
			}
			passwordHash = pgtype.Text{String: string(hashed), Valid: true}
		}

		fileID := randx.ID()
		objectKey := randx.ObjectKey(identity.Username, fileID, header.Filename)
		contentType := library.ContentType(header.Filename, header.Header.Get("Content-Type"))

		if err := deps.StorageService.Upload(r.Context(), objectKey, contentType, file, header.Size); err != nil {
			logx.Error(err, "Failed to store upload", "object_key", objectKey)
			resp.RespondError(w, r, errs.NewError(errs.ErrFileStorageFailed))
			return
		}

		id, _ := db.ParseUUID(fileID)
		record, err := deps.DB.CreateFile(r.Context(), dbc.CreateFileParams{
			ID:           id,
			ObjectKey:    objectKey,
			OriginalName: header.Filename,
			FileType:     contentType,
			FileSize:     header.Size,
			UploadedBy:   identity.Username,
			TeamID:       teamID,
			IsPrivate:    !teamID.Valid,
			PasswordHash: passwordHash,
		})
		if err != nil {
			logx.Error(err, "Failed to record upload, removing object", "object_key", objectKey)
			if delErr := deps.StorageService.Delete(context.WithoutCancel(r.Context()), objectKey); delErr != nil {
				logx.Error(delErr, "Failed to remove orphaned object", "object_key", objectKey)
			}
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		logx.Info("File uploaded", "file_id", fileID, "username", identity.Username, "size", header.Size)
		resp.RespondSuccess(w, r, newFileView(record))
	}
}

// HandleListFiles lists every file for admins, and own plus team files for everyone else.
func HandleListFiles(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)

		var (
			files []dbc.File
			err   error
		)
		if identity.IsAdmin() {
			files, err = deps.DB.ListAllFiles(r.Context())
		} else {
			files, err = deps.DB.ListFilesForUser(r.Context(), identity.Username)
		}
		if err != nil {
			logx.Error(err, "Failed to list files", "username", identity.Username)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, newFileViews(files))
	}
}

// FilePreview is the body of a preview response. Content is set for text and base64
// previews, FileID for stream previews.
type FilePreview struct {
	Type     library.PreviewKind `json:"type"`
	Content  string              `json:"content,omitempty"`
	MimeType string              `json:"mime_type,omitempty"`
	FileID   string              `json:"file_id,omitempty"`
}

func HandlePreviewFile(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := library.LoadReadable(r.Context(), deps.DB, jwt.GetPayloadFromContext(r), chi.URLParam(r, "file_id"))
		if err != nil {
			resp.RespondErr(w, r, err)
			return
		}

		kind := library.Preview(f.FileType, f.OriginalName, f.FileSize)
		if kind == library.PreviewStream {
			resp.RespondSuccess(w, r, FilePreview{Type: kind, FileID: db.UUIDString(f.ID)})
			return
		}

		obj, customErr := openObject(r.Context(), deps, f)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}
		defer obj.Body.Close()

		content, err := io.ReadAll(io.LimitReader(obj.Body, library.MaxInlinePreview))
		if err != nil {
			logx.Error(err, "Failed to read object for preview", "object_key", f.ObjectKey)
			resp.RespondError(w, r, errs.NewError(errs.ErrFileStorageFailed))
			return
		}

		if kind == library.PreviewText {
			resp.RespondSuccess(w, r, FilePreview{Type: kind, Content: strings.ToValidUTF8(string(content), "")})
			return
		}

		resp.RespondSuccess(w, r, FilePreview{
			Type:     kind,
			Content:  base64.StdEncoding.EncodeToString(content),
			MimeType: f.FileType,
		})
	}
}

// HandleStreamFile writes the raw object body, for media too large to preview inline.
func HandleStreamFile(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := library.LoadReadable(r.Context(), deps.DB, jwt.GetPayloadFromContext(r), chi.URLParam(r, "file_id"))
		if err != nil {
			resp.RespondErr(w, r, err)
			return
		}

		obj, customErr := openObject(r.Context(), deps, f)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}
		defer obj.Body.Close()

		w.Header().Set("Content-Type", f.FileType)
		if obj.Size > 0 {
			w.Header().Set("Content-Length", strconv.FormatInt(obj.Size, 10))
		}
		w.WriteHeader(http.StatusOK)

		if _, err := io.Copy(w, obj.Body); err != nil {
			logx.Warn("File stream interrupted", "file_id", db.UUIDString(f.ID), "error", err.Error())
		}
	}
}

// HandleDownloadFile redirects to a short-lived presigned URL that downloads the file under
// its original name.
func HandleDownloadFile(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := library.LoadReadable(r.Context(), deps.DB, jwt.GetPayloadFromContext(r), chi.URLParam(r, "file_id"))
		if err != nil {
			resp.RespondErr(w, r, err)
			return
		}

		url, err := deps.StorageService.PresignDownload(r.Context(), f.ObjectKey, f.OriginalName, library.PresignedURLDuration)
		if err != nil {
			logx.Error(err, "Failed to presign download", "object_key", f.ObjectKey)
			resp.RespondError(w, r, errs.NewError(errs.ErrFileStorageFailed))
			return
		}

		http.Redirect(w, r, url, http.StatusFound)
	}
}

type VerifyPasswordInput struct {
	Password string `json:"password"`
}

// HandleVerifyFilePassword checks a file password. Admins and files without a password
// always pass.
func HandleVerifyFilePassword(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)

		f, err := library.LoadReadable(r.Context(), deps.DB, identity, chi.URLParam(r, "file_id"))
		if err != nil {
			resp.RespondErr(w, r, err)
			return
		}

		var input VerifyPasswordInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		valid := identity.IsAdmin() || !f.PasswordHash.Valid ||
			bcrypt.CompareHashAndPassword([]byte(f.PasswordHash.String), []byte(input.Password)) == nil

		resp.RespondSuccess(w, r, map[string]bool{"valid": valid})
	}
}

type UpdateContentInput struct {
	Content string `json:"content"`
}

// HandleUpdateFileContent overwrites a team text file. The live editor calls it before it
// announces file_saved to the room.
func HandleUpdateFileContent(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := library.LoadReadable(r.Context(), deps.DB, jwt.GetPayloadFromContext(r), chi.URLParam(r, "file_id"))
		if err != nil {
			resp.RespondErr(w, r, err)
			return
		}

		if !f.TeamID.Valid || !library.IsText(f.FileType, f.OriginalName) {
			resp.RespondError(w, r, errs.NewError(errs.ErrFileNotEditable))
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, deps.Config.MaxUploadBytes())

		var input UpdateContentInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		size := int64(len(input.Content))
		if err := deps.StorageService.Upload(r.Context(), f.ObjectKey, f.FileType, strings.NewReader(input.Content), size); err != nil {
			logx.Error(err, "Failed to save file content", "object_key", f.ObjectKey)
			resp.RespondError(w, r, errs.NewError(errs.ErrFileStorageFailed))
			return
		}

		if err := deps.DB.UpdateFileSize(r.Context(), dbc.UpdateFileSizeParams{ID: f.ID, FileSize: size}); err != nil {
			logx.Error(err, "Failed to update file size", "file_id", db.UUIDString(f.ID))
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		f.FileSize = size
		resp.RespondSuccess(w, r, newFileView(f))
	}
}

// HandleDeleteFile removes a file record and its object. Admin only.
func HandleDeleteFile(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := db.ParseUUID(chi.URLParam(r, "file_id"))
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrFileNotFound))
			return
		}

		f, err := deps.DB.GetFile(r.Context(), id)
		if err != nil {
			if db.IsNotFound(err) {
				resp.RespondError(w, r, errs.NewError(errs.ErrFileNotFound))
				return
			}
			logx.Error(err, "Failed to load file")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		if err := deps.StorageService.Delete(r.Context(), f.ObjectKey); err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
			logx.Error(err, "Failed to delete object", "object_key", f.ObjectKey)
			resp.RespondError(w, r, errs.NewError(errs.ErrFileStorageFailed))
			return
		}

		if err := deps.DB.DeleteFile(r.Context(), f.ID); err != nil {
			logx.Error(err, "Failed to delete file record", "file_id", db.UUIDString(f.ID))
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		logx.Info("File deleted", "file_id", db.UUIDString(f.ID), "by", jwt.GetPayloadFromContext(r).Username)
		resp.RespondSuccess(w, r, nil)
	}
}

func openObject(ctx context.Context, deps *AppDeps, f dbc.File) (*storage.Object, *errs.CustomError) {
	obj, err := deps.StorageService.Open(ctx, f.ObjectKey)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, errs.NewError(errs.ErrFileNotFound)
		}
		logx.Error(err, "Failed to open object", "object_key", f.ObjectKey)
		return nil, errs.NewError(errs.ErrFileStorageFailed)
	}
	return obj, nil
}
