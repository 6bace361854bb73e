package server

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"filehub/internal/api"
	"filehub/internal/models"
)

// uploadBodySlack covers multipart framing overhead beyond the payload
// byte limit.
const uploadBodySlack = 1 << 20

func (s *Server) handleUploadFile(w http.ResponseWriter, r *http.Request) {
	if !s.acquireLimiter(s.uploadLimiter, w, r, "upload") {
		return
	}
	defer s.releaseLimiter(s.uploadLimiter)

	r.Body = http.MaxBytesReader(w, r.Body, s.fileService.maxUploadBytes+uploadBodySlack)
	if err := r.ParseMultipartForm(s.fileService.multipartMaxMemory); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			s.writeErrorReq(w, r, http.StatusRequestEntityTooLarge,
				requestTooLarge(fmt.Errorf("upload exceeds %d bytes", s.fileService.maxUploadBytes)))
			return
		}
		s.writeErrorReq(w, r, http.StatusBadRequest, badRequest(fmt.Errorf("invalid multipart form: %w", err)))
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	content, header, err := r.FormFile("content")
	if err != nil {
		s.writeErrorReq(w, r, http.StatusBadRequest,
			badRequestCode(fmt.Errorf("multipart field %q is required", "content"), ErrCodeMissingRequired))
		return
	}
	defer content.Close()

	input := UploadInput{
		Filename:       strings.TrimSpace(r.FormValue("filename")),
		MediaType:      strings.TrimSpace(r.FormValue("media_type")),
		DeclaredSHA256: strings.TrimSpace(r.FormValue("sha256")),
		DeclaredSize:   -1,
		Content:        content,
	}
	if input.Filename == "" {
		input.Filename = header.Filename
	}
	if input.MediaType == "" {
		input.MediaType = header.Header.Get("Content-Type")
	}
	if raw := strings.TrimSpace(r.FormValue("size")); raw != "" {
		declared, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || declared < 0 {
			s.writeErrorReq(w, r, http.StatusBadRequest, badRequest(fmt.Errorf("invalid size declaration %q", raw)))
			return
		}
		input.DeclaredSize = declared
	}

	file, err := s.fileService.Upload(r.Context(), input)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.listCache.Invalidate()
	s.writeJSON(w, http.StatusCreated, toFileResponse(file))
}

func (s *Server) handleListFiles(w http.ResponseWriter, r *http.Request) {
	cacheKey := listCacheKey(r.URL.Query())
	if cached, ok := s.listCache.Get(cacheKey); ok {
		if resp, ok := cached.(api.ListFilesResponse); ok {
			s.writeJSON(w, http.StatusOK, resp)
			return
		}
	}

	query, err := parseListQuery(r.URL.Query())
	if err != nil {
		s.writeErrorReq(w, r, httpStatusFromError(err), err)
		return
	}

	files, total, err := s.catalog.ListFiles(r.Context(), query)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	resp := api.ListFilesResponse{
		Count:       total,
		TotalPages:  totalPages(total, query.PageSize),
		CurrentPage: query.Page,
		Results:     make([]api.FileResponse, 0, len(files)),
	}
	for _, file := range files {
		resp.Results = append(resp.Results, toFileResponse(file))
	}

	s.listCache.Set(cacheKey, resp)
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetFile(w http.ResponseWriter, r *http.Request) {
	file, err := s.fileService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toFileResponse(file))
}

func (s *Server) handleDownloadFile(w http.ResponseWriter, r *http.Request) {
	if !s.acquireLimiter(s.downloadLimiter, w, r, "download") {
		return
	}
	defer s.releaseLimiter(s.downloadLimiter)

	file, rc, err := s.fileService.Download(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", file.FileType)
	w.Header().Set("Content-Length", strconv.FormatInt(file.SizeBytes, 10))
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": file.OriginalFilename}))
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, rc); err != nil {
		s.log().Debug("download interrupted", "id", file.ID, "error", err)
	}
}

func (s *Server) handleDeleteFile(w http.ResponseWriter, r *http.Request) {
	if err := s.fileService.Delete(r.Context(), r.PathValue("id")); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.listCache.Invalidate()
	w.WriteHeader(http.StatusNoContent)
}

func toFileResponse(file *models.FileRecord) api.FileResponse {
	return api.FileResponse{
		ID:               file.ID,
		OriginalFilename: file.OriginalFilename,
		FileType:         file.FileType,
		Size:             file.SizeBytes,
		UploadedAt:       file.UploadedAt,
		FileHash:         file.ContentHash,
		IsDuplicate:      file.IsDuplicate,
		DownloadURL:      "/v1/files/" + file.ID + "/download",
	}
}

// totalPages matches paginator semantics: an empty result set still has
// one page.
func totalPages(count, pageSize int) int {
	if pageSize <= 0 {
		return 1
	}
	pages := (count + pageSize - 1) / pageSize
	if pages < 1 {
		return 1
	}
	return pages
}
