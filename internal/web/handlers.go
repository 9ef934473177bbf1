package web

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/input-output-hk/atala-prism-sub004/internal/core"
	"github.com/input-output-hk/atala-prism-sub004/internal/web/templates"
)

// multipartMemory is the part of a multipart upload kept in memory; the
// rest spills to temporary files.
const multipartMemory = 32 << 20

// SchemaResponse describes a registered import type.
type SchemaResponse struct {
	Key     string             `json:"key"`
	Label   string             `json:"label"`
	Mode    core.ImportMode    `json:"mode"`
	Contact core.ContactFields `json:"contact"`
	Fields  []FieldResponse    `json:"fields"`
}

// FieldResponse describes one expected column.
type FieldResponse struct {
	Key   string          `json:"key"`
	Label string          `json:"label"`
	Type  core.ValueType  `json:"type"`
	Rules []core.RuleName `json:"rules"`
}

func toSchemaResponse(def core.SchemaDefinition) SchemaResponse {
	resp := SchemaResponse{
		Key:     def.Key,
		Label:   def.Label,
		Mode:    def.Mode,
		Contact: def.Contact,
		Fields:  make([]FieldResponse, 0, def.Schema.Len()),
	}
	for _, f := range def.Schema.Fields() {
		rules := f.Rules
		if rules == nil {
			rules = []core.RuleName{}
		}
		resp.Fields = append(resp.Fields, FieldResponse{Key: f.Key, Label: f.Label, Type: f.Type, Rules: rules})
	}
	return resp
}

// handleHealth reports liveness and import slot usage.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"imports": s.service.Limiter().Status(),
	})
}

// handleListSchemas returns every registered import type.
func (s *Server) handleListSchemas(w http.ResponseWriter, r *http.Request) {
	defs := s.service.Schemas()
	out := make([]SchemaResponse, len(defs))
	for i, def := range defs {
		out[i] = toSchemaResponse(def)
	}
	writeJSON(w, http.StatusOK, out)
}

// handleGetSchema returns one import type.
func (s *Server) handleGetSchema(w http.ResponseWriter, r *http.Request) {
	def, err := s.service.Definition(chi.URLParam(r, "schemaKey"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSchemaResponse(def))
}

// handleDownloadTemplate serves a header-only CSV for an import type.
func (s *Server) handleDownloadTemplate(w http.ResponseWriter, r *http.Request) {
	schemaKey := chi.URLParam(r, "schemaKey")
	def, err := s.service.Definition(schemaKey)
	if err != nil {
		respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s_template.csv"`, schemaKey))

	if err := core.WriteTemplate(w, def.Schema); err != nil {
		respondError(w, r, err)
	}
}

// handleValidate validates an upload and returns its report. Data errors
// are part of a 200 response.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	schemaKey := chi.URLParam(r, "schemaKey")
	def, err := s.service.Definition(schemaKey)
	if err != nil {
		respondError(w, r, err)
		return
	}

	file, err := s.openUpload(w, r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	defer file.Close()

	result, err := s.service.Validate(r.Context(), schemaKey, file)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if wantsHTML(r) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := templates.ReportPage(buildReportParams(def, result)).Render(r.Context(), w); err != nil {
			respondError(w, r, err)
		}
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleImport commits a clean contact import. A file with data errors is
// answered with 422 and its report.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	schemaKey := chi.URLParam(r, "schemaKey")
	if _, err := s.service.Definition(schemaKey); err != nil {
		respondError(w, r, err)
		return
	}

	file, err := s.openUpload(w, r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	defer file.Close()

	result, err := s.service.Commit(r.Context(), schemaKey, file)
	if errors.Is(err, core.ErrReportHasErrors) && result != nil {
		writeJSON(w, http.StatusUnprocessableEntity, result)
		return
	}
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

// openUpload returns the uploaded file: the "file" part of a multipart form,
// or the raw request body for any other content type.
func (s *Server) openUpload(w http.ResponseWriter, r *http.Request) (io.ReadCloser, error) {
	maxSize := int64(s.cfg.Import.MaxFileSize)
	if maxSize <= 0 {
		maxSize = core.DefaultMaxFileSize
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		// ReadTable enforces the size limit on the raw body.
		return r.Body, nil
	}

	// Leave room for the multipart envelope around the file.
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+multipartMemory)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			return nil, fmt.Errorf("%w: %v", core.ErrFileTooLarge, err)
		}
		return nil, fmt.Errorf("%w: %v", errNoFile, err)
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		return nil, errNoFile
	}
	return file, nil
}
