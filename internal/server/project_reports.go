package server

import (
	"errors"
	"net/http"

	"volunteerhub/internal/storage"
	"volunteerhub/internal/utils"
	"volunteerhub/internal/validate"
	"volunteerhub/pkg/types"
)

func (s *Service) handleProjectReports(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	project, ok := s.loadVisibleProject(w, r)
	if !ok {
		return
	}

	reports, err := s.repos.ProjectReports.ProjectReportsByProject(ctx, project.ID)
	if err != nil {
		s.writeStoreError(w, r, err, "failed to load project reports")
		return
	}

	if s.documents != nil {
		for _, report := range reports {
			key := utils.PtrString(report.DocumentKey)
			if key == "" {
				continue
			}
			url, err := s.documents.PresignURL(ctx, key)
			if err != nil {
				s.logger.WithError(err).WithField("report_id", report.ID).Warn("failed to presign report document")
				continue
			}
			report.DocumentURL = url
		}
	}

	writeJSON(w, http.StatusOK, reports)
}

func documentFieldError(err error) map[string]string {
	switch {
	case errors.Is(err, storage.ErrDocumentTooLarge):
		return map[string]string{"document": "The document is too large."}
	case errors.Is(err, storage.ErrDocumentEmpty):
		return map[string]string{"document": "The document is empty."}
	case errors.Is(err, storage.ErrDocumentUnsupported):
		return map[string]string{"document": "Upload a PDF, PNG, JPEG or plain text file."}
	}
	return nil
}

func (s *Service) handleCreateProjectReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := userFromContext(ctx)

	project, ok := s.loadManagedProject(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.config.DocumentMaxBytes+maxJSONBodyBytes)

	var input validate.ProjectReportInput
	if !decodeOrReject(w, r, &input) {
		return
	}
	if errs := input.Validate(); len(errs) > 0 {
		writeFieldErrors(w, errs)
		return
	}

	report := &types.ProjectReport{
		ID:            utils.NanoID(),
		ProjectID:     project.ID,
		CoordinatorID: user.ID,
		Title:         input.Title,
		Content:       input.Content,
	}

	if r.MultipartForm != nil && len(r.MultipartForm.File["document"]) > 0 {
		if s.documents == nil {
			writeFieldErrors(w, map[string]string{"document": "Document uploads are not enabled."})
			return
		}

		header := r.MultipartForm.File["document"][0]
		file, err := header.Open()
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid document")
			return
		}
		defer file.Close()

		doc, err := s.documents.Upload(ctx, project.ID, header.Filename, file)
		if err != nil {
			if errs := documentFieldError(err); errs != nil {
				writeFieldErrors(w, errs)
				return
			}
			s.logger.WithError(err).WithField("project_id", project.ID).Error("failed to upload report document")
			writeError(w, http.StatusBadGateway, "could not store the document, please try again")
			return
		}

		report.DocumentKey = utils.StringPtr(doc.Key)
		report.DocumentName = utils.StringPtr(doc.Name)
		report.DocumentSizeBytes = utils.Int64Ptr(doc.SizeBytes)
	}

	if err := s.repos.ProjectReports.CreateProjectReport(ctx, report); err != nil {
		if report.DocumentKey != nil {
			if delErr := s.documents.Delete(ctx, *report.DocumentKey); delErr != nil {
				s.logger.WithError(delErr).WithField("storage_key", *report.DocumentKey).Warn("failed to remove orphaned document")
			}
		}
		s.writeStoreError(w, r, err, "failed to create project report")
		return
	}

	writeJSON(w, http.StatusCreated, report)
}

func (s *Service) handleDeleteProjectReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	report, err := s.repos.ProjectReports.ProjectReport(ctx, r.PathValue("id"))
	if err != nil {
		s.writeStoreError(w, r, err, "failed to load project report")
		return
	}

	project, err := s.repos.Projects.Project(ctx, report.ProjectID)
	if err != nil {
		s.writeStoreError(w, r, err, "failed to load report project")
		return
	}
	if !canManage(userFromContext(ctx), project) {
		writeError(w, http.StatusForbidden, "you can only manage reports of your own projects")
		return
	}

	if key := utils.PtrString(report.DocumentKey); key != "" && s.documents != nil {
		if err := s.documents.Delete(ctx, key); err != nil {
			s.logger.WithError(err).
				WithField("report_id", report.ID).
				WithField("storage_key", key).
				Error("failed to delete report document")
			writeError(w, http.StatusBadGateway, "could not delete the document from storage, please try again")
			return
		}
	}

	if err := s.repos.ProjectReports.DeleteProjectReport(ctx, report.ID); err != nil {
		s.writeStoreError(w, r, err, "failed to delete project report")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
