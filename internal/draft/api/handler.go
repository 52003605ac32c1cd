package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ms-composer/internal/auth"
	"ms-composer/internal/backend"
	"ms-composer/internal/draft"
	"ms-composer/internal/logger"
	"ms-composer/internal/media"
	"ms-composer/internal/models"
	"ms-composer/internal/utils"
)

const maxUploadBytes = 32 << 20

type Handler struct {
	Composer *draft.Service
	Logger   *logger.Logger
}

func NewHandler(composer *draft.Service, log *logger.Logger) *Handler {
	return &Handler{Composer: composer, Logger: log}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/composer", func(r chi.Router) {
		r.Post("/drafts", h.StartDraft)
		r.Post("/edit/{ref}", h.EditEvent)
		r.Route("/drafts/{draftID}", func(r chi.Router) {
			r.Get("/", h.GetDraft)
			r.Post("/next", h.Next)
			r.Post("/back", h.Back)
			r.Post("/submit", h.Submit)
			r.Post("/tickets", h.AddTicket)
			r.Delete("/tickets/{ticketID}", h.RemoveTicket)
			r.Post("/cover", h.StageCover)
			r.Delete("/cover", h.DeleteCover)
			r.Post("/gallery", h.StageGallery)
			r.Delete("/images/{imageID}", h.DeleteImage)
		})
	})
}

// withToken forwards the caller's bearer token into the request context so
// every backend call carries it.
func (h *Handler) withToken(w http.ResponseWriter, r *http.Request) (*http.Request, bool) {
	token, err := auth.ExtractTokenFromRequest(r)
	if err != nil {
		http.Error(w, "Authorization required: "+err.Error(), http.StatusUnauthorized)
		return nil, false
	}
	return r.WithContext(backend.WithToken(r.Context(), token)), true
}

type draftStateResponse struct {
	DraftID  string                `json:"draft_id"`
	EditMode bool                  `json:"edit_mode"`
	Step     string                `json:"step"`
	Event    models.DraftEvent     `json:"event"`
	Review   *models.ReviewSummary `json:"review,omitempty"`
}

func (h *Handler) draftState(d *draft.Draft, review *models.ReviewSummary) draftStateResponse {
	return draftStateResponse{
		DraftID:  d.ID,
		EditMode: d.EditMode,
		Step:     d.Step.String(),
		Event:    d.Event,
		Review:   review,
	}
}

func (h *Handler) StartDraft(w http.ResponseWriter, r *http.Request) {
	r, ok := h.withToken(w, r)
	if !ok {
		return
	}

	var body struct {
		PriorDraftID string `json:"prior_draft_id"`
		Resume       bool   `json:"resume"`
	}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
			return
		}
	}

	d, err := h.Composer.StartDraft(r.Context(), body.PriorDraftID, body.Resume)
	if err != nil {
		h.writeError(w, "Failed to start draft", err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, utils.SuccessResponse("Draft started", h.draftState(d, nil)))
}

func (h *Handler) EditEvent(w http.ResponseWriter, r *http.Request) {
	r, ok := h.withToken(w, r)
	if !ok {
		return
	}

	ref := chi.URLParam(r, "ref")
	d, err := h.Composer.EditEvent(r.Context(), ref)
	if err != nil {
		h.writeError(w, "Failed to open event for editing", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Edit session opened", h.draftState(d, nil)))
}

func (h *Handler) GetDraft(w http.ResponseWriter, r *http.Request) {
	draftID := chi.URLParam(r, "draftID")
	d, err := h.Composer.GetDraft(draftID)
	if err != nil {
		h.writeError(w, "Failed to load draft", err)
		return
	}
	review, err := h.Composer.Review(draftID)
	if err != nil {
		h.writeError(w, "Failed to build review summary", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Draft state", h.draftState(d, review)))
}

func (h *Handler) Next(w http.ResponseWriter, r *http.Request) {
	r, ok := h.withToken(w, r)
	if !ok {
		return
	}

	draftID := chi.URLParam(r, "draftID")
	var input draft.StepInput
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
			return
		}
	}

	result, err := h.Composer.Next(r.Context(), draftID, &input)
	if err != nil {
		h.writeError(w, "Step could not advance", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Step advanced", result))
}

func (h *Handler) Back(w http.ResponseWriter, r *http.Request) {
	draftID := chi.URLParam(r, "draftID")
	step, err := h.Composer.Back(draftID)
	if err != nil {
		h.writeError(w, "Cannot go back", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Moved back", map[string]string{"step": step.String()}))
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	r, ok := h.withToken(w, r)
	if !ok {
		return
	}

	draftID := chi.URLParam(r, "draftID")
	var body struct {
		PublishState models.PublishState `json:"publish_state"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if body.PublishState == "" {
		body.PublishState = models.PublishStateDraft
	}

	result, err := h.Composer.Submit(r.Context(), draftID, body.PublishState)
	if err != nil {
		h.writeError(w, "Submit failed", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Event submitted", result))
}

func (h *Handler) AddTicket(w http.ResponseWriter, r *http.Request) {
	r, ok := h.withToken(w, r)
	if !ok {
		return
	}

	draftID := chi.URLParam(r, "draftID")
	var ticket models.Ticket
	if err := json.NewDecoder(r.Body).Decode(&ticket); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	created, err := h.Composer.AddTicket(r.Context(), draftID, ticket)
	if err != nil {
		h.writeError(w, "Failed to add ticket", err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, utils.SuccessResponse("Ticket added", created))
}

func (h *Handler) RemoveTicket(w http.ResponseWriter, r *http.Request) {
	r, ok := h.withToken(w, r)
	if !ok {
		return
	}

	draftID := chi.URLParam(r, "draftID")
	ticketID := chi.URLParam(r, "ticketID")
	if err := h.Composer.RemoveTicket(r.Context(), draftID, ticketID); err != nil {
		h.writeError(w, "Failed to remove ticket", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Ticket removed", nil))
}

func (h *Handler) StageCover(w http.ResponseWriter, r *http.Request) {
	r, ok := h.withToken(w, r)
	if !ok {
		return
	}

	draftID := chi.URLParam(r, "draftID")
	file, ok := h.readFile(w, r, "file")
	if !ok {
		return
	}

	att, err := h.Composer.StageCover(r.Context(), draftID, file)
	if err != nil {
		h.writeError(w, "Failed to upload cover image", err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, utils.SuccessResponse("Cover image staged", att))
}

func (h *Handler) DeleteCover(w http.ResponseWriter, r *http.Request) {
	r, ok := h.withToken(w, r)
	if !ok {
		return
	}

	draftID := chi.URLParam(r, "draftID")
	if err := h.Composer.DeleteCover(r.Context(), draftID); err != nil {
		h.writeError(w, "Failed to delete cover image", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Cover image removed", nil))
}

func (h *Handler) StageGallery(w http.ResponseWriter, r *http.Request) {
	r, ok := h.withToken(w, r)
	if !ok {
		return
	}

	draftID := chi.URLParam(r, "draftID")
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "Invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}

	var files []media.File
	for _, header := range r.MultipartForm.File["files"] {
		f, err := header.Open()
		if err != nil {
			http.Error(w, "Failed to read upload: "+err.Error(), http.StatusBadRequest)
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			http.Error(w, "Failed to read upload: "+err.Error(), http.StatusBadRequest)
			return
		}
		files = append(files, media.File{Name: header.Filename, Data: data})
	}

	staged, err := h.Composer.StageGalleryImages(r.Context(), draftID, files)
	if err != nil {
		h.writeError(w, "Gallery upload failed", err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, utils.SuccessResponse(
		fmt.Sprintf("%d gallery image(s) staged", len(staged)), staged))
}

func (h *Handler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	r, ok := h.withToken(w, r)
	if !ok {
		return
	}

	draftID := chi.URLParam(r, "draftID")
	imageID := chi.URLParam(r, "imageID")
	if err := h.Composer.DeleteGalleryImage(r.Context(), draftID, imageID); err != nil {
		h.writeError(w, "Failed to delete image", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Image removed", nil))
}

func (h *Handler) readFile(w http.ResponseWriter, r *http.Request, field string) (media.File, bool) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "Invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return media.File{}, false
	}
	f, header, err := r.FormFile(field)
	if err != nil {
		http.Error(w, fmt.Sprintf("Missing %s upload: %v", field, err), http.StatusBadRequest)
		return media.File{}, false
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		http.Error(w, "Failed to read upload: "+err.Error(), http.StatusBadRequest)
		return media.File{}, false
	}
	return media.File{Name: header.Filename, Data: data}, true
}

// writeError maps wizard errors onto HTTP statuses. Auth failures carry a
// reauth marker the front end uses to bounce the user to the login flow.
func (h *Handler) writeError(w http.ResponseWriter, message string, err error) {
	var ve *draft.ValidationError

	switch {
	case errors.As(err, &ve):
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse(message, ve.Err.Error()))
	case errors.Is(err, backend.ErrAuthExpired):
		w.Header().Set("X-Reauth-Required", "true")
		utils.WriteJSON(w, http.StatusUnauthorized, utils.ErrorResponse("Re-authentication required", err.Error()))
	case errors.Is(err, draft.ErrDraftNotFound), errors.Is(err, backend.ErrNotFound):
		utils.WriteJSON(w, http.StatusNotFound, utils.ErrorResponse(message, err.Error()))
	case errors.Is(err, draft.ErrNotAtReview), errors.Is(err, draft.ErrAlreadyAtFirst):
		utils.WriteJSON(w, http.StatusConflict, utils.ErrorResponse(message, err.Error()))
	default:
		h.Logger.Error("API", fmt.Sprintf("%s: %v", message, err))
		utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse(message, err.Error()))
	}
}
