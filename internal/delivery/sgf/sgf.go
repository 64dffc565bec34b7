package sgf

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"sgf_service/internal/domain/record"
	"sgf_service/internal/errors"
	"sgf_service/internal/httpresponse"
)

type SgfUseCase interface {
	ParseResult(text string) record.ParseResult
	SaveRecord(ctx context.Context, name string, source string, text string) (record.Record, error)
	GetRecord(ctx context.Context, id string) (record.Record, error)
	GetSource(ctx context.Context, id string) (string, error)
	ListRecords(ctx context.Context, pageNum int) (*record.RecordPage, error)
	DeleteRecord(ctx context.Context, id string) error
}

type SgfHandler struct {
	log          *zap.SugaredLogger
	sgfUC        SgfUseCase
	maxBodyBytes int64
}

func NewSgfHandler(log *zap.SugaredLogger, sgfUC SgfUseCase, maxBodyBytes int64) *SgfHandler {
	return &SgfHandler{
		log:          log,
		sgfUC:        sgfUC,
		maxBodyBytes: maxBodyBytes,
	}
}

func (h *SgfHandler) Router(r chi.Router) {
	r.Post("/parse", h.HandleParse)
	r.Route("/records", func(r chi.Router) {
		r.Post("/", h.HandleSaveRecord)
		r.Get("/", h.HandleListRecords)
		r.Get("/{id}", h.HandleGetRecord)
		r.Get("/{id}/source", h.HandleGetSource)
		r.Delete("/{id}", h.HandleDeleteRecord)
	})
	r.Get("/ws/parse", h.HandleParseSocket)
}

// readBody returns false when a response was already written.
func (h *SgfHandler) readBody(w http.ResponseWriter, r *http.Request) (string, bool) {
	if h.maxBodyBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	}
	defer r.Body.Close()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			h.log.Infof("rejected body larger than %d bytes", h.maxBodyBytes)
			httpresponse.WriteErrorWithStatus(w, http.StatusRequestEntityTooLarge, errors.ErrBodyTooLarge.Error())
			return "", false
		}
		h.log.Error("Failed to read body:", err)
		httpresponse.WriteErrorWithStatus(w, http.StatusBadRequest, "Failed to read request body")
		return "", false
	}
	return string(body), true
}

func (h *SgfHandler) HandleParse(w http.ResponseWriter, r *http.Request) {
	text, ok := h.readBody(w, r)
	if !ok {
		return
	}

	result := h.sgfUC.ParseResult(text)
	if result.Error != "" {
		h.log.Debugf("parse failed: %s", result.Error)
		httpresponse.WriteResponseWithStatus(w, http.StatusUnprocessableEntity, result)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, result)
}

func (h *SgfHandler) HandleSaveRecord(w http.ResponseWriter, r *http.Request) {
	text, ok := h.readBody(w, r)
	if !ok {
		return
	}

	rec, err := h.sgfUC.SaveRecord(r.Context(), r.URL.Query().Get("name"), record.SourceAPI, text)
	if isRejected(err) {
		httpresponse.WriteResponseWithStatus(w, http.StatusUnprocessableEntity, record.ParseResult{Error: err.Error()})
		return
	}
	if err != nil {
		h.log.Errorf("failed to save record: %v", err)
		httpresponse.WriteErrorWithStatus(w, http.StatusInternalServerError, errors.ErrInternal.Error())
		return
	}

	rec.Collection = nil
	httpresponse.WriteResponseWithStatus(w, http.StatusCreated, rec)
}

func (h *SgfHandler) HandleListRecords(w http.ResponseWriter, r *http.Request) {
	pageNum := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			httpresponse.WriteErrorWithStatus(w, http.StatusBadRequest, "page must be a positive integer")
			return
		}
		pageNum = n
	}

	page, err := h.sgfUC.ListRecords(r.Context(), pageNum)
	if err != nil {
		h.log.Error(err)
		httpresponse.WriteErrorWithStatus(w, http.StatusInternalServerError, errors.ErrInternal.Error())
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, page)
}

func (h *SgfHandler) HandleGetRecord(w http.ResponseWriter, r *http.Request) {
	rec, err := h.sgfUC.GetRecord(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeLookupError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, rec)
}

func (h *SgfHandler) HandleGetSource(w http.ResponseWriter, r *http.Request) {
	text, err := h.sgfUC.GetSource(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeLookupError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/x-go-sgf; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, text)
}

func (h *SgfHandler) HandleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	if err := h.sgfUC.DeleteRecord(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeLookupError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// isRejected is true when the document itself cannot be stored.
func isRejected(err error) bool {
	return stderrors.Is(err, errors.ErrSyntax) || stderrors.Is(err, errors.ErrRecordTooDeep)
}

func (h *SgfHandler) writeLookupError(w http.ResponseWriter, err error) {
	if stderrors.Is(err, errors.ErrRecordNotFound) {
		httpresponse.WriteErrorWithStatus(w, http.StatusNotFound, err.Error())
		return
	}
	h.log.Error(err)
	httpresponse.WriteErrorWithStatus(w, http.StatusInternalServerError, errors.ErrInternal.Error())
}
