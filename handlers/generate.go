package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"storyforge/agent"
	"storyforge/models"
)

// StoryGenerator runs the free-text-to-container pipeline.
type StoryGenerator interface {
	Run(ctx context.Context, message string) (*models.ContenedorHistoria, error)
}

// ContenedorStore persists a generated container when the caller asks for it.
type ContenedorStore interface {
	InsertContenedor(ctx context.Context, contenedor *models.ContenedorHistoria) error
}

type GenerateHandler struct {
	pipeline StoryGenerator
	store    ContenedorStore
	log      zerolog.Logger
}

func NewGenerateHandler(pipeline StoryGenerator, store ContenedorStore, logger zerolog.Logger) *GenerateHandler {
	return &GenerateHandler{
		pipeline: pipeline,
		store:    store,
		log:      logger.With().Str("component", "generate").Logger(),
	}
}

type generateRequest struct {
	Mensaje string `json:"mensaje"`
	Guardar bool   `json:"guardar"`
}

// rawOutputResponse carries the model's unstructured text back to the caller
// so it can attempt its own parse or display it as-is.
type rawOutputResponse struct {
	Raw string `json:"raw"`
}

// Generate handles POST /generar: one free-text message in, one
// ContenedorHistoria out.
func (h *GenerateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Bad request")
		return
	}
	if req.Mensaje == "" {
		writeError(w, http.StatusBadRequest, "mensaje is required")
		return
	}

	contenedor, err := h.pipeline.Run(r.Context(), req.Mensaje)
	var malformed *agent.MalformedOutputError
	if errors.As(err, &malformed) {
		// Not fatal: hand the raw text back for the caller to deal with.
		h.log.Warn().Msg("pipeline produced unstructured output")
		writeJSON(w, http.StatusOK, rawOutputResponse{Raw: malformed.Raw})
		return
	}
	if err != nil {
		h.log.Error().Err(err).Msg("pipeline run failed")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if req.Guardar && h.store != nil {
		if err := h.store.InsertContenedor(r.Context(), contenedor); err != nil {
			h.log.Error().Err(err).Msg("persist contenedor")
			writeError(w, http.StatusInternalServerError, "Failed to persist contenedor")
			return
		}
	}

	writeJSON(w, http.StatusOK, contenedor)
}
