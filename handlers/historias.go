package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"

	"storyforge/db"
	"storyforge/models"
)

// HistoriaStore is the slice of the storage layer the historias endpoints
// need.
type HistoriaStore interface {
	InsertHistoria(ctx context.Context, historia *models.Historia) error
	ListHistorias(ctx context.Context) ([]models.Historia, error)
	GetHistoria(ctx context.Context, storyID string) (*models.Historia, error)
	UpdateHistoria(ctx context.Context, storyID string, updates bson.M) (*models.Historia, error)
	DeleteHistoria(ctx context.Context, storyID string) error
}

type HistoriasHandler struct {
	store   HistoriaStore
	factory *models.Factory
	log     zerolog.Logger
}

func NewHistoriasHandler(store HistoriaStore, logger zerolog.Logger) *HistoriasHandler {
	return &HistoriasHandler{
		store:   store,
		factory: models.NewFactory(),
		log:     logger.With().Str("component", "historias").Logger(),
	}
}

type crearHistoriaRequest struct {
	Titulo        *string  `json:"titulo"`
	Descripcion   *string  `json:"descripcion"`
	Generos       []string `json:"generos"`
	Dificultad    *int     `json:"dificultad"`
	ImagenPortada *string  `json:"imagen_portada"`
	MinJugadores  *int     `json:"min_jugadores"`
	MaxJugadores  *int     `json:"max_jugadores"`
	Estado        *string  `json:"estado"`
}

type actualizarHistoriaRequest struct {
	Titulo        *string  `json:"titulo"`
	Descripcion   *string  `json:"descripcion"`
	Generos       []string `json:"generos"`
	Dificultad    *int     `json:"dificultad"`
	ImagenPortada *string  `json:"imagen_portada"`
	MinJugadores  *int     `json:"min_jugadores"`
	MaxJugadores  *int     `json:"max_jugadores"`
	Estado        *string  `json:"estado"`
}

// Collection handles /historias: GET lists, POST creates.
func (h *HistoriasHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		historias, err := h.store.ListHistorias(r.Context())
		if err != nil {
			h.log.Error().Err(err).Msg("list historias")
			writeError(w, http.StatusInternalServerError, "Failed to list historias")
			return
		}
		writeJSON(w, http.StatusOK, historias)
	case http.MethodPost:
		var req crearHistoriaRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Bad request")
			return
		}
		if req.Titulo == nil || *req.Titulo == "" {
			writeError(w, http.StatusBadRequest, "titulo is required")
			return
		}

		estado := req.Estado
		if estado == nil {
			borrador := models.EstadoBorrador
			estado = &borrador
		}
		historia, err := h.factory.NewHistoria(models.HistoriaParams{
			Titulo:        req.Titulo,
			Descripcion:   req.Descripcion,
			Generos:       req.Generos,
			Dificultad:    req.Dificultad,
			ImagenPortada: req.ImagenPortada,
			MinJugadores:  req.MinJugadores,
			MaxJugadores:  req.MaxJugadores,
			Estado:        estado,
		})
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := h.store.InsertHistoria(r.Context(), historia); err != nil {
			h.log.Error().Err(err).Msg("insert historia")
			writeError(w, http.StatusInternalServerError, "Failed to create historia")
			return
		}
		writeJSON(w, http.StatusCreated, historia)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// Detail handles /historias/{id}: GET, PUT and DELETE.
func (h *HistoriasHandler) Detail(w http.ResponseWriter, r *http.Request) {
	storyID := strings.TrimPrefix(r.URL.Path, "/historias/")
	if storyID == "" || storyID == r.URL.Path {
		writeError(w, http.StatusBadRequest, "Story ID is required")
		return
	}

	switch r.Method {
	case http.MethodGet:
		historia, err := h.store.GetHistoria(r.Context(), storyID)
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Historia not found")
			return
		}
		if err != nil {
			h.log.Error().Err(err).Str("story_id", storyID).Msg("get historia")
			writeError(w, http.StatusInternalServerError, "Failed to get historia")
			return
		}
		writeJSON(w, http.StatusOK, historia)
	case http.MethodPut:
		var req actualizarHistoriaRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Bad request")
			return
		}
		updates := historiaUpdates(req)
		if len(updates) == 0 {
			writeError(w, http.StatusBadRequest, "No fields to update")
			return
		}

		historia, err := h.store.UpdateHistoria(r.Context(), storyID, updates)
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Historia not found")
			return
		}
		if err != nil {
			h.log.Error().Err(err).Str("story_id", storyID).Msg("update historia")
			writeError(w, http.StatusInternalServerError, "Failed to update historia")
			return
		}
		writeJSON(w, http.StatusOK, historia)
	case http.MethodDelete:
		err := h.store.DeleteHistoria(r.Context(), storyID)
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Historia not found")
			return
		}
		if err != nil {
			h.log.Error().Err(err).Str("story_id", storyID).Msg("delete historia")
			writeError(w, http.StatusInternalServerError, "Failed to delete historia")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// historiaUpdates keeps only the fields the caller actually sent, mirroring
// the partial-update semantics of the hosted table API.
func historiaUpdates(req actualizarHistoriaRequest) bson.M {
	updates := bson.M{}
	if req.Titulo != nil {
		updates["titulo"] = *req.Titulo
	}
	if req.Descripcion != nil {
		updates["descripcion"] = *req.Descripcion
	}
	if req.Generos != nil {
		updates["generos"] = req.Generos
	}
	if req.Dificultad != nil {
		updates["dificultad"] = *req.Dificultad
	}
	if req.ImagenPortada != nil {
		updates["imagen_portada"] = *req.ImagenPortada
	}
	if req.MinJugadores != nil {
		updates["min_jugadores"] = *req.MinJugadores
	}
	if req.MaxJugadores != nil {
		updates["max_jugadores"] = *req.MaxJugadores
	}
	if req.Estado != nil {
		updates["estado"] = *req.Estado
	}
	return updates
}
