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

// PersonajeStore is the slice of the storage layer the personajes endpoints
// need.
type PersonajeStore interface {
	InsertPersonaje(ctx context.Context, personaje *models.Personaje) error
	ListPersonajes(ctx context.Context, storyID string) ([]models.Personaje, error)
	GetPersonaje(ctx context.Context, personajeID string) (*models.Personaje, error)
	UpdatePersonaje(ctx context.Context, personajeID string, updates bson.M) (*models.Personaje, error)
	DeletePersonaje(ctx context.Context, personajeID string) error
}

type PersonajesHandler struct {
	store   PersonajeStore
	factory *models.Factory
	log     zerolog.Logger
}

func NewPersonajesHandler(store PersonajeStore, logger zerolog.Logger) *PersonajesHandler {
	return &PersonajesHandler{
		store:   store,
		factory: models.NewFactory(),
		log:     logger.With().Str("component", "personajes").Logger(),
	}
}

type crearPersonajeRequest struct {
	Nombre       *string  `json:"nombre"`
	StoryID      *string  `json:"story_id"`
	Descripcion  *string  `json:"descripcion"`
	Rol          *string  `json:"rol"`
	Habilidades  []string `json:"habilidades"`
	NivelPoder   *int     `json:"nivel_poder"`
	ImagenPerfil *string  `json:"imagen_perfil"`
	Edad         *int     `json:"edad"`
	Origen       *string  `json:"origen"`
}

type actualizarPersonajeRequest struct {
	Nombre       *string  `json:"nombre"`
	Descripcion  *string  `json:"descripcion"`
	Rol          *string  `json:"rol"`
	Habilidades  []string `json:"habilidades"`
	NivelPoder   *int     `json:"nivel_poder"`
	ImagenPerfil *string  `json:"imagen_perfil"`
	Edad         *int     `json:"edad"`
	Origen       *string  `json:"origen"`
	Estado       *string  `json:"estado"`
}

// Collection handles /personajes: GET lists (optionally filtered by
// ?story_id=), POST creates.
func (h *PersonajesHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		personajes, err := h.store.ListPersonajes(r.Context(), r.URL.Query().Get("story_id"))
		if err != nil {
			h.log.Error().Err(err).Msg("list personajes")
			writeError(w, http.StatusInternalServerError, "Failed to list personajes")
			return
		}
		writeJSON(w, http.StatusOK, personajes)
	case http.MethodPost:
		var req crearPersonajeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Bad request")
			return
		}
		if req.Nombre == nil || *req.Nombre == "" {
			writeError(w, http.StatusBadRequest, "nombre is required")
			return
		}
		if req.StoryID == nil || *req.StoryID == "" {
			writeError(w, http.StatusBadRequest, "story_id is required")
			return
		}

		personaje, err := h.factory.NewPersonaje(models.PersonajeParams{
			Nombre:       *req.Nombre,
			StoryID:      *req.StoryID,
			Descripcion:  req.Descripcion,
			Rol:          req.Rol,
			Habilidades:  req.Habilidades,
			NivelPoder:   req.NivelPoder,
			ImagenPerfil: req.ImagenPerfil,
			Edad:         req.Edad,
			Origen:       req.Origen,
		})
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := h.store.InsertPersonaje(r.Context(), personaje); err != nil {
			h.log.Error().Err(err).Msg("insert personaje")
			writeError(w, http.StatusInternalServerError, "Failed to create personaje")
			return
		}
		writeJSON(w, http.StatusCreated, personaje)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// Detail handles /personajes/{id}: GET, PUT and DELETE.
func (h *PersonajesHandler) Detail(w http.ResponseWriter, r *http.Request) {
	personajeID := strings.TrimPrefix(r.URL.Path, "/personajes/")
	if personajeID == "" || personajeID == r.URL.Path {
		writeError(w, http.StatusBadRequest, "Personaje ID is required")
		return
	}

	switch r.Method {
	case http.MethodGet:
		personaje, err := h.store.GetPersonaje(r.Context(), personajeID)
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Personaje not found")
			return
		}
		if err != nil {
			h.log.Error().Err(err).Str("personaje_id", personajeID).Msg("get personaje")
			writeError(w, http.StatusInternalServerError, "Failed to get personaje")
			return
		}
		writeJSON(w, http.StatusOK, personaje)
	case http.MethodPut:
		var req actualizarPersonajeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Bad request")
			return
		}
		updates := personajeUpdates(req)
		if len(updates) == 0 {
			writeError(w, http.StatusBadRequest, "No fields to update")
			return
		}

		personaje, err := h.store.UpdatePersonaje(r.Context(), personajeID, updates)
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Personaje not found")
			return
		}
		if err != nil {
			h.log.Error().Err(err).Str("personaje_id", personajeID).Msg("update personaje")
			writeError(w, http.StatusInternalServerError, "Failed to update personaje")
			return
		}
		writeJSON(w, http.StatusOK, personaje)
	case http.MethodDelete:
		err := h.store.DeletePersonaje(r.Context(), personajeID)
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Personaje not found")
			return
		}
		if err != nil {
			h.log.Error().Err(err).Str("personaje_id", personajeID).Msg("delete personaje")
			writeError(w, http.StatusInternalServerError, "Failed to delete personaje")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func personajeUpdates(req actualizarPersonajeRequest) bson.M {
	updates := bson.M{}
	if req.Nombre != nil {
		updates["nombre"] = *req.Nombre
	}
	if req.Descripcion != nil {
		updates["descripcion"] = *req.Descripcion
	}
	if req.Rol != nil {
		updates["rol"] = *req.Rol
	}
	if req.Habilidades != nil {
		updates["habilidades"] = req.Habilidades
	}
	if req.NivelPoder != nil {
		updates["nivel_poder"] = *req.NivelPoder
	}
	if req.ImagenPerfil != nil {
		updates["imagen_perfil"] = *req.ImagenPerfil
	}
	if req.Edad != nil {
		updates["edad"] = *req.Edad
	}
	if req.Origen != nil {
		updates["origen"] = *req.Origen
	}
	if req.Estado != nil {
		updates["estado"] = *req.Estado
	}
	return updates
}
