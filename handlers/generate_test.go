package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storyforge/agent"
	"storyforge/models"
)

type stubPipeline struct {
	contenedor *models.ContenedorHistoria
	err        error
}

func (s *stubPipeline) Run(_ context.Context, _ string) (*models.ContenedorHistoria, error) {
	return s.contenedor, s.err
}

type stubContenedorStore struct {
	saved []*models.ContenedorHistoria
	err   error
}

func (s *stubContenedorStore) InsertContenedor(_ context.Context, contenedor *models.ContenedorHistoria) error {
	if s.err != nil {
		return s.err
	}
	s.saved = append(s.saved, contenedor)
	return nil
}

func sampleContenedor() *models.ContenedorHistoria {
	return &models.ContenedorHistoria{
		Historia: models.Historia{
			StoryID:           "story-1",
			Titulo:            "El bosque encantado",
			MinJugadores:      1,
			MaxJugadores:      4,
			AutorID:           "autor-1",
			FechaCreacion:     "2025-03-14T09:26:53Z",
			FechaModificacion: "2025-03-14T09:26:53Z",
		},
		Personajes: []models.Personaje{},
	}
}

func TestGenerateRejectsNonPost(t *testing.T) {
	h := NewGenerateHandler(&stubPipeline{}, nil, zerolog.Nop())

	rec := httptest.NewRecorder()
	h.Generate(rec, httptest.NewRequest(http.MethodGet, "/generar", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestGenerateRejectsBadBody(t *testing.T) {
	h := NewGenerateHandler(&stubPipeline{}, nil, zerolog.Nop())

	rec := httptest.NewRecorder()
	h.Generate(rec, httptest.NewRequest(http.MethodPost, "/generar", strings.NewReader("{not json")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerateRequiresMensaje(t *testing.T) {
	h := NewGenerateHandler(&stubPipeline{}, nil, zerolog.Nop())

	rec := httptest.NewRecorder()
	h.Generate(rec, httptest.NewRequest(http.MethodPost, "/generar", strings.NewReader(`{"mensaje":""}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerateReturnsContenedor(t *testing.T) {
	h := NewGenerateHandler(&stubPipeline{contenedor: sampleContenedor()}, nil, zerolog.Nop())

	rec := httptest.NewRecorder()
	h.Generate(rec, httptest.NewRequest(http.MethodPost, "/generar", strings.NewReader(`{"mensaje":"una aventura"}`)))

	require.Equal(t, http.StatusOK, rec.Code)
	var got models.ContenedorHistoria
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "El bosque encantado", got.Historia.Titulo)
	assert.NotNil(t, got.Personajes)
}

func TestGeneratePersistsWhenAsked(t *testing.T) {
	store := &stubContenedorStore{}
	h := NewGenerateHandler(&stubPipeline{contenedor: sampleContenedor()}, store, zerolog.Nop())

	rec := httptest.NewRecorder()
	h.Generate(rec, httptest.NewRequest(http.MethodPost, "/generar", strings.NewReader(`{"mensaje":"una aventura","guardar":true}`)))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, store.saved, 1)
	assert.Equal(t, "story-1", store.saved[0].Historia.StoryID)
}

func TestGenerateReturnsRawTextOnMalformedOutput(t *testing.T) {
	pipeline := &stubPipeline{err: &agent.MalformedOutputError{Raw: "no puedo hacer eso"}}
	h := NewGenerateHandler(pipeline, nil, zerolog.Nop())

	rec := httptest.NewRecorder()
	h.Generate(rec, httptest.NewRequest(http.MethodPost, "/generar", strings.NewReader(`{"mensaje":"una aventura"}`)))

	require.Equal(t, http.StatusOK, rec.Code)
	var got rawOutputResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "no puedo hacer eso", got.Raw)
}

func TestGenerateReportsPipelineFailure(t *testing.T) {
	pipeline := &stubPipeline{err: errors.New("tool crear_personaje: invalid nombre: must not be empty")}
	h := NewGenerateHandler(pipeline, nil, zerolog.Nop())

	rec := httptest.NewRecorder()
	h.Generate(rec, httptest.NewRequest(http.MethodPost, "/generar", strings.NewReader(`{"mensaje":"una aventura"}`)))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
