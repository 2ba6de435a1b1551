package models

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testFactory returns a factory with a fixed clock and sequential ids so
// constructed records are fully deterministic.
func testFactory() *Factory {
	fixed := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	counter := 0
	return &Factory{
		Clock: func() time.Time { return fixed },
		NewID: func() string {
			counter++
			return fmt.Sprintf("id-%04d", counter)
		},
	}
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func TestNewHistoriaDefaults(t *testing.T) {
	f := testFactory()

	historia, err := f.NewHistoria(HistoriaParams{})
	require.NoError(t, err)

	assert.Equal(t, "Historia sin título", historia.Titulo)
	assert.Equal(t, 1, historia.MinJugadores)
	assert.Equal(t, 4, historia.MaxJugadores)
	assert.Nil(t, historia.Estado)
	assert.NotEmpty(t, historia.StoryID)
	assert.NotEmpty(t, historia.AutorID)
	assert.NotEqual(t, historia.StoryID, historia.AutorID)

	created, err := time.Parse(time.RFC3339Nano, historia.FechaCreacion)
	require.NoError(t, err)
	modified, err := time.Parse(time.RFC3339Nano, historia.FechaModificacion)
	require.NoError(t, err)
	assert.False(t, created.After(modified), "fecha_creacion must not be after fecha_modificacion")
}

func TestNewHistoriaEchoesInputs(t *testing.T) {
	f := testFactory()

	historia, err := f.NewHistoria(HistoriaParams{
		Titulo:       strPtr("El bosque encantado"),
		Descripcion:  strPtr("Una aventura mágica"),
		Generos:      []string{"fantasía", "aventura"},
		Dificultad:   intPtr(3),
		MinJugadores: intPtr(2),
		MaxJugadores: intPtr(3),
	})
	require.NoError(t, err)

	assert.Equal(t, "El bosque encantado", historia.Titulo)
	assert.Equal(t, 2, historia.MinJugadores)
	assert.Equal(t, 3, historia.MaxJugadores)
	assert.Equal(t, []string{"fantasía", "aventura"}, historia.Generos)
	assert.Equal(t, historia.FechaCreacion, historia.FechaModificacion)
}

func TestNewHistoriaRejectsZeroMinJugadores(t *testing.T) {
	f := testFactory()

	_, err := f.NewHistoria(HistoriaParams{MinJugadores: intPtr(0)})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "min_jugadores", verr.Field)
}

func TestNewPersonajeRequiresNombre(t *testing.T) {
	f := testFactory()

	_, err := f.NewPersonaje(PersonajeParams{StoryID: "story-1"})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "nombre", verr.Field)
}

func TestNewPersonajeRequiresStoryID(t *testing.T) {
	f := testFactory()

	_, err := f.NewPersonaje(PersonajeParams{Nombre: "Aldric"})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "story_id", verr.Field)
}

func TestNewPersonajeDefaults(t *testing.T) {
	f := testFactory()

	personaje, err := f.NewPersonaje(PersonajeParams{Nombre: "Aldric", StoryID: "story-1"})
	require.NoError(t, err)

	assert.Equal(t, EstadoActivo, personaje.Estado)
	assert.NotEmpty(t, personaje.PersonajeID)
	assert.NotEmpty(t, personaje.CreadorID)
	assert.Equal(t, "story-1", personaje.StoryID)
	assert.Equal(t, personaje.FechaCreacion, personaje.FechaModificacion)
}

func TestCompleteCharacterFillsDefaults(t *testing.T) {
	f := testFactory()
	historia, err := f.NewHistoria(HistoriaParams{Titulo: strPtr("La cripta")})
	require.NoError(t, err)

	personaje, err := f.CompleteCharacter(map[string]any{"nombre": "Aldric"}, historia)
	require.NoError(t, err)

	assert.Equal(t, "Aldric", personaje.Nombre)
	assert.Equal(t, historia.StoryID, personaje.StoryID)
	assert.Equal(t, historia.AutorID, personaje.CreadorID)
	assert.Equal(t, historia.FechaCreacion, personaje.FechaCreacion)
	assert.Equal(t, historia.FechaModificacion, personaje.FechaModificacion)
	assert.Equal(t, EstadoActivo, personaje.Estado)
	assert.NotEmpty(t, personaje.PersonajeID)
	assert.NotEqual(t, historia.StoryID, personaje.PersonajeID)
}

func TestCompleteCharacterIsIdempotent(t *testing.T) {
	f := testFactory()
	historia, err := f.NewHistoria(HistoriaParams{Titulo: strPtr("La cripta")})
	require.NoError(t, err)

	first, err := f.CompleteCharacter(map[string]any{"nombre": "Aldric"}, historia)
	require.NoError(t, err)

	// Re-run completion over the already complete mapping: nothing changes.
	raw, err := json.Marshal(first)
	require.NoError(t, err)
	var complete map[string]any
	require.NoError(t, json.Unmarshal(raw, &complete))

	second, err := f.CompleteCharacter(complete, historia)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestAssembleContenedorEmptyCharacterList(t *testing.T) {
	f := testFactory()

	contenedor, err := f.AssembleContenedor(ContenedorParams{})
	require.NoError(t, err)

	require.NotNil(t, contenedor.Personajes)
	assert.Len(t, contenedor.Personajes, 0)

	raw, err := json.Marshal(contenedor)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"personajes":[]`)
}

func TestAssembleContenedorStampsStoryID(t *testing.T) {
	f := testFactory()

	contenedor, err := f.AssembleContenedor(ContenedorParams{
		Personajes: []map[string]any{{"nombre": "Aldric"}},
	})
	require.NoError(t, err)

	require.Len(t, contenedor.Personajes, 1)
	personaje := contenedor.Personajes[0]
	assert.Equal(t, contenedor.Historia.StoryID, personaje.StoryID)
	assert.Equal(t, EstadoActivo, personaje.Estado)
	assert.NotEmpty(t, personaje.PersonajeID)
	assert.NotEqual(t, contenedor.Historia.StoryID, personaje.PersonajeID)
}

func TestAssembleContenedorPreservesOrder(t *testing.T) {
	f := testFactory()

	contenedor, err := f.AssembleContenedor(ContenedorParams{
		Personajes: []map[string]any{
			{"nombre": "Guerrero"},
			{"nombre": "Maga"},
			{"nombre": "Pícaro"},
		},
	})
	require.NoError(t, err)

	require.Len(t, contenedor.Personajes, 3)
	assert.Equal(t, "Guerrero", contenedor.Personajes[0].Nombre)
	assert.Equal(t, "Maga", contenedor.Personajes[1].Nombre)
	assert.Equal(t, "Pícaro", contenedor.Personajes[2].Nombre)
}

func TestAssembleContenedorMissingNombreFails(t *testing.T) {
	f := testFactory()

	_, err := f.AssembleContenedor(ContenedorParams{
		Personajes: []map[string]any{
			{"nombre": "Guerrero"},
			{"rol": "antagonista"},
		},
	})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "nombre", verr.Field)
}

func TestCompleteCharacterRejectsWrongType(t *testing.T) {
	f := testFactory()
	historia, err := f.NewHistoria(HistoriaParams{Titulo: strPtr("La cripta")})
	require.NoError(t, err)

	_, err = f.CompleteCharacter(map[string]any{"nombre": "Aldric", "edad": "treinta"}, historia)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "edad", verr.Field)
}

func TestContenedorJSONRoundTrip(t *testing.T) {
	f := testFactory()

	contenedor, err := f.AssembleContenedor(ContenedorParams{
		Historia: HistoriaParams{
			Titulo:       strPtr("El bosque encantado"),
			Descripcion:  strPtr("Una aventura mágica"),
			Generos:      []string{"fantasía"},
			Dificultad:   intPtr(3),
			MinJugadores: intPtr(2),
			MaxJugadores: intPtr(3),
			Estado:       strPtr(EstadoBorrador),
		},
		Personajes: []map[string]any{
			{"nombre": "Guerrero", "descripcion": "Un veterano curtido", "nivel_poder": 7},
			{"nombre": "Maga", "habilidades": []string{"fuego", "hielo"}, "edad": 112},
		},
	})
	require.NoError(t, err)

	raw, err := json.Marshal(contenedor)
	require.NoError(t, err)

	var decoded ContenedorHistoria
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, *contenedor, decoded)
}
