package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Default values applied when the caller leaves story fields unset.
const (
	DefaultTitulo       = "Historia sin título"
	DefaultMinJugadores = 1
	DefaultMaxJugadores = 4

	EstadoBorrador = "borrador"
	EstadoActivo   = "activo"
)

// Factory constructs fresh records. Clock and NewID are injectable so tests
// can build deterministic identifiers and timestamps.
type Factory struct {
	Clock func() time.Time
	NewID func() string
}

func NewFactory() *Factory {
	return &Factory{
		Clock: time.Now,
		NewID: uuid.NewString,
	}
}

func (f *Factory) now() string {
	return f.Clock().UTC().Format(time.RFC3339Nano)
}

// HistoriaParams carries the caller-provided story attributes. Nil fields
// fall back to the defaults above.
type HistoriaParams struct {
	Titulo        *string
	Descripcion   *string
	Generos       []string
	Dificultad    *int
	ImagenPortada *string
	MinJugadores  *int
	MaxJugadores  *int
	Estado        *string
}

// NewHistoria builds a complete Historia: fresh story and author identifiers,
// both timestamps set to the current UTC instant, defaults filled in.
func (f *Factory) NewHistoria(p HistoriaParams) (*Historia, error) {
	titulo := DefaultTitulo
	if p.Titulo != nil && *p.Titulo != "" {
		titulo = *p.Titulo
	}
	minJugadores := DefaultMinJugadores
	if p.MinJugadores != nil {
		minJugadores = *p.MinJugadores
	}
	maxJugadores := DefaultMaxJugadores
	if p.MaxJugadores != nil {
		maxJugadores = *p.MaxJugadores
	}

	now := f.now()
	historia := &Historia{
		StoryID:           f.NewID(),
		Titulo:            titulo,
		Descripcion:       p.Descripcion,
		Generos:           p.Generos,
		Dificultad:        p.Dificultad,
		ImagenPortada:     p.ImagenPortada,
		MinJugadores:      minJugadores,
		MaxJugadores:      maxJugadores,
		AutorID:           f.NewID(),
		FechaCreacion:     now,
		FechaModificacion: now,
		Estado:            p.Estado,
	}
	if err := historia.Validate(); err != nil {
		return nil, err
	}
	return historia, nil
}

// PersonajeParams carries the caller-provided character attributes. Nombre
// and StoryID are required; everything else is optional.
type PersonajeParams struct {
	Nombre       string
	StoryID      string
	Descripcion  *string
	Rol          *string
	Habilidades  []string
	NivelPoder   *int
	ImagenPerfil *string
	Edad         *int
	Origen       *string
}

// NewPersonaje builds a complete Personaje with fresh character and creator
// identifiers, current UTC timestamps and estado "activo". The story is not
// verified to exist; the caller owns that relationship.
func (f *Factory) NewPersonaje(p PersonajeParams) (*Personaje, error) {
	now := f.now()
	personaje := &Personaje{
		PersonajeID:       f.NewID(),
		Nombre:            p.Nombre,
		Descripcion:       p.Descripcion,
		StoryID:           p.StoryID,
		Rol:               p.Rol,
		Habilidades:       p.Habilidades,
		NivelPoder:        p.NivelPoder,
		ImagenPerfil:      p.ImagenPerfil,
		Edad:              p.Edad,
		Origen:            p.Origen,
		CreadorID:         f.NewID(),
		FechaCreacion:     now,
		FechaModificacion: now,
		Estado:            EstadoActivo,
	}
	if err := personaje.Validate(); err != nil {
		return nil, err
	}
	return personaje, nil
}

// CompleteCharacter fills the gaps in a raw character attribute mapping and
// constructs a Personaje from it. The historia's story_id is always stamped
// on; creador_id, personaje_id, timestamps and estado are only filled when
// the mapping does not carry them, so completing an already complete mapping
// changes nothing.
func (f *Factory) CompleteCharacter(attrs map[string]any, historia *Historia) (*Personaje, error) {
	completed := make(map[string]any, len(attrs)+5)
	for k, v := range attrs {
		completed[k] = v
	}

	completed["story_id"] = historia.StoryID
	if _, ok := completed["creador_id"]; !ok {
		completed["creador_id"] = historia.AutorID
	}
	if _, ok := completed["personaje_id"]; !ok {
		completed["personaje_id"] = f.NewID()
	}
	if _, ok := completed["fecha_creacion"]; !ok {
		completed["fecha_creacion"] = historia.FechaCreacion
	}
	if _, ok := completed["fecha_modificacion"]; !ok {
		completed["fecha_modificacion"] = historia.FechaModificacion
	}
	if _, ok := completed["estado"]; !ok {
		completed["estado"] = EstadoActivo
	}

	var personaje Personaje
	if err := decodeMap(completed, &personaje); err != nil {
		return nil, err
	}
	if err := personaje.Validate(); err != nil {
		return nil, err
	}
	return &personaje, nil
}

// ContenedorParams carries the optional story attributes plus the raw
// character mappings for container assembly.
type ContenedorParams struct {
	Historia   HistoriaParams
	Personajes []map[string]any
}

// AssembleContenedor builds one Historia (same construction path as
// NewHistoria) and completes every raw character mapping against it. The
// output character order matches the input order, and an empty input yields
// an empty, non-nil list.
func (f *Factory) AssembleContenedor(p ContenedorParams) (*ContenedorHistoria, error) {
	historia, err := f.NewHistoria(p.Historia)
	if err != nil {
		return nil, err
	}

	personajes := make([]Personaje, 0, len(p.Personajes))
	for _, attrs := range p.Personajes {
		personaje, err := f.CompleteCharacter(attrs, historia)
		if err != nil {
			return nil, err
		}
		personajes = append(personajes, *personaje)
	}

	return &ContenedorHistoria{
		Historia:   *historia,
		Personajes: personajes,
	}, nil
}

// decodeMap round-trips a generic mapping through JSON into dst, converting
// type mismatches into ValidationErrors.
func decodeMap(attrs map[string]any, dst any) error {
	raw, err := json.Marshal(attrs)
	if err != nil {
		return &ValidationError{Field: "personaje", Reason: err.Error()}
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		if typeErr, ok := err.(*json.UnmarshalTypeError); ok {
			return &ValidationError{Field: typeErr.Field, Reason: "unexpected type " + typeErr.Value}
		}
		return &ValidationError{Field: "personaje", Reason: err.Error()}
	}
	return nil
}
