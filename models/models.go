package models

import "fmt"

// Historia is an interactive story with player-count bounds and metadata.
// The JSON/BSON field names match the hosted table schema one-to-one.
//
// max_jugadores >= min_jugadores is intended but not enforced; callers that
// care must check it themselves.
type Historia struct {
	StoryID           string   `json:"story_id" bson:"story_id"`
	Titulo            string   `json:"titulo" bson:"titulo"`
	Descripcion       *string  `json:"descripcion" bson:"descripcion"`
	Generos           []string `json:"generos" bson:"generos"`
	Dificultad        *int     `json:"dificultad" bson:"dificultad"`
	ImagenPortada     *string  `json:"imagen_portada" bson:"imagen_portada"`
	MinJugadores      int      `json:"min_jugadores" bson:"min_jugadores"`
	MaxJugadores      int      `json:"max_jugadores" bson:"max_jugadores"`
	AutorID           string   `json:"autor_id" bson:"autor_id"`
	FechaCreacion     string   `json:"fecha_creacion" bson:"fecha_creacion"`
	FechaModificacion string   `json:"fecha_modificacion" bson:"fecha_modificacion"`
	Estado            *string  `json:"estado" bson:"estado"`
}

// Personaje is a character belonging to exactly one Historia.
type Personaje struct {
	PersonajeID       string   `json:"personaje_id" bson:"personaje_id"`
	Nombre            string   `json:"nombre" bson:"nombre"`
	Descripcion       *string  `json:"descripcion" bson:"descripcion"`
	StoryID           string   `json:"story_id" bson:"story_id"`
	Rol               *string  `json:"rol" bson:"rol"`
	Habilidades       []string `json:"habilidades" bson:"habilidades"`
	NivelPoder        *int     `json:"nivel_poder" bson:"nivel_poder"`
	ImagenPerfil      *string  `json:"imagen_perfil" bson:"imagen_perfil"`
	Edad              *int     `json:"edad" bson:"edad"`
	Origen            *string  `json:"origen" bson:"origen"`
	CreadorID         string   `json:"creador_id" bson:"creador_id"`
	FechaCreacion     string   `json:"fecha_creacion" bson:"fecha_creacion"`
	FechaModificacion string   `json:"fecha_modificacion" bson:"fecha_modificacion"`
	Estado            string   `json:"estado" bson:"estado"`
}

// ContenedorHistoria bundles one Historia with its Personajes. Every
// personaje in the list carries the container's story_id.
type ContenedorHistoria struct {
	Historia   Historia    `json:"historia" bson:"historia"`
	Personajes []Personaje `json:"personajes" bson:"personajes"`
}

// ValidationError reports a required field that is missing or has the wrong
// type at construction time.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Validate checks the fields required by the historias table.
func (h *Historia) Validate() error {
	if h.StoryID == "" {
		return &ValidationError{Field: "story_id", Reason: "must not be empty"}
	}
	if h.Titulo == "" {
		return &ValidationError{Field: "titulo", Reason: "must not be empty"}
	}
	if h.MinJugadores < 1 {
		return &ValidationError{Field: "min_jugadores", Reason: "must be at least 1"}
	}
	if h.AutorID == "" {
		return &ValidationError{Field: "autor_id", Reason: "must not be empty"}
	}
	if h.FechaCreacion == "" || h.FechaModificacion == "" {
		return &ValidationError{Field: "fecha_creacion", Reason: "timestamps must be set"}
	}
	return nil
}

// Validate checks the fields required by the personajes table.
func (p *Personaje) Validate() error {
	if p.PersonajeID == "" {
		return &ValidationError{Field: "personaje_id", Reason: "must not be empty"}
	}
	if p.Nombre == "" {
		return &ValidationError{Field: "nombre", Reason: "must not be empty"}
	}
	if p.StoryID == "" {
		return &ValidationError{Field: "story_id", Reason: "must reference the owning historia"}
	}
	if p.CreadorID == "" {
		return &ValidationError{Field: "creador_id", Reason: "must not be empty"}
	}
	return nil
}
