package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"storyforge/models"
)

// Toolset executes the record-building tools the orchestrator exposes to the
// model. Dispatch is by declared name over the raw argument mapping the model
// produced.
type Toolset struct {
	factory *models.Factory
}

func NewToolset() *Toolset {
	return &Toolset{factory: models.NewFactory()}
}

// NewToolsetWithFactory is used by callers that need deterministic clocks and
// identifiers.
func NewToolsetWithFactory(factory *models.Factory) *Toolset {
	return &Toolset{factory: factory}
}

type crearHistoriaArgs struct {
	Titulo        *string  `json:"titulo"`
	Descripcion   *string  `json:"descripcion"`
	Generos       []string `json:"generos"`
	Dificultad    *int     `json:"dificultad"`
	ImagenPortada *string  `json:"imagen_portada"`
	MinJugadores  *int     `json:"min_jugadores"`
	MaxJugadores  *int     `json:"max_jugadores"`
}

type crearPersonajeArgs struct {
	Nombre       string   `json:"nombre"`
	StoryID      string   `json:"story_id"`
	Descripcion  *string  `json:"descripcion"`
	Rol          *string  `json:"rol"`
	Habilidades  []string `json:"habilidades"`
	NivelPoder   *int     `json:"nivel_poder"`
	ImagenPerfil *string  `json:"imagen_perfil"`
	Edad         *int     `json:"edad"`
	Origen       *string  `json:"origen"`
}

type crearContenedorArgs struct {
	Titulo        *string          `json:"titulo"`
	Descripcion   *string          `json:"descripcion"`
	Generos       []string         `json:"generos"`
	Dificultad    *int             `json:"dificultad"`
	ImagenPortada *string          `json:"imagen_portada"`
	MinJugadores  *int             `json:"min_jugadores"`
	MaxJugadores  *int             `json:"max_jugadores"`
	Estado        *string          `json:"estado"`
	Personajes    []map[string]any `json:"personajes"`
}

// Execute runs one tool call and returns the constructed record. An error
// aborts the orchestrator run; nothing is retried here.
func (ts *Toolset) Execute(ctx context.Context, name string, args map[string]any) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch name {
	case ToolCrearHistoria:
		var a crearHistoriaArgs
		if err := decodeArgs(args, &a); err != nil {
			return nil, err
		}
		return ts.crearHistoria(a)
	case ToolCrearPersonaje:
		var a crearPersonajeArgs
		if err := decodeArgs(args, &a); err != nil {
			return nil, err
		}
		return ts.crearPersonaje(a)
	case ToolCrearContenedor:
		var a crearContenedorArgs
		if err := decodeArgs(args, &a); err != nil {
			return nil, err
		}
		return ts.crearContenedor(a)
	default:
		return nil, fmt.Errorf("tool %q is not registered", name)
	}
}

// crearHistoria completes a story record. Estado is always "borrador" here;
// the contract does not let the model choose it.
func (ts *Toolset) crearHistoria(a crearHistoriaArgs) (*models.Historia, error) {
	estado := models.EstadoBorrador
	return ts.factory.NewHistoria(models.HistoriaParams{
		Titulo:        a.Titulo,
		Descripcion:   a.Descripcion,
		Generos:       a.Generos,
		Dificultad:    a.Dificultad,
		ImagenPortada: a.ImagenPortada,
		MinJugadores:  a.MinJugadores,
		MaxJugadores:  a.MaxJugadores,
		Estado:        &estado,
	})
}

// crearPersonaje completes a character record for an already created story.
// The story is not looked up; the id is trusted as-is.
func (ts *Toolset) crearPersonaje(a crearPersonajeArgs) (*models.Personaje, error) {
	return ts.factory.NewPersonaje(models.PersonajeParams{
		Nombre:       a.Nombre,
		StoryID:      a.StoryID,
		Descripcion:  a.Descripcion,
		Rol:          a.Rol,
		Habilidades:  a.Habilidades,
		NivelPoder:   a.NivelPoder,
		ImagenPerfil: a.ImagenPerfil,
		Edad:         a.Edad,
		Origen:       a.Origen,
	})
}

// crearContenedor assembles the final story container.
func (ts *Toolset) crearContenedor(a crearContenedorArgs) (*models.ContenedorHistoria, error) {
	return ts.factory.AssembleContenedor(models.ContenedorParams{
		Historia: models.HistoriaParams{
			Titulo:        a.Titulo,
			Descripcion:   a.Descripcion,
			Generos:       a.Generos,
			Dificultad:    a.Dificultad,
			ImagenPortada: a.ImagenPortada,
			MinJugadores:  a.MinJugadores,
			MaxJugadores:  a.MaxJugadores,
			Estado:        a.Estado,
		},
		Personajes: a.Personajes,
	})
}

func decodeArgs(args map[string]any, dst any) error {
	raw, err := json.Marshal(args)
	if err != nil {
		return &models.ValidationError{Field: "arguments", Reason: err.Error()}
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		if typeErr, ok := err.(*json.UnmarshalTypeError); ok {
			return &models.ValidationError{Field: typeErr.Field, Reason: "unexpected type " + typeErr.Value}
		}
		return &models.ValidationError{Field: "arguments", Reason: err.Error()}
	}
	return nil
}
