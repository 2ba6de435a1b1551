package tools

import "google.golang.org/genai"

// Tool names as declared to the model.
const (
	ToolCrearHistoria   = "crear_historia"
	ToolCrearPersonaje  = "crear_personaje"
	ToolCrearContenedor = "crear_contenedor_historia"
)

func historiaProperties() map[string]*genai.Schema {
	return map[string]*genai.Schema{
		"titulo": {
			Type:        genai.TypeString,
			Description: "Título principal de la historia",
		},
		"descripcion": {
			Type:        genai.TypeString,
			Description: "Resumen o sinopsis del contenido de la historia",
		},
		"generos": {
			Type:        genai.TypeArray,
			Items:       &genai.Schema{Type: genai.TypeString},
			Description: "Géneros literarios a los que pertenece la historia",
		},
		"dificultad": {
			Type:        genai.TypeInteger,
			Description: "Nivel de complejidad de la historia (1-5)",
		},
		"imagen_portada": {
			Type:        genai.TypeString,
			Description: "URL o ruta a la imagen de portada",
		},
		"min_jugadores": {
			Type:        genai.TypeInteger,
			Description: "Cantidad mínima de jugadores (por defecto 1)",
		},
		"max_jugadores": {
			Type:        genai.TypeInteger,
			Description: "Capacidad máxima de jugadores (por defecto 4)",
		},
	}
}

func personajeProperties() map[string]*genai.Schema {
	return map[string]*genai.Schema{
		"nombre": {
			Type:        genai.TypeString,
			Description: "Nombre del personaje",
		},
		"story_id": {
			Type:        genai.TypeString,
			Description: "ID de la historia a la que pertenece el personaje (DEBE ser el story_id de una historia creada previamente)",
		},
		"descripcion": {
			Type:        genai.TypeString,
			Description: "Descripción física y de personalidad del personaje",
		},
		"rol": {
			Type:        genai.TypeString,
			Description: "Rol del personaje en la historia (protagonista, antagonista, etc.)",
		},
		"habilidades": {
			Type:        genai.TypeArray,
			Items:       &genai.Schema{Type: genai.TypeString},
			Description: "Habilidades especiales que posee el personaje",
		},
		"nivel_poder": {
			Type:        genai.TypeInteger,
			Description: "Nivel de poder del personaje (1-10)",
		},
		"imagen_perfil": {
			Type:        genai.TypeString,
			Description: "URL o ruta a la imagen del personaje",
		},
		"edad": {
			Type:        genai.TypeInteger,
			Description: "Edad del personaje en años",
		},
		"origen": {
			Type:        genai.TypeString,
			Description: "Lugar de origen o procedencia del personaje",
		},
	}
}

// Declarations returns the tool contracts handed to the model alongside the
// orchestrator policy.
func (ts *Toolset) Declarations() []*genai.Tool {
	contenedorProps := historiaProperties()
	contenedorProps["estado"] = &genai.Schema{
		Type:        genai.TypeString,
		Description: "Estado de la historia (borrador, publicada, etc.)",
	}
	contenedorProps["personajes"] = &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type:       genai.TypeObject,
			Properties: personajeProperties(),
			Required:   []string{"nombre"},
		},
		Description: "Lista de personajes con sus atributos",
	}

	return []*genai.Tool{
		{
			FunctionDeclarations: []*genai.FunctionDeclaration{
				{
					Name:        ToolCrearHistoria,
					Description: "Crea una historia interactiva completa y devuelve su JSON, incluido el story_id generado.",
					Parameters: &genai.Schema{
						Type:       genai.TypeObject,
						Properties: historiaProperties(),
						Required:   []string{"titulo"},
					},
				},
				{
					Name:        ToolCrearPersonaje,
					Description: "Crea un personaje completo para una historia existente y devuelve su JSON.",
					Parameters: &genai.Schema{
						Type:       genai.TypeObject,
						Properties: personajeProperties(),
						Required:   []string{"nombre", "story_id"},
					},
				},
				{
					Name:        ToolCrearContenedor,
					Description: "Crea un contenedor con una historia y la lista completa de personajes. Es el último paso y produce el resultado final.",
					Parameters: &genai.Schema{
						Type:       genai.TypeObject,
						Properties: contenedorProps,
					},
				},
			},
		},
	}
}
