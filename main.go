package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"storyforge/agent"
	"storyforge/config"
	"storyforge/db"
	"storyforge/handlers"
	"storyforge/middleware"
	"storyforge/tools"
)

func main() {
	cli := flag.Bool("cli", false, "run the interactive story generator instead of the HTTP server")
	flag.Parse()

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	if err := godotenv.Load(); err != nil {
		logger.Warn().Msg(".env file not found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if cfg.GeminiAPIKey == "" {
		logger.Warn().Msg("GEMINI_API_KEY is not set, generation will fail")
	}

	ctx := context.Background()

	llm, err := agent.NewGeminiLLM(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create gemini client")
	}
	orchestrator := agent.NewOrchestrator(llm, tools.NewToolset(), logger)

	if *cli {
		runCLI(orchestrator, logger)
		return
	}

	store, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer store.Close(ctx)
	logger.Info().Str("database", cfg.MongoDatabase).Msg("connected to MongoDB")

	historias := handlers.NewHistoriasHandler(store, logger)
	personajes := handlers.NewPersonajesHandler(store, logger)
	generate := handlers.NewGenerateHandler(orchestrator, store, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/historias", middleware.EnableCORS(historias.Collection, cfg.AllowedOrigins))
	mux.HandleFunc("/historias/", middleware.EnableCORS(historias.Detail, cfg.AllowedOrigins))
	mux.HandleFunc("/personajes", middleware.EnableCORS(personajes.Collection, cfg.AllowedOrigins))
	mux.HandleFunc("/personajes/", middleware.EnableCORS(personajes.Detail, cfg.AllowedOrigins))
	mux.HandleFunc("/generar", middleware.EnableCORS(generate.Generate, cfg.AllowedOrigins))

	logger.Info().Str("addr", cfg.Addr).Msg("server listening")
	if err := http.ListenAndServe(cfg.Addr, mux); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}

// runCLI reads free-text prompts from stdin and prints the generated
// container for each one. Errors abort the run, not the loop.
func runCLI(orchestrator *agent.Orchestrator, logger zerolog.Logger) {
	fmt.Println("Describe tu historia interactiva (Ctrl+D para salir).")
	fmt.Println("Por ejemplo: 'Una aventura mágica en un bosque encantado para 2 a 3 jugadores, con un guerrero, un mago y un pícaro.'")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		input := scanner.Text()
		if input == "" {
			continue
		}

		contenedor, err := orchestrator.Run(context.Background(), input)
		var malformed *agent.MalformedOutputError
		if errors.As(err, &malformed) {
			fmt.Println("La respuesta no es un JSON válido:")
			fmt.Println(malformed.Raw)
			continue
		}
		if err != nil {
			logger.Error().Err(err).Msg("generation failed")
			continue
		}

		out, err := json.MarshalIndent(contenedor, "", "  ")
		if err != nil {
			logger.Error().Err(err).Msg("failed to render result")
			continue
		}
		fmt.Println("--------------------------------------------------")
		fmt.Println(string(out))
		fmt.Println("--------------------------------------------------")
	}
}
