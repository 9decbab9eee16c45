package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	formulaapi "fincalc/pkg/api/formula"
	"fincalc/pkg/core/panel"
)

func main() {
	godotenv.Load()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	panelPath := os.Getenv("PANEL_FILE")
	if panelPath == "" {
		panelPath = "config/panel.yaml"
	}
	p, err := panel.LoadFile(panelPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", panelPath).Msg("failed to load panel")
	}
	log.Info().Str("path", panelPath).Int("fields", len(p.FieldNames())).Msg("panel loaded")

	panels := panel.Collection{panel.Yearly: p}
	handler := formulaapi.NewHandler(panels, log)

	http.HandleFunc("/api/formulas/evaluate", handler.HandleEvaluate)
	http.HandleFunc("/api/formulas/fields", handler.HandleFields)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Info().Str("port", port).Msg("listening")
	if err := http.ListenAndServe(fmt.Sprintf(":%s", port), nil); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
