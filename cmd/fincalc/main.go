package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"fincalc/pkg/core/formula"
	"fincalc/pkg/core/panel"
	"fincalc/pkg/core/store"
)

func main() {
	godotenv.Load()

	panelPath := flag.String("panel", "config/panel.yaml", "panel data file (yaml)")
	batchPath := flag.String("batch", "", "formula batch file (hjson)")
	entities := flag.String("entities", "", "comma-separated entity order (default: panel order)")
	precision := flag.Int("precision", formula.DefaultPrecision, "decimal places for results")
	discover := flag.Bool("fields", false, "list available field names instead of evaluating")
	save := flag.Bool("save", false, "persist the result to the database")
	label := flag.String("label", "", "label for the saved run")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	p, err := panel.LoadFile(*panelPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load panel")
	}

	var batch formula.Batch
	if *batchPath != "" {
		batch, err = formula.LoadBatch(*batchPath)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load batch")
		}
	}

	var order []string
	if *entities != "" {
		for _, e := range strings.Split(*entities, ",") {
			order = append(order, strings.TrimSpace(e))
		}
	}

	engine := formula.NewEngineWithLogger(log)
	result, err := engine.Run(p, batch, formula.Options{
		Precision: *precision,
		Discovery: *discover,
		Entities:  order,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("evaluation failed")
	}

	out, _ := json.MarshalIndent(result, "", "  ")
	fmt.Println(string(out))

	if *save {
		ctx := context.Background()
		if err := store.InitDB(ctx); err != nil {
			log.Fatal().Err(err).Msg("database init failed")
		}
		defer store.Close()

		run, err := store.NewResultsRepo().Save(ctx, *label, result)
		if err != nil {
			log.Fatal().Err(err).Msg("save failed")
		}
		log.Info().Str("run_id", run.RunID.String()).Msg("result saved")
	}
}
