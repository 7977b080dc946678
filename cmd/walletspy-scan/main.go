package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/walletspy/walletspy/internal/analyzer"
	"github.com/walletspy/walletspy/internal/feed"
	"github.com/walletspy/walletspy/internal/refdata"
)

// walletspy-scan analyzes a single activity dump offline: no collaborator
// calls, JSON report on stdout. Useful for fixtures and batch jobs.
//
//	walletspy-scan -address <pubkey> -feed dump.json

type dump struct {
	Activity []feed.RawActivityRecord `json:"activity"`
	Holdings []feed.RawHolding        `json:"holdings"`
}

func main() {
	address := flag.String("address", "", "wallet address to analyze")
	feedPath := flag.String("feed", "-", "activity dump JSON file, - for stdin")
	overlay := flag.String("refdata", "", "optional reference-data overlay YAML")
	flag.Parse()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMicro
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().
		Timestamp().
		Str("service", "walletspy-scan").
		Logger()

	if *address == "" {
		log.Fatal().Msg("-address is required")
	}

	var (
		data []byte
		err  error
	)
	if *feedPath == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(*feedPath)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("read activity dump")
	}

	var d dump
	if err := json.Unmarshal(data, &d); err != nil {
		log.Fatal().Err(err).Msg("parse activity dump")
	}

	ds, err := refdata.LoadDataset(*overlay)
	if err != nil {
		log.Fatal().Err(err).Msg("load reference data")
	}

	core := analyzer.New(analyzer.DefaultConfig(), refdata.NewRegistry(ds))
	wa, err := core.AnalyzeFeedOnly(*address, d.Activity, d.Holdings)
	if err != nil {
		log.Fatal().Err(err).Msg("analysis failed")
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(wa); err != nil {
		log.Fatal().Err(err).Msg("encode report")
	}
	fmt.Fprintf(os.Stderr, "surveillance=%d degen=%d risk=%s\n",
		wa.SurveillanceScore, wa.DegenScore, wa.RiskLevel)
}
