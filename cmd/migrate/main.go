package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/jhoicas/warehouse-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/warehouse-ledger/pkg/config"
	"github.com/jhoicas/warehouse-ledger/pkg/logger"
)

func main() {
	logLevel := flag.String("log-level", "info", "nivel de log (debug, info, warn, error)")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: *logLevel})

	m, err := postgres.NewMigrator(cfg.DB.MigrationURL(), log.Component("migrate"))
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar migrador")
	}
	defer func() {
		if err := m.Close(); err != nil {
			log.Warn().Err(err).Msg("cerrar migrador")
		}
	}()

	switch command {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	case "steps":
		if len(args) < 2 {
			log.Fatal().Msg("uso: migrate steps <n>")
		}
		n, convErr := strconv.Atoi(args[1])
		if convErr != nil {
			log.Fatal().Err(convErr).Msg("n debe ser entero")
		}
		err = m.Steps(n)
	case "version":
		version, dirty, vErr := m.Version()
		if vErr != nil {
			log.Fatal().Err(vErr).Msg("leer versión")
		}
		fmt.Printf("version=%d dirty=%t\n", version, dirty)
		return
	default:
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		log.Fatal().Err(err).Str("command", command).Msg("migración fallida")
	}
	log.Info().Str("command", command).Msg("migración aplicada")
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `uso: migrate [-log-level=info] <comando>

comandos:
  up          aplica todas las migraciones pendientes
  down        revierte todas las migraciones
  steps <n>   avanza (n>0) o retrocede (n<0) n migraciones
  version     muestra la versión actual`)
}
