package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/tcmartins/payable/internal/config"
	"github.com/tcmartins/payable/internal/database"
	payableHttp "github.com/tcmartins/payable/internal/http"
	instHandler "github.com/tcmartins/payable/internal/http/installment"
	oblHandler "github.com/tcmartins/payable/internal/http/obligation"
	recHandler "github.com/tcmartins/payable/internal/http/reconcile"
	undoHandler "github.com/tcmartins/payable/internal/http/undo"
	"github.com/tcmartins/payable/internal/installment"
	instStore "github.com/tcmartins/payable/internal/installment/store"
	"github.com/tcmartins/payable/internal/reconcile"
	aliasStore "github.com/tcmartins/payable/internal/reconcile/store"
	"github.com/tcmartins/payable/internal/schedule"
	"github.com/tcmartins/payable/internal/undo"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	store := instStore.New(db)

	journal := undo.NewJournal(cfg.Undo.Capacity)
	journal.RegisterReverser(installment.Table, installment.NewReverser(store))

	var (
		installmentService = installment.NewService(store, journal)
		scheduleService    = schedule.NewService(installmentService)
		reconcileService   = reconcile.NewService(installmentService, aliasStore.New(db))
	)

	var (
		installmentH = instHandler.NewHandler(installmentService)
		obligationH  = oblHandler.NewHandler(scheduleService)
		reconcileH   = recHandler.NewHandler(reconcileService)
		undoH        = undoHandler.NewHandler(journal)
	)

	router := payableHttp.New(installmentH, obligationH, reconcileH, undoH)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "port", port)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
