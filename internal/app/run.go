package app

import (
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
)

// Run starts the application and blocks until shutdown.
func (a *App) Run() error {
	a.logger.Info("application-starting",
		zap.String("mode", a.cfg.ExecutionMode),
		zap.Strings("venues", a.cfg.VenueNames),
		zap.String("base", a.cfg.BaseSymbol),
		zap.Strings("quotes", a.cfg.QuoteSymbols),
		zap.Duration("scan-interval", a.cfg.ScanInterval),
		zap.Float64("trigger-profit", a.cfg.TriggerProfitUSD))

	err := a.startComponents()
	if err != nil {
		return err
	}

	a.healthChecker.SetReady(true)

	a.logger.Info("application-ready",
		zap.String("http-addr", ":"+a.cfg.HTTPPort))

	return a.waitForShutdown()
}

func (a *App) startComponents() error {
	a.wg.Add(1)
	go a.runHTTPServer()

	// Engine.Start replays pending hedges before returning, so the scan
	// loop never runs ahead of recovery.
	err := a.engine.Start(a.ctx)
	if err != nil {
		return err
	}

	return nil
}

func (a *App) runHTTPServer() {
	defer a.wg.Done()
	err := a.httpServer.Start()
	if err != nil {
		a.logger.Error("http-server-error", zap.Error(err))
	}
}

func (a *App) waitForShutdown() error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		a.logger.Info("shutdown-signal-received", zap.String("signal", sig.String()))
		return a.Shutdown()
	case err := <-a.engine.Err():
		// A cycle failed on persistence; shut down and surface the error
		// so the operator restarts into recovery.
		a.logger.Error("engine-fatal-error", zap.Error(err))
		shutdownErr := a.Shutdown()
		if shutdownErr != nil {
			a.logger.Error("shutdown-error", zap.Error(shutdownErr))
		}
		return err
	case <-a.ctx.Done():
		a.logger.Info("context-cancelled")
		return a.Shutdown()
	}
}
