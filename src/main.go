package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/robfig/cron"

	"github.com/nicholasarchambault/employee-exit-surveys/src/config"
	"github.com/nicholasarchambault/employee-exit-surveys/src/datapush"
	"github.com/nicholasarchambault/employee-exit-surveys/src/datasource/email"
	"github.com/nicholasarchambault/employee-exit-surveys/src/datasource/file"
	"github.com/nicholasarchambault/employee-exit-surveys/src/processor"
	"github.com/nicholasarchambault/employee-exit-surveys/src/storage"
)

func main() {
	cfg, err := config.LoadConfig("./config", "config.json")
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger, err := storage.NewLogger(cfg.LogName)
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Close()

	app := &App{cfg: cfg, logger: logger}

	// One full pass at startup; a broken extract is fatal here rather
	// than silently retried.
	if err := app.Run(); err != nil {
		logger.Fatal(err.Error())
		logger.Close()
		os.Exit(1)
	}

	background := false
	if cfg.Watch.Enabled {
		go app.watchFiles()
		background = true
	}
	if cfg.Email.Enabled {
		if err := app.scheduleMailbox(); err != nil {
			logger.Fatal("failed to schedule mailbox check: " + err.Error())
			logger.Close()
			os.Exit(1)
		}
		background = true
	}

	if !background {
		return
	}
	logger.Info("running in background mode, Ctrl+C to exit")
	waitForShutdown(logger)
}

// App wires the datasources, the pipeline, and the reporters together.
type App struct {
	cfg    *config.Config
	logger *storage.Logger
	runMu  sync.Mutex
}

// Run loads both survey extracts, executes the pipeline, and renders the
// report. Webhook and mail delivery failures are logged, not fatal: the
// workbook on disk is the primary output. The watcher and the mailbox
// cron both trigger refreshes, so runs serialize on a mutex to keep two
// passes from racing on the report file.
func (a *App) Run() error {
	a.runMu.Lock()
	defer a.runMu.Unlock()

	cfg := a.cfg

	dete, err := file.ReadSurvey(cfg.Data.DetePath, cfg.Data.SheetName, cfg.Data.NASentinel)
	if err != nil {
		return fmt.Errorf("dete survey: %w", err)
	}
	tafe, err := file.ReadSurvey(cfg.Data.TafePath, cfg.Data.SheetName)
	if err != nil {
		return fmt.Errorf("tafe survey: %w", err)
	}
	a.logger.Info(fmt.Sprintf("loaded surveys: dete %d rows, tafe %d rows", dete.Nrow(), tafe.Nrow()))

	pipeline := processor.NewPipeline(processor.Options{
		DropThreshold:   cfg.Data.DropThreshold,
		UseNamedColumns: cfg.Data.NamedColumns,
	})
	result, err := pipeline.Run(dete, tafe)
	if err != nil {
		return err
	}

	for _, row := range result.Pivot {
		a.logger.Info(fmt.Sprintf("%s: dissatisfied rate %.4f over %d records",
			row.Category, row.Rate, row.Count))
	}

	writer := &storage.ReportWriter{Title: cfg.Report.Title}
	if err := writer.Save(result, cfg.Report.Path); err != nil {
		return err
	}
	a.logger.Info("report written to " + cfg.Report.Path)

	if cfg.Webhook.Enabled {
		if err := datapush.NewPusher(cfg.Webhook.URL).Push(result); err != nil {
			a.logger.Error(err.Error())
		}
	}
	if cfg.SendEmail.Enabled {
		if err := email.SendReport(cfg, cfg.Report.Path); err != nil {
			a.logger.Error(err.Error())
		}
	}
	if err := a.logger.CheckRotate(cfg.LogMaxSize); err != nil {
		a.logger.Warning("log rotation failed: " + err.Error())
	}
	return nil
}

// watchFiles re-runs the pipeline whenever one of the survey extracts is
// rewritten in place.
func (a *App) watchFiles() {
	monitor, err := file.NewMonitor(a.cfg.Watch.Dir, a.cfg.Data.DetePath, a.cfg.Data.TafePath)
	if err != nil {
		a.logger.Error("failed to start file monitor: " + err.Error())
		return
	}
	defer monitor.Close()

	a.logger.Info("watching " + a.cfg.Watch.Dir + " for survey updates")
	err = monitor.Watch(func(path string) {
		a.logger.Info("survey extract changed: " + path)
		if err := a.Run(); err != nil {
			a.logger.Error("refresh failed: " + err.Error())
		}
	})
	if err != nil {
		a.logger.Error("file monitoring error: " + err.Error())
	}
}

// scheduleMailbox polls the mailbox on the configured interval; new survey
// exports are saved into the data directory and trigger a fresh run.
func (a *App) scheduleMailbox() error {
	cfg := a.cfg
	client := email.NewClient(cfg.Email.Server, cfg.Email.Username, cfg.Email.Password)
	handler := email.NewAttachmentHandler(cfg.Email.TargetSubject, cfg.Watch.Dir)

	c := cron.New()
	schedule := fmt.Sprintf("@every %s", cfg.Email.CheckInterval.String())
	err := c.AddFunc(schedule, func() {
		newMail, err := email.CheckAndProcessEmails(client, cfg.Email.TargetSubject, a.logger)
		if err != nil {
			a.logger.Error("mailbox check failed: " + err.Error())
			return
		}
		if newMail == nil {
			return
		}

		saved, err := handler.Handle(newMail, a.logger)
		if err != nil {
			a.logger.Error(fmt.Sprintf("failed to handle mail (UID %d): %v", newMail.UID, err))
			return
		}
		if len(saved) == 0 {
			return
		}
		if err := a.Run(); err != nil {
			a.logger.Error("refresh failed: " + err.Error())
		}
	})
	if err != nil {
		return err
	}

	c.Start()
	a.logger.Info(fmt.Sprintf("mailbox polling scheduled (%s)", schedule))
	return nil
}

func waitForShutdown(logger *storage.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	logger.Info("received signal: " + sig.String() + ", shutting down...")
}
