package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/lojasmm/erpbot/internal/bot"
	"github.com/lojasmm/erpbot/internal/config"
	"github.com/lojasmm/erpbot/internal/erp"
	"github.com/lojasmm/erpbot/internal/keepalive"
	"github.com/lojasmm/erpbot/internal/nlp"
	"github.com/lojasmm/erpbot/internal/session"
	"github.com/lojasmm/erpbot/internal/store"
	"github.com/lojasmm/erpbot/internal/whatsapp"
)

// processedRetention is how long delivered message IDs are remembered.
const processedRetention = 24 * time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := store.NewBoltStore(filepath.Join(cfg.DataDir, "erpbot.db"))
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	defer db.Close()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	erpClient := erp.NewClient(cfg.ERPBaseURL, cfg.ERPAPIKey, cfg.ERPAPISecret, cfg.ERPCustomDocTypes)
	waClient := whatsapp.NewClient(cfg.WAAPIURL, cfg.WAPhoneNumberID, cfg.WAAccessToken)

	var engine *nlp.Engine
	var classifier nlp.Classifier
	if cfg.NLPEnabled {
		engine, err = newEngine(cfg.NLPCatalogPath)
		if err != nil {
			log.Fatalf("nlp: %v", err)
		}
		classifier = engine
		go func() {
			if err := engine.Train(ctx); err != nil {
				log.Printf("nlp: training failed, classifier stays disabled: %v", err)
			}
		}()
	}

	var recorder bot.IntentRecorder
	if cfg.NLPAnalytics {
		recorder = db
	}

	sessionMgr := session.NewManager()
	resolver := bot.NewResolver(erpClient, classifier, cfg.NLPThreshold, recorder)
	botHandler := bot.NewHandler(waClient, db, sessionMgr, resolver)
	webhookHandler := whatsapp.NewWebhookHandler(cfg.WAVerifyToken, botHandler.HandleMessage)

	// Periodic pruning of remembered message IDs to keep the dedup bucket small
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n, err := db.PruneProcessed(time.Now().Add(-processedRetention))
				if err != nil {
					log.Printf("store: prune failed: %v", err)
				} else if n > 0 {
					log.Printf("store: pruned %d processed message ids", n)
				}
			}
		}
	}()

	if cfg.KeepAliveURL != "" {
		go keepalive.New(cfg.KeepAliveURL, cfg.KeepAliveInterval).Run(ctx)
	}

	api := &debugAPI{
		engine:    engine,
		erp:       erpClient,
		store:     db,
		analytics: cfg.NLPAnalytics,
		token:     cfg.WAVerifyToken,
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      newRouter(webhookHandler, api),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("erpbot: listening on :%s", cfg.Port)
		log.Printf("erpbot: webhook verify token = %s", cfg.WAVerifyToken)
		log.Printf("erpbot: ERP at %s, custom doctypes %v", erpClient.BaseURL(), cfg.ERPCustomDocTypes)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("erpbot: shutting down...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("shutdown: %v", err)
	}
	log.Println("erpbot: stopped")
}

func newEngine(catalogPath string) (*nlp.Engine, error) {
	var (
		cat *nlp.Catalog
		err error
	)
	if catalogPath != "" {
		cat, err = nlp.LoadCatalog(catalogPath)
	} else {
		cat, err = nlp.DefaultCatalog()
	}
	if err != nil {
		return nil, err
	}
	return nlp.NewEngine(cat)
}
