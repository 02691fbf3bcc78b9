package main

import (
	"context"
	"log"
	"net/http"

	"github.com/tech2hard/taskly/internal/auth"
	"github.com/tech2hard/taskly/internal/config"
	"github.com/tech2hard/taskly/internal/serverapp"
	"github.com/tech2hard/taskly/internal/store"
)

func main() {
	cfg, err := config.Load("taskly.yml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	if cfg.Firebase.ProjectID == "" {
		log.Fatal("firebase.project_id is required (set TASKLY_FIREBASE_PROJECT_ID or taskly.yml)")
	}

	ctx := context.Background()
	verifier, err := auth.NewFirebaseVerifier(ctx, cfg.Firebase.ProjectID, cfg.Firebase.CredentialsFile)
	if err != nil {
		log.Fatalf("firebase auth: %v", err)
	}
	client, err := store.NewClient(ctx, cfg.Firebase.ProjectID, cfg.Firebase.CredentialsFile)
	if err != nil {
		log.Fatalf("firestore: %v", err)
	}
	defer client.Close()

	handler, err := serverapp.NewHandler(serverapp.Options{
		Config:    cfg,
		Logger:    log.Default(),
		Verifier:  verifier,
		Firestore: client,
	})
	if err != nil {
		log.Fatalf("build server: %v", err)
	}

	log.Printf("listening on %s", cfg.Server.Addr)
	log.Fatal(http.ListenAndServe(cfg.Server.Addr, handler))
}
