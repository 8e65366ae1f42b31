package main

import (
	"context"
	"log"
	"net/http"

	"github.com/caddyserver/certmagic"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/kestrelbank/kestrel/api"
	"github.com/kestrelbank/kestrel/config"
)

// serveTLS starts an HTTPS server with certificates managed by CertMagic.
// Without a configured domain the certificate is issued for localhost.
func serveTLS(r *gin.Engine, conf config.ServerConfig) error {
	certmagic.DefaultACME.Agreed = true
	certmagic.DefaultACME.Email = conf.Email
	cfg := certmagic.NewDefault()

	domains := []string{conf.Domain}
	if conf.Domain == "" {
		log.Println("No domain specified, defaulting to localhost")
		domains = []string{"localhost"}
	}

	if err := cfg.ManageSync(context.Background(), domains); err != nil {
		return err
	}

	server := &http.Server{
		Addr:      ":" + conf.Port,
		Handler:   r,
		TLSConfig: cfg.TLSConfig(),
	}

	log.Printf("Starting HTTPS server on %s\n", conf.Port)
	if err := server.ListenAndServeTLS("", ""); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start HTTPS server: %v", err)
	}

	return nil
}

func initializeRouter(k *kestrelInstance) *gin.Engine {
	return api.NewAPI(k.kestrel).Router()
}

func serverCommands(k *kestrelInstance) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "start kestrel server",
		Run: func(cmd *cobra.Command, args []string) {
			router := initializeRouter(k)

			cfg, err := config.Fetch()
			if err != nil {
				log.Fatalf("Error fetching config: %v", err)
			}

			if cfg.Server.SSL {
				if err := serveTLS(router, cfg.Server); err != nil {
					log.Fatalf("Error setting up TLS: %v", err)
				}
				return
			}

			log.Printf("Starting server on http://localhost:%s", cfg.Server.Port)
			if err := router.Run(":" + cfg.Server.Port); err != nil {
				log.Fatal(err)
			}
		},
	}

	return cmd
}
