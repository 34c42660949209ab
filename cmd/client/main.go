package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	router "github.com/dkeye/Sketch/internal/adapters/http"
	"github.com/dkeye/Sketch/internal/adapters/notify"
	"github.com/dkeye/Sketch/internal/adapters/rest"
	rt "github.com/dkeye/Sketch/internal/adapters/signal"
	"github.com/dkeye/Sketch/internal/app"
	"github.com/dkeye/Sketch/internal/app/orch"
	"github.com/dkeye/Sketch/internal/config"
	"github.com/dkeye/Sketch/internal/core"
	"github.com/dkeye/Sketch/internal/domain"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	if cfg.UserID == "" {
		cfg.UserID = uuid.NewString()
	}
	if cfg.Username == "" {
		cfg.Username = "player-" + cfg.UserID[:min(8, len(cfg.UserID))]
	}
	self, err := domain.NewUser(cfg.UserID, cfg.Username)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid local user")
	}

	conn, err := rt.Dial(ctx, rt.Options{
		URL:          cfg.WSURL,
		Token:        cfg.Token,
		ReadLimit:    cfg.ReadLimit,
		PingPeriod:   cfg.PingPeriod,
		SendBuffer:   cfg.SendBuffer,
		EmitLimit:    cfg.EmitLimit,
		EmitInterval: cfg.EmitInterval,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("realtime channel unavailable")
	}
	conn.Start(ctx)
	log.Info().Str("conn", conn.ID()).Str("user", string(self.ID)).Msg("Sketch client started")

	store := core.NewStore(rest.New(cfg.APIURL, cfg.Token, cfg.RequestTimeout), notify.New(nil), self.ID)
	defer store.Dispose()
	cancelWatch := store.Subscribe(func(s core.Snapshot) {
		log.Info().
			Uint64("version", s.Version).
			Str("room", string(s.Room.ID)).
			Int("members", len(s.Members)).
			Int("round", s.Round.CurrentRound).
			Bool("drawer", s.IsDrawer).
			Bool("pending", s.Pending).
			Msg("room state")
	})
	defer cancelWatch()

	o := orch.New(self, store, app.NewEventAdapter(store, conn))

	switch {
	case cfg.Create != "":
		if err := o.Create(ctx, domain.NewRoomRequest(cfg.Create, domain.DefaultSettings())); err != nil {
			log.Error().Err(err).Msg("create room failed")
		}
	case cfg.Join != "":
		if err := o.Join(ctx, cfg.Join); err != nil {
			log.Error().Err(err).Msg("join room failed")
		}
	}

	var srv *http.Server
	if cfg.InspectAddr != "" {
		srv = &http.Server{
			Addr:              cfg.InspectAddr,
			Handler:           router.SetupRouter(cfg, o),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			log.Info().Str("addr", cfg.InspectAddr).Msg("inspection API started")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("server error")
			}
		}()
	}

	select {
	case <-ctx.Done():
	case <-conn.Done():
		log.Warn().Msg("realtime channel closed")
	}

	log.Info().Msg("Shutting down")
	if srv != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Server forced to shutdown")
		}
	}
	o.Leave()
	conn.Close()
	conn.Wait()
	log.Info().Msg("Client exited gracefully")
}
