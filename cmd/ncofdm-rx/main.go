// Command ncofdm-rx runs the receiver facade against either a loopback or
// a real PortAudio front end, serving diagnostics over a websocket.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/kb9vor/ncofdm/internal/decoder"
	"github.com/kb9vor/ncofdm/internal/diag"
	"github.com/kb9vor/ncofdm/internal/fftstage"
	"github.com/kb9vor/ncofdm/internal/pn"
	"github.com/kb9vor/ncofdm/internal/radio"
	"github.com/kb9vor/ncofdm/internal/receiver"
	"github.com/kb9vor/ncofdm/internal/scheduler"
	"github.com/kb9vor/ncofdm/internal/underlay"
)

func main() {
	var (
		scMask   = pflag.Uint64("sc-map", pn.CanonicalSCMask, "64-bit subcarrier allocation mask (must match the transmitter's)")
		diagAddr = pflag.String("diag-addr", "127.0.0.1:8090", "address to serve the diagnostics websocket on")
		hardware = pflag.Bool("hardware", false, "receive over a real PortAudio device instead of an in-process loopback")
	)
	pflag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Str("component", "ncofdm-rx").Logger()

	hub := diag.NewHub(log)
	mux := http.NewServeMux()
	mux.Handle("/diag", hub)
	srv := &http.Server{Addr: *diagAddr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("diagnostics server stopped")
		}
	}()

	var r radio.Radio
	if *hardware {
		if err := radio.Init(); err != nil {
			log.Fatal().Err(err).Msg("portaudio init failed")
		}
		defer radio.Terminate()
		pr, err := radio.NewPortAudioRadio()
		if err != nil {
			log.Fatal().Err(err).Msg("failed to open audio device")
		}
		defer pr.Close()
		r = pr
	} else {
		r = radio.NewLoopbackRadio()
		log.Info().Msg("using in-process loopback radio (pass --hardware for a real device)")
	}

	corr := underlay.NewCorrelator(log)
	corr.OnBit(func(bit int) {})

	chain := []scheduler.Stage{
		underlay.NewStage(corr),
		fftstage.New(),
		decoder.New(*scMask),
	}

	rc := receiver.New(log, r, chain, func(packets [][]byte) {
		for _, p := range packets {
			log.Info().Int("length", len(p)).Msg("decoded frame")
			hub.Frame(len(p))
		}
	})

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info().Msg("shutting down")
		rc.Stop()
		srv.Close()
	}()

	if err := rc.Run(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("receiver loop terminated")
	}
}
