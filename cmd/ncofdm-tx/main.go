// Command ncofdm-tx builds and transmits one underlay-carrying OFDM frame.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/kb9vor/ncofdm/internal/frame"
	"github.com/kb9vor/ncofdm/internal/pn"
	"github.com/kb9vor/ncofdm/internal/radio"
	"github.com/kb9vor/ncofdm/internal/underlay"
)

func main() {
	var (
		payload     = pflag.StringP("payload", "p", "HelloOFDM!HelloOFDM!", "payload text to transmit")
		scMask      = pflag.Uint64("sc-map", pn.CanonicalSCMask, "64-bit subcarrier allocation mask (must match the receiver's)")
		amplitude   = pflag.Float64("amplitude", pn.UnderlayAmplitude, "underlay polarity amplitude")
		rateFlag    = pflag.Int("rate", int(pn.Rate1_2BPSK), "payload codec rate index (0=1/2 BPSK, 1=1/2 QAM16, 2=2/3 QAM64, 3=3/4 QAM16)")
		dumpPath    = pflag.String("overlay-dump", "", "optional path to write the overlay_data.dat pre-underlay dump")
		useHardware = pflag.Bool("hardware", false, "transmit over a real PortAudio device instead of logging a dry run")
	)
	pflag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Str("component", "ncofdm-tx").Logger()

	var dump io.Writer
	if *dumpPath != "" {
		f, err := os.Create(*dumpPath)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create overlay dump file")
		}
		defer f.Close()
		dump = f
	}

	adder := underlay.NewAdder(*amplitude)
	samples, err := frame.BuildFrame([]byte(*payload), pn.Rate(*rateFlag), *scMask, adder, dump)
	if err != nil {
		log.Fatal().Err(err).Msg("frame build failed")
	}
	log.Info().Int("samples", len(samples)).Msg("frame built")

	if !*useHardware {
		log.Info().Msg("dry run: not transmitting over hardware (pass --hardware to use a real device)")
		return
	}

	if err := radio.Init(); err != nil {
		log.Fatal().Err(err).Msg("portaudio init failed")
	}
	defer radio.Terminate()

	r, err := radio.NewPortAudioRadio()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open audio device")
	}
	defer r.Close()

	if err := r.SendBurstSync(context.Background(), samples); err != nil {
		log.Fatal().Err(err).Msg("transmit failed")
	}
	fmt.Fprintln(os.Stderr, "transmit complete")
}
