// Command console chats with the bot on stdin/stdout, against the same
// property store the server uses.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"immobot/internal/adapters/observability"
	"immobot/internal/app"
	"immobot/internal/shared"
	"immobot/internal/storage"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	// logs go to stderr so they never mix with the conversation
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel).
		Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	backend, closeBackend, err := storage.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("open property store")
	}
	defer closeBackend()
	store := app.NewPropertyStore(backend)
	if err := store.Load(ctx); err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("property store unavailable")
	}
	engine := app.NewEngine(store)

	fmt.Println("immobot console, type a message (Ctrl-D to quit)")
	in := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !in.Scan() {
			break
		}
		text := strings.TrimSpace(in.Text())
		if text == "" {
			continue
		}
		fmt.Println(engine.ProcessMessage(ctx, text))
		fmt.Println()
	}
	if err := in.Err(); err != nil {
		log.Error().Err(err).Msg("read stdin")
	}
}
