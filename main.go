package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"stockbot/internal/config"
	"stockbot/internal/core"
	"stockbot/internal/dialog"
	"stockbot/internal/logger"
	"stockbot/internal/nlu"
	"stockbot/internal/storage"
	"stockbot/pkg"

	"github.com/joho/godotenv"
)

const (
	consoleConversationID = "console"
	consoleUserID         = "local-user"
)

func main() {
	// Load environment variables from .env file, if present
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := logger.InitLogger(cfg.Log); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	profilePath := os.Getenv("BOT_PROFILE")
	if profilePath == "" {
		profilePath = "config.yaml"
	}
	profile, err := config.LoadProfile(profilePath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load bot profile")
	}

	recognizer, err := nlu.NewHTTPRecognizer(cfg.Recognizer)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create recognizer client")
	}

	ctx := context.Background()

	var store storage.Store
	if cfg.Redis.URL != "" {
		redisStore, err := storage.NewRedisStore(ctx, cfg.Redis)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to redis")
		}
		store = redisStore
	} else {
		logger.Warn().Msg("REDIS_URL not set, using in-memory state store")
		store = storage.NewMemoryStore()
	}
	defer store.Close()

	normalizer := nlu.NewNormalizer(profile.Entities)
	composer := dialog.NewComposer(profile.Responses)
	dispatcher := dialog.NewDispatcher(cfg.Bot, normalizer, composer, profile.Responses)
	runtime := dialog.NewRuntime(profile.Responses)
	processor := core.NewTurnProcessor(recognizer, dispatcher, runtime, store)

	runConsole(ctx, processor, cfg.Bot)
}

// runConsole drives the turn processor from stdin. The console stands
// in for a real channel transport; turns are strictly sequential.
func runConsole(ctx context.Context, processor *core.TurnProcessor, bot pkg.BotConfig) {
	joined := pkg.Activity{
		Kind:           pkg.ActivityMembersAdded,
		ConversationID: consoleConversationID,
		UserID:         consoleUserID,
		MembersAdded:   []string{consoleUserID, bot.ID},
	}
	if actions, err := processor.ProcessTurn(ctx, joined); err == nil {
		printActions(actions)
	}

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print("> ")
	for scanner.Scan() {
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			fmt.Print("> ")
			continue
		}
		if text == "/quit" {
			return
		}

		activity := pkg.Activity{
			Kind:           pkg.ActivityMessage,
			ConversationID: consoleConversationID,
			UserID:         consoleUserID,
			Text:           text,
		}
		actions, err := processor.ProcessTurn(ctx, activity)
		if err != nil {
			logger.Error().Err(err).Msg("turn failed")
			fmt.Print("> ")
			continue
		}
		printActions(actions)
		fmt.Print("> ")
	}
}

func printActions(actions []pkg.OutboundAction) {
	for _, action := range actions {
		switch action.Kind {
		case pkg.ActionMessage:
			fmt.Println(action.Text)
		case pkg.ActionCard:
			fmt.Printf("[card] %s\n", action.Card.Title)
			if action.Card.Body != "" {
				fmt.Printf("       %s\n", action.Card.Body)
			}
			for _, cardAction := range action.Card.Actions {
				fmt.Printf("       (%s) %s\n", cardAction.Title, cardAction.Value)
			}
		case pkg.ActionEvent:
			fmt.Printf("[event] %s %s\n", action.Event, action.Value)
		}
	}
}
