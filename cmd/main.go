package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jessevdk/go-flags"
	"github.com/lucasepe/codename"

	"guildcloner/clients/discord"
	"guildcloner/config"
	"guildcloner/services/mappings"
	"guildcloner/services/statestore"
	"guildcloner/usecases/cloner"
)

type Options struct {
	SourceGuildID string `long:"from" description:"Source guild id to replicate"`
	DestGuildID   string `long:"new" description:"Existing destination guild id (a new guild is created when omitted)"`
	Resume        bool   `long:"resume" description:"Resume an interrupted run from the saved state file, skipping completed phases"`
	LoadState     bool   `long:"load-state" description:"Load the saved state file but re-run every enabled phase against its mappings"`
	SaveState     bool   `long:"save-state" description:"Save run state on interrupt so the run can be resumed later"`
	RandomName    bool   `long:"random-name" description:"Name the destination with a generated codename instead of templating the source name"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)

	_, err := parser.Parse()
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if opts.SourceGuildID == "" && !opts.Resume && !opts.LoadState {
		fmt.Fprintf(os.Stderr, "Error: --from is required unless resuming with --resume or --load-state\n")
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	if opts.RandomName {
		rng, err := codename.DefaultRNG()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error seeding name generator: %v\n", err)
			os.Exit(1)
		}
		cfg.CloneSettings.NameSyntax = codename.Generate(rng, 0)
		log.Printf("📋 Destination will be named %q", cfg.CloneSettings.NameSyntax)
	}

	client, err := discord.NewDiscordClient("Bot "+cfg.BotToken, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating Discord client: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := client.Connect(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error connecting to Discord: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if err := client.Close(); err != nil {
			log.Printf("⚠️ Failed to close Discord connection: %v", err)
		}
	}()

	mappingStore := mappings.NewStore()
	stateStore := statestore.NewStore(cfg.StateFile)
	engine := cloner.NewClonerUseCase(client, *cfg, mappingStore, stateStore)
	log.Printf("🆔 Replication run: %s", engine.RunID())

	sourceGuildID, destGuildID := opts.SourceGuildID, opts.DestGuildID
	if opts.Resume || opts.LoadState {
		savedSource, savedDest, err := engine.LoadState()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading saved run state: %v\n", err)
			os.Exit(1)
		}
		sourceGuildID, destGuildID = savedSource, savedDest
		if !opts.Resume {
			engine.ResetResumePoint()
		}
	}

	if err := engine.AcquireGuilds(ctx, sourceGuildID, destGuildID); err != nil {
		fmt.Fprintf(os.Stderr, "Error acquiring guilds: %v\n", err)
		os.Exit(1)
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-interrupt
		log.Printf("🔌 Interrupt received, shutting down")
		engine.Detach()
		if opts.SaveState {
			if err := engine.SaveState(); err != nil {
				log.Printf("⚠️ Failed to save run state: %v", err)
			}
		}
		cancel()
	}()

	if err := engine.Run(ctx); err != nil {
		engine.Detach()
		fmt.Fprintf(os.Stderr, "Error running replication: %v\n", err)
		os.Exit(1)
	}

	if cfg.LiveSettings.Enabled {
		log.Printf("📋 Replication finished, relaying live messages until interrupted")
		<-ctx.Done()
	}
	engine.Detach()
}
