/* main.go
 * The "main" method for running the simulator. Starts the HTTP server and the Discord bot over one session
 * Usage: go run . --roster teams.yaml --seed 42
 */

package main

import (
	"context"
	"log"
	"major-sim/api/api"
	"major-sim/api/game"
	"major-sim/api/roster"
	"major-sim/api/shared"
	"major-sim/bot"
	"major-sim/web"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	flag "github.com/spf13/pflag"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file loaded, using the process environment")
	}

	cfg, err := configFromEnv(os.Getenv)
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	//Flags override the environment
	flag.StringVarP(&cfg.RosterFile, "roster", "r", cfg.RosterFile, "Path to a roster YAML file, the built in roster if empty")
	flag.Int64VarP(&cfg.Seed, "seed", "s", cfg.Seed, "Random seed, 0 picks one from the clock")
	flag.StringVarP(&cfg.HTTPAddr, "addr", "a", cfg.HTTPAddr, "HTTP listen address, the server is off if empty")
	noBot := flag.Bool("no-bot", false, "Do not connect to Discord")
	flag.CommandLine.SortFlags = false
	flag.Parse()

	teams, err := roster.Load(cfg.RosterFile)
	if err != nil {
		log.Fatalf("failed to load roster: %v", err)
	}
	g, err := game.New(game.Config{Teams: teams, Settings: cfg.Settings, Rand: shared.NewRand(cfg.Seed)})
	if err != nil {
		log.Fatalf("failed to create game: %v", err)
	}

	apiPtr, err := api.NewAPI(cfg.MongoDB, cfg.MongoURI, g)
	if err != nil {
		log.Fatalf("failed to initialize API: %v", err)
	}
	defer func() {
		if apiPtr.Store == nil {
			return
		}
		if err = apiPtr.Store.GetClient().Disconnect(context.TODO()); err != nil {
			log.Println("failed to disconnect from mongo:", err)
		}
	}()

	if cfg.HTTPAddr != "" {
		go func() {
			if err := web.Start(web.Config{Addr: cfg.HTTPAddr, API: apiPtr}); err != nil {
				log.Fatalf("HTTP server stopped: %v", err)
			}
		}()
	}

	if *noBot || cfg.DiscordToken == "" {
		if cfg.HTTPAddr == "" {
			log.Fatal("nothing to run: set DISCORD_TOKEN or HTTP_ADDR")
		}
		log.Println("running without the Discord bot")
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		<-ctx.Done()
		g.StopAutoPlay()
		return
	}

	b, err := bot.NewBot(cfg.DiscordToken, apiPtr)
	if err != nil {
		log.Fatalf("failed to create bot: %v", err)
	}
	if err := b.Run(); err != nil {
		log.Fatalf("bot stopped: %v", err)
	}
}
