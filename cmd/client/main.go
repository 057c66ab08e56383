package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"motionpong/internal/config"
	"motionpong/internal/netwrk"
	"motionpong/internal/pose"
)

// The client stands in for the camera side: it streams right wrist samples to
// the server's pose feed.
func main() {
	configPath := flag.String("config", "", "path to the config file")
	replayPath := flag.String("replay", "", "recorded trace to stream instead of synthetic motion")
	seed := flag.Uint64("seed", uint64(time.Now().UnixNano()), "seed for synthetic motion")
	flag.Parse()

	config.LoadConfig(*configPath)
	cfg := config.Config
	slog.SetLogLoggerLevel(slog.Level(cfg.LogLevel))

	var src pose.Source = pose.NewSynthetic(*seed)
	if *replayPath != "" {
		replay, err := pose.NewReplay(*replayPath)
		if err != nil {
			log.Fatal(err)
		}
		src = replay
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	url := fmt.Sprintf("ws://%s%s", cfg.ListenAddr, netwrk.PosePath)
	c, err := netwrk.Dial(ctx, url)
	if err != nil {
		log.Fatal(err)
	}
	defer c.Close()

	slog.Info("streaming pose samples", slog.String("url", url), slog.String("client", c.ID))
	if err := netwrk.Stream(ctx, c, src, time.Duration(cfg.HandDetectionMs)*time.Millisecond); err != nil {
		log.Println("pose stream ended:", err)
	}
}
