package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"

	"motionpong/internal/ansii"
	"motionpong/internal/config"
	"motionpong/internal/lobby"
	"motionpong/internal/netwrk"
	"motionpong/internal/pong"
	"motionpong/internal/pose"
	"motionpong/internal/renderer"
)

func main() {
	if len(os.Args) == 1 {
		config.LoadConfig("")
	} else {
		config.LoadConfig(os.Args[1])
	}
	cfg := config.Config

	slog.SetLogLoggerLevel(slog.Level(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	source, err := openSource(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}

	quit := make(chan struct{}, 1)
	sink, closeSink, err := openSink(cfg, quit)
	if err != nil {
		log.Fatal(err)
	}
	defer closeSink()

	strategy, err := pong.StrategyByName(cfg.Strategy)
	if err != nil {
		log.Fatal(err)
	}

	l := lobby.CreateLobby()
	session, err := l.Create(ctx, lobby.Options{
		Source: source,
		Sink:   sink,
		Engine: pong.NewEngine(params(cfg), strategy),
		Filter: pose.Filter{
			MinY:              cfg.FrameMinY,
			MaxY:              cfg.FrameMaxY,
			ScoreThreshold:    cfg.PoseScoreThreshold,
			MovementThreshold: cfg.YMovementThreshold,
		},
		PoseInterval:  time.Duration(cfg.HandDetectionMs) * time.Millisecond,
		FrameInterval: time.Duration(cfg.FrameRefreshMs) * time.Millisecond,
	})
	if err != nil {
		log.Fatal(err)
	}

	select {
	case <-ctx.Done():
	case <-quit:
	case <-session.Done():
	}
	l.DestroyAll()
}

func params(cfg config.Configuration) pong.Params {
	return pong.Params{
		BallRadius:    cfg.BallRadiusPx,
		BallSpeed:     cfg.BallSpeed,
		MinRotation:   cfg.BallMinRotation,
		MaxRotation:   cfg.BallMaxRotation,
		PaddleWidth:   cfg.PaddleWidth,
		PaddleHeight:  cfg.PaddleHeight,
		PaddleMargin:  cfg.PaddleMargin,
		SimpleRebound: cfg.SimpleRebound,
	}
}

func openSource(ctx context.Context, cfg config.Configuration) (pose.Source, error) {
	switch cfg.PoseSource {
	case "websocket":
		ln, err := netwrk.Listen(cfg.ListenAddr)
		if err != nil {
			return nil, err
		}
		feed := netwrk.NewFeed()
		go func() {
			if err := netwrk.Serve(ctx, ln, feed); err != nil {
				slog.Error("pose feed stopped", slog.Any("error", err))
			}
		}()
		return feed, nil
	case "replay":
		return pose.NewReplay(cfg.ReplayPath)
	case "synthetic":
		return pose.NewSynthetic(uint64(time.Now().UnixNano())), nil
	}
	return nil, fmt.Errorf("%w: %q", pose.ErrUnknownSource, cfg.PoseSource)
}

// openSink builds the configured renderer. Quit keys are reported on quit.
func openSink(cfg config.Configuration, quit chan<- struct{}) (pong.Sink, func(), error) {
	p := params(cfg)

	switch cfg.Renderer {
	case "tcell":
		surface, err := renderer.OpenTcell(cfg.FieldWidth, cfg.FieldHeight)
		if err != nil {
			return nil, nil, err
		}
		go func() {
			for {
				switch ev := surface.Screen().PollEvent().(type) {
				case nil:
					return
				case *tcell.EventKey:
					if renderer.ProcessKey(ev) == renderer.Quit {
						requestQuit(quit)
					}
				case *tcell.EventResize:
					surface.Screen().Sync()
				}
			}
		}()
		return renderer.NewPainter(surface, p), surface.Close, nil

	case "ansii":
		cols, rows, err := ansii.GetTermSize()
		if err != nil {
			return nil, nil, err
		}
		prev, err := ansii.MakeTermRaw()
		if err != nil {
			return nil, nil, err
		}
		surface, err := renderer.NewAnsiSurface(os.Stdout, cfg.FieldWidth, cfg.FieldHeight, cols, rows)
		if err != nil {
			ansii.RestoreTerm(prev)
			return nil, nil, err
		}
		fmt.Print(ansii.Screen.HideCursor)
		go func() {
			in := bufio.NewReader(os.Stdin)
			for {
				r, _, err := in.ReadRune()
				if err != nil {
					return
				}
				if renderer.ProcessInput(r) == renderer.Quit {
					requestQuit(quit)
				}
			}
		}()
		closeFn := func() {
			fmt.Print(ansii.Styles.Reset, ansii.Screen.ClearScreen, ansii.Screen.ShowCursor)
			ansii.RestoreTerm(prev)
		}
		return renderer.NewPainter(surface, p), closeFn, nil

	case "headless":
		rec := renderer.NewRecorder(cfg.FieldWidth, cfg.FieldHeight)
		rec.LogEvery = 100
		return renderer.NewPainter(rec, p), func() {}, nil
	}
	return nil, nil, fmt.Errorf("%w: %q", renderer.ErrUnknownRenderer, cfg.Renderer)
}

func requestQuit(quit chan<- struct{}) {
	select {
	case quit <- struct{}{}:
	default:
	}
}
