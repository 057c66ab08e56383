package config

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"

	"github.com/BurntSushi/toml"
)

const defaultPath = "config.toml"

var Config = Default()

type Configuration struct {
	LogLevel int `toml:"log_level"`

	HandDetectionMs int `toml:"hand_detection_ms"`
	FrameRefreshMs  int `toml:"frame_refresh_ms"`

	PoseScoreThreshold float64 `toml:"pose_score_threshold"`
	YMovementThreshold float64 `toml:"y_movement_threshold"`
	FrameMinY          float64 `toml:"frame_min_y"`
	FrameMaxY          float64 `toml:"frame_max_y"`

	BallRadiusPx    int     `toml:"ball_radius_px"`
	BallSpeed       float64 `toml:"ball_speed"`
	BallMinRotation float64 `toml:"ball_min_rotation"`
	BallMaxRotation float64 `toml:"ball_max_rotation"`

	PaddleWidth  int `toml:"paddle_width"`
	PaddleHeight int `toml:"paddle_height"`
	PaddleMargin int `toml:"paddle_margin"`

	FieldWidth  int `toml:"field_width"`
	FieldHeight int `toml:"field_height"`

	SimpleRebound bool   `toml:"simple_rebound"`
	Strategy      string `toml:"strategy"`

	PoseSource string `toml:"pose_source"`
	ListenAddr string `toml:"listen_addr"`
	ReplayPath string `toml:"replay_path"`

	Renderer string `toml:"renderer"`
}

// Default mirrors the constants the game was tuned with.
func Default() Configuration {
	return Configuration{
		LogLevel:           int(slog.LevelInfo),
		HandDetectionMs:    30,
		FrameRefreshMs:     20,
		PoseScoreThreshold: 0.275,
		YMovementThreshold: 0.01,
		FrameMinY:          0.25,
		FrameMaxY:          0.98,
		BallRadiusPx:       10,
		BallSpeed:          30,
		BallMinRotation:    3.0 / 4.0 * math.Pi,
		BallMaxRotation:    5.0 / 4.0 * math.Pi,
		PaddleWidth:        10,
		PaddleHeight:       70,
		PaddleMargin:       20,
		FieldWidth:         640,
		FieldHeight:        480,
		Strategy:           "track",
		PoseSource:         "websocket",
		ListenAddr:         "127.0.0.1:42069",
		Renderer:           "tcell",
	}
}

// Load reads a TOML file on top of the defaults. Keys missing from the file
// keep their default value.
func Load(path string) (Configuration, error) {
	c := Default()
	if path == "" {
		path = defaultPath
	}
	if _, err := toml.DecodeFile(path, &c); err != nil {
		return Default(), fmt.Errorf("decoding config %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return Default(), err
	}
	return c, nil
}

func LoadConfig(path string) {
	c, err := Load(path)
	if err != nil {
		slog.Info("failed to read configuration, using default config instead", slog.Any("error", err))
	}
	Config = c
}

// WriteDefault writes the default configuration to path so it can be edited.
func WriteDefault(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(Default())
}

func (c Configuration) Validate() error {
	var errs []error
	if c.HandDetectionMs <= 0 || c.FrameRefreshMs <= 0 {
		errs = append(errs, errors.New("tick intervals must be positive"))
	}
	if c.BallSpeed <= 0 {
		errs = append(errs, errors.New("ball_speed must be positive"))
	}
	if c.FieldWidth <= 0 || c.FieldHeight <= 0 {
		errs = append(errs, errors.New("field dimensions must be positive"))
	}
	if c.PaddleWidth <= 0 || c.PaddleHeight <= 0 || c.BallRadiusPx <= 0 {
		errs = append(errs, errors.New("paddle and ball sizes must be positive"))
	}
	if c.FrameMaxY <= c.FrameMinY {
		errs = append(errs, fmt.Errorf("frame_max_y %v must be above frame_min_y %v", c.FrameMaxY, c.FrameMinY))
	}
	return errors.Join(errs...)
}
