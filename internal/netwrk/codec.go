package netwrk

import (
	"errors"
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protowire"

	"motionpong/internal/pose"
)

// Wire layout of a pose frame:
//
//	message Keypoint { string name = 1; double x = 2; double y = 3; optional double score = 4; }
//	message Frame { repeated Keypoint keypoints = 1; double width = 2; double height = 3; int64 timestamp_ms = 4; }
const (
	keypointName  protowire.Number = 1
	keypointX     protowire.Number = 2
	keypointY     protowire.Number = 3
	keypointScore protowire.Number = 4

	frameKeypoints protowire.Number = 1
	frameWidth     protowire.Number = 2
	frameHeight    protowire.Number = 3
	frameTimestamp protowire.Number = 4
)

var ErrMalformedFrame = errors.New("malformed pose frame")

// Frame is one pose estimate. Width and Height are set when keypoints are in
// frame pixels. A keypoint whose confidence is unknown has a NaN score.
type Frame struct {
	Keypoints   []pose.Keypoint
	Width       float64
	Height      float64
	TimestampMs int64
}

func appendDouble(b []byte, num protowire.Number, v float64) []byte {
	b = protowire.AppendTag(b, num, protowire.Fixed64Type)
	return protowire.AppendFixed64(b, math.Float64bits(v))
}

func marshalKeypoint(kp pose.Keypoint) []byte {
	var b []byte
	b = protowire.AppendTag(b, keypointName, protowire.BytesType)
	b = protowire.AppendString(b, kp.Name)
	b = appendDouble(b, keypointX, kp.X)
	b = appendDouble(b, keypointY, kp.Y)
	if !math.IsNaN(kp.Score) {
		b = appendDouble(b, keypointScore, kp.Score)
	}
	return b
}

func MarshalFrame(f Frame) []byte {
	var b []byte
	for _, kp := range f.Keypoints {
		b = protowire.AppendTag(b, frameKeypoints, protowire.BytesType)
		b = protowire.AppendBytes(b, marshalKeypoint(kp))
	}
	if f.Width != 0 {
		b = appendDouble(b, frameWidth, f.Width)
	}
	if f.Height != 0 {
		b = appendDouble(b, frameHeight, f.Height)
	}
	if f.TimestampMs != 0 {
		b = protowire.AppendTag(b, frameTimestamp, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(f.TimestampMs))
	}
	return b
}

// walk hands each tagged field value of b to fn, which returns how many
// bytes it consumed.
func walk(b []byte, fn func(num protowire.Number, typ protowire.Type, b []byte) (int, error)) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("%w: %v", ErrMalformedFrame, protowire.ParseError(n))
		}
		b = b[n:]
		n, err := fn(num, typ, b)
		if err != nil {
			return err
		}
		if n < 0 {
			return fmt.Errorf("%w: %v", ErrMalformedFrame, protowire.ParseError(n))
		}
		b = b[n:]
	}
	return nil
}

func consumeDouble(b []byte, dst *float64) int {
	v, n := protowire.ConsumeFixed64(b)
	if n >= 0 {
		*dst = math.Float64frombits(v)
	}
	return n
}

func unmarshalKeypoint(b []byte) (pose.Keypoint, error) {
	kp := pose.Keypoint{Score: math.NaN()}
	err := walk(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch {
		case num == keypointName && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			kp.Name = v
			return n, nil
		case num == keypointX && typ == protowire.Fixed64Type:
			return consumeDouble(b, &kp.X), nil
		case num == keypointY && typ == protowire.Fixed64Type:
			return consumeDouble(b, &kp.Y), nil
		case num == keypointScore && typ == protowire.Fixed64Type:
			return consumeDouble(b, &kp.Score), nil
		}
		return protowire.ConsumeFieldValue(num, typ, b), nil
	})
	return kp, err
}

func UnmarshalFrame(b []byte) (Frame, error) {
	var f Frame
	err := walk(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch {
		case num == frameKeypoints && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return n, nil
			}
			kp, err := unmarshalKeypoint(v)
			if err != nil {
				return 0, err
			}
			f.Keypoints = append(f.Keypoints, kp)
			return n, nil
		case num == frameWidth && typ == protowire.Fixed64Type:
			return consumeDouble(b, &f.Width), nil
		case num == frameHeight && typ == protowire.Fixed64Type:
			return consumeDouble(b, &f.Height), nil
		case num == frameTimestamp && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			f.TimestampMs = int64(v)
			return n, nil
		}
		return protowire.ConsumeFieldValue(num, typ, b), nil
	})
	if err != nil {
		return Frame{}, err
	}
	return f, nil
}

// RightWrist extracts the tracked keypoint normalized to the frame. ok is
// false when the wrist is missing or its confidence is unknown.
func (f Frame) RightWrist() (pose.Keypoint, bool) {
	kp, ok := pose.FindKeypoint(f.Keypoints, pose.RightWrist)
	if !ok || math.IsNaN(kp.Score) {
		return pose.Keypoint{}, false
	}
	if f.Width > 0 || f.Height > 0 {
		kp = pose.ToNormalized([]pose.Keypoint{kp}, f.Width, f.Height)[0]
	}
	return kp, true
}
