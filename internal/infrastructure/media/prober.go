// Package media shells out to ffprobe/ffmpeg to read technical metadata from
// locally received video files and derive a representative thumbnail frame.
// It is a pure transformation from the caller's perspective: no persistence,
// only a temp file the caller owns.
package media

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"os/exec"
	"strconv"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
)

// ErrUnreadableMedia marks a file whose container or codec cannot be probed.
var ErrUnreadableMedia = errors.New("media: unreadable container or codec")

// thumbnailOffsetSeconds is where the representative frame is sampled from.
// Sources shorter than this fall back to the first frame.
const thumbnailOffsetSeconds = 4.0

// ProbeResult carries the extracted technical metadata.
type ProbeResult struct {
	DurationSeconds float64
}

// Config locates the codec tooling.
type Config struct {
	FFprobePath string // default "ffprobe"
	FFmpegPath  string // default "ffmpeg"
	Timeout     time.Duration
	TempDir     string // default os.TempDir()
}

// Prober extracts duration and thumbnails via the ffmpeg toolchain.
type Prober struct {
	ffprobe string
	ffmpeg  string
	timeout time.Duration
	tempDir string
	log     *log.Helper
}

// NewProber constructs a Prober with sensible tool-path defaults.
func NewProber(cfg Config, logger log.Logger) *Prober {
	if cfg.FFprobePath == "" {
		cfg.FFprobePath = "ffprobe"
	}
	if cfg.FFmpegPath == "" {
		cfg.FFmpegPath = "ffmpeg"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.TempDir == "" {
		cfg.TempDir = os.TempDir()
	}
	return &Prober{
		ffprobe: cfg.FFprobePath,
		ffmpeg:  cfg.FFmpegPath,
		timeout: cfg.Timeout,
		tempDir: cfg.TempDir,
		log:     log.NewHelper(logger),
	}
}

// Probe reads the container duration. Returns ErrUnreadableMedia when the
// file cannot be parsed as media at all.
func (p *Prober) Probe(ctx context.Context, path string) (ProbeResult, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, p.ffprobe,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "json",
		path,
	)

	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		p.log.WithContext(ctx).Warnf("ffprobe failed: path=%s err=%v", path, err)
		return ProbeResult{}, fmt.Errorf("%w: %v", ErrUnreadableMedia, err)
	}

	duration, err := parseProbeOutput(out.Bytes())
	if err != nil {
		return ProbeResult{}, err
	}
	return ProbeResult{DurationSeconds: duration}, nil
}

// ExtractThumbnail samples one frame and writes it as a PNG under the temp
// dir, returning its path. The caller owns cleanup of that file, whether the
// upload succeeds or the pipeline aborts.
func (p *Prober) ExtractThumbnail(ctx context.Context, path string, durationSeconds float64) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	offset := thumbnailOffsetSeconds
	if durationSeconds < thumbnailOffsetSeconds {
		offset = 0 // source shorter than the sample point: take the first frame
	}

	thumbPath := p.tempDir + string(os.PathSeparator) + "thumb-" + uuid.New().String() + ".png"
	cmd := exec.CommandContext(ctx, p.ffmpeg,
		"-ss", strconv.FormatFloat(offset, 'f', -1, 64),
		"-i", path,
		"-frames:v", "1",
		"-q:v", "2",
		"-y",
		thumbPath,
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		p.log.WithContext(ctx).Warnf("ffmpeg thumbnail failed: path=%s err=%v output=%s", path, err, stderr.String())
		return "", fmt.Errorf("%w: extract thumbnail: %v", ErrUnreadableMedia, err)
	}
	return thumbPath, nil
}

// parseProbeOutput decodes ffprobe's JSON and validates the duration is a
// finite, non-negative number. Policy checks (minimum publishable length)
// belong to the caller, not here.
func parseProbeOutput(raw []byte) (float64, error) {
	var payload struct {
		Format struct {
			Duration string `json:"duration"`
		} `json:"format"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return 0, fmt.Errorf("%w: decode ffprobe output: %v", ErrUnreadableMedia, err)
	}
	if payload.Format.Duration == "" {
		return 0, fmt.Errorf("%w: no duration in container", ErrUnreadableMedia)
	}
	duration, err := strconv.ParseFloat(payload.Format.Duration, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: malformed duration %q", ErrUnreadableMedia, payload.Format.Duration)
	}
	if math.IsNaN(duration) || math.IsInf(duration, 0) || duration < 0 {
		return 0, fmt.Errorf("%w: duration out of range", ErrUnreadableMedia)
	}
	return duration, nil
}
