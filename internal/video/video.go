package video

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"os/exec"

	"golang.org/x/image/draw"

	"github.com/ivlev/ledsign/internal/config"
)

// FrameEncoder consumes rendered frames in display order.
type FrameEncoder interface {
	WriteFrame(img image.Image) error
	Close() error
}

// Options carries what an encoder needs to know about the stream
type Options struct {
	Width, Height int     // frame size in pixels
	FPS           int
	FrameDelay    float64 // seconds per frame
	Palette       color.Palette
	VideoEncoder  string
	Quality       int
}

// NewEncoder picks the encoder for the configured format.
func NewEncoder(ctx context.Context, cfg *config.Config, opts Options) (FrameEncoder, error) {
	switch cfg.Format {
	case config.FormatGIF:
		return NewGIFEncoder(cfg.OutputPath, opts)
	case config.FormatPNG:
		return NewPNGSequence(cfg.OutputPath)
	case config.FormatMP4:
		return NewFFmpegEncoder(ctx, cfg.OutputPath, opts)
	default:
		return nil, fmt.Errorf("unsupported format %q", cfg.Format)
	}
}

// FFmpegEncoder pipes raw RGBA frames into an ffmpeg process.
type FFmpegEncoder struct {
	cmd   *exec.Cmd
	stdin io.WriteCloser
}

func NewFFmpegEncoder(ctx context.Context, path string, opts Options) (*FFmpegEncoder, error) {
	cmd := exec.CommandContext(ctx, "ffmpeg", buildFFmpegArgs(path, opts)...)
	cmd.Stderr = os.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("stdin pipe error: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("ffmpeg start error: %w", err)
	}
	return &FFmpegEncoder{cmd: cmd, stdin: stdin}, nil
}

func (e *FFmpegEncoder) WriteFrame(img image.Image) error {
	if err := writeRawRGBA(e.stdin, img); err != nil {
		return fmt.Errorf("write raw error: %w", err)
	}
	return nil
}

func (e *FFmpegEncoder) Close() error {
	e.stdin.Close()
	if err := e.cmd.Wait(); err != nil {
		return fmt.Errorf("ffmpeg wait error: %w", err)
	}
	return nil
}

func buildFFmpegArgs(path string, opts Options) []string {
	args := []string{
		"-y",
		"-loglevel", "error",
		"-f", "rawvideo",
		"-pixel_format", "rgba",
		"-video_size", fmt.Sprintf("%dx%d", opts.Width, opts.Height),
		"-framerate", fmt.Sprintf("%d", opts.FPS),
		"-i", "-",
		// yuv420p needs even dimensions
		"-vf", "pad=ceil(iw/2)*2:ceil(ih/2)*2",
		"-pix_fmt", "yuv420p",
		"-c:v", opts.VideoEncoder,
	}

	// Качество в зависимости от энкодера
	switch opts.VideoEncoder {
	case "h264_videotoolbox":
		bitrate := opts.Quality * 100
		args = append(args, "-b:v", fmt.Sprintf("%dk", bitrate))
	case "h264_nvenc":
		args = append(args, "-cq", fmt.Sprintf("%d", opts.Quality))
	default: // libx264
		args = append(args, "-crf", fmt.Sprintf("%d", opts.Quality), "-preset", "medium")
	}

	return append(args, path)
}

func writeRawRGBA(w io.Writer, img image.Image) error {
	bounds := img.Bounds()
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Stride != bounds.Dx()*4 || rgba.Rect.Min.X != 0 || rgba.Rect.Min.Y != 0 {
		rgba = image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	}
	_, err := w.Write(rgba.Pix)
	return err
}
