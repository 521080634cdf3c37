package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	"io"
	"os/exec"

	"github.com/Jacktheone617/reddit-story-video-generator/internal/system"
)

// Encoder wraps one ffmpeg H.264 encoder choice and its quality knob.
// VideoToolbox takes a bitrate factor, the others a CRF-style value.
type Encoder struct {
	Name    string
	Quality int
}

// NewEncoder resolves the encoder, probing hardware support when name
// is empty and filling in an encoder-appropriate default quality.
func NewEncoder(name string, quality int) *Encoder {
	if name == "" {
		name = system.GetBestH264Encoder()
	}
	if quality == 0 {
		quality = system.DefaultQuality(name)
	}
	return &Encoder{Name: name, Quality: quality}
}

func (e *Encoder) qualityArgs() []string {
	switch e.Name {
	case "h264_videotoolbox":
		// VideoToolbox does not take -q:v reliably; use bitrate.
		return []string{"-b:v", fmt.Sprintf("%dk", e.Quality*100)}
	case "h264_nvenc":
		return []string{"-cq", fmt.Sprintf("%d", e.Quality)}
	default:
		return []string{"-crf", fmt.Sprintf("%d", e.Quality), "-preset", "medium"}
	}
}

// EncodeFrames pipes rendered frames to ffmpeg as raw RGBA over stdin,
// avoiding any intermediate image files on disk. render is called once
// per frame index; returned buffers go back to the frame pool after
// they are written.
func (e *Encoder) EncodeFrames(ctx context.Context, width, height, fps, frameCount int, render func(frame int) (*image.RGBA, error), outPath string) error {
	args := []string{
		"-y",
		"-f", "rawvideo",
		"-pixel_format", "rgba",
		"-video_size", fmt.Sprintf("%dx%d", width, height),
		"-framerate", fmt.Sprintf("%d", fps),
		"-i", "-",
		"-pix_fmt", "yuv420p",
		"-c:v", e.Name,
	}
	args = append(args, e.qualityArgs()...)
	args = append(args, outPath)

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	var ffmpegLog bytes.Buffer
	cmd.Stdout = &ffmpegLog
	cmd.Stderr = &ffmpegLog

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("stdin pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("ffmpeg start: %w", err)
	}

	writeErr := func() error {
		defer stdin.Close()
		for i := 0; i < frameCount; i++ {
			frame, err := render(i)
			if err != nil {
				return fmt.Errorf("frame %d: %w", i, err)
			}
			err = writeRawRGBA(stdin, frame)
			system.PutImage(frame)
			if err != nil {
				return fmt.Errorf("write frame %d: %w", i, err)
			}
		}
		return nil
	}()

	if err := cmd.Wait(); err != nil {
		if writeErr != nil {
			return writeErr
		}
		return fmt.Errorf("ffmpeg: %v\n%s", err, ffmpegLog.String())
	}
	return writeErr
}

// writeRawRGBA streams an image's pixels in the layout ffmpeg expects.
// Non-standard strides are normalized through a copy first.
func writeRawRGBA(w io.Writer, img *image.RGBA) error {
	bounds := img.Bounds()
	if img.Stride != bounds.Dx()*4 || bounds.Min.X != 0 || bounds.Min.Y != 0 {
		norm := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(norm, norm.Bounds(), img, bounds.Min, draw.Src)
		img = norm
	}
	_, err := w.Write(img.Pix)
	return err
}
