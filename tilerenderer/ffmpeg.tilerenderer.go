package tilerenderer

import (
	"fmt"
	"os/exec"
	"strings"
)

// encodeVideo turns the numbered PNG frames in framesDir into an mp4.
// ffmpeg consumes the frames in strict index order, which is the only
// timing authority the encoder sees.
func encodeVideo(framesDir, outputPath string, fps int) error {
	cmdArgs := []string{
		"-framerate", fmt.Sprintf("%d", fps),
		"-i", framesDir + "/fr%05d.png",
		"-preset", "veryfast",
		"-c:v", "libx264",
		"-pix_fmt", "yuv420p",
		"-tune", "animation",
		"-y",
		outputPath,
	}

	cmd := exec.Command("ffmpeg", cmdArgs...)

	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("tilerenderer: ffmpeg %s: %w: %s",
			strings.Join(cmdArgs, " "), err, out)
	}

	return nil
}
