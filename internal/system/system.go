package system

import (
	"log"
	"os/exec"
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// RecommendedWorkers sizes the frame render pool: one worker per physical
// core, limited so that every worker can hold frameBytes of pixels in
// available memory with room to spare.
func RecommendedWorkers(frameBytes int) int {
	workers, err := cpu.Counts(false)
	if err != nil || workers <= 0 {
		workers = runtime.NumCPU()
	}

	if frameBytes > 0 {
		vm, err := mem.VirtualMemory()
		if err != nil {
			log.Printf("[!] Не удалось получить объём памяти: %v", err)
		} else {
			// Keep the pool under a quarter of the free memory
			budget := vm.Available / 4
			if limit := int(budget / uint64(frameBytes)); limit < workers {
				workers = limit
			}
		}
	}

	if workers < 1 {
		workers = 1
	}
	return workers
}

// HasFFmpeg reports whether the ffmpeg binary is on PATH
func HasFFmpeg() bool {
	_, err := exec.LookPath("ffmpeg")
	return err == nil
}

func GetBestH264Encoder() string {
	// Приоритеты:
	// 1. MacOS (VideoToolbox)
	// 2. NVIDIA (NVENC)
	// 3. Software (libx264)
	out, err := exec.Command("ffmpeg", "-hide_banner", "-encoders").CombinedOutput()
	if err != nil {
		return "libx264"
	}

	for _, name := range []string{"h264_videotoolbox", "h264_nvenc"} {
		if strings.Contains(string(out), name) {
			return name
		}
	}
	return "libx264"
}
