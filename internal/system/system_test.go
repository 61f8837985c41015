package system

import (
	"image"
	"testing"
)

func TestRecommendedWorkers(t *testing.T) {
	if w := RecommendedWorkers(0); w < 1 {
		t.Errorf("Expected at least one worker, got %d", w)
	}
	// A frame larger than any machine's memory still yields one worker
	if w := RecommendedWorkers(1 << 62); w != 1 {
		t.Errorf("Expected 1 worker for huge frames, got %d", w)
	}
}

func TestImagePoolClearsFrames(t *testing.T) {
	pool := NewImagePool()
	rect := image.Rect(0, 0, 4, 2)

	img := pool.Get(rect)
	if img.Rect != rect {
		t.Fatalf("Expected bounds %v, got %v", rect, img.Rect)
	}
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	pool.Put(img)

	again := pool.Get(rect)
	for i, v := range again.Pix {
		if v != 0 {
			t.Fatalf("Pixel byte %d not cleared: %d", i, v)
		}
	}

	pool.Put(image.NewRGBA(image.Rect(0, 0, 1, 1))) // unknown bounds, ignored
	pool.Put(nil)
}
