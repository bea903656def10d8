package services

import (
	"strings"
	"testing"

	"github.com/sightreel/sightreel/internal/models"
)

func TestEffectForSceneCycles(t *testing.T) {
	want := []ClipEffect{
		EffectZoomIn, EffectZoomOut, EffectPanLeft,
		EffectPanRight, EffectZoomInSlow, EffectZoomOutSlow,
	}

	for i := 0; i < 12; i++ {
		if got := EffectForScene(i); got != want[i%6] {
			t.Errorf("EffectForScene(%d) = %s, want %s", i, got, want[i%6])
		}
	}
}

func TestRenderSizeForRatio(t *testing.T) {
	cases := []struct {
		ratio models.AspectRatio
		w, h  int
	}{
		{models.AspectRatio16x9, 1280, 720},
		{models.AspectRatio9x16, 720, 1280},
		{models.AspectRatio1x1, 1080, 1080},
		{models.AspectRatio("4:3"), 1280, 720}, // unknown falls back to landscape
	}

	for _, tc := range cases {
		size := renderSizeForRatio(tc.ratio)
		if size.Width != tc.w || size.Height != tc.h {
			t.Errorf("renderSizeForRatio(%s) = %dx%d, want %dx%d", tc.ratio, size.Width, size.Height, tc.w, tc.h)
		}
	}
}

func TestGenerationSizeForRatio(t *testing.T) {
	cases := []struct {
		ratio models.AspectRatio
		w, h  int
	}{
		{models.AspectRatio16x9, 1344, 768},
		{models.AspectRatio9x16, 768, 1344},
		{models.AspectRatio1x1, 1024, 1024},
		{models.AspectRatio("unknown"), 1024, 1024},
	}

	for _, tc := range cases {
		size := generationSizeForRatio(tc.ratio)
		if size.Width != tc.w || size.Height != tc.h {
			t.Errorf("generationSizeForRatio(%s) = %dx%d, want %dx%d", tc.ratio, size.Width, size.Height, tc.w, tc.h)
		}
	}
}

func TestBuildSceneFilterFrameFloor(t *testing.T) {
	// 1 second at 25fps is 25 frames, below the 75-frame floor.
	filter := buildSceneFilter(EffectZoomIn, 1.0, models.AspectRatio16x9)
	if !strings.Contains(filter, ":d=75:") {
		t.Errorf("short scene should hit the 75-frame floor, got %q", filter)
	}

	// 10 seconds is 250 frames, above the floor.
	filter = buildSceneFilter(EffectZoomIn, 10.0, models.AspectRatio16x9)
	if !strings.Contains(filter, ":d=250:") {
		t.Errorf("10s scene should render 250 frames, got %q", filter)
	}
}

func TestBuildSceneFilterEffects(t *testing.T) {
	cases := []struct {
		effect ClipEffect
		expr   string
	}{
		{EffectZoomIn, "z='min(zoom+0.002,1.2)'"},
		{EffectZoomOut, "z='max(zoom-0.002,0.9)'"},
		{EffectZoomInSlow, "z='min(zoom+0.001,1.1)'"},
		{EffectZoomOutSlow, "z='max(zoom-0.001,0.95)'"},
		{EffectPanLeft, "x='iw-(iw/zoom)*75/75':z=1"},
		{EffectPanRight, "x='0':z=1"},
		{ClipEffect("bogus"), "z='min(zoom+0.002,1.2)'"}, // unknown falls back to zoom in
	}

	for _, tc := range cases {
		filter := buildSceneFilter(tc.effect, 2.0, models.AspectRatio9x16)
		if !strings.Contains(filter, tc.expr) {
			t.Errorf("filter for %s missing %q: %q", tc.effect, tc.expr, filter)
		}
		if !strings.Contains(filter, "s=720x1280") {
			t.Errorf("filter for %s missing 9:16 size: %q", tc.effect, filter)
		}
		if !strings.Contains(filter, "pad=720:1280:(ow-iw)/2:(oh-ih)/2:color=black") {
			t.Errorf("filter for %s missing pad stage: %q", tc.effect, filter)
		}
		if !strings.HasSuffix(filter, "format=yuv420p") {
			t.Errorf("filter for %s must end in yuv420p: %q", tc.effect, filter)
		}
	}
}

func TestLastLines(t *testing.T) {
	out := lastLines("a\nb\nc\nd\ne\nf\ng", 3)
	if out != "e\nf\ng" {
		t.Errorf("lastLines = %q", out)
	}
	if got := lastLines("only", 5); got != "only" {
		t.Errorf("lastLines short input = %q", got)
	}
}
