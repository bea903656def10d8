package services

import "context"

// ---------------------------------------------------------------------------
// TTSService — narration speech synthesis
// The render pipeline depends on this interface so tests can substitute a
// fake synthesizer; ElevenLabs is the production implementation.
// ---------------------------------------------------------------------------

// TTSService converts text into raw audio bytes for a given voice id.
type TTSService interface {
	// Synthesize returns the audio for text spoken by voiceID.
	// Implementations own their retry policy; an error means the retry
	// budget is exhausted and the caller should abort.
	Synthesize(ctx context.Context, text, voiceID string) ([]byte, error)
}
