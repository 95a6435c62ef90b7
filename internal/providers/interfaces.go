package providers

import (
	"context"

	"github.com/voxlate/voxlate/internal/models"
)

// SpeechTurner performs one synchronous multimodal completion round trip:
// audio in, text and optionally synthesized audio out.
type SpeechTurner interface {
	SpeechTurn(ctx context.Context, req models.SpeechTurnRequest) (models.SpeechTurnResult, error)
}
