package speech

import (
	"errors"
	"fmt"
	"net/http"

	"speech-forge-api/internal/audio"

	"github.com/gin-gonic/gin"
)

type SpeechController struct {
	SpeechService SpeechServicePort
}

func NewSpeechController(ss SpeechServicePort) *SpeechController {
	return &SpeechController{SpeechService: ss}
}

func (sc *SpeechController) Synthesize(c *gin.Context) {
	var input SynthesisInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	art, err := sc.SpeechService.Synthesize(c.Request.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, ErrQuotaExhausted):
			c.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error()})
		case errors.Is(err, audio.ErrNoAudio):
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no audio generated"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", art.Filename))
	c.Data(http.StatusOK, art.MimeType, art.Data)
}
