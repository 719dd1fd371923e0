package speech

import "github.com/gin-gonic/gin"

func RegisterRoutes(r *gin.Engine, speechService SpeechServicePort) {
	speechController := NewSpeechController(speechService)

	speechGroup := r.Group("/api/speech")
	{
		speechGroup.POST("", speechController.Synthesize)
	}
}
