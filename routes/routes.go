package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/JohnZolton/Zynq/controllers"
	"github.com/JohnZolton/Zynq/middlewares"
)

func SetupRouter(
	fc *controllers.FoodController,
	dc *controllers.DiaryController,
	rc *controllers.RealtimeController,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middlewares.RequestLogger())

	search := r.Group("/search")
	{
		search.POST("/query", fc.QueryChanged)
		search.GET("/suggestions", fc.Suggestions)
	}

	r.GET("/foods/:id", fc.GetFood)

	diary := r.Group("/diary")
	{
		diary.GET("", dc.GetDiary)
		diary.PUT("/date", dc.SetDate)
		diary.POST("/navigate", dc.Navigate)
		diary.POST("/entries", dc.LogFood)
		diary.PATCH("/entries/:id", dc.UpdateFood)
		diary.DELETE("/entries/:id", dc.DeleteFood)
	}

	r.GET("/ws/diary", rc.DiaryWS)

	return r
}
