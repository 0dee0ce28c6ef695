package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"reward-engine/controller"
	"reward-engine/service"
)

func Init(s service.IService) *gin.Engine {
	r := gin.Default()
	group := r.Group("")

	group.Use(Cors())

	group.GET("/streams", controller.StreamListEndpoint(s))
	group.GET("/positions", controller.PositionListEndpoint(s))
	group.GET("/pending", controller.PendingRewardEndpoint(s))
	group.GET("/global", controller.GlobalStateEndpoint(s))
	group.GET("/stakeHistory", controller.StakeHistoryEndpoint(s))
	group.GET("/rewardHistory", controller.RewardHistoryEndpoint(s))
	group.GET("/principalHistory", controller.PrincipalHistoryEndpoint(s))
	group.GET("/apr", controller.StreamAPREndpoint(s))

	group.POST("/stake", controller.StakeEndpoint(s))
	group.POST("/withdraw", controller.WithdrawEndpoint(s))
	group.POST("/claim", controller.ClaimEndpoint(s))

	admin := r.Group("/admin")
	admin.Use(Cors())
	admin.POST("/stream", controller.AddStreamEndpoint(s))
	admin.POST("/streamRemove", controller.RemoveStreamEndpoint(s))
	admin.POST("/rewardRate", controller.RewardRateEndpoint(s))
	return r
}

func Cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		method := c.Request.Method
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Header("Access-Control-Allow-Origin", "*")
			c.Header("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE, UPDATE")
			c.Header("Access-Control-Allow-Headers", "Origin, X-Requested-With, Content-Type, Accept, Authorization")
			c.Header("Access-Control-Expose-Headers", "Content-Length, Access-Control-Allow-Origin, Access-Control-Allow-Headers, Cache-Control, Content-Language, Content-Type")
			c.Header("Access-Control-Allow-Credentials", "true")
		}
		if method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
		}
		c.Next()
	}
}
